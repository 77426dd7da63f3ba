package nullgl

import (
	"fmt"
	"regexp"
	"strconv"
	"strings"
	"sync"

	"github.com/spaghettifunk/anima-hal/engine/core"
	"github.com/spaghettifunk/anima-hal/engine/renderer"
	"github.com/spaghettifunk/anima-hal/engine/renderer/metadata"
	"github.com/spaghettifunk/anima-hal/engine/renderer/shadestyle"
)

// StateRecord is one ApplyState call.
type StateRecord struct {
	Style   metadata.DrawStyle
	Changes renderer.StateChange
}

// StyleRecord is one ApplyStyle call. Parameters holds the type tag of every
// uploaded uniform, Buffers the format identity of every bound buffer.
type StyleRecord struct {
	Program    uint32
	Parameters map[string]string
	Buffers    map[string]string
}

type program struct {
	program   *metadata.Program
	locations map[string]int
}

// Backend records every call without touching a GPU. Vertex shader inputs
// get consecutive locations in declaration order, sources containing an
// #error directive fail to link.
type Backend struct {
	mu sync.Mutex

	id         metadata.ContextID
	nextHandle uint32
	programs   map[uint32]*program
	bindings   map[uint32]*renderer.BindingLayout
	buffers    map[uint32]int

	calls     []string
	draws     []renderer.DrawCall
	states    []StateRecord
	styles    []StyleRecord
	destroyed []uint32
	shutdown  bool
}

func New(id metadata.ContextID) *Backend {
	return &Backend{
		id:       id,
		programs: make(map[uint32]*program),
		bindings: make(map[uint32]*renderer.BindingLayout),
		buffers:  make(map[uint32]int),
	}
}

func (b *Backend) ContextID() metadata.ContextID { return b.id }
func (b *Backend) Type() renderer.RendererType   { return renderer.Null }

func (b *Backend) record(format string, args ...interface{}) {
	b.calls = append(b.calls, fmt.Sprintf(format, args...))
}

func (b *Backend) handle() uint32 {
	b.nextHandle++
	return b.nextHandle
}

var inputPattern = regexp.MustCompile(`(?m)^\s*in\s+(\w+)\s+(\w+)\s*(?:\[(\d+)\])?\s*;`)

func slotsOf(glslType string) int {
	switch glslType {
	case "mat2":
		return 2
	case "mat3":
		return 3
	case "mat4":
		return 4
	}
	return 1
}

func (b *Backend) CreateProgram(name string, sources metadata.ProgramSources) (*metadata.Program, error) {
	b.mu.Lock()
	defer b.mu.Unlock()

	if b.shutdown {
		return nil, fmt.Errorf("context %d: %w", b.id, core.ErrContextDestroyed)
	}
	for stage, source := range map[metadata.ShaderStage]string{
		metadata.ShaderStageVertex:   sources.Vertex,
		metadata.ShaderStageGeometry: sources.Geometry,
		metadata.ShaderStageFragment: sources.Fragment,
	} {
		if strings.Contains(source, "#error") {
			return nil, fmt.Errorf("%w: program `%s`: %s stage contains an #error directive", core.ErrProgramGeneration, name, stage)
		}
	}
	if sources.Vertex == "" || sources.Fragment == "" {
		return nil, fmt.Errorf("%w: program `%s`: missing vertex or fragment stage", core.ErrProgramGeneration, name)
	}

	locations := make(map[string]int)
	next := 0
	for _, m := range inputPattern.FindAllStringSubmatch(sources.Vertex, -1) {
		count := 1
		if m[3] != "" {
			count, _ = strconv.Atoi(m[3])
		}
		locations[m[2]] = next
		next += slotsOf(m[1]) * count
	}

	p := metadata.NewProgram(b.id, name, sources)
	p.Handle = b.handle()
	b.programs[p.Handle] = &program{program: p, locations: locations}
	b.record("CreateProgram %s", p.Name)
	return p, nil
}

func (b *Backend) DestroyProgram(p *metadata.Program) error {
	b.mu.Lock()
	defer b.mu.Unlock()

	if _, ok := b.programs[p.Handle]; !ok {
		return fmt.Errorf("%w: program %d", core.ErrNilResource, p.Handle)
	}
	delete(b.programs, p.Handle)
	b.destroyed = append(b.destroyed, p.Handle)
	b.record("DestroyProgram %s", p.Name)
	return nil
}

func (b *Backend) AttributeLocation(p *metadata.Program, name string) int {
	b.mu.Lock()
	defer b.mu.Unlock()

	record, ok := b.programs[p.Handle]
	if !ok {
		return -1
	}
	if location, ok := record.locations[name]; ok {
		return location
	}
	return -1
}

func (b *Backend) upload(kind string, handle *uint32, data []byte) {
	if *handle == 0 {
		*handle = b.handle()
	}
	b.buffers[*handle] = len(data)
	b.record("Upload%s %d (%d bytes)", kind, *handle, len(data))
}

func (b *Backend) UploadVertexBuffer(buffer *metadata.VertexBuffer, data []byte) error {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.upload("VertexBuffer", &buffer.Handle, data)
	return nil
}

func (b *Backend) UploadIndexBuffer(buffer *metadata.IndexBuffer, data []byte) error {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.upload("IndexBuffer", &buffer.Handle, data)
	return nil
}

func (b *Backend) UploadStorageBuffer(buffer *metadata.ShaderStorageBuffer, data []byte) error {
	b.mu.Lock()
	defer b.mu.Unlock()
	if buffer.Format != nil && len(data) > buffer.Format.Size() {
		return fmt.Errorf("storage buffer %s: %d bytes exceed the format size %d", buffer.Name, len(data), buffer.Format.Size())
	}
	b.upload("StorageBuffer", &buffer.Handle, data)
	return nil
}

func (b *Backend) DestroyBuffer(handle uint32) error {
	b.mu.Lock()
	defer b.mu.Unlock()
	if _, ok := b.buffers[handle]; !ok {
		return fmt.Errorf("%w: buffer %d", core.ErrNilResource, handle)
	}
	delete(b.buffers, handle)
	b.record("DestroyBuffer %d", handle)
	return nil
}

func (b *Backend) CreateBinding(p *metadata.Program, layout *renderer.BindingLayout) (uint32, error) {
	b.mu.Lock()
	defer b.mu.Unlock()

	if b.shutdown {
		return 0, fmt.Errorf("context %d: %w", b.id, core.ErrContextDestroyed)
	}
	h := b.handle()
	b.bindings[h] = layout
	b.record("CreateBinding %d program=%s slots=%d", h, p.Name, layout.Slots())
	return h, nil
}

func (b *Backend) DestroyBinding(handle uint32) error {
	b.mu.Lock()
	defer b.mu.Unlock()

	if _, ok := b.bindings[handle]; !ok {
		return fmt.Errorf("%w: binding %d", core.ErrNilResource, handle)
	}
	delete(b.bindings, handle)
	b.record("DestroyBinding %d", handle)
	return nil
}

func (b *Backend) ApplyState(style metadata.DrawStyle, changes renderer.StateChange) error {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.states = append(b.states, StateRecord{Style: style, Changes: changes})
	b.record("ApplyState %06b", changes)
	return nil
}

func (b *Backend) ApplyStyle(p *metadata.Program, style *shadestyle.ShadeStyle) error {
	b.mu.Lock()
	defer b.mu.Unlock()

	if _, ok := b.programs[p.Handle]; !ok {
		return fmt.Errorf("%w: program %d", core.ErrNilResource, p.Handle)
	}
	record := StyleRecord{Program: p.Handle, Parameters: map[string]string{}, Buffers: map[string]string{}}
	if style != nil {
		record.Parameters = style.Parameters()
		record.Buffers = style.Buffers()
	}
	b.styles = append(b.styles, record)
	b.record("ApplyStyle %s", p.Name)
	return nil
}

func (b *Backend) Draw(call renderer.DrawCall) error {
	b.mu.Lock()
	defer b.mu.Unlock()

	if call.Binding == nil {
		return fmt.Errorf("%w: binding", core.ErrNilResource)
	}
	if _, ok := b.bindings[call.Binding.Handle]; !ok {
		return fmt.Errorf("%w: binding %d", core.ErrNilResource, call.Binding.Handle)
	}
	b.draws = append(b.draws, call)
	b.record("Draw count=%d instances=%d indexed=%t", call.Count, call.Instances, call.IndexBuffer != nil)
	return nil
}

func (b *Backend) Shutdown() error {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.shutdown = true
	b.record("Shutdown")
	return nil
}

// Calls returns the recorded call log.
func (b *Backend) Calls() []string {
	b.mu.Lock()
	defer b.mu.Unlock()
	return append([]string(nil), b.calls...)
}

func (b *Backend) Draws() []renderer.DrawCall {
	b.mu.Lock()
	defer b.mu.Unlock()
	return append([]renderer.DrawCall(nil), b.draws...)
}

func (b *Backend) States() []StateRecord {
	b.mu.Lock()
	defer b.mu.Unlock()
	return append([]StateRecord(nil), b.states...)
}

func (b *Backend) Styles() []StyleRecord {
	b.mu.Lock()
	defer b.mu.Unlock()
	return append([]StyleRecord(nil), b.styles...)
}

// Programs is the number of live programs.
func (b *Backend) Programs() int {
	b.mu.Lock()
	defer b.mu.Unlock()
	return len(b.programs)
}

// Bindings is the number of live binding objects.
func (b *Backend) Bindings() int {
	b.mu.Lock()
	defer b.mu.Unlock()
	return len(b.bindings)
}

// DestroyedPrograms lists the handles of destroyed programs in order.
func (b *Backend) DestroyedPrograms() []uint32 {
	b.mu.Lock()
	defer b.mu.Unlock()
	return append([]uint32(nil), b.destroyed...)
}

func (b *Backend) IsShutdown() bool {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.shutdown
}
