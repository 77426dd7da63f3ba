package testbed

import (
	"encoding/binary"
	m "math"

	"github.com/spaghettifunk/anima-hal/engine"
	"github.com/spaghettifunk/anima-hal/engine/assets"
	"github.com/spaghettifunk/anima-hal/engine/core"
	"github.com/spaghettifunk/anima-hal/engine/math"
	"github.com/spaghettifunk/anima-hal/engine/renderer/metadata"
	"github.com/spaghettifunk/anima-hal/engine/renderer/shadestyle"
	"github.com/spaghettifunk/anima-hal/engine/systems"
)

type TestGame struct {
	*engine.Game
}

type gameState struct {
	width  uint32
	height uint32

	time      float64
	triangle  *metadata.VertexBuffer
	offsets   *metadata.VertexBuffer
	style     *shadestyle.ShadeStyle
	drawStyle metadata.DrawStyle
}

// NewTestGame draws a few instances of a triangle with a style composed of a
// vertex wave and a fragment tint. The tint can be reloaded from
// tint.frag in the assets directory when watching is enabled.
func NewTestGame(settings *core.Config) (*TestGame, error) {
	tg := &TestGame{
		Game: &engine.Game{
			ApplicationConfig: &engine.ApplicationConfig{
				StartWidth:  1280,
				StartHeight: 720,
				Name:        "Anima shade styles",
				Settings:    settings,
				ClearColor:  math.NewColorRGBa(0.05, 0.05, 0.08, 1.0),
			},
			State: &gameState{
				drawStyle: metadata.DefaultDrawStyle(),
			},
		},
	}

	tg.FnInitialize = tg.Initialize
	tg.FnUpdate = tg.Update
	tg.FnRender = tg.Render
	tg.FnOnResize = tg.OnResize
	tg.FnShutdown = tg.Shutdown

	return tg, nil
}

func (g *TestGame) state() *gameState {
	return g.State.(*gameState)
}

func floatBytes(values ...float32) []byte {
	out := make([]byte, 0, len(values)*4)
	for _, v := range values {
		out = binary.LittleEndian.AppendUint32(out, m.Float32bits(v))
	}
	return out
}

func (g *TestGame) Initialize() error {
	core.LogInfo("initializing testbed...")
	state := g.state()
	backend := g.SystemManager.Context().Backend()

	state.triangle = metadata.NewVertexBuffer(metadata.NewVertexFormat().Position(2).Color(4), 3)
	if err := backend.UploadVertexBuffer(state.triangle, floatBytes(
		-0.1, -0.1, 1, 0, 0, 1,
		0.1, -0.1, 0, 1, 0, 1,
		0.0, 0.1, 0, 0, 1, 1,
	)); err != nil {
		return err
	}

	state.offsets = metadata.NewVertexBuffer(metadata.NewVertexFormat().Attribute("offset", metadata.VertexElementVector2Float32, 1), 4)
	if err := backend.UploadVertexBuffer(state.offsets, floatBytes(
		-0.5, 0.5,
		0.5, 0.5,
		-0.5, -0.5,
		0.5, -0.5,
	)); err != nil {
		return err
	}

	wave := shadestyle.New()
	if err := wave.Parameter("time", 0.0); err != nil {
		return err
	}
	wave.SetVertexTransform("x_position.xy += i_offset + vec2(0.0, sin(p_time + float(gl_InstanceID)) * 0.05);")
	if err := wave.Attributes(state.offsets); err != nil {
		return err
	}

	tint := shadestyle.New()
	if err := tint.Parameter("tint", math.NewColorRGBa(1.0, 0.8, 0.6, 1.0).ToLinear()); err != nil {
		return err
	}
	tint.SetFragmentTransform("x_fill = va_color * p_tint;")

	state.style = shadestyle.Compose(wave, tint)
	if err := g.SystemManager.Prewarm(systems.PrewarmRequest{
		Style:         state.style,
		VertexFormats: []*metadata.VertexFormat{state.triangle.Format},
	}); err != nil {
		return err
	}

	if g.StyleWatcher != nil {
		if err := g.StyleWatcher.Watch(state.style, assets.StyleSources{FragmentTransform: "tint.frag"}); err != nil {
			core.LogWarn("tint.frag is not watched: %s", err.Error())
		}
		core.EventRegister(core.EVENT_CODE_STYLE_RELOADED, g, g.onStyleReloaded)
	}
	return nil
}

func (g *TestGame) Update(deltaTime float64) error {
	state := g.state()
	state.time += deltaTime
	// same type as before, the program is reused
	return state.style.Parameter("time", state.time)
}

func (g *TestGame) Render(renderer *systems.RendererSystem, deltaTime float64) error {
	state := g.state()
	return renderer.DrawInstances(state.drawStyle, state.style, metadata.DrawPrimitiveTriangles,
		nil, []*metadata.VertexBuffer{state.triangle}, nil, 0, 3, 0, state.offsets.VertexCount)
}

func (g *TestGame) OnResize(width uint32, height uint32) error {
	state := g.state()
	state.width = width
	state.height = height
	return nil
}

func (g *TestGame) Shutdown() error {
	core.LogInfo("shutting down testbed...")
	state := g.state()
	backend := g.SystemManager.Context().Backend()
	for _, vb := range []*metadata.VertexBuffer{state.triangle, state.offsets} {
		if vb != nil && vb.Handle != 0 {
			if err := backend.DestroyBuffer(vb.Handle); err != nil {
				return err
			}
		}
	}
	return nil
}

func (g *TestGame) onStyleReloaded(code core.SystemEventCode, sender interface{}, listener interface{}, context core.EventContext) bool {
	core.LogInfo("%d style sources reloaded, regenerating on the next draw", context.Data.U32[0])
	return false
}
