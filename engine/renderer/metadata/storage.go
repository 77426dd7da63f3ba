package metadata

import (
	"fmt"
	"strings"

	"github.com/spaghettifunk/anima-hal/engine/core"
)

/**
 * @brief The type of a member of a shader storage buffer.
 */
type BufferMemberType int

const (
	BufferMemberBoolean BufferMemberType = iota
	BufferMemberInt
	BufferMemberUint
	BufferMemberFloat
	BufferMemberDouble
	BufferMemberVector2Boolean
	BufferMemberVector2Int
	BufferMemberVector2Uint
	BufferMemberVector2Float
	BufferMemberVector2Double
	BufferMemberVector3Boolean
	BufferMemberVector3Int
	BufferMemberVector3Uint
	BufferMemberVector3Float
	BufferMemberVector3Double
	BufferMemberVector4Boolean
	BufferMemberVector4Int
	BufferMemberVector4Uint
	BufferMemberVector4Float
	BufferMemberVector4Double
	BufferMemberMatrix22Float
	BufferMemberMatrix33Float
	BufferMemberMatrix44Float
	/** @brief A nested struct, its size is the sum of its members. */
	BufferMemberStruct
)

type bufferMemberInfo struct {
	name string
	size int
}

var bufferMemberInfos = [...]bufferMemberInfo{
	BufferMemberBoolean:        {"BOOLEAN", 4},
	BufferMemberInt:            {"INT", 4},
	BufferMemberUint:           {"UINT", 4},
	BufferMemberFloat:          {"FLOAT", 4},
	BufferMemberDouble:         {"DOUBLE", 8},
	BufferMemberVector2Boolean: {"VECTOR2_BOOLEAN", 8},
	BufferMemberVector2Int:     {"VECTOR2_INT", 8},
	BufferMemberVector2Uint:    {"VECTOR2_UINT", 8},
	BufferMemberVector2Float:   {"VECTOR2_FLOAT", 8},
	BufferMemberVector2Double:  {"VECTOR2_DOUBLE", 16},
	BufferMemberVector3Boolean: {"VECTOR3_BOOLEAN", 12},
	BufferMemberVector3Int:     {"VECTOR3_INT", 12},
	BufferMemberVector3Uint:    {"VECTOR3_UINT", 12},
	BufferMemberVector3Float:   {"VECTOR3_FLOAT", 12},
	BufferMemberVector3Double:  {"VECTOR3_DOUBLE", 24},
	BufferMemberVector4Boolean: {"VECTOR4_BOOLEAN", 16},
	BufferMemberVector4Int:     {"VECTOR4_INT", 16},
	BufferMemberVector4Uint:    {"VECTOR4_UINT", 16},
	BufferMemberVector4Float:   {"VECTOR4_FLOAT", 16},
	BufferMemberVector4Double:  {"VECTOR4_DOUBLE", 32},
	BufferMemberMatrix22Float:  {"MATRIX22_FLOAT", 16},
	BufferMemberMatrix33Float:  {"MATRIX33_FLOAT", 36},
	BufferMemberMatrix44Float:  {"MATRIX44_FLOAT", 64},
	BufferMemberStruct:         {"STRUCT", 0},
}

func (t BufferMemberType) String() string {
	if t < 0 || int(t) >= len(bufferMemberInfos) {
		return "UNKNOWN"
	}
	return bufferMemberInfos[t].name
}

/** @brief Size in bytes of one element. Zero for structs and unknown types. */
func (t BufferMemberType) SizeInBytes() int {
	if t < 0 || int(t) >= len(bufferMemberInfos) {
		return 0
	}
	return bufferMemberInfos[t].size
}

/**
 * @brief A member of a storage buffer or of a nested struct. Offsets are
 * relative to the start of the enclosing block.
 */
type ShaderStorageMember struct {
	Name      string
	Offset    int
	Type      BufferMemberType
	ArraySize int
	/** @brief Set only when Type is BufferMemberStruct. */
	Struct *ShaderStorageStruct
}

func (m ShaderStorageMember) elementSize() int {
	if m.Type == BufferMemberStruct {
		return m.Struct.Size()
	}
	return m.Type.SizeInBytes()
}

// memberList is the append-only, tightly packed list shared by formats and
// structs.
type memberList struct {
	items []ShaderStorageMember
	size  int
}

/** @brief Appends a member at the current end of the block. */
func (l *memberList) AddMember(name string, memberType BufferMemberType, arraySize int) error {
	if memberType == BufferMemberStruct || memberType.SizeInBytes() == 0 {
		return fmt.Errorf("member `%s`: %w: %s", name, core.ErrUnsupportedType, memberType)
	}
	return l.append(ShaderStorageMember{Name: name, Type: memberType, ArraySize: arraySize})
}

/**
 * @brief Appends a struct member. build fills the struct before it is
 * appended, so the running size only ever grows by the final struct size.
 */
func (l *memberList) AddStruct(typeName, name string, arraySize int, build func(s *ShaderStorageStruct) error) error {
	s := &ShaderStorageStruct{TypeName: typeName}
	if build != nil {
		if err := build(s); err != nil {
			return fmt.Errorf("struct `%s %s`: %w", typeName, name, err)
		}
	}
	return l.append(ShaderStorageMember{Name: name, Type: BufferMemberStruct, ArraySize: arraySize, Struct: s})
}

func (l *memberList) append(m ShaderStorageMember) error {
	if m.ArraySize < 1 {
		return fmt.Errorf("member `%s`: %w, got %d", m.Name, core.ErrInvalidArraySize, m.ArraySize)
	}
	if l.HasMember(m.Name) {
		return fmt.Errorf("member `%s`: %w", m.Name, core.ErrDuplicateMember)
	}
	m.Offset = l.size
	l.items = append(l.items, m)
	l.size += m.elementSize() * m.ArraySize
	return nil
}

func (l *memberList) HasMember(name string) bool {
	for _, item := range l.items {
		if item.Name == name {
			return true
		}
	}
	return false
}

func (l *memberList) Member(name string) (ShaderStorageMember, bool) {
	for _, item := range l.items {
		if item.Name == name {
			return item, true
		}
	}
	return ShaderStorageMember{}, false
}

/** @brief The size of the block in bytes. */
func (l *memberList) Size() int {
	return l.size
}

/** @brief A copy of the members in declaration order. */
func (l *memberList) Items() []ShaderStorageMember {
	out := make([]ShaderStorageMember, len(l.items))
	copy(out, l.items)
	return out
}

func (l *memberList) writeKey(sb *strings.Builder) {
	for i, item := range l.items {
		if i > 0 {
			sb.WriteByte(';')
		}
		sb.WriteString(item.Name)
		sb.WriteByte(':')
		if item.Type == BufferMemberStruct {
			sb.WriteString("struct ")
			sb.WriteString(item.Struct.TypeName)
			sb.WriteByte('{')
			item.Struct.writeKey(sb)
			sb.WriteByte('}')
		} else {
			sb.WriteString(item.Type.String())
		}
		fmt.Fprintf(sb, "[%d]@%d", item.ArraySize, item.Offset)
	}
}

func (l *memberList) equal(other *memberList) bool {
	if len(l.items) != len(other.items) || l.size != other.size {
		return false
	}
	for i, a := range l.items {
		b := other.items[i]
		if a.Name != b.Name || a.Offset != b.Offset || a.Type != b.Type || a.ArraySize != b.ArraySize {
			return false
		}
		if a.Type == BufferMemberStruct && !a.Struct.Equal(b.Struct) {
			return false
		}
	}
	return true
}

/**
 * @brief A named struct type nested in a storage format.
 */
type ShaderStorageStruct struct {
	memberList
	TypeName string
}

func (s *ShaderStorageStruct) Equal(other *ShaderStorageStruct) bool {
	if s == nil || other == nil {
		return s == other
	}
	return s.TypeName == other.TypeName && s.memberList.equal(&other.memberList)
}

/**
 * @brief The byte layout of a shader storage buffer. Members are packed
 * tightly in the order they are added; callers that need std430 alignment
 * add explicit padding members.
 */
type ShaderStorageFormat struct {
	memberList
}

func NewShaderStorageFormat() *ShaderStorageFormat {
	return &ShaderStorageFormat{}
}

// Key is the canonical text form of the layout.
func (f *ShaderStorageFormat) Key() string {
	var sb strings.Builder
	f.writeKey(&sb)
	return sb.String()
}

// Hash is structural: formats with equal member sequences hash equal.
func (f *ShaderStorageFormat) Hash() uint64 {
	return hashString(f.Key())
}

func (f *ShaderStorageFormat) Equal(other *ShaderStorageFormat) bool {
	if f == nil || other == nil {
		return f == other
	}
	return f.memberList.equal(&other.memberList)
}

func (f *ShaderStorageFormat) String() string {
	return fmt.Sprintf("ShaderStorageFormat{items=[%s], size=%d}", f.Key(), f.size)
}

/**
 * @brief StructuredBuffer is implemented by buffers a style can bind by name.
 */
type StructuredBuffer interface {
	// FormatIdentity is stored in the style's buffer map.
	FormatIdentity() string
}

type ShaderStorageBuffer struct {
	ID     uint32
	Name   string
	Format *ShaderStorageFormat
	Handle uint32
}

func NewShaderStorageBuffer(format *ShaderStorageFormat) *ShaderStorageBuffer {
	return &ShaderStorageBuffer{
		ID:     nextResourceID(),
		Name:   NewResourceName("storage-buffer"),
		Format: format,
	}
}

func (b *ShaderStorageBuffer) FormatIdentity() string {
	return fmt.Sprintf("%d", b.Format.Hash())
}

type AtomicCounterBuffer struct {
	ID           uint32
	Name         string
	CounterCount int
	Handle       uint32
}

func NewAtomicCounterBuffer(counterCount int) *AtomicCounterBuffer {
	return &AtomicCounterBuffer{
		ID:           nextResourceID(),
		Name:         NewResourceName("atomic-counter-buffer"),
		CounterCount: counterCount,
	}
}

func (b *AtomicCounterBuffer) FormatIdentity() string {
	return "AtomicCounterBuffer"
}
