package metadata

import (
	"fmt"
	"strings"
)

/**
 * @brief The type of a single vertex attribute.
 */
type VertexElementType int

const (
	VertexElementUint8 VertexElementType = iota
	VertexElementVector2Uint8
	VertexElementVector3Uint8
	VertexElementVector4Uint8
	VertexElementInt8
	VertexElementVector2Int8
	VertexElementVector3Int8
	VertexElementVector4Int8
	VertexElementUint16
	VertexElementVector2Uint16
	VertexElementVector3Uint16
	VertexElementVector4Uint16
	VertexElementInt16
	VertexElementVector2Int16
	VertexElementVector3Int16
	VertexElementVector4Int16
	VertexElementUint32
	VertexElementVector2Uint32
	VertexElementVector3Uint32
	VertexElementVector4Uint32
	VertexElementInt32
	VertexElementVector2Int32
	VertexElementVector3Int32
	VertexElementVector4Int32
	VertexElementFloat32
	VertexElementVector2Float32
	VertexElementVector3Float32
	VertexElementVector4Float32
	VertexElementMatrix22Float32
	VertexElementMatrix33Float32
	VertexElementMatrix44Float32
)

/** @brief The scalar type of every component of a vertex element. */
type ComponentType int

const (
	ComponentUint8 ComponentType = iota
	ComponentInt8
	ComponentUint16
	ComponentInt16
	ComponentUint32
	ComponentInt32
	ComponentFloat32
)

type vertexElementInfo struct {
	name       string
	component  ComponentType
	components int
	size       int
}

var vertexElementInfos = [...]vertexElementInfo{
	VertexElementUint8:           {"UINT8", ComponentUint8, 1, 1},
	VertexElementVector2Uint8:    {"VECTOR2_UINT8", ComponentUint8, 2, 2},
	VertexElementVector3Uint8:    {"VECTOR3_UINT8", ComponentUint8, 3, 3},
	VertexElementVector4Uint8:    {"VECTOR4_UINT8", ComponentUint8, 4, 4},
	VertexElementInt8:            {"INT8", ComponentInt8, 1, 1},
	VertexElementVector2Int8:     {"VECTOR2_INT8", ComponentInt8, 2, 2},
	VertexElementVector3Int8:     {"VECTOR3_INT8", ComponentInt8, 3, 3},
	VertexElementVector4Int8:     {"VECTOR4_INT8", ComponentInt8, 4, 4},
	VertexElementUint16:          {"UINT16", ComponentUint16, 1, 2},
	VertexElementVector2Uint16:   {"VECTOR2_UINT16", ComponentUint16, 2, 4},
	VertexElementVector3Uint16:   {"VECTOR3_UINT16", ComponentUint16, 3, 6},
	VertexElementVector4Uint16:   {"VECTOR4_UINT16", ComponentUint16, 4, 8},
	VertexElementInt16:           {"INT16", ComponentInt16, 1, 2},
	VertexElementVector2Int16:    {"VECTOR2_INT16", ComponentInt16, 2, 4},
	VertexElementVector3Int16:    {"VECTOR3_INT16", ComponentInt16, 3, 6},
	VertexElementVector4Int16:    {"VECTOR4_INT16", ComponentInt16, 4, 8},
	VertexElementUint32:          {"UINT32", ComponentUint32, 1, 4},
	VertexElementVector2Uint32:   {"VECTOR2_UINT32", ComponentUint32, 2, 8},
	VertexElementVector3Uint32:   {"VECTOR3_UINT32", ComponentUint32, 3, 12},
	VertexElementVector4Uint32:   {"VECTOR4_UINT32", ComponentUint32, 4, 16},
	VertexElementInt32:           {"INT32", ComponentInt32, 1, 4},
	VertexElementVector2Int32:    {"VECTOR2_INT32", ComponentInt32, 2, 8},
	VertexElementVector3Int32:    {"VECTOR3_INT32", ComponentInt32, 3, 12},
	VertexElementVector4Int32:    {"VECTOR4_INT32", ComponentInt32, 4, 16},
	VertexElementFloat32:         {"FLOAT32", ComponentFloat32, 1, 4},
	VertexElementVector2Float32:  {"VECTOR2_FLOAT32", ComponentFloat32, 2, 8},
	VertexElementVector3Float32:  {"VECTOR3_FLOAT32", ComponentFloat32, 3, 12},
	VertexElementVector4Float32:  {"VECTOR4_FLOAT32", ComponentFloat32, 4, 16},
	VertexElementMatrix22Float32: {"MATRIX22_FLOAT32", ComponentFloat32, 4, 16},
	VertexElementMatrix33Float32: {"MATRIX33_FLOAT32", ComponentFloat32, 9, 36},
	VertexElementMatrix44Float32: {"MATRIX44_FLOAT32", ComponentFloat32, 16, 64},
}

func (t VertexElementType) valid() bool {
	return t >= 0 && int(t) < len(vertexElementInfos)
}

func (t VertexElementType) String() string {
	if !t.valid() {
		return "UNKNOWN"
	}
	return vertexElementInfos[t].name
}

/** @brief Size in bytes of one element. */
func (t VertexElementType) SizeInBytes() int {
	if !t.valid() {
		return 0
	}
	return vertexElementInfos[t].size
}

/** @brief Number of scalar components of one element. */
func (t VertexElementType) ComponentCount() int {
	if !t.valid() {
		return 0
	}
	return vertexElementInfos[t].components
}

func (t VertexElementType) Component() ComponentType {
	if !t.valid() {
		return ComponentFloat32
	}
	return vertexElementInfos[t].component
}

/** @brief Whether the shader reads the element as an integer vector. */
func (t VertexElementType) IsInteger() bool {
	return t.valid() && vertexElementInfos[t].component != ComponentFloat32
}

/** @brief Whether the element is a scalar or a vector (as opposed to a matrix). */
func (t VertexElementType) IsScalarOrVector() bool {
	return t.valid() && t < VertexElementMatrix22Float32
}

/**
 * @brief A single named attribute of a vertex format.
 */
type VertexElement struct {
	Attribute string
	Offset    int
	Type      VertexElementType
	ArraySize int
}

// PaddingAttribute names filler elements, which are never bound.
const PaddingAttribute = "_"

/**
 * @brief The interleaved layout of a vertex buffer. Elements are packed
 * without alignment in the order they are added.
 */
type VertexFormat struct {
	Items []VertexElement
	size  int
}

func NewVertexFormat() *VertexFormat {
	return &VertexFormat{}
}

/** @brief Size in bytes of a single vertex, the stride of the buffer. */
func (f *VertexFormat) Size() int {
	return f.size
}

func (f *VertexFormat) Attribute(name string, elementType VertexElementType, arraySize int) *VertexFormat {
	if arraySize < 1 {
		arraySize = 1
	}
	f.Items = append(f.Items, VertexElement{
		Attribute: name,
		Offset:    f.size,
		Type:      elementType,
		ArraySize: arraySize,
	})
	f.size += elementType.SizeInBytes() * arraySize
	return f
}

func (f *VertexFormat) Position(dimensions int) *VertexFormat {
	return f.Attribute("position", floatVector(dimensions), 1)
}

func (f *VertexFormat) Normal(dimensions int) *VertexFormat {
	return f.Attribute("normal", floatVector(dimensions), 1)
}

func (f *VertexFormat) TextureCoordinate(dimensions int) *VertexFormat {
	return f.Attribute("texCoord0", floatVector(dimensions), 1)
}

func (f *VertexFormat) Color(dimensions int) *VertexFormat {
	return f.Attribute("color", floatVector(dimensions), 1)
}

func (f *VertexFormat) Padding(bytes int) *VertexFormat {
	return f.Attribute(PaddingAttribute, VertexElementUint8, bytes)
}

func (f *VertexFormat) HasAttribute(name string) bool {
	for _, item := range f.Items {
		if item.Attribute == name {
			return true
		}
	}
	return false
}

// Key describes the shape of the format. Formats with the same elements in the
// same order share a key.
func (f *VertexFormat) Key() string {
	var sb strings.Builder
	for i, item := range f.Items {
		if i > 0 {
			sb.WriteByte(';')
		}
		fmt.Fprintf(&sb, "%s:%s[%d]@%d", item.Attribute, item.Type, item.ArraySize, item.Offset)
	}
	return sb.String()
}

func (f *VertexFormat) Hash() uint64 {
	return hashString(f.Key())
}

func (f *VertexFormat) Equal(other *VertexFormat) bool {
	if f == nil || other == nil {
		return f == other
	}
	if len(f.Items) != len(other.Items) {
		return false
	}
	for i := range f.Items {
		if f.Items[i] != other.Items[i] {
			return false
		}
	}
	return true
}

func floatVector(dimensions int) VertexElementType {
	switch dimensions {
	case 1:
		return VertexElementFloat32
	case 2:
		return VertexElementVector2Float32
	case 3:
		return VertexElementVector3Float32
	default:
		return VertexElementVector4Float32
	}
}

/**
 * @brief A buffer of interleaved vertices.
 */
type VertexBuffer struct {
	/** @brief Identifier unique for the process, used in binding cache keys. */
	ID          uint32
	Name        string
	Format      *VertexFormat
	VertexCount int
	/** @brief The backend buffer object. Zero until uploaded. */
	Handle uint32
}

func NewVertexBuffer(format *VertexFormat, vertexCount int) *VertexBuffer {
	return &VertexBuffer{
		ID:          nextResourceID(),
		Name:        NewResourceName("vertex-buffer"),
		Format:      format,
		VertexCount: vertexCount,
	}
}

// Identity encodes the buffer and the shape of its format.
func (vb *VertexBuffer) Identity() string {
	return fmt.Sprintf("%d:%016x", vb.ID, vb.Format.Hash())
}

/** @brief The type of the indices of an index buffer. */
type IndexType int

const (
	IndexTypeUint16 IndexType = iota
	IndexTypeUint32
)

func (t IndexType) SizeInBytes() int {
	if t == IndexTypeUint16 {
		return 2
	}
	return 4
}

type IndexBuffer struct {
	ID         uint32
	Name       string
	Type       IndexType
	IndexCount int
	Handle     uint32
}

func NewIndexBuffer(indexType IndexType, indexCount int) *IndexBuffer {
	return &IndexBuffer{
		ID:         nextResourceID(),
		Name:       NewResourceName("index-buffer"),
		Type:       indexType,
		IndexCount: indexCount,
	}
}
