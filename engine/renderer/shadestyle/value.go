package shadestyle

import (
	"fmt"
	m "math"
	"strconv"

	"github.com/spaghettifunk/anima-hal/engine/core"
	"github.com/spaghettifunk/anima-hal/engine/math"
	"github.com/spaghettifunk/anima-hal/engine/renderer/metadata"
)

// Kind is the shape of a parameter value.
type Kind int

const (
	KindInvalid Kind = iota
	KindBool
	KindInt
	KindFloat
	KindVector2
	KindVector3
	KindVector4
	KindIntVector2
	KindIntVector3
	KindIntVector4
	KindMatrix33
	KindMatrix44
	KindColor
	KindTexture
	KindImage
	KindArray
)

// Value is a classified parameter value. The only way to build one is
// ValueOf, so the type tag always matches the payload.
type Value struct {
	kind Kind
	tag  string
	// raw is the value as supplied by the caller, slices are copied
	raw interface{}
	// data is the normalized payload, []Value for arrays
	data interface{}
}

func (v Value) Kind() Kind      { return v.kind }
func (v Value) TypeTag() string { return v.tag }
func (v Value) IsValid() bool   { return v.kind != KindInvalid }

// Interface returns the value as it was supplied.
func (v Value) Interface() interface{} { return v.raw }

// Normalized returns the payload uploaded to the GPU: floats narrowed to
// float32, ints to int32, castable values converted to math.Vector4.
func (v Value) Normalized() interface{} { return v.data }

func (v Value) String() string {
	return fmt.Sprintf("%s(%v)", v.tag, v.raw)
}

// Len is the element count of an array value, zero otherwise.
func (v Value) Len() int {
	e, _ := v.data.([]Value)
	return len(e)
}

func (v Value) Bool() (bool, bool) {
	b, ok := v.data.(bool)
	return b, ok
}

func (v Value) Int() (int32, bool) {
	i, ok := v.data.(int32)
	return i, ok
}

func (v Value) Float() (float32, bool) {
	f, ok := v.data.(float32)
	return f, ok
}

func (v Value) Vector2() (math.Vector2, bool) {
	x, ok := v.data.(math.Vector2)
	return x, ok
}

func (v Value) Vector3() (math.Vector3, bool) {
	x, ok := v.data.(math.Vector3)
	return x, ok
}

func (v Value) Vector4() (math.Vector4, bool) {
	x, ok := v.data.(math.Vector4)
	return x, ok
}

func (v Value) IntVector2() (math.IntVector2, bool) {
	x, ok := v.data.(math.IntVector2)
	return x, ok
}

func (v Value) IntVector3() (math.IntVector3, bool) {
	x, ok := v.data.(math.IntVector3)
	return x, ok
}

func (v Value) IntVector4() (math.IntVector4, bool) {
	x, ok := v.data.(math.IntVector4)
	return x, ok
}

func (v Value) Matrix33() (math.Matrix33, bool) {
	x, ok := v.data.(math.Matrix33)
	return x, ok
}

func (v Value) Matrix44() (math.Matrix44, bool) {
	x, ok := v.data.(math.Matrix44)
	return x, ok
}

func (v Value) Color() (math.ColorRGBa, bool) {
	x, ok := v.data.(math.ColorRGBa)
	return x, ok
}

func (v Value) Texture() (metadata.Texture, bool) {
	x, ok := v.data.(metadata.Texture)
	return x, ok
}

func (v Value) Image() (metadata.ImageBinding, bool) {
	x, ok := v.data.(metadata.ImageBinding)
	return x, ok
}

// Elements returns the items of an array value.
func (v Value) Elements() ([]Value, bool) {
	x, ok := v.data.([]Value)
	return x, ok
}

// ValueOf classifies a runtime value. It fails with core.ErrUnsupportedType
// for unknown shapes, core.ErrEmptyArray for zero length arrays,
// core.ErrHeterogeneousArray for mixed arrays and
// core.ErrUnsupportedImageBinding for image bindings it does not know.
func ValueOf(value interface{}) (Value, error) {
	switch x := value.(type) {
	case Value:
		if !x.IsValid() {
			return Value{}, fmt.Errorf("%w: zero Value", core.ErrUnsupportedType)
		}
		return x, nil
	case []bool:
		return arrayOf(x)
	case []int:
		return arrayOf(x)
	case []int32:
		return arrayOf(x)
	case []float32:
		return arrayOf(x)
	case []float64:
		return arrayOf(x)
	case []math.Vector2:
		return arrayOf(x)
	case []math.Vector3:
		return arrayOf(x)
	case []math.Vector4:
		return arrayOf(x)
	case []math.IntVector2:
		return arrayOf(x)
	case []math.IntVector3:
		return arrayOf(x)
	case []math.IntVector4:
		return arrayOf(x)
	case []math.Matrix33:
		return arrayOf(x)
	case []math.Matrix44:
		return arrayOf(x)
	case []math.ColorRGBa:
		return arrayOf(x)
	case []math.CastableToVector4:
		return arrayOf(x)
	case []interface{}:
		return arrayOf(x)
	}

	if v, ok, err := textureValue(value); ok || err != nil {
		return v, err
	}
	if img, ok := value.(metadata.ImageBinding); ok {
		tag, err := imageTag(img)
		if err != nil {
			return Value{}, err
		}
		return Value{kind: KindImage, tag: tag, raw: img, data: img}, nil
	}
	return elementValue(value)
}

// elementValue classifies the shapes allowed inside arrays.
func elementValue(value interface{}) (Value, error) {
	switch x := value.(type) {
	case bool:
		return Value{kind: KindBool, tag: TagBoolean, raw: x, data: x}, nil
	case int:
		if x < m.MinInt32 || x > m.MaxInt32 {
			return Value{}, fmt.Errorf("%w: int %d does not fit in 32 bits", core.ErrUnsupportedType, x)
		}
		return Value{kind: KindInt, tag: TagInt, raw: x, data: int32(x)}, nil
	case int32:
		return Value{kind: KindInt, tag: TagInt, raw: x, data: x}, nil
	case float32:
		return Value{kind: KindFloat, tag: TagFloat, raw: x, data: x}, nil
	case float64:
		return Value{kind: KindFloat, tag: TagFloat, raw: x, data: float32(x)}, nil
	case math.Vector2:
		return Value{kind: KindVector2, tag: TagVector2, raw: x, data: x}, nil
	case math.Vector3:
		return Value{kind: KindVector3, tag: TagVector3, raw: x, data: x}, nil
	case math.Vector4:
		return Value{kind: KindVector4, tag: TagVector4, raw: x, data: x}, nil
	case math.IntVector2:
		return Value{kind: KindIntVector2, tag: TagIntVector2, raw: x, data: x}, nil
	case math.IntVector3:
		return Value{kind: KindIntVector3, tag: TagIntVector3, raw: x, data: x}, nil
	case math.IntVector4:
		return Value{kind: KindIntVector4, tag: TagIntVector4, raw: x, data: x}, nil
	case math.Matrix33:
		return Value{kind: KindMatrix33, tag: TagMatrix33, raw: x, data: x}, nil
	case math.Matrix44:
		return Value{kind: KindMatrix44, tag: TagMatrix44, raw: x, data: x}, nil
	case math.ColorRGBa:
		return Value{kind: KindColor, tag: TagColorRGBa, raw: x, data: x}, nil
	case math.CastableToVector4:
		return Value{kind: KindVector4, tag: TagVector4, raw: x, data: x.Vector4()}, nil
	case nil:
		return Value{}, fmt.Errorf("%w: nil", core.ErrUnsupportedType)
	}
	return Value{}, fmt.Errorf("%w: %T", core.ErrUnsupportedType, value)
}

func arrayOf[T any](items []T) (Value, error) {
	if len(items) == 0 {
		return Value{}, core.ErrEmptyArray
	}
	elements := make([]Value, len(items))
	for i, item := range items {
		e, err := elementValue(item)
		if err != nil {
			return Value{}, fmt.Errorf("array element %d: %w", i, err)
		}
		if i > 0 && e.tag != elements[0].tag {
			return Value{}, fmt.Errorf("%w: element %d is %s, expected %s", core.ErrHeterogeneousArray, i, e.tag, elements[0].tag)
		}
		elements[i] = e
	}
	raw := make([]T, len(items))
	copy(raw, items)
	return Value{
		kind: KindArray,
		tag:  elements[0].tag + "," + strconv.Itoa(len(elements)),
		raw:  raw,
		data: elements,
	}, nil
}
