package shadestyle

import (
	"fmt"

	"github.com/spaghettifunk/anima-hal/engine/core"
)

// Binding is a typed accessor for one named parameter of a style.
//
//	radius := shadestyle.NewBinding[float64](style, "radius")
//	_ = radius.Set(5)
//	r, err := radius.Get()
type Binding[T any] struct {
	style *ShadeStyle
	name  string
}

func NewBinding[T any](style *ShadeStyle, name string) Binding[T] {
	return Binding[T]{style: style, name: name}
}

func (b Binding[T]) Name() string {
	return b.name
}

// Get decodes the parameter, failing when it is missing or of another shape.
func (b Binding[T]) Get() (T, error) {
	return Get[T](b.style, b.name)
}

// Set classifies and stores the value, like ShadeStyle.Parameter.
func (b Binding[T]) Set(value T) error {
	return b.style.Parameter(b.name, value)
}

// Get decodes a parameter of style as T. The value is returned as supplied
// when T matches it; numeric scalars also convert between widths.
func Get[T any](style *ShadeStyle, name string) (T, error) {
	var out T
	v, ok := style.ParameterValue(name)
	if !ok {
		return out, fmt.Errorf("parameter `%s`: %w", name, core.ErrParameterNotFound)
	}
	if x, ok := v.Interface().(T); ok {
		return x, nil
	}
	if x, ok := v.Normalized().(T); ok {
		return x, nil
	}
	switch p := any(&out).(type) {
	case *float64:
		if f, ok := v.Float(); ok {
			*p = float64(f)
			return out, nil
		}
	case *float32:
		if f, ok := v.Float(); ok {
			*p = f
			return out, nil
		}
	case *int:
		if i, ok := v.Int(); ok {
			*p = int(i)
			return out, nil
		}
	case *int32:
		if i, ok := v.Int(); ok {
			*p = i
			return out, nil
		}
	}
	return out, fmt.Errorf("parameter `%s` is %s, requested %T: %w", name, v.TypeTag(), out, core.ErrParameterType)
}
