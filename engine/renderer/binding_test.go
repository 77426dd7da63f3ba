package renderer

import (
	"testing"

	"github.com/spaghettifunk/anima-hal/engine/core"
	"github.com/spaghettifunk/anima-hal/engine/renderer/metadata"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func resolver(locations map[string]int) AttributeResolver {
	return func(name string) int {
		if location, ok := locations[name]; ok {
			return location
		}
		return -1
	}
}

func TestBuildBindingLayoutVertexAndInstance(t *testing.T) {
	vertices := metadata.NewVertexBuffer(metadata.NewVertexFormat().Position(3).Padding(4).TextureCoordinate(2), 4)
	instances := metadata.NewVertexBuffer(metadata.NewVertexFormat().Attribute("offset", metadata.VertexElementVector2Float32, 1), 10)

	layout, err := BuildBindingLayout(resolver(map[string]int{
		"a_position":  0,
		"a_texCoord0": 1,
		"i_offset":    2,
	}), []*metadata.VertexBuffer{vertices}, []*metadata.VertexBuffer{instances}, 16)
	require.NoError(t, err)

	require.Len(t, layout.Buffers, 2)
	require.Equal(t, 3, layout.Slots())

	position := layout.Attributes[0]
	assert.Equal(t, AttributeBinding{Buffer: 0, Name: "a_position", Location: 0, Components: 3, Component: metadata.ComponentFloat32, Stride: 24, Offset: 0}, position)

	texCoord := layout.Attributes[1]
	assert.Equal(t, 1, texCoord.Location)
	assert.Equal(t, 2, texCoord.Components)
	assert.Equal(t, 16, texCoord.Offset)
	assert.Equal(t, 0, texCoord.Divisor)

	offset := layout.Attributes[2]
	assert.Equal(t, 1, offset.Buffer)
	assert.Equal(t, 1, offset.Divisor)
	assert.Equal(t, 8, offset.Stride)
}

func TestBuildBindingLayoutSkipsInactive(t *testing.T) {
	vertices := metadata.NewVertexBuffer(metadata.NewVertexFormat().Position(3).Normal(3).Color(4), 4)
	layout, err := BuildBindingLayout(resolver(map[string]int{"a_color": 3}), []*metadata.VertexBuffer{vertices}, nil, 1)
	require.NoError(t, err)
	require.Equal(t, 1, layout.Slots())
	assert.Equal(t, "a_color", layout.Attributes[0].Name)
	assert.Equal(t, 24, layout.Attributes[0].Offset)
}

func TestBuildBindingLayoutMatrices(t *testing.T) {
	format := metadata.NewVertexFormat().
		Attribute("transform", metadata.VertexElementMatrix44Float32, 2).
		Attribute("normalMatrix", metadata.VertexElementMatrix33Float32, 1)
	instances := metadata.NewVertexBuffer(format, 1)

	layout, err := BuildBindingLayout(resolver(map[string]int{"i_transform": 0, "i_normalMatrix": 8}), nil, []*metadata.VertexBuffer{instances}, 16)
	require.NoError(t, err)
	require.Equal(t, 11, layout.Slots())

	for i := 0; i < 8; i++ {
		slot := layout.Attributes[i]
		assert.Equal(t, i, slot.Location)
		assert.Equal(t, 4, slot.Components)
		assert.Equal(t, (i%4)*16+(i/4)*64, slot.Offset)
		assert.Equal(t, 1, slot.Divisor)
	}
	for column := 0; column < 3; column++ {
		slot := layout.Attributes[8+column]
		assert.Equal(t, 8+column, slot.Location)
		assert.Equal(t, 3, slot.Components)
		assert.Equal(t, 128+column*12, slot.Offset)
	}
}

func TestBuildBindingLayoutArrays(t *testing.T) {
	format := metadata.NewVertexFormat().Attribute("weights", metadata.VertexElementVector2Float32, 3)
	vertices := metadata.NewVertexBuffer(format, 1)

	layout, err := BuildBindingLayout(resolver(map[string]int{"a_weights": 2}), []*metadata.VertexBuffer{vertices}, nil, 16)
	require.NoError(t, err)
	require.Equal(t, 3, layout.Slots())
	for i, slot := range layout.Attributes {
		assert.Equal(t, 2+i, slot.Location)
		assert.Equal(t, i*8, slot.Offset)
	}
}

func TestBuildBindingLayoutIntegerAttributes(t *testing.T) {
	format := metadata.NewVertexFormat().Attribute("id", metadata.VertexElementInt32, 1)
	layout, err := BuildBindingLayout(resolver(map[string]int{"a_id": 0}), []*metadata.VertexBuffer{metadata.NewVertexBuffer(format, 1)}, nil, 16)
	require.NoError(t, err)
	assert.True(t, layout.Attributes[0].Integer)
	assert.Equal(t, metadata.ComponentInt32, layout.Attributes[0].Component)
}

func TestBuildBindingLayoutBudget(t *testing.T) {
	format := metadata.NewVertexFormat().Attribute("transform", metadata.VertexElementMatrix44Float32, 1).Position(3)
	vertices := metadata.NewVertexBuffer(format, 1)
	resolve := resolver(map[string]int{"a_transform": 0, "a_position": 4})

	_, err := BuildBindingLayout(resolve, []*metadata.VertexBuffer{vertices}, nil, 4)
	assert.ErrorIs(t, err, core.ErrAttributeBudgetExceeded)

	layout, err := BuildBindingLayout(resolve, []*metadata.VertexBuffer{vertices}, nil, 5)
	require.NoError(t, err)
	assert.Equal(t, 5, layout.Slots())
}

func TestBuildBindingLayoutBudgetSpansBuffers(t *testing.T) {
	a := metadata.NewVertexBuffer(metadata.NewVertexFormat().Position(3), 1)
	b := metadata.NewVertexBuffer(metadata.NewVertexFormat().Color(4), 1)
	resolve := resolver(map[string]int{"a_position": 0, "i_color": 1})

	_, err := BuildBindingLayout(resolve, []*metadata.VertexBuffer{a}, []*metadata.VertexBuffer{b}, 1)
	assert.ErrorIs(t, err, core.ErrAttributeBudgetExceeded)
}

func TestBuildBindingLayoutErrors(t *testing.T) {
	format := metadata.NewVertexFormat().Attribute("rotation", metadata.VertexElementMatrix22Float32, 1)
	_, err := BuildBindingLayout(resolver(map[string]int{"a_rotation": 0}), []*metadata.VertexBuffer{metadata.NewVertexBuffer(format, 1)}, nil, 16)
	assert.ErrorIs(t, err, core.ErrUnsupportedAttributeType)

	// inactive unsupported attributes are ignored
	_, err = BuildBindingLayout(resolver(nil), []*metadata.VertexBuffer{metadata.NewVertexBuffer(format, 1)}, nil, 16)
	assert.NoError(t, err)

	_, err = BuildBindingLayout(resolver(nil), []*metadata.VertexBuffer{nil}, nil, 16)
	assert.ErrorIs(t, err, core.ErrNilResource)
}

func TestBindingKey(t *testing.T) {
	program := metadata.NewProgram(1, "p", metadata.ProgramSources{})
	a := metadata.NewVertexBuffer(metadata.NewVertexFormat().Position(3), 3)
	b := metadata.NewVertexBuffer(metadata.NewVertexFormat().Position(3), 3)

	key := NewBindingKey(1, program, []*metadata.VertexBuffer{a}, nil)
	assert.Equal(t, key, NewBindingKey(1, program, []*metadata.VertexBuffer{a}, nil))
	assert.NotEqual(t, key, NewBindingKey(2, program, []*metadata.VertexBuffer{a}, nil))
	assert.NotEqual(t, key, NewBindingKey(1, program, []*metadata.VertexBuffer{b}, nil))
	assert.NotEqual(t, key, NewBindingKey(1, program, nil, []*metadata.VertexBuffer{a}))
	assert.NotEqual(t, NewBindingKey(1, program, []*metadata.VertexBuffer{a, b}, nil), NewBindingKey(1, program, []*metadata.VertexBuffer{b, a}, nil))

	// the format shape is part of the key
	a.Format.Color(4)
	assert.NotEqual(t, key, NewBindingKey(1, program, []*metadata.VertexBuffer{a}, nil))
}
