package vulkan

import (
	"fmt"

	vk "github.com/goki/vulkan"
	"github.com/spaghettifunk/anima-hal/engine/core"
	"github.com/spaghettifunk/anima-hal/engine/renderer"
	"github.com/spaghettifunk/anima-hal/engine/renderer/metadata"
)

// formats lists the vertex formats of one to four components per component type.
var formats = map[metadata.ComponentType][4]vk.Format{
	metadata.ComponentUint8:   {vk.FormatR8Uint, vk.FormatR8g8Uint, vk.FormatR8g8b8Uint, vk.FormatR8g8b8a8Uint},
	metadata.ComponentInt8:    {vk.FormatR8Sint, vk.FormatR8g8Sint, vk.FormatR8g8b8Sint, vk.FormatR8g8b8a8Sint},
	metadata.ComponentUint16:  {vk.FormatR16Uint, vk.FormatR16g16Uint, vk.FormatR16g16b16Uint, vk.FormatR16g16b16a16Uint},
	metadata.ComponentInt16:   {vk.FormatR16Sint, vk.FormatR16g16Sint, vk.FormatR16g16b16Sint, vk.FormatR16g16b16a16Sint},
	metadata.ComponentUint32:  {vk.FormatR32Uint, vk.FormatR32g32Uint, vk.FormatR32g32b32Uint, vk.FormatR32g32b32a32Uint},
	metadata.ComponentInt32:   {vk.FormatR32Sint, vk.FormatR32g32Sint, vk.FormatR32g32b32Sint, vk.FormatR32g32b32a32Sint},
	metadata.ComponentFloat32: {vk.FormatR32Sfloat, vk.FormatR32g32Sfloat, vk.FormatR32g32b32Sfloat, vk.FormatR32g32b32a32Sfloat},
}

// Format returns the vertex format of an attribute slot.
func Format(component metadata.ComponentType, components int) (vk.Format, error) {
	list, ok := formats[component]
	if !ok || components < 1 || components > 4 {
		return vk.FormatUndefined, fmt.Errorf("%w: %d components of type %d", core.ErrUnsupportedAttributeType, components, component)
	}
	return list[components-1], nil
}

/**
 * @brief The vertex input state of a pipeline, one binding per buffer of a
 * binding layout and one attribute per slot.
 */
type VertexInput struct {
	Bindings   []vk.VertexInputBindingDescription
	Attributes []vk.VertexInputAttributeDescription
}

// NewVertexInput translates a binding layout. Buffers feeding instance
// attributes advance per instance.
func NewVertexInput(layout *renderer.BindingLayout) (*VertexInput, error) {
	if layout == nil {
		return nil, fmt.Errorf("%w: binding layout", core.ErrNilResource)
	}
	instanced := make([]bool, len(layout.Buffers))
	input := &VertexInput{}
	for _, a := range layout.Attributes {
		format, err := Format(a.Component, a.Components)
		if err != nil {
			return nil, fmt.Errorf("attribute `%s`: %w", a.Name, err)
		}
		if a.Divisor > 0 {
			instanced[a.Buffer] = true
		}
		input.Attributes = append(input.Attributes, vk.VertexInputAttributeDescription{
			Location: uint32(a.Location),
			Binding:  uint32(a.Buffer),
			Format:   format,
			Offset:   uint32(a.Offset),
		})
	}
	for i, buffer := range layout.Buffers {
		rate := vk.VertexInputRateVertex
		if instanced[i] {
			rate = vk.VertexInputRateInstance
		}
		input.Bindings = append(input.Bindings, vk.VertexInputBindingDescription{
			Binding:   uint32(i),
			Stride:    uint32(buffer.Format.Size()),
			InputRate: rate,
		})
	}
	return input, nil
}

// Translate is a renderer.LayoutTranslator storing the vertex input of each
// new binding.
func Translate(layout *renderer.BindingLayout) (interface{}, error) {
	input, err := NewVertexInput(layout)
	if err != nil {
		return nil, err
	}
	return input, nil
}

// CreateInfo is the pipeline vertex input state of the bindings.
func (v *VertexInput) CreateInfo() vk.PipelineVertexInputStateCreateInfo {
	info := vk.PipelineVertexInputStateCreateInfo{
		SType:                           vk.StructureTypePipelineVertexInputStateCreateInfo,
		VertexBindingDescriptionCount:   uint32(len(v.Bindings)),
		PVertexBindingDescriptions:      v.Bindings,
		VertexAttributeDescriptionCount: uint32(len(v.Attributes)),
		PVertexAttributeDescriptions:    v.Attributes,
	}
	info.Deref()
	return info
}
