package opengl

import (
	"github.com/go-gl/gl/v4.3-core/gl"
	"github.com/spaghettifunk/anima-hal/engine/renderer"
	"github.com/spaghettifunk/anima-hal/engine/renderer/metadata"
)

// scissor flips a top left clip rectangle into window coordinates.
func scissor(clip metadata.Rectangle, height int32) (x, y, w, h int32) {
	x = int32(clip.X)
	w = int32(clip.Width)
	h = int32(clip.Height)
	y = height - int32(clip.Y) - h
	return x, y, w, h
}

// ApplyState sets the fixed function state listed in changes.
func (b *Backend) ApplyState(style metadata.DrawStyle, changes renderer.StateChange) error {
	if err := b.alive(); err != nil {
		return err
	}
	if changes.Has(renderer.StateClip) {
		if style.Clip == nil {
			gl.Disable(gl.SCISSOR_TEST)
		} else {
			gl.Enable(gl.SCISSOR_TEST)
			gl.Scissor(scissor(*style.Clip, b.height))
		}
	}
	if changes.Has(renderer.StateChannelMask) {
		mask := style.ChannelWriteMask
		gl.ColorMask(mask.Red, mask.Green, mask.Blue, mask.Alpha)
	}
	if changes.Has(renderer.StateBlendMode) {
		setup := blend(style.BlendMode)
		if setup.enabled {
			gl.Enable(gl.BLEND)
			gl.BlendEquationSeparate(setup.equationRGB, setup.equationAlpha)
			gl.BlendFuncSeparate(setup.srcRGB, setup.dstRGB, setup.srcAlpha, setup.dstAlpha)
		} else {
			gl.Disable(gl.BLEND)
		}
	}
	if changes.Has(renderer.StateDepthWrite) {
		gl.DepthMask(style.DepthWrite)
	}
	if changes.Has(renderer.StateDepthTest) {
		gl.Enable(gl.DEPTH_TEST)
		gl.DepthFunc(depthFunc(style.DepthTest))
	}
	if changes.Has(renderer.StateCullMode) {
		if face, ok := cullFace(style.CullMode); ok {
			gl.Enable(gl.CULL_FACE)
			gl.CullFace(face)
		} else {
			gl.Disable(gl.CULL_FACE)
		}
	}
	return glError("apply state")
}
