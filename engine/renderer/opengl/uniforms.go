package opengl

import (
	"fmt"

	"github.com/go-gl/gl/v4.3-core/gl"
	"github.com/spaghettifunk/anima-hal/engine/core"
	"github.com/spaghettifunk/anima-hal/engine/renderer/glsl"
	"github.com/spaghettifunk/anima-hal/engine/renderer/metadata"
	"github.com/spaghettifunk/anima-hal/engine/renderer/shadestyle"
)

// units hands out texture and image units in parameter order.
type units struct {
	texture uint32
	image   uint32
}

// ApplyStyle binds program and uploads every parameter and buffer of style.
// Textures take sequential texture units, images sequential image units.
func (b *Backend) ApplyStyle(program *metadata.Program, style *shadestyle.ShadeStyle) error {
	if err := b.alive(); err != nil {
		return err
	}
	info, err := b.info(program)
	if err != nil {
		return err
	}
	gl.UseProgram(info.handle)
	if style == nil {
		return nil
	}

	var u units
	for _, name := range style.ParameterNames() {
		value, _ := style.ParameterValue(name)
		if err := b.uniform(info, "p_"+name, value, &u); err != nil {
			return fmt.Errorf("parameter `%s`: %w", name, err)
		}
	}

	bindings := glsl.BufferBindings(style)
	for _, name := range style.BufferNames() {
		buffer, _ := style.BufferValue(name)
		switch x := buffer.(type) {
		case *metadata.ShaderStorageBuffer:
			if err := b.require(4, 3, "shader storage buffers"); err != nil {
				return fmt.Errorf("buffer `%s`: %w", name, err)
			}
			gl.BindBufferBase(gl.SHADER_STORAGE_BUFFER, uint32(bindings[name]), x.Handle)
		case *metadata.AtomicCounterBuffer:
			if err := b.require(4, 2, "atomic counter buffers"); err != nil {
				return fmt.Errorf("buffer `%s`: %w", name, err)
			}
			gl.BindBufferBase(gl.ATOMIC_COUNTER_BUFFER, uint32(bindings[name]), x.Handle)
		default:
			return fmt.Errorf("buffer `%s`: %w: %T", name, core.ErrUnsupportedType, buffer)
		}
	}
	return glError("apply style")
}

func (b *Backend) uniform(info *programInfo, name string, value shadestyle.Value, u *units) error {
	if value.Kind() == shadestyle.KindArray {
		return b.arrayUniform(info, name, value, u)
	}
	location := info.uniform(name)

	switch value.Kind() {
	case shadestyle.KindTexture:
		texture, _ := value.Texture()
		bindTexture(texture, u.texture)
		if location >= 0 {
			gl.Uniform1i(location, int32(u.texture))
		}
		u.texture++
		return nil
	case shadestyle.KindImage:
		image, _ := value.Image()
		if err := b.bindImage(image, u.image); err != nil {
			return err
		}
		if location >= 0 {
			gl.Uniform1i(location, int32(u.image))
		}
		u.image++
		return nil
	}

	// unused uniforms are optimized out by the driver
	if location < 0 {
		return nil
	}
	switch value.Kind() {
	case shadestyle.KindBool:
		x, _ := value.Bool()
		var i int32
		if x {
			i = 1
		}
		gl.Uniform1i(location, i)
	case shadestyle.KindInt:
		x, _ := value.Int()
		gl.Uniform1i(location, x)
	case shadestyle.KindFloat:
		x, _ := value.Float()
		gl.Uniform1f(location, x)
	case shadestyle.KindVector2:
		x, _ := value.Vector2()
		v := x.ToF32()
		gl.Uniform2fv(location, 1, &v[0])
	case shadestyle.KindVector3:
		x, _ := value.Vector3()
		v := x.ToF32()
		gl.Uniform3fv(location, 1, &v[0])
	case shadestyle.KindVector4:
		x, _ := value.Vector4()
		v := x.ToF32()
		gl.Uniform4fv(location, 1, &v[0])
	case shadestyle.KindColor:
		x, _ := value.Color()
		v := x.ToF32()
		gl.Uniform4fv(location, 1, &v[0])
	case shadestyle.KindIntVector2:
		x, _ := value.IntVector2()
		gl.Uniform2i(location, x.X, x.Y)
	case shadestyle.KindIntVector3:
		x, _ := value.IntVector3()
		gl.Uniform3i(location, x.X, x.Y, x.Z)
	case shadestyle.KindIntVector4:
		x, _ := value.IntVector4()
		gl.Uniform4i(location, x.X, x.Y, x.Z, x.W)
	case shadestyle.KindMatrix33:
		x, _ := value.Matrix33()
		m := x.ToF32()
		gl.UniformMatrix3fv(location, 1, false, &m[0])
	case shadestyle.KindMatrix44:
		x, _ := value.Matrix44()
		m := x.ToF32()
		gl.UniformMatrix4fv(location, 1, false, &m[0])
	default:
		return fmt.Errorf("%w: %s", core.ErrUnsupportedType, value.TypeTag())
	}
	return nil
}

// arrayUniform uploads an array in one call. Sampler and image arrays are set
// element by element.
func (b *Backend) arrayUniform(info *programInfo, name string, value shadestyle.Value, u *units) error {
	elements, _ := value.Elements()
	switch elements[0].Kind() {
	case shadestyle.KindTexture, shadestyle.KindImage:
		for i, e := range elements {
			if err := b.uniform(info, fmt.Sprintf("%s[%d]", name, i), e, u); err != nil {
				return err
			}
		}
		return nil
	}

	location := info.uniform(name)
	if location < 0 {
		return nil
	}
	count := int32(len(elements))
	var floats []float32
	var ints []int32
	for _, e := range elements {
		switch e.Kind() {
		case shadestyle.KindBool:
			x, _ := e.Bool()
			if x {
				ints = append(ints, 1)
			} else {
				ints = append(ints, 0)
			}
		case shadestyle.KindInt:
			x, _ := e.Int()
			ints = append(ints, x)
		case shadestyle.KindFloat:
			x, _ := e.Float()
			floats = append(floats, x)
		case shadestyle.KindVector2:
			x, _ := e.Vector2()
			v := x.ToF32()
			floats = append(floats, v[:]...)
		case shadestyle.KindVector3:
			x, _ := e.Vector3()
			v := x.ToF32()
			floats = append(floats, v[:]...)
		case shadestyle.KindVector4:
			x, _ := e.Vector4()
			v := x.ToF32()
			floats = append(floats, v[:]...)
		case shadestyle.KindColor:
			x, _ := e.Color()
			v := x.ToF32()
			floats = append(floats, v[:]...)
		case shadestyle.KindIntVector2:
			x, _ := e.IntVector2()
			ints = append(ints, x.X, x.Y)
		case shadestyle.KindIntVector3:
			x, _ := e.IntVector3()
			ints = append(ints, x.X, x.Y, x.Z)
		case shadestyle.KindIntVector4:
			x, _ := e.IntVector4()
			ints = append(ints, x.X, x.Y, x.Z, x.W)
		case shadestyle.KindMatrix33:
			x, _ := e.Matrix33()
			m := x.ToF32()
			floats = append(floats, m[:]...)
		case shadestyle.KindMatrix44:
			x, _ := e.Matrix44()
			m := x.ToF32()
			floats = append(floats, m[:]...)
		default:
			return fmt.Errorf("%w: %s", core.ErrUnsupportedType, value.TypeTag())
		}
	}

	switch elements[0].Kind() {
	case shadestyle.KindBool, shadestyle.KindInt:
		gl.Uniform1iv(location, count, &ints[0])
	case shadestyle.KindIntVector2:
		gl.Uniform2iv(location, count, &ints[0])
	case shadestyle.KindIntVector3:
		gl.Uniform3iv(location, count, &ints[0])
	case shadestyle.KindIntVector4:
		gl.Uniform4iv(location, count, &ints[0])
	case shadestyle.KindFloat:
		gl.Uniform1fv(location, count, &floats[0])
	case shadestyle.KindVector2:
		gl.Uniform2fv(location, count, &floats[0])
	case shadestyle.KindVector3:
		gl.Uniform3fv(location, count, &floats[0])
	case shadestyle.KindVector4, shadestyle.KindColor:
		gl.Uniform4fv(location, count, &floats[0])
	case shadestyle.KindMatrix33:
		gl.UniformMatrix3fv(location, count, false, &floats[0])
	case shadestyle.KindMatrix44:
		gl.UniformMatrix4fv(location, count, false, &floats[0])
	}
	return nil
}

func bindTexture(texture metadata.Texture, unit uint32) {
	info := texture.Info()
	gl.ActiveTexture(gl.TEXTURE0 + unit)
	gl.BindTexture(textureTarget(info.Kind), info.Handle)
}

func (b *Backend) bindImage(image metadata.ImageBinding, unit uint32) error {
	if err := b.require(4, 3, "image load/store"); err != nil {
		return err
	}
	info := image.Texture().Info()
	format, err := internalFormat(info.Format, info.Type, true)
	if err != nil {
		return err
	}
	// cubemaps, arrays and volumes bind every layer
	layered := info.Kind != metadata.TextureKindColorBuffer && info.Kind != metadata.TextureKindBufferTexture
	gl.BindImageTexture(unit, info.Handle, int32(image.ImageLevel()), layered, 0, imageAccess(image.ImageAccess()), format)
	return nil
}
