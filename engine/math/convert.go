package math

import "golang.org/x/image/math/f32"

// Upload helpers. Shaders take single precision values, the matrix layouts
// keep the column order so they can be passed with transpose set to false.

func (v Vector2) ToF32() f32.Vec2 {
	return f32.Vec2{float32(v.X), float32(v.Y)}
}

func (v Vector3) ToF32() f32.Vec3 {
	return f32.Vec3{float32(v.X), float32(v.Y), float32(v.Z)}
}

func (v Vector4) ToF32() f32.Vec4 {
	return f32.Vec4{float32(v.X), float32(v.Y), float32(v.Z), float32(v.W)}
}

func (c ColorRGBa) ToF32() f32.Vec4 {
	return f32.Vec4{float32(c.R), float32(c.G), float32(c.B), float32(c.A)}
}

func (m Matrix33) ToF32() f32.Mat3 {
	var out f32.Mat3
	for i, v := range m.Data {
		out[i] = float32(v)
	}
	return out
}

func (m Matrix44) ToF32() f32.Mat4 {
	var out f32.Mat4
	for i, v := range m.Data {
		out[i] = float32(v)
	}
	return out
}
