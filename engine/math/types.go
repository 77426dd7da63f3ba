package math

/** @brief A 2d vector of doubles. */
type Vector2 struct {
	X, Y float64
}

/** @brief A 3d vector of doubles. */
type Vector3 struct {
	X, Y, Z float64
}

/** @brief A 4d vector of doubles. */
type Vector4 struct {
	X, Y, Z, W float64
}

/** @brief A 2d vector of integers. */
type IntVector2 struct {
	X, Y int32
}

/** @brief A 3d vector of integers. */
type IntVector3 struct {
	X, Y, Z int32
}

/** @brief A 4d vector of integers. */
type IntVector4 struct {
	X, Y, Z, W int32
}

/**
 * @brief a 3x3 matrix. Elements are stored column by column,
 * Data[column*3+row].
 */
type Matrix33 struct {
	/** @brief The matrix elements */
	Data [9]float64
}

/**
 * @brief a 4x4 matrix, typically used to represent object transformations.
 * Elements are stored column by column, Data[column*4+row].
 */
type Matrix44 struct {
	/** @brief The matrix elements */
	Data [16]float64
}

/**
 * @brief CastableToVector4 is implemented by any value that can be
 * handed to a shader as a vec4.
 */
type CastableToVector4 interface {
	Vector4() Vector4
}

func NewVector2(x, y float64) Vector2 {
	return Vector2{X: x, Y: y}
}

func NewVector3(x, y, z float64) Vector3 {
	return Vector3{X: x, Y: y, Z: z}
}

func NewVector4(x, y, z, w float64) Vector4 {
	return Vector4{X: x, Y: y, Z: z, W: w}
}

func (v Vector4) Vector4() Vector4 {
	return v
}

func (v Vector3) XYZ0() Vector4 {
	return Vector4{X: v.X, Y: v.Y, Z: v.Z}
}

func (v Vector3) XYZ1() Vector4 {
	return Vector4{X: v.X, Y: v.Y, Z: v.Z, W: 1}
}

func NewMatrix33Identity() Matrix33 {
	return Matrix33{Data: [9]float64{
		1, 0, 0,
		0, 1, 0,
		0, 0, 1,
	}}
}

func NewMatrix33FromColumns(c0, c1, c2 Vector3) Matrix33 {
	return Matrix33{Data: [9]float64{
		c0.X, c0.Y, c0.Z,
		c1.X, c1.Y, c1.Z,
		c2.X, c2.Y, c2.Z,
	}}
}

// At returns the element in the given column and row.
func (m Matrix33) At(column, row int) float64 {
	return m.Data[column*3+row]
}

// Column returns a column vector.
func (m Matrix33) Column(index int) Vector3 {
	return Vector3{X: m.Data[index*3], Y: m.Data[index*3+1], Z: m.Data[index*3+2]}
}

func (m Matrix33) Trace() float64 {
	return m.Data[0] + m.Data[4] + m.Data[8]
}

func (m Matrix33) Transposed() Matrix33 {
	out := Matrix33{}
	for c := 0; c < 3; c++ {
		for r := 0; r < 3; r++ {
			out.Data[r*3+c] = m.Data[c*3+r]
		}
	}
	return out
}

func (m Matrix33) Mul(other Matrix33) Matrix33 {
	out := Matrix33{}
	for c := 0; c < 3; c++ {
		for r := 0; r < 3; r++ {
			sum := 0.0
			for i := 0; i < 3; i++ {
				sum += m.Data[i*3+r] * other.Data[c*3+i]
			}
			out.Data[c*3+r] = sum
		}
	}
	return out
}

// Matrix44 embeds the matrix in the upper-left corner of an identity.
func (m Matrix33) Matrix44() Matrix44 {
	return Matrix44{Data: [16]float64{
		m.Data[0], m.Data[1], m.Data[2], 0,
		m.Data[3], m.Data[4], m.Data[5], 0,
		m.Data[6], m.Data[7], m.Data[8], 0,
		0, 0, 0, 1,
	}}
}

func NewMatrix44Identity() Matrix44 {
	return Matrix44{Data: [16]float64{
		1, 0, 0, 0,
		0, 1, 0, 0,
		0, 0, 1, 0,
		0, 0, 0, 1,
	}}
}

func NewMatrix44Translation(v Vector3) Matrix44 {
	m := NewMatrix44Identity()
	m.Data[12] = v.X
	m.Data[13] = v.Y
	m.Data[14] = v.Z
	return m
}

func NewMatrix44Scale(v Vector3) Matrix44 {
	m := NewMatrix44Identity()
	m.Data[0] = v.X
	m.Data[5] = v.Y
	m.Data[10] = v.Z
	return m
}

/**
 * @brief Creates an orthographic projection matrix.
 */
func NewMatrix44Orthographic(left, right, bottom, top, near, far float64) Matrix44 {
	m := NewMatrix44Identity()
	m.Data[0] = 2 / (right - left)
	m.Data[5] = 2 / (top - bottom)
	m.Data[10] = -2 / (far - near)
	m.Data[12] = -(right + left) / (right - left)
	m.Data[13] = -(top + bottom) / (top - bottom)
	m.Data[14] = -(far + near) / (far - near)
	return m
}

func (m Matrix44) At(column, row int) float64 {
	return m.Data[column*4+row]
}

func (m Matrix44) Mul(other Matrix44) Matrix44 {
	out := Matrix44{}
	for c := 0; c < 4; c++ {
		for r := 0; r < 4; r++ {
			sum := 0.0
			for i := 0; i < 4; i++ {
				sum += m.Data[i*4+r] * other.Data[c*4+i]
			}
			out.Data[c*4+r] = sum
		}
	}
	return out
}

func (m Matrix44) Transposed() Matrix44 {
	out := Matrix44{}
	for c := 0; c < 4; c++ {
		for r := 0; r < 4; r++ {
			out.Data[r*4+c] = m.Data[c*4+r]
		}
	}
	return out
}
