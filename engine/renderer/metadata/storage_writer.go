package metadata

import (
	"encoding/binary"
	"fmt"
	m "math"

	hmath "github.com/spaghettifunk/anima-hal/engine/math"
)

// StorageWriter fills the bytes of a storage buffer in member order, using
// the same tight packing as ShaderStorageFormat.
type StorageWriter struct {
	data   []byte
	offset int
}

func NewStorageWriter(format *ShaderStorageFormat) *StorageWriter {
	return &StorageWriter{data: make([]byte, format.Size())}
}

func (w *StorageWriter) Bytes() []byte {
	return w.data
}

func (w *StorageWriter) Offset() int {
	return w.offset
}

func (w *StorageWriter) Remaining() int {
	return len(w.data) - w.offset
}

func (w *StorageWriter) Seek(offset int) error {
	if offset < 0 || offset > len(w.data) {
		return fmt.Errorf("seek to %d outside of buffer of %d bytes", offset, len(w.data))
	}
	w.offset = offset
	return nil
}

func (w *StorageWriter) reserve(n int) ([]byte, error) {
	if w.offset+n > len(w.data) {
		return nil, fmt.Errorf("write of %d bytes at %d overflows buffer of %d bytes", n, w.offset, len(w.data))
	}
	b := w.data[w.offset : w.offset+n]
	w.offset += n
	return b, nil
}

func (w *StorageWriter) WriteUint32(v uint32) error {
	b, err := w.reserve(4)
	if err != nil {
		return err
	}
	binary.LittleEndian.PutUint32(b, v)
	return nil
}

func (w *StorageWriter) WriteInt32(v int32) error {
	return w.WriteUint32(uint32(v))
}

func (w *StorageWriter) WriteFloat32(v float32) error {
	return w.WriteUint32(m.Float32bits(v))
}

// WriteBool writes a 4 byte boolean, as GLSL stores them.
func (w *StorageWriter) WriteBool(v bool) error {
	if v {
		return w.WriteUint32(1)
	}
	return w.WriteUint32(0)
}

func (w *StorageWriter) writeFloats(values ...float64) error {
	b, err := w.reserve(4 * len(values))
	if err != nil {
		return err
	}
	for i, v := range values {
		binary.LittleEndian.PutUint32(b[i*4:], m.Float32bits(float32(v)))
	}
	return nil
}

func (w *StorageWriter) writeInts(values ...int32) error {
	b, err := w.reserve(4 * len(values))
	if err != nil {
		return err
	}
	for i, v := range values {
		binary.LittleEndian.PutUint32(b[i*4:], uint32(v))
	}
	return nil
}

func (w *StorageWriter) WriteVector2(v hmath.Vector2) error {
	return w.writeFloats(v.X, v.Y)
}

func (w *StorageWriter) WriteVector3(v hmath.Vector3) error {
	return w.writeFloats(v.X, v.Y, v.Z)
}

func (w *StorageWriter) WriteVector4(v hmath.Vector4) error {
	return w.writeFloats(v.X, v.Y, v.Z, v.W)
}

func (w *StorageWriter) WriteIntVector2(v hmath.IntVector2) error {
	return w.writeInts(v.X, v.Y)
}

func (w *StorageWriter) WriteIntVector3(v hmath.IntVector3) error {
	return w.writeInts(v.X, v.Y, v.Z)
}

func (w *StorageWriter) WriteIntVector4(v hmath.IntVector4) error {
	return w.writeInts(v.X, v.Y, v.Z, v.W)
}

func (w *StorageWriter) WriteColor(c hmath.ColorRGBa) error {
	return w.writeFloats(c.R, c.G, c.B, c.A)
}

func (w *StorageWriter) WriteMatrix33(mat hmath.Matrix33) error {
	return w.writeFloats(mat.Data[:]...)
}

func (w *StorageWriter) WriteMatrix44(mat hmath.Matrix44) error {
	return w.writeFloats(mat.Data[:]...)
}
