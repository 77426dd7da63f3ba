package metadata

/**
 * @brief The access a shader has to a bound image.
 */
type ImageAccess int

const (
	ImageAccessRead ImageAccess = iota
	ImageAccessWrite
	ImageAccessReadWrite
)

func (a ImageAccess) String() string {
	switch a {
	case ImageAccessRead:
		return "READ"
	case ImageAccessWrite:
		return "WRITE"
	case ImageAccessReadWrite:
		return "READ_WRITE"
	}
	return "UNKNOWN"
}

/**
 * @brief ImageBinding binds one level of a texture as a load/store image.
 */
type ImageBinding interface {
	Texture() Texture
	ImageAccess() ImageAccess
	ImageLevel() int
}

type ColorBufferImageBinding struct {
	ColorBuffer *ColorBuffer
	Level       int
	Access      ImageAccess
}

func (b ColorBufferImageBinding) Texture() Texture         { return b.ColorBuffer }
func (b ColorBufferImageBinding) ImageAccess() ImageAccess { return b.Access }
func (b ColorBufferImageBinding) ImageLevel() int          { return b.Level }

type ArrayTextureImageBinding struct {
	ArrayTexture *ArrayTexture
	Level        int
	Access       ImageAccess
}

func (b ArrayTextureImageBinding) Texture() Texture         { return b.ArrayTexture }
func (b ArrayTextureImageBinding) ImageAccess() ImageAccess { return b.Access }
func (b ArrayTextureImageBinding) ImageLevel() int          { return b.Level }

type CubemapImageBinding struct {
	Cubemap *Cubemap
	Level   int
	Access  ImageAccess
}

func (b CubemapImageBinding) Texture() Texture         { return b.Cubemap }
func (b CubemapImageBinding) ImageAccess() ImageAccess { return b.Access }
func (b CubemapImageBinding) ImageLevel() int          { return b.Level }

type ArrayCubemapImageBinding struct {
	ArrayCubemap *ArrayCubemap
	Level        int
	Access       ImageAccess
}

func (b ArrayCubemapImageBinding) Texture() Texture         { return b.ArrayCubemap }
func (b ArrayCubemapImageBinding) ImageAccess() ImageAccess { return b.Access }
func (b ArrayCubemapImageBinding) ImageLevel() int          { return b.Level }

type VolumeTextureImageBinding struct {
	VolumeTexture *VolumeTexture
	Level         int
	Access        ImageAccess
}

func (b VolumeTextureImageBinding) Texture() Texture         { return b.VolumeTexture }
func (b VolumeTextureImageBinding) ImageAccess() ImageAccess { return b.Access }
func (b VolumeTextureImageBinding) ImageLevel() int          { return b.Level }

type BufferTextureImageBinding struct {
	BufferTexture *BufferTexture
	Access        ImageAccess
}

func (b BufferTextureImageBinding) Texture() Texture         { return b.BufferTexture }
func (b BufferTextureImageBinding) ImageAccess() ImageAccess { return b.Access }
func (b BufferTextureImageBinding) ImageLevel() int          { return 0 }
