package metadata

/**
 * @brief The channel layout of a texture.
 */
type ColorFormat int

const (
	ColorFormatR ColorFormat = iota
	ColorFormatRG
	ColorFormatRGB
	ColorFormatBGR
	ColorFormatRGBa
	ColorFormatBGRa
	ColorFormatSRGB
	ColorFormatSRGBa
)

var colorFormatNames = [...]string{
	ColorFormatR:     "R",
	ColorFormatRG:    "RG",
	ColorFormatRGB:   "RGB",
	ColorFormatBGR:   "BGR",
	ColorFormatRGBa:  "RGBa",
	ColorFormatBGRa:  "BGRa",
	ColorFormatSRGB:  "sRGB",
	ColorFormatSRGBa: "sRGBa",
}

func (f ColorFormat) String() string {
	if f < 0 || int(f) >= len(colorFormatNames) {
		return "UNKNOWN"
	}
	return colorFormatNames[f]
}

/** @brief The number of channels of the format. */
func (f ColorFormat) ComponentCount() int {
	switch f {
	case ColorFormatR:
		return 1
	case ColorFormatRG:
		return 2
	case ColorFormatRGB, ColorFormatBGR, ColorFormatSRGB:
		return 3
	default:
		return 4
	}
}

/**
 * @brief How samplers read the channels of a texture.
 */
type ColorSampling int

const (
	ColorSamplingNormalized ColorSampling = iota
	ColorSamplingUnsignedInteger
	ColorSamplingSignedInteger
)

/**
 * @brief The storage type of each channel.
 */
type ColorType int

const (
	ColorTypeUint8 ColorType = iota
	ColorTypeUint8Int
	ColorTypeSint8Int
	ColorTypeUint16
	ColorTypeUint16Int
	ColorTypeSint16Int
	ColorTypeUint32Int
	ColorTypeSint32Int
	ColorTypeFloat16
	ColorTypeFloat32
)

var colorTypeNames = [...]string{
	ColorTypeUint8:     "UINT8",
	ColorTypeUint8Int:  "UINT8_INT",
	ColorTypeSint8Int:  "SINT8_INT",
	ColorTypeUint16:    "UINT16",
	ColorTypeUint16Int: "UINT16_INT",
	ColorTypeSint16Int: "SINT16_INT",
	ColorTypeUint32Int: "UINT32_INT",
	ColorTypeSint32Int: "SINT32_INT",
	ColorTypeFloat16:   "FLOAT16",
	ColorTypeFloat32:   "FLOAT32",
}

func (t ColorType) String() string {
	if t < 0 || int(t) >= len(colorTypeNames) {
		return "UNKNOWN"
	}
	return colorTypeNames[t]
}

func (t ColorType) Sampling() ColorSampling {
	switch t {
	case ColorTypeUint8Int, ColorTypeUint16Int, ColorTypeUint32Int:
		return ColorSamplingUnsignedInteger
	case ColorTypeSint8Int, ColorTypeSint16Int, ColorTypeSint32Int:
		return ColorSamplingSignedInteger
	default:
		return ColorSamplingNormalized
	}
}

/** @brief The size in bytes of a single channel. */
func (t ColorType) ComponentSize() int {
	switch t {
	case ColorTypeUint8, ColorTypeUint8Int, ColorTypeSint8Int:
		return 1
	case ColorTypeUint16, ColorTypeUint16Int, ColorTypeSint16Int, ColorTypeFloat16:
		return 2
	default:
		return 4
	}
}

/**
 * @brief The kind of a texture, one per sampler family.
 */
type TextureKind int

const (
	TextureKindColorBuffer TextureKind = iota
	TextureKindDepthBuffer
	TextureKindCubemap
	TextureKindArrayTexture
	TextureKindArrayCubemap
	TextureKindVolumeTexture
	TextureKindBufferTexture
)

/**
 * @brief State shared by every texture resource.
 */
type TextureInfo struct {
	/** @brief Identifier unique for the process. */
	ID uint32
	/** @brief Debug name, a random one when left empty. */
	Name   string
	Kind   TextureKind
	Format ColorFormat
	Type   ColorType
	Levels int
	/** @brief The backend object name. Zero until the backend uploads the texture. */
	Handle uint32
}

/**
 * @brief Texture is implemented by every resource that can be sampled.
 */
type Texture interface {
	Info() *TextureInfo
}

func newTextureInfo(kind TextureKind, format ColorFormat, colorType ColorType, levels int) TextureInfo {
	if levels < 1 {
		levels = 1
	}
	return TextureInfo{
		ID:     nextResourceID(),
		Name:   NewResourceName("texture"),
		Kind:   kind,
		Format: format,
		Type:   colorType,
		Levels: levels,
	}
}

/** @brief A 2d color texture, also used as a render target attachment. */
type ColorBuffer struct {
	TextureInfo
	Width        int
	Height       int
	ContentScale float64
}

func NewColorBuffer(width, height int, format ColorFormat, colorType ColorType) *ColorBuffer {
	return &ColorBuffer{
		TextureInfo:  newTextureInfo(TextureKindColorBuffer, format, colorType, 1),
		Width:        width,
		Height:       height,
		ContentScale: 1,
	}
}

func (c *ColorBuffer) Info() *TextureInfo { return &c.TextureInfo }

/** @brief The format of a depth attachment. */
type DepthFormat int

const (
	DepthFormatDepth16 DepthFormat = iota
	DepthFormatDepth24
	DepthFormatDepth32F
	DepthFormatDepth24Stencil8
	DepthFormatDepth32FStencil8
)

/** @brief A depth (and optionally stencil) texture. */
type DepthBuffer struct {
	TextureInfo
	Width       int
	Height      int
	DepthFormat DepthFormat
}

func NewDepthBuffer(width, height int, format DepthFormat) *DepthBuffer {
	return &DepthBuffer{
		TextureInfo: newTextureInfo(TextureKindDepthBuffer, ColorFormatR, ColorTypeFloat32, 1),
		Width:       width,
		Height:      height,
		DepthFormat: format,
	}
}

func (d *DepthBuffer) Info() *TextureInfo { return &d.TextureInfo }

type Cubemap struct {
	TextureInfo
	Width int
}

func NewCubemap(width int, format ColorFormat, colorType ColorType, levels int) *Cubemap {
	return &Cubemap{
		TextureInfo: newTextureInfo(TextureKindCubemap, format, colorType, levels),
		Width:       width,
	}
}

func (c *Cubemap) Info() *TextureInfo { return &c.TextureInfo }

type ArrayTexture struct {
	TextureInfo
	Width  int
	Height int
	Layers int
}

func NewArrayTexture(width, height, layers int, format ColorFormat, colorType ColorType, levels int) *ArrayTexture {
	return &ArrayTexture{
		TextureInfo: newTextureInfo(TextureKindArrayTexture, format, colorType, levels),
		Width:       width,
		Height:      height,
		Layers:      layers,
	}
}

func (a *ArrayTexture) Info() *TextureInfo { return &a.TextureInfo }

type ArrayCubemap struct {
	TextureInfo
	Width  int
	Layers int
}

func NewArrayCubemap(width, layers int, format ColorFormat, colorType ColorType, levels int) *ArrayCubemap {
	return &ArrayCubemap{
		TextureInfo: newTextureInfo(TextureKindArrayCubemap, format, colorType, levels),
		Width:       width,
		Layers:      layers,
	}
}

func (a *ArrayCubemap) Info() *TextureInfo { return &a.TextureInfo }

type VolumeTexture struct {
	TextureInfo
	Width  int
	Height int
	Depth  int
}

func NewVolumeTexture(width, height, depth int, format ColorFormat, colorType ColorType, levels int) *VolumeTexture {
	return &VolumeTexture{
		TextureInfo: newTextureInfo(TextureKindVolumeTexture, format, colorType, levels),
		Width:       width,
		Height:      height,
		Depth:       depth,
	}
}

func (v *VolumeTexture) Info() *TextureInfo { return &v.TextureInfo }

/** @brief A one dimensional texture backed by a buffer object. */
type BufferTexture struct {
	TextureInfo
	ElementCount int
}

func NewBufferTexture(elementCount int, format ColorFormat, colorType ColorType) *BufferTexture {
	return &BufferTexture{
		TextureInfo:  newTextureInfo(TextureKindBufferTexture, format, colorType, 1),
		ElementCount: elementCount,
	}
}

func (b *BufferTexture) Info() *TextureInfo { return &b.TextureInfo }
