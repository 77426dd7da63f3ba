package metadata

/** @brief Determines face culling mode during rendering. */
type FaceCullMode int

const (
	/** @brief No faces are culled. */
	FaceCullModeNone FaceCullMode = 0x0
	/** @brief Only front faces are culled. */
	FaceCullModeFront FaceCullMode = 0x1
	/** @brief Only back faces are culled. */
	FaceCullModeBack FaceCullMode = 0x2
	/** @brief Both front and back faces are culled. */
	FaceCullModeFrontAndBack FaceCullMode = 0x3
)

type BlendMode int

const (
	BlendModeOver BlendMode = iota
	BlendModeBlend
	BlendModeAdd
	BlendModeSubtract
	BlendModeMultiply
	BlendModeReplace
)

type DepthTestPass int

const (
	DepthTestAlways DepthTestPass = iota
	DepthTestLess
	DepthTestLessOrEqual
	DepthTestEqual
	DepthTestGreaterOrEqual
	DepthTestGreater
	DepthTestNever
)

type DrawPrimitive int

const (
	DrawPrimitiveTriangles DrawPrimitive = iota
	DrawPrimitiveTriangleStrip
	DrawPrimitiveTriangleFan
	DrawPrimitivePoints
	DrawPrimitiveLines
	DrawPrimitiveLineStrip
	DrawPrimitiveLineLoop
)

type ChannelMask struct {
	Red, Green, Blue, Alpha bool
}

var ChannelMaskAll = ChannelMask{Red: true, Green: true, Blue: true, Alpha: true}

/** @brief A clip rectangle in pixels, origin at the top left. */
type Rectangle struct {
	X, Y, Width, Height float64
}

/**
 * @brief The fixed function state applied before a draw call.
 */
type DrawStyle struct {
	/** @brief Scissor rectangle, nil disables clipping. */
	Clip             *Rectangle
	ChannelWriteMask ChannelMask
	BlendMode        BlendMode
	DepthWrite       bool
	DepthTest        DepthTestPass
	CullMode         FaceCullMode
}

func DefaultDrawStyle() DrawStyle {
	return DrawStyle{
		ChannelWriteMask: ChannelMaskAll,
		BlendMode:        BlendModeOver,
		DepthWrite:       false,
		DepthTest:        DepthTestAlways,
		CullMode:         FaceCullModeNone,
	}
}
