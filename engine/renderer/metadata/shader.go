package metadata

/** @brief Shader stages available in the system. */
type ShaderStage int

const (
	ShaderStageVertex   ShaderStage = 0x00000001
	ShaderStageGeometry ShaderStage = 0x00000002
	ShaderStageFragment ShaderStage = 0x00000004
)

func (s ShaderStage) String() string {
	switch s {
	case ShaderStageVertex:
		return "vertex"
	case ShaderStageGeometry:
		return "geometry"
	case ShaderStageFragment:
		return "fragment"
	}
	return "unknown"
}

/**
 * @brief A color output declared by a style.
 */
type ShadeStyleOutput struct {
	/** @brief The color attachment the output writes to. */
	Attachment int
	Format     ColorFormat
	Type       ColorType
}

// NewShadeStyleOutput uses RGBa FLOAT32, the default attachment layout.
func NewShadeStyleOutput(attachment int) ShadeStyleOutput {
	return ShadeStyleOutput{
		Attachment: attachment,
		Format:     ColorFormatRGBa,
		Type:       ColorTypeFloat32,
	}
}

/**
 * @brief The generated source text of every stage of a program.
 */
type ProgramSources struct {
	Vertex string
	/** @brief Empty when the program has no geometry stage. */
	Geometry string
	Fragment string
}

func (s ProgramSources) HasGeometry() bool {
	return s.Geometry != ""
}

// Hash identifies the generated sources.
func (s ProgramSources) Hash() uint64 {
	return hashString(s.Vertex + "\x00" + s.Geometry + "\x00" + s.Fragment)
}

/**
 * @brief Represents a linked program on the frontend.
 */
type Program struct {
	/** @brief The program identifier, unique per context. */
	ID      uint32
	Name    string
	Context ContextID
	Sources ProgramSources
	/** @brief The backend program object. */
	Handle uint32
	/** @brief An opaque pointer to hold backend specific data. */
	InternalData interface{}
}

// NewProgram describes a program of context before the backend links it.
// An empty name is replaced by a generated one.
func NewProgram(context ContextID, name string, sources ProgramSources) *Program {
	if name == "" {
		name = NewResourceName("program")
	}
	return &Program{
		ID:      nextResourceID(),
		Name:    name,
		Context: context,
		Sources: sources,
	}
}
