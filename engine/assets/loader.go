package assets

import (
	"fmt"
	"os"

	"github.com/spaghettifunk/anima-hal/engine/renderer/shadestyle"
)

// StyleField names the source snippet of a style a file is loaded into.
type StyleField int

const (
	VertexPreamble StyleField = iota
	VertexTransform
	GeometryPreamble
	GeometryTransform
	FragmentPreamble
	FragmentTransform
)

func (f StyleField) String() string {
	switch f {
	case VertexPreamble:
		return "vertex preamble"
	case VertexTransform:
		return "vertex transform"
	case GeometryPreamble:
		return "geometry preamble"
	case GeometryTransform:
		return "geometry transform"
	case FragmentPreamble:
		return "fragment preamble"
	case FragmentTransform:
		return "fragment transform"
	}
	return fmt.Sprintf("StyleField(%d)", int(f))
}

// StyleSources maps snippet files to the fields of a style. Empty paths are
// not watched, relative paths are resolved against the watcher directory.
type StyleSources struct {
	VertexPreamble    string
	VertexTransform   string
	GeometryPreamble  string
	GeometryTransform string
	FragmentPreamble  string
	FragmentTransform string
}

func (s StyleSources) fields() map[StyleField]string {
	out := make(map[StyleField]string)
	for field, path := range map[StyleField]string{
		VertexPreamble:    s.VertexPreamble,
		VertexTransform:   s.VertexTransform,
		GeometryPreamble:  s.GeometryPreamble,
		GeometryTransform: s.GeometryTransform,
		FragmentPreamble:  s.FragmentPreamble,
		FragmentTransform: s.FragmentTransform,
	} {
		if path != "" {
			out[field] = path
		}
	}
	return out
}

func current(style *shadestyle.ShadeStyle, field StyleField) (string, bool) {
	switch field {
	case VertexPreamble:
		return style.VertexPreamble()
	case VertexTransform:
		return style.VertexTransform()
	case GeometryPreamble:
		return style.GeometryPreamble()
	case GeometryTransform:
		return style.GeometryTransform()
	case FragmentPreamble:
		return style.FragmentPreamble()
	case FragmentTransform:
		return style.FragmentTransform()
	}
	return "", false
}

// assign sets field to source. Unchanged sources are skipped so the style
// is not dirtied for nothing. Reports whether the style changed.
func assign(style *shadestyle.ShadeStyle, field StyleField, source string) bool {
	if old, ok := current(style, field); ok && old == source {
		return false
	}
	switch field {
	case VertexPreamble:
		style.SetVertexPreamble(source)
	case VertexTransform:
		style.SetVertexTransform(source)
	case GeometryPreamble:
		style.SetGeometryPreamble(source)
	case GeometryTransform:
		style.SetGeometryTransform(source)
	case FragmentPreamble:
		style.SetFragmentPreamble(source)
	case FragmentTransform:
		style.SetFragmentTransform(source)
	default:
		return false
	}
	return true
}

func readSnippet(path string) (string, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return "", fmt.Errorf("failed to read snippet `%s`: %w", path, err)
	}
	return string(data), nil
}
