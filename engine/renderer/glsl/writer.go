package glsl

import (
	"fmt"
	"strings"
)

// writer accumulates indented source text.
type writer struct {
	out    strings.Builder
	indent int
}

func (w *writer) writeIndent() {
	for i := 0; i < w.indent; i++ {
		w.out.WriteString("    ")
	}
}

func (w *writer) writeLine(format string, args ...interface{}) {
	if format == "" {
		w.out.WriteByte('\n')
		return
	}
	w.writeIndent()
	if len(args) == 0 {
		w.out.WriteString(format)
	} else {
		fmt.Fprintf(&w.out, format, args...)
	}
	w.out.WriteByte('\n')
}

// writeSnippet copies user code line by line at the current indentation.
func (w *writer) writeSnippet(code string) {
	if code == "" {
		return
	}
	for _, line := range strings.Split(code, "\n") {
		line = strings.TrimRight(line, " \t\r")
		if line == "" {
			w.out.WriteByte('\n')
			continue
		}
		w.writeIndent()
		w.out.WriteString(line)
		w.out.WriteByte('\n')
	}
}

func (w *writer) String() string {
	return w.out.String()
}
