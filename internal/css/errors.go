package css

import (
	"fmt"
	"strings"
)

// SyntaxError is returned by Parse when the stylesheet cannot be read.
type SyntaxError struct {
	File   string
	Line   int
	Column int
	Reason string
	Source string // full input, used to render the snippet
}

func (e *SyntaxError) Error() string {
	file := e.File
	if file == "" {
		file = "<input>"
	}
	return fmt.Sprintf("%s:%d:%d: %s", file, e.Line, e.Column, e.Reason)
}

// Snippet renders the offending line followed by a caret under the column.
func (e *SyntaxError) Snippet() string {
	if e.Source == "" || e.Line <= 0 {
		return ""
	}
	lines := strings.Split(e.Source, "\n")
	if e.Line > len(lines) {
		return ""
	}
	line := strings.TrimRight(lines[e.Line-1], "\r")

	var b strings.Builder
	gutter := fmt.Sprintf("%d | ", e.Line)
	b.WriteString(gutter)
	b.WriteString(line)
	b.WriteByte('\n')
	b.WriteString(strings.Repeat(" ", len(gutter)-2))
	b.WriteString("| ")
	b.WriteString(caret(line, e.Column))
	return b.String()
}

// caret aligns a "^" with column, keeping tabs so the indicator lines up.
func caret(line string, column int) string {
	if column <= 0 {
		return "^"
	}
	n := column - 1
	if n > len(line) {
		n = len(line)
	}
	var pad strings.Builder
	for _, ch := range line[:n] {
		if ch == '\t' {
			pad.WriteRune('\t')
		} else {
			pad.WriteRune(' ')
		}
	}
	return pad.String() + "^"
}
