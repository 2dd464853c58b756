package windgen

import (
	"bytes"
	"encoding/json"
	"errors"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/yacobolo/windgen/internal/css"
	"github.com/yacobolo/windgen/internal/engine"
)

func TestDetermineOutputFormat(t *testing.T) {
	tests := []struct {
		name       string
		formatFlag string
		quiet      bool
		expected   ReportFormat
	}{
		{name: "default", expected: ReportText},
		{name: "json", formatFlag: "json", expected: ReportJSON},
		{name: "quiet flag wins", formatFlag: "json", quiet: true, expected: ReportQuiet},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, DetermineOutputFormat(tt.formatFlag, tt.quiet))
		})
	}
}

func TestWriteReport_JSON(t *testing.T) {
	res := &GenerateResult{
		Input:      "app.css",
		Output:     "dist/app.css",
		CSS:        ".p-4{padding:1rem}",
		Stats:      ScanStats{FilesDiscovered: 3, FilesScanned: 2, FilesSkipped: 1},
		FilesRead:  2,
		Candidates: 7,
		Rules:      1,
		Duration:   5 * time.Millisecond,
		Warnings:   []string{"careful"},
	}
	var buf bytes.Buffer
	require.NoError(t, WriteReport(&buf, res, ReportJSON, false))

	var out map[string]any
	require.NoError(t, json.Unmarshal(buf.Bytes(), &out))
	assert.Equal(t, true, out["success"])
	stats := out["stats"].(map[string]any)
	assert.EqualValues(t, 18, stats["bytes"])
	assert.EqualValues(t, 1, stats["files_skipped"])
	assert.EqualValues(t, 7, stats["candidates"])
}

func TestProblemFromError(t *testing.T) {
	source := "@tailwind utilities;\n.a {\n  color: theme(colors.nope);\n}"

	tests := []struct {
		name    string
		err     error
		want    string
		line    int
		srcLine string
	}{
		{
			name:    "syntax error",
			err:     &css.SyntaxError{File: "app.css", Line: 2, Column: 1, Reason: "Unclosed block"},
			want:    "Unclosed block",
			line:    2,
			srcLine: ".a {",
		},
		{
			name:    "directive error without file",
			err:     &engine.DirectiveError{Directive: "theme()", Line: 3, Column: 3, Reason: "'colors.nope' does not exist in your theme config."},
			want:    "theme(): 'colors.nope' does not exist in your theme config.",
			line:    3,
			srcLine: "  color: theme(colors.nope);",
		},
		{
			name: "wrapped directive error from another file",
			err:  errors.Join(errors.New("build"), &engine.DirectiveError{Directive: "@apply", File: "other.css", Line: 1, Column: 1, Reason: "nope"}),
			want: "@apply: nope",
			line: 1,
		},
		{
			name: "plain error",
			err:  errors.New("reading input: no such file"),
			want: "reading input: no such file",
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			p := problemFromError(tt.err, "app.css", source)
			assert.Equal(t, tt.want, p.Message)
			assert.Equal(t, tt.line, p.Line)
			assert.Equal(t, tt.srcLine, p.Source)
		})
	}
}

func TestProblemFromError_RelativeFile(t *testing.T) {
	cwd, err := os.Getwd()
	require.NoError(t, err)
	input := filepath.Join(cwd, "web", "app.css")

	p := problemFromError(&css.SyntaxError{File: input, Line: 1, Column: 1, Reason: "Unclosed block"}, input, ".a {")
	assert.Equal(t, filepath.Join("web", "app.css"), p.File)
	assert.Equal(t, ".a {", p.Source)

	p = problemFromError(&engine.DirectiveError{Directive: "@apply", Line: 1, Column: 1, Reason: "nope"}, "app.css", "")
	assert.Equal(t, "app.css", p.File)
}

func TestSourceLine(t *testing.T) {
	assert.Equal(t, "b", sourceLine("a\r\nb\r\n", 2))
	assert.Empty(t, sourceLine("a", 0))
	assert.Empty(t, sourceLine("a", 5))
}
