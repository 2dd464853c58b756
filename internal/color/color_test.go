package color

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParse(t *testing.T) {
	tests := []struct {
		name  string
		in    string
		loose bool
		want  string
		ok    bool
	}{
		{"named", "red", false, "rgb(255 0 0)", true},
		{"transparent", "transparent", false, "rgb(0 0 0 / 0)", true},
		{"hex", "#ef4444", false, "rgb(239 68 68)", true},
		{"short hex", "#fff", false, "rgb(255 255 255)", true},
		{"hex with alpha", "#00000080", false, "rgb(0 0 0 / 0.5019607843137255)", true},
		{"rgb commas", "rgb(1, 2, 3)", false, "rgb(1 2 3)", true},
		{"rgba", "rgba(1, 2, 3, 0.5)", false, "rgba(1, 2, 3, 0.5)", true},
		{"space syntax alpha", "rgb(1 2 3 / 50%)", false, "rgb(1 2 3 / 50%)", true},
		{"hsl angle", "hsl(120deg 50% 50%)", false, "hsl(120deg 50% 50%)", true},
		{"var channels", "rgb(var(--c))", true, "rgb(var(--c))", true},
		{"var channels strict", "rgb(var(--c))", false, "", false},
		{"rgba var alpha", "rgba(var(--c), 0.1)", false, "rgba(var(--c), 0.1)", true},
		{"not a color", "10px", false, "", false},
		{"currentColor is not parsed", "currentColor", false, "", false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c, ok := Parse(tt.in, tt.loose)
			require.Equal(t, tt.ok, ok)
			if ok {
				assert.Equal(t, tt.want, c.String())
			}
		})
	}
}

func TestWithAlphaValue(t *testing.T) {
	assert.Equal(t, "rgb(239 68 68 / 0.5)", WithAlphaValue("#ef4444", "0.5", "x"))
	assert.Equal(t, "rgb(1 2 3 / 0.25)", WithAlphaValue("rgb(1 2 3 / <alpha-value>)", "0.25", "x"))
	assert.Equal(t, "fallback", WithAlphaValue("currentColor", "0.5", "fallback"))
}

func TestWithAlphaVariable(t *testing.T) {
	got := WithAlphaVariable("#ef4444", []string{"background-color"}, "--tw-bg-opacity")
	assert.Equal(t, []Declaration{
		{Property: "--tw-bg-opacity", Value: "1"},
		{Property: "background-color", Value: "rgb(239 68 68 / var(--tw-bg-opacity))"},
	}, got)

	got = WithAlphaVariable("currentColor", []string{"color"}, "--tw-text-opacity")
	assert.Equal(t, []Declaration{{Property: "color", Value: "currentColor"}}, got)

	got = WithAlphaVariable("rgb(0 0 0 / 0.5)", []string{"color"}, "--tw-text-opacity")
	assert.Equal(t, []Declaration{{Property: "color", Value: "rgb(0 0 0 / 0.5)"}}, got)

	got = WithAlphaVariable("rgb(var(--brand) / <alpha-value>)", []string{"color"}, "--tw-text-opacity")
	assert.Equal(t, []Declaration{
		{Property: "--tw-text-opacity", Value: "1"},
		{Property: "color", Value: "rgb(var(--brand) / var(--tw-text-opacity))"},
	}, got)
}
