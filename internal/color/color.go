// Package color parses CSS color values and rewrites their alpha channel.
package color

import (
	"regexp"
	"strconv"
	"strings"
)

// AlphaPlaceholder may appear in configured colors; it is replaced by the
// requested opacity (or 1).
const AlphaPlaceholder = "<alpha-value>"

// Color is a parsed color. Channels are kept as written so var()
// references survive.
type Color struct {
	Mode     string // rgb, rgba, hsl or hsla
	Channels []string
	Alpha    string
	HasAlpha bool
}

const (
	valuePattern  = `(?:\d+|\d*\.\d+)%?`
	sepPattern    = `(?:\s*,\s*|\s+)`
	alphaSep      = `\s*[,/]\s*`
	customPattern = `var\(--(?:[^ )]*?)(?:,(?:[^ )]*?|\([^ )]*?\)))?\)`
	channel       = `(` + valuePattern + `|` + customPattern + `)`
)

var (
	hexRe      = regexp.MustCompile(`(?i)^#([a-f\d]{2})([a-f\d]{2})([a-f\d]{2})([a-f\d]{2})?$`)
	shortHexRe = regexp.MustCompile(`(?i)^#([a-f\d])([a-f\d])([a-f\d])([a-f\d])?$`)
	rgbRe      = regexp.MustCompile(`^(rgba?)\(\s*` + channel +
		`(?:` + sepPattern + channel + `)?` +
		`(?:` + sepPattern + channel + `)?` +
		`(?:` + alphaSep + channel + `)?\s*\)$`)
	hslRe = regexp.MustCompile(`^(hsla?)\(\s*((?:` + valuePattern + `)(?:deg|rad|grad|turn)?|` + customPattern + `)` +
		`(?:` + sepPattern + channel + `)?` +
		`(?:` + sepPattern + channel + `)?` +
		`(?:` + alphaSep + channel + `)?\s*\)$`)
	varOnly = regexp.MustCompile(`^var\(.*?\)$`)
)

// Parse reads a color. In loose mode fewer than three channels are
// accepted as long as one of them is a var() reference.
func Parse(value string, loose bool) (Color, bool) {
	value = strings.TrimSpace(value)
	if value == "transparent" {
		return Color{Mode: "rgb", Channels: []string{"0", "0", "0"}, Alpha: "0", HasAlpha: true}, true
	}
	if rgb, ok := named[value]; ok {
		return Color{Mode: "rgb", Channels: []string{
			strconv.Itoa(int(rgb[0])), strconv.Itoa(int(rgb[1])), strconv.Itoa(int(rgb[2])),
		}}, true
	}

	if m := shortHexRe.FindStringSubmatch(value); m != nil {
		value = "#" + m[1] + m[1] + m[2] + m[2] + m[3] + m[3] + m[4] + m[4]
	}
	if m := hexRe.FindStringSubmatch(value); m != nil {
		c := Color{Mode: "rgb", Channels: []string{hexByte(m[1]), hexByte(m[2]), hexByte(m[3])}}
		if m[4] != "" {
			v, _ := strconv.ParseUint(m[4], 16, 8)
			c.Alpha = strconv.FormatFloat(float64(v)/255, 'f', -1, 64)
			c.HasAlpha = true
		}
		return c, true
	}

	m := rgbRe.FindStringSubmatch(value)
	if m == nil {
		m = hslRe.FindStringSubmatch(value)
	}
	if m == nil {
		return Color{}, false
	}

	var channels []string
	for _, ch := range m[2:5] {
		if ch != "" {
			channels = append(channels, ch)
		}
	}
	// rgba(var(--color), 0.5)
	if len(channels) == 2 && strings.HasPrefix(channels[0], "var(") {
		return Color{Mode: m[1], Channels: channels[:1], Alpha: channels[1], HasAlpha: true}, true
	}
	if !loose && len(channels) != 3 {
		return Color{}, false
	}
	if len(channels) < 3 {
		hasVar := false
		for _, ch := range channels {
			if varOnly.MatchString(ch) {
				hasVar = true
			}
		}
		if !hasVar {
			return Color{}, false
		}
	}
	c := Color{Mode: m[1], Channels: channels}
	if m[5] != "" {
		c.Alpha, c.HasAlpha = m[5], true
	}
	return c, true
}

func hexByte(s string) string {
	v, _ := strconv.ParseUint(s, 16, 8)
	return strconv.FormatUint(v, 10)
}

// String formats the color. Legacy rgba()/hsla() keep the comma syntax.
func (c Color) String() string {
	if c.Mode == "rgba" || c.Mode == "hsla" {
		s := c.Mode + "(" + strings.Join(c.Channels, ", ")
		if c.HasAlpha {
			s += ", " + c.Alpha
		}
		return s + ")"
	}
	s := c.Mode + "(" + strings.Join(c.Channels, " ")
	if c.HasAlpha {
		s += " / " + c.Alpha
	}
	return s + ")"
}

// WithAlpha returns a copy with the alpha channel replaced.
func (c Color) WithAlpha(alpha string) Color {
	c.Channels = append([]string(nil), c.Channels...)
	c.Alpha, c.HasAlpha = alpha, true
	return c
}

// HasPlaceholder reports whether value carries the alpha placeholder.
func HasPlaceholder(value string) bool {
	return strings.Contains(value, AlphaPlaceholder)
}

// WithAlphaValue applies an opacity to a color. Colors carrying the
// placeholder get it substituted; unparseable colors return fallback.
func WithAlphaValue(value, alpha, fallback string) string {
	if HasPlaceholder(value) {
		return strings.ReplaceAll(value, AlphaPlaceholder, alpha)
	}
	c, ok := Parse(value, true)
	if !ok {
		return fallback
	}
	return c.WithAlpha(alpha).String()
}

// Declaration is a property/value pair.
type Declaration struct {
	Property string
	Value    string
}

// WithAlphaVariable expands a color into declarations that read their
// opacity from a custom property, e.g.
//
//	--tw-bg-opacity: 1
//	background-color: rgb(239 68 68 / var(--tw-bg-opacity))
//
// Colors that already have an alpha channel, or that cannot be parsed,
// are used as is.
func WithAlphaVariable(value string, properties []string, variable string) []Declaration {
	plain := func() []Declaration {
		out := make([]Declaration, len(properties))
		for i, p := range properties {
			out[i] = Declaration{Property: p, Value: value}
		}
		return out
	}

	if HasPlaceholder(value) {
		out := []Declaration{{Property: variable, Value: "1"}}
		for _, p := range properties {
			out = append(out, Declaration{Property: p, Value: strings.ReplaceAll(value, AlphaPlaceholder, "var("+variable+")")})
		}
		return out
	}

	c, ok := Parse(value, false)
	if !ok || c.HasAlpha {
		return plain()
	}
	out := []Declaration{{Property: variable, Value: "1"}}
	formatted := c.WithAlpha("var(" + variable + ")").String()
	for _, p := range properties {
		out = append(out, Declaration{Property: p, Value: formatted})
	}
	return out
}
