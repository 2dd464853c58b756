package datatype

import (
	"regexp"
	"strings"
)

// properties whose values accept a bare <dashed-ident>
var dashedIdentProperties = map[string]bool{
	"scroll-timeline-name": true,
	"timeline-scope":       true,
	"view-timeline-name":   true,
	"font-palette":         true,
	"anchor-name":          true,
	"anchor-scope":         true,
	"position-anchor":      true,
	"position-try-options": true,
	"scroll-timeline":      true,
	"animation-timeline":   true,
	"view-timeline":        true,
	"position-try":         true,
}

var (
	urlPart     = regexp.MustCompile(`url\(.*?\)`)
	mathFn      = regexp.MustCompile(`(calc|min|max|clamp)\(.+\)`)
	spaceRun    = regexp.MustCompile(`\s+`)
	underscores = regexp.MustCompile(`([^\\])_+`)
)

var keepKeywords = []string{
	"min-content", "max-content", "fit-content",
	"safe-area-inset-top", "safe-area-inset-right", "safe-area-inset-bottom", "safe-area-inset-left",
	"titlebar-area-x", "titlebar-area-y", "titlebar-area-width", "titlebar-area-height",
	"keyboard-inset-top", "keyboard-inset-right", "keyboard-inset-bottom", "keyboard-inset-left",
	"keyboard-inset-width", "keyboard-inset-height",
	"radial-gradient", "linear-gradient", "conic-gradient",
	"repeating-radial-gradient", "repeating-linear-gradient", "repeating-conic-gradient",
	"anchor-size",
}

// Normalize turns an arbitrary value as written in a class name into CSS:
// a leading "--name" becomes var(--name), underscores become spaces (\_
// stays a literal underscore), url() contents are kept verbatim and math
// operators inside calc()/min()/max()/clamp() get surrounding spaces.
// property may be empty.
func Normalize(value, property string) string {
	return normalize(value, property, true)
}

func normalize(value, property string, root bool) string {
	if strings.HasPrefix(value, "--") && !dashedIdentProperties[property] {
		return "var(" + value + ")"
	}

	if strings.Contains(value, "url(") {
		var b strings.Builder
		last := 0
		for _, loc := range urlPart.FindAllStringIndex(value, -1) {
			if loc[0] > last {
				b.WriteString(normalize(value[last:loc[0]], property, false))
			}
			b.WriteString(value[loc[0]:loc[1]])
			last = loc[1]
		}
		if last < len(value) {
			b.WriteString(normalize(value[last:], property, false))
		}
		return b.String()
	}

	value = underscores.ReplaceAllStringFunc(value, func(m string) string {
		return m[:1] + strings.Repeat(" ", len(m)-1)
	})
	if strings.HasPrefix(value, "_") {
		value = " " + value[1:]
	}
	value = strings.ReplaceAll(value, `\_`, "_")

	if root {
		value = strings.TrimSpace(value)
	}
	return mathFn.ReplaceAllStringFunc(value, formatMath)
}

func formatMath(match string) string {
	var b strings.Builder
	lastChar := func() byte {
		s := strings.TrimRight(b.String(), " \t\n")
		if s == "" {
			return 0
		}
		return s[len(s)-1]
	}
	consumeUntil := func(i int, chars string) (string, int) {
		end := len(match)
		for _, c := range []byte(chars) {
			if idx := strings.IndexByte(match[i:], c); idx >= 0 && i+idx < end {
				end = i + idx
			}
		}
		return match[i:end], end - 1
	}

	for i := 0; i < len(match); i++ {
		rest := match[i:]
		c := match[i]
		switch {
		case strings.HasPrefix(rest, "var"):
			s, next := consumeUntil(i, "),")
			b.WriteString(s)
			i = next
		case keyword(rest) != "":
			kw := keyword(rest)
			b.WriteString(kw)
			i += len(kw) - 1
		case strings.HasPrefix(rest, "theme"):
			s, next := consumeUntil(i, ")")
			b.WriteString(s)
			i = next
		case c == '[':
			s, next := consumeUntil(i, "]")
			b.WriteString(s)
			i = next
		case strings.IndexByte("+-*/", c) >= 0 && strings.IndexByte("(+-*/,", lastChar()) < 0 && lastChar() != 0:
			b.WriteByte(' ')
			b.WriteByte(c)
			b.WriteByte(' ')
		default:
			b.WriteByte(c)
		}
	}
	return spaceRun.ReplaceAllString(b.String(), " ")
}

func keyword(s string) string {
	for _, kw := range keepKeywords {
		if strings.HasPrefix(s, kw) {
			return kw
		}
	}
	return ""
}
