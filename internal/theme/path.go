package theme

import (
	"fmt"
	"regexp"
	"strings"
)

var alphaRe = regexp.MustCompile(`^([^\s]+)(?:\s*/\s*([^/\s]+))$`)

// Path is a parsed theme path such as `colors.red.500 / 50%`.
type Path struct {
	Segments []string
	Alpha    string
}

// ParsePath splits a dotted or bracketed theme path. Quotes around the
// whole path are dropped; `spacing[2.5]` keeps the bracket contents as one
// segment.
func ParsePath(raw string) (Path, error) {
	raw = strings.Trim(strings.TrimSpace(raw), `'"`)
	var p Path
	if m := alphaRe.FindStringSubmatch(raw); m != nil && !insideBrackets(raw, len(m[1])) {
		raw, p.Alpha = m[1], m[2]
	}
	if strings.Count(raw, "[") != strings.Count(raw, "]") {
		return Path{}, fmt.Errorf("path is invalid, has unbalanced brackets: %s", raw)
	}

	var cur strings.Builder
	depth := 0
	flush := func() {
		if cur.Len() > 0 {
			p.Segments = append(p.Segments, cur.String())
			cur.Reset()
		}
	}
	for _, r := range raw {
		switch {
		case r == '[':
			flush()
			depth++
		case r == ']':
			flush()
			depth--
		case r == '.' && depth == 0:
			flush()
		default:
			cur.WriteRune(r)
		}
	}
	flush()
	if len(p.Segments) == 0 {
		return Path{}, fmt.Errorf("empty theme path")
	}
	return p, nil
}

func insideBrackets(s string, at int) bool {
	depth := 0
	for i := 0; i < at && i < len(s); i++ {
		switch s[i] {
		case '[':
			depth++
		case ']':
			depth--
		}
	}
	return depth > 0
}

// String renders segments back in dotted form, bracketing keys that
// contain dots.
func (p Path) String() string {
	return JoinPath(p.Segments)
}

// JoinPath renders segments in dotted form.
func JoinPath(segments []string) string {
	var b strings.Builder
	for i, s := range segments {
		switch {
		case strings.Contains(s, "."):
			b.WriteString("[" + s + "]")
		case i > 0:
			b.WriteString("." + s)
		default:
			b.WriteString(s)
		}
	}
	return b.String()
}

// walk descends into v following segments. Dotted keys are matched
// greedily, so `spacing.2.5` finds the `2.5` key.
func walk(v Value, segments []string) (Value, bool) {
	if len(segments) == 0 {
		return v, v != nil
	}
	s, ok := v.(*Scale)
	if !ok {
		if l, isList := v.(List); isList && len(segments) == 1 {
			var idx int
			if _, err := fmt.Sscanf(segments[0], "%d", &idx); err == nil && idx >= 0 && idx < len(l) {
				return l[idx], true
			}
		}
		return nil, false
	}
	for n := len(segments); n >= 1; n-- {
		child, ok := s.Get(strings.Join(segments[:n], "."))
		if !ok {
			continue
		}
		if found, ok := walk(child, segments[n:]); ok {
			return found, true
		}
	}
	return nil, false
}
