package theme

import (
	"strconv"
	"strings"
)

// ScreenValue is one clause of a breakpoint.
type ScreenValue struct {
	Min string
	Max string
	Raw string
}

// Screen is a normalised breakpoint.
type Screen struct {
	Name   string
	Not    bool
	Values []ScreenValue
}

// NormalizeScreens accepts the shapes the screens table allows: a string
// (min width), a scale with min/max/raw keys, or a list of either.
func NormalizeScreens(v Value) []Screen {
	s, ok := v.(*Scale)
	if !ok {
		if l, isList := v.(List); isList {
			var out []Screen
			for _, e := range l {
				if lit, isLit := e.(Literal); isLit {
					out = append(out, Screen{Name: string(lit), Values: []ScreenValue{{Min: string(lit)}}})
				}
			}
			return out
		}
		return nil
	}
	out := make([]Screen, 0, s.Len())
	for _, name := range s.Keys() {
		sv, _ := s.Get(name)
		screen := Screen{Name: name, Values: screenValues(sv)}
		if len(screen.Values) > 0 {
			out = append(out, screen)
		}
	}
	return out
}

func screenValues(v Value) []ScreenValue {
	switch x := v.(type) {
	case Literal:
		return []ScreenValue{{Min: string(x)}}
	case *Scale:
		sv := ScreenValue{}
		for _, k := range []string{"min", "min-width"} {
			if m, ok := x.Get(k); ok {
				sv.Min, _ = Stringify(m)
			}
		}
		for _, k := range []string{"max", "max-width"} {
			if m, ok := x.Get(k); ok {
				sv.Max, _ = Stringify(m)
			}
		}
		if r, ok := x.Get("raw"); ok {
			sv.Raw, _ = Stringify(r)
		}
		if sv == (ScreenValue{}) {
			return nil
		}
		return []ScreenValue{sv}
	case List:
		var out []ScreenValue
		for _, e := range x {
			out = append(out, screenValues(e)...)
		}
		return out
	}
	return nil
}

// MediaQuery renders the screen as media query params.
func (s Screen) MediaQuery() string {
	parts := make([]string, 0, len(s.Values))
	for _, v := range s.Values {
		if v.Raw != "" {
			parts = append(parts, v.Raw)
			continue
		}
		var clauses []string
		if v.Min != "" {
			clauses = append(clauses, "(min-width: "+v.Min+")")
		}
		if v.Max != "" {
			clauses = append(clauses, "(max-width: "+v.Max+")")
		}
		parts = append(parts, strings.Join(clauses, " and "))
	}
	q := strings.Join(parts, ", ")
	if s.Not {
		return "not all and " + q
	}
	return q
}

// Simple reports whether every screen is a single min-only clause with
// one shared unit, the case in which min-* and max-* variants are offered.
func Simple(screens []Screen) bool {
	unit := ""
	for _, s := range screens {
		if len(s.Values) != 1 || s.Values[0].Raw != "" || s.Values[0].Max != "" || s.Values[0].Min == "" {
			return false
		}
		_, u, ok := SplitUnit(s.Values[0].Min)
		if !ok {
			return false
		}
		if unit == "" {
			unit = u
		} else if u != unit {
			return false
		}
	}
	return true
}

// SplitUnit splits "640px" into 640 and "px".
func SplitUnit(v string) (float64, string, bool) {
	i := 0
	for i < len(v) && (v[i] == '.' || v[i] == '-' || (v[i] >= '0' && v[i] <= '9')) {
		i++
	}
	n, err := strconv.ParseFloat(v[:i], 64)
	if err != nil {
		return 0, "", false
	}
	return n, v[i:], true
}

// CompareScreens orders screen values ascending by min width (or
// descending by max width when dir is "max").
func CompareScreens(dir string, a, b ScreenValue) int {
	if dir == "max" {
		an, _, _ := SplitUnit(a.Max)
		bn, _, _ := SplitUnit(b.Max)
		return cmpFloat(bn, an)
	}
	an, _, _ := SplitUnit(a.Min)
	bn, _, _ := SplitUnit(b.Min)
	return cmpFloat(an, bn)
}

func cmpFloat(a, b float64) int {
	switch {
	case a < b:
		return -1
	case a > b:
		return 1
	}
	return 0
}

// Breakpoints maps screens to `screen-<name>` keys, used by max-width.
func Breakpoints(v Value) *Scale {
	out := NewScale()
	s, ok := v.(*Scale)
	if !ok {
		return out
	}
	for _, k := range s.Keys() {
		if lit, isLit := s.values[k].(Literal); isLit {
			out.Set("screen-"+k, lit)
		}
	}
	return out
}
