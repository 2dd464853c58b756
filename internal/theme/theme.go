package theme

import (
	"fmt"
	"sort"
	"strings"

	"github.com/yacobolo/windgen/internal/color"
)

// Theme is a resolved view over layered theme tables. It is not safe for
// concurrent use; callers serialise access.
type Theme struct {
	// stacks holds, per top level key, the base (or override) value
	// followed by each extend value in order.
	stacks   map[string][]Value
	resolved map[string]Value
	active   map[string]bool
	memo     map[string]lookup
	warnings []string
}

type lookup struct {
	v  Value
	ok bool
}

// New layers base, override and extend tables. A key present in override
// replaces the base entry; extend entries are deep merged on top in order.
func New(base, override *Scale, extends ...*Scale) *Theme {
	t := &Theme{
		stacks:   map[string][]Value{},
		resolved: map[string]Value{},
		active:   map[string]bool{},
		memo:     map[string]lookup{},
	}
	for _, k := range base.Keys() {
		v, _ := base.Get(k)
		t.stacks[k] = []Value{v}
	}
	for _, k := range override.Keys() {
		v, _ := override.Get(k)
		if k == "colors" {
			v = t.expandPalette(v)
		}
		t.stacks[k] = []Value{v}
	}
	for _, ext := range extends {
		for _, k := range ext.Keys() {
			v, _ := ext.Get(k)
			if k == "colors" {
				v = t.expandPalette(v)
			}
			t.stacks[k] = append(t.stacks[k], v)
		}
	}
	return t
}

// Default returns a theme over the default table only.
func Default() *Theme {
	return New(DefaultTable(), nil)
}

// Warnings returns the warnings raised while merging.
func (t *Theme) Warnings() []string {
	return t.warnings
}

// Keys returns the top level keys, sorted.
func (t *Theme) Keys() []string {
	keys := make([]string, 0, len(t.stacks))
	for k := range t.stacks {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}

// expandPalette substitutes `palette.<name>` references with the palette
// entry, resolving renamed entries through the deprecation table.
func (t *Theme) expandPalette(v Value) Value {
	switch x := v.(type) {
	case Literal:
		name, ok := strings.CutPrefix(string(x), "palette.")
		if !ok {
			return x
		}
		pv, warning, found := PaletteColor(name)
		if !found {
			t.warnings = append(t.warnings, fmt.Sprintf("unknown palette color %q", name))
			return x
		}
		if warning != "" {
			t.warnings = append(t.warnings, warning)
		}
		return pv
	case *Scale:
		out := NewScale()
		for _, k := range x.keys {
			out.Set(k, t.expandPalette(x.values[k]))
		}
		return out
	}
	return v
}

// Resolve looks up a dotted path. A trailing `/ alpha` applies an opacity
// to the color found. Results are memoised per path.
func (t *Theme) Resolve(path string) (Value, bool) {
	if l, ok := t.memo[path]; ok {
		return l.v, l.ok
	}
	v, ok := t.resolve(path)
	if len(t.active) == 0 {
		t.memo[path] = lookup{v, ok}
	}
	return v, ok
}

func (t *Theme) resolve(raw string) (Value, bool) {
	p, err := ParsePath(raw)
	if err != nil {
		return nil, false
	}
	root, ok := t.top(p.Segments[0])
	if !ok {
		return nil, false
	}
	v, ok := walk(root, p.Segments[1:])
	if !ok {
		return nil, false
	}
	if p.Alpha != "" {
		s, isString := Stringify(v)
		if !isString {
			return nil, false
		}
		return Literal(color.WithAlphaValue(s, p.Alpha, s)), true
	}
	return v, true
}

// ResolveOr returns the value at path or def.
func (t *Theme) ResolveOr(path string, def Value) Value {
	if v, ok := t.Resolve(path); ok {
		return v
	}
	return def
}

// Scale returns the scale at path, or an empty scale.
func (t *Theme) Scale(path string) *Scale {
	if v, ok := t.Resolve(path); ok {
		if s, isScale := v.(*Scale); isScale {
			return s
		}
	}
	return NewScale()
}

// top resolves a top level key across all of its layers.
func (t *Theme) top(key string) (Value, bool) {
	if v, ok := t.resolved[key]; ok {
		return v, v != nil
	}
	// Indirect cycles (a -> b -> a) resolve the inner reference as missing.
	if t.active[key] {
		return nil, false
	}
	t.active[key] = true
	v := t.layered(key, len(t.stacks[key]))
	delete(t.active, key)
	t.resolved[key] = v
	return v, v != nil
}

// layered merges the first depth layers of key. Computed values in layer
// i that refer back to key see the merge of layers below i.
func (t *Theme) layered(key string, depth int) Value {
	stack := t.stacks[key]
	var merged Value
	for i := 0; i < depth && i < len(stack); i++ {
		v := t.evaluate(stack[i], &accessor{t: t, self: key, below: i})
		switch {
		case v == nil:
		case merged == nil:
			merged = v
		default:
			merged = Merge(merged, v)
		}
	}
	return merged
}

// evaluate resolves computed values, including nested ones.
func (t *Theme) evaluate(v Value, a Accessor) Value {
	switch x := v.(type) {
	case Computed:
		return t.evaluate(x(a), a)
	case *Scale:
		out := NewScale()
		for _, k := range x.keys {
			if ev := t.evaluate(x.values[k], a); ev != nil {
				out.Set(k, ev)
			}
		}
		return out
	case List:
		out := make(List, 0, len(x))
		for _, e := range x {
			if ev := t.evaluate(e, a); ev != nil {
				out = append(out, ev)
			}
		}
		return out
	}
	return v
}

type accessor struct {
	t     *Theme
	self  string
	below int
}

func (a *accessor) Theme(path string) Value {
	p, err := ParsePath(path)
	if err != nil {
		return nil
	}
	if p.Segments[0] != a.self {
		v, _ := a.t.Resolve(path)
		return v
	}
	root := a.t.layered(a.self, a.below)
	v, ok := walk(root, p.Segments[1:])
	if !ok {
		return nil
	}
	if p.Alpha != "" {
		if s, isString := Stringify(v); isString {
			return Literal(color.WithAlphaValue(s, p.Alpha, s))
		}
		return nil
	}
	return v
}

func (a *accessor) Palette() *Scale {
	return Palette()
}

// Stringify renders a leaf value. Lists of literals join with ", ";
// scales are not strings.
func Stringify(v Value) (string, bool) {
	switch x := v.(type) {
	case Literal:
		return string(x), true
	case List:
		for _, e := range x {
			if _, ok := e.(Literal); !ok {
				return "", false
			}
		}
		return Join(x), true
	}
	return "", false
}

// Transform renders a value the way the theme() function prints it for
// the given top level section.
func Transform(section string, v Value) (string, bool) {
	switch section {
	case "fontSize", "outline":
		if l, ok := v.(List); ok && len(l) > 0 {
			v = l[0]
		}
	case "fontFamily":
		if l, ok := v.(List); ok && len(l) == 2 {
			if _, opts := l[1].(*Scale); opts {
				v = l[0]
			}
		}
	case "gridTemplateColumns", "gridTemplateRows", "objectPosition":
		if s, ok := v.(Literal); ok {
			parts := strings.Split(string(s), ",")
			for i := range parts {
				parts[i] = strings.TrimSpace(parts[i])
			}
			return strings.Join(parts, " "), true
		}
	}
	return Stringify(v)
}

// Validate resolves path for use in a stylesheet and explains failures,
// suggesting the closest sibling key.
func (t *Theme) Validate(raw string) (string, error) {
	p, err := ParsePath(raw)
	if err != nil {
		return "", err
	}
	pathString := strings.Trim(strings.TrimSpace(raw), `'"`)
	v, ok := t.Resolve(pathString)
	if !ok {
		msg := fmt.Sprintf("'%s' does not exist in your theme config.", pathString)
		parent := p.Segments[:len(p.Segments)-1]
		if len(parent) == 0 {
			if s := closest(p.Segments[0], t.Keys()); s != "" {
				msg += fmt.Sprintf(" Did you mean '%s'?", s)
			}
			return "", fmt.Errorf("%s", msg)
		}
		pv, _ := t.Resolve(JoinPath(parent))
		if ps, isScale := pv.(*Scale); isScale {
			valid := t.validKeys(parent, ps)
			if s := closest(p.Segments[len(p.Segments)-1], valid); s != "" {
				msg += fmt.Sprintf(" Did you mean '%s'?", JoinPath(append(append([]string{}, parent...), s)))
			} else if len(valid) > 0 {
				msg += fmt.Sprintf(" '%s' has the following valid keys: %s", JoinPath(parent), quoteList(valid))
			}
		}
		return "", fmt.Errorf("%s", msg)
	}

	out, isString := Transform(p.Segments[0], v)
	if !isString {
		msg := fmt.Sprintf("'%s' was found but does not resolve to a string.", pathString)
		if s, isScale := v.(*Scale); isScale {
			if valid := t.validKeys(p.Segments, s); len(valid) > 0 {
				msg += fmt.Sprintf(" Did you mean something like '%s'?", JoinPath(append(append([]string{}, p.Segments...), valid[0])))
			}
		}
		return "", fmt.Errorf("%s", msg)
	}
	if p.Alpha == "" && color.HasPlaceholder(out) {
		out = strings.ReplaceAll(out, color.AlphaPlaceholder, "1")
	}
	return out, nil
}

func (t *Theme) validKeys(parent []string, s *Scale) []string {
	var out []string
	for _, k := range s.Keys() {
		v, _ := s.Get(k)
		if _, ok := Transform(parent[0], v); ok {
			out = append(out, k)
		}
	}
	return out
}

func quoteList(keys []string) string {
	q := make([]string, len(keys))
	for i, k := range keys {
		q[i] = "'" + k + "'"
	}
	if len(q) > 1 {
		return strings.Join(q[:len(q)-1], ", ") + " and " + q[len(q)-1]
	}
	return strings.Join(q, "")
}
