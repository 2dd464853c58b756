// Package theme resolves design tokens. A theme is built from a base table,
// user overrides and extend blocks; values are literals, lists, ordered
// scales or computed entries evaluated lazily against the theme itself.
package theme

import (
	"fmt"
	"sort"
	"strconv"
	"strings"
)

// Value is one of Literal, List, *Scale or Computed.
type Value interface {
	isValue()
}

// Literal is a plain string value.
type Literal string

// List is an ordered list of values (font stacks, [size, options] pairs).
type List []Value

// Computed is evaluated on access with an accessor bound to the theme.
type Computed func(a Accessor) Value

// Scale is an ordered key/value table.
type Scale struct {
	keys   []string
	values map[string]Value
}

func (Literal) isValue()  {}
func (List) isValue()     {}
func (*Scale) isValue()   {}
func (Computed) isValue() {}

// Accessor is handed to computed values.
type Accessor interface {
	// Theme resolves a path; nil when missing.
	Theme(path string) Value
	// Palette returns the default color palette.
	Palette() *Scale
}

// NewScale returns an empty scale.
func NewScale() *Scale {
	return &Scale{values: map[string]Value{}}
}

// S builds a scale from alternating key, value arguments. Values may be
// strings or Values.
func S(pairs ...any) *Scale {
	if len(pairs)%2 != 0 {
		panic("theme.S: odd number of arguments")
	}
	s := NewScale()
	for i := 0; i < len(pairs); i += 2 {
		s.Set(pairs[i].(string), toValue(pairs[i+1]))
	}
	return s
}

func toValue(v any) Value {
	switch x := v.(type) {
	case Value:
		return x
	case string:
		return Literal(x)
	case []string:
		l := make(List, len(x))
		for i, s := range x {
			l[i] = Literal(s)
		}
		return l
	}
	panic(fmt.Sprintf("theme: unsupported value %T", v))
}

// Set adds or replaces key, keeping the original position of existing keys.
func (s *Scale) Set(key string, v Value) {
	if _, ok := s.values[key]; !ok {
		s.keys = append(s.keys, key)
	}
	s.values[key] = v
}

// Get returns the value stored under key.
func (s *Scale) Get(key string) (Value, bool) {
	if s == nil {
		return nil, false
	}
	v, ok := s.values[key]
	return v, ok
}

// Delete removes key.
func (s *Scale) Delete(key string) {
	if _, ok := s.values[key]; !ok {
		return
	}
	delete(s.values, key)
	for i, k := range s.keys {
		if k == key {
			s.keys = append(s.keys[:i:i], s.keys[i+1:]...)
			break
		}
	}
}

// Keys returns keys in insertion order.
func (s *Scale) Keys() []string {
	if s == nil {
		return nil
	}
	return append([]string(nil), s.keys...)
}

// Len returns the number of entries.
func (s *Scale) Len() int {
	if s == nil {
		return 0
	}
	return len(s.keys)
}

// Clone copies the scale; nested scales and lists are copied too.
func (s *Scale) Clone() *Scale {
	c := NewScale()
	for _, k := range s.keys {
		c.Set(k, cloneValue(s.values[k]))
	}
	return c
}

func cloneValue(v Value) Value {
	switch x := v.(type) {
	case *Scale:
		return x.Clone()
	case List:
		l := make(List, len(x))
		for i, e := range x {
			l[i] = cloneValue(e)
		}
		return l
	}
	return v
}

// Merge deep merges b into a and returns the result. Nested scales are
// merged key by key; any other value in b replaces the one in a.
func Merge(a, b Value) Value {
	as, aok := a.(*Scale)
	bs, bok := b.(*Scale)
	if !aok || !bok {
		return cloneValue(b)
	}
	out := as.Clone()
	for _, k := range bs.keys {
		if existing, ok := out.values[k]; ok {
			out.Set(k, Merge(existing, bs.values[k]))
			continue
		}
		out.Set(k, cloneValue(bs.values[k]))
	}
	return out
}

// FromAny converts decoded YAML/TOML/JSON data into a Value. Map keys are
// ordered naturally (numeric keys by value) since decoders lose order.
func FromAny(v any) (Value, error) {
	switch x := v.(type) {
	case nil:
		return nil, nil
	case Value:
		return x, nil
	case string:
		return Literal(x), nil
	case bool:
		return Literal(strconv.FormatBool(x)), nil
	case int:
		return Literal(strconv.Itoa(x)), nil
	case int64:
		return Literal(strconv.FormatInt(x, 10)), nil
	case uint64:
		return Literal(strconv.FormatUint(x, 10)), nil
	case float64:
		return Literal(strconv.FormatFloat(x, 'f', -1, 64)), nil
	case []any:
		l := make(List, 0, len(x))
		for i, e := range x {
			ev, err := FromAny(e)
			if err != nil {
				return nil, fmt.Errorf("[%d]: %w", i, err)
			}
			l = append(l, ev)
		}
		return l, nil
	case []string:
		return toValue(x), nil
	case map[string]any:
		keys := make([]string, 0, len(x))
		for k := range x {
			keys = append(keys, k)
		}
		SortKeys(keys)
		s := NewScale()
		for _, k := range keys {
			ev, err := FromAny(x[k])
			if err != nil {
				return nil, fmt.Errorf("%s: %w", k, err)
			}
			if ev != nil {
				s.Set(k, ev)
			}
		}
		return s, nil
	}
	return nil, fmt.Errorf("unsupported theme value of type %T", v)
}

// SortKeys orders keys naturally: numeric keys ascending by value first,
// DEFAULT next, then the rest lexically.
func SortKeys(keys []string) {
	sort.SliceStable(keys, func(i, j int) bool {
		a, b := keys[i], keys[j]
		af, aerr := strconv.ParseFloat(a, 64)
		bf, berr := strconv.ParseFloat(b, 64)
		switch {
		case aerr == nil && berr == nil:
			return af < bf
		case aerr == nil:
			return true
		case berr == nil:
			return false
		case a == "DEFAULT":
			return b != "DEFAULT"
		case b == "DEFAULT":
			return false
		}
		return a < b
	})
}

// Flatten turns nested scales into a single level keyed by dash joined
// paths, with DEFAULT collapsing into its parent (colors.red.DEFAULT
// becomes "red").
func Flatten(v Value) *Scale {
	out := NewScale()
	var walk func(prefix string, v Value)
	walk = func(prefix string, v Value) {
		s, ok := v.(*Scale)
		if !ok {
			if prefix != "" {
				out.Set(prefix, v)
			}
			return
		}
		for _, k := range s.keys {
			key := k
			switch {
			case k == "DEFAULT" && prefix != "":
				key = prefix
			case prefix != "":
				key = prefix + "-" + k
			}
			walk(key, s.values[k])
		}
	}
	walk("", v)
	return out
}

// Join renders a list as a comma separated string.
func Join(l List) string {
	parts := make([]string, 0, len(l))
	for _, e := range l {
		if s, ok := e.(Literal); ok {
			parts = append(parts, string(s))
		}
	}
	return strings.Join(parts, ", ")
}
