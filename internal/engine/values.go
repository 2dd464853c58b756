package engine

import (
	"fmt"
	"regexp"
	"strings"

	"github.com/yacobolo/windgen/internal/color"
	"github.com/yacobolo/windgen/internal/css"
	"github.com/yacobolo/windgen/internal/datatype"
	"github.com/yacobolo/windgen/internal/selector"
	"github.com/yacobolo/windgen/internal/theme"
)

// formatClass joins a utility name and a value key into a class name.
func formatClass(prefix, key string) string {
	switch {
	case key == "DEFAULT":
		return prefix
	case key == "-" || key == "-DEFAULT":
		return "-" + prefix
	case strings.HasPrefix(key, "-"):
		return "-" + prefix + key
	case strings.HasPrefix(key, "/"):
		return prefix + key
	}
	return prefix + "-" + key
}

// coerced is one interpretation of a utility modifier.
type coerced struct {
	value    theme.Value
	typ      datatype.Type
	modifier string
}

var typeHint = regexp.MustCompile(`^[\w-]+$`)

// coerce resolves the value of a parameterised utility: a configured key,
// an explicitly typed [type:value], or the first accepted type that the
// value satisfies.
func (c *Context) coerce(o *ruleOptions, modifier string) (coerced, bool) {
	if _, ok := o.values.Get(modifier); ok {
		for _, ts := range o.types {
			if v, found := c.resolveType(ts.Type, modifier, modifier, o); found {
				return coerced{value: v, typ: ts.Type}, true
			}
		}
	}

	if datatype.IsArbitrary(modifier) {
		inner := modifier[1 : len(modifier)-1]
		hint, value, found := strings.Cut(inner, ":")
		switch {
		case !found || !typeHint.MatchString(hint):
		case !datatype.Known(hint):
			return coerced{}, false
		case value != "":
			v, ok := asValue("["+value+"]", o, nil)
			if !ok {
				return coerced{}, false
			}
			return coerced{value: v, typ: datatype.Type(hint)}, true
		}
	}

	matches := c.matchingTypes(o, modifier)
	if len(matches) == 0 {
		return coerced{}, false
	}
	return matches[0], true
}

// matchingTypes returns every accepted type the modifier resolves under,
// splitting off a /modifier when the utility takes one.
func (c *Context) matchingTypes(o *ruleOptions, raw string) []coerced {
	if o == nil || len(o.types) == 0 {
		return nil
	}
	value, mod, hasMod := splitUtilityModifier(raw)
	canUse := hasMod && (o.anyModifier || o.modifiers != nil && (datatype.IsArbitrary(mod) || scaleHas(o.modifiers, mod)))
	if !canUse {
		value, mod, hasMod = raw, "", false
	}
	if hasMod && value == "" {
		value = "DEFAULT"
	}
	if hasMod && o.modifiers != nil {
		if v, ok := o.modifiers.Get(mod); ok {
			if s, isString := theme.Stringify(v); isString {
				mod = s
			}
		} else if datatype.IsArbitrary(mod) {
			mod = datatype.Normalize(mod[1:len(mod)-1], "")
		}
	}

	var out []coerced
	for _, ts := range o.types {
		if v, ok := c.resolveType(ts.Type, value, raw, o); ok {
			out = append(out, coerced{value: v, typ: ts.Type, modifier: mod})
		}
	}
	return out
}

func scaleHas(s *theme.Scale, key string) bool {
	_, ok := s.Get(key)
	return ok
}

func (c *Context) resolveType(t datatype.Type, modifier, raw string, o *ruleOptions) (theme.Value, bool) {
	switch t {
	case datatype.Any:
		return asValue(modifier, o, nil)
	case datatype.Color:
		return c.asColor(raw, o)
	case datatype.Lookup:
		return o.values.Get(modifier)
	}
	return asValue(modifier, o, func(v string) bool { return datatype.Check(t, v) })
}

// asValue resolves a configured key, a negated configured key or an
// arbitrary value accepted by validate.
func asValue(modifier string, o *ruleOptions, validate func(string) bool) (theme.Value, bool) {
	if v, ok := o.values.Get(modifier); ok {
		return v, true
	}
	if o.supportsNegative && strings.HasPrefix(modifier, "-") {
		return asNegativeValue(modifier[1:], o, validate)
	}
	return arbitraryValue(modifier, validate)
}

func asNegativeValue(modifier string, o *ruleOptions, validate func(string) bool) (theme.Value, bool) {
	if v, ok := o.values.Get(modifier); ok {
		s, isString := theme.Stringify(v)
		if !isString {
			return nil, false
		}
		neg, ok := datatype.Negate(s)
		if !ok {
			return nil, false
		}
		return theme.Literal(neg), true
	}
	if !datatype.IsArbitrary(modifier) {
		return nil, false
	}
	v, ok := arbitraryValue(modifier, validate)
	if !ok {
		return nil, false
	}
	neg, ok := datatype.Negate(string(v.(theme.Literal)))
	if !ok {
		return nil, false
	}
	return theme.Literal(neg), true
}

func arbitraryValue(modifier string, validate func(string) bool) (theme.Value, bool) {
	if !datatype.IsArbitrary(modifier) {
		return nil, false
	}
	value := modifier[1 : len(modifier)-1]
	if validate != nil && !validate(value) {
		return nil, false
	}
	return theme.Literal(datatype.Normalize(value, "")), true
}

// asColor resolves a color key, a key with an /opacity, or an arbitrary
// color.
func (c *Context) asColor(raw string, o *ruleOptions) (theme.Value, bool) {
	if v, ok := o.values.Get(raw); ok {
		return v, true
	}
	name, alpha, hasAlpha := splitUtilityModifier(raw)
	if hasAlpha {
		var base string
		if v, ok := o.values.Get(name); ok {
			s, isString := theme.Stringify(v)
			if !isString {
				return nil, false
			}
			base = s
		} else if datatype.IsArbitrary(name) {
			base = name[1 : len(name)-1]
		} else {
			return nil, false
		}

		if datatype.IsArbitrary(alpha) {
			alpha = datatype.Normalize(alpha[1:len(alpha)-1], "")
		} else {
			opacity, ok := c.theme.Scale("opacity").Get(alpha)
			if !ok {
				return nil, false
			}
			if alpha, ok = theme.Stringify(opacity); !ok {
				return nil, false
			}
		}
		out := color.WithAlphaValue(base, alpha, "")
		if out == "" {
			return nil, false
		}
		return theme.Literal(out), true
	}
	return asValue(raw, o, func(v string) bool { return datatype.Check(datatype.Color, v) })
}

// splitUtilityModifier splits "red-500/50" into "red-500" and "50",
// leaving slashes inside arbitrary values alone. "[a]/[b]" splits.
func splitUtilityModifier(s string) (string, string, bool) {
	slash := strings.LastIndex(s, "/")
	if slash >= 0 {
		start := strings.LastIndex(s[:slash], "[")
		end := strings.Index(s[slash:], "]")
		nextTo := (slash > 0 && s[slash-1] == ']') || (slash+1 < len(s) && s[slash+1] == '[')
		if !nextTo && start != -1 && end != -1 {
			slash = strings.LastIndex(s[:start], "/")
		}
	}
	if slash == -1 || slash == len(s)-1 {
		return s, "", false
	}
	if datatype.IsArbitrary(s) && !strings.Contains(s, "]/[") {
		return s, "", false
	}
	return s[:slash], s[slash+1:], true
}

// wrapUtility adapts a utility function to the matcher: it resolves the
// modifier into a value and renders the returned style under the class.
func (c *Context) wrapUtility(name string, fn UtilityFunc, o *ruleOptions) func(string, bool) []*css.Node {
	return func(modifier string, onlyPlugin bool) []*css.Node {
		res, ok := c.coerce(o, modifier)
		if !ok || res.value == nil {
			return nil
		}
		if !o.hasType(res.typ) {
			if !onlyPlugin {
				return nil
			}
			c.warn(fmt.Sprintf("Unnecessary typehint `%s` in `%s-%s`. You can safely update it to `%s-%s`.",
				res.typ, name, modifier, name, strings.Replace(modifier, string(res.typ)+":", "", 1)))
		}
		if s, isString := res.value.(theme.Literal); isString && !datatype.ValidPropertyValue(string(s)) {
			return nil
		}
		style := fn(res.value, Info{Modifier: res.modifier})
		if style == nil {
			return nil
		}
		return styleNodes("."+selector.Escape(formatClass(name, modifier)), style)
	}
}
