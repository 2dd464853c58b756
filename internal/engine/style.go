package engine

import (
	"strings"
	"unicode"

	"github.com/yacobolo/windgen/internal/css"
	"github.com/yacobolo/windgen/internal/datatype"
	"github.com/yacobolo/windgen/internal/theme"
)

// Entry is one item of a Style: a declaration, or a nested block when
// Nested is non-nil. Nested keys are selectors ("&:hover", "& > *"),
// at-rules ("@media (min-width: 640px)") or, inside keyframes, steps.
type Entry struct {
	Key    string
	Value  string
	Nested Style
}

// Style is an ordered declaration block, the Go counterpart of a CSS-in-JS
// object.
type Style []Entry

// Decl returns a declaration entry. camelCase properties are written in
// kebab-case; custom properties are kept as is.
func Decl(prop, value string) Entry {
	return Entry{Key: prop, Value: value}
}

// Nest returns a nested block entry.
func Nest(key string, entries ...Entry) Entry {
	if entries == nil {
		entries = Style{}
	}
	return Entry{Key: key, Nested: entries}
}

// Decls builds a style from property/value pairs.
func Decls(pairs ...string) Style {
	out := make(Style, 0, len(pairs)/2)
	for i := 0; i+1 < len(pairs); i += 2 {
		out = append(out, Decl(pairs[i], pairs[i+1]))
	}
	return out
}

// Rule is a selector (or at-rule header such as "@font-face") with its
// style.
type Rule struct {
	Selector string
	Style    Style
}

// R is shorthand for a Rule.
func R(selector string, entries ...Entry) Rule {
	return Rule{Selector: selector, Style: entries}
}

func (r Rule) nodes() []*css.Node {
	if strings.HasPrefix(r.Selector, "@") {
		name, params := splitAtRule(r.Selector)
		return []*css.Node{blockAtRule(name, params, blockNodes(r.Style))}
	}
	return styleNodes(r.Selector, r.Style)
}

func blockAtRule(name, params string, children []*css.Node) *css.Node {
	at := css.NewAtRule(name, params, children...)
	at.Block = true
	return at
}

// unwrapped at-rules move to the top level instead of being nested under
// the selector.
var unwrappedAtRules = map[string]bool{
	"keyframes": true, "-webkit-keyframes": true, "font-face": true, "document": true,
}

func styleNodes(selector string, s Style) []*css.Node {
	rule := css.NewRule(selector)
	var before, after []*css.Node
	for _, e := range s {
		if e.Nested == nil {
			rule.Append(css.NewDecl(propertyName(e.Key), e.Value))
			continue
		}
		key := strings.TrimSpace(e.Key)
		if strings.HasPrefix(key, "@") {
			name, params := splitAtRule(key)
			if unwrappedAtRules[name] {
				before = append(before, blockAtRule(name, params, blockNodes(e.Nested)))
				continue
			}
			after = append(after, blockAtRule(name, params, styleNodes(selector, e.Nested)))
			continue
		}
		after = append(after, styleNodes(nestSelector(selector, key), e.Nested)...)
	}
	out := before
	if len(rule.Nodes) > 0 {
		out = append(out, rule)
	}
	return append(out, after...)
}

// blockNodes renders a style whose nested keys are plain selectors, as in
// keyframes and at-rule bodies.
func blockNodes(s Style) []*css.Node {
	out := make([]*css.Node, 0, len(s))
	for _, e := range s {
		switch {
		case e.Nested == nil:
			out = append(out, css.NewDecl(propertyName(e.Key), e.Value))
		case strings.HasPrefix(e.Key, "@"):
			name, params := splitAtRule(e.Key)
			out = append(out, blockAtRule(name, params, blockNodes(e.Nested)))
		default:
			out = append(out, css.NewRule(e.Key, blockNodes(e.Nested)...))
		}
	}
	return out
}

func nestSelector(parent, key string) string {
	parents := datatype.SplitTopLevel(parent, ",")
	var out []string
	for _, k := range datatype.SplitTopLevel(key, ",") {
		k = strings.TrimSpace(k)
		for _, p := range parents {
			p = strings.TrimSpace(p)
			if strings.Contains(k, "&") {
				out = append(out, strings.ReplaceAll(k, "&", p))
			} else {
				out = append(out, p+" "+k)
			}
		}
	}
	return strings.Join(out, ", ")
}

func splitAtRule(header string) (string, string) {
	header = strings.TrimPrefix(strings.TrimSpace(header), "@")
	i := strings.IndexFunc(header, func(r rune) bool {
		return unicode.IsSpace(r) || r == '(' || r == '{'
	})
	if i < 0 {
		return header, ""
	}
	return header[:i], strings.TrimSpace(header[i:])
}

func propertyName(key string) string {
	if strings.HasPrefix(key, "--") {
		return key
	}
	var b strings.Builder
	for _, r := range key {
		if unicode.IsUpper(r) {
			b.WriteByte('-')
			b.WriteRune(unicode.ToLower(r))
			continue
		}
		b.WriteRune(r)
	}
	out := b.String()
	if strings.HasPrefix(out, "ms-") {
		out = "-" + out
	}
	return out
}

// styleFromValue converts a theme scale (keyframes, nested objects) into a
// style.
func styleFromValue(v theme.Value) Style {
	s, ok := v.(*theme.Scale)
	if !ok {
		return nil
	}
	out := Style{}
	for _, k := range s.Keys() {
		e, _ := s.Get(k)
		if str, isString := theme.Stringify(e); isString {
			out = append(out, Decl(k, str))
			continue
		}
		out = append(out, Nest(k, styleFromValue(e)...))
	}
	return out
}
