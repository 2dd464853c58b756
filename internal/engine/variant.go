package engine

import (
	"fmt"
	"regexp"
	"strings"

	"github.com/yacobolo/windgen/internal/css"
	"github.com/yacobolo/windgen/internal/offsets"
	"github.com/yacobolo/windgen/internal/selector"
	"github.com/yacobolo/windgen/internal/theme"
)

// VariantFunc transforms a matched rule. It may rewrite the container
// through the VariantAPI, and returns the selector or at-rule formats to
// apply: one format is applied directly, several fork the rule into one
// copy per format. ok is false when the variant does not apply.
type VariantFunc func(v *VariantAPI) (formats []string, ok bool)

// MatchVariantFunc builds the formats of a parameterised variant from its
// value. A nil result means the variant does not apply.
type MatchVariantFunc func(value string, info VariantInfo) []string

// VariantInfo carries the optional /modifier of a parameterised variant.
type VariantInfo struct {
	Modifier string
	api      *VariantAPI
}

// Container returns the rules the variant is being applied to.
func (i VariantInfo) Container() *css.Node {
	return i.api.Container()
}

// VariantOptions configures MatchVariant.
type VariantOptions struct {
	// Values become static variants named "<name>-<key>".
	Values *theme.Scale
	// Sort orders rules carrying different values of the variant. Variants
	// sharing an ID are sorted together.
	Sort     offsets.SortFunc
	ID       string
	NoPrefix bool
}

// VariantAPI is handed to variant functions.
type VariantAPI struct {
	Separator string
	// Value is the bracketed or configured value of a parameterised variant.
	Value    string
	Modifier string

	hasValue      bool
	variant       string
	container     *css.Node
	backup        map[*css.Node]string
	formats       []selector.Format
	respectPrefix bool
}

// Container returns the root holding the rule being transformed. Selector
// changes made through it are turned into a format afterwards.
func (v *VariantAPI) Container() *css.Node {
	v.prepareBackup()
	return v.container
}

// ModifySelectors rewrites every top level selector. fn receives the
// selector and its first class.
func (v *VariantAPI) ModifySelectors(fn func(sel, className string) string) {
	v.prepareBackup()
	for _, n := range v.container.Nodes {
		if n.Type != css.RuleNode {
			continue
		}
		parts := selector.Split(n.Selector)
		for i, p := range parts {
			parts[i] = fn(p, selector.FirstClass(p))
		}
		n.SetSelector(strings.Join(parts, ", "))
	}
}

// Wrap moves the container's children into at.
func (v *VariantAPI) Wrap(at *css.Node) {
	children := v.container.RemoveAll()
	at.Append(children...)
	at.Block = true
	v.container.Append(at)
}

// Format records a selector format containing "&".
func (v *VariantAPI) Format(format string) {
	v.formats = append(v.formats, selector.Format{Format: format, RespectPrefix: v.respectPrefix})
}

func (v *VariantAPI) prepareBackup() {
	if v.backup != nil {
		return
	}
	v.backup = map[*css.Node]string{}
	v.container.WalkRules(func(r *css.Node) {
		v.backup[r] = r.Selector
	})
}

// collectModified turns selectors rewritten by the variant function back
// into formats and restores the original selectors.
func (v *VariantAPI) collectModified() {
	if v.backup == nil {
		return
	}
	v.container.WalkRules(func(r *css.Node) {
		before, ok := v.backup[r]
		if !ok || before == r.Selector {
			return
		}
		modified := r.Selector
		rebuilt, err := selector.UpdateClasses(before, func(c string) string {
			return v.variant + v.Separator + c
		})
		if err == nil {
			v.Format(strings.Replace(modified, rebuilt, "&", 1))
		}
		r.SetSelector(before)
	})
	v.backup = nil
}

var whitespaceRun = regexp.MustCompile(`\s+`)

// validFormat reports whether a variant format is an at-rule or contains
// the "&" placeholder.
func validFormat(format string) bool {
	return strings.HasPrefix(format, "@") || strings.Contains(format, "&")
}

// parseVariant compiles a format such as "@media (hover: hover) { &:hover }"
// into a variant function: at-rules wrap the container, selector parts are
// recorded as formats, innermost first.
func parseVariant(format string) (VariantFunc, error) {
	format = strings.TrimSpace(whitespaceRun.ReplaceAllString(strings.ReplaceAll(format, "\n", ""), " "))
	parts, err := splitVariantFormat(format)
	if err != nil {
		return nil, err
	}
	return func(api *VariantAPI) ([]string, bool) {
		for i := len(parts) - 1; i >= 0; i-- {
			p := parts[i]
			if !strings.HasPrefix(p, "@") {
				api.Format(p)
				continue
			}
			name, params := splitAtRule(p)
			api.Wrap(css.NewAtRule(name, params))
		}
		return nil, true
	}, nil
}

func splitVariantFormat(input string) ([]string, error) {
	var parts []string
	var current strings.Builder
	depth := 0
	flush := func() {
		if s := strings.TrimSpace(current.String()); s != "" {
			parts = append(parts, s)
		}
		current.Reset()
	}
	for i := 0; i < len(input); i++ {
		c := input[i]
		switch {
		case c == '\\' && i+1 < len(input):
			current.WriteByte(c)
			current.WriteByte(input[i+1])
			i++
		case c == '{':
			depth++
			flush()
		case c == '}':
			depth--
			if depth < 0 {
				return nil, fmt.Errorf("unbalanced { and } in variant %q", input)
			}
			flush()
		default:
			current.WriteByte(c)
		}
	}
	if depth != 0 {
		return nil, fmt.Errorf("unbalanced { and } in variant %q", input)
	}
	flush()
	return parts, nil
}

// formatsFunc compiles a list of formats into variant functions, one per
// format.
func formatsFunc(name string, formats []string) ([]VariantFunc, error) {
	fns := make([]VariantFunc, 0, len(formats))
	for _, f := range formats {
		if !validFormat(f) {
			return nil, fmt.Errorf("variant %q has an invalid format string %q: use an @media or @supports query or include &", name, f)
		}
		fn, err := parseVariant(f)
		if err != nil {
			return nil, fmt.Errorf("variant %q: %w", name, err)
		}
		fns = append(fns, fn)
	}
	return fns, nil
}

// removeAlphaVariables drops opacity custom properties from a container;
// :visited and ::marker styles cannot use them.
func removeAlphaVariables(container *css.Node, vars ...string) {
	container.WalkDecls("", func(d *css.Node) {
		for _, v := range vars {
			if d.Prop == v {
				d.Remove()
				return
			}
		}
		value := d.Value
		for _, v := range vars {
			value = strings.ReplaceAll(value, " / var("+v+")", "")
		}
		d.SetValue(value)
	})
}
