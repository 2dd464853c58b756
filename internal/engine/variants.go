package engine

import (
	"regexp"
	"strings"

	"github.com/yacobolo/windgen/internal/config"
	"github.com/yacobolo/windgen/internal/css"
	"github.com/yacobolo/windgen/internal/datatype"
	"github.com/yacobolo/windgen/internal/offsets"
	"github.com/yacobolo/windgen/internal/selector"
	"github.com/yacobolo/windgen/internal/theme"
)

// beforeVariants react to the element and its relatives; they are declared
// ahead of user plugins.
func beforeVariants() []Plugin {
	return []Plugin{
		PluginFunc(childVariant),
		PluginFunc(pseudoElementVariants),
		PluginFunc(pseudoClassVariants),
		PluginFunc(hasVariants),
		PluginFunc(ariaVariants),
		PluginFunc(dataVariants),
	}
}

// afterVariants react to the environment. With the legacy class dark
// mode, dark is declared before the screens so responsive variants win.
func afterVariants(legacyDark bool) []Plugin {
	if legacyDark {
		return []Plugin{
			PluginFunc(supportsVariants), PluginFunc(reducedMotionVariants), PluginFunc(prefersContrastVariants),
			PluginFunc(darkVariants), PluginFunc(screenVariants), PluginFunc(orientationVariants),
			PluginFunc(directionVariants), PluginFunc(forcedColorsVariants), PluginFunc(printVariant),
		}
	}
	return []Plugin{
		PluginFunc(supportsVariants), PluginFunc(reducedMotionVariants), PluginFunc(prefersContrastVariants),
		PluginFunc(screenVariants), PluginFunc(orientationVariants), PluginFunc(directionVariants),
		PluginFunc(darkVariants), PluginFunc(forcedColorsVariants), PluginFunc(printVariant),
	}
}

func childVariant(api *API) {
	api.AddVariant("*", "& > *")
}

// withoutAlpha strips opacity variables before applying format; browsers
// ignore custom properties in :visited and ::marker styles.
func withoutAlpha(format string, vars ...string) VariantFunc {
	return func(v *VariantAPI) ([]string, bool) {
		removeAlphaVariables(v.Container(), vars...)
		return []string{format}, true
	}
}

// withContent makes sure generated pseudo-elements have a content value.
func withContent(format string) VariantFunc {
	return func(v *VariantAPI) ([]string, bool) {
		v.Container().WalkRules(func(r *css.Node) {
			found := false
			r.WalkDecls("content", func(*css.Node) { found = true })
			if !found {
				r.Prepend(css.NewDecl("content", "var(--tw-content)"))
			}
		})
		return []string{format}, true
	}
}

func pseudoElementVariants(api *API) {
	api.AddVariant("first-letter", "&::first-letter")
	api.AddVariant("first-line", "&::first-line")
	api.AddVariantFunc("marker",
		withoutAlpha("& *::marker", "--tw-text-opacity"),
		withoutAlpha("&::marker", "--tw-text-opacity"))
	api.AddVariant("selection", "& *::selection", "&::selection")
	api.AddVariant("file", "&::file-selector-button")
	api.AddVariant("placeholder", "&::placeholder")
	api.AddVariant("backdrop", "&::backdrop")
	api.AddVariantFunc("before", withContent("&::before"))
	api.AddVariantFunc("after", withContent("&::after"))
}

type pseudoVariant struct {
	name   string
	format string
}

var visitedAlphaVars = []string{"--tw-text-opacity", "--tw-border-opacity", "--tw-bg-opacity"}

const visitedFormat = "&:visited"

func pseudoVariants(hoverOnlyWhenSupported bool) []pseudoVariant {
	hover := "&:hover"
	if hoverOnlyWhenSupported {
		hover = "@media (hover: hover) and (pointer: fine) { &:hover }"
	}
	out := []pseudoVariant{
		{"first", "&:first-child"},
		{"last", "&:last-child"},
		{"only", "&:only-child"},
		{"odd", "&:nth-child(odd)"},
		{"even", "&:nth-child(even)"},
	}
	simple := func(names ...string) {
		for _, n := range names {
			out = append(out, pseudoVariant{n, "&:" + n})
		}
	}
	simple("first-of-type", "last-of-type", "only-of-type")
	out = append(out, pseudoVariant{"visited", visitedFormat})
	simple("target")
	out = append(out, pseudoVariant{"open", "&[open]"})
	simple("default", "checked", "indeterminate", "placeholder-shown", "autofill", "optional", "required",
		"valid", "invalid", "in-range", "out-of-range", "read-only", "empty", "focus-within")
	out = append(out, pseudoVariant{"hover", hover})
	simple("focus", "focus-visible", "active", "enabled", "disabled")
	return out
}

func pseudoClassVariants(api *API) {
	pseudos := pseudoVariants(api.Config().Future.HoverOnlyWhenSupported)
	values := theme.NewScale()
	configured := map[string]bool{}
	for _, p := range pseudos {
		values.Set(p.name, theme.Literal(p.format))
		configured[p.format] = true
		if p.format == visitedFormat {
			api.AddVariantFunc(p.name, withoutAlpha(visitedFormat, visitedAlphaVars...))
			continue
		}
		api.AddVariant(p.name, p.format)
	}

	for _, rel := range relations {
		rel := rel
		api.MatchVariant(rel.name, func(value string, info VariantInfo) []string {
			if value == visitedFormat {
				removeAlphaVariables(info.Container(), visitedAlphaVars...)
			}
			result := value
			if !configured[value] {
				result = datatype.Normalize(value, "")
			}
			if !strings.Contains(result, "&") {
				result = "&" + result
			}
			return []string{replaceAmpersand(result, rel.merge(api, info.Modifier), rel.combinator)}
		}, VariantOptions{Values: values, NoPrefix: true})
	}
}

// relation is an element whose state the styled element depends on.
type relation struct {
	name       string
	combinator string
}

var relations = []relation{{"group", " &"}, {"peer", " ~ &"}}

// merge returns the :merge() marker for the relation's class; repeated
// markers for the same class collapse when variants stack.
func (r relation) merge(api *API, modifier string) string {
	class := "." + api.Config().Prefix + r.name
	if modifier != "" {
		class += `\/` + selector.Escape(modifier)
	}
	return ":merge(" + class + ")"
}

// replaceAmpersand replaces the & of result and the pseudo-class run
// following it with a + run + b, leaving quoted text alone.
func replaceAmpersand(result, a, b string) string {
	start, end, quotes := -1, -1, 0
	for i := 0; i < len(result); i++ {
		c := result[i]
		switch {
		case c == '&':
			start = i
		case c == '\'' || c == '"':
			quotes++
		case start != -1 && c == ' ' && quotes == 0:
			end = i
		}
	}
	if start == -1 {
		return result
	}
	if end == -1 {
		end = len(result)
	}
	return result[:start] + a + result[start+1:end] + b + result[end:]
}

func hasVariants(api *API) {
	api.MatchVariant("has", func(value string, _ VariantInfo) []string {
		return []string{"&:has(" + datatype.Normalize(value, "") + ")"}
	}, VariantOptions{NoPrefix: true})
	for _, rel := range relations {
		rel := rel
		api.MatchVariant(rel.name+"-has", func(value string, info VariantInfo) []string {
			return []string{rel.merge(api, info.Modifier) + ":has(" + datatype.Normalize(value, "") + ")" + rel.combinator}
		}, VariantOptions{NoPrefix: true})
	}
}

func attributeVariants(api *API, name string) {
	values := api.ThemeScale(name)
	api.MatchVariant(name, func(value string, _ VariantInfo) []string {
		return []string{"&[" + name + "-" + quoteAttribute(datatype.Normalize(value, "")) + "]"}
	}, VariantOptions{Values: values})
	for _, rel := range relations {
		rel := rel
		api.MatchVariant(rel.name+"-"+name, func(value string, info VariantInfo) []string {
			attr := "[" + name + "-" + quoteAttribute(datatype.Normalize(value, "")) + "]"
			return []string{rel.merge(api, info.Modifier) + attr + rel.combinator}
		}, VariantOptions{Values: values, NoPrefix: true})
	}
}

func ariaVariants(api *API) { attributeVariants(api, "aria") }

func dataVariants(api *API) { attributeVariants(api, "data") }

// quoteAttribute quotes the value of an attribute selector, keeping a
// trailing i or s flag outside the quotes.
func quoteAttribute(value string) string {
	eq := strings.Index(value, "=")
	if eq < 0 {
		return value
	}
	match := value[eq:]
	if len(match) > 1 && (match[1] == '\'' || match[1] == '"') {
		return value
	}
	if n := len(match); n > 2 && match[n-2] == ' ' && strings.ContainsRune("iIsS", rune(match[n-1])) {
		return value[:eq] + `="` + match[1:n-2] + `" ` + match[n-1:]
	}
	return value[:eq] + `="` + match[1:] + `"`
}

var (
	rawSupportsQuery = regexp.MustCompile(`^\w*\s*\(`)
	supportsKeyword  = regexp.MustCompile(`\b(and|or|not)\b`)
)

func supportsVariants(api *API) {
	api.MatchVariant("supports", func(value string, _ VariantInfo) []string {
		check := datatype.Normalize(value, "")
		if rawSupportsQuery.MatchString(check) {
			return []string{"@supports " + supportsKeyword.ReplaceAllString(check, " $1 ")}
		}
		if !strings.Contains(check, ":") {
			check += ": var(--tw)"
		}
		if !strings.HasPrefix(check, "(") || !strings.HasSuffix(check, ")") {
			check = "(" + check + ")"
		}
		return []string{"@supports " + check}
	}, VariantOptions{Values: api.ThemeScale("supports")})
}

func reducedMotionVariants(api *API) {
	api.AddVariant("motion-safe", "@media (prefers-reduced-motion: no-preference)")
	api.AddVariant("motion-reduce", "@media (prefers-reduced-motion: reduce)")
}

func prefersContrastVariants(api *API) {
	api.AddVariant("contrast-more", "@media (prefers-contrast: more)")
	api.AddVariant("contrast-less", "@media (prefers-contrast: less)")
}

func orientationVariants(api *API) {
	api.AddVariant("portrait", "@media (orientation: portrait)")
	api.AddVariant("landscape", "@media (orientation: landscape)")
}

func directionVariants(api *API) {
	api.AddVariant("ltr", `&:where([dir="ltr"], [dir="ltr"] *)`)
	api.AddVariant("rtl", `&:where([dir="rtl"], [dir="rtl"] *)`)
}

func darkVariants(api *API) {
	dm := api.Config().DarkMode
	sel := dm.Selector
	if sel == "" {
		sel = ".dark"
	}
	switch dm.Strategy {
	case config.DarkVariant:
		api.AddVariant("dark", dm.Formats...)
	case config.DarkSelector:
		api.AddVariant("dark", "&:where("+sel+", "+sel+" *)")
	case config.DarkClass:
		api.AddVariant("dark", ":is("+sel+" &)")
	default:
		api.AddVariant("dark", "@media (prefers-color-scheme: dark)")
	}
}

func forcedColorsVariants(api *API) {
	api.AddVariant("forced-colors", "@media (forced-colors: active)")
}

func printVariant(api *API) {
	api.AddVariant("print", "@media print")
}

const (
	minScreensID = "min-screens"
	maxScreensID = "max-screens"
)

// screenUnit returns the trailing unit of a width, "(none)" for bare
// numbers.
func screenUnit(v string) string {
	i := len(v)
	for i > 0 && !(v[i-1] >= '0' && v[i-1] <= '9') {
		i--
	}
	if i == len(v) {
		return "(none)"
	}
	return v[i:]
}

func screenVariants(api *API) {
	raw := api.Theme("screens")
	screens := theme.NormalizeScreens(raw)

	simple := true
	if s, ok := raw.(*theme.Scale); ok {
		for _, k := range s.Keys() {
			if v, _ := s.Get(k); v != nil {
				if _, isLiteral := v.(theme.Literal); !isLiteral {
					simple = false
				}
			}
		}
	}
	units := map[string]bool{}
	for _, s := range screens {
		for _, v := range s.Values {
			if v.Min != "" {
				units[screenUnit(v.Min)] = true
			}
			if v.Max != "" {
				units[screenUnit(v.Max)] = true
			}
		}
	}
	consistent := len(units) <= 1

	minSort := func(a, b offsets.SortValue) int {
		return theme.CompareScreens("min", theme.ScreenValue{Min: a.Value}, theme.ScreenValue{Min: b.Value})
	}
	maxSort := func(a, b offsets.SortValue) int {
		return theme.CompareScreens("max", theme.ScreenValue{Max: a.Value}, theme.ScreenValue{Max: b.Value})
	}

	// usable reports whether min-* and max-* can be offered for value.
	usable := func(value string) bool {
		switch {
		case !simple:
			api.Warn("The `min-*` and `max-*` variants are not supported with a `screens` configuration containing objects.")
			return false
		case !consistent:
			api.Warn("The `min-*` and `max-*` variants are not supported with a `screens` configuration containing mixed units.")
			return false
		case len(units) > 0 && !units[screenUnit(value)]:
			api.Warn("The `min-*` and `max-*` variants are not supported with a `screens` configuration containing mixed units.")
			return false
		}
		return true
	}

	if simple {
		for _, s := range screens {
			width := s.Values[0].Min
			negated := theme.Screen{Name: s.Name, Not: true, Values: s.Values}
			api.ctx.addVariant("max-"+s.Name, []VariantFunc{func(*VariantAPI) ([]string, bool) {
				if !usable(width) {
					return nil, false
				}
				return []string{"@media " + negated.MediaQuery()}, true
			}}, variantMeta{id: maxScreensID, sort: maxSort, value: width, hasValue: true})
		}
	}
	api.MatchVariant("max", func(value string, _ VariantInfo) []string {
		if !usable(value) {
			return nil
		}
		return []string{"@media (max-width: " + value + ")"}
	}, VariantOptions{ID: maxScreensID, Sort: maxSort})

	var staticSort offsets.SortFunc
	if simple && consistent {
		staticSort = minSort
	}
	for _, s := range screens {
		fns, err := formatsFunc(s.Name, []string{"@media " + s.MediaQuery()})
		if err != nil {
			api.ctx.registerErr(err)
			continue
		}
		var width string
		if len(s.Values) > 0 {
			width = s.Values[0].Min
		}
		api.ctx.addVariant(s.Name, fns, variantMeta{id: minScreensID, sort: staticSort, value: width, hasValue: true})
	}
	api.MatchVariant("min", func(value string, _ VariantInfo) []string {
		if !usable(value) {
			return nil
		}
		return []string{"@media (min-width: " + value + ")"}
	}, VariantOptions{ID: minScreensID, Sort: minSort})
}
