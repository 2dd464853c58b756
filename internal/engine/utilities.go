package engine

import (
	"sort"
	"strings"

	"github.com/yacobolo/windgen/internal/color"
	"github.com/yacobolo/windgen/internal/datatype"
	"github.com/yacobolo/windgen/internal/theme"
)

const (
	siblingSelector = "& > :not([hidden]) ~ :not([hidden])"

	cssTransformValue = "translate(var(--tw-translate-x), var(--tw-translate-y)) rotate(var(--tw-rotate)) " +
		"skewX(var(--tw-skew-x)) skewY(var(--tw-skew-y)) scaleX(var(--tw-scale-x)) scaleY(var(--tw-scale-y))"
	cssTouchActionValue   = "var(--tw-pan-x) var(--tw-pan-y) var(--tw-pinch-zoom)"
	cssContainValue       = "var(--tw-contain-size) var(--tw-contain-layout) var(--tw-contain-paint) var(--tw-contain-style)"
	cssFontVariantNumeric = "var(--tw-ordinal) var(--tw-slashed-zero) var(--tw-numeric-figure) var(--tw-numeric-spacing) var(--tw-numeric-fraction)"
	cssFilterValue        = "var(--tw-blur) var(--tw-brightness) var(--tw-contrast) var(--tw-grayscale) var(--tw-hue-rotate) " +
		"var(--tw-invert) var(--tw-saturate) var(--tw-sepia) var(--tw-drop-shadow)"
	cssBackdropFilterValue = "var(--tw-backdrop-blur) var(--tw-backdrop-brightness) var(--tw-backdrop-contrast) " +
		"var(--tw-backdrop-grayscale) var(--tw-backdrop-hue-rotate) var(--tw-backdrop-invert) var(--tw-backdrop-opacity) " +
		"var(--tw-backdrop-saturate) var(--tw-backdrop-sepia)"
	defaultBoxShadow = "var(--tw-ring-offset-shadow, 0 0 #0000), var(--tw-ring-shadow, 0 0 #0000), var(--tw-shadow)"
)

func container() corePlugin {
	return plugin("container", func(api *API) {
		screens := api.Theme("container.screens")
		if screens == nil {
			screens = api.Theme("screens")
		}
		var mins []string
		seen := map[string]bool{}
		for _, s := range theme.NormalizeScreens(screens) {
			for _, v := range s.Values {
				if v.Min != "" && !seen[v.Min] {
					seen[v.Min] = true
					mins = append(mins, v.Min)
				}
			}
		}
		sort.SliceStable(mins, func(i, j int) bool {
			a, _, _ := theme.SplitUnit(mins[i])
			b, _, _ := theme.SplitUnit(mins[j])
			return a < b
		})

		paddingFor := containerPadding(api, theme.NormalizeScreens(screens))
		base := Style{Decl("width", "100%")}
		if api.ThemeString("container.center", "false") == "true" {
			base = append(base, Decl("marginRight", "auto"), Decl("marginLeft", "auto"))
		}
		base = append(base, paddingFor("")...)

		rules := Rules{R(".container", base...)}
		for _, m := range mins {
			body := append(Style{Decl("max-width", m)}, paddingFor(m)...)
			rules = append(rules, R("@media (min-width: "+m+")", Nest(".container", body...)))
		}
		api.AddComponents(rules)
	})
}

// containerPadding maps a min width ("" for the base rule) to the
// horizontal padding container.padding sets for it.
func containerPadding(api *API, screens []theme.Screen) func(minWidth string) Style {
	paddings := map[string]string{}
	switch p := api.Theme("container.padding").(type) {
	case theme.Literal:
		paddings[""] = string(p)
	case *theme.Scale:
		for _, k := range p.Keys() {
			v, _ := p.Get(k)
			s, ok := theme.Stringify(v)
			if !ok {
				continue
			}
			if k == "DEFAULT" {
				paddings[""] = s
				continue
			}
			for _, screen := range screens {
				if screen.Name == k && len(screen.Values) > 0 && screen.Values[0].Min != "" {
					paddings[screen.Values[0].Min] = s
				}
			}
		}
	}
	return func(minWidth string) Style {
		p, ok := paddings[minWidth]
		if !ok {
			return nil
		}
		return Style{Decl("paddingRight", p), Decl("paddingLeft", p)}
	}
}

func accessibility() corePlugin {
	return staticRules("accessibility",
		R(".sr-only", Decls("position", "absolute", "width", "1px", "height", "1px", "padding", "0",
			"margin", "-1px", "overflow", "hidden", "clip", "rect(0, 0, 0, 0)", "white-space", "nowrap",
			"border-width", "0")...),
		R(".not-sr-only", Decls("position", "static", "width", "auto", "height", "auto", "padding", "0",
			"margin", "0", "overflow", "visible", "clip", "auto", "white-space", "normal")...),
	)
}

func lineClamp() corePlugin {
	return plugin("lineClamp", func(api *API) {
		api.MatchUtilities([]Utility{U("line-clamp", func(v theme.Value, _ Info) Style {
			s, ok := theme.Stringify(v)
			if !ok {
				return nil
			}
			return Decls("overflow", "hidden", "display", "-webkit-box", "-webkit-box-orient", "vertical", "-webkit-line-clamp", s)
		})}, MatchOptions{Values: api.ThemeScale("lineClamp")})
		api.AddUtilities(Rules{R(".line-clamp-none", Decls("overflow", "visible", "display", "block",
			"-webkit-box-orient", "horizontal", "-webkit-line-clamp", "none")...)})
	})
}

func borderSpacing() corePlugin {
	return plugin("borderSpacing", func(api *API) {
		api.AddDefaults("border-spacing", Decls("--tw-border-spacing-x", "0", "--tw-border-spacing-y", "0"))
		spacing := func(vars ...string) UtilityFunc {
			return func(v theme.Value, _ Info) Style {
				s, ok := theme.Stringify(v)
				if !ok {
					return nil
				}
				out := Style{}
				for _, name := range vars {
					out = append(out, Decl(name, s))
				}
				return append(out, Decl("border-spacing", "var(--tw-border-spacing-x) var(--tw-border-spacing-y)"))
			}
		}
		api.MatchUtilities([]Utility{
			U("border-spacing", spacing("--tw-border-spacing-x", "--tw-border-spacing-y")),
			U("border-spacing-x", spacing("--tw-border-spacing-x")),
			U("border-spacing-y", spacing("--tw-border-spacing-y")),
		}, MatchOptions{Values: api.ThemeScale("borderSpacing")})
	})
}

func transformDefaults(api *API) {
	api.AddDefaults("transform", Decls(
		"--tw-translate-x", "0", "--tw-translate-y", "0", "--tw-rotate", "0",
		"--tw-skew-x", "0", "--tw-skew-y", "0", "--tw-scale-x", "1", "--tw-scale-y", "1",
	))
}

// transformPart registers utilities that set transform variables and
// compose them into transform.
func transformPart(name, themeKey string, mo MatchOptions, groups ...[]target) corePlugin {
	return plugin(name, func(api *API) {
		transformDefaults(api)
		opts := mo
		opts.Values = api.ThemeScale(themeKey)
		for _, g := range groups {
			utils := make([]Utility, 0, len(g))
			for _, t := range g {
				props := t.props
				utils = append(utils, U(t.class, func(v theme.Value, _ Info) Style {
					s, ok := theme.Stringify(v)
					if !ok {
						return nil
					}
					out := Style{}
					for _, p := range props {
						out = append(out, Decl(p, s))
					}
					return append(out, Decl("transform", cssTransformValue))
				}))
			}
			api.MatchUtilities(utils, opts)
		}
	})
}

func transform() corePlugin {
	return plugin("transform", func(api *API) {
		transformDefaults(api)
		gpu := strings.Replace(cssTransformValue,
			"translate(var(--tw-translate-x), var(--tw-translate-y))",
			"translate3d(var(--tw-translate-x), var(--tw-translate-y), 0)", 1)
		api.AddUtilities(Rules{
			R(".transform", Decl("transform", cssTransformValue)),
			R(".transform-cpu", Decl("transform", cssTransformValue)),
			R(".transform-gpu", Decl("transform", gpu)),
			R(".transform-none", Decl("transform", "none")),
		})
	})
}

func animation() corePlugin {
	return plugin("animation", func(api *API) {
		keyframes := api.ThemeScale("keyframes")
		prefix := api.Config().Prefix
		api.MatchUtilities([]Utility{U("animate", func(v theme.Value, _ Info) Style {
			s, ok := theme.Stringify(v)
			if !ok {
				return nil
			}
			out := Style{}
			var parts []string
			emitted := map[string]bool{}
			for _, a := range datatype.SplitTopLevel(s, ",") {
				a = strings.TrimSpace(a)
				name := animationName(a, keyframes)
				if name == "" {
					parts = append(parts, a)
					continue
				}
				if !emitted[name] {
					emitted[name] = true
					frames, _ := keyframes.Get(name)
					out = append(out, Nest("@keyframes "+prefix+name, styleFromValue(frames)...))
				}
				parts = append(parts, strings.Replace(a, name, prefix+name, 1))
			}
			return append(out, Decl("animation", strings.Join(parts, ", ")))
		})}, MatchOptions{Values: api.ThemeScale("animation")})
	})
}

// animationName returns the first word of an animation shorthand naming
// a configured keyframes block.
func animationName(animation string, keyframes *theme.Scale) string {
	for _, f := range strings.Fields(animation) {
		if _, ok := keyframes.Get(f); ok {
			return f
		}
	}
	return ""
}

func touchAction() corePlugin {
	return plugin("touchAction", func(api *API) {
		api.AddDefaults("touch-action", Decls("--tw-pan-x", " ", "--tw-pan-y", " ", "--tw-pinch-zoom", " "))
		pan := func(class, variable, value string) Rule {
			return R("."+class, Decl(variable, value), Decl("touch-action", cssTouchActionValue))
		}
		api.AddUtilities(Rules{
			R(".touch-auto", Decl("touch-action", "auto")),
			R(".touch-none", Decl("touch-action", "none")),
			pan("touch-pan-x", "--tw-pan-x", "pan-x"),
			pan("touch-pan-left", "--tw-pan-x", "pan-left"),
			pan("touch-pan-right", "--tw-pan-x", "pan-right"),
			pan("touch-pan-y", "--tw-pan-y", "pan-y"),
			pan("touch-pan-up", "--tw-pan-y", "pan-up"),
			pan("touch-pan-down", "--tw-pan-y", "pan-down"),
			pan("touch-pinch-zoom", "--tw-pinch-zoom", "pinch-zoom"),
			R(".touch-manipulation", Decl("touch-action", "manipulation")),
		})
	})
}

func scrollSnapType() corePlugin {
	return plugin("scrollSnapType", func(api *API) {
		api.AddDefaults("scroll-snap-type", Decls("--tw-scroll-snap-strictness", "proximity"))
		api.AddUtilities(Rules{
			R(".snap-none", Decl("scroll-snap-type", "none")),
			R(".snap-x", Decl("scroll-snap-type", "x var(--tw-scroll-snap-strictness)")),
			R(".snap-y", Decl("scroll-snap-type", "y var(--tw-scroll-snap-strictness)")),
			R(".snap-both", Decl("scroll-snap-type", "both var(--tw-scroll-snap-strictness)")),
			R(".snap-mandatory", Decl("--tw-scroll-snap-strictness", "mandatory")),
			R(".snap-proximity", Decl("--tw-scroll-snap-strictness", "proximity")),
		})
	})
}

func zeroPx(s string) string {
	if s == "0" {
		return "0px"
	}
	return s
}

func space() corePlugin {
	return plugin("space", func(api *API) {
		api.MatchUtilities([]Utility{
			U("space-x", func(v theme.Value, _ Info) Style {
				s, ok := theme.Stringify(v)
				if !ok {
					return nil
				}
				s = zeroPx(s)
				return Style{Nest(siblingSelector,
					Decl("--tw-space-x-reverse", "0"),
					Decl("margin-right", "calc("+s+" * var(--tw-space-x-reverse))"),
					Decl("margin-left", "calc("+s+" * calc(1 - var(--tw-space-x-reverse)))"),
				)}
			}),
			U("space-y", func(v theme.Value, _ Info) Style {
				s, ok := theme.Stringify(v)
				if !ok {
					return nil
				}
				s = zeroPx(s)
				return Style{Nest(siblingSelector,
					Decl("--tw-space-y-reverse", "0"),
					Decl("margin-top", "calc("+s+" * calc(1 - var(--tw-space-y-reverse)))"),
					Decl("margin-bottom", "calc("+s+" * var(--tw-space-y-reverse))"),
				)}
			}),
		}, MatchOptions{Values: api.ThemeScale("space"), SupportsNegative: true})
		api.AddUtilities(Rules{
			R(".space-y-reverse", Nest(siblingSelector, Decl("--tw-space-y-reverse", "1"))),
			R(".space-x-reverse", Nest(siblingSelector, Decl("--tw-space-x-reverse", "1"))),
		})
	})
}

func divideWidth() corePlugin {
	return plugin("divideWidth", func(api *API) {
		api.MatchUtilities([]Utility{
			U("divide-x", func(v theme.Value, _ Info) Style {
				s, ok := theme.Stringify(v)
				if !ok {
					return nil
				}
				s = zeroPx(s)
				return Style{Nest(siblingSelector,
					Decl("--tw-divide-x-reverse", "0"),
					Decl("border-right-width", "calc("+s+" * var(--tw-divide-x-reverse))"),
					Decl("border-left-width", "calc("+s+" * calc(1 - var(--tw-divide-x-reverse)))"),
				)}
			}),
			U("divide-y", func(v theme.Value, _ Info) Style {
				s, ok := theme.Stringify(v)
				if !ok {
					return nil
				}
				s = zeroPx(s)
				return Style{Nest(siblingSelector,
					Decl("--tw-divide-y-reverse", "0"),
					Decl("border-top-width", "calc("+s+" * calc(1 - var(--tw-divide-y-reverse)))"),
					Decl("border-bottom-width", "calc("+s+" * var(--tw-divide-y-reverse))"),
				)}
			}),
		}, MatchOptions{Values: api.ThemeScale("divideWidth"), Types: Types(datatype.LineWidth, datatype.Length)})
		api.AddUtilities(Rules{
			R(".divide-y-reverse", Nest(siblingSelector, Decl("--tw-divide-y-reverse", "1"))),
			R(".divide-x-reverse", Nest(siblingSelector, Decl("--tw-divide-x-reverse", "1"))),
		})
	})
}

func divideStyle() corePlugin {
	return plugin("divideStyle", func(api *API) {
		var rules Rules
		for _, s := range []string{"solid", "dashed", "dotted", "double", "none"} {
			rules = append(rules, R(".divide-"+s, Nest(siblingSelector, Decl("border-style", s))))
		}
		api.AddUtilities(rules)
	})
}

func divideColor() corePlugin {
	return plugin("divideColor", func(api *API) {
		api.MatchUtilities([]Utility{U("divide", func(v theme.Value, _ Info) Style {
			s := colorStyle(api, v, []string{"border-color"}, "divideOpacity", "--tw-divide-opacity")
			if s == nil {
				return nil
			}
			return Style{Nest(siblingSelector, s...)}
		})}, MatchOptions{Values: colorValues(api, "divideColor", true), Types: colorTypes})
	})
}

func overflow() corePlugin {
	return plugin("overflow", func(api *API) {
		var rules Rules
		for _, prop := range []string{"overflow", "overflow-x", "overflow-y"} {
			for _, v := range []string{"auto", "hidden", "clip", "visible", "scroll"} {
				rules = append(rules, R("."+prop+"-"+v, Decl(prop, v)))
			}
		}
		api.AddUtilities(rules)
	})
}

func overscroll() corePlugin {
	return plugin("overscrollBehavior", func(api *API) {
		var rules Rules
		for _, axis := range []string{"", "-y", "-x"} {
			for _, v := range []string{"auto", "contain", "none"} {
				rules = append(rules, R(".overscroll"+axis+"-"+v, Decl("overscroll-behavior"+axis, v)))
			}
		}
		api.AddUtilities(rules)
	})
}

func textOverflow() corePlugin {
	return staticRules("textOverflow",
		R(".truncate", Decls("overflow", "hidden", "text-overflow", "ellipsis", "white-space", "nowrap")...),
		R(".overflow-ellipsis", Decl("text-overflow", "ellipsis")),
		R(".text-ellipsis", Decl("text-overflow", "ellipsis")),
		R(".text-clip", Decl("text-overflow", "clip")),
	)
}

func wordBreak() corePlugin {
	return staticRules("wordBreak",
		R(".break-normal", Decls("overflow-wrap", "normal", "word-break", "normal")...),
		R(".break-words", Decl("overflow-wrap", "break-word")),
		R(".break-all", Decl("word-break", "break-all")),
		R(".break-keep", Decl("word-break", "keep-all")),
	)
}

func borderColor() corePlugin {
	return plugin("borderColor", func(api *API) {
		opts := MatchOptions{Values: colorValues(api, "borderColor", true), Types: colorTypes}
		utility := func(class string, props ...string) Utility {
			return U(class, func(v theme.Value, _ Info) Style {
				return colorStyle(api, v, props, "borderOpacity", "--tw-border-opacity")
			})
		}
		api.MatchUtilities([]Utility{utility("border", "border-color")}, opts)
		api.MatchUtilities([]Utility{
			utility("border-x", "border-left-color", "border-right-color"),
			utility("border-y", "border-top-color", "border-bottom-color"),
		}, opts)
		api.MatchUtilities([]Utility{
			utility("border-s", "border-inline-start-color"),
			utility("border-e", "border-inline-end-color"),
			utility("border-t", "border-top-color"),
			utility("border-r", "border-right-color"),
			utility("border-b", "border-bottom-color"),
			utility("border-l", "border-left-color"),
		}, opts)
	})
}

func gradientColorStops() corePlugin {
	return plugin("gradientColorStops", func(api *API) {
		api.AddDefaults("gradient-color-stops", Decls(
			"--tw-gradient-from-position", " ", "--tw-gradient-via-position", " ", "--tw-gradient-to-position", " ",
		))
		colors := MatchOptions{Values: colorValues(api, "gradientColorStops", false), Types: colorTypes}
		positions := MatchOptions{Values: api.ThemeScale("gradientColorStopPositions"), Types: Types(datatype.Length, datatype.Percentage)}
		transparentTo := func(s string) string {
			return color.WithAlphaValue(s, "0", "rgb(255 255 255 / 0)")
		}
		stop := func(fn func(c, transparent string) Style) UtilityFunc {
			return func(v theme.Value, _ Info) Style {
				raw, ok := theme.Stringify(v)
				if !ok {
					return nil
				}
				solid, _ := solidColor(v)
				return fn(solid, transparentTo(raw))
			}
		}
		position := func(variable string) UtilityFunc {
			return func(v theme.Value, _ Info) Style {
				s, ok := theme.Stringify(v)
				if !ok {
					return nil
				}
				return Style{Decl(variable, s)}
			}
		}

		api.MatchUtilities([]Utility{U("from", stop(func(c, transparent string) Style {
			return Decls(
				"--tw-gradient-from", c+" var(--tw-gradient-from-position)",
				"--tw-gradient-to", transparent+" var(--tw-gradient-to-position)",
				"--tw-gradient-stops", "var(--tw-gradient-from), var(--tw-gradient-to)",
			)
		}))}, colors)
		api.MatchUtilities([]Utility{U("from", position("--tw-gradient-from-position"))}, positions)
		api.MatchUtilities([]Utility{U("via", stop(func(c, transparent string) Style {
			return Decls(
				"--tw-gradient-to", transparent+"  var(--tw-gradient-to-position)",
				"--tw-gradient-stops", "var(--tw-gradient-from), "+c+" var(--tw-gradient-via-position), var(--tw-gradient-to)",
			)
		}))}, colors)
		api.MatchUtilities([]Utility{U("via", position("--tw-gradient-via-position"))}, positions)
		api.MatchUtilities([]Utility{U("to", stop(func(c, _ string) Style {
			return Decls("--tw-gradient-to", c+" var(--tw-gradient-to-position)")
		}))}, colors)
		api.MatchUtilities([]Utility{U("to", position("--tw-gradient-to-position"))}, positions)
	})
}

func verticalAlign() corePlugin {
	return plugin("verticalAlign", func(api *API) {
		var rules Rules
		for _, v := range []string{"baseline", "top", "middle", "bottom", "text-top", "text-bottom", "sub", "super"} {
			rules = append(rules, R(".align-"+v, Decl("vertical-align", v)))
		}
		api.AddUtilities(rules)
		api.MatchUtilities([]Utility{U("align", func(v theme.Value, _ Info) Style {
			s, ok := theme.Stringify(v)
			if !ok {
				return nil
			}
			return Style{Decl("vertical-align", s)}
		})}, MatchOptions{})
	})
}

func fontFamily() corePlugin {
	return plugin("fontFamily", func(api *API) {
		api.MatchUtilities([]Utility{U("font", func(v theme.Value, _ Info) Style {
			families, options := v, theme.Value(nil)
			if l, ok := v.(theme.List); ok && len(l) == 2 {
				if _, isScale := l[1].(*theme.Scale); isScale {
					families, options = l[0], l[1]
				}
			}
			s, ok := theme.Stringify(families)
			if !ok {
				return nil
			}
			out := Style{Decl("font-family", s)}
			if opts, isScale := options.(*theme.Scale); isScale {
				for _, k := range []string{"fontFeatureSettings", "fontVariationSettings"} {
					if x, found := opts.Get(k); found {
						if xs, isString := theme.Stringify(x); isString {
							out = append(out, Decl(k, xs))
						}
					}
				}
			}
			return out
		})}, MatchOptions{
			Values: api.ThemeScale("fontFamily"),
			Types:  Types(datatype.Lookup, datatype.GenericName, datatype.FamilyName),
		})
	})
}

func fontSize() corePlugin {
	return plugin("fontSize", func(api *API) {
		api.MatchUtilities([]Utility{U("text", func(v theme.Value, info Info) Style {
			size, options := v, theme.Value(nil)
			if l, ok := v.(theme.List); ok && len(l) > 0 {
				if _, plain := theme.Stringify(l); !plain || len(l) == 2 {
					size = l[0]
					if len(l) > 1 {
						options = l[1]
					}
				}
			}
			s, ok := theme.Stringify(size)
			if !ok {
				return nil
			}
			out := Style{Decl("font-size", s)}
			if info.Modifier != "" {
				return append(out, Decl("line-height", info.Modifier))
			}
			switch o := options.(type) {
			case theme.Literal:
				out = append(out, Decl("line-height", string(o)))
			case *theme.Scale:
				for _, k := range []string{"lineHeight", "letterSpacing", "fontWeight"} {
					if x, found := o.Get(k); found {
						if xs, isString := theme.Stringify(x); isString {
							out = append(out, Decl(k, xs))
						}
					}
				}
			}
			return out
		})}, MatchOptions{
			Values:    api.ThemeScale("fontSize"),
			Modifiers: api.ThemeScale("lineHeight"),
			Types:     Types(datatype.AbsoluteSize, datatype.RelativeSize, datatype.Length, datatype.Percentage),
		})
	})
}

func fontVariantNumeric() corePlugin {
	return plugin("fontVariantNumeric", func(api *API) {
		api.AddDefaults("font-variant-numeric", Decls(
			"--tw-ordinal", " ", "--tw-slashed-zero", " ", "--tw-numeric-figure", " ",
			"--tw-numeric-spacing", " ", "--tw-numeric-fraction", " ",
		))
		numeric := func(class, variable string) Rule {
			return R("."+class, Decl(variable, class), Decl("font-variant-numeric", cssFontVariantNumeric))
		}
		api.AddUtilities(Rules{
			R(".normal-nums", Decl("font-variant-numeric", "normal")),
			numeric("ordinal", "--tw-ordinal"),
			numeric("slashed-zero", "--tw-slashed-zero"),
			numeric("lining-nums", "--tw-numeric-figure"),
			numeric("oldstyle-nums", "--tw-numeric-figure"),
			numeric("proportional-nums", "--tw-numeric-spacing"),
			numeric("tabular-nums", "--tw-numeric-spacing"),
			numeric("diagonal-fractions", "--tw-numeric-fraction"),
			numeric("stacked-fractions", "--tw-numeric-fraction"),
		})
	})
}

func fontSmoothing() corePlugin {
	return staticRules("fontSmoothing",
		R(".antialiased", Decls("-webkit-font-smoothing", "antialiased", "-moz-osx-font-smoothing", "grayscale")...),
		R(".subpixel-antialiased", Decls("-webkit-font-smoothing", "auto", "-moz-osx-font-smoothing", "auto")...),
	)
}

func placeholderColor() corePlugin {
	return plugin("placeholderColor", func(api *API) {
		api.MatchUtilities([]Utility{U("placeholder", func(v theme.Value, _ Info) Style {
			s := colorStyle(api, v, []string{"color"}, "placeholderOpacity", "--tw-placeholder-opacity")
			if s == nil {
				return nil
			}
			return Style{Nest("&::placeholder", s...)}
		})}, MatchOptions{Values: colorValues(api, "placeholderColor", false), Types: colorTypes})
	})
}

var blendModeValues = []string{
	"normal", "multiply", "screen", "overlay", "darken", "lighten", "color-dodge", "color-burn",
	"hard-light", "soft-light", "difference", "exclusion", "hue", "saturation", "color", "luminosity",
}

func blendModes(name, prop, prefix string, plusLighter bool) corePlugin {
	return plugin(name, func(api *API) {
		var rules Rules
		for _, m := range blendModeValues {
			rules = append(rules, R("."+prefix+m, Decl(prop, m)))
		}
		if plusLighter {
			rules = append(rules, R("."+prefix+"plus-lighter", Decl(prop, "plus-lighter")))
		}
		api.AddUtilities(rules)
	})
}

func shadowDefaults(api *API) {
	api.AddDefaults("box-shadow", Decls(
		"--tw-ring-offset-shadow", "0 0 #0000", "--tw-ring-shadow", "0 0 #0000",
		"--tw-shadow", "0 0 #0000", "--tw-shadow-colored", "0 0 #0000",
	))
}

func boxShadow() corePlugin {
	return plugin("boxShadow", func(api *API) {
		shadowDefaults(api)
		api.MatchUtilities([]Utility{U("shadow", func(v theme.Value, _ Info) Style {
			s, ok := theme.Stringify(v)
			if !ok {
				return nil
			}
			if s == "none" {
				return Decls("--tw-shadow", "0 0 #0000", "--tw-shadow-colored", "0 0 #0000", "box-shadow", defaultBoxShadow)
			}
			layers := datatype.ParseShadow(s)
			for i := range layers {
				if layers[i].Valid {
					layers[i].Color = "var(--tw-shadow-color)"
				}
			}
			return Decls("--tw-shadow", s, "--tw-shadow-colored", datatype.FormatShadow(layers), "box-shadow", defaultBoxShadow)
		})}, MatchOptions{Values: api.ThemeScale("boxShadow"), Types: Types(datatype.Shadow)})
	})
}

func boxShadowColor() corePlugin {
	return plugin("boxShadowColor", func(api *API) {
		api.MatchUtilities([]Utility{U("shadow", func(v theme.Value, _ Info) Style {
			s, ok := solidColor(v)
			if !ok {
				return nil
			}
			return Decls("--tw-shadow-color", s, "--tw-shadow", "var(--tw-shadow-colored)")
		})}, MatchOptions{Values: colorValues(api, "boxShadowColor", false), Types: colorTypes})
	})
}

func outlineStyle() corePlugin {
	return staticRules("outlineStyle",
		R(".outline-none", Decls("outline", "2px solid transparent", "outline-offset", "2px")...),
		R(".outline", Decl("outline-style", "solid")),
		R(".outline-dashed", Decl("outline-style", "dashed")),
		R(".outline-dotted", Decl("outline-style", "dotted")),
		R(".outline-double", Decl("outline-style", "double")),
	)
}

func ringWidth() corePlugin {
	return plugin("ringWidth", func(api *API) {
		opacity := api.ThemeString("ringOpacity.DEFAULT", "0.5")
		fallback := "rgb(147 197 253 / " + opacity + ")"
		ringColor := fallback
		if def, ok := theme.Stringify(api.Theme("ringColor.DEFAULT")); ok {
			ringColor = color.WithAlphaValue(def, opacity, fallback)
		}
		api.AddDefaults("ring-width", Decls(
			"--tw-ring-inset", " ",
			"--tw-ring-offset-width", api.ThemeString("ringOffsetWidth.DEFAULT", "0px"),
			"--tw-ring-offset-color", api.ThemeString("ringOffsetColor.DEFAULT", "#fff"),
			"--tw-ring-color", ringColor,
			"--tw-ring-offset-shadow", "0 0 #0000",
			"--tw-ring-shadow", "0 0 #0000",
			"--tw-shadow", "0 0 #0000",
			"--tw-shadow-colored", "0 0 #0000",
		))
		api.MatchUtilities([]Utility{U("ring", func(v theme.Value, _ Info) Style {
			s, ok := theme.Stringify(v)
			if !ok {
				return nil
			}
			return Decls(
				"--tw-ring-offset-shadow", "var(--tw-ring-inset) 0 0 0 var(--tw-ring-offset-width) var(--tw-ring-offset-color)",
				"--tw-ring-shadow", "var(--tw-ring-inset) 0 0 0 calc("+s+" + var(--tw-ring-offset-width)) var(--tw-ring-color)",
				"box-shadow", "var(--tw-ring-offset-shadow), var(--tw-ring-shadow), var(--tw-shadow, 0 0 #0000)",
			)
		})}, MatchOptions{Values: api.ThemeScale("ringWidth"), Types: Types(datatype.Length)})
		api.AddUtilities(Rules{R(".ring-inset", Decl("--tw-ring-inset", "inset"))})
	})
}

func ringColor() corePlugin {
	return plugin("ringColor", func(api *API) {
		api.MatchUtilities([]Utility{U("ring", func(v theme.Value, _ Info) Style {
			return colorStyle(api, v, []string{"--tw-ring-color"}, "ringOpacity", "--tw-ring-opacity")
		})}, MatchOptions{Values: colorValues(api, "ringColor", true), Types: colorTypes})
	})
}

func filterDefaults(api *API) {
	api.AddDefaults("filter", Decls(
		"--tw-blur", " ", "--tw-brightness", " ", "--tw-contrast", " ", "--tw-grayscale", " ",
		"--tw-hue-rotate", " ", "--tw-invert", " ", "--tw-saturate", " ", "--tw-sepia", " ", "--tw-drop-shadow", " ",
	))
}

func backdropDefaults(api *API) {
	api.AddDefaults("backdrop-filter", Decls(
		"--tw-backdrop-blur", " ", "--tw-backdrop-brightness", " ", "--tw-backdrop-contrast", " ",
		"--tw-backdrop-grayscale", " ", "--tw-backdrop-hue-rotate", " ", "--tw-backdrop-invert", " ",
		"--tw-backdrop-opacity", " ", "--tw-backdrop-saturate", " ", "--tw-backdrop-sepia", " ",
	))
}

// filterFunction registers a utility wrapping its value in a CSS filter
// function stored in variable, then composing prop from all of them.
func filterFunction(name, themeKey, class, variable, fn, prop, composed string, negative bool, defaults func(*API)) corePlugin {
	return plugin(name, func(api *API) {
		defaults(api)
		api.MatchUtilities([]Utility{U(class, func(v theme.Value, _ Info) Style {
			s, ok := theme.Stringify(v)
			if !ok {
				return nil
			}
			return Decls(variable, fn+"("+s+")", prop, composed)
		})}, MatchOptions{Values: api.ThemeScale(themeKey), SupportsNegative: negative})
	})
}

func filterPart(name, themeKey, class, variable, fn string, negative bool) corePlugin {
	return filterFunction(name, themeKey, class, variable, fn, "filter", cssFilterValue, negative, filterDefaults)
}

func backdropPart(name, themeKey, class, variable, fn string, negative bool) corePlugin {
	return filterFunction(name, themeKey, class, variable, fn, "backdrop-filter", cssBackdropFilterValue, negative, backdropDefaults)
}

// filterToggle registers the bare filter utility and its -none form.
func filterToggle(name, prop, composed string) corePlugin {
	return plugin(name, func(api *API) {
		if prop == "filter" {
			filterDefaults(api)
		} else {
			backdropDefaults(api)
		}
		api.AddUtilities(Rules{
			R("."+prop, Decl(prop, composed)),
			R("."+prop+"-none", Decl(prop, "none")),
		})
	})
}

func dropShadow() corePlugin {
	return plugin("dropShadow", func(api *API) {
		filterDefaults(api)
		api.MatchUtilities([]Utility{U("drop-shadow", func(v theme.Value, _ Info) Style {
			var shadows []string
			switch x := v.(type) {
			case theme.List:
				for _, e := range x {
					s, ok := theme.Stringify(e)
					if !ok {
						return nil
					}
					shadows = append(shadows, "drop-shadow("+s+")")
				}
			default:
				s, ok := theme.Stringify(v)
				if !ok {
					return nil
				}
				shadows = append(shadows, "drop-shadow("+s+")")
			}
			return Decls("--tw-drop-shadow", strings.Join(shadows, " "), "filter", cssFilterValue)
		})}, MatchOptions{Values: api.ThemeScale("dropShadow")})
	})
}

func transitionProperty() corePlugin {
	return plugin("transitionProperty", func(api *API) {
		timing := api.ThemeString("transitionTimingFunction.DEFAULT", "cubic-bezier(0.4, 0, 0.2, 1)")
		duration := api.ThemeString("transitionDuration.DEFAULT", "150ms")
		api.MatchUtilities([]Utility{U("transition", func(v theme.Value, _ Info) Style {
			s, ok := theme.Stringify(v)
			if !ok {
				return nil
			}
			if s == "none" {
				return Style{Decl("transition-property", s)}
			}
			return Decls("transition-property", s, "transition-timing-function", timing, "transition-duration", duration)
		})}, MatchOptions{Values: api.ThemeScale("transitionProperty")})
	})
}

func contain() corePlugin {
	return plugin("contain", func(api *API) {
		api.AddDefaults("contain", Decls(
			"--tw-contain-size", " ", "--tw-contain-layout", " ", "--tw-contain-paint", " ", "--tw-contain-style", " ",
		))
		part := func(class, variable, value string) Rule {
			return R("."+class, Decl(variable, value), Decl("contain", cssContainValue))
		}
		api.AddUtilities(Rules{
			R(".contain-none", Decl("contain", "none")),
			R(".contain-content", Decl("contain", "content")),
			R(".contain-strict", Decl("contain", "strict")),
			part("contain-size", "--tw-contain-size", "size"),
			part("contain-inline-size", "--tw-contain-size", "inline-size"),
			part("contain-layout", "--tw-contain-layout", "layout"),
			part("contain-paint", "--tw-contain-paint", "paint"),
			part("contain-style", "--tw-contain-style", "style"),
		})
	})
}

func content() corePlugin {
	return plugin("content", func(api *API) {
		api.MatchUtilities([]Utility{U("content", func(v theme.Value, _ Info) Style {
			s, ok := theme.Stringify(v)
			if !ok {
				return nil
			}
			return Decls("--tw-content", s, "content", "var(--tw-content)")
		})}, MatchOptions{Values: api.ThemeScale("content"), Types: Types(datatype.Lookup, datatype.Any)})
	})
}
