package engine

import (
	"strings"

	"github.com/yacobolo/windgen/internal/color"
	"github.com/yacobolo/windgen/internal/datatype"
	"github.com/yacobolo/windgen/internal/theme"
)

// corePlugin is a built-in plugin that can be switched off through the
// corePlugins configuration.
type corePlugin struct {
	name string
	fn   func(api *API)
}

// Register runs the plugin.
func (p corePlugin) Register(api *API) { p.fn(api) }

func plugin(name string, fn func(api *API)) corePlugin {
	return corePlugin{name: name, fn: fn}
}

// corePlugins lists the built-in plugins in declaration order, which is
// the order their utilities appear in the output.
func corePlugins() []corePlugin {
	return []corePlugin{
		preflight(),
		container(),
		accessibility(),
		statics("pointerEvents", "pointer-events", "pointer-events-none", "none", "pointer-events-auto", "auto"),
		statics("visibility", "visibility", "visible", "visible", "invisible", "hidden", "collapse", "collapse"),
		statics("position", "position", "static", "static", "fixed", "fixed", "absolute", "absolute", "relative", "relative", "sticky", "sticky"),
		themed("inset", "inset", MatchOptions{SupportsNegative: true},
			group(on("inset", "inset")),
			group(on("inset-x", "left", "right"), on("inset-y", "top", "bottom")),
			group(on("start", "inset-inline-start"), on("end", "inset-inline-end"), on("top", "top"),
				on("right", "right"), on("bottom", "bottom"), on("left", "left")),
		),
		statics("isolation", "isolation", "isolate", "isolate", "isolation-auto", "auto"),
		themed("zIndex", "zIndex", MatchOptions{SupportsNegative: true}, group(on("z", "z-index"))),
		themed("order", "order", MatchOptions{SupportsNegative: true}, group(on("order", "order"))),
		themed("gridColumn", "gridColumn", MatchOptions{}, group(on("col", "grid-column"))),
		themed("gridColumnStart", "gridColumnStart", MatchOptions{}, group(on("col-start", "grid-column-start"))),
		themed("gridColumnEnd", "gridColumnEnd", MatchOptions{}, group(on("col-end", "grid-column-end"))),
		themed("gridRow", "gridRow", MatchOptions{}, group(on("row", "grid-row"))),
		themed("gridRowStart", "gridRowStart", MatchOptions{}, group(on("row-start", "grid-row-start"))),
		themed("gridRowEnd", "gridRowEnd", MatchOptions{}, group(on("row-end", "grid-row-end"))),
		statics("float", "float", "float-start", "inline-start", "float-end", "inline-end",
			"float-right", "right", "float-left", "left", "float-none", "none"),
		statics("clear", "clear", "clear-start", "inline-start", "clear-end", "inline-end",
			"clear-left", "left", "clear-right", "right", "clear-both", "both", "clear-none", "none"),
		themed("margin", "margin", MatchOptions{SupportsNegative: true},
			group(on("m", "margin")),
			group(on("mx", "margin-left", "margin-right"), on("my", "margin-top", "margin-bottom")),
			group(on("ms", "margin-inline-start"), on("me", "margin-inline-end"), on("mt", "margin-top"),
				on("mr", "margin-right"), on("mb", "margin-bottom"), on("ml", "margin-left")),
		),
		statics("boxSizing", "box-sizing", "box-border", "border-box", "box-content", "content-box"),
		lineClamp(),
		statics("display", "display",
			"block", "block", "inline-block", "inline-block", "inline", "inline", "flex", "flex",
			"inline-flex", "inline-flex", "table", "table", "inline-table", "inline-table",
			"table-caption", "table-caption", "table-cell", "table-cell", "table-column", "table-column",
			"table-column-group", "table-column-group", "table-footer-group", "table-footer-group",
			"table-header-group", "table-header-group", "table-row-group", "table-row-group",
			"table-row", "table-row", "flow-root", "flow-root", "grid", "grid", "inline-grid", "inline-grid",
			"contents", "contents", "list-item", "list-item", "hidden", "none"),
		themed("aspectRatio", "aspectRatio", MatchOptions{}, group(on("aspect", "aspect-ratio"))),
		themed("size", "size", MatchOptions{}, group(on("size", "width", "height"))),
		themed("height", "height", MatchOptions{}, group(on("h", "height"))),
		themed("maxHeight", "maxHeight", MatchOptions{}, group(on("max-h", "max-height"))),
		themed("minHeight", "minHeight", MatchOptions{}, group(on("min-h", "min-height"))),
		themed("width", "width", MatchOptions{}, group(on("w", "width"))),
		themed("minWidth", "minWidth", MatchOptions{}, group(on("min-w", "min-width"))),
		themed("maxWidth", "maxWidth", MatchOptions{}, group(on("max-w", "max-width"))),
		themed("flex", "flex", MatchOptions{}, group(on("flex", "flex"))),
		themed("flexShrink", "flexShrink", MatchOptions{}, group(on("flex-shrink", "flex-shrink"), on("shrink", "flex-shrink"))),
		themed("flexGrow", "flexGrow", MatchOptions{}, group(on("flex-grow", "flex-grow"), on("grow", "flex-grow"))),
		themed("flexBasis", "flexBasis", MatchOptions{}, group(on("basis", "flex-basis"))),
		statics("tableLayout", "table-layout", "table-auto", "auto", "table-fixed", "fixed"),
		statics("captionSide", "caption-side", "caption-top", "top", "caption-bottom", "bottom"),
		statics("borderCollapse", "border-collapse", "border-collapse", "collapse", "border-separate", "separate"),
		borderSpacing(),
		themed("transformOrigin", "transformOrigin", MatchOptions{}, group(on("origin", "transform-origin"))),
		transformPart("translate", "translate", MatchOptions{SupportsNegative: true},
			group(on("translate-x", "--tw-translate-x"), on("translate-y", "--tw-translate-y"))),
		transformPart("rotate", "rotate", MatchOptions{SupportsNegative: true}, group(on("rotate", "--tw-rotate"))),
		transformPart("skew", "skew", MatchOptions{SupportsNegative: true},
			group(on("skew-x", "--tw-skew-x"), on("skew-y", "--tw-skew-y"))),
		transformPart("scale", "scale", MatchOptions{SupportsNegative: true},
			group(on("scale", "--tw-scale-x", "--tw-scale-y")),
			group(on("scale-x", "--tw-scale-x"), on("scale-y", "--tw-scale-y"))),
		transform(),
		animation(),
		themed("cursor", "cursor", MatchOptions{}, group(on("cursor", "cursor"))),
		touchAction(),
		statics("userSelect", "user-select", "select-none", "none", "select-text", "text", "select-all", "all", "select-auto", "auto"),
		statics("resize", "resize", "resize-none", "none", "resize-y", "vertical", "resize-x", "horizontal", "resize", "both"),
		scrollSnapType(),
		statics("scrollSnapAlign", "scroll-snap-align", "snap-start", "start", "snap-end", "end",
			"snap-center", "center", "snap-align-none", "none"),
		statics("scrollSnapStop", "scroll-snap-stop", "snap-normal", "normal", "snap-always", "always"),
		themed("scrollMargin", "scrollMargin", MatchOptions{SupportsNegative: true},
			group(on("scroll-m", "scroll-margin")),
			group(on("scroll-mx", "scroll-margin-left", "scroll-margin-right"), on("scroll-my", "scroll-margin-top", "scroll-margin-bottom")),
			group(on("scroll-ms", "scroll-margin-inline-start"), on("scroll-me", "scroll-margin-inline-end"),
				on("scroll-mt", "scroll-margin-top"), on("scroll-mr", "scroll-margin-right"),
				on("scroll-mb", "scroll-margin-bottom"), on("scroll-ml", "scroll-margin-left")),
		),
		themed("scrollPadding", "scrollPadding", MatchOptions{},
			group(on("scroll-p", "scroll-padding")),
			group(on("scroll-px", "scroll-padding-left", "scroll-padding-right"), on("scroll-py", "scroll-padding-top", "scroll-padding-bottom")),
			group(on("scroll-ps", "scroll-padding-inline-start"), on("scroll-pe", "scroll-padding-inline-end"),
				on("scroll-pt", "scroll-padding-top"), on("scroll-pr", "scroll-padding-right"),
				on("scroll-pb", "scroll-padding-bottom"), on("scroll-pl", "scroll-padding-left")),
		),
		statics("listStylePosition", "list-style-position", "list-inside", "inside", "list-outside", "outside"),
		themed("listStyleType", "listStyleType", MatchOptions{}, group(on("list", "list-style-type"))),
		themed("listStyleImage", "listStyleImage", MatchOptions{}, group(on("list-image", "list-style-image"))),
		statics("appearance", "appearance", "appearance-none", "none", "appearance-auto", "auto"),
		themed("columns", "columns", MatchOptions{}, group(on("columns", "columns"))),
		statics("breakBefore", "break-before", "break-before-auto", "auto", "break-before-avoid", "avoid",
			"break-before-all", "all", "break-before-avoid-page", "avoid-page", "break-before-page", "page",
			"break-before-left", "left", "break-before-right", "right", "break-before-column", "column"),
		statics("breakInside", "break-inside", "break-inside-auto", "auto", "break-inside-avoid", "avoid",
			"break-inside-avoid-page", "avoid-page", "break-inside-avoid-column", "avoid-column"),
		statics("breakAfter", "break-after", "break-after-auto", "auto", "break-after-avoid", "avoid",
			"break-after-all", "all", "break-after-avoid-page", "avoid-page", "break-after-page", "page",
			"break-after-left", "left", "break-after-right", "right", "break-after-column", "column"),
		themed("gridAutoColumns", "gridAutoColumns", MatchOptions{}, group(on("auto-cols", "grid-auto-columns"))),
		statics("gridAutoFlow", "grid-auto-flow", "grid-flow-row", "row", "grid-flow-col", "column",
			"grid-flow-dense", "dense", "grid-flow-row-dense", "row dense", "grid-flow-col-dense", "column dense"),
		themed("gridAutoRows", "gridAutoRows", MatchOptions{}, group(on("auto-rows", "grid-auto-rows"))),
		themed("gridTemplateColumns", "gridTemplateColumns", MatchOptions{}, group(on("grid-cols", "grid-template-columns"))),
		themed("gridTemplateRows", "gridTemplateRows", MatchOptions{}, group(on("grid-rows", "grid-template-rows"))),
		statics("flexDirection", "flex-direction", "flex-row", "row", "flex-row-reverse", "row-reverse",
			"flex-col", "column", "flex-col-reverse", "column-reverse"),
		statics("flexWrap", "flex-wrap", "flex-wrap", "wrap", "flex-wrap-reverse", "wrap-reverse", "flex-nowrap", "nowrap"),
		statics("placeContent", "place-content", "place-content-center", "center", "place-content-start", "start",
			"place-content-end", "end", "place-content-between", "space-between", "place-content-around", "space-around",
			"place-content-evenly", "space-evenly", "place-content-baseline", "baseline", "place-content-stretch", "stretch"),
		statics("placeItems", "place-items", "place-items-start", "start", "place-items-end", "end",
			"place-items-center", "center", "place-items-baseline", "baseline", "place-items-stretch", "stretch"),
		statics("alignContent", "align-content", "content-normal", "normal", "content-center", "center",
			"content-start", "flex-start", "content-end", "flex-end", "content-between", "space-between",
			"content-around", "space-around", "content-evenly", "space-evenly", "content-baseline", "baseline",
			"content-stretch", "stretch"),
		statics("alignItems", "align-items", "items-start", "flex-start", "items-end", "flex-end",
			"items-center", "center", "items-baseline", "baseline", "items-stretch", "stretch"),
		statics("justifyContent", "justify-content", "justify-normal", "normal", "justify-start", "flex-start",
			"justify-end", "flex-end", "justify-center", "center", "justify-between", "space-between",
			"justify-around", "space-around", "justify-evenly", "space-evenly", "justify-stretch", "stretch"),
		statics("justifyItems", "justify-items", "justify-items-start", "start", "justify-items-end", "end",
			"justify-items-center", "center", "justify-items-stretch", "stretch"),
		themed("gap", "gap", MatchOptions{},
			group(on("gap", "gap")),
			group(on("gap-x", "column-gap"), on("gap-y", "row-gap")),
		),
		space(),
		divideWidth(),
		divideStyle(),
		divideColor(),
		nestedOpacity("divideOpacity", "divide-opacity", "--tw-divide-opacity", siblingSelector),
		statics("placeSelf", "place-self", "place-self-auto", "auto", "place-self-start", "start",
			"place-self-end", "end", "place-self-center", "center", "place-self-stretch", "stretch"),
		statics("alignSelf", "align-self", "self-auto", "auto", "self-start", "flex-start", "self-end", "flex-end",
			"self-center", "center", "self-stretch", "stretch", "self-baseline", "baseline"),
		statics("justifySelf", "justify-self", "justify-self-auto", "auto", "justify-self-start", "start",
			"justify-self-end", "end", "justify-self-center", "center", "justify-self-stretch", "stretch"),
		overflow(),
		overscroll(),
		statics("scrollBehavior", "scroll-behavior", "scroll-auto", "auto", "scroll-smooth", "smooth"),
		textOverflow(),
		statics("hyphens", "hyphens", "hyphens-none", "none", "hyphens-manual", "manual", "hyphens-auto", "auto"),
		statics("whitespace", "white-space", "whitespace-normal", "normal", "whitespace-nowrap", "nowrap",
			"whitespace-pre", "pre", "whitespace-pre-line", "pre-line", "whitespace-pre-wrap", "pre-wrap",
			"whitespace-break-spaces", "break-spaces"),
		statics("textWrap", "text-wrap", "text-wrap", "wrap", "text-nowrap", "nowrap", "text-balance", "balance", "text-pretty", "pretty"),
		wordBreak(),
		themed("borderRadius", "borderRadius", MatchOptions{},
			group(on("rounded", "border-radius")),
			group(on("rounded-s", "border-start-start-radius", "border-end-start-radius"),
				on("rounded-e", "border-start-end-radius", "border-end-end-radius"),
				on("rounded-t", "border-top-left-radius", "border-top-right-radius"),
				on("rounded-r", "border-top-right-radius", "border-bottom-right-radius"),
				on("rounded-b", "border-bottom-right-radius", "border-bottom-left-radius"),
				on("rounded-l", "border-top-left-radius", "border-bottom-left-radius")),
			group(on("rounded-ss", "border-start-start-radius"), on("rounded-se", "border-start-end-radius"),
				on("rounded-ee", "border-end-end-radius"), on("rounded-es", "border-end-start-radius"),
				on("rounded-tl", "border-top-left-radius"), on("rounded-tr", "border-top-right-radius"),
				on("rounded-br", "border-bottom-right-radius"), on("rounded-bl", "border-bottom-left-radius")),
		),
		themed("borderWidth", "borderWidth", MatchOptions{Types: Types(datatype.LineWidth, datatype.Length)},
			group(on("border", "border-width")),
			group(on("border-x", "border-left-width", "border-right-width"), on("border-y", "border-top-width", "border-bottom-width")),
			group(on("border-s", "border-inline-start-width"), on("border-e", "border-inline-end-width"),
				on("border-t", "border-top-width"), on("border-r", "border-right-width"),
				on("border-b", "border-bottom-width"), on("border-l", "border-left-width")),
		),
		statics("borderStyle", "border-style", "border-solid", "solid", "border-dashed", "dashed",
			"border-dotted", "dotted", "border-double", "double", "border-hidden", "hidden", "border-none", "none"),
		borderColor(),
		opacityVariable("borderOpacity", "border-opacity", "--tw-border-opacity"),
		colorUtility("backgroundColor", "backgroundColor", "bg", "backgroundOpacity", "--tw-bg-opacity", "background-color"),
		opacityVariable("backgroundOpacity", "bg-opacity", "--tw-bg-opacity"),
		themed("backgroundImage", "backgroundImage", MatchOptions{Types: Types(datatype.Lookup, datatype.Image, datatype.URL)},
			group(on("bg", "background-image"))),
		gradientColorStops(),
		statics("boxDecorationBreak", "box-decoration-break", "decoration-slice", "slice", "decoration-clone", "clone",
			"box-decoration-slice", "slice", "box-decoration-clone", "clone"),
		themed("backgroundSize", "backgroundSize", MatchOptions{Types: Types(datatype.Lookup, datatype.Length, datatype.Percentage, datatype.Size)},
			group(on("bg", "background-size"))),
		statics("backgroundAttachment", "background-attachment", "bg-fixed", "fixed", "bg-local", "local", "bg-scroll", "scroll"),
		statics("backgroundClip", "background-clip", "bg-clip-border", "border-box", "bg-clip-padding", "padding-box",
			"bg-clip-content", "content-box", "bg-clip-text", "text"),
		themed("backgroundPosition", "backgroundPosition", MatchOptions{Types: []TypeSpec{{Type: datatype.Lookup}, {Type: datatype.Position, PreferOnConflict: true}}},
			group(on("bg", "background-position"))),
		statics("backgroundRepeat", "background-repeat", "bg-repeat", "repeat", "bg-no-repeat", "no-repeat",
			"bg-repeat-x", "repeat-x", "bg-repeat-y", "repeat-y", "bg-repeat-round", "round", "bg-repeat-space", "space"),
		statics("backgroundOrigin", "background-origin", "bg-origin-border", "border-box", "bg-origin-padding", "padding-box",
			"bg-origin-content", "content-box"),
		colorUtility("fill", "fill", "fill", "", "", "fill"),
		colorUtility("stroke", "stroke", "stroke", "", "", "stroke"),
		themed("strokeWidth", "strokeWidth", MatchOptions{Types: Types(datatype.Length, datatype.Number, datatype.Percentage)},
			group(on("stroke", "stroke-width"))),
		statics("objectFit", "object-fit", "object-contain", "contain", "object-cover", "cover", "object-fill", "fill",
			"object-none", "none", "object-scale-down", "scale-down"),
		themed("objectPosition", "objectPosition", MatchOptions{}, group(on("object", "object-position"))),
		themed("padding", "padding", MatchOptions{},
			group(on("p", "padding")),
			group(on("px", "padding-left", "padding-right"), on("py", "padding-top", "padding-bottom")),
			group(on("ps", "padding-inline-start"), on("pe", "padding-inline-end"), on("pt", "padding-top"),
				on("pr", "padding-right"), on("pb", "padding-bottom"), on("pl", "padding-left")),
		),
		statics("textAlign", "text-align", "text-left", "left", "text-center", "center", "text-right", "right",
			"text-justify", "justify", "text-start", "start", "text-end", "end"),
		themed("textIndent", "textIndent", MatchOptions{SupportsNegative: true}, group(on("indent", "text-indent"))),
		verticalAlign(),
		fontFamily(),
		fontSize(),
		themed("fontWeight", "fontWeight", MatchOptions{Types: Types(datatype.Lookup, datatype.Number, datatype.Any)},
			group(on("font", "font-weight"))),
		statics("textTransform", "text-transform", "uppercase", "uppercase", "lowercase", "lowercase",
			"capitalize", "capitalize", "normal-case", "none"),
		statics("fontStyle", "font-style", "italic", "italic", "not-italic", "normal"),
		fontVariantNumeric(),
		themed("lineHeight", "lineHeight", MatchOptions{}, group(on("leading", "line-height"))),
		themed("letterSpacing", "letterSpacing", MatchOptions{SupportsNegative: true}, group(on("tracking", "letter-spacing"))),
		colorUtility("textColor", "textColor", "text", "textOpacity", "--tw-text-opacity", "color"),
		opacityVariable("textOpacity", "text-opacity", "--tw-text-opacity"),
		statics("textDecoration", "text-decoration-line", "underline", "underline", "overline", "overline",
			"line-through", "line-through", "no-underline", "none"),
		colorUtility("textDecorationColor", "textDecorationColor", "decoration", "", "", "text-decoration-color"),
		statics("textDecorationStyle", "text-decoration-style", "decoration-solid", "solid", "decoration-double", "double",
			"decoration-dotted", "dotted", "decoration-dashed", "dashed", "decoration-wavy", "wavy"),
		themed("textDecorationThickness", "textDecorationThickness", MatchOptions{Types: Types(datatype.Length, datatype.Percentage)},
			group(on("decoration", "text-decoration-thickness"))),
		themed("textUnderlineOffset", "textUnderlineOffset", MatchOptions{Types: Types(datatype.Length, datatype.Percentage, datatype.Any)},
			group(on("underline-offset", "text-underline-offset"))),
		fontSmoothing(),
		placeholderColor(),
		nestedOpacity("placeholderOpacity", "placeholder-opacity", "--tw-placeholder-opacity", "&::placeholder"),
		colorUtility("caretColor", "caretColor", "caret", "", "", "caret-color"),
		colorUtility("accentColor", "accentColor", "accent", "", "", "accent-color"),
		themed("opacity", "opacity", MatchOptions{}, group(on("opacity", "opacity"))),
		blendModes("backgroundBlendMode", "background-blend-mode", "bg-blend-", false),
		blendModes("mixBlendMode", "mix-blend-mode", "mix-blend-", true),
		boxShadow(),
		boxShadowColor(),
		outlineStyle(),
		themed("outlineWidth", "outlineWidth", MatchOptions{Types: Types(datatype.Length, datatype.Number, datatype.Percentage)},
			group(on("outline", "outline-width"))),
		themed("outlineOffset", "outlineOffset", MatchOptions{Types: Types(datatype.Length, datatype.Number, datatype.Percentage, datatype.Any), SupportsNegative: true},
			group(on("outline-offset", "outline-offset"))),
		colorUtility("outlineColor", "outlineColor", "outline", "", "", "outline-color"),
		ringWidth(),
		ringColor(),
		opacityVariable("ringOpacity", "ring-opacity", "--tw-ring-opacity"),
		themed("ringOffsetWidth", "ringOffsetWidth", MatchOptions{Types: Types(datatype.Length)},
			group(on("ring-offset", "--tw-ring-offset-width"))),
		colorUtility("ringOffsetColor", "ringOffsetColor", "ring-offset", "", "", "--tw-ring-offset-color"),
		filterPart("blur", "blur", "blur", "--tw-blur", "blur", false),
		filterPart("brightness", "brightness", "brightness", "--tw-brightness", "brightness", false),
		filterPart("contrast", "contrast", "contrast", "--tw-contrast", "contrast", false),
		dropShadow(),
		filterPart("grayscale", "grayscale", "grayscale", "--tw-grayscale", "grayscale", false),
		filterPart("hueRotate", "hueRotate", "hue-rotate", "--tw-hue-rotate", "hue-rotate", true),
		filterPart("invert", "invert", "invert", "--tw-invert", "invert", false),
		filterPart("saturate", "saturate", "saturate", "--tw-saturate", "saturate", false),
		filterPart("sepia", "sepia", "sepia", "--tw-sepia", "sepia", false),
		filterToggle("filter", "filter", cssFilterValue),
		backdropPart("backdropBlur", "backdropBlur", "backdrop-blur", "--tw-backdrop-blur", "blur", false),
		backdropPart("backdropBrightness", "backdropBrightness", "backdrop-brightness", "--tw-backdrop-brightness", "brightness", false),
		backdropPart("backdropContrast", "backdropContrast", "backdrop-contrast", "--tw-backdrop-contrast", "contrast", false),
		backdropPart("backdropGrayscale", "backdropGrayscale", "backdrop-grayscale", "--tw-backdrop-grayscale", "grayscale", false),
		backdropPart("backdropHueRotate", "backdropHueRotate", "backdrop-hue-rotate", "--tw-backdrop-hue-rotate", "hue-rotate", true),
		backdropPart("backdropInvert", "backdropInvert", "backdrop-invert", "--tw-backdrop-invert", "invert", false),
		backdropPart("backdropOpacity", "backdropOpacity", "backdrop-opacity", "--tw-backdrop-opacity", "opacity", false),
		backdropPart("backdropSaturate", "backdropSaturate", "backdrop-saturate", "--tw-backdrop-saturate", "saturate", false),
		backdropPart("backdropSepia", "backdropSepia", "backdrop-sepia", "--tw-backdrop-sepia", "sepia", false),
		filterToggle("backdropFilter", "backdrop-filter", cssBackdropFilterValue),
		transitionProperty(),
		themed("transitionDelay", "transitionDelay", MatchOptions{}, group(on("delay", "transition-delay"))),
		themed("transitionDuration", "transitionDuration", MatchOptions{}, group(on("duration", "transition-duration"))),
		themed("transitionTimingFunction", "transitionTimingFunction", MatchOptions{}, group(on("ease", "transition-timing-function"))),
		themed("willChange", "willChange", MatchOptions{}, group(on("will-change", "will-change"))),
		contain(),
		content(),
		statics("forcedColorAdjust", "forced-color-adjust", "forced-color-adjust-auto", "auto", "forced-color-adjust-none", "none"),
	}
}

// statics registers one utility per class/value pair, all setting prop.
func statics(name, prop string, pairs ...string) corePlugin {
	return plugin(name, func(api *API) {
		rules := make(Rules, 0, len(pairs)/2)
		for i := 0; i+1 < len(pairs); i += 2 {
			rules = append(rules, R("."+pairs[i], Decl(prop, pairs[i+1])))
		}
		api.AddUtilities(rules)
	})
}

func staticRules(name string, rules ...Rule) corePlugin {
	return plugin(name, func(api *API) {
		api.AddUtilities(rules)
	})
}

// target maps a utility class to the properties its value is written to.
type target struct {
	class string
	props []string
}

func on(class string, props ...string) target {
	return target{class: class, props: props}
}

func group(targets ...target) []target { return targets }

// themed registers utilities backed by the theme section themeKey. Each
// group shares one position in the output.
func themed(name, themeKey string, mo MatchOptions, groups ...[]target) corePlugin {
	return plugin(name, func(api *API) {
		opts := mo
		opts.Values = api.ThemeScale(themeKey)
		for _, g := range groups {
			utils := make([]Utility, 0, len(g))
			for _, t := range g {
				props := t.props
				utils = append(utils, U(t.class, func(v theme.Value, _ Info) Style {
					s, ok := theme.Transform(themeKey, v)
					if !ok {
						return nil
					}
					out := make(Style, 0, len(props))
					for _, p := range props {
						out = append(out, Decl(p, s))
					}
					return out
				}))
			}
			api.MatchUtilities(utils, opts)
		}
	})
}

// colorValues flattens a color section, dropping its DEFAULT when the
// bare utility belongs to another plugin.
func colorValues(api *API, themeKey string, dropDefault bool) *theme.Scale {
	values := theme.Flatten(api.Theme(themeKey))
	if dropDefault {
		values.Delete("DEFAULT")
	}
	return values
}

var colorTypes = Types(datatype.Color, datatype.Any)

// solidColor renders a color without an opacity variable. Colors written
// with the alpha placeholder become opaque.
func solidColor(v theme.Value) (string, bool) {
	s, ok := theme.Stringify(v)
	if !ok {
		return "", false
	}
	return strings.ReplaceAll(s, color.AlphaPlaceholder, "1"), true
}

func alphaStyle(decls []color.Declaration) Style {
	out := make(Style, 0, len(decls))
	for _, d := range decls {
		out = append(out, Decl(d.Property, d.Value))
	}
	return out
}

// colorStyle writes a color to props, reading its opacity from variable
// when the opacity plugin is enabled.
func colorStyle(api *API, v theme.Value, props []string, opacityPlugin, variable string) Style {
	if opacityPlugin == "" || !api.CorePluginEnabled(opacityPlugin) {
		s, ok := solidColor(v)
		if !ok {
			return nil
		}
		out := make(Style, 0, len(props))
		for _, p := range props {
			out = append(out, Decl(p, s))
		}
		return out
	}
	s, ok := theme.Stringify(v)
	if !ok {
		return nil
	}
	return alphaStyle(color.WithAlphaVariable(s, props, variable))
}

func colorUtility(name, themeKey, class, opacityPlugin, variable string, props ...string) corePlugin {
	return plugin(name, func(api *API) {
		api.MatchUtilities([]Utility{U(class, func(v theme.Value, _ Info) Style {
			return colorStyle(api, v, props, opacityPlugin, variable)
		})}, MatchOptions{Values: colorValues(api, themeKey, false), Types: colorTypes})
	})
}

// opacityVariable sets the opacity variable a color utility reads.
func opacityVariable(name, class, variable string) corePlugin {
	return plugin(name, func(api *API) {
		values := api.ThemeScale(name)
		if name == "ringOpacity" {
			values = values.Clone()
			values.Delete("DEFAULT")
		}
		api.MatchUtilities([]Utility{U(class, func(v theme.Value, _ Info) Style {
			s, ok := theme.Stringify(v)
			if !ok {
				return nil
			}
			return Style{Decl(variable, s)}
		})}, MatchOptions{Values: values})
	})
}

// nestedOpacity is opacityVariable for utilities styling a nested
// selector.
func nestedOpacity(name, class, variable, nested string) corePlugin {
	return plugin(name, func(api *API) {
		api.MatchUtilities([]Utility{U(class, func(v theme.Value, _ Info) Style {
			s, ok := theme.Stringify(v)
			if !ok {
				return nil
			}
			return Style{Nest(nested, Decl(variable, s))}
		})}, MatchOptions{Values: api.ThemeScale(name)})
	})
}
