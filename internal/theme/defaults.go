package theme

// ref returns a computed value reading another theme path.
func ref(path string) Computed {
	return func(a Accessor) Value { return a.Theme(path) }
}

// around returns a computed scale made of before, the scale at path, then
// after.
func around(before *Scale, path string, after *Scale) Computed {
	return func(a Accessor) Value {
		out := NewScale()
		if before != nil {
			out = Merge(out, before).(*Scale)
		}
		if s, ok := a.Theme(path).(*Scale); ok {
			out = Merge(out, s).(*Scale)
		}
		if after != nil {
			out = Merge(out, after).(*Scale)
		}
		return out
	}
}

func fractions(den ...int) *Scale {
	s := NewScale()
	pct := map[string]string{
		"1/2": "50%", "1/3": "33.333333%", "2/3": "66.666667%",
		"1/4": "25%", "2/4": "50%", "3/4": "75%",
		"1/5": "20%", "2/5": "40%", "3/5": "60%", "4/5": "80%",
		"1/6": "16.666667%", "2/6": "33.333333%", "3/6": "50%", "4/6": "66.666667%", "5/6": "83.333333%",
		"1/12": "8.333333%", "2/12": "16.666667%", "3/12": "25%", "4/12": "33.333333%", "5/12": "41.666667%",
		"6/12": "50%", "7/12": "58.333333%", "8/12": "66.666667%", "9/12": "75%", "10/12": "83.333333%", "11/12": "91.666667%",
	}
	for _, d := range den {
		for n := 1; n < d; n++ {
			k := itoa(n) + "/" + itoa(d)
			s.Set(k, Literal(pct[k]))
		}
	}
	return s
}

func itoa(n int) string {
	if n < 10 {
		return string(rune('0' + n))
	}
	return itoa(n/10) + string(rune('0'+n%10))
}

func numbered(from, to int, suffix string) *Scale {
	s := NewScale()
	for i := from; i <= to; i++ {
		s.Set(itoa(i), Literal(itoa(i)+suffix))
	}
	return s
}

var sizeKeywords = S("min", "min-content", "max", "max-content", "fit", "fit-content")

// DefaultTable returns a fresh copy of the default theme table.
func DefaultTable() *Scale {
	spacing := S(
		"px", "1px", "0", "0px", "0.5", "0.125rem", "1", "0.25rem", "1.5", "0.375rem",
		"2", "0.5rem", "2.5", "0.625rem", "3", "0.75rem", "3.5", "0.875rem", "4", "1rem",
		"5", "1.25rem", "6", "1.5rem", "7", "1.75rem", "8", "2rem", "9", "2.25rem",
		"10", "2.5rem", "11", "2.75rem", "12", "3rem", "14", "3.5rem", "16", "4rem",
		"20", "5rem", "24", "6rem", "28", "7rem", "32", "8rem", "36", "9rem", "40", "10rem",
		"44", "11rem", "48", "12rem", "52", "13rem", "56", "14rem", "60", "15rem",
		"64", "16rem", "72", "18rem", "80", "20rem", "96", "24rem",
	)

	t := S(
		"screens", S("sm", "640px", "md", "768px", "lg", "1024px", "xl", "1280px", "2xl", "1536px"),
		"supports", NewScale(),
		"data", NewScale(),
		"aria", S(
			"busy", `busy="true"`, "checked", `checked="true"`, "disabled", `disabled="true"`,
			"expanded", `expanded="true"`, "hidden", `hidden="true"`, "pressed", `pressed="true"`,
			"readonly", `readonly="true"`, "required", `required="true"`, "selected", `selected="true"`,
		),
		"colors", Computed(func(a Accessor) Value { return a.Palette().Clone() }),
		"spacing", spacing,
	)

	t.Set("accentColor", around(nil, "colors", S("auto", "auto")))
	t.Set("animation", S(
		"none", "none",
		"spin", "spin 1s linear infinite",
		"ping", "ping 1s cubic-bezier(0, 0, 0.2, 1) infinite",
		"pulse", "pulse 2s cubic-bezier(0.4, 0, 0.6, 1) infinite",
		"bounce", "bounce 1s infinite",
	))
	t.Set("aspectRatio", S("auto", "auto", "square", "1 / 1", "video", "16 / 9"))
	t.Set("backdropBlur", ref("blur"))
	t.Set("backdropBrightness", ref("brightness"))
	t.Set("backdropContrast", ref("contrast"))
	t.Set("backdropGrayscale", ref("grayscale"))
	t.Set("backdropHueRotate", ref("hueRotate"))
	t.Set("backdropInvert", ref("invert"))
	t.Set("backdropOpacity", ref("opacity"))
	t.Set("backdropSaturate", ref("saturate"))
	t.Set("backdropSepia", ref("sepia"))
	t.Set("backgroundColor", ref("colors"))
	t.Set("backgroundImage", S(
		"none", "none",
		"gradient-to-t", "linear-gradient(to top, var(--tw-gradient-stops))",
		"gradient-to-tr", "linear-gradient(to top right, var(--tw-gradient-stops))",
		"gradient-to-r", "linear-gradient(to right, var(--tw-gradient-stops))",
		"gradient-to-br", "linear-gradient(to bottom right, var(--tw-gradient-stops))",
		"gradient-to-b", "linear-gradient(to bottom, var(--tw-gradient-stops))",
		"gradient-to-bl", "linear-gradient(to bottom left, var(--tw-gradient-stops))",
		"gradient-to-l", "linear-gradient(to left, var(--tw-gradient-stops))",
		"gradient-to-tl", "linear-gradient(to top left, var(--tw-gradient-stops))",
	))
	t.Set("backgroundOpacity", ref("opacity"))
	t.Set("backgroundPosition", S(
		"bottom", "bottom", "center", "center", "left", "left", "left-bottom", "left bottom",
		"left-top", "left top", "right", "right", "right-bottom", "right bottom",
		"right-top", "right top", "top", "top",
	))
	t.Set("backgroundSize", S("auto", "auto", "cover", "cover", "contain", "contain"))
	t.Set("blur", S(
		"0", "0", "none", "0", "sm", "4px", "DEFAULT", "8px", "md", "12px", "lg", "16px",
		"xl", "24px", "2xl", "40px", "3xl", "64px",
	))
	t.Set("borderColor", around(nil, "colors", S("DEFAULT", Computed(func(a Accessor) Value {
		return a.Theme("colors.gray.200")
	}))))
	t.Set("borderOpacity", ref("opacity"))
	t.Set("borderRadius", S(
		"none", "0px", "sm", "0.125rem", "DEFAULT", "0.25rem", "md", "0.375rem", "lg", "0.5rem",
		"xl", "0.75rem", "2xl", "1rem", "3xl", "1.5rem", "full", "9999px",
	))
	t.Set("borderSpacing", ref("spacing"))
	t.Set("borderWidth", S("DEFAULT", "1px", "0", "0px", "2", "2px", "4", "4px", "8", "8px"))
	t.Set("boxShadow", S(
		"sm", "0 1px 2px 0 rgb(0 0 0 / 0.05)",
		"DEFAULT", "0 1px 3px 0 rgb(0 0 0 / 0.1), 0 1px 2px -1px rgb(0 0 0 / 0.1)",
		"md", "0 4px 6px -1px rgb(0 0 0 / 0.1), 0 2px 4px -2px rgb(0 0 0 / 0.1)",
		"lg", "0 10px 15px -3px rgb(0 0 0 / 0.1), 0 4px 6px -4px rgb(0 0 0 / 0.1)",
		"xl", "0 20px 25px -5px rgb(0 0 0 / 0.1), 0 8px 10px -6px rgb(0 0 0 / 0.1)",
		"2xl", "0 25px 50px -12px rgb(0 0 0 / 0.25)",
		"inner", "inset 0 2px 4px 0 rgb(0 0 0 / 0.05)",
		"none", "none",
	))
	t.Set("boxShadowColor", ref("colors"))
	t.Set("brightness", S(
		"0", "0", "50", ".5", "75", ".75", "90", ".9", "95", ".95", "100", "1",
		"105", "1.05", "110", "1.1", "125", "1.25", "150", "1.5", "200", "2",
	))
	t.Set("caretColor", ref("colors"))
	t.Set("columns", Merge(S("auto", "auto"), Merge(numbered(1, 12, ""), S(
		"3xs", "16rem", "2xs", "18rem", "xs", "20rem", "sm", "24rem", "md", "28rem", "lg", "32rem",
		"xl", "36rem", "2xl", "42rem", "3xl", "48rem", "4xl", "56rem", "5xl", "64rem", "6xl", "72rem", "7xl", "80rem",
	))))
	t.Set("content", S("none", "none"))
	t.Set("contrast", S("0", "0", "50", ".5", "75", ".75", "100", "1", "125", "1.25", "150", "1.5", "200", "2"))
	t.Set("cursor", S(
		"auto", "auto", "default", "default", "pointer", "pointer", "wait", "wait", "text", "text",
		"move", "move", "help", "help", "not-allowed", "not-allowed", "none", "none",
		"context-menu", "context-menu", "progress", "progress", "cell", "cell", "crosshair", "crosshair",
		"vertical-text", "vertical-text", "alias", "alias", "copy", "copy", "no-drop", "no-drop",
		"grab", "grab", "grabbing", "grabbing", "all-scroll", "all-scroll", "col-resize", "col-resize",
		"row-resize", "row-resize", "n-resize", "n-resize", "e-resize", "e-resize", "s-resize", "s-resize",
		"w-resize", "w-resize", "zoom-in", "zoom-in", "zoom-out", "zoom-out",
	))
	t.Set("divideColor", ref("borderColor"))
	t.Set("divideOpacity", ref("borderOpacity"))
	t.Set("divideWidth", ref("borderWidth"))
	t.Set("dropShadow", S(
		"sm", "0 1px 1px rgb(0 0 0 / 0.05)",
		"DEFAULT", List{Literal("0 1px 2px rgb(0 0 0 / 0.1)"), Literal("0 1px 1px rgb(0 0 0 / 0.06)")},
		"md", List{Literal("0 4px 3px rgb(0 0 0 / 0.07)"), Literal("0 2px 2px rgb(0 0 0 / 0.06)")},
		"lg", List{Literal("0 10px 8px rgb(0 0 0 / 0.04)"), Literal("0 4px 3px rgb(0 0 0 / 0.1)")},
		"xl", List{Literal("0 20px 13px rgb(0 0 0 / 0.03)"), Literal("0 8px 5px rgb(0 0 0 / 0.08)")},
		"2xl", "0 25px 25px rgb(0 0 0 / 0.15)",
		"none", "0 0 #0000",
	))
	t.Set("fill", around(S("none", "none"), "colors", nil))
	t.Set("flex", S("1", "1 1 0%", "auto", "1 1 auto", "initial", "0 1 auto", "none", "none"))
	t.Set("flexBasis", around(S("auto", "auto"), "spacing", Merge(fractions(2, 3, 4, 5, 6, 12), S("full", "100%")).(*Scale)))
	t.Set("flexGrow", S("0", "0", "DEFAULT", "1"))
	t.Set("flexShrink", S("0", "0", "DEFAULT", "1"))
	t.Set("fontFamily", S(
		"sans", []string{"ui-sans-serif", "system-ui", "sans-serif", `"Apple Color Emoji"`, `"Segoe UI Emoji"`, `"Segoe UI Symbol"`, `"Noto Color Emoji"`},
		"serif", []string{"ui-serif", "Georgia", "Cambria", `"Times New Roman"`, "Times", "serif"},
		"mono", []string{"ui-monospace", "SFMono-Regular", "Menlo", "Monaco", "Consolas", `"Liberation Mono"`, `"Courier New"`, "monospace"},
	))
	fontSize := func(size, lineHeight string) List {
		return List{Literal(size), S("lineHeight", lineHeight)}
	}
	t.Set("fontSize", S(
		"xs", fontSize("0.75rem", "1rem"),
		"sm", fontSize("0.875rem", "1.25rem"),
		"base", fontSize("1rem", "1.5rem"),
		"lg", fontSize("1.125rem", "1.75rem"),
		"xl", fontSize("1.25rem", "1.75rem"),
		"2xl", fontSize("1.5rem", "2rem"),
		"3xl", fontSize("1.875rem", "2.25rem"),
		"4xl", fontSize("2.25rem", "2.5rem"),
		"5xl", fontSize("3rem", "1"),
		"6xl", fontSize("3.75rem", "1"),
		"7xl", fontSize("4.5rem", "1"),
		"8xl", fontSize("6rem", "1"),
		"9xl", fontSize("8rem", "1"),
	))
	t.Set("fontWeight", S(
		"thin", "100", "extralight", "200", "light", "300", "normal", "400", "medium", "500",
		"semibold", "600", "bold", "700", "extrabold", "800", "black", "900",
	))
	t.Set("gap", ref("spacing"))
	t.Set("gradientColorStops", ref("colors"))
	t.Set("gradientColorStopPositions", S(
		"0%", "0%", "5%", "5%", "10%", "10%", "15%", "15%", "20%", "20%", "25%", "25%", "30%", "30%",
		"35%", "35%", "40%", "40%", "45%", "45%", "50%", "50%", "55%", "55%", "60%", "60%", "65%", "65%",
		"70%", "70%", "75%", "75%", "80%", "80%", "85%", "85%", "90%", "90%", "95%", "95%", "100%", "100%",
	))
	t.Set("grayscale", S("0", "0", "DEFAULT", "100%"))
	t.Set("gridAutoColumns", S("auto", "auto", "min", "min-content", "max", "max-content", "fr", "minmax(0, 1fr)"))
	t.Set("gridAutoRows", S("auto", "auto", "min", "min-content", "max", "max-content", "fr", "minmax(0, 1fr)"))
	span := func(n int) *Scale {
		s := S("auto", "auto")
		for i := 1; i <= n; i++ {
			s.Set("span-"+itoa(i), Literal("span "+itoa(i)+" / span "+itoa(i)))
		}
		return s.Clone()
	}
	gridCol := span(12)
	gridCol.Set("span-full", Literal("1 / -1"))
	t.Set("gridColumn", gridCol)
	t.Set("gridColumnStart", Merge(S("auto", "auto"), numbered(1, 13, "")))
	t.Set("gridColumnEnd", Merge(S("auto", "auto"), numbered(1, 13, "")))
	gridRow := span(12)
	gridRow.Set("span-full", Literal("1 / -1"))
	t.Set("gridRow", gridRow)
	t.Set("gridRowStart", Merge(S("auto", "auto"), numbered(1, 13, "")))
	t.Set("gridRowEnd", Merge(S("auto", "auto"), numbered(1, 13, "")))
	cols := S("none", "none", "subgrid", "subgrid")
	rows := S("none", "none", "subgrid", "subgrid")
	for i := 1; i <= 12; i++ {
		cols.Set(itoa(i), Literal("repeat("+itoa(i)+", minmax(0, 1fr))"))
		rows.Set(itoa(i), Literal("repeat("+itoa(i)+", minmax(0, 1fr))"))
	}
	t.Set("gridTemplateColumns", cols)
	t.Set("gridTemplateRows", rows)
	t.Set("height", around(S("auto", "auto"), "spacing", Merge(fractions(2, 3, 4, 5, 6), Merge(S(
		"full", "100%", "screen", "100vh", "svh", "100svh", "lvh", "100lvh", "dvh", "100dvh",
	), sizeKeywords)).(*Scale)))
	t.Set("hueRotate", S("0", "0deg", "15", "15deg", "30", "30deg", "60", "60deg", "90", "90deg", "180", "180deg"))
	t.Set("inset", around(S("auto", "auto"), "spacing", Merge(fractions(2, 3, 4), S("full", "100%")).(*Scale)))
	t.Set("invert", S("0", "0", "DEFAULT", "100%"))
	t.Set("keyframes", S(
		"spin", S("to", S("transform", "rotate(360deg)")),
		"ping", S("75%, 100%", S("transform", "scale(2)", "opacity", "0")),
		"pulse", S("50%", S("opacity", ".5")),
		"bounce", S(
			"0%, 100%", S("transform", "translateY(-25%)", "animationTimingFunction", "cubic-bezier(0.8,0,1,1)"),
			"50%", S("transform", "none", "animationTimingFunction", "cubic-bezier(0,0,0.2,1)"),
		),
	))
	t.Set("letterSpacing", S(
		"tighter", "-0.05em", "tight", "-0.025em", "normal", "0em", "wide", "0.025em",
		"wider", "0.05em", "widest", "0.1em",
	))
	t.Set("lineClamp", numbered(1, 6, ""))
	t.Set("lineHeight", S(
		"none", "1", "tight", "1.25", "snug", "1.375", "normal", "1.5", "relaxed", "1.625", "loose", "2",
		"3", ".75rem", "4", "1rem", "5", "1.25rem", "6", "1.5rem", "7", "1.75rem", "8", "2rem",
		"9", "2.25rem", "10", "2.5rem",
	))
	t.Set("listStyleType", S("none", "none", "disc", "disc", "decimal", "decimal"))
	t.Set("listStyleImage", S("none", "none"))
	t.Set("margin", around(S("auto", "auto"), "spacing", nil))
	t.Set("maxHeight", around(nil, "spacing", Merge(S(
		"none", "none", "full", "100%", "screen", "100vh", "svh", "100svh", "lvh", "100lvh", "dvh", "100dvh",
	), sizeKeywords).(*Scale)))
	t.Set("maxWidth", Computed(func(a Accessor) Value {
		s := S(
			"none", "none", "0", "0rem", "xs", "20rem", "sm", "24rem", "md", "28rem", "lg", "32rem",
			"xl", "36rem", "2xl", "42rem", "3xl", "48rem", "4xl", "56rem", "5xl", "64rem",
			"6xl", "72rem", "7xl", "80rem", "full", "100%",
		)
		s = Merge(s, sizeKeywords).(*Scale)
		s.Set("prose", Literal("65ch"))
		return Merge(s, Breakpoints(a.Theme("screens")))
	}))
	t.Set("minHeight", around(nil, "spacing", Merge(S(
		"full", "100%", "screen", "100vh", "svh", "100svh", "lvh", "100lvh", "dvh", "100dvh",
	), sizeKeywords).(*Scale)))
	t.Set("minWidth", around(nil, "spacing", Merge(S("full", "100%"), sizeKeywords).(*Scale)))
	t.Set("objectPosition", ref("backgroundPosition"))
	t.Set("opacity", S(
		"0", "0", "5", "0.05", "10", "0.1", "15", "0.15", "20", "0.2", "25", "0.25", "30", "0.3",
		"35", "0.35", "40", "0.4", "45", "0.45", "50", "0.5", "55", "0.55", "60", "0.6", "65", "0.65",
		"70", "0.7", "75", "0.75", "80", "0.8", "85", "0.85", "90", "0.9", "95", "0.95", "100", "1",
	))
	t.Set("order", Merge(S("first", "-9999", "last", "9999", "none", "0"), numbered(1, 12, "")))
	t.Set("outlineColor", ref("colors"))
	t.Set("outlineOffset", S("0", "0px", "1", "1px", "2", "2px", "4", "4px", "8", "8px"))
	t.Set("outlineWidth", S("0", "0px", "1", "1px", "2", "2px", "4", "4px", "8", "8px"))
	t.Set("padding", ref("spacing"))
	t.Set("placeholderColor", ref("colors"))
	t.Set("placeholderOpacity", ref("opacity"))
	t.Set("ringColor", around(nil, "colors", S("DEFAULT", Computed(func(a Accessor) Value {
		return a.Theme("colors.blue.500")
	}))))
	t.Set("ringOffsetColor", ref("colors"))
	t.Set("ringOffsetWidth", S("0", "0px", "1", "1px", "2", "2px", "4", "4px", "8", "8px"))
	t.Set("ringOpacity", around(nil, "opacity", S("DEFAULT", "0.5")))
	t.Set("ringWidth", S("DEFAULT", "3px", "0", "0px", "1", "1px", "2", "2px", "4", "4px", "8", "8px"))
	t.Set("rotate", S(
		"0", "0deg", "1", "1deg", "2", "2deg", "3", "3deg", "6", "6deg", "12", "12deg",
		"45", "45deg", "90", "90deg", "180", "180deg",
	))
	t.Set("saturate", S("0", "0", "50", ".5", "100", "1", "150", "1.5", "200", "2"))
	t.Set("scale", S(
		"0", "0", "50", ".5", "75", ".75", "90", ".9", "95", ".95", "100", "1",
		"105", "1.05", "110", "1.1", "125", "1.25", "150", "1.5",
	))
	t.Set("scrollMargin", ref("spacing"))
	t.Set("scrollPadding", ref("spacing"))
	t.Set("sepia", S("0", "0", "DEFAULT", "100%"))
	t.Set("size", around(S("auto", "auto"), "spacing", Merge(fractions(2, 3, 4, 5, 6, 12), Merge(S("full", "100%"), sizeKeywords)).(*Scale)))
	t.Set("skew", S("0", "0deg", "1", "1deg", "2", "2deg", "3", "3deg", "6", "6deg", "12", "12deg"))
	t.Set("space", ref("spacing"))
	t.Set("stroke", around(S("none", "none"), "colors", nil))
	t.Set("strokeWidth", S("0", "0", "1", "1", "2", "2"))
	t.Set("textColor", ref("colors"))
	t.Set("textDecorationColor", ref("colors"))
	t.Set("textDecorationThickness", S(
		"auto", "auto", "from-font", "from-font", "0", "0px", "1", "1px", "2", "2px", "4", "4px", "8", "8px",
	))
	t.Set("textIndent", ref("spacing"))
	t.Set("textOpacity", ref("opacity"))
	t.Set("textUnderlineOffset", S("auto", "auto", "0", "0px", "1", "1px", "2", "2px", "4", "4px", "8", "8px"))
	t.Set("transformOrigin", S(
		"center", "center", "top", "top", "top-right", "top right", "right", "right",
		"bottom-right", "bottom right", "bottom", "bottom", "bottom-left", "bottom left",
		"left", "left", "top-left", "top left",
	))
	t.Set("transitionDelay", S(
		"0", "0s", "75", "75ms", "100", "100ms", "150", "150ms", "200", "200ms", "300", "300ms",
		"500", "500ms", "700", "700ms", "1000", "1000ms",
	))
	t.Set("transitionDuration", S(
		"DEFAULT", "150ms", "0", "0s", "75", "75ms", "100", "100ms", "150", "150ms", "200", "200ms",
		"300", "300ms", "500", "500ms", "700", "700ms", "1000", "1000ms",
	))
	t.Set("transitionProperty", S(
		"none", "none",
		"all", "all",
		"DEFAULT", "color, background-color, border-color, text-decoration-color, fill, stroke, opacity, box-shadow, transform, filter, backdrop-filter",
		"colors", "color, background-color, border-color, text-decoration-color, fill, stroke",
		"opacity", "opacity",
		"shadow", "box-shadow",
		"transform", "transform",
	))
	t.Set("transitionTimingFunction", S(
		"DEFAULT", "cubic-bezier(0.4, 0, 0.2, 1)",
		"linear", "linear",
		"in", "cubic-bezier(0.4, 0, 1, 1)",
		"out", "cubic-bezier(0, 0, 0.2, 1)",
		"in-out", "cubic-bezier(0.4, 0, 0.2, 1)",
	))
	t.Set("translate", around(nil, "spacing", Merge(fractions(2, 3, 4), S("full", "100%")).(*Scale)))
	t.Set("width", around(S("auto", "auto"), "spacing", Merge(fractions(2, 3, 4, 5, 6, 12), Merge(S(
		"full", "100%", "screen", "100vw", "svw", "100svw", "lvw", "100lvw", "dvw", "100dvw",
	), sizeKeywords)).(*Scale)))
	t.Set("willChange", S("auto", "auto", "scroll", "scroll-position", "contents", "contents", "transform", "transform"))
	t.Set("zIndex", S("auto", "auto", "0", "0", "10", "10", "20", "20", "30", "30", "40", "40", "50", "50"))
	return t
}
