package datatype

import (
	"regexp"
	"strings"

	"github.com/yacobolo/windgen/internal/color"
)

// Type names a value kind utilities can accept.
type Type string

// Value kinds. Any and Lookup are not predicates: Any accepts every
// arbitrary value and Lookup only accepts configured theme keys.
const (
	Any          Type = "any"
	Color        Type = "color"
	URL          Type = "url"
	Image        Type = "image"
	Length       Type = "length"
	Percentage   Type = "percentage"
	Position     Type = "position"
	Lookup       Type = "lookup"
	GenericName  Type = "generic-name"
	FamilyName   Type = "family-name"
	Number       Type = "number"
	LineWidth    Type = "line-width"
	AbsoluteSize Type = "absolute-size"
	RelativeSize Type = "relative-size"
	Shadow       Type = "shadow"
	Size         Type = "size"
)

// Known reports whether t is a recognised type name (valid as a
// [type:value] hint).
func Known(t string) bool {
	switch Type(t) {
	case Any, Color, URL, Image, Length, Percentage, Position, Lookup, GenericName,
		FamilyName, Number, LineWidth, AbsoluteSize, RelativeSize, Shadow, Size:
		return true
	}
	return false
}

// Check runs the predicate for t. Any accepts everything; Lookup accepts
// nothing since it only matches theme keys.
func Check(t Type, value string) bool {
	switch t {
	case Any:
		return true
	case Color:
		return IsColor(value)
	case URL:
		return IsURL(value)
	case Image:
		return IsImage(value)
	case Length:
		return IsLength(value)
	case Percentage:
		return IsPercentage(value)
	case Position:
		return IsPosition(value)
	case GenericName:
		return IsGenericName(value)
	case FamilyName:
		return IsFamilyName(value)
	case Number:
		return IsNumber(value)
	case LineWidth:
		return IsLineWidth(value)
	case AbsoluteSize:
		return IsAbsoluteSize(value)
	case RelativeSize:
		return IsRelativeSize(value)
	case Shadow:
		return IsShadow(value)
	case Size:
		return IsBackgroundSize(value)
	}
	return false
}

var (
	cssFunction = regexp.MustCompile(`^(min|max|clamp|calc)\(.*\)$`)
	lengthRe    = regexp.MustCompile(`^[+-]?[0-9]*\.?[0-9]+(?:[eE][+-]?[0-9]+)?(?:cm|mm|Q|in|pc|pt|px|em|ex|ch|rem|lh|rlh|vw|vh|vmin|vmax|vb|vi|svw|svh|lvw|lvh|dvw|dvh|cqw|cqh|cqi|cqb|cqmin|cqmax)$`)
	quotedName  = regexp.MustCompile(`^(['"])[^"']+['"]$`)
	numberRe    = regexp.MustCompile(`^[+-]?(?:[0-9]+\.?[0-9]*|\.[0-9]+)(?:[eE][+-]?[0-9]+)?$`)
)

var (
	lineWidths    = set("thin", "medium", "thick")
	genericNames  = set("serif", "sans-serif", "monospace", "cursive", "fantasy", "system-ui", "ui-serif", "ui-sans-serif", "ui-monospace", "ui-rounded", "math", "emoji", "fangsong")
	absoluteSizes = set("xx-small", "x-small", "small", "medium", "large", "x-large", "xx-large", "xxx-large")
	relativeSizes = set("larger", "smaller")
	positions     = set("center", "top", "right", "bottom", "left")
	bgSizes       = set("cover", "contain")
	gradients     = []string{"conic-gradient(", "linear-gradient(", "radial-gradient(", "repeating-conic-gradient(", "repeating-linear-gradient(", "repeating-radial-gradient("}
	imageFuncs    = []string{"element(", "image(", "cross-fade(", "image-set("}
)

func set(items ...string) map[string]bool {
	m := make(map[string]bool, len(items))
	for _, it := range items {
		m[it] = true
	}
	return m
}

// IsCSSFunction reports calc()/min()/max()/clamp() expressions.
func IsCSSFunction(v string) bool { return cssFunction.MatchString(v) }

// IsURL reports url(...) values.
func IsURL(v string) bool { return strings.HasPrefix(v, "url(") }

// IsNumber reports plain numbers and math functions.
func IsNumber(v string) bool {
	v = strings.TrimSpace(v)
	return numberRe.MatchString(v) || IsCSSFunction(v)
}

// IsPercentage reports "<number>%" and math functions.
func IsPercentage(v string) bool {
	if strings.HasSuffix(v, "%") && IsNumber(v[:len(v)-1]) {
		return true
	}
	return IsCSSFunction(v)
}

// IsLength reports a space separated list of lengths. Each part must be
// 0, a number with a length unit or a math function.
func IsLength(v string) bool {
	parts := words(v)
	if len(parts) == 0 {
		return false
	}
	for _, p := range parts {
		if p != "0" && !lengthRe.MatchString(p) && !IsCSSFunction(p) {
			return false
		}
	}
	return true
}

// IsLineWidth reports thin/medium/thick.
func IsLineWidth(v string) bool { return lineWidths[v] }

// IsGenericName reports generic font families.
func IsGenericName(v string) bool { return genericNames[v] }

// IsAbsoluteSize reports absolute font-size keywords.
func IsAbsoluteSize(v string) bool { return absoluteSizes[v] }

// IsRelativeSize reports larger/smaller.
func IsRelativeSize(v string) bool { return relativeSizes[v] }

// IsGradient reports the gradient image functions.
func IsGradient(v string) bool {
	v = Normalize(v, "")
	for _, g := range gradients {
		if strings.HasPrefix(v, g) {
			return true
		}
	}
	return false
}

// IsColor reports values made of colors; var() parts are accepted but at
// least one real color must be present.
func IsColor(v string) bool {
	colors := 0
	for _, part := range words(v) {
		if strings.HasPrefix(part, "var(") {
			continue
		}
		if _, ok := color.Parse(part, true); !ok {
			return false
		}
		colors++
	}
	return colors > 0
}

// IsImage reports comma separated image lists (urls, gradients and the
// image functions).
func IsImage(v string) bool {
	images := 0
	for _, part := range SplitTopLevel(v, ",") {
		part = Normalize(part, "")
		switch {
		case strings.HasPrefix(part, "var("):
			continue
		case IsURL(part) || IsGradient(part) || hasAnyPrefix(part, imageFuncs):
			images++
		default:
			return false
		}
	}
	return images > 0
}

// IsPosition reports background-position like values.
func IsPosition(v string) bool {
	count := 0
	for _, part := range words(v) {
		switch {
		case strings.HasPrefix(part, "var("):
			continue
		case positions[part] || IsLength(part) || IsPercentage(part):
			count++
		default:
			return false
		}
	}
	return count > 0
}

// IsFamilyName reports font family lists. Names with spaces must be
// quoted and names may not start with a digit.
func IsFamilyName(v string) bool {
	fonts := 0
	for _, part := range SplitTopLevel(v, ",") {
		part = Normalize(part, "")
		if part == "" {
			return false
		}
		if strings.HasPrefix(part, "var(") {
			continue
		}
		if strings.Contains(part, " ") && !quotedName.MatchString(part) {
			return false
		}
		if part[0] >= '0' && part[0] <= '9' {
			return false
		}
		fonts++
	}
	return fonts > 0
}

// IsBackgroundSize reports cover/contain or one or two auto/length/
// percentage parts per comma separated layer.
func IsBackgroundSize(v string) bool {
	sizes := 0
	for _, layer := range SplitTopLevel(v, ",") {
		layer = Normalize(layer, "")
		if strings.HasPrefix(layer, "var(") {
			continue
		}
		if bgSizes[layer] {
			sizes++
			continue
		}
		parts := words(layer)
		if len(parts) == 0 || len(parts) > 2 {
			return false
		}
		for _, p := range parts {
			if p != "auto" && !IsLength(p) && !IsPercentage(p) {
				return false
			}
		}
		sizes++
	}
	return sizes > 0
}

// IsShadow reports shadow lists where every shadow has at least an x and
// y offset.
func IsShadow(v string) bool {
	shadows := ParseShadow(Normalize(v, ""))
	if len(shadows) == 0 {
		return false
	}
	for _, s := range shadows {
		if !s.Valid {
			return false
		}
	}
	return true
}

// words normalizes v and splits it on top level spaces.
func words(v string) []string {
	v = Normalize(v, "")
	var out []string
	for _, p := range SplitTopLevel(v, " ") {
		if p = strings.TrimSpace(p); p != "" {
			out = append(out, p)
		}
	}
	return out
}

func hasAnyPrefix(s string, prefixes []string) bool {
	for _, p := range prefixes {
		if strings.HasPrefix(s, p) {
			return true
		}
	}
	return false
}
