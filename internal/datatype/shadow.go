package datatype

import (
	"regexp"
	"strings"
)

var (
	shadowKeywords = set("inset", "inherit", "initial", "revert", "unset")
	shadowLength   = regexp.MustCompile(`^-?([0-9]+|\.[0-9]+)(.*?)$`)
)

// ShadowPart is one parsed layer of a box-shadow list.
type ShadowPart struct {
	Raw     string
	Keyword string
	X       string
	Y       string
	Blur    string
	Spread  string
	Color   string
	Unknown []string
	Valid   bool
}

// ParseShadow splits a box-shadow value into its layers. A layer is valid
// when it has at least the x and y offsets.
func ParseShadow(input string) []ShadowPart {
	var out []ShadowPart
	for _, layer := range SplitTopLevel(input, ",") {
		raw := strings.TrimSpace(layer)
		sp := ShadowPart{Raw: raw}
		seen := map[string]bool{}
		for _, part := range SplitTopLevel(raw, " ") {
			if part == "" {
				continue
			}
			switch {
			case !seen["keyword"] && shadowKeywords[part]:
				sp.Keyword = part
				seen["keyword"] = true
			case shadowLength.MatchString(part):
				switch {
				case !seen["x"]:
					sp.X, seen["x"] = part, true
				case !seen["y"]:
					sp.Y, seen["y"] = part, true
				case !seen["blur"]:
					sp.Blur, seen["blur"] = part, true
				case !seen["spread"]:
					sp.Spread, seen["spread"] = part, true
				}
			case sp.Color == "":
				sp.Color = part
			default:
				sp.Unknown = append(sp.Unknown, part)
			}
		}
		sp.Valid = sp.X != "" && sp.Y != ""
		out = append(out, sp)
	}
	return out
}

// FormatShadow prints parsed layers back; invalid layers keep their raw
// text.
func FormatShadow(parts []ShadowPart) string {
	layers := make([]string, 0, len(parts))
	for _, p := range parts {
		if !p.Valid {
			layers = append(layers, p.Raw)
			continue
		}
		var fields []string
		for _, f := range []string{p.Keyword, p.X, p.Y, p.Blur, p.Spread, p.Color} {
			if f != "" {
				fields = append(fields, f)
			}
		}
		layers = append(layers, strings.Join(fields, " "))
	}
	return strings.Join(layers, ", ")
}
