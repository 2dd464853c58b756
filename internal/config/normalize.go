package config

import (
	"fmt"
	"regexp"
	"sort"
	"strings"

	"github.com/yacobolo/windgen/internal/theme"
)

// FromMap builds a Config from decoded configuration data. Loosely shaped
// values are accepted where unambiguous; anything else is reported as a
// warning and replaced by its default.
func FromMap(raw map[string]any) (*Config, []*ValidationError) {
	c := Default()
	var warnings []*ValidationError
	add := func(w *ValidationError) {
		if w != nil {
			warnings = append(warnings, w)
		}
	}

	keys := make([]string, 0, len(raw))
	for k := range raw {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	for _, key := range keys {
		v := normalizeKeys(raw[key])
		switch key {
		case "content":
			add(c.setContent(v))
		case "theme":
			add(c.setTheme(v))
		case "darkMode":
			add(c.setDarkMode(v))
		case "prefix":
			s, ok := v.(string)
			if !ok {
				add(warn("prefix", "prefix must be a string, got %T; ignoring it", v))
				continue
			}
			c.Prefix = s
		case "important":
			switch x := v.(type) {
			case bool:
				c.Important = Important{Enabled: x}
			case string:
				c.Important = Important{Enabled: x != "", Selector: x}
			default:
				add(warn("important", "important must be a boolean or a selector, got %T", v))
			}
		case "separator":
			s, ok := v.(string)
			if !ok {
				add(warn("separator", "separator must be a string, got %T", v))
				continue
			}
			c.Separator = s
		case "safelist":
			for _, w := range c.setSafelist(v) {
				add(w)
			}
		case "blocklist":
			list, ok := stringList(v)
			if !ok {
				add(warn("blocklist", "blocklist must be a list of class names"))
				continue
			}
			c.Blocklist = list
		case "corePlugins":
			add(c.setCorePlugins(v))
		case "future":
			add(c.setFuture(v))
		case "plugins":
			add(warn("plugins", "plugins cannot be loaded from a config file; register them in code"))
		default:
			add(warn(key, "unknown option"))
		}
	}

	if len(c.Content) == 0 && len(c.RawContent) == 0 {
		add(warn("content", "the content option is missing or empty; configure content sources or the generated CSS will be missing styles"))
	}
	for _, w := range Validate(c) {
		add(w)
	}
	return c, warnings
}

// normalizeKeys converts map[any]any produced by some YAML decoders into
// map[string]any, recursively.
func normalizeKeys(v any) any {
	switch x := v.(type) {
	case map[any]any:
		out := make(map[string]any, len(x))
		for k, e := range x {
			out[fmt.Sprint(k)] = normalizeKeys(e)
		}
		return out
	case map[string]any:
		out := make(map[string]any, len(x))
		for k, e := range x {
			out[k] = normalizeKeys(e)
		}
		return out
	case []any:
		out := make([]any, len(x))
		for i, e := range x {
			out[i] = normalizeKeys(e)
		}
		return out
	}
	return v
}

func stringList(v any) ([]string, bool) {
	switch x := v.(type) {
	case string:
		return []string{x}, true
	case []string:
		return x, true
	case []any:
		out := make([]string, 0, len(x))
		for _, e := range x {
			s, ok := e.(string)
			if !ok {
				return nil, false
			}
			out = append(out, s)
		}
		return out, true
	}
	return nil, false
}

func (c *Config) setContent(v any) *ValidationError {
	if m, ok := v.(map[string]any); ok {
		files, found := m["files"]
		if !found {
			return warn("content", "content object must have a files list")
		}
		v = files
	}
	var items []any
	switch x := v.(type) {
	case string:
		items = []any{x}
	case []any:
		items = x
	default:
		return warn("content", "content must be a list of globs, got %T", v)
	}

	var bad int
	for _, item := range items {
		switch x := item.(type) {
		case string:
			c.Content = append(c.Content, x)
		case map[string]any:
			r, ok := x["raw"].(string)
			if !ok {
				bad++
				continue
			}
			ext, _ := x["extension"].(string)
			if ext == "" {
				ext = "html"
			}
			c.RawContent = append(c.RawContent, RawContent{Raw: r, Extension: ext})
		default:
			bad++
		}
	}
	if bad > 0 {
		return warn("content", "%d content entries are neither globs nor {raw} objects and were ignored", bad)
	}
	return nil
}

func (c *Config) setTheme(v any) *ValidationError {
	m, ok := v.(map[string]any)
	if !ok {
		return warn("theme", "theme must be an object, got %T", v)
	}
	rest := make(map[string]any, len(m))
	for k, e := range m {
		if k != "extend" {
			rest[k] = e
		}
	}
	override, err := theme.FromAny(rest)
	if err != nil {
		return &ValidationError{Field: "theme", Message: err.Error(), Err: err}
	}
	c.Theme = override.(*theme.Scale)

	if ext, found := m["extend"]; found {
		em, isMap := ext.(map[string]any)
		if !isMap {
			return warn("theme.extend", "theme.extend must be an object, got %T", ext)
		}
		extend, err := theme.FromAny(em)
		if err != nil {
			return &ValidationError{Field: "theme.extend", Message: err.Error(), Err: err}
		}
		c.Extend = extend.(*theme.Scale)
	}
	return nil
}

func (c *Config) setDarkMode(v any) *ValidationError {
	var mode string
	var rest []any
	switch x := v.(type) {
	case bool:
		if !x {
			c.DarkMode = DarkMode{Strategy: DarkMedia}
			return warn("darkMode", "false is not a valid dark mode, using media; remove darkMode to silence this warning")
		}
		return warn("darkMode", "true is not a valid dark mode")
	case string:
		mode = x
	case []any:
		if len(x) == 0 {
			return warn("darkMode", "darkMode list is empty")
		}
		s, ok := x[0].(string)
		if !ok {
			return warn("darkMode", "darkMode strategy must be a string")
		}
		mode, rest = s, x[1:]
	default:
		return warn("darkMode", "darkMode must be a string or a list, got %T", v)
	}

	dm := DarkMode{Strategy: mode, Selector: ".dark"}
	switch mode {
	case DarkMedia:
		dm.Selector = ""
	case DarkClass, DarkSelector:
		if len(rest) > 0 {
			s, ok := rest[0].(string)
			if !ok {
				return warn("darkMode", "the dark mode selector must be a string")
			}
			dm.Selector = s
		}
	case DarkVariant:
		dm.Selector = ""
		if len(rest) > 0 {
			formats, ok := stringList(rest[0])
			if !ok {
				return warn("darkMode", "dark mode variant formats must be strings")
			}
			dm.Formats = formats
		}
		for _, f := range dm.Formats {
			if f == ".dark" {
				c.DarkMode = DarkMode{Strategy: DarkMedia}
				return warn("darkMode", "the variant strategy needs a custom selector such as '&:is(.dark *)'")
			}
			if !strings.Contains(f, "&") {
				c.DarkMode = DarkMode{Strategy: DarkMedia}
				return warn("darkMode", "dark mode variant %q must contain &", f)
			}
		}
		if len(dm.Formats) == 0 {
			c.DarkMode = DarkMode{Strategy: DarkMedia}
			return warn("darkMode", "the variant strategy needs at least one format")
		}
	}
	c.DarkMode = dm
	return nil
}

func (c *Config) setSafelist(v any) []*ValidationError {
	items, ok := v.([]any)
	if !ok {
		if s, isString := v.(string); isString {
			items = []any{s}
		} else {
			return []*ValidationError{warn("safelist", "safelist must be a list, got %T", v)}
		}
	}
	var warnings []*ValidationError
	for i, item := range items {
		field := fmt.Sprintf("safelist[%d]", i)
		switch x := item.(type) {
		case string:
			if x == "" {
				continue
			}
			c.Safelist = append(c.Safelist, SafelistEntry{Literal: x})
		case map[string]any:
			p, isString := x["pattern"].(string)
			if !isString || p == "" {
				warnings = append(warnings, warn(field, "safelist objects need a pattern string"))
				continue
			}
			re, err := compilePattern(p)
			if err != nil {
				warnings = append(warnings, &ValidationError{Field: field, Message: err.Error(), Err: err})
				continue
			}
			entry := SafelistEntry{Pattern: re}
			if vs, found := x["variants"]; found {
				variants, isList := stringList(vs)
				if !isList {
					warnings = append(warnings, warn(field, "safelist variants must be a list of strings"))
				}
				entry.Variants = variants
			}
			c.Safelist = append(c.Safelist, entry)
		default:
			warnings = append(warnings, warn(field, "safelist entries must be strings or {pattern, variants} objects"))
		}
	}
	return warnings
}

// compilePattern accepts a bare regular expression or one written as
// /expr/.
func compilePattern(p string) (*regexp.Regexp, error) {
	if len(p) > 1 && strings.HasPrefix(p, "/") && strings.HasSuffix(p, "/") {
		p = p[1 : len(p)-1]
	}
	re, err := regexp.Compile(p)
	if err != nil {
		return nil, fmt.Errorf("invalid safelist pattern %q: %w", p, err)
	}
	return re, nil
}

// ParsePattern exposes the safelist pattern syntax to @safelist at-rules.
func ParsePattern(p string) (*regexp.Regexp, error) {
	return compilePattern(p)
}

func (c *Config) setCorePlugins(v any) *ValidationError {
	switch x := v.(type) {
	case map[string]any:
		c.CorePlugins.Disabled = map[string]bool{}
		for name, e := range x {
			on, ok := e.(bool)
			if !ok {
				return warn("corePlugins."+name, "must be true or false")
			}
			if !on {
				c.CorePlugins.Disabled[name] = true
			}
		}
	case []any:
		only, ok := stringList(x)
		if !ok {
			return warn("corePlugins", "corePlugins list must hold plugin names")
		}
		c.CorePlugins.Only = only
	default:
		return warn("corePlugins", "corePlugins must be an object or a list, got %T", v)
	}
	return nil
}

func (c *Config) setFuture(v any) *ValidationError {
	switch x := v.(type) {
	case string:
		if x == "all" {
			c.Future.HoverOnlyWhenSupported = true
			return nil
		}
	case map[string]any:
		for name, e := range x {
			on, _ := e.(bool)
			switch name {
			case "hoverOnlyWhenSupported":
				c.Future.HoverOnlyWhenSupported = on
			default:
				return warn("future."+name, "unknown future flag")
			}
		}
		return nil
	}
	return warn("future", "future must be \"all\" or an object of flags")
}
