// Package config holds the engine configuration: its typed schema, file
// loading, normalisation of loosely shaped input and hashing.
package config

import (
	"fmt"
	"reflect"
	"regexp"
	"sort"
	"strconv"

	"github.com/cespare/xxhash/v2"
	"github.com/yacobolo/windgen/internal/theme"
)

// Dark mode strategies.
const (
	DarkMedia    = "media"
	DarkClass    = "class"
	DarkSelector = "selector"
	DarkVariant  = "variant"
)

// DarkMode selects how the dark variant is expressed.
type DarkMode struct {
	Strategy string   `validate:"oneof=media class selector variant"`
	Selector string   `validate:"omitempty"`
	Formats  []string `validate:"omitempty,dive,required"`
}

// Important is either a flag making every utility declaration !important,
// or a selector every utility is scoped under.
type Important struct {
	Enabled  bool
	Selector string
}

// SafelistEntry is a literal class or a pattern, optionally with variants
// that are generated for every class the pattern matches.
type SafelistEntry struct {
	Literal  string
	Pattern  *regexp.Regexp
	Variants []string
}

func (e SafelistEntry) String() string {
	if e.Pattern != nil {
		return "/" + e.Pattern.String() + "/"
	}
	return e.Literal
}

// RawContent is inline content scanned like a file.
type RawContent struct {
	Raw       string
	Extension string
}

// Future holds opt-in behaviour changes.
type Future struct {
	HoverOnlyWhenSupported bool
}

// CorePlugins toggles core plugins. When Only is set, it is an allowlist.
type CorePlugins struct {
	Disabled map[string]bool
	Only     []string
}

// Enabled reports whether the named core plugin is on.
func (c CorePlugins) Enabled(name string) bool {
	if c.Only != nil {
		for _, n := range c.Only {
			if n == name {
				return true
			}
		}
		return false
	}
	return !c.Disabled[name]
}

// Config is the engine configuration.
type Config struct {
	// Path is the file the config was loaded from, if any.
	Path string

	Content    []string
	RawContent []RawContent

	// Theme replaces top level theme keys; Extend is merged on top.
	Theme  *theme.Scale
	Extend *theme.Scale

	DarkMode    DarkMode
	Prefix      string `validate:"omitempty,classprefix"`
	Important   Important
	Separator   string `validate:"required,separator"`
	Safelist    []SafelistEntry
	Blocklist   []string `validate:"dive,required"`
	CorePlugins CorePlugins
	Future      Future
}

// Default returns the configuration used when no file is given.
func Default() *Config {
	return &Config{
		Theme:     theme.NewScale(),
		Extend:    theme.NewScale(),
		DarkMode:  DarkMode{Strategy: DarkMedia},
		Separator: ":",
	}
}

// Clone returns a copy that can be modified without affecting c.
func (c *Config) Clone() *Config {
	out := *c
	out.Content = append([]string(nil), c.Content...)
	out.RawContent = append([]RawContent(nil), c.RawContent...)
	out.Theme = c.Theme.Clone()
	out.Extend = c.Extend.Clone()
	out.DarkMode.Formats = append([]string(nil), c.DarkMode.Formats...)
	out.Safelist = append([]SafelistEntry(nil), c.Safelist...)
	out.Blocklist = append([]string(nil), c.Blocklist...)
	if c.CorePlugins.Disabled != nil {
		out.CorePlugins.Disabled = make(map[string]bool, len(c.CorePlugins.Disabled))
		for k, v := range c.CorePlugins.Disabled {
			out.CorePlugins.Disabled[k] = v
		}
	}
	if c.CorePlugins.Only != nil {
		out.CorePlugins.Only = append([]string{}, c.CorePlugins.Only...)
	}
	return &out
}

// Hash returns a stable digest of everything that affects generated CSS.
// Content globs are excluded: they change what is scanned, not how.
func (c *Config) Hash() uint64 {
	h := xxhash.New()
	w := func(parts ...string) {
		for _, p := range parts {
			_, _ = h.WriteString(p)
			_, _ = h.Write([]byte{0})
		}
	}

	w("theme")
	hashValue(h, c.Theme)
	w("extend")
	hashValue(h, c.Extend)
	w("dark", c.DarkMode.Strategy, c.DarkMode.Selector)
	w(c.DarkMode.Formats...)
	w("prefix", c.Prefix, "separator", c.Separator)
	w("important", strconv.FormatBool(c.Important.Enabled), c.Important.Selector)
	for _, e := range c.Safelist {
		w("safe", e.String())
		w(e.Variants...)
	}
	w("block")
	w(c.Blocklist...)

	disabled := make([]string, 0, len(c.CorePlugins.Disabled))
	for name, off := range c.CorePlugins.Disabled {
		if off {
			disabled = append(disabled, name)
		}
	}
	sort.Strings(disabled)
	w("disabled")
	w(disabled...)
	if c.CorePlugins.Only != nil {
		w("only")
		w(c.CorePlugins.Only...)
	}
	w("future", strconv.FormatBool(c.Future.HoverOnlyWhenSupported))
	return h.Sum64()
}

func hashValue(h *xxhash.Digest, v theme.Value) {
	switch x := v.(type) {
	case nil:
		_, _ = h.WriteString("nil;")
	case theme.Literal:
		_, _ = h.WriteString("l:" + string(x) + ";")
	case theme.List:
		_, _ = h.WriteString("[")
		for _, e := range x {
			hashValue(h, e)
		}
		_, _ = h.WriteString("]")
	case *theme.Scale:
		_, _ = h.WriteString("{")
		for _, k := range x.Keys() {
			_, _ = h.WriteString(k + "=")
			e, _ := x.Get(k)
			hashValue(h, e)
		}
		_, _ = h.WriteString("}")
	case theme.Computed:
		// functions have no content to hash; identity is the best we have
		_, _ = h.WriteString(fmt.Sprintf("fn:%x;", reflect.ValueOf(x).Pointer()))
	}
}
