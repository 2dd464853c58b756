package engine

import (
	"fmt"
	"regexp"
	"strings"

	"github.com/yacobolo/windgen/internal/config"
	"github.com/yacobolo/windgen/internal/css"
	"github.com/yacobolo/windgen/internal/datatype"
	"github.com/yacobolo/windgen/internal/extract"
)

// resolveSafelist expands the configured safelist into candidates. Literal
// entries are read like content; patterns are matched against every class
// the plugins registered, and each match is also generated with the
// entry's variants.
func (c *Context) resolveSafelist(entries []config.SafelistEntry) []string {
	var out []string
	var patterns []config.SafelistEntry
	for _, e := range entries {
		if e.Pattern == nil {
			out = append(out, extract.Extract(e.Literal)...)
			continue
		}
		patterns = append(patterns, e)
	}
	if len(patterns) == 0 {
		return out
	}

	important := false
	for _, p := range patterns {
		if strings.Contains(p.Pattern.String(), "!") {
			important = true
		}
	}
	counts := make([]int, len(patterns))
	for _, cls := range c.patternClasses(important) {
		for i, p := range patterns {
			if !p.Pattern.MatchString(cls) {
				continue
			}
			counts[i]++
			out = append(out, cls)
			for _, v := range p.Variants {
				out = append(out, v+c.cfg.Separator+cls)
			}
		}
	}
	for i, n := range counts {
		if n == 0 {
			c.warnUnmatchedPattern(patterns[i].String(), "safelist")
		}
	}
	return out
}

func (c *Context) warnUnmatchedPattern(pattern, option string) {
	c.warn(fmt.Sprintf("The %s pattern `%s` doesn't match any classes.\nFix this pattern or remove it from your `%s` configuration.", option, pattern, option))
}

// patternClasses lists the classes safelist patterns are matched against:
// every static class and every configured value of parameterised
// utilities, with negative, opacity and, when asked, important forms.
func (c *Context) patternClasses(important bool) []string {
	prefixLen := len(c.cfg.Prefix)
	opacities := c.theme.Scale("opacity").Keys()
	var out []string
	for _, e := range c.classList {
		if e.opts == nil {
			out = append(out, e.name)
			continue
		}
		var classes []string
		for _, k := range e.opts.values.Keys() {
			classes = append(classes, formatClass(e.name, k))
		}
		if e.opts.supportsNegative {
			n := len(classes)
			for _, cls := range classes[:n] {
				classes = append(classes, "-"+cls)
			}
			n = len(classes)
			for _, cls := range classes[:n] {
				if len(cls) >= prefixLen {
					classes = append(classes, cls[:prefixLen]+"-"+cls[prefixLen:])
				}
			}
		}
		if e.opts.hasType(datatype.Color) {
			n := len(classes)
			for _, cls := range classes[:n] {
				for _, o := range opacities {
					classes = append(classes, cls+"/"+o)
				}
			}
		}
		if important && e.opts.respectImportant {
			n := len(classes)
			for _, cls := range classes[:n] {
				classes = append(classes, "!"+cls)
			}
		}
		out = append(out, classes...)
	}
	return out
}

// sourceLists holds the @safelist and @blocklist entries of a stylesheet.
type sourceLists struct {
	safelist      []string
	blocklist     []string
	blockPatterns []*regexp.Regexp
}

func (l *sourceLists) blocks(candidate string) bool {
	for _, re := range l.blockPatterns {
		if re.MatchString(candidate) {
			return true
		}
	}
	return false
}

// sourceLists removes the @safelist and @blocklist at-rules from root and
// resolves their entries. Entries are literals or /regex/ patterns.
func (c *Context) sourceLists(root *css.Node) (*sourceLists, error) {
	out := &sourceLists{}
	var err error
	root.Walk(func(n *css.Node) bool {
		if err != nil || n.Type != css.AtRuleNode || (n.Name != "safelist" && n.Name != "blocklist") {
			return true
		}
		for _, tok := range strings.Fields(n.Params) {
			tok = strings.Trim(tok, `'",`)
			if tok == "" {
				continue
			}
			isPattern := len(tok) > 1 && strings.HasPrefix(tok, "/") && strings.HasSuffix(tok, "/")
			switch {
			case !isPattern && n.Name == "safelist":
				out.safelist = append(out.safelist, tok)
			case !isPattern:
				out.blocklist = append(out.blocklist, tok)
			case n.Name == "safelist":
				out.safelist = append(out.safelist, c.directivePatternMatches(tok)...)
			default:
				re, perr := config.ParsePattern(tok)
				if perr != nil {
					err = directiveError(n, "@blocklist", perr, "%v", perr)
					return false
				}
				out.blockPatterns = append(out.blockPatterns, re)
			}
		}
		n.Remove()
		return false
	})
	if err != nil {
		return nil, err
	}
	return out, nil
}

// directivePatternMatches matches a @safelist pattern against the class
// list once per context.
func (c *Context) directivePatternMatches(pattern string) []string {
	if cached, ok := c.directivePattern[pattern]; ok {
		return cached
	}
	re, err := config.ParsePattern(pattern)
	if err != nil {
		c.warn(fmt.Sprintf("Ignoring @safelist pattern `%s`: %v", pattern, err))
		c.directivePattern[pattern] = nil
		return nil
	}
	matches := []string{}
	for _, cls := range c.patternClasses(strings.Contains(re.String(), "!")) {
		if re.MatchString(cls) {
			matches = append(matches, cls)
		}
	}
	if len(matches) == 0 {
		c.warnUnmatchedPattern(pattern, "@safelist")
	}
	c.directivePattern[pattern] = matches
	return matches
}
