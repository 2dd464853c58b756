// Package prefixer adds vendor prefixed fallbacks to generated CSS for a
// list of browser targets. Declarations go through esbuild's CSS
// transform; pseudo-element selectors, which esbuild leaves alone, are
// duplicated into their prefixed forms here.
package prefixer

import (
	"fmt"
	"regexp"
	"strings"

	"github.com/evanw/esbuild/pkg/api"
	"github.com/yacobolo/windgen/internal/css"
)

// DefaultTargets are the browsers prefixed for when none are configured.
var DefaultTargets = []string{"chrome120", "edge120", "firefox115", "safari16", "ios16"}

var engines = map[string]api.EngineName{
	"chrome":  api.EngineChrome,
	"edge":    api.EngineEdge,
	"firefox": api.EngineFirefox,
	"ie":      api.EngineIE,
	"ios":     api.EngineIOS,
	"opera":   api.EngineOpera,
	"safari":  api.EngineSafari,
}

var targetPattern = regexp.MustCompile(`^([a-z]+)(\d+(?:\.\d+){0,2})$`)

// ParseTargets turns targets like "chrome120" or "safari16.4" into esbuild
// engines.
func ParseTargets(targets []string) ([]api.Engine, error) {
	var out []api.Engine
	for _, t := range targets {
		t = strings.ToLower(strings.TrimSpace(t))
		if t == "" {
			continue
		}
		m := targetPattern.FindStringSubmatch(t)
		if m == nil {
			return nil, fmt.Errorf("invalid target %q: expected a browser name followed by a version", t)
		}
		name, ok := engines[m[1]]
		if !ok {
			return nil, fmt.Errorf("invalid target %q: unknown browser %q", t, m[1])
		}
		out = append(out, api.Engine{Name: name, Version: m[2]})
	}
	return out, nil
}

// pseudo-elements that need a prefixed copy of the whole rule, since a
// selector list with an unknown pseudo-element is dropped entirely.
var selectorPrefixes = map[string][]string{
	"::placeholder":          {"::-moz-placeholder"},
	"::file-selector-button": {"::-webkit-file-upload-button"},
}

// Stats counts what a pass added.
type Stats struct {
	Declarations int
	Rules        int
}

// Prefixer prefixes stylesheets for a fixed set of targets.
type Prefixer struct {
	targets []api.Engine
}

// New returns a prefixer for targets, or for DefaultTargets when targets
// is empty.
func New(targets []string) (*Prefixer, error) {
	if len(targets) == 0 {
		targets = DefaultTargets
	}
	engs, err := ParseTargets(targets)
	if err != nil {
		return nil, err
	}
	if len(engs) == 0 {
		return nil, fmt.Errorf("no targets")
	}
	return &Prefixer{targets: engs}, nil
}

// Process rewrites root in place.
func (p *Prefixer) Process(root *css.Node) (Stats, error) {
	var stats Stats
	root.WalkRules(func(rule *css.Node) {
		if prefixRule(rule) {
			stats.Rules++
		}
	})

	before := countDecls(root)
	res := api.Transform(css.Stringify(root, false), api.TransformOptions{
		Loader:   api.LoaderCSS,
		Engines:  p.targets,
		LogLevel: api.LogLevelSilent,
	})
	if len(res.Errors) > 0 {
		return stats, fmt.Errorf("prefixing: %s", res.Errors[0].Text)
	}
	out, err := css.Parse(string(res.Code), "")
	if err != nil {
		return stats, fmt.Errorf("prefixing: %w", err)
	}
	root.RemoveAll()
	root.Append(out.RemoveAll()...)
	stats.Declarations = countDecls(root) - before
	return stats, nil
}

func countDecls(root *css.Node) int {
	n := 0
	root.Walk(func(node *css.Node) bool {
		if node.Type == css.DeclNode {
			n++
		}
		return true
	})
	return n
}

// prefixRule inserts a copy of rule before it for each prefixed form of a
// pseudo-element it uses, unless that copy already exists.
func prefixRule(rule *css.Node) bool {
	added := false
	for pseudo, prefixed := range selectorPrefixes {
		if !strings.Contains(rule.Selector, pseudo) {
			continue
		}
		for _, alt := range prefixed {
			sel := strings.ReplaceAll(rule.Selector, pseudo, alt)
			if hasSiblingRule(rule, sel) {
				continue
			}
			clone := rule.Clone()
			clone.SetSelector(sel)
			rule.Before(clone)
			added = true
		}
	}
	return added
}

func hasSiblingRule(rule *css.Node, sel string) bool {
	parent := rule.Parent()
	if parent == nil {
		return false
	}
	for _, n := range parent.Nodes {
		if n.Type == css.RuleNode && n.Selector == sel {
			return true
		}
	}
	return false
}
