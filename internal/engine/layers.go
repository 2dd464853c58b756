package engine

import (
	"path/filepath"
	"strings"

	"github.com/cespare/xxhash/v2"
	"github.com/yacobolo/windgen/internal/css"
	"github.com/yacobolo/windgen/internal/offsets"
)

// Layers holds the rules a stylesheet declares in @layer base, components
// and utilities blocks. They are registered like plugin rules: emitted on
// demand when one of their classes is used, and usable with variants and
// @apply.
type Layers struct {
	base       []*css.Node
	components []*css.Node
	utilities  []*css.Node
}

// CollectLayers removes the @layer blocks for the three generated layers
// from root and returns their rules. A block without a matching @tailwind
// directive is an error. Blocks nested in at-rules keep their wrappers.
func CollectLayers(root *css.Node) (*Layers, error) {
	present := map[string]bool{}
	root.WalkAtRules("tailwind", func(at *css.Node) {
		present[at.Params] = true
	})

	l := &Layers{}
	var err error
	root.WalkAtRules("layer", func(at *css.Node) {
		if err != nil {
			return
		}
		var dst *[]*css.Node
		switch at.Params {
		case "base":
			dst = &l.base
		case "components":
			dst = &l.components
		case "utilities":
			dst = &l.utilities
		default:
			return
		}
		if !present[at.Params] {
			err = directiveError(at, "@layer", nil, "`@layer %s` is used but no matching `@tailwind %s` directive is present.", at.Params, at.Params)
			return
		}
		for _, n := range at.Nodes {
			if n.Type == css.CommentNode {
				continue
			}
			*dst = append(*dst, wrapInAncestors(n.Clone(), at))
		}
		at.Remove()
	})
	if err != nil {
		return nil, err
	}
	return l, nil
}

// wrapInAncestors nests n in childless copies of the at-rules enclosing
// from, innermost first.
func wrapInAncestors(n, from *css.Node) *css.Node {
	for p := from.Parent(); p != nil && p.Type == css.AtRuleNode; p = p.Parent() {
		wrapper := blockAtRule(p.Name, p.Params, nil)
		wrapper.Append(n)
		n = wrapper
	}
	return n
}

// Empty reports whether no layer rules were collected.
func (l *Layers) Empty() bool {
	return l == nil || len(l.base)+len(l.components)+len(l.utilities) == 0
}

// Hash fingerprints the collected rules. Contexts are keyed by it, since
// the rules become part of the registry.
func (l *Layers) Hash() uint64 {
	if l == nil {
		return 0
	}
	d := xxhash.New()
	for _, layer := range []struct {
		name  string
		nodes []*css.Node
	}{{"base", l.base}, {"components", l.components}, {"utilities", l.utilities}} {
		_, _ = d.WriteString(layer.name)
		_, _ = d.WriteString("{")
		for _, n := range layer.nodes {
			_, _ = d.WriteString(n.Minified())
		}
		_, _ = d.WriteString("}")
	}
	return d.Sum64()
}

// Register adds the collected rules to the context behind api. Layer rules
// ignore the prefix; utilities honour the important option.
func (l *Layers) Register(api *API) {
	c := api.ctx
	c.addStatic(css.CloneNodes(l.base), &ruleOptions{layer: offsets.Base})
	c.addStatic(css.CloneNodes(l.components), &ruleOptions{layer: offsets.Components})
	c.addStatic(css.CloneNodes(l.utilities), &ruleOptions{layer: offsets.Utilities, respectImportant: true})
}

// ConfigDirective removes the @config at-rule from root and returns the
// path it names, resolved against the directory of file. It returns "" when
// there is none.
func ConfigDirective(root *css.Node, file string) (string, error) {
	var found []*css.Node
	root.WalkAtRules("config", func(at *css.Node) {
		found = append(found, at)
	})
	if len(found) == 0 {
		return "", nil
	}
	if len(found) > 1 {
		return "", directiveError(found[1], "@config", nil, "Only one `@config` directive is allowed per file.")
	}
	at := found[0]
	path := strings.Trim(strings.TrimSpace(at.Params), `'"`)
	if path == "" {
		return "", directiveError(at, "@config", nil, "`@config` needs a path, such as `@config \"./windgen.config.yaml\";`")
	}
	at.Remove()
	if filepath.IsAbs(path) {
		return path, nil
	}
	base := "."
	if file != "" {
		base = filepath.Dir(file)
	}
	return filepath.Join(base, path), nil
}
