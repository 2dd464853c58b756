package engine

import (
	"strings"

	"github.com/yacobolo/windgen/internal/css"
	"github.com/yacobolo/windgen/internal/offsets"
	"github.com/yacobolo/windgen/internal/selector"
)

// generate matches the candidates not seen before and records their
// fragments. Candidates that match nothing are remembered and never
// matched again by this context. It returns the number of new fragments.
func (c *Context) generate(candidates []string) int {
	strategy := c.importantStrategy()
	added := 0
	for _, cand := range candidates {
		if c.notClass[cand] {
			continue
		}
		if _, done := c.candidateRules[cand]; done {
			continue
		}
		matches := c.resolveMatches(cand)
		if len(matches) == 0 {
			c.notClass[cand] = true
			continue
		}
		c.classCache[cand] = matches

		rules := make([]*match, 0, len(matches))
		for _, m := range matches {
			if m.opts.respectImportant && strategy != nil {
				node := m.node.Clone()
				walkRulesSelf(node, func(r *css.Node) {
					if !inKeyframes(r) {
						strategy(r)
					}
				})
				m = m.clone(node)
			}
			rules = append(rules, m)
			c.fragments = append(c.fragments, m)
		}
		c.candidateRules[cand] = rules
		added += len(rules)
	}
	if added > 0 {
		c.stylesheet = nil
	}
	return added
}

// importantStrategy returns how the important option rewrites a rule:
// marking declarations !important or scoping selectors under a selector.
func (c *Context) importantStrategy() func(*css.Node) {
	imp := c.cfg.Important
	switch {
	case imp.Selector != "":
		return func(r *css.Node) {
			parts := selector.Split(r.Selector)
			for i, p := range parts {
				if wrapped, err := selector.WrapImportant(p, imp.Selector); err == nil {
					parts[i] = wrapped
				}
			}
			r.SetSelector(strings.Join(parts, ", "))
		}
	case imp.Enabled:
		return func(r *css.Node) {
			for _, d := range r.Nodes {
				if d.Type == css.DeclNode {
					d.SetImportant(true)
				}
			}
		}
	}
	return nil
}

// invalidate forgets a candidate whose output turned out to be unusable,
// so it is neither emitted again nor retried.
func (c *Context) invalidate(candidate string) {
	kept := c.fragments[:0]
	for _, m := range c.fragments {
		if m.key.Candidate != candidate {
			kept = append(kept, m)
		}
	}
	c.fragments = kept
	delete(c.candidateRules, candidate)
	delete(c.classCache, candidate)
	c.notClass[candidate] = true
	c.stylesheet = nil
}

// layerNodes is the sorted output of every fragment, bucketed by layer.
type layerNodes struct {
	base       []*css.Node
	components []*css.Node
	utilities  []*css.Node
	variants   []variantNode
}

type variantNode struct {
	node   *css.Node
	parent offsets.Layer
}

func (c *Context) buildStylesheet() *layerNodes {
	keys := make([]offsets.Key, len(c.fragments))
	for i, m := range c.fragments {
		keys[i] = m.key
	}
	out := &layerNodes{}
	seen := map[*css.Node]bool{}
	for _, i := range c.tracker.Sort(keys) {
		m := c.fragments[i]
		if seen[m.node] {
			continue
		}
		seen[m.node] = true
		switch m.key.Layer {
		case offsets.Base:
			out.base = append(out.base, m.node)
		case offsets.Components:
			out.components = append(out.components, m.node)
		case offsets.Utilities:
			out.utilities = append(out.utilities, m.node)
		case offsets.Variants:
			out.variants = append(out.variants, variantNode{node: m.node, parent: m.key.ParentLayer})
		}
	}
	return out
}
