package engine

import (
	"strings"

	"github.com/yacobolo/windgen/internal/css"
	"github.com/yacobolo/windgen/internal/datatype"
	"github.com/yacobolo/windgen/internal/offsets"
	"github.com/yacobolo/windgen/internal/selector"
)

// maxApplyPasses bounds the re-expansion of @apply chains.
const maxApplyPasses = 100

// applyRule is a rule an @apply candidate can expand to.
type applyRule struct {
	key       offsets.Key
	important bool
	node      *css.Node
}

type appliedNode struct {
	key  offsets.Key
	node *css.Node
}

// expandApply replaces every @apply with the rules of the classes it names,
// rewritten to target the enclosing rule. Expanded rules may contain @apply
// themselves, so expansion repeats until none is left.
func (c *Context) expandApply(root *css.Node) error {
	local := c.localApplyCache(root)
	for pass := 0; ; pass++ {
		var applies []*css.Node
		root.WalkAtRules("apply", func(at *css.Node) {
			applies = append(applies, at)
		})
		if len(applies) == 0 {
			return nil
		}
		if pass == maxApplyPasses {
			return directiveError(applies[0], "@apply", ErrCircularApply,
				"@apply did not settle after %d passes; check for rules applying each other", maxApplyPasses)
		}
		if err := c.processApply(applies, local); err != nil {
			return err
		}
	}
}

// localApplyCache indexes the rules written in the stylesheet itself, so
// plain CSS classes can be applied too. Generated rules are skipped; the
// context knows them already.
func (c *Context) localApplyCache(root *css.Node) map[string][]applyRule {
	out := map[string][]applyRule{}
	root.WalkRules(func(r *css.Node) {
		if generated(r) || inKeyframes(r) {
			return
		}
		classes, err := selector.Classes(r.Selector, false)
		if err != nil || len(classes) == 0 {
			return
		}
		entry := applyRule{key: c.tracker.Create(offsets.User), node: wrapInAncestors(r.Clone(), r)}
		seen := map[string]bool{}
		for _, cls := range classes {
			if !seen[cls] {
				seen[cls] = true
				out[cls] = append(out[cls], entry)
			}
		}
	})
	return out
}

func generated(n *css.Node) bool {
	return n.Closest(func(p *css.Node) bool { return p.GetData("layer") != "" }) != nil
}

// applyRules returns the generated rules of candidate, matching it when
// it was not seen before.
func (c *Context) applyRules(candidate string) []applyRule {
	matches, ok := c.classCache[candidate]
	if !ok {
		if c.notClass[candidate] {
			return nil
		}
		matches = c.resolveMatches(candidate)
		if len(matches) == 0 {
			c.notClass[candidate] = true
			return nil
		}
		c.classCache[candidate] = matches
	}
	out := make([]applyRule, len(matches))
	for i, m := range matches {
		out[i] = applyRule{key: m.key, important: m.important, node: m.node}
	}
	return out
}

// splitApplyParams separates the candidates of an @apply from a trailing
// !important.
func splitApplyParams(params string) ([]string, bool) {
	fields := strings.Fields(params)
	if n := len(fields); n > 0 && (fields[n-1] == "!important" || fields[n-1] == "#{!important}") {
		return fields[:n-1], true
	}
	return fields, false
}

func (c *Context) processApply(applies []*css.Node, local map[string][]applyRule) error {
	var parents []*css.Node
	perParent := map[*css.Node][]*css.Node{}
	for _, at := range applies {
		p := at.Parent()
		switch {
		case p == nil || p.Type == css.RootNode:
			return directiveError(at, "@apply", nil, "@apply must be used inside a rule.")
		case p.Type == css.AtRuleNode && p.Name == "screen":
			cands, _ := splitApplyParams(at.Params)
			for i, cand := range cands {
				cands[i] = p.Params + c.cfg.Separator + cand
			}
			return directiveError(at, "@apply", nil,
				"@apply is not supported within nested at-rules like @screen. We suggest you write this as @apply %s instead.", strings.Join(cands, " "))
		case p.Type == css.AtRuleNode:
			return directiveError(at, "@apply", nil,
				"@apply is not supported within nested at-rules like @%s. You can fix this by un-nesting @%s.", p.Name, p.Name)
		}
		if _, seen := perParent[p]; !seen {
			parents = append(parents, p)
		}
		perParent[p] = append(perParent[p], at)
	}

	for _, parent := range parents {
		expanded := map[*css.Node][]*css.Node{}
		for _, at := range perParent[parent] {
			nodes, err := c.expandOne(parent, at, local)
			if err != nil {
				return err
			}
			expanded[at] = nodes
		}
		c.spliceApplied(parent, expanded)
	}
	return nil
}

// expandOne returns the sorted rules one @apply expands to.
func (c *Context) expandOne(parent, at *css.Node, local map[string][]applyRule) ([]*css.Node, error) {
	cands, important := splitApplyParams(at.Params)
	parentClasses, _ := selector.Classes(parent.Selector, false)

	var siblings []appliedNode
	for _, cand := range cands {
		if cand == c.cfg.Prefix+"group" || cand == c.cfg.Prefix+"peer" {
			return nil, directiveError(at, "@apply", nil, "@apply should not be used with the '%s' utility", cand)
		}
		rules := append(append([]applyRule(nil), local[cand]...), c.applyRules(cand)...)
		if len(rules) == 0 {
			return nil, directiveError(at, "@apply", nil,
				"The `%s` class does not exist. If `%s` is a custom class, make sure it is defined within a `@layer` directive.", cand, cand)
		}

		potential := append([]string{cand}, c.baseCandidates([]string{cand})...)
		for _, r := range rules {
			nodeClasses := relatedClasses(r.node, potential)
			nodeClasses = append(nodeClasses, c.baseCandidates(nodeClasses)...)
			if intersects(parentClasses, nodeClasses) {
				return nil, directiveError(at, "@apply", ErrCircularApply,
					"You cannot `@apply` the `%s` utility here because it creates a circular dependency.", cand)
			}

			node, err := c.retarget(parent, r, cand, important)
			if err != nil {
				return nil, directiveError(at, "@apply", err, "cannot apply `%s`: %v", cand, err)
			}
			if node != nil {
				siblings = append(siblings, appliedNode{key: r.key, node: node})
			}
		}
	}

	keys := make([]offsets.Key, len(siblings))
	for i, s := range siblings {
		keys[i] = s.key
	}
	out := make([]*css.Node, 0, len(siblings))
	for _, i := range c.tracker.Sort(keys) {
		out = append(out, siblings[i].node)
	}
	return out, nil
}

// retarget clones an applied rule and points its selectors at parent. It
// returns nil when nothing of the rule targets the candidate.
func (c *Context) retarget(parent *css.Node, r applyRule, cand string, important bool) (*css.Node, error) {
	node := r.node.Clone()
	delete(node.Data, "candidate")
	holder := css.NewRoot(node)
	if node.Type == css.AtRuleNode && (node.Name == "keyframes" || node.Name == "-webkit-keyframes") {
		return node, nil
	}

	impSel := c.cfg.Important.Selector
	parentSel := parent.Selector
	stripped := false
	if impSel != "" && generated(parent) && strings.HasPrefix(parentSel, impSel) {
		if rest := strings.TrimSpace(strings.TrimPrefix(parentSel, impSel)); rest != "" {
			parentSel = unwrapIs(rest)
			stripped = true
		}
	}

	var err error
	walkRulesSelf(holder, func(rule *css.Node) {
		if err != nil || inKeyframes(rule) {
			return
		}
		classes, cerr := selector.Classes(rule.Selector, false)
		if cerr != nil || !contains(classes, cand) {
			rule.Remove()
			return
		}
		sel, rerr := selector.ReplaceClass(parentSel, rule.Selector, cand)
		if rerr != nil {
			err = rerr
			return
		}
		if sel == "" {
			rule.Remove()
			return
		}
		if stripped {
			parts := selector.Split(sel)
			for i, p := range parts {
				if w, werr := selector.WrapImportant(p, impSel); werr == nil {
					parts[i] = w
				}
			}
			sel = strings.Join(parts, ", ")
		}
		rule.SetSelector(sel)
		rule.WalkDecls("", func(d *css.Node) {
			d.SetImportant(r.important || important)
		})
	})
	if err != nil {
		return nil, err
	}
	pruneEmpty(holder)
	if len(holder.Nodes) == 0 {
		return nil, nil
	}
	out := holder.Nodes[0]
	out.Remove()
	return out, nil
}

// unwrapIs turns ":is(.a)" back into ".a".
func unwrapIs(sel string) string {
	if strings.HasPrefix(sel, ":is(") && strings.HasSuffix(sel, ")") && datatype.Balanced(sel[4:len(sel)-1]) {
		return sel[4 : len(sel)-1]
	}
	return sel
}

// spliceApplied replaces parent by a sequence of rules: its own children
// split at every @apply, with the expanded rules in between. Adjacent rules
// with the same selector are merged, which keeps declarations in source
// order when an applied utility targets parent directly.
func (c *Context) spliceApplied(parent *css.Node, expanded map[*css.Node][]*css.Node) {
	shell := func() *css.Node {
		s := parent.Clone()
		s.RemoveAll()
		return s
	}

	var seq []*css.Node
	seg := shell()
	for _, child := range append([]*css.Node(nil), parent.Nodes...) {
		nodes, isApply := expanded[child]
		if !isApply {
			seg.Append(child)
			continue
		}
		child.Remove()
		if len(seg.Nodes) > 0 {
			seq = append(seq, seg)
			seg = shell()
		}
		seq = append(seq, nodes...)
	}
	if len(seg.Nodes) > 0 {
		seq = append(seq, seg)
	}

	var merged []*css.Node
	for _, n := range seq {
		if last := len(merged) - 1; last >= 0 && n.Type == css.RuleNode && merged[last].Type == css.RuleNode &&
			sameSelector(merged[last].Selector, n.Selector) {
			merged[last].Append(n.RemoveAll()...)
			continue
		}
		merged = append(merged, n)
	}
	parent.ReplaceWith(merged...)
}

func sameSelector(a, b string) bool {
	return strings.Join(selector.Split(a), ",") == strings.Join(selector.Split(b), ",")
}

// relatedClasses returns the classes of every selector of n that mentions
// one of the candidates.
func relatedClasses(n *css.Node, candidates []string) []string {
	var out []string
	walkRulesSelf(n, func(r *css.Node) {
		if inKeyframes(r) {
			return
		}
		groups, err := selector.ClassGroups(r.Selector)
		if err != nil {
			return
		}
		for _, g := range groups {
			for _, cls := range g {
				if contains(candidates, cls) {
					out = append(out, g...)
					break
				}
			}
		}
	})
	return out
}

// baseCandidates strips the variants from each candidate.
func (c *Context) baseCandidates(candidates []string) []string {
	out := make([]string, 0, len(candidates))
	for _, cand := range candidates {
		parts := datatype.SplitTopLevel(cand, c.cfg.Separator)
		out = append(out, parts[len(parts)-1])
	}
	return out
}

func intersects(a, b []string) bool {
	for _, x := range a {
		if contains(b, x) {
			return true
		}
	}
	return false
}

func contains(list []string, s string) bool {
	for _, e := range list {
		if e == s {
			return true
		}
	}
	return false
}
