package engine

import (
	"fmt"
	"net/url"
	"regexp"
	"strings"

	"github.com/yacobolo/windgen/internal/css"
	"github.com/yacobolo/windgen/internal/datatype"
	"github.com/yacobolo/windgen/internal/offsets"
	"github.com/yacobolo/windgen/internal/selector"
)

// pluginMatch is a set of registrations sharing an identifier, with the
// modifier the candidate leaves for them.
type pluginMatch struct {
	entries  []*ruleEntry
	modifier string
}

// splitCandidate splits a candidate into its variants, in application
// order (innermost first), and its class part.
func (c *Context) splitCandidate(candidate string) (string, []string) {
	if candidate == notOnDemand {
		return candidate, nil
	}
	parts := datatype.SplitTopLevel(candidate, c.cfg.Separator)
	class := parts[len(parts)-1]
	variants := make([]string, 0, len(parts)-1)
	for i := len(parts) - 2; i >= 0; i-- {
		variants = append(variants, parts[i])
	}
	return class, variants
}

// resolveMatches turns a candidate into rule fragments. It returns nothing
// when the candidate is not a class this context knows.
func (c *Context) resolveMatches(candidate string) []*match {
	// "!" marks the candidate important, either in front of the class
	// (md:!p-4) or of the whole candidate (!md:p-4).
	important := strings.HasPrefix(candidate, "!")
	class, variants := c.splitCandidate(strings.TrimPrefix(candidate, "!"))
	if strings.HasPrefix(class, "!") {
		important = true
		class = class[1:]
	}

	var out []*match
	for _, pm := range c.matchedPlugins(class) {
		matches, ok := c.runPlugins(candidate, pm)
		if !ok {
			continue
		}
		matches = c.applyPrefix(matches, class)
		if important {
			matches = applyImportant(matches, class)
		}
		for _, v := range variants {
			matches = c.applyVariant(v, matches)
		}
		for _, m := range matches {
			m.node.SetData("candidate", candidate)
			if final := c.applyFinalFormat(m, candidate); final != nil {
				out = append(out, final)
			}
		}
	}
	for i, m := range out {
		m.key.Candidate = candidate
		m.key.Fragment = i
	}
	return out
}

// matchedPlugins lists the registrations a class could belong to: the
// exact identifier, an arbitrary property, the negated identifier, then
// every identifier/modifier split from the right.
func (c *Context) matchedPlugins(class string) []pluginMatch {
	var out []pluginMatch
	if es, ok := c.rules[class]; ok {
		out = append(out, pluginMatch{entries: es, modifier: "DEFAULT"})
	}
	if e := c.arbitraryProperty(class); e != nil {
		out = append(out, pluginMatch{entries: []*ruleEntry{e}, modifier: "DEFAULT"})
	}

	prefix := c.cfg.Prefix
	candidate := class
	negative := false
	hasPrefix := strings.HasPrefix(class, prefix) || strings.HasPrefix(class, "-"+prefix)
	if len(class) > len(prefix) && class[len(prefix)] == '-' && hasPrefix {
		negative = true
		candidate = prefix + class[len(prefix)+1:]
	}
	if negative {
		if es, ok := c.rules[candidate]; ok {
			out = append(out, pluginMatch{entries: es, modifier: "-DEFAULT"})
		}
	}
	for _, p := range permutations(candidate) {
		es, ok := c.rules[p[0]]
		if !ok {
			continue
		}
		mod := p[1]
		if negative {
			mod = "-" + mod
		}
		out = append(out, pluginMatch{entries: es, modifier: mod})
	}
	return out
}

// permutations splits a class into [identifier, modifier] pairs, trying
// the rightmost split first. A trailing arbitrary value or /modifier is
// split off as a whole.
func permutations(candidate string) [][2]string {
	var out [][2]string
	last := len(candidate)
	first := true
	for last >= 0 {
		idx := -1
		slash := false
		switch {
		case first && strings.HasSuffix(candidate, "]"):
			bracket := strings.Index(candidate, "[")
			if bracket > 0 {
				switch candidate[bracket-1] {
				case '-':
					idx = bracket - 1
				case '/':
					idx = bracket - 1
					slash = true
				}
			}
		case first && strings.Contains(candidate, "/"):
			idx = strings.LastIndex(candidate, "/")
			slash = true
		default:
			end := last + 1
			if end > len(candidate) {
				end = len(candidate)
			}
			idx = strings.LastIndex(candidate[:end], "-")
		}
		first = false
		if idx < 0 {
			break
		}
		prefix := candidate[:idx]
		modifier := candidate[idx+1:]
		if slash {
			modifier = candidate[idx:]
		}
		last = idx - 1
		if prefix == "" || modifier == "/" {
			continue
		}
		out = append(out, [2]string{prefix, modifier})
	}
	return out
}

var (
	arbitraryPropertyRe = regexp.MustCompile(`^\[([a-zA-Z0-9-_]+):(\S+)\]$`)
	propertyNameRe      = regexp.MustCompile(`^[a-z_-]`)
)

// arbitraryProperty recognises [property:value] classes.
func (c *Context) arbitraryProperty(class string) *ruleEntry {
	m := arbitraryPropertyRe.FindStringSubmatch(class)
	if m == nil {
		return nil
	}
	property, value := m[1], m[2]
	if !propertyNameRe.MatchString(property) || !datatype.ValidPropertyValue(value) {
		return nil
	}
	normalized := datatype.Normalize(value, property)
	if !parsableDecl(property, normalized) {
		return nil
	}
	return &ruleEntry{
		key:  c.tracker.ArbitraryProperty(property),
		opts: &ruleOptions{layer: offsets.Utilities, respectImportant: true},
		fn: func(string, bool) []*css.Node {
			return []*css.Node{css.NewRule("."+selector.Escape(class), css.NewDecl(property, normalized))}
		},
	}
}

// parsableDecl reports whether property: value survives the parser. Values
// that look like URLs ([https://example.com]) are rejected.
func parsableDecl(property, value string) bool {
	decl := property + ":" + value
	if strings.Contains(decl, "://") {
		if u, err := url.Parse(decl); err == nil && u.Scheme != "" && u.Host != "" {
			return false
		}
	}
	_, err := css.Parse("a{"+decl+"}", "")
	return err == nil
}

func parsableNode(n *css.Node) bool {
	ok := true
	n.WalkDecls("", func(d *css.Node) {
		if ok && !parsableDecl(d.Prop, d.Value) {
			ok = false
		}
	})
	if n.Type == css.DeclNode {
		return parsableDecl(n.Prop, n.Value)
	}
	return ok
}

type pluginGroup struct {
	matches []*match
	types   []datatype.Type
	opts    *ruleOptions
}

// runPlugins runs every registration of pm. When an arbitrary value is
// claimed by several utilities, the one preferring a matching type wins;
// otherwise the candidate is ambiguous, a warning is recorded and ok is
// false.
func (c *Context) runPlugins(candidate string, pm pluginMatch) ([]*match, bool) {
	only := len(pm.entries) == 1
	var groups []*pluginGroup
	for _, e := range pm.entries {
		var nodes []*css.Node
		switch {
		case e.fn != nil:
			nodes = e.fn(pm.modifier, only)
		case pm.modifier == "DEFAULT" || pm.modifier == "-DEFAULT":
			nodes = []*css.Node{e.node}
		}
		if len(nodes) == 0 {
			continue
		}
		g := &pluginGroup{opts: e.opts}
		for _, n := range nodes {
			g.matches = append(g.matches, &match{key: e.key, opts: e.opts, node: n})
		}
		for _, res := range c.matchingTypes(e.opts, pm.modifier) {
			g.types = append(g.types, res.typ)
		}
		groups = append(groups, g)
	}

	if datatype.IsArbitrary(pm.modifier) {
		if len(groups) > 1 {
			var withAny, withoutAny []*pluginGroup
			for _, g := range groups {
				if g.opts.hasType(datatype.Any) {
					withAny = append(withAny, g)
				} else {
					withoutAny = append(withoutAny, g)
				}
			}
			fallback := findFallback(withoutAny)
			if fallback == nil {
				fallback = findFallback(withAny)
			}
			if fallback == nil {
				c.warnAmbiguous(candidate, groups)
				return nil, false
			}
			groups = []*pluginGroup{fallback}
		}
		for _, g := range groups {
			kept := g.matches[:0]
			for _, m := range g.matches {
				if parsableNode(m.node) {
					kept = append(kept, m)
				}
			}
			g.matches = kept
		}
	}

	var out []*match
	for _, g := range groups {
		out = append(out, g.matches...)
	}
	return out, true
}

func findFallback(groups []*pluginGroup) *pluginGroup {
	if len(groups) == 1 {
		return groups[0]
	}
	for _, g := range groups {
		for _, m := range g.matches {
			if !parsableNode(m.node) {
				continue
			}
			for _, ts := range m.opts.types {
				if ts.PreferOnConflict && containsType(g.types, ts.Type) {
					return g
				}
			}
		}
	}
	return nil
}

func containsType(types []datatype.Type, t datatype.Type) bool {
	for _, e := range types {
		if e == t {
			return true
		}
	}
	return false
}

// warnAmbiguous explains how to disambiguate a candidate, suggesting one
// type hint per utility using a type no other utility matched.
func (c *Context) warnAmbiguous(candidate string, groups []*pluginGroup) {
	typesPer := make([][]datatype.Type, len(groups))
	for i, g := range groups {
		typesPer[i] = append([]datatype.Type(nil), g.types...)
	}
	for i := range typesPer {
		for _, t := range append([]datatype.Type(nil), typesPer[i]...) {
			shared := false
			for j := range typesPer {
				if i == j {
					continue
				}
				if containsType(typesPer[j], t) {
					typesPer[j] = removeType(typesPer[j], t)
					shared = true
				}
			}
			if shared {
				typesPer[i] = removeType(typesPer[i], t)
			}
		}
	}

	lines := []string{fmt.Sprintf("The class `%s` is ambiguous and matches multiple utilities.", candidate)}
	for i, types := range typesPer {
		if len(types) == 0 {
			continue
		}
		var decls []string
		for _, m := range groups[i].matches {
			m.node.WalkDecls("", func(d *css.Node) {
				decls = append(decls, d.Prop+": "+d.Value)
			})
		}
		lines = append(lines, fmt.Sprintf("  Use `%s` for `%s`",
			strings.Replace(candidate, "[", "["+string(types[0])+":", 1), strings.Join(decls, "; ")))
	}
	silenced := strings.Replace(strings.Replace(candidate, "[", "&lsqb;", 1), "]", "&rsqb;", 1)
	lines = append(lines, fmt.Sprintf("If this is content and not a class, replace it with `%s` to silence this warning.", silenced))
	c.warn(strings.Join(lines, "\n"))
}

func removeType(types []datatype.Type, t datatype.Type) []datatype.Type {
	out := types[:0]
	for _, e := range types {
		if e != t {
			out = append(out, e)
		}
	}
	return out
}

// applyPrefix prefixes the classes of matches registered to respect the
// configured prefix.
func (c *Context) applyPrefix(matches []*match, class string) []*match {
	if len(matches) == 0 || c.cfg.Prefix == "" {
		return matches
	}
	negative := strings.HasPrefix(class, "-")
	for i, m := range matches {
		if !m.opts.respectPrefix {
			continue
		}
		node := m.node.Clone()
		walkRulesSelf(node, func(r *css.Node) {
			if sel, err := selector.Prefix(c.cfg.Prefix, r.Selector, negative); err == nil {
				r.SetSelector(sel)
			}
		})
		matches[i] = m.clone(node)
	}
	return matches
}

// applyImportant handles !class candidates: the class is renamed to
// !class, unrelated selectors are dropped and every declaration is marked
// important.
func applyImportant(matches []*match, class string) []*match {
	out := make([]*match, 0, len(matches))
	for _, m := range matches {
		node := m.node.Clone()
		walkRulesSelf(node, func(r *css.Node) {
			if inKeyframes(r) {
				return
			}
			list, err := selector.Parse(r.Selector)
			if err != nil {
				return
			}
			list = selector.EliminateIrrelevant(list, class)
			updated, err := selector.UpdateClasses(list.String(), func(name string) string {
				if name == class {
					return "!" + name
				}
				return name
			})
			if err != nil {
				return
			}
			r.SetSelector(updated)
			r.WalkDecls("", func(d *css.Node) { d.SetImportant(true) })
		})
		nm := m.clone(node)
		nm.important = true
		out = append(out, nm)
	}
	return out
}

var variantValueRe = regexp.MustCompile(`(.)(-?)\[(.*)\]`)

// applyVariant applies one variant to every match. Variants returning
// several formats fork each match, one copy per format.
func (c *Context) applyVariant(variant string, matches []*match) []*match {
	if len(matches) == 0 {
		return nil
	}

	var modifier string
	if parts := datatype.SplitTopLevel(variant, "/"); len(parts) > 1 {
		base, mods := parts[0], parts[1:]
		if len(mods) > 1 {
			base = base + "/" + strings.Join(mods[:len(mods)-1], "/")
			mods = mods[len(mods)-1:]
		}
		if _, known := c.variantTuples[variant]; !known {
			variant = base
			modifier = mods[0]
		}
	}

	var value string
	hasValue := false
	if strings.HasSuffix(variant, "]") && !strings.HasPrefix(variant, "[") {
		if m := variantValueRe.FindStringSubmatch(variant); m != nil {
			char, dash, v := m[1], m[2], m[3]
			if char == "@" && dash == "-" {
				return nil
			}
			if char != "@" && dash == "" {
				return nil
			}
			variant = strings.Replace(variant, dash+"["+v+"]", "", 1)
			value, hasValue = v, true
		}
	}

	if datatype.IsArbitrary(variant) {
		if _, known := c.variantTuples[variant]; !known && !c.registerArbitraryVariant(variant) {
			return nil
		}
	}

	tuples, ok := c.variantTuples[variant]
	if !ok {
		return nil
	}
	meta := c.variantDefs[variant].meta
	respectPrefix := !datatype.IsArbitrary(variant) && !meta.noPrefix

	var out []*match
	for _, m := range matches {
		if m.opts.layer == offsets.User {
			continue
		}
		container := css.NewRoot(m.node.Clone())
		queue := append([]variantTuple(nil), tuples...)
		for i := 0; i < len(queue); i++ {
			t := queue[i]
			src := container
			if t.container != nil {
				src = t.container
			}
			clone := src.Clone()
			api := &VariantAPI{
				Separator:     c.cfg.Separator,
				Value:         value,
				Modifier:      modifier,
				hasValue:      hasValue,
				variant:       variant,
				container:     clone,
				respectPrefix: respectPrefix,
			}
			formats, ok := t.fn(api)
			if !ok {
				continue
			}
			if len(formats) > 1 {
				for idx, f := range formats {
					fn, err := c.compileFormat(variant, f)
					if err != nil {
						continue
					}
					queue = append(queue, variantTuple{key: offsets.ApplyParallel(t.key, idx), fn: fn, container: clone.Clone()})
				}
				continue
			}
			if len(formats) == 1 {
				fn, err := c.compileFormat(variant, formats[0])
				if err != nil {
					continue
				}
				fn(api)
			}
			api.collectModified()
			if len(clone.Nodes) == 0 {
				continue
			}

			opt := offsets.SortOption{ID: meta.id, Sort: meta.sort, Value: value, Modifier: modifier}
			if meta.hasValue {
				opt.Value = meta.value
			}
			nm := m.clone(clone.Nodes[0])
			nm.key = offsets.ApplyVariant(m.key, t.key, opt)
			nm.varied = true
			nm.formats = append(nm.formats, api.formats...)
			out = append(out, nm)
		}
	}
	return out
}

func (c *Context) compileFormat(variant, format string) (VariantFunc, error) {
	if !validFormat(format) {
		err := fmt.Errorf("variant %q returned the invalid format %q: use an @media or @supports query or include &", variant, format)
		c.warn(err.Error())
		return nil, err
	}
	return parseVariant(format)
}

// registerArbitraryVariant records a bracketed variant such as
// [&:nth-child(3)] or [@supports(display:grid)] the first time it is seen.
func (c *Context) registerArbitraryVariant(variant string) bool {
	sel := strings.TrimSpace(datatype.Normalize(variant[1:len(variant)-1], ""))
	if len(datatype.SplitTopLevel(sel, ",")) > 1 || !validFormat(sel) {
		return false
	}
	fn, err := parseVariant(sel)
	if err != nil {
		return false
	}
	key := c.tracker.RecordVariant(variant, 1)
	c.variantDefs[variant] = &variantDef{fns: []VariantFunc{fn}}
	c.variantTuples[variant] = []variantTuple{{key: offsets.ApplyParallel(key, 0), fn: fn}}
	return true
}

// applyFinalFormat composes the collected formats into the final selector
// of every rule. Rules the format makes irrelevant are dropped, and so is
// the match when nothing is left.
func (c *Context) applyFinalFormat(m *match, candidate string) *match {
	if !m.varied {
		return m
	}
	format, err := selector.FormatVariant(candidate, m.formats, c.cfg.Prefix)
	if err != nil {
		return nil
	}
	parts := datatype.SplitTopLevel(strings.TrimPrefix(candidate, "!"), c.cfg.Separator)
	base := parts[len(parts)-1]
	if m.important && !strings.HasPrefix(base, "!") {
		base = "!" + base
	}

	container := css.NewRoot(m.node.Clone())
	valid := true
	container.WalkRules(func(r *css.Node) {
		if !valid || inKeyframes(r) {
			return
		}
		sel, ok, err := selector.Finalize(r.Selector, format, base)
		switch {
		case err != nil:
			valid = false
		case !ok:
			r.Remove()
		default:
			r.SetSelector(sel)
		}
	})
	if !valid {
		return nil
	}
	pruneEmpty(container)
	if len(container.Nodes) == 0 {
		return nil
	}
	return m.clone(container.Nodes[0])
}

// pruneEmpty removes at-rule blocks left without children.
func pruneEmpty(n *css.Node) {
	for _, child := range append([]*css.Node(nil), n.Nodes...) {
		if child.Type != css.AtRuleNode || !child.Block {
			continue
		}
		pruneEmpty(child)
		if len(child.Nodes) == 0 {
			child.Remove()
		}
	}
}

// walkRulesSelf visits n itself when it is a rule, then its descendant
// rules.
func walkRulesSelf(n *css.Node, fn func(*css.Node)) {
	if n.Type == css.RuleNode {
		fn(n)
	}
	n.WalkRules(fn)
}
