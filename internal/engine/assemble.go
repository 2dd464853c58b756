package engine

import (
	"sort"

	"github.com/yacobolo/windgen/internal/css"
	"github.com/yacobolo/windgen/internal/offsets"
)

// BuildResult describes one build.
type BuildResult struct {
	// Candidates is the number of distinct candidates known to the
	// context, Rules the number of fragments emitted.
	Candidates int
	Rules      int
	// Generated counts fragments matched for the first time in this build.
	// Zero means the generated layers are identical to the previous build.
	Generated int
	Warnings  []string
}

const noUtilitiesWarning = "No utility classes were detected in your source files. If this is unexpected, double-check the `content` option in your configuration."

// placeholders are the @tailwind directives of a stylesheet.
type placeholders struct {
	base, components, utilities, variants *css.Node
}

// findPlaceholders locates the first @tailwind directive of each kind and
// removes repeated ones. "screens" is an alias of "variants".
func findPlaceholders(root *css.Node) placeholders {
	var p placeholders
	root.WalkAtRules("tailwind", func(at *css.Node) {
		var slot **css.Node
		switch at.Params {
		case "base":
			slot = &p.base
		case "components":
			slot = &p.components
		case "utilities":
			slot = &p.utilities
		case "variants", "screens":
			slot = &p.variants
		default:
			return
		}
		if *slot != nil {
			at.Remove()
			return
		}
		*slot = at
	})
	return p
}

// Build generates the CSS for candidates into root: new candidates are
// matched, all fragments known to the context are sorted and spliced into
// the @tailwind placeholders, then @apply, theme(), screen() and @screen
// are evaluated and duplicate declarations collapsed. root is modified in
// place. Only directive and parser errors are returned; everything else is
// reported as a warning.
func (c *Context) Build(root *css.Node, candidates []string) (*BuildResult, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	ph := findPlaceholders(root)
	lists, err := c.sourceLists(root)
	if err != nil {
		return nil, err
	}

	blocked := map[string]bool{}
	for _, b := range c.cfg.Blocklist {
		blocked[b] = true
	}
	for _, b := range lists.blocklist {
		blocked[b] = true
	}
	add := func(cands []string) {
		for _, cand := range cands {
			if cand != "" && !blocked[cand] && !lists.blocks(cand) {
				c.candidates[cand] = true
			}
		}
	}
	add(candidates)
	add(c.safelist)
	add(lists.safelist)

	sorted := make([]string, 0, len(c.candidates)+1)
	for cand := range c.candidates {
		sorted = append(sorted, cand)
	}
	sort.Strings(sorted)
	sorted = append(sorted, notOnDemand)

	generated := c.generate(sorted)
	if c.stylesheet == nil {
		c.stylesheet = c.buildStylesheet()
	}
	rules := c.splice(root, ph, c.stylesheet)

	if err := c.expandApply(root); err != nil {
		return nil, err
	}
	if err := c.evaluateFunctions(root); err != nil {
		return nil, err
	}
	if err := substituteScreens(c.theme, root); err != nil {
		return nil, err
	}
	collapseDuplicateDeclarations(root)

	return &BuildResult{
		Candidates: len(c.candidates),
		Rules:      rules,
		Generated:  generated,
		Warnings:   c.drainWarnings(),
	}, nil
}

// splice replaces the placeholders with clones of the generated layers and
// returns the number of nodes emitted.
func (c *Context) splice(root *css.Node, ph placeholders, ln *layerNodes) int {
	count := 0
	emit := func(at *css.Node, layer string, nodes []*css.Node) {
		clones := make([]*css.Node, len(nodes))
		for i, n := range nodes {
			clones[i] = n.Clone()
			clones[i].SetData("layer", layer)
		}
		count += len(clones)
		at.Before(clones...)
		at.Remove()
	}

	if ph.base != nil {
		emit(ph.base, "base", append(append([]*css.Node(nil), ln.base...), c.defaultNodes()...))
	}
	if ph.components != nil {
		emit(ph.components, "components", ln.components)
	}
	if ph.utilities != nil {
		emit(ph.utilities, "utilities", ln.utilities)
	}

	var variants []*css.Node
	hasUtilityVariants := false
	for _, v := range ln.variants {
		switch v.parent {
		case offsets.Components:
			if ph.components == nil {
				continue
			}
		case offsets.Utilities:
			if ph.utilities == nil {
				continue
			}
			hasUtilityVariants = true
		}
		variants = append(variants, v.node)
	}
	if ph.variants != nil {
		emit(ph.variants, "variants", variants)
	} else if len(variants) > 0 {
		for _, n := range variants {
			clone := n.Clone()
			clone.SetData("layer", "variants")
			root.Append(clone)
		}
		count += len(variants)
	}

	if ph.utilities != nil && len(ln.utilities) == 0 && !hasUtilityVariants {
		c.warn(noUtilitiesWarning)
	}
	return count
}

// defaultNodes renders the registered custom property defaults for every
// element and for ::backdrop.
func (c *Context) defaultNodes() []*css.Node {
	if len(c.defaults) == 0 {
		return nil
	}
	var decls Style
	for _, g := range c.defaults {
		decls = append(decls, g.decls...)
	}
	return []*css.Node{
		css.NewRule("*, ::before, ::after", blockNodes(decls)...),
		css.NewRule("::backdrop", blockNodes(decls)...),
	}
}
