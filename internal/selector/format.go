package selector

// Format is a variant selector template such as "&:hover" or
// ":merge(.group):hover &".
type Format struct {
	Format        string
	RespectPrefix bool
}

// pseudo-elements that may be followed by user-action pseudo-classes
var pseudoElementExceptions = map[string]bool{
	"::-webkit-scrollbar":             true,
	"::-webkit-scrollbar-button":      true,
	"::-webkit-scrollbar-thumb":       true,
	"::-webkit-scrollbar-track":       true,
	"::-webkit-scrollbar-track-piece": true,
	"::-webkit-scrollbar-corner":      true,
	"::-webkit-resizer":               true,
	"::scrollbar":                     true,
	"::scrollbar-button":              true,
	"::scrollbar-thumb":               true,
	"::scrollbar-track":               true,
	"::scrollbar-track-piece":         true,
	"::scrollbar-corner":              true,
	"::resizer":                       true,
}

// FormatVariant composes variant formats, innermost first, starting from
// the escaped candidate class. Every "&" in a format is replaced by the
// selector built so far; :merge() groups with the same argument collapse
// into one compound.
func FormatVariant(candidate string, formats []Format, prefix string) (List, error) {
	current := List{&Selector{Nodes: []*Node{{Kind: Class, Value: candidate}}}}
	for _, f := range formats {
		ast, err := Parse(f.Format)
		if err != nil {
			return nil, err
		}
		if f.RespectPrefix && prefix != "" {
			PrefixList(prefix, ast, false)
		}
		handleMerge(current, ast)
		replaceNesting(ast, current[0].Nodes)
		current = ast
	}
	return current, nil
}

func isMerge(n *Node) bool {
	return n.Kind == Pseudo && n.Func && n.Value == ":merge"
}

type mergePoint struct {
	sel   *Selector
	node  *Node
	value string
}

func handleMerge(current, format List) {
	var merges []mergePoint
	for _, s := range current {
		for _, n := range s.Nodes {
			if isMerge(n) {
				merges = append(merges, mergePoint{sel: s, node: n, value: n.Args.String()})
			}
		}
	}
	if len(merges) == 0 {
		return
	}

	for _, fs := range format {
		for i := 0; i < len(fs.Nodes); i++ {
			n := fs.Nodes[i]
			if !isMerge(n) {
				continue
			}
			value := n.Args.String()
			var existing *mergePoint
			for k := range merges {
				if merges[k].value == value {
					existing = &merges[k]
					break
				}
			}
			if existing == nil {
				continue
			}

			j := i + 1
			for j < len(fs.Nodes) && fs.Nodes[j].Kind != Combinator {
				j++
			}
			attachments := make([]*Node, 0, j-i-1)
			for _, a := range fs.Nodes[i+1 : j] {
				attachments = append(attachments, a.Clone())
			}
			existing.sel.insertAfter(existing.node, attachments)

			end := j
			if j < len(fs.Nodes) {
				end = j + 1
			}
			fs.Nodes = append(fs.Nodes[:i:i], fs.Nodes[end:]...)
			i--
		}
	}
}

func (s *Selector) insertAfter(ref *Node, nodes []*Node) {
	for i, n := range s.Nodes {
		if n != ref {
			continue
		}
		merged := make([]*Node, 0, len(s.Nodes)+len(nodes))
		merged = append(merged, s.Nodes[:i+1]...)
		merged = append(merged, nodes...)
		merged = append(merged, s.Nodes[i+1:]...)
		s.Nodes = merged
		return
	}
}

func replaceNesting(l List, with []*Node) {
	for _, s := range l {
		out := make([]*Node, 0, len(s.Nodes))
		for _, n := range s.Nodes {
			if n.Kind == Nesting {
				for _, w := range with {
					out = append(out, w.Clone())
				}
				continue
			}
			if n.Args != nil {
				replaceNesting(n.Args, with)
			}
			out = append(out, n)
		}
		s.Nodes = out
	}
}

// Finalize rewrites a generated rule selector: selectors that do not
// reference base are dropped, the base class is replaced by the composed
// variant format, :merge() placeholders are unwrapped and pseudo-elements
// move to the end. ok is false when no selector is left.
func Finalize(selector string, format List, base string) (string, bool, error) {
	list, err := Parse(selector)
	if err != nil {
		return "", false, err
	}
	list = EliminateIrrelevant(list, base)
	if len(list) == 0 {
		return "", false, nil
	}
	if format == nil {
		return list.String(), true, nil
	}

	formatNodes := format[0].Nodes
	for _, s := range list {
		replaceBase(s, base, formatNodes)
	}
	unwrapMerge(list)
	for _, s := range list {
		hoistPseudoElements(s)
	}
	return list.String(), true, nil
}

// EliminateIrrelevant drops every selector of l that does not contain the
// class base anywhere (pseudo arguments included).
func EliminateIrrelevant(l List, base string) List {
	out := l[:0]
	for _, s := range l {
		found := false
		s.Walk(func(n *Node) bool {
			if n.Kind == Class && n.Value == base {
				found = true
				return false
			}
			return true
		})
		if found {
			out = append(out, s)
		}
	}
	return out
}

func replaceBase(s *Selector, base string, formatNodes []*Node) {
	for _, n := range s.Nodes {
		if n.Args != nil {
			for _, inner := range n.Args {
				replaceBase(inner, base, formatNodes)
			}
		}
	}

	for i := 0; i < len(s.Nodes); i++ {
		n := s.Nodes[i]
		if n.Kind != Class || n.Value != base {
			continue
		}
		if len(s.Nodes) == 1 {
			s.Nodes = cloneNodes(formatNodes)
			return
		}

		start := i
		for start > 0 && s.Nodes[start-1].Kind != Combinator {
			start--
		}
		end := i + 1
		for end < len(s.Nodes) && s.Nodes[end].Kind != Combinator {
			end++
		}

		var compound []*Node
		compound = append(compound, cloneNodes(formatNodes)...)
		for k := start; k < end; k++ {
			if k != i {
				compound = append(compound, s.Nodes[k])
			}
		}

		// only the leading compound of the inserted nodes is re-sorted
		head := 0
		for head < len(compound) && compound[head].Kind != Combinator {
			head++
		}
		sortCompound(compound[:head])

		merged := make([]*Node, 0, len(s.Nodes)+len(formatNodes))
		merged = append(merged, s.Nodes[:start]...)
		merged = append(merged, compound...)
		merged = append(merged, s.Nodes[end:]...)
		s.Nodes = merged
		i = start + len(compound) - 1
	}
}

func cloneNodes(nodes []*Node) []*Node {
	out := make([]*Node, len(nodes))
	for i, n := range nodes {
		out[i] = n.Clone()
	}
	return out
}

func compoundRank(n *Node) int {
	switch {
	case n.Kind == Tag || n.Kind == Universal:
		return 0
	case n.IsPseudoElement():
		return 2
	}
	return 1
}

// sortCompound is a stable insertion sort: type selectors first,
// pseudo-elements last.
func sortCompound(nodes []*Node) {
	for i := 1; i < len(nodes); i++ {
		for j := i; j > 0 && compoundRank(nodes[j]) < compoundRank(nodes[j-1]); j-- {
			nodes[j], nodes[j-1] = nodes[j-1], nodes[j]
		}
	}
}

func unwrapMerge(l List) {
	for _, s := range l {
		out := make([]*Node, 0, len(s.Nodes))
		for _, n := range s.Nodes {
			if isMerge(n) {
				if len(n.Args) > 0 {
					out = append(out, n.Args[0].Nodes...)
				}
				continue
			}
			if n.Args != nil {
				unwrapMerge(n.Args)
			}
			out = append(out, n)
		}
		s.Nodes = out
	}
}

// hoistPseudoElements moves pseudo-elements (and user-action pseudos
// attached to scrollbar-like elements) to the end of the selector.
func hoistPseudoElements(s *Selector) {
	var kept, moved []*Node
	attached := false
	for _, n := range s.Nodes {
		switch {
		case n.IsPseudoElement():
			moved = append(moved, n)
			attached = pseudoElementExceptions[n.Value]
		case attached && n.Kind == Pseudo:
			moved = append(moved, n)
		default:
			attached = false
			kept = append(kept, n)
		}
	}
	if len(moved) == 0 {
		return
	}
	s.Nodes = append(kept, moved...)
}

// WrapImportant scopes selector under the important selector, wrapping
// each complex selector in :is() and keeping pseudo-elements outside.
func WrapImportant(selector, important string) (string, error) {
	list, err := Parse(selector)
	if err != nil {
		return "", err
	}
	for _, s := range list {
		wrapped := len(s.Nodes) > 0 && s.Nodes[0].Kind == Pseudo && s.Nodes[0].Value == ":is"
		for _, n := range s.Nodes {
			if n.Kind == Combinator {
				wrapped = false
			}
		}
		if !wrapped {
			inner := s.Clone()
			s.Nodes = []*Node{{Kind: Pseudo, Value: ":is", Func: true, Args: List{inner}}}
		}

		var pseudos []*Node
		for _, inner := range s.Nodes[0].Args {
			kept := inner.Nodes[:0]
			for _, n := range inner.Nodes {
				if n.IsPseudoElement() {
					pseudos = append(pseudos, n)
					continue
				}
				kept = append(kept, n)
			}
			inner.Nodes = kept
		}
		s.Nodes = append(s.Nodes, pseudos...)
	}
	return important + " " + list.String(), nil
}

// PrefixList prepends prefix to every class in l. With prependNegative a
// leading dash stays in front of the prefix (-tw-m-4).
func PrefixList(prefix string, l List, prependNegative bool) {
	if prefix == "" {
		return
	}
	l.Walk(func(n *Node) bool {
		if n.Kind != Class {
			return true
		}
		if prependNegative && len(n.Value) > 0 && n.Value[0] == '-' {
			n.Value = "-" + prefix + n.Value[1:]
		} else {
			n.Value = prefix + n.Value
		}
		return true
	})
}

// Prefix is PrefixList over a selector string.
func Prefix(prefix, selector string, prependNegative bool) (string, error) {
	if prefix == "" {
		return selector, nil
	}
	list, err := Parse(selector)
	if err != nil {
		return "", err
	}
	PrefixList(prefix, list, prependNegative)
	return list.String(), nil
}

// UpdateClasses renames every class in selector through fn.
func UpdateClasses(selector string, fn func(string) string) (string, error) {
	list, err := Parse(selector)
	if err != nil {
		return "", err
	}
	list.Walk(func(n *Node) bool {
		if n.Kind == Class {
			n.Value = fn(n.Value)
		}
		return true
	})
	return list.String(), nil
}

// Classes returns the class names used by the selector. Classes inside
// :not() are skipped when ignoreNot is set.
func Classes(selector string, ignoreNot bool) ([]string, error) {
	list, err := Parse(selector)
	if err != nil {
		return nil, err
	}
	var out []string
	var visit func(List)
	visit = func(l List) {
		for _, s := range l {
			for _, n := range s.Nodes {
				if n.Kind == Class {
					out = append(out, n.Value)
				}
				if n.Args != nil && !(ignoreNot && n.Value == ":not") {
					visit(n.Args)
				}
			}
		}
	}
	visit(list)
	return out, nil
}

// Split returns the selectors of a list as separate strings.
func Split(selector string) []string {
	list, err := Parse(selector)
	if err != nil {
		return []string{selector}
	}
	out := make([]string, len(list))
	for i, s := range list {
		out[i] = s.String()
	}
	return out
}
