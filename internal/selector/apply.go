package selector

// ReplaceClass rewrites the selectors of an applied utility so they target
// the rule the utility is applied to. For every selector of parent, each
// utility selector containing class has its first occurrence of class
// replaced by the parent selector; utility selectors without class are
// dropped. Type selectors are moved to the front of the compound they land
// in and pseudo-elements to the end.
//
//	ReplaceClass(".btn", `.hover\:p-4:hover`, "hover:p-4") == ".btn:hover"
func ReplaceClass(parent, utility, class string) (string, error) {
	parents, err := Parse(parent)
	if err != nil {
		return "", err
	}
	utilities, err := Parse(utility)
	if err != nil {
		return "", err
	}

	var out List
	for _, p := range parents {
		for _, u := range utilities {
			sel := u.Clone()
			if !replaceFirstClass(sel, class, p.Nodes) {
				continue
			}
			sortCompounds(sel)
			hoistPseudoElements(sel)
			out = append(out, sel)
		}
	}
	return out.String(), nil
}

func replaceFirstClass(s *Selector, class string, with []*Node) bool {
	for i, n := range s.Nodes {
		if n.Kind == Class && n.Value == class {
			merged := make([]*Node, 0, len(s.Nodes)+len(with))
			merged = append(merged, s.Nodes[:i]...)
			merged = append(merged, cloneNodes(with)...)
			merged = append(merged, s.Nodes[i+1:]...)
			s.Nodes = merged
			return true
		}
		for _, inner := range n.Args {
			if replaceFirstClass(inner, class, with) {
				return true
			}
		}
	}
	return false
}

func sortCompounds(s *Selector) {
	start := 0
	for i := 0; i <= len(s.Nodes); i++ {
		if i == len(s.Nodes) || s.Nodes[i].Kind == Combinator {
			sortCompound(s.Nodes[start:i])
			start = i + 1
		}
	}
}

// ClassGroups returns the classes of every complex selector in selector,
// one group per selector.
func ClassGroups(selector string) ([][]string, error) {
	list, err := Parse(selector)
	if err != nil {
		return nil, err
	}
	groups := make([][]string, 0, len(list))
	for _, s := range list {
		var classes []string
		s.Walk(func(n *Node) bool {
			if n.Kind == Class {
				classes = append(classes, n.Value)
			}
			return true
		})
		groups = append(groups, classes)
	}
	return groups, nil
}

// FirstClass returns the first class of selector, or "".
func FirstClass(selector string) string {
	list, err := Parse(selector)
	if err != nil {
		return ""
	}
	var first string
	list.Walk(func(n *Node) bool {
		if n.Kind == Class {
			first = n.Value
			return false
		}
		return true
	})
	return first
}
