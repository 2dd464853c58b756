package engine

import (
	"regexp"

	"github.com/yacobolo/windgen/internal/css"
)

var unitRe = regexp.MustCompile(`^-?\d*.?\d+([\w%]+)?$`)

const unitlessNumber = "\x00number"

// collapseDuplicateDeclarations drops repeated declarations within a rule:
// an exact repeat keeps the last copy, and values of one property sharing
// a unit keep only the last one. Values without a unit (var(), keywords)
// are left alone since they may be fallbacks for each other.
func collapseDuplicateDeclarations(root *css.Node) {
	root.WalkRules(func(rule *css.Node) {
		seen := map[string]*css.Node{}
		droppable := map[*css.Node]bool{}
		var props []string
		byProperty := map[string][]*css.Node{}

		for _, d := range rule.Nodes {
			if d.Type != css.DeclNode {
				continue
			}
			prev, ok := seen[d.Prop]
			if ok {
				if prev.Value == d.Value {
					droppable[prev] = true
					seen[d.Prop] = d
					continue
				}
				if _, listed := byProperty[d.Prop]; !listed {
					props = append(props, d.Prop)
				}
				byProperty[d.Prop] = appendUnique(byProperty[d.Prop], prev, d)
			}
			seen[d.Prop] = d
		}
		for _, d := range append([]*css.Node(nil), rule.Nodes...) {
			if droppable[d] {
				d.Remove()
			}
		}

		for _, prop := range props {
			var units []string
			byUnit := map[string][]*css.Node{}
			for _, d := range byProperty[prop] {
				if d.Parent() == nil {
					continue
				}
				unit, ok := resolveUnit(d.Value)
				if !ok {
					continue
				}
				if _, listed := byUnit[unit]; !listed {
					units = append(units, unit)
				}
				byUnit[unit] = append(byUnit[unit], d)
			}
			for _, u := range units {
				decls := byUnit[u]
				for _, d := range decls[:len(decls)-1] {
					d.Remove()
				}
			}
		}
	})
}

func appendUnique(list []*css.Node, nodes ...*css.Node) []*css.Node {
	for _, n := range nodes {
		found := false
		for _, e := range list {
			if e == n {
				found = true
				break
			}
		}
		if !found {
			list = append(list, n)
		}
	}
	return list
}

func resolveUnit(value string) (string, bool) {
	m := unitRe.FindStringSubmatch(value)
	if m == nil {
		return "", false
	}
	if m[1] == "" {
		return unitlessNumber, true
	}
	return m[1], true
}
