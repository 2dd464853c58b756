package css

import "strings"

type printMode int

const (
	modePretty printMode = iota
	modeMinify
)

// String serializes n in the readable format.
func (n *Node) String() string {
	return render(n, modePretty)
}

// Minified serializes n without optional whitespace and comments.
func (n *Node) Minified() string {
	return render(n, modeMinify)
}

// Stringify serializes a root (or any node) to CSS text.
func Stringify(n *Node, minify bool) string {
	if minify {
		return n.Minified()
	}
	out := n.String()
	if out != "" && !strings.HasSuffix(out, "\n") {
		out += "\n"
	}
	return out
}

func render(n *Node, mode printMode) string {
	if !n.dirty && n.cache[mode] != "" {
		return n.cache[mode]
	}

	var out string
	switch n.Type {
	case RootNode:
		out = renderChildren(n, mode, "\n\n")
	case RuleNode:
		out = renderBlock(strings.TrimSpace(n.Selector), n, mode)
	case AtRuleNode:
		head := "@" + n.Name
		if n.Params != "" {
			head += " " + strings.TrimSpace(n.Params)
		}
		if !n.Block {
			out = head + ";"
		} else {
			out = renderBlock(head, n, mode)
		}
	case DeclNode:
		out = renderDecl(n, mode)
	case CommentNode:
		if mode == modeMinify {
			out = ""
		} else {
			out = "/*" + n.Text + "*/"
		}
	}

	n.cache[mode] = out
	n.dirty = false
	return out
}

func renderDecl(n *Node, mode printMode) string {
	var b strings.Builder
	b.WriteString(n.Prop)
	b.WriteByte(':')
	if mode == modePretty {
		b.WriteByte(' ')
	}
	b.WriteString(n.Value)
	if n.Important {
		if mode == modePretty {
			b.WriteByte(' ')
		}
		b.WriteString("!important")
	}
	return b.String()
}

func renderChildren(n *Node, mode printMode, sep string) string {
	parts := make([]string, 0, len(n.Nodes))
	for _, c := range n.Nodes {
		s := render(c, mode)
		if s == "" {
			continue
		}
		parts = append(parts, s)
	}
	if mode == modeMinify {
		return strings.Join(parts, "")
	}
	return strings.Join(parts, sep)
}

func renderBlock(head string, n *Node, mode printMode) string {
	if mode == modeMinify {
		var b strings.Builder
		b.WriteString(head)
		b.WriteByte('{')
		for i, c := range n.Nodes {
			s := render(c, mode)
			if s == "" {
				continue
			}
			b.WriteString(s)
			if c.Type == DeclNode && i < len(n.Nodes)-1 {
				b.WriteByte(';')
			}
		}
		b.WriteByte('}')
		return b.String()
	}

	if len(n.Nodes) == 0 {
		return head + " {}"
	}

	var b strings.Builder
	b.WriteString(head)
	b.WriteString(" {\n")
	for _, c := range n.Nodes {
		s := render(c, mode)
		if s == "" {
			continue
		}
		if c.Type == DeclNode {
			s += ";"
		}
		b.WriteString("  ")
		b.WriteString(strings.ReplaceAll(s, "\n", "\n  "))
		b.WriteByte('\n')
	}
	b.WriteByte('}')
	return b.String()
}
