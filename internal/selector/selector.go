// Package selector parses selector lists into a small AST and implements
// the rewrites the generator needs: nesting substitution, :merge()
// grouping, pseudo-element hoisting and class renaming.
package selector

import (
	"fmt"
	"strings"
)

// Kind is the type of a selector AST node.
type Kind uint8

// Node kinds
const (
	Class Kind = iota
	ID
	Tag
	Universal
	Attribute
	Pseudo
	Nesting
	Combinator
)

// Node is a single simple selector or combinator.
//
// Class.Value holds the unescaped class name. Pseudo.Value holds the name
// including its colons (":hover", "::before"). Pseudo functions whose
// argument is a selector list keep it parsed in Args; any other argument
// is kept verbatim in Arg.
type Node struct {
	Kind  Kind
	Value string
	Args  List
	Arg   string
	Func  bool
}

// Selector is a complex selector: compounds separated by combinators.
type Selector struct {
	Nodes []*Node
}

// List is a comma separated selector list.
type List []*Selector

// pseudo functions taking a selector list
var selectorPseudos = map[string]bool{
	":is": true, ":where": true, ":not": true, ":has": true, ":merge": true,
	":matches": true, ":-webkit-any": true, ":-moz-any": true,
	":host": true, ":host-context": true, "::slotted": true,
}

// Parse reads a selector list.
func Parse(s string) (List, error) {
	p := &selParser{src: s}
	list, err := p.list(0)
	if err != nil {
		return nil, err
	}
	if p.i < len(p.src) {
		return nil, fmt.Errorf("selector %q: unexpected %q at offset %d", s, p.src[p.i], p.i)
	}
	return list, nil
}

// MustParse is Parse for selectors known to be valid.
func MustParse(s string) List {
	l, err := Parse(s)
	if err != nil {
		panic(err)
	}
	return l
}

type selParser struct {
	src string
	i   int
}

func (p *selParser) list(closing byte) (List, error) {
	var out List
	cur := &Selector{}
	for {
		p.skipComments()
		if p.i >= len(p.src) {
			break
		}
		c := p.src[p.i]
		if closing != 0 && c == closing {
			break
		}
		switch c {
		case ',':
			p.i++
			cur.trimCombinators()
			out = append(out, cur)
			cur = &Selector{}
			p.skipSpace()
			continue
		case ' ', '\t', '\n', '\r', '\f':
			p.skipSpace()
			if p.i >= len(p.src) || p.src[p.i] == ',' || (closing != 0 && p.src[p.i] == closing) {
				continue
			}
			if strings.IndexByte(">+~", p.src[p.i]) >= 0 {
				continue
			}
			if len(cur.Nodes) > 0 && cur.Nodes[len(cur.Nodes)-1].Kind != Combinator {
				cur.Nodes = append(cur.Nodes, &Node{Kind: Combinator, Value: " "})
			}
			continue
		case '>', '+', '~':
			p.i++
			if n := len(cur.Nodes); n > 0 && cur.Nodes[n-1].Kind == Combinator {
				cur.Nodes[n-1].Value = string(c)
			} else {
				cur.Nodes = append(cur.Nodes, &Node{Kind: Combinator, Value: string(c)})
			}
			p.skipSpace()
			continue
		}

		n, err := p.simple()
		if err != nil {
			return nil, err
		}
		cur.Nodes = append(cur.Nodes, n)
	}
	cur.trimCombinators()
	out = append(out, cur)
	return out, nil
}

func (p *selParser) simple() (*Node, error) {
	c := p.src[p.i]
	switch c {
	case '.':
		p.i++
		name := p.ident()
		if name == "" {
			return nil, p.errorf("expected class name")
		}
		return &Node{Kind: Class, Value: Unescape(name)}, nil
	case '#':
		p.i++
		name := p.ident()
		if name == "" {
			return nil, p.errorf("expected id")
		}
		return &Node{Kind: ID, Value: name}, nil
	case '&':
		p.i++
		return &Node{Kind: Nesting, Value: "&"}, nil
	case '*':
		p.i++
		return &Node{Kind: Universal, Value: "*"}, nil
	case '[':
		end, err := p.balanced('[', ']')
		if err != nil {
			return nil, err
		}
		raw := p.src[p.i:end]
		p.i = end
		return &Node{Kind: Attribute, Value: raw}, nil
	case ':':
		return p.pseudo()
	}
	name := p.ident()
	if name == "" {
		return nil, p.errorf("unexpected %q", c)
	}
	return &Node{Kind: Tag, Value: name}, nil
}

func (p *selParser) pseudo() (*Node, error) {
	start := p.i
	p.i++
	if p.i < len(p.src) && p.src[p.i] == ':' {
		p.i++
	}
	name := p.ident()
	if name == "" {
		return nil, p.errorf("expected pseudo name")
	}
	n := &Node{Kind: Pseudo, Value: p.src[start:p.i]}
	if p.i >= len(p.src) || p.src[p.i] != '(' {
		return n, nil
	}

	n.Func = true
	end, err := p.balanced('(', ')')
	if err != nil {
		return nil, err
	}
	inner := p.src[p.i+1 : end-1]
	p.i = end
	if selectorPseudos[strings.ToLower(n.Value)] {
		args, err := Parse(inner)
		if err != nil {
			return nil, err
		}
		n.Args = args
	} else {
		n.Arg = inner
	}
	return n, nil
}

// balanced returns the offset just past the bracket closing the one at p.i.
func (p *selParser) balanced(open, close byte) (int, error) {
	depth := 0
	var quote byte
	for j := p.i; j < len(p.src); j++ {
		c := p.src[j]
		switch {
		case c == '\\':
			j++
		case quote != 0:
			if c == quote {
				quote = 0
			}
		case c == '"' || c == '\'':
			quote = c
		case c == open:
			depth++
		case c == close:
			depth--
			if depth == 0 {
				return j + 1, nil
			}
		}
	}
	return 0, p.errorf("unclosed %q", open)
}

func (p *selParser) ident() string {
	start := p.i
	for p.i < len(p.src) {
		c := p.src[p.i]
		switch {
		case c == '\\':
			p.i++
			hex := 0
			for p.i < len(p.src) && hex < 6 && isHex(p.src[p.i]) {
				p.i++
				hex++
			}
			switch {
			case hex > 0:
				if p.i < len(p.src) && p.src[p.i] == ' ' {
					p.i++
				}
			case p.i < len(p.src):
				p.i++
			}
		case c >= 'a' && c <= 'z', c >= 'A' && c <= 'Z', isDigit(c), c == '-', c == '_', c == '%', c >= 0x80:
			p.i++
		default:
			return p.src[start:p.i]
		}
	}
	return p.src[start:p.i]
}

func (p *selParser) skipSpace() {
	for p.i < len(p.src) && strings.IndexByte(" \t\n\r\f", p.src[p.i]) >= 0 {
		p.i++
	}
}

func (p *selParser) skipComments() {
	for strings.HasPrefix(p.src[p.i:], "/*") {
		end := strings.Index(p.src[p.i+2:], "*/")
		if end < 0 {
			p.i = len(p.src)
			return
		}
		p.i += end + 4
	}
}

func (p *selParser) errorf(format string, args ...any) error {
	return fmt.Errorf("selector %q: %s at offset %d", p.src, fmt.Sprintf(format, args...), p.i)
}

func (s *Selector) trimCombinators() {
	for len(s.Nodes) > 0 && s.Nodes[len(s.Nodes)-1].Kind == Combinator {
		s.Nodes = s.Nodes[:len(s.Nodes)-1]
	}
}

// String prints the list with ", " separators.
func (l List) String() string {
	parts := make([]string, 0, len(l))
	for _, s := range l {
		parts = append(parts, s.String())
	}
	return strings.Join(parts, ", ")
}

func (s *Selector) String() string {
	var b strings.Builder
	for _, n := range s.Nodes {
		b.WriteString(n.String())
	}
	return b.String()
}

func (n *Node) String() string {
	switch n.Kind {
	case Class:
		return "." + Escape(n.Value)
	case ID:
		return "#" + n.Value
	case Combinator:
		if n.Value == " " {
			return " "
		}
		return " " + n.Value + " "
	case Pseudo:
		if !n.Func {
			return n.Value
		}
		if n.Args != nil {
			return n.Value + "(" + n.Args.String() + ")"
		}
		return n.Value + "(" + n.Arg + ")"
	}
	return n.Value
}

// Clone deep-copies a node.
func (n *Node) Clone() *Node {
	c := *n
	if n.Args != nil {
		c.Args = n.Args.Clone()
	}
	return &c
}

// Clone deep-copies a selector.
func (s *Selector) Clone() *Selector {
	c := &Selector{Nodes: make([]*Node, len(s.Nodes))}
	for i, n := range s.Nodes {
		c.Nodes[i] = n.Clone()
	}
	return c
}

// Clone deep-copies a list.
func (l List) Clone() List {
	out := make(List, len(l))
	for i, s := range l {
		out[i] = s.Clone()
	}
	return out
}

// Walk visits every node, descending into pseudo arguments. Returning
// false from fn stops the walk.
func (l List) Walk(fn func(*Node) bool) bool {
	for _, s := range l {
		if !s.Walk(fn) {
			return false
		}
	}
	return true
}

// Walk visits every node of s, descending into pseudo arguments.
func (s *Selector) Walk(fn func(*Node) bool) bool {
	for _, n := range s.Nodes {
		if !fn(n) {
			return false
		}
		if n.Args != nil && !n.Args.Walk(fn) {
			return false
		}
	}
	return true
}

// IsPseudoElement reports whether n selects a pseudo-element, including
// the legacy single-colon forms.
func (n *Node) IsPseudoElement() bool {
	if n.Kind != Pseudo {
		return false
	}
	if strings.HasPrefix(n.Value, "::") {
		return true
	}
	switch n.Value {
	case ":before", ":after", ":first-line", ":first-letter":
		return true
	}
	return false
}
