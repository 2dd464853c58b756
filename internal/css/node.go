// Package css holds the stylesheet AST used by the generator: a tree of
// root, rule, at-rule, declaration and comment nodes with parent links,
// deep cloning, walking and cached serialization guarded by dirty flags.
package css

// NodeType identifies the kind of a Node.
type NodeType uint8

// Node kinds
const (
	RootNode NodeType = iota
	RuleNode
	AtRuleNode
	DeclNode
	CommentNode
)

func (t NodeType) String() string {
	switch t {
	case RootNode:
		return "root"
	case RuleNode:
		return "rule"
	case AtRuleNode:
		return "atrule"
	case DeclNode:
		return "decl"
	case CommentNode:
		return "comment"
	}
	return "unknown"
}

// Position is a 1-based line/column location in a source file.
type Position struct {
	Line   int
	Column int
}

// Source records where a node came from.
type Source struct {
	File  string
	Start Position
}

// Node is a single AST node. Which fields are meaningful depends on Type:
// rules use Selector, at-rules use Name/Params/Block, declarations use
// Prop/Value/Important and comments use Text.
//
// Fields may be set freely while building a detached tree. Once a node is
// attached and may have been printed, use the Set* methods (or call
// MarkDirty) so cached serializations up the parent chain are invalidated.
type Node struct {
	Type      NodeType
	Selector  string
	Name      string
	Params    string
	Block     bool
	Prop      string
	Value     string
	Important bool
	Text      string

	Source *Source
	// Data carries generator annotations (layer, candidate, ...). Cloned with the node.
	Data map[string]string

	Nodes  []*Node
	parent *Node

	dirty bool
	cache [2]string
}

// NewRoot returns an empty root node.
func NewRoot(children ...*Node) *Node {
	n := &Node{Type: RootNode, dirty: true}
	n.Append(children...)
	return n
}

// NewRule returns a rule with the given selector and children.
func NewRule(selector string, children ...*Node) *Node {
	n := &Node{Type: RuleNode, Selector: selector, dirty: true}
	n.Append(children...)
	return n
}

// NewAtRule returns a statement at-rule (`@name params;`). Appending
// children turns it into a block at-rule.
func NewAtRule(name, params string, children ...*Node) *Node {
	n := &Node{Type: AtRuleNode, Name: name, Params: params, dirty: true}
	n.Append(children...)
	return n
}

// NewDecl returns a declaration.
func NewDecl(prop, value string) *Node {
	return &Node{Type: DeclNode, Prop: prop, Value: value, dirty: true}
}

// NewComment returns a comment node.
func NewComment(text string) *Node {
	return &Node{Type: CommentNode, Text: text, dirty: true}
}

// Parent returns the node's parent or nil.
func (n *Node) Parent() *Node { return n.parent }

// Root walks up to the topmost ancestor.
func (n *Node) Root() *Node {
	cur := n
	for cur.parent != nil {
		cur = cur.parent
	}
	return cur
}

// MarkDirty invalidates cached serializations of n and every ancestor.
func (n *Node) MarkDirty() {
	for cur := n; cur != nil; cur = cur.parent {
		if cur.dirty && cur != n {
			// ancestors above an already dirty node are dirty as well
			return
		}
		cur.dirty = true
		cur.cache = [2]string{}
	}
}

// SetSelector replaces a rule selector.
func (n *Node) SetSelector(sel string) {
	if n.Selector == sel {
		return
	}
	n.Selector = sel
	n.MarkDirty()
}

// SetParams replaces at-rule params.
func (n *Node) SetParams(params string) {
	if n.Params == params {
		return
	}
	n.Params = params
	n.MarkDirty()
}

// SetValue replaces a declaration value.
func (n *Node) SetValue(value string) {
	if n.Value == value {
		return
	}
	n.Value = value
	n.MarkDirty()
}

// SetImportant toggles the !important flag of a declaration.
func (n *Node) SetImportant(important bool) {
	if n.Important == important {
		return
	}
	n.Important = important
	n.MarkDirty()
}

// SetData stores an annotation on the node. Annotations are not printed.
func (n *Node) SetData(key, value string) {
	if n.Data == nil {
		n.Data = make(map[string]string)
	}
	n.Data[key] = value
}

// GetData returns an annotation.
func (n *Node) GetData(key string) string {
	if n.Data == nil {
		return ""
	}
	return n.Data[key]
}

// Append adds children at the end, detaching them from previous parents.
func (n *Node) Append(children ...*Node) {
	if len(children) == 0 {
		return
	}
	for _, c := range children {
		c.detach()
		c.parent = n
	}
	n.Nodes = append(n.Nodes, children...)
	if n.Type == AtRuleNode {
		n.Block = true
	}
	n.MarkDirty()
}

// Prepend adds children at the beginning.
func (n *Node) Prepend(children ...*Node) {
	if len(children) == 0 {
		return
	}
	for _, c := range children {
		c.detach()
		c.parent = n
	}
	nodes := make([]*Node, 0, len(n.Nodes)+len(children))
	nodes = append(nodes, children...)
	n.Nodes = append(nodes, n.Nodes...)
	if n.Type == AtRuleNode {
		n.Block = true
	}
	n.MarkDirty()
}

// Index returns the position of child in n.Nodes or -1.
func (n *Node) Index(child *Node) int {
	for i, c := range n.Nodes {
		if c == child {
			return i
		}
	}
	return -1
}

// InsertBefore inserts nodes before the reference child.
func (n *Node) InsertBefore(ref *Node, nodes ...*Node) {
	n.insertNear(ref, false, nodes)
}

// InsertAfter inserts nodes after the reference child.
func (n *Node) InsertAfter(ref *Node, nodes ...*Node) {
	n.insertNear(ref, true, nodes)
}

func (n *Node) insertNear(ref *Node, after bool, nodes []*Node) {
	if len(nodes) == 0 {
		return
	}
	for _, c := range nodes {
		c.detach()
		c.parent = n
	}
	idx := n.Index(ref)
	switch {
	case idx < 0:
		idx = len(n.Nodes)
	case after:
		idx++
	}
	merged := make([]*Node, 0, len(n.Nodes)+len(nodes))
	merged = append(merged, n.Nodes[:idx]...)
	merged = append(merged, nodes...)
	merged = append(merged, n.Nodes[idx:]...)
	n.Nodes = merged
	if n.Type == AtRuleNode {
		n.Block = true
	}
	n.MarkDirty()
}

// Before inserts nodes before n in its parent.
func (n *Node) Before(nodes ...*Node) {
	if n.parent != nil {
		n.parent.InsertBefore(n, nodes...)
	}
}

// After inserts nodes after n in its parent.
func (n *Node) After(nodes ...*Node) {
	if n.parent != nil {
		n.parent.InsertAfter(n, nodes...)
	}
}

// Remove detaches n from its parent.
func (n *Node) Remove() {
	n.detach()
}

// ReplaceWith puts nodes where n was and detaches n.
func (n *Node) ReplaceWith(nodes ...*Node) {
	if n.parent == nil {
		return
	}
	n.parent.InsertBefore(n, nodes...)
	n.detach()
}

// RemoveAll detaches every child and returns them.
func (n *Node) RemoveAll() []*Node {
	children := n.Nodes
	for _, c := range children {
		c.parent = nil
	}
	n.Nodes = nil
	n.MarkDirty()
	return children
}

func (n *Node) detach() {
	p := n.parent
	if p == nil {
		return
	}
	idx := p.Index(n)
	if idx >= 0 {
		p.Nodes = append(p.Nodes[:idx:idx], p.Nodes[idx+1:]...)
	}
	n.parent = nil
	p.MarkDirty()
}

// Clone returns a deep copy of n without a parent.
func (n *Node) Clone() *Node {
	c := &Node{
		Type:      n.Type,
		Selector:  n.Selector,
		Name:      n.Name,
		Params:    n.Params,
		Block:     n.Block,
		Prop:      n.Prop,
		Value:     n.Value,
		Important: n.Important,
		Text:      n.Text,
		Source:    n.Source,
		dirty:     true,
	}
	if n.Data != nil {
		c.Data = make(map[string]string, len(n.Data))
		for k, v := range n.Data {
			c.Data[k] = v
		}
	}
	if n.Nodes != nil {
		c.Nodes = make([]*Node, len(n.Nodes))
		for i, child := range n.Nodes {
			cc := child.Clone()
			cc.parent = c
			c.Nodes[i] = cc
		}
	}
	return c
}

// CloneNodes deep-copies a list of nodes.
func CloneNodes(nodes []*Node) []*Node {
	out := make([]*Node, len(nodes))
	for i, n := range nodes {
		out[i] = n.Clone()
	}
	return out
}

// Walk visits every descendant depth-first. The callback may remove or
// replace the node it is given. Returning false stops descending into
// that node's children.
func (n *Node) Walk(fn func(*Node) bool) {
	children := make([]*Node, len(n.Nodes))
	copy(children, n.Nodes)
	for _, c := range children {
		if c.parent != n {
			continue
		}
		if fn(c) && len(c.Nodes) > 0 {
			c.Walk(fn)
		}
	}
}

// WalkRules visits every rule.
func (n *Node) WalkRules(fn func(*Node)) {
	n.Walk(func(c *Node) bool {
		if c.Type == RuleNode {
			fn(c)
		}
		return true
	})
}

// WalkDecls visits every declaration, optionally filtered by property.
func (n *Node) WalkDecls(prop string, fn func(*Node)) {
	n.Walk(func(c *Node) bool {
		if c.Type == DeclNode && (prop == "" || c.Prop == prop) {
			fn(c)
		}
		return true
	})
}

// WalkAtRules visits every at-rule, optionally filtered by name.
func (n *Node) WalkAtRules(name string, fn func(*Node)) {
	n.Walk(func(c *Node) bool {
		if c.Type == AtRuleNode && (name == "" || c.Name == name) {
			fn(c)
		}
		return true
	})
}

// Closest returns the nearest ancestor (including n) satisfying match.
func (n *Node) Closest(match func(*Node) bool) *Node {
	for cur := n; cur != nil; cur = cur.parent {
		if match(cur) {
			return cur
		}
	}
	return nil
}
