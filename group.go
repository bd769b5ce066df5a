package fraggle

import (
	"fmt"
	"iter"
	"sync/atomic"
)

// Node type and name reported by groups.
const (
	GroupNodeType = 999
	GroupNodeName = "#fraggle"
)

var groupIDs atomic.Uint64

// Group is a virtual container of real nodes and nested groups.
//
// A group is created empty and unattached. It gains children only through the
// insertion operations of an Overlay. It is attached as soon as it, or one of
// its ancestor groups, is inserted below a real node; that real node becomes
// the group's anchor, i.e. the node receiving all real mutations on the
// group's behalf.
type Group struct {
	id       uint64
	children []item
	anchor   Node   // real node receiving mutations; nil until attached
	parent   *Group // logical parent group, or shadow list of a real container
	prev     Node   // previous-sibling view, real node or nil
	next     Node   // next-sibling view, real node or nil
	shadow   bool   // hidden child list of the real container anchor
}

// item is an entry of a child list. group is set iff node is a group.
type item struct {
	node  Node
	group *Group
}

// NewGroup creates an empty, unattached group.
func NewGroup() *Group {
	return &Group{id: groupIDs.Add(1)}
}

func newShadow(container Node) *Group {
	return &Group{id: groupIDs.Add(1), anchor: container, shadow: true}
}

// ID returns a process-unique identifier of g.
func (g *Group) ID() uint64 {
	return g.id
}

// NodeType returns GroupNodeType.
func (g *Group) NodeType() int {
	return GroupNodeType
}

// NodeName returns GroupNodeName.
func (g *Group) NodeName() string {
	return GroupNodeName
}

var _ fmt.Stringer = (*Group)(nil)

func (g *Group) String() string {
	return fmt.Sprintf("%s(%d)", GroupNodeName, g.id)
}

// Anchor returns the real node which receives mutations on behalf of g, or
// nil if g is not attached.
func (g *Group) Anchor() Node {
	return g.anchor
}

// IsConnected is true if g has been attached below a real node.
func (g *Group) IsConnected() bool {
	return g.anchor != nil
}

// ParentNode returns the real parent of g's real children, i.e. the anchor.
func (g *Group) ParentNode() Node {
	return g.anchor
}

// ParentElement is the same as ParentNode.
func (g *Group) ParentElement() Node {
	return g.anchor
}

// LogicalParent returns the group or real node which directly contains g, or
// nil if g has not been inserted anywhere.
func (g *Group) LogicalParent() Node {
	if g.parent == nil {
		return nil
	}
	if g.parent.shadow {
		return g.parent.anchor
	}
	return g.parent
}

// PreviousSibling returns the real node immediately before g's content in
// document order, or nil.
func (g *Group) PreviousSibling() Node {
	return g.prev
}

// NextSibling returns the real node immediately after g's content in
// document order, or nil.
func (g *Group) NextSibling() Node {
	return g.next
}

// Len returns the number of direct children of g (real nodes and groups).
func (g *Group) Len() int {
	return len(g.children)
}

// Children returns the direct children of g in logical order.
func (g *Group) Children() []Node {
	nodes := make([]Node, len(g.children))
	for i, c := range g.children {
		nodes[i] = c.node
	}
	return nodes
}

// ChildNodes returns the flattened sequence of real nodes contained in g.
func (g *Group) ChildNodes() []Node {
	var nodes []Node
	for n := range g.All() {
		nodes = append(nodes, n)
	}
	return nodes
}

// FirstChild returns the first real node contained in g, or nil.
func (g *Group) FirstChild() Node {
	n, _ := g.Iterator().Next()
	return n
}

// LastChild returns the last real node contained in g, or nil.
func (g *Group) LastChild() Node {
	n, _ := g.ReverseIterator().Next()
	return n
}

// HasRealChildren is true if g contains at least one real node.
func (g *Group) HasRealChildren() bool {
	_, ok := g.Iterator().Next()
	return ok
}

// All iterates over the flattened sequence of real nodes in g.
func (g *Group) All() iter.Seq[Node] {
	return func(yield func(Node) bool) {
		it := g.Iterator()
		for n, ok := it.Next(); ok; n, ok = it.Next() {
			if !yield(n) {
				return
			}
		}
	}
}

// Backward iterates over the flattened sequence of real nodes in g, last to first.
func (g *Group) Backward() iter.Seq[Node] {
	return func(yield func(Node) bool) {
		it := g.ReverseIterator()
		for n, ok := it.Next(); ok; n, ok = it.Next() {
			if !yield(n) {
				return
			}
		}
	}
}

// --- Helpers ---------------------------------------------------------------

func (g *Group) indexOf(n Node) int {
	for i, c := range g.children {
		if c.node == n {
			return i
		}
	}
	return -1
}

func (g *Group) splice(at int, it item) {
	g.children = append(g.children, item{})
	copy(g.children[at+1:], g.children[at:])
	g.children[at] = it
}

// isAncestorOf is true if h is g or logically nested inside g.
func (g *Group) isAncestorOf(h *Group) bool {
	for ; h != nil && !h.shadow; h = h.parent {
		if h == g {
			return true
		}
	}
	return false
}

// connect sets the anchor of g and of all its descendant groups.
func (g *Group) connect(anchor Node) {
	stack := []*Group{g}
	for len(stack) > 0 {
		h := stack[len(stack)-1]
		stack = stack[:len(stack)-1]
		h.anchor = anchor
		for _, c := range h.children {
			if c.group != nil {
				stack = append(stack, c.group)
			}
		}
	}
}
