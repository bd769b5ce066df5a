package fraggle

import (
	"errors"
	"fmt"
	"testing"

	"github.com/npillmayer/schuko/gtrace"
	"github.com/npillmayer/schuko/tracing"
	"github.com/npillmayer/schuko/tracing/gotestingadapter"
)

// tnode is a minimal real tree for testing.
type tnode struct {
	name                            string
	parent, first, last, prev, next *tnode
}

func (n *tnode) String() string {
	return n.name
}

func elem(name string) *tnode {
	return &tnode{name: name}
}

var errRejected = errors.New("rejected by test tree")

// tadapter implements Adapter for tnodes. Inserting reject fails.
type tadapter struct {
	reject *tnode
	calls  int
}

func tn(n Node) *tnode {
	x, _ := n.(*tnode)
	return x
}

func out(x *tnode) Node {
	if x == nil {
		return nil
	}
	return x
}

func (a *tadapter) InsertBefore(parent, child, ref Node) error {
	a.calls++
	p, c, r := tn(parent), tn(child), tn(ref)
	if c == a.reject {
		return errRejected
	}
	if r != nil && r.parent != p {
		return fmt.Errorf("%w: %s is not a child of %s", ErrNotFound, r, p)
	}
	if c.parent != nil {
		cp := c.parent
		if c.prev != nil {
			c.prev.next = c.next
		} else {
			cp.first = c.next
		}
		if c.next != nil {
			c.next.prev = c.prev
		} else {
			cp.last = c.prev
		}
		c.parent, c.prev, c.next = nil, nil, nil
	}
	c.parent = p
	if r == nil {
		c.prev = p.last
		if p.last != nil {
			p.last.next = c
		} else {
			p.first = c
		}
		p.last = c
		return nil
	}
	c.next, c.prev = r, r.prev
	if r.prev != nil {
		r.prev.next = c
	} else {
		p.first = c
	}
	r.prev = c
	return nil
}

func (a *tadapter) AppendChild(parent, child Node) error {
	return a.InsertBefore(parent, child, nil)
}

func (a *tadapter) Contains(n, other Node) bool {
	for x := tn(other); x != nil; x = x.parent {
		if x == tn(n) {
			return true
		}
	}
	return false
}

func (a *tadapter) RootNode(n Node) Node {
	x := tn(n)
	for x.parent != nil {
		x = x.parent
	}
	return x
}

func (a *tadapter) HasChildNodes(n Node) bool { return tn(n).first != nil }
func (a *tadapter) ParentNode(n Node) Node { return out(tn(n).parent) }
func (a *tadapter) FirstChild(n Node) Node { return out(tn(n).first) }
func (a *tadapter) PreviousSibling(n Node) Node { return out(tn(n).prev) }
func (a *tadapter) NextSibling(n Node) Node { return out(tn(n).next) }

// --- Helpers ---------------------------------------------------------------

func newTestOverlay(t *testing.T) (*Overlay, *tadapter) {
	a := &tadapter{}
	ov, err := New(Config{Adapter: a, TrackDependents: true})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	return ov, a
}

func traceTo(t *testing.T) func() {
	gtrace.CoreTracer = gotestingadapter.New(t)
	teardown := gotestingadapter.RedirectTracing(t)
	gtrace.CoreTracer.SetTraceLevel(tracing.LevelDebug)
	return teardown
}

func must(t *testing.T, err error) {
	t.Helper()
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
}

func names(nodes []Node) []string {
	s := make([]string, len(nodes))
	for i, n := range nodes {
		s[i] = fmt.Sprintf("%v", n)
	}
	return s
}

// realChildren lists the children of a test node as the real tree sees them.
func realChildren(n *tnode) []string {
	var s []string
	for c := n.first; c != nil; c = c.next {
		s = append(s, c.name)
	}
	return s
}

// checkRealViews compares the overlay's sibling views of the children of c
// with the real tree.
func checkRealViews(t *testing.T, ov *Overlay, c *tnode) {
	t.Helper()
	for x := c.first; x != nil; x = x.next {
		if p := ov.PreviousSibling(x); p != out(x.prev) {
			t.Errorf("previous sibling of %s is %v, real tree has %v", x, p, x.prev)
		}
		if n := ov.NextSibling(x); n != out(x.next) {
			t.Errorf("next sibling of %s is %v, real tree has %v", x, n, x.next)
		}
		if p := ov.ParentNode(x); p != Node(c) {
			t.Errorf("parent of %s is %v, expected %s", x, p, c)
		}
	}
}

// checkLogicalViews linearizes the logical structure below root and checks
// every view against it: an item's previous view is the last real node
// before it, its next view the first real node after it.
func checkLogicalViews(t *testing.T, ov *Overlay, root *Group) {
	t.Helper()
	type tok struct {
		c     item
		enter bool
	}
	var toks []tok
	var linearize func(h *Group)
	linearize = func(h *Group) {
		for _, c := range h.children {
			if c.group == nil {
				toks = append(toks, tok{c: c})
				continue
			}
			toks = append(toks, tok{c: c, enter: true})
			linearize(c.group)
			toks = append(toks, tok{c: c})
		}
	}
	linearize(root)
	var last Node
	if !root.shadow {
		last = root.prev
	}
	for _, k := range toks {
		if k.c.group == nil || k.enter {
			if p := ov.PreviousSibling(k.c.node); p != last {
				t.Errorf("previous sibling of %v is %v, expected %v", k.c.node, p, last)
			}
		}
		if k.c.group == nil {
			last = k.c.node
		}
	}
	var first Node
	if !root.shadow {
		first = root.next
	}
	for i := len(toks) - 1; i >= 0; i-- {
		k := toks[i]
		if k.c.group == nil || !k.enter {
			if n := ov.NextSibling(k.c.node); n != first {
				t.Errorf("next sibling of %v is %v, expected %v", k.c.node, n, first)
			}
		}
		if k.c.group == nil {
			first = k.c.node
		}
	}
}
