/*
Package html connects fraggle overlays to the node trees of golang.org/x/net/html.

_________________________________________________________________________

BSD 3-Clause License
Copyright (c) 2020–21, Norbert Pillmayer

Please refer to the LICENSE file for details.
*/
package html

import (
	"fmt"
	"io"
	"strings"

	"github.com/npillmayer/fraggle"
	"github.com/npillmayer/schuko/tracing"
	"golang.org/x/net/html/atom"
	"golang.org/x/net/html"
)

// tracer writes to trace with key 'fraggle'
func tracer() tracing.Trace {
	return tracing.Select("fraggle")
}

// Adapter implements fraggle.Adapter for *html.Node.
type Adapter struct{}

var _ fraggle.Adapter = Adapter{}

// Classify tells *html.Node values (real nodes) from groups.
func Classify(n fraggle.Node) fraggle.Kind {
	switch x := n.(type) {
	case nil:
		return fraggle.KindNone
	case *html.Node:
		if x == nil {
			return fraggle.KindNone
		}
		return fraggle.KindReal
	case *fraggle.Group:
		if x == nil {
			return fraggle.KindNone
		}
		return fraggle.KindGroup
	}
	return fraggle.KindInvalid
}

// NewOverlay creates an overlay operating on HTML node trees.
func NewOverlay() (*fraggle.Overlay, error) {
	return fraggle.New(fraggle.Config{
		Adapter:         Adapter{},
		Classifier:      Classify,
		TrackDependents: true,
	})
}

// InsertBefore inserts child into parent before ref, detaching child from
// its current parent first. A nil ref appends.
func (Adapter) InsertBefore(parent, child, ref fraggle.Node) error {
	p, c, err := pair(parent, child)
	if err != nil {
		return err
	}
	var r *html.Node
	if ref != nil {
		if r, err = asNode(ref); err != nil {
			return err
		}
		if r.Parent != p {
			return fmt.Errorf("%w: reference <%s> is not a child of <%s>", fraggle.ErrNotFound, r.Data, p.Data)
		}
		if r == c {
			return fmt.Errorf("%w: cannot insert <%s> before itself", fraggle.ErrHierarchyRequest, c.Data)
		}
	}
	detach(c)
	tracer().Debugf("insert <%s> into <%s>", c.Data, p.Data)
	p.InsertBefore(c, r)
	return nil
}

// AppendChild appends child to parent, detaching it from its current parent.
func (a Adapter) AppendChild(parent, child fraggle.Node) error {
	return a.InsertBefore(parent, child, nil)
}

// Contains is true if other is n or a descendant of n.
func (Adapter) Contains(n, other fraggle.Node) bool {
	a, b := node(n), node(other)
	if a == nil || b == nil {
		return false
	}
	for ; b != nil; b = b.Parent {
		if b == a {
			return true
		}
	}
	return false
}

// RootNode returns the topmost ancestor of n.
func (Adapter) RootNode(n fraggle.Node) fraggle.Node {
	r := node(n)
	if r == nil {
		return nil
	}
	for r.Parent != nil {
		r = r.Parent
	}
	return r
}

// HasChildNodes is true if n has at least one child.
func (Adapter) HasChildNodes(n fraggle.Node) bool {
	x := node(n)
	return x != nil && x.FirstChild != nil
}

// ParentNode returns the parent of n.
func (Adapter) ParentNode(n fraggle.Node) fraggle.Node {
	return wrap(node(n), func(x *html.Node) *html.Node { return x.Parent })
}

// FirstChild returns the first child of n.
func (Adapter) FirstChild(n fraggle.Node) fraggle.Node {
	return wrap(node(n), func(x *html.Node) *html.Node { return x.FirstChild })
}

// PreviousSibling returns the previous sibling of n.
func (Adapter) PreviousSibling(n fraggle.Node) fraggle.Node {
	return wrap(node(n), func(x *html.Node) *html.Node { return x.PrevSibling })
}

// NextSibling returns the next sibling of n.
func (Adapter) NextSibling(n fraggle.Node) fraggle.Node {
	return wrap(node(n), func(x *html.Node) *html.Node { return x.NextSibling })
}

// --- Convenience -----------------------------------------------------------

// Element creates a detached element node with an optional id attribute.
func Element(tag string, id string) *html.Node {
	n := &html.Node{
		Type:     html.ElementNode,
		Data:     tag,
		DataAtom: atom.Lookup([]byte(tag)),
	}
	if id != "" {
		n.Attr = []html.Attribute{{Key: "id", Val: id}}
	}
	return n
}

// Text creates a detached text node.
func Text(s string) *html.Node {
	return &html.Node{Type: html.TextNode, Data: s}
}

// Find returns the first element with the given tag in document order, or nil.
func Find(root *html.Node, tag string) *html.Node {
	stack := []*html.Node{root}
	for len(stack) > 0 {
		n := stack[len(stack)-1]
		stack = stack[:len(stack)-1]
		if n.Type == html.ElementNode && n.Data == tag {
			return n
		}
		for c := n.LastChild; c != nil; c = c.PrevSibling {
			stack = append(stack, c)
		}
	}
	return nil
}

// Label describes a real node for fraggle.Fprint and fraggle.Group2Dot.
func Label(n fraggle.Node) string {
	x := node(n)
	switch {
	case x == nil:
		return fmt.Sprintf("%v", n)
	case x.Type == html.TextNode:
		return fmt.Sprintf("%q", x.Data)
	case x.Type != html.ElementNode:
		return fmt.Sprintf("#%d", x.Type)
	}
	for _, a := range x.Attr {
		if a.Key == "id" {
			return fmt.Sprintf("<%s#%s>", x.Data, a.Val)
		}
	}
	return fmt.Sprintf("<%s>", x.Data)
}

// RenderChildren renders the children of container n, as seen through the
// overlay, to w.
func RenderChildren(w io.Writer, ov *fraggle.Overlay, n fraggle.Node) error {
	for _, c := range ov.ChildNodes(n) {
		x, err := asNode(c)
		if err != nil {
			return err
		}
		if err := html.Render(w, x); err != nil {
			return err
		}
	}
	return nil
}

// InnerHTML returns the rendered children of container n.
func InnerHTML(ov *fraggle.Overlay, n fraggle.Node) (string, error) {
	var b strings.Builder
	err := RenderChildren(&b, ov, n)
	return b.String(), err
}

// --- Helpers ---------------------------------------------------------------

func node(n fraggle.Node) *html.Node {
	x, _ := n.(*html.Node)
	return x
}

func asNode(n fraggle.Node) (*html.Node, error) {
	x, ok := n.(*html.Node)
	if !ok || x == nil {
		return nil, fmt.Errorf("%w: %T is not an HTML node", fraggle.ErrInvalidArgument, n)
	}
	return x, nil
}

func pair(parent, child fraggle.Node) (*html.Node, *html.Node, error) {
	p, err := asNode(parent)
	if err != nil {
		return nil, nil, err
	}
	c, err := asNode(child)
	if err != nil {
		return nil, nil, err
	}
	return p, c, nil
}

func detach(c *html.Node) {
	if c.Parent != nil {
		c.Parent.RemoveChild(c)
	}
}

// wrap applies step to x and returns the result as an untyped nil if absent.
func wrap(x *html.Node, step func(*html.Node) *html.Node) fraggle.Node {
	if x == nil {
		return nil
	}
	if y := step(x); y != nil {
		return y
	}
	return nil
}
