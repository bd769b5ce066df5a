package fraggle

import (
	"fmt"

	"github.com/guiguan/caster"
)

// Overlay keeps groups and the real tree in sync. All mutations of real
// containers which hold groups have to go through the overlay.
type Overlay struct {
	cfg      Config
	adapter  Adapter
	classify Classifier
	reals    map[Node]*realInfo // real nodes placed inside groups or shadow lists
	shadows  map[Node]*Group    // logical child lists of real containers holding groups
	deps     *dependents        // nil unless cfg.TrackDependents
	cast     *caster.Caster     // created on first call to Observe
	closed   bool
}

// realInfo is the overlay's bookkeeping for a placed real node.
type realInfo struct {
	parent *Group // group or shadow list containing the node
	prev   Node
	next   Node
}

// New creates an overlay for a real tree.
func New(cfg Config) (*Overlay, error) {
	if err := cfg.validate(); err != nil {
		return nil, err
	}
	cfg = cfg.normalized()
	o := &Overlay{
		cfg:      cfg,
		adapter:  cfg.Adapter,
		classify: cfg.Classifier,
		reals:    make(map[Node]*realInfo),
		shadows:  make(map[Node]*Group),
	}
	if cfg.TrackDependents {
		o.deps = &dependents{
			previous: make(adjacency),
			next:     make(adjacency),
		}
	}
	return o, nil
}

// Config returns the normalized configuration of o.
func (o *Overlay) Config() Config {
	return o.cfg
}

// KindOf classifies n.
func (o *Overlay) KindOf(n Node) Kind {
	if n == nil {
		return KindNone
	}
	k := o.classify(n)
	if k == KindGroup {
		if g, ok := n.(*Group); !ok || g == nil {
			return KindInvalid
		}
	}
	return k
}

// PreviousSibling returns the real node before n in document order, or nil.
// Groups are never reported as siblings.
func (o *Overlay) PreviousSibling(n Node) Node {
	switch o.KindOf(n) {
	case KindGroup:
		return n.(*Group).prev
	case KindReal:
		if ri := o.placed(n); ri != nil {
			return ri.prev
		}
		return o.adapter.PreviousSibling(n)
	}
	return nil
}

// NextSibling returns the real node after n in document order, or nil.
func (o *Overlay) NextSibling(n Node) Node {
	switch o.KindOf(n) {
	case KindGroup:
		return n.(*Group).next
	case KindReal:
		if ri := o.placed(n); ri != nil {
			return ri.next
		}
		return o.adapter.NextSibling(n)
	}
	return nil
}

// ParentNode returns the real parent of n. For a group and for real nodes in
// an unattached group this is nil.
func (o *Overlay) ParentNode(n Node) Node {
	switch o.KindOf(n) {
	case KindGroup:
		return n.(*Group).anchor
	case KindReal:
		if ri := o.placed(n); ri != nil {
			return ri.parent.anchor
		}
		return o.adapter.ParentNode(n)
	}
	return nil
}

// LogicalParent returns the group or real node directly containing n.
func (o *Overlay) LogicalParent(n Node) Node {
	switch o.KindOf(n) {
	case KindGroup:
		return n.(*Group).LogicalParent()
	case KindReal:
		if ri := o.placed(n); ri != nil {
			if ri.parent.shadow {
				return ri.parent.anchor
			}
			return ri.parent
		}
		return o.adapter.ParentNode(n)
	}
	return nil
}

// ChildNodes returns the real children of n, flattening groups.
func (o *Overlay) ChildNodes(n Node) []Node {
	switch o.KindOf(n) {
	case KindGroup:
		return n.(*Group).ChildNodes()
	case KindReal:
		if s := o.shadows[n]; s != nil {
			return s.ChildNodes()
		}
		var nodes []Node
		for c := o.adapter.FirstChild(n); c != nil; c = o.adapter.NextSibling(c) {
			nodes = append(nodes, c)
		}
		return nodes
	}
	return nil
}

// FirstChild returns the first real child of n, or nil.
func (o *Overlay) FirstChild(n Node) Node {
	switch o.KindOf(n) {
	case KindGroup:
		return n.(*Group).FirstChild()
	case KindReal:
		return o.adapter.FirstChild(n)
	}
	return nil
}

// LastChild returns the last real child of n, or nil.
func (o *Overlay) LastChild(n Node) Node {
	switch o.KindOf(n) {
	case KindGroup:
		return n.(*Group).LastChild()
	case KindReal:
		if s := o.shadows[n]; s != nil {
			return s.LastChild()
		}
		var last Node
		for c := o.adapter.FirstChild(n); c != nil; c = o.adapter.NextSibling(c) {
			last = c
		}
		return last
	}
	return nil
}

// Contains is true if candidate is container or a descendant of it. Groups
// contain the real nodes they flatten to and everything below those, as well
// as their nested groups. A group candidate is contained if its first real
// node is.
func (o *Overlay) Contains(container, candidate Node) (bool, error) {
	ck, nk := o.KindOf(container), o.KindOf(candidate)
	switch {
	case nk == KindNone && (ck == KindReal || ck == KindGroup):
		return false, nil
	case ck == KindReal && nk == KindReal:
		return o.adapter.Contains(container, candidate), nil
	case ck == KindGroup && nk == KindReal:
		for n := range container.(*Group).All() {
			if o.adapter.Contains(n, candidate) {
				return true, nil
			}
		}
		return false, nil
	case (ck == KindReal || ck == KindGroup) && nk == KindGroup:
		cg := candidate.(*Group)
		if ck == KindGroup && container.(*Group).isAncestorOf(cg) {
			return true, nil
		}
		first := cg.FirstChild()
		if first == nil {
			return false, nil
		}
		return o.Contains(container, first)
	}
	return false, fmt.Errorf("%w: contains(%s, %s)", ErrInvalidArgument, ck, nk)
}

// HasChildNodes delegates to the real tree. For a group it reports whether
// the group's anchor has children; known is false for an unattached group.
func (o *Overlay) HasChildNodes(n Node) (has bool, known bool) {
	switch o.KindOf(n) {
	case KindGroup:
		if a := n.(*Group).anchor; a != nil {
			return o.adapter.HasChildNodes(a), true
		}
	case KindReal:
		return o.adapter.HasChildNodes(n), true
	}
	return false, false
}

// RootNode returns the root of the real tree n belongs to. It is nil for an
// unattached group.
func (o *Overlay) RootNode(n Node) Node {
	switch o.KindOf(n) {
	case KindGroup:
		if a := n.(*Group).anchor; a != nil {
			return o.adapter.RootNode(a)
		}
	case KindReal:
		return o.adapter.RootNode(n)
	}
	return nil
}

// PreviousSiblingOf lists the nodes (real or groups) which currently report n
// as their previous sibling. It requires Config.TrackDependents.
func (o *Overlay) PreviousSiblingOf(n Node) []Node {
	if o.deps == nil {
		return nil
	}
	return o.deps.previous.of(n)
}

// NextSiblingOf lists the nodes (real or groups) which currently report n as
// their next sibling. It requires Config.TrackDependents.
func (o *Overlay) NextSiblingOf(n Node) []Node {
	if o.deps == nil {
		return nil
	}
	return o.deps.next.of(n)
}

// --- Unsupported operations ------------------------------------------------

// RemoveChild is not supported.
func (o *Overlay) RemoveChild(container, child Node) error {
	return fmt.Errorf("%w: removeChild", ErrNotSupported)
}

// Remove is not supported.
func (o *Overlay) Remove(n Node) error {
	return fmt.Errorf("%w: remove", ErrNotSupported)
}

// ReplaceChild is not supported.
func (o *Overlay) ReplaceChild(container, newChild, oldChild Node) error {
	return fmt.Errorf("%w: replaceChild", ErrNotSupported)
}

// CloneNode is not supported.
func (o *Overlay) CloneNode(n Node, deep bool) (Node, error) {
	return nil, fmt.Errorf("%w: cloneNode", ErrNotSupported)
}

// Normalize is not supported.
func (o *Overlay) Normalize(n Node) error {
	return fmt.Errorf("%w: normalize", ErrNotSupported)
}

// --- Helpers ---------------------------------------------------------------

func (o *Overlay) info(n Node) *realInfo {
	ri := o.reals[n]
	if ri == nil {
		ri = &realInfo{}
		o.reals[n] = ri
	}
	return ri
}

// placed returns the bookkeeping of n if n has been placed by the overlay.
func (o *Overlay) placed(n Node) *realInfo {
	if ri := o.reals[n]; ri != nil && ri.parent != nil {
		return ri
	}
	return nil
}

// shadowOf returns the logical child list of real container c. If c has
// none and create is set, the current real children of c are taken over.
func (o *Overlay) shadowOf(c Node, create bool) *Group {
	if s := o.shadows[c]; s != nil || !create {
		return s
	}
	s := newShadow(c)
	var prev Node
	for n := o.adapter.FirstChild(c); n != nil; n = o.adapter.NextSibling(n) {
		it := item{node: n}
		s.children = append(s.children, it)
		o.info(n).parent = s
		o.setPrevious(it, prev)
		if prev != nil {
			o.setNext(item{node: prev}, n)
		}
		prev = n
	}
	o.shadows[c] = s
	T().Debugf("taking over %d children of real container", len(s.children))
	return s
}
