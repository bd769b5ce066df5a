package fraggle

import "fmt"

// insertionCase enumerates the combinations of
// container kind × new node kind × reference kind.
type insertionCase uint8

const (
	caseRealRealReal insertionCase = iota + 1
	caseRealRealNone
	caseRealRealGroup
	caseRealGroupReal
	caseRealGroupNone
	caseRealGroupGroup
	caseGroupRealReal
	caseGroupRealNone
	caseGroupRealGroup
	caseGroupGroupReal
	caseGroupGroupNone
	caseGroupGroupGroup
)

var insertionCaseNames = [...]string{
	"?",
	"real/real/real", "real/real/none", "real/real/group",
	"real/group/real", "real/group/none", "real/group/group",
	"group/real/real", "group/real/none", "group/real/group",
	"group/group/real", "group/group/none", "group/group/group",
}

func (ic insertionCase) String() string {
	if int(ic) >= len(insertionCaseNames) {
		return insertionCaseNames[0]
	}
	return insertionCaseNames[ic]
}

// classifyInsertion maps a classified triple to exactly one insertion case.
func classifyInsertion(container, newNode, ref Kind) (insertionCase, error) {
	var c, n, r int
	switch container {
	case KindReal:
	case KindGroup:
		c = 1
	default:
		return 0, fmt.Errorf("%w: container is %s", ErrInvalidArgument, container)
	}
	switch newNode {
	case KindReal:
	case KindGroup:
		n = 1
	default:
		return 0, fmt.Errorf("%w: new node is %s", ErrInvalidArgument, newNode)
	}
	switch ref {
	case KindReal:
	case KindNone:
		r = 1
	case KindGroup:
		r = 2
	default:
		return 0, fmt.Errorf("%w: reference node is %s", ErrInvalidArgument, ref)
	}
	return insertionCase(1 + 6*c + 3*n + r), nil
}

// AppendChild inserts node as the last child of container.
func (o *Overlay) AppendChild(container, node Node) error {
	return o.InsertBefore(container, node, nil)
}

// InsertBefore inserts newNode into container, immediately before
// referenceNode, or at the end if referenceNode is nil. Container, newNode
// and referenceNode may each be a real node or a group.
//
// If the container is attached to the real tree, the real nodes of newNode
// are inserted into the real tree first; the logical structure is updated
// only after the real tree accepted all of them. A reference node which is
// not a child of container yields ErrNotFound.
func (o *Overlay) InsertBefore(container, newNode, referenceNode Node) error {
	ic, err := classifyInsertion(o.KindOf(container), o.KindOf(newNode), o.KindOf(referenceNode))
	if err != nil {
		return err
	}
	T().P("case", ic).Debugf("insert %v into %v before %v", newNode, container, referenceNode)
	if referenceNode != nil && referenceNode == newNode {
		return fmt.Errorf("%w: cannot insert a node before itself", ErrHierarchyRequest)
	}
	if err := o.checkHierarchy(container, newNode); err != nil {
		return err
	}
	switch ic {
	case caseRealRealReal:
		return o.insertRealRealReal(container, newNode, referenceNode)
	case caseRealRealNone:
		return o.insertRealRealNone(container, newNode)
	case caseRealRealGroup:
		return o.insertRealRealGroup(container, newNode, referenceNode.(*Group))
	case caseRealGroupReal:
		return o.insertRealGroupReal(container, newNode.(*Group), referenceNode)
	case caseRealGroupNone:
		return o.insertRealGroupNone(container, newNode.(*Group))
	case caseRealGroupGroup:
		return o.insertRealGroupGroup(container, newNode.(*Group), referenceNode.(*Group))
	case caseGroupRealReal:
		return o.insertGroupRealReal(container.(*Group), newNode, referenceNode)
	case caseGroupRealNone:
		return o.insertGroupRealNone(container.(*Group), newNode)
	case caseGroupRealGroup:
		return o.insertGroupRealGroup(container.(*Group), newNode, referenceNode.(*Group))
	case caseGroupGroupReal:
		return o.insertGroupGroupReal(container.(*Group), newNode.(*Group), referenceNode)
	case caseGroupGroupNone:
		return o.insertGroupGroupNone(container.(*Group), newNode.(*Group))
	case caseGroupGroupGroup:
		return o.insertGroupGroupGroup(container.(*Group), newNode.(*Group), referenceNode.(*Group))
	}
	panic(fmt.Sprintf("fraggle: unhandled insertion case %d", ic))
}

// --- Real container --------------------------------------------------------

// A real node goes into a real node before a real node. Unless the container
// holds groups, this is the plain operation of the real tree.
func (o *Overlay) insertRealRealReal(c, n, ref Node) error {
	s := o.shadowOf(c, false)
	if s == nil {
		if err := o.adapter.InsertBefore(c, n, ref); err != nil {
			return o.adapterError(err)
		}
		o.publish(MutationRecord{
			Case:            caseRealRealReal.String(),
			Target:          c,
			Node:            n,
			Added:           []Node{n},
			PreviousSibling: o.adapter.PreviousSibling(n),
			NextSibling:     ref,
		})
		return nil
	}
	at := s.indexOf(ref)
	if at < 0 {
		return notFound(ref, c)
	}
	return o.place(caseRealRealReal, c, placement{list: s, at: at, anchor: c, item: item{node: n}})
}

// A real node is appended to a real node. If the container holds groups, a
// trailing group's last real node becomes the new node's previous sibling.
func (o *Overlay) insertRealRealNone(c, n Node) error {
	s := o.shadowOf(c, false)
	if s == nil {
		if err := o.adapter.AppendChild(c, n); err != nil {
			return o.adapterError(err)
		}
		o.publish(MutationRecord{
			Case:            caseRealRealNone.String(),
			Target:          c,
			Node:            n,
			Added:           []Node{n},
			PreviousSibling: o.adapter.PreviousSibling(n),
		})
		return nil
	}
	return o.place(caseRealRealNone, c, placement{list: s, at: len(s.children), anchor: c, item: item{node: n}})
}

// A real node goes into a real node before a group. The effective reference
// is the group's first real node or, for an empty group, its next sibling.
func (o *Overlay) insertRealRealGroup(c, n Node, ref *Group) error {
	s, at, err := o.shadowPosition(c, ref)
	if err != nil {
		return err
	}
	return o.place(caseRealRealGroup, c, placement{list: s, at: at, anchor: c, item: item{node: n}})
}

// A group goes into a real node before a real node: its real nodes are
// inserted one by one, and the group gets attached to the container.
func (o *Overlay) insertRealGroupReal(c Node, g *Group, ref Node) error {
	if o.ParentNode(ref) != c {
		return notFound(ref, c)
	}
	s := o.shadowOf(c, true)
	at := s.indexOf(ref)
	if at < 0 {
		return notFound(ref, c)
	}
	return o.place(caseRealGroupReal, c, placement{list: s, at: at, anchor: c, item: item{node: g, group: g}})
}

// A group is appended to a real node.
func (o *Overlay) insertRealGroupNone(c Node, g *Group) error {
	s := o.shadowOf(c, true)
	return o.place(caseRealGroupNone, c, placement{list: s, at: len(s.children), anchor: c, item: item{node: g, group: g}})
}

// A group goes into a real node before another group.
func (o *Overlay) insertRealGroupGroup(c Node, g, ref *Group) error {
	s, at, err := o.shadowPosition(c, ref)
	if err != nil {
		return err
	}
	return o.place(caseRealGroupGroup, c, placement{list: s, at: at, anchor: c, item: item{node: g, group: g}})
}

// --- Group container -------------------------------------------------------

// A real node goes into a group before a real node.
func (o *Overlay) insertGroupRealReal(c *Group, n, ref Node) error {
	at := c.indexOf(ref)
	if at < 0 {
		return notFound(ref, c)
	}
	return o.place(caseGroupRealReal, c, placement{list: c, at: at, anchor: c.anchor, item: item{node: n}})
}

// A real node is appended to a group. Nothing to its right changes within
// the group; outside of it, the group's next sibling gets a new previous one.
func (o *Overlay) insertGroupRealNone(c *Group, n Node) error {
	return o.place(caseGroupRealNone, c, placement{list: c, at: len(c.children), anchor: c.anchor, item: item{node: n}})
}

// A real node goes into a group before a nested group.
func (o *Overlay) insertGroupRealGroup(c *Group, n Node, ref *Group) error {
	if ref.parent != c {
		return notFound(ref, c)
	}
	return o.place(caseGroupRealGroup, c, placement{list: c, at: c.indexOf(ref), anchor: c.anchor, item: item{node: n}})
}

// A group goes into a group before a real node.
func (o *Overlay) insertGroupGroupReal(c *Group, g *Group, ref Node) error {
	at := c.indexOf(ref)
	if at < 0 {
		return notFound(ref, c)
	}
	return o.place(caseGroupGroupReal, c, placement{list: c, at: at, anchor: c.anchor, item: item{node: g, group: g}})
}

// A group is appended to a group.
func (o *Overlay) insertGroupGroupNone(c *Group, g *Group) error {
	return o.place(caseGroupGroupNone, c, placement{list: c, at: len(c.children), anchor: c.anchor, item: item{node: g, group: g}})
}

// A group goes into a group before a nested group.
func (o *Overlay) insertGroupGroupGroup(c *Group, g, ref *Group) error {
	if ref.parent != c {
		return notFound(ref, c)
	}
	return o.place(caseGroupGroupGroup, c, placement{list: c, at: c.indexOf(ref), anchor: c.anchor, item: item{node: g, group: g}})
}

// --- Placement -------------------------------------------------------------

// placement describes where an item goes: position at of a logical child
// list, mirrored into the real tree below anchor (if any).
type placement struct {
	list   *Group
	at     int
	anchor Node
	item   item
}

// place performs an insertion: the real tree first, then the logical splice,
// then the repair of sibling views on both sides of the new item.
func (o *Overlay) place(ic insertionCase, target Node, p placement) error {
	var added []Node
	if p.anchor != nil {
		ref := firstRealFrom(p.list, p.at)
		var err error
		if added, err = o.mirror(p.anchor, p.item, ref); err != nil {
			return err
		}
	}
	p.list.splice(p.at, p.item)
	if g := p.item.group; g != nil {
		g.parent = p.list
		g.connect(p.anchor)
	} else {
		o.info(p.item.node).parent = p.list
	}
	left, right := o.repair(p.list, p.at)
	o.publish(MutationRecord{
		Case:            ic.String(),
		Target:          target,
		Node:            p.item.node,
		Added:           added,
		PreviousSibling: left,
		NextSibling:     right,
	})
	return nil
}

// mirror inserts the real nodes of an item below anchor, before ref.
func (o *Overlay) mirror(anchor Node, it item, ref Node) ([]Node, error) {
	nodes := []Node{it.node}
	if it.group != nil {
		nodes = it.group.ChildNodes()
	}
	for i, n := range nodes {
		var err error
		if ref == nil {
			err = o.adapter.AppendChild(anchor, n)
		} else {
			err = o.adapter.InsertBefore(anchor, n, ref)
		}
		if err != nil {
			T().Errorf("real tree rejected node %d of %d: %v", i+1, len(nodes), err)
			return nodes[:i], o.adapterError(err)
		}
	}
	return nodes, nil
}

// shadowPosition finds a group among the top-level children of real
// container c.
func (o *Overlay) shadowPosition(c Node, ref *Group) (*Group, int, error) {
	s := o.shadowOf(c, false)
	if s == nil || ref.parent != s {
		return nil, 0, notFound(ref, c)
	}
	return s, s.indexOf(ref), nil
}

// checkHierarchy rejects insertions which would place a node twice or
// produce a cycle. A real node which still has a real parent may only go into
// attached containers, where the real tree moves it.
func (o *Overlay) checkHierarchy(container, newNode Node) error {
	var anchor Node
	if cg, ok := container.(*Group); ok {
		anchor = cg.anchor
		if ng, ok := newNode.(*Group); ok && ng.isAncestorOf(cg) {
			return fmt.Errorf("%w: %v contains %v", ErrHierarchyRequest, ng, cg)
		}
	} else {
		anchor = container
	}
	var nodes []Node
	if ng, ok := newNode.(*Group); ok {
		if ng.parent != nil {
			return fmt.Errorf("%w: %v has already been inserted", ErrHierarchyRequest, ng)
		}
		nodes = ng.ChildNodes()
	} else {
		if o.placed(newNode) != nil {
			return fmt.Errorf("%w: %v has already been placed", ErrHierarchyRequest, newNode)
		}
		nodes = []Node{newNode}
	}
	if anchor == nil {
		// an unattached group cannot take a real node out of its real parent
		if _, isGroup := newNode.(*Group); !isGroup && o.adapter.ParentNode(newNode) != nil {
			return fmt.Errorf("%w: %v is still a child of %v", ErrHierarchyRequest, newNode,
				o.adapter.ParentNode(newNode))
		}
		return nil
	}
	for _, n := range nodes {
		if o.adapter.Contains(n, anchor) {
			return fmt.Errorf("%w: %v is an ancestor of %v", ErrHierarchyRequest, n, anchor)
		}
	}
	return nil
}

func (o *Overlay) adapterError(err error) error {
	return fmt.Errorf("fraggle: real tree mutation failed: %w", err)
}

func notFound(ref, container Node) error {
	return fmt.Errorf("%w: %v is not a child of %v", ErrNotFound, ref, container)
}
