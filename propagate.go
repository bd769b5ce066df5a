package fraggle

// Sibling views are repaired by walking the logical structure outward from
// an insertion point. A walk enters every group it meets and climbs out of a
// group when its children are exhausted, continuing in the logical parent.
// Climbing stops at an unattached top-level group and at the shadow list of
// a real container: sibling views never cross a real parent.

// walkForward visits items in document order, starting at position i of g,
// until visit returns false.
func walkForward(g *Group, i int, visit func(item) bool) {
	for g != nil {
		if i < len(g.children) {
			c := g.children[i]
			if !visit(c) {
				return
			}
			if c.group != nil {
				g, i = c.group, 0
			} else {
				i++
			}
			continue
		}
		if g.shadow || g.parent == nil {
			return
		}
		i = g.parent.indexOf(g) + 1
		g = g.parent
	}
}

// walkBackward visits items in reverse document order, starting at position
// i of g, until visit returns false.
func walkBackward(g *Group, i int, visit func(item) bool) {
	for g != nil {
		if i >= 0 {
			c := g.children[i]
			if !visit(c) {
				return
			}
			if c.group != nil {
				g, i = c.group, len(c.group.children)-1
			} else {
				i--
			}
			continue
		}
		if g.shadow || g.parent == nil {
			return
		}
		i = g.parent.indexOf(g) - 1
		g = g.parent
	}
}

// firstRealFrom returns the first real node at or after position i of g.
func firstRealFrom(g *Group, i int) Node {
	var found Node
	walkForward(g, i, func(c item) bool {
		if c.group == nil {
			found = c.node
			return false
		}
		return true
	})
	return found
}

// lastRealFrom returns the last real node at or before position i of g.
func lastRealFrom(g *Group, i int) Node {
	var found Node
	walkBackward(g, i, func(c item) bool {
		if c.group == nil {
			found = c.node
			return false
		}
		return true
	})
	return found
}

// propagatePrevious makes b the previous-sibling view of every item from
// position i of g onwards, up to and including the first real node.
// Empty groups are transparent; a non-empty group is entered and the walk
// ends at its first real node.
func (o *Overlay) propagatePrevious(g *Group, i int, b Node) {
	walkForward(g, i, func(c item) bool {
		o.setPrevious(c, b)
		return c.group != nil
	})
}

// propagateNext makes b the next-sibling view of every item from position i
// of g backwards, up to and including the first real node.
func (o *Overlay) propagateNext(g *Group, i int, b Node) {
	walkBackward(g, i, func(c item) bool {
		o.setNext(c, b)
		return c.group != nil
	})
}

// repair threads the sibling views around the item just spliced in at
// position at of g.
func (o *Overlay) repair(g *Group, at int) (left, right Node) {
	c := g.children[at]
	left = lastRealFrom(g, at-1)
	right = firstRealFrom(g, at+1)
	o.propagatePrevious(g, at, left)
	o.propagateNext(g, at, right)
	first, last := c.node, c.node
	if c.group != nil {
		first, last = c.group.FirstChild(), c.group.LastChild()
	}
	if first == nil {
		return
	}
	o.propagatePrevious(g, at+1, last)
	o.propagateNext(g, at-1, first)
	return
}

func (o *Overlay) setPrevious(c item, b Node) {
	var old Node
	if c.group != nil {
		old, c.group.prev = c.group.prev, b
	} else {
		ri := o.info(c.node)
		old, ri.prev = ri.prev, b
	}
	if o.deps != nil {
		o.deps.previous.move(c.node, old, b)
	}
}

func (o *Overlay) setNext(c item, b Node) {
	var old Node
	if c.group != nil {
		old, c.group.next = c.group.next, b
	} else {
		ri := o.info(c.node)
		old, ri.next = ri.next, b
	}
	if o.deps != nil {
		o.deps.next.move(c.node, old, b)
	}
}

// --- Dependents ------------------------------------------------------------

// dependents indexes, per boundary node, the items currently using it as
// previous or next sibling view. It is derived from the views and only
// kept for inspection.
type dependents struct {
	previous adjacency
	next     adjacency
}

type adjacency map[Node]map[Node]struct{}

func (a adjacency) move(dependent, from, to Node) {
	if from != nil {
		if set := a[from]; set != nil {
			delete(set, dependent)
			if len(set) == 0 {
				delete(a, from)
			}
		}
	}
	if to != nil {
		set := a[to]
		if set == nil {
			set = make(map[Node]struct{})
			a[to] = set
		}
		set[dependent] = struct{}{}
	}
}

func (a adjacency) of(n Node) []Node {
	set := a[n]
	nodes := make([]Node, 0, len(set))
	for d := range set {
		nodes = append(nodes, d)
	}
	return nodes
}
