package fraggle

// Iterator walks the flattened sequence of real nodes contained in a group,
// descending into nested groups. Nesting depth is not limited by the call
// stack: the iterator keeps its own traversal stack.
//
// An iterator reflects the structure of the group at the time of each call to
// Next. Reset restarts it from the beginning.
type Iterator struct {
	root    *Group
	reverse bool
	stack   []frame
}

type frame struct {
	g *Group
	i int
}

// Iterator returns an iterator over the real nodes of g, first to last.
func (g *Group) Iterator() *Iterator {
	it := &Iterator{root: g}
	it.Reset()
	return it
}

// ReverseIterator returns an iterator over the real nodes of g, last to first.
func (g *Group) ReverseIterator() *Iterator {
	it := &Iterator{root: g, reverse: true}
	it.Reset()
	return it
}

// Reset restarts the iteration.
func (it *Iterator) Reset() {
	it.stack = it.stack[:0]
	if it.root != nil {
		it.stack = append(it.stack, it.start(it.root))
	}
}

// Next returns the next real node. ok is false if the sequence is exhausted.
func (it *Iterator) Next() (n Node, ok bool) {
	for len(it.stack) > 0 {
		top := &it.stack[len(it.stack)-1]
		if top.i < 0 || top.i >= len(top.g.children) {
			it.stack = it.stack[:len(it.stack)-1]
			continue
		}
		c := top.g.children[top.i]
		if it.reverse {
			top.i--
		} else {
			top.i++
		}
		if c.group != nil {
			it.stack = append(it.stack, it.start(c.group))
			continue
		}
		return c.node, true
	}
	return nil, false
}

func (it *Iterator) start(g *Group) frame {
	if it.reverse {
		return frame{g: g, i: len(g.children) - 1}
	}
	return frame{g: g, i: 0}
}
