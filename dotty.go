package fraggle

import (
	"fmt"
	"io"
	"strings"
)

type nodeids struct {
	idTable map[Node]int
	max     int
}

func newtable() nodeids {
	return nodeids{
		idTable: make(map[Node]int),
		max:     1,
	}
}

func (ids nodeids) find(node Node) int {
	return ids.idTable[node]
}

func (ids *nodeids) alloc(node Node) int {
	if id := ids.find(node); id > 0 {
		return id
	}
	ids.idTable[node] = ids.max
	ids.max++
	return ids.max - 1
}

// Group2Dot outputs the logical structure of a group in Graphviz DOT format
// (for debugging purposes). Real nodes are labelled by label, which may be nil.
// Dashed edges point from groups to their sibling views.
func Group2Dot(g *Group, w io.Writer, label func(Node) string) {
	if label == nil {
		label = defaultLabel
	}
	io.WriteString(w, "strict digraph {\n")
	io.WriteString(w, "\tnode [fontname=Arial,fontsize=12];\n")
	ids := newtable()
	var nodelist, edgelist strings.Builder
	labelled := make(map[int]bool)
	var views []Node // sibling views, possibly outside of g
	stack := []*Group{g}
	for len(stack) > 0 {
		h := stack[len(stack)-1]
		stack = stack[:len(stack)-1]
		ID := ids.alloc(h)
		fmt.Fprintf(&nodelist, "\"%d\" [label=\"%s\" %s];\n", ID, h, nodeDotStyles(false))
		for _, c := range h.children {
			cid := ids.alloc(c.node)
			fmt.Fprintf(&edgelist, "\"%d\" -> \"%d\";\n", ID, cid)
			if c.group != nil {
				stack = append(stack, c.group)
				continue
			}
			fmt.Fprintf(&nodelist, "\"%d\" [label=\"%s\" %s];\n", cid, dotEscape(label(c.node)), nodeDotStyles(true))
			labelled[cid] = true
		}
		if h.prev != nil {
			fmt.Fprintf(&edgelist, "\"%d\" -> \"%d\" [style=dashed,label=prev];\n", ID, ids.alloc(h.prev))
			views = append(views, h.prev)
		}
		if h.next != nil {
			fmt.Fprintf(&edgelist, "\"%d\" -> \"%d\" [style=dashed,label=next];\n", ID, ids.alloc(h.next))
			views = append(views, h.next)
		}
	}
	for _, v := range views {
		if id := ids.find(v); !labelled[id] {
			fmt.Fprintf(&nodelist, "\"%d\" [label=\"%s\" %s,style=dashed];\n", id, dotEscape(label(v)), nodeDotStyles(true))
			labelled[id] = true
		}
	}
	io.WriteString(w, nodelist.String())
	io.WriteString(w, edgelist.String())
	io.WriteString(w, "}\n")
}

func nodeDotStyles(isreal bool) string {
	s := ",style=filled"
	if isreal {
		s += ",shape=box"
	} else {
		s += ",color=black,fillcolor=\"#a3d7e4\""
		s += ",shape=circle"
	}
	return s
}

func dotEscape(s string) string {
	return strings.ReplaceAll(s, "\"", "\\\"")
}

func defaultLabel(n Node) string {
	return fmt.Sprintf("%v", n)
}
