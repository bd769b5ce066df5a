package fraggle

import (
	"io"
	"os"
	"strings"

	"github.com/fatih/color"
	"golang.org/x/term"
)

// Fprint writes an indented outline of the logical structure of g to w.
// Groups and real nodes are printed in different colors if w is a terminal.
// Real nodes are labelled by label, which may be nil.
func Fprint(w io.Writer, g *Group, label func(Node) string) {
	if label == nil {
		label = defaultLabel
	}
	groupColor := color.New(color.FgBlue, color.Bold)
	realColor := color.New(color.FgGreen)
	viewColor := color.New(color.FgHiBlack)
	if !isTerminal(w) {
		groupColor.DisableColor()
		realColor.DisableColor()
		viewColor.DisableColor()
	}
	type entry struct {
		item  item
		depth int
	}
	stack := []entry{{item: item{node: g, group: g}}}
	for len(stack) > 0 {
		e := stack[len(stack)-1]
		stack = stack[:len(stack)-1]
		indent := strings.Repeat("  ", e.depth)
		if e.item.group == nil {
			realColor.Fprintf(w, "%s%s\n", indent, label(e.item.node))
			continue
		}
		h := e.item.group
		groupColor.Fprintf(w, "%s%s", indent, h)
		viewColor.Fprintf(w, " prev=%s next=%s\n", viewLabel(h.prev, label), viewLabel(h.next, label))
		for i := len(h.children) - 1; i >= 0; i-- {
			stack = append(stack, entry{item: h.children[i], depth: e.depth + 1})
		}
	}
}

func viewLabel(n Node, label func(Node) string) string {
	if n == nil {
		return "-"
	}
	return label(n)
}

func isTerminal(w io.Writer) bool {
	f, ok := w.(*os.File)
	if !ok {
		return false
	}
	return term.IsTerminal(int(f.Fd()))
}

// Sprint returns the outline written by Fprint, without colors.
func Sprint(g *Group, label func(Node) string) string {
	var b strings.Builder
	Fprint(&b, g, label)
	return b.String()
}
