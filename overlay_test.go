package fraggle

import (
	"context"
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/google/go-cmp/cmp"
)

// scene is html > body=[a, G=[x, y], b], with G inserted before b.
type scene struct {
	ov         *Overlay
	html, body *tnode
	a, b, x, y *tnode
	G          *Group
}

func newScene(t *testing.T) *scene {
	ov, _ := newTestOverlay(t)
	s := &scene{
		ov:   ov,
		html: elem("html"),
		body: elem("body"),
		a:    elem("a"),
		b:    elem("b"),
		x:    elem("x"),
		y:    elem("y"),
		G:    NewGroup(),
	}
	must(t, ov.AppendChild(s.html, s.body))
	must(t, ov.AppendChild(s.body, s.a))
	must(t, ov.AppendChild(s.body, s.b))
	must(t, ov.AppendChild(s.G, s.x))
	must(t, ov.AppendChild(s.G, s.y))
	must(t, ov.InsertBefore(s.body, s.G, s.b))
	return s
}

func sameNodes(t *testing.T, what string, got []Node, want ...Node) {
	t.Helper()
	set := make(map[Node]bool, len(got))
	for _, n := range got {
		set[n] = true
	}
	if len(set) != len(want) || len(got) != len(want) {
		t.Errorf("%s: expected %d nodes, got %v", what, len(want), got)
		return
	}
	for _, n := range want {
		if !set[n] {
			t.Errorf("%s: expected %v in %v", what, n, got)
		}
	}
}

func TestSceneStructure(t *testing.T) {
	teardown := traceTo(t)
	defer teardown()
	//
	s := newScene(t)
	if diff := cmp.Diff([]string{"a", "x", "y", "b"}, realChildren(s.body)); diff != "" {
		t.Errorf("real children mismatch (-want +got):\n%s", diff)
	}
	if diff := cmp.Diff([]string{"a", "x", "y", "b"}, names(s.ov.ChildNodes(s.body))); diff != "" {
		t.Errorf("overlay children mismatch (-want +got):\n%s", diff)
	}
	checkRealViews(t, s.ov, s.body)
	checkLogicalViews(t, s.ov, s.ov.shadows[s.body])
	if s.ov.ParentNode(s.G) != Node(s.body) || s.ov.LogicalParent(s.G) != Node(s.body) {
		t.Errorf("expected body as parent of G")
	}
	if s.ov.LogicalParent(s.x) != Node(s.G) {
		t.Errorf("expected G as logical parent of x, got %v", s.ov.LogicalParent(s.x))
	}
	if s.ov.LogicalParent(s.a) != Node(s.body) || s.ov.LogicalParent(s.body) != Node(s.html) {
		t.Errorf("unexpected logical parents of a/body")
	}
	if s.ov.FirstChild(s.G) != Node(s.x) || s.ov.LastChild(s.body) != Node(s.b) {
		t.Errorf("unexpected first/last children")
	}
	if !s.G.IsConnected() || s.G.Anchor() != Node(s.body) {
		t.Errorf("expected G to be connected to body")
	}
}

func TestKindOf(t *testing.T) {
	teardown := traceTo(t)
	defer teardown()
	//
	ov, _ := newTestOverlay(t)
	var nilGroup *Group
	for _, tc := range []struct {
		n    Node
		kind Kind
	}{
		{nil, KindNone},
		{elem("a"), KindReal},
		{NewGroup(), KindGroup},
		{nilGroup, KindNone},
	} {
		if k := ov.KindOf(tc.n); k != tc.kind {
			t.Errorf("kind of %#v: expected %s, got %s", tc.n, tc.kind, k)
		}
	}
	odd, err := New(Config{
		Adapter:    &tadapter{},
		Classifier: func(Node) Kind { return KindGroup },
	})
	must(t, err)
	if k := odd.KindOf(elem("a")); k != KindInvalid {
		t.Errorf("expected a non-group classified as group to be invalid, got %s", k)
	}
}

func TestNewRejectsMissingAdapter(t *testing.T) {
	teardown := traceTo(t)
	defer teardown()
	//
	if _, err := New(Config{}); !errors.Is(err, ErrInvalidConfig) {
		t.Errorf("expected ErrInvalidConfig, got %v", err)
	}
}

func TestContains(t *testing.T) {
	teardown := traceTo(t)
	defer teardown()
	//
	s := newScene(t)
	H := NewGroup()
	z := elem("z")
	must(t, s.ov.AppendChild(H, z))
	must(t, s.ov.AppendChild(s.G, H))
	empty := NewGroup()
	must(t, s.ov.AppendChild(s.G, empty))
	for i, tc := range []struct {
		container, candidate Node
		want                 bool
	}{
		{s.body, s.x, true},
		{s.html, s.x, true},
		{s.x, s.body, false},
		{s.G, s.x, true},
		{s.G, z, true},
		{s.G, s.a, false},
		{s.G, s.G, true},
		{s.G, H, true},
		{H, s.G, false},
		{s.body, s.G, true},
		{s.body, H, true},
		{s.a, s.G, false},
		{s.body, empty, false},
		{s.G, empty, true},
		{s.body, nil, false},
		{s.G, nil, false},
		{s.body, NewGroup(), false},
		{s.G, NewGroup(), false},
		{s.html, NewGroup(), false},
	} {
		got, err := s.ov.Contains(tc.container, tc.candidate)
		if err != nil {
			t.Errorf("case %d: unexpected error: %v", i, err)
			continue
		}
		if got != tc.want {
			t.Errorf("case %d: contains(%v, %v) = %v, expected %v", i, tc.container, tc.candidate, got, tc.want)
		}
	}
	if _, err := s.ov.Contains(nil, s.a); !errors.Is(err, ErrInvalidArgument) {
		t.Errorf("expected ErrInvalidArgument for nil container, got %v", err)
	}
}

func TestHasChildNodesAndRoot(t *testing.T) {
	teardown := traceTo(t)
	defer teardown()
	//
	s := newScene(t)
	if has, known := s.ov.HasChildNodes(s.G); !has || !known {
		t.Errorf("expected attached group to report children, got %v/%v", has, known)
	}
	if has, known := s.ov.HasChildNodes(s.b); has || !known {
		t.Errorf("expected leaf b without children, got %v/%v", has, known)
	}
	if has, known := s.ov.HasChildNodes(NewGroup()); has || known {
		t.Errorf("expected unknown for unattached group, got %v/%v", has, known)
	}
	if r := s.ov.RootNode(s.G); r != Node(s.html) {
		t.Errorf("expected html as root of G, got %v", r)
	}
	if r := s.ov.RootNode(s.x); r != Node(s.html) {
		t.Errorf("expected html as root of x, got %v", r)
	}
	if r := s.ov.RootNode(NewGroup()); r != nil {
		t.Errorf("expected no root for unattached group, got %v", r)
	}
}

func TestUnsupportedOperations(t *testing.T) {
	teardown := traceTo(t)
	defer teardown()
	//
	s := newScene(t)
	errs := []error{
		s.ov.RemoveChild(s.body, s.a),
		s.ov.Remove(s.G),
		s.ov.ReplaceChild(s.body, elem("n"), s.a),
		s.ov.Normalize(s.body),
	}
	_, err := s.ov.CloneNode(s.G, true)
	errs = append(errs, err)
	for i, err := range errs {
		if !errors.Is(err, ErrNotSupported) {
			t.Errorf("operation %d: expected ErrNotSupported, got %v", i, err)
		}
	}
	if diff := cmp.Diff([]string{"a", "x", "y", "b"}, realChildren(s.body)); diff != "" {
		t.Errorf("real tree changed (-want +got):\n%s", diff)
	}
}

func TestDependents(t *testing.T) {
	teardown := traceTo(t)
	defer teardown()
	//
	s := newScene(t)
	sameNodes(t, "next of b", s.ov.NextSiblingOf(s.b), s.G, s.y)
	sameNodes(t, "previous of a", s.ov.PreviousSiblingOf(s.a), s.G, s.x)
	z := elem("z")
	must(t, s.ov.InsertBefore(s.body, z, s.b))
	sameNodes(t, "next of b", s.ov.NextSiblingOf(s.b), z)
	sameNodes(t, "next of z", s.ov.NextSiblingOf(z), s.G, s.y)
	sameNodes(t, "previous of b", s.ov.PreviousSiblingOf(s.b))
	sameNodes(t, "previous of z", s.ov.PreviousSiblingOf(z), s.b)
	sameNodes(t, "previous of y", s.ov.PreviousSiblingOf(s.y), z)
	plain, err := New(Config{Adapter: &tadapter{}})
	must(t, err)
	if plain.NextSiblingOf(s.b) != nil {
		t.Errorf("expected no dependents without tracking")
	}
}

func TestObserve(t *testing.T) {
	teardown := traceTo(t)
	defer teardown()
	//
	ov, _ := newTestOverlay(t)
	body, a, b := elem("body"), elem("a"), elem("b")
	must(t, ov.AppendChild(body, a))
	must(t, ov.AppendChild(body, b))
	G := NewGroup()
	x, y := elem("x"), elem("y")
	must(t, ov.AppendChild(G, x))
	must(t, ov.AppendChild(G, y))
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	ch, err := ov.Observe(ctx, 4)
	must(t, err)
	must(t, ov.InsertBefore(body, G, b))
	select {
	case msg := <-ch:
		rec, ok := msg.(MutationRecord)
		if !ok {
			t.Fatalf("expected a MutationRecord, got %T", msg)
		}
		if rec.Case != "real/group/real" {
			t.Errorf("expected case real/group/real, got %s", rec.Case)
		}
		if rec.Target != Node(body) || rec.Node != Node(G) {
			t.Errorf("unexpected target/node %v/%v", rec.Target, rec.Node)
		}
		if diff := cmp.Diff([]string{"x", "y"}, names(rec.Added)); diff != "" {
			t.Errorf("added nodes mismatch (-want +got):\n%s", diff)
		}
		if rec.PreviousSibling != Node(a) || rec.NextSibling != Node(b) {
			t.Errorf("expected views a/b, got %v/%v", rec.PreviousSibling, rec.NextSibling)
		}
	case <-time.After(2 * time.Second):
		t.Fatalf("no mutation record received")
	}
	ov.Close()
	if _, err := ov.Observe(ctx, 1); !errors.Is(err, ErrClosed) {
		t.Errorf("expected ErrClosed after Close, got %v", err)
	}
	must(t, ov.AppendChild(body, elem("c")))
}

func TestObserverDoesNotBlockInsertions(t *testing.T) {
	teardown := traceTo(t)
	defer teardown()
	//
	ov, _ := newTestOverlay(t)
	body := elem("body")
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	_, err := ov.Observe(ctx, 1) // never drained
	must(t, err)
	const n = 5
	done := make(chan error, 1)
	go func() {
		for i := 0; i < n; i++ {
			g := NewGroup()
			if err := ov.AppendChild(g, elem("d"+string(rune('0'+i)))); err != nil {
				done <- err
				return
			}
			if err := ov.AppendChild(body, g); err != nil {
				done <- err
				return
			}
		}
		done <- nil
	}()
	select {
	case err := <-done:
		must(t, err)
	case <-time.After(2 * time.Second):
		t.Fatalf("insertions blocked by an observer which does not drain its channel")
	}
	if got := len(realChildren(body)); got != n {
		t.Errorf("expected %d children of body, got %d", n, got)
	}
}

func TestObserveWithDoneContext(t *testing.T) {
	teardown := traceTo(t)
	defer teardown()
	//
	ov, _ := newTestOverlay(t)
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	ch, err := ov.Observe(ctx, 1)
	if !errors.Is(err, context.Canceled) {
		t.Errorf("expected context.Canceled, got %v", err)
	}
	if ch != nil {
		t.Errorf("expected no channel for a done context")
	}
}

func TestGroup2Dot(t *testing.T) {
	teardown := traceTo(t)
	defer teardown()
	//
	s := newScene(t)
	var b strings.Builder
	Group2Dot(s.G, &b, nil)
	dot := b.String()
	if !strings.HasPrefix(dot, "strict digraph {") {
		t.Errorf("expected a digraph, got %q", dot)
	}
	for _, want := range []string{`label="x"`, `label="y"`, `label="a"`, `label="b"`,
		"label=prev", "label=next", s.G.String()} {
		if !strings.Contains(dot, want) {
			t.Errorf("expected %q in DOT output", want)
		}
	}
}

func TestSprint(t *testing.T) {
	teardown := traceTo(t)
	defer teardown()
	//
	s := newScene(t)
	H := NewGroup()
	must(t, s.ov.AppendChild(s.G, H))
	out := Sprint(s.G, func(n Node) string { return "<" + n.(*tnode).name + ">" })
	lines := strings.Split(strings.TrimSpace(out), "\n")
	if len(lines) != 4 {
		t.Fatalf("expected 4 lines, got %d:\n%s", len(lines), out)
	}
	if !strings.HasPrefix(lines[0], s.G.String()) || !strings.Contains(lines[0], "prev=<a> next=<b>") {
		t.Errorf("unexpected group line %q", lines[0])
	}
	if lines[1] != "  <x>" || lines[2] != "  <y>" {
		t.Errorf("unexpected real node lines %q, %q", lines[1], lines[2])
	}
	if !strings.HasPrefix(lines[3], "  "+H.String()) || !strings.Contains(lines[3], "prev=<y> next=<b>") {
		t.Errorf("unexpected nested group line %q", lines[3])
	}
}
