package fraggle

import "fmt"

// Node is either a real node of the host tree or a *Group.
// Real nodes are opaque to this package; they must be comparable, as they
// are used as map keys (pointer types are the natural choice).
type Node interface{}

// Kind is the result of classifying a node.
type Kind int8

// Node kinds. KindNone is reserved for nil nodes, KindInvalid for nodes the
// classifier cannot resolve.
const (
	KindNone Kind = iota
	KindReal
	KindGroup
	KindInvalid
)

func (k Kind) String() string {
	switch k {
	case KindNone:
		return "none"
	case KindReal:
		return "real"
	case KindGroup:
		return "group"
	}
	return "invalid"
}

// Classifier tells real nodes from groups.
type Classifier func(n Node) Kind

// DefaultClassifier treats *Group values as groups and every other non-nil
// value as a real node.
func DefaultClassifier(n Node) Kind {
	switch x := n.(type) {
	case nil:
		return KindNone
	case *Group:
		if x == nil {
			return KindNone
		}
		return KindGroup
	}
	return KindReal
}

// Adapter gives access to the mutation primitives and navigation of the real
// tree. Implementations must return an untyped nil for absent nodes.
//
// InsertBefore with a nil ref appends. Both insertion primitives have to
// detach child from a previous parent, as the DOM does.
type Adapter interface {
	InsertBefore(parent, child, ref Node) error
	AppendChild(parent, child Node) error
	Contains(n, other Node) bool
	RootNode(n Node) Node
	HasChildNodes(n Node) bool
	ParentNode(n Node) Node
	FirstChild(n Node) Node
	PreviousSibling(n Node) Node
	NextSibling(n Node) Node
}

// Config configures an Overlay.
type Config struct {
	// Adapter operates on the real tree. Required.
	Adapter Adapter
	// Classifier tells real nodes from groups. Defaults to DefaultClassifier.
	Classifier Classifier
	// TrackDependents switches on the index of nodes which currently refer to
	// a node as their previous or next sibling.
	TrackDependents bool
}

func (cfg Config) normalized() Config {
	if cfg.Classifier == nil {
		cfg.Classifier = DefaultClassifier
	}
	return cfg
}

func (cfg Config) validate() error {
	cfg = cfg.normalized()
	if cfg.Adapter == nil {
		return fmt.Errorf("%w: adapter is required", ErrInvalidConfig)
	}
	return nil
}
