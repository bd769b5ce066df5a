package fraggle

import (
	"context"

	"github.com/guiguan/caster"
)

// MutationRecord describes a completed insertion.
type MutationRecord struct {
	Case            string // container/new node/reference kinds, e.g. "group/real/none"
	Target          Node   // the container
	Node            Node   // the inserted node, real node or group
	Added           []Node // real nodes inserted into the real tree, in order
	PreviousSibling Node   // real node before the inserted content
	NextSibling     Node   // real node after the inserted content
}

// Observe subscribes to mutation records. Every insertion completed after
// the call is offered as a MutationRecord on the returned channel, which has
// the given buffer capacity. Insertions never wait for subscribers: a record
// is dropped for a subscriber whose buffer is full. The subscription ends
// when ctx is done or the overlay is closed.
func (o *Overlay) Observe(ctx context.Context, capacity uint) (<-chan interface{}, error) {
	if o.closed {
		return nil, ErrClosed
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	if o.cast == nil {
		o.cast = caster.New(nil)
	}
	ch, ok := o.cast.Sub(ctx, capacity)
	if !ok {
		return nil, ErrClosed
	}
	return ch, nil
}

// Close ends all subscriptions. Insertions remain possible, but are no
// longer published.
func (o *Overlay) Close() {
	if o.closed {
		return
	}
	o.closed = true
	if o.cast != nil {
		o.cast.Close()
	}
}

func (o *Overlay) publish(rec MutationRecord) {
	if o.cast == nil || o.closed {
		return
	}
	o.cast.TryPub(rec) // full subscriber buffers drop the record
}
