package realtime

import (
	"sync"

	"github.com/adarsh-naik-2004/bats-admin/internal/domain"
)

// Feed holds the in-view order list and owns the merge policy for incoming
// events: newest first, arrival order, no reordering.
//
// Deduplication is an explicit policy decision. The channel may redeliver an
// event after a reconnect, and without dedup the order then appears twice,
// exactly as the event arrived. WithDeduplication makes redelivery update the
// existing entry in place instead.
type Feed struct {
	mu       sync.Mutex
	orders   []domain.Order
	dedupe   bool
	onInsert func(domain.Order)
}

type FeedOption func(*Feed)

// WithDeduplication merges an already-listed order id in place instead of
// prepending a second copy.
func WithDeduplication() FeedOption {
	return func(f *Feed) { f.dedupe = true }
}

// WithNotify installs the user-visible "new order" hook, fired only for
// events that actually prepend a new entry.
func WithNotify(fn func(domain.Order)) FeedOption {
	return func(f *Feed) { f.onInsert = fn }
}

func NewFeed(opts ...FeedOption) *Feed {
	f := &Feed{}
	for _, opt := range opts {
		opt(f)
	}
	return f
}

// Load replaces the feed contents with an initial list fetch.
func (f *Feed) Load(orders []domain.Order) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.orders = append([]domain.Order(nil), orders...)
}

// Merge applies one order event. Returns true when the event prepended a new
// entry, false when it updated a listed order in place.
func (f *Feed) Merge(evt domain.OrderEvent) bool {
	f.mu.Lock()

	if f.dedupe {
		for i := range f.orders {
			if f.orders[i].ID == evt.Order.ID {
				f.orders[i] = evt.Order
				f.mu.Unlock()
				return false
			}
		}
	}

	f.orders = append([]domain.Order{evt.Order}, f.orders...)
	notify := f.onInsert
	f.mu.Unlock()

	if notify != nil {
		notify(evt.Order)
	}
	return true
}

// Snapshot returns a copy of the current list, newest first.
func (f *Feed) Snapshot() []domain.Order {
	f.mu.Lock()
	defer f.mu.Unlock()
	return append([]domain.Order(nil), f.orders...)
}

func (f *Feed) Len() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return len(f.orders)
}
