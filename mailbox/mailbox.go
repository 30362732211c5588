// Package mailbox implements the single-tick, one-hop broadcast medium
// described in spec.md section 4.C: a partial mapping from recipient id to
// a delivered item, with collision fusion on repeated writes.
//
// Grounded on the teacher's network.mockConn pairwise channel medium,
// adapted from a two-party streaming connection to a broadcast, single-
// writer-per-tick store with an explicit corruption sentinel instead of
// blocking channel semantics — the tick loop in package engine is already
// serial, so there is no concurrency for the medium itself to arbitrate.
package mailbox

import (
	"golang.org/x/exp/maps"
	"golang.org/x/exp/slices"

	"loosemac/node"
)

// Item is a delivered mailbox entry: either a pristine message, or the
// CORRUPT sentinel recorded when two transmissions land on the same
// recipient within the same tick.
type Item struct {
	Msg     node.Msg
	Corrupt bool
}

// Mailbox is the broadcast medium for a single tick. It must be cleared
// (via Reset) before each tick begins.
type Mailbox struct {
	items map[int]Item
}

// New returns an empty mailbox.
func New() *Mailbox {
	return &Mailbox{items: map[int]Item{}}
}

// Put delivers msg to recipient. If recipient already has an item recorded
// this tick — pristine or already CORRUPT — the entry is fused into
// CORRUPT. A second CORRUPT fusion onto an already-corrupt entry is a
// no-op, satisfying the idempotence law in spec.md section 8.
func (mb *Mailbox) Put(recipient int, msg node.Msg) {
	if _, exists := mb.items[recipient]; exists {
		mb.items[recipient] = Item{Corrupt: true}
		return
	}
	mb.items[recipient] = Item{Msg: msg}
}

// Get returns the item recorded for recipient this tick, if any.
func (mb *Mailbox) Get(recipient int) (Item, bool) {
	item, ok := mb.items[recipient]
	return item, ok
}

// Recipients returns the ids with a delivered item this tick, in ascending
// order, so the tick loop can dispatch deliveries deterministically.
func (mb *Mailbox) Recipients() []int {
	ids := maps.Keys(mb.items)
	slices.Sort(ids)
	return ids
}

// Empty reports whether no items are recorded this tick.
func (mb *Mailbox) Empty() bool {
	return len(mb.items) == 0
}

// Reset clears the mailbox. Must be called at the start of every tick.
func (mb *Mailbox) Reset() {
	mb.items = map[int]Item{}
}
