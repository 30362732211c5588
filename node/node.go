// Package node holds the per-node data model of the LooseMAC simulation:
// the finite-state value, slot bookkeeping, pending send flags, and the
// marking vector. It is a pure data container — business logic belongs to
// package fsm, which mutates these values according to the protocol rules.
package node

import (
	"fmt"

	"golang.org/x/exp/maps"
	"golang.org/x/exp/slices"
)

// State is the FSM state of a node.
type State int

const (
	NotReady State = iota
	Waiting
	Ready
)

func (s State) String() string {
	switch s {
	case NotReady:
		return "NOTREADY"
	case Waiting:
		return "WAITING"
	case Ready:
		return "READY"
	default:
		return fmt.Sprintf("State(%d)", int(s))
	}
}

// MsgKind identifies the payload of a message carried through the mailbox.
type MsgKind int

const (
	Beacon MsgKind = iota
	ConflictReport
	BeaconConflict
)

func (k MsgKind) String() string {
	switch k {
	case Beacon:
		return "BEACON"
	case ConflictReport:
		return "CONFLICT_REPORT"
	case BeaconConflict:
		return "BEACON_CONFLICT"
	default:
		return fmt.Sprintf("MsgKind(%d)", int(k))
	}
}

// Msg is a pristine (non-corrupted) item carried through the mailbox.
type Msg struct {
	Kind MsgKind
	From int
}

// Vectors is the marking vector: a mapping from slot to the id of the node
// believed to own that slot. It always contains the node's own self-entry
// once initialized. Because the key space is the slot itself (1..lambda),
// the map can never hold more than lambda entries — a fact get_new_slot
// relies on to rule out the starvation case in spec.md section 9.2 (see
// package fsm's getNewSlot).
type Vectors struct {
	entries map[int]int // slot -> owner id
}

// NewVectors returns an empty marking vector.
func NewVectors() *Vectors {
	return &Vectors{entries: map[int]int{}}
}

// Owner returns the id recorded for slot, and whether an entry exists.
func (v *Vectors) Owner(slot int) (int, bool) {
	owner, ok := v.entries[slot]
	return owner, ok
}

// Set records owner as the owner of slot.
func (v *Vectors) Set(slot, owner int) {
	v.entries[slot] = owner
}

// Delete removes any entry for slot.
func (v *Vectors) Delete(slot int) {
	delete(v.entries, slot)
}

// Has reports whether slot has a recorded owner.
func (v *Vectors) Has(slot int) bool {
	_, ok := v.entries[slot]
	return ok
}

// Len returns the number of occupied slots.
func (v *Vectors) Len() int {
	return len(v.entries)
}

// Keys returns the occupied slots in ascending order.
func (v *Vectors) Keys() []int {
	keys := maps.Keys(v.entries)
	slices.Sort(keys)
	return keys
}

// SlotOf scans the vector for an entry owned by owner and returns its slot.
// Used when a sender is observed claiming a new slot, to find and remove
// any stale entry recorded under its previous slot.
func (v *Vectors) SlotOf(owner int) (int, bool) {
	for slot, o := range v.entries {
		if o == owner {
			return slot, true
		}
	}
	return 0, false
}

// Snapshot returns a copy of the vector as a plain map, for reporting.
func (v *Vectors) Snapshot() map[int]int {
	out := make(map[int]int, len(v.entries))
	for slot, owner := range v.entries {
		out[slot] = owner
	}
	return out
}

// Node is the per-node state container described in spec.md section 3.
type Node struct {
	ID        int
	Neighbors []int // ordered set of one-hop neighbor ids
	Lambda    int   // frame length, fixed for the run

	State State
	Slot  int

	// DefaultSlots is consumed head-first on each reassignment via
	// PopDefaultSlot, then stays empty for the remainder of the run.
	DefaultSlots []int

	SndHello bool
	SndError bool

	Vectors *Vectors

	// ReadyTime is the tick at which a WAITING node promotes to READY,
	// if uninterrupted. nil means no promotion is scheduled.
	ReadyTime *int
}

// New constructs a node in its initial lifecycle state: NOTREADY, an empty
// marking vector, a pending beacon, no pending conflict report, and no
// scheduled promotion. The caller (package engine) is responsible for then
// assigning an initial slot via the fsm package's get_new_slot routine.
func New(id int, neighbors []int, lambda int, defaultSlots []int) *Node {
	n := &Node{
		ID:           id,
		Neighbors:    append([]int(nil), neighbors...),
		Lambda:       lambda,
		State:        NotReady,
		DefaultSlots: append([]int(nil), defaultSlots...),
		SndHello:     true,
		SndError:     false,
		Vectors:      NewVectors(),
	}
	return n
}

// PopDefaultSlot removes and returns the head of DefaultSlots, if any.
func (n *Node) PopDefaultSlot() (int, bool) {
	if len(n.DefaultSlots) == 0 {
		return 0, false
	}
	s := n.DefaultSlots[0]
	n.DefaultSlots = slices.Delete(n.DefaultSlots, 0, 1)
	return s, true
}

// SetReadyTime schedules a promotion at tick.
func (n *Node) SetReadyTime(tick int) {
	t := tick
	n.ReadyTime = &t
}

// ClearReadyTime cancels any scheduled promotion.
func (n *Node) ClearReadyTime() {
	n.ReadyTime = nil
}

// HasNeighbor reports whether id is a one-hop neighbor of n.
func (n *Node) HasNeighbor(id int) bool {
	return slices.Contains(n.Neighbors, id)
}
