package fsm

import (
	"loosemac/node"
	"loosemac/slotframe"
)

// sentMsg implements spec.md section 4.E sent_msg: the node transmits
// ctx.Msg to every neighbor, clears its pending-beacon flag (and its
// pending-conflict flag too when the message is BEACON_CONFLICT), schedules
// its next promotion, and moves to WAITING.
func sentMsg(ctx *Context) {
	n := ctx.Node
	for _, v := range n.Neighbors {
		ctx.Mailbox.Put(v, ctx.Msg)
	}
	ctx.Sink.Sent(ctx.Tick, n.ID, ctx.Msg.Kind, n.Neighbors)

	n.SndHello = false
	if ctx.Msg.Kind == node.BeaconConflict {
		n.SndError = false
	}
	n.SetReadyTime(ctx.Tick + n.Lambda)
	n.State = node.Waiting
}

// heardBeacon implements spec.md section 4.E heard_beacon. It runs for a
// node in NOTREADY or WAITING (the table wires it into both rows); it is
// a no-op for READY via the dispatch table, not via a state check here.
func heardBeacon(ctx *Context) {
	n := ctx.Node
	slot := slotframe.TimeToSlot(ctx.Tick, n.Lambda)

	ctx.Sink.Received(ctx.Tick, n.ID, ctx.Sender, node.Beacon)

	if n.Vectors.Has(slot) {
		// Slot already claimed (and, by assumption, not by the sender,
		// since the sender is transmitting into it right now).
		n.SndError = true
		ctx.Sink.MarkingConflict(ctx.Tick, n.ID, ctx.Sender, slot)
		return
	}

	// Senders move: drop any stale entry recorded under a previous slot.
	if stale, ok := n.Vectors.SlotOf(ctx.Sender); ok {
		n.Vectors.Delete(stale)
	}
	n.Vectors.Set(slot, ctx.Sender)
}

// heardConflict implements spec.md section 4.E heard_conflict: unconditional
// within WAITING (the only row it is wired into).
func heardConflict(ctx *Context) {
	n := ctx.Node
	ctx.Sink.Received(ctx.Tick, n.ID, ctx.Sender, node.ConflictReport)

	n.ClearReadyTime()
	n.State = node.NotReady
	oldSlot := n.Slot
	newSlot := getNewSlot(ctx)
	ctx.Sink.SlotReassigned(ctx.Tick, n.ID, oldSlot, newSlot)
	n.SndHello = true
}

// collisionNoreset implements spec.md section 4.E collision_noreset.
func collisionNoreset(ctx *Context) {
	ctx.Sink.Corrupted(ctx.Tick, ctx.Node.ID)
	ctx.Node.SndError = true
}

// collisionReset implements spec.md section 4.E collision_reset.
func collisionReset(ctx *Context) {
	collisionNoreset(ctx)

	n := ctx.Node
	n.ClearReadyTime()
	n.State = node.NotReady
	oldSlot := n.Slot
	newSlot := getNewSlot(ctx)
	ctx.Sink.SlotReassigned(ctx.Tick, n.ID, oldSlot, newSlot)
	n.SndHello = true
}

// makeReady implements spec.md section 4.E make_ready.
func makeReady(ctx *Context) {
	n := ctx.Node
	if n.ReadyTime == nil || *n.ReadyTime != ctx.Tick {
		return
	}
	n.State = node.Ready
	ctx.Sink.Promoted(ctx.Tick, n.ID)
}

// getNewSlot implements spec.md section 4.E get_new_slot. It resolves the
// starvation open question (section 9.2 / SPEC_FULL.md component K) by
// construction rather than by an eviction policy: because the marking
// vector is keyed by slot (node.Vectors can hold at most lambda entries,
// one per slot), removing the self-entry in step 1 before drawing a
// replacement guarantees at least one free slot — the one just vacated —
// for the random search below, so the search is always bounded.
func getNewSlot(ctx *Context) int {
	n := ctx.Node

	n.Vectors.Delete(n.Slot)

	var newSlot int
	if s, ok := n.PopDefaultSlot(); ok {
		newSlot = s
	} else {
		newSlot = pickFreeSlot(ctx)
	}

	n.Vectors.Set(newSlot, n.ID)
	n.Slot = newSlot
	return newSlot
}

// pickFreeSlot draws uniformly from [1, lambda] slots not already recorded
// as occupied in the node's marking vector. At least one such slot always
// exists (see getNewSlot).
func pickFreeSlot(ctx *Context) int {
	n := ctx.Node
	for {
		candidate := ctx.RNG.Intn(n.Lambda) + 1
		if !n.Vectors.Has(candidate) {
			return candidate
		}
	}
}
