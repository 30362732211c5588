package fsm

import (
	"math/rand"

	"loosemac/node"
)

// InitialSlot assigns a node its first slot, per spec.md section 4.G:
// "then get_new_slot to pick the initial slot." The node's marking vector
// is empty at this point, so this is get_new_slot's same algorithm with
// nothing yet to remove.
func InitialSlot(n *node.Node, r *rand.Rand) int {
	ctx := &Context{Node: n, Tick: 0, RNG: r}
	return getNewSlot(ctx)
}
