// Package report implements the two output streams required by spec.md
// section 6: a human-readable event trace, and a per-tick status dump.
//
// The status dump is grounded directly on the teacher's
// checking.predicateCheckerResponse.Response, which renders a sequence of
// states through a text/tabwriter; the event trace follows the same
// plain-Fprintf-to-an-io.Writer style the teacher uses throughout
// examples/server/server.go for operational logging.
package report

import (
	"fmt"
	"io"
	"sort"

	"loosemac/node"
)

// Trace writes one line per protocol event to an underlying io.Writer. It
// implements fsm.EventSink structurally: package report does not import
// package fsm, and neither imports the other; package engine wires a Trace
// in as the sink.
type Trace struct {
	w io.Writer
}

// NewTrace returns a Trace that writes to w.
func NewTrace(w io.Writer) *Trace {
	return &Trace{w: w}
}

func (t *Trace) Sent(tick, from int, kind node.MsgKind, recipients []int) {
	ids := append([]int(nil), recipients...)
	sort.Ints(ids)
	if len(ids) == 0 {
		fmt.Fprintf(t.w, "tick %d: node %d sends %s to no one\n", tick, from, kind)
		return
	}
	fmt.Fprintf(t.w, "tick %d: node %d sends %s to %v\n", tick, from, kind, ids)
}

func (t *Trace) ConflictReportSent(tick, from int, recipients []int) {
	ids := append([]int(nil), recipients...)
	sort.Ints(ids)
	fmt.Fprintf(t.w, "tick %d: node %d sends CONFLICT_REPORT to %v\n", tick, from, ids)
}

func (t *Trace) Received(tick, to, from int, kind node.MsgKind) {
	fmt.Fprintf(t.w, "tick %d: node %d receives %s from node %d\n", tick, to, kind, from)
}

func (t *Trace) Corrupted(tick, to int) {
	fmt.Fprintf(t.w, "tick %d: node %d receives CORRUPT (collision)\n", tick, to)
}

func (t *Trace) MarkingConflict(tick, receiver, sender, slot int) {
	fmt.Fprintf(t.w, "tick %d: node %d detects marking conflict: slot %d already claimed, but node %d beacons it\n", tick, receiver, slot, sender)
}

func (t *Trace) SlotReassigned(tick, id, oldSlot, newSlot int) {
	fmt.Fprintf(t.w, "tick %d: node %d reassigns slot %d -> %d\n", tick, id, oldSlot, newSlot)
}

func (t *Trace) Promoted(tick, id int) {
	fmt.Fprintf(t.w, "tick %d: node %d becomes READY\n", tick, id)
}
