// Package fsm implements the LooseMAC finite-state machine: the event
// dispatch table of spec.md section 4.D and the handlers of section 4.E.
//
// Grounded on the teacher's event package (event.Event / dispatch by kind)
// and scheduler package (a table-driven decision per (state, input) pair),
// generalized from the teacher's single-axis dispatch (by event kind alone,
// since its nodes have no FSM of their own) to the two-axis (state, event)
// table this protocol requires.
package fsm

import (
	"math/rand"

	"loosemac/mailbox"
	"loosemac/node"
)

// Event is one of the five symbols the tick loop dispatches.
type Event int

const (
	HeardBeacon Event = iota
	SentMsg
	HeardConflict
	DetectedCollision
	WaitIsOver
)

func (e Event) String() string {
	switch e {
	case HeardBeacon:
		return "HeardBeacon"
	case SentMsg:
		return "SentMsg"
	case HeardConflict:
		return "HeardConflict"
	case DetectedCollision:
		return "DetectedCollision"
	case WaitIsOver:
		return "WaitIsOver"
	default:
		return "Event(?)"
	}
}

// EventSink receives a record of every protocol event as it happens, for
// the event trace required by spec.md section 6. A nil-safe no-op sink is
// provided as NopSink for callers that don't need a trace.
type EventSink interface {
	Sent(tick, from int, kind node.MsgKind, recipients []int)
	ConflictReportSent(tick, from int, recipients []int)
	Received(tick, to, from int, kind node.MsgKind)
	Corrupted(tick, to int)
	MarkingConflict(tick, receiver, sender, slot int)
	SlotReassigned(tick, id, oldSlot, newSlot int)
	Promoted(tick, id int)
}

// NopSink discards every event.
type NopSink struct{}

func (NopSink) Sent(int, int, node.MsgKind, []int)       {}
func (NopSink) ConflictReportSent(int, int, []int)       {}
func (NopSink) Received(int, int, int, node.MsgKind)     {}
func (NopSink) Corrupted(int, int)                       {}
func (NopSink) MarkingConflict(int, int, int, int)       {}
func (NopSink) SlotReassigned(int, int, int, int)        {}
func (NopSink) Promoted(int, int)                        {}

// Context carries everything a handler needs: the node being mutated, the
// current tick, the mailbox to read from or write to, the sender of an
// inbound message (when applicable), the message being sent (when
// applicable), the shared random stream, and the event sink.
type Context struct {
	Node    *node.Node
	Tick    int
	Sender  int
	Msg     node.Msg
	Mailbox *mailbox.Mailbox
	RNG     *rand.Rand
	Sink    EventSink
}

// handler is the shape of every dispatch-table cell. No cell is nil: the
// no-op cells hold noop.
type handler func(*Context)

// table is the total (state, event) -> handler mapping of spec.md section
// 4.D. Every cell is populated explicitly, including the no-op ones,
// so the table's completeness can be asserted in dispatch_test.go rather
// than relying on a Go switch's non-enforced exhaustiveness.
var table = [3][5]handler{
	node.NotReady: {
		HeardBeacon:       heardBeacon,
		SentMsg:           sentMsg,
		HeardConflict:     noop,
		DetectedCollision: collisionNoreset,
		WaitIsOver:        noop,
	},
	node.Waiting: {
		HeardBeacon:       heardBeacon,
		SentMsg:           noop,
		HeardConflict:     heardConflict,
		DetectedCollision: collisionReset,
		WaitIsOver:        makeReady,
	},
	node.Ready: {
		HeardBeacon:       noop,
		SentMsg:           noop,
		HeardConflict:     noop,
		DetectedCollision: noop,
		WaitIsOver:        noop,
	},
}

func noop(*Context) {}

// Dispatch looks up the handler for (ctx.Node.State, evt) and runs it.
func Dispatch(evt Event, ctx *Context) {
	table[ctx.Node.State][evt](ctx)
}
