// Package engine implements the global tick loop of spec.md section 4.F:
// the strict per-tick phase ordering (send, deliver, ready-check,
// termination) that drives every node through the LooseMAC protocol.
//
// Grounded on the teacher's simulator.Simulator / runSimulator main loop
// (construction via functional options, a Run/Simulate entry point,
// termination once a global condition holds), adapted from the teacher's
// concurrent, many-interleavings exploration to the single deterministic
// run spec.md section 5 calls for: one tick loop, no goroutines, no
// scheduler choosing among interleavings — the phase order itself is the
// only "schedule".
package engine

import (
	"fmt"
	"io"
	"math/rand"

	"golang.org/x/exp/slices"

	"loosemac/fsm"
	"loosemac/graph"
	"loosemac/mailbox"
	"loosemac/node"
	"loosemac/report"
	"loosemac/rng"
	"loosemac/slotframe"
)

// Option configures an Engine. Concrete option types are unexported, in
// the style of the teacher's config.go SchedulerOption/SimulatorOption:
// New calls each option's apply method over the slice of options gathered
// at construction time, rather than taking a struct literal the caller
// populates directly.
type Option interface {
	apply(*config)
}

type config struct {
	maxTicks int
	seed     int64
	trace    fsm.EventSink
	status   *report.Status
}

type maxTicksOption struct{ n int }

func (o maxTicksOption) apply(c *config) { c.maxTicks = o.n }

// WithMaxTicks bounds the simulation to n ticks. If n is exceeded before
// every node reaches READY, Run returns a *NonConvergenceError instead of
// running forever. The default, 0, means unbounded.
func WithMaxTicks(n int) Option { return maxTicksOption{n} }

type seedOption struct{ seed int64 }

func (o seedOption) apply(c *config) { c.seed = o.seed }

// WithSeed fixes the random stream used for get_new_slot's random draws,
// per spec.md section 5's determinism requirement. Default: 1.
func WithSeed(seed int64) Option { return seedOption{seed} }

type traceOption struct{ w io.Writer }

func (o traceOption) apply(c *config) { c.trace = report.NewTrace(o.w) }

// WithTrace attaches the human-readable event trace output stream
// described in spec.md section 6. Default: events are discarded.
func WithTrace(w io.Writer) Option { return traceOption{w} }

type statusOption struct{ w io.Writer }

func (o statusOption) apply(c *config) { c.status = report.NewStatus(o.w) }

// WithStatusWriter attaches the per-tick status report stream described in
// spec.md section 6. Default: no status report is written.
func WithStatusWriter(w io.Writer) Option { return statusOption{w} }

// Engine owns the node table, mailbox, and random stream exclusively for
// the duration of a run, per spec.md section 5: "Graph, node table,
// mailbox, and global counters are all exclusively owned by the tick
// loop. No locks are needed."
type Engine struct {
	lambda int
	nodes  map[int]*node.Node
	ids    []int // ascending, fixed for the run
	mbox   *mailbox.Mailbox
	rng    *rand.Rand
	sink   fsm.EventSink
	status *report.Status

	maxTicks int
}

// New builds an Engine from a parsed graph.Spec. Every node is initialized
// per spec.md section 4.G: NOTREADY, empty marking vector, a pending
// beacon, no pending conflict report, then an initial slot via
// fsm.InitialSlot.
func New(spec *graph.Spec, opts ...Option) *Engine {
	cfg := config{
		maxTicks: 0,
		seed:     1,
		trace:    fsm.NopSink{},
		status:   nil,
	}
	for _, opt := range opts {
		opt.apply(&cfg)
	}

	source := rng.New(cfg.seed)

	nodes := make(map[int]*node.Node, len(spec.Nodes))
	ids := make([]int, 0, len(spec.Nodes))
	for _, ns := range spec.Nodes {
		n := node.New(ns.ID, ns.Neighbors, spec.Lambda, ns.DefaultSlots)
		fsm.InitialSlot(n, source)
		nodes[ns.ID] = n
		ids = append(ids, ns.ID)
	}
	slices.Sort(ids)

	return &Engine{
		lambda:   spec.Lambda,
		nodes:    nodes,
		ids:      ids,
		mbox:     mailbox.New(),
		rng:      source,
		sink:     cfg.trace,
		status:   cfg.status,
		maxTicks: cfg.maxTicks,
	}
}

// Nodes returns the live node table, keyed by id. Callers must not mutate
// it; it is exposed for inspection (tests, reporting) only.
func (e *Engine) Nodes() map[int]*node.Node {
	return e.nodes
}

// Result is returned by a Run that converges.
type Result struct {
	Ticks int
}

// NonConvergenceError is returned when a run exceeds its configured
// maximum tick bound without every node reaching READY, per spec.md
// section 7: "a caller-supplied tick bound may be enforced; exceeding it
// is reported as non-convergence, not a crash."
type NonConvergenceError struct {
	Tick     int
	NotReady []int
	Waiting  []int
	Ready    []int
}

func (e *NonConvergenceError) Error() string {
	return fmt.Sprintf("loosemac: simulation did not converge within %d ticks (NOTREADY=%v WAITING=%v READY=%v)",
		e.Tick, e.NotReady, e.Waiting, e.Ready)
}

// Run drives the tick loop until every node reaches READY, or until the
// configured tick bound is exceeded.
func (e *Engine) Run() (*Result, error) {
	tick := 0
	for {
		tick++
		if e.maxTicks > 0 && tick > e.maxTicks {
			notReady, waiting, ready := e.rosters()
			return nil, &NonConvergenceError{Tick: tick - 1, NotReady: notReady, Waiting: waiting, Ready: ready}
		}

		e.mbox.Reset()
		e.phaseSend(tick)
		e.phaseDeliver(tick)
		e.phaseReadyCheck(tick)

		if e.status != nil {
			e.status.Write(tick, e.nodes)
		}

		if e.allReady() {
			return &Result{Ticks: tick}, nil
		}
	}
}

// phaseSend implements spec.md section 4.F Phase 1.
func (e *Engine) phaseSend(tick int) {
	for _, id := range e.ids {
		n := e.nodes[id]
		if n.State == node.Ready {
			continue
		}
		if n.Slot != slotframe.TimeToSlot(tick, e.lambda) {
			continue
		}

		switch {
		case !n.SndHello && n.SndError:
			// A conflict report consumes the send slot without going
			// through the SentMsg dispatch: it does not reschedule
			// ready_time and does not change state (spec.md section 9.4).
			for _, v := range n.Neighbors {
				e.mbox.Put(v, node.Msg{Kind: node.ConflictReport, From: n.ID})
			}
			e.sink.ConflictReportSent(tick, n.ID, n.Neighbors)
			n.SndError = false
		case n.SndHello && !n.SndError:
			e.dispatchSend(n, tick, node.Beacon)
		case n.SndHello && n.SndError:
			e.dispatchSend(n, tick, node.BeaconConflict)
		default:
			// !SndHello && !SndError: silent this slot.
		}
	}
}

func (e *Engine) dispatchSend(n *node.Node, tick int, kind node.MsgKind) {
	ctx := &fsm.Context{
		Node:    n,
		Tick:    tick,
		Msg:     node.Msg{Kind: kind, From: n.ID},
		Mailbox: e.mbox,
		RNG:     e.rng,
		Sink:    e.sink,
	}
	fsm.Dispatch(fsm.SentMsg, ctx)
}

// phaseDeliver implements spec.md section 4.F Phase 2.
func (e *Engine) phaseDeliver(tick int) {
	for _, id := range e.mbox.Recipients() {
		n, ok := e.nodes[id]
		if !ok {
			continue
		}
		item, _ := e.mbox.Get(id)

		if item.Corrupt {
			ctx := e.context(n, tick, 0)
			fsm.Dispatch(fsm.DetectedCollision, ctx)
			continue
		}

		switch item.Msg.Kind {
		case node.Beacon:
			ctx := e.context(n, tick, item.Msg.From)
			fsm.Dispatch(fsm.HeardBeacon, ctx)
		case node.ConflictReport:
			ctx := e.context(n, tick, item.Msg.From)
			fsm.Dispatch(fsm.HeardConflict, ctx)
		case node.BeaconConflict:
			ctx := e.context(n, tick, item.Msg.From)
			fsm.Dispatch(fsm.HeardBeacon, ctx)
			fsm.Dispatch(fsm.HeardConflict, ctx)
		}
	}
}

// phaseReadyCheck implements spec.md section 4.F Phase 3.
func (e *Engine) phaseReadyCheck(tick int) {
	for _, id := range e.ids {
		n := e.nodes[id]
		if n.ReadyTime == nil {
			continue
		}
		ctx := e.context(n, tick, 0)
		fsm.Dispatch(fsm.WaitIsOver, ctx)
	}
}

func (e *Engine) context(n *node.Node, tick, sender int) *fsm.Context {
	return &fsm.Context{
		Node:    n,
		Tick:    tick,
		Sender:  sender,
		Mailbox: e.mbox,
		RNG:     e.rng,
		Sink:    e.sink,
	}
}

func (e *Engine) allReady() bool {
	for _, id := range e.ids {
		if e.nodes[id].State != node.Ready {
			return false
		}
	}
	return true
}

func (e *Engine) rosters() (notReady, waiting, ready []int) {
	for _, id := range e.ids {
		switch e.nodes[id].State {
		case node.NotReady:
			notReady = append(notReady, id)
		case node.Waiting:
			waiting = append(waiting, id)
		case node.Ready:
			ready = append(ready, id)
		}
	}
	return
}
