package report

import (
	"fmt"
	"io"
	"sort"
	"text/tabwriter"

	"loosemac/node"
)

// Status writes the per-tick status report required by spec.md section 6:
// every node's state, slot, adjacency, pending send flags, marking vector,
// and the per-state rosters.
type Status struct {
	w io.Writer
}

// NewStatus returns a Status that writes to w.
func NewStatus(w io.Writer) *Status {
	return &Status{w: w}
}

// Write renders the status of every node in nodes (keyed by id) at tick.
func (s *Status) Write(tick int, nodes map[int]*node.Node) {
	ids := make([]int, 0, len(nodes))
	for id := range nodes {
		ids = append(ids, id)
	}
	sort.Ints(ids)

	tw := tabwriter.NewWriter(s.w, 4, 4, 1, ' ', 0)
	fmt.Fprintf(tw, "tick %d\n", tick)
	fmt.Fprintln(tw, "id\tstate\tslot\tneighbors\tsnd_hello\tsnd_error\tvectors")
	rosters := map[node.State][]int{}
	for _, id := range ids {
		n := nodes[id]
		rosters[n.State] = append(rosters[n.State], id)
		fmt.Fprintf(tw, "%d\t%s\t%d\t%v\t%v\t%v\t%v\n",
			n.ID, n.State, n.Slot, n.Neighbors, n.SndHello, n.SndError, n.Vectors.Snapshot())
	}
	tw.Flush()

	fmt.Fprintf(s.w, "NOTREADY: %v\n", rosters[node.NotReady])
	fmt.Fprintf(s.w, "WAITING:  %v\n", rosters[node.Waiting])
	fmt.Fprintf(s.w, "READY:    %v\n", rosters[node.Ready])
}
