package fsm

import "testing"

// TestDispatchTableIsTotal asserts the exhaustiveness spec.md section 4.D
// requires: every (state, event) cell has a defined handler, including the
// documented no-ops, so a new state or event added to the table later
// can't silently leave a cell nil.
func TestDispatchTableIsTotal(t *testing.T) {
	for state := 0; state < len(table); state++ {
		for evt := 0; evt < len(table[state]); evt++ {
			if table[state][evt] == nil {
				t.Errorf("table[%d][%d] is nil, every cell must be populated", state, evt)
			}
		}
	}
}
