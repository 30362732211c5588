package slotframe

import "testing"

func TestTimeToSlot(t *testing.T) {
	cases := []struct {
		tick, lambda, want int
	}{
		{1, 3, 1},
		{2, 3, 2},
		{3, 3, 3},
		{4, 3, 1},
		{5, 3, 2},
		{6, 3, 3},
		{7, 3, 1},
		{1, 1, 1},
		{2, 1, 1},
		{100, 1, 1},
	}
	for _, c := range cases {
		if got := TimeToSlot(c.tick, c.lambda); got != c.want {
			t.Errorf("TimeToSlot(%d, %d) = %d, want %d", c.tick, c.lambda, got, c.want)
		}
	}
}

func TestTimeToSlotStaysInRange(t *testing.T) {
	const lambda = 5
	for tick := 1; tick <= 100; tick++ {
		slot := TimeToSlot(tick, lambda)
		if slot < 1 || slot > lambda {
			t.Fatalf("TimeToSlot(%d, %d) = %d, out of [1, %d]", tick, lambda, slot, lambda)
		}
	}
}
