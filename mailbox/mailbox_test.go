package mailbox

import (
	"testing"

	"loosemac/node"
)

func TestPutGetRoundTrip(t *testing.T) {
	mb := New()
	msg := node.Msg{Kind: node.Beacon, From: 1}
	mb.Put(2, msg)

	item, ok := mb.Get(2)
	if !ok {
		t.Fatalf("Get(2) ok = false, want true")
	}
	if item.Corrupt {
		t.Fatalf("Get(2).Corrupt = true, want false")
	}
	if item.Msg != msg {
		t.Fatalf("Get(2).Msg = %+v, want %+v", item.Msg, msg)
	}
}

func TestCollisionFusion(t *testing.T) {
	mb := New()
	mb.Put(2, node.Msg{Kind: node.Beacon, From: 1})
	mb.Put(2, node.Msg{Kind: node.Beacon, From: 3})

	item, ok := mb.Get(2)
	if !ok || !item.Corrupt {
		t.Fatalf("Get(2) = (%+v, %v), want corrupt item", item, ok)
	}
}

func TestCollisionFusionIsIdempotent(t *testing.T) {
	mb := New()
	mb.Put(2, node.Msg{Kind: node.Beacon, From: 1})
	mb.Put(2, node.Msg{Kind: node.Beacon, From: 3})
	mb.Put(2, node.Msg{Kind: node.Beacon, From: 4})

	item, ok := mb.Get(2)
	if !ok || !item.Corrupt {
		t.Fatalf("Get(2) after repeated collisions = (%+v, %v), want corrupt item", item, ok)
	}
}

func TestResetClearsMailbox(t *testing.T) {
	mb := New()
	mb.Put(2, node.Msg{Kind: node.Beacon, From: 1})
	mb.Reset()

	if !mb.Empty() {
		t.Fatalf("Empty() = false after Reset, want true")
	}
	if _, ok := mb.Get(2); ok {
		t.Fatalf("Get(2) after Reset ok = true, want false")
	}
}

func TestRecipientsSorted(t *testing.T) {
	mb := New()
	mb.Put(3, node.Msg{Kind: node.Beacon, From: 1})
	mb.Put(1, node.Msg{Kind: node.Beacon, From: 1})
	mb.Put(2, node.Msg{Kind: node.Beacon, From: 1})

	got := mb.Recipients()
	want := []int{1, 2, 3}
	if len(got) != len(want) {
		t.Fatalf("Recipients() = %v, want %v", got, want)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Fatalf("Recipients() = %v, want %v", got, want)
		}
	}
}
