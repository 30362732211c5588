package graph

import (
	"errors"
	"strings"
	"testing"
)

func TestLoadValidGraph(t *testing.T) {
	in := "3 [2]\n" +
		"1 (1) 2 [1]\n" +
		"2 (2) 1 3 [2 5]\n" +
		"3 (1) 2 # trailing comment\n"

	spec, err := Load(strings.NewReader(in))
	if err != nil {
		t.Fatalf("Load() error = %v, want nil", err)
	}
	if spec.NumNodes != 3 || spec.Lambda != 2 {
		t.Fatalf("spec = %+v, want NumNodes=3 Lambda=2", spec)
	}
	if len(spec.Nodes) != 3 {
		t.Fatalf("len(Nodes) = %d, want 3", len(spec.Nodes))
	}

	n1 := spec.Nodes[0]
	if n1.ID != 1 || len(n1.Neighbors) != 1 || n1.Neighbors[0] != 2 {
		t.Errorf("Nodes[0] = %+v, want id 1 with neighbor [2]", n1)
	}
	if len(n1.DefaultSlots) != 1 || n1.DefaultSlots[0] != 1 {
		t.Errorf("Nodes[0].DefaultSlots = %v, want [1]", n1.DefaultSlots)
	}

	n2 := spec.Nodes[1]
	// 5 reduces modulo lambda=2 to slot 1 via slotframe.TimeToSlot.
	if len(n2.DefaultSlots) != 2 || n2.DefaultSlots[0] != 2 || n2.DefaultSlots[1] != 1 {
		t.Errorf("Nodes[1].DefaultSlots = %v, want [2 1] (5 reduced mod 2)", n2.DefaultSlots)
	}
}

func TestLoadDefaultLambdaIsNodeCount(t *testing.T) {
	spec, err := Load(strings.NewReader("2\n1 (0)\n2 (0)\n"))
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}
	if spec.Lambda != 2 {
		t.Fatalf("Lambda = %d, want 2 (defaulted to num_nodes)", spec.Lambda)
	}
}

func TestLoadMalformedLine(t *testing.T) {
	_, err := Load(strings.NewReader("not-a-number\n"))
	if !errors.Is(err, ErrMalformedLine) {
		t.Fatalf("err = %v, want ErrMalformedLine", err)
	}
}

func TestLoadNeighborNotDeclared(t *testing.T) {
	_, err := Load(strings.NewReader("2\n1 (1) 9\n2 (0)\n"))
	if !errors.Is(err, ErrNeighborNotDeclared) {
		t.Fatalf("err = %v, want ErrNeighborNotDeclared", err)
	}
}

func TestLoadDuplicateNodeID(t *testing.T) {
	_, err := Load(strings.NewReader("2\n1 (0)\n1 (0)\n"))
	if !errors.Is(err, ErrDuplicateNodeID) {
		t.Fatalf("err = %v, want ErrDuplicateNodeID", err)
	}
}

func TestLoadInvalidNumNodes(t *testing.T) {
	_, err := Load(strings.NewReader("0\n"))
	if !errors.Is(err, ErrInvalidNumNodes) {
		t.Fatalf("err = %v, want ErrInvalidNumNodes", err)
	}
}

func TestLoadInvalidLambda(t *testing.T) {
	_, err := Load(strings.NewReader("1 [0]\n1 (0)\n"))
	if !errors.Is(err, ErrInvalidLambda) {
		t.Fatalf("err = %v, want ErrInvalidLambda", err)
	}
}

func TestLoadTruncatedNodeRecords(t *testing.T) {
	_, err := Load(strings.NewReader("2\n1 (0)\n"))
	if !errors.Is(err, ErrMalformedLine) {
		t.Fatalf("err = %v, want ErrMalformedLine for truncated input", err)
	}
}

func TestLoadCommentsAndBlankLinesIgnored(t *testing.T) {
	in := "# a two-node graph\n\n2\n# node 1\n1 (0)\n\n2 (0)\n"
	spec, err := Load(strings.NewReader(in))
	if err != nil {
		t.Fatalf("Load() error = %v, want nil", err)
	}
	if len(spec.Nodes) != 2 {
		t.Fatalf("len(Nodes) = %d, want 2", len(spec.Nodes))
	}
}
