// Package graph implements the external input format of spec.md section 6
// and the error taxonomy of section 7: loading node count, frame length,
// adjacency, and optional default slots from a plain-text description.
//
// Grounded on the teacher's config.go functional-parameter gathering,
// adapted from flag/gRPC-option parsing to a line-oriented custom grammar
// with bufio.Scanner and strconv — no library in the retrieval pack offers
// a parser for an ad-hoc textual graph grammar, so this one component is
// built on the standard library by necessity (see DESIGN.md).
package graph

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"strconv"
	"strings"

	"loosemac/slotframe"
)

// Sentinel errors identifying the taxonomy of spec.md section 7. Use
// errors.Is against these to classify a Load failure.
var (
	ErrMalformedLine       = errors.New("graph: malformed input line")
	ErrNeighborNotDeclared = errors.New("graph: neighbor id not declared")
	ErrDuplicateNodeID     = errors.New("graph: duplicate node id")
	ErrInvalidNumNodes     = errors.New("graph: num_nodes must be >= 1")
	ErrInvalidLambda       = errors.New("graph: lambda must be >= 1")
)

// NodeSpec is one parsed node record.
type NodeSpec struct {
	ID           int
	Neighbors    []int
	DefaultSlots []int
}

// Spec is the fully parsed and validated input description.
type Spec struct {
	NumNodes int
	Lambda   int
	Nodes    []NodeSpec // in declaration order
}

// Load reads and validates an input description per spec.md section 6.
func Load(r io.Reader) (*Spec, error) {
	scanner := bufio.NewScanner(r)
	lineNo := 0

	nextRecord := func() ([]string, int, bool, error) {
		for scanner.Scan() {
			lineNo++
			line := stripComment(scanner.Text())
			tokens := tokenize(line)
			if len(tokens) == 0 {
				continue
			}
			return tokens, lineNo, true, nil
		}
		if err := scanner.Err(); err != nil {
			return nil, lineNo, false, err
		}
		return nil, lineNo, false, nil
	}

	header, headerLine, ok, err := nextRecord()
	if err != nil {
		return nil, err
	}
	if !ok {
		return nil, fmt.Errorf("%w: line %d: empty input, expected a header line", ErrMalformedLine, headerLine)
	}

	numNodes, lambda, err := parseHeader(header, headerLine)
	if err != nil {
		return nil, err
	}

	nodes := make([]NodeSpec, 0, numNodes)
	seen := map[int]int{} // id -> declaring line
	for len(nodes) < numNodes {
		tokens, line, ok, err := nextRecord()
		if err != nil {
			return nil, err
		}
		if !ok {
			return nil, fmt.Errorf("%w: line %d: expected %d node records, found %d", ErrMalformedLine, line, numNodes, len(nodes))
		}
		ns, err := parseNodeLine(tokens, line, lambda)
		if err != nil {
			return nil, err
		}
		if _, dup := seen[ns.ID]; dup {
			return nil, fmt.Errorf("%w: line %d: node %d already declared on line %d", ErrDuplicateNodeID, line, ns.ID, seen[ns.ID])
		}
		seen[ns.ID] = line
		nodes = append(nodes, ns)
	}

	for _, ns := range nodes {
		for _, nb := range ns.Neighbors {
			if _, ok := seen[nb]; !ok {
				return nil, fmt.Errorf("%w: node %d lists undeclared neighbor %d", ErrNeighborNotDeclared, ns.ID, nb)
			}
		}
	}

	return &Spec{NumNodes: numNodes, Lambda: lambda, Nodes: nodes}, nil
}

func parseHeader(tokens []string, line int) (numNodes, lambda int, err error) {
	if len(tokens) == 0 {
		return 0, 0, fmt.Errorf("%w: line %d: missing num_nodes", ErrMalformedLine, line)
	}
	numNodes, err = strconv.Atoi(tokens[0])
	if err != nil {
		return 0, 0, fmt.Errorf("%w: line %d: num_nodes %q is not an integer", ErrMalformedLine, line, tokens[0])
	}
	if numNodes < 1 {
		return 0, 0, fmt.Errorf("%w: line %d: got %d", ErrInvalidNumNodes, line, numNodes)
	}

	lambda = numNodes
	rest := tokens[1:]
	if len(rest) > 0 {
		vals, err := parseBracketed(rest, line)
		if err != nil {
			return 0, 0, err
		}
		if len(vals) != 1 {
			return 0, 0, fmt.Errorf("%w: line %d: expected a single bracketed lambda value", ErrMalformedLine, line)
		}
		lambda = vals[0]
	}
	if lambda < 1 {
		return 0, 0, fmt.Errorf("%w: line %d: got %d", ErrInvalidLambda, line, lambda)
	}
	return numNodes, lambda, nil
}

func parseNodeLine(tokens []string, line, lambda int) (NodeSpec, error) {
	if len(tokens) < 3 {
		return NodeSpec{}, fmt.Errorf("%w: line %d: expected \"id ( deg ) ...\"", ErrMalformedLine, line)
	}
	id, err := strconv.Atoi(tokens[0])
	if err != nil {
		return NodeSpec{}, fmt.Errorf("%w: line %d: node id %q is not an integer", ErrMalformedLine, line, tokens[0])
	}
	if tokens[1] != "(" {
		return NodeSpec{}, fmt.Errorf("%w: line %d: expected '(' after node id", ErrMalformedLine, line)
	}
	closeParen := indexOf(tokens, ")")
	if closeParen < 2 {
		return NodeSpec{}, fmt.Errorf("%w: line %d: missing ')' after neighbor count", ErrMalformedLine, line)
	}
	deg, err := strconv.Atoi(tokens[2])
	if err != nil {
		return NodeSpec{}, fmt.Errorf("%w: line %d: neighbor count %q is not an integer", ErrMalformedLine, line, tokens[2])
	}
	if closeParen != 3 {
		return NodeSpec{}, fmt.Errorf("%w: line %d: malformed \"( deg )\" group", ErrMalformedLine, line)
	}

	rest := tokens[closeParen+1:]
	if len(rest) < deg {
		return NodeSpec{}, fmt.Errorf("%w: line %d: declared %d neighbors but found %d", ErrMalformedLine, line, deg, len(rest))
	}
	neighbors := make([]int, 0, deg)
	for _, tok := range rest[:deg] {
		nb, err := strconv.Atoi(tok)
		if err != nil {
			return NodeSpec{}, fmt.Errorf("%w: line %d: neighbor id %q is not an integer", ErrMalformedLine, line, tok)
		}
		neighbors = append(neighbors, nb)
	}

	var defaultSlots []int
	if tail := rest[deg:]; len(tail) > 0 {
		vals, err := parseBracketed(tail, line)
		if err != nil {
			return NodeSpec{}, err
		}
		defaultSlots = make([]int, 0, len(vals))
		for _, v := range vals {
			if v < 1 {
				return NodeSpec{}, fmt.Errorf("%w: line %d: default slot %d must be >= 1", ErrMalformedLine, line, v)
			}
			defaultSlots = append(defaultSlots, slotframe.TimeToSlot(v, lambda))
		}
	}

	return NodeSpec{ID: id, Neighbors: neighbors, DefaultSlots: defaultSlots}, nil
}

// parseBracketed expects tokens of the form "[" v1 v2 ... "]" and returns
// the enclosed integers.
func parseBracketed(tokens []string, line int) ([]int, error) {
	if len(tokens) < 2 || tokens[0] != "[" || tokens[len(tokens)-1] != "]" {
		return nil, fmt.Errorf("%w: line %d: expected a bracketed list", ErrMalformedLine, line)
	}
	inner := tokens[1 : len(tokens)-1]
	vals := make([]int, 0, len(inner))
	for _, tok := range inner {
		v, err := strconv.Atoi(tok)
		if err != nil {
			return nil, fmt.Errorf("%w: line %d: %q is not an integer", ErrMalformedLine, line, tok)
		}
		vals = append(vals, v)
	}
	return vals, nil
}

func indexOf(tokens []string, s string) int {
	for i, t := range tokens {
		if t == s {
			return i
		}
	}
	return -1
}

func stripComment(line string) string {
	if i := strings.IndexByte(line, '#'); i >= 0 {
		return line[:i]
	}
	return line
}

// tokenize splits a line on arbitrary whitespace, treating '(', ')', '[',
// ']' as tokens in their own right even when not separated by whitespace
// in the source (e.g. "(3)" rather than "( 3 )").
func tokenize(line string) []string {
	var b strings.Builder
	for _, r := range line {
		switch r {
		case '(', ')', '[', ']':
			b.WriteByte(' ')
			b.WriteRune(r)
			b.WriteByte(' ')
		default:
			b.WriteRune(r)
		}
	}
	return strings.Fields(b.String())
}
