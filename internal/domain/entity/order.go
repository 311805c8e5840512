package entity

import (
	"fmt"
	"strings"
)

type ConnectionType string

const (
	ConnectionSequential ConnectionType = "sequential"
	ConnectionPath       ConnectionType = "path"
	ConnectionRandom     ConnectionType = "random"
)

var ConnectionTypes = []ConnectionType{ConnectionSequential, ConnectionPath, ConnectionRandom}

func ParseConnectionType(s string) (ConnectionType, error) {
	ct := ConnectionType(strings.ToLower(strings.TrimSpace(s)))
	for _, known := range ConnectionTypes {
		if ct == known {
			return ct, nil
		}
	}
	return "", InvalidConfigf("unknown connection type %q", s)
}

// ConnectionOrder lists point indices in visiting order. Consecutive entries
// form an edge.
type ConnectionOrder []int

// Segment is one edge of a connection order, as placement indices.
type Segment struct {
	From int
	To   int
}

// Validate reports whether o is a permutation of 1..n.
func (o ConnectionOrder) Validate(n int) error {
	if len(o) != n {
		return fmt.Errorf("order has %d entries, want %d", len(o), n)
	}
	seen := make([]bool, n+1)
	for pos, idx := range o {
		if idx < 1 || idx > n {
			return fmt.Errorf("order[%d] = %d out of range 1..%d", pos, idx, n)
		}
		if seen[idx] {
			return fmt.Errorf("order[%d] = %d repeats", pos, idx)
		}
		seen[idx] = true
	}
	return nil
}

func (o ConnectionOrder) Segments() []Segment {
	if len(o) < 2 {
		return nil
	}
	segs := make([]Segment, 0, len(o)-1)
	for i := 0; i+1 < len(o); i++ {
		segs = append(segs, Segment{From: o[i], To: o[i+1]})
	}
	return segs
}

// Rank returns the 1-based position of index in the order, or 0 if absent.
func (o ConnectionOrder) Rank(index int) int {
	for pos, idx := range o {
		if idx == index {
			return pos + 1
		}
	}
	return 0
}

func (o ConnectionOrder) Clone() ConnectionOrder {
	return append(ConnectionOrder(nil), o...)
}

func (o ConnectionOrder) String() string {
	parts := make([]string, len(o))
	for i, idx := range o {
		parts[i] = fmt.Sprint(idx)
	}
	return strings.Join(parts, "->")
}
