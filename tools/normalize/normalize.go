// Package normalize scales raw count matrices into a bounded range.
package normalize

import (
	"fmt"
	"strings"

	"gonum.org/v1/gonum/mat"
)

// Policy selects how a matrix is scaled. One policy is applied uniformly across a run.
type Policy int

const (
	None Policy = iota
	Sum         // divide by the total, giving a probability distribution
	Max         // divide by the largest cell, giving 0..1 intensities
	Both        // Sum, then Max
)

var names = map[Policy]string{None: "none", Sum: "sum", Max: "max", Both: "both"}

func (p Policy) String() string {
	if n, ok := names[p]; ok {
		return n
	}
	return fmt.Sprintf("Policy(%d)", int(p))
}

// Parse maps none|sum|max|both to a Policy.
func Parse(s string) (Policy, error) {
	s = strings.ToLower(strings.TrimSpace(s))
	for p, n := range names {
		if n == s {
			return p, nil
		}
	}
	return None, fmt.Errorf("unknown normalization %q", s)
}

// Apply scales m in place according to p and returns it.
// A zero matrix is left unchanged by every policy.
func (p Policy) Apply(m *mat.Dense) *mat.Dense {
	switch p {
	case Sum:
		SumNormalize(m)
	case Max:
		MaxNormalize(m)
	case Both:
		SumNormalize(m)
		MaxNormalize(m)
	}
	return m
}

// SumNormalize divides every cell by the total of all cells.
func SumNormalize(m *mat.Dense) {
	if m.IsEmpty() {
		return
	}
	if total := mat.Sum(m); total != 0 {
		m.Scale(1/total, m)
	}
}

// MaxNormalize divides every cell by the largest cell.
func MaxNormalize(m *mat.Dense) {
	if m.IsEmpty() {
		return
	}
	if peak := mat.Max(m); peak != 0 {
		m.Scale(1/peak, m)
	}
}
