// Package pf implements the forward partition-function recursion, the
// outside (base-pair probability) recursion, and the ensemble summariser
// of spec.md §4.4-§4.7 — the heart of the cofold engine. It is grounded
// on pf_co and pf_co_bppm in
// _examples/original_source/src/ViennaRNA/part_func_co.c; the outside pass
// keeps their rolling accumulators, while the forward pass sums each
// cell's decompositions directly (see Forward).
package pf

import (
	"fmt"
	"math"

	"github.com/grailbio/base/log"
	"github.com/viennafold/cofold/energy"
	"github.com/viennafold/cofold/seqmodel"
)

// MaxLoop is the standard Turner-model cap on unpaired bases in an
// interior loop (spec.md GLOSSARY).
const MaxLoop = 30

// Tables owns every triangular buffer and scratch accumulator the forward
// and outside recursions read and write. A Tables value is created once per
// Cofold call and never shared across calls (spec.md §5).
type Tables struct {
	Idx *seqmodel.Index

	QB, QM, QM1, Q []float64 // spec.md §3 primary tables, iindx-packed
	Probs          []float64 // base-pair probabilities, same packing

	Scale     []float64 // scale[u] = pf_scale^-u
	ExpMLbase []float64 // expMLbase[u]: Boltzmann weight of u unpaired multiloop bases
	Q1k, Qln  []float64 // q1k[k]=q[1,k], qln[k]=q[k,n]; filled by Outside

	// Outside-pass rolling accumulators (spec.md §3, §4.6).
	prmL, prmL1, prml []float64
	qlout, qrout      []float64

	Qmax      float64
	warnedQ   bool
	Overflows int
	warnedOv  bool
}

// OverflowError reports a fatal overflow in the forward recursion at a
// named cell, matching spec.md §4.4's "abort with diagnostic naming the
// offending (i,j)" contract.
type OverflowError struct {
	I, J  int
	Value float64
}

func (e *OverflowError) Error() string {
	return fmt.Sprintf("pf: overflow at (%d,%d)=%g; use a larger pf_scale", e.I, e.J, e.Value)
}

// maxReal mirrors the C original's choice of FLT_MAX/DBL_MAX depending on
// the table's element width; this implementation always uses float64, so
// it is simply math.MaxFloat64.
const maxReal = math.MaxFloat64

// NewTables allocates every buffer for a cofold call of length idx.N and
// precomputes the scale ladder (C4) and expMLbase ladder.
func NewTables(idx *seqmodel.Index, params *energy.Params) *Tables {
	n := idx.N
	buf := idx.BufLen()
	t := &Tables{
		Idx:       idx,
		QB:        make([]float64, buf),
		QM:        make([]float64, buf),
		QM1:       make([]float64, buf),
		Q:         make([]float64, buf),
		Probs:     make([]float64, buf),
		Scale:     make([]float64, n+2),
		ExpMLbase: make([]float64, n+2),
		Q1k:       make([]float64, n+2),
		Qln:       make([]float64, n+2),
		prmL:      make([]float64, n+2),
		prmL1:     make([]float64, n+2),
		prml:      make([]float64, n+2),
		qlout:     make([]float64, n+2),
		qrout:     make([]float64, n+2),
	}

	t.Scale[0] = 1
	for u := 1; u <= n+1; u++ {
		t.Scale[u] = t.Scale[u-1] / params.PFScale
	}

	mlBaseUnit := params.MLBaseUnit()
	t.ExpMLbase[0] = 1
	for u := 1; u <= n+1; u++ {
		t.ExpMLbase[u] = t.ExpMLbase[u-1] * mlBaseUnit / params.PFScale
	}

	return t
}

func (t *Tables) pack(i, j int) int { return t.Idx.Pack(i, j) }

// qAt returns Q(i,j), treating i>j as the empty segment (Boltzmann weight
// 1), the base case every exterior-loop and multiloop recursion relies on.
func (t *Tables) qAt(i, j int) float64 {
	if i > j {
		return 1
	}
	return t.Q[t.pack(i, j)]
}

// qmAt returns QM(i,j), treating i>j as 0: an empty segment contains no
// stem, so it cannot satisfy QM's "at least one stem" requirement.
func (t *Tables) qmAt(i, j int) float64 {
	if i > j {
		return 0
	}
	return t.QM[t.pack(i, j)]
}

func (t *Tables) qm1At(i, j int) float64 {
	if i > j {
		return 0
	}
	return t.QM1[t.pack(i, j)]
}

func (t *Tables) qbAt(i, j int) float64 {
	if i >= j {
		return 0
	}
	return t.QB[t.pack(i, j)]
}

// checkQOverflow applies spec.md §4.4's numerical guardrail to a freshly
// computed q[i,j] value.
func (t *Tables) checkQOverflow(i, j int, value float64) error {
	if value > t.Qmax {
		t.Qmax = value
		if t.Qmax > maxReal/10 && !t.warnedQ {
			t.warnedQ = true
			log.Error.Printf("pf: Q close to overflow at (%d,%d): %g", i, j, value)
		}
	}
	if value >= maxReal {
		return &OverflowError{I: i, J: j, Value: value}
	}
	return nil
}

// noteProbOverflow applies the same "warn once, clamp, count" policy to a
// probs[i,j] entry, per spec.md §4.6's closing note and §7's
// NumericInstability row.
func (t *Tables) noteProbOverflow(i, j int, value float64) float64 {
	if value > t.Qmax {
		t.Qmax = value
		if t.Qmax > maxReal/10 && !t.warnedOv {
			t.warnedOv = true
			log.Error.Printf("pf: P close to overflow at (%d,%d): %g", i, j, value)
		}
	}
	if value >= maxReal {
		t.Overflows++
		return maxReal
	}
	return value
}
