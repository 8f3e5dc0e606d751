package pf

import (
	"math"

	"github.com/viennafold/cofold/energy"
	"github.com/viennafold/cofold/seqmodel"
)

// Summary collects the ensemble free energies spec.md §4.5 derives from
// the completed forward tables, grounded on vrna_pf_dimer (part_func_co.c,
// roughly lines 176-204).
type Summary struct {
	Qfull float64 // q[1,n]
	F     float64 // basic ensemble free energy

	QAB, QToT float64

	FAB, F0AB, FcAB float64
	FA, FB          float64
}

// Summarize computes Summary from the filled Q table. seq is required only
// to resolve the palindromic-homodimer correction (spec.md §9's "compare
// strand substrings explicitly" resolution of the strncmp Open Question).
func Summarize(t *Tables, idx *seqmodel.Index, params *energy.Params, seq string) Summary {
	n := idx.N
	kT := params.KT
	logScale := math.Log(params.PFScale)

	q1n := t.qAt(1, n)
	f := -kT * (math.Log(q1n) + float64(n)*logScale)

	if idx.CutPoint <= 0 {
		return Summary{Qfull: q1n, F: f, FAB: f, F0AB: f, FcAB: 0, FA: f, FB: f}
	}

	cp := idx.CutPoint
	qA := t.qAt(1, cp-1)
	qB := t.qAt(cp, n)

	qab := (q1n - qA*qB) * params.ExpDuplexInit
	if n-2*(cp-1) == 0 {
		a, b := idx.SplitStrands(seq)
		if a == b {
			qab /= 2
		}
	}
	qtot := qA*qB + qab

	fab := -kT * (math.Log(qtot) + float64(n)*logScale)
	f0ab := -kT * (math.Log(q1n) + float64(n)*logScale)
	fcab := 999.0
	if qab > 1e-17 {
		fcab = -kT * (math.Log(qab) + float64(n)*logScale)
	}
	fa := -kT * (math.Log(qA) + float64(cp-1)*logScale)
	fb := -kT * (math.Log(qB) + float64(n-cp+1)*logScale)

	return Summary{
		Qfull: q1n, F: f,
		QAB: qab, QToT: qtot,
		FAB: fab, F0AB: f0ab, FcAB: fcab,
		FA: fa, FB: fb,
	}
}
