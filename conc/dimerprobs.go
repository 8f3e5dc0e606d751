package conc

import (
	"math"

	"github.com/grailbio/base/log"
)

// PairProb is one base-pair probability entry, (i, j, p), the sparse
// representation spec.md §4.8 rescales in place.
type PairProb struct {
	I, J int
	P    float64
}

// pmonLookup returns the monomer-background probability for (i, j) from
// prA (positions [1, aLength]) or prB (positions [aLength+1, n], stored
// with coordinates already offset by aLength), or 0 if either endpoint
// lies on the other strand, mirroring the original's offset/lp2-walk
// logic without its manual merge-pointer bookkeeping.
func pmonLookup(i, j, aLength int, prA, prB []PairProb) float64 {
	onA := func(p int) bool { return p <= aLength }
	if onA(i) && onA(j) {
		for _, e := range prA {
			if e.I == i && e.J == j {
				return e.P
			}
		}
		return 0
	}
	if !onA(i) && !onA(j) {
		oi, oj := i-aLength, j-aLength
		for _, e := range prB {
			if e.I == oi && e.J == oj {
				return e.P
			}
		}
		return 0
	}
	return 0
}

// DimerProbs rescales prAB in place per spec.md §4.8: each dimer pair
// probability has its monomer background subtracted and is renormalised
// by pAB, the probability that the two strands are actually bound.
// Negative results (numeric instability) are clamped to 0 and logged.
func DimerProbs(fab, fa, fb, kT float64, prAB []PairProb, prA, prB []PairProb, aLength int) error {
	pAB := 1 - math.Exp((fab-fa-fb)/kT)
	if pAB <= 0 {
		return nil
	}
	for idx := range prAB {
		pp := pmonLookup(prAB[idx].I, prAB[idx].J, aLength, prA, prB)
		rescaled := (prAB[idx].P - (1-pAB)*pp) / pAB
		if rescaled < 0 {
			log.Error.Printf("conc: numeric instability at (%d,%d): rescaled probability %v below zero", prAB[idx].I, prAB[idx].J, rescaled)
			rescaled = 0
		}
		prAB[idx].P = rescaled
	}
	return nil
}
