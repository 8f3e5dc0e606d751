// Package conc implements the dimer chemical-equilibrium solver (spec.md
// §4.7) and the dimer pair-probability rescaling (spec.md §4.8), grounded
// on Newton_Conc and vrna_pf_dimer_probs in
// _examples/original_source/src/ViennaRNA/part_func_co.c.
package conc

import (
	"math"

	"github.com/grailbio/base/log"
)

// maxNewtonIterations is the hard cap spec.md §5 names ("the only bounded
// loop is Newton (10 000 iterations hard cap)").
const maxNewtonIterations = 10000

const newtonTolerance = 1e-6

// ConcPair is one (total A, total B) input to the Newton solver, the flat
// list spec.md §6 calls startconc[].
type ConcPair struct {
	ConcA, ConcB float64
}

// Concentration is one row of the solver's output vector: the five
// equilibrium species concentrations derived from one ConcPair.
type Concentration struct {
	AB, AA, BB float64
	FreeA      float64
	FreeB      float64
}

// Newton runs the two-variable damped Newton iteration of spec.md §4.7 to
// find free monomer concentrations (cA, cB) satisfying the mass-action
// equations for a heterodimer/homodimer equilibrium with constants kAB,
// kAA, kBB. ok is false if the iteration hit maxNewtonIterations without
// converging; the last iterate is still returned.
func Newton(kAB, kAA, kBB, concA, concB float64) (result Concentration, ok bool) {
	cA, cB := concA, concB
	ok = true

	for i := 0; ; i++ {
		det := 1 + 16*kAA*kBB*cA*cB + kAB*(cA+cB) + 4*kAA*cA + 4*kBB*cB +
			4*kAB*(kBB*cB*cB+kAA*cA*cA)

		xn := ((2*kBB*cB*cB+cB-concB)*(kAB*cA) -
			kAB*cA*cB*(4*kBB*cB+1) -
			(2*kAA*cA*cA+cA-concA)*(4*kBB*cB+kAB*cA+1)) / det

		yn := ((2*kAA*cA*cA+cA-concA)*(kAB*cB) -
			kAB*cA*cB*(4*kAA*cA+1) -
			(2*kBB*cB*cB+cB-concB)*(4*kAA*cA+kAB*cB+1)) / det

		eps := math.Abs(xn/cA) + math.Abs(yn/cB)
		cA += xn
		cB += yn

		if i+1 >= maxNewtonIterations {
			log.Error.Printf("conc: Newton did not converge after %d steps", i+1)
			ok = false
			break
		}
		if eps <= newtonTolerance {
			break
		}
	}

	return Concentration{
		AB:    cA * cB * kAB,
		AA:    cA * cA * kAA,
		BB:    cB * cB * kBB,
		FreeA: cA,
		FreeB: cB,
	}, ok
}

// DimerConcentrations runs Newton for every (concA, concB) pair in
// startConc, deriving the equilibrium constants from the four free
// energies and kT, matching spec.md §4.7's "Inputs: equilibrium constants
// KAB, KAA, KBB ... and total concentrations" contract.
func DimerConcentrations(fcAB, fcAA, fcBB, fa, fb, kT float64, startConc []ConcPair) []Concentration {
	kAB := math.Exp((fa + fb - fcAB) / kT)
	kAA := math.Exp((2*fa - fcAA) / kT)
	kBB := math.Exp((2*fb - fcBB) / kT)

	out := make([]Concentration, len(startConc))
	for i, sc := range startConc {
		result, ok := Newton(kAB, kAA, kBB, sc.ConcA, sc.ConcB)
		if !ok {
			log.Error.Printf("conc: concentration pair %d did not converge, using last iterate", i)
		}
		out[i] = result
	}
	return out
}
