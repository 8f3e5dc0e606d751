package cofold

import "github.com/viennafold/cofold/conc"

// PairProb, ConcPair, and Concentration are re-exported from conc so
// callers never need to import that package directly; conc owns the
// concrete types because Newton and DimerProbs need them internally.
type (
	PairProb      = conc.PairProb
	ConcPair      = conc.ConcPair
	Concentration = conc.Concentration
)

// Result collects everything one Cofold call produces: the five ensemble
// free energies of spec.md §4.5 always, and the base-pair probabilities /
// dot-bracket rendering when Options.ComputeBPP was set.
type Result struct {
	FA, FB          float64
	FAB, F0AB, FcAB float64

	// PartitionValue is q[1,n] of whichever table Options selected via
	// BacktrackQ/BacktrackQB/BacktrackQM (Q by default), a diagnostic
	// value only; see Options.
	PartitionValue float64

	// Probs holds every base-pair probability above zero, present only
	// when Options.ComputeBPP was set.
	Probs []PairProb

	// DotBracket is the greedy most-probable-pairing rendering of Probs,
	// present only when Options.ComputeBPP was set.
	DotBracket string
}
