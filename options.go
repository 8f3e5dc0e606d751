package cofold

// Options is the bit-flag set spec.md §6 names for a Cofold call.
type Options uint8

const (
	// ComputeBPP runs the outside recursion and populates Result.Probs
	// and Result.DotBracket (rendered by dotbracket.FromProbs). Without
	// it only the five free energies are computed.
	ComputeBPP Options = 1 << iota

	// BacktrackQ, BacktrackQB, BacktrackQM select which table's [1,n]
	// cell populates Result.PartitionValue for diagnostic purposes, the
	// Go rendering of vrna_pf_dimer's md->backtrack_type switch
	// (part_func_co.c lines 156-161). None of the three drives actual
	// backtracking: this engine never recovers a single structure from
	// the tables, per spec.md's stochastic-backtracking Non-goal.
	BacktrackQ
	BacktrackQB
	BacktrackQM
)

// Has reports whether opts includes every bit of want.
func (opts Options) Has(want Options) bool {
	return opts&want == want
}
