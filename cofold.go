// Package cofold is the public entry point for the RNA cofolding
// partition-function engine: given a (possibly two-strand) sequence and a
// Boltzmann-weight oracle, it computes the ensemble free energies of
// spec.md §4.5, optionally the base-pair probability matrix of §4.6, and
// exposes the dimer concentration/pair-probability-rescaling helpers of
// §4.7-§4.8. It wires packages seqmodel, constraints, energy, pf, conc,
// and dotbracket behind exactly the three operations spec.md §6 names,
// grounded on vrna_pf_dimer's top-level control flow (part_func_co.c lines
// 108-238).
package cofold

import (
	"fmt"

	"github.com/grailbio/base/errors"
	"github.com/grailbio/base/log"
	"github.com/viennafold/cofold/conc"
	"github.com/viennafold/cofold/constraints"
	"github.com/viennafold/cofold/dotbracket"
	"github.com/viennafold/cofold/energy"
	"github.com/viennafold/cofold/pf"
	"github.com/viennafold/cofold/seqmodel"
)

// ErrInvalidInput is the error Kind every malformed-input error from this
// package carries, spec.md §7's InvalidInput row.
var ErrInvalidInput = errors.Invalid

// OverflowError reports a fatal numeric overflow in the forward recursion,
// spec.md §7's FatalOverflow row. It is a type alias for pf.OverflowError
// so callers never need to import package pf to type-assert on it.
type OverflowError = pf.OverflowError

// bppThreshold is the minimum base-pair probability dotbracket.FromProbs
// considers when deriving Result.DotBracket. At 0.5 each base has at most
// one candidate partner, since a base's pair probabilities sum to at most
// 1; this is a rendering choice, not part of the recursion itself.
const bppThreshold = 0.5

// cofoldContext bundles one call's derived state. It replaces the process-
// wide globals (cut_point, S, S1, pscale, ...) the C original keeps in
// file scope, per spec.md §9's "Global mutable state" design note: every
// Cofold call gets its own context and nothing survives between calls.
type cofoldContext struct {
	idx    *seqmodel.Index
	mask   *constraints.Mask
	tables *pf.Tables
	params *energy.Params
}

// Cofold computes the ensemble free energies (and, with Options.ComputeBPP,
// the base-pair probabilities and a dot-bracket rendering) for seq, which
// is either a single strand (cutPoint == 0) or two strands concatenated at
// cutPoint (1-based index of the first base of strand B), exactly
// spec.md §6's Cofold contract.
func Cofold(seq string, cutPoint int, params *energy.Params, opts Options) (Result, error) {
	if params == nil {
		return Result{}, errors.E(ErrInvalidInput, "cofold: params must not be nil")
	}
	if params.Oracle == nil {
		return Result{}, errors.E(ErrInvalidInput, "cofold: params.Oracle must not be nil")
	}

	idx, err := seqmodel.New(seq, cutPoint)
	if err != nil {
		return Result{}, errors.E(ErrInvalidInput, err, "cofold: building sequence index")
	}

	ctx := &cofoldContext{
		idx:    idx,
		mask:   constraints.Default(idx),
		tables: pf.NewTables(idx, params),
		params: params,
	}

	if err := pf.Forward(ctx.tables, ctx.mask, params, seq); err != nil {
		return Result{}, err
	}

	summary := pf.Summarize(ctx.tables, idx, params, seq)
	result := Result{
		FA: summary.FA, FB: summary.FB,
		FAB: summary.FAB, F0AB: summary.F0AB, FcAB: summary.FcAB,
		PartitionValue: partitionValue(ctx, opts),
	}

	if opts.Has(ComputeBPP) {
		if err := pf.Outside(ctx.tables, ctx.mask, params); err != nil {
			return Result{}, err
		}
		result.Probs = collectProbs(ctx.tables, idx)
		result.DotBracket = dotbracket.FromProbs(idx.N, idx.CutPoint, bppThreshold,
			func(i, j int) float64 { return ctx.tables.Probs[idx.Pack(i, j)] })
	}

	if ctx.tables.Overflows > 0 {
		log.Error.Printf("cofold: %d base-pair probability entries clamped for numeric instability", ctx.tables.Overflows)
	}

	return result, nil
}

// partitionValue reads q[1,n] from whichever table opts selects, the
// diagnostic-only rendering of vrna_pf_dimer's backtrack_type switch
// (part_func_co.c lines 156-161). Q is the default when no Backtrack* bit
// is set.
func partitionValue(ctx *cofoldContext, opts Options) float64 {
	n := ctx.idx.N
	cell := ctx.idx.Pack(1, n)
	switch {
	case opts.Has(BacktrackQB):
		return ctx.tables.QB[cell]
	case opts.Has(BacktrackQM):
		return ctx.tables.QM[cell]
	default:
		return ctx.tables.Q[cell]
	}
}

// collectProbs flattens the triangular Probs buffer into the sparse
// (i, j, p) form the rest of this package's public API (DimerProbs,
// Result.Probs) uses, skipping exact zeros.
func collectProbs(t *pf.Tables, idx *seqmodel.Index) []PairProb {
	var out []PairProb
	for i := 1; i <= idx.N; i++ {
		for j := i + 1; j <= idx.N; j++ {
			p := t.Probs[idx.Pack(i, j)]
			if p > 0 {
				out = append(out, PairProb{I: i, J: j, P: p})
			}
		}
	}
	return out
}

// DimerProbs rescales prAB in place to remove each pair's monomer
// background, per spec.md §4.8; it is a thin wrapper over conc.DimerProbs
// that threads params.KT so callers of this package never import conc
// directly.
func DimerProbs(fab, fa, fb float64, prAB []PairProb, prA, prB []PairProb, aLength int, params *energy.Params) error {
	if params == nil {
		return errors.E(ErrInvalidInput, "cofold: params must not be nil")
	}
	if aLength <= 0 {
		return errors.E(ErrInvalidInput, fmt.Sprintf("cofold: aLength must be positive, got %d", aLength))
	}
	return conc.DimerProbs(fab, fa, fb, params.KT, prAB, prA, prB, aLength)
}

// DimerConcentrations solves the dimer chemical-equilibrium system for
// every (concA, concB) pair in startConc, per spec.md §4.7; a thin wrapper
// over conc.DimerConcentrations.
func DimerConcentrations(fcAB, fcAA, fcBB, fa, fb float64, startConc []ConcPair, params *energy.Params) []Concentration {
	if params == nil {
		log.Error.Printf("cofold: DimerConcentrations called with nil params, returning no results")
		return nil
	}
	return conc.DimerConcentrations(fcAB, fcAA, fcBB, fa, fb, params.KT, startConc)
}
