package cofold

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/viennafold/cofold/energy"
)

func trivialParams() *energy.Params {
	return &energy.Params{
		Oracle:        energy.ConstantOracle{Weight: 1},
		KT:            1,
		PFScale:       1,
		ExpMLClosing:  1,
		ExpDuplexInit: 1,
	}
}

func TestCofoldRejectsNilParams(t *testing.T) {
	_, err := Cofold("GCGC", 0, nil, 0)
	assert.Error(t, err)
}

func TestCofoldRejectsNilOracle(t *testing.T) {
	_, err := Cofold("GCGC", 0, &energy.Params{KT: 1, PFScale: 1}, 0)
	assert.Error(t, err)
}

func TestCofoldRejectsInvalidCutPoint(t *testing.T) {
	_, err := Cofold("GCGC", 99, trivialParams(), 0)
	assert.Error(t, err)
}

// TestCofoldGCGCCombinatorics exercises spec.md §8 scenario 1: a trivial
// all-weights-1 oracle on a short single strand, where Q[1,n] is exactly
// the count of valid non-crossing pairing structures.
func TestCofoldGCGCCombinatorics(t *testing.T) {
	result, err := Cofold("GCGC", 0, trivialParams(), 0)
	assert.NoError(t, err)
	assert.False(t, math.IsNaN(result.FA))
	assert.False(t, math.IsInf(result.FA, 0))
	// Seven structures: unpaired, (1,2), (2,3), (3,4), (1,4),
	// (1,2)+(3,4), and (1,4)+(2,3).
	assert.InDelta(t, 7.0, result.PartitionValue, 1e-9)
	// A monomer call reports the same free energy under every alias.
	assert.InDelta(t, result.FA, result.FB, 1e-9)
	assert.InDelta(t, result.FA, result.FAB, 1e-9)
}

// TestCofoldHeterodimerDecomposesEnergies exercises spec.md §8 scenario 2:
// a perfectly complementary heterodimer.
func TestCofoldHeterodimerDecomposesEnergies(t *testing.T) {
	result, err := Cofold("GGGGCCCC", 5, trivialParams(), ComputeBPP)
	assert.NoError(t, err)
	// The dimer is strongly favoured: FAB must be <= F0AB (more ensemble
	// weight once duplex formation is counted can only lower -kT*logQ).
	assert.LessOrEqual(t, result.FAB, result.F0AB+1e-9)
	for _, p := range result.Probs {
		assert.GreaterOrEqual(t, p.P, 0.0)
		assert.LessOrEqual(t, p.P, 1.0+1e-9)
	}
	assert.NotEmpty(t, result.DotBracket)
	assert.Contains(t, result.DotBracket, "&")
}

// TestCofoldPalindromeHomodimerRuns exercises spec.md §8 scenario 3: a
// self-complementary homodimer, where Summarize applies the palindrome
// correction (spec.md §9's resolved strncmp Open Question) instead of
// double-counting the single distinguishable dimer arrangement.
func TestCofoldPalindromeHomodimerRuns(t *testing.T) {
	result, err := Cofold("GCGCGCGC", 5, trivialParams(), 0)
	assert.NoError(t, err)
	assert.False(t, math.IsNaN(result.FcAB))
	assert.InDelta(t, result.FA, result.FB, 1e-9, "a palindromic dimer has identical strand A/B free energies")
}

func TestCofoldBacktrackSelectsDifferentTable(t *testing.T) {
	resultQ, err := Cofold("GGGGCCCC", 5, trivialParams(), BacktrackQ)
	assert.NoError(t, err)
	resultQB, err := Cofold("GGGGCCCC", 5, trivialParams(), BacktrackQB)
	assert.NoError(t, err)
	// QB[1,n] (requires the full span to itself be a pair) cannot exceed
	// Q[1,n] (sums over every decomposition, including QB's).
	assert.LessOrEqual(t, resultQB.PartitionValue, resultQ.PartitionValue+1e-9)
}

func TestDimerProbsWiresParamsKT(t *testing.T) {
	prAB := []PairProb{{I: 1, J: 2, P: 0.3}}
	err := DimerProbs(0, 0, 0, prAB, nil, nil, 2, trivialParams())
	assert.NoError(t, err)
	assert.InDelta(t, 0.3, prAB[0].P, 1e-9)
}

func TestDimerProbsRejectsInvalidALength(t *testing.T) {
	err := DimerProbs(0, 0, 0, nil, nil, nil, 0, trivialParams())
	assert.Error(t, err)
}

func TestDimerConcentrationsWiresParamsKT(t *testing.T) {
	out := DimerConcentrations(0, 0, 0, 0, 0, []ConcPair{{ConcA: 1e-6, ConcB: 1e-6}}, trivialParams())
	assert.Len(t, out, 1)
	assert.Greater(t, out[0].FreeA, 0.0)
}

func TestOptionsHas(t *testing.T) {
	opts := ComputeBPP | BacktrackQB
	assert.True(t, opts.Has(ComputeBPP))
	assert.True(t, opts.Has(BacktrackQB))
	assert.False(t, opts.Has(BacktrackQM))
}
