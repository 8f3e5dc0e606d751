package pf

import (
	"testing"

	"github.com/viennafold/cofold/constraints"
	"github.com/viennafold/cofold/seqmodel"
)

func TestOutsideTwoBaseProbability(t *testing.T) {
	idx, tables := buildForward(t, "GC", 0)
	params := trivialParams()
	mask := constraints.Default(idx)
	if err := Outside(tables, mask, params); err != nil {
		t.Fatalf("Outside: %v", err)
	}
	// q[1,2] = 2 (unpaired + single G-C pair, both weight 1 under the
	// trivial parameters), so P(1,2 paired) = 1/2.
	got := tables.Probs[tables.pack(1, 2)]
	if diff := got - 0.5; diff > 1e-9 || diff < -1e-9 {
		t.Errorf("Probs[1,2] = %v, want 0.5", got)
	}
}

func TestOutsideProbabilityNeverExceedsOne(t *testing.T) {
	idx, tables := buildForward(t, "GGGGCCCC", 0)
	params := trivialParams()
	mask := constraints.Default(idx)
	if err := Outside(tables, mask, params); err != nil {
		t.Fatalf("Outside: %v", err)
	}
	for i := 1; i <= idx.N; i++ {
		for j := i + 1; j <= idx.N; j++ {
			p := tables.Probs[tables.pack(i, j)]
			if p < 0 || p > 1.0000001 {
				t.Errorf("Probs[%d,%d] = %v, out of [0,1]", i, j, p)
			}
		}
	}
}

func TestOutsideUnpairableSequenceHasZeroProbabilities(t *testing.T) {
	idx, tables := buildForward(t, "AAAA", 0)
	params := trivialParams()
	mask := constraints.Default(idx)
	if err := Outside(tables, mask, params); err != nil {
		t.Fatalf("Outside: %v", err)
	}
	for i := 1; i <= idx.N; i++ {
		for j := i + 1; j <= idx.N; j++ {
			if got := tables.Probs[tables.pack(i, j)]; got != 0 {
				t.Errorf("Probs[%d,%d] = %v, want 0", i, j, got)
			}
		}
	}
}

func TestOutsideDimerCrossingProducesFiniteProbabilities(t *testing.T) {
	seq, cp, err := seqmodel.ParseTwoStrand("GGGG&CCCC")
	if err != nil {
		t.Fatalf("ParseTwoStrand: %v", err)
	}
	idx, tables := buildForward(t, seq, cp)
	params := trivialParams()
	mask := constraints.Default(idx)
	if err := Outside(tables, mask, params); err != nil {
		t.Fatalf("Outside: %v", err)
	}
	for i := 1; i <= idx.N; i++ {
		for j := i + 1; j <= idx.N; j++ {
			p := tables.Probs[tables.pack(i, j)]
			if p < 0 || p > 1.0000001 {
				t.Errorf("Probs[%d,%d] = %v, out of [0,1]", i, j, p)
			}
		}
	}
}
