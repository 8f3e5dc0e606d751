package pf

import (
	"math"
	"testing"

	"github.com/viennafold/cofold/seqmodel"
)

func TestSummarizeMonomerMatchesBasicFreeEnergy(t *testing.T) {
	idx, tables := buildForward(t, "GGGGCCCC", 0)
	params := trivialParams()
	s := Summarize(tables, idx, params, "GGGGCCCC")
	want := -params.KT * math.Log(tables.qAt(1, idx.N))
	if diff := s.F - want; diff > 1e-9 || diff < -1e-9 {
		t.Errorf("F = %v, want %v", s.F, want)
	}
	if s.FA != s.F || s.FB != s.F || s.FAB != s.F || s.F0AB != s.F {
		t.Errorf("monomer summary should have FA=FB=FAB=F0AB=F, got %+v", s)
	}
	if s.FcAB != 0 {
		t.Errorf("monomer summary should have FcAB=0, got %v", s.FcAB)
	}
}

func TestSummarizeDimerDecomposesQTotal(t *testing.T) {
	seq, cp, err := seqmodel.ParseTwoStrand("GGGG&CCCC")
	if err != nil {
		t.Fatalf("ParseTwoStrand: %v", err)
	}
	idx, tables := buildForward(t, seq, cp)
	params := trivialParams()
	s := Summarize(tables, idx, params, seq)

	qA := tables.qAt(1, cp-1)
	qB := tables.qAt(cp, idx.N)
	if diff := s.QToT - (qA*qB + s.QAB); diff > 1e-9 || diff < -1e-9 {
		t.Errorf("QToT = %v, want qA*qB+QAB = %v", s.QToT, qA*qB+s.QAB)
	}
	if s.FcAB == 999 && s.QAB > 1e-17 {
		t.Errorf("FcAB should not be the 999 sentinel when QAB=%v > 1e-17", s.QAB)
	}
}

func TestSummarizePalindromeHalvesQAB(t *testing.T) {
	// "GCGC&GCGC": equal-length, byte-identical strands, so the
	// homodimer correction should halve the raw QAB contribution
	// (spec.md §9's palindrome resolution: compare strand substrings
	// explicitly).
	seq, cp, err := seqmodel.ParseTwoStrand("GCGC&GCGC")
	if err != nil {
		t.Fatalf("ParseTwoStrand: %v", err)
	}
	idx, tables := buildForward(t, seq, cp)
	params := trivialParams()

	q1n := tables.qAt(1, idx.N)
	qA := tables.qAt(1, cp-1)
	qB := tables.qAt(cp, idx.N)
	rawQAB := (q1n - qA*qB) * params.ExpDuplexInit

	s := Summarize(tables, idx, params, seq)
	if diff := s.QAB - rawQAB/2; diff > 1e-9 || diff < -1e-9 {
		t.Errorf("QAB = %v, want raw/2 = %v", s.QAB, rawQAB/2)
	}
}
