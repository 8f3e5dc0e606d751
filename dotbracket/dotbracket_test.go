package dotbracket

import "testing"

func TestFromPairsSimpleHairpin(t *testing.T) {
	got := FromPairs(4, 0, []Pair{{1, 4}})
	if got != "(..)" {
		t.Errorf("got %q, want (..)", got)
	}
}

func TestFromPairsInsertsCutMarker(t *testing.T) {
	got := FromPairs(8, 5, []Pair{{1, 8}})
	if got != "(...&...)" {
		t.Errorf("got %q, want (...&...)", got)
	}
}

func TestFromPairsNoPairsIsAllDots(t *testing.T) {
	got := FromPairs(3, 0, nil)
	if got != "..." {
		t.Errorf("got %q, want ...", got)
	}
}

func TestFromProbsSkipsCrossingPairs(t *testing.T) {
	probs := map[[2]int]float64{
		{1, 4}: 0.9,
		{2, 5}: 0.8, // crosses (1,4); lower probability, should lose
		{6, 7}: 0.7,
	}
	get := func(i, j int) float64 { return probs[[2]int{i, j}] }
	got := FromProbs(7, 0, 0.5, get)
	want := "(..).()"
	if got != want {
		t.Errorf("got %q, want %q", got, want)
	}
}
