package seqmodel

import "testing"

func TestParseTwoStrand(t *testing.T) {
	seq, cp, err := ParseTwoStrand("GGGG&CCCC")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if seq != "GGGGCCCC" || cp != 5 {
		t.Fatalf("got seq=%q cp=%d, want seq=%q cp=%d", seq, cp, "GGGGCCCC", 5)
	}

	if seq, cp, err = ParseTwoStrand("GCGC"); err != nil || seq != "GCGC" || cp != 0 {
		t.Fatalf("no-cut case: got seq=%q cp=%d err=%v", seq, cp, err)
	}

	if _, _, err = ParseTwoStrand("AA&&CC"); err == nil {
		t.Fatalf("expected error for double separator")
	}
	if _, _, err = ParseTwoStrand("&CC"); err == nil {
		t.Fatalf("expected error for empty strand A")
	}
}

func TestNewAndPack(t *testing.T) {
	x, err := New("GCGC", 0)
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	if x.N != 4 {
		t.Fatalf("N = %d, want 4", x.N)
	}
	// Every (i,j) offset with i<=j must be distinct.
	seen := map[int]bool{}
	for i := 1; i <= x.N; i++ {
		for j := i; j <= x.N; j++ {
			off := x.Pack(i, j)
			if seen[off] {
				t.Fatalf("Pack(%d,%d)=%d collides with a previous cell", i, j, off)
			}
			seen[off] = true
			if off < 0 || off >= x.BufLen() {
				t.Fatalf("Pack(%d,%d)=%d out of buffer range [0,%d)", i, j, off, x.BufLen())
			}
		}
	}
}

func TestStrandsAndCutPoint(t *testing.T) {
	x, err := New("GGGGCCCC", 5)
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	for i := 1; i <= 4; i++ {
		if x.SN(i) != 1 {
			t.Errorf("SN(%d) = %d, want 1", i, x.SN(i))
		}
	}
	for i := 5; i <= 8; i++ {
		if x.SN(i) != 2 {
			t.Errorf("SN(%d) = %d, want 2", i, x.SN(i))
		}
	}
	if x.SameStrand(1, 4) != true {
		t.Errorf("SameStrand(1,4) = false, want true")
	}
	if x.SameStrand(4, 5) != false {
		t.Errorf("SameStrand(4,5) = true, want false")
	}
}

func TestPTypeAndRType(t *testing.T) {
	x, err := New("GCAU", 0) // 1:G 2:C 3:A 4:U
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	if got := x.RawPType(1, 2); got != 3 { // G-C = GC = 3
		t.Errorf("RawPType(1,2) = %d, want 3", got)
	}
	if got := x.RawPType(3, 4); got != 1 { // A-U = 1
		t.Errorf("RawPType(3,4) = %d, want 1", got)
	}
	if got := x.RawPType(1, 3); got != 0 { // G-A cannot pair
		t.Errorf("RawPType(1,3) = %d, want 0", got)
	}
	if got := x.PType(1, 3); got != 7 {
		t.Errorf("PType(1,3) = %d, want 7 (sentinel)", got)
	}
	for t8 := byte(1); t8 <= 6; t8++ {
		if RType(RType(t8)) != t8 {
			panic("RType must be an involution")
		}
	}
}

func TestFlanks(t *testing.T) {
	x, err := New("GGGGCCCC", 5)
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	if x.Flank5(1) != -1 {
		t.Errorf("Flank5(1) = %d, want -1 (no predecessor)", x.Flank5(1))
	}
	if x.Flank5(5) != -1 {
		t.Errorf("Flank5(5) = %d, want -1 (predecessor on other strand)", x.Flank5(5))
	}
	if x.Flank5(2) != x.S1(1) {
		t.Errorf("Flank5(2) = %d, want S1(1)=%d", x.Flank5(2), x.S1(1))
	}
	if x.Flank3(8) != -1 {
		t.Errorf("Flank3(8) = %d, want -1 (no successor)", x.Flank3(8))
	}
	if x.Flank3(4) != -1 {
		t.Errorf("Flank3(4) = %d, want -1 (successor on other strand)", x.Flank3(4))
	}
}

func TestInvalidInputs(t *testing.T) {
	if _, err := New("", 0); err == nil {
		t.Fatalf("expected error for empty sequence")
	}
	if _, err := New("ACGU", 1); err == nil {
		t.Fatalf("expected error for cut point 1")
	}
	if _, err := New("ACGU", 5); err == nil {
		t.Fatalf("expected error for cut point beyond length")
	}
	if _, err := New("ACGX", 0); err == nil {
		t.Fatalf("expected error for invalid nucleotide")
	}
}
