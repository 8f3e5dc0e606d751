// Package seqmodel maps an RNA cofold input to the packed triangular index
// space the partition-function recursions iterate over: nucleotide
// encoding, the cut point, strand numbers, and pair types.
package seqmodel

import (
	"fmt"
	"strings"
)

// nucleotide codes, 1-based so 0 can serve as a sentinel.
const (
	nucA = 1
	nucC = 2
	nucG = 3
	nucU = 4
)

var baseCode = map[byte]int{
	'A': nucA,
	'C': nucC,
	'G': nucG,
	'U': nucU,
	// T is accepted and folded as U, the common DNA/RNA input convenience.
	'T': nucU,
}

// pairType[a][b] is the ViennaRNA-style pair type of an ordered (a, b)
// nucleotide pair, 0 meaning "cannot pair". Indices are nucleotide codes,
// so row/column 0 is unused padding.
var pairType = [5][5]byte{
	{0, 0, 0, 0, 0},
	{0, 0, 0, 0, 1}, // A-U
	{0, 0, 0, 2, 0}, // C-G
	{0, 0, 3, 0, 5}, // G-C, G-U
	{0, 6, 0, 4, 0}, // U-A, U-G
}

// rtype[t] is the pair type of (j, i) given that (i, j) has type t.
var rtype = [8]byte{0, 6, 3, 2, 5, 4, 1, 7}

// RType returns the pair type of the reversed pair (j, i) given the pair
// type t of (i, j). t == 0 and t == 7 both map to themselves via the table
// (RType(0) is never meant to be called; callers should resolve 0 to 7
// first, as PType does).
func RType(t byte) byte {
	return rtype[t]
}

// Index is the packed representation of one cofold input: its length,
// cut point, strand numbers, nucleotide encodings, and the linear-buffer
// addressing scheme shared by every triangular table in package pf.
type Index struct {
	N        int
	CutPoint int // 0 (no cut), or in [2, N]

	sn  []int // sn[i], 1 <= i <= N: strand number, 1 or 2
	s   []int // S[i], 0 <= i <= N+1: nucleotide code, 0 at the sentinels
	s1  []int // S1[i], same range, identical encoding (kept distinct per spec naming)
	pt  []byte // raw pair type per Pack(i,j) offset, 0 if (i,j) cannot pair
	idx []int  // iindx[i], 1 <= i <= N
}

// New builds an Index from an uppercase IUPAC RNA sequence and a cut point.
// cutPoint must be 0 (no cut) or in [2, len(seq)].
func New(seq string, cutPoint int) (*Index, error) {
	n := len(seq)
	if n == 0 {
		return nil, fmt.Errorf("seqmodel: empty sequence")
	}
	if cutPoint != 0 && (cutPoint < 2 || cutPoint > n) {
		return nil, fmt.Errorf("seqmodel: cut point %d out of range [2, %d]", cutPoint, n)
	}

	x := &Index{N: n, CutPoint: cutPoint}
	x.sn = make([]int, n+1)
	x.s = make([]int, n+2)
	x.s1 = make([]int, n+2)

	for i := 1; i <= n; i++ {
		c := seq[i-1]
		code, ok := baseCode[c]
		if !ok {
			return nil, fmt.Errorf("seqmodel: invalid nucleotide %q at position %d", c, i)
		}
		x.s[i] = code
		x.s1[i] = code
		if cutPoint != 0 && i >= cutPoint {
			x.sn[i] = 2
		} else {
			x.sn[i] = 1
		}
	}

	x.idx = make([]int, n+2)
	for i := 1; i <= n; i++ {
		x.idx[i] = ((n+1-i)*(n-i))/2 + n + 1
	}

	x.buildPairTypes()
	return x, nil
}

// BufLen is the length every iindx-packed triangular buffer (qb, qm, qm1,
// q, probs) must be allocated with.
func (x *Index) BufLen() int {
	return x.N*(x.N+1)/2 + x.N + 1
}

// Pack returns the linear offset of cell (i, j), 1 <= i <= j <= N.
func (x *Index) Pack(i, j int) int {
	return x.idx[i] - j
}

// SN returns the strand number (1 or 2) of position i.
func (x *Index) SN(i int) int {
	return x.sn[i]
}

// SameStrand reports whether i and j lie on the same strand.
func (x *Index) SameStrand(i, j int) bool {
	return x.sn[i] == x.sn[j]
}

// S returns the nucleotide code at position i, 0 <= i <= N+1 (0 at the
// sentinel positions).
func (x *Index) S(i int) int {
	return x.s[i]
}

// S1 returns the nucleotide code at position i under the "S1" encoding
// used for flanking-base lookups; identical to S in this implementation,
// kept as a distinct accessor because spec.md names them separately.
func (x *Index) S1(i int) int {
	return x.s1[i]
}

func (x *Index) buildPairTypes() {
	x.pt = make([]byte, x.BufLen())
	for i := 1; i <= x.N; i++ {
		for j := i; j <= x.N; j++ {
			x.pt[x.Pack(i, j)] = pairType[x.s[i]][x.s[j]]
		}
	}
}

// RawPType returns the pair type of (i, j), or 0 if (i, j) cannot pair.
func (x *Index) RawPType(i, j int) byte {
	return x.pt[x.Pack(i, j)]
}

// PType returns the pair type of (i, j), with the neutral-closure sentinel
// 7 substituted for "cannot pair" (0) exactly as spec.md §4.1 requires:
// downstream code never sees a raw 0.
func (x *Index) PType(i, j int) byte {
	t := x.RawPType(i, j)
	if t == 0 {
		return 7
	}
	return t
}

// Flank5 returns S1[i-1] if the predecessor exists and shares i's strand,
// else -1, per the flanking-code convention of spec.md §4.3/§9.
func (x *Index) Flank5(i int) int {
	if i > 1 && x.sn[i-1] == x.sn[i] {
		return x.s1[i-1]
	}
	return -1
}

// Flank3 returns S1[j+1] if the successor exists and shares j's strand,
// else -1.
func (x *Index) Flank3(j int) int {
	if j < x.N && x.sn[j+1] == x.sn[j] {
		return x.s1[j+1]
	}
	return -1
}

// SplitStrands returns the two strand substrings implied by CutPoint. It
// panics if CutPoint is 0; callers should guard with CutPoint != 0.
func (x *Index) SplitStrands(seq string) (a, b string) {
	return seq[:x.CutPoint-1], seq[x.CutPoint-1:]
}

// ParseTwoStrand splits a "SEQA&SEQB" input into a concatenated sequence
// and the derived cut point, the convention spec.md's examples use
// throughout (e.g. "GGGG&CCCC").
func ParseTwoStrand(input string) (seq string, cutPoint int, err error) {
	idx := strings.IndexByte(input, '&')
	if idx < 0 {
		return input, 0, nil
	}
	if strings.IndexByte(input[idx+1:], '&') >= 0 {
		return "", 0, fmt.Errorf("seqmodel: more than one strand separator in %q", input)
	}
	a, b := input[:idx], input[idx+1:]
	if len(a) == 0 || len(b) == 0 {
		return "", 0, fmt.Errorf("seqmodel: empty strand in %q", input)
	}
	seq = a + b
	cutPoint = len(a) + 1
	return seq, cutPoint, nil
}
