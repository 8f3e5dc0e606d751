// Package constraints implements the hard-constraint mask (spec.md §4.2):
// a per-(i,j) bitset saying which loop contexts a pair may participate in,
// plus per-position maximal unpaired-run counts for each context.
package constraints

import "github.com/viennafold/cofold/seqmodel"

// Context is one bit of the hard-constraint mask.
type Context byte

const (
	ExtLoop Context = 1 << iota
	Hairpin
	IntLoop
	IntLoopEnc
	MBLoop
	MBLoopEnc

	allContexts = ExtLoop | Hairpin | IntLoop | IntLoopEnc | MBLoop | MBLoopEnc
)

// Mask is the hard-constraint state for one cofold input. The zero value is
// not usable; build one with Default and optionally narrow it with
// Forbid/SetUnpairedLimit.
type Mask struct {
	idx  *seqmodel.Index
	bits []Context

	upExt []int
	upHp  []int
	upInt []int
	upMl  []int
}

// Default builds a mask that permits every context for every pair that can
// physically form (RawPType != 0) and places no extra limit on unpaired
// runs beyond the sequence length itself.
func Default(idx *seqmodel.Index) *Mask {
	m := &Mask{
		idx:  idx,
		bits: make([]Context, idx.BufLen()),
	}
	for i := 1; i <= idx.N; i++ {
		for j := i; j <= idx.N; j++ {
			if idx.RawPType(i, j) != 0 {
				m.bits[idx.Pack(i, j)] = allContexts
			}
		}
	}
	m.upExt = unlimitedRuns(idx.N)
	m.upHp = unlimitedRuns(idx.N)
	m.upInt = unlimitedRuns(idx.N)
	m.upMl = unlimitedRuns(idx.N)
	return m
}

func unlimitedRuns(n int) []int {
	up := make([]int, n+2)
	for i := 1; i <= n; i++ {
		up[i] = n - i + 1
	}
	return up
}

// Allowed reports whether (i, j) may participate in loop context ctx.
func (m *Mask) Allowed(i, j int, ctx Context) bool {
	return m.bits[m.idx.Pack(i, j)]&ctx != 0
}

// Forbid removes ctx from the permitted contexts of (i, j). Used by callers
// that want to impose additional structure constraints (e.g. a known
// unpaired region) beyond the physical pairing rules Default derives.
func (m *Mask) Forbid(i, j int, ctx Context) {
	m.bits[m.idx.Pack(i, j)] &^= ctx
}

// SetUnpairedLimit caps the maximal run of unpaired bases starting at
// position i that is permitted in the given context.
func (m *Mask) SetUnpairedLimit(i int, ctx Context, limit int) {
	switch ctx {
	case ExtLoop:
		m.upExt[i] = limit
	case Hairpin:
		m.upHp[i] = limit
	case IntLoop, IntLoopEnc:
		m.upInt[i] = limit
	case MBLoop, MBLoopEnc:
		m.upMl[i] = limit
	}
}

// UpExt, UpHp, UpInt, UpMl return the maximal permitted run of unpaired
// bases starting at i in the exterior, hairpin, interior, and multibranch
// contexts respectively.
func (m *Mask) UpExt(i int) int { return m.upExt[i] }
func (m *Mask) UpHp(i int) int  { return m.upHp[i] }
func (m *Mask) UpInt(i int) int { return m.upInt[i] }
func (m *Mask) UpMl(i int) int  { return m.upMl[i] }
