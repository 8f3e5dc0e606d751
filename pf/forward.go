package pf

import (
	"github.com/viennafold/cofold/constraints"
	"github.com/viennafold/cofold/energy"
	"github.com/viennafold/cofold/seqmodel"
)

// Forward fills QB, QM, QM1 and Q by ascending span, grounded on pf_co
// (original_source/src/ViennaRNA/part_func_co.c, lines 360-455). Unlike the
// C original's rotated single-row accumulators, this walks each cell's
// decomposition by direct summation; spec.md §5's note that a parallel
// implementation may "replace the rolling accumulators with independent
// per-slice recomputation" sanctions this as an equivalent, easier-to-
// verify O(n^3) rendering of the same recursion.
func Forward(t *Tables, mask *constraints.Mask, params *energy.Params, seq string) error {
	idx := t.Idx
	n := idx.N
	oracle := params.Oracle

	for d := 0; d <= n-1; d++ {
		for i := 1; i <= n-d; i++ {
			j := i + d

			qb := forwardQB(t, idx, mask, params, oracle, seq, i, j)
			t.QB[t.pack(i, j)] = qb

			qm1 := forwardQM1(t, idx, mask, oracle, i, j)
			t.QM1[t.pack(i, j)] = qm1

			qm := forwardQM(t, mask, i, j)
			t.QM[t.pack(i, j)] = qm

			q, err := forwardQ(t, idx, mask, oracle, i, j)
			if err != nil {
				return err
			}
			t.Q[t.pack(i, j)] = q
		}
	}
	return nil
}

func forwardQB(t *Tables, idx *seqmodel.Index, mask *constraints.Mask, params *energy.Params, oracle energy.Oracle, seq string, i, j int) float64 {
	if j <= i {
		return 0
	}
	if idx.RawPType(i, j) == 0 {
		return 0
	}
	outer := idx.PType(i, j)
	sum := 0.0

	if idx.SameStrand(i, j) && mask.Allowed(i, j, constraints.Hairpin) {
		u := j - i - 1
		if u == 0 || mask.UpHp(i+1) >= u {
			sum += oracle.ExpHairpin(u, outer, idx.S1(i+1), idx.S1(j-1), seq, i) * t.Scale[u+2]
		}
	}

	// A pair spanning the cut closes the dimer's exterior loop instead of a
	// hairpin: the strand-A tail and strand-B head it encloses fold apart.
	if !idx.SameStrand(i, j) && mask.Allowed(i, j, constraints.ExtLoop) {
		cp := idx.CutPoint
		sum += t.qAt(i+1, cp-1) * t.qAt(cp, j-1) *
			oracle.ExpExtLoop(seqmodel.RType(outer), idx.Flank5(j), idx.Flank3(i)) * t.Scale[2]
	}

	if mask.Allowed(i, j, constraints.IntLoopEnc) {
		maxK := i + MaxLoop + 1
		if maxK > j-2 {
			maxK = j - 2
		}
		for k := i + 1; k <= maxK; k++ {
			u1 := k - i - 1
			if u1 > 0 && mask.UpInt(i+1) < u1 {
				continue
			}
			for l := k + 1; l <= j-1; l++ {
				u2 := j - l - 1
				if u1+u2 > MaxLoop {
					break
				}
				if u2 > 0 && mask.UpInt(l+1) < u2 {
					continue
				}
				if !idx.SameStrand(i, k) || !idx.SameStrand(l, j) {
					continue
				}
				if idx.RawPType(k, l) == 0 {
					continue
				}
				if !mask.Allowed(k, l, constraints.IntLoop) {
					continue
				}
				w := t.qbAt(k, l)
				if w == 0 {
					continue
				}
				inner := seqmodel.RType(idx.PType(k, l))
				sum += w * oracle.ExpIntLoop(u1, u2, outer, inner, idx.S1(i+1), idx.S1(j-1), idx.S1(k-1), idx.S1(l+1)) * t.Scale[u1+u2+2]
			}
		}
	}

	if idx.SameStrand(i, j) && mask.Allowed(i, j, constraints.MBLoopEnc) {
		closeML := params.ExpMLClosing * oracle.ExpMLstem(seqmodel.RType(outer), idx.S1(j-1), idx.S1(i+1)) * t.Scale[2]
		for k := i + 2; k <= j-1; k++ {
			qmPart := t.qmAt(i+1, k-1)
			if qmPart == 0 {
				continue
			}
			qm1Part := t.qm1At(k, j-1)
			if qm1Part == 0 {
				continue
			}
			sum += closeML * qmPart * qm1Part
		}
	}

	return sum
}

// forwardQM1 fills qm1[i,j]: the Boltzmann sum over structures rooted at a
// single stem starting exactly at i, reaching some k in [i,j], followed by
// j-k unpaired multiloop bases.
func forwardQM1(t *Tables, idx *seqmodel.Index, mask *constraints.Mask, oracle energy.Oracle, i, j int) float64 {
	sum := 0.0
	for k := i; k <= j; k++ {
		w := t.qbAt(i, k)
		if w == 0 {
			continue
		}
		run := j - k
		if run > 0 && mask.UpMl(k+1) < run {
			continue
		}
		ptype := idx.PType(i, k)
		sum += w * oracle.ExpMLstem(ptype, idx.Flank5(i), idx.Flank3(k)) * t.ExpMLbase[run]
	}
	return sum
}

// forwardQM fills qm[i,j]: one or more multiloop stems, optionally preceded
// by an unpaired run, with at least one stem contributed by qm1.
func forwardQM(t *Tables, mask *constraints.Mask, i, j int) float64 {
	sum := 0.0
	for k := i; k <= j; k++ {
		qm1val := t.qm1At(k, j)
		if qm1val == 0 {
			continue
		}
		prefix := t.qmAt(i, k-1)
		run := k - i
		if run == 0 || mask.UpMl(i) >= run {
			prefix += t.ExpMLbase[run]
		}
		if prefix == 0 {
			continue
		}
		sum += prefix * qm1val
	}
	return sum
}

// forwardQ fills q[i,j]: the full exterior-loop partition sum over every
// structure on [i,j], paired or not.
func forwardQ(t *Tables, idx *seqmodel.Index, mask *constraints.Mask, oracle energy.Oracle, i, j int) (float64, error) {
	sum := 0.0
	if mask.UpExt(j) >= 1 {
		sum += t.qAt(i, j-1) * t.Scale[1]
	}
	for k := i; k <= j; k++ {
		w := t.qbAt(k, j)
		if w == 0 {
			continue
		}
		ptype := idx.PType(k, j)
		sum += t.qAt(i, k-1) * w * oracle.ExpExtLoop(ptype, idx.Flank5(k), idx.Flank3(j))
	}
	if err := t.checkQOverflow(i, j, sum); err != nil {
		return 0, err
	}
	return sum, nil
}
