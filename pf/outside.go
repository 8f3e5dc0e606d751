package pf

import (
	"github.com/viennafold/cofold/constraints"
	"github.com/viennafold/cofold/energy"
	"github.com/viennafold/cofold/seqmodel"
)

// revType returns the pair type of (j,i) given the (possibly-unpairable)
// raw type of (i,j), with the neutral-closure sentinel 7 substituted after
// reversal — the order pf_co_bppm performs it in (original_source's
// part_func_co.c, e.g. "type_2 = rtype[type_2]; ... if (type_2==0)
// type_2=7").
func revType(idx *seqmodel.Index, i, j int) byte {
	t := seqmodel.RType(idx.RawPType(i, j))
	if t == 0 {
		return 7
	}
	return t
}

// Outside fills Probs from the completed forward tables, grounded on
// pf_co_bppm (original_source/src/ViennaRNA/part_func_co.c, lines 459-938),
// including the Qlout/Qrout dimer-crossing accumulators that charge
// structures whose base pairs cross the cut point.
func Outside(t *Tables, mask *constraints.Mask, params *energy.Params) error {
	idx := t.Idx
	n := idx.N
	oracle := params.Oracle
	cp := idx.CutPoint

	for k := 1; k <= n; k++ {
		t.Q1k[k] = t.qAt(1, k)
		t.Qln[k] = t.qAt(k, n)
	}
	t.Q1k[0] = 1
	t.Qln[n+1] = 1

	for i := 1; i <= n; i++ {
		for j := i; j <= n; j++ {
			t.Probs[t.pack(i, j)] = 0
		}
	}
	for i := 1; i <= n; i++ {
		for j := i + 1; j <= n; j++ {
			if !mask.Allowed(i, j, constraints.ExtLoop) || t.qbAt(i, j) <= 0 {
				continue
			}
			ptype := idx.PType(i, j)
			v := t.Q1k[i-1] * t.Qln[j+1] / t.Q1k[n]
			v *= oracle.ExpExtLoop(ptype, idx.Flank5(i), idx.Flank3(j))
			t.Probs[t.pack(i, j)] = v
		}
	}

	for l := n; l >= 2; l-- {
		// 1. interior-loop outside: probs[k,l] gains the weight of every
		// (i,j) that encloses (k,l) across an interior loop.
		for k := 1; k <= l-1; k++ {
			if !mask.Allowed(k, l, constraints.IntLoopEnc) {
				continue
			}
			if t.qbAt(k, l) == 0 {
				continue
			}
			typ2 := revType(idx, k, l)

			minI := k - MaxLoop - 1
			if minI < 1 {
				minI = 1
			}
			for i := minI; i <= k-1; i++ {
				u1 := k - i - 1
				if mask.UpInt(i+1) < u1 {
					continue
				}
				maxJ := l + MaxLoop - k + i + 2
				if maxJ > n {
					maxJ = n
				}
				for j := l + 1; j <= maxJ; j++ {
					u2 := j - l - 1
					if mask.UpInt(l+1) < u2 {
						break
					}
					if !mask.Allowed(i, j, constraints.IntLoop) {
						continue
					}
					if !idx.SameStrand(k, i) || !idx.SameStrand(j, l) {
						continue
					}
					pij := t.Probs[t.pack(i, j)]
					if pij <= 0 {
						continue
					}
					typ := idx.PType(i, j)
					contrib := pij * t.Scale[u1+u2+2] *
						oracle.ExpIntLoop(u1, u2, typ, typ2, idx.S1(i+1), idx.S1(j-1), idx.S1(k-1), idx.S1(l+1))
					t.Probs[t.pack(k, l)] += contrib
				}
			}
		}

		// 2. multibranch outside, via the rolling prmL/prmL1/prml accumulators.
		prmMLb := 0.0
		if l < n && idx.SameStrand(l+1, l) {
			for k := 2; k <= l-1; k++ {
				i := k - 1

				prmt, prmt1 := 0.0, 0.0
				if idx.SameStrand(k, i) {
					if idx.SameStrand(i, l+1) && mask.Allowed(i, l+1, constraints.MBLoop) {
						tt := revType(idx, i, l+1)
						prmt1 = t.Probs[t.pack(i, l+1)] * params.ExpMLClosing *
							oracle.ExpMLstem(tt, idx.S1(l), idx.S1(i+1))
					}
					for j := l + 2; j <= n; j++ {
						if !mask.Allowed(i, j, constraints.MBLoop) {
							continue
						}
						if !idx.SameStrand(j, j-1) || !idx.SameStrand(i, j) {
							continue
						}
						tt := revType(idx, i, j)
						ppp := t.Probs[t.pack(i, j)] * oracle.ExpMLstem(tt, idx.S1(j-1), idx.S1(i+1)) * t.qmAt(l+1, j-1)
						prmt += ppp
					}
				}
				prmt *= params.ExpMLClosing

				t.prml[i] = prmt

				if mask.UpMl(l+1) > 0 {
					t.prmL[i] = t.prmL1[i]*t.ExpMLbase[1] + prmt1
				} else {
					t.prmL[i] = prmt1
				}

				if mask.UpMl(i) > 0 {
					prmMLb = prmMLb*t.ExpMLbase[1] + t.prml[i]
				} else {
					prmMLb = t.prml[i]
				}

				t.prml[i] += t.prmL[i]

				if t.qbAt(k, l) == 0 {
					continue
				}
				if !mask.Allowed(k, l, constraints.MBLoopEnc) {
					continue
				}

				temp := prmMLb
				for ii := 1; ii <= k-2; ii++ {
					if idx.SameStrand(ii+1, ii) && idx.SameStrand(k, k-1) {
						temp += t.prml[ii] * t.qmAt(ii+1, k-1)
					}
				}

				ktype := idx.PType(k, l)
				s5 := -1
				if k > 1 && idx.SameStrand(k, k-1) {
					s5 = idx.S1(k - 1)
				}
				s3 := -1
				if l < n && idx.SameStrand(l+1, l) {
					s3 = idx.S1(l + 1)
				}
				temp *= oracle.ExpMLstem(ktype, s5, s3) * t.Scale[2]
				p := t.pack(k, l)
				t.Probs[p] = t.noteProbOverflow(k, l, t.Probs[p]+temp)
			}
		} else {
			// prm_l[i] = 0 for every i a later k in this sweep could read
			// (spec.md §9's tightened bound on the original's i=0..n loop).
			for i := 1; i <= l-2; i++ {
				t.prmL[i] = 0
			}
		}

		t.prmL, t.prmL1 = t.prmL1, t.prmL

		// 3. dimer-crossing contributions.
		if cp > 0 && l != n && l > 2 {
			switch {
			case l > cp:
				for tt := n; tt > l; tt-- {
					for k := 1; k < cp; k++ {
						same := idx.SameStrand(k+1, k)
						typ := revType(idx, k, tt)
						s3 := -1
						if same {
							s3 = idx.S1(k + 1)
						}
						temp := t.Probs[t.pack(k, tt)] * oracle.ExpExtLoop(typ, idx.S1(tt-1), s3) * t.Scale[2]
						if l+1 < tt {
							temp *= t.qAt(l+1, tt-1)
						}
						if same {
							temp *= t.qAt(k+1, cp-1)
						}
						t.qrout[l] += temp
					}
				}
				for k := l - 1; k >= cp; k-- {
					if t.qbAt(k, l) <= 0 {
						continue
					}
					typ := idx.PType(k, l)
					temp := t.qrout[l]
					s5 := -1
					if k > cp {
						s5 = idx.S1(k - 1)
					}
					s3 := -1
					if l < n {
						s3 = idx.S1(l + 1)
					}
					temp *= oracle.ExpExtLoop(typ, s5, s3)
					if k > cp {
						temp *= t.qAt(cp, k-1)
					}
					t.Probs[t.pack(k, l)] += temp
				}
			case l == cp:
				for tt := 2; tt < cp; tt++ {
					for s := 1; s < tt; s++ {
						for k := cp; k <= n; k++ {
							if t.qbAt(s, k) <= 0 {
								continue
							}
							same := idx.SameStrand(k, k-1)
							typ := revType(idx, s, k)
							s5 := -1
							if same {
								s5 = idx.S1(k - 1)
							}
							temp := t.Probs[t.pack(s, k)] * oracle.ExpExtLoop(typ, s5, idx.S1(s+1)) * t.Scale[2]
							if s+1 < tt {
								temp *= t.qAt(s+1, tt-1)
							}
							if same {
								temp *= t.qAt(cp, k-1)
							}
							t.qlout[tt] += temp
						}
					}
				}
			case l < cp:
				for k := 1; k < l; k++ {
					if t.qbAt(k, l) <= 0 {
						continue
					}
					typ := idx.PType(k, l)
					temp := t.qlout[k]
					s5 := -1
					if k > 1 {
						s5 = idx.S1(k - 1)
					}
					s3 := -1
					if l < cp-1 {
						s3 = idx.S1(l + 1)
					}
					temp *= oracle.ExpExtLoop(typ, s5, s3)
					if l+1 < cp {
						temp *= t.qAt(l+1, cp-1)
					}
					t.Probs[t.pack(k, l)] += temp
				}
			}
		}
	}

	for i := 1; i <= n; i++ {
		for j := i + 1; j <= n; j++ {
			p := t.pack(i, j)
			t.Probs[p] *= t.QB[p]
		}
	}
	return nil
}
