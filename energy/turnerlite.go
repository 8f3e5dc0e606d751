package energy

import "math"

// TurnerLite is a compact, strictly-positive nearest-neighbor Boltzmann
// weight provider. It is not the full Turner 2004 parameter set — building
// that table is explicitly out of scope for this engine (spec.md §1) — but
// it is a real, finite energy model (terminal-pair penalties, no separate
// stacking term,
// log-linear loop-length costs, a dangle bonus for existing flanking
// bases) good enough to drive every recursion in package pf and to
// reproduce the qualitative behavior spec.md §8's scenarios describe.
type TurnerLite struct {
	kT float64

	HairpinInit  float64 // kcal/mol entropic initiation cost of a hairpin loop
	HairpinSlope float64 // per-ln(u) cost beyond the initiation
	IntLoopInit  float64 // kcal/mol initiation cost of an interior loop
	IntLoopSlope float64 // per-ln(u1+u2) cost
	Asymmetry    float64 // per-unit |u1-u2| penalty
	MLStemCost   float64 // intrinsic cost of one multiloop stem
	AUPenalty    float64 // terminal penalty for AU/UA/GU/UG-type closures
	DangleBonus  float64 // stabilizing bonus per existing flanking base
}

// NewTurnerLite builds a TurnerLite oracle with reasonable default
// magnitudes, scaled by the thermal energy kT (kcal/mol) that will be used
// to evaluate it. Boltzmann weights are exp(-E/kT); kT must be > 0.
func NewTurnerLite(kT float64) *TurnerLite {
	return &TurnerLite{
		kT:           kT,
		HairpinInit:  4.1,
		HairpinSlope: 1.75,
		IntLoopInit:  1.8,
		IntLoopSlope: 1.08,
		Asymmetry:    0.3,
		MLStemCost:   0.4,
		AUPenalty:    0.5,
		DangleBonus:  0.3,
	}
}

func (t *TurnerLite) weight(e float64) float64 {
	w := math.Exp(-e / t.kT)
	if w <= 0 {
		// math.Exp never returns <= 0 for finite input, but guard the
		// oracle's strict-positivity contract against extreme energies.
		return math.SmallestNonzeroFloat64
	}
	return w
}

// terminalPenalty charges AUPenalty for any closure that is not a CG/GC
// pair (pair types 2 and 3); the neutral-closure sentinel 7 is treated the
// same as an AU-like closure.
func (t *TurnerLite) terminalPenalty(ptype byte) float64 {
	if ptype == 2 || ptype == 3 {
		return 0
	}
	return t.AUPenalty
}

func (t *TurnerLite) dangle(s5, s3 int) float64 {
	e := 0.0
	if s5 >= 0 {
		e -= t.DangleBonus
	}
	if s3 >= 0 {
		e -= t.DangleBonus
	}
	return e
}

func (t *TurnerLite) ExpHairpin(u int, ptype byte, s5, s3 int, seq string, i int) float64 {
	n := u
	if n < 1 {
		n = 1
	}
	e := t.HairpinInit + t.HairpinSlope*math.Log(float64(n)) + t.terminalPenalty(ptype)
	return t.weight(e)
}

func (t *TurnerLite) ExpIntLoop(u1, u2 int, typeOuter, typeInner byte, si, sj, sk, sl int) float64 {
	total := u1 + u2
	if total < 1 {
		total = 1
	}
	asym := u1 - u2
	if asym < 0 {
		asym = -asym
	}
	e := t.IntLoopInit +
		t.IntLoopSlope*math.Log(float64(total)) +
		t.Asymmetry*float64(asym) +
		t.terminalPenalty(typeOuter) +
		t.terminalPenalty(typeInner)
	return t.weight(e)
}

func (t *TurnerLite) ExpMLstem(ptype byte, s5, s3 int) float64 {
	e := t.MLStemCost + t.terminalPenalty(ptype) + t.dangle(s5, s3)
	return t.weight(e)
}

func (t *TurnerLite) ExpExtLoop(ptype byte, s5, s3 int) float64 {
	e := t.terminalPenalty(ptype) + t.dangle(s5, s3)
	return t.weight(e)
}
