package design

import (
	"github.com/MaxwellM34/primerPlus/internal/oligo"
)

// gcClampWindow is the number of 3'-terminal bases the GC clamp counts
// G/C bases in.
const gcClampWindow = 5

// Drop records why one raw candidate was removed: the index into the
// engine's output and the name of the first predicate it failed.
type Drop struct {
	Index     int    `json:"index"`
	Predicate string `json:"predicate"`
}

// predicate is one independent hard pass/fail check. fails returns true
// when the candidate should be dropped.
type predicate struct {
	name  string
	fails func(Candidate, Params) bool
}

// predicates are evaluated in order; the first failure names the drop.
// Every predicate treats an unset bound as a pass, so a sparse Params only
// enforces what it sets.
var predicates = []predicate{
	{"primer_size", func(c Candidate, p Params) bool {
		return !p.PrimerSize.Contains(len(c.Fwd.Seq)) || !p.PrimerSize.Contains(len(c.Rev.Seq))
	}},
	{"product_size", func(c Candidate, p Params) bool {
		return !p.ProductSize.Contains(c.ProductSize)
	}},
	{"gc_bounds", func(c Candidate, p Params) bool {
		if p.MinGC > 0 && (c.Fwd.GCPercent < p.MinGC || c.Rev.GCPercent < p.MinGC) {
			return true
		}
		return p.MaxGC > 0 && (c.Fwd.GCPercent > p.MaxGC || c.Rev.GCPercent > p.MaxGC)
	}},
	{"gc_clamp", func(c Candidate, p Params) bool {
		if p.GCClamp <= 0 {
			return false
		}
		return oligo.GCClamp(c.Fwd.Seq, gcClampWindow) < p.GCClamp ||
			oligo.GCClamp(c.Rev.Seq, gcClampWindow) < p.GCClamp
	}},
	{"poly_x", func(c Candidate, p Params) bool {
		if p.MaxPolyX <= 0 {
			return false
		}
		if oligo.LongestRun(c.Fwd.Seq) > p.MaxPolyX || oligo.LongestRun(c.Rev.Seq) > p.MaxPolyX {
			return true
		}
		return c.Probe != nil && oligo.LongestRun(c.Probe.Seq) > p.MaxPolyX
	}},
	{"forbidden_motif", func(c Candidate, p Params) bool {
		for _, motif := range p.ForbiddenMotifs {
			if oligo.ContainsMotif(c.Fwd.Seq, motif) || oligo.ContainsMotif(c.Rev.Seq, motif) {
				return true
			}
		}
		return false
	}},
	{"probe_gap", func(c Candidate, p Params) bool {
		if c.Probe == nil || (p.MinLeftProbeGap <= 0 && p.MinRightProbeGap <= 0) {
			return false
		}
		leftGap := c.Probe.Start - (c.Fwd.Start + c.Fwd.Length)
		rightGap := c.Rev.Start - (c.Probe.Start + c.Probe.Length)
		return leftGap < p.MinLeftProbeGap || rightGap < p.MinRightProbeGap
	}},
	{"probe_prefix", func(c Candidate, p Params) bool {
		if c.Probe == nil || p.ProbeNoGPrefixLen <= 0 {
			return false
		}
		n := p.ProbeNoGPrefixLen
		if n > len(c.Probe.Seq) {
			return true
		}
		for i := 0; i < n; i++ {
			if c.Probe.Seq[i] == 'G' || c.Probe.Seq[i] == 'g' {
				return true
			}
		}
		return false
	}},
}

// Filter applies the hard pass/fail predicates to the engine's raw
// candidates. It is a pure function: survivors keep their engine order
// (stable, no resort), each drop is recorded with the failing predicate
// name, and re-filtering the survivors yields them unchanged.
func Filter(cands []Candidate, p Params) (kept []Candidate, drops []Drop) {
	kept = []Candidate{}
	for i, c := range cands {
		failed := ""
		for _, pred := range predicates {
			if pred.fails(c, p) {
				failed = pred.name
				break
			}
		}
		if failed != "" {
			drops = append(drops, Drop{Index: i, Predicate: failed})
			continue
		}
		kept = append(kept, c)
	}
	return kept, drops
}
