package design

import "fmt"

// Range is an inclusive [Min, Max] bound.
type Range struct {
	Min int `json:"min"`
	Max int `json:"max"`
}

// Contains reports whether v is within the range. Max == 0 leaves the
// upper bound open; the lower bound is enforced whenever set.
func (r Range) Contains(v int) bool {
	if v < r.Min {
		return false
	}
	return r.Max == 0 || v <= r.Max
}

// Params is one tier's full constraint set handed to the metric engine and
// reused by the selector's hard filters. A snapshot is immutable once its
// tier is built; relaxation never edits a tier in place, it is a separate
// Params record on the next tier.
type Params struct {
	// primer length bounds
	PrimerSize Range `json:"primer_size"`
	PrimerOpt  int   `json:"primer_opt,omitempty"`

	// melting temperature
	MinTm     float64 `json:"min_tm"`
	OptTm     float64 `json:"opt_tm,omitempty"`
	MaxTm     float64 `json:"max_tm"`
	MaxTmDiff float64 `json:"max_tm_diff"`

	// GC content, percent
	MinGC   float64 `json:"min_gc"`
	MaxGC   float64 `json:"max_gc"`
	GCClamp int     `json:"gc_clamp,omitempty"` // min G/C bases in the 3'-most 5

	ProductSize Range `json:"product_size"`

	// thermodynamic self-annealing ceilings (Primer3 _TH units)
	MaxSelfAny float64 `json:"max_self_any"`
	MaxSelfEnd float64 `json:"max_self_end"`

	MaxPolyX        int      `json:"max_poly_x,omitempty"`
	ForbiddenMotifs []string `json:"forbidden_motifs,omitempty"`

	// internal probe constraints (TaqMan-style trios)
	PickProbe         bool    `json:"pick_probe,omitempty"`
	ProbeMinTm        float64 `json:"probe_min_tm,omitempty"`
	ProbeMaxTm        float64 `json:"probe_max_tm,omitempty"`
	MinLeftProbeGap   int     `json:"min_left_probe_gap,omitempty"`
	MinRightProbeGap  int     `json:"min_right_probe_gap,omitempty"`
	ProbeNoGPrefixLen int     `json:"probe_no_g_prefix_len,omitempty"`
}

// Tier is one relaxation step: a level tag and an immutable constraint
// snapshot. Level 0 is the strictest.
type Tier struct {
	Level  int    `json:"level"`
	Params Params `json:"params"`
}

// ValidateTiers checks the tier table eagerly, before any engine call:
// non-empty, level 0 first, strictly ascending levels, and each later
// tier at least as permissive as the one before it on every bounded
// constraint. Violations are fatal to the run.
func ValidateTiers(tiers []Tier) error {
	if len(tiers) == 0 {
		return fmt.Errorf("tier table is empty")
	}
	if tiers[0].Level != 0 {
		return fmt.Errorf("first tier has level %d, want 0", tiers[0].Level)
	}

	for i := 1; i < len(tiers); i++ {
		prev, cur := tiers[i-1], tiers[i]
		if cur.Level <= prev.Level {
			return fmt.Errorf("tier levels must strictly ascend: %d then %d", prev.Level, cur.Level)
		}
		if err := loosens(prev.Params, cur.Params); err != nil {
			return fmt.Errorf("tier %d is stricter than tier %d: %w", cur.Level, prev.Level, err)
		}
	}
	return nil
}

// loosens verifies that next's bounds are supersets or loosened versions
// of prev's.
func loosens(prev, next Params) error {
	if next.PrimerSize.Min > prev.PrimerSize.Min || next.PrimerSize.Max < prev.PrimerSize.Max {
		return fmt.Errorf("primer size %v narrows %v", next.PrimerSize, prev.PrimerSize)
	}
	if next.MinTm > prev.MinTm || next.MaxTm < prev.MaxTm {
		return fmt.Errorf("tm window [%g,%g] narrows [%g,%g]", next.MinTm, next.MaxTm, prev.MinTm, prev.MaxTm)
	}
	if next.MaxTmDiff < prev.MaxTmDiff {
		return fmt.Errorf("max tm diff %g tightens %g", next.MaxTmDiff, prev.MaxTmDiff)
	}
	if next.MinGC > prev.MinGC || next.MaxGC < prev.MaxGC {
		return fmt.Errorf("gc window [%g,%g] narrows [%g,%g]", next.MinGC, next.MaxGC, prev.MinGC, prev.MaxGC)
	}
	if next.ProductSize.Min > prev.ProductSize.Min || next.ProductSize.Max < prev.ProductSize.Max {
		return fmt.Errorf("product size %v narrows %v", next.ProductSize, prev.ProductSize)
	}
	if next.MaxSelfAny < prev.MaxSelfAny {
		return fmt.Errorf("max self any %g tightens %g", next.MaxSelfAny, prev.MaxSelfAny)
	}
	if next.MaxSelfEnd < prev.MaxSelfEnd {
		return fmt.Errorf("max self end %g tightens %g", next.MaxSelfEnd, prev.MaxSelfEnd)
	}
	// MaxPolyX 0 means the constraint is disabled, which is the loosest
	// setting of all
	if prev.MaxPolyX > 0 && next.MaxPolyX > 0 && next.MaxPolyX < prev.MaxPolyX {
		return fmt.Errorf("max poly-x %d tightens %d", next.MaxPolyX, prev.MaxPolyX)
	}
	if next.GCClamp > prev.GCClamp {
		return fmt.Errorf("gc clamp %d tightens %d", next.GCClamp, prev.GCClamp)
	}
	return nil
}
