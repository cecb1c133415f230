package config

import (
	"github.com/MaxwellM34/primerPlus/internal/design"
	"github.com/MaxwellM34/primerPlus/internal/score"
)

// DefaultTiers is the built-in relaxation ladder used when no design file
// is given. Tier 0 is the publication-grade constraint set; each later
// tier widens every bound it touches so the ladder always passes
// design.ValidateTiers.
func DefaultTiers() []design.Tier {
	return []design.Tier{
		{
			Level: 0,
			Params: design.Params{
				PrimerSize:  design.Range{Min: 18, Max: 25},
				PrimerOpt:   22,
				MinTm:       58,
				OptTm:       59,
				MaxTm:       59.5,
				MaxTmDiff:   1,
				MinGC:       40,
				MaxGC:       60,
				GCClamp:     1,
				ProductSize: design.Range{Min: 75, Max: 150},
				MaxSelfAny:  10,
				MaxSelfEnd:  10,
				MaxPolyX:    4,
			},
		},
		{
			Level: 1,
			Params: design.Params{
				PrimerSize:  design.Range{Min: 18, Max: 25},
				PrimerOpt:   22,
				MinTm:       57.5,
				OptTm:       59,
				MaxTm:       60,
				MaxTmDiff:   1.5,
				MinGC:       35,
				MaxGC:       65,
				GCClamp:     1,
				ProductSize: design.Range{Min: 70, Max: 160},
				MaxSelfAny:  12,
				MaxSelfEnd:  12,
				MaxPolyX:    4,
			},
		},
		{
			Level: 2,
			Params: design.Params{
				PrimerSize:  design.Range{Min: 17, Max: 27},
				PrimerOpt:   22,
				MinTm:       57,
				OptTm:       59,
				MaxTm:       60.5,
				MaxTmDiff:   2,
				MinGC:       30,
				MaxGC:       70,
				GCClamp:     0,
				ProductSize: design.Range{Min: 60, Max: 175},
				MaxSelfAny:  15,
				MaxSelfEnd:  15,
				MaxPolyX:    5,
			},
		},
	}
}

// DefaultScoring is the built-in scoring policy: penalty metrics weighted
// toward pair matching, GC centered on 50%, and a small GreenLight set
// that blocks the worst thermodynamic outliers.
func DefaultScoring() score.Config {
	optimalGC := 50.0

	return score.Config{
		Metrics: []score.MetricSpec{
			{Name: "tm_diff", Weight: 2},
			{Name: "self_comp", Weight: 2},
			{Name: "end_stability", Weight: 1},
			{Name: "gc_fwd", Weight: 1, Optimal: &optimalGC},
			{Name: "gc_rev", Weight: 1, Optimal: &optimalGC},
		},
		Rules: []score.Rule{
			{Name: "tm_delta", Kind: score.RuleMaxValue, Metric: "tm_diff", Limit: 2},
			{Name: "self_comp_ceiling", Kind: score.RuleMaxValue, Metric: "self_comp", Limit: 45},
			{Name: "product_floor", Kind: score.RuleMinValue, Metric: "product_size", Limit: 60},
		},
		Population: score.PopulationPool,
	}
}
