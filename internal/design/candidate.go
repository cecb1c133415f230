package design

import "context"

// Oligo is one primer or probe as reported by the metric engine. Start is
// the leftmost template offset of the annealing region regardless of
// strand; sequences are always written 5'->3'.
type Oligo struct {
	Seq       string  `json:"seq"`
	Tm        float64 `json:"tm"`
	GCPercent float64 `json:"gc_percent"`
	Start     int     `json:"start"`
	Length    int     `json:"length"`
}

// Candidate is a primer pair (optionally with an internal probe) produced
// by the metric engine. Candidates are value records: never mutated after
// the engine returns them, so they are safe to reuse and cache across
// scoring passes.
type Candidate struct {
	Fwd   Oligo  `json:"fwd"`
	Rev   Oligo  `json:"rev"`
	Probe *Oligo `json:"probe,omitempty"`

	ProductSize int `json:"product_size"`

	// worst thermodynamic self/cross-annealing score across the pair
	SelfComplementarity float64 `json:"self_complementarity"`

	// 3'-end duplex stability (delta G of the terminal pentamer)
	EndStability float64 `json:"end_stability"`

	// the relaxation level this candidate came from
	TierLevel int `json:"tier_level"`
}

// MetricEngine is the boundary to the external primer-design engine. An
// implementation is invoked once per tier with an immutable parameter
// snapshot. An empty slice with a nil error is a successful run that found
// nothing; an error means the engine could not be invoked or returned
// malformed data.
type MetricEngine interface {
	Design(ctx context.Context, target Target, params Params) ([]Candidate, error)
}
