// Package score ranks primer candidates against a population of metric
// values and gates them with the GreenLight rule set.
//
// Every numeric metric is mapped to a quantile rank in [0,1]: the fraction
// of the population at or below the value, with ties receiving the average
// rank fraction. The composite score is a normalized weighted combination
// of the per-metric ranks, oriented so that 1 is best.
package score

import (
	"fmt"
	"math"
	"sort"
)

// Metrics is a named bag of raw metric values for one candidate.
type Metrics map[string]float64

// Population selects the distribution quantiles are computed against.
type Population string

const (
	// PopulationPool ranks each candidate against the current tier's
	// surviving candidate pool.
	PopulationPool Population = "pool"

	// PopulationReference ranks against a fixed reference distribution
	// supplied in Config.Reference.
	PopulationReference Population = "reference"
)

// MetricSpec describes one scored metric.
type MetricSpec struct {
	Name string `json:"name"`

	// Weight of this metric in the composite. Weights are normalized to
	// sum to 1 and must be positive.
	Weight float64 `json:"weight"`

	// Optimal, when set, ranks candidates by |value - Optimal| so that
	// being near the optimum is best regardless of direction.
	Optimal *float64 `json:"optimal,omitempty"`

	// HigherIsBetter orients the metric when no Optimal is set. The
	// default (false) treats lower raw values as better, which fits
	// penalty-style metrics like self-complementarity.
	HigherIsBetter bool `json:"higher_is_better,omitempty"`
}

// Config is the full scoring policy: which metrics count, how they are
// weighted, the GreenLight rules, and the quantile population source.
type Config struct {
	Metrics    []MetricSpec
	Rules      []Rule
	Population Population
	Reference  []Metrics
}

// Result is the verdict for one candidate. The composite is in [0,1],
// Quantiles holds the raw rank fraction per metric, and the verdict is a
// pass exactly when Failing is empty.
type Result struct {
	Composite float64            `json:"composite"`
	Quantiles map[string]float64 `json:"quantiles"`
	Pass      bool               `json:"pass"`
	Failing   []string           `json:"failing,omitempty"`
}

// Scorer evaluates candidates under an immutable, validated Config.
type Scorer struct {
	cfg     Config
	weights map[string]float64 // normalized
}

// New validates cfg against the set of metric names candidates can carry
// and returns a ready Scorer. Validation failures here are fatal to a
// design run and happen before any engine call.
func New(cfg Config, known []string) (*Scorer, error) {
	if len(cfg.Metrics) == 0 {
		return nil, fmt.Errorf("scoring config has no metrics")
	}

	knownSet := make(map[string]bool, len(known))
	for _, name := range known {
		knownSet[name] = true
	}

	total := 0.0
	weights := make(map[string]float64, len(cfg.Metrics))
	for _, m := range cfg.Metrics {
		if m.Name == "" {
			return nil, fmt.Errorf("scoring metric with empty name")
		}
		if !knownSet[m.Name] {
			return nil, fmt.Errorf("scoring metric %q is not a known metric", m.Name)
		}
		if m.Weight <= 0 {
			return nil, fmt.Errorf("scoring metric %q has non-positive weight %f", m.Name, m.Weight)
		}
		if _, dup := weights[m.Name]; dup {
			return nil, fmt.Errorf("scoring metric %q appears twice", m.Name)
		}
		weights[m.Name] = m.Weight
		total += m.Weight
	}
	for name := range weights {
		weights[name] /= total
	}

	switch cfg.Population {
	case PopulationPool, "":
		cfg.Population = PopulationPool
	case PopulationReference:
		if len(cfg.Reference) == 0 {
			return nil, fmt.Errorf("population source %q requires a reference distribution", cfg.Population)
		}
	default:
		return nil, fmt.Errorf("unknown population source %q", cfg.Population)
	}

	scoredSet := make(map[string]bool, len(cfg.Metrics))
	for _, m := range cfg.Metrics {
		scoredSet[m.Name] = true
	}
	for _, r := range cfg.Rules {
		if err := r.validate(knownSet, scoredSet); err != nil {
			return nil, err
		}
	}

	return &Scorer{cfg: cfg, weights: weights}, nil
}

// ScoreAll scores every candidate in pool, ranking against either the pool
// itself or the configured reference distribution. Results are positional:
// result i belongs to pool[i].
func (s *Scorer) ScoreAll(pool []Metrics) []Result {
	population := pool
	if s.cfg.Population == PopulationReference {
		population = s.cfg.Reference
	}

	// per-metric sorted population values, after delta/orientation transform
	sorted := make(map[string][]float64, len(s.cfg.Metrics))
	for _, m := range s.cfg.Metrics {
		var values []float64
		for _, member := range population {
			if v, ok := member[m.Name]; ok {
				values = append(values, m.transform(v))
			}
		}
		sort.Float64s(values)
		sorted[m.Name] = values
	}

	results := make([]Result, len(pool))
	for i, cand := range pool {
		results[i] = s.score(cand, sorted)
	}
	return results
}

func (s *Scorer) score(cand Metrics, sorted map[string][]float64) Result {
	quantiles := make(map[string]float64, len(s.cfg.Metrics))
	composite := 0.0

	for _, m := range s.cfg.Metrics {
		v, ok := cand[m.Name]
		if !ok {
			// a candidate missing a scored metric (e.g. no probe) ranks worst
			quantiles[m.Name] = 1.0
			continue
		}
		q := rankFraction(sorted[m.Name], m.transform(v))
		quantiles[m.Name] = q

		goodness := 1.0 - q
		if m.Optimal == nil && m.HigherIsBetter {
			goodness = q
		}
		composite += s.weights[m.Name] * goodness
	}

	result := Result{
		Composite: composite,
		Quantiles: quantiles,
	}

	for _, r := range s.cfg.Rules {
		if !r.eval(cand, quantiles) {
			result.Failing = append(result.Failing, r.Name)
		}
	}
	result.Pass = len(result.Failing) == 0

	return result
}

func (m MetricSpec) transform(v float64) float64 {
	if m.Optimal != nil {
		return math.Abs(v - *m.Optimal)
	}
	return v
}

// rankFraction returns the fraction of the sorted population at or below
// v, in [0,1]. Ties receive the average rank fraction: with k equal
// members their shared rank is the mean of ranks below+1..below+k, so a
// unique maximum maps to exactly 1.
func rankFraction(sorted []float64, v float64) float64 {
	n := len(sorted)
	if n == 0 {
		return 0
	}
	below := sort.SearchFloat64s(sorted, v)
	atOrBelow := sort.Search(n, func(i int) bool { return sorted[i] > v })
	equal := atOrBelow - below
	if equal == 0 {
		return float64(below) / float64(n)
	}
	return (float64(below) + 0.5*float64(equal+1)) / float64(n)
}
