package score

import (
	"fmt"
	"math"
)

// RuleKind tags one of the closed set of GreenLight rule variants.
type RuleKind string

const (
	// RuleMaxValue passes when metric <= Limit.
	RuleMaxValue RuleKind = "max_value"

	// RuleMinValue passes when metric >= Limit.
	RuleMinValue RuleKind = "min_value"

	// RuleMaxDelta passes when |metric - other| <= Limit.
	RuleMaxDelta RuleKind = "max_delta"

	// RuleMaxQuantile passes when the metric's quantile rank <= Limit.
	RuleMaxQuantile RuleKind = "max_quantile"

	// RuleSetMember passes when the metric equals one of Set.
	RuleSetMember RuleKind = "set_member"
)

// Rule is one GreenLight predicate over raw metric values or quantile
// ranks. All configured rules are evaluated for every candidate; the
// failing list is the full set of violated rule names, in config order.
type Rule struct {
	Name   string    `yaml:"name"`
	Kind   RuleKind  `yaml:"type"`
	Metric string    `yaml:"metric"`
	Other  string    `yaml:"other,omitempty"` // second metric for max_delta
	Limit  float64   `yaml:"limit,omitempty"`
	Set    []float64 `yaml:"set,omitempty"`
}

func (r Rule) validate(known, scored map[string]bool) error {
	if r.Name == "" {
		return fmt.Errorf("rule with empty name")
	}
	if !known[r.Metric] {
		return fmt.Errorf("rule %q references undefined metric %q", r.Name, r.Metric)
	}
	switch r.Kind {
	case RuleMaxValue, RuleMinValue:
	case RuleMaxDelta:
		if !known[r.Other] {
			return fmt.Errorf("rule %q references undefined metric %q", r.Name, r.Other)
		}
	case RuleMaxQuantile:
		// quantiles only exist for scored metrics
		if !scored[r.Metric] {
			return fmt.Errorf("rule %q needs a quantile for %q but it is not a scored metric", r.Name, r.Metric)
		}
		if r.Limit < 0 || r.Limit > 1 {
			return fmt.Errorf("rule %q quantile limit %f outside [0,1]", r.Name, r.Limit)
		}
	case RuleSetMember:
		if len(r.Set) == 0 {
			return fmt.Errorf("rule %q has an empty membership set", r.Name)
		}
	default:
		return fmt.Errorf("rule %q has unknown type %q", r.Name, r.Kind)
	}
	return nil
}

// eval returns true when the rule passes. A candidate missing the rule's
// metric fails the rule.
func (r Rule) eval(m Metrics, quantiles map[string]float64) bool {
	switch r.Kind {
	case RuleMaxValue:
		v, ok := m[r.Metric]
		return ok && v <= r.Limit
	case RuleMinValue:
		v, ok := m[r.Metric]
		return ok && v >= r.Limit
	case RuleMaxDelta:
		a, okA := m[r.Metric]
		b, okB := m[r.Other]
		return okA && okB && math.Abs(a-b) <= r.Limit
	case RuleMaxQuantile:
		q, ok := quantiles[r.Metric]
		return ok && q <= r.Limit
	case RuleSetMember:
		v, ok := m[r.Metric]
		if !ok {
			return false
		}
		for _, member := range r.Set {
			if v == member {
				return true
			}
		}
		return false
	}
	return false
}
