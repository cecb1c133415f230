// Package design holds the relaxation scheduler and its supporting types:
// the target sequence, the tiered constraint table, candidate filtering,
// and the design outcome record.
package design

import (
	"fmt"

	"github.com/MaxwellM34/primerPlus/internal/oligo"
)

// Region marks a half-open span [Start, Start+Length) on the target.
type Region struct {
	Start  int `json:"start"`
	Length int `json:"length"`
}

// Target is the immutable template a design run works against. Probe, when
// set, pins the internal oligo to a region of interest.
type Target struct {
	ID    string  `json:"id"`
	Seq   string  `json:"seq"`
	Probe *Region `json:"probe,omitempty"`
}

// NewTarget validates the sequence alphabet and returns a Target.
func NewTarget(id, seq string) (Target, error) {
	if err := oligo.Validate(seq); err != nil {
		return Target{}, fmt.Errorf("target %q: %w", id, err)
	}
	return Target{ID: id, Seq: seq}, nil
}

// WithProbeRegion returns a copy of t with the probe region set. The
// original target is unchanged.
func (t Target) WithProbeRegion(start, length int) (Target, error) {
	if start < 0 || length <= 0 || start+length > len(t.Seq) {
		return Target{}, fmt.Errorf("probe region [%d,%d) outside target %q (len %d)",
			start, start+length, t.ID, len(t.Seq))
	}
	t.Probe = &Region{Start: start, Length: length}
	return t, nil
}
