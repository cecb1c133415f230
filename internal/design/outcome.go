package design

import (
	"fmt"
	"strings"

	"github.com/MaxwellM34/primerPlus/internal/score"
)

// Reason classifies why a tier failed to produce an accepted candidate.
type Reason string

const (
	// ReasonEngineFailure: the metric engine could not be invoked or
	// returned malformed data for this tier.
	ReasonEngineFailure Reason = "EngineFailure"

	// ReasonNoCandidates: the engine succeeded but returned zero results.
	ReasonNoCandidates Reason = "NoCandidates"

	// ReasonAllFiltered: candidates existed but none survived the selector.
	ReasonAllFiltered Reason = "AllFiltered"

	// ReasonAllFailedGreenLight: candidates were scored but none met the
	// acceptance policy.
	ReasonAllFailedGreenLight Reason = "AllFailedGreenLight"
)

// TierAttempt is the per-tier diagnostic entry of a failed tier.
type TierAttempt struct {
	Level  int    `json:"level"`
	Reason Reason `json:"reason"`
	Detail string `json:"detail,omitempty"`
}

// Scored pairs one candidate with its score.
type Scored struct {
	Candidate Candidate    `json:"candidate"`
	Score     score.Result `json:"score"`
}

// Accepted is the winning candidate of a design run.
type Accepted struct {
	Candidate Candidate    `json:"candidate"`
	Score     score.Result `json:"score"`
	TierLevel int          `json:"tier_level"`
}

// Outcome is the terminal result of one scheduling run: either an accepted
// candidate (plus the scored pool it won against) or, when Accepted is
// nil, a failure with every tier's rejection reason.
type Outcome struct {
	RunID    string        `json:"run_id"`
	TargetID string        `json:"target_id"`
	Accepted *Accepted     `json:"accepted,omitempty"`
	Pool     []Scored      `json:"pool,omitempty"`
	Attempts []TierAttempt `json:"attempts,omitempty"`
}

// ExhaustedTiersError is the only run-level failure: every tier was
// rejected. It carries the full per-tier reason list so a caller can see
// which relaxation level, if any, came close.
type ExhaustedTiersError struct {
	Attempts []TierAttempt
}

func (e *ExhaustedTiersError) Error() string {
	var b strings.Builder
	b.WriteString("design exhausted all tiers:")
	for _, a := range e.Attempts {
		fmt.Fprintf(&b, " [tier %d: %s", a.Level, a.Reason)
		if a.Detail != "" {
			fmt.Fprintf(&b, " (%s)", a.Detail)
		}
		b.WriteString("]")
	}
	return b.String()
}
