// Package report is the serialized record of a design run: what the
// scheduler accepted (or why every tier failed), the scored pool, and an
// optional assembled gblock. The score and gblock commands re-read these
// files, so the format round-trips.
package report

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/MaxwellM34/primerPlus/internal/design"
	"github.com/MaxwellM34/primerPlus/internal/gblock"
)

const (
	StatusAccepted   = "accepted"
	StatusNoSolution = "no_solution"
)

// Report is one design run's full output.
type Report struct {
	RunID        string               `json:"run_id"`
	TargetID     string               `json:"target_id"`
	Sequence     string               `json:"sequence"`
	Status       string               `json:"status"`
	Accepted     *design.Accepted     `json:"accepted,omitempty"`
	Pool         []design.Scored      `json:"pool,omitempty"`
	Attempts     []design.TierAttempt `json:"attempts,omitempty"`
	LevelSummary []string             `json:"level_summary,omitempty"`
	Gblock       *gblock.Design       `json:"gblock,omitempty"`
}

// FromOutcome builds the report for a finished run. It works for both
// accepted and exhausted outcomes; the attempts list carries the per-tier
// diagnostics either way.
func FromOutcome(out design.Outcome, target design.Target) Report {
	r := Report{
		RunID:    out.RunID,
		TargetID: out.TargetID,
		Sequence: target.Seq,
		Status:   StatusNoSolution,
		Accepted: out.Accepted,
		Pool:     out.Pool,
		Attempts: out.Attempts,
	}
	if out.Accepted != nil {
		r.Status = StatusAccepted
	}

	for _, a := range out.Attempts {
		line := fmt.Sprintf("- tier %d: %s", a.Level, a.Reason)
		if a.Detail != "" {
			line += fmt.Sprintf(" (%s)", a.Detail)
		}
		r.LevelSummary = append(r.LevelSummary, line)
	}
	if out.Accepted != nil {
		r.LevelSummary = append(r.LevelSummary,
			fmt.Sprintf("- tier %d: accepted (composite %.2f)", out.Accepted.TierLevel, out.Accepted.Score.Composite))
	}
	return r
}

// Marshal renders the report as indented JSON with a trailing newline.
func Marshal(r Report) ([]byte, error) {
	b, err := json.MarshalIndent(r, "", "  ")
	if err != nil {
		return nil, err
	}
	return append(b, '\n'), nil
}

// Write serializes the report to path.
func Write(path string, r Report) error {
	b, err := Marshal(r)
	if err != nil {
		return err
	}
	return os.WriteFile(path, b, 0644)
}

// Read loads a report written by Write.
func Read(path string) (Report, error) {
	b, err := os.ReadFile(path)
	if err != nil {
		return Report{}, err
	}
	var r Report
	if err := json.Unmarshal(b, &r); err != nil {
		return Report{}, fmt.Errorf("parsing report %s: %w", path, err)
	}
	return r, nil
}
