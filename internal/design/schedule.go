package design

import (
	"context"
	"fmt"
	"sort"
	"strings"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/MaxwellM34/primerPlus/internal/score"
)

// Policy is the acceptance policy a scored candidate must meet on top of
// its GreenLight pass.
type Policy struct {
	// MinComposite is the minimum composite score, in [0,1].
	MinComposite float64 `json:"min_composite"`
}

// Scheduler drives the metric engine across the tier table, strictest
// first, until a candidate is accepted or every tier has been rejected.
// A Scheduler holds no per-run state; independent runs may share one and
// execute concurrently.
type Scheduler struct {
	Engine MetricEngine
	Scorer *score.Scorer
	Policy Policy
	Log    *zap.SugaredLogger
}

// Design runs the relaxation schedule for one target.
//
// Tiers are visited in ascending level order. For each tier the engine is
// invoked once with the tier's immutable parameter snapshot; raw
// candidates pass through the hard filters and then the scorer. The first
// tier with an acceptable candidate wins and looser tiers are never
// visited (monotonic strictness preference). Within that tier the best
// candidate is picked by highest composite, then lowest tier level, then
// lowest self-complementarity.
//
// Engine errors abort the tier, are recorded, and scheduling continues to
// the next tier; the same tier is never retried. When every tier fails the
// returned error is an *ExhaustedTiersError carrying each tier's reason.
func (s *Scheduler) Design(ctx context.Context, target Target, tiers []Tier) (Outcome, error) {
	if s.Engine == nil || s.Scorer == nil {
		return Outcome{}, fmt.Errorf("scheduler needs an engine and a scorer")
	}
	if err := ValidateTiers(tiers); err != nil {
		return Outcome{}, fmt.Errorf("tier table: %w", err)
	}

	log := s.Log
	if log == nil {
		log = zap.NewNop().Sugar()
	}

	out := Outcome{
		RunID:    uuid.NewString(),
		TargetID: target.ID,
	}

	for _, tier := range tiers {
		if err := ctx.Err(); err != nil {
			return Outcome{}, err
		}

		raw, err := s.Engine.Design(ctx, target, tier.Params)
		if err != nil {
			log.Warnw("engine failed", "target", target.ID, "tier", tier.Level, "err", err)
			out.Attempts = append(out.Attempts, TierAttempt{
				Level:  tier.Level,
				Reason: ReasonEngineFailure,
				Detail: err.Error(),
			})
			continue
		}
		for i := range raw {
			raw[i].TierLevel = tier.Level
		}

		if len(raw) == 0 {
			log.Infow("no candidates", "target", target.ID, "tier", tier.Level)
			out.Attempts = append(out.Attempts, TierAttempt{
				Level:  tier.Level,
				Reason: ReasonNoCandidates,
			})
			continue
		}

		kept, drops := Filter(raw, tier.Params)
		if len(kept) == 0 {
			detail := dropSummary(drops)
			log.Infow("all candidates filtered", "target", target.ID, "tier", tier.Level, "drops", detail)
			out.Attempts = append(out.Attempts, TierAttempt{
				Level:  tier.Level,
				Reason: ReasonAllFiltered,
				Detail: detail,
			})
			continue
		}

		metrics := make([]score.Metrics, len(kept))
		for i, c := range kept {
			metrics[i] = c.Metrics()
		}
		results := s.Scorer.ScoreAll(metrics)

		pool := make([]Scored, len(kept))
		var best *Accepted
		for i, c := range kept {
			pool[i] = Scored{Candidate: c, Score: results[i]}
			if !s.acceptable(results[i]) {
				continue
			}
			cand := Accepted{Candidate: c, Score: results[i], TierLevel: tier.Level}
			if best == nil || better(cand, *best) {
				chosen := cand
				best = &chosen
			}
		}

		if best == nil {
			detail := fmt.Sprintf("0/%d candidates met the acceptance policy", len(kept))
			log.Infow("greenlight rejected all candidates", "target", target.ID, "tier", tier.Level, "pool", len(kept))
			out.Attempts = append(out.Attempts, TierAttempt{
				Level:  tier.Level,
				Reason: ReasonAllFailedGreenLight,
				Detail: detail,
			})
			continue
		}

		log.Infow("candidate accepted",
			"target", target.ID,
			"tier", tier.Level,
			"composite", best.Score.Composite,
			"pool", len(kept))
		out.Accepted = best
		out.Pool = pool
		return out, nil
	}

	return out, &ExhaustedTiersError{Attempts: out.Attempts}
}

func (s *Scheduler) acceptable(r score.Result) bool {
	return r.Pass && r.Composite >= s.Policy.MinComposite
}

// better orders accepted candidates: highest composite first, ties broken
// by the stricter (lower) tier, then by lower self-complementarity.
func better(a, b Accepted) bool {
	if a.Score.Composite != b.Score.Composite {
		return a.Score.Composite > b.Score.Composite
	}
	if a.TierLevel != b.TierLevel {
		return a.TierLevel < b.TierLevel
	}
	return a.Candidate.SelfComplementarity < b.Candidate.SelfComplementarity
}

// dropSummary renders drop counts per predicate, e.g. "gc_clamp x3, poly_x x1".
func dropSummary(drops []Drop) string {
	counts := map[string]int{}
	for _, d := range drops {
		counts[d.Predicate]++
	}
	names := make([]string, 0, len(counts))
	for name := range counts {
		names = append(names, name)
	}
	sort.Strings(names)

	parts := make([]string, len(names))
	for i, name := range names {
		parts[i] = fmt.Sprintf("%s x%d", name, counts[name])
	}
	return strings.Join(parts, ", ")
}
