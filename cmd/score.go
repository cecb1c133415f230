package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/MaxwellM34/primerPlus/config"
	"github.com/MaxwellM34/primerPlus/internal/design"
	"github.com/MaxwellM34/primerPlus/internal/report"
	"github.com/MaxwellM34/primerPlus/internal/score"
)

var (
	scoreDesignFile string
	scoreOutPath    string
)

// scoreCmd represents the score command
var scoreCmd = &cobra.Command{
	Use:   "score [report.json]",
	Short: "Re-score the candidate pool of a stored design report",
	Long: `Re-score the scored pool of an earlier design run under a different
scoring policy without re-invoking primer3.

The candidates and their raw metrics are read back from the report; the
quantile ranks, composites and GreenLight verdicts are recomputed, and
the accepted entry and report status follow the new verdicts. A report
whose trios all fail the new policy becomes no_solution.`,
	Args: cobra.ExactArgs(1),
	RunE: runScore,
}

func init() {
	rootCmd.AddCommand(scoreCmd)

	scoreCmd.Flags().StringVarP(&scoreDesignFile, "design-file", "d", "", "yaml design file whose scoring policy to apply")
	scoreCmd.Flags().StringVarP(&scoreOutPath, "out", "o", "", "where to write the re-scored report (default: overwrite)")
}

func runScore(cmd *cobra.Command, args []string) error {
	rep, err := report.Read(args[0])
	if err != nil {
		return err
	}
	if len(rep.Pool) == 0 {
		return fmt.Errorf("report %s has no scored pool to re-score", args[0])
	}

	scoring := config.DefaultScoring()
	if scoreDesignFile != "" {
		df, err := config.LoadDesignFile(scoreDesignFile)
		if err != nil {
			return err
		}
		scoring = df.Scoring()
	}
	scorer, err := score.New(scoring, design.MetricNames())
	if err != nil {
		return err
	}

	metrics := make([]score.Metrics, len(rep.Pool))
	for i, s := range rep.Pool {
		metrics[i] = s.Candidate.Metrics()
	}
	results := scorer.ScoreAll(metrics)

	for i := range rep.Pool {
		rep.Pool[i].Score = results[i]
	}

	// the accepted entry and status follow the new policy: the best pool
	// candidate still passing GreenLight wins, or the report becomes
	// no_solution if none does
	best := -1
	for i, s := range rep.Pool {
		if !s.Score.Pass {
			continue
		}
		if best < 0 || poolBetter(s, rep.Pool[best]) {
			best = i
		}
	}
	if best >= 0 {
		rep.Accepted = &design.Accepted{
			Candidate: rep.Pool[best].Candidate,
			Score:     rep.Pool[best].Score,
			TierLevel: rep.Pool[best].Candidate.TierLevel,
		}
		rep.Status = report.StatusAccepted
	} else {
		rep.Accepted = nil
		rep.Status = report.StatusNoSolution
	}

	dest := scoreOutPath
	if dest == "" {
		dest = args[0]
	}
	if err := report.Write(dest, rep); err != nil {
		return err
	}

	for _, s := range rep.Pool {
		verdict := "pass"
		if !s.Score.Pass {
			verdict = fmt.Sprintf("fail %v", s.Score.Failing)
		}
		fmt.Fprintf(cmd.OutOrStdout(), "%s/%s  composite=%.3f  %s\n",
			s.Candidate.Fwd.Seq, s.Candidate.Rev.Seq, s.Score.Composite, verdict)
	}
	logger.Infow("report re-scored", "target", rep.TargetID, "status", rep.Status, "pool", len(rep.Pool), "path", dest)
	return nil
}

// poolBetter mirrors the scheduler's acceptance order: highest composite,
// then the stricter tier, then lower self-complementarity.
func poolBetter(a, b design.Scored) bool {
	if a.Score.Composite != b.Score.Composite {
		return a.Score.Composite > b.Score.Composite
	}
	if a.Candidate.TierLevel != b.Candidate.TierLevel {
		return a.Candidate.TierLevel < b.Candidate.TierLevel
	}
	return a.Candidate.SelfComplementarity < b.Candidate.SelfComplementarity
}
