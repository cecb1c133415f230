package cmd

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"golang.org/x/sync/errgroup"

	"github.com/MaxwellM34/primerPlus/config"
	"github.com/MaxwellM34/primerPlus/internal/cache"
	"github.com/MaxwellM34/primerPlus/internal/design"
	"github.com/MaxwellM34/primerPlus/internal/engine"
	"github.com/MaxwellM34/primerPlus/internal/fasta"
	"github.com/MaxwellM34/primerPlus/internal/report"
	"github.com/MaxwellM34/primerPlus/internal/score"
)

var (
	designFilePath string
	designOutDir   string
	minComposite   float64
	probeStart     int
	probeLength    int
	designWorkers  int
)

// designCmd represents the design command
var designCmd = &cobra.Command{
	Use:   "design [target.fasta ...]",
	Short: "Design a primer trio for each FASTA target",
	Long: `Design a forward primer, reverse primer and optional internal probe
for each target sequence.

Each target runs through the relaxation schedule of the design file (or
the built-in default ladder): primer3 is invoked once per tier, from the
strictest constraint set to the loosest, and the first tier that yields
a candidate passing the hard filters, the GreenLight rules and the
composite score policy wins. A per-target JSON report records the
accepted trio, the scored pool and every rejected tier's reason.

A target that exhausts every tier is reported as no_solution; it does
not fail the run.`,
	Args: cobra.MinimumNArgs(1),
	RunE: runDesign,
}

func init() {
	rootCmd.AddCommand(designCmd)

	designCmd.Flags().StringVarP(&designFilePath, "design-file", "d", "", "path to a yaml design file with tiers and scoring")
	designCmd.Flags().StringVarP(&designOutDir, "out", "o", ".", "directory the per-target reports are written to")
	designCmd.Flags().Float64Var(&minComposite, "min-composite", 0, "minimum composite score an accepted trio must reach")
	designCmd.Flags().IntVar(&probeStart, "probe-start", -1, "template offset the internal probe must cover")
	designCmd.Flags().IntVar(&probeLength, "probe-length", 0, "length of the wanted probe region")
	designCmd.Flags().IntVar(&designWorkers, "workers", 4, "targets designed concurrently")

	viper.BindPFlag("design.file", designCmd.Flags().Lookup("design-file"))
	viper.BindPFlag("design.out-dir", designCmd.Flags().Lookup("out"))
	viper.BindPFlag("design.min-composite", designCmd.Flags().Lookup("min-composite"))
}

// designRun bundles everything one design invocation shares across its
// targets.
type designRun struct {
	sched  *design.Scheduler
	tiers  []design.Tier
	outDir string
}

func runDesign(cmd *cobra.Command, args []string) error {
	c, err := config.New()
	if err != nil {
		return err
	}

	tiers := config.DefaultTiers()
	scoring := config.DefaultScoring()
	if c.Design.File != "" {
		df, err := config.LoadDesignFile(c.Design.File)
		if err != nil {
			return err
		}
		tiers = df.Tiers()
		scoring = df.Scoring()
	}
	if err := design.ValidateTiers(tiers); err != nil {
		return err
	}

	scorer, err := score.New(scoring, design.MetricNames())
	if err != nil {
		return err
	}

	var eng design.MetricEngine = &engine.Primer3{
		Path:      c.Engine.Path,
		ThermoDir: c.Engine.ThermoDir,
		NumReturn: c.Engine.NumReturn,
	}
	if c.Engine.Cache != "" {
		store, err := cache.Open(c.Engine.Cache)
		if err != nil {
			return err
		}
		defer store.Close()
		eng = &cache.Engine{Inner: eng, Store: store}
	}

	if err := os.MkdirAll(c.Design.OutDir, 0755); err != nil {
		return err
	}

	run := designRun{
		sched: &design.Scheduler{
			Engine: eng,
			Scorer: scorer,
			Policy: design.Policy{MinComposite: c.Design.MinComposite},
			Log:    logger,
		},
		tiers:  tiers,
		outDir: c.Design.OutDir,
	}

	g, ctx := errgroup.WithContext(cmd.Context())
	g.SetLimit(designWorkers)
	for _, path := range args {
		path := path
		g.Go(func() error {
			return run.one(ctx, path)
		})
	}
	return g.Wait()
}

// one designs a single FASTA target and writes its report. Exhausting
// every tier is a reportable outcome, not an error.
func (r designRun) one(ctx context.Context, path string) error {
	rec, err := fasta.Read(path)
	if err != nil {
		return err
	}
	target, err := design.NewTarget(rec.ID, rec.Seq)
	if err != nil {
		return err
	}
	if probeStart >= 0 && probeLength > 0 {
		if target, err = target.WithProbeRegion(probeStart, probeLength); err != nil {
			return err
		}
	}

	out, err := r.sched.Design(ctx, target, r.tiers)
	var exhausted *design.ExhaustedTiersError
	if err != nil && !errors.As(err, &exhausted) {
		return fmt.Errorf("designing %s: %w", target.ID, err)
	}
	if exhausted != nil {
		logger.Warnw("no solution", "target", target.ID, "tiers", len(r.tiers))
	}

	rep := report.FromOutcome(out, target)
	dest := filepath.Join(r.outDir, target.ID+".json")
	if err := report.Write(dest, rep); err != nil {
		return err
	}
	logger.Infow("report written", "target", target.ID, "status", rep.Status, "path", dest)
	return nil
}
