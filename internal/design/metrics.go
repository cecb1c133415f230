package design

import (
	"math"

	"github.com/MaxwellM34/primerPlus/internal/score"
)

// Metric names a candidate can carry. Probe metrics are present only on
// candidates with an internal probe.
const (
	MetricTmFwd        = "tm_fwd"
	MetricTmRev        = "tm_rev"
	MetricTmDiff       = "tm_diff"
	MetricGCFwd        = "gc_fwd"
	MetricGCRev        = "gc_rev"
	MetricSizeFwd      = "size_fwd"
	MetricSizeRev      = "size_rev"
	MetricProductSize  = "product_size"
	MetricSelfComp     = "self_comp"
	MetricEndStability = "end_stability"
	MetricProbeTm      = "probe_tm"
	MetricProbeGC      = "probe_gc"
	MetricProbeTmGap   = "probe_tm_gap" // probe Tm minus mean primer Tm
)

// MetricNames returns every metric name the pipeline can extract, the
// universe rules and scoring specs are validated against.
func MetricNames() []string {
	return []string{
		MetricTmFwd, MetricTmRev, MetricTmDiff,
		MetricGCFwd, MetricGCRev,
		MetricSizeFwd, MetricSizeRev,
		MetricProductSize, MetricSelfComp, MetricEndStability,
		MetricProbeTm, MetricProbeGC, MetricProbeTmGap,
	}
}

// Metrics extracts the raw metric bag the scorer consumes.
func (c Candidate) Metrics() score.Metrics {
	m := score.Metrics{
		MetricTmFwd:        c.Fwd.Tm,
		MetricTmRev:        c.Rev.Tm,
		MetricTmDiff:       math.Abs(c.Fwd.Tm - c.Rev.Tm),
		MetricGCFwd:        c.Fwd.GCPercent,
		MetricGCRev:        c.Rev.GCPercent,
		MetricSizeFwd:      float64(len(c.Fwd.Seq)),
		MetricSizeRev:      float64(len(c.Rev.Seq)),
		MetricProductSize:  float64(c.ProductSize),
		MetricSelfComp:     c.SelfComplementarity,
		MetricEndStability: c.EndStability,
	}
	if c.Probe != nil {
		m[MetricProbeTm] = c.Probe.Tm
		m[MetricProbeGC] = c.Probe.GCPercent
		m[MetricProbeTmGap] = c.Probe.Tm - (c.Fwd.Tm+c.Rev.Tm)/2
	}
	return m
}
