package config

import (
	"bytes"
	"fmt"
	"io"
	"os"

	"gopkg.in/yaml.v3"

	"github.com/MaxwellM34/primerPlus/internal/design"
	"github.com/MaxwellM34/primerPlus/internal/score"
)

// DesignFile is the yaml document describing one design policy: the
// ordered relaxation tiers and the scoring configuration. The file is the
// single source of truth for a run; CLI flags only pick which file.
type DesignFile struct {
	TierSpecs   []TierSpec  `yaml:"tiers"`
	ScoringSpec ScoringSpec `yaml:"scoring"`
}

// TierSpec is one relaxation step in the yaml document.
type TierSpec struct {
	Level  int       `yaml:"level"`
	Params ParamSpec `yaml:"params"`
}

// ParamSpec mirrors design.Params field for field. Keeping the yaml shape
// separate from the engine struct lets the file format evolve without
// touching the pipeline types.
type ParamSpec struct {
	PrimerSizeMin int `yaml:"primer_size_min"`
	PrimerSizeMax int `yaml:"primer_size_max"`
	PrimerOpt     int `yaml:"primer_opt"`

	MinTm     float64 `yaml:"min_tm"`
	OptTm     float64 `yaml:"opt_tm"`
	MaxTm     float64 `yaml:"max_tm"`
	MaxTmDiff float64 `yaml:"max_tm_diff"`

	MinGC   float64 `yaml:"min_gc"`
	MaxGC   float64 `yaml:"max_gc"`
	GCClamp int     `yaml:"gc_clamp"`

	ProductSizeMin int `yaml:"product_size_min"`
	ProductSizeMax int `yaml:"product_size_max"`

	MaxSelfAny float64 `yaml:"max_self_any"`
	MaxSelfEnd float64 `yaml:"max_self_end"`

	MaxPolyX        int      `yaml:"max_poly_x"`
	ForbiddenMotifs []string `yaml:"forbidden_motifs"`

	PickProbe         bool    `yaml:"pick_probe"`
	ProbeMinTm        float64 `yaml:"probe_min_tm"`
	ProbeMaxTm        float64 `yaml:"probe_max_tm"`
	MinLeftProbeGap   int     `yaml:"min_left_probe_gap"`
	MinRightProbeGap  int     `yaml:"min_right_probe_gap"`
	ProbeNoGPrefixLen int     `yaml:"probe_no_g_prefix_len"`
}

// ScoringSpec is the scoring half of the design file.
type ScoringSpec struct {
	Metrics    []MetricSpec         `yaml:"metrics"`
	Rules      []score.Rule         `yaml:"rules"`
	Population string               `yaml:"population"`
	Reference  []map[string]float64 `yaml:"reference"`
}

// MetricSpec is one scored metric in the yaml document.
type MetricSpec struct {
	Name           string   `yaml:"name"`
	Weight         float64  `yaml:"weight"`
	Optimal        *float64 `yaml:"optimal"`
	HigherIsBetter bool     `yaml:"higher_is_better"`
}

// LoadDesignFile reads and strictly decodes a design file. Unknown keys
// are an error so a typo in a constraint name cannot silently loosen a
// run.
func LoadDesignFile(path string) (DesignFile, error) {
	b, err := os.ReadFile(path)
	if err != nil {
		return DesignFile{}, err
	}
	df, err := parseDesignFile(bytes.NewReader(b))
	if err != nil {
		return DesignFile{}, fmt.Errorf("parsing design file %s: %w", path, err)
	}
	return df, nil
}

func parseDesignFile(r io.Reader) (DesignFile, error) {
	dec := yaml.NewDecoder(r)
	dec.KnownFields(true)

	var df DesignFile
	if err := dec.Decode(&df); err != nil {
		return DesignFile{}, err
	}
	return df, nil
}

// Tiers converts the yaml ladder into the pipeline's tier table. The
// table still has to pass design.ValidateTiers before a run starts.
func (df DesignFile) Tiers() []design.Tier {
	tiers := make([]design.Tier, 0, len(df.TierSpecs))
	for _, t := range df.TierSpecs {
		tiers = append(tiers, design.Tier{Level: t.Level, Params: t.Params.params()})
	}
	return tiers
}

func (p ParamSpec) params() design.Params {
	return design.Params{
		PrimerSize:        design.Range{Min: p.PrimerSizeMin, Max: p.PrimerSizeMax},
		PrimerOpt:         p.PrimerOpt,
		MinTm:             p.MinTm,
		OptTm:             p.OptTm,
		MaxTm:             p.MaxTm,
		MaxTmDiff:         p.MaxTmDiff,
		MinGC:             p.MinGC,
		MaxGC:             p.MaxGC,
		GCClamp:           p.GCClamp,
		ProductSize:       design.Range{Min: p.ProductSizeMin, Max: p.ProductSizeMax},
		MaxSelfAny:        p.MaxSelfAny,
		MaxSelfEnd:        p.MaxSelfEnd,
		MaxPolyX:          p.MaxPolyX,
		ForbiddenMotifs:   p.ForbiddenMotifs,
		PickProbe:         p.PickProbe,
		ProbeMinTm:        p.ProbeMinTm,
		ProbeMaxTm:        p.ProbeMaxTm,
		MinLeftProbeGap:   p.MinLeftProbeGap,
		MinRightProbeGap:  p.MinRightProbeGap,
		ProbeNoGPrefixLen: p.ProbeNoGPrefixLen,
	}
}

// Scoring converts the yaml scoring block into a score.Config. An empty
// population selector means ranking against the candidate pool.
func (df DesignFile) Scoring() score.Config {
	s := df.ScoringSpec

	cfg := score.Config{
		Rules:      s.Rules,
		Population: score.Population(s.Population),
	}
	if cfg.Population == "" {
		cfg.Population = score.PopulationPool
	}
	for _, m := range s.Metrics {
		cfg.Metrics = append(cfg.Metrics, score.MetricSpec{
			Name:           m.Name,
			Weight:         m.Weight,
			Optimal:        m.Optimal,
			HigherIsBetter: m.HigherIsBetter,
		})
	}
	for _, ref := range s.Reference {
		cfg.Reference = append(cfg.Reference, score.Metrics(ref))
	}
	return cfg
}
