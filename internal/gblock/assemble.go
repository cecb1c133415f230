// Package gblock assembles synthetic block sequences around an accepted
// primer candidate and estimates their secondary-structure risk.
package gblock

import (
	"fmt"
	"math/rand"

	"github.com/MaxwellM34/primerPlus/internal/design"
	"github.com/MaxwellM34/primerPlus/internal/oligo"
)

// DefaultSeed keeps gblock filler reproducible across runs unless the
// caller picks their own seed.
const DefaultSeed = 67

var bases = []byte("ACGT")

// Options shape the assembled block.
type Options struct {
	// IncludeProbe places the internal probe sequence between the primers.
	IncludeProbe bool `json:"include_probe"`

	// Upstream and Downstream are the lengths of the random flanks.
	Upstream   int `json:"upstream"`
	Downstream int `json:"downstream"`

	// Seed for the filler RNG. Identical inputs and seed always produce a
	// byte-identical block.
	Seed int64 `json:"seed"`
}

// Region names a half-open [Start, End) span of the assembled sequence.
type Region struct {
	Name  string `json:"name"`
	Start int    `json:"start"`
	End   int    `json:"end"`
}

// Design is the assembled block plus its hairpin risk classification.
type Design struct {
	Sequence string   `json:"sequence"`
	Regions  []Region `json:"regions"`

	Risk   Risk    `json:"risk"`
	Energy float64 `json:"energy"`
	Stem   *Stem   `json:"stem,omitempty"`
}

// Assemble builds the block for an accepted candidate: upstream flank,
// forward primer, optional probe, reverse-complement of the reverse
// primer, downstream flank. Gaps between regions on the template are
// preserved as random filler so the block keeps the candidate's spacing.
// Risk fields are left zero; run an Analyzer over the sequence to fill
// them (see Analyzer.Annotate).
func Assemble(c design.Candidate, opts Options) (Design, error) {
	if c.Fwd.Seq == "" || c.Rev.Seq == "" {
		return Design{}, fmt.Errorf("candidate is missing a primer sequence")
	}
	if opts.IncludeProbe && c.Probe == nil {
		return Design{}, fmt.Errorf("probe-inclusive block requires a candidate with an internal probe")
	}
	if opts.Seed == 0 {
		opts.Seed = DefaultSeed
	}

	rng := rand.New(rand.NewSource(opts.Seed))
	revOnTemplate := oligo.RevComp(c.Rev.Seq)

	var b builder
	b.add("upstream", randomDNA(opts.Upstream, rng))
	b.add("fwd_primer", c.Fwd.Seq)

	if opts.IncludeProbe {
		leftGap := gap(c.Probe.Start - (c.Fwd.Start + c.Fwd.Length))
		rightGap := gap(c.Rev.Start - (c.Probe.Start + c.Probe.Length))
		b.add("filler", randomDNA(leftGap, rng))
		b.add("probe", c.Probe.Seq)
		b.add("filler", randomDNA(rightGap, rng))
	} else {
		mid := gap(c.Rev.Start - (c.Fwd.Start + c.Fwd.Length))
		b.add("filler", randomDNA(mid, rng))
	}

	b.add("rev_primer_rc", revOnTemplate)
	b.add("downstream", randomDNA(opts.Downstream, rng))

	return Design{Sequence: b.seq, Regions: b.regions}, nil
}

type builder struct {
	seq     string
	regions []Region
}

func (b *builder) add(name, part string) {
	if part == "" {
		return
	}
	b.regions = append(b.regions, Region{
		Name:  name,
		Start: len(b.seq),
		End:   len(b.seq) + len(part),
	})
	b.seq += part
}

func gap(n int) int {
	if n < 0 {
		return 0
	}
	return n
}

func randomDNA(n int, rng *rand.Rand) string {
	if n <= 0 {
		return ""
	}
	out := make([]byte, n)
	for i := range out {
		out[i] = bases[rng.Intn(len(bases))]
	}
	return string(out)
}
