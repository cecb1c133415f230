package design

import (
	"testing"

	"github.com/google/go-cmp/cmp"
)

// goodCandidate passes every predicate of strictParams.
func goodCandidate() Candidate {
	return Candidate{
		Fwd:                 Oligo{Seq: "CCGGATTGCACCAAGGCATC", Tm: 59.0, GCPercent: 60.0, Start: 30, Length: 20},
		Rev:                 Oligo{Seq: "GCGGATGTCCTTGGTGTAGC", Tm: 59.4, GCPercent: 60.0, Start: 110, Length: 20},
		ProductSize:         100,
		SelfComplementarity: 8.0,
		EndStability:        3.2,
	}
}

func Test_Filter_Predicates(t *testing.T) {
	tests := []struct {
		name     string
		mutate   func(*Candidate)
		params   func(*Params)
		wantDrop string // empty means kept
	}{
		{
			"passes all",
			func(c *Candidate) {},
			func(p *Params) {},
			"",
		},
		{
			"primer too short",
			func(c *Candidate) { c.Fwd.Seq = "CCGGATTGCACCAAG" },
			func(p *Params) {},
			"primer_size",
		},
		{
			"product size outside range",
			func(c *Candidate) { c.ProductSize = 200 },
			func(p *Params) {},
			"product_size",
		},
		{
			"gc out of bounds",
			func(c *Candidate) { c.Rev.GCPercent = 70.0 },
			func(p *Params) {},
			"gc_bounds",
		},
		{
			"gc below a min-only bound",
			func(c *Candidate) { c.Fwd.GCPercent = 30.0 },
			func(p *Params) { p.MinGC = 40; p.MaxGC = 0 },
			"gc_bounds",
		},
		{
			"missing gc clamp",
			func(c *Candidate) { c.Fwd.Seq = "CCGGATTGCACCAAGTATAT" },
			func(p *Params) { p.GCClamp = 2 },
			"gc_clamp",
		},
		{
			"poly-x run too long",
			func(c *Candidate) { c.Rev.Seq = "GCGGATGTCCTTTTTTTAGC" },
			func(p *Params) {},
			"poly_x",
		},
		{
			"forbidden motif",
			func(c *Candidate) { c.Fwd.Seq = "CCGGGGTGCACCAAGGCATC" },
			func(p *Params) { p.ForbiddenMotifs = []string{"GGGG"} },
			"forbidden_motif",
		},
		{
			"probe too close to forward primer",
			func(c *Candidate) {
				c.Probe = &Oligo{Seq: "ACCTGATCGGAACCTTACCGTAG", Start: 52, Length: 23}
			},
			func(p *Params) {
				p.MinLeftProbeGap = 5
				p.MinRightProbeGap = 10
			},
			"probe_gap",
		},
		{
			"probe with G in prefix",
			func(c *Candidate) {
				c.Probe = &Oligo{Seq: "AGCTGATCGGAACCTTACCGTAG", Start: 60, Length: 23}
			},
			func(p *Params) { p.ProbeNoGPrefixLen = 3 },
			"probe_prefix",
		},
		{
			"probe with clean prefix and spacing kept",
			func(c *Candidate) {
				c.Probe = &Oligo{Seq: "ACCTGATCGGAACCTTACCGTAG", Start: 60, Length: 23}
			},
			func(p *Params) {
				p.MinLeftProbeGap = 5
				p.MinRightProbeGap = 10
				p.ProbeNoGPrefixLen = 3
			},
			"",
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c := goodCandidate()
			tt.mutate(&c)
			p := strictParams()
			tt.params(&p)

			kept, drops := Filter([]Candidate{c}, p)
			if tt.wantDrop == "" {
				if len(kept) != 1 || len(drops) != 0 {
					t.Fatalf("Filter() kept %d dropped %d, want candidate kept", len(kept), len(drops))
				}
				return
			}
			if len(kept) != 0 || len(drops) != 1 {
				t.Fatalf("Filter() kept %d dropped %d, want candidate dropped", len(kept), len(drops))
			}
			if drops[0].Predicate != tt.wantDrop {
				t.Errorf("Filter() dropped by %q, want %q", drops[0].Predicate, tt.wantDrop)
			}
		})
	}
}

func Test_Filter_StableAndIdempotent(t *testing.T) {
	a := goodCandidate()
	bad := goodCandidate()
	bad.Rev.GCPercent = 72.0
	b := goodCandidate()
	b.ProductSize = 110
	c := goodCandidate()
	c.ProductSize = 120

	raw := []Candidate{a, bad, b, c}
	kept, drops := Filter(raw, strictParams())

	// survivors keep engine order, no resort
	want := []Candidate{a, b, c}
	if diff := cmp.Diff(want, kept); diff != "" {
		t.Fatalf("Filter() survivors mismatch (-want +got):\n%s", diff)
	}
	if len(drops) != 1 || drops[0].Index != 1 || drops[0].Predicate != "gc_bounds" {
		t.Fatalf("Filter() drops = %+v, want index 1 gc_bounds", drops)
	}

	// filtering an already-filtered sequence changes nothing
	again, reDrops := Filter(kept, strictParams())
	if diff := cmp.Diff(kept, again); diff != "" {
		t.Errorf("Filter() not idempotent (-first +second):\n%s", diff)
	}
	if len(reDrops) != 0 {
		t.Errorf("Filter() re-dropped %+v", reDrops)
	}
}
