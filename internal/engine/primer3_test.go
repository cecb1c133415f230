package engine

import (
	"bytes"
	"strings"
	"testing"

	"github.com/MaxwellM34/primerPlus/internal/design"
)

var sampleOutput = strings.Join([]string{
	"SEQUENCE_ID=MH1000",
	"PRIMER_PAIR_NUM_RETURNED=2",
	"PRIMER_LEFT_0_SEQUENCE=CCGGATTGCACCAAGGCATC",
	"PRIMER_LEFT_0=30,20",
	"PRIMER_LEFT_0_TM=59.1",
	"PRIMER_LEFT_0_GC_PERCENT=60.0",
	"PRIMER_LEFT_0_SELF_ANY_TH=8.3",
	"PRIMER_LEFT_0_END_STABILITY=3.2",
	"PRIMER_RIGHT_0_SEQUENCE=GCGGATGTCCTTGGTGTAGC",
	"PRIMER_RIGHT_0=129,20",
	"PRIMER_RIGHT_0_TM=59.4",
	"PRIMER_RIGHT_0_GC_PERCENT=60.0",
	"PRIMER_RIGHT_0_SELF_ANY_TH=11.6",
	"PRIMER_RIGHT_0_END_STABILITY=4.0",
	"PRIMER_INTERNAL_0_SEQUENCE=ACCTGATCGGAACCTTACCGTAG",
	"PRIMER_INTERNAL_0=60,23",
	"PRIMER_INTERNAL_0_TM=68.9",
	"PRIMER_INTERNAL_0_GC_PERCENT=52.2",
	"PRIMER_PAIR_0_PRODUCT_SIZE=100",
	"PRIMER_PAIR_0_COMPL_ANY_TH=5.1",
	"PRIMER_LEFT_1_SEQUENCE=TTGGCAGCATCACCGGATTG",
	"PRIMER_LEFT_1=12,20",
	"PRIMER_LEFT_1_TM=58.8",
	"PRIMER_LEFT_1_GC_PERCENT=55.0",
	"PRIMER_LEFT_1_SELF_ANY_TH=20.9",
	"PRIMER_LEFT_1_END_STABILITY=2.9",
	"PRIMER_RIGHT_1_SEQUENCE=CAGCGGATGTCCTTGGTGTA",
	"PRIMER_RIGHT_1=131,20",
	"PRIMER_RIGHT_1_TM=59.0",
	"PRIMER_RIGHT_1_GC_PERCENT=55.0",
	"PRIMER_RIGHT_1_SELF_ANY_TH=14.2",
	"PRIMER_RIGHT_1_END_STABILITY=3.5",
	"PRIMER_INTERNAL_1_SEQUENCE=ACCTGATCGGAACCTTACCGTAG",
	"PRIMER_INTERNAL_1=60,23",
	"PRIMER_INTERNAL_1_TM=68.9",
	"PRIMER_INTERNAL_1_GC_PERCENT=52.2",
	"PRIMER_PAIR_1_PRODUCT_SIZE=120",
	"PRIMER_PAIR_1_COMPL_ANY_TH=9.9",
	"=",
}, "\n")

func Test_parseBoulder(t *testing.T) {
	got, err := parseBoulder(strings.NewReader(sampleOutput))
	if err != nil {
		t.Fatal(err)
	}
	if got["SEQUENCE_ID"] != "MH1000" {
		t.Errorf("SEQUENCE_ID = %q, want MH1000", got["SEQUENCE_ID"])
	}
	if got["PRIMER_PAIR_NUM_RETURNED"] != "2" {
		t.Errorf("PRIMER_PAIR_NUM_RETURNED = %q, want 2", got["PRIMER_PAIR_NUM_RETURNED"])
	}
}

func Test_parseCandidates(t *testing.T) {
	results, err := parseBoulder(strings.NewReader(sampleOutput))
	if err != nil {
		t.Fatal(err)
	}

	cands, err := parseCandidates(results, true)
	if err != nil {
		t.Fatal(err)
	}
	if len(cands) != 2 {
		t.Fatalf("parseCandidates() returned %d candidates, want 2", len(cands))
	}

	c := cands[0]
	if c.Fwd.Seq != "CCGGATTGCACCAAGGCATC" || c.Fwd.Start != 30 || c.Fwd.Tm != 59.1 {
		t.Errorf("fwd = %+v", c.Fwd)
	}
	// right primer start is normalized from the 3' index to the leftmost
	// template offset: 129 - 20 + 1 = 110
	if c.Rev.Start != 110 {
		t.Errorf("rev start = %d, want 110", c.Rev.Start)
	}
	if c.ProductSize != 100 {
		t.Errorf("product size = %d, want 100", c.ProductSize)
	}
	// worst of left/right self-any and pair compl-any
	if c.SelfComplementarity != 11.6 {
		t.Errorf("self complementarity = %f, want 11.6", c.SelfComplementarity)
	}
	if c.EndStability != 4.0 {
		t.Errorf("end stability = %f, want 4.0", c.EndStability)
	}
	if c.Probe == nil || c.Probe.Seq != "ACCTGATCGGAACCTTACCGTAG" || c.Probe.Start != 60 {
		t.Errorf("probe = %+v", c.Probe)
	}
}

func Test_parseCandidates_Failures(t *testing.T) {
	tests := []struct {
		name string
		out  string
	}{
		{
			"primer3 error tag",
			"PRIMER_ERROR=SEQUENCE_TEMPLATE is missing\n=",
		},
		{
			"missing pair count",
			"SEQUENCE_ID=x\n=",
		},
		{
			"pair count without records",
			"PRIMER_PAIR_NUM_RETURNED=1\n=",
		},
		{
			"bad coords",
			"PRIMER_PAIR_NUM_RETURNED=1\nPRIMER_LEFT_0_SEQUENCE=ACGT\nPRIMER_LEFT_0=oops\n=",
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			results, err := parseBoulder(strings.NewReader(tt.out))
			if err != nil {
				t.Fatal(err)
			}
			if _, err := parseCandidates(results, false); err == nil {
				t.Error("parseCandidates() expected an error")
			}
		})
	}
}

func Test_parseCandidates_EmptySuccess(t *testing.T) {
	// zero pairs is a successful run that found nothing, not a failure
	results := map[string]string{"PRIMER_PAIR_NUM_RETURNED": "0"}
	cands, err := parseCandidates(results, false)
	if err != nil {
		t.Fatal(err)
	}
	if len(cands) != 0 {
		t.Errorf("parseCandidates() = %d candidates, want 0", len(cands))
	}
}

func Test_settings(t *testing.T) {
	p := &Primer3{ThermoDir: "/opt/primer3/config/", NumReturn: 50}
	target := design.Target{ID: "MH1000", Seq: strings.Repeat("ACGT", 50)}
	params := design.Params{
		PrimerSize:  design.Range{Min: 18, Max: 25},
		MinTm:       58,
		MaxTm:       59.5,
		MaxTmDiff:   1,
		MinGC:       40,
		MaxGC:       60,
		GCClamp:     1,
		ProductSize: design.Range{Min: 75, Max: 150},
		MaxSelfAny:  10,
		MaxSelfEnd:  10,
		MaxPolyX:    5,
		PickProbe:   true,
		ProbeMinTm:  67,
		ProbeMaxTm:  72,
	}

	s := p.settings(target, params)

	want := map[string]string{
		"PRIMER_NUM_RETURN":          "50",
		"PRIMER_MIN_SIZE":            "18",
		"PRIMER_MAX_SIZE":            "25",
		"PRIMER_MIN_TM":              "58",
		"PRIMER_MAX_TM":              "59.5",
		"PRIMER_PAIR_MAX_DIFF_TM":    "1",
		"PRIMER_PRODUCT_SIZE_RANGE":  "75-150",
		"PRIMER_MAX_POLY_X":          "5",
		"PRIMER_PICK_INTERNAL_OLIGO": "1",
		"PRIMER_INTERNAL_MIN_TM":     "67",
		"PRIMER_THERMODYNAMIC_PARAMETERS_PATH": "/opt/primer3/config/",
	}
	for k, v := range want {
		if s[k] != v {
			t.Errorf("settings[%s] = %q, want %q", k, s[k], v)
		}
	}

	var buf bytes.Buffer
	if err := writeBoulder(&buf, s); err != nil {
		t.Fatal(err)
	}
	rendered := buf.String()
	if !strings.HasSuffix(rendered, "=\n") {
		t.Error("boulder record must terminate with a lone =")
	}
	// rendering is stable for identical params
	var buf2 bytes.Buffer
	if err := writeBoulder(&buf2, p.settings(target, params)); err != nil {
		t.Fatal(err)
	}
	if rendered != buf2.String() {
		t.Error("writeBoulder() output is not stable")
	}
}
