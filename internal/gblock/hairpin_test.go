package gblock

import (
	"strings"
	"testing"

	"github.com/MaxwellM34/primerPlus/internal/oligo"
)

func Test_Analyze_TwelveBaseInvertedRepeat(t *testing.T) {
	// a 12-base inverted repeat with a 4-base loop folds into a stable
	// hairpin well past the high-risk threshold
	arm := "GCAGTCCATGGA"
	seq := arm + "TTTT" + oligo.RevComp(arm)

	r := NewAnalyzer().Analyze(seq)

	if r.Risk != RiskHigh {
		t.Fatalf("Analyze() risk = %v, want %v (energy %f)", r.Risk, RiskHigh, r.Energy)
	}
	if r.Stem == nil {
		t.Fatal("Analyze() reported no stem")
	}
	if r.Stem.Left != 0 || r.Stem.Right != 16 {
		t.Errorf("Analyze() stem offsets = (%d,%d), want (0,16)", r.Stem.Left, r.Stem.Right)
	}
	if r.Stem.Length != 12 {
		t.Errorf("Analyze() stem length = %d, want 12", r.Stem.Length)
	}
	if r.Stem.Loop != 4 {
		t.Errorf("Analyze() loop = %d, want 4", r.Stem.Loop)
	}
	if r.Energy >= NewAnalyzer().High {
		t.Errorf("Analyze() energy = %f, want below %f", r.Energy, NewAnalyzer().High)
	}
}

func Test_Analyze_NoInvertedRepeat(t *testing.T) {
	// A/C only: no Watson-Crick pair can form
	r := NewAnalyzer().Analyze("AACCACAACCACAACCACAACC")

	if r.Risk != RiskLow {
		t.Errorf("Analyze() risk = %v, want %v", r.Risk, RiskLow)
	}
	if r.Stem != nil {
		t.Errorf("Analyze() stem = %+v, want none", r.Stem)
	}
	if r.Energy != 0 {
		t.Errorf("Analyze() energy = %f, want 0", r.Energy)
	}
}

func Test_Analyze_ModerateStem(t *testing.T) {
	// 5-base mixed stem, 3-base loop: stable enough to flag, not high
	seq := "GCGAT" + "AAA" + "ATCGC"

	r := NewAnalyzer().Analyze(seq)

	if r.Risk != RiskModerate {
		t.Fatalf("Analyze() risk = %v, want %v (energy %f)", r.Risk, RiskModerate, r.Energy)
	}
	if r.Stem == nil || r.Stem.Length != 5 || r.Stem.Loop != 3 {
		t.Errorf("Analyze() stem = %+v, want length 5 loop 3", r.Stem)
	}
}

func Test_Analyze_WindowedLongSequence(t *testing.T) {
	// the hairpin sits past the first 60 bp; windows must still find it
	// and report offsets in full-sequence coordinates
	arm := "GCAGTCCATGGA"
	pad := strings.Repeat("AACCACAACCAC", 7) // 84 bases, pair-free
	seq := pad + arm + "TTTT" + oligo.RevComp(arm)

	r := NewAnalyzer().Analyze(seq)

	if r.Risk != RiskHigh {
		t.Fatalf("Analyze() risk = %v, want %v", r.Risk, RiskHigh)
	}
	if r.Stem == nil {
		t.Fatal("Analyze() reported no stem")
	}
	if r.Stem.Left != 84 || r.Stem.Right != 100 {
		t.Errorf("Analyze() stem offsets = (%d,%d), want (84,100)", r.Stem.Left, r.Stem.Right)
	}
}

func Test_Analyze_Deterministic(t *testing.T) {
	arm := "GCAGTCCATGGA"
	seq := arm + "TTTT" + oligo.RevComp(arm)
	a := NewAnalyzer()

	first := a.Analyze(seq)
	second := a.Analyze(seq)

	if first.Risk != second.Risk || first.Energy != second.Energy {
		t.Errorf("Analyze() not deterministic: %+v vs %+v", first, second)
	}
}

func Test_Annotate(t *testing.T) {
	arm := "GCAGTCCATGGA"
	d := Design{Sequence: arm + "TTTT" + oligo.RevComp(arm)}

	NewAnalyzer().Annotate(&d)

	if d.Risk != RiskHigh {
		t.Errorf("Annotate() risk = %v, want %v", d.Risk, RiskHigh)
	}
	if d.Stem == nil {
		t.Error("Annotate() did not attach the stem")
	}
}

func Test_Analyze_ShortStemIgnored(t *testing.T) {
	// 3-base stem is below the default 4-base minimum
	seq := "GCG" + "AAAA" + "CGC"

	r := NewAnalyzer().Analyze(seq)

	if r.Risk != RiskLow || r.Stem != nil {
		t.Errorf("Analyze() = %+v, want low risk with no stem", r)
	}
}
