package gblock

import (
	"github.com/MaxwellM34/primerPlus/internal/oligo"
)

// Risk is the hairpin classification of an assembled block. A high-risk
// block is flagged, never auto-rejected; rejection policy belongs to the
// caller.
type Risk string

const (
	RiskLow      Risk = "low"
	RiskModerate Risk = "moderate"
	RiskHigh     Risk = "high"
)

// Stem is the strongest inverted repeat found: the leftmost offsets of
// the two arms, the arm length, and the unpaired loop between them.
// Offsets are relative to the analyzed sequence.
type Stem struct {
	Left   int `json:"left"`
	Right  int `json:"right"`
	Length int `json:"length"`
	Loop   int `json:"loop"`
}

// Report carries the classification plus the evidence behind it.
type Report struct {
	Risk   Risk    `json:"risk"`
	Energy float64 `json:"energy"`
	Stem   *Stem   `json:"stem,omitempty"`
}

// Analyzer estimates self-folding risk with a simplified energy proxy:
// matched stem pairs contribute stability (G-C pairs more than A-T), the
// loop costs a small penalty. More negative energy means a more stable,
// riskier fold.
type Analyzer struct {
	// MinStem is the minimum inverted-repeat arm length worth reporting.
	MinStem int

	// Window caps the scan size; longer sequences are scanned in sliding
	// windows and the worst window wins. Folding beyond ~60 bp apart is
	// not a primer-relevant hairpin.
	Window int

	// Energy thresholds, both negative. Energy at or below High is
	// classified high, at or below Moderate is moderate, otherwise low.
	Moderate float64
	High     float64
}

// NewAnalyzer returns an Analyzer with the default thresholds.
func NewAnalyzer() Analyzer {
	return Analyzer{
		MinStem:  4,
		Window:   60,
		Moderate: -10.0,
		High:     -18.0,
	}
}

const minLoop = 3

// pair stability weights of the energy proxy
const (
	gcPair      = 3.0
	atPair      = 2.0
	loopBase    = 1.5
	loopPerBase = 0.3
)

// Analyze scans seq for inverted repeats and classifies its folding risk.
// Identical input always yields an identical report.
func (a Analyzer) Analyze(seq string) Report {
	window := a.Window
	if window <= 0 {
		window = 60
	}

	best := Report{Risk: RiskLow}
	if len(seq) <= window {
		best = a.scan(seq, 0)
	} else {
		for start := 0; start+window <= len(seq); start++ {
			r := a.scan(seq[start:start+window], start)
			if r.Stem != nil && (best.Stem == nil || r.Energy < best.Energy) {
				best = r
			}
		}
	}

	best.Risk = a.classify(best.Energy, best.Stem)
	return best
}

// Annotate runs Analyze over a design's sequence and fills its risk fields.
func (a Analyzer) Annotate(d *Design) {
	r := a.Analyze(d.Sequence)
	d.Risk = r.Risk
	d.Energy = r.Energy
	d.Stem = r.Stem
}

// scan finds the most stable stem within one window. offset shifts the
// reported positions back into the full sequence's coordinates.
func (a Analyzer) scan(seq string, offset int) Report {
	minStem := a.MinStem
	if minStem <= 0 {
		minStem = 4
	}

	b := []byte(seq)
	n := len(b)
	best := Report{Risk: RiskLow}

	for i := 0; i < n; i++ {
		for j := i + minLoop + 1; j < n; j++ {
			stem, stability := extend(b, i, j)
			if stem < minStem {
				continue
			}
			loop := j - i - 2*stem + 1
			energy := -stability + loopBase + loopPerBase*float64(loop)
			if best.Stem == nil || energy < best.Energy {
				best.Energy = energy
				best.Stem = &Stem{
					Left:   offset + i,
					Right:  offset + j - stem + 1,
					Length: stem,
					Loop:   loop,
				}
			}
		}
	}
	return best
}

// extend grows a stem pairing b[i+k] with b[j-k] while the bases are
// Watson-Crick complements and at least minLoop unpaired bases remain
// between the arms. Returns the arm length and summed pair stability.
func extend(b []byte, i, j int) (stem int, stability float64) {
	for i+stem < j-stem-minLoop && oligo.Complement(b[i+stem], b[j-stem]) {
		switch b[i+stem] {
		case 'G', 'g', 'C', 'c':
			stability += gcPair
		default:
			stability += atPair
		}
		stem++
	}
	return stem, stability
}

func (a Analyzer) classify(energy float64, stem *Stem) Risk {
	if stem == nil {
		return RiskLow
	}
	switch {
	case energy <= a.High:
		return RiskHigh
	case energy <= a.Moderate:
		return RiskModerate
	default:
		return RiskLow
	}
}
