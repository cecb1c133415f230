// Package engine drives primer3_core as the external metric engine. The
// rest of the pipeline treats it as an opaque oracle behind the
// design.MetricEngine interface: one synchronous invocation per tier, an
// empty result distinct from a failure, and no retries at this layer.
package engine

import (
	"bytes"
	"context"
	"fmt"
	"os"
	"os/exec"
	"strconv"
	"strings"

	"github.com/MaxwellM34/primerPlus/internal/design"
)

// Primer3 shells out to primer3_core with a Boulder-IO settings file and
// parses the candidate records it prints back.
type Primer3 struct {
	// Path to the primer3_core executable.
	Path string

	// ThermoDir is the primer3 thermodynamic parameters folder, with a
	// trailing separator, as primer3 requires.
	ThermoDir string

	// NumReturn caps how many pairs primer3 reports per call.
	NumReturn int
}

// Design invokes primer3_core once for the tier's parameter snapshot.
// Returning zero candidates with a nil error means primer3 ran fine and
// found nothing; any exec or parse problem is an error the scheduler
// records as an EngineFailure for this tier.
func (p *Primer3) Design(ctx context.Context, target design.Target, params design.Params) ([]design.Candidate, error) {
	in, err := os.CreateTemp("", "primer3-in-*")
	if err != nil {
		return nil, err
	}
	defer os.Remove(in.Name())

	out, err := os.CreateTemp("", "primer3-out-*")
	if err != nil {
		return nil, err
	}
	defer os.Remove(out.Name())

	var buf bytes.Buffer
	if err := writeBoulder(&buf, p.settings(target, params)); err != nil {
		return nil, err
	}
	if _, err := in.Write(buf.Bytes()); err != nil {
		return nil, fmt.Errorf("writing primer3 input %s: %w", in.Name(), err)
	}
	in.Close()

	path := p.Path
	if path == "" {
		path = "primer3_core"
	}
	p3Cmd := exec.CommandContext(ctx, path, in.Name(), "-output", out.Name(), "-strict_tags")
	if output, err := p3Cmd.CombinedOutput(); err != nil {
		return nil, fmt.Errorf("executing primer3 on %s: %s: %w", in.Name(), string(output), err)
	}

	file, err := os.Open(out.Name())
	if err != nil {
		return nil, err
	}
	defer file.Close()

	results, err := parseBoulder(file)
	if err != nil {
		return nil, err
	}
	return parseCandidates(results, params.PickProbe)
}

// settings maps one tier's constraint snapshot onto primer3 global and
// sequence tags. Probe tags are only emitted when the tier picks an
// internal oligo.
func (p *Primer3) settings(target design.Target, params design.Params) map[string]string {
	numReturn := p.NumReturn
	if numReturn <= 0 {
		numReturn = 100
	}

	s := map[string]string{
		"SEQUENCE_ID":               target.ID,
		"SEQUENCE_TEMPLATE":         target.Seq,
		"PRIMER_TASK":               "generic",
		"PRIMER_PICK_LEFT_PRIMER":   "1",
		"PRIMER_PICK_RIGHT_PRIMER":  "1",
		"PRIMER_NUM_RETURN":         strconv.Itoa(numReturn),
		"PRIMER_EXPLAIN_FLAG":       "1",
		"PRIMER_MIN_SIZE":           strconv.Itoa(params.PrimerSize.Min),
		"PRIMER_MAX_SIZE":           strconv.Itoa(params.PrimerSize.Max),
		"PRIMER_MIN_TM":             formatFloat(params.MinTm),
		"PRIMER_MAX_TM":             formatFloat(params.MaxTm),
		"PRIMER_PAIR_MAX_DIFF_TM":   formatFloat(params.MaxTmDiff),
		"PRIMER_MIN_GC":             formatFloat(params.MinGC),
		"PRIMER_MAX_GC":             formatFloat(params.MaxGC),
		"PRIMER_GC_CLAMP":           strconv.Itoa(params.GCClamp),
		"PRIMER_MAX_SELF_ANY_TH":    formatFloat(params.MaxSelfAny),
		"PRIMER_MAX_SELF_END_TH":    formatFloat(params.MaxSelfEnd),
		"PRIMER_PRODUCT_SIZE_RANGE": fmt.Sprintf("%d-%d", params.ProductSize.Min, params.ProductSize.Max),
		"PRIMER_THERMODYNAMIC_OLIGO_ALIGNMENT": "1",
	}
	if p.ThermoDir != "" {
		s["PRIMER_THERMODYNAMIC_PARAMETERS_PATH"] = p.ThermoDir
	}
	if params.PrimerOpt > 0 {
		s["PRIMER_OPT_SIZE"] = strconv.Itoa(params.PrimerOpt)
	}
	if params.OptTm > 0 {
		s["PRIMER_OPT_TM"] = formatFloat(params.OptTm)
	}
	if params.MaxPolyX > 0 {
		s["PRIMER_MAX_POLY_X"] = strconv.Itoa(params.MaxPolyX)
	}
	if params.PickProbe {
		s["PRIMER_PICK_INTERNAL_OLIGO"] = "1"
		s["PRIMER_INTERNAL_MIN_TM"] = formatFloat(params.ProbeMinTm)
		s["PRIMER_INTERNAL_MAX_TM"] = formatFloat(params.ProbeMaxTm)
		if target.Probe != nil {
			s["SEQUENCE_INTERNAL_EXCLUDED_REGION"] = excludedOutside(*target.Probe, len(target.Seq))
		}
	}
	return s
}

// excludedOutside inverts a wanted region into primer3's excluded-region
// list so the internal oligo lands inside it.
func excludedOutside(r design.Region, seqLen int) string {
	var parts []string
	if r.Start > 0 {
		parts = append(parts, fmt.Sprintf("0,%d", r.Start))
	}
	end := r.Start + r.Length
	if end < seqLen {
		parts = append(parts, fmt.Sprintf("%d,%d", end, seqLen-end))
	}
	return strings.Join(parts, " ")
}

// parseCandidates turns a primer3 output map into candidate records.
// Malformed output (a reported pair missing its fields) is an error, not
// a short read.
func parseCandidates(results map[string]string, wantProbe bool) ([]design.Candidate, error) {
	if p3Error := results["PRIMER_ERROR"]; p3Error != "" {
		return nil, fmt.Errorf("primer3 error: %s", p3Error)
	}

	numStr, ok := results["PRIMER_PAIR_NUM_RETURNED"]
	if !ok {
		return nil, fmt.Errorf("primer3 output missing PRIMER_PAIR_NUM_RETURNED")
	}
	num, err := strconv.Atoi(numStr)
	if err != nil {
		return nil, fmt.Errorf("bad PRIMER_PAIR_NUM_RETURNED %q", numStr)
	}

	cands := make([]design.Candidate, 0, num)
	for i := 0; i < num; i++ {
		c, err := parsePair(results, i, wantProbe)
		if err != nil {
			return nil, err
		}
		cands = append(cands, c)
	}
	return cands, nil
}

func parsePair(results map[string]string, i int, wantProbe bool) (design.Candidate, error) {
	fwd, err := parseOligo(results, "LEFT", i)
	if err != nil {
		return design.Candidate{}, err
	}
	rev, err := parseOligo(results, "RIGHT", i)
	if err != nil {
		return design.Candidate{}, err
	}
	// primer3 reports the right primer's 3' template index; normalize to
	// the leftmost offset of the annealing region
	rev.Start = rev.Start - rev.Length + 1

	product, err := intField(results, fmt.Sprintf("PRIMER_PAIR_%d_PRODUCT_SIZE", i))
	if err != nil {
		return design.Candidate{}, err
	}

	c := design.Candidate{
		Fwd:         fwd,
		Rev:         rev,
		ProductSize: product,
		SelfComplementarity: maxFloat(
			floatField(results, fmt.Sprintf("PRIMER_LEFT_%d_SELF_ANY_TH", i)),
			floatField(results, fmt.Sprintf("PRIMER_RIGHT_%d_SELF_ANY_TH", i)),
			floatField(results, fmt.Sprintf("PRIMER_PAIR_%d_COMPL_ANY_TH", i)),
		),
		EndStability: maxFloat(
			floatField(results, fmt.Sprintf("PRIMER_LEFT_%d_END_STABILITY", i)),
			floatField(results, fmt.Sprintf("PRIMER_RIGHT_%d_END_STABILITY", i)),
		),
	}

	if wantProbe {
		probe, err := parseOligo(results, "INTERNAL", i)
		if err != nil {
			return design.Candidate{}, err
		}
		c.Probe = &probe
	}
	return c, nil
}

func parseOligo(results map[string]string, side string, i int) (design.Oligo, error) {
	seq := results[fmt.Sprintf("PRIMER_%s_%d_SEQUENCE", side, i)]
	if seq == "" {
		return design.Oligo{}, fmt.Errorf("primer3 output missing PRIMER_%s_%d_SEQUENCE", side, i)
	}

	coords := results[fmt.Sprintf("PRIMER_%s_%d", side, i)]
	parts := strings.Split(coords, ",")
	if len(parts) != 2 {
		return design.Oligo{}, fmt.Errorf("bad coords %q for PRIMER_%s_%d", coords, side, i)
	}
	start, err := strconv.Atoi(parts[0])
	if err != nil {
		return design.Oligo{}, fmt.Errorf("bad start %q for PRIMER_%s_%d", parts[0], side, i)
	}
	length, err := strconv.Atoi(parts[1])
	if err != nil {
		return design.Oligo{}, fmt.Errorf("bad length %q for PRIMER_%s_%d", parts[1], side, i)
	}

	return design.Oligo{
		Seq:       seq,
		Tm:        floatField(results, fmt.Sprintf("PRIMER_%s_%d_TM", side, i)),
		GCPercent: floatField(results, fmt.Sprintf("PRIMER_%s_%d_GC_PERCENT", side, i)),
		Start:     start,
		Length:    length,
	}, nil
}

func intField(results map[string]string, key string) (int, error) {
	v, ok := results[key]
	if !ok {
		return 0, fmt.Errorf("primer3 output missing %s", key)
	}
	n, err := strconv.Atoi(v)
	if err != nil {
		return 0, fmt.Errorf("bad %s value %q", key, v)
	}
	return n, nil
}

func floatField(results map[string]string, key string) float64 {
	f, _ := strconv.ParseFloat(results[key], 64)
	return f
}

func maxFloat(vs ...float64) float64 {
	m := vs[0]
	for _, v := range vs[1:] {
		if v > m {
			m = v
		}
	}
	return m
}

func formatFloat(f float64) string {
	return strconv.FormatFloat(f, 'f', -1, 64)
}
