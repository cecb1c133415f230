// Package oligo has primitive operations over short DNA sequences:
// validation, reverse-complementation, GC content and motif checks.
package oligo

import (
	"fmt"
	"strings"
)

var comp = map[byte]byte{
	'A': 'T', 'T': 'A', 'C': 'G', 'G': 'C', 'N': 'N',
	'a': 't', 't': 'a', 'c': 'g', 'g': 'c', 'n': 'n',
}

// Validate returns an error if seq is empty or contains a base
// outside the {A,C,G,T,N} alphabet (case-insensitive).
func Validate(seq string) error {
	if seq == "" {
		return fmt.Errorf("empty sequence")
	}
	for i := 0; i < len(seq); i++ {
		if _, ok := comp[seq[i]]; !ok {
			return fmt.Errorf("illegal base %q at index %d", seq[i], i)
		}
	}
	return nil
}

// RevComp returns the reverse-complement of seq. Case is preserved.
func RevComp(seq string) string {
	rc := make([]byte, len(seq))
	for i := 0; i < len(seq); i++ {
		b, ok := comp[seq[len(seq)-1-i]]
		if !ok {
			b = 'N'
		}
		rc[i] = b
	}
	return string(rc)
}

// GCPercent returns the percentage of G/C bases in seq, 0 for an empty sequence.
func GCPercent(seq string) float64 {
	if seq == "" {
		return 0
	}
	gc := 0
	for i := 0; i < len(seq); i++ {
		switch seq[i] {
		case 'G', 'C', 'g', 'c':
			gc++
		}
	}
	return float64(gc) / float64(len(seq)) * 100.0
}

// GCClamp counts the G/C bases among the last window bases of seq,
// the 3' end when seq is written 5'->3'.
func GCClamp(seq string, window int) int {
	if window > len(seq) {
		window = len(seq)
	}
	gc := 0
	for i := len(seq) - window; i < len(seq); i++ {
		switch seq[i] {
		case 'G', 'C', 'g', 'c':
			gc++
		}
	}
	return gc
}

// LongestRun returns the length of the longest homopolymer run in seq.
func LongestRun(seq string) int {
	longest, run := 0, 0
	var last byte
	for i := 0; i < len(seq); i++ {
		b := upper(seq[i])
		if i > 0 && b == last {
			run++
		} else {
			run = 1
			last = b
		}
		if run > longest {
			longest = run
		}
	}
	return longest
}

// ContainsMotif reports whether motif occurs in seq, case-insensitive.
func ContainsMotif(seq, motif string) bool {
	if motif == "" {
		return false
	}
	return strings.Contains(strings.ToUpper(seq), strings.ToUpper(motif))
}

// Complement reports whether p and t are Watson-Crick complements.
func Complement(p, t byte) bool {
	switch upper(p) {
	case 'A':
		return upper(t) == 'T'
	case 'T':
		return upper(t) == 'A'
	case 'C':
		return upper(t) == 'G'
	case 'G':
		return upper(t) == 'C'
	}
	return false
}

func upper(b byte) byte {
	if b >= 'a' && b <= 'z' {
		return b - 'a' + 'A'
	}
	return b
}
