// Package fasta reads single-record FASTA files with target sequences.
package fasta

import (
	"bufio"
	"fmt"
	"io"
	"os"
	"strings"
)

// Record is one FASTA entry.
type Record struct {
	ID  string
	Seq string
}

// Read parses the first record from a FASTA file at path.
func Read(path string) (Record, error) {
	f, err := os.Open(path)
	if err != nil {
		return Record{}, err
	}
	defer f.Close()

	rec, err := Parse(f)
	if err != nil {
		return Record{}, fmt.Errorf("reading %s: %w", path, err)
	}
	return rec, nil
}

// Parse reads the first FASTA record from r. Lines before the first
// header are rejected, a missing header or empty sequence is an error.
func Parse(r io.Reader) (Record, error) {
	scanner := bufio.NewScanner(r)
	scanner.Buffer(make([]byte, 0, 64*1024), 8*1024*1024)

	var rec Record
	var seq strings.Builder
	seenHeader := false
	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())
		if line == "" {
			continue
		}
		if strings.HasPrefix(line, ">") {
			if seenHeader {
				break // only the first record
			}
			seenHeader = true
			fields := strings.Fields(strings.TrimPrefix(line, ">"))
			if len(fields) > 0 {
				rec.ID = fields[0]
			}
			continue
		}
		if !seenHeader {
			return Record{}, fmt.Errorf("sequence data before FASTA header")
		}
		seq.WriteString(line)
	}
	if err := scanner.Err(); err != nil {
		return Record{}, err
	}
	if !seenHeader {
		return Record{}, fmt.Errorf("no FASTA header found")
	}
	rec.Seq = strings.ToUpper(seq.String())
	if rec.Seq == "" {
		return Record{}, fmt.Errorf("record %q has no sequence", rec.ID)
	}
	return rec, nil
}
