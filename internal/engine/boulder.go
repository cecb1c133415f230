package engine

import (
	"bufio"
	"fmt"
	"io"
	"sort"
	"strings"
)

// writeBoulder renders a settings map as a Boulder-IO record, the input
// format of primer3_core. Keys are sorted so rendered input is stable for
// a given parameter set.
func writeBoulder(w io.Writer, settings map[string]string) error {
	keys := make([]string, 0, len(settings))
	for k := range settings {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	for _, k := range keys {
		if _, err := fmt.Fprintf(w, "%s=%s\n", k, settings[k]); err != nil {
			return err
		}
	}
	// a record is terminated by a lone "="
	_, err := io.WriteString(w, "=\n")
	return err
}

// parseBoulder reads primer3_core output into a flat key/value map.
func parseBoulder(r io.Reader) (map[string]string, error) {
	out := map[string]string{}
	scanner := bufio.NewScanner(r)
	scanner.Buffer(make([]byte, 0, 64*1024), 4*1024*1024)
	for scanner.Scan() {
		line := scanner.Text()
		if line == "=" {
			break
		}
		idx := strings.Index(line, "=")
		if idx < 1 {
			continue
		}
		out[strings.TrimSpace(line[:idx])] = strings.TrimSpace(line[idx+1:])
	}
	return out, scanner.Err()
}
