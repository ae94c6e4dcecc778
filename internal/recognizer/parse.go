package recognizer

import (
	"bufio"
	"fmt"
	"io"
	"strings"
)

// Record is a single parsed result line: one detected face in one file.
type Record struct {
	Path  string
	Label string
}

// ParseLine parses one line of recognizer output in the form
// "<path>,<label>". The path is greedy: splitting happens on the last
// comma, so paths containing commas are handled correctly. Returns false
// for lines that do not carry both a path and a label.
func ParseLine(line string) (Record, bool) {
	line = strings.TrimRight(line, "\r")
	idx := strings.LastIndex(line, ",")
	if idx < 0 {
		return Record{}, false
	}

	path := strings.TrimSpace(line[:idx])
	label := strings.TrimSpace(line[idx+1:])
	if path == "" || label == "" {
		return Record{}, false
	}

	return Record{Path: path, Label: label}, true
}

// ParseResults reads recognizer output line by line and groups the raw
// labels by file path. A file appears once per detected face, so label
// multiplicity and order are preserved. Malformed lines are dropped
// without aborting the scan.
func ParseResults(r io.Reader) (map[string][]string, error) {
	results := make(map[string][]string)

	scanner := bufio.NewScanner(r)
	for scanner.Scan() {
		record, ok := ParseLine(scanner.Text())
		if !ok {
			continue
		}
		results[record.Path] = append(results[record.Path], record.Label)
	}
	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("could not read recognizer output: %w", err)
	}

	return results, nil
}
