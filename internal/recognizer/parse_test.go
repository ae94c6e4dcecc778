package recognizer

import (
	"strings"
	"testing"
)

func TestParseLine(t *testing.T) {
	tests := []struct {
		name     string
		line     string
		expected Record
		ok       bool
	}{
		{"simple", "/tmp/a.jpg,Alice1", Record{Path: "/tmp/a.jpg", Label: "Alice1"}, true},
		{"comma in path", "/tmp/export,2024/a.jpg,Bob", Record{Path: "/tmp/export,2024/a.jpg", Label: "Bob"}, true},
		{"no comma", "/tmp/a.jpg Alice", Record{}, false},
		{"empty line", "", Record{}, false},
		{"missing label", "/tmp/a.jpg,", Record{}, false},
		{"missing path", ",Alice", Record{}, false},
		{"windows line ending", "/tmp/a.jpg,Alice\r", Record{Path: "/tmp/a.jpg", Label: "Alice"}, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			record, ok := ParseLine(tt.line)
			if ok != tt.ok {
				t.Fatalf("ParseLine(%q) ok = %v, expected %v", tt.line, ok, tt.ok)
			}
			if record != tt.expected {
				t.Errorf("ParseLine(%q) = %+v, expected %+v", tt.line, record, tt.expected)
			}
		})
	}
}

func TestParseResults(t *testing.T) {
	output := strings.Join([]string{
		"/tmp/a.jpg,Alice1",
		"/tmp/a.jpg,Bob2",
		"/tmp/b.jpg,unknown_person",
	}, "\n")

	results, err := ParseResults(strings.NewReader(output))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if len(results) != 2 {
		t.Fatalf("expected 2 files, got %d", len(results))
	}

	labels := results["/tmp/a.jpg"]
	if len(labels) != 2 || labels[0] != "Alice1" || labels[1] != "Bob2" {
		t.Errorf("expected [Alice1 Bob2] for /tmp/a.jpg, got %v", labels)
	}

	if got := results["/tmp/b.jpg"]; len(got) != 1 || got[0] != "unknown_person" {
		t.Errorf("expected [unknown_person] for /tmp/b.jpg, got %v", got)
	}
}

func TestParseResultsSkipsMalformedLines(t *testing.T) {
	output := strings.Join([]string{
		"garbage without comma",
		"/tmp/a.jpg,Alice",
		"",
		"/tmp/b.jpg,Bob",
	}, "\n")

	results, err := ParseResults(strings.NewReader(output))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if len(results) != 2 {
		t.Errorf("expected malformed lines to be dropped, got %d files", len(results))
	}
}

func TestParseResultsEmptyOutput(t *testing.T) {
	results, err := ParseResults(strings.NewReader(""))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(results) != 0 {
		t.Errorf("expected no results for empty output, got %d", len(results))
	}
}
