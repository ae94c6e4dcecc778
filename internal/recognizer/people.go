package recognizer

import (
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/kozaktomas/face-tagger/internal/facename"
)

// Person is one identity derivable from the reference directory.
type Person struct {
	Name   string // tag name applied on a match
	Images int    // number of reference images for this person
}

// ScanKnownFaces enumerates the reference directory. Each regular file's
// name, minus extension and trailing digits, is a person name; several
// files may describe the same person ("Alice1.jpg", "Alice2.jpg").
// Spelling variants that differ only in case or diacritics are folded
// into the first spelling encountered. Results are sorted by name.
func ScanKnownFaces(dir string) ([]Person, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil, fmt.Errorf("could not read known faces directory: %w", err)
	}

	// Keyed by normalized name; spelling keeps the first display form.
	counts := make(map[string]int)
	spelling := make(map[string]string)
	for _, entry := range entries {
		if entry.IsDir() {
			continue
		}
		name := referenceName(entry.Name())
		if name == "" {
			continue
		}
		key := facename.Normalize(name)
		if _, ok := spelling[key]; !ok {
			spelling[key] = name
		}
		counts[key]++
	}

	people := make([]Person, 0, len(counts))
	for key, count := range counts {
		people = append(people, Person{Name: spelling[key], Images: count})
	}
	sort.Slice(people, func(i, j int) bool {
		return people[i].Name < people[j].Name
	})
	return people, nil
}

// referenceName derives the person name from a reference image filename:
// extension and the maximal trailing digit run are stripped.
func referenceName(filename string) string {
	base := strings.TrimSuffix(filename, filepath.Ext(filename))
	return strings.TrimRight(base, "0123456789")
}
