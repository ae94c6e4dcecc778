// Package tagger runs the face-tagging pipeline: export a photo batch,
// run the external recognizer over it, and apply the recognized
// identities back onto the originating photos as labels.
package tagger

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"time"

	"github.com/schollz/progressbar/v3"

	"github.com/kozaktomas/face-tagger/internal/export"
	"github.com/kozaktomas/face-tagger/internal/photoprism"
	"github.com/kozaktomas/face-tagger/internal/recognizer"
)

// pageSize for paginated photo fetches from the catalog.
const pageSize = 1000

// Catalog is the photo-catalog boundary the pipeline needs: select
// photos, read their current labels, attach labels. Satisfied by
// *photoprism.PhotoPrism.
type Catalog interface {
	GetPhotos(count int, offset int, query string) ([]photoprism.Photo, error)
	GetPhotoLabels(photoUID string) ([]string, error)
	AddPhotoLabel(photoUID string, label photoprism.PhotoLabel) (*photoprism.Photo, error)
}

// Recognizer drives the external face-recognition tool.
type Recognizer interface {
	Available() error
	Recognize(ctx context.Context, cores int, knownDir, exportDir string) (string, error)
}

// TagReader reads a photo's current label names. Optional fast path
// backed by the PhotoPrism database instead of per-photo API calls.
type TagReader interface {
	PhotoLabels(ctx context.Context, photoUID string) ([]string, error)
}

// Tagger orchestrates one pipeline run.
type Tagger struct {
	catalog    Catalog
	recognizer Recognizer
	exporter   *export.Exporter
	tagReader  TagReader
}

// Option configures the tagger.
type Option func(*Tagger)

// WithTagReader routes existing-tag lookups through a direct database
// reader instead of the catalog API.
func WithTagReader(r TagReader) Option {
	return func(t *Tagger) {
		if r != nil {
			t.tagReader = r
		}
	}
}

// New constructs a tagger.
func New(catalog Catalog, rec Recognizer, exporter *export.Exporter, opts ...Option) *Tagger {
	t := &Tagger{
		catalog:    catalog,
		recognizer: rec,
		exporter:   exporter,
	}
	for _, opt := range opts {
		opt(t)
	}
	return t
}

// Options controls a single run.
type Options struct {
	Query          string   // catalog search query selecting the batch, empty = all photos
	Limit          int      // maximum photos to process, 0 = no limit
	KnownFacesPath string   // directory of reference face images
	Cores          int      // CPU hint for the recognizer, 0 = all
	UnknownTag     string   // tag applied for unmatched faces
	IgnoreTags     []string // photos whose tags contain any of these are skipped
	ResultDir      string   // where the raw result file is retained, empty = user cache dir
	DryRun         bool     // report instead of applying
}

// Result summarizes a run.
type Result struct {
	Exported  int                 // photos exported for recognition
	Faces     int                 // parsed recognition records
	Ignored   int                 // photos skipped by the ignore rules
	Unmatched int                 // records whose path matched no exported file
	Applied   int                 // labels attached (or that would be, in dry-run)
	Artifact  string              // retained raw recognizer output
	Pending   map[string][]string // dry-run only: photo UID -> labels that would be applied
	Errors    []error             // non-fatal problems encountered on the way
}

// Run executes the pipeline. Failures past the tool-availability check
// are collected in Result.Errors rather than aborting: exported files
// are always deleted once recognition has been invoked.
func (t *Tagger) Run(ctx context.Context, opts Options) (*Result, error) {
	if opts.KnownFacesPath == "" {
		return nil, errors.New("known faces directory required")
	}
	if opts.UnknownTag == "" {
		opts.UnknownTag = recognizer.UnknownMarker
	}

	// Checked before anything is exported so a missing tool has no
	// side effects at all.
	if err := t.recognizer.Available(); err != nil {
		return nil, err
	}

	photos, err := t.fetchPhotos(opts.Query, opts.Limit)
	if err != nil {
		return nil, fmt.Errorf("could not fetch photos: %w", err)
	}

	result := &Result{}
	if len(photos) == 0 {
		fmt.Println("No photos matched the selection.")
		return result, nil
	}

	batch, err := t.exporter.NewBatch()
	if err != nil {
		return nil, err
	}

	bar := progressbar.NewOptions(len(photos),
		progressbar.OptionSetDescription("Exporting photos"),
		progressbar.OptionShowCount(),
		progressbar.OptionShowElapsedTimeOnFinish(),
	)
	for _, photo := range photos {
		if _, err := t.exporter.Export(batch, photo.UID, photo.FileName); err != nil {
			result.Errors = append(result.Errors, err)
		}
		_ = bar.Add(1)
	}
	fmt.Println()
	result.Exported = batch.Len()

	if result.Exported == 0 {
		cleanupErrs := batch.Cleanup()
		result.Errors = append(result.Errors, cleanupErrs...)
		result.Errors = append(result.Errors, errors.New("no photos could be exported"))
		return result, nil
	}

	fmt.Printf("Running face recognition on %d photos...\n", result.Exported)
	artifact, runErr := t.recognizer.Recognize(ctx, opts.Cores, opts.KnownFacesPath, batch.Dir)
	if runErr != nil {
		// Surfaced separately from an unreadable result file, so a
		// crash is distinguishable from zero detections.
		result.Errors = append(result.Errors, runErr)
	}

	retained, retainErr := retainArtifact(artifact, opts.ResultDir)

	// Exported files are deleted no matter how the steps above went.
	result.Errors = append(result.Errors, batch.Cleanup()...)

	if retainErr != nil {
		result.Errors = append(result.Errors, fmt.Errorf("recognition results unreadable: %w", retainErr))
		return result, nil
	}
	result.Artifact = retained

	records, err := t.parseArtifact(retained)
	if err != nil {
		result.Errors = append(result.Errors, err)
		return result, nil
	}

	t.applyRecords(ctx, batch, records, opts, result)
	return result, nil
}

func (t *Tagger) fetchPhotos(query string, limit int) ([]photoprism.Photo, error) {
	var all []photoprism.Photo
	offset := 0
	for {
		photos, err := t.catalog.GetPhotos(pageSize, offset, query)
		if err != nil {
			return nil, err
		}
		if len(photos) == 0 {
			break
		}
		all = append(all, photos...)
		offset += len(photos)

		if limit > 0 && len(all) >= limit {
			all = all[:limit]
			break
		}
	}
	return all, nil
}

func (t *Tagger) parseArtifact(path string) (map[string][]string, error) {
	f, err := os.Open(path) //nolint:gosec // path built from the run's own export directory
	if err != nil {
		return nil, fmt.Errorf("could not open recognition results: %w", err)
	}
	defer f.Close()

	return recognizer.ParseResults(f)
}

// applyRecords maps parsed records back to photos, applies the ignore
// rules against pre-run tag state, and attaches the normalized labels.
func (t *Tagger) applyRecords(ctx context.Context, batch *export.Batch, records map[string][]string, opts Options, result *Result) {
	// Group raw labels per photo first; one photo may appear under one
	// path only, but records for unknown paths are dropped here.
	matched := make(map[string][]string)
	for path, rawLabels := range records {
		result.Faces += len(rawLabels)
		uid, ok := batch.Lookup(path)
		if !ok {
			result.Unmatched += len(rawLabels)
			continue
		}
		matched[uid] = append(matched[uid], rawLabels...)
	}

	if opts.DryRun {
		result.Pending = make(map[string][]string)
	}

	for _, uid := range sortedKeys(matched) {
		tags, err := t.photoLabels(ctx, uid)
		if err != nil {
			result.Errors = append(result.Errors, fmt.Errorf("could not read tags of %s: %w", uid, err))
			continue
		}
		if isIgnored(tags, opts.IgnoreTags) {
			fmt.Printf("Skipping %s: marked as ignored\n", uid)
			result.Ignored++
			continue
		}

		for _, label := range normalizeAll(matched[uid], opts.UnknownTag) {
			if opts.DryRun {
				result.Pending[uid] = append(result.Pending[uid], label)
				result.Applied++
				continue
			}
			if _, err := t.catalog.AddPhotoLabel(uid, photoprism.PhotoLabel{Name: label, LabelSrc: "manual"}); err != nil {
				result.Errors = append(result.Errors, fmt.Errorf("could not tag %s with %q: %w", uid, label, err))
				continue
			}
			result.Applied++
		}
	}
}

// photoLabels reads a photo's current tag names, preferring the direct
// database reader when configured.
func (t *Tagger) photoLabels(ctx context.Context, uid string) ([]string, error) {
	if t.tagReader != nil {
		return t.tagReader.PhotoLabels(ctx, uid)
	}
	return t.catalog.GetPhotoLabels(uid)
}

// normalizeAll normalizes raw labels and deduplicates them. Two faces of
// the same person in one photo yield the tag once; labels that strip to
// an empty string are dropped.
func normalizeAll(rawLabels []string, unknownTag string) []string {
	seen := make(map[string]bool)
	var labels []string
	for _, raw := range rawLabels {
		label := recognizer.NormalizeLabel(raw, unknownTag)
		if label == "" || seen[label] {
			continue
		}
		seen[label] = true
		labels = append(labels, label)
	}
	return labels
}

// retainArtifact moves the raw recognizer output out of the export
// directory so it survives cleanup, for diagnostics.
func retainArtifact(artifact, resultDir string) (string, error) {
	if resultDir == "" {
		cacheDir, err := os.UserCacheDir()
		if err != nil {
			cacheDir = os.TempDir()
		}
		resultDir = filepath.Join(cacheDir, "face-tagger")
	}
	if err := os.MkdirAll(resultDir, 0750); err != nil {
		return "", fmt.Errorf("could not create result directory: %w", err)
	}

	dest := filepath.Join(resultDir, fmt.Sprintf("facerecognition-%s.txt", time.Now().Format("20060102-150405")))
	if err := os.Rename(artifact, dest); err != nil {
		// Rename fails across filesystems; fall back to a copy.
		data, readErr := os.ReadFile(artifact) //nolint:gosec // path built from the run's own export directory
		if readErr != nil {
			return "", fmt.Errorf("could not retain result file: %w", readErr)
		}
		if writeErr := os.WriteFile(dest, data, 0600); writeErr != nil {
			return "", fmt.Errorf("could not retain result file: %w", writeErr)
		}
		_ = os.Remove(artifact)
	}
	return dest, nil
}

func sortedKeys(m map[string][]string) []string {
	keys := make([]string, 0, len(m))
	for key := range m {
		keys = append(keys, key)
	}
	sort.Strings(keys)
	return keys
}
