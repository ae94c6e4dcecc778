// Package export materializes catalog photos as files on disk so an
// external tool can read them. Exported files live in a per-run
// directory and are deleted again once the run is over.
package export

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/google/uuid"
)

// Downloader provides photo file content, usually the PhotoPrism client.
type Downloader interface {
	GetPhotoDownload(photoUID string) ([]byte, string, error)
}

// Exporter downloads photos into per-run export directories.
type Exporter struct {
	downloader Downloader
	parentDir  string
	maxSize    int
}

// New creates an exporter. parentDir defaults to the system temp
// directory; maxSize > 0 downscales exported images to that maximum
// dimension, which speeds up recognition considerably.
func New(downloader Downloader, parentDir string, maxSize int) *Exporter {
	if parentDir == "" {
		parentDir = os.TempDir()
	}
	return &Exporter{
		downloader: downloader,
		parentDir:  parentDir,
		maxSize:    maxSize,
	}
}

// Batch is one run's worth of exported files. It remembers which photo
// each file came from so recognition results can be mapped back.
type Batch struct {
	Dir     string
	files   map[string]string // absolute file path -> photo UID
	cleaned bool
}

// NewBatch creates a fresh export directory for one run.
func (e *Exporter) NewBatch() (*Batch, error) {
	dir := filepath.Join(e.parentDir, "face-export-"+uuid.NewString())
	if err := os.MkdirAll(dir, 0750); err != nil {
		return nil, fmt.Errorf("could not create export directory: %w", err)
	}
	return &Batch{Dir: dir, files: make(map[string]string)}, nil
}

// Export downloads one photo into the batch directory and records the
// path mapping. originalName only contributes the file extension.
func (e *Exporter) Export(batch *Batch, photoUID, originalName string) (string, error) {
	data, contentType, err := e.downloader.GetPhotoDownload(photoUID)
	if err != nil {
		return "", fmt.Errorf("could not download photo %s: %w", photoUID, err)
	}

	ext := exportExtension(originalName, contentType)
	if e.maxSize > 0 {
		// Downscaling failures fall back to the original bytes: the
		// recognizer gets a bigger file, not a missing one.
		if scaled, scaledExt, scaleErr := downscale(data, e.maxSize); scaleErr == nil {
			data = scaled
			ext = scaledExt
		}
	}

	path := filepath.Join(batch.Dir, photoUID+ext)
	if err := os.WriteFile(path, data, 0600); err != nil {
		return "", fmt.Errorf("could not write exported file: %w", err)
	}

	batch.files[path] = photoUID
	return path, nil
}

// Lookup resolves an exported file path back to its photo UID.
func (b *Batch) Lookup(path string) (string, bool) {
	uid, ok := b.files[path]
	return uid, ok
}

// Len returns the number of exported files.
func (b *Batch) Len() int {
	return len(b.files)
}

// Cleanup deletes all exported files and then the batch directory.
// Best effort: removal errors are collected, never fatal, and the method
// is safe to call more than once. The path mapping survives so results
// parsed after cleanup can still be resolved.
func (b *Batch) Cleanup() []error {
	if b.cleaned {
		return nil
	}
	b.cleaned = true

	var errs []error
	for path := range b.files {
		if err := os.Remove(path); err != nil && !os.IsNotExist(err) {
			errs = append(errs, fmt.Errorf("could not remove %s: %w", path, err))
		}
	}
	// Fails while the directory still holds foreign files (e.g. the
	// recognition artifact): callers retain that first.
	if err := os.Remove(b.Dir); err != nil && !os.IsNotExist(err) {
		errs = append(errs, fmt.Errorf("could not remove export directory: %w", err))
	}
	return errs
}

// exportExtension picks a file extension for an exported photo, from the
// original filename when available and the content type otherwise.
func exportExtension(originalName, contentType string) string {
	if ext := filepath.Ext(originalName); ext != "" {
		return strings.ToLower(ext)
	}
	switch contentType {
	case "image/png":
		return ".png"
	case "image/gif":
		return ".gif"
	default:
		return ".jpg"
	}
}
