// Package upload stores uploaded source videos on disk, one directory per
// job. The pipeline never mutates or deletes a stored source; it only reads
// it.
package upload

import (
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/vcutpro/vcut/internal/config"
)

var (
	ErrUnsupportedFormat = errors.New("unsupported video format")
	ErrFileTooLarge      = errors.New("file exceeds the upload size limit")
)

type Manager struct {
	baseDir  string
	maxBytes int64
}

func NewManager(baseDir string, maxBytes int64) *Manager {
	return &Manager{baseDir: baseDir, maxBytes: maxBytes}
}

// Save streams an upload to disk under the job's directory and returns the
// stored path. The filename's extension must be on the format whitelist and
// the stream must stay under the size limit.
func (m *Manager) Save(jobID, filename string, src io.Reader) (string, error) {
	ext := strings.ToLower(filepath.Ext(filename))
	if !config.FormatAllowed(ext) {
		return "", fmt.Errorf("%w: %s", ErrUnsupportedFormat, ext)
	}

	dir := filepath.Join(m.baseDir, "uploads", jobID)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return "", err
	}

	dst := filepath.Join(dir, "source"+ext)
	f, err := os.Create(dst)
	if err != nil {
		return "", err
	}
	defer f.Close()

	// Read one byte past the limit so an exactly-at-limit file passes.
	n, err := io.Copy(f, io.LimitReader(src, m.maxBytes+1))
	if err != nil {
		os.Remove(dst)
		return "", err
	}
	if n > m.maxBytes {
		os.Remove(dst)
		return "", fmt.Errorf("%w: limit %d bytes", ErrFileTooLarge, m.maxBytes)
	}
	return dst, nil
}

// OutputDir is where a job's rendered clips land.
func (m *Manager) OutputDir(jobID string) string {
	return filepath.Join(m.baseDir, "outputs", jobID)
}

// CacheDir holds a job's intermediate artifacts (extracted audio,
// transcripts).
func (m *Manager) CacheDir(jobID string) string {
	return filepath.Join(m.baseDir, "cache", jobID)
}
