package upload

import (
	"errors"
	"os"
	"strings"
	"testing"
)

func TestSave(t *testing.T) {
	t.Parallel()

	m := NewManager(t.TempDir(), 1024)
	path, err := m.Save("job-1", "talk.MP4", strings.NewReader("video bytes"))
	if err != nil {
		t.Fatalf("save: %v", err)
	}
	b, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("read back: %v", err)
	}
	if string(b) != "video bytes" {
		t.Fatalf("unexpected content %q", b)
	}
	if !strings.HasSuffix(path, ".mp4") {
		t.Fatalf("expected lowercased extension, got %s", path)
	}
}

func TestSave_RejectsUnsupportedFormat(t *testing.T) {
	t.Parallel()

	m := NewManager(t.TempDir(), 1024)
	if _, err := m.Save("job-1", "malware.exe", strings.NewReader("x")); !errors.Is(err, ErrUnsupportedFormat) {
		t.Fatalf("expected ErrUnsupportedFormat, got %v", err)
	}
}

func TestSave_SizeLimit(t *testing.T) {
	t.Parallel()

	m := NewManager(t.TempDir(), 10)

	if _, err := m.Save("job-1", "ok.mp4", strings.NewReader("1234567890")); err != nil {
		t.Fatalf("at-limit upload should pass: %v", err)
	}
	if _, err := m.Save("job-2", "big.mp4", strings.NewReader("12345678901")); !errors.Is(err, ErrFileTooLarge) {
		t.Fatalf("expected ErrFileTooLarge, got %v", err)
	}
}

func TestDirs(t *testing.T) {
	t.Parallel()

	m := NewManager("data", 1024)
	if !strings.Contains(m.OutputDir("j"), "outputs") {
		t.Fatalf("unexpected output dir %s", m.OutputDir("j"))
	}
	if !strings.Contains(m.CacheDir("j"), "cache") {
		t.Fatalf("unexpected cache dir %s", m.CacheDir("j"))
	}
}
