package wordfile

import (
	"os"
	"path/filepath"
	"testing"
)

func writeTempFile(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "words.tsv")
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatalf("failed to write temp file: %v", err)
	}
	return path
}

func TestLoadParsesPairs(t *testing.T) {
	path := writeTempFile(t, "Hund\tdog\n# comment\n\nKatze\tcat\n")
	candidates, skipped, err := Load(path)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if skipped != 0 {
		t.Fatalf("expected no skipped lines, got %d", skipped)
	}
	if len(candidates) != 2 {
		t.Fatalf("expected 2 candidates, got %d", len(candidates))
	}
	if candidates[0].Word != "Hund" || candidates[0].Translation != "dog" {
		t.Fatalf("unexpected first candidate: %+v", candidates[0])
	}
}

func TestLoadCountsMalformedLines(t *testing.T) {
	path := writeTempFile(t, "Hund\tdog\nno-tab-here\n\ttranslation-only\nword-only\t\n")
	candidates, skipped, err := Load(path)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(candidates) != 1 {
		t.Fatalf("expected 1 candidate, got %d", len(candidates))
	}
	if skipped != 3 {
		t.Fatalf("expected 3 skipped lines, got %d", skipped)
	}
}

func TestLoadRejectsEmptyFile(t *testing.T) {
	path := writeTempFile(t, "# only comments\n\n")
	if _, _, err := Load(path); err == nil {
		t.Fatalf("expected error for file without entries")
	}
}
