package extract

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/dvloznov/statement-ledger/internal/config"
)

// fakeStrategy returns canned text or a canned error.
type fakeStrategy struct {
	name string
	text string
	err  error
}

func (f *fakeStrategy) Name() string { return f.name }

func (f *fakeStrategy) Parse(ctx context.Context, path string) (string, error) {
	return f.text, f.err
}

func tempFile(t *testing.T) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "statement.pdf")
	if err := os.WriteFile(path, []byte("%PDF-1.4"), 0o644); err != nil {
		t.Fatalf("writing temp file: %v", err)
	}
	return path
}

func TestExtract_ConfigurationOrder(t *testing.T) {
	ex, err := NewExtractor(config.PolicyBestEffort,
		&fakeStrategy{name: "pdf_text", text: "text layer"},
		&fakeStrategy{name: "tesseract_ocr", text: "ocr text"},
	)
	if err != nil {
		t.Fatalf("NewExtractor failed: %v", err)
	}

	artifacts, err := ex.Extract(context.Background(), tempFile(t))
	if err != nil {
		t.Fatalf("Extract failed: %v", err)
	}

	if len(artifacts) != 2 {
		t.Fatalf("got %d artifacts, want 2", len(artifacts))
	}
	if artifacts[0].StrategyName != "pdf_text" || artifacts[1].StrategyName != "tesseract_ocr" {
		t.Errorf("artifacts out of configuration order: %+v", artifacts)
	}
	if artifacts[0].StrategyResult != "text layer" || artifacts[1].StrategyResult != "ocr text" {
		t.Errorf("unexpected artifact contents: %+v", artifacts)
	}
}

func TestExtract_BestEffortAbsorbsStrategyError(t *testing.T) {
	ex, err := NewExtractor(config.PolicyBestEffort,
		&fakeStrategy{name: "broken", err: errors.New("boom")},
		&fakeStrategy{name: "working", text: "result"},
	)
	if err != nil {
		t.Fatalf("NewExtractor failed: %v", err)
	}

	artifacts, err := ex.Extract(context.Background(), tempFile(t))
	if err != nil {
		t.Fatalf("Extract failed under best-effort: %v", err)
	}

	if artifacts[0].StrategyResult != "" {
		t.Errorf("failing strategy should produce empty artifact, got %q", artifacts[0].StrategyResult)
	}
	if artifacts[1].StrategyResult != "result" {
		t.Errorf("sibling strategy result lost: %+v", artifacts[1])
	}
}

func TestExtract_FailFastAborts(t *testing.T) {
	ex, err := NewExtractor(config.PolicyFailFast,
		&fakeStrategy{name: "broken", err: errors.New("boom")},
		&fakeStrategy{name: "working", text: "result"},
	)
	if err != nil {
		t.Fatalf("NewExtractor failed: %v", err)
	}

	if _, err := ex.Extract(context.Background(), tempFile(t)); err == nil {
		t.Fatal("expected fail-fast extraction to abort on strategy error")
	}
}

func TestExtract_UnreadableFile(t *testing.T) {
	ex, err := NewExtractor(config.PolicyBestEffort, &fakeStrategy{name: "any"})
	if err != nil {
		t.Fatalf("NewExtractor failed: %v", err)
	}

	_, err = ex.Extract(context.Background(), filepath.Join(t.TempDir(), "missing.pdf"))

	var ef *ExtractionFailure
	if !errors.As(err, &ef) {
		t.Fatalf("expected ExtractionFailure for missing file, got %v", err)
	}
}

func TestExtract_EmptyResultIsValid(t *testing.T) {
	ex, err := NewExtractor(config.PolicyFailFast, &fakeStrategy{name: "empty", text: ""})
	if err != nil {
		t.Fatalf("NewExtractor failed: %v", err)
	}

	artifacts, err := ex.Extract(context.Background(), tempFile(t))
	if err != nil {
		t.Fatalf("empty strategy result must not fail: %v", err)
	}
	if len(artifacts) != 1 || artifacts[0].StrategyResult != "" {
		t.Errorf("unexpected artifacts: %+v", artifacts)
	}
}

func TestNewExtractor_DuplicateNames(t *testing.T) {
	_, err := NewExtractor(config.PolicyBestEffort,
		&fakeStrategy{name: "dup"},
		&fakeStrategy{name: "dup"},
	)
	if err == nil {
		t.Fatal("expected error for duplicate strategy names")
	}
}
