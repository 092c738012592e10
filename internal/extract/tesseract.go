package extract

import (
	"context"
	"fmt"
	"os"
	"os/exec"
	"path/filepath"
	"sort"
	"strings"
)

// TesseractStrategy OCRs the statement through the tesseract binary. PDFs
// are rasterized page by page with pdftoppm first; PNG and JPEG inputs go to
// tesseract directly. Both binaries must be on PATH.
type TesseractStrategy struct {
	// Lang is the tesseract language code, e.g. "eng". Empty uses the
	// tesseract default.
	Lang string
}

func NewTesseractStrategy(lang string) *TesseractStrategy {
	return &TesseractStrategy{Lang: lang}
}

func (s *TesseractStrategy) Name() string {
	return "tesseract_ocr"
}

func (s *TesseractStrategy) Parse(ctx context.Context, path string) (string, error) {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".pdf":
		return s.scanPDF(ctx, path)
	case ".png", ".jpg", ".jpeg":
		return s.runTesseract(ctx, path)
	default:
		return "", fmt.Errorf("TesseractStrategy: unsupported file type %q", filepath.Ext(path))
	}
}

// scanPDF rasterizes every page into a temp directory and OCRs them in page
// order.
func (s *TesseractStrategy) scanPDF(ctx context.Context, path string) (string, error) {
	tmpDir, err := os.MkdirTemp("", "ledger-ocr-*")
	if err != nil {
		return "", fmt.Errorf("TesseractStrategy: temp dir: %w", err)
	}
	defer os.RemoveAll(tmpDir)

	prefix := filepath.Join(tmpDir, "page")
	cmd := exec.CommandContext(ctx, "pdftoppm", "-r", "300", "-png", path, prefix)
	if out, err := cmd.CombinedOutput(); err != nil {
		return "", fmt.Errorf("TesseractStrategy: pdftoppm: %w: %s", err, strings.TrimSpace(string(out)))
	}

	images, err := filepath.Glob(prefix + "*.png")
	if err != nil {
		return "", fmt.Errorf("TesseractStrategy: globbing pages: %w", err)
	}
	if len(images) == 0 {
		return "", nil
	}
	sort.Strings(images)

	var pages []string
	for _, img := range images {
		text, err := s.runTesseract(ctx, img)
		if err != nil {
			return "", err
		}
		pages = append(pages, text)
	}

	return strings.TrimSpace(strings.Join(pages, "\n\n")), nil
}

func (s *TesseractStrategy) runTesseract(ctx context.Context, imagePath string) (string, error) {
	args := []string{imagePath, "stdout"}
	if s.Lang != "" {
		args = append(args, "-l", s.Lang)
	}

	cmd := exec.CommandContext(ctx, "tesseract", args...)
	var out strings.Builder
	cmd.Stdout = &out
	cmd.Stderr = nil // tesseract is noisy on stderr even on success

	if err := cmd.Run(); err != nil {
		return "", fmt.Errorf("TesseractStrategy: tesseract %s: %w", filepath.Base(imagePath), err)
	}

	return strings.TrimSpace(out.String()), nil
}
