// Package pdftext extracts page/paragraph structure from PDF documents
// using the external pdftotext tool (poppler-utils).
//
// PDF parsing internals stay outside this codebase: pdftotext emits plain
// text with form feeds between pages, and this package only segments that
// text into the structured representation curation consumes.
package pdftext

import (
	"context"
	"errors"
	"fmt"
	"os/exec"
	"path/filepath"
	"strings"

	"github.com/custodia-labs/curata-cli/internal/core/domain"
	"github.com/custodia-labs/curata-cli/internal/core/ports/driving"
)

// Ensure Extractor implements the interface.
var _ driving.Extractor = (*Extractor)(nil)

// ErrPDFToolNotFound indicates pdftotext is not installed.
var ErrPDFToolNotFound = errors.New("pdftotext not found in PATH")

// pageSeparator is the form feed pdftotext emits between pages.
const pageSeparator = "\f"

// CommandRunner executes an external command and returns its stdout.
// Injectable for testing.
type CommandRunner interface {
	Run(ctx context.Context, name string, args ...string) ([]byte, error)
}

// execRunner runs commands with os/exec.
type execRunner struct{}

func (execRunner) Run(ctx context.Context, name string, args ...string) ([]byte, error) {
	return exec.CommandContext(ctx, name, args...).Output()
}

// Extractor converts PDF files into extracted document structures.
type Extractor struct {
	runner CommandRunner
}

// New creates a PDF extractor using the system pdftotext.
func New() *Extractor {
	return &Extractor{runner: execRunner{}}
}

// NewWithRunner creates an extractor with a custom command runner.
func NewWithRunner(runner CommandRunner) *Extractor {
	return &Extractor{runner: runner}
}

// CheckAvailable verifies pdftotext is installed.
func CheckAvailable() error {
	if _, err := exec.LookPath("pdftotext"); err != nil {
		return ErrPDFToolNotFound
	}
	return nil
}

// InstallInstructions returns platform-specific installation guidance.
func InstallInstructions() string {
	return `pdftotext is required for PDF extraction.

Install it via:
  macOS:         brew install poppler
  Debian/Ubuntu: sudo apt install poppler-utils
  Fedora:        sudo dnf install poppler-utils`
}

// Extract converts one PDF into a page/paragraph structure.
// The document id is the PDF's base file name.
func (e *Extractor) Extract(ctx context.Context, path string) (*domain.ExtractedDocument, error) {
	if path == "" {
		return nil, domain.ErrInvalidInput
	}
	if err := CheckAvailable(); err != nil {
		return nil, err
	}

	// -layout preserves column layout, keeping paragraphs contiguous.
	output, err := e.runner.Run(ctx, "pdftotext", "-layout", "-enc", "UTF-8", path, "-")
	if err != nil {
		return nil, fmt.Errorf("pdftotext failed for %s: %w", path, err)
	}

	doc := &domain.ExtractedDocument{
		ID:         filepath.Base(path),
		SourceFile: path,
	}

	for i, pageText := range strings.Split(string(output), pageSeparator) {
		pageNumber := i + 1
		page := domain.Page{Number: pageNumber}

		for _, block := range splitParagraphs(pageText) {
			page.Paragraphs = append(page.Paragraphs, domain.Paragraph{
				DocumentID: doc.ID,
				PageNumber: pageNumber,
				Index:      len(page.Paragraphs),
				Text:       block,
			})
		}

		// Trailing form feed produces an empty final page; empty pages
		// in the middle are kept so page numbers stay aligned.
		if len(page.Paragraphs) == 0 && i == pageCount(string(output))-1 {
			continue
		}
		doc.Pages = append(doc.Pages, page)
	}

	return doc, nil
}

// splitParagraphs segments page text into normalised paragraphs on blank
// lines.
func splitParagraphs(pageText string) []string {
	var (
		paragraphs []string
		current    []string
	)

	flush := func() {
		if len(current) == 0 {
			return
		}
		text := domain.NormaliseWhitespace(strings.Join(current, " "))
		if text != "" {
			paragraphs = append(paragraphs, text)
		}
		current = current[:0]
	}

	for _, line := range strings.Split(pageText, "\n") {
		if strings.TrimSpace(line) == "" {
			flush()
			continue
		}
		current = append(current, line)
	}
	flush()

	return paragraphs
}

// pageCount returns the number of form-feed-separated segments.
func pageCount(output string) int {
	return strings.Count(output, pageSeparator) + 1
}
