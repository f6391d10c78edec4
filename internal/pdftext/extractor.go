// Package pdftext turns a PDF file into plain text, one line per visual row.
package pdftext

import (
	"fmt"
	"os"
	"strings"
	"sync"
)

// Extractor names accepted by NewExtractor.
const (
	ExtractorNative    = "native"
	ExtractorPdftotext = "pdftotext"
)

// PDFExtractor defines the interface for extracting text from PDF files.
// This interface allows for dependency injection and makes the pipeline testable
// by providing different implementations for production and testing.
type PDFExtractor interface {
	// ExtractText returns the text of every page, concatenated in page order.
	ExtractText(pdfPath string) (string, error)

	// Name identifies the implementation in logs and errors.
	Name() string
}

// NewExtractor returns the extractor registered under name.
func NewExtractor(name string) (PDFExtractor, error) {
	switch strings.ToLower(strings.TrimSpace(name)) {
	case "", ExtractorNative:
		return NewNativeExtractor(), nil
	case ExtractorPdftotext:
		return NewPdftotextExtractor(), nil
	default:
		return nil, fmt.Errorf("unknown PDF extractor: %s (expected %q or %q)", name, ExtractorNative, ExtractorPdftotext)
	}
}

// MockPDFExtractor implements PDFExtractor for testing purposes.
// Texts and Errors are keyed by file path; Default is used for any other path.
// It is safe for concurrent use as long as the maps are not modified while
// extraction is running.
type MockPDFExtractor struct {
	mu      sync.Mutex
	Texts   map[string]string
	Errors  map[string]error
	Default string
	Calls   []string
}

// NewMockPDFExtractor creates a MockPDFExtractor returning texts keyed by path.
func NewMockPDFExtractor(texts map[string]string) *MockPDFExtractor {
	return &MockPDFExtractor{
		Texts:  texts,
		Errors: map[string]error{},
	}
}

// ExtractText returns the predefined text or error for pdfPath.
func (e *MockPDFExtractor) ExtractText(pdfPath string) (string, error) {
	e.mu.Lock()
	e.Calls = append(e.Calls, pdfPath)
	e.mu.Unlock()
	if err, ok := e.Errors[pdfPath]; ok {
		return "", err
	}
	if text, ok := e.Texts[pdfPath]; ok {
		return text, nil
	}
	return e.Default, nil
}

// Name returns "mock".
func (e *MockPDFExtractor) Name() string {
	return "mock"
}

// checkReadable fails early for paths that are missing or are directories,
// so both extractors report the same error for them.
func checkReadable(pdfPath string) error {
	info, err := os.Stat(pdfPath)
	if err != nil {
		return err
	}
	if info.IsDir() {
		return fmt.Errorf("%s is a directory", pdfPath)
	}
	return nil
}
