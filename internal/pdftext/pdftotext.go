package pdftext

import (
	"bytes"
	"fmt"
	"os/exec"
	"strings"
)

// pdftotextCommand builds the external command. Tests replace it.
var pdftotextCommand = func(pdfPath string) *exec.Cmd {
	return exec.Command("pdftotext", "-enc", "UTF-8", pdfPath, "-")
}

// PdftotextExtractor implements PDFExtractor using the poppler pdftotext command.
// It requires pdftotext to be installed.
type PdftotextExtractor struct{}

// NewPdftotextExtractor creates a new PdftotextExtractor instance.
func NewPdftotextExtractor() *PdftotextExtractor {
	return &PdftotextExtractor{}
}

// Name returns "pdftotext".
func (e *PdftotextExtractor) Name() string {
	return ExtractorPdftotext
}

// ExtractText runs pdftotext and returns its standard output. Page breaks
// (form feeds) become line breaks.
func (e *PdftotextExtractor) ExtractText(pdfPath string) (string, error) {
	if err := checkReadable(pdfPath); err != nil {
		return "", err
	}

	cmd := pdftotextCommand(pdfPath)
	var stderr bytes.Buffer
	cmd.Stderr = &stderr
	out, err := cmd.Output()
	if err != nil {
		if msg := strings.TrimSpace(stderr.String()); msg != "" {
			return "", fmt.Errorf("error running pdftotext: %w: %s", err, msg)
		}
		return "", fmt.Errorf("error running pdftotext: %w", err)
	}
	return strings.ReplaceAll(string(out), "\f", "\n"), nil
}
