// Package extracterror defines the typed errors reported while turning exam
// PDFs into question bundles. None of them abort a run on their own.
package extracterror

import "fmt"

// PDFReadError represents a PDF whose text could not be extracted.
type PDFReadError struct {
	FilePath  string
	Extractor string
	Err       error
}

func (e *PDFReadError) Error() string {
	return fmt.Sprintf("%s: failed to read '%s': %v", e.Extractor, e.FilePath, e.Err)
}

func (e *PDFReadError) Unwrap() error {
	return e.Err
}

// TopicNotFoundError represents a topic whose directory does not exist.
type TopicNotFoundError struct {
	Topic    int
	BaseDir  string
	Searched []string
}

func (e *TopicNotFoundError) Error() string {
	return fmt.Sprintf("Tema %d directory not found under '%s' (tried %v)", e.Topic, e.BaseDir, e.Searched)
}

// NoPDFsError represents a topic directory without any PDF file.
type NoPDFsError struct {
	Topic     int
	Directory string
}

func (e *NoPDFsError) Error() string {
	return fmt.Sprintf("no PDF files found in '%s' for Tema %d", e.Directory, e.Topic)
}

// OutputError represents a failure writing one of the generated files.
type OutputError struct {
	FilePath string
	Op       string
	Err      error
}

func (e *OutputError) Error() string {
	return fmt.Sprintf("failed to %s '%s': %v", e.Op, e.FilePath, e.Err)
}

func (e *OutputError) Unwrap() error {
	return e.Err
}

// InvalidRuleError represents a classifier rule from a rules file that cannot be used.
type InvalidRuleError struct {
	FilePath string
	Index    int
	Reason   string
}

func (e *InvalidRuleError) Error() string {
	return fmt.Sprintf("invalid rule #%d in '%s': %s", e.Index, e.FilePath, e.Reason)
}
