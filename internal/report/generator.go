// Package report renders the per-PDF outcome of a run as CSV or JSON.
package report

import (
	"bytes"
	"encoding/csv"
	"fmt"
	"path/filepath"
	"strings"

	"oposiciones/quiz-extract/internal/extracterror"
	"oposiciones/quiz-extract/internal/fileutils"
	"oposiciones/quiz-extract/internal/logging"
	"oposiciones/quiz-extract/internal/models"
	"oposiciones/quiz-extract/internal/output"

	"github.com/gocarina/gocsv"
)

// Supported report formats.
const (
	FormatCSV  = "csv"
	FormatJSON = "json"
)

// jsonReport is the JSON rendering of a run summary.
type jsonReport struct {
	RunID           string              `json:"runId,omitempty"`
	DryRun          bool                `json:"dryRun"`
	TopicsRequested int                 `json:"topicsRequested"`
	TopicsProcessed []int               `json:"topicsProcessed"`
	TopicsSkipped   []int               `json:"topicsSkipped"`
	PDFsProcessed   int                 `json:"pdfsProcessed"`
	Questions       int                 `json:"questions"`
	Warnings        int                 `json:"warnings"`
	Files           []models.FileReport `json:"files"`
}

// ReportGenerator renders run summaries in the supported formats.
type ReportGenerator struct {
	logger logging.Logger
	RunID  string
}

// NewReportGenerator creates a new instance of ReportGenerator.
func NewReportGenerator(logger logging.Logger) *ReportGenerator {
	if logger == nil {
		logger = logging.NewMockLogger()
	}
	return &ReportGenerator{logger: logger}
}

// FormatForPath picks the report format from the file extension; anything
// other than .json is written as CSV.
func FormatForPath(path string) string {
	if strings.EqualFold(filepath.Ext(path), ".json") {
		return FormatJSON
	}
	return FormatCSV
}

// GenerateReport renders summary in the given format (csv or json).
func (g *ReportGenerator) GenerateReport(summary *models.RunSummary, dryRun bool, format string) ([]byte, error) {
	if summary == nil {
		return nil, fmt.Errorf("cannot generate a report for a nil summary")
	}
	switch format {
	case FormatCSV:
		return g.generateCSVReport(summary)
	case FormatJSON:
		return g.generateJSONReport(summary, dryRun)
	default:
		return nil, fmt.Errorf("unsupported report format: %s", format)
	}
}

// WriteReport renders summary and writes it to path, picking the format from
// the extension.
func (g *ReportGenerator) WriteReport(path string, summary *models.RunSummary, dryRun bool) error {
	format := FormatForPath(path)
	data, err := g.GenerateReport(summary, dryRun, format)
	if err != nil {
		return &extracterror.OutputError{FilePath: path, Op: "render report", Err: err}
	}
	if err := fileutils.WriteFile(path, data, models.PermissionOutputFile); err != nil {
		return &extracterror.OutputError{FilePath: path, Op: "write", Err: err}
	}

	g.logger.WithFields(
		logging.Field{Key: logging.FieldOutputFile, Value: path},
		logging.Field{Key: logging.FieldCount, Value: len(summary.Files)},
	).Info("Wrote run report")
	return nil
}

func (g *ReportGenerator) generateCSVReport(summary *models.RunSummary) ([]byte, error) {
	rows := summary.Files
	if rows == nil {
		rows = []models.FileReport{}
	}

	var buf bytes.Buffer
	csvWriter := csv.NewWriter(&buf)
	if err := gocsv.MarshalCSV(&rows, gocsv.NewSafeCSVWriter(csvWriter)); err != nil {
		g.logger.WithError(err).Error("Failed to marshal CSV report")
		return nil, fmt.Errorf("failed to marshal CSV report: %w", err)
	}
	return buf.Bytes(), nil
}

func (g *ReportGenerator) generateJSONReport(summary *models.RunSummary, dryRun bool) ([]byte, error) {
	rep := jsonReport{
		RunID:           g.RunID,
		DryRun:          dryRun,
		TopicsRequested: summary.TopicsRequested,
		TopicsProcessed: nonNilInts(summary.TopicsProcessed),
		TopicsSkipped:   nonNilInts(summary.TopicsSkipped),
		PDFsProcessed:   summary.PDFsProcessed,
		Questions:       summary.Questions,
		Warnings:        summary.Warnings,
		Files:           summary.Files,
	}
	if rep.Files == nil {
		rep.Files = []models.FileReport{}
	}

	data, err := output.Encode(rep)
	if err != nil {
		g.logger.WithError(err).Error("Failed to marshal JSON report")
		return nil, fmt.Errorf("failed to marshal JSON report: %w", err)
	}
	return data, nil
}

func nonNilInts(v []int) []int {
	if v == nil {
		return []int{}
	}
	return v
}
