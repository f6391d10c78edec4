// Package topic runs the extraction pipeline over the PDFs of one or more
// topic directories and persists the resulting bundles.
package topic

import (
	"context"
	"errors"
	"fmt"
	"path/filepath"
	"strings"

	"oposiciones/quiz-extract/internal/answerkey"
	"oposiciones/quiz-extract/internal/assembler"
	"oposiciones/quiz-extract/internal/classifier"
	"oposiciones/quiz-extract/internal/extracterror"
	"oposiciones/quiz-extract/internal/fileutils"
	"oposiciones/quiz-extract/internal/logging"
	"oposiciones/quiz-extract/internal/models"
	"oposiciones/quiz-extract/internal/output"
	"oposiciones/quiz-extract/internal/pdftext"
	"oposiciones/quiz-extract/internal/segmenter"
)

// Sink receives every bundle written during a normal (non dry) run.
type Sink interface {
	SaveTopic(ctx context.Context, tema int, bundle *models.TopicBundle) error
}

// Options configures a Processor.
type Options struct {
	BaseDir   string
	OutputDir string
	Workers   int
}

// Result is the outcome of processing one topic directory.
type Result struct {
	Tema      int
	Directory string
	Bundle    *models.TopicBundle
	Files     []models.FileReport
}

// Processor turns topic directories into question bundles.
type Processor struct {
	logger     logging.Logger
	extractor  pdftext.PDFExtractor
	classifier *classifier.Classifier
	opts       Options
	sinks      []Sink
}

// NewProcessor creates a Processor. A nil logger is replaced by a mock.
func NewProcessor(logger logging.Logger, extractor pdftext.PDFExtractor, cls *classifier.Classifier, opts Options) *Processor {
	if logger == nil {
		logger = logging.NewMockLogger()
	}
	if cls == nil {
		cls = classifier.New(logger)
	}
	if opts.Workers < 1 {
		opts.Workers = 1
	}
	return &Processor{
		logger:     logger,
		extractor:  extractor,
		classifier: cls,
		opts:       opts,
	}
}

// AddSink registers a sink that receives every written bundle.
func (p *Processor) AddSink(s Sink) {
	p.sinks = append(p.sinks, s)
}

// Options returns the effective options.
func (p *Processor) Options() Options {
	return p.opts
}

// ResolveDir returns the directory of topic tema: "<base>/Tema N", or
// "<base>/tema N" when the first does not exist.
func (p *Processor) ResolveDir(tema int) (string, error) {
	candidates := []string{
		filepath.Join(p.opts.BaseDir, models.TopicName(tema)),
		filepath.Join(p.opts.BaseDir, strings.ToLower(models.TopicName(tema))),
	}
	for _, dir := range candidates {
		if fileutils.DirectoryExists(dir) {
			return dir, nil
		}
	}
	return "", &extracterror.TopicNotFoundError{Topic: tema, BaseDir: p.opts.BaseDir, Searched: candidates}
}

// ListPDFs returns the PDFs directly inside dir in lexicographic order.
func (p *Processor) ListPDFs(dir string) ([]string, error) {
	return fileutils.ListFilesWithExtension(dir, ".pdf")
}

// ProcessTopic runs every PDF of topic tema through the pipeline. Nothing is
// written; see Run for persistence.
func (p *Processor) ProcessTopic(ctx context.Context, tema int) (*Result, error) {
	log := p.logger.WithField(logging.FieldTopic, tema)

	dir, err := p.ResolveDir(tema)
	if err != nil {
		return nil, err
	}

	pdfs, err := p.ListPDFs(dir)
	if err != nil {
		return nil, fmt.Errorf("failed to list PDFs of Tema %d: %w", tema, err)
	}
	if len(pdfs) == 0 {
		return nil, &extracterror.NoPDFsError{Topic: tema, Directory: dir}
	}

	log.Info("Processing topic",
		logging.F(logging.FieldDirectory, dir),
		logging.F(logging.FieldCount, len(pdfs)))

	tc := assembler.NewTopicContext(tema)
	files := make([]models.FileReport, 0, len(pdfs))
	for _, path := range pdfs {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		files = append(files, p.ProcessFile(tc, path))
	}

	bundle := tc.Bundle()
	log.Info("Topic processed",
		logging.F(logging.FieldCount, len(files)),
		logging.F(logging.FieldQuestions, bundle.TotalQuestions))

	return &Result{Tema: tema, Directory: dir, Bundle: bundle, Files: files}, nil
}

// ProcessFile extracts, segments, classifies and assembles one PDF into tc.
// Failures are reported in the returned FileReport and never abort the topic.
func (p *Processor) ProcessFile(tc *assembler.TopicContext, path string) models.FileReport {
	name := filepath.Base(path)
	log := p.logger.WithFields(
		logging.F(logging.FieldTopic, tc.Tema),
		logging.F(logging.FieldFile, name))

	category := p.classifier.Classify(name, tc.Tema)
	report := models.FileReport{
		Topic:      tc.Tema,
		File:       name,
		Superblock: category.Superblock,
		Subblock:   category.Subblock,
		Status:     models.StatusOK,
	}

	text, err := p.extractor.ExtractText(path)
	if err != nil {
		readErr := &extracterror.PDFReadError{FilePath: path, Extractor: p.extractor.Name(), Err: err}
		log.WithError(readErr).Error("Failed to read PDF, skipping its questions")
		report.Status = models.StatusReadError
		report.Message = readErr.Error()
		return report
	}
	if strings.TrimSpace(text) == "" {
		log.Warn("No text extracted from PDF")
		report.Status = models.StatusNoText
		report.Message = "no text extracted"
		return report
	}

	answers := answerkey.Parse(text)
	report.Answers = len(answers)
	if len(answers) == 0 {
		log.Warn("No answer key found, every answer defaults to the first option")
		report.Status = models.StatusNoAnswerKey
		report.Message = "no answer key found"
	}

	raw := segmenter.Segment(text)
	if len(raw) == 0 {
		log.Warn("No questions found in PDF")
		report.Status = models.StatusNoQuestions
		report.Message = "no questions found"
		return report
	}

	added := tc.Add(raw, answers, category)
	report.Questions = added.Added
	report.Defaulted = added.Defaulted

	log.Info("PDF processed",
		logging.F(logging.FieldQuestions, added.Added),
		logging.F(logging.FieldAnswers, len(answers)),
		logging.F(logging.FieldDefaulted, added.Defaulted),
		logging.F(logging.FieldSubblock, category.Subblock))
	return report
}

// Run processes temas in order and, unless dryRun is set, writes one bundle
// per processed topic plus the module index. Missing or empty topics are
// skipped. Only a cancelled context or an output failure stops the run.
func (p *Processor) Run(ctx context.Context, temas []int, dryRun bool) (*models.RunSummary, error) {
	summary := &models.RunSummary{TopicsRequested: len(temas)}
	log := p.logger.WithField(logging.FieldDryRun, dryRun)

	outcomes := p.processTopics(ctx, temas)
	for _, o := range outcomes {
		if o.err != nil {
			if errors.Is(o.err, context.Canceled) || errors.Is(o.err, context.DeadlineExceeded) {
				return summary, o.err
			}
			p.logSkip(o.tema, o.err)
			summary.Skip(o.tema)
			continue
		}

		res := o.result
		if dryRun {
			log.Info("Dry run, not writing topic",
				logging.F(logging.FieldTopic, res.Tema),
				logging.F(logging.FieldOutputFile, output.TopicPath(p.opts.OutputDir, res.Tema)),
				logging.F(logging.FieldQuestions, res.Bundle.TotalQuestions))
		} else if err := p.persist(ctx, res); err != nil {
			return summary, err
		}
		summary.Merge(res.Tema, res.Files, res.Bundle.TotalQuestions)
	}

	if err := ctx.Err(); err != nil {
		return summary, err
	}

	if len(summary.TopicsProcessed) == 0 {
		log.Warn("No topic was processed, module index left untouched")
		return summary, nil
	}
	if dryRun {
		log.Info("Dry run, not writing module index",
			logging.F(logging.FieldOutputFile, output.IndexPath(p.opts.OutputDir)))
		return summary, nil
	}

	path, err := output.WriteModuleIndex(p.opts.OutputDir, summary.TopicsProcessed)
	if err != nil {
		return summary, err
	}
	log.Info("Module index written",
		logging.F(logging.FieldOutputFile, path),
		logging.F(logging.FieldCount, len(summary.TopicsProcessed)))
	return summary, nil
}

func (p *Processor) persist(ctx context.Context, res *Result) error {
	path, err := output.WriteTopic(p.opts.OutputDir, res.Tema, res.Bundle)
	if err != nil {
		return err
	}
	p.logger.Info("Topic bundle written",
		logging.F(logging.FieldTopic, res.Tema),
		logging.F(logging.FieldOutputFile, path),
		logging.F(logging.FieldQuestions, res.Bundle.TotalQuestions))

	for _, s := range p.sinks {
		if err := s.SaveTopic(ctx, res.Tema, res.Bundle); err != nil {
			p.logger.WithError(err).Error("Failed to store topic bundle",
				logging.F(logging.FieldTopic, res.Tema))
		}
	}
	return nil
}

func (p *Processor) logSkip(tema int, err error) {
	log := p.logger.WithError(err).WithField(logging.FieldTopic, tema)

	var notFound *extracterror.TopicNotFoundError
	var noPDFs *extracterror.NoPDFsError
	switch {
	case errors.As(err, &notFound):
		log.Error("Topic directory not found, skipping topic")
	case errors.As(err, &noPDFs):
		log.Warn("No PDFs in topic directory, skipping topic")
	default:
		log.Error("Failed to process topic, skipping it")
	}
}
