package topic

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"testing"

	"oposiciones/quiz-extract/internal/assembler"
	"oposiciones/quiz-extract/internal/classifier"
	"oposiciones/quiz-extract/internal/extracterror"
	"oposiciones/quiz-extract/internal/logging"
	"oposiciones/quiz-extract/internal/models"
	"oposiciones/quiz-extract/internal/output"
	"oposiciones/quiz-extract/internal/pdftext"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const examText = `EXAMEN TÍTULO PRELIMINAR
1. ¿Cuál es la capital de España?
a) Madrid
b) Barcelona
c) Sevilla
d) Valencia
2. ¿Qué artículo proclama la igualdad
ante la ley?
a) 14
b) 15
c) 16
3. Pregunta sin opciones
SOLUCIONES
01.a 02.a`

type fixture struct {
	base      string
	out       string
	extractor *pdftext.MockPDFExtractor
	logger    *logging.MockLogger
}

func newFixture(t *testing.T) *fixture {
	t.Helper()
	root := t.TempDir()
	return &fixture{
		base:      filepath.Join(root, "Test"),
		out:       filepath.Join(root, "quiz", "src", "data"),
		extractor: pdftext.NewMockPDFExtractor(map[string]string{}),
		logger:    logging.NewMockLogger(),
	}
}

// addPDF creates an (empty) PDF on disk and registers its text with the mock extractor.
func (f *fixture) addPDF(t *testing.T, dir, name, text string) string {
	t.Helper()
	full := filepath.Join(f.base, dir)
	require.NoError(t, os.MkdirAll(full, 0750))
	path := filepath.Join(full, name)
	require.NoError(t, os.WriteFile(path, []byte("%PDF-1.4"), 0600))
	f.extractor.Texts[path] = text
	return path
}

func (f *fixture) processor(workers int) *Processor {
	return NewProcessor(f.logger, f.extractor, classifier.New(f.logger), Options{
		BaseDir:   f.base,
		OutputDir: f.out,
		Workers:   workers,
	})
}

func TestProcessTopic_AssemblesAcrossFiles(t *testing.T) {
	f := newFixture(t)
	f.addPDF(t, "Tema 5", "Titulo Preliminar Test 2.pdf", examText)
	f.addPDF(t, "Tema 5", "Repaso Test 3.pdf", examText)

	res, err := f.processor(1).ProcessTopic(context.Background(), 5)
	require.NoError(t, err)

	require.Len(t, res.Files, 2)
	// lexicographic order: "Repaso..." before "Titulo..."
	assert.Equal(t, "Repaso Test 3.pdf", res.Files[0].File)
	assert.Equal(t, "Repaso CE - Test 3", res.Files[0].Subblock)
	assert.Equal(t, "Título Preliminar - Test 2", res.Files[1].Subblock)

	bundle := res.Bundle
	assert.Equal(t, "Tema 5", bundle.Module)
	require.Equal(t, 4, bundle.TotalQuestions)
	ids := make([]string, 0, len(bundle.Questions))
	for _, q := range bundle.Questions {
		ids = append(ids, q.ID)
		assert.Len(t, q.Options, models.OptionsPerQuestion)
		assert.Equal(t, models.DefaultExplanation, q.Explanation)
	}
	assert.Equal(t, []string{"t5-1", "t5-2", "t5-3", "t5-4"}, ids)

	second := bundle.Questions[1]
	assert.Equal(t, "¿Qué artículo proclama la igualdad ante la ley?", second.Question)
	assert.Equal(t, []string{"14", "15", "16", models.MissingOptionText}, second.Options)
	assert.Equal(t, 0, second.CorrectAnswer)
	assert.Equal(t, 2, res.Files[0].Answers)
}

func TestProcessTopic_LowercaseDirectoryFallback(t *testing.T) {
	f := newFixture(t)
	f.addPDF(t, "tema 2", "otros.pdf", examText)

	res, err := f.processor(1).ProcessTopic(context.Background(), 2)
	require.NoError(t, err)
	assert.Equal(t, filepath.Join(f.base, "tema 2"), res.Directory)
	assert.Equal(t, "Tema 2", res.Files[0].Superblock)
	assert.Equal(t, "otros", res.Files[0].Subblock)
}

func TestProcessTopic_MissingDirectory(t *testing.T) {
	f := newFixture(t)
	require.NoError(t, os.MkdirAll(f.base, 0750))

	_, err := f.processor(1).ProcessTopic(context.Background(), 9)
	var notFound *extracterror.TopicNotFoundError
	require.True(t, errors.As(err, &notFound))
	assert.Equal(t, 9, notFound.Topic)
	assert.Len(t, notFound.Searched, 2)
}

func TestProcessTopic_NoPDFs(t *testing.T) {
	f := newFixture(t)
	dir := filepath.Join(f.base, "Tema 3")
	require.NoError(t, os.MkdirAll(dir, 0750))
	require.NoError(t, os.WriteFile(filepath.Join(dir, "notes.txt"), []byte("x"), 0600))

	_, err := f.processor(1).ProcessTopic(context.Background(), 3)
	var noPDFs *extracterror.NoPDFsError
	require.True(t, errors.As(err, &noPDFs))
	assert.Equal(t, dir, noPDFs.Directory)
}

func TestProcessFile_FailureTaxonomy(t *testing.T) {
	tests := []struct {
		name          string
		text          string
		readErr       error
		wantStatus    string
		wantQuestions int
		wantDefaulted int
		wantLevel     string
	}{
		{
			name:          "complete file",
			text:          examText,
			wantStatus:    models.StatusOK,
			wantQuestions: 2,
			wantLevel:     "INFO",
		},
		{
			name:       "unreadable file",
			readErr:    errors.New("malformed xref"),
			wantStatus: models.StatusReadError,
			wantLevel:  "ERROR",
		},
		{
			name:       "no text",
			text:       "  \n\n ",
			wantStatus: models.StatusNoText,
			wantLevel:  "WARN",
		},
		{
			name:          "no answer key",
			text:          "1. Pregunta\na) uno\nb) dos",
			wantStatus:    models.StatusNoAnswerKey,
			wantQuestions: 1,
			wantDefaulted: 1,
			wantLevel:     "WARN",
		},
		{
			name:       "no questions",
			text:       "Solo texto\n01.a",
			wantStatus: models.StatusNoQuestions,
			wantLevel:  "WARN",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f := newFixture(t)
			path := f.addPDF(t, "Tema 1", "examen.pdf", tt.text)
			if tt.readErr != nil {
				f.extractor.Errors[path] = tt.readErr
			}

			tc := assembler.NewTopicContext(1)
			report := f.processor(1).ProcessFile(tc, path)

			assert.Equal(t, tt.wantStatus, report.Status)
			assert.Equal(t, tt.wantQuestions, report.Questions)
			assert.Equal(t, tt.wantDefaulted, report.Defaulted)
			assert.Len(t, tc.Questions, tt.wantQuestions)
			assert.NotEmpty(t, f.logger.GetEntriesByLevel(tt.wantLevel))
		})
	}
}

func TestProcessFile_ReadErrorIsTyped(t *testing.T) {
	f := newFixture(t)
	path := f.addPDF(t, "Tema 1", "roto.pdf", "")
	cause := errors.New("boom")
	f.extractor.Errors[path] = cause

	f.processor(1).ProcessFile(assembler.NewTopicContext(1), path)

	errorsLogged := f.logger.GetEntriesByLevel("ERROR")
	require.Len(t, errorsLogged, 1)
	var readErr *extracterror.PDFReadError
	require.True(t, errors.As(errorsLogged[0].Error, &readErr))
	assert.ErrorIs(t, readErr, cause)
	assert.Equal(t, "mock", readErr.Extractor)
}

func TestRun_WritesBundlesAndIndex(t *testing.T) {
	f := newFixture(t)
	f.addPDF(t, "Tema 1", "Repaso Test 1.pdf", examText)
	f.addPDF(t, "Tema 3", "Titulo X.pdf", examText)

	summary, err := f.processor(1).Run(context.Background(), []int{3, 2, 1}, false)
	require.NoError(t, err)

	assert.Equal(t, 3, summary.TopicsRequested)
	assert.Equal(t, []int{3, 1}, summary.TopicsProcessed)
	assert.Equal(t, []int{2}, summary.TopicsSkipped)
	assert.Equal(t, 2, summary.PDFsProcessed)
	assert.Equal(t, 4, summary.Questions)
	assert.Equal(t, 1, summary.Warnings)

	bundle, err := output.ReadTopic(filepath.Join(f.out, "tema3.json"))
	require.NoError(t, err)
	assert.Equal(t, "Título X: Reforma Constitucional", bundle.Questions[0].Superblock)
	assert.Equal(t, "t3-1", bundle.Questions[0].ID)

	index, err := output.ReadModuleIndex(f.out)
	require.NoError(t, err)
	require.Len(t, index.Modules, 2)
	assert.Equal(t, "tema1", index.Modules[0].ID)
	assert.Equal(t, "tema3", index.Modules[1].ID)

	assert.NoFileExists(t, filepath.Join(f.out, "tema2.json"))
}

func TestRun_DryRunMatchesNormalRun(t *testing.T) {
	f := newFixture(t)
	f.addPDF(t, "Tema 1", "a.pdf", examText)
	f.addPDF(t, "Tema 1", "b.pdf", "sin preguntas")
	f.addPDF(t, "Tema 4", "Estabilizacion (2).pdf", examText)

	p := f.processor(1)
	dry, err := p.Run(context.Background(), []int{1, 4, 7}, true)
	require.NoError(t, err)
	assert.NoDirExists(t, f.out)

	normal, err := p.Run(context.Background(), []int{1, 4, 7}, false)
	require.NoError(t, err)

	assert.Equal(t, normal.TopicsRequested, dry.TopicsRequested)
	assert.Equal(t, normal.TopicsProcessed, dry.TopicsProcessed)
	assert.Equal(t, normal.TopicsSkipped, dry.TopicsSkipped)
	assert.Equal(t, normal.PDFsProcessed, dry.PDFsProcessed)
	assert.Equal(t, normal.Questions, dry.Questions)
	assert.Equal(t, normal.Warnings, dry.Warnings)
	assert.FileExists(t, filepath.Join(f.out, "tema4.json"))
}

func TestRun_NoTopicProcessedLeavesIndexUntouched(t *testing.T) {
	f := newFixture(t)
	require.NoError(t, os.MkdirAll(f.base, 0750))
	require.NoError(t, os.MkdirAll(f.out, 0750))
	indexPath := filepath.Join(f.out, models.ModuleIndexFileName)
	require.NoError(t, os.WriteFile(indexPath, []byte("keep"), 0600))

	summary, err := f.processor(1).Run(context.Background(), []int{1}, false)
	require.NoError(t, err)
	assert.Empty(t, summary.TopicsProcessed)

	data, err := os.ReadFile(indexPath)
	require.NoError(t, err)
	assert.Equal(t, "keep", string(data))
}

func TestRun_UnwritableOutputStopsRun(t *testing.T) {
	f := newFixture(t)
	f.addPDF(t, "Tema 1", "a.pdf", examText)
	require.NoError(t, os.MkdirAll(filepath.Dir(f.out), 0750))
	require.NoError(t, os.WriteFile(f.out, []byte("not a directory"), 0600))

	_, err := f.processor(1).Run(context.Background(), []int{1}, false)
	var outErr *extracterror.OutputError
	require.True(t, errors.As(err, &outErr))
}

func TestRun_CancelledContext(t *testing.T) {
	f := newFixture(t)
	f.addPDF(t, "Tema 1", "a.pdf", examText)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := f.processor(1).Run(ctx, []int{1}, false)
	assert.ErrorIs(t, err, context.Canceled)
	assert.NoDirExists(t, f.out)
}

type recordingSink struct {
	temas []int
	err   error
}

func (s *recordingSink) SaveTopic(_ context.Context, tema int, _ *models.TopicBundle) error {
	s.temas = append(s.temas, tema)
	return s.err
}

func TestRun_Sinks(t *testing.T) {
	f := newFixture(t)
	f.addPDF(t, "Tema 1", "a.pdf", examText)
	f.addPDF(t, "Tema 2", "a.pdf", examText)

	p := f.processor(1)
	ok := &recordingSink{}
	failing := &recordingSink{err: errors.New("disk full")}
	p.AddSink(ok)
	p.AddSink(failing)

	_, err := p.Run(context.Background(), []int{1, 2}, true)
	require.NoError(t, err)
	assert.Empty(t, ok.temas)

	summary, err := p.Run(context.Background(), []int{1, 2}, false)
	require.NoError(t, err)
	assert.Equal(t, []int{1, 2}, ok.temas)
	assert.Equal(t, []int{1, 2}, failing.temas)
	assert.Equal(t, []int{1, 2}, summary.TopicsProcessed)
	assert.True(t, f.logger.HasEntry("ERROR", "Failed to store topic bundle"))
}

func TestInspect(t *testing.T) {
	f := newFixture(t)
	path := f.addPDF(t, "Tema 1", "TitIV Test 2.pdf", examText)

	ins, err := f.processor(1).Inspect(path, 1)
	require.NoError(t, err)
	assert.Equal(t, "titulo-iv", ins.Rule)
	assert.Equal(t, "Título IV - Test 2", ins.Category.Subblock)
	assert.Len(t, ins.Questions, 2)
	assert.Equal(t, 2, ins.Dropped, "question 3 and the answer-key line have no options")
	assert.Equal(t, models.AnswerMap{1: 0, 2: 0}, ins.Answers)

	f.extractor.Errors[path] = errors.New("bad")
	_, err = f.processor(1).Inspect(path, 1)
	var readErr *extracterror.PDFReadError
	assert.True(t, errors.As(err, &readErr))
}
