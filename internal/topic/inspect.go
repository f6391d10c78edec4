package topic

import (
	"path/filepath"
	"strings"

	"oposiciones/quiz-extract/internal/answerkey"
	"oposiciones/quiz-extract/internal/extracterror"
	"oposiciones/quiz-extract/internal/models"
	"oposiciones/quiz-extract/internal/segmenter"
)

// Inspection is the per-stage breakdown of a single PDF.
type Inspection struct {
	File      string
	Text      string
	Rule      string
	Category  models.Category
	Answers   models.AnswerMap
	Questions []models.RawQuestion
	Dropped   int
}

// Inspect runs one PDF through every stage without assembling or writing
// anything.
func (p *Processor) Inspect(path string, tema int) (*Inspection, error) {
	name := filepath.Base(path)
	text, err := p.extractor.ExtractText(path)
	if err != nil {
		return nil, &extracterror.PDFReadError{FilePath: path, Extractor: p.extractor.Name(), Err: err}
	}

	var seg segmenter.Segmenter
	for _, line := range strings.Split(text, "\n") {
		seg.Feed(line)
	}
	questions := seg.Finish()

	category, rule := p.classifier.Explain(name, tema)
	return &Inspection{
		File:      name,
		Text:      text,
		Rule:      rule,
		Category:  category,
		Answers:   answerkey.Parse(text),
		Questions: questions,
		Dropped:   seg.Dropped(),
	}, nil
}
