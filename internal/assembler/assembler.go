// Package assembler merges segmented questions with the answer key and the
// file category into the records written for the quiz application.
package assembler

import (
	"oposiciones/quiz-extract/internal/models"
)

// TopicContext carries the running question counter and the accumulated
// records of one topic. A new context is created for every topic; ids are
// never reused within it.
type TopicContext struct {
	Tema      int
	Questions []models.FormattedQuestion
	next      int
}

// FileResult summarises what one Add call contributed.
type FileResult struct {
	Added     int
	Defaulted int
}

// NewTopicContext starts numbering at 1 for topic tema.
func NewTopicContext(tema int) *TopicContext {
	return &TopicContext{Tema: tema, next: 1}
}

// Add formats raw questions from one PDF and appends them to the topic.
func (tc *TopicContext) Add(raw []models.RawQuestion, answers models.AnswerMap, category models.Category) FileResult {
	var result FileResult
	for _, q := range raw {
		correct, ok := answers.Lookup(q.Number)
		if !ok {
			correct = models.DefaultCorrectIndex
			result.Defaulted++
		}

		tc.Questions = append(tc.Questions, models.FormattedQuestion{
			ID:            models.QuestionID(tc.Tema, tc.next),
			Superblock:    category.Superblock,
			Subblock:      category.Subblock,
			Question:      q.Text,
			Options:       NormalizeOptions(q.Options),
			CorrectAnswer: correct,
			Explanation:   models.DefaultExplanation,
		})
		tc.next++
		result.Added++
	}
	return result
}

// Bundle returns the topic bundle for everything added so far.
func (tc *TopicContext) Bundle() *models.TopicBundle {
	return models.NewTopicBundle(tc.Tema, tc.Questions)
}

// NormalizeOptions returns exactly four options: the first four parsed ones,
// padded with the missing-option placeholder. The input is not modified.
func NormalizeOptions(options []string) []string {
	out := make([]string, models.OptionsPerQuestion)
	for i := range out {
		if i < len(options) {
			out[i] = options[i]
		} else {
			out[i] = models.MissingOptionText
		}
	}
	return out
}
