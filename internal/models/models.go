// Package models provides the data structures used throughout the application.
package models

import "fmt"

// RawQuestion is a question as recovered by the segmenter, before it is
// merged with the answer key and the category of its source file.
type RawQuestion struct {
	Number  int
	Text    string
	Options []string
}

// AnswerMap maps a question number to the index (0-3) of its correct option.
type AnswerMap map[int]int

// Lookup returns the answer index for the question number and whether the
// answer key contained it.
func (m AnswerMap) Lookup(number int) (int, bool) {
	idx, ok := m[number]
	return idx, ok
}

// Category is the two-level label attached to every question of a PDF.
type Category struct {
	Superblock string
	Subblock   string
}

// FormattedQuestion is a question record as consumed by the quiz application.
type FormattedQuestion struct {
	ID            string   `json:"id"`
	Superblock    string   `json:"superblock"`
	Subblock      string   `json:"subblock"`
	Question      string   `json:"question"`
	Options       []string `json:"options"`
	CorrectAnswer int      `json:"correctAnswer"`
	Explanation   string   `json:"explanation"`
}

// TopicBundle is the content of one tema<N>.json file.
type TopicBundle struct {
	Module         string              `json:"module"`
	Title          string              `json:"title"`
	TotalQuestions int                 `json:"totalQuestions"`
	Questions      []FormattedQuestion `json:"questions"`
}

// NewTopicBundle builds the bundle for a topic from its questions.
func NewTopicBundle(tema int, questions []FormattedQuestion) *TopicBundle {
	if questions == nil {
		questions = []FormattedQuestion{}
	}
	return &TopicBundle{
		Module:         TopicName(tema),
		Title:          TopicName(tema),
		TotalQuestions: len(questions),
		Questions:      questions,
	}
}

// ModuleEntry is one topic listed in modules.config.json.
type ModuleEntry struct {
	ID   string `json:"id"`
	Name string `json:"name"`
	File string `json:"file"`
}

// ModuleIndex is the content of modules.config.json.
type ModuleIndex struct {
	Modules []ModuleEntry `json:"modules"`
}

// NewModuleEntry describes the bundle file of a topic.
func NewModuleEntry(tema int) ModuleEntry {
	return ModuleEntry{
		ID:   TopicID(tema),
		Name: TopicName(tema),
		File: TopicFileName(tema),
	}
}

// TopicName returns the display name of a topic, e.g. "Tema 3".
func TopicName(tema int) string {
	return fmt.Sprintf("Tema %d", tema)
}

// TopicID returns the module identifier of a topic, e.g. "tema3".
func TopicID(tema int) string {
	return fmt.Sprintf("tema%d", tema)
}

// TopicFileName returns the bundle file name of a topic, e.g. "tema3.json".
func TopicFileName(tema int) string {
	return TopicID(tema) + ".json"
}

// QuestionID returns the identifier of the n-th question of a topic.
func QuestionID(tema, n int) string {
	return fmt.Sprintf("t%d-%d", tema, n)
}
