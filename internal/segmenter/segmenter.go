// Package segmenter groups the lines of an exam into numbered questions with
// lettered options.
//
// The grouping is a heuristic: a line that continues a question before its
// first option is indistinguishable from question text, and a question that
// never receives an option is dropped. Output is therefore a best-effort parse
// rather than a guaranteed-complete extraction.
package segmenter

import (
	"regexp"
	"strconv"
	"strings"

	"oposiciones/quiz-extract/internal/models"
)

var (
	// "12. text", "3) text", "7- text", "04: text"
	questionPattern = regexp.MustCompile(`^(\d{1,2})\s*[.\-:)]\s*(.+)$`)
	// "a) text", "B. text", "c- text", "d: text"
	optionPattern = regexp.MustCompile(`(?i)^([a-d])\s*[.)\-:]\s*(.+)$`)
)

// State is the position of the segmenter inside the current question.
type State int

const (
	// AwaitingQuestion: no question marker seen yet; other lines are ignored.
	AwaitingQuestion State = iota
	// InQuestionText: a question is open and has no option yet.
	InQuestionText
	// InOptions: the open question has at least one option.
	InOptions
)

func (s State) String() string {
	switch s {
	case AwaitingQuestion:
		return "awaiting_question"
	case InQuestionText:
		return "question_text"
	case InOptions:
		return "options"
	default:
		return "unknown"
	}
}

// Segmenter accumulates lines into RawQuestions. The zero value is ready to use.
type Segmenter struct {
	state   State
	current models.RawQuestion
	out     []models.RawQuestion
	dropped int
}

// Segment splits text into lines and returns the questions found in it.
func Segment(text string) []models.RawQuestion {
	return SegmentLines(strings.Split(text, "\n"))
}

// SegmentLines returns the questions found in lines.
func SegmentLines(lines []string) []models.RawQuestion {
	var s Segmenter
	for _, line := range lines {
		s.Feed(line)
	}
	return s.Finish()
}

// State returns the current state.
func (s *Segmenter) State() State {
	return s.state
}

// Dropped returns how many questions were discarded for having no options.
func (s *Segmenter) Dropped() int {
	return s.dropped
}

// Feed consumes one line of text.
func (s *Segmenter) Feed(line string) {
	line = strings.TrimSpace(line)
	if line == "" {
		return
	}

	if m := questionPattern.FindStringSubmatch(line); m != nil {
		s.flush()
		number, _ := strconv.Atoi(m[1])
		s.current = models.RawQuestion{Number: number, Text: strings.TrimSpace(m[2])}
		s.state = InQuestionText
		return
	}

	switch s.state {
	case AwaitingQuestion:
		// preamble before the first question
	case InQuestionText:
		if m := optionPattern.FindStringSubmatch(line); m != nil {
			s.current.Options = append(s.current.Options, strings.TrimSpace(m[2]))
			s.state = InOptions
			return
		}
		s.current.Text = joinLine(s.current.Text, line)
	case InOptions:
		if m := optionPattern.FindStringSubmatch(line); m != nil {
			s.current.Options = append(s.current.Options, strings.TrimSpace(m[2]))
			return
		}
		last := len(s.current.Options) - 1
		s.current.Options[last] = joinLine(s.current.Options[last], line)
	}
}

// Finish flushes the pending question and returns every question emitted so far.
func (s *Segmenter) Finish() []models.RawQuestion {
	s.flush()
	s.state = AwaitingQuestion
	return s.out
}

func (s *Segmenter) flush() {
	switch s.state {
	case InOptions:
		s.out = append(s.out, s.current)
	case InQuestionText:
		s.dropped++
	}
	s.current = models.RawQuestion{}
}

func joinLine(text, line string) string {
	if text == "" {
		return line
	}
	return text + " " + line
}
