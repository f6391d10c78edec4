// Package answerkey recovers the answer key ("01.d 02.b 03.a") printed in an
// exam PDF.
package answerkey

import (
	"regexp"
	"strconv"
	"strings"

	"oposiciones/quiz-extract/internal/models"
)

// entryPattern matches a two-digit question number, an optional separator
// and the option letter.
var entryPattern = regexp.MustCompile(`(?i)(\d{2})\s*[.:\-]\s*([a-d])`)

// Parse scans text for answer key entries. When a question number appears
// more than once the last occurrence wins. An empty map means no key was found.
func Parse(text string) models.AnswerMap {
	answers := make(models.AnswerMap)
	for _, m := range entryPattern.FindAllStringSubmatch(text, -1) {
		number, err := strconv.Atoi(m[1])
		if err != nil {
			continue
		}
		answers[number] = LetterIndex(m[2])
	}
	return answers
}

// LetterIndex converts an option letter to its index: a=0 … d=3.
// Anything else maps to 0.
func LetterIndex(letter string) int {
	switch strings.ToLower(letter) {
	case "b":
		return 1
	case "c":
		return 2
	case "d":
		return 3
	default:
		return 0
	}
}
