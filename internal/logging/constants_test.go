package logging

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestConstants(t *testing.T) {
	fields := []string{
		FieldFile, FieldTopic, FieldDirectory, FieldCount, FieldQuestions,
		FieldAnswers, FieldDefaulted, FieldSuperblock, FieldSubblock, FieldRule,
		FieldExtractor, FieldStatus, FieldDryRun, FieldOutputFile, FieldRunID,
		FieldWorkers,
	}

	seen := make(map[string]bool)
	for _, f := range fields {
		assert.NotEmpty(t, f)
		assert.False(t, seen[f], "duplicate field name %q", f)
		seen[f] = true
	}
}
