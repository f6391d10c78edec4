package models

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNames(t *testing.T) {
	assert.Equal(t, "Tema 12", TopicName(12))
	assert.Equal(t, "tema12", TopicID(12))
	assert.Equal(t, "tema12.json", TopicFileName(12))
	assert.Equal(t, "t12-3", QuestionID(12, 3))
	assert.Equal(t, ModuleEntry{ID: "tema1", Name: "Tema 1", File: "tema1.json"}, NewModuleEntry(1))
}

func TestAnswerMap_Lookup(t *testing.T) {
	m := AnswerMap{1: 3}
	idx, ok := m.Lookup(1)
	assert.True(t, ok)
	assert.Equal(t, 3, idx)

	_, ok = m.Lookup(2)
	assert.False(t, ok)

	var empty AnswerMap
	_, ok = empty.Lookup(1)
	assert.False(t, ok)
}

func TestNewTopicBundle_JSONShape(t *testing.T) {
	bundle := NewTopicBundle(3, nil)
	assert.Equal(t, 0, bundle.TotalQuestions)

	data, err := json.Marshal(bundle)
	require.NoError(t, err)
	assert.JSONEq(t, `{"module":"Tema 3","title":"Tema 3","totalQuestions":0,"questions":[]}`, string(data))

	q := FormattedQuestion{ID: "t3-1", Options: []string{"a", "b", "c", "d"}, CorrectAnswer: 2, Explanation: DefaultExplanation}
	data, err = json.Marshal(q)
	require.NoError(t, err)

	var fields map[string]interface{}
	require.NoError(t, json.Unmarshal(data, &fields))
	for _, key := range []string{"id", "superblock", "subblock", "question", "options", "correctAnswer", "explanation"} {
		assert.Contains(t, fields, key)
	}
}

func TestRunSummary_MergeAndSkip(t *testing.T) {
	var s RunSummary
	s.Merge(1, []FileReport{
		{File: "a.pdf", Status: StatusOK, Questions: 10},
		{File: "b.pdf", Status: StatusNoAnswerKey, Questions: 5},
		{File: "c.pdf", Status: StatusReadError},
	}, 15)
	s.Skip(2)
	s.Merge(3, nil, 0)

	assert.Equal(t, []int{1, 3}, s.TopicsProcessed)
	assert.Equal(t, []int{2}, s.TopicsSkipped)
	assert.Equal(t, 3, s.PDFsProcessed)
	assert.Equal(t, 15, s.Questions)
	assert.Equal(t, 3, s.Warnings)
	assert.Len(t, s.Files, 3)
	assert.False(t, s.Files[0].Degraded())
	assert.True(t, s.Files[1].Degraded())
}
