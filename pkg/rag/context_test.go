package rag

import (
	"testing"

	"civics-tutor-be/internal/entity"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func scoredQuestion(id int, question, answer string) *entity.ScoredQuestion {
	return &entity.ScoredQuestion{
		CivicsQuestion: entity.CivicsQuestion{
			QuestionID: id,
			Question:   question,
			Answer:     answer,
		},
		Similarity: 0.9,
	}
}

func TestFormatContextEmpty(t *testing.T) {
	assert.Empty(t, FormatContext(nil, "test query"))
	assert.Empty(t, FormatContext([]*entity.ScoredQuestion{}, "test query"))
}

func TestFormatContextSingleResult(t *testing.T) {
	results := []*entity.ScoredQuestion{
		scoredQuestion(1, "What is the supreme law of the land?", "the Constitution"),
	}

	formatted := FormatContext(results, "constitution")

	assert.Contains(t, formatted, "Here are the official USCIS answers")
	assert.Contains(t, formatted, "OFFICIAL QUESTION 1: What is the supreme law of the land?")
	assert.Contains(t, formatted, "OFFICIAL ANSWER: the Constitution")
}

func TestFormatContextMultipleResults(t *testing.T) {
	results := []*entity.ScoredQuestion{
		scoredQuestion(1, "What is the supreme law of the land?", "the Constitution"),
		scoredQuestion(28, "What is the name of the President of the United States now?", "Donald Trump"),
	}

	formatted := FormatContext(results, "president")

	assert.Contains(t, formatted, "OFFICIAL QUESTION 1:")
	assert.Contains(t, formatted, "OFFICIAL QUESTION 28:")
	assert.Contains(t, formatted, "Donald Trump")
}

func TestPrepareEnhancedMessageNoResults(t *testing.T) {
	enhanced := PrepareEnhancedMessage("test question", nil)

	assert.Equal(t, "test question", enhanced.Message)
	assert.False(t, enhanced.HasContext)
	assert.Zero(t, enhanced.ContextSize)
}

func TestPrepareEnhancedMessageWithResults(t *testing.T) {
	results := []*entity.ScoredQuestion{
		scoredQuestion(1, "What is the supreme law of the land?", "the Constitution"),
	}

	enhanced := PrepareEnhancedMessage("constitution question", results)

	assert.True(t, enhanced.HasContext)
	assert.Equal(t, 1, enhanced.ContextSize)
	assert.Contains(t, enhanced.Message, "Here are the official USCIS answers")
	assert.Contains(t, enhanced.Message, "User question: constitution question")
	assert.Contains(t, enhanced.Message, "OFFICIAL ANSWER: the Constitution")
}

func TestExtractUserMessageRoundTrip(t *testing.T) {
	results := []*entity.ScoredQuestion{
		scoredQuestion(1, "What is the supreme law of the land?", "the Constitution"),
	}

	messages := []string{
		"What is the Constitution?",
		"Hiến pháp là gì?",
		"who is the current president",
	}
	for _, msg := range messages {
		enhanced := PrepareEnhancedMessage(msg, results)
		require.True(t, enhanced.HasContext)
		assert.Equal(t, msg, ExtractUserMessage(enhanced.Message))
	}
}

func TestExtractUserMessagePassthrough(t *testing.T) {
	assert.Equal(t, "Just a simple question", ExtractUserMessage("Just a simple question"))
}

func TestFallbackAnswersLookup(t *testing.T) {
	f := NewFallbackAnswers(DefaultFallbackEntries())

	hits := f.Lookup("who is the current president?")
	require.NotEmpty(t, hits)
	assert.Equal(t, 28, hits[0].QuestionID)
	assert.Equal(t, "Donald Trump", hits[0].Answer)

	assert.Empty(t, f.Lookup("what is the supreme law of the land?"))
}
