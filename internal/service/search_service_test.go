package service_test

import (
	"context"
	"errors"
	"testing"

	"civics-tutor-be/internal/dto"
	"civics-tutor-be/internal/entity"
	"civics-tutor-be/internal/pkg/logger"
	"civics-tutor-be/internal/pkg/serverutils"
	"civics-tutor-be/internal/repository/memory"
	"civics-tutor-be/internal/service"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeEmbedder struct {
	calls   int
	vectors map[string][]float32
	err     error
}

func (f *fakeEmbedder) Model() string { return "fake-embedding" }

func (f *fakeEmbedder) Generate(_ context.Context, text string) ([]float32, error) {
	f.calls++
	if f.err != nil {
		return nil, f.err
	}
	if vec, ok := f.vectors[text]; ok {
		return vec, nil
	}
	return []float32{0, 0, 1}, nil
}

type failingAnalytics struct {
	attempts int
}

func (f *failingAnalytics) Record(_ context.Context, _ *entity.SearchQuery) error {
	f.attempts++
	return errors.New("analytics sink down")
}

func seedCorpus(t *testing.T) *memory.QuestionRepository {
	t.Helper()
	repo, err := memory.NewQuestionRepository("")
	require.NoError(t, err)

	ctx := context.Background()
	require.NoError(t, repo.Upsert(ctx, &entity.CivicsQuestion{
		QuestionID: 18,
		Question:   "How many U.S. Senators are there?",
		Answer:     "one hundred (100)",
		Category:   "System of Government",
		Embedding:  []float32{1, 0, 0},
	}))
	require.NoError(t, repo.Upsert(ctx, &entity.CivicsQuestion{
		QuestionID: 1,
		Question:   "What is the supreme law of the land?",
		Answer:     "the Constitution",
		Category:   "Principles of American Democracy",
		Embedding:  []float32{0, 1, 0},
	}))
	return repo.(*memory.QuestionRepository)
}

func TestSearchEmbedsQueryOnce(t *testing.T) {
	repo := seedCorpus(t)
	embedder := &fakeEmbedder{vectors: map[string][]float32{
		"senators": {0.9, 0.1, 0},
	}}
	svc := service.NewSearchService(repo, nil, embedder, nil, logger.NewNopLogger())

	res, err := svc.Search(context.Background(), "senators", 2)
	require.NoError(t, err)

	assert.Equal(t, 1, embedder.calls)
	require.Len(t, res.Results, 2)
	assert.Equal(t, 18, res.Results[0].QuestionID)
	assert.GreaterOrEqual(t, res.Results[0].Similarity, res.Results[1].Similarity)
}

func TestSearchVietnameseQueryResolvesCanonicalQuestion(t *testing.T) {
	repo := seedCorpus(t)
	embedder := &fakeEmbedder{vectors: map[string][]float32{
		"Hoa Kỳ có bao nhiêu thượng nghị sĩ?": {0.99, 0.05, 0},
	}}
	svc := service.NewSearchService(repo, nil, embedder, nil, logger.NewNopLogger())

	res, err := svc.Search(context.Background(), "Hoa Kỳ có bao nhiêu thượng nghị sĩ?", 1)
	require.NoError(t, err)
	require.Len(t, res.Results, 1)

	assert.Equal(t, 18, res.Results[0].QuestionID)
	assert.Equal(t, "How many U.S. Senators are there?", res.Results[0].Question)
}

func TestSearchAnalyticsFailureDoesNotFailSearch(t *testing.T) {
	repo := seedCorpus(t)
	analytics := &failingAnalytics{}
	svc := service.NewSearchService(repo, analytics, &fakeEmbedder{}, nil, logger.NewNopLogger())

	res, err := svc.Search(context.Background(), "anything", 1)
	require.NoError(t, err)
	assert.Equal(t, 1, res.Count)
	assert.Equal(t, 1, analytics.attempts)
}

func TestSearchEmbeddingErrorPropagates(t *testing.T) {
	repo := seedCorpus(t)
	embedder := &fakeEmbedder{err: errors.New("upstream 500")}
	svc := service.NewSearchService(repo, nil, embedder, nil, logger.NewNopLogger())

	_, err := svc.Search(context.Background(), "senators", 1)
	assert.ErrorIs(t, err, serverutils.ErrEmbedding)
}

func TestInfo(t *testing.T) {
	repo := seedCorpus(t)
	svc := service.NewSearchService(repo, nil, &fakeEmbedder{}, nil, logger.NewNopLogger())

	info, err := svc.Info(context.Background())
	require.NoError(t, err)

	assert.Equal(t, 2, info.TotalDocuments)
	assert.Equal(t, "fake-embedding", info.EmbeddingModel)
	assert.Equal(t, "ready", info.Status)
	assert.Equal(t, 1, info.Categories["System of Government"])
}

func TestInfoEmptyStore(t *testing.T) {
	repo, err := memory.NewQuestionRepository("")
	require.NoError(t, err)
	svc := service.NewSearchService(repo, nil, &fakeEmbedder{}, nil, logger.NewNopLogger())

	info, err := svc.Info(context.Background())
	require.NoError(t, err)
	assert.Equal(t, "empty", info.Status)
}

func TestQuestionByIDNotFound(t *testing.T) {
	repo := seedCorpus(t)
	svc := service.NewSearchService(repo, nil, &fakeEmbedder{}, nil, logger.NewNopLogger())

	_, err := svc.QuestionByID(context.Background(), 99)
	assert.ErrorIs(t, err, serverutils.ErrQuestionNotFound)
}

func TestCheckAnswer(t *testing.T) {
	repo := seedCorpus(t)
	svc := service.NewSearchService(repo, nil, &fakeEmbedder{}, nil, logger.NewNopLogger())
	ctx := context.Background()

	tests := []struct {
		name       string
		questionID int
		userAnswer string
		correct    bool
	}{
		{"exact match", 1, "the Constitution", true},
		{"case and whitespace tolerant", 1, "  THE CONSTITUTION ", true},
		{"partial answer contained in canonical", 1, "Constitution", true},
		{"canonical contained in verbose answer", 1, "I think it is the Constitution of course", true},
		{"wrong answer", 1, "the Declaration", false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			res, err := svc.CheckAnswer(ctx, &dto.CheckAnswerRequest{QuestionID: tt.questionID, UserAnswer: tt.userAnswer})
			require.NoError(t, err)
			assert.Equal(t, tt.correct, res.Correct)
			assert.Equal(t, "the Constitution", res.CanonicalAnswer)
			if tt.correct {
				assert.Equal(t, "Correct!", res.Feedback)
			} else {
				assert.Contains(t, res.Feedback, "The correct answer is:")
			}
		})
	}
}
