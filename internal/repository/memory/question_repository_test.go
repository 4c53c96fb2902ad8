package memory

import (
	"context"
	"path/filepath"
	"testing"

	"civics-tutor-be/internal/entity"
	"civics-tutor-be/internal/pkg/serverutils"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestRepo(t *testing.T) *QuestionRepository {
	t.Helper()
	repo, err := NewQuestionRepository("")
	require.NoError(t, err)
	return repo.(*QuestionRepository)
}

func question(id int, question, answer, category string, embedding []float32) *entity.CivicsQuestion {
	return &entity.CivicsQuestion{
		QuestionID: id,
		Question:   question,
		Answer:     answer,
		Category:   category,
		Embedding:  embedding,
	}
}

func TestSearchSimilarRanking(t *testing.T) {
	repo := newTestRepo(t)
	ctx := context.Background()

	require.NoError(t, repo.Upsert(ctx, question(1, "q1", "a1", "c", []float32{1, 0, 0})))
	require.NoError(t, repo.Upsert(ctx, question(2, "q2", "a2", "c", []float32{0.9, 0.1, 0})))
	require.NoError(t, repo.Upsert(ctx, question(3, "q3", "a3", "c", []float32{0, 1, 0})))

	results, err := repo.SearchSimilar(ctx, []float32{1, 0, 0}, 2)
	require.NoError(t, err)
	require.Len(t, results, 2)

	assert.Equal(t, 1, results[0].QuestionID)
	assert.Equal(t, 2, results[1].QuestionID)
	// Non-increasing similarity.
	assert.GreaterOrEqual(t, results[0].Similarity, results[1].Similarity)
}

func TestSearchSimilarLimitExceedsCorpus(t *testing.T) {
	repo := newTestRepo(t)
	ctx := context.Background()

	require.NoError(t, repo.Upsert(ctx, question(1, "q1", "a1", "c", []float32{1, 0})))

	results, err := repo.SearchSimilar(ctx, []float32{1, 0}, 10)
	require.NoError(t, err)
	assert.Len(t, results, 1)
}

func TestSearchSimilarDeterministicTieBreak(t *testing.T) {
	repo := newTestRepo(t)
	ctx := context.Background()

	// Identical embeddings: tie must break by question number.
	require.NoError(t, repo.Upsert(ctx, question(7, "q7", "a", "c", []float32{1, 0})))
	require.NoError(t, repo.Upsert(ctx, question(3, "q3", "a", "c", []float32{1, 0})))

	for i := 0; i < 5; i++ {
		results, err := repo.SearchSimilar(ctx, []float32{1, 0}, 2)
		require.NoError(t, err)
		require.Len(t, results, 2)
		assert.Equal(t, 3, results[0].QuestionID)
		assert.Equal(t, 7, results[1].QuestionID)
	}
}

func TestUpsertIdempotent(t *testing.T) {
	repo := newTestRepo(t)
	ctx := context.Background()

	q := question(18, "How many U.S. Senators are there?", "one hundred (100)", "System of Government", []float32{0.5, 0.5})
	require.NoError(t, repo.Upsert(ctx, q))
	require.NoError(t, repo.Upsert(ctx, q))

	count, err := repo.Count(ctx)
	require.NoError(t, err)
	assert.Equal(t, int64(1), count)
}

func TestUpsertOverwritesAnswer(t *testing.T) {
	repo := newTestRepo(t)
	ctx := context.Background()

	require.NoError(t, repo.Upsert(ctx, question(29, "Who is the VP?", "Kamala Harris", "Government", []float32{1, 0})))
	require.NoError(t, repo.Upsert(ctx, question(29, "Who is the VP?", "J.D. Vance", "Government", []float32{1, 0})))

	stored, err := repo.FindByQuestionID(ctx, 29)
	require.NoError(t, err)
	assert.Equal(t, "J.D. Vance", stored.Answer)
	assert.Equal(t, 29, stored.QuestionID)

	count, err := repo.Count(ctx)
	require.NoError(t, err)
	assert.Equal(t, int64(1), count)
}

func TestFindByQuestionIDNotFound(t *testing.T) {
	repo := newTestRepo(t)

	_, err := repo.FindByQuestionID(context.Background(), 99)
	assert.ErrorIs(t, err, serverutils.ErrQuestionNotFound)
}

func TestFindRandomEmptyStore(t *testing.T) {
	repo := newTestRepo(t)

	_, err := repo.FindRandom(context.Background())
	assert.ErrorIs(t, err, serverutils.ErrEmptyStore)
}

func TestCountByCategory(t *testing.T) {
	repo := newTestRepo(t)
	ctx := context.Background()

	require.NoError(t, repo.Upsert(ctx, question(1, "q1", "a", "American Government", []float32{1})))
	require.NoError(t, repo.Upsert(ctx, question(2, "q2", "a", "American Government", []float32{1})))
	require.NoError(t, repo.Upsert(ctx, question(3, "q3", "a", "American History", []float32{1})))

	counts, err := repo.CountByCategory(ctx)
	require.NoError(t, err)
	assert.Equal(t, map[string]int{"American Government": 2, "American History": 1}, counts)
}

func TestClear(t *testing.T) {
	repo := newTestRepo(t)
	ctx := context.Background()

	require.NoError(t, repo.Upsert(ctx, question(1, "q1", "a", "c", []float32{1})))
	require.NoError(t, repo.Clear(ctx))

	count, err := repo.Count(ctx)
	require.NoError(t, err)
	assert.Equal(t, int64(0), count)
}

func TestSnapshotRoundTrip(t *testing.T) {
	ctx := context.Background()
	path := filepath.Join(t.TempDir(), "snapshot.json")

	first, err := NewQuestionRepository(path)
	require.NoError(t, err)
	require.NoError(t, first.Upsert(ctx, question(18, "How many U.S. Senators are there?", "one hundred (100)", "System of Government", []float32{0.1, 0.9})))

	second, err := NewQuestionRepository(path)
	require.NoError(t, err)

	stored, err := second.FindByQuestionID(ctx, 18)
	require.NoError(t, err)
	assert.Equal(t, "one hundred (100)", stored.Answer)
	assert.Equal(t, []float32{0.1, 0.9}, stored.Embedding)
}

func TestCosineSimilarity(t *testing.T) {
	assert.InDelta(t, 1.0, cosineSimilarity([]float32{1, 0}, []float32{2, 0}), 1e-9)
	assert.InDelta(t, 0.0, cosineSimilarity([]float32{1, 0}, []float32{0, 1}), 1e-9)
	assert.Equal(t, 0.0, cosineSimilarity(nil, []float32{1}))
	assert.Equal(t, 0.0, cosineSimilarity([]float32{0, 0}, []float32{0, 0}))
}
