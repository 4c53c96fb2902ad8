package contract

import (
	"context"

	"civics-tutor-be/internal/entity"
)

// QuestionRepository is the vector store contract shared by the in-memory and
// postgres backends. Upsert is keyed by the official question number; there
// are no partial updates or per-document deletes, only Clear.
type QuestionRepository interface {
	Upsert(ctx context.Context, question *entity.CivicsQuestion) error
	// SearchSimilar returns up to limit questions ordered by cosine
	// similarity to the query embedding, highest first.
	SearchSimilar(ctx context.Context, embedding []float32, limit int) ([]*entity.ScoredQuestion, error)
	Count(ctx context.Context) (int64, error)
	CountByCategory(ctx context.Context) (map[string]int, error)
	FindByQuestionID(ctx context.Context, questionID int) (*entity.CivicsQuestion, error)
	FindRandom(ctx context.Context) (*entity.CivicsQuestion, error)
	Clear(ctx context.Context) error
}
