package implementation

import (
	"context"
	"errors"

	"civics-tutor-be/internal/entity"
	"civics-tutor-be/internal/mapper"
	"civics-tutor-be/internal/model"
	"civics-tutor-be/internal/pkg/serverutils"
	"civics-tutor-be/internal/repository/contract"

	"github.com/pgvector/pgvector-go"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type CivicsQuestionRepositoryImpl struct {
	db     *gorm.DB
	mapper *mapper.CivicsQuestionMapper
}

func NewCivicsQuestionRepository(db *gorm.DB) contract.QuestionRepository {
	return &CivicsQuestionRepositoryImpl{
		db:     db,
		mapper: mapper.NewCivicsQuestionMapper(),
	}
}

func (r *CivicsQuestionRepositoryImpl) Upsert(ctx context.Context, question *entity.CivicsQuestion) error {
	m := r.mapper.ToModel(question)
	err := r.db.WithContext(ctx).
		Clauses(clause.OnConflict{
			Columns:   []clause.Column{{Name: "question_id"}},
			DoUpdates: clause.AssignmentColumns([]string{"question", "answer", "category", "embedding", "updated_at"}),
		}).
		Create(m).Error
	if err != nil {
		return err
	}
	*question = *r.mapper.ToEntity(m)
	return nil
}

func (r *CivicsQuestionRepositoryImpl) SearchSimilar(ctx context.Context, embedding []float32, limit int) ([]*entity.ScoredQuestion, error) {
	if limit <= 0 {
		limit = 3
	}

	// pgvector cosine distance: 1 - (embedding <=> query) = cosine similarity
	type result struct {
		model.CivicsQuestion
		Similarity float64
	}
	var results []result

	queryVector := pgvector.NewVector(embedding)

	err := r.db.WithContext(ctx).
		Table("civics_questions").
		Select("civics_questions.*, 1 - (embedding <=> ?) as similarity", queryVector).
		Order("similarity DESC").
		Limit(limit).
		Scan(&results).Error
	if err != nil {
		return nil, err
	}

	scored := make([]*entity.ScoredQuestion, len(results))
	for i, res := range results {
		scored[i] = &entity.ScoredQuestion{
			CivicsQuestion: *r.mapper.ToEntity(&res.CivicsQuestion),
			Similarity:     res.Similarity,
		}
	}
	return scored, nil
}

func (r *CivicsQuestionRepositoryImpl) Count(ctx context.Context) (int64, error) {
	var count int64
	err := r.db.WithContext(ctx).Model(&model.CivicsQuestion{}).Count(&count).Error
	return count, err
}

func (r *CivicsQuestionRepositoryImpl) CountByCategory(ctx context.Context) (map[string]int, error) {
	type row struct {
		Category string
		Total    int
	}
	var rows []row

	err := r.db.WithContext(ctx).
		Model(&model.CivicsQuestion{}).
		Select("category, count(*) as total").
		Group("category").
		Scan(&rows).Error
	if err != nil {
		return nil, err
	}

	counts := make(map[string]int, len(rows))
	for _, r := range rows {
		counts[r.Category] = r.Total
	}
	return counts, nil
}

func (r *CivicsQuestionRepositoryImpl) FindByQuestionID(ctx context.Context, questionID int) (*entity.CivicsQuestion, error) {
	var m model.CivicsQuestion
	err := r.db.WithContext(ctx).Where("question_id = ?", questionID).First(&m).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, serverutils.ErrQuestionNotFound
		}
		return nil, err
	}
	return r.mapper.ToEntity(&m), nil
}

func (r *CivicsQuestionRepositoryImpl) FindRandom(ctx context.Context) (*entity.CivicsQuestion, error) {
	var m model.CivicsQuestion
	err := r.db.WithContext(ctx).Order("RANDOM()").First(&m).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, serverutils.ErrEmptyStore
		}
		return nil, err
	}
	return r.mapper.ToEntity(&m), nil
}

func (r *CivicsQuestionRepositoryImpl) Clear(ctx context.Context) error {
	return r.db.WithContext(ctx).
		Session(&gorm.Session{AllowGlobalUpdate: true}).
		Delete(&model.CivicsQuestion{}).Error
}
