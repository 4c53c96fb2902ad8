package implementation

import (
	"context"

	"civics-tutor-be/internal/entity"
	"civics-tutor-be/internal/mapper"
	"civics-tutor-be/internal/repository/contract"

	"gorm.io/gorm"
)

type SearchQueryRepositoryImpl struct {
	db     *gorm.DB
	mapper *mapper.CivicsQuestionMapper
}

func NewSearchQueryRepository(db *gorm.DB) contract.SearchAnalyticsRepository {
	return &SearchQueryRepositoryImpl{
		db:     db,
		mapper: mapper.NewCivicsQuestionMapper(),
	}
}

func (r *SearchQueryRepositoryImpl) Record(ctx context.Context, query *entity.SearchQuery) error {
	m := r.mapper.SearchQueryToModel(query)
	return r.db.WithContext(ctx).Create(m).Error
}
