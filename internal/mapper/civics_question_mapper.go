package mapper

import (
	"encoding/json"
	"time"

	"civics-tutor-be/internal/entity"
	"civics-tutor-be/internal/model"

	"github.com/pgvector/pgvector-go"
	"gorm.io/datatypes"
)

type CivicsQuestionMapper struct{}

func NewCivicsQuestionMapper() *CivicsQuestionMapper {
	return &CivicsQuestionMapper{}
}

func (m *CivicsQuestionMapper) ToEntity(e *model.CivicsQuestion) *entity.CivicsQuestion {
	if e == nil {
		return nil
	}

	var updatedAt *time.Time
	if !e.UpdatedAt.IsZero() {
		t := e.UpdatedAt
		updatedAt = &t
	}

	return &entity.CivicsQuestion{
		QuestionID: e.QuestionID,
		Question:   e.Question,
		Answer:     e.Answer,
		Category:   e.Category,
		Embedding:  e.Embedding.Slice(),
		CreatedAt:  e.CreatedAt,
		UpdatedAt:  updatedAt,
	}
}

func (m *CivicsQuestionMapper) ToModel(e *entity.CivicsQuestion) *model.CivicsQuestion {
	if e == nil {
		return nil
	}

	var updatedAt time.Time
	if e.UpdatedAt != nil {
		updatedAt = *e.UpdatedAt
	}

	return &model.CivicsQuestion{
		QuestionID: e.QuestionID,
		Question:   e.Question,
		Answer:     e.Answer,
		Category:   e.Category,
		Embedding:  pgvector.NewVector(e.Embedding),
		CreatedAt:  e.CreatedAt,
		UpdatedAt:  updatedAt,
	}
}

func (m *CivicsQuestionMapper) ToEntities(questions []*model.CivicsQuestion) []*entity.CivicsQuestion {
	entities := make([]*entity.CivicsQuestion, len(questions))
	for i, q := range questions {
		entities[i] = m.ToEntity(q)
	}
	return entities
}

func (m *CivicsQuestionMapper) SearchQueryToModel(e *entity.SearchQuery) *model.SearchQuery {
	if e == nil {
		return nil
	}

	var metadata datatypes.JSON
	if e.Metadata != nil {
		if raw, err := json.Marshal(e.Metadata); err == nil {
			metadata = datatypes.JSON(raw)
		}
	}

	return &model.SearchQuery{
		Id:            e.Id,
		Query:         e.Query,
		ResultCount:   e.ResultCount,
		AvgSimilarity: e.AvgSimilarity,
		Metadata:      metadata,
		CreatedAt:     e.CreatedAt,
	}
}
