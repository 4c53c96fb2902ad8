package service

import (
	"context"

	"civics-tutor-be/internal/dto"
	"civics-tutor-be/internal/entity"
	"civics-tutor-be/internal/pkg/logger"
	"civics-tutor-be/pkg/rag"
)

const offTopicWarning = "This question doesn't appear to be citizenship-related. The assistant will redirect to citizenship topics."

type IEnhancementService interface {
	Enhance(ctx context.Context, message string) (*dto.EnhanceMessageResponse, error)
}

type enhancementService struct {
	searchService ISearchService
	classifier    rag.Classifier
	officials     *rag.OfficialsDetector
	fallback      *rag.FallbackAnswers
	logger        logger.ILogger
}

func NewEnhancementService(
	searchService ISearchService,
	classifier rag.Classifier,
	officials *rag.OfficialsDetector,
	fallback *rag.FallbackAnswers,
	log logger.ILogger,
) IEnhancementService {
	return &enhancementService{
		searchService: searchService,
		classifier:    classifier,
		officials:     officials,
		fallback:      fallback,
		logger:        log,
	}
}

// Enhance decides whether a message gets retrieved context injected. It is
// read-only: no session state is touched.
func (s *enhancementService) Enhance(ctx context.Context, message string) (*dto.EnhanceMessageResponse, error) {
	if !s.classifier.InDomain(message) {
		return &dto.EnhanceMessageResponse{
			OriginalMessage: message,
			EnhancedMessage: message,
			HasContext:      false,
			Warning:         offTopicWarning,
		}, nil
	}

	limit := s.officials.SearchLimit(message)

	searchRes, err := s.searchService.Search(ctx, message, limit)
	if err != nil {
		return nil, err
	}

	scored := toScoredQuestions(searchRes.Results)

	// Officials queries must never go to the model without current data.
	if len(scored) == 0 && s.officials.IsCurrentOfficials(message) && s.fallback != nil {
		scored = s.fallback.Lookup(message)
		s.logger.Info("EnhancementService", "Using fallback officials answers", map[string]interface{}{
			"message": message,
			"count":   len(scored),
		})
	}

	enhanced := rag.PrepareEnhancedMessage(message, scored)

	return &dto.EnhanceMessageResponse{
		OriginalMessage: message,
		EnhancedMessage: enhanced.Message,
		HasContext:      enhanced.HasContext,
		ContextSize:     enhanced.ContextSize,
		SearchResults:   toResultItems(scored),
	}, nil
}

func toScoredQuestions(items []dto.SearchResultItem) []*entity.ScoredQuestion {
	scored := make([]*entity.ScoredQuestion, len(items))
	for i, item := range items {
		scored[i] = &entity.ScoredQuestion{
			CivicsQuestion: entity.CivicsQuestion{
				QuestionID: item.QuestionID,
				Question:   item.Question,
				Answer:     item.Answer,
				Category:   item.Category,
			},
			Similarity: item.Similarity,
		}
	}
	return scored
}
