package service

import (
	"context"
	"fmt"
	"strings"

	"civics-tutor-be/internal/dto"
	"civics-tutor-be/internal/entity"
	"civics-tutor-be/internal/pkg/logger"
	"civics-tutor-be/internal/pkg/serverutils"
	"civics-tutor-be/internal/repository/contract"
	"civics-tutor-be/pkg/embedding"
	"civics-tutor-be/pkg/events"
	pktNats "civics-tutor-be/pkg/nats"

	"github.com/google/uuid"
)

type ISearchService interface {
	Search(ctx context.Context, query string, limit int) (*dto.SearchResponse, error)
	Info(ctx context.Context) (*dto.CorpusInfoResponse, error)
	RandomQuestion(ctx context.Context) (*dto.QuestionResponse, error)
	QuestionByID(ctx context.Context, questionID int) (*dto.QuestionResponse, error)
	CheckAnswer(ctx context.Context, req *dto.CheckAnswerRequest) (*dto.CheckAnswerResponse, error)
}

type searchService struct {
	repository        contract.QuestionRepository
	analytics         contract.SearchAnalyticsRepository
	embeddingProvider embedding.Provider
	eventPublisher    *pktNats.Publisher
	logger            logger.ILogger
}

func NewSearchService(
	repository contract.QuestionRepository,
	analytics contract.SearchAnalyticsRepository,
	embeddingProvider embedding.Provider,
	eventPublisher *pktNats.Publisher,
	log logger.ILogger,
) ISearchService {
	return &searchService{
		repository:        repository,
		analytics:         analytics,
		embeddingProvider: embeddingProvider,
		eventPublisher:    eventPublisher,
		logger:            log,
	}
}

func (s *searchService) Search(ctx context.Context, query string, limit int) (*dto.SearchResponse, error) {
	if s.repository == nil {
		return nil, serverutils.ErrNotInitialized
	}

	// The query is embedded exactly once per request.
	queryVector, err := s.embeddingProvider.Generate(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", serverutils.ErrEmbedding, err)
	}

	scored, err := s.repository.SearchSimilar(ctx, queryVector, limit)
	if err != nil {
		return nil, err
	}

	s.recordSearch(ctx, query, scored)

	return &dto.SearchResponse{
		Query:   query,
		Results: toResultItems(scored),
		Count:   len(scored),
	}, nil
}

// recordSearch persists and publishes search analytics. Both sinks are
// best-effort: failures are logged and the search result is unaffected.
func (s *searchService) recordSearch(ctx context.Context, query string, scored []*entity.ScoredQuestion) {
	avg := averageSimilarity(scored)

	if s.analytics != nil {
		record := &entity.SearchQuery{
			Id:            uuid.New(),
			Query:         query,
			ResultCount:   len(scored),
			AvgSimilarity: avg,
			Metadata: map[string]interface{}{
				"embedding_model": s.embeddingProvider.Model(),
			},
		}
		if err := s.analytics.Record(ctx, record); err != nil {
			s.logger.Warn("SearchService", "Failed to record search analytics", map[string]interface{}{"error": err.Error()})
		}
	}

	if s.eventPublisher != nil {
		event := events.NewSearchPerformed(query, len(scored), avg)
		if err := s.eventPublisher.Publish(ctx, event); err != nil {
			s.logger.Warn("SearchService", "Failed to publish search event", map[string]interface{}{"error": err.Error()})
		}
	}
}

func (s *searchService) Info(ctx context.Context) (*dto.CorpusInfoResponse, error) {
	if s.repository == nil {
		return nil, serverutils.ErrNotInitialized
	}

	total, err := s.repository.Count(ctx)
	if err != nil {
		return nil, err
	}
	categories, err := s.repository.CountByCategory(ctx)
	if err != nil {
		return nil, err
	}

	status := "ready"
	if total == 0 {
		status = "empty"
	}

	return &dto.CorpusInfoResponse{
		TotalDocuments: int(total),
		Categories:     categories,
		EmbeddingModel: s.embeddingProvider.Model(),
		Status:         status,
	}, nil
}

func (s *searchService) RandomQuestion(ctx context.Context) (*dto.QuestionResponse, error) {
	question, err := s.repository.FindRandom(ctx)
	if err != nil {
		return nil, err
	}
	return toQuestionResponse(question), nil
}

func (s *searchService) QuestionByID(ctx context.Context, questionID int) (*dto.QuestionResponse, error) {
	question, err := s.repository.FindByQuestionID(ctx, questionID)
	if err != nil {
		return nil, err
	}
	return toQuestionResponse(question), nil
}

func (s *searchService) CheckAnswer(ctx context.Context, req *dto.CheckAnswerRequest) (*dto.CheckAnswerResponse, error) {
	question, err := s.repository.FindByQuestionID(ctx, req.QuestionID)
	if err != nil {
		return nil, err
	}

	correctAnswer := strings.ToLower(strings.TrimSpace(question.Answer))
	providedAnswer := strings.ToLower(strings.TrimSpace(req.UserAnswer))

	// Containment either way tolerates partial phrasings like "the Constitution"
	// vs "Constitution".
	isCorrect := strings.Contains(correctAnswer, providedAnswer) ||
		strings.Contains(providedAnswer, correctAnswer)

	feedback := "Correct!"
	if !isCorrect {
		feedback = fmt.Sprintf("The correct answer is: %s", question.Answer)
	}

	return &dto.CheckAnswerResponse{
		Correct:         isCorrect,
		CanonicalAnswer: question.Answer,
		UserAnswer:      req.UserAnswer,
		Feedback:        feedback,
	}, nil
}

func toQuestionResponse(q *entity.CivicsQuestion) *dto.QuestionResponse {
	return &dto.QuestionResponse{
		QuestionID: q.QuestionID,
		Question:   q.Question,
		Answer:     q.Answer,
		Category:   q.Category,
	}
}

func toResultItems(scored []*entity.ScoredQuestion) []dto.SearchResultItem {
	items := make([]dto.SearchResultItem, len(scored))
	for i, s := range scored {
		items[i] = dto.SearchResultItem{
			QuestionID: s.QuestionID,
			Question:   s.Question,
			Answer:     s.Answer,
			Category:   s.Category,
			Similarity: s.Similarity,
		}
	}
	return items
}

func averageSimilarity(scored []*entity.ScoredQuestion) float64 {
	if len(scored) == 0 {
		return 0
	}
	var sum float64
	for _, s := range scored {
		sum += s.Similarity
	}
	return sum / float64(len(scored))
}
