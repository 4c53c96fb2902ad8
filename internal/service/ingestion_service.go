package service

import (
	"context"
	"encoding/json"
	"fmt"
	"os"

	"civics-tutor-be/internal/entity"
	"civics-tutor-be/internal/pkg/logger"
	"civics-tutor-be/internal/pkg/serverutils"
	"civics-tutor-be/internal/repository/contract"
	"civics-tutor-be/pkg/embedding"
)

type IIngestionService interface {
	// IngestFile loads a corpus file and upserts every question. Returns the
	// number of questions successfully ingested.
	IngestFile(ctx context.Context, path string, clearFirst bool) (int, error)
	Ingest(ctx context.Context, questions []*entity.CivicsQuestion, clearFirst bool) (int, error)
}

type ingestionService struct {
	repository        contract.QuestionRepository
	embeddingProvider embedding.Provider
	logger            logger.ILogger
}

func NewIngestionService(
	repository contract.QuestionRepository,
	embeddingProvider embedding.Provider,
	log logger.ILogger,
) IIngestionService {
	return &ingestionService{
		repository:        repository,
		embeddingProvider: embeddingProvider,
		logger:            log,
	}
}

type corpusFile struct {
	Questions []struct {
		ID       int    `json:"id"`
		Question string `json:"question"`
		Answer   string `json:"answer"`
		Category string `json:"category"`
	} `json:"questions"`
}

func (s *ingestionService) IngestFile(ctx context.Context, path string, clearFirst bool) (int, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return 0, fmt.Errorf("failed to read corpus file: %w", err)
	}

	var corpus corpusFile
	if err := json.Unmarshal(data, &corpus); err != nil {
		return 0, fmt.Errorf("failed to parse corpus file: %w", err)
	}

	questions := make([]*entity.CivicsQuestion, len(corpus.Questions))
	for i, q := range corpus.Questions {
		questions[i] = &entity.CivicsQuestion{
			QuestionID: q.ID,
			Question:   q.Question,
			Answer:     q.Answer,
			Category:   q.Category,
		}
	}

	return s.Ingest(ctx, questions, clearFirst)
}

// Ingest embeds and upserts each question. A failing document is logged and
// skipped so one flaky embedding call cannot sink a whole run; re-running is
// idempotent because Upsert is keyed by question number.
func (s *ingestionService) Ingest(ctx context.Context, questions []*entity.CivicsQuestion, clearFirst bool) (int, error) {
	if s.repository == nil {
		return 0, serverutils.ErrNotInitialized
	}

	if clearFirst {
		if err := s.repository.Clear(ctx); err != nil {
			return 0, fmt.Errorf("failed to clear store: %w", err)
		}
		s.logger.Info("IngestionService", "Cleared existing corpus", nil)
	}

	ingested := 0
	for _, q := range questions {
		// Question and answer share one embedding so answers are findable
		// from question-phrased queries and vice versa.
		text := q.Question + " " + q.Answer

		vector, err := s.embeddingProvider.Generate(ctx, text)
		if err != nil {
			s.logger.Warn("IngestionService", "Skipping question, embedding failed", map[string]interface{}{
				"question_id": q.QuestionID,
				"error":       err.Error(),
			})
			continue
		}
		q.Embedding = vector

		if err := s.repository.Upsert(ctx, q); err != nil {
			s.logger.Warn("IngestionService", "Skipping question, upsert failed", map[string]interface{}{
				"question_id": q.QuestionID,
				"error":       err.Error(),
			})
			continue
		}
		ingested++
	}

	s.logger.Info("IngestionService", "Ingestion complete", map[string]interface{}{
		"ingested": ingested,
		"total":    len(questions),
	})
	return ingested, nil
}
