package main

import (
	"context"
	"flag"
	"log"

	"civics-tutor-be/internal/config"
	"civics-tutor-be/internal/pkg/logger"
	"civics-tutor-be/internal/repository/contract"
	"civics-tutor-be/internal/repository/implementation"
	"civics-tutor-be/internal/repository/memory"
	"civics-tutor-be/internal/service"
	"civics-tutor-be/pkg/database"
	"civics-tutor-be/pkg/embedding"
)

// Corpus ingestion: embeds every question in the corpus file and upserts it
// into the configured vector store. Safe to re-run; -clear wipes first.
func main() {
	cfg := config.Load()

	file := flag.String("file", cfg.Corpus.QuestionsFile, "corpus questions JSON file")
	clearFirst := flag.Bool("clear", false, "clear the store before ingesting")
	flag.Parse()

	appLogger := logger.NewZapLogger(cfg.App.LogFilePath, false)
	defer appLogger.Sync()

	var repo contract.QuestionRepository
	switch cfg.Corpus.Backend {
	case "postgres":
		db, err := database.NewGormDBFromDSN(cfg.Database.Connection)
		if err != nil {
			log.Panicf("Unable to connect to GORM DB: %v", err)
		}
		repo = implementation.NewCivicsQuestionRepository(db)
	default:
		memRepo, err := memory.NewQuestionRepository(cfg.Corpus.SnapshotFile)
		if err != nil {
			log.Panicf("Failed to load vector snapshot: %v", err)
		}
		repo = memRepo
	}

	provider := embedding.NewOpenAIProvider(cfg.OpenAI.BaseURL, cfg.OpenAI.APIKey, cfg.OpenAI.EmbeddingModel)
	ingestion := service.NewIngestionService(repo, provider, appLogger)

	count, err := ingestion.IngestFile(context.Background(), *file, *clearFirst)
	if err != nil {
		log.Panicf("Ingestion failed: %v", err)
	}
	log.Printf("Ingested %d questions from %s into %s store", count, *file, cfg.Corpus.Backend)
}
