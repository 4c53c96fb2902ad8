package bootstrap

import (
	"log"

	"civics-tutor-be/internal/config"
	"civics-tutor-be/internal/controller"
	"civics-tutor-be/internal/pkg/logger"
	"civics-tutor-be/internal/repository/contract"
	"civics-tutor-be/internal/repository/implementation"
	"civics-tutor-be/internal/repository/memory"
	"civics-tutor-be/internal/service"
	"civics-tutor-be/internal/session"
	"civics-tutor-be/internal/websocket"
	"civics-tutor-be/pkg/embedding"
	pktNats "civics-tutor-be/pkg/nats"
	"civics-tutor-be/pkg/rag"

	"github.com/ThreeDotsLabs/watermill"
	"github.com/ThreeDotsLabs/watermill/pubsub/gochannel"
	"github.com/redis/go-redis/v9"
	"gorm.io/gorm"
)

// Container wires the whole dependency graph. db is nil when the in-memory
// vector store backend is selected.
type Container struct {
	Logger        logger.ILogger
	SessionLogger logger.ILogger

	QuestionRepository contract.QuestionRepository
	AnalyticsRepo      contract.SearchAnalyticsRepository

	EmbeddingProvider embedding.Provider
	EventPublisher    *pktNats.Publisher

	SearchService      service.ISearchService
	EnhancementService service.IEnhancementService
	IngestionService   service.IIngestionService

	AssistantController controller.IAssistantController

	Bus             *gochannel.GoChannel
	Hub             *websocket.Hub
	SessionEngine   *session.Engine
	SessionConsumer *session.Consumer
}

func NewContainer(db *gorm.DB, cfg *config.Config) *Container {
	// Loggers: session traffic goes to its own file to keep main logs clean.
	appLogger := logger.NewZapLogger(cfg.App.LogFilePath, cfg.App.Environment == "production")
	sessionLogger := logger.NewIsolatedLogger(cfg.App.SessionLogFilePath)

	// Vector store backend selection.
	var (
		questionRepo  contract.QuestionRepository
		analyticsRepo contract.SearchAnalyticsRepository
	)
	switch cfg.Corpus.Backend {
	case "postgres":
		if db == nil {
			log.Panic("postgres vector store backend selected but no database connection given")
		}
		questionRepo = implementation.NewCivicsQuestionRepository(db)
		analyticsRepo = implementation.NewSearchQueryRepository(db)
	default:
		memRepo, err := memory.NewQuestionRepository(cfg.Corpus.SnapshotFile)
		if err != nil {
			log.Panicf("Failed to load vector snapshot: %v", err)
		}
		questionRepo = memRepo
		analyticsRepo = memory.NewSearchQueryRepository()
	}

	// Embedding provider, cached per input text.
	embeddingProvider := embedding.NewCachedProvider(
		embedding.NewOpenAIProvider(cfg.OpenAI.BaseURL, cfg.OpenAI.APIKey, cfg.OpenAI.EmbeddingModel),
		0,
	)

	// NATS is best-effort: a dead broker degrades analytics, not the app.
	eventPublisher, err := pktNats.NewPublisher(cfg.App.NatsURL)
	if err != nil {
		appLogger.Warn("Bootstrap", "NATS unavailable, event publishing disabled", map[string]interface{}{"error": err.Error()})
		eventPublisher = nil
	}

	// Redis is optional; without it the hub only delivers locally.
	var rdb *redis.Client
	if opts, err := redis.ParseURL(cfg.App.RedisURL); err == nil {
		rdb = redis.NewClient(opts)
	} else {
		appLogger.Warn("Bootstrap", "Invalid Redis URL, cross-instance fanout disabled", map[string]interface{}{"error": err.Error()})
	}

	// Services.
	searchService := service.NewSearchService(questionRepo, analyticsRepo, embeddingProvider, eventPublisher, appLogger)
	enhancementService := service.NewEnhancementService(
		searchService,
		rag.NewKeywordClassifier(),
		rag.NewOfficialsDetector(),
		rag.NewFallbackAnswers(rag.DefaultFallbackEntries()),
		appLogger,
	)
	ingestionService := service.NewIngestionService(questionRepo, embeddingProvider, appLogger)

	// Realtime plumbing: websocket -> in-process bus -> session engine.
	bus := gochannel.NewGoChannel(gochannel.Config{}, watermill.NewStdLogger(false, false))
	hub := websocket.NewHub(rdb, sessionLogger)
	snapshots := memory.NewSnapshotRepository(cfg.Session.PausedSnapshotTTL)
	engine := session.NewEngine(searchService, hub, snapshots, eventPublisher, sessionLogger, cfg.Session)
	consumer := session.NewConsumer(bus, engine, sessionLogger)

	return &Container{
		Logger:              appLogger,
		SessionLogger:       sessionLogger,
		QuestionRepository:  questionRepo,
		AnalyticsRepo:       analyticsRepo,
		EmbeddingProvider:   embeddingProvider,
		EventPublisher:      eventPublisher,
		SearchService:       searchService,
		EnhancementService:  enhancementService,
		IngestionService:    ingestionService,
		AssistantController: controller.NewAssistantController(searchService, enhancementService),
		Bus:                 bus,
		Hub:                 hub,
		SessionEngine:       engine,
		SessionConsumer:     consumer,
	}
}
