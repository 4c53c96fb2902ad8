package config

import (
	"log"
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"
)

type Config struct {
	App      AppConfig
	Database DatabaseConfig
	OpenAI   OpenAIConfig
	Corpus   CorpusConfig
	Session  SessionConfig
}

type AppConfig struct {
	Port               string
	BaseURL            string
	ClientURL          string
	Environment        string
	LogFilePath        string
	SessionLogFilePath string
	CorsAllowedOrigins string
	NatsURL            string
	RedisURL           string
}

type DatabaseConfig struct {
	Connection string
}

type OpenAIConfig struct {
	APIKey         string
	BaseURL        string
	EmbeddingModel string
}

type CorpusConfig struct {
	// Backend selects the vector store implementation: "memory" or "postgres".
	Backend string
	// QuestionsFile is the source corpus consumed by the ingest command.
	QuestionsFile string
	// SnapshotFile persists the in-memory store between restarts.
	SnapshotFile string
}

type SessionConfig struct {
	// CheckinDelay is the quiet period after a practice question is shown
	// before the engine nudges the assistant to check in with the user.
	CheckinDelay time.Duration
	// InactivityWarning fires a spoken warning; InactivityPause pauses the
	// session. Warning must be shorter than Pause.
	InactivityWarning time.Duration
	InactivityPause   time.Duration
	// PausedSnapshotTTL bounds how long a paused session can be resumed.
	PausedSnapshotTTL time.Duration
}

func Load() *Config {
	if err := godotenv.Load(); err != nil {
		log.Println("Note: .env file not found, usage system environment")
	}

	return &Config{
		App: AppConfig{
			Port:               getEnv("APP_PORT", "3000"),
			BaseURL:            getEnv("APP_BASE_URL", "http://localhost:3000"),
			ClientURL:          getEnv("CLIENT_URL", "http://localhost:5173"),
			Environment:        getEnv("GO_ENV", "development"),
			LogFilePath:        getEnv("LOG_FILE_PATH", "logs/app.log"),
			SessionLogFilePath: getEnv("SESSION_LOG_FILE_PATH", "logs/session.log"),
			CorsAllowedOrigins: getEnv("CORS_ALLOWED_ORIGINS", "http://localhost:5173"),
			NatsURL:            getEnv("NATS_URL", "nats://localhost:4222"),
			RedisURL:           getEnv("REDIS_URL", "redis://localhost:6379"),
		},
		Database: DatabaseConfig{
			Connection: getEnv("DB_CONNECTION_STRING", ""),
		},
		OpenAI: OpenAIConfig{
			APIKey:         getEnv("OPENAI_API_KEY", ""),
			BaseURL:        getEnv("OPENAI_BASE_URL", "https://api.openai.com/v1"),
			EmbeddingModel: getEnv("OPENAI_EMBEDDING_MODEL", "text-embedding-3-small"),
		},
		Corpus: CorpusConfig{
			Backend:       getEnv("VECTOR_STORE_BACKEND", "memory"),
			QuestionsFile: getEnv("CORPUS_QUESTIONS_FILE", "data/uscis_questions.json"),
			SnapshotFile:  getEnv("CORPUS_SNAPSHOT_FILE", "data/vector_snapshot.json"),
		},
		Session: SessionConfig{
			CheckinDelay:      getEnvAsDuration("SESSION_CHECKIN_DELAY", 45*time.Second),
			InactivityWarning: getEnvAsDuration("SESSION_INACTIVITY_WARNING", 2*time.Minute),
			InactivityPause:   getEnvAsDuration("SESSION_INACTIVITY_PAUSE", 3*time.Minute),
			PausedSnapshotTTL: getEnvAsDuration("SESSION_PAUSED_TTL", 30*time.Minute),
		},
	}
}

func getEnv(key, fallback string) string {
	if value, exists := os.LookupEnv(key); exists {
		return value
	}
	return fallback
}

func getEnvAsInt(key string, fallback int) int {
	strValue := getEnv(key, "")
	if value, err := strconv.Atoi(strValue); err == nil {
		return value
	}
	return fallback
}

func getEnvAsDuration(key string, fallback time.Duration) time.Duration {
	strValue := getEnv(key, "")
	if value, err := time.ParseDuration(strValue); err == nil {
		return value
	}
	return fallback
}
