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
	Ai       AIConfig
	Pipeline PipelineConfig
}

type AppConfig struct {
	Port               string
	Environment        string
	LogFilePath        string
	CorsAllowedOrigins string
	NatsURL            string
}

type DatabaseConfig struct {
	// MetadataConnection and VectorConnection are separate DSNs: the document
	// store and the vector store are physically distinct databases.
	MetadataConnection string
	VectorConnection   string
	ConnectAttempts    int
	ConnectBackoff     time.Duration
}

type AIConfig struct {
	AnalyzerModel     string
	EmbeddingProvider string // "gemini" or "ollama"
	OllamaBaseURL     string
	OllamaModel       string
	GoogleGemini      string
}

type PipelineConfig struct {
	QueueBuffer      int
	IdleTimeout      time.Duration
	WatchdogInterval time.Duration
	DedupWindow      time.Duration
}

func Load() *Config {
	if err := godotenv.Load(); err != nil {
		log.Println("Note: .env file not found, usage system environment")
	}

	return &Config{
		App: AppConfig{
			Port:               getEnv("APP_PORT", "3000"),
			Environment:        getEnv("GO_ENV", "development"),
			LogFilePath:        getEnv("LOG_FILE_PATH", "app.log"),
			CorsAllowedOrigins: getEnv("CORS_ALLOWED_ORIGINS", "http://localhost:5173"),
			NatsURL:            getEnv("NATS_URL", "nats://localhost:4222"),
		},
		Database: DatabaseConfig{
			MetadataConnection: getEnv("METADATA_DB_CONNECTION_STRING", ""),
			VectorConnection:   getEnv("VECTOR_DB_CONNECTION_STRING", ""),
			ConnectAttempts:    getEnvAsInt("DB_CONNECT_ATTEMPTS", 5),
			ConnectBackoff:     getEnvAsDuration("DB_CONNECT_BACKOFF", 2*time.Second),
		},
		Ai: AIConfig{
			AnalyzerModel:     getEnv("ANALYZER_MODEL", "llama3"),
			EmbeddingProvider: getEnv("EMBEDDING_PROVIDER", "ollama"),
			OllamaBaseURL:     getEnv("OLLAMA_BASE_URL", "http://localhost:11434"),
			OllamaModel:       getEnv("OLLAMA_EMBEDDING_MODEL", "nomic-embed-text"),
			GoogleGemini:      getEnv("GOOGLE_GEMINI_API_KEY", ""),
		},
		Pipeline: PipelineConfig{
			QueueBuffer:      getEnvAsInt("PIPELINE_QUEUE_BUFFER", 100),
			IdleTimeout:      getEnvAsDuration("PIPELINE_IDLE_TIMEOUT", 5*time.Minute),
			WatchdogInterval: getEnvAsDuration("PIPELINE_WATCHDOG_INTERVAL", time.Minute),
			DedupWindow:      getEnvAsDuration("PIPELINE_DEDUP_WINDOW", 10*time.Minute),
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
