package config

import (
	"log"
	"os"
	"strconv"

	"github.com/joho/godotenv"
)

type Config struct {
	App        AppConfig
	Database   DatabaseConfig
	Embedding  EmbeddingConfig
	Translator TranslatorConfig
	Importer   ImporterConfig
}

type AppConfig struct {
	Port               string
	Environment        string
	LogFilePath        string
	CorsAllowedOrigins string
}

type DatabaseConfig struct {
	Connection string
}

type EmbeddingConfig struct {
	BaseURL   string
	Model     string
	Dimension int // changing this invalidates every stored vector
}

type TranslatorConfig struct {
	BaseURL             string
	PrimaryKey          string
	FallbackKey         string // optional; empty disables failover
	TargetLanguage      string
	CharBudgetPerMinute int
}

type ImporterConfig struct {
	PrimaryLanguage string
	ContentRoot     string
	EventTopic      string
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
		},
		Database: DatabaseConfig{
			Connection: getEnv("DB_CONNECTION_STRING", ""),
		},
		Embedding: EmbeddingConfig{
			BaseURL:   getEnv("EMBEDDING_BASE_URL", "http://localhost:11434"),
			Model:     getEnv("EMBEDDING_MODEL", "nomic-embed-text"),
			Dimension: getEnvAsInt("EMBEDDING_DIMENSION", 768),
		},
		Translator: TranslatorConfig{
			BaseURL:             getEnv("TRANSLATOR_BASE_URL", "https://api.cognitive.microsofttranslator.com"),
			PrimaryKey:          getEnv("TRANSLATOR_PRIMARY_KEY", ""),
			FallbackKey:         getEnv("TRANSLATOR_FALLBACK_KEY", ""),
			TargetLanguage:      getEnv("TRANSLATOR_TARGET_LANGUAGE", "cs"),
			CharBudgetPerMinute: getEnvAsInt("TRANSLATOR_CHAR_BUDGET_PER_MINUTE", 33300),
		},
		Importer: ImporterConfig{
			PrimaryLanguage: getEnv("PRIMARY_LANGUAGE", "en"),
			ContentRoot:     getEnv("CONTENT_ROOT", "./docs"),
			EventTopic:      getEnv("DOCUMENT_EVENT_TOPIC_NAME", "DOCUMENT_EVENTS"),
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
