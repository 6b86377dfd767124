package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"

	"github.com/joho/godotenv"
)

type Config struct {
	MongoURI     string
	DBName       string
	JWTSecret    string
	Port         string
	GinMode      string
	CORSOrigins  []string
	MaxFileSize  int64
	AllowedTypes []string

	// Pipeline tuning
	ChunkSize          int
	SummaryMaxLength   int
	SummaryMinLength   int
	TranslationTimeout int
	StaleAfterMinutes  int
	ReaperIntervalMins int

	// Summarization provider: "huggingface" (default) or "gemini"
	SummaryProvider string

	// HuggingFace inference API
	HFAPIKey             string
	HFAPIURL             string
	HFSummarizationModel string
	HFTranslationModel   string
	HFTimeout            int

	// Gemini
	GeminiAPIKey string
	GeminiModel  string

	// Glossary lookups
	DictionaryAPIURL string
	GlossaryCacheTTL int

	// Redis Configuration
	RedisURL      string
	RedisPassword string
	RedisDB       int

	// Telemetry
	OTLPEndpoint   string
	ServiceName    string
	TracingEnabled bool
}

func LoadConfig() (*Config, error) {
	// Load .env file if exists
	if _, err := os.Stat(".env"); err == nil {
		if err := godotenv.Load(); err != nil {
			return nil, fmt.Errorf("error loading .env file: %v", err)
		}
	}

	cfg := &Config{
		MongoURI:     getEnv("MONGO_URI", "mongodb://localhost:27017/legalease"),
		DBName:       getEnv("DB_NAME", "legalease"),
		JWTSecret:    getEnv("JWT_SECRET", ""),
		Port:         getEnv("PORT", "8080"),
		GinMode:      getEnv("GIN_MODE", "debug"),
		CORSOrigins:  strings.Split(getEnv("CORS_ORIGINS", "http://localhost:3000,http://localhost:8080"), ","),
		MaxFileSize:  getEnvInt64("MAX_FILE_SIZE", 20971520), // 20MB
		AllowedTypes: strings.Split(getEnv("ALLOWED_FILE_TYPES", "application/pdf,text/plain,text/html,application/vnd.openxmlformats-officedocument.wordprocessingml.document"), ","),

		ChunkSize:          getEnvInt("CHUNK_SIZE", 500),
		SummaryMaxLength:   getEnvInt("SUMMARY_MAX_LENGTH", 150),
		SummaryMinLength:   getEnvInt("SUMMARY_MIN_LENGTH", 30),
		TranslationTimeout: getEnvInt("TRANSLATION_TIMEOUT", 600),
		StaleAfterMinutes:  getEnvInt("STALE_AFTER_MINUTES", 30),
		ReaperIntervalMins: getEnvInt("REAPER_INTERVAL_MINUTES", 10),

		SummaryProvider: getEnv("SUMMARY_PROVIDER", "huggingface"),

		HFAPIKey:             getEnv("HF_API_KEY", ""),
		HFAPIURL:             getEnv("HF_API_URL", "https://api-inference.huggingface.co/models"),
		HFSummarizationModel: getEnv("HF_SUMMARIZATION_MODEL", "facebook/bart-large-cnn"),
		HFTranslationModel:   getEnv("HF_TRANSLATION_MODEL", "Helsinki-NLP/opus-mt-%s-%s"),
		HFTimeout:            getEnvInt("HF_TIMEOUT", 600),

		GeminiAPIKey: getEnv("GEMINI_API_KEY", ""),
		GeminiModel:  getEnv("GEMINI_MODEL", "gemini-2.0-flash"),

		DictionaryAPIURL: getEnv("DICTIONARY_API_URL", "https://api.dictionaryapi.dev/api/v2/entries/en"),
		GlossaryCacheTTL: getEnvInt("GLOSSARY_CACHE_TTL", 86400),

		// Redis Configuration
		RedisURL:      getEnv("REDIS_URL", "localhost:6379"),
		RedisPassword: getEnv("REDIS_PASSWORD", ""),
		RedisDB:       getEnvInt("REDIS_DB", 0),

		// Telemetry
		OTLPEndpoint:   getEnv("OTLP_ENDPOINT", "localhost:4317"),
		ServiceName:    getEnv("SERVICE_NAME", "legalease-backend"),
		TracingEnabled: getEnvBool("TRACING_ENABLED", false),
	}

	// Validate required fields
	if cfg.JWTSecret == "" {
		return nil, fmt.Errorf("JWT_SECRET is required - set it in .env file")
	}

	if cfg.SummaryProvider != "huggingface" && cfg.SummaryProvider != "gemini" {
		return nil, fmt.Errorf("SUMMARY_PROVIDER must be \"huggingface\" or \"gemini\", got %q", cfg.SummaryProvider)
	}

	if cfg.SummaryProvider == "gemini" && cfg.GeminiAPIKey == "" {
		return nil, fmt.Errorf("GEMINI_API_KEY is required when SUMMARY_PROVIDER=gemini")
	}

	return cfg, nil
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvInt(key string, defaultValue int) int {
	if value := os.Getenv(key); value != "" {
		if intValue, err := strconv.Atoi(value); err == nil {
			return intValue
		}
	}
	return defaultValue
}

func getEnvInt64(key string, defaultValue int64) int64 {
	if value := os.Getenv(key); value != "" {
		if intValue, err := strconv.ParseInt(value, 10, 64); err == nil {
			return intValue
		}
	}
	return defaultValue
}

func getEnvBool(key string, defaultValue bool) bool {
	if value := os.Getenv(key); value != "" {
		if boolValue, err := strconv.ParseBool(value); err == nil {
			return boolValue
		}
	}
	return defaultValue
}
