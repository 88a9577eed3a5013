package config

import (
	"errors"
	"log"
	"os"
	"strconv"
	"strings"

	"github.com/joho/godotenv"
)

type Config struct {
	App     AppConfig
	Chatbot ChatbotConfig
	Keys    APIKeys
	Ai      AIConfig
}

type AppConfig struct {
	Port               string
	Environment        string
	LogFilePath        string
	InteractionLogPath string
	ProxyHeader        string // e.g. X-Forwarded-For behind a trusted proxy; empty uses the socket address
	CorsAllowedOrigins string
	NatsURL            string
	RedisURL           string
	OtelEnabled        bool
}

// ChatbotConfig holds the answer engine limits
type ChatbotConfig struct {
	RateLimitPerMin       int
	ResolveTimeoutSeconds float64
	CacheTTLSeconds       int
	CacheMaxEntries       int
	CacheBackend          string // "memory" or "redis"
	QualityMinLength      int
	DatasetPath           string // empty = embedded knowledge base
	DatasetMinOverlap     int
}

type APIKeys struct {
	Gemini      string
	Upstage     string
	HuggingFace string
	Anthropic   string
}

type AIConfig struct {
	ProviderOrder  []string // e.g. gemini,solar; first is the primary tier
	TimeoutSeconds float64
	MaxRPM         int
	MaxTokens      int

	GeminiModel      string
	SolarModel       string
	UpstageBaseURL   string
	HuggingFaceModel string
	HuggingFaceURL   string
	ClaudeModel      string
	OllamaBaseURL    string
	OllamaModel      string
}

func Load() *Config {
	if err := godotenv.Load(); err != nil {
		log.Println("Note: .env file not found, usage system environment")
	}

	return &Config{
		App: AppConfig{
			Port:               getEnv("APP_PORT", "3000"),
			Environment:        getEnv("GO_ENV", "development"),
			LogFilePath:        getEnv("LOG_FILE_PATH", "logs/app.log"),
			InteractionLogPath: getEnv("INTERACTION_LOG_PATH", "logs/interactions.log"),
			ProxyHeader:        getEnv("PROXY_HEADER", ""),
			CorsAllowedOrigins: getEnv("CORS_ALLOWED_ORIGINS", "http://localhost:5173"),
			NatsURL:            getEnv("NATS_URL", ""),
			RedisURL:           getEnv("REDIS_URL", "redis://localhost:6379"),
			OtelEnabled:        getEnvAsBool("OTEL_ENABLED", false),
		},
		Chatbot: ChatbotConfig{
			RateLimitPerMin:       getEnvAsInt("CHATBOT_RATE_LIMIT_PER_MIN", 20),
			ResolveTimeoutSeconds: getEnvAsFloat("RESOLVE_TIMEOUT_SECONDS", 3.0),
			CacheTTLSeconds:       getEnvAsInt("CACHE_TTL_SECONDS", 3600),
			CacheMaxEntries:       getEnvAsInt("CACHE_MAX_ENTRIES", 1000),
			CacheBackend:          strings.ToLower(getEnv("CACHE_BACKEND", "memory")),
			QualityMinLength:      getEnvAsInt("QUALITY_MIN_LENGTH", 100),
			DatasetPath:           getEnv("DATASET_PATH", ""),
			DatasetMinOverlap:     getEnvAsInt("DATASET_MIN_OVERLAP", 1),
		},
		Keys: APIKeys{
			Gemini:      firstNonEmpty(getEnv("GEMINI_API_KEY", ""), getEnv("GOOGLE_API_KEY", "")),
			Upstage:     getEnv("UPSTAGE_API_KEY", ""),
			HuggingFace: getEnv("HUGGINGFACE_API_KEY", ""),
			Anthropic:   getEnv("ANTHROPIC_API_KEY", ""),
		},
		Ai: AIConfig{
			ProviderOrder:    getEnvAsList("AI_PROVIDER_ORDER", []string{"gemini", "solar"}),
			TimeoutSeconds:   getEnvAsFloat("AI_TIMEOUT_SECONDS", 2.5),
			MaxRPM:           getEnvAsInt("AI_PROVIDER_MAX_RPM", 60),
			MaxTokens:        getEnvAsInt("AI_MAX_TOKENS", 300),
			GeminiModel:      getEnv("GEMINI_MODEL", "gemini-2.0-flash"),
			SolarModel:       getEnv("SOLAR_MODEL", "solar-pro3"),
			UpstageBaseURL:   getEnv("UPSTAGE_BASE_URL", "https://api.upstage.ai/v1"),
			HuggingFaceModel: getEnv("HUGGINGFACE_MODEL", ""),
			HuggingFaceURL:   getEnv("HUGGINGFACE_BASE_URL", ""),
			ClaudeModel:      getEnv("CLAUDE_MODEL", "claude-3-5-haiku-latest"),
			OllamaBaseURL:    getEnv("OLLAMA_BASE_URL", ""),
			OllamaModel:      getEnv("OLLAMA_MODEL", "llama3"),
		},
	}
}

// Validate rejects limits that would make the engine misbehave
func (c *Config) Validate() error {
	var errs []error
	if c.Chatbot.RateLimitPerMin <= 0 {
		errs = append(errs, errors.New("CHATBOT_RATE_LIMIT_PER_MIN must be positive"))
	}
	if c.Chatbot.CacheTTLSeconds <= 0 {
		errs = append(errs, errors.New("CACHE_TTL_SECONDS must be positive"))
	}
	if c.Chatbot.CacheMaxEntries <= 0 {
		errs = append(errs, errors.New("CACHE_MAX_ENTRIES must be positive"))
	}
	if c.Chatbot.ResolveTimeoutSeconds <= 0 {
		errs = append(errs, errors.New("RESOLVE_TIMEOUT_SECONDS must be positive"))
	}
	if c.Ai.TimeoutSeconds <= 0 {
		errs = append(errs, errors.New("AI_TIMEOUT_SECONDS must be positive"))
	}
	switch c.Chatbot.CacheBackend {
	case "memory", "redis":
	default:
		errs = append(errs, errors.New("CACHE_BACKEND must be memory or redis"))
	}
	return errors.Join(errs...)
}

func (c *Config) IsProduction() bool {
	return c.App.Environment == "production"
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

func getEnvAsFloat(key string, fallback float64) float64 {
	strValue := getEnv(key, "")
	if value, err := strconv.ParseFloat(strValue, 64); err == nil {
		return value
	}
	return fallback
}

func getEnvAsBool(key string, fallback bool) bool {
	strValue := getEnv(key, "")
	if value, err := strconv.ParseBool(strValue); err == nil {
		return value
	}
	return fallback
}

func firstNonEmpty(values ...string) string {
	for _, v := range values {
		if v != "" {
			return v
		}
	}
	return ""
}

func getEnvAsList(key string, fallback []string) []string {
	strValue := strings.TrimSpace(getEnv(key, ""))
	if strValue == "" {
		return fallback
	}
	var out []string
	for _, part := range strings.Split(strValue, ",") {
		if part = strings.ToLower(strings.TrimSpace(part)); part != "" {
			out = append(out, part)
		}
	}
	return out
}
