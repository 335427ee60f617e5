package config

import (
	"fmt"
	"log"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/joho/godotenv"
)

type Config struct {
	App        AppConfig
	Database   DatabaseConfig
	SMTP       SMTPConfig
	Keys       APIKeys
	Ai         AIConfig
	Governance GovernanceConfig
	Session    SessionConfig
}

type AppConfig struct {
	Port               string `validate:"required,numeric"`
	Environment        string `validate:"oneof=development staging production test"`
	LogFilePath        string `validate:"required"`
	AuditLogFilePath   string `validate:"required"`
	LiveLogFilePath    string `validate:"required"`
	CorsAllowedOrigins string
	NatsURL            string
	RedisURL           string
	OtelEnabled        bool
}

type DatabaseConfig struct {
	Connection string
	Debug      bool
}

type SMTPConfig struct {
	Host       string
	Port       int `validate:"min=0,max=65535"`
	Email      string
	Password   string
	SenderName string
}

// Enabled reports whether outbound mail is really delivered.
func (s SMTPConfig) Enabled() bool {
	return s.Host != ""
}

type APIKeys struct {
	GoogleGemini string
	JwtSecret    string `validate:"required,min=16"`
}

type AIConfig struct {
	LLMProvider      string `validate:"oneof=gemini ollama"`
	LLMModel         string `validate:"required"`
	LLMFallbackModel string
	OllamaBaseURL    string
	Timeout          time.Duration `validate:"gt=0"`
	MaxRetries       int           `validate:"min=0,max=5"`
	HistoryWindow    int           `validate:"min=1,max=100"`
	Temperature      float64       `validate:"min=0,max=2"`
	MaxTokens        int           `validate:"min=0"`
	CallLimit        int           `validate:"min=0"`
	CallWindow       time.Duration
}

type GovernanceConfig struct {
	EscalationAction       string
	FollowUpAction         string
	CatalogFile            string
	CustomerManagementMode bool
	DefaultCustomer        string
}

type SessionConfig struct {
	TTL             time.Duration `validate:"gt=0"`
	CleanupInterval time.Duration `validate:"gt=0"`
}

func (c *Config) IsProduction() bool {
	return c.App.Environment == "production"
}

// Load reads .env (if present) and the process environment. It fails when
// the result does not validate.
func Load() (*Config, error) {
	if err := godotenv.Load(); err != nil {
		log.Println("Note: .env file not found, using system environment")
	}

	cfg := &Config{
		App: AppConfig{
			Port:               getEnv("APP_PORT", "3000"),
			Environment:        getEnv("GO_ENV", "development"),
			LogFilePath:        getEnv("LOG_FILE_PATH", "logs/app.log"),
			AuditLogFilePath:   getEnv("AUDIT_LOG_FILE_PATH", "logs/governance_audit.log"),
			LiveLogFilePath:    getEnv("LIVE_LOG_FILE_PATH", "logs/live.log"),
			CorsAllowedOrigins: getEnv("CORS_ALLOWED_ORIGINS", "http://localhost:5173"),
			NatsURL:            getEnv("NATS_URL", ""),
			RedisURL:           getEnv("REDIS_URL", ""),
			OtelEnabled:        getEnvAsBool("OTEL_ENABLED", false),
		},
		Database: DatabaseConfig{
			Connection: getEnv("DB_CONNECTION_STRING", ""),
			Debug:      getEnvAsBool("DB_DEBUG", false),
		},
		SMTP: SMTPConfig{
			Host:       getEnv("SMTP_HOST", ""),
			Port:       getEnvAsInt("SMTP_PORT", 587),
			Email:      getEnv("SMTP_EMAIL", ""),
			Password:   getEnv("SMTP_PASSWORD", ""),
			SenderName: getEnv("SMTP_SENDER_NAME", "CORA Leaf"),
		},
		Keys: APIKeys{
			GoogleGemini: getEnv("GOOGLE_GEMINI_API_KEY", ""),
			JwtSecret:    getEnv("JWT_SECRET", ""),
		},
		Ai: AIConfig{
			LLMProvider:      strings.ToLower(getEnv("LLM_PROVIDER", "gemini")),
			LLMModel:         getEnv("LLM_MODEL", "gemini-2.0-flash"),
			LLMFallbackModel: getEnv("LLM_FALLBACK_MODEL", "gemini-1.5-flash"),
			OllamaBaseURL:    getEnv("OLLAMA_BASE_URL", "http://localhost:11434"),
			Timeout:          getEnvAsDuration("LLM_TIMEOUT", 25*time.Second),
			MaxRetries:       getEnvAsInt("LLM_MAX_RETRIES", 2),
			HistoryWindow:    getEnvAsInt("CHAT_HISTORY_WINDOW", 10),
			Temperature:      getEnvAsFloat("LLM_TEMPERATURE", 0.7),
			MaxTokens:        getEnvAsInt("LLM_MAX_TOKENS", 400),
			CallLimit:        getEnvAsInt("GATEWAY_CALL_LIMIT", 0),
			CallWindow:       getEnvAsDuration("GATEWAY_CALL_WINDOW", time.Hour),
		},
		Governance: GovernanceConfig{
			EscalationAction:       getEnv("GOVERNANCE_ESCALATION_ACTION", ""),
			FollowUpAction:         getEnv("GOVERNANCE_FOLLOW_UP_ACTION", ""),
			CatalogFile:            getEnv("CATALOG_FILE", ""),
			CustomerManagementMode: getEnvAsBool("CUSTOMER_MANAGEMENT_MODE", false),
			DefaultCustomer:        getEnv("DEFAULT_CUSTOMER", ""),
		},
		Session: SessionConfig{
			TTL:             getEnvAsDuration("SESSION_TTL", 2*time.Hour),
			CleanupInterval: getEnvAsDuration("SESSION_CLEANUP_INTERVAL", 10*time.Minute),
		},
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func (c *Config) Validate() error {
	if err := validator.New().Struct(c); err != nil {
		return fmt.Errorf("invalid configuration: %w", err)
	}
	if c.Ai.LLMProvider == "gemini" && c.Keys.GoogleGemini == "" {
		return fmt.Errorf("invalid configuration: GOOGLE_GEMINI_API_KEY is required when LLM_PROVIDER=gemini")
	}
	return nil
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

func getEnvAsBool(key string, fallback bool) bool {
	strValue := getEnv(key, "")
	if value, err := strconv.ParseBool(strValue); err == nil {
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

func getEnvAsDuration(key string, fallback time.Duration) time.Duration {
	strValue := getEnv(key, "")
	if value, err := time.ParseDuration(strValue); err == nil {
		return value
	}
	return fallback
}
