package config

import (
	"fmt"
	"os"
	"strconv"
	"time"
)

// Config holds all configuration for interview-engine
type Config struct {
	Server    ServerConfig
	Database  DatabaseConfig
	Provider  ProviderConfig
	Scoring   ScoringConfig
	Interview InterviewConfig
	Cleanup   CleanupConfig
}

// ServerConfig holds HTTP server configuration
type ServerConfig struct {
	Host string
	Port int
}

// DatabaseConfig holds the optional PostgreSQL archive configuration.
// An empty DSN disables archival.
type DatabaseConfig struct {
	DSN          string
	MaxOpenConns int
	MaxIdleConns int
}

// ProviderConfig selects and configures the external collaborators
type ProviderConfig struct {
	AnalysisBackend string // "gemini" or "stub"
	GeminiAPIKey    string
	GeminiModel     string
	AnalysisTimeout time.Duration
	JudgeBackend    string // "http" or "stub"
	JudgeURL        string
	JudgeAPIKey     string
	JudgeTimeout    time.Duration
}

// ScoringConfig selects the context-understanding sub-scorer
type ScoringConfig struct {
	ContextScorer   string // "constant" or "embedding"
	ContextConstant float64
}

// InterviewConfig holds session defaults
type InterviewConfig struct {
	SessionTTL      time.Duration
	ShuffleSeed     int64 // 0 = derive from clock
	QuestionCount   int
	CodingTimeLimit int // seconds
	RubricsDir      string
	QuestionsDir    string
}

// CleanupConfig holds the eviction worker configuration
type CleanupConfig struct {
	Interval time.Duration
}

// Load loads configuration from environment variables
func Load() (*Config, error) {
	cfg := &Config{
		Server: ServerConfig{
			Host: getEnv("SERVER_HOST", "0.0.0.0"),
			Port: getEnvAsInt("SERVER_PORT", 8080),
		},
		Database: DatabaseConfig{
			DSN:          getEnv("DATABASE_DSN", ""),
			MaxOpenConns: getEnvAsInt("DATABASE_MAX_OPEN_CONNS", 25),
			MaxIdleConns: getEnvAsInt("DATABASE_MAX_IDLE_CONNS", 5),
		},
		Provider: ProviderConfig{
			AnalysisBackend: getEnv("ANALYSIS_BACKEND", "stub"),
			GeminiAPIKey:    getEnv("GEMINI_API_KEY", ""),
			GeminiModel:     getEnv("GEMINI_MODEL", "gemini-1.5-flash"),
			AnalysisTimeout: getEnvAsDuration("ANALYSIS_TIMEOUT", 15*time.Second),
			JudgeBackend:    getEnv("JUDGE_BACKEND", "stub"),
			JudgeURL:        getEnv("JUDGE_URL", "https://judge0-ce.p.rapidapi.com"),
			JudgeAPIKey:     getEnv("JUDGE_API_KEY", ""),
			JudgeTimeout:    getEnvAsDuration("JUDGE_TIMEOUT", 30*time.Second),
		},
		Scoring: ScoringConfig{
			ContextScorer:   getEnv("CONTEXT_SCORER", "constant"),
			ContextConstant: getEnvAsFloat("CONTEXT_CONSTANT", 0.8),
		},
		Interview: InterviewConfig{
			SessionTTL:      getEnvAsDuration("SESSION_TTL", 2*time.Hour),
			ShuffleSeed:     getEnvAsInt64("QUESTION_SHUFFLE_SEED", 0),
			QuestionCount:   getEnvAsInt("QUESTION_COUNT", 3),
			CodingTimeLimit: getEnvAsInt("CODING_TIME_LIMIT", 1200),
			RubricsDir:      getEnv("RUBRICS_DIR", "./rubrics"),
			QuestionsDir:    getEnv("QUESTIONS_DIR", "./questions"),
		},
		Cleanup: CleanupConfig{
			Interval: getEnvAsDuration("CLEANUP_INTERVAL", 5*time.Minute),
		},
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("config validation failed: %w", err)
	}

	return cfg, nil
}

// Validate validates the configuration
func (c *Config) Validate() error {
	if c.Server.Port < 1 || c.Server.Port > 65535 {
		return fmt.Errorf("invalid server port: %d", c.Server.Port)
	}

	if c.Provider.AnalysisBackend == "gemini" && c.Provider.GeminiAPIKey == "" {
		return fmt.Errorf("GEMINI_API_KEY is required when ANALYSIS_BACKEND=gemini")
	}

	if c.Provider.JudgeBackend == "http" && c.Provider.JudgeAPIKey == "" {
		return fmt.Errorf("JUDGE_API_KEY is required when JUDGE_BACKEND=http")
	}

	switch c.Scoring.ContextScorer {
	case "constant", "embedding":
	default:
		return fmt.Errorf("unknown context scorer: %s", c.Scoring.ContextScorer)
	}

	if c.Scoring.ContextConstant < 0.6 || c.Scoring.ContextConstant > 1.0 {
		return fmt.Errorf("context constant must be in [0.6,1.0], got %f", c.Scoring.ContextConstant)
	}

	if c.Interview.QuestionCount < 1 {
		return fmt.Errorf("question count must be positive: %d", c.Interview.QuestionCount)
	}

	return nil
}

// Helper functions

func getEnv(key, defaultValue string) string {
	if value, exists := os.LookupEnv(key); exists {
		return value
	}
	return defaultValue
}

func getEnvAsInt(key string, defaultValue int) int {
	if value, exists := os.LookupEnv(key); exists {
		if intValue, err := strconv.Atoi(value); err == nil {
			return intValue
		}
	}
	return defaultValue
}

func getEnvAsInt64(key string, defaultValue int64) int64 {
	if value, exists := os.LookupEnv(key); exists {
		if intValue, err := strconv.ParseInt(value, 10, 64); err == nil {
			return intValue
		}
	}
	return defaultValue
}

func getEnvAsFloat(key string, defaultValue float64) float64 {
	if value, exists := os.LookupEnv(key); exists {
		if floatValue, err := strconv.ParseFloat(value, 64); err == nil {
			return floatValue
		}
	}
	return defaultValue
}

func getEnvAsDuration(key string, defaultValue time.Duration) time.Duration {
	if value, exists := os.LookupEnv(key); exists {
		if duration, err := time.ParseDuration(value); err == nil {
			return duration
		}
	}
	return defaultValue
}
