package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoad_Defaults(t *testing.T) {
	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, "0.0.0.0", cfg.Server.Host)
	assert.Equal(t, 8080, cfg.Server.Port)
	assert.Equal(t, "stub", cfg.Provider.AnalysisBackend)
	assert.Equal(t, "stub", cfg.Provider.JudgeBackend)
	assert.Equal(t, 15*time.Second, cfg.Provider.AnalysisTimeout)
	assert.Equal(t, "constant", cfg.Scoring.ContextScorer)
	assert.Equal(t, 0.8, cfg.Scoring.ContextConstant)
	assert.Equal(t, 2*time.Hour, cfg.Interview.SessionTTL)
	assert.Equal(t, 3, cfg.Interview.QuestionCount)
	assert.Equal(t, 5*time.Minute, cfg.Cleanup.Interval)
}

func TestLoad_EnvOverrides(t *testing.T) {
	t.Setenv("SERVER_PORT", "9090")
	t.Setenv("SESSION_TTL", "30m")
	t.Setenv("QUESTION_COUNT", "5")
	t.Setenv("CONTEXT_SCORER", "embedding")

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, 9090, cfg.Server.Port)
	assert.Equal(t, 30*time.Minute, cfg.Interview.SessionTTL)
	assert.Equal(t, 5, cfg.Interview.QuestionCount)
	assert.Equal(t, "embedding", cfg.Scoring.ContextScorer)
}

func TestValidate_Failures(t *testing.T) {
	cases := []struct {
		name   string
		mutate func(*Config)
		want   string
	}{
		{
			name:   "bad port",
			mutate: func(c *Config) { c.Server.Port = 0 },
			want:   "invalid server port",
		},
		{
			name:   "gemini without key",
			mutate: func(c *Config) { c.Provider.AnalysisBackend = "gemini" },
			want:   "GEMINI_API_KEY is required",
		},
		{
			name:   "http judge without key",
			mutate: func(c *Config) { c.Provider.JudgeBackend = "http" },
			want:   "JUDGE_API_KEY is required",
		},
		{
			name:   "unknown scorer",
			mutate: func(c *Config) { c.Scoring.ContextScorer = "oracle" },
			want:   "unknown context scorer",
		},
		{
			name:   "context constant out of range",
			mutate: func(c *Config) { c.Scoring.ContextConstant = 0.2 },
			want:   "context constant must be in",
		},
		{
			name:   "non-positive question count",
			mutate: func(c *Config) { c.Interview.QuestionCount = 0 },
			want:   "question count must be positive",
		},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			cfg, err := Load()
			require.NoError(t, err)

			tc.mutate(cfg)
			err = cfg.Validate()
			require.Error(t, err)
			assert.Contains(t, err.Error(), tc.want)
		})
	}
}
