package main

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"

	"github.com/terra-clan/interview-engine/internal/agent"
	"github.com/terra-clan/interview-engine/internal/analyzer"
	"github.com/terra-clan/interview-engine/internal/api"
	"github.com/terra-clan/interview-engine/internal/cleanup"
	"github.com/terra-clan/interview-engine/internal/config"
	"github.com/terra-clan/interview-engine/internal/orchestrator"
	"github.com/terra-clan/interview-engine/internal/provider"
	"github.com/terra-clan/interview-engine/internal/question"
	"github.com/terra-clan/interview-engine/internal/rubric"
	"github.com/terra-clan/interview-engine/internal/scoring"
	"github.com/terra-clan/interview-engine/internal/storage"
)

func main() {
	// Setup structured logging
	logger := slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{
		Level: slog.LevelInfo,
	}))
	slog.SetDefault(logger)

	// Load .env if present, then configuration
	if err := godotenv.Load(); err == nil {
		slog.Info("loaded environment from .env")
	}

	cfg, err := config.Load()
	if err != nil {
		slog.Error("failed to load config", "error", err)
		os.Exit(1)
	}

	slog.Info("starting interview-engine",
		"host", cfg.Server.Host,
		"port", cfg.Server.Port,
		"analysis_backend", cfg.Provider.AnalysisBackend,
		"judge_backend", cfg.Provider.JudgeBackend,
	)

	// Create context for initialization
	initCtx, initCancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer initCancel()

	// Initialize the archive repository. An empty DSN disables archival.
	var repo storage.Repository
	if cfg.Database.DSN != "" {
		pg, err := storage.NewPostgresRepository(initCtx, storage.PostgresConfig{
			DSN:          cfg.Database.DSN,
			MaxOpenConns: int32(cfg.Database.MaxOpenConns),
			MaxIdleConns: int32(cfg.Database.MaxIdleConns),
		})
		if err != nil {
			slog.Error("failed to create database repository", "error", err)
			os.Exit(1)
		}
		repo = pg
		slog.Info("database connected successfully")
	} else {
		repo = storage.NewNoopRepository()
		slog.Info("archival disabled, no database configured")
	}

	// Load rubrics and questions, keeping the built-in defaults when the
	// directories are absent.
	rubrics := rubric.NewStore()
	if _, err := os.Stat(cfg.Interview.RubricsDir); err == nil {
		if err := rubrics.LoadFromDir(cfg.Interview.RubricsDir); err != nil {
			slog.Warn("failed to load rubrics from dir", "dir", cfg.Interview.RubricsDir, "error", err)
		}
	}

	bank := question.NewBank()
	if _, err := os.Stat(cfg.Interview.QuestionsDir); err == nil {
		if err := bank.LoadFromDir(cfg.Interview.QuestionsDir); err != nil {
			slog.Warn("failed to load questions from dir", "dir", cfg.Interview.QuestionsDir, "error", err)
		}
	}

	// Initialize provider registry
	registry := provider.NewRegistry()

	var analysisProvider provider.AnalysisProvider
	if cfg.Provider.AnalysisBackend == "gemini" {
		gemini, err := provider.NewGeminiAnalysis(initCtx, cfg.Provider.GeminiAPIKey, cfg.Provider.GeminiModel)
		if err != nil {
			slog.Error("failed to create gemini provider", "error", err)
			os.Exit(1)
		}
		defer gemini.Close()
		analysisProvider = gemini
	} else {
		analysisProvider = provider.NewStubAnalysis()
	}
	registry.Register("analysis", analysisProvider)

	var judge provider.CodeJudge
	if cfg.Provider.JudgeBackend == "http" {
		judge = provider.NewHTTPJudge(cfg.Provider.JudgeURL, cfg.Provider.JudgeAPIKey, cfg.Provider.JudgeTimeout)
	} else {
		judge = provider.NewStubJudge()
	}
	registry.Register("judge", judge)

	// Context scorer for rubric scoring
	var scorer scoring.ContextScorer
	if cfg.Scoring.ContextScorer == "embedding" {
		scorer = scoring.NewEmbeddingScorer()
	} else {
		scorer = scoring.NewConstantScorer(cfg.Scoring.ContextConstant)
	}

	// Wire the specialists
	responseAnalyzer := analyzer.New(analysisProvider, cfg.Provider.AnalysisTimeout)
	coordinator := agent.NewCoordinator()
	behavioral := agent.NewBehavioral(bank, responseAnalyzer, cfg.Interview.QuestionCount)
	coding := agent.NewCoding(judge, cfg.Interview.CodingTimeLimit, nil)
	analysis := agent.NewAnalysis(rubrics, scorer)
	feedback := agent.NewFeedback(analysis)

	orch := orchestrator.New(coordinator, behavioral, coding, analysis, feedback, bank, repo, orchestrator.Options{
		SessionTTL:      cfg.Interview.SessionTTL,
		ShuffleSeed:     cfg.Interview.ShuffleSeed,
		QuestionCount:   cfg.Interview.QuestionCount,
		CodingTimeLimit: cfg.Interview.CodingTimeLimit,
	})

	// Initialize cleanup worker
	cleaner := cleanup.NewCleaner(orch, cfg.Cleanup.Interval)

	// Create context with cancellation
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	// Start cleanup worker
	cleaner.Start(ctx)

	// Setup HTTP server
	server := api.NewServer(orch, registry, repo)
	httpServer := &http.Server{
		Addr:         fmt.Sprintf("%s:%d", cfg.Server.Host, cfg.Server.Port),
		Handler:      server.Router(),
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	// Start server in goroutine
	go func() {
		slog.Info("HTTP server starting", "addr", httpServer.Addr)
		if err := httpServer.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			slog.Error("HTTP server error", "error", err)
			os.Exit(1)
		}
	}()

	// Wait for interrupt signal
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	slog.Info("shutting down gracefully...")

	// Cancel context to stop background workers
	cancel()

	// Shutdown HTTP server with timeout
	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer shutdownCancel()

	if err := httpServer.Shutdown(shutdownCtx); err != nil {
		slog.Error("HTTP server shutdown error", "error", err)
	}

	if err := repo.Close(); err != nil {
		slog.Error("repository close error", "error", err)
	}

	slog.Info("interview-engine stopped")
}
