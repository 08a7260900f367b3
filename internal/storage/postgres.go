package storage

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/terra-clan/interview-engine/internal/models"
)

// PostgresRepository implements Repository using PostgreSQL
type PostgresRepository struct {
	pool *pgxpool.Pool
}

// PostgresConfig holds PostgreSQL connection configuration
type PostgresConfig struct {
	DSN          string
	MaxOpenConns int32
	MaxIdleConns int32
	MaxLifetime  time.Duration
}

// NewPostgresRepository creates a new PostgreSQL repository and ensures
// the archive schema exists.
func NewPostgresRepository(ctx context.Context, cfg PostgresConfig) (*PostgresRepository, error) {
	poolConfig, err := pgxpool.ParseConfig(cfg.DSN)
	if err != nil {
		return nil, fmt.Errorf("failed to parse DSN: %w", err)
	}

	if cfg.MaxOpenConns > 0 {
		poolConfig.MaxConns = cfg.MaxOpenConns
	} else {
		poolConfig.MaxConns = 25 // default
	}

	if cfg.MaxIdleConns > 0 {
		poolConfig.MinConns = cfg.MaxIdleConns
	} else {
		poolConfig.MinConns = 5 // default
	}

	if cfg.MaxLifetime > 0 {
		poolConfig.MaxConnLifetime = cfg.MaxLifetime
	} else {
		poolConfig.MaxConnLifetime = 30 * time.Minute
	}

	pool, err := pgxpool.NewWithConfig(ctx, poolConfig)
	if err != nil {
		return nil, fmt.Errorf("failed to create connection pool: %w", err)
	}

	// Test connection
	if err := pool.Ping(ctx); err != nil {
		pool.Close()
		return nil, fmt.Errorf("failed to ping database: %w", err)
	}

	repo := &PostgresRepository{pool: pool}
	if err := repo.ensureSchema(ctx); err != nil {
		pool.Close()
		return nil, err
	}
	return repo, nil
}

// ensureSchema creates the archive table if it does not exist.
func (r *PostgresRepository) ensureSchema(ctx context.Context) error {
	query := `
		CREATE TABLE IF NOT EXISTS interviews (
			session_id   TEXT PRIMARY KEY,
			role         TEXT NOT NULL,
			difficulty   TEXT NOT NULL,
			config       JSONB NOT NULL,
			messages     JSONB NOT NULL,
			report       JSONB NOT NULL,
			created_at   TIMESTAMPTZ NOT NULL,
			completed_at TIMESTAMPTZ NOT NULL
		)
	`
	if _, err := r.pool.Exec(ctx, query); err != nil {
		return fmt.Errorf("failed to ensure schema: %w", err)
	}
	return nil
}

// Ping checks database connectivity
func (r *PostgresRepository) Ping(ctx context.Context) error {
	return r.pool.Ping(ctx)
}

// Close closes the database connection pool
func (r *PostgresRepository) Close() error {
	r.pool.Close()
	return nil
}

// ArchiveInterview persists a completed session. Re-archiving the same
// session overwrites the previous record.
func (r *PostgresRepository) ArchiveInterview(ctx context.Context, s *models.Session) error {
	if s.Report == nil {
		return fmt.Errorf("session %s has no report", s.ID)
	}

	configJSON, err := json.Marshal(s.Config)
	if err != nil {
		return fmt.Errorf("failed to marshal config: %w", err)
	}

	messagesJSON, err := json.Marshal(s.Messages)
	if err != nil {
		return fmt.Errorf("failed to marshal messages: %w", err)
	}

	reportJSON, err := json.Marshal(s.Report)
	if err != nil {
		return fmt.Errorf("failed to marshal report: %w", err)
	}

	query := `
		INSERT INTO interviews (session_id, role, difficulty, config, messages, report, created_at, completed_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
		ON CONFLICT (session_id) DO UPDATE
		SET messages = EXCLUDED.messages, report = EXCLUDED.report, completed_at = EXCLUDED.completed_at
	`

	_, err = r.pool.Exec(ctx, query,
		s.ID,
		s.Config.Role,
		s.Config.Difficulty,
		configJSON,
		messagesJSON,
		reportJSON,
		s.CreatedAt,
		s.Report.GeneratedAt,
	)

	if err != nil {
		return fmt.Errorf("failed to archive interview: %w", err)
	}

	return nil
}

// GetReport retrieves an archived report by session id
func (r *PostgresRepository) GetReport(ctx context.Context, sessionID string) (*models.Report, error) {
	query := `SELECT report FROM interviews WHERE session_id = $1`

	var reportJSON []byte
	err := r.pool.QueryRow(ctx, query, sessionID).Scan(&reportJSON)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil // Not found
		}
		return nil, fmt.Errorf("failed to get report: %w", err)
	}

	var report models.Report
	if err := json.Unmarshal(reportJSON, &report); err != nil {
		return nil, fmt.Errorf("failed to unmarshal report: %w", err)
	}
	return &report, nil
}

// ListReports returns recent archived reports, newest first
func (r *PostgresRepository) ListReports(ctx context.Context, limit int) ([]*models.Report, error) {
	if limit <= 0 {
		limit = 50
	}

	query := `
		SELECT report FROM interviews
		ORDER BY completed_at DESC
		LIMIT $1
	`

	rows, err := r.pool.Query(ctx, query, limit)
	if err != nil {
		return nil, fmt.Errorf("failed to list reports: %w", err)
	}
	defer rows.Close()

	var reports []*models.Report
	for rows.Next() {
		var reportJSON []byte
		if err := rows.Scan(&reportJSON); err != nil {
			return nil, fmt.Errorf("failed to scan report: %w", err)
		}

		var report models.Report
		if err := json.Unmarshal(reportJSON, &report); err != nil {
			return nil, fmt.Errorf("failed to unmarshal report: %w", err)
		}
		reports = append(reports, &report)
	}

	return reports, rows.Err()
}
