package storage

import (
	"context"

	"github.com/terra-clan/interview-engine/internal/models"
)

// Repository defines the interface for interview archival. Live session
// state never touches storage; only completed interviews are written,
// so crashed sessions simply age out of memory.
type Repository interface {
	// ArchiveInterview persists a completed session and its report
	ArchiveInterview(ctx context.Context, s *models.Session) error

	// GetReport retrieves an archived report, nil if absent
	GetReport(ctx context.Context, sessionID string) (*models.Report, error)

	// ListReports returns recent archived reports, newest first
	ListReports(ctx context.Context, limit int) ([]*models.Report, error)

	// Health
	Ping(ctx context.Context) error
	Close() error
}

// NoopRepository is used when no database is configured. Archival
// silently succeeds and reads find nothing.
type NoopRepository struct{}

// NewNoopRepository creates a repository that stores nothing
func NewNoopRepository() *NoopRepository { return &NoopRepository{} }

func (*NoopRepository) ArchiveInterview(context.Context, *models.Session) error { return nil }

func (*NoopRepository) GetReport(context.Context, string) (*models.Report, error) { return nil, nil }

func (*NoopRepository) ListReports(context.Context, int) ([]*models.Report, error) {
	return nil, nil
}

func (*NoopRepository) Ping(context.Context) error { return nil }

func (*NoopRepository) Close() error { return nil }
