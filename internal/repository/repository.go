package repository

import (
	"context"
	"errors"
	"time"

	"github.com/tagit-app/tagit-go/internal/models"
)

var ErrNotFound = errors.New("report not found")

type Filter struct {
	Tags     []models.Tag
	Statuses []models.ReportStatus
	Limit    int
	Offset   int
}

// ReportRepository owns the canonical report sequence. Listing is
// most-recent-first by insertion order.
type ReportRepository interface {
	Add(ctx context.Context, r *models.Report) error
	GetByID(ctx context.Context, id string) (*models.Report, error)
	List(ctx context.Context, opts Filter) ([]models.Report, error)
	UpdateStatus(ctx context.Context, id string, status models.ReportStatus) error
	Count(ctx context.Context) (int, error)
	DeleteResolvedBefore(ctx context.Context, cutoff time.Time) (int64, error)
}

// ProfileRepository persists the citizen and authority viewer profiles
// as keyed JSON documents.
type ProfileRepository interface {
	SaveProfile(ctx context.Context, key string, value []byte) error
	GetProfile(ctx context.Context, key string) ([]byte, error)
}
