package retention

import (
	"context"
	"log/slog"
	"sync"
	"time"

	"github.com/tagit-app/tagit-go/internal/repository"
)

// Sweeper periodically evicts resolved reports older than the
// configured maximum age. Open and escalated reports are never
// touched.
type Sweeper struct {
	repo     repository.ReportRepository
	maxAge   time.Duration
	interval time.Duration
	wg       sync.WaitGroup
}

func NewSweeper(repo repository.ReportRepository, maxAge, interval time.Duration) *Sweeper {
	return &Sweeper{
		repo:     repo,
		maxAge:   maxAge,
		interval: interval,
	}
}

func (s *Sweeper) Start(ctx context.Context) {
	s.wg.Add(1)
	go s.run(ctx)
}

func (s *Sweeper) run(ctx context.Context) {
	defer s.wg.Done()
	slog.Info("starting retention sweeper", "max_age", s.maxAge, "interval", s.interval)

	ticker := time.NewTicker(s.interval)
	defer ticker.Stop()

	// Initial sweep
	s.sweep(ctx)

	for {
		select {
		case <-ctx.Done():
			slog.Info("retention sweeper shutting down")
			return
		case <-ticker.C:
			s.sweep(ctx)
		}
	}
}

func (s *Sweeper) sweep(ctx context.Context) {
	cutoff := time.Now().Add(-s.maxAge)

	deleted, err := s.repo.DeleteResolvedBefore(ctx, cutoff)
	if err != nil {
		slog.Error("retention sweep failed", "error", err)
		return
	}
	if deleted > 0 {
		slog.Info("evicted resolved reports", "count", deleted, "cutoff", cutoff)
	}
}

func (s *Sweeper) Stop() {
	s.wg.Wait()
	slog.Info("retention sweeper stopped")
}
