package escalation

import (
	"context"
	"errors"
	"log/slog"
	"sync"
	"time"

	"github.com/tagit-app/tagit-go/internal/models"
	"github.com/tagit-app/tagit-go/internal/notify"
	"github.com/tagit-app/tagit-go/internal/repository"
)

// Scheduler arms one countdown per report id. When a countdown fires
// the report is re-fetched from the store and, unless it already
// reached a terminal status, flipped to Backup Triggered.
type Scheduler struct {
	repo        repository.ReportRepository
	broadcaster *notify.Broadcaster
	duration    time.Duration

	mu     sync.Mutex
	timers map[string]*time.Timer
}

func NewScheduler(repo repository.ReportRepository, broadcaster *notify.Broadcaster, duration time.Duration) *Scheduler {
	return &Scheduler{
		repo:        repo,
		broadcaster: broadcaster,
		duration:    duration,
		timers:      make(map[string]*time.Timer),
	}
}

// Schedule arms the escalation countdown for a report. Re-scheduling
// the same id cancels the prior countdown first, so at most one timer
// is active per report.
func (s *Scheduler) Schedule(reportID string) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if prev, ok := s.timers[reportID]; ok {
		prev.Stop()
	}
	s.timers[reportID] = time.AfterFunc(s.duration, func() {
		s.fire(reportID)
	})

	slog.Debug("escalation scheduled", "report_id", reportID, "duration", s.duration)
}

// Cancel stops the countdown for a report, if one is running.
func (s *Scheduler) Cancel(reportID string) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if t, ok := s.timers[reportID]; ok {
		t.Stop()
		delete(s.timers, reportID)
	}
}

// Active reports whether a countdown is currently armed for the id.
func (s *Scheduler) Active(reportID string) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	_, ok := s.timers[reportID]
	return ok
}

// Stop cancels all running countdowns. Used at shutdown.
func (s *Scheduler) Stop() {
	s.mu.Lock()
	defer s.mu.Unlock()

	for id, t := range s.timers {
		t.Stop()
		delete(s.timers, id)
	}
}

func (s *Scheduler) fire(reportID string) {
	s.mu.Lock()
	delete(s.timers, reportID)
	s.mu.Unlock()

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	// The store is the source of truth at fire time; the report may
	// have been resolved or removed since the timer was armed.
	report, err := s.repo.GetByID(ctx, reportID)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			slog.Warn("escalation fired for unknown report", "report_id", reportID)
			return
		}
		slog.Error("error fetching report for escalation", "report_id", reportID, "error", err)
		return
	}

	if report.Status.Terminal() {
		slog.Debug("escalation skipped, report already terminal", "report_id", reportID, "status", report.Status)
		return
	}

	if err := s.repo.UpdateStatus(ctx, reportID, models.StatusBackupTriggered); err != nil {
		slog.Error("error escalating report", "report_id", reportID, "error", err)
		return
	}

	slog.Info("backup triggered", "report_id", reportID, "tag", report.Tag)

	if s.broadcaster != nil {
		s.broadcaster.Broadcast(notify.Event{
			Kind:     notify.EventReportEscalated,
			ReportID: reportID,
			Tag:      report.Tag,
			Status:   models.StatusBackupTriggered,
			Message:  "Backup call placed to Police (simulated)",
			At:       time.Now(),
		})
	}
}
