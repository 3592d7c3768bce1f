package submission

import (
	"context"
	"fmt"
	"log/slog"
	"regexp"
	"time"

	"github.com/google/uuid"

	"github.com/tagit-app/tagit-go/internal/dispatch"
	"github.com/tagit-app/tagit-go/internal/models"
	"github.com/tagit-app/tagit-go/internal/notify"
	"github.com/tagit-app/tagit-go/internal/repository"
)

var pincodeRe = regexp.MustCompile(`^\d{6}$`)

// ValidationError is returned before any side effect; the submitter
// corrects the form and retries.
type ValidationError struct {
	Field  string
	Reason string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("invalid %s: %s", e.Field, e.Reason)
}

// Form is the raw submission input.
type Form struct {
	Tag         string              `json:"tag"`
	Priority    string              `json:"priority"`
	Description string              `json:"description"`
	Address     string              `json:"address"`
	Pincode     string              `json:"pincode"`
	Location    *models.Location    `json:"location"`
	MediaName   string              `json:"mediaName"`
	MediaData   string              `json:"mediaData"`
	User        *models.UserProfile `json:"user"`
}

// Scheduler arms the escalation countdown for urgent reports.
type Scheduler interface {
	Schedule(reportID string)
}

type Service struct {
	repo        repository.ReportRepository
	dispatcher  dispatch.Dispatcher
	scheduler   Scheduler
	broadcaster *notify.Broadcaster
}

func NewService(repo repository.ReportRepository, dispatcher dispatch.Dispatcher, scheduler Scheduler, broadcaster *notify.Broadcaster) *Service {
	return &Service{
		repo:        repo,
		dispatcher:  dispatcher,
		scheduler:   scheduler,
		broadcaster: broadcaster,
	}
}

// Submit validates the form, routes it through the dispatch endpoint,
// persists the resulting report, and arms the escalation countdown for
// urgent tags. Validation and dispatch failures leave the store
// untouched.
func (s *Service) Submit(ctx context.Context, form Form) (*models.Report, error) {
	if err := validate(form); err != nil {
		return nil, err
	}

	tag := models.ParseTag(form.Tag)
	now := time.Now()

	resp, err := s.dispatcher.Dispatch(ctx, dispatch.Request{
		Tag:         tag,
		Priority:    models.ParsePriority(form.Priority),
		Description: form.Description,
		Address:     form.Address,
		Pincode:     form.Pincode,
		Location:    form.Location,
		MediaName:   form.MediaName,
		MediaData:   form.MediaData,
		Timestamp:   now,
		User:        form.User,
	})
	if err != nil {
		return nil, err
	}

	report := &models.Report{
		ID:            "r_" + uuid.NewString(),
		Tag:           tag,
		Priority:      models.ParsePriority(form.Priority),
		Description:   form.Description,
		Address:       form.Address,
		Pincode:       form.Pincode,
		Location:      form.Location,
		MediaName:     form.MediaName,
		MediaData:     form.MediaData,
		Submitter:     form.User,
		Authority:     resp.Authority,
		ServerMessage: resp.Message,
		Status:        models.StatusSent,
		CreatedAt:     now,
	}

	if err := s.repo.Add(ctx, report); err != nil {
		return nil, fmt.Errorf("error persisting report: %w", err)
	}

	if tag.Urgent() && s.scheduler != nil {
		s.scheduler.Schedule(report.ID)
	}

	if s.broadcaster != nil {
		s.broadcaster.Broadcast(notify.Event{
			Kind:     notify.EventReportSubmitted,
			ReportID: report.ID,
			Tag:      report.Tag,
			Status:   report.Status,
			Message:  resp.Message,
			At:       now,
		})
	}

	slog.Info("report submitted", "report_id", report.ID, "tag", report.Tag, "authority", report.Authority.Name)

	return report, nil
}

func validate(form Form) error {
	if form.Location == nil && form.Pincode == "" {
		return &ValidationError{
			Field:  "location",
			Reason: "either a captured location or a pincode is required",
		}
	}
	if form.Pincode != "" && !pincodeRe.MatchString(form.Pincode) {
		return &ValidationError{
			Field:  "pincode",
			Reason: "must be exactly 6 digits",
		}
	}
	return nil
}
