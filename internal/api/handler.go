package api

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/tagit-app/tagit-go/internal/directory"
	"github.com/tagit-app/tagit-go/internal/dispatch"
	"github.com/tagit-app/tagit-go/internal/models"
	"github.com/tagit-app/tagit-go/internal/notify"
	"github.com/tagit-app/tagit-go/internal/projection"
	"github.com/tagit-app/tagit-go/internal/repository"
	"github.com/tagit-app/tagit-go/internal/submission"
)

const (
	profileKeyUser      = "user"
	profileKeyAuthority = "authority"
)

type Handler struct {
	repo        repository.ReportRepository
	profiles    repository.ProfileRepository
	submissions *submission.Service
	broadcaster *notify.Broadcaster
	latency     time.Duration // simulated routing delay on the mock dispatch endpoint
}

func NewHandler(repo repository.ReportRepository, profiles repository.ProfileRepository, submissions *submission.Service, broadcaster *notify.Broadcaster, latency time.Duration) *Handler {
	return &Handler{
		repo:        repo,
		profiles:    profiles,
		submissions: submissions,
		broadcaster: broadcaster,
		latency:     latency,
	}
}

func (h *Handler) RegisterRoutes(r *gin.Engine) {
	r.POST("/api/report", h.mockDispatch)
	r.POST("/api/reports", h.submitReport)
	r.GET("/api/reports", h.citizenDashboard)
	r.GET("/api/authority/reports", h.authorityDashboard)
	r.GET("/api/tags/:tag", h.tagInfo)
	r.GET("/api/profile/:kind", h.getProfile)
	r.PUT("/api/profile/:kind", h.putProfile)
	r.GET("/api/events", h.events)
	r.GET("/health", h.health)
}

// mockDispatch simulates the upstream authority router: it resolves the
// responsible authority from the pincode and tag, waits the configured
// latency, and acknowledges.
func (h *Handler) mockDispatch(c *gin.Context) {
	var req dispatch.Request
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid report payload"})
		return
	}

	authority := directory.Resolve(req.Pincode, models.ParseTag(string(req.Tag)))

	select {
	case <-time.After(h.latency):
	case <-c.Request.Context().Done():
		return
	}

	c.JSON(http.StatusOK, dispatch.Response{
		Success:   true,
		Message:   fmt.Sprintf("Report received and forwarded to %s", authority.Name),
		Authority: authority,
	})
}

func (h *Handler) submitReport(c *gin.Context) {
	var form submission.Form
	if err := c.ShouldBindJSON(&form); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid form payload"})
		return
	}

	report, err := h.submissions.Submit(c.Request.Context(), form)
	if err != nil {
		var verr *submission.ValidationError
		switch {
		case errors.As(err, &verr):
			c.JSON(http.StatusBadRequest, gin.H{"error": verr.Error(), "field": verr.Field})
		case errors.Is(err, dispatch.ErrDispatch):
			c.JSON(http.StatusBadGateway, gin.H{"error": "failed to send report, please retry"})
		default:
			c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to submit report"})
		}
		return
	}

	c.JSON(http.StatusCreated, report)
}

func (h *Handler) citizenDashboard(c *gin.Context) {
	reports, err := h.repo.List(c.Request.Context(), repository.Filter{})
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{
			"error": "failed to fetch reports",
		})
		return
	}

	c.JSON(http.StatusOK, gin.H{"reports": projection.Citizen(reports)})
}

func (h *Handler) authorityDashboard(c *gin.Context) {
	authorityType := c.Query("type")
	if authorityType == "" {
		authorityType = h.storedAuthorityType(c)
	}

	reports, err := h.repo.List(c.Request.Context(), repository.Filter{})
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{
			"error": "failed to fetch reports",
		})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"type":    authorityType,
		"buckets": projection.Authority(authorityType, reports),
	})
}

// storedAuthorityType reads the persisted authority viewer profile,
// defaulting to Police like the prototype dashboard.
func (h *Handler) storedAuthorityType(c *gin.Context) string {
	raw, err := h.profiles.GetProfile(c.Request.Context(), profileKeyAuthority)
	if err != nil {
		return "Police"
	}
	var p models.AuthorityProfile
	if err := json.Unmarshal(raw, &p); err != nil || p.Type == "" {
		return "Police"
	}
	return p.Type
}

func (h *Handler) tagInfo(c *gin.Context) {
	tag := models.ParseTag(c.Param("tag"))
	info := tag.Info()
	c.JSON(http.StatusOK, gin.H{
		"tag":     tag,
		"urgent":  tag.Urgent(),
		"icon":    info.Icon,
		"desc":    info.Desc,
		"capture": info.Capture,
		"tips":    info.Tips,
	})
}

func (h *Handler) getProfile(c *gin.Context) {
	kind := c.Param("kind")
	if kind != profileKeyUser && kind != profileKeyAuthority {
		c.JSON(http.StatusNotFound, gin.H{"error": "unknown profile kind"})
		return
	}

	raw, err := h.profiles.GetProfile(c.Request.Context(), kind)
	if errors.Is(err, repository.ErrNotFound) {
		c.JSON(http.StatusNotFound, gin.H{"error": "profile not set"})
		return
	}
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to fetch profile"})
		return
	}

	c.Data(http.StatusOK, "application/json", raw)
}

func (h *Handler) putProfile(c *gin.Context) {
	kind := c.Param("kind")
	if kind != profileKeyUser && kind != profileKeyAuthority {
		c.JSON(http.StatusNotFound, gin.H{"error": "unknown profile kind"})
		return
	}

	raw, err := io.ReadAll(c.Request.Body)
	if err != nil || !json.Valid(raw) {
		c.JSON(http.StatusBadRequest, gin.H{"error": "profile must be valid JSON"})
		return
	}

	if err := h.profiles.SaveProfile(c.Request.Context(), kind, raw); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to save profile"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"saved": kind})
}

// events streams report lifecycle notifications as server-sent events.
func (h *Handler) events(c *gin.Context) {
	id, ch := h.broadcaster.Subscribe()
	defer h.broadcaster.Unsubscribe(id)

	c.Stream(func(w io.Writer) bool {
		select {
		case event, ok := <-ch:
			if !ok {
				return false
			}
			c.SSEvent(string(event.Kind), event)
			return true
		case <-c.Request.Context().Done():
			return false
		}
	})
}

func (h *Handler) health(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"status": "ok"})
}
