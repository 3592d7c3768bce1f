package api

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/tagit-app/tagit-go/internal/dispatch"
	"github.com/tagit-app/tagit-go/internal/models"
	"github.com/tagit-app/tagit-go/internal/notify"
	"github.com/tagit-app/tagit-go/internal/repository"
	"github.com/tagit-app/tagit-go/internal/submission"
)

// mockRepo implements the report and profile repositories for handler tests.
type mockRepo struct {
	mu       sync.Mutex
	reports  []models.Report
	profiles map[string][]byte
	listErr  error
}

func newMockRepo() *mockRepo {
	return &mockRepo{profiles: make(map[string][]byte)}
}

func (m *mockRepo) Add(ctx context.Context, r *models.Report) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.reports = append([]models.Report{*r}, m.reports...)
	return nil
}

func (m *mockRepo) GetByID(ctx context.Context, id string) (*models.Report, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, r := range m.reports {
		if r.ID == id {
			cp := r
			return &cp, nil
		}
	}
	return nil, repository.ErrNotFound
}

func (m *mockRepo) List(ctx context.Context, opts repository.Filter) ([]models.Report, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.listErr != nil {
		return nil, m.listErr
	}
	return append([]models.Report(nil), m.reports...), nil
}

func (m *mockRepo) UpdateStatus(ctx context.Context, id string, status models.ReportStatus) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	for i := range m.reports {
		if m.reports[i].ID == id {
			m.reports[i].Status = status
			return nil
		}
	}
	return repository.ErrNotFound
}

func (m *mockRepo) Count(ctx context.Context) (int, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.reports), nil
}

func (m *mockRepo) DeleteResolvedBefore(ctx context.Context, cutoff time.Time) (int64, error) {
	return 0, nil
}

func (m *mockRepo) SaveProfile(ctx context.Context, key string, value []byte) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.profiles[key] = append([]byte(nil), value...)
	return nil
}

func (m *mockRepo) GetProfile(ctx context.Context, key string) ([]byte, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	v, ok := m.profiles[key]
	if !ok {
		return nil, repository.ErrNotFound
	}
	return v, nil
}

// stubDispatcher resolves without a network round-trip.
type stubDispatcher struct {
	fail bool
}

func (d *stubDispatcher) Dispatch(ctx context.Context, req dispatch.Request) (*dispatch.Response, error) {
	if d.fail {
		return nil, dispatch.ErrDispatch
	}
	return &dispatch.Response{
		Success:   true,
		Message:   "Report received and forwarded to City Emergency Center",
		Authority: models.AuthorityRecord{Name: "City Emergency Center", Type: "general", Contact: "help@city.gov"},
	}, nil
}

type noopScheduler struct{}

func (noopScheduler) Schedule(string) {}

func setupTestRouter(repo *mockRepo, d dispatch.Dispatcher) *gin.Engine {
	gin.SetMode(gin.TestMode)
	router := gin.New()
	svc := submission.NewService(repo, d, noopScheduler{}, nil)
	handler := NewHandler(repo, repo, svc, notify.NewBroadcaster(), 0)
	handler.RegisterRoutes(router)
	return router
}

func TestMockDispatch_KnownPrefix(t *testing.T) {
	router := setupTestRouter(newMockRepo(), &stubDispatcher{})

	body := `{"tag":"Fire","priority":"High","pincode":"452001","timestamp":"2026-08-28T10:00:00Z"}`
	w := httptest.NewRecorder()
	req, _ := http.NewRequest("POST", "/api/report", strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	router.ServeHTTP(w, req)

	if w.Code != http.StatusOK {
		t.Fatalf("expected status 200, got %d", w.Code)
	}

	var resp dispatch.Response
	if err := json.Unmarshal(w.Body.Bytes(), &resp); err != nil {
		t.Fatalf("failed to parse response: %v", err)
	}
	if !resp.Success {
		t.Error("expected success=true")
	}
	if resp.Authority.Name != "Indore Fire Station" {
		t.Errorf("expected Indore Fire Station, got %q", resp.Authority.Name)
	}
	if !strings.Contains(resp.Message, "Indore Fire Station") {
		t.Errorf("expected forwarding message, got %q", resp.Message)
	}
}

func TestMockDispatch_FallbackAuthority(t *testing.T) {
	router := setupTestRouter(newMockRepo(), &stubDispatcher{})

	body := `{"tag":"Fire","pincode":"999000","timestamp":"2026-08-28T10:00:00Z"}`
	w := httptest.NewRecorder()
	req, _ := http.NewRequest("POST", "/api/report", strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	router.ServeHTTP(w, req)

	var resp dispatch.Response
	json.Unmarshal(w.Body.Bytes(), &resp)
	if resp.Authority.Name != "Nearest Fire Station" || resp.Authority.Type != "fire" {
		t.Errorf("expected synthesized fire fallback, got %+v", resp.Authority)
	}
}

func TestSubmitReport_Success(t *testing.T) {
	repo := newMockRepo()
	router := setupTestRouter(repo, &stubDispatcher{})

	body := `{"tag":"Complaints","priority":"Low","pincode":"110001","description":"Open manhole"}`
	w := httptest.NewRecorder()
	req, _ := http.NewRequest("POST", "/api/reports", strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	router.ServeHTTP(w, req)

	if w.Code != http.StatusCreated {
		t.Fatalf("expected status 201, got %d: %s", w.Code, w.Body.String())
	}

	var report models.Report
	if err := json.Unmarshal(w.Body.Bytes(), &report); err != nil {
		t.Fatalf("failed to parse response: %v", err)
	}
	if report.Status != models.StatusSent {
		t.Errorf("expected status Sent, got %q", report.Status)
	}
	if report.Authority.Name == "" {
		t.Error("expected authority attached")
	}
	if n, _ := repo.Count(context.Background()); n != 1 {
		t.Errorf("expected 1 stored report, got %d", n)
	}
}

func TestSubmitReport_ValidationError(t *testing.T) {
	repo := newMockRepo()
	router := setupTestRouter(repo, &stubDispatcher{})

	body := `{"tag":"Fire","description":"no location, no pincode"}`
	w := httptest.NewRecorder()
	req, _ := http.NewRequest("POST", "/api/reports", strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	router.ServeHTTP(w, req)

	if w.Code != http.StatusBadRequest {
		t.Fatalf("expected status 400, got %d", w.Code)
	}
	if n, _ := repo.Count(context.Background()); n != 0 {
		t.Errorf("expected store unchanged, got %d reports", n)
	}
}

func TestSubmitReport_DispatchFailure(t *testing.T) {
	repo := newMockRepo()
	router := setupTestRouter(repo, &stubDispatcher{fail: true})

	body := `{"tag":"Fire","pincode":"452001"}`
	w := httptest.NewRecorder()
	req, _ := http.NewRequest("POST", "/api/reports", strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	router.ServeHTTP(w, req)

	if w.Code != http.StatusBadGateway {
		t.Fatalf("expected status 502, got %d", w.Code)
	}
	if n, _ := repo.Count(context.Background()); n != 0 {
		t.Errorf("expected no partial write, got %d reports", n)
	}
}

func TestCitizenDashboard(t *testing.T) {
	repo := newMockRepo()
	ctx := context.Background()
	repo.Add(ctx, &models.Report{ID: "r1", Tag: models.TagFire, Status: models.StatusSent, CreatedAt: time.Now()})
	repo.Add(ctx, &models.Report{ID: "r2", Tag: models.TagHealth, Status: models.StatusBackupTriggered, CreatedAt: time.Now()})

	router := setupTestRouter(repo, &stubDispatcher{})

	w := httptest.NewRecorder()
	req, _ := http.NewRequest("GET", "/api/reports", nil)
	router.ServeHTTP(w, req)

	if w.Code != http.StatusOK {
		t.Fatalf("expected status 200, got %d", w.Code)
	}

	var resp struct {
		Reports []struct {
			ID          string `json:"id"`
			StatusColor string `json:"statusColor"`
		} `json:"reports"`
	}
	if err := json.Unmarshal(w.Body.Bytes(), &resp); err != nil {
		t.Fatalf("failed to parse response: %v", err)
	}
	if len(resp.Reports) != 2 {
		t.Fatalf("expected 2 reports, got %d", len(resp.Reports))
	}
	if resp.Reports[0].ID != "r2" {
		t.Errorf("expected most recent report first, got %q", resp.Reports[0].ID)
	}
	if resp.Reports[0].StatusColor != "danger" {
		t.Errorf("expected danger color for Backup Triggered, got %q", resp.Reports[0].StatusColor)
	}
}

func TestAuthorityDashboard_TypeQuery(t *testing.T) {
	repo := newMockRepo()
	ctx := context.Background()
	repo.Add(ctx, &models.Report{ID: "f1", Tag: models.TagFire, Status: models.StatusSent, CreatedAt: time.Now()})
	repo.Add(ctx, &models.Report{ID: "c1", Tag: models.TagComplaints, Status: models.StatusSent, CreatedAt: time.Now()})

	router := setupTestRouter(repo, &stubDispatcher{})

	w := httptest.NewRecorder()
	req, _ := http.NewRequest("GET", "/api/authority/reports?type=Fire", nil)
	router.ServeHTTP(w, req)

	var resp struct {
		Type    string `json:"type"`
		Buckets []struct {
			Tag   string `json:"tag"`
			Count int    `json:"count"`
		} `json:"buckets"`
	}
	if err := json.Unmarshal(w.Body.Bytes(), &resp); err != nil {
		t.Fatalf("failed to parse response: %v", err)
	}
	if len(resp.Buckets) != 1 || resp.Buckets[0].Tag != "Fire" || resp.Buckets[0].Count != 1 {
		t.Errorf("expected single Fire bucket, got %+v", resp.Buckets)
	}
}

func TestAuthorityDashboard_UsesStoredProfile(t *testing.T) {
	repo := newMockRepo()
	ctx := context.Background()
	repo.SaveProfile(ctx, "authority", []byte(`{"type":"Health"}`))
	repo.Add(ctx, &models.Report{ID: "a1", Tag: models.TagAnimal, Status: models.StatusSent, CreatedAt: time.Now()})
	repo.Add(ctx, &models.Report{ID: "f1", Tag: models.TagFire, Status: models.StatusSent, CreatedAt: time.Now()})

	router := setupTestRouter(repo, &stubDispatcher{})

	w := httptest.NewRecorder()
	req, _ := http.NewRequest("GET", "/api/authority/reports", nil)
	router.ServeHTTP(w, req)

	var resp struct {
		Type    string `json:"type"`
		Buckets []struct {
			Tag string `json:"tag"`
		} `json:"buckets"`
	}
	json.Unmarshal(w.Body.Bytes(), &resp)
	if resp.Type != "Health" {
		t.Errorf("expected stored Health profile, got %q", resp.Type)
	}
	if len(resp.Buckets) != 1 || resp.Buckets[0].Tag != "Animal" {
		t.Errorf("expected only Animal bucket for Health viewer, got %+v", resp.Buckets)
	}
}

func TestTagInfo_FallsBackToGeneral(t *testing.T) {
	router := setupTestRouter(newMockRepo(), &stubDispatcher{})

	w := httptest.NewRecorder()
	req, _ := http.NewRequest("GET", "/api/tags/Earthquake", nil)
	router.ServeHTTP(w, req)

	var resp struct {
		Tag    string `json:"tag"`
		Urgent bool   `json:"urgent"`
	}
	json.Unmarshal(w.Body.Bytes(), &resp)
	if resp.Tag != "General" {
		t.Errorf("expected fallback to General, got %q", resp.Tag)
	}
	if resp.Urgent {
		t.Error("General must not be urgent")
	}
}

func TestProfile_PutAndGet(t *testing.T) {
	router := setupTestRouter(newMockRepo(), &stubDispatcher{})

	w := httptest.NewRecorder()
	req, _ := http.NewRequest("PUT", "/api/profile/user", strings.NewReader(`{"name":"Asha"}`))
	router.ServeHTTP(w, req)
	if w.Code != http.StatusOK {
		t.Fatalf("expected status 200 on put, got %d", w.Code)
	}

	w = httptest.NewRecorder()
	req, _ = http.NewRequest("GET", "/api/profile/user", nil)
	router.ServeHTTP(w, req)
	if w.Code != http.StatusOK {
		t.Fatalf("expected status 200 on get, got %d", w.Code)
	}
	if !strings.Contains(w.Body.String(), "Asha") {
		t.Errorf("expected stored profile, got %s", w.Body.String())
	}

	w = httptest.NewRecorder()
	req, _ = http.NewRequest("GET", "/api/profile/bogus", nil)
	router.ServeHTTP(w, req)
	if w.Code != http.StatusNotFound {
		t.Errorf("expected 404 for unknown kind, got %d", w.Code)
	}
}

func TestHealth(t *testing.T) {
	router := setupTestRouter(newMockRepo(), &stubDispatcher{})

	w := httptest.NewRecorder()
	req, _ := http.NewRequest("GET", "/health", nil)
	router.ServeHTTP(w, req)

	if w.Code != http.StatusOK {
		t.Errorf("expected status 200, got %d", w.Code)
	}
}
