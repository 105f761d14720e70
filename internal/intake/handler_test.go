package intake

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/cnwankpa/portfolio-api/internal/leads"
	"github.com/cnwankpa/portfolio-api/internal/ratelimit"
	"github.com/cnwankpa/portfolio-api/pkg/logging"
)

func newTestHandler(t *testing.T, repo leads.Repository) (*Handler, http.Handler) {
	t.Helper()
	limiter := ratelimit.NewMemoryLimiter(3, time.Hour)
	svc := NewService(repo, limiter, &fakeNotifier{cvResult: true}, nil, logging.Default())
	h := NewHandler(svc, logging.Default())

	r := chi.NewRouter()
	r.Post("/api/request-cv", h.RequestCV)
	r.Get("/api/cv-status/{requestID}", h.RequestStatus)
	return h, r
}

func postCV(t *testing.T, router http.Handler, payload any, remoteAddr string) *httptest.ResponseRecorder {
	t.Helper()
	body, err := json.Marshal(payload)
	if err != nil {
		t.Fatal(err)
	}
	req := httptest.NewRequest(http.MethodPost, "/api/request-cv", bytes.NewReader(body))
	req.RemoteAddr = remoteAddr
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)
	return w
}

func TestRequestCVEndpoint(t *testing.T) {
	repo := leads.NewInMemoryRepository()
	_, router := newTestHandler(t, repo)

	w := postCV(t, router, map[string]any{
		"name":    "John Smith",
		"email":   "john@x.com",
		"phone":   "+15550123456",
		"consent": true,
		"website": "",
	}, "198.51.100.1:51234")

	if w.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d: %s", w.Code, w.Body.String())
	}

	var resp Response
	if err := json.NewDecoder(w.Body).Decode(&resp); err != nil {
		t.Fatalf("failed to decode response: %v", err)
	}
	if !resp.Success || resp.RequestID == "" {
		t.Errorf("unexpected response %+v", resp)
	}

	// Follow-up status lookup.
	req := httptest.NewRequest(http.MethodGet, "/api/cv-status/"+resp.RequestID, nil)
	sw := httptest.NewRecorder()
	router.ServeHTTP(sw, req)
	if sw.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", sw.Code)
	}
	var status Status
	if err := json.NewDecoder(sw.Body).Decode(&status); err != nil {
		t.Fatal(err)
	}
	if status.Status != "new" {
		t.Errorf("expected status new, got %s", status.Status)
	}

	// IP is recorded without the port.
	lead, _ := repo.GetByID(req.Context(), resp.RequestID)
	if lead.IPAddress != "198.51.100.1" {
		t.Errorf("expected bare IP, got %q", lead.IPAddress)
	}
}

func TestRequestCVConsentRequired(t *testing.T) {
	repo := leads.NewInMemoryRepository()
	_, router := newTestHandler(t, repo)

	w := postCV(t, router, map[string]any{
		"name":    "John Smith",
		"email":   "john@x.com",
		"phone":   "+15550123456",
		"consent": false,
		"website": "",
	}, "198.51.100.1:51234")

	if w.Code != http.StatusBadRequest {
		t.Fatalf("expected 400, got %d", w.Code)
	}
	if !strings.Contains(w.Body.String(), "Consent is required") {
		t.Errorf("expected consent message, got %q", w.Body.String())
	}
	page, _ := repo.List(httptest.NewRequest(http.MethodGet, "/", nil).Context(), leads.ListFilter{})
	if page.Total != 0 {
		t.Error("no lead may be created without consent")
	}
}

func TestRequestCVHoneypotGeneric400(t *testing.T) {
	_, router := newTestHandler(t, leads.NewInMemoryRepository())

	w := postCV(t, router, map[string]any{
		"name":    "John Smith",
		"email":   "john@x.com",
		"phone":   "+15550123456",
		"consent": true,
		"website": "spam",
	}, "198.51.100.1:51234")

	if w.Code != http.StatusBadRequest {
		t.Fatalf("expected 400, got %d", w.Code)
	}
	body := w.Body.String()
	if strings.Contains(strings.ToLower(body), "bot") || strings.Contains(strings.ToLower(body), "honeypot") {
		t.Errorf("response must not reveal spam detection: %q", body)
	}
}

func TestRequestCVRateLimit(t *testing.T) {
	repo := leads.NewInMemoryRepository()
	_, router := newTestHandler(t, repo)

	payload := map[string]any{
		"name":    "John Smith",
		"email":   "john@x.com",
		"phone":   "+15550123456",
		"consent": true,
		"website": "",
	}

	for i := 0; i < 3; i++ {
		if w := postCV(t, router, payload, "198.51.100.9:1000"); w.Code != http.StatusOK {
			t.Fatalf("request %d: expected 200, got %d", i+1, w.Code)
		}
	}

	w := postCV(t, router, payload, "198.51.100.9:1000")
	if w.Code != http.StatusTooManyRequests {
		t.Fatalf("expected 429, got %d", w.Code)
	}

	page, _ := repo.List(httptest.NewRequest(http.MethodGet, "/", nil).Context(), leads.ListFilter{})
	if page.Total != 3 {
		t.Errorf("expected exactly 3 leads, got %d", page.Total)
	}

	// A different client IP is still admitted.
	if w := postCV(t, router, payload, "198.51.100.10:1000"); w.Code != http.StatusOK {
		t.Errorf("different IP should not be throttled, got %d", w.Code)
	}
}

func TestRequestCVMalformedBody(t *testing.T) {
	_, router := newTestHandler(t, leads.NewInMemoryRepository())

	req := httptest.NewRequest(http.MethodPost, "/api/request-cv", strings.NewReader("{"))
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)
	if w.Code != http.StatusBadRequest {
		t.Fatalf("expected 400, got %d", w.Code)
	}
}

func TestRequestStatusNotFound(t *testing.T) {
	_, router := newTestHandler(t, leads.NewInMemoryRepository())

	req := httptest.NewRequest(http.MethodGet, "/api/cv-status/unknown-id", nil)
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)
	if w.Code != http.StatusNotFound {
		t.Fatalf("expected 404, got %d", w.Code)
	}
}
