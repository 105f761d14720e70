package intake

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/cnwankpa/portfolio-api/internal/leads"
	"github.com/cnwankpa/portfolio-api/pkg/logging"
)

type fakeLimiter struct {
	allowed bool
	calls   int
}

func (f *fakeLimiter) Allow(ctx context.Context, key string) (bool, error) {
	f.calls++
	return f.allowed, nil
}

type fakeNotifier struct {
	cvCalls    int
	adminCalls int
	cvResult   bool
	lastEmail  string
}

func (f *fakeNotifier) SendCVEmail(ctx context.Context, toEmail, name, company, purpose string) bool {
	f.cvCalls++
	f.lastEmail = toEmail
	return f.cvResult
}

func (f *fakeNotifier) SendAdminNotification(ctx context.Context, lead *leads.Lead) bool {
	f.adminCalls++
	return true
}

type failingRepo struct {
	leads.Repository
}

func (failingRepo) Create(ctx context.Context, params leads.CreateLeadParams) (*leads.Lead, error) {
	return nil, errors.New("connection refused")
}

func newTestService(repo leads.Repository, limiter *fakeLimiter, notifier *fakeNotifier) *Service {
	return NewService(repo, limiter, notifier, nil, logging.Default())
}

func TestProcessCVRequestSuccess(t *testing.T) {
	repo := leads.NewInMemoryRepository()
	limiter := &fakeLimiter{allowed: true}
	notifier := &fakeNotifier{cvResult: true}
	svc := newTestService(repo, limiter, notifier)

	resp, err := svc.ProcessCVRequest(context.Background(), validSubmission(), "203.0.113.1", "curl/8.0")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !resp.Success || resp.RequestID == "" {
		t.Errorf("unexpected response %+v", resp)
	}

	lead, err := repo.GetByID(context.Background(), resp.RequestID)
	if err != nil {
		t.Fatalf("lead not persisted: %v", err)
	}
	if lead.Source != leads.SourceCVRequest {
		t.Errorf("expected source cv_request, got %s", lead.Source)
	}
	if lead.Status != leads.StatusNew {
		t.Errorf("expected status new, got %s", lead.Status)
	}
	if !lead.ConsentGiven || lead.ConsentTimestamp == nil {
		t.Error("expected consent recorded with timestamp")
	}
	if lead.IPAddress != "203.0.113.1" || lead.UserAgent != "curl/8.0" {
		t.Errorf("expected caller metadata attached, got %q %q", lead.IPAddress, lead.UserAgent)
	}
	if lead.CreatedAt.After(time.Now().UTC()) {
		t.Error("created_at must not be in the future")
	}
	if notifier.cvCalls != 1 || notifier.adminCalls != 1 {
		t.Errorf("expected one cv email and one admin alert, got %d/%d", notifier.cvCalls, notifier.adminCalls)
	}
}

func TestProcessCVRequestHoneypotNoSideEffects(t *testing.T) {
	repo := leads.NewInMemoryRepository()
	limiter := &fakeLimiter{allowed: true}
	notifier := &fakeNotifier{cvResult: true}
	svc := newTestService(repo, limiter, notifier)

	req := validSubmission()
	req.Website = "filled by a bot"
	_, err := svc.ProcessCVRequest(context.Background(), req, "203.0.113.1", "")
	if err != ErrSpamDetected {
		t.Fatalf("expected ErrSpamDetected, got %v", err)
	}

	page, _ := repo.List(context.Background(), leads.ListFilter{})
	if page.Total != 0 {
		t.Error("honeypot rejection must not persist a lead")
	}
	if notifier.cvCalls != 0 || notifier.adminCalls != 0 {
		t.Error("honeypot rejection must not send email")
	}
}

func TestProcessCVRequestConsentMissing(t *testing.T) {
	repo := leads.NewInMemoryRepository()
	svc := newTestService(repo, &fakeLimiter{allowed: true}, &fakeNotifier{cvResult: true})

	req := validSubmission()
	req.Consent = false
	_, err := svc.ProcessCVRequest(context.Background(), req, "203.0.113.1", "")
	if err != ErrConsentRequired {
		t.Fatalf("expected ErrConsentRequired, got %v", err)
	}

	page, _ := repo.List(context.Background(), leads.ListFilter{})
	if page.Total != 0 {
		t.Error("consent rejection must not persist a lead")
	}
}

func TestProcessCVRequestRateLimitedBeforeAnyWork(t *testing.T) {
	repo := leads.NewInMemoryRepository()
	notifier := &fakeNotifier{cvResult: true}
	svc := newTestService(repo, &fakeLimiter{allowed: false}, notifier)

	_, err := svc.ProcessCVRequest(context.Background(), validSubmission(), "203.0.113.1", "")
	if !errors.Is(err, ErrRateLimited) {
		t.Fatalf("expected ErrRateLimited, got %v", err)
	}

	page, _ := repo.List(context.Background(), leads.ListFilter{})
	if page.Total != 0 {
		t.Error("rate-limited request must not persist a lead")
	}
	if notifier.cvCalls != 0 {
		t.Error("rate-limited request must not send email")
	}
}

func TestProcessCVRequestEmailFailureDoesNotFailRequest(t *testing.T) {
	repo := leads.NewInMemoryRepository()
	notifier := &fakeNotifier{cvResult: false}
	svc := newTestService(repo, &fakeLimiter{allowed: true}, notifier)

	resp, err := svc.ProcessCVRequest(context.Background(), validSubmission(), "203.0.113.1", "")
	if err != nil {
		t.Fatalf("email failure must not fail the request: %v", err)
	}
	if !resp.Success {
		t.Error("expected success despite email failure")
	}
	// Lead survives as the durable record.
	if _, err := repo.GetByID(context.Background(), resp.RequestID); err != nil {
		t.Errorf("lead should be retained: %v", err)
	}
}

func TestProcessCVRequestStorageFailure(t *testing.T) {
	notifier := &fakeNotifier{cvResult: true}
	svc := newTestService(failingRepo{}, &fakeLimiter{allowed: true}, notifier)

	_, err := svc.ProcessCVRequest(context.Background(), validSubmission(), "203.0.113.1", "")
	if err == nil {
		t.Fatal("expected storage error to propagate")
	}
	var verr *ValidationError
	if errors.As(err, &verr) {
		t.Error("storage failure must not be reported as a validation error")
	}
	if notifier.cvCalls != 0 {
		t.Error("no email may be sent when persistence fails")
	}
}

func TestRequestStatus(t *testing.T) {
	repo := leads.NewInMemoryRepository()
	svc := newTestService(repo, &fakeLimiter{allowed: true}, &fakeNotifier{cvResult: true})

	resp, err := svc.ProcessCVRequest(context.Background(), validSubmission(), "203.0.113.1", "")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	status, err := svc.RequestStatus(context.Background(), resp.RequestID)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if status.Status != string(leads.StatusNew) {
		t.Errorf("expected status new, got %s", status.Status)
	}
	if !status.EmailSent {
		t.Error("expected email_sent true for an existing record")
	}
	if status.CreatedAt.After(time.Now().UTC()) {
		t.Error("created_at must be <= now")
	}
}

func TestRequestStatusUnknownID(t *testing.T) {
	svc := newTestService(leads.NewInMemoryRepository(), &fakeLimiter{allowed: true}, &fakeNotifier{})
	if _, err := svc.RequestStatus(context.Background(), "does-not-exist"); !errors.Is(err, leads.ErrNotFound) {
		t.Errorf("expected ErrNotFound, got %v", err)
	}
}
