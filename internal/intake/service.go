package intake

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"

	"github.com/cnwankpa/portfolio-api/internal/leads"
	"github.com/cnwankpa/portfolio-api/internal/observability/metrics"
	"github.com/cnwankpa/portfolio-api/internal/ratelimit"
	"github.com/cnwankpa/portfolio-api/pkg/logging"
)

var intakeTracer = otel.Tracer("portfolio.internal.intake")

// Notifier dispatches the CV email and the internal new-lead alert.
// Both return false on failure; neither may panic or return an error
// past this boundary.
type Notifier interface {
	SendCVEmail(ctx context.Context, toEmail, name, company, purpose string) bool
	SendAdminNotification(ctx context.Context, lead *leads.Lead) bool
}

// Response confirms an accepted CV request.
type Response struct {
	Success   bool      `json:"success"`
	Message   string    `json:"message"`
	RequestID string    `json:"request_id"`
	Timestamp time.Time `json:"timestamp"`
}

// Service sequences the intake pipeline: rate limit, validation,
// persistence, notification.
type Service struct {
	repo     leads.Repository
	limiter  ratelimit.Limiter
	notifier Notifier
	metrics  *metrics.IntakeMetrics
	logger   *logging.Logger
	now      func() time.Time
}

// NewService wires the intake pipeline. metrics may be nil.
func NewService(repo leads.Repository, limiter ratelimit.Limiter, notifier Notifier, m *metrics.IntakeMetrics, logger *logging.Logger) *Service {
	if logger == nil {
		logger = logging.Default()
	}
	return &Service{
		repo:     repo,
		limiter:  limiter,
		notifier: notifier,
		metrics:  m,
		logger:   logger,
		now:      func() time.Time { return time.Now().UTC() },
	}
}

// ProcessCVRequest runs one submission through the pipeline. The rate
// limit is checked before any other work so a throttled request has no
// side effects. Email failures are logged but do not fail the request:
// the persisted lead is the durable source of truth.
func (s *Service) ProcessCVRequest(ctx context.Context, req CVRequest, clientIP, userAgent string) (*Response, error) {
	ctx, span := intakeTracer.Start(ctx, "intake.process_cv_request")
	defer span.End()

	allowed, err := s.limiter.Allow(ctx, clientIP)
	if err != nil {
		span.RecordError(err)
		return nil, fmt.Errorf("intake: rate limit check: %w", err)
	}
	if !allowed {
		s.logger.Warn("cv request rate limited", "ip", clientIP)
		s.metrics.ObserveRequest("rate_limited")
		span.SetAttributes(attribute.String("portfolio.intake.outcome", "rate_limited"))
		return nil, ErrRateLimited
	}

	validated, err := ValidateCVRequest(req)
	if err != nil {
		s.logger.Info("cv request rejected", "ip", clientIP, "reason", err)
		s.metrics.ObserveRequest("rejected")
		span.SetAttributes(attribute.String("portfolio.intake.outcome", "rejected"))
		return nil, err
	}

	now := s.now()
	lead, err := s.repo.Create(ctx, leads.CreateLeadParams{
		ID:               uuid.NewString(),
		Name:             validated.Name,
		Email:            validated.Email,
		Phone:            validated.Phone,
		Company:          validated.Company,
		Role:             validated.Role,
		Purpose:          validated.Purpose,
		Source:           leads.SourceCVRequest,
		IPAddress:        clientIP,
		UserAgent:        userAgent,
		ConsentGiven:     true,
		ConsentTimestamp: now,
	})
	if err != nil {
		s.logger.Error("failed to persist lead", "error", err, "ip", clientIP)
		s.metrics.ObserveRequest("storage_error")
		span.RecordError(err)
		return nil, fmt.Errorf("intake: create lead: %w", err)
	}

	span.SetAttributes(
		attribute.String("portfolio.lead_id", lead.ID),
		attribute.String("portfolio.intake.outcome", "accepted"),
	)
	s.logger.Info("lead created", "lead_id", lead.ID, "email", lead.Email, "source", lead.Source)

	sent := s.notifier.SendCVEmail(ctx, lead.Email, lead.Name, lead.Company, lead.Purpose)
	s.metrics.ObserveEmail("cv", sent)
	if !sent {
		s.logger.Error("cv email delivery failed, lead retained", "lead_id", lead.ID, "email", lead.Email)
	}
	alerted := s.notifier.SendAdminNotification(ctx, lead)
	s.metrics.ObserveEmail("admin_alert", alerted)

	s.metrics.ObserveRequest("accepted")
	return &Response{
		Success:   true,
		Message:   "CV request processed successfully. You should receive the CV via email shortly.",
		RequestID: lead.ID,
		Timestamp: s.now(),
	}, nil
}

// Status looks up a previously accepted request.
type Status struct {
	RequestID string    `json:"request_id"`
	Status    string    `json:"status"`
	CreatedAt time.Time `json:"created_at"`
	EmailSent bool      `json:"email_sent"`
}

// RequestStatus returns the status of a CV request by its identifier.
func (s *Service) RequestStatus(ctx context.Context, requestID string) (*Status, error) {
	lead, err := s.repo.GetByID(ctx, requestID)
	if err != nil {
		return nil, err
	}
	return &Status{
		RequestID: lead.ID,
		Status:    string(lead.Status),
		CreatedAt: lead.CreatedAt,
		// A stored record means the send was attempted; delivery detail
		// lives in email_logs.
		EmailSent: true,
	}, nil
}
