package notify

import (
	"context"
	"os"
	"path/filepath"

	"github.com/cnwankpa/portfolio-api/internal/leads"
	"github.com/cnwankpa/portfolio-api/pkg/logging"
)

const cvSubject = "Charles Nwankpa - AI Product Engineer CV"

// ServiceConfig holds the notification service's static inputs.
type ServiceConfig struct {
	CVFilePath       string
	AdminNotifyEmail string
	Links            TemplateLinks
}

// Service renders and dispatches the CV delivery email and the internal
// new-lead alert. Send failures are logged and reported as false; they
// never propagate past this boundary.
type Service struct {
	sender   EmailSender
	cfg      ServiceConfig
	emailLog *EmailLog
	logger   *logging.Logger
}

// NewService creates a notification service. emailLog may be nil.
func NewService(sender EmailSender, cfg ServiceConfig, emailLog *EmailLog, logger *logging.Logger) *Service {
	if logger == nil {
		logger = logging.Default()
	}
	return &Service{
		sender:   sender,
		cfg:      cfg,
		emailLog: emailLog,
		logger:   logger,
	}
}

// SendCVEmail sends the templated CV email with the PDF attached when the
// configured file exists on disk.
func (s *Service) SendCVEmail(ctx context.Context, toEmail, name, company, purpose string) bool {
	msg := EmailMessage{
		To:      toEmail,
		ToName:  name,
		Subject: cvSubject,
		Body:    renderCVEmailText(name, company, purpose, s.cfg.Links),
		HTML:    renderCVEmailHTML(name, company, purpose, s.cfg.Links),
	}

	if data, err := os.ReadFile(s.cfg.CVFilePath); err == nil {
		msg.Attachment = &Attachment{
			Filename:    filepath.Base(s.cfg.CVFilePath),
			ContentType: "application/pdf",
			Data:        data,
		}
	} else if s.cfg.CVFilePath != "" {
		s.logger.Warn("cv file not readable, sending without attachment", "path", s.cfg.CVFilePath, "error", err)
	}

	err := s.sender.Send(ctx, msg)
	s.record(ctx, "cv", toEmail, cvSubject, err)
	if err != nil {
		s.logger.Error("failed to send cv email", "error", err, "to", toEmail)
		return false
	}
	return true
}

// SendAdminNotification sends a plain new-lead summary to the configured
// admin address. No-op when no address is configured.
func (s *Service) SendAdminNotification(ctx context.Context, lead *leads.Lead) bool {
	if s.cfg.AdminNotifyEmail == "" {
		return true
	}

	subject := adminNotificationSubject(lead.Name, lead.Company)
	msg := EmailMessage{
		To:      s.cfg.AdminNotifyEmail,
		Subject: subject,
		Body:    renderAdminNotificationText(lead.Name, lead.Email, lead.Phone, lead.Company, lead.Role, lead.Purpose, lead.IPAddress, lead.CreatedAt),
		HTML:    renderAdminNotificationHTML(lead.Name, lead.Email, lead.Phone, lead.Company, lead.Role, lead.Purpose, lead.IPAddress, lead.CreatedAt),
	}

	err := s.sender.Send(ctx, msg)
	s.record(ctx, "admin_alert", s.cfg.AdminNotifyEmail, subject, err)
	if err != nil {
		s.logger.Error("failed to send admin notification", "error", err, "lead_id", lead.ID)
		return false
	}
	return true
}

func (s *Service) record(ctx context.Context, kind, to, subject string, sendErr error) {
	if s.emailLog == nil {
		return
	}
	s.emailLog.Record(ctx, kind, to, subject, sendErr)
}
