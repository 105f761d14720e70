package notify

import (
	"context"
	"database/sql"

	"github.com/google/uuid"

	"github.com/cnwankpa/portfolio-api/pkg/logging"
)

// EmailLog records delivery attempts in the email_logs table. The rows
// feed the admin performance report; inserts are best-effort and never
// fail the send path.
type EmailLog struct {
	db     *sql.DB
	logger *logging.Logger
}

// NewEmailLog creates an email delivery recorder.
func NewEmailLog(db *sql.DB, logger *logging.Logger) *EmailLog {
	if logger == nil {
		logger = logging.Default()
	}
	return &EmailLog{db: db, logger: logger}
}

// Record writes one delivery attempt. status is "sent" or "failed".
func (l *EmailLog) Record(ctx context.Context, kind, to, subject string, sendErr error) {
	status := "sent"
	var errText sql.NullString
	if sendErr != nil {
		status = "failed"
		errText = sql.NullString{String: sendErr.Error(), Valid: true}
	}

	_, err := l.db.ExecContext(ctx, `
		INSERT INTO email_logs (id, kind, to_email, subject, status, error, sent_at)
		VALUES ($1, $2, $3, $4, $5, $6, NOW())
	`, uuid.NewString(), kind, to, subject, status, errText)
	if err != nil {
		l.logger.Error("failed to record email log", "error", err, "to", to)
	}
}
