package mailx

import (
	"context"
	"log/slog"
	"time"
)

// LogMailer writes codes to the log instead of sending email. It exists for
// local development where no SMTP relay is available. Never use it in
// production, it puts live codes in the log stream.
type LogMailer struct {
	log *slog.Logger
}

func NewLogMailer(log *slog.Logger) *LogMailer {
	return &LogMailer{log: log}
}

func (m *LogMailer) SendCode(_ context.Context, to, code string, purpose Purpose, validFor time.Duration) error {
	m.log.Info("code email (log mailer)",
		"to", to,
		"code", code,
		"purpose", string(purpose),
		"valid_for", validFor.String(),
	)
	return nil
}
