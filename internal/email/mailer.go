package email

import (
	"fmt"

	"gopkg.in/gomail.v2"

	"github.com/Stranger261/hospital-er-api/config"
	"github.com/Stranger261/hospital-er-api/internal/model"
	"github.com/Stranger261/hospital-er-api/pkg/logger"
)

// Notifier delivers workflow notifications to department staff.
type Notifier interface {
	NotifyDisposition(visit *model.ERVisit, disposition *model.Disposition) error
}

type mailer struct {
	dialer *gomail.Dialer
	from   string
	to     string
	logger *logger.Logger
}

// NewMailer builds an SMTP notifier. When email is disabled in config a
// no-op notifier is returned so callers never have to branch.
func NewMailer(cfg config.EmailConfig, log *logger.Logger) Notifier {
	if !cfg.Enabled {
		return NoopNotifier{}
	}
	return &mailer{
		dialer: gomail.NewDialer(cfg.Host, cfg.Port, cfg.Username, cfg.Password),
		from:   cfg.From,
		to:     cfg.Username,
		logger: log.WithComponent("email"),
	}
}

func (m *mailer) NotifyDisposition(visit *model.ERVisit, disposition *model.Disposition) error {
	msg := gomail.NewMessage()
	msg.SetHeader("From", m.from)
	msg.SetHeader("To", m.to)
	msg.SetHeader("Subject", fmt.Sprintf("ER visit %s: %s", visit.ERNumber, disposition.Outcome))
	msg.SetBody("text/plain", fmt.Sprintf(
		"Visit %s was closed with outcome %q at %s.\nNotes: %s\n",
		visit.ERNumber,
		disposition.Outcome,
		disposition.DisposedAt.Format("2006-01-02 15:04"),
		disposition.Notes,
	))

	if err := m.dialer.DialAndSend(msg); err != nil {
		return fmt.Errorf("failed to send disposition notification: %w", err)
	}
	m.logger.Info("disposition notification sent", "er_number", visit.ERNumber, "outcome", string(disposition.Outcome))
	return nil
}

// NoopNotifier drops notifications. Default when SMTP is not configured.
type NoopNotifier struct{}

func (NoopNotifier) NotifyDisposition(*model.ERVisit, *model.Disposition) error { return nil }
