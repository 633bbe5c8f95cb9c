package email

import (
	"context"
	"embed"
	"fmt"
	"html/template"
	"log/slog"
	"time"

	"github.com/cmlabs-hris/shift-autofill/internal/config"
	"github.com/cmlabs-hris/shift-autofill/internal/domain/run"
	"github.com/cmlabs-hris/shift-autofill/internal/domain/shift"
	"github.com/wneessen/go-mail"
)

//go:embed templates/*.html
var templateFS embed.FS

const maxRetries = 3

type runSummaryData struct {
	Period     string
	Provider   string
	EmployeeID string
	Status     string
	Attempted  int
	Error      string
	Days       []shift.DayFailure
}

// RunNotifier mails a summary of each finished run to one recipient.
type RunNotifier struct {
	cfg       config.SMTPConfig
	templates *template.Template
	backoff   time.Duration
}

var _ run.Notifier = (*RunNotifier)(nil)

func NewRunNotifier(cfg config.SMTPConfig) (*RunNotifier, error) {
	tmpl, err := template.ParseFS(templateFS, "templates/*.html")
	if err != nil {
		return nil, fmt.Errorf("failed to parse email templates: %w", err)
	}

	return &RunNotifier{
		cfg:       cfg,
		templates: tmpl,
		backoff:   time.Second,
	}, nil
}

// Subject is the mail subject for rec.
func Subject(rec run.Run) string {
	if rec.Result.IsEmpty() && rec.Status == run.StatusCompleted {
		return fmt.Sprintf("Shifts filled for %04d-%02d", rec.Year, rec.Month)
	}
	return fmt.Sprintf("Shift autofill %04d-%02d: %s, %d failed day(s)", rec.Year, rec.Month, rec.Status, rec.Result.Len())
}

// RunFinished sends the summary. Nothing is sent when SMTP is not
// configured.
func (n *RunNotifier) RunFinished(ctx context.Context, rec run.Run) error {
	if !n.cfg.Enabled() {
		slog.Debug("SMTP not configured, skipping run summary", "run_id", rec.ID)
		return nil
	}

	msg, err := n.message(rec)
	if err != nil {
		return err
	}

	client, err := n.client()
	if err != nil {
		return err
	}

	var lastErr error
	for attempt := 1; attempt <= maxRetries; attempt++ {
		err := client.DialAndSendWithContext(ctx, msg)
		if err == nil {
			slog.Info("Run summary sent", "run_id", rec.ID, "to", n.cfg.To, "attempt", attempt)
			return nil
		}

		lastErr = err
		slog.Error("Failed to send run summary",
			"run_id", rec.ID,
			"to", n.cfg.To,
			"attempt", attempt,
			"max_retries", maxRetries,
			"error", err,
		)

		// exponential backoff: 1s, 2s
		if attempt < maxRetries {
			select {
			case <-ctx.Done():
				return ctx.Err()
			case <-time.After(n.backoff << (attempt - 1)):
			}
		}
	}

	return fmt.Errorf("failed to send run summary after %d attempts: %w", maxRetries, lastErr)
}

func (n *RunNotifier) message(rec run.Run) (*mail.Msg, error) {
	msg := mail.NewMsg()
	from := n.cfg.From
	if from == "" {
		from = n.cfg.Username
	}
	if err := msg.FromFormat(n.cfg.FromName, from); err != nil {
		return nil, fmt.Errorf("invalid sender %q: %w", from, err)
	}
	if err := msg.To(n.cfg.To); err != nil {
		return nil, fmt.Errorf("invalid recipient %q: %w", n.cfg.To, err)
	}
	msg.Subject(Subject(rec))

	if err := msg.SetBodyHTMLTemplate(n.templates.Lookup("run_summary.html"), summaryData(rec)); err != nil {
		return nil, fmt.Errorf("failed to execute template: %w", err)
	}
	return msg, nil
}

func (n *RunNotifier) client() (*mail.Client, error) {
	opts := []mail.Option{
		mail.WithPort(n.cfg.Port),
		mail.WithTLSPortPolicy(mail.TLSOpportunistic),
		mail.WithTimeout(15 * time.Second),
	}
	if n.cfg.Username != "" {
		opts = append(opts,
			mail.WithSMTPAuth(mail.SMTPAuthPlain),
			mail.WithUsername(n.cfg.Username),
			mail.WithPassword(n.cfg.Password),
		)
	}

	client, err := mail.NewClient(n.cfg.Host, opts...)
	if err != nil {
		return nil, fmt.Errorf("failed to create mail client: %w", err)
	}
	return client, nil
}

func summaryData(rec run.Run) runSummaryData {
	data := runSummaryData{
		Period:     fmt.Sprintf("%04d-%02d", rec.Year, rec.Month),
		Provider:   rec.Provider,
		EmployeeID: rec.EmployeeID,
		Status:     string(rec.Status),
		Attempted:  len(rec.Attempted),
		Days:       rec.Result.Days(),
	}
	if rec.Error != nil {
		data.Error = *rec.Error
	}
	return data
}
