// Package mail sends transactional email for account provisioning.
package mail

import (
	"context"
	"fmt"

	gomail "github.com/wneessen/go-mail"
	"go.uber.org/zap"

	"github.com/federicoescribanog-oss/WebControlHoras/pkg/config"
)

// Mailer sends account notifications. Implementations must be safe for
// concurrent use.
type Mailer interface {
	SendWelcome(ctx context.Context, to, tempPassword string) error
	SendPasswordReset(ctx context.Context, to, tempPassword string) error
}

type smtpMailer struct {
	cfg    config.EmailConfig
	logger *zap.Logger
}

// NewMailer creates an SMTP mailer from config. If SMTP is not
// configured it returns a no-op mailer that only logs, so account
// creation keeps working in environments without an email provider.
func NewMailer(cfg config.EmailConfig, logger *zap.Logger) Mailer {
	if !cfg.IsConfigured() {
		logger.Warn("SMTP not configured, email delivery disabled")
		return &nopMailer{logger: logger}
	}
	return &smtpMailer{cfg: cfg, logger: logger}
}

// SendWelcome emails the temporary password to a newly created account.
func (m *smtpMailer) SendWelcome(ctx context.Context, to, tempPassword string) error {
	subject := "Bienvenido a Control de Horas"
	body := fmt.Sprintf(
		"Se ha creado una cuenta para ti en Control de Horas.\n\n"+
			"Usuario: %s\nContraseña temporal: %s\n\n"+
			"Accede en %s y cambia tu contraseña en el primer inicio de sesión.\n",
		to, tempPassword, m.cfg.WebURL)

	return m.send(ctx, to, subject, body)
}

// SendPasswordReset emails a newly generated temporary password.
func (m *smtpMailer) SendPasswordReset(ctx context.Context, to, tempPassword string) error {
	subject := "Restablecimiento de contraseña"
	body := fmt.Sprintf(
		"Tu contraseña de Control de Horas ha sido restablecida.\n\n"+
			"Contraseña temporal: %s\n\n"+
			"Accede en %s y cambia tu contraseña en el primer inicio de sesión.\n",
		tempPassword, m.cfg.WebURL)

	return m.send(ctx, to, subject, body)
}

func (m *smtpMailer) send(ctx context.Context, to, subject, body string) error {
	msg := gomail.NewMsg()
	if err := msg.From(m.cfg.From); err != nil {
		return fmt.Errorf("invalid sender address: %w", err)
	}
	if err := msg.To(to); err != nil {
		return fmt.Errorf("invalid recipient address: %w", err)
	}
	msg.Subject(subject)
	msg.SetBodyString(gomail.TypeTextPlain, body)

	client, err := gomail.NewClient(m.cfg.Host,
		gomail.WithPort(m.cfg.Port),
		gomail.WithSMTPAuth(gomail.SMTPAuthPlain),
		gomail.WithUsername(m.cfg.User),
		gomail.WithPassword(m.cfg.Password),
		gomail.WithTLSPolicy(gomail.TLSOpportunistic),
	)
	if err != nil {
		return fmt.Errorf("failed to create mail client: %w", err)
	}

	if err := client.DialAndSendWithContext(ctx, msg); err != nil {
		return fmt.Errorf("failed to send email: %w", err)
	}

	m.logger.Info("Email sent", zap.String("to", to), zap.String("subject", subject))
	return nil
}

// nopMailer logs instead of sending. Returned when SMTP is unset.
type nopMailer struct {
	logger *zap.Logger
}

func (m *nopMailer) SendWelcome(_ context.Context, to, _ string) error {
	m.logger.Info("Skipping welcome email, SMTP not configured", zap.String("to", to))
	return nil
}

func (m *nopMailer) SendPasswordReset(_ context.Context, to, _ string) error {
	m.logger.Info("Skipping password reset email, SMTP not configured", zap.String("to", to))
	return nil
}

var (
	_ Mailer = (*smtpMailer)(nil)
	_ Mailer = (*nopMailer)(nil)
)
