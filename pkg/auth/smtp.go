package auth

import (
	"fmt"

	"gopkg.in/gomail.v2"

	"github.com/melodia-social/melodia/config"
)

// Mailer envía los correos transaccionales (bienvenida y recuperación).
type Mailer struct {
	dialer *gomail.Dialer
	from   string
}

func NewMailer(cfg *config.Config) *Mailer {
	return &Mailer{
		dialer: gomail.NewDialer(cfg.SMTPHost, cfg.SMTPPort, cfg.SMTPUser, cfg.SMTPPassword),
		from:   cfg.SMTPUser,
	}
}

func (m *Mailer) SendWelcomeEmail(to, username string) error {
	body := fmt.Sprintf("<html><body><p>¡Bienvenido a Melodía, %s! Tu cuenta ya está activa.</p></body></html>", username)
	return m.send(to, "Bienvenido a Melodía", body)
}

func (m *Mailer) SendResetEmail(to, resetLink string) error {
	body := fmt.Sprintf("<html><body><p>Para restablecer tu contraseña haz clic en <a href='%s'>este enlace</a>. El enlace caduca en una hora.</p></body></html>", resetLink)
	return m.send(to, "Recuperación de contraseña", body)
}

func (m *Mailer) send(to, subject, htmlBody string) error {
	msg := gomail.NewMessage()
	msg.SetHeader("From", m.from)
	msg.SetHeader("To", to)
	msg.SetHeader("Subject", subject)
	msg.SetBody("text/html", htmlBody)

	if err := m.dialer.DialAndSend(msg); err != nil {
		return fmt.Errorf("error enviando el correo: %w", err)
	}
	return nil
}
