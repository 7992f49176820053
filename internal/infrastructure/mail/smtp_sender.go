package mail

import (
	"context"
	"fmt"
	"io"

	"gopkg.in/gomail.v2"

	"github.com/jhoicas/stock-ledger-api/internal/application/report"
	"github.com/jhoicas/stock-ledger-api/pkg/config"
)

var _ report.MailSender = (*SMTPSender)(nil)

type dialer interface {
	DialAndSend(m ...*gomail.Message) error
}

// SMTPSender implementa report.MailSender con gomail.
type SMTPSender struct {
	from   string
	dialer dialer
}

// NewSMTPSender construye el sender a partir de la configuración SMTP.
func NewSMTPSender(cfg config.SMTPConfig) *SMTPSender {
	return &SMTPSender{
		from:   cfg.From,
		dialer: gomail.NewDialer(cfg.Host, cfg.Port, cfg.User, cfg.Password),
	}
}

// Send abre la conexión SMTP, envía y cierra. gomail no acepta contexto:
// solo se comprueba la cancelación antes de conectar.
func (s *SMTPSender) Send(ctx context.Context, m report.Mail) error {
	if len(m.To) == 0 {
		return fmt.Errorf("mail: sin destinatarios")
	}
	if err := ctx.Err(); err != nil {
		return err
	}
	if err := s.dialer.DialAndSend(buildMessage(s.from, m)); err != nil {
		return fmt.Errorf("mail: enviar: %w", err)
	}
	return nil
}

// buildMessage multipart/alternative (texto + HTML) con adjuntos opcionales.
func buildMessage(from string, m report.Mail) *gomail.Message {
	msg := gomail.NewMessage()
	msg.SetHeader("From", from)
	msg.SetHeader("To", m.To...)
	msg.SetHeader("Subject", m.Subject)
	msg.SetBody("text/plain", m.Text)
	if m.HTML != "" {
		msg.AddAlternative("text/html", m.HTML)
	}
	for _, a := range m.Attachments {
		data := a.Data
		msg.Attach(a.Filename,
			gomail.SetCopyFunc(func(w io.Writer) error {
				_, err := w.Write(data)
				return err
			}),
			gomail.SetHeader(map[string][]string{"Content-Type": {a.ContentType}}),
		)
	}
	return msg
}
