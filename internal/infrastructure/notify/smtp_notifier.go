// Package notify implementa el colaborador de notificación de documentos (email SMTP o solo log).
package notify

import (
	"context"
	"fmt"
	"html"

	"gopkg.in/gomail.v2"

	"github.com/jhoicas/FarmHub-api/internal/application/finance"
	domainfinance "github.com/jhoicas/FarmHub-api/internal/domain/finance"
	"github.com/jhoicas/FarmHub-api/pkg/logger"
)

// SMTPConfig datos del servidor de correo saliente.
type SMTPConfig struct {
	Host     string
	Port     int
	User     string
	Password string
	From     string
}

// Sender lo implementa *gomail.Dialer; en tests se reemplaza por un fake.
type Sender interface {
	DialAndSend(m ...*gomail.Message) error
}

var subjects = map[string]string{
	domainfinance.KindQuotation: "Cotización",
	domainfinance.KindInvoice:   "Factura",
}

// SMTPNotifier envía un email al cliente por cada documento enviado.
type SMTPNotifier struct {
	sender Sender
	from   string
	log    *logger.Logger
}

var _ finance.Notifier = (*SMTPNotifier)(nil)

// NewSMTPNotifier construye el notificador sobre un gomail.Dialer.
func NewSMTPNotifier(cfg SMTPConfig, log *logger.Logger) *SMTPNotifier {
	return NewSMTPNotifierWithSender(gomail.NewDialer(cfg.Host, cfg.Port, cfg.User, cfg.Password), cfg.From, log)
}

// NewSMTPNotifierWithSender permite inyectar el Sender.
func NewSMTPNotifierWithSender(sender Sender, from string, log *logger.Logger) *SMTPNotifier {
	return &SMTPNotifier{sender: sender, from: from, log: log.WithComponent("notify")}
}

// NotifyDocument implementa finance.Notifier.
func (n *SMTPNotifier) NotifyDocument(ctx context.Context, doc finance.DocumentNotification) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	if doc.CustomerEmail == "" {
		return fmt.Errorf("notify: %s %s sin email de destino", doc.Kind, doc.Number)
	}
	msg := buildMessage(n.from, doc)
	if err := n.sender.DialAndSend(msg); err != nil {
		return fmt.Errorf("notify: enviar %s %s: %w", doc.Kind, doc.Number, err)
	}
	n.log.Info().Str("kind", doc.Kind).Str("number", doc.Number).Str("to", doc.CustomerEmail).Msg("notificación enviada")
	return nil
}

func buildMessage(from string, doc finance.DocumentNotification) *gomail.Message {
	subject, ok := subjects[doc.Kind]
	if !ok {
		subject = "Documento"
	}
	dueLabel := "Vence"
	if doc.Kind == domainfinance.KindQuotation {
		dueLabel = "Válida hasta"
	}

	m := gomail.NewMessage()
	m.SetHeader("From", from)
	m.SetAddressHeader("To", doc.CustomerEmail, doc.CustomerName)
	m.SetHeader("Subject", fmt.Sprintf("%s %s", subject, doc.Number))
	m.SetBody("text/plain", fmt.Sprintf(
		"Hola %s,\n\nLe enviamos %s %s por un total de $%s.\n%s: %s\n\nFarmHub",
		doc.CustomerName, subject, doc.Number, doc.Total.StringFixed(2),
		dueLabel, doc.DueDate.Format("2006-01-02"),
	))
	m.AddAlternative("text/html", fmt.Sprintf(
		"<p>Hola %s,</p><p>Le enviamos <strong>%s %s</strong> por un total de <strong>$%s</strong>.</p><p>%s: %s</p><p>FarmHub</p>",
		html.EscapeString(doc.CustomerName), subject, html.EscapeString(doc.Number), doc.Total.StringFixed(2),
		dueLabel, doc.DueDate.Format("2006-01-02"),
	))
	return m
}
