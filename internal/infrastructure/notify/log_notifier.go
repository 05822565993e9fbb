package notify

import (
	"context"

	"github.com/jhoicas/FarmHub-api/internal/application/finance"
	"github.com/jhoicas/FarmHub-api/pkg/logger"
)

// LogNotifier solo registra la notificación. Se usa cuando no hay SMTP_HOST configurado.
type LogNotifier struct {
	log *logger.Logger
}

var _ finance.Notifier = (*LogNotifier)(nil)

// NewLogNotifier construye el notificador.
func NewLogNotifier(log *logger.Logger) *LogNotifier {
	return &LogNotifier{log: log.WithComponent("notify")}
}

// NotifyDocument implementa finance.Notifier.
func (n *LogNotifier) NotifyDocument(_ context.Context, doc finance.DocumentNotification) error {
	n.log.Info().
		Str("kind", doc.Kind).
		Str("number", doc.Number).
		Str("to", doc.CustomerEmail).
		Str("total", doc.Total.StringFixed(2)).
		Msg("notificación (sin SMTP)")
	return nil
}
