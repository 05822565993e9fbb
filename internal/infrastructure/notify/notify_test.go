package notify

import (
	"bytes"
	"context"
	"errors"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gopkg.in/gomail.v2"

	"github.com/jhoicas/FarmHub-api/internal/application/finance"
	"github.com/jhoicas/FarmHub-api/pkg/logger"
)

type fakeSender struct {
	sent []*gomail.Message
	err  error
}

func (f *fakeSender) DialAndSend(m ...*gomail.Message) error {
	if f.err != nil {
		return f.err
	}
	f.sent = append(f.sent, m...)
	return nil
}

func sampleDoc() finance.DocumentNotification {
	return finance.DocumentNotification{
		Kind:          "invoice",
		Number:        "INV-2024-001",
		CustomerName:  "Fresh Market",
		CustomerEmail: "buy@fresh.example",
		Total:         decimal.NewFromInt(27500),
		DueDate:       time.Date(2024, 4, 10, 0, 0, 0, 0, time.UTC),
	}
}

func TestSMTPNotifier_ArmaElMensaje(t *testing.T) {
	sender := &fakeSender{}
	n := NewSMTPNotifierWithSender(sender, "billing@farmhub.example", logger.Nop())

	require.NoError(t, n.NotifyDocument(context.Background(), sampleDoc()))
	require.Len(t, sender.sent, 1)

	msg := sender.sent[0]
	assert.Equal(t, []string{"Factura INV-2024-001"}, msg.GetHeader("Subject"))
	assert.Equal(t, []string{"billing@farmhub.example"}, msg.GetHeader("From"))

	var buf bytes.Buffer
	_, err := msg.WriteTo(&buf)
	require.NoError(t, err)
	assert.Contains(t, buf.String(), "27500.00")
	assert.Contains(t, buf.String(), "2024-04-10")
}

func TestSMTPNotifier_ErroresSePropagan(t *testing.T) {
	sender := &fakeSender{err: errors.New("connection refused")}
	n := NewSMTPNotifierWithSender(sender, "billing@farmhub.example", logger.Nop())

	err := n.NotifyDocument(context.Background(), sampleDoc())
	assert.ErrorContains(t, err, "connection refused")

	doc := sampleDoc()
	doc.CustomerEmail = ""
	assert.Error(t, n.NotifyDocument(context.Background(), doc))
}

func TestLogNotifier_NuncaFalla(t *testing.T) {
	assert.NoError(t, NewLogNotifier(logger.Nop()).NotifyDocument(context.Background(), sampleDoc()))
}
