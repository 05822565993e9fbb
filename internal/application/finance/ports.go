package finance

import (
	"context"
	"time"

	"github.com/shopspring/decimal"

	"github.com/jhoicas/FarmHub-api/internal/domain/entity"
	"github.com/jhoicas/FarmHub-api/internal/domain/repository"
)

// TxRunner ejecuta fn dentro de una transacción con los repositorios de documentos financieros.
// Si fn retorna error no queda ningún cambio persistido (todo o nada).
type TxRunner interface {
	RunFinance(ctx context.Context, fn func(
		quoteRepo repository.QuotationRepository,
		invoiceRepo repository.InvoiceRepository,
		receiptRepo repository.ReceiptRepository,
		customerRepo repository.CustomerRepository,
		counterRepo repository.CounterRepository,
	) error) error
}

// DocumentNotification aviso al cliente sobre un documento enviado.
type DocumentNotification struct {
	Kind          string // quotation | invoice
	Number        string
	CustomerName  string
	CustomerEmail string
	Total         decimal.Decimal
	DueDate       time.Time // validUntil para cotizaciones
	QRData        string
}

// Notifier colaborador de notificación (email). Un fallo no revierte el cambio de estado.
type Notifier interface {
	NotifyDocument(ctx context.Context, n DocumentNotification) error
}

// Recorder métricas de ciclo de vida: creaciones y transiciones de estado por tipo de documento.
type Recorder interface {
	DocumentCreated(kind, status string)
	DocumentTransition(kind, from, to string)
	DocumentRejected(kind, reason string)
}

// PrintData datos listos para la representación impresa de un documento.
type PrintData struct {
	Kind          string // quotation | invoice | receipt
	Number        string
	Status        string
	IssuedAt      time.Time
	DueDate       time.Time // validUntil (cotización) o dueDate (factura); cero en recibos
	Branch        *entity.Branch
	Customer      *entity.Customer
	Items         []entity.DocumentItem
	Subtotal      decimal.Decimal
	Tax           decimal.Decimal
	Total         decimal.Decimal
	PaymentMethod string // solo recibos
	Reference     string // número de la factura pagada (recibos)
	Notes         string
	QRData        string
}

// DocumentRenderer genera el PDF de un documento.
type DocumentRenderer interface {
	Render(ctx context.Context, data PrintData) ([]byte, error)
}

type nopNotifier struct{}

func (nopNotifier) NotifyDocument(context.Context, DocumentNotification) error { return nil }

type nopRecorder struct{}

func (nopRecorder) DocumentCreated(string, string) {}
func (nopRecorder) DocumentTransition(string, string, string) {}
func (nopRecorder) DocumentRejected(string, string) {}
