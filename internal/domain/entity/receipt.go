package entity

import (
	"time"

	"github.com/shopspring/decimal"
)

// PaymentMethod medio de pago registrado en un recibo.
type PaymentMethod string

const (
	PaymentMethodCash         PaymentMethod = "cash"
	PaymentMethodCard         PaymentMethod = "card"
	PaymentMethodBankTransfer PaymentMethod = "bank_transfer"
	PaymentMethodCheck        PaymentMethod = "check"
)

// IsValid verifica que el medio de pago sea uno de los conocidos.
func (m PaymentMethod) IsValid() bool {
	switch m {
	case PaymentMethodCash, PaymentMethodCard, PaymentMethodBankTransfer, PaymentMethodCheck:
		return true
	}
	return false
}

// Label texto para la representación impresa.
func (m PaymentMethod) Label() string {
	switch m {
	case PaymentMethodCash:
		return "Cash"
	case PaymentMethodCard:
		return "Card"
	case PaymentMethodBankTransfer:
		return "Bank Transfer"
	case PaymentMethodCheck:
		return "Check"
	}
	return string(m)
}

// Receipt recibo de pago emitido contra una factura pagada.
// IsPrinted es un cerrojo de un solo sentido: una vez impreso el recibo es inmutable.
type Receipt struct {
	ID            string
	ReceiptNumber string // REC-YYYY-NNN
	InvoiceID     string
	CustomerID    string
	BranchID      string
	Amount        decimal.Decimal
	PaymentMethod PaymentMethod
	Notes         string // pagos parciales se documentan aquí
	IsPrinted     bool
	PrintedAt     *time.Time
	CreatedAt     time.Time
	UpdatedAt     time.Time
}

// GetBranchID implementa access.BranchScoped.
func (r *Receipt) GetBranchID() string { return r.BranchID }

// Clone copia del recibo (PrintedAt incluido).
func (r *Receipt) Clone() *Receipt {
	if r == nil {
		return nil
	}
	c := *r
	if r.PrintedAt != nil {
		t := *r.PrintedAt
		c.PrintedAt = &t
	}
	return &c
}
