package entity

import (
	"time"

	"github.com/shopspring/decimal"
)

// InvoiceStatus estado de una factura.
type InvoiceStatus string

const (
	InvoiceStatusDraft     InvoiceStatus = "draft"
	InvoiceStatusSent      InvoiceStatus = "sent"
	InvoiceStatusPaid      InvoiceStatus = "paid"
	InvoiceStatusOverdue   InvoiceStatus = "overdue"
	InvoiceStatusCancelled InvoiceStatus = "cancelled"
)

// IsValid verifica que el estado sea uno de los conocidos.
func (s InvoiceStatus) IsValid() bool {
	switch s {
	case InvoiceStatusDraft, InvoiceStatusSent, InvoiceStatusPaid, InvoiceStatusOverdue, InvoiceStatusCancelled:
		return true
	}
	return false
}

func (s InvoiceStatus) String() string { return string(s) }

// CanTransitionTo indica si la factura puede pasar al estado target.
// paid y cancelled son terminales; overdue se comporta como sent.
func (s InvoiceStatus) CanTransitionTo(target InvoiceStatus) bool {
	switch s {
	case InvoiceStatusDraft:
		return target == InvoiceStatusSent || target == InvoiceStatusPaid ||
			target == InvoiceStatusOverdue || target == InvoiceStatusCancelled
	case InvoiceStatusSent:
		return target == InvoiceStatusPaid || target == InvoiceStatusOverdue || target == InvoiceStatusCancelled
	case InvoiceStatusOverdue:
		return target == InvoiceStatusPaid || target == InvoiceStatusCancelled
	case InvoiceStatusPaid, InvoiceStatusCancelled:
		return false
	}
	return false
}

// Invoice factura de venta. QuotationID es una referencia débil a la cotización de origen.
type Invoice struct {
	ID            string
	InvoiceNumber string // INV-YYYY-NNN
	CustomerID    string
	BranchID      string
	QuotationID   string // vacío si no proviene de una cotización
	Items         []DocumentItem
	Subtotal      decimal.Decimal
	Tax           decimal.Decimal
	Total         decimal.Decimal
	Status        InvoiceStatus
	DueDate       time.Time
	PaidAt        *time.Time
	Notes         string
	CreatedAt     time.Time
	UpdatedAt     time.Time
}

// GetBranchID implementa access.BranchScoped.
func (i *Invoice) GetBranchID() string { return i.BranchID }

// IsLocked una factura pagada ya no admite ediciones ni borrado.
func (i *Invoice) IsLocked() bool { return i.Status == InvoiceStatusPaid }

// EffectiveStatus estado observado en now: una factura draft/sent con fecha de vencimiento
// anterior al día de hoy se reporta como overdue (no se persiste).
func (i *Invoice) EffectiveStatus(now time.Time) InvoiceStatus {
	if i.Status != InvoiceStatusDraft && i.Status != InvoiceStatusSent {
		return i.Status
	}
	if i.DueDate.IsZero() {
		return i.Status
	}
	// DueDate es una fecha de calendario; se compara día contra día en la zona de now.
	y, m, d := now.Date()
	today := time.Date(y, m, d, 0, 0, 0, 0, now.Location())
	dy, dm, dd := i.DueDate.Date()
	due := time.Date(dy, dm, dd, 0, 0, 0, 0, now.Location())
	if due.Before(today) {
		return InvoiceStatusOverdue
	}
	return i.Status
}

// Clone copia profunda (incluye líneas y PaidAt).
func (i *Invoice) Clone() *Invoice {
	if i == nil {
		return nil
	}
	c := *i
	c.Items = CloneItems(i.Items)
	if i.PaidAt != nil {
		t := *i.PaidAt
		c.PaidAt = &t
	}
	return &c
}
