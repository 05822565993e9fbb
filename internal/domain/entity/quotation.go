package entity

import (
	"time"

	"github.com/shopspring/decimal"
)

// QuotationStatus estado de una cotización.
type QuotationStatus string

const (
	QuotationStatusDraft     QuotationStatus = "draft"
	QuotationStatusSent      QuotationStatus = "sent"
	QuotationStatusAccepted  QuotationStatus = "accepted"
	QuotationStatusRejected  QuotationStatus = "rejected"
	QuotationStatusConverted QuotationStatus = "converted"
)

// IsValid verifica que el estado sea uno de los conocidos.
func (s QuotationStatus) IsValid() bool {
	switch s {
	case QuotationStatusDraft, QuotationStatusSent, QuotationStatusAccepted,
		QuotationStatusRejected, QuotationStatusConverted:
		return true
	}
	return false
}

func (s QuotationStatus) String() string { return string(s) }

// CanTransitionTo indica si la cotización puede pasar al estado target.
//
//	draft ──send──▶ sent ──accept──▶ accepted ──convert──▶ converted
//	  └──────reject──┴──▶ rejected
func (s QuotationStatus) CanTransitionTo(target QuotationStatus) bool {
	switch s {
	case QuotationStatusDraft:
		return target == QuotationStatusSent || target == QuotationStatusAccepted || target == QuotationStatusRejected
	case QuotationStatusSent:
		return target == QuotationStatusAccepted || target == QuotationStatusRejected
	case QuotationStatusAccepted:
		return target == QuotationStatusConverted
	case QuotationStatusRejected, QuotationStatusConverted:
		return false
	}
	return false
}

// Quotation cotización enviada a un cliente.
type Quotation struct {
	ID              string
	QuotationNumber string // QT-YYYY-NNN
	CustomerID      string
	BranchID        string
	Items           []DocumentItem
	Subtotal        decimal.Decimal
	Tax             decimal.Decimal
	Total           decimal.Decimal
	Status          QuotationStatus
	ValidUntil      time.Time
	Notes           string
	CreatedAt       time.Time
	UpdatedAt       time.Time
}

// GetBranchID implementa access.BranchScoped.
func (q *Quotation) GetBranchID() string { return q.BranchID }

// IsLocked una cotización convertida ya no admite ediciones ni borrado.
func (q *Quotation) IsLocked() bool { return q.Status == QuotationStatusConverted }

// Clone copia profunda (incluye las líneas).
func (q *Quotation) Clone() *Quotation {
	if q == nil {
		return nil
	}
	c := *q
	c.Items = CloneItems(q.Items)
	return &c
}
