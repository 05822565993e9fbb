package dto

import (
	"time"

	"github.com/shopspring/decimal"
)

// DocumentItemRequest línea de cotización o factura. Las líneas sin descripción se descartan.
type DocumentItemRequest struct {
	ID          string          `json:"id,omitempty"`
	Description string          `json:"description"`
	Quantity    int64           `json:"quantity" validate:"gte=0"`
	UnitPrice   decimal.Decimal `json:"unit_price"`
}

// DocumentItemResponse línea con total calculado.
type DocumentItemResponse struct {
	ID          string          `json:"id"`
	Description string          `json:"description"`
	Quantity    int64           `json:"quantity"`
	UnitPrice   decimal.Decimal `json:"unit_price"`
	Total       decimal.Decimal `json:"total"`
}

// ── Cotizaciones ─────────────────────────────────────────────────────────────

// CreateQuotationRequest body para POST /api/finance/quotations.
// BranchID solo se usa cuando la sesión ve todas las sucursales (super_admin sin selección).
// Notify=true crea la cotización en estado sent y notifica al cliente.
type CreateQuotationRequest struct {
	CustomerID string                `json:"customer_id" validate:"required"`
	BranchID   string                `json:"branch_id,omitempty"`
	Items      []DocumentItemRequest `json:"items" validate:"required,dive"`
	ValidUntil string                `json:"valid_until" validate:"required,datetime=2006-01-02"`
	Notes      string                `json:"notes,omitempty"`
	Notify     bool                  `json:"notify"`
}

// UpdateQuotationRequest body para PUT /api/finance/quotations/:id. Campos nil no se modifican.
type UpdateQuotationRequest struct {
	CustomerID *string               `json:"customer_id,omitempty"`
	Items      []DocumentItemRequest `json:"items,omitempty" validate:"omitempty,dive"`
	ValidUntil *string               `json:"valid_until,omitempty" validate:"omitempty,datetime=2006-01-02"`
	Notes      *string               `json:"notes,omitempty"`
}

// QuotationResponse cotización en respuestas.
type QuotationResponse struct {
	ID              string                 `json:"id"`
	QuotationNumber string                 `json:"quotation_number"`
	CustomerID      string                 `json:"customer_id"`
	BranchID        string                 `json:"branch_id"`
	Items           []DocumentItemResponse `json:"items"`
	Subtotal        decimal.Decimal        `json:"subtotal"`
	Tax             decimal.Decimal        `json:"tax"`
	Total           decimal.Decimal        `json:"total"`
	Status          string                 `json:"status"`
	ValidUntil      string                 `json:"valid_until"`
	Notes           string                 `json:"notes,omitempty"`
	QRData          string                 `json:"qr_data,omitempty"`
	CreatedAt       time.Time              `json:"created_at"`
	UpdatedAt       time.Time              `json:"updated_at"`
}

// ConvertQuotationRequest body opcional de POST /api/finance/quotations/:id/convert.
// Sin due_date la factura vence en la fecha valid_until de la cotización.
type ConvertQuotationRequest struct {
	DueDate string `json:"due_date,omitempty" validate:"omitempty,datetime=2006-01-02"`
}

// ConvertQuotationResponse resultado de convertir una cotización aceptada.
type ConvertQuotationResponse struct {
	Quotation QuotationResponse `json:"quotation"`
	Invoice   InvoiceResponse   `json:"invoice"`
}

// ── Facturas ─────────────────────────────────────────────────────────────────

// CreateInvoiceRequest body para POST /api/finance/invoices.
type CreateInvoiceRequest struct {
	CustomerID string                `json:"customer_id" validate:"required"`
	BranchID   string                `json:"branch_id,omitempty"`
	Items      []DocumentItemRequest `json:"items" validate:"required,dive"`
	DueDate    string                `json:"due_date" validate:"required,datetime=2006-01-02"`
	Notes      string                `json:"notes,omitempty"`
	Notify     bool                  `json:"notify"`
}

// UpdateInvoiceRequest body para PUT /api/finance/invoices/:id. Campos nil no se modifican.
type UpdateInvoiceRequest struct {
	CustomerID *string               `json:"customer_id,omitempty"`
	Items      []DocumentItemRequest `json:"items,omitempty" validate:"omitempty,dive"`
	DueDate    *string               `json:"due_date,omitempty" validate:"omitempty,datetime=2006-01-02"`
	Notes      *string               `json:"notes,omitempty"`
}

// InvoiceResponse factura en respuestas. Status es el estado efectivo (overdue derivado de due_date).
type InvoiceResponse struct {
	ID            string                 `json:"id"`
	InvoiceNumber string                 `json:"invoice_number"`
	CustomerID    string                 `json:"customer_id"`
	BranchID      string                 `json:"branch_id"`
	QuotationID   string                 `json:"quotation_id,omitempty"`
	Items         []DocumentItemResponse `json:"items"`
	Subtotal      decimal.Decimal        `json:"subtotal"`
	Tax           decimal.Decimal        `json:"tax"`
	Total         decimal.Decimal        `json:"total"`
	Status        string                 `json:"status"`
	DueDate       string                 `json:"due_date"`
	PaidAt        *string                `json:"paid_at,omitempty"`
	Notes         string                 `json:"notes,omitempty"`
	QRData        string                 `json:"qr_data,omitempty"`
	CreatedAt     time.Time              `json:"created_at"`
	UpdatedAt     time.Time              `json:"updated_at"`
}

// ── Recibos ──────────────────────────────────────────────────────────────────

// CreateReceiptRequest body para POST /api/finance/receipts. Amount vacío = total de la factura.
type CreateReceiptRequest struct {
	InvoiceID     string           `json:"invoice_id" validate:"required"`
	Amount        *decimal.Decimal `json:"amount,omitempty"`
	PaymentMethod string           `json:"payment_method" validate:"required,oneof=cash card bank_transfer check"`
	Notes         string           `json:"notes,omitempty"`
}

// UpdateReceiptRequest body para PUT /api/finance/receipts/:id. Campos nil no se modifican.
type UpdateReceiptRequest struct {
	Amount        *decimal.Decimal `json:"amount,omitempty"`
	PaymentMethod *string          `json:"payment_method,omitempty" validate:"omitempty,oneof=cash card bank_transfer check"`
	Notes         *string          `json:"notes,omitempty"`
}

// ReceiptResponse recibo en respuestas.
type ReceiptResponse struct {
	ID            string          `json:"id"`
	ReceiptNumber string          `json:"receipt_number"`
	InvoiceID     string          `json:"invoice_id"`
	CustomerID    string          `json:"customer_id"`
	BranchID      string          `json:"branch_id"`
	Amount        decimal.Decimal `json:"amount"`
	PaymentMethod string          `json:"payment_method"`
	Notes         string          `json:"notes,omitempty"`
	IsPrinted     bool            `json:"is_printed"`
	PrintedAt     *time.Time      `json:"printed_at,omitempty"`
	QRData        string          `json:"qr_data,omitempty"`
	CreatedAt     time.Time       `json:"created_at"`
	UpdatedAt     time.Time       `json:"updated_at"`
}

// PrintReceiptResponse respuesta de POST /api/finance/receipts/:id/print cuando se pide JSON.
type PrintReceiptResponse struct {
	Receipt  ReceiptResponse `json:"receipt"`
	Filename string          `json:"filename"`
}
