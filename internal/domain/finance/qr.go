package finance

import (
	"encoding/json"

	"github.com/jhoicas/FarmHub-api/internal/domain/entity"
)

// QRPayload proyección de lectura que se imprime como código QR en el documento.
// Es solo una ayuda de verificación visual, no un protocolo.
type QRPayload struct {
	Type     string `json:"type"`
	Number   string `json:"number"`
	Total    string `json:"total"`
	Customer string `json:"customer"`
	Date     string `json:"date"`
	Status   string `json:"status,omitempty"`
}

// String serializa el payload como JSON compacto.
func (p QRPayload) String() string {
	b, err := json.Marshal(p)
	if err != nil {
		return ""
	}
	return string(b)
}

// QuotationQR proyección QR de una cotización.
func QuotationQR(q *entity.Quotation, customerName string) QRPayload {
	return QRPayload{
		Type:     KindQuotation,
		Number:   q.QuotationNumber,
		Total:    q.Total.StringFixed(2),
		Customer: customerName,
		Date:     q.CreatedAt.Format("2006-01-02"),
		Status:   q.Status.String(),
	}
}

// InvoiceQR proyección QR de una factura (incluye el estado efectivo).
func InvoiceQR(inv *entity.Invoice, customerName string, status entity.InvoiceStatus) QRPayload {
	return QRPayload{
		Type:     KindInvoice,
		Number:   inv.InvoiceNumber,
		Total:    inv.Total.StringFixed(2),
		Customer: customerName,
		Date:     inv.CreatedAt.Format("2006-01-02"),
		Status:   status.String(),
	}
}

// ReceiptQR proyección QR de un recibo.
func ReceiptQR(r *entity.Receipt, customerName string) QRPayload {
	return QRPayload{
		Type:     KindReceipt,
		Number:   r.ReceiptNumber,
		Total:    r.Amount.StringFixed(2),
		Customer: customerName,
		Date:     r.CreatedAt.Format("2006-01-02"),
	}
}
