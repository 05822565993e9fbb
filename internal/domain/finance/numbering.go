package finance

import "fmt"

// Prefijos de numeración por tipo de documento.
const (
	PrefixQuotation = "QT"
	PrefixInvoice   = "INV"
	PrefixReceipt   = "REC"
)

// Tipos de documento (también clave del contador atómico de numeración).
const (
	KindQuotation = "quotation"
	KindInvoice   = "invoice"
	KindReceipt   = "receipt"
)

// PrefixFor prefijo de numeración del tipo de documento.
func PrefixFor(kind string) string {
	switch kind {
	case KindQuotation:
		return PrefixQuotation
	case KindInvoice:
		return PrefixInvoice
	case KindReceipt:
		return PrefixReceipt
	}
	return ""
}

// NextNumber formatea "{prefix}-{year}-{currentCount+1}" con el consecutivo rellenado a 3 dígitos.
// currentCount es la cantidad de documentos ya numerados de ese tipo y año.
func NextNumber(prefix string, year, currentCount int) string {
	if currentCount < 0 {
		currentCount = 0
	}
	return fmt.Sprintf("%s-%d-%03d", prefix, year, currentCount+1)
}
