package finance

import (
	"context"
	"fmt"
	"time"

	"github.com/jhoicas/FarmHub-api/internal/domain/access"
	"github.com/jhoicas/FarmHub-api/internal/domain/entity"
	findomain "github.com/jhoicas/FarmHub-api/internal/domain/finance"
	"github.com/jhoicas/FarmHub-api/internal/domain/repository"
)

// PrintUseCase genera la representación impresa (PDF con QR) de cotizaciones, facturas y recibos.
// Imprimir un recibo cierra su cerrojo is_printed.
type PrintUseCase struct {
	quoteRepo    repository.QuotationRepository
	invoiceRepo  repository.InvoiceRepository
	customerRepo repository.CustomerRepository
	branchRepo   repository.BranchRepository
	receipts     *ReceiptUseCase
	renderer     DocumentRenderer
	now          func() time.Time
}

// NewPrintUseCase construye el caso de uso inyectando todas sus dependencias.
func NewPrintUseCase(
	quoteRepo repository.QuotationRepository,
	invoiceRepo repository.InvoiceRepository,
	customerRepo repository.CustomerRepository,
	branchRepo repository.BranchRepository,
	receipts *ReceiptUseCase,
	renderer DocumentRenderer,
) *PrintUseCase {
	return &PrintUseCase{
		quoteRepo:    quoteRepo,
		invoiceRepo:  invoiceRepo,
		customerRepo: customerRepo,
		branchRepo:   branchRepo,
		receipts:     receipts,
		renderer:     renderer,
		now:          receipts.now,
	}
}

// QuotationPDF devuelve (pdf, filename) de la cotización.
func (uc *PrintUseCase) QuotationPDF(ctx context.Context, scope *access.Scope, id string) ([]byte, string, error) {
	if err := requireFinance(scope); err != nil {
		return nil, "", err
	}
	q, err := uc.quoteRepo.GetByID(ctx, id)
	if err != nil {
		return nil, "", fmt.Errorf("pdf: obtener cotización: %w", err)
	}
	if q == nil {
		return nil, "", notFound("cotización", id)
	}
	if err := checkScope(scope, q.BranchID); err != nil {
		return nil, "", err
	}
	customer, branch, err := uc.parties(ctx, q.CustomerID, q.BranchID)
	if err != nil {
		return nil, "", err
	}

	data := PrintData{
		Kind:     findomain.KindQuotation,
		Number:   q.QuotationNumber,
		Status:   q.Status.String(),
		IssuedAt: q.CreatedAt,
		DueDate:  q.ValidUntil,
		Branch:   branch,
		Customer: customer,
		Items:    entity.CloneItems(q.Items),
		Subtotal: q.Subtotal,
		Tax:      q.Tax,
		Total:    q.Total,
		Notes:    q.Notes,
		QRData:   findomain.QuotationQR(q, customer.Name).String(),
	}
	return uc.render(ctx, data, "cotizacion_"+q.QuotationNumber+".pdf")
}

// InvoicePDF devuelve (pdf, filename) de la factura con su estado efectivo.
func (uc *PrintUseCase) InvoicePDF(ctx context.Context, scope *access.Scope, id string) ([]byte, string, error) {
	if err := requireFinance(scope); err != nil {
		return nil, "", err
	}
	inv, err := uc.invoiceRepo.GetByID(ctx, id)
	if err != nil {
		return nil, "", fmt.Errorf("pdf: obtener factura: %w", err)
	}
	if inv == nil {
		return nil, "", notFound("factura", id)
	}
	if err := checkScope(scope, inv.BranchID); err != nil {
		return nil, "", err
	}
	customer, branch, err := uc.parties(ctx, inv.CustomerID, inv.BranchID)
	if err != nil {
		return nil, "", err
	}

	status := inv.EffectiveStatus(uc.now())
	data := PrintData{
		Kind:     findomain.KindInvoice,
		Number:   inv.InvoiceNumber,
		Status:   status.String(),
		IssuedAt: inv.CreatedAt,
		DueDate:  inv.DueDate,
		Branch:   branch,
		Customer: customer,
		Items:    entity.CloneItems(inv.Items),
		Subtotal: inv.Subtotal,
		Tax:      inv.Tax,
		Total:    inv.Total,
		Notes:    inv.Notes,
		QRData:   findomain.InvoiceQR(inv, customer.Name, status).String(),
	}
	return uc.render(ctx, data, "factura_"+inv.InvoiceNumber+".pdf")
}

// ReceiptPDF marca el recibo como impreso y devuelve (pdf, filename, recibo).
// Si el render falla el recibo ya quedó impreso; reintentar es una reimpresión.
func (uc *PrintUseCase) ReceiptPDF(ctx context.Context, scope *access.Scope, id string) ([]byte, string, *entity.Receipt, error) {
	r, err := uc.receipts.Print(ctx, scope, id)
	if err != nil {
		return nil, "", nil, err
	}
	customer, branch, err := uc.parties(ctx, r.CustomerID, r.BranchID)
	if err != nil {
		return nil, "", nil, err
	}
	reference := r.InvoiceID
	if inv, err := uc.invoiceRepo.GetByID(ctx, r.InvoiceID); err == nil && inv != nil {
		reference = inv.InvoiceNumber
	}

	data := PrintData{
		Kind:          findomain.KindReceipt,
		Number:        r.ReceiptNumber,
		IssuedAt:      r.CreatedAt,
		Branch:        branch,
		Customer:      customer,
		Total:         r.Amount,
		PaymentMethod: r.PaymentMethod.Label(),
		Reference:     reference,
		Notes:         r.Notes,
		QRData:        findomain.ReceiptQR(r, customer.Name).String(),
	}
	pdf, filename, err := uc.render(ctx, data, "recibo_"+r.ReceiptNumber+".pdf")
	if err != nil {
		return nil, "", nil, err
	}
	return pdf, filename, r, nil
}

func (uc *PrintUseCase) render(ctx context.Context, data PrintData, filename string) ([]byte, string, error) {
	pdf, err := uc.renderer.Render(ctx, data)
	if err != nil {
		return nil, "", fmt.Errorf("pdf: generación fallida: %w", err)
	}
	return pdf, filename, nil
}

// parties cliente y sucursal del documento; si no existen se imprimen con datos mínimos.
func (uc *PrintUseCase) parties(ctx context.Context, customerID, branchID string) (*entity.Customer, *entity.Branch, error) {
	customer, err := uc.customerRepo.GetByID(ctx, customerID)
	if err != nil {
		return nil, nil, fmt.Errorf("pdf: obtener cliente: %w", err)
	}
	if customer == nil {
		customer = &entity.Customer{ID: customerID, Name: customerID}
	}
	branch, err := uc.branchRepo.GetByID(ctx, branchID)
	if err != nil {
		return nil, nil, fmt.Errorf("pdf: obtener sucursal: %w", err)
	}
	if branch == nil {
		branch = &entity.Branch{ID: branchID, Name: branchID}
	}
	return customer, branch, nil
}
