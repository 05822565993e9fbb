package finance_test

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/FarmHub-api/internal/application/dto"
	"github.com/jhoicas/FarmHub-api/internal/domain"
)

func TestPrint_QuotationPDFIncluyeQR(t *testing.T) {
	f := newFixture(t)
	q := f.createQuotation(t, f.manager)

	pdf, filename, err := f.printer.QuotationPDF(context.Background(), f.manager, q.ID)
	require.NoError(t, err)
	assert.Equal(t, "cotizacion_QT-2024-001.pdf", filename)
	assert.NotEmpty(t, pdf)
	assert.Equal(t, "North Farm", f.renderer.last.Branch.Name)
	assert.Equal(t, "Fresh Market", f.renderer.last.Customer.Name)
	assert.Contains(t, f.renderer.last.QRData, `"type":"quotation"`)
	assert.Contains(t, f.renderer.last.QRData, `"customer":"Fresh Market"`)
}

func TestPrint_InvoicePDFConEstadoEfectivo(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)
	inv, err := f.invoices.Create(ctx, f.manager, dto.CreateInvoiceRequest{
		CustomerID: "fresh", Items: cornItems(), DueDate: "2024-01-31",
	})
	require.NoError(t, err)

	_, filename, err := f.printer.InvoicePDF(ctx, f.manager, inv.ID)
	require.NoError(t, err)
	assert.Equal(t, "factura_INV-2024-001.pdf", filename)
	assert.Equal(t, "overdue", f.renderer.last.Status)
	assert.Contains(t, f.renderer.last.QRData, `"status":"overdue"`)
}

func TestPrint_ReceiptPDFCierraElCerrojo(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)
	inv := f.paidInvoice(t)
	rec, err := f.receipts.Create(ctx, f.manager, dto.CreateReceiptRequest{InvoiceID: inv.ID, PaymentMethod: "bank_transfer"})
	require.NoError(t, err)

	_, filename, printed, err := f.printer.ReceiptPDF(ctx, f.manager, rec.ID)
	require.NoError(t, err)
	assert.Equal(t, "recibo_REC-2024-001.pdf", filename)
	assert.True(t, printed.IsPrinted)
	assert.Equal(t, "Bank Transfer", f.renderer.last.PaymentMethod)
	assert.Equal(t, inv.InvoiceNumber, f.renderer.last.Reference)

	_, err = f.receipts.Update(ctx, f.manager, rec.ID, dto.UpdateReceiptRequest{Notes: ptr("x")})
	assert.ErrorIs(t, err, domain.ErrImmutableDocument)
}

func TestPrint_FueraDeAlcance(t *testing.T) {
	f := newFixture(t)
	q := f.createQuotation(t, f.manager)
	_, _, err := f.printer.QuotationPDF(context.Background(), f.southAcct, q.ID)
	assert.ErrorIs(t, err, domain.ErrScopeViolation)
}

func TestPrint_ErrorDelRenderer(t *testing.T) {
	f := newFixture(t)
	f.renderer.err = errors.New("fuente no encontrada")
	q := f.createQuotation(t, f.manager)
	_, _, err := f.printer.QuotationPDF(context.Background(), f.manager, q.ID)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "fuente no encontrada")
}
