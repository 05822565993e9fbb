package finance

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/jhoicas/FarmHub-api/internal/application/dto"
	"github.com/jhoicas/FarmHub-api/internal/domain"
	"github.com/jhoicas/FarmHub-api/internal/domain/access"
	"github.com/jhoicas/FarmHub-api/internal/domain/entity"
	findomain "github.com/jhoicas/FarmHub-api/internal/domain/finance"
	"github.com/jhoicas/FarmHub-api/internal/domain/repository"
	"github.com/jhoicas/FarmHub-api/pkg/logger"
)

const dateLayout = "2006-01-02"

// moneyScale decimales de precios y montos persistidos (NUMERIC(14,2)).
const moneyScale = 2

// Options colaboradores opcionales de los casos de uso financieros. Los valores nil usan
// implementaciones vacías (sin notificación, sin métricas, sin logs, reloj del sistema).
type Options struct {
	Notifier Notifier
	Metrics  Recorder
	Logger   *logger.Logger
	Now      func() time.Time
}

// base dependencias comunes a cotizaciones, facturas y recibos.
type base struct {
	tx       TxRunner
	notifier Notifier
	metrics  Recorder
	log      *logger.Logger
	now      func() time.Time
}

func newBase(tx TxRunner, opts Options) base {
	b := base{tx: tx, notifier: opts.Notifier, metrics: opts.Metrics, log: opts.Logger, now: opts.Now}
	if b.notifier == nil {
		b.notifier = nopNotifier{}
	}
	if b.metrics == nil {
		b.metrics = nopRecorder{}
	}
	if b.log == nil {
		b.log = logger.Nop()
	}
	b.log = b.log.WithComponent("finance")
	if b.now == nil {
		b.now = time.Now
	}
	return b
}

// requireFinance la sesión debe tener la capacidad finance.
func requireFinance(scope *access.Scope) error {
	if !access.HasPermission(scope, access.PermFinance) {
		return fmt.Errorf("%w: se requiere el permiso finance", domain.ErrForbidden)
	}
	return nil
}

// checkScope el documento debe pertenecer a la sucursal visible para la sesión.
func checkScope(scope *access.Scope, branchID string) error {
	if !access.CanAccess(scope, branchID) {
		return fmt.Errorf("%w: el documento pertenece a otra sucursal", domain.ErrScopeViolation)
	}
	return nil
}

// listBranch sucursal a consultar en el repositorio ("" = todas). ok=false: la sesión no ve datos.
func listBranch(scope *access.Scope) (branchID string, ok bool) {
	switch eff := access.EffectiveBranchID(scope); eff {
	case "":
		return "", false
	case access.AllBranches:
		return "", true
	default:
		return eff, true
	}
}

// resolveCustomer valida el cliente y decide la sucursal del documento nuevo.
// Sesión con sucursal efectiva: el documento nace en ella. Vista de todas las sucursales:
// se usa requested o, si viene vacío, la sucursal del cliente.
func resolveCustomer(ctx context.Context, customers repository.CustomerRepository, scope *access.Scope, customerID, requested string) (*entity.Customer, string, error) {
	eff := access.EffectiveBranchID(scope)
	if eff == "" {
		return nil, "", fmt.Errorf("%w: la sesión no tiene sucursal asignada", domain.ErrScopeViolation)
	}
	requested = strings.TrimSpace(requested)
	if eff != access.AllBranches && requested != "" && requested != eff {
		return nil, "", fmt.Errorf("%w: no puede crear documentos en la sucursal %s", domain.ErrScopeViolation, requested)
	}

	customer, err := loadCustomer(ctx, customers, customerID)
	if err != nil {
		return nil, "", err
	}
	branchID := eff
	if eff == access.AllBranches {
		branchID = requested
		if branchID == "" {
			branchID = customer.BranchID
		}
	}
	if customer.BranchID != branchID {
		return nil, "", fmt.Errorf("%w: el cliente no pertenece a la sucursal del documento", domain.ErrInvalidReference)
	}
	return customer, branchID, nil
}

func loadCustomer(ctx context.Context, customers repository.CustomerRepository, customerID string) (*entity.Customer, error) {
	if strings.TrimSpace(customerID) == "" {
		return nil, fmt.Errorf("%w: customer_id es obligatorio", domain.ErrInvalidInput)
	}
	customer, err := customers.GetByID(ctx, customerID)
	if err != nil {
		return nil, fmt.Errorf("obtener cliente: %w", err)
	}
	if customer == nil {
		return nil, fmt.Errorf("%w: el cliente %s no existe", domain.ErrInvalidReference, customerID)
	}
	return customer, nil
}

// customerName nombre del cliente para el QR; vacío si no se puede resolver.
func customerName(ctx context.Context, customers repository.CustomerRepository, id string) string {
	c, err := customers.GetByID(ctx, id)
	if err != nil || c == nil {
		return ""
	}
	return c.Name
}

// buildItems normaliza las líneas recibidas. Sin líneas con descripción → ErrEmptyDocument.
func buildItems(in []dto.DocumentItemRequest) ([]entity.DocumentItem, error) {
	raw := make([]entity.DocumentItem, 0, len(in))
	for _, it := range in {
		raw = append(raw, entity.DocumentItem{
			ID:          it.ID,
			Description: it.Description,
			Quantity:    it.Quantity,
			UnitPrice:   it.UnitPrice.Round(moneyScale),
		})
	}
	items := findomain.PrepareItems(raw)
	if !findomain.ValidateItems(items) {
		return nil, fmt.Errorf("%w: cantidad y precio no pueden ser negativos", domain.ErrInvalidInput)
	}
	if len(items) == 0 {
		return nil, domain.ErrEmptyDocument
	}
	return items, nil
}

func parseDate(field, s string) (time.Time, error) {
	t, err := time.Parse(dateLayout, strings.TrimSpace(s))
	if err != nil {
		return time.Time{}, fmt.Errorf("%w: %s debe tener formato YYYY-MM-DD", domain.ErrInvalidInput, field)
	}
	return t, nil
}

// nextNumber reserva el siguiente consecutivo del tipo de documento para el año de now.
func nextNumber(ctx context.Context, counters repository.CounterRepository, kind string, now time.Time) (string, error) {
	count, err := counters.Reserve(ctx, kind, now.Year())
	if err != nil {
		return "", fmt.Errorf("reservar numeración %s: %w", kind, err)
	}
	return findomain.NextNumber(findomain.PrefixFor(kind), now.Year(), count), nil
}

// notify invoca al colaborador de notificación; un fallo solo se registra.
func (b *base) notify(ctx context.Context, n DocumentNotification) {
	if n.CustomerEmail == "" {
		b.log.Debug().Str("kind", n.Kind).Str("number", n.Number).Msg("cliente sin email, no se notifica")
		return
	}
	if err := b.notifier.NotifyDocument(ctx, n); err != nil {
		b.log.Warn().Err(err).Str("kind", n.Kind).Str("number", n.Number).Msg("no se pudo notificar al cliente")
	}
}

// fail registra el motivo de rechazo de una operación de ciclo de vida y devuelve err.
func (b *base) fail(kind string, err error) error {
	if reason := rejectReason(err); reason != "" {
		b.metrics.DocumentRejected(kind, reason)
	}
	return err
}

func rejectReason(err error) string {
	switch {
	case err == nil:
		return ""
	case errors.Is(err, domain.ErrImmutableDocument):
		return "immutable"
	case errors.Is(err, domain.ErrInvalidTransition):
		return "invalid_transition"
	case errors.Is(err, domain.ErrInvalidReference):
		return "invalid_reference"
	case errors.Is(err, domain.ErrScopeViolation):
		return "scope_violation"
	case errors.Is(err, domain.ErrEmptyDocument):
		return "empty_document"
	}
	return ""
}

func notFound(kind, id string) error {
	return fmt.Errorf("%w: %s %s", domain.ErrNotFound, kind, id)
}

func invalidTransition(kind string, from, to fmt.Stringer) error {
	return fmt.Errorf("%w: %s no puede pasar de %s a %s", domain.ErrInvalidTransition, kind, from, to)
}

func immutable(kind, number, reason string) error {
	return fmt.Errorf("%w: %s %s está %s", domain.ErrImmutableDocument, kind, number, reason)
}

// ── Mapeo a DTO ──────────────────────────────────────────────────────────────

func toItemResponses(items []entity.DocumentItem) []dto.DocumentItemResponse {
	out := make([]dto.DocumentItemResponse, 0, len(items))
	for _, it := range items {
		out = append(out, dto.DocumentItemResponse{
			ID:          it.ID,
			Description: it.Description,
			Quantity:    it.Quantity,
			UnitPrice:   it.UnitPrice,
			Total:       it.Total,
		})
	}
	return out
}

func toQuotationResponse(q *entity.Quotation) dto.QuotationResponse {
	return dto.QuotationResponse{
		ID:              q.ID,
		QuotationNumber: q.QuotationNumber,
		CustomerID:      q.CustomerID,
		BranchID:        q.BranchID,
		Items:           toItemResponses(q.Items),
		Subtotal:        q.Subtotal,
		Tax:             q.Tax,
		Total:           q.Total,
		Status:          q.Status.String(),
		ValidUntil:      q.ValidUntil.Format(dateLayout),
		Notes:           q.Notes,
		CreatedAt:       q.CreatedAt,
		UpdatedAt:       q.UpdatedAt,
	}
}

func toInvoiceResponse(inv *entity.Invoice, now time.Time) dto.InvoiceResponse {
	resp := dto.InvoiceResponse{
		ID:            inv.ID,
		InvoiceNumber: inv.InvoiceNumber,
		CustomerID:    inv.CustomerID,
		BranchID:      inv.BranchID,
		QuotationID:   inv.QuotationID,
		Items:         toItemResponses(inv.Items),
		Subtotal:      inv.Subtotal,
		Tax:           inv.Tax,
		Total:         inv.Total,
		Status:        inv.EffectiveStatus(now).String(),
		DueDate:       inv.DueDate.Format(dateLayout),
		Notes:         inv.Notes,
		CreatedAt:     inv.CreatedAt,
		UpdatedAt:     inv.UpdatedAt,
	}
	if inv.PaidAt != nil {
		paid := inv.PaidAt.Format(dateLayout)
		resp.PaidAt = &paid
	}
	return resp
}

func toReceiptResponse(r *entity.Receipt) dto.ReceiptResponse {
	return dto.ReceiptResponse{
		ID:            r.ID,
		ReceiptNumber: r.ReceiptNumber,
		InvoiceID:     r.InvoiceID,
		CustomerID:    r.CustomerID,
		BranchID:      r.BranchID,
		Amount:        r.Amount,
		PaymentMethod: string(r.PaymentMethod),
		Notes:         r.Notes,
		IsPrinted:     r.IsPrinted,
		PrintedAt:     r.PrintedAt,
		CreatedAt:     r.CreatedAt,
		UpdatedAt:     r.UpdatedAt,
	}
}
