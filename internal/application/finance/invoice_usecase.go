package finance

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/jhoicas/FarmHub-api/internal/application/dto"
	"github.com/jhoicas/FarmHub-api/internal/domain"
	"github.com/jhoicas/FarmHub-api/internal/domain/access"
	"github.com/jhoicas/FarmHub-api/internal/domain/entity"
	findomain "github.com/jhoicas/FarmHub-api/internal/domain/finance"
	"github.com/jhoicas/FarmHub-api/internal/domain/repository"
)

// InvoiceUseCase ciclo de vida de facturas:
//
//	draft → sent → paid (estampa paid_at, irreversible)
//	draft|sent|overdue → cancelled
//
// overdue no se persiste: se deriva de due_date al leer. Una factura pagada es inmutable.
type InvoiceUseCase struct {
	base
	invoiceRepo  repository.InvoiceRepository
	customerRepo repository.CustomerRepository
}

// NewInvoiceUseCase construye el caso de uso. invoiceRepo y customerRepo se usan solo para lecturas.
func NewInvoiceUseCase(
	tx TxRunner,
	invoiceRepo repository.InvoiceRepository,
	customerRepo repository.CustomerRepository,
	opts Options,
) *InvoiceUseCase {
	return &InvoiceUseCase{
		base:         newBase(tx, opts),
		invoiceRepo:  invoiceRepo,
		customerRepo: customerRepo,
	}
}

// Create crea una factura directa (sin cotización) en draft, o sent si in.Notify.
func (uc *InvoiceUseCase) Create(ctx context.Context, scope *access.Scope, in dto.CreateInvoiceRequest) (*dto.InvoiceResponse, error) {
	if err := requireFinance(scope); err != nil {
		return nil, err
	}
	items, err := buildItems(in.Items)
	if err != nil {
		return nil, uc.fail(findomain.KindInvoice, err)
	}
	dueDate, err := parseDate("due_date", in.DueDate)
	if err != nil {
		return nil, err
	}

	now := uc.now()
	status := entity.InvoiceStatusDraft
	if in.Notify {
		status = entity.InvoiceStatusSent
	}
	totals := findomain.ComputeTotals(items)
	inv := &entity.Invoice{
		ID:         uuid.New().String(),
		CustomerID: in.CustomerID,
		Items:      items,
		Subtotal:   totals.Subtotal,
		Tax:        totals.Tax,
		Total:      totals.Total,
		Status:     status,
		DueDate:    dueDate,
		Notes:      in.Notes,
		CreatedAt:  now,
		UpdatedAt:  now,
	}

	var customer *entity.Customer
	err = uc.tx.RunFinance(ctx, func(
		_ repository.QuotationRepository,
		invoiceRepo repository.InvoiceRepository,
		_ repository.ReceiptRepository,
		customerRepo repository.CustomerRepository,
		counterRepo repository.CounterRepository,
	) error {
		c, branchID, err := resolveCustomer(ctx, customerRepo, scope, in.CustomerID, in.BranchID)
		if err != nil {
			return err
		}
		customer = c
		inv.BranchID = branchID
		if inv.InvoiceNumber, err = nextNumber(ctx, counterRepo, findomain.KindInvoice, now); err != nil {
			return err
		}
		return invoiceRepo.Create(ctx, inv)
	})
	if err != nil {
		return nil, uc.fail(findomain.KindInvoice, err)
	}

	uc.metrics.DocumentCreated(findomain.KindInvoice, inv.Status.String())
	uc.log.Info().Str("number", inv.InvoiceNumber).Str("branch_id", inv.BranchID).Str("status", inv.Status.String()).Msg("factura creada")
	if in.Notify {
		uc.notify(ctx, invoiceNotification(inv, customer, now))
	}
	resp := toInvoiceResponse(inv, now)
	return &resp, nil
}

// Update edita cliente, líneas, vencimiento o notas. Prohibido si la factura está pagada.
func (uc *InvoiceUseCase) Update(ctx context.Context, scope *access.Scope, id string, in dto.UpdateInvoiceRequest) (*dto.InvoiceResponse, error) {
	if err := requireFinance(scope); err != nil {
		return nil, err
	}
	var items []entity.DocumentItem
	if in.Items != nil {
		var err error
		if items, err = buildItems(in.Items); err != nil {
			return nil, uc.fail(findomain.KindInvoice, err)
		}
	}
	var dueDate time.Time
	if in.DueDate != nil {
		var err error
		if dueDate, err = parseDate("due_date", *in.DueDate); err != nil {
			return nil, err
		}
	}

	var updated *entity.Invoice
	err := uc.tx.RunFinance(ctx, func(
		_ repository.QuotationRepository,
		invoiceRepo repository.InvoiceRepository,
		_ repository.ReceiptRepository,
		customerRepo repository.CustomerRepository,
		_ repository.CounterRepository,
	) error {
		inv, err := uc.lockInvoice(ctx, invoiceRepo, scope, id)
		if err != nil {
			return err
		}
		if inv.IsLocked() {
			return immutable("la factura", inv.InvoiceNumber, "pagada")
		}
		if in.CustomerID != nil && *in.CustomerID != inv.CustomerID {
			c, err := loadCustomer(ctx, customerRepo, *in.CustomerID)
			if err != nil {
				return err
			}
			if c.BranchID != inv.BranchID {
				return fmt.Errorf("%w: el cliente no pertenece a la sucursal del documento", domain.ErrInvalidReference)
			}
			inv.CustomerID = c.ID
		}
		if items != nil {
			totals := findomain.ComputeTotals(items)
			inv.Items, inv.Subtotal, inv.Tax, inv.Total = items, totals.Subtotal, totals.Tax, totals.Total
		}
		if in.DueDate != nil {
			inv.DueDate = dueDate
		}
		if in.Notes != nil {
			inv.Notes = *in.Notes
		}
		inv.UpdatedAt = uc.now()
		if err := invoiceRepo.Update(ctx, inv); err != nil {
			return err
		}
		updated = inv
		return nil
	})
	if err != nil {
		return nil, uc.fail(findomain.KindInvoice, err)
	}
	resp := toInvoiceResponse(updated, uc.now())
	return &resp, nil
}

// Delete elimina la factura. Prohibido si está pagada.
func (uc *InvoiceUseCase) Delete(ctx context.Context, scope *access.Scope, id string) error {
	if err := requireFinance(scope); err != nil {
		return err
	}
	err := uc.tx.RunFinance(ctx, func(
		_ repository.QuotationRepository,
		invoiceRepo repository.InvoiceRepository,
		_ repository.ReceiptRepository,
		_ repository.CustomerRepository,
		_ repository.CounterRepository,
	) error {
		inv, err := uc.lockInvoice(ctx, invoiceRepo, scope, id)
		if err != nil {
			return err
		}
		if inv.IsLocked() {
			return immutable("la factura", inv.InvoiceNumber, "pagada")
		}
		return invoiceRepo.Delete(ctx, id)
	})
	return uc.fail(findomain.KindInvoice, err)
}

// Send draft → sent y notifica al cliente.
func (uc *InvoiceUseCase) Send(ctx context.Context, scope *access.Scope, id string) (*dto.InvoiceResponse, error) {
	inv, customer, err := uc.transition(ctx, scope, id, entity.InvoiceStatusSent)
	if err != nil {
		return nil, err
	}
	now := uc.now()
	uc.notify(ctx, invoiceNotification(inv, customer, now))
	resp := toInvoiceResponse(inv, now)
	return &resp, nil
}

// MarkPaid draft|sent|overdue → paid; estampa paid_at con la fecha actual.
func (uc *InvoiceUseCase) MarkPaid(ctx context.Context, scope *access.Scope, id string) (*dto.InvoiceResponse, error) {
	inv, _, err := uc.transition(ctx, scope, id, entity.InvoiceStatusPaid)
	if err != nil {
		return nil, err
	}
	resp := toInvoiceResponse(inv, uc.now())
	return &resp, nil
}

// Cancel draft|sent|overdue → cancelled. Una factura pagada no se puede cancelar.
func (uc *InvoiceUseCase) Cancel(ctx context.Context, scope *access.Scope, id string) (*dto.InvoiceResponse, error) {
	inv, _, err := uc.transition(ctx, scope, id, entity.InvoiceStatusCancelled)
	if err != nil {
		return nil, err
	}
	resp := toInvoiceResponse(inv, uc.now())
	return &resp, nil
}

// Get obtiene la factura con estado efectivo y payload QR.
func (uc *InvoiceUseCase) Get(ctx context.Context, scope *access.Scope, id string) (*dto.InvoiceResponse, error) {
	if err := requireFinance(scope); err != nil {
		return nil, err
	}
	inv, err := uc.invoiceRepo.GetByID(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("obtener factura: %w", err)
	}
	if inv == nil {
		return nil, notFound("factura", id)
	}
	if err := checkScope(scope, inv.BranchID); err != nil {
		return nil, uc.fail(findomain.KindInvoice, err)
	}
	now := uc.now()
	resp := toInvoiceResponse(inv, now)
	resp.QRData = findomain.InvoiceQR(inv, customerName(ctx, uc.customerRepo, inv.CustomerID), inv.EffectiveStatus(now)).String()
	return &resp, nil
}

// List facturas visibles para la sesión (más recientes primero).
func (uc *InvoiceUseCase) List(ctx context.Context, scope *access.Scope) ([]dto.InvoiceResponse, error) {
	if err := requireFinance(scope); err != nil {
		return nil, err
	}
	branchID, ok := listBranch(scope)
	if !ok {
		return []dto.InvoiceResponse{}, nil
	}
	list, err := uc.invoiceRepo.ListByBranch(ctx, branchID)
	if err != nil {
		return nil, fmt.Errorf("listar facturas: %w", err)
	}
	list = access.Filter(scope, list)
	now := uc.now()
	out := make([]dto.InvoiceResponse, 0, len(list))
	for _, inv := range list {
		out = append(out, toInvoiceResponse(inv, now))
	}
	return out, nil
}

func (uc *InvoiceUseCase) transition(ctx context.Context, scope *access.Scope, id string, target entity.InvoiceStatus) (*entity.Invoice, *entity.Customer, error) {
	if err := requireFinance(scope); err != nil {
		return nil, nil, err
	}
	now := uc.now()
	var inv *entity.Invoice
	var customer *entity.Customer
	var from entity.InvoiceStatus
	err := uc.tx.RunFinance(ctx, func(
		_ repository.QuotationRepository,
		invoiceRepo repository.InvoiceRepository,
		_ repository.ReceiptRepository,
		customerRepo repository.CustomerRepository,
		_ repository.CounterRepository,
	) error {
		var err error
		if inv, err = uc.lockInvoice(ctx, invoiceRepo, scope, id); err != nil {
			return err
		}
		if inv.IsLocked() && target == entity.InvoiceStatusCancelled {
			return immutable("la factura", inv.InvoiceNumber, "pagada")
		}
		if !inv.Status.CanTransitionTo(target) {
			return invalidTransition("la factura", inv.Status, target)
		}
		if customer, err = customerRepo.GetByID(ctx, inv.CustomerID); err != nil {
			return fmt.Errorf("obtener cliente: %w", err)
		}
		from = inv.Status
		inv.Status = target
		if target == entity.InvoiceStatusPaid {
			paidAt := now
			inv.PaidAt = &paidAt
		}
		inv.UpdatedAt = now
		return invoiceRepo.Update(ctx, inv)
	})
	if err != nil {
		return nil, nil, uc.fail(findomain.KindInvoice, err)
	}
	uc.metrics.DocumentTransition(findomain.KindInvoice, from.String(), target.String())
	uc.log.Info().Str("number", inv.InvoiceNumber).Str("from", from.String()).Str("to", target.String()).Msg("factura actualizada")
	return inv, customer, nil
}

func (uc *InvoiceUseCase) lockInvoice(ctx context.Context, invoiceRepo repository.InvoiceRepository, scope *access.Scope, id string) (*entity.Invoice, error) {
	inv, err := invoiceRepo.GetForUpdate(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("obtener factura: %w", err)
	}
	if inv == nil {
		return nil, notFound("factura", id)
	}
	if err := checkScope(scope, inv.BranchID); err != nil {
		return nil, err
	}
	return inv, nil
}

func invoiceNotification(inv *entity.Invoice, c *entity.Customer, now time.Time) DocumentNotification {
	n := DocumentNotification{
		Kind:    findomain.KindInvoice,
		Number:  inv.InvoiceNumber,
		Total:   inv.Total,
		DueDate: inv.DueDate,
	}
	if c != nil {
		n.CustomerName, n.CustomerEmail = c.Name, c.Email
		n.QRData = findomain.InvoiceQR(inv, c.Name, inv.EffectiveStatus(now)).String()
	}
	return n
}
