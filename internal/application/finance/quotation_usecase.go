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

// QuotationUseCase ciclo de vida de cotizaciones:
//
//	create → draft|sent → accepted|rejected; accepted → converted (crea la factura).
//
// Una cotización convertida no admite ediciones ni borrado.
type QuotationUseCase struct {
	base
	quoteRepo    repository.QuotationRepository
	customerRepo repository.CustomerRepository
}

// NewQuotationUseCase construye el caso de uso. quoteRepo y customerRepo se usan solo para lecturas.
func NewQuotationUseCase(
	tx TxRunner,
	quoteRepo repository.QuotationRepository,
	customerRepo repository.CustomerRepository,
	opts Options,
) *QuotationUseCase {
	return &QuotationUseCase{
		base:         newBase(tx, opts),
		quoteRepo:    quoteRepo,
		customerRepo: customerRepo,
	}
}

// Create crea la cotización en draft (o sent si in.Notify) con número QT-YYYY-NNN.
func (uc *QuotationUseCase) Create(ctx context.Context, scope *access.Scope, in dto.CreateQuotationRequest) (*dto.QuotationResponse, error) {
	if err := requireFinance(scope); err != nil {
		return nil, err
	}
	items, err := buildItems(in.Items)
	if err != nil {
		return nil, uc.fail(findomain.KindQuotation, err)
	}
	validUntil, err := parseDate("valid_until", in.ValidUntil)
	if err != nil {
		return nil, err
	}

	now := uc.now()
	status := entity.QuotationStatusDraft
	if in.Notify {
		status = entity.QuotationStatusSent
	}
	totals := findomain.ComputeTotals(items)
	q := &entity.Quotation{
		ID:         uuid.New().String(),
		CustomerID: in.CustomerID,
		Items:      items,
		Subtotal:   totals.Subtotal,
		Tax:        totals.Tax,
		Total:      totals.Total,
		Status:     status,
		ValidUntil: validUntil,
		Notes:      in.Notes,
		CreatedAt:  now,
		UpdatedAt:  now,
	}

	var customer *entity.Customer
	err = uc.tx.RunFinance(ctx, func(
		quoteRepo repository.QuotationRepository,
		_ repository.InvoiceRepository,
		_ repository.ReceiptRepository,
		customerRepo repository.CustomerRepository,
		counterRepo repository.CounterRepository,
	) error {
		c, branchID, err := resolveCustomer(ctx, customerRepo, scope, in.CustomerID, in.BranchID)
		if err != nil {
			return err
		}
		customer = c
		q.BranchID = branchID
		number, err := nextNumber(ctx, counterRepo, findomain.KindQuotation, now)
		if err != nil {
			return err
		}
		q.QuotationNumber = number
		return quoteRepo.Create(ctx, q)
	})
	if err != nil {
		return nil, uc.fail(findomain.KindQuotation, err)
	}

	uc.metrics.DocumentCreated(findomain.KindQuotation, q.Status.String())
	uc.log.Info().Str("number", q.QuotationNumber).Str("branch_id", q.BranchID).Str("status", q.Status.String()).Msg("cotización creada")
	if in.Notify {
		uc.notify(ctx, quotationNotification(q, customer))
	}
	resp := toQuotationResponse(q)
	return &resp, nil
}

// Update edita cliente, líneas, vigencia o notas. Totales recalculados. Prohibido si está convertida.
func (uc *QuotationUseCase) Update(ctx context.Context, scope *access.Scope, id string, in dto.UpdateQuotationRequest) (*dto.QuotationResponse, error) {
	if err := requireFinance(scope); err != nil {
		return nil, err
	}
	var items []entity.DocumentItem
	if in.Items != nil {
		var err error
		if items, err = buildItems(in.Items); err != nil {
			return nil, uc.fail(findomain.KindQuotation, err)
		}
	}
	var validUntil time.Time
	if in.ValidUntil != nil {
		var err error
		if validUntil, err = parseDate("valid_until", *in.ValidUntil); err != nil {
			return nil, err
		}
	}

	var updated *entity.Quotation
	err := uc.tx.RunFinance(ctx, func(
		quoteRepo repository.QuotationRepository,
		_ repository.InvoiceRepository,
		_ repository.ReceiptRepository,
		customerRepo repository.CustomerRepository,
		_ repository.CounterRepository,
	) error {
		q, err := uc.lockQuotation(ctx, quoteRepo, scope, id)
		if err != nil {
			return err
		}
		if q.IsLocked() {
			return immutable("la cotización", q.QuotationNumber, "convertida")
		}
		if in.CustomerID != nil && *in.CustomerID != q.CustomerID {
			c, err := loadCustomer(ctx, customerRepo, *in.CustomerID)
			if err != nil {
				return err
			}
			if c.BranchID != q.BranchID {
				return fmt.Errorf("%w: el cliente no pertenece a la sucursal del documento", domain.ErrInvalidReference)
			}
			q.CustomerID = c.ID
		}
		if items != nil {
			totals := findomain.ComputeTotals(items)
			q.Items, q.Subtotal, q.Tax, q.Total = items, totals.Subtotal, totals.Tax, totals.Total
		}
		if in.ValidUntil != nil {
			q.ValidUntil = validUntil
		}
		if in.Notes != nil {
			q.Notes = *in.Notes
		}
		q.UpdatedAt = uc.now()
		if err := quoteRepo.Update(ctx, q); err != nil {
			return err
		}
		updated = q
		return nil
	})
	if err != nil {
		return nil, uc.fail(findomain.KindQuotation, err)
	}
	resp := toQuotationResponse(updated)
	return &resp, nil
}

// Delete elimina la cotización. Prohibido si está convertida.
func (uc *QuotationUseCase) Delete(ctx context.Context, scope *access.Scope, id string) error {
	if err := requireFinance(scope); err != nil {
		return err
	}
	err := uc.tx.RunFinance(ctx, func(
		quoteRepo repository.QuotationRepository,
		_ repository.InvoiceRepository,
		_ repository.ReceiptRepository,
		_ repository.CustomerRepository,
		_ repository.CounterRepository,
	) error {
		q, err := uc.lockQuotation(ctx, quoteRepo, scope, id)
		if err != nil {
			return err
		}
		if q.IsLocked() {
			return immutable("la cotización", q.QuotationNumber, "convertida")
		}
		return quoteRepo.Delete(ctx, id)
	})
	return uc.fail(findomain.KindQuotation, err)
}

// Send draft → sent y notifica al cliente.
func (uc *QuotationUseCase) Send(ctx context.Context, scope *access.Scope, id string) (*dto.QuotationResponse, error) {
	q, customer, err := uc.transition(ctx, scope, id, entity.QuotationStatusSent)
	if err != nil {
		return nil, err
	}
	uc.notify(ctx, quotationNotification(q, customer))
	resp := toQuotationResponse(q)
	return &resp, nil
}

// Accept draft|sent → accepted.
func (uc *QuotationUseCase) Accept(ctx context.Context, scope *access.Scope, id string) (*dto.QuotationResponse, error) {
	q, _, err := uc.transition(ctx, scope, id, entity.QuotationStatusAccepted)
	if err != nil {
		return nil, err
	}
	resp := toQuotationResponse(q)
	return &resp, nil
}

// Reject draft|sent → rejected.
func (uc *QuotationUseCase) Reject(ctx context.Context, scope *access.Scope, id string) (*dto.QuotationResponse, error) {
	q, _, err := uc.transition(ctx, scope, id, entity.QuotationStatusRejected)
	if err != nil {
		return nil, err
	}
	resp := toQuotationResponse(q)
	return &resp, nil
}

// Convert accepted → converted. En la misma transacción crea exactamente una factura draft con copia
// de las líneas, totales recalculados, número INV nuevo y quotation_id apuntando a la cotización.
// dueDate vacío usa la vigencia de la cotización.
func (uc *QuotationUseCase) Convert(ctx context.Context, scope *access.Scope, id, dueDate string) (*dto.ConvertQuotationResponse, error) {
	if err := requireFinance(scope); err != nil {
		return nil, err
	}
	var due time.Time
	if dueDate != "" {
		var err error
		if due, err = parseDate("due_date", dueDate); err != nil {
			return nil, err
		}
	}

	now := uc.now()
	var q *entity.Quotation
	var inv *entity.Invoice
	err := uc.tx.RunFinance(ctx, func(
		quoteRepo repository.QuotationRepository,
		invoiceRepo repository.InvoiceRepository,
		_ repository.ReceiptRepository,
		_ repository.CustomerRepository,
		counterRepo repository.CounterRepository,
	) error {
		var err error
		if q, err = uc.lockQuotation(ctx, quoteRepo, scope, id); err != nil {
			return err
		}
		if !q.Status.CanTransitionTo(entity.QuotationStatusConverted) {
			return invalidTransition("la cotización", q.Status, entity.QuotationStatusConverted)
		}

		items := findomain.PrepareItems(q.Items)
		for i := range items {
			items[i].ID = uuid.New().String()
		}
		totals := findomain.ComputeTotals(items)
		if due.IsZero() {
			due = q.ValidUntil
		}
		inv = &entity.Invoice{
			ID:          uuid.New().String(),
			CustomerID:  q.CustomerID,
			BranchID:    q.BranchID,
			QuotationID: q.ID,
			Items:       items,
			Subtotal:    totals.Subtotal,
			Tax:         totals.Tax,
			Total:       totals.Total,
			Status:      entity.InvoiceStatusDraft,
			DueDate:     due,
			Notes:       q.Notes,
			CreatedAt:   now,
			UpdatedAt:   now,
		}
		if inv.InvoiceNumber, err = nextNumber(ctx, counterRepo, findomain.KindInvoice, now); err != nil {
			return err
		}
		if err := invoiceRepo.Create(ctx, inv); err != nil {
			return err
		}

		q.Status = entity.QuotationStatusConverted
		q.UpdatedAt = now
		return quoteRepo.Update(ctx, q)
	})
	if err != nil {
		return nil, uc.fail(findomain.KindQuotation, err)
	}

	uc.metrics.DocumentTransition(findomain.KindQuotation, entity.QuotationStatusAccepted.String(), entity.QuotationStatusConverted.String())
	uc.metrics.DocumentCreated(findomain.KindInvoice, inv.Status.String())
	uc.log.Info().Str("quotation", q.QuotationNumber).Str("invoice", inv.InvoiceNumber).Msg("cotización convertida en factura")
	return &dto.ConvertQuotationResponse{
		Quotation: toQuotationResponse(q),
		Invoice:   toInvoiceResponse(inv, now),
	}, nil
}

// Get obtiene la cotización con su payload QR.
func (uc *QuotationUseCase) Get(ctx context.Context, scope *access.Scope, id string) (*dto.QuotationResponse, error) {
	if err := requireFinance(scope); err != nil {
		return nil, err
	}
	q, err := uc.quoteRepo.GetByID(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("obtener cotización: %w", err)
	}
	if q == nil {
		return nil, notFound("cotización", id)
	}
	if err := checkScope(scope, q.BranchID); err != nil {
		return nil, uc.fail(findomain.KindQuotation, err)
	}
	resp := toQuotationResponse(q)
	resp.QRData = findomain.QuotationQR(q, customerName(ctx, uc.customerRepo, q.CustomerID)).String()
	return &resp, nil
}

// List cotizaciones visibles para la sesión (más recientes primero).
func (uc *QuotationUseCase) List(ctx context.Context, scope *access.Scope) ([]dto.QuotationResponse, error) {
	if err := requireFinance(scope); err != nil {
		return nil, err
	}
	branchID, ok := listBranch(scope)
	if !ok {
		return []dto.QuotationResponse{}, nil
	}
	list, err := uc.quoteRepo.ListByBranch(ctx, branchID)
	if err != nil {
		return nil, fmt.Errorf("listar cotizaciones: %w", err)
	}
	list = access.Filter(scope, list)
	out := make([]dto.QuotationResponse, 0, len(list))
	for _, q := range list {
		out = append(out, toQuotationResponse(q))
	}
	return out, nil
}

// transition aplica un cambio de estado simple validado por QuotationStatus.CanTransitionTo.
func (uc *QuotationUseCase) transition(ctx context.Context, scope *access.Scope, id string, target entity.QuotationStatus) (*entity.Quotation, *entity.Customer, error) {
	if err := requireFinance(scope); err != nil {
		return nil, nil, err
	}
	var q *entity.Quotation
	var customer *entity.Customer
	var from entity.QuotationStatus
	err := uc.tx.RunFinance(ctx, func(
		quoteRepo repository.QuotationRepository,
		_ repository.InvoiceRepository,
		_ repository.ReceiptRepository,
		customerRepo repository.CustomerRepository,
		_ repository.CounterRepository,
	) error {
		var err error
		if q, err = uc.lockQuotation(ctx, quoteRepo, scope, id); err != nil {
			return err
		}
		if !q.Status.CanTransitionTo(target) {
			return invalidTransition("la cotización", q.Status, target)
		}
		if customer, err = customerRepo.GetByID(ctx, q.CustomerID); err != nil {
			return fmt.Errorf("obtener cliente: %w", err)
		}
		from = q.Status
		q.Status = target
		q.UpdatedAt = uc.now()
		return quoteRepo.Update(ctx, q)
	})
	if err != nil {
		return nil, nil, uc.fail(findomain.KindQuotation, err)
	}
	uc.metrics.DocumentTransition(findomain.KindQuotation, from.String(), target.String())
	uc.log.Info().Str("number", q.QuotationNumber).Str("from", from.String()).Str("to", target.String()).Msg("cotización actualizada")
	return q, customer, nil
}

func (uc *QuotationUseCase) lockQuotation(ctx context.Context, quoteRepo repository.QuotationRepository, scope *access.Scope, id string) (*entity.Quotation, error) {
	q, err := quoteRepo.GetForUpdate(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("obtener cotización: %w", err)
	}
	if q == nil {
		return nil, notFound("cotización", id)
	}
	if err := checkScope(scope, q.BranchID); err != nil {
		return nil, err
	}
	return q, nil
}

func quotationNotification(q *entity.Quotation, c *entity.Customer) DocumentNotification {
	n := DocumentNotification{
		Kind:    findomain.KindQuotation,
		Number:  q.QuotationNumber,
		Total:   q.Total,
		DueDate: q.ValidUntil,
	}
	if c != nil {
		n.CustomerName, n.CustomerEmail = c.Name, c.Email
		n.QRData = findomain.QuotationQR(q, c.Name).String()
	}
	return n
}
