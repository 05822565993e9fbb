package finance

import (
	"context"
	"fmt"

	"github.com/google/uuid"

	"github.com/jhoicas/FarmHub-api/internal/application/dto"
	"github.com/jhoicas/FarmHub-api/internal/domain"
	"github.com/jhoicas/FarmHub-api/internal/domain/access"
	"github.com/jhoicas/FarmHub-api/internal/domain/entity"
	findomain "github.com/jhoicas/FarmHub-api/internal/domain/finance"
	"github.com/jhoicas/FarmHub-api/internal/domain/repository"
)

// ReceiptUseCase recibos de pago. Solo se emiten contra facturas pagadas; la primera impresión
// cierra el recibo (is_printed) y desde entonces no admite ediciones ni borrado.
type ReceiptUseCase struct {
	base
	receiptRepo  repository.ReceiptRepository
	customerRepo repository.CustomerRepository
}

// NewReceiptUseCase construye el caso de uso. receiptRepo y customerRepo se usan solo para lecturas.
func NewReceiptUseCase(
	tx TxRunner,
	receiptRepo repository.ReceiptRepository,
	customerRepo repository.CustomerRepository,
	opts Options,
) *ReceiptUseCase {
	return &ReceiptUseCase{
		base:         newBase(tx, opts),
		receiptRepo:  receiptRepo,
		customerRepo: customerRepo,
	}
}

// Create emite un recibo contra una factura pagada. Cliente y sucursal se copian de la factura;
// sin amount se usa el total de la factura.
func (uc *ReceiptUseCase) Create(ctx context.Context, scope *access.Scope, in dto.CreateReceiptRequest) (*dto.ReceiptResponse, error) {
	if err := requireFinance(scope); err != nil {
		return nil, err
	}
	method := entity.PaymentMethod(in.PaymentMethod)
	if !method.IsValid() {
		return nil, fmt.Errorf("%w: payment_method inválido", domain.ErrInvalidInput)
	}
	if in.Amount != nil && !in.Amount.Round(moneyScale).IsPositive() {
		return nil, fmt.Errorf("%w: amount debe ser mayor a cero", domain.ErrInvalidInput)
	}

	now := uc.now()
	var r *entity.Receipt
	err := uc.tx.RunFinance(ctx, func(
		_ repository.QuotationRepository,
		invoiceRepo repository.InvoiceRepository,
		receiptRepo repository.ReceiptRepository,
		_ repository.CustomerRepository,
		counterRepo repository.CounterRepository,
	) error {
		inv, err := invoiceRepo.GetForUpdate(ctx, in.InvoiceID)
		if err != nil {
			return fmt.Errorf("obtener factura: %w", err)
		}
		if inv == nil {
			return fmt.Errorf("%w: la factura %s no existe", domain.ErrInvalidReference, in.InvoiceID)
		}
		if err := checkScope(scope, inv.BranchID); err != nil {
			return err
		}
		if inv.Status != entity.InvoiceStatusPaid {
			return fmt.Errorf("%w: la factura %s no está pagada (estado %s)", domain.ErrInvalidReference, inv.InvoiceNumber, inv.Status)
		}

		amount := inv.Total
		if in.Amount != nil {
			amount = in.Amount.Round(moneyScale)
		}
		r = &entity.Receipt{
			ID:            uuid.New().String(),
			InvoiceID:     inv.ID,
			CustomerID:    inv.CustomerID,
			BranchID:      inv.BranchID,
			Amount:        amount,
			PaymentMethod: method,
			Notes:         in.Notes,
			CreatedAt:     now,
			UpdatedAt:     now,
		}
		if r.ReceiptNumber, err = nextNumber(ctx, counterRepo, findomain.KindReceipt, now); err != nil {
			return err
		}
		return receiptRepo.Create(ctx, r)
	})
	if err != nil {
		return nil, uc.fail(findomain.KindReceipt, err)
	}

	uc.metrics.DocumentCreated(findomain.KindReceipt, "unprinted")
	uc.log.Info().Str("number", r.ReceiptNumber).Str("invoice_id", r.InvoiceID).Str("amount", r.Amount.String()).Msg("recibo emitido")
	resp := toReceiptResponse(r)
	return &resp, nil
}

// Update edita monto, medio de pago o notas. Prohibido después de imprimir.
func (uc *ReceiptUseCase) Update(ctx context.Context, scope *access.Scope, id string, in dto.UpdateReceiptRequest) (*dto.ReceiptResponse, error) {
	if err := requireFinance(scope); err != nil {
		return nil, err
	}
	if in.PaymentMethod != nil && !entity.PaymentMethod(*in.PaymentMethod).IsValid() {
		return nil, fmt.Errorf("%w: payment_method inválido", domain.ErrInvalidInput)
	}
	if in.Amount != nil && !in.Amount.Round(moneyScale).IsPositive() {
		return nil, fmt.Errorf("%w: amount debe ser mayor a cero", domain.ErrInvalidInput)
	}

	var updated *entity.Receipt
	err := uc.tx.RunFinance(ctx, func(
		_ repository.QuotationRepository,
		_ repository.InvoiceRepository,
		receiptRepo repository.ReceiptRepository,
		_ repository.CustomerRepository,
		_ repository.CounterRepository,
	) error {
		r, err := uc.lockReceipt(ctx, receiptRepo, scope, id)
		if err != nil {
			return err
		}
		if r.IsPrinted {
			return immutable("el recibo", r.ReceiptNumber, "impreso")
		}
		if in.Amount != nil {
			r.Amount = in.Amount.Round(moneyScale)
		}
		if in.PaymentMethod != nil {
			r.PaymentMethod = entity.PaymentMethod(*in.PaymentMethod)
		}
		if in.Notes != nil {
			r.Notes = *in.Notes
		}
		r.UpdatedAt = uc.now()
		if err := receiptRepo.Update(ctx, r); err != nil {
			return err
		}
		updated = r
		return nil
	})
	if err != nil {
		return nil, uc.fail(findomain.KindReceipt, err)
	}
	resp := toReceiptResponse(updated)
	return &resp, nil
}

// Delete elimina un recibo no impreso.
func (uc *ReceiptUseCase) Delete(ctx context.Context, scope *access.Scope, id string) error {
	if err := requireFinance(scope); err != nil {
		return err
	}
	err := uc.tx.RunFinance(ctx, func(
		_ repository.QuotationRepository,
		_ repository.InvoiceRepository,
		receiptRepo repository.ReceiptRepository,
		_ repository.CustomerRepository,
		_ repository.CounterRepository,
	) error {
		r, err := uc.lockReceipt(ctx, receiptRepo, scope, id)
		if err != nil {
			return err
		}
		if r.IsPrinted {
			return immutable("el recibo", r.ReceiptNumber, "impreso")
		}
		return receiptRepo.Delete(ctx, id)
	})
	return uc.fail(findomain.KindReceipt, err)
}

// Print marca el recibo como impreso. La primera llamada fija is_printed y printed_at;
// las siguientes son reimpresiones y no cambian nada.
func (uc *ReceiptUseCase) Print(ctx context.Context, scope *access.Scope, id string) (*entity.Receipt, error) {
	if err := requireFinance(scope); err != nil {
		return nil, err
	}
	var r *entity.Receipt
	latched := false
	err := uc.tx.RunFinance(ctx, func(
		_ repository.QuotationRepository,
		_ repository.InvoiceRepository,
		receiptRepo repository.ReceiptRepository,
		_ repository.CustomerRepository,
		_ repository.CounterRepository,
	) error {
		var err error
		if r, err = uc.lockReceipt(ctx, receiptRepo, scope, id); err != nil {
			return err
		}
		if r.IsPrinted {
			return nil
		}
		now := uc.now()
		r.IsPrinted = true
		r.PrintedAt = &now
		r.UpdatedAt = now
		latched = true
		return receiptRepo.Update(ctx, r)
	})
	if err != nil {
		return nil, uc.fail(findomain.KindReceipt, err)
	}
	if latched {
		uc.metrics.DocumentTransition(findomain.KindReceipt, "unprinted", "printed")
		uc.log.Info().Str("number", r.ReceiptNumber).Msg("recibo impreso")
	}
	return r, nil
}

// Get obtiene el recibo con su payload QR.
func (uc *ReceiptUseCase) Get(ctx context.Context, scope *access.Scope, id string) (*dto.ReceiptResponse, error) {
	if err := requireFinance(scope); err != nil {
		return nil, err
	}
	r, err := uc.receiptRepo.GetByID(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("obtener recibo: %w", err)
	}
	if r == nil {
		return nil, notFound("recibo", id)
	}
	if err := checkScope(scope, r.BranchID); err != nil {
		return nil, uc.fail(findomain.KindReceipt, err)
	}
	resp := toReceiptResponse(r)
	resp.QRData = findomain.ReceiptQR(r, customerName(ctx, uc.customerRepo, r.CustomerID)).String()
	return &resp, nil
}

// List recibos visibles para la sesión (más recientes primero).
func (uc *ReceiptUseCase) List(ctx context.Context, scope *access.Scope) ([]dto.ReceiptResponse, error) {
	if err := requireFinance(scope); err != nil {
		return nil, err
	}
	branchID, ok := listBranch(scope)
	if !ok {
		return []dto.ReceiptResponse{}, nil
	}
	list, err := uc.receiptRepo.ListByBranch(ctx, branchID)
	if err != nil {
		return nil, fmt.Errorf("listar recibos: %w", err)
	}
	list = access.Filter(scope, list)
	out := make([]dto.ReceiptResponse, 0, len(list))
	for _, r := range list {
		out = append(out, toReceiptResponse(r))
	}
	return out, nil
}

func (uc *ReceiptUseCase) lockReceipt(ctx context.Context, receiptRepo repository.ReceiptRepository, scope *access.Scope, id string) (*entity.Receipt, error) {
	r, err := receiptRepo.GetForUpdate(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("obtener recibo: %w", err)
	}
	if r == nil {
		return nil, notFound("recibo", id)
	}
	if err := checkScope(scope, r.BranchID); err != nil {
		return nil, err
	}
	return r, nil
}
