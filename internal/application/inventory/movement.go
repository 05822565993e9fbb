package inventory

import (
	"context"
	"fmt"

	"github.com/google/uuid"

	"github.com/jhoicas/FarmHub-api/internal/application/dto"
	"github.com/jhoicas/FarmHub-api/internal/application/usecase"
	"github.com/jhoicas/FarmHub-api/internal/domain"
	"github.com/jhoicas/FarmHub-api/internal/domain/access"
	"github.com/jhoicas/FarmHub-api/internal/domain/entity"
	stock "github.com/jhoicas/FarmHub-api/internal/domain/inventory"
	"github.com/jhoicas/FarmHub-api/internal/domain/repository"
)

// RegisterMovementUseCase aplica movimientos de stock (IN, OUT, ADJUSTMENT) con el ítem bloqueado
// durante la transacción, y consulta su historial.
type RegisterMovementUseCase struct {
	tx           TxRunner
	itemRepo     repository.InventoryItemRepository
	movementRepo repository.StockMovementRepository
	opts         Options
}

// NewRegisterMovementUseCase construye el caso de uso.
func NewRegisterMovementUseCase(
	tx TxRunner,
	itemRepo repository.InventoryItemRepository,
	movementRepo repository.StockMovementRepository,
	opts Options,
) *RegisterMovementUseCase {
	return &RegisterMovementUseCase{tx: tx, itemRepo: itemRepo, movementRepo: movementRepo, opts: opts.withDefaults()}
}

// RegisterMovement bloquea el ítem, aplica el movimiento, guarda la nueva existencia y el registro del
// movimiento. Todo o nada: una salida sin existencia suficiente no deja rastro.
func (uc *RegisterMovementUseCase) RegisterMovement(ctx context.Context, scope *access.Scope, itemID string, in dto.AdjustStockRequest) (*dto.AdjustStockResponse, error) {
	if err := requireInventory(scope); err != nil {
		return nil, err
	}

	var (
		item *entity.InventoryItem
		mov  *entity.StockMovement
	)
	err := uc.tx.RunInventory(ctx, func(items repository.InventoryItemRepository, movements repository.StockMovementRepository) error {
		var err error
		item, err = items.GetForUpdate(ctx, itemID)
		if err != nil {
			return err
		}
		if item == nil {
			return fmt.Errorf("%w: ítem %s", domain.ErrNotFound, itemID)
		}
		if !access.CanAccess(scope, item.BranchID) {
			return fmt.Errorf("%w: el ítem pertenece a otra sucursal", domain.ErrScopeViolation)
		}

		before := stock.Level{Quantity: item.Quantity, Value: item.Value}
		after, err := stock.Apply(before, in.Type, in.Quantity, in.UnitCost)
		if err != nil {
			return err
		}

		now := uc.opts.Now()
		item.Quantity = after.Quantity
		item.Value = after.Value
		item.UpdatedAt = now
		if err := items.Update(ctx, item); err != nil {
			return err
		}
		mov = &entity.StockMovement{
			ID:             uuid.New().String(),
			ItemID:         item.ID,
			BranchID:       item.BranchID,
			Type:           in.Type,
			Quantity:       after.Quantity.Sub(before.Quantity),
			QuantityBefore: before.Quantity,
			QuantityAfter:  after.Quantity,
			Reason:         in.Reason,
			CreatedBy:      scope.UserID,
			CreatedAt:      now,
		}
		return movements.Create(ctx, mov)
	})
	if err != nil {
		uc.opts.Logger.Debug().Err(err).Str("item_id", itemID).Str("type", in.Type).Msg("movimiento rechazado")
		return nil, err
	}

	uc.opts.Metrics.StockMoved(mov.Type)
	if item.IsLowStock() {
		uc.opts.Logger.Info().Str("item_id", item.ID).Str("branch_id", item.BranchID).
			Str("quantity", item.Quantity.String()).Msg("existencia en o bajo el mínimo")
	}
	return &dto.AdjustStockResponse{Item: *toItemResponse(item), Movement: toMovementResponse(mov)}, nil
}

// ListMovements historial del ítem, el más reciente primero.
func (uc *RegisterMovementUseCase) ListMovements(ctx context.Context, scope *access.Scope, itemID string, p dto.PageRequest) (*dto.StockMovementListResponse, error) {
	if _, err := loadItem(ctx, uc.itemRepo, scope, itemID); err != nil {
		return nil, err
	}
	list, err := uc.movementRepo.ListByItem(ctx, itemID)
	if err != nil {
		return nil, err
	}
	visible, meta := usecase.Page(access.Filter(scope, list), p)
	out := &dto.StockMovementListResponse{Items: make([]dto.StockMovementResponse, 0, len(visible)), Page: meta}
	for _, m := range visible {
		out.Items = append(out.Items, toMovementResponse(m))
	}
	return out, nil
}
