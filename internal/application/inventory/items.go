package inventory

import (
	"context"
	"fmt"
	"sort"
	"strings"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/jhoicas/FarmHub-api/internal/application/dto"
	"github.com/jhoicas/FarmHub-api/internal/application/usecase"
	"github.com/jhoicas/FarmHub-api/internal/domain"
	"github.com/jhoicas/FarmHub-api/internal/domain/access"
	"github.com/jhoicas/FarmHub-api/internal/domain/entity"
	"github.com/jhoicas/FarmHub-api/internal/domain/repository"
)

// ItemUseCase catálogo de existencias por sucursal (permiso inventory).
type ItemUseCase struct {
	tx         TxRunner
	repo       repository.InventoryItemRepository
	branchRepo repository.BranchRepository
	opts       Options
}

// NewItemUseCase construye el caso de uso. repo se usa para lecturas y cambios sin movimiento.
func NewItemUseCase(tx TxRunner, repo repository.InventoryItemRepository, branchRepo repository.BranchRepository, opts Options) *ItemUseCase {
	return &ItemUseCase{tx: tx, repo: repo, branchRepo: branchRepo, opts: opts.withDefaults()}
}

// Create registra el ítem en la sucursal destino. Una existencia inicial positiva queda como entrada.
func (uc *ItemUseCase) Create(ctx context.Context, scope *access.Scope, in dto.CreateInventoryItemRequest) (*dto.InventoryItemResponse, error) {
	if err := requireInventory(scope); err != nil {
		return nil, err
	}
	if in.Quantity.IsNegative() || in.MinStock.IsNegative() || in.Value.IsNegative() {
		return nil, fmt.Errorf("%w: quantity, min_stock y value no pueden ser negativos", domain.ErrInvalidInput)
	}
	branchID, err := usecase.TargetBranch(ctx, uc.branchRepo, scope, in.BranchID)
	if err != nil {
		return nil, err
	}

	now := uc.opts.Now()
	item := &entity.InventoryItem{
		ID:        uuid.New().String(),
		BranchID:  branchID,
		Name:      strings.TrimSpace(in.Name),
		Category:  entity.InventoryCategory(in.Category),
		Quantity:  in.Quantity,
		Unit:      in.Unit,
		MinStock:  in.MinStock,
		Value:     in.Value.Round(2),
		CreatedAt: now,
		UpdatedAt: now,
	}
	err = uc.tx.RunInventory(ctx, func(items repository.InventoryItemRepository, movements repository.StockMovementRepository) error {
		if err := items.Create(ctx, item); err != nil {
			return err
		}
		if !item.Quantity.IsPositive() {
			return nil
		}
		return movements.Create(ctx, &entity.StockMovement{
			ID:             uuid.New().String(),
			ItemID:         item.ID,
			BranchID:       item.BranchID,
			Type:           entity.MovementTypeIN,
			Quantity:       item.Quantity,
			QuantityBefore: decimal.Zero,
			QuantityAfter:  item.Quantity,
			Reason:         "existencia inicial",
			CreatedBy:      scope.UserID,
			CreatedAt:      now,
		})
	})
	if err != nil {
		return nil, err
	}
	if item.Quantity.IsPositive() {
		uc.opts.Metrics.StockMoved(entity.MovementTypeIN)
	}
	return toItemResponse(item), nil
}

// GetByID ítem visible para la sesión.
func (uc *ItemUseCase) GetByID(ctx context.Context, scope *access.Scope, id string) (*dto.InventoryItemResponse, error) {
	item, err := loadItem(ctx, uc.repo, scope, id)
	if err != nil {
		return nil, err
	}
	return toItemResponse(item), nil
}

// List ítems visibles, filtrados y ordenados por nombre. El resumen cubre todo el filtro, no solo la página.
func (uc *ItemUseCase) List(ctx context.Context, scope *access.Scope, f dto.InventoryFilter, p dto.PageRequest) (*dto.InventoryListResponse, error) {
	if err := requireInventory(scope); err != nil {
		return nil, err
	}
	out := &dto.InventoryListResponse{Items: []dto.InventoryItemResponse{}, Summary: dto.InventorySummary{TotalValue: decimal.Zero}}
	branchID, ok := branchForList(scope)
	if !ok {
		p.DefaultPage()
		out.Page = dto.PageResponse{Limit: p.Limit, Offset: p.Offset}
		return out, nil
	}
	list, err := uc.repo.ListByBranch(ctx, branchID)
	if err != nil {
		return nil, err
	}

	search := strings.ToLower(strings.TrimSpace(f.Search))
	matched := make([]*entity.InventoryItem, 0, len(list))
	for _, it := range access.Filter(scope, list) {
		if f.Category != "" && string(it.Category) != f.Category {
			continue
		}
		if search != "" && !strings.Contains(strings.ToLower(it.Name), search) {
			continue
		}
		if f.LowStock && !it.IsLowStock() {
			continue
		}
		if it.IsLowStock() {
			out.Summary.LowStockCount++
		}
		out.Summary.TotalValue = out.Summary.TotalValue.Add(it.Value)
		matched = append(matched, it)
	}
	sort.SliceStable(matched, func(i, j int) bool { return matched[i].Name < matched[j].Name })

	visible, meta := usecase.Page(matched, p)
	for _, it := range visible {
		out.Items = append(out.Items, *toItemResponse(it))
	}
	out.Page = meta
	return out, nil
}

// Update cambia datos descriptivos. La cantidad solo se mueve con RegisterMovement.
func (uc *ItemUseCase) Update(ctx context.Context, scope *access.Scope, id string, in dto.UpdateInventoryItemRequest) (*dto.InventoryItemResponse, error) {
	item, err := loadItem(ctx, uc.repo, scope, id)
	if err != nil {
		return nil, err
	}
	if in.Name != nil {
		item.Name = strings.TrimSpace(*in.Name)
	}
	if in.Category != nil {
		item.Category = entity.InventoryCategory(*in.Category)
	}
	if in.Unit != nil {
		item.Unit = *in.Unit
	}
	if in.MinStock != nil {
		if in.MinStock.IsNegative() {
			return nil, fmt.Errorf("%w: min_stock no puede ser negativo", domain.ErrInvalidInput)
		}
		item.MinStock = *in.MinStock
	}
	if in.Value != nil {
		if in.Value.IsNegative() {
			return nil, fmt.Errorf("%w: value no puede ser negativo", domain.ErrInvalidInput)
		}
		item.Value = in.Value.Round(2)
	}
	item.UpdatedAt = uc.opts.Now()
	if err := uc.repo.Update(ctx, item); err != nil {
		return nil, err
	}
	return toItemResponse(item), nil
}

// Delete elimina el ítem junto con su historial de movimientos.
func (uc *ItemUseCase) Delete(ctx context.Context, scope *access.Scope, id string) error {
	if _, err := loadItem(ctx, uc.repo, scope, id); err != nil {
		return err
	}
	return uc.repo.Delete(ctx, id)
}

func requireInventory(scope *access.Scope) error {
	if !access.HasPermission(scope, access.PermInventory) {
		return fmt.Errorf("%w: se requiere el permiso inventory", domain.ErrForbidden)
	}
	return nil
}

func branchForList(scope *access.Scope) (string, bool) {
	switch b := access.EffectiveBranchID(scope); b {
	case "":
		return "", false
	case access.AllBranches:
		return "", true
	default:
		return b, true
	}
}

func loadItem(ctx context.Context, repo repository.InventoryItemRepository, scope *access.Scope, id string) (*entity.InventoryItem, error) {
	if err := requireInventory(scope); err != nil {
		return nil, err
	}
	item, err := repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if item == nil {
		return nil, fmt.Errorf("%w: ítem %s", domain.ErrNotFound, id)
	}
	if !access.CanAccess(scope, item.BranchID) {
		return nil, fmt.Errorf("%w: el ítem pertenece a otra sucursal", domain.ErrScopeViolation)
	}
	return item, nil
}

func toItemResponse(it *entity.InventoryItem) *dto.InventoryItemResponse {
	return &dto.InventoryItemResponse{
		ID:        it.ID,
		BranchID:  it.BranchID,
		Name:      it.Name,
		Category:  string(it.Category),
		Quantity:  it.Quantity,
		Unit:      it.Unit,
		MinStock:  it.MinStock,
		Value:     it.Value,
		LowStock:  it.IsLowStock(),
		CreatedAt: it.CreatedAt,
		UpdatedAt: it.UpdatedAt,
	}
}

func toMovementResponse(m *entity.StockMovement) dto.StockMovementResponse {
	return dto.StockMovementResponse{
		ID:             m.ID,
		ItemID:         m.ItemID,
		BranchID:       m.BranchID,
		Type:           m.Type,
		Quantity:       m.Quantity,
		QuantityBefore: m.QuantityBefore,
		QuantityAfter:  m.QuantityAfter,
		Reason:         m.Reason,
		CreatedBy:      m.CreatedBy,
		CreatedAt:      m.CreatedAt,
	}
}
