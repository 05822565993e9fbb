package memory

import (
	"context"
	"sort"
	"time"

	"github.com/jhoicas/FarmHub-api/internal/domain"
	"github.com/jhoicas/FarmHub-api/internal/domain/entity"
	"github.com/jhoicas/FarmHub-api/internal/domain/repository"
)

var (
	_ repository.InventoryItemRepository = (*InventoryItemRepo)(nil)
	_ repository.StockMovementRepository = (*StockMovementRepo)(nil)
	_ repository.SupplierRepository      = (*SupplierRepo)(nil)
	_ repository.AssetRepository         = (*AssetRepo)(nil)
	_ repository.AttendanceRepository    = (*AttendanceRepo)(nil)
	_ repository.ActivityRepository      = (*ActivityRepo)(nil)
)

// ── Inventario ───────────────────────────────────────────────────────────────

// InventoryItemRepo ítems de inventario en memoria.
type InventoryItemRepo struct{ view }

func (r *InventoryItemRepo) Create(_ context.Context, it *entity.InventoryItem) error {
	defer r.lock()()
	if _, ok := r.s.st.items[it.ID]; ok {
		return domain.ErrDuplicate
	}
	c := *it
	r.s.st.items[it.ID] = &c
	return nil
}

func (r *InventoryItemRepo) GetByID(_ context.Context, id string) (*entity.InventoryItem, error) {
	defer r.rlock()()
	it, ok := r.s.st.items[id]
	if !ok {
		return nil, nil
	}
	c := *it
	return &c, nil
}

// GetForUpdate dentro de RunInventory el mutex del almacén ya da exclusión.
func (r *InventoryItemRepo) GetForUpdate(ctx context.Context, id string) (*entity.InventoryItem, error) {
	return r.GetByID(ctx, id)
}

func (r *InventoryItemRepo) ListByBranch(_ context.Context, branchID string) ([]*entity.InventoryItem, error) {
	defer r.rlock()()
	list := make([]*entity.InventoryItem, 0)
	for _, it := range r.s.st.items {
		if branchID == "" || it.BranchID == branchID {
			c := *it
			list = append(list, &c)
		}
	}
	sort.Slice(list, func(i, j int) bool { return list[i].Name < list[j].Name })
	return list, nil
}

func (r *InventoryItemRepo) Update(_ context.Context, it *entity.InventoryItem) error {
	defer r.lock()()
	if _, ok := r.s.st.items[it.ID]; !ok {
		return domain.ErrNotFound
	}
	c := *it
	r.s.st.items[it.ID] = &c
	return nil
}

// Delete borra el ítem y sus movimientos.
func (r *InventoryItemRepo) Delete(_ context.Context, id string) error {
	defer r.lock()()
	delete(r.s.st.items, id)
	kept := r.s.st.movements[:0]
	for _, m := range r.s.st.movements {
		if m.ItemID != id {
			kept = append(kept, m)
		}
	}
	r.s.st.movements = kept
	return nil
}

// StockMovementRepo historial de movimientos en memoria.
type StockMovementRepo struct{ view }

func (r *StockMovementRepo) Create(_ context.Context, m *entity.StockMovement) error {
	defer r.lock()()
	if _, ok := r.s.st.items[m.ItemID]; !ok {
		return domain.ErrInvalidReference
	}
	c := *m
	r.s.st.movements = append(r.s.st.movements, &c)
	return nil
}

func (r *StockMovementRepo) ListByItem(_ context.Context, itemID string) ([]*entity.StockMovement, error) {
	defer r.rlock()()
	list := make([]*entity.StockMovement, 0)
	for i := len(r.s.st.movements) - 1; i >= 0; i-- {
		if m := r.s.st.movements[i]; m.ItemID == itemID {
			c := *m
			list = append(list, &c)
		}
	}
	return list, nil
}

// ── Proveedores ──────────────────────────────────────────────────────────────

// SupplierRepo proveedores en memoria.
type SupplierRepo struct{ view }

func (r *SupplierRepo) Create(_ context.Context, s *entity.Supplier) error {
	defer r.lock()()
	if _, ok := r.s.st.suppliers[s.ID]; ok {
		return domain.ErrDuplicate
	}
	c := *s
	r.s.st.suppliers[s.ID] = &c
	return nil
}

func (r *SupplierRepo) GetByID(_ context.Context, id string) (*entity.Supplier, error) {
	defer r.rlock()()
	s, ok := r.s.st.suppliers[id]
	if !ok {
		return nil, nil
	}
	c := *s
	return &c, nil
}

func (r *SupplierRepo) ListByBranch(_ context.Context, branchID string) ([]*entity.Supplier, error) {
	defer r.rlock()()
	list := make([]*entity.Supplier, 0)
	for _, s := range r.s.st.suppliers {
		if branchID == "" || s.BranchID == branchID {
			c := *s
			list = append(list, &c)
		}
	}
	sort.Slice(list, func(i, j int) bool { return list[i].Name < list[j].Name })
	return list, nil
}

func (r *SupplierRepo) Update(_ context.Context, s *entity.Supplier) error {
	defer r.lock()()
	if _, ok := r.s.st.suppliers[s.ID]; !ok {
		return domain.ErrNotFound
	}
	c := *s
	r.s.st.suppliers[s.ID] = &c
	return nil
}

func (r *SupplierRepo) Delete(_ context.Context, id string) error {
	defer r.lock()()
	delete(r.s.st.suppliers, id)
	return nil
}

// ── Activos ──────────────────────────────────────────────────────────────────

// AssetRepo activos fijos en memoria.
type AssetRepo struct{ view }

func (r *AssetRepo) Create(_ context.Context, a *entity.Asset) error {
	defer r.lock()()
	if _, ok := r.s.st.assets[a.ID]; ok {
		return domain.ErrDuplicate
	}
	r.s.st.assets[a.ID] = a.Clone()
	return nil
}

func (r *AssetRepo) GetByID(_ context.Context, id string) (*entity.Asset, error) {
	defer r.rlock()()
	a, ok := r.s.st.assets[id]
	if !ok {
		return nil, nil
	}
	return a.Clone(), nil
}

func (r *AssetRepo) ListByBranch(_ context.Context, branchID string) ([]*entity.Asset, error) {
	defer r.rlock()()
	list := make([]*entity.Asset, 0)
	for _, a := range r.s.st.assets {
		if branchID == "" || a.BranchID == branchID {
			list = append(list, a.Clone())
		}
	}
	sort.Slice(list, func(i, j int) bool { return list[i].Name < list[j].Name })
	return list, nil
}

func (r *AssetRepo) Update(_ context.Context, a *entity.Asset) error {
	defer r.lock()()
	if _, ok := r.s.st.assets[a.ID]; !ok {
		return domain.ErrNotFound
	}
	r.s.st.assets[a.ID] = a.Clone()
	return nil
}

func (r *AssetRepo) Delete(_ context.Context, id string) error {
	defer r.lock()()
	delete(r.s.st.assets, id)
	return nil
}

// ── Asistencia ───────────────────────────────────────────────────────────────

// AttendanceRepo registros de asistencia en memoria. Uno por trabajador y fecha.
type AttendanceRepo struct{ view }

func sameDay(a, b time.Time) bool {
	ay, am, ad := a.Date()
	by, bm, bd := b.Date()
	return ay == by && am == bm && ad == bd
}

func (r *AttendanceRepo) Create(_ context.Context, rec *entity.AttendanceRecord) error {
	defer r.lock()()
	for _, existing := range r.s.st.attendance {
		if existing.ID == rec.ID || (existing.StaffID == rec.StaffID && sameDay(existing.Date, rec.Date)) {
			return domain.ErrDuplicate
		}
	}
	c := *rec
	r.s.st.attendance[rec.ID] = &c
	return nil
}

func (r *AttendanceRepo) GetByID(_ context.Context, id string) (*entity.AttendanceRecord, error) {
	defer r.rlock()()
	rec, ok := r.s.st.attendance[id]
	if !ok {
		return nil, nil
	}
	c := *rec
	return &c, nil
}

func (r *AttendanceRepo) ListByBranch(_ context.Context, branchID string, date time.Time) ([]*entity.AttendanceRecord, error) {
	defer r.rlock()()
	list := make([]*entity.AttendanceRecord, 0)
	for _, rec := range r.s.st.attendance {
		if branchID != "" && rec.BranchID != branchID {
			continue
		}
		if !date.IsZero() && !sameDay(rec.Date, date) {
			continue
		}
		c := *rec
		list = append(list, &c)
	}
	sort.Slice(list, func(i, j int) bool {
		if !list[i].Date.Equal(list[j].Date) {
			return list[i].Date.After(list[j].Date)
		}
		return list[i].StaffName < list[j].StaffName
	})
	return list, nil
}

func (r *AttendanceRepo) Update(_ context.Context, rec *entity.AttendanceRecord) error {
	defer r.lock()()
	if _, ok := r.s.st.attendance[rec.ID]; !ok {
		return domain.ErrNotFound
	}
	c := *rec
	r.s.st.attendance[rec.ID] = &c
	return nil
}

func (r *AttendanceRepo) Delete(_ context.Context, id string) error {
	defer r.lock()()
	delete(r.s.st.attendance, id)
	return nil
}

// ── Actividades ──────────────────────────────────────────────────────────────

// ActivityRepo feed de actividades en memoria.
type ActivityRepo struct{ view }

func (r *ActivityRepo) Create(_ context.Context, a *entity.Activity) error {
	defer r.lock()()
	if _, ok := r.s.st.activities[a.ID]; ok {
		return domain.ErrDuplicate
	}
	c := *a
	r.s.st.activities[a.ID] = &c
	return nil
}

func (r *ActivityRepo) GetByID(_ context.Context, id string) (*entity.Activity, error) {
	defer r.rlock()()
	a, ok := r.s.st.activities[id]
	if !ok {
		return nil, nil
	}
	c := *a
	return &c, nil
}

func (r *ActivityRepo) ListByBranch(_ context.Context, branchID string) ([]*entity.Activity, error) {
	defer r.rlock()()
	list := make([]*entity.Activity, 0)
	for _, a := range r.s.st.activities {
		if branchID == "" || a.BranchID == branchID {
			c := *a
			list = append(list, &c)
		}
	}
	sort.Slice(list, func(i, j int) bool {
		if !list[i].Date.Equal(list[j].Date) {
			return list[i].Date.After(list[j].Date)
		}
		return list[i].CreatedAt.After(list[j].CreatedAt)
	})
	return list, nil
}

func (r *ActivityRepo) Delete(_ context.Context, id string) error {
	defer r.lock()()
	delete(r.s.st.activities, id)
	return nil
}
