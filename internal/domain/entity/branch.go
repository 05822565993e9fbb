package entity

import "time"

// Tipos de explotación de una sucursal.
const (
	FarmTypeCrops       = "crops"
	FarmTypeLivestock   = "livestock"
	FarmTypeMixed       = "mixed"
	FarmTypePoultry     = "poultry"
	FarmTypeDairy       = "dairy"
	FarmTypeAquaculture = "aquaculture"
)

// Estados de una sucursal.
const (
	BranchStatusActive   = "active"
	BranchStatusInactive = "inactive"
)

// Branch representa una sucursal (finca) que posee personal, inventario y documentos financieros.
type Branch struct {
	ID        string
	Name      string
	Location  string
	ManagerID string // vacío si aún no tiene encargado
	FarmType  string
	Size      string // texto libre, ej: "500 acres"
	Status    string
	CreatedAt time.Time
	UpdatedAt time.Time
}

// GetBranchID una sucursal está "dentro" de sí misma: permite filtrarla con el mismo resolver de alcance.
func (b *Branch) GetBranchID() string { return b.ID }
