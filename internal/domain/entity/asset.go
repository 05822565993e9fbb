package entity

import (
	"time"

	"github.com/shopspring/decimal"
)

// AssetType tipo de activo fijo.
type AssetType string

const (
	AssetTypeEquipment AssetType = "equipment"
	AssetTypeMachinery AssetType = "machinery"
	AssetTypeVehicle   AssetType = "vehicle"
	AssetTypeLivestock AssetType = "livestock"
	AssetTypeBuilding  AssetType = "building"
	AssetTypeLand      AssetType = "land"
)

func (t AssetType) IsValid() bool {
	switch t {
	case AssetTypeEquipment, AssetTypeMachinery, AssetTypeVehicle, AssetTypeLivestock, AssetTypeBuilding, AssetTypeLand:
		return true
	}
	return false
}

// AssetStatus estado operativo de un activo.
type AssetStatus string

const (
	AssetStatusOperational AssetStatus = "operational"
	AssetStatusMaintenance AssetStatus = "maintenance"
	AssetStatusRetired     AssetStatus = "retired"
)

func (s AssetStatus) IsValid() bool {
	switch s {
	case AssetStatusOperational, AssetStatusMaintenance, AssetStatusRetired:
		return true
	}
	return false
}

// Asset activo fijo de una sucursal. Un activo retirado ya no cambia de estado.
type Asset struct {
	ID              string
	BranchID        string
	Name            string
	Type            AssetType
	Status          AssetStatus
	Value           decimal.Decimal
	PurchaseDate    time.Time
	LastMaintenance *time.Time
	CreatedAt       time.Time
	UpdatedAt       time.Time
}

// GetBranchID implementa access.BranchScoped.
func (a *Asset) GetBranchID() string { return a.BranchID }

// Clone copia profunda.
func (a *Asset) Clone() *Asset {
	c := *a
	if a.LastMaintenance != nil {
		t := *a.LastMaintenance
		c.LastMaintenance = &t
	}
	return &c
}
