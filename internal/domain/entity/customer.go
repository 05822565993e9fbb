package entity

import "time"

// Tipos de cliente.
const (
	CustomerTypeWholesale = "wholesale"
	CustomerTypeRetail    = "retail"
	CustomerTypeCorporate = "corporate"
)

// Customer representa un cliente de una sucursal (destinatario de cotizaciones, facturas y recibos).
type Customer struct {
	ID        string
	BranchID  string
	Name      string
	Contact   string // teléfono o persona de contacto
	Email     string
	Type      string
	CreatedAt time.Time
	UpdatedAt time.Time
}

// GetBranchID implementa access.BranchScoped.
func (c *Customer) GetBranchID() string { return c.BranchID }
