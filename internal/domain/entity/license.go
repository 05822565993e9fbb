package entity

import "time"

// License representa la suscripción de la instalación. Sin licencia vigente la API protegida responde 402.
type License struct {
	ID          string
	LicenseKey  string // LIC-<unix>-<8 caracteres>
	PlanType    string
	IsActive    bool
	ExpiresAt   time.Time
	PurchasedAt time.Time
	UpdatedAt   time.Time
}

// IsValid informa si la licencia está activa y sin vencer en el instante now.
func (l *License) IsValid(now time.Time) bool {
	if l == nil {
		return false
	}
	return l.IsActive && l.ExpiresAt.After(now)
}

// DaysRemaining días completos o parciales hasta el vencimiento (nunca negativo).
func (l *License) DaysRemaining(now time.Time) int {
	if l == nil {
		return 0
	}
	d := l.ExpiresAt.Sub(now)
	if d <= 0 {
		return 0
	}
	const day = 24 * time.Hour
	days := int(d / day)
	if d%day != 0 {
		days++
	}
	return days
}
