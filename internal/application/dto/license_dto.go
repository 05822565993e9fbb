package dto

import "time"

// LicenseStatusResponse GET /api/license.
type LicenseStatusResponse struct {
	Valid         bool             `json:"valid"`
	DaysRemaining int              `json:"days_remaining"`
	License       *LicenseResponse `json:"license,omitempty"`
}

// LicenseResponse licencia de la instalación.
type LicenseResponse struct {
	LicenseKey  string    `json:"license_key"`
	PlanType    string    `json:"plan_type"`
	IsActive    bool      `json:"is_active"`
	ExpiresAt   time.Time `json:"expires_at"`
	PurchasedAt time.Time `json:"purchased_at"`
}

// PurchaseLicenseRequest body para POST /api/license/purchase.
type PurchaseLicenseRequest struct {
	PlanType     string `json:"plan_type" validate:"required,oneof=trial basic professional enterprise"`
	DurationDays int    `json:"duration_days" validate:"required,min=1,max=3650"`
}

// RenewLicenseRequest body para POST /api/license/renew.
type RenewLicenseRequest struct {
	DurationDays int `json:"duration_days" validate:"required,min=1,max=3650"`
}
