package entity

import "time"

// ActivityType labor de campo registrada en el feed de actividades.
type ActivityType string

const (
	ActivityPlanting    ActivityType = "planting"
	ActivityHarvesting  ActivityType = "harvesting"
	ActivityFeeding     ActivityType = "feeding"
	ActivityTreatment   ActivityType = "treatment"
	ActivityMaintenance ActivityType = "maintenance"
	ActivitySale        ActivityType = "sale"
	ActivityPurchase    ActivityType = "purchase"
)

func (t ActivityType) IsValid() bool {
	switch t {
	case ActivityPlanting, ActivityHarvesting, ActivityFeeding, ActivityTreatment,
		ActivityMaintenance, ActivitySale, ActivityPurchase:
		return true
	}
	return false
}

// Activity evento del feed de una sucursal.
type Activity struct {
	ID          string
	BranchID    string
	Type        ActivityType
	Description string
	Date        time.Time
	StaffID     string
	CreatedAt   time.Time
}

// GetBranchID implementa access.BranchScoped.
func (a *Activity) GetBranchID() string { return a.BranchID }
