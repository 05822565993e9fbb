package dto

import "time"

// CreateActivityRequest body para POST /api/activities. Sin fecha = ahora; sin staff_id = usuario de la sesión.
type CreateActivityRequest struct {
	Type        string `json:"type" validate:"required,oneof=planting harvesting feeding treatment maintenance sale purchase"`
	Description string `json:"description" validate:"required,min=1,max=500"`
	Date        string `json:"date,omitempty" validate:"omitempty,datetime=2006-01-02"`
	StaffID     string `json:"staff_id,omitempty"`
	BranchID    string `json:"branch_id,omitempty"`
}

// ActivityResponse actividad en respuestas.
type ActivityResponse struct {
	ID          string    `json:"id"`
	BranchID    string    `json:"branch_id"`
	Type        string    `json:"type"`
	Description string    `json:"description"`
	Date        string    `json:"date"`
	StaffID     string    `json:"staff_id,omitempty"`
	CreatedAt   time.Time `json:"created_at"`
}

// ActivityListResponse feed paginado, el más reciente primero.
type ActivityListResponse struct {
	Items []ActivityResponse `json:"items"`
	Page  PageResponse       `json:"page"`
}
