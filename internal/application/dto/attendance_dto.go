package dto

import "time"

// CreateAttendanceRequest body para POST /api/attendance. La sucursal es la del trabajador.
type CreateAttendanceRequest struct {
	StaffID  string `json:"staff_id" validate:"required"`
	Date     string `json:"date" validate:"required,datetime=2006-01-02"`
	CheckIn  string `json:"check_in,omitempty" validate:"omitempty,datetime=15:04"`
	CheckOut string `json:"check_out,omitempty" validate:"omitempty,datetime=15:04"`
	Status   string `json:"status" validate:"required,oneof=present absent late half-day"`
}

// UpdateAttendanceRequest body para PUT /api/attendance/:id. Campos nil no se modifican.
type UpdateAttendanceRequest struct {
	CheckIn  *string `json:"check_in,omitempty" validate:"omitempty,datetime=15:04"`
	CheckOut *string `json:"check_out,omitempty" validate:"omitempty,datetime=15:04"`
	Status   *string `json:"status,omitempty" validate:"omitempty,oneof=present absent late half-day"`
}

// AttendanceFilter filtros de GET /api/attendance.
type AttendanceFilter struct {
	Date   string `query:"date"`
	Status string `query:"status"`
}

// AttendanceResponse registro de asistencia en respuestas.
type AttendanceResponse struct {
	ID        string    `json:"id"`
	BranchID  string    `json:"branch_id"`
	StaffID   string    `json:"staff_id"`
	StaffName string    `json:"staff_name"`
	Date      string    `json:"date"`
	CheckIn   string    `json:"check_in,omitempty"`
	CheckOut  string    `json:"check_out,omitempty"`
	Status    string    `json:"status"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// AttendanceSummary conteo por estado de los registros filtrados.
type AttendanceSummary struct {
	Present int `json:"present"`
	Absent  int `json:"absent"`
	Late    int `json:"late"`
	HalfDay int `json:"half_day"`
}

// AttendanceListResponse listado paginado de asistencia.
type AttendanceListResponse struct {
	Items   []AttendanceResponse `json:"items"`
	Summary AttendanceSummary    `json:"summary"`
	Page    PageResponse         `json:"page"`
}
