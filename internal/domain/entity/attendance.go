package entity

import "time"

// AttendanceStatus estado de asistencia de una jornada.
type AttendanceStatus string

const (
	AttendancePresent AttendanceStatus = "present"
	AttendanceAbsent  AttendanceStatus = "absent"
	AttendanceLate    AttendanceStatus = "late"
	AttendanceHalfDay AttendanceStatus = "half-day"
)

func (s AttendanceStatus) IsValid() bool {
	switch s {
	case AttendancePresent, AttendanceAbsent, AttendanceLate, AttendanceHalfDay:
		return true
	}
	return false
}

// AttendanceRecord jornada de un trabajador; uno por trabajador y fecha.
// CheckIn/CheckOut en formato HH:MM, vacíos para ausencias.
type AttendanceRecord struct {
	ID        string
	BranchID  string
	StaffID   string
	StaffName string
	Date      time.Time
	CheckIn   string
	CheckOut  string
	Status    AttendanceStatus
	CreatedAt time.Time
	UpdatedAt time.Time
}

// GetBranchID implementa access.BranchScoped.
func (r *AttendanceRecord) GetBranchID() string { return r.BranchID }
