package dto

import "time"

// CreateUserRequest entrada para crear un usuario (password en texto, se hashea en use case).
// branch_id es obligatorio salvo para super_admin.
type CreateUserRequest struct {
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required,min=8"`
	Name     string `json:"name" validate:"required,min=1,max=200"`
	Phone    string `json:"phone,omitempty" validate:"omitempty,max=50"`
	Role     string `json:"role" validate:"required,oneof=super_admin branch_manager field_staff accountant inventory_staff"`
	BranchID string `json:"branch_id,omitempty"`
}

// UserResponse salida de un usuario (sin password).
type UserResponse struct {
	ID        string    `json:"id"`
	BranchID  string    `json:"branch_id,omitempty"`
	Email     string    `json:"email"`
	Name      string    `json:"name"`
	Phone     string    `json:"phone,omitempty"`
	Role      string    `json:"role"`
	Status    string    `json:"status"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// LoginRequest entrada para login.
type LoginRequest struct {
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required"`
}

// LoginResponse salida con token JWT y el alcance de la sesión.
type LoginResponse struct {
	Token   string          `json:"token"`
	User    UserResponse    `json:"user"`
	Session SessionResponse `json:"session"`
}

// SessionResponse alcance efectivo de la sesión (GET /api/session).
type SessionResponse struct {
	UserID            string   `json:"user_id"`
	Role              string   `json:"role"`
	BranchID          string   `json:"branch_id,omitempty"`
	SelectedBranchID  string   `json:"selected_branch_id,omitempty"`
	EffectiveBranchID string   `json:"effective_branch_id"` // "ALL" para super_admin sin selección
	Permissions       []string `json:"permissions"`
}

// SwitchBranchRequest body para POST /api/session/branch.
type SwitchBranchRequest struct {
	BranchID string `json:"branch_id" validate:"required"`
}

// SwitchBranchResponse token reemitido. Switched=false si el cambio no aplicó (rol sin permiso o sucursal inexistente).
type SwitchBranchResponse struct {
	Token    string          `json:"token"`
	Switched bool            `json:"switched"`
	Session  SessionResponse `json:"session"`
}

// UserListResponse listado paginado de usuarios.
type UserListResponse struct {
	Items []UserResponse `json:"items"`
	Page  PageResponse   `json:"page"`
}
