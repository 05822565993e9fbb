package domain

import "errors"

// Errores de dominio (sin dependencias externas).
var (
	ErrNotFound           = errors.New("recurso no encontrado")
	ErrUserNotFound       = errors.New("usuario no encontrado")
	ErrEmailAlreadyExists = errors.New("el email ya está registrado")
	ErrInvalidInput       = errors.New("entrada inválida")
	ErrDuplicate          = errors.New("recurso duplicado")
	ErrUnauthorized       = errors.New("no autorizado")
	ErrForbidden          = errors.New("acceso denegado")
	ErrConflict           = errors.New("conflicto con el estado actual")
	ErrLicenseExpired     = errors.New("licencia vencida o inactiva")
	ErrInsufficientStock  = errors.New("stock insuficiente")
)

// Errores del ciclo de vida de documentos financieros (cotización → factura → recibo).
var (
	// ErrImmutableDocument: mutación de un documento en estado terminal
	// (factura pagada, recibo impreso, cotización convertida).
	ErrImmutableDocument = errors.New("documento inmutable")
	// ErrInvalidTransition: transición de estado no permitida desde el estado actual.
	ErrInvalidTransition = errors.New("transición de estado inválida")
	// ErrInvalidReference: referencia a una entidad inexistente o en un estado incorrecto.
	ErrInvalidReference = errors.New("referencia inválida")
	// ErrScopeViolation: lectura o escritura fuera de la sucursal visible para la sesión.
	ErrScopeViolation = errors.New("fuera del alcance de la sucursal")
	// ErrEmptyDocument: documento sin líneas válidas (descripción no vacía).
	ErrEmptyDocument = errors.New("el documento no tiene líneas válidas")
)
