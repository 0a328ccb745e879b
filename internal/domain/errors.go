package domain

import (
	"errors"
	"fmt"
)

// Errores de dominio (sin dependencias externas).
// Cada categoría es un sentinel; los detalles viajan en *Error, que hace Unwrap al sentinel.
var (
	ErrNotFound            = errors.New("recurso no encontrado")
	ErrValidation          = errors.New("validación fallida")
	ErrPermission          = errors.New("permiso denegado")
	ErrInvalidState        = errors.New("estado inválido para la operación")
	ErrConcurrencyConflict = errors.New("conflicto de concurrencia, refresque y reintente")
	ErrUnauthorized        = errors.New("credenciales inválidas")
	ErrAlreadyExists       = errors.New("el recurso ya existe")
)

// Error error de dominio con categoría (Kind), campo o cota violada (Field) y mensaje.
type Error struct {
	Kind    error
	Field   string
	Message string
}

func (e *Error) Error() string {
	if e.Field != "" {
		return fmt.Sprintf("%s: %s: %s", e.Kind, e.Field, e.Message)
	}
	return fmt.Sprintf("%s: %s", e.Kind, e.Message)
}

// Unwrap permite errors.Is(err, domain.ErrValidation), etc.
func (e *Error) Unwrap() error { return e.Kind }

// Validation construye un ErrValidation que nombra la cota violada.
func Validation(field, format string, args ...any) error {
	return &Error{Kind: ErrValidation, Field: field, Message: fmt.Sprintf(format, args...)}
}

// Permission construye un ErrPermission.
func Permission(format string, args ...any) error {
	return &Error{Kind: ErrPermission, Message: fmt.Sprintf(format, args...)}
}

// InvalidState construye un ErrInvalidState.
func InvalidState(format string, args ...any) error {
	return &Error{Kind: ErrInvalidState, Message: fmt.Sprintf(format, args...)}
}

// Conflict construye un ErrConcurrencyConflict sobre el campo indicado.
func Conflict(field, format string, args ...any) error {
	return &Error{Kind: ErrConcurrencyConflict, Field: field, Message: fmt.Sprintf(format, args...)}
}

// NotFound construye un ErrNotFound para la entidad indicada.
func NotFound(entity, id string) error {
	return &Error{Kind: ErrNotFound, Field: entity, Message: fmt.Sprintf("%q no existe", id)}
}

// Unauthorized construye un ErrUnauthorized. El mensaje no distingue usuario inexistente de clave errada.
func Unauthorized() error {
	return &Error{Kind: ErrUnauthorized, Message: "usuario o contraseña incorrectos"}
}

// AlreadyExists construye un ErrAlreadyExists sobre el campo único indicado.
func AlreadyExists(field, value string) error {
	return &Error{Kind: ErrAlreadyExists, Field: field, Message: fmt.Sprintf("%q ya está registrado", value)}
}

// FieldOf devuelve el campo asociado al error, si es un *Error.
func FieldOf(err error) string {
	var de *Error
	if errors.As(err, &de) {
		return de.Field
	}
	return ""
}
