// Package apperr define las categorías de error que los handlers traducen a status HTTP.
// Los errores de dominio las envuelven con fmt.Errorf("%w: ...").
package apperr

import "errors"

var (
	ErrInvalidInput = errors.New("invalid input")
	ErrNotFound     = errors.New("not found")
	ErrForbidden    = errors.New("forbidden")
	ErrConflict     = errors.New("conflict")
	ErrUnauthorized = errors.New("unauthorized")
)

// Is devuelve true si err pertenece a alguna de las categorías.
func Is(err error, kinds ...error) bool {
	for _, k := range kinds {
		if errors.Is(err, k) {
			return true
		}
	}
	return false
}
