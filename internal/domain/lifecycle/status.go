// Package lifecycle tiene lo que comparten citas y reservas de grooming: estados, dueño y mascota.
package lifecycle

import (
	"fmt"

	"pet-services/internal/platform/apperr"
)

// Status de una cita o reserva.
// @Enum pending, confirmed, completed, cancelled
type Status string

const (
	StatusPending   Status = "pending"
	StatusConfirmed Status = "confirmed"
	StatusCompleted Status = "completed"
	StatusCancelled Status = "cancelled"
)

var ErrInvalidTransition = fmt.Errorf("%w: invalid status transition", apperr.ErrConflict)

var transitions = map[Status][]Status{
	StatusPending:   {StatusConfirmed, StatusCancelled},
	StatusConfirmed: {StatusCompleted, StatusCancelled},
}

func (s Status) Valid() bool {
	switch s {
	case StatusPending, StatusConfirmed, StatusCompleted, StatusCancelled:
		return true
	}
	return false
}

// Terminal: completed y cancelled no cambian más.
func (s Status) Terminal() bool {
	return s == StatusCompleted || s == StatusCancelled
}

func CanTransition(from, to Status) bool {
	for _, next := range transitions[from] {
		if next == to {
			return true
		}
	}
	return false
}

// Check devuelve ErrInvalidTransition (envuelto con el detalle) si from->to no está permitido.
func Check(from, to Status) error {
	if !to.Valid() {
		return fmt.Errorf("%w: unknown status %q", apperr.ErrInvalidInput, to)
	}
	if !CanTransition(from, to) {
		return fmt.Errorf("%w: %s -> %s", ErrInvalidTransition, from, to)
	}
	return nil
}
