package slots

import (
	"fmt"
	"strconv"
	"strings"
	"time"

	"pet-services/internal/platform/apperr"
)

var ErrInvalidRange = fmt.Errorf("%w: invalid slot range", apperr.ErrInvalidInput)

// Window es un intervalo [Start, End) en hora de pared.
type Window struct {
	Start string
	End   string
}

// ParseClock convierte "HH:MM" a minutos desde medianoche.
func ParseClock(s string) (int, error) {
	parts := strings.Split(strings.TrimSpace(s), ":")
	if len(parts) != 2 || len(parts[0]) != 2 || len(parts[1]) != 2 {
		return 0, fmt.Errorf("%w: time %q must be HH:MM", apperr.ErrInvalidInput, s)
	}
	h, err1 := strconv.Atoi(parts[0])
	m, err2 := strconv.Atoi(parts[1])
	if err1 != nil || err2 != nil || h < 0 || h > 23 || m < 0 || m > 59 {
		return 0, fmt.Errorf("%w: time %q must be HH:MM", apperr.ErrInvalidInput, s)
	}
	return h*60 + m, nil
}

func FormatClock(minutes int) string {
	return fmt.Sprintf("%02d:%02d", minutes/60, minutes%60)
}

// ParseDate valida YYYY-MM-DD.
func ParseDate(s string) (time.Time, error) {
	t, err := time.Parse(DateLayout, strings.TrimSpace(s))
	if err != nil {
		return time.Time{}, fmt.Errorf("%w: date %q must be YYYY-MM-DD", apperr.ErrInvalidInput, s)
	}
	return t, nil
}

// GenerateSlots recorre start→end en pasos de durationMinutes. Un tramo final
// más corto que la duración se descarta: ningún turno cruza end.
func GenerateSlots(start, end string, durationMinutes int) ([]Window, error) {
	from, err := ParseClock(start)
	if err != nil {
		return nil, err
	}
	to, err := ParseClock(end)
	if err != nil {
		return nil, err
	}
	if durationMinutes <= 0 {
		return nil, fmt.Errorf("%w: duration must be positive", ErrInvalidRange)
	}
	if from >= to {
		return nil, fmt.Errorf("%w: start must be before end", ErrInvalidRange)
	}

	out := make([]Window, 0, (to-from)/durationMinutes)
	for t := from; t+durationMinutes <= to; t += durationMinutes {
		out = append(out, Window{Start: FormatClock(t), End: FormatClock(t + durationMinutes)})
	}
	return out, nil
}
