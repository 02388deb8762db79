package slots

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"pet-services/internal/platform/apperr"
)

var (
	ErrInvalidInput  = fmt.Errorf("%w: invalid slot request", apperr.ErrInvalidInput)
	ErrNotFound      = fmt.Errorf("%w: slot not found", apperr.ErrNotFound)
	ErrAlreadyExists = fmt.Errorf("%w: slot already exists", apperr.ErrConflict)
	ErrAlreadyBooked = fmt.Errorf("%w: slot already booked", apperr.ErrConflict)
	ErrNotHeld       = fmt.Errorf("%w: slot is not held by this appointment", apperr.ErrConflict)
)

type Service struct {
	repo Repository
	now  func() time.Time
}

func NewService(repo Repository) *Service {
	return &Service{repo: repo, now: time.Now}
}

type GenerateInput struct {
	DoctorID        string
	Date            string
	Start           string
	End             string
	DurationMinutes int
}

type GenerateResult struct {
	Created int    `json:"created"`
	Skipped int    `json:"skipped"`
	Slots   []Slot `json:"slots"`
}

// Generate crea los turnos del día. Los que ya existen (mismo doctor, fecha e inicio)
// se cuentan como Skipped.
func (s *Service) Generate(ctx context.Context, in GenerateInput) (GenerateResult, error) {
	doctorID := strings.TrimSpace(in.DoctorID)
	if doctorID == "" {
		return GenerateResult{}, fmt.Errorf("%w: doctor_id is required", ErrInvalidInput)
	}
	if _, err := ParseDate(in.Date); err != nil {
		return GenerateResult{}, err
	}
	windows, err := GenerateSlots(in.Start, in.End, in.DurationMinutes)
	if err != nil {
		return GenerateResult{}, err
	}

	now := s.now().UTC()
	res := GenerateResult{Slots: make([]Slot, 0, len(windows))}
	for _, w := range windows {
		slot := Slot{
			ID:        SlotID(doctorID, in.Date, w.Start),
			DoctorID:  doctorID,
			Date:      in.Date,
			Start:     w.Start,
			End:       w.End,
			StartsAt:  in.Date + " " + w.Start,
			CreatedAt: now,
		}
		err := s.repo.Create(ctx, slot)
		if errors.Is(err, ErrAlreadyExists) {
			res.Skipped++
			continue
		}
		if err != nil {
			return res, err
		}
		res.Created++
		res.Slots = append(res.Slots, slot)
	}
	return res, nil
}

func (s *Service) List(ctx context.Context, f ListFilter) ([]Slot, error) {
	if f.Date != "" {
		if _, err := ParseDate(f.Date); err != nil {
			return nil, err
		}
	}
	return s.repo.List(ctx, f)
}

func (s *Service) GetByID(ctx context.Context, id string) (Slot, error) {
	return s.repo.GetByID(ctx, id)
}

// Delete solo borra turnos libres.
func (s *Service) Delete(ctx context.Context, id string) error {
	slot, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return err
	}
	if slot.IsBooked {
		return ErrAlreadyBooked
	}
	return s.repo.Delete(ctx, id)
}

func (s *Service) Claim(ctx context.Context, id, appointmentID string) error {
	if strings.TrimSpace(id) == "" || strings.TrimSpace(appointmentID) == "" {
		return ErrInvalidInput
	}
	return s.repo.Claim(ctx, id, appointmentID)
}

func (s *Service) Release(ctx context.Context, id, appointmentID string) error {
	return s.repo.Release(ctx, id, appointmentID)
}

// PurgeBefore borra turnos libres con fecha anterior a date (YYYY-MM-DD).
func (s *Service) PurgeBefore(ctx context.Context, date string) (int, error) {
	if _, err := ParseDate(date); err != nil {
		return 0, err
	}
	items, err := s.repo.ListUnbooked(ctx)
	if err != nil {
		return 0, err
	}
	n := 0
	for _, slot := range items {
		// fechas YYYY-MM-DD ordenan lexicográficamente
		if slot.Date >= date {
			continue
		}
		err := s.repo.Delete(ctx, slot.ID)
		if errors.Is(err, ErrNotFound) {
			continue
		}
		if err != nil {
			return n, err
		}
		n++
	}
	return n, nil
}
