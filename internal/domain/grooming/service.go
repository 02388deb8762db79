package grooming

import (
	"context"
	"fmt"
	"math"
	"strconv"
	"strings"
	"time"

	"pet-services/internal/domain/lifecycle"
	"pet-services/internal/domain/slots"
	"pet-services/internal/platform/apperr"
	"pet-services/internal/platform/logger"
	"pet-services/internal/ports/events"

	"github.com/google/uuid"
)

var (
	ErrInvalidInput     = fmt.Errorf("%w: invalid grooming booking", apperr.ErrInvalidInput)
	ErrNoServices       = fmt.Errorf("%w: at least one service is required", apperr.ErrInvalidInput)
	ErrNotFound         = fmt.Errorf("%w: grooming booking not found", apperr.ErrNotFound)
	ErrConcurrentUpdate = fmt.Errorf("%w: booking was modified concurrently", apperr.ErrConflict)
	ErrClosed           = fmt.Errorf("%w: booking is closed", apperr.ErrConflict)
)

type Service struct {
	repo Repository
	pub  events.Publisher
	log  logger.Logger
	now  func() time.Time
}

func NewService(repo Repository, pub events.Publisher, log logger.Logger) *Service {
	return &Service{repo: repo, pub: pub, log: log, now: time.Now}
}

type CreateInput struct {
	Owner    lifecycle.Owner
	Pet      lifecycle.Pet
	Services []ServiceItem
	Date     string
	Time     string
	Notes    string
}

type UpdateInput struct {
	Date  *string
	Time  *string
	Notes *string
}

func cleanServices(items []ServiceItem) ([]ServiceItem, error) {
	if len(items) == 0 {
		return nil, ErrNoServices
	}
	out := make([]ServiceItem, 0, len(items))
	for _, it := range items {
		name := strings.TrimSpace(it.Name)
		if name == "" {
			return nil, fmt.Errorf("%w: service name is required", ErrInvalidInput)
		}
		if it.Price < 0 || math.IsNaN(it.Price) || math.IsInf(it.Price, 0) {
			return nil, fmt.Errorf("%w: service %q has an invalid price", ErrInvalidInput, name)
		}
		out = append(out, ServiceItem{Name: name, Price: it.Price})
	}
	return out, nil
}

func validateWhen(date, clock string) error {
	if _, err := slots.ParseDate(date); err != nil {
		return err
	}
	if _, err := slots.ParseClock(clock); err != nil {
		return err
	}
	return nil
}

func (s *Service) Create(ctx context.Context, in CreateInput) (Booking, error) {
	owner, err := in.Owner.Clean()
	if err != nil {
		return Booking{}, err
	}
	pet, err := in.Pet.Clean()
	if err != nil {
		return Booking{}, err
	}
	items, err := cleanServices(in.Services)
	if err != nil {
		return Booking{}, err
	}
	if err := validateWhen(in.Date, in.Time); err != nil {
		return Booking{}, err
	}

	now := s.now().UTC()
	b := Booking{
		ID:        uuid.NewString(),
		Owner:     owner,
		Pet:       pet,
		Services:  items,
		TotalCost: Total(items),
		Date:      strings.TrimSpace(in.Date),
		Time:      strings.TrimSpace(in.Time),
		Status:    lifecycle.StatusPending,
		Notes:     strings.TrimSpace(in.Notes),
		CreatedAt: now,
		UpdatedAt: now,
	}
	if err := s.repo.Create(ctx, b); err != nil {
		return Booking{}, err
	}
	s.emit(ctx, events.GroomingCreated, b, "")
	return b, nil
}

func (s *Service) emit(ctx context.Context, t events.Type, b Booking, revision string) {
	names := make([]string, 0, len(b.Services))
	for _, it := range b.Services {
		names = append(names, it.Name)
	}
	events.Emit(ctx, s.pub, s.log, events.Event{
		Type:       t,
		EntityID:   b.ID,
		Status:     string(b.Status),
		Revision:   revision,
		OccurredAt: s.now().UTC(),
		Data: map[string]string{
			"owner_name":  b.Owner.Name,
			"owner_email": b.Owner.Email,
			"pet_name":    b.Pet.Name,
			"services":    strings.Join(names, ", "),
			"total":       strconv.FormatFloat(b.TotalCost, 'f', 2, 64),
			"date":        b.Date,
			"time":        b.Time,
			"status":      string(b.Status),
		},
	})
}

// Update cambia fecha/hora/notas. No aplica a reservas cerradas. Si nada cambia no
// escribe ni notifica.
func (s *Service) Update(ctx context.Context, id string, in UpdateInput) (Booking, error) {
	b, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return Booking{}, err
	}
	if b.Status.Terminal() {
		return Booking{}, ErrClosed
	}
	before := b
	if in.Date != nil {
		b.Date = strings.TrimSpace(*in.Date)
	}
	if in.Time != nil {
		b.Time = strings.TrimSpace(*in.Time)
	}
	if err := validateWhen(b.Date, b.Time); err != nil {
		return Booking{}, err
	}
	if in.Notes != nil {
		b.Notes = strings.TrimSpace(*in.Notes)
	}
	if b.Date == before.Date && b.Time == before.Time && b.Notes == before.Notes {
		return b, nil
	}
	b.UpdatedAt = s.now().UTC()
	if err := s.repo.Update(ctx, b); err != nil {
		return Booking{}, err
	}
	s.emit(ctx, events.GroomingUpdated, b, strconv.FormatInt(b.UpdatedAt.UnixNano(), 10))
	return b, nil
}

func (s *Service) UpdateStatus(ctx context.Context, id string, to lifecycle.Status) (Booking, error) {
	b, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return Booking{}, err
	}
	if err := lifecycle.Check(b.Status, to); err != nil {
		return Booking{}, err
	}
	now := s.now().UTC()
	if err := s.repo.SetStatus(ctx, id, b.Status, to, now); err != nil {
		return Booking{}, err
	}
	b.Status = to
	b.UpdatedAt = now
	s.emit(ctx, events.GroomingUpdated, b, "")
	return b, nil
}

func (s *Service) GetByID(ctx context.Context, id string) (Booking, error) {
	return s.repo.GetByID(ctx, id)
}

func (s *Service) List(ctx context.Context, f ListFilter) ([]Booking, error) {
	if f.Status != "" && !f.Status.Valid() {
		return nil, fmt.Errorf("%w: unknown status %q", ErrInvalidInput, f.Status)
	}
	return s.repo.List(ctx, f)
}

func (s *Service) Delete(ctx context.Context, id string) error {
	return s.repo.Delete(ctx, id)
}
