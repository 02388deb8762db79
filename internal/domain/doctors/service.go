package doctors

import (
	"context"
	"fmt"
	"sort"
	"strings"
	"time"

	"pet-services/internal/domain/slots"
	"pet-services/internal/platform/apperr"

	"github.com/google/uuid"
)

var (
	ErrInvalidInput    = fmt.Errorf("%w: invalid doctor", apperr.ErrInvalidInput)
	ErrInvalidSchedule = fmt.Errorf("%w: invalid schedule", apperr.ErrInvalidInput)
	ErrNotFound        = fmt.Errorf("%w: doctor not found", apperr.ErrNotFound)
)

type Service struct {
	repo Repository
	now  func() time.Time
}

func NewService(repo Repository) *Service {
	return &Service{repo: repo, now: time.Now}
}

type Input struct {
	Name           string
	Email          string
	Phone          string
	Specialization string
	ImageURL       string
	Schedule       Schedule
	Active         *bool
}

// validateSchedule: una agenda vacía es válida (el doctor no recibe turnos automáticos).
func validateSchedule(s Schedule) (Schedule, error) {
	if len(s.Weekdays) == 0 && s.Start == "" && s.End == "" && s.SlotMinutes == 0 {
		return Schedule{Weekdays: []int{}}, nil
	}
	seen := map[int]bool{}
	days := make([]int, 0, len(s.Weekdays))
	for _, d := range s.Weekdays {
		if d < 0 || d > 6 {
			return Schedule{}, fmt.Errorf("%w: weekday %d out of range 0-6", ErrInvalidSchedule, d)
		}
		if !seen[d] {
			seen[d] = true
			days = append(days, d)
		}
	}
	sort.Ints(days)
	s.Weekdays = days

	windows, err := slots.GenerateSlots(s.Start, s.End, s.SlotMinutes)
	if err != nil {
		return Schedule{}, fmt.Errorf("%w: %v", ErrInvalidSchedule, err)
	}
	if len(windows) == 0 {
		return Schedule{}, fmt.Errorf("%w: slot longer than working hours", ErrInvalidSchedule)
	}
	return s, nil
}

func (s *Service) Create(ctx context.Context, in Input) (Doctor, error) {
	if strings.TrimSpace(in.Name) == "" {
		return Doctor{}, ErrInvalidInput
	}
	sched, err := validateSchedule(in.Schedule)
	if err != nil {
		return Doctor{}, err
	}

	now := s.now().UTC()
	d := Doctor{
		ID:             uuid.NewString(),
		Name:           strings.TrimSpace(in.Name),
		Email:          strings.ToLower(strings.TrimSpace(in.Email)),
		Phone:          strings.TrimSpace(in.Phone),
		Specialization: strings.TrimSpace(in.Specialization),
		ImageURL:       strings.TrimSpace(in.ImageURL),
		Schedule:       sched,
		Active:         true,
		CreatedAt:      now,
		UpdatedAt:      now,
	}
	if in.Active != nil {
		d.Active = *in.Active
	}
	if err := s.repo.Create(ctx, d); err != nil {
		return Doctor{}, err
	}
	return d, nil
}

// Update reemplaza el perfil completo (PUT).
func (s *Service) Update(ctx context.Context, id string, in Input) (Doctor, error) {
	d, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return Doctor{}, err
	}
	if strings.TrimSpace(in.Name) == "" {
		return Doctor{}, ErrInvalidInput
	}
	sched, err := validateSchedule(in.Schedule)
	if err != nil {
		return Doctor{}, err
	}

	d.Name = strings.TrimSpace(in.Name)
	d.Email = strings.ToLower(strings.TrimSpace(in.Email))
	d.Phone = strings.TrimSpace(in.Phone)
	d.Specialization = strings.TrimSpace(in.Specialization)
	d.ImageURL = strings.TrimSpace(in.ImageURL)
	d.Schedule = sched
	if in.Active != nil {
		d.Active = *in.Active
	}
	d.UpdatedAt = s.now().UTC()

	if err := s.repo.Update(ctx, d); err != nil {
		return Doctor{}, err
	}
	return d, nil
}

func (s *Service) GetByID(ctx context.Context, id string) (Doctor, error) {
	return s.repo.GetByID(ctx, id)
}

func (s *Service) List(ctx context.Context, onlyActive bool) ([]Doctor, error) {
	return s.repo.List(ctx, onlyActive)
}

func (s *Service) Delete(ctx context.Context, id string) error {
	return s.repo.Delete(ctx, id)
}
