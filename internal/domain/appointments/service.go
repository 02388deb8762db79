package appointments

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"pet-services/internal/domain/doctors"
	"pet-services/internal/domain/lifecycle"
	"pet-services/internal/domain/slots"
	"pet-services/internal/platform/apperr"
	"pet-services/internal/platform/logger"
	"pet-services/internal/ports/auth"
	"pet-services/internal/ports/events"

	"github.com/google/uuid"
)

var (
	ErrInvalidInput      = fmt.Errorf("%w: invalid appointment", apperr.ErrInvalidInput)
	ErrNotFound          = fmt.Errorf("%w: appointment not found", apperr.ErrNotFound)
	ErrForbidden         = fmt.Errorf("%w: appointment belongs to another doctor", apperr.ErrForbidden)
	ErrSlotUnavailable   = fmt.Errorf("%w: slot is not available", apperr.ErrConflict)
	ErrDoctorUnavailable = fmt.Errorf("%w: doctor is not available", apperr.ErrInvalidInput)
	ErrConcurrentUpdate  = fmt.Errorf("%w: appointment was modified concurrently", apperr.ErrConflict)

	// ErrInvalidTransition se reexporta para los handlers/tests del módulo.
	ErrInvalidTransition = lifecycle.ErrInvalidTransition
)

// Slots es lo que el módulo usa de la agenda.
type Slots interface {
	GetByID(ctx context.Context, id string) (slots.Slot, error)
	Claim(ctx context.Context, id, appointmentID string) error
	Release(ctx context.Context, id, appointmentID string) error
}

type Doctors interface {
	GetByID(ctx context.Context, id string) (doctors.Doctor, error)
}

type Service struct {
	repo    Repository
	slots   Slots
	doctors Doctors
	pub     events.Publisher
	log     logger.Logger
	now     func() time.Time
}

func NewService(repo Repository, slotSvc Slots, doctorSvc Doctors, pub events.Publisher, log logger.Logger) *Service {
	return &Service{
		repo:    repo,
		slots:   slotSvc,
		doctors: doctorSvc,
		pub:     pub,
		log:     log,
		now:     time.Now,
	}
}

type BookInput struct {
	DoctorID string
	SlotID   string
	Owner    lifecycle.Owner
	Pet      lifecycle.Pet
	Reason   string
}

func (s *Service) Book(ctx context.Context, in BookInput) (Appointment, error) {
	if strings.TrimSpace(in.DoctorID) == "" || strings.TrimSpace(in.SlotID) == "" {
		return Appointment{}, fmt.Errorf("%w: doctor_id and slot_id are required", ErrInvalidInput)
	}
	owner, err := in.Owner.Clean()
	if err != nil {
		return Appointment{}, err
	}
	pet, err := in.Pet.Clean()
	if err != nil {
		return Appointment{}, err
	}

	doc, err := s.doctors.GetByID(ctx, in.DoctorID)
	if err != nil {
		return Appointment{}, err
	}
	if !doc.Active {
		return Appointment{}, ErrDoctorUnavailable
	}
	slot, err := s.slots.GetByID(ctx, in.SlotID)
	if err != nil {
		return Appointment{}, err
	}
	if slot.DoctorID != doc.ID {
		return Appointment{}, fmt.Errorf("%w: slot does not belong to doctor", ErrInvalidInput)
	}

	id := uuid.NewString()
	if err := s.slots.Claim(ctx, slot.ID, id); err != nil {
		if errors.Is(err, slots.ErrAlreadyBooked) {
			return Appointment{}, ErrSlotUnavailable
		}
		return Appointment{}, err
	}

	now := s.now().UTC()
	a := Appointment{
		ID:        id,
		DoctorID:  doc.ID,
		SlotID:    slot.ID,
		Date:      slot.Date,
		Start:     slot.Start,
		End:       slot.End,
		Owner:     owner,
		Pet:       pet,
		Reason:    strings.TrimSpace(in.Reason),
		Status:    lifecycle.StatusPending,
		CreatedAt: now,
		UpdatedAt: now,
	}
	if err := s.repo.Create(ctx, a); err != nil {
		// sin transacciones: devolver el turno
		if rerr := s.slots.Release(ctx, slot.ID, id); rerr != nil {
			s.log.Error("slot release after failed booking", map[string]any{
				"error":   rerr,
				"slot_id": slot.ID,
			})
		}
		return Appointment{}, err
	}

	s.emit(ctx, events.AppointmentCreated, a, doc.Name)
	return a, nil
}

func (s *Service) emit(ctx context.Context, t events.Type, a Appointment, doctorName string) {
	events.Emit(ctx, s.pub, s.log, events.Event{
		Type:       t,
		EntityID:   a.ID,
		Status:     string(a.Status),
		OccurredAt: s.now().UTC(),
		Data: map[string]string{
			"owner_name":  a.Owner.Name,
			"owner_email": a.Owner.Email,
			"pet_name":    a.Pet.Name,
			"doctor_name": doctorName,
			"date":        a.Date,
			"start":       a.Start,
			"end":         a.End,
			"status":      string(a.Status),
		},
	})
}

func (s *Service) doctorName(ctx context.Context, id string) string {
	d, err := s.doctors.GetByID(ctx, id)
	if err != nil {
		return ""
	}
	return d.Name
}

// authorize: un doctor solo opera sobre sus propias citas.
func authorize(actor auth.Claims, a Appointment) error {
	if actor.Role == auth.RoleDoctor && actor.DoctorID != a.DoctorID {
		return ErrForbidden
	}
	return nil
}

func (s *Service) Get(ctx context.Context, actor auth.Claims, id string) (Appointment, error) {
	a, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return Appointment{}, err
	}
	if err := authorize(actor, a); err != nil {
		return Appointment{}, err
	}
	return a, nil
}

func (s *Service) List(ctx context.Context, actor auth.Claims, f ListFilter) ([]Appointment, error) {
	if f.Status != "" && !f.Status.Valid() {
		return nil, fmt.Errorf("%w: unknown status %q", ErrInvalidInput, f.Status)
	}
	if actor.Role == auth.RoleDoctor {
		if actor.DoctorID == "" {
			return []Appointment{}, nil
		}
		f.DoctorID = actor.DoctorID
	}
	return s.repo.List(ctx, f)
}

// UpdateStatus aplica la transición; cancelar libera el turno.
func (s *Service) UpdateStatus(ctx context.Context, actor auth.Claims, id string, to lifecycle.Status, notes *string) (Appointment, error) {
	a, err := s.Get(ctx, actor, id)
	if err != nil {
		return Appointment{}, err
	}
	if err := lifecycle.Check(a.Status, to); err != nil {
		return Appointment{}, err
	}

	now := s.now().UTC()
	if err := s.repo.SetStatus(ctx, a.ID, a.Status, to, notes, now); err != nil {
		return Appointment{}, err
	}
	a.Status = to
	a.UpdatedAt = now
	if notes != nil {
		a.Notes = *notes
	}

	if to == lifecycle.StatusCancelled {
		s.releaseSlot(ctx, a)
	}

	s.emit(ctx, events.AppointmentStatusChanged, a, s.doctorName(ctx, a.DoctorID))
	return a, nil
}

// Delete borra la cita. Si no estaba completada, el turno vuelve a quedar libre.
func (s *Service) Delete(ctx context.Context, actor auth.Claims, id string) error {
	a, err := s.Get(ctx, actor, id)
	if err != nil {
		return err
	}
	if err := s.repo.Delete(ctx, a.ID); err != nil {
		return err
	}
	if a.Status != lifecycle.StatusCompleted {
		s.releaseSlot(ctx, a)
	}
	return nil
}

func (s *Service) releaseSlot(ctx context.Context, a Appointment) {
	err := s.slots.Release(ctx, a.SlotID, a.ID)
	if err == nil || errors.Is(err, slots.ErrNotFound) || errors.Is(err, slots.ErrNotHeld) {
		return
	}
	s.log.Warn("slot release failed", map[string]any{
		"error":          err,
		"slot_id":        a.SlotID,
		"appointment_id": a.ID,
	})
}
