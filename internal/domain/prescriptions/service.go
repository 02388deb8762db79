package prescriptions

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"strings"
	"time"
	"unicode/utf8"

	"pet-services/internal/domain/appointments"
	"pet-services/internal/domain/doctors"
	"pet-services/internal/domain/lifecycle"
	"pet-services/internal/platform/apperr"
	"pet-services/internal/platform/logger"
	"pet-services/internal/ports/auth"
	"pet-services/internal/ports/blob"
	"pet-services/internal/ports/events"

	"github.com/google/uuid"
)

var (
	ErrInvalidInput  = fmt.Errorf("%w: invalid prescription", apperr.ErrInvalidInput)
	ErrNoMedicines   = fmt.Errorf("%w: at least one medicine is required", apperr.ErrInvalidInput)
	ErrCancelled     = fmt.Errorf("%w: appointment is cancelled", apperr.ErrConflict)
	ErrNotFound      = fmt.Errorf("%w: prescription not found", apperr.ErrNotFound)
	ErrForbidden     = fmt.Errorf("%w: prescription belongs to another doctor", apperr.ErrForbidden)
	ErrRenderFailure = errors.New("prescription render failed")
	ErrTooLarge      = fmt.Errorf("%w: prescription exceeds page limits", apperr.ErrInvalidInput)
)

// Límites de la página renderizada.
const (
	MaxMedicines     = 20
	MaxTextLen       = 2000
	MaxMedicineField = 200
)

type Appointments interface {
	Get(ctx context.Context, actor auth.Claims, id string) (appointments.Appointment, error)
}

type Doctors interface {
	GetByID(ctx context.Context, id string) (doctors.Doctor, error)
}

type Service struct {
	repo         Repository
	appointments Appointments
	doctors      Doctors
	blobs        blob.Store
	pub          events.Publisher
	log          logger.Logger
	now          func() time.Time
}

func NewService(repo Repository, appts Appointments, docs Doctors, blobs blob.Store, pub events.Publisher, log logger.Logger) *Service {
	return &Service{
		repo:         repo,
		appointments: appts,
		doctors:      docs,
		blobs:        blobs,
		pub:          pub,
		log:          log,
		now:          time.Now,
	}
}

type IssueInput struct {
	AppointmentID string
	Diagnosis     string
	Medicines     []Medicine
	Advice        string
}

func tooLong(s string, n int) bool {
	return utf8.RuneCountInString(s) > n
}

func checkLimits(diagnosis, advice string, meds []Medicine) error {
	if len(meds) > MaxMedicines {
		return fmt.Errorf("%w: at most %d medicines", ErrTooLarge, MaxMedicines)
	}
	if tooLong(diagnosis, MaxTextLen) || tooLong(advice, MaxTextLen) {
		return fmt.Errorf("%w: diagnosis and advice are limited to %d characters", ErrTooLarge, MaxTextLen)
	}
	for _, m := range meds {
		for _, f := range []string{m.Name, m.Dosage, m.Frequency, m.Duration} {
			if tooLong(f, MaxMedicineField) {
				return fmt.Errorf("%w: medicine fields are limited to %d characters", ErrTooLarge, MaxMedicineField)
			}
		}
	}
	return nil
}

func cleanMedicines(in []Medicine) []Medicine {
	out := make([]Medicine, 0, len(in))
	for _, m := range in {
		m.Name = strings.TrimSpace(m.Name)
		if m.Name == "" {
			continue
		}
		m.Dosage = strings.TrimSpace(m.Dosage)
		m.Frequency = strings.TrimSpace(m.Frequency)
		m.Duration = strings.TrimSpace(m.Duration)
		out = append(out, m)
	}
	return out
}

// Issue genera la receta de una cita, la renderiza como PNG y la sube a prescriptions/<id>.png.
func (s *Service) Issue(ctx context.Context, actor auth.Claims, in IssueInput) (Prescription, error) {
	appointmentID := strings.TrimSpace(in.AppointmentID)
	if appointmentID == "" {
		return Prescription{}, fmt.Errorf("%w: appointmentId is required", ErrInvalidInput)
	}
	meds := cleanMedicines(in.Medicines)
	if len(meds) == 0 {
		return Prescription{}, ErrNoMedicines
	}
	diagnosis, advice := strings.TrimSpace(in.Diagnosis), strings.TrimSpace(in.Advice)
	if err := checkLimits(diagnosis, advice, meds); err != nil {
		return Prescription{}, err
	}

	// Get ya aplica el scope del doctor
	a, err := s.appointments.Get(ctx, actor, appointmentID)
	if err != nil {
		return Prescription{}, err
	}
	if a.Status == lifecycle.StatusCancelled {
		return Prescription{}, ErrCancelled
	}

	p := Prescription{
		ID:            uuid.NewString(),
		AppointmentID: a.ID,
		DoctorID:      a.DoctorID,
		PetName:       a.Pet.Name,
		OwnerName:     a.Owner.Name,
		OwnerEmail:    a.Owner.Email,
		Diagnosis:     diagnosis,
		Medicines:     meds,
		Advice:        advice,
		CreatedAt:     s.now().UTC(),
	}
	if d, err := s.doctors.GetByID(ctx, a.DoctorID); err == nil {
		p.DoctorName = d.Name
	} else {
		s.log.Warn("doctor lookup failed", map[string]any{"error": err, "doctor_id": a.DoctorID})
	}

	png, err := Render(p)
	if err != nil {
		return Prescription{}, fmt.Errorf("%w: %v", ErrRenderFailure, err)
	}
	obj, err := s.blobs.Put(ctx, blob.PrefixPrescriptions+"/"+p.ID+".png", "image/png", bytes.NewReader(png))
	if err != nil {
		return Prescription{}, err
	}
	p.FileURL, p.FilePath = obj.URL, obj.Path

	if err := s.repo.Create(ctx, p); err != nil {
		s.deleteBlob(ctx, obj.Path)
		return Prescription{}, err
	}

	events.Emit(ctx, s.pub, s.log, events.Event{
		Type:     events.PrescriptionIssued,
		EntityID: p.ID,
		Data: map[string]string{
			"owner_name":  p.OwnerName,
			"owner_email": p.OwnerEmail,
			"pet_name":    p.PetName,
			"doctor_name": p.DoctorName,
			"file_url":    p.FileURL,
		},
	})
	return p, nil
}

func authorize(actor auth.Claims, p Prescription) error {
	if actor.Role == auth.RoleDoctor && actor.DoctorID != p.DoctorID {
		return ErrForbidden
	}
	return nil
}

func (s *Service) Get(ctx context.Context, actor auth.Claims, id string) (Prescription, error) {
	p, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return Prescription{}, err
	}
	if err := authorize(actor, p); err != nil {
		return Prescription{}, err
	}
	return p, nil
}

func (s *Service) List(ctx context.Context, actor auth.Claims, f ListFilter) ([]Prescription, error) {
	if actor.Role == auth.RoleDoctor {
		if actor.DoctorID == "" {
			return []Prescription{}, nil
		}
		f.DoctorID = actor.DoctorID
	}
	return s.repo.List(ctx, f)
}

// Delete borra el documento y después el archivo (best effort).
func (s *Service) Delete(ctx context.Context, actor auth.Claims, id string) error {
	p, err := s.Get(ctx, actor, id)
	if err != nil {
		return err
	}
	if err := s.repo.Delete(ctx, id); err != nil {
		return err
	}
	s.deleteBlob(ctx, p.FilePath)
	return nil
}

func (s *Service) deleteBlob(ctx context.Context, path string) {
	if path == "" {
		return
	}
	if err := s.blobs.Delete(ctx, path); err != nil {
		s.log.Warn("blob delete failed", map[string]any{"error": err, "path": path})
	}
}
