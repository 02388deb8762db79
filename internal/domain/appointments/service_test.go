package appointments

import (
	"context"
	"errors"
	"testing"
	"time"

	"pet-services/internal/adapters/storage/memory"
	"pet-services/internal/domain/doctors"
	"pet-services/internal/domain/lifecycle"
	"pet-services/internal/domain/slots"
	"pet-services/internal/platform/logger"
	"pet-services/internal/ports/auth"
	"pet-services/internal/ports/events"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fixture struct {
	svc      *Service
	slots    *slots.Service
	rec      *events.Recorder
	doctorID string
	slotIDs  []string
	admin    auth.Claims
}

// failingRepo falla en Create para probar la liberación del turno.
type failingRepo struct {
	Repository
}

func (failingRepo) Create(context.Context, Appointment) error {
	return errors.New("disk full")
}

func newFixture(t *testing.T, wrap func(Repository) Repository) *fixture {
	t.Helper()
	ctx := context.Background()
	store := memory.NewStore()

	slotSvc := slots.NewService(slots.NewRepository(memory.NewCollection[slots.Slot](store, slots.Collection)))
	docSvc := doctors.NewService(doctors.NewRepository(memory.NewCollection[doctors.Doctor](store, doctors.Collection)))

	doc, err := docSvc.Create(ctx, doctors.Input{Name: "Dra. Paz"})
	require.NoError(t, err)
	res, err := slotSvc.Generate(ctx, slots.GenerateInput{
		DoctorID: doc.ID, Date: "2025-03-03", Start: "09:00", End: "10:00", DurationMinutes: 30,
	})
	require.NoError(t, err)

	repo := NewRepository(memory.NewCollection[Appointment](store, Collection))
	if wrap != nil {
		repo = wrap(repo)
	}
	rec := &events.Recorder{}
	svc := NewService(repo, slotSvc, docSvc, rec, logger.Nop())
	svc.now = func() time.Time { return time.Date(2025, 3, 1, 12, 0, 0, 0, time.UTC) }

	f := &fixture{
		svc:      svc,
		slots:    slotSvc,
		rec:      rec,
		doctorID: doc.ID,
		admin:    auth.Claims{UserID: "admin-1", Role: auth.RoleAdmin, Permissions: map[string]bool{auth.PermAppointments: true}},
	}
	for _, s := range res.Slots {
		f.slotIDs = append(f.slotIDs, s.ID)
	}
	return f
}

func (f *fixture) book(t *testing.T, slotID string) Appointment {
	t.Helper()
	a, err := f.svc.Book(context.Background(), BookInput{
		DoctorID: f.doctorID,
		SlotID:   slotID,
		Owner:    lifecycle.Owner{Name: "Ana", Email: "ana@example.com"},
		Pet:      lifecycle.Pet{Name: "Milo", Species: "Dog"},
		Reason:   "vacuna",
	})
	require.NoError(t, err)
	return a
}

func TestBook_ClaimsSlotAndEmits(t *testing.T) {
	f := newFixture(t, nil)
	a := f.book(t, f.slotIDs[0])

	assert.Equal(t, lifecycle.StatusPending, a.Status)
	assert.Equal(t, "09:00", a.Start)
	assert.Equal(t, "dog", a.Pet.Species)

	s, err := f.slots.GetByID(context.Background(), f.slotIDs[0])
	require.NoError(t, err)
	assert.True(t, s.IsBooked)
	assert.Equal(t, a.ID, s.AppointmentID)

	e, ok := f.rec.Last(events.AppointmentCreated)
	require.True(t, ok)
	assert.Equal(t, a.ID, e.EntityID)
	assert.Equal(t, "ana@example.com", e.Data["owner_email"])
	assert.Equal(t, "Dra. Paz", e.Data["doctor_name"])
}

func TestBook_SlotTaken(t *testing.T) {
	f := newFixture(t, nil)
	f.book(t, f.slotIDs[0])

	_, err := f.svc.Book(context.Background(), BookInput{
		DoctorID: f.doctorID,
		SlotID:   f.slotIDs[0],
		Owner:    lifecycle.Owner{Name: "Beto", Email: "beto@example.com"},
		Pet:      lifecycle.Pet{Name: "Luna"},
	})
	assert.ErrorIs(t, err, ErrSlotUnavailable)
}

func TestBook_ReleasesSlotWhenInsertFails(t *testing.T) {
	f := newFixture(t, func(r Repository) Repository { return failingRepo{r} })

	_, err := f.svc.Book(context.Background(), BookInput{
		DoctorID: f.doctorID,
		SlotID:   f.slotIDs[0],
		Owner:    lifecycle.Owner{Name: "Ana", Email: "ana@example.com"},
		Pet:      lifecycle.Pet{Name: "Milo"},
	})
	require.Error(t, err)

	s, err := f.slots.GetByID(context.Background(), f.slotIDs[0])
	require.NoError(t, err)
	assert.False(t, s.IsBooked)
	assert.Empty(t, f.rec.Events)
}

func TestBook_Validation(t *testing.T) {
	f := newFixture(t, nil)
	ctx := context.Background()

	_, err := f.svc.Book(ctx, BookInput{DoctorID: f.doctorID, SlotID: f.slotIDs[0], Owner: lifecycle.Owner{Name: "Ana"}, Pet: lifecycle.Pet{Name: "Milo"}})
	assert.Error(t, err)

	_, err = f.svc.Book(ctx, BookInput{DoctorID: "other", SlotID: f.slotIDs[0], Owner: lifecycle.Owner{Name: "Ana", Email: "a@b.c"}, Pet: lifecycle.Pet{Name: "Milo"}})
	assert.ErrorIs(t, err, doctors.ErrNotFound)
}

func TestUpdateStatus_Lifecycle(t *testing.T) {
	f := newFixture(t, nil)
	ctx := context.Background()
	a := f.book(t, f.slotIDs[0])

	_, err := f.svc.UpdateStatus(ctx, f.admin, a.ID, lifecycle.StatusConfirmed, nil)
	require.NoError(t, err)
	done, err := f.svc.UpdateStatus(ctx, f.admin, a.ID, lifecycle.StatusCompleted, nil)
	require.NoError(t, err)
	assert.Equal(t, lifecycle.StatusCompleted, done.Status)

	// cancelar una cita completada se rechaza
	_, err = f.svc.UpdateStatus(ctx, f.admin, a.ID, lifecycle.StatusCancelled, nil)
	assert.ErrorIs(t, err, ErrInvalidTransition)

	e, ok := f.rec.Last(events.AppointmentStatusChanged)
	require.True(t, ok)
	assert.Equal(t, "completed", e.Status)
}

func TestUpdateStatus_CancelReleasesSlot(t *testing.T) {
	f := newFixture(t, nil)
	ctx := context.Background()
	a := f.book(t, f.slotIDs[0])

	notes := "owner called"
	c, err := f.svc.UpdateStatus(ctx, f.admin, a.ID, lifecycle.StatusCancelled, &notes)
	require.NoError(t, err)
	assert.Equal(t, "owner called", c.Notes)

	s, err := f.slots.GetByID(ctx, f.slotIDs[0])
	require.NoError(t, err)
	assert.False(t, s.IsBooked)

	// el turno se puede volver a reservar
	f.book(t, f.slotIDs[0])
}

func TestDoctorScope(t *testing.T) {
	f := newFixture(t, nil)
	ctx := context.Background()
	a := f.book(t, f.slotIDs[0])

	other := auth.Claims{UserID: "u2", Role: auth.RoleDoctor, DoctorID: "someone-else"}
	_, err := f.svc.Get(ctx, other, a.ID)
	assert.ErrorIs(t, err, ErrForbidden)
	_, err = f.svc.UpdateStatus(ctx, other, a.ID, lifecycle.StatusConfirmed, nil)
	assert.ErrorIs(t, err, ErrForbidden)

	list, err := f.svc.List(ctx, other, ListFilter{DoctorID: f.doctorID})
	require.NoError(t, err)
	assert.Empty(t, list)

	own := auth.Claims{UserID: "u3", Role: auth.RoleDoctor, DoctorID: f.doctorID}
	list, err = f.svc.List(ctx, own, ListFilter{})
	require.NoError(t, err)
	assert.Len(t, list, 1)
}

func TestDelete_ReleasesUnlessCompleted(t *testing.T) {
	f := newFixture(t, nil)
	ctx := context.Background()

	a := f.book(t, f.slotIDs[0])
	require.NoError(t, f.svc.Delete(ctx, f.admin, a.ID))
	s, err := f.slots.GetByID(ctx, f.slotIDs[0])
	require.NoError(t, err)
	assert.False(t, s.IsBooked)

	b := f.book(t, f.slotIDs[1])
	_, err = f.svc.UpdateStatus(ctx, f.admin, b.ID, lifecycle.StatusConfirmed, nil)
	require.NoError(t, err)
	_, err = f.svc.UpdateStatus(ctx, f.admin, b.ID, lifecycle.StatusCompleted, nil)
	require.NoError(t, err)
	require.NoError(t, f.svc.Delete(ctx, f.admin, b.ID))
	s, err = f.slots.GetByID(ctx, f.slotIDs[1])
	require.NoError(t, err)
	assert.True(t, s.IsBooked)

	_, err = f.svc.Get(ctx, f.admin, b.ID)
	assert.ErrorIs(t, err, ErrNotFound)
}
