package prescriptions

import (
	"bytes"
	"context"
	"image/png"
	"strings"
	"testing"
	"time"

	blobmem "pet-services/internal/adapters/blob/memory"
	"pet-services/internal/adapters/storage/memory"
	"pet-services/internal/domain/appointments"
	"pet-services/internal/domain/doctors"
	"pet-services/internal/domain/lifecycle"
	"pet-services/internal/platform/logger"
	"pet-services/internal/ports/auth"
	"pet-services/internal/ports/events"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeAppointments map[string]appointments.Appointment

func (f fakeAppointments) Get(_ context.Context, actor auth.Claims, id string) (appointments.Appointment, error) {
	a, ok := f[id]
	if !ok {
		return appointments.Appointment{}, appointments.ErrNotFound
	}
	if actor.Role == auth.RoleDoctor && actor.DoctorID != a.DoctorID {
		return appointments.Appointment{}, appointments.ErrForbidden
	}
	return a, nil
}

type fakeDoctors struct{}

func (fakeDoctors) GetByID(_ context.Context, id string) (doctors.Doctor, error) {
	return doctors.Doctor{ID: id, Name: "Dra. Paz"}, nil
}

var admin = auth.Claims{UserID: "admin-1", Role: auth.RoleAdmin, Permissions: map[string]bool{auth.PermPrescriptions: true}}

func newTestService() (*Service, *blobmem.Store, *events.Recorder) {
	appts := fakeAppointments{
		"a1": {ID: "a1", DoctorID: "d1", Status: lifecycle.StatusConfirmed,
			Owner: lifecycle.Owner{Name: "Ana", Email: "ana@example.com"}, Pet: lifecycle.Pet{Name: "Milo"}},
		"a2": {ID: "a2", DoctorID: "d1", Status: lifecycle.StatusCancelled},
		"a3": {ID: "a3", DoctorID: "d2", Status: lifecycle.StatusPending},
	}
	blobs := blobmem.NewStore("")
	rec := &events.Recorder{}
	repo := NewRepository(memory.NewCollection[Prescription](memory.NewStore(), Collection))
	svc := NewService(repo, appts, fakeDoctors{}, blobs, rec, logger.Nop())
	svc.now = func() time.Time { return time.Date(2025, 3, 3, 10, 0, 0, 0, time.UTC) }
	return svc, blobs, rec
}

func issueInput(appointmentID string) IssueInput {
	return IssueInput{
		AppointmentID: appointmentID,
		Diagnosis:     "Otitis externa leve",
		Medicines: []Medicine{
			{Name: "Otomax", Dosage: "5 gotas", Frequency: "cada 12 h", Duration: "7 dias"},
		},
		Advice: "Mantener el oido seco.",
	}
}

func TestIssue_RendersAndUploadsPNG(t *testing.T) {
	svc, blobs, rec := newTestService()
	ctx := context.Background()

	p, err := svc.Issue(ctx, admin, issueInput("a1"))
	require.NoError(t, err)
	assert.Equal(t, "prescriptions/"+p.ID+".png", p.FilePath)
	assert.Equal(t, "Dra. Paz", p.DoctorName)
	assert.Equal(t, "Milo", p.PetName)
	require.True(t, blobs.Has(p.FilePath))

	rc, obj, err := blobs.Open(ctx, p.FilePath)
	require.NoError(t, err)
	defer rc.Close()
	assert.Equal(t, "image/png", obj.ContentType)
	var buf bytes.Buffer
	_, err = buf.ReadFrom(rc)
	require.NoError(t, err)
	img, err := png.Decode(&buf)
	require.NoError(t, err)
	assert.Equal(t, pageWidth, img.Bounds().Dx())

	e, ok := rec.Last(events.PrescriptionIssued)
	require.True(t, ok)
	assert.Equal(t, "ana@example.com", e.Data["owner_email"])
}

func TestIssue_Validation(t *testing.T) {
	svc, _, _ := newTestService()
	ctx := context.Background()

	in := issueInput("a1")
	in.Medicines = []Medicine{{Name: "  "}}
	_, err := svc.Issue(ctx, admin, in)
	assert.ErrorIs(t, err, ErrNoMedicines)

	_, err = svc.Issue(ctx, admin, issueInput("a2"))
	assert.ErrorIs(t, err, ErrCancelled)

	_, err = svc.Issue(ctx, admin, issueInput("missing"))
	assert.ErrorIs(t, err, appointments.ErrNotFound)
}

func TestIssue_RejectsOversizedContent(t *testing.T) {
	svc, blobs, _ := newTestService()
	ctx := context.Background()

	in := issueInput("a1")
	in.Diagnosis = strings.Repeat("otitis ", MaxTextLen)
	_, err := svc.Issue(ctx, admin, in)
	assert.ErrorIs(t, err, ErrTooLarge)

	in = issueInput("a1")
	for len(in.Medicines) <= MaxMedicines {
		in.Medicines = append(in.Medicines, Medicine{Name: "Otomax"})
	}
	_, err = svc.Issue(ctx, admin, in)
	assert.ErrorIs(t, err, ErrTooLarge)

	in = issueInput("a1")
	in.Medicines[0].Dosage = strings.Repeat("x", MaxMedicineField+1)
	_, err = svc.Issue(ctx, admin, in)
	assert.ErrorIs(t, err, ErrTooLarge)

	in = issueInput("a1")
	in.Advice = strings.Repeat("á", MaxTextLen)
	p, err := svc.Issue(ctx, admin, in)
	require.NoError(t, err)
	assert.True(t, blobs.Has(p.FilePath))
}

func TestDoctorScoping(t *testing.T) {
	svc, blobs, _ := newTestService()
	ctx := context.Background()
	d1 := auth.Claims{UserID: "u-d1", Role: auth.RoleDoctor, DoctorID: "d1"}
	d2 := auth.Claims{UserID: "u-d2", Role: auth.RoleDoctor, DoctorID: "d2"}

	_, err := svc.Issue(ctx, d2, issueInput("a1"))
	assert.ErrorIs(t, err, appointments.ErrForbidden)

	p, err := svc.Issue(ctx, d1, issueInput("a1"))
	require.NoError(t, err)
	_, err = svc.Issue(ctx, d2, issueInput("a3"))
	require.NoError(t, err)

	mine, err := svc.List(ctx, d1, ListFilter{DoctorID: "d2"})
	require.NoError(t, err)
	require.Len(t, mine, 1)
	assert.Equal(t, p.ID, mine[0].ID)

	byAppt, err := svc.List(ctx, admin, ListFilter{AppointmentID: "a3"})
	require.NoError(t, err)
	assert.Len(t, byAppt, 1)

	_, err = svc.Get(ctx, d2, p.ID)
	assert.ErrorIs(t, err, ErrForbidden)
	assert.ErrorIs(t, svc.Delete(ctx, d2, p.ID), ErrForbidden)

	require.NoError(t, svc.Delete(ctx, d1, p.ID))
	assert.False(t, blobs.Has(p.FilePath))
}
