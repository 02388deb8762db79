package grooming

import (
	"context"
	"testing"
	"time"

	"pet-services/internal/adapters/mail/logmail"
	"pet-services/internal/adapters/storage/memory"
	"pet-services/internal/domain/lifecycle"
	"pet-services/internal/notifications"
	"pet-services/internal/platform/logger"
	"pet-services/internal/ports/events"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestService() (*Service, *events.Recorder) {
	rec := &events.Recorder{}
	svc := NewService(NewRepository(memory.NewCollection[Booking](memory.NewStore(), Collection)), rec, logger.Nop())
	return svc, rec
}

func validInput() CreateInput {
	return CreateInput{
		Owner: lifecycle.Owner{Name: "Ana", Email: "ana@example.com"},
		Pet:   lifecycle.Pet{Name: "Milo"},
		Services: []ServiceItem{
			{Name: "Baño", Price: 1500},
			{Name: "Corte de uñas", Price: 500.5},
		},
		Date: "2025-03-10",
		Time: "11:30",
	}
}

func TestCreate_TotalIsSumOfServices(t *testing.T) {
	svc, rec := newTestService()
	b, err := svc.Create(context.Background(), validInput())
	require.NoError(t, err)
	assert.InDelta(t, 2000.5, b.TotalCost, 0.0001)
	assert.Equal(t, lifecycle.StatusPending, b.Status)

	e, ok := rec.Last(events.GroomingCreated)
	require.True(t, ok)
	assert.Equal(t, "2000.50", e.Data["total"])
	assert.Equal(t, "Baño, Corte de uñas", e.Data["services"])
}

func TestCreate_Validation(t *testing.T) {
	svc, _ := newTestService()
	ctx := context.Background()

	in := validInput()
	in.Services = nil
	_, err := svc.Create(ctx, in)
	assert.ErrorIs(t, err, ErrNoServices)

	in = validInput()
	in.Services[0].Price = -1
	_, err = svc.Create(ctx, in)
	assert.ErrorIs(t, err, ErrInvalidInput)

	in = validInput()
	in.Time = "25:00"
	_, err = svc.Create(ctx, in)
	assert.Error(t, err)
}

func TestUpdateStatus_EmitsUpdated(t *testing.T) {
	svc, rec := newTestService()
	ctx := context.Background()
	b, err := svc.Create(ctx, validInput())
	require.NoError(t, err)

	b, err = svc.UpdateStatus(ctx, b.ID, lifecycle.StatusConfirmed)
	require.NoError(t, err)
	e, ok := rec.Last(events.GroomingUpdated)
	require.True(t, ok)
	assert.Equal(t, "confirmed", e.Status)

	_, err = svc.UpdateStatus(ctx, b.ID, lifecycle.StatusPending)
	assert.ErrorIs(t, err, lifecycle.ErrInvalidTransition)
}

func TestUpdate_ClosedBooking(t *testing.T) {
	svc, _ := newTestService()
	ctx := context.Background()
	b, err := svc.Create(ctx, validInput())
	require.NoError(t, err)

	notes := "usar shampoo hipoalergénico"
	b, err = svc.Update(ctx, b.ID, UpdateInput{Notes: &notes})
	require.NoError(t, err)
	assert.Equal(t, notes, b.Notes)

	_, err = svc.UpdateStatus(ctx, b.ID, lifecycle.StatusCancelled)
	require.NoError(t, err)
	_, err = svc.Update(ctx, b.ID, UpdateInput{Notes: &notes})
	assert.ErrorIs(t, err, ErrClosed)
}

func TestReschedules_EachSendMail(t *testing.T) {
	out := logmail.NewSender(logger.Nop())
	sent := memory.NewCollection[notifications.LogEntry](memory.NewStore(), notifications.LogCollection)
	d, err := notifications.NewDispatcher(out, sent, notifications.Options{App: "Pet Services"}, logger.Nop())
	require.NoError(t, err)

	svc := NewService(NewRepository(memory.NewCollection[Booking](memory.NewStore(), Collection)), d, logger.Nop())
	clock := time.Date(2025, 3, 1, 9, 0, 0, 0, time.UTC)
	svc.now = func() time.Time {
		clock = clock.Add(time.Minute)
		return clock
	}
	ctx := context.Background()

	b, err := svc.Create(ctx, validInput())
	require.NoError(t, err)
	_, err = svc.UpdateStatus(ctx, b.ID, lifecycle.StatusConfirmed)
	require.NoError(t, err)

	for _, day := range []string{"2025-03-11", "2025-03-12"} {
		day := day
		_, err = svc.Update(ctx, b.ID, UpdateInput{Date: &day})
		require.NoError(t, err)
	}
	assert.Len(t, out.Sent(), 4)

	// misma fecha otra vez: no hay cambio, no hay mail
	same := "2025-03-12"
	_, err = svc.Update(ctx, b.ID, UpdateInput{Date: &same})
	require.NoError(t, err)
	assert.Len(t, out.Sent(), 4)
}
