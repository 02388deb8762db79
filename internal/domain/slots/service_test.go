package slots

import (
	"context"
	"sync"
	"testing"

	"pet-services/internal/adapters/storage/memory"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestService() *Service {
	return NewService(NewRepository(memory.NewCollection[Slot](memory.NewStore(), Collection)))
}

func TestGenerate_SkipsExisting(t *testing.T) {
	svc := newTestService()
	ctx := context.Background()
	in := GenerateInput{DoctorID: "doc-1", Date: "2025-03-03", Start: "09:00", End: "10:00", DurationMinutes: 30}

	res, err := svc.Generate(ctx, in)
	require.NoError(t, err)
	assert.Equal(t, 2, res.Created)
	assert.Equal(t, 0, res.Skipped)

	in.End = "11:00"
	res, err = svc.Generate(ctx, in)
	require.NoError(t, err)
	assert.Equal(t, 2, res.Created)
	assert.Equal(t, 2, res.Skipped)

	all, err := svc.List(ctx, ListFilter{DoctorID: "doc-1", Date: "2025-03-03"})
	require.NoError(t, err)
	require.Len(t, all, 4)
	assert.Equal(t, "09:00", all[0].Start)
	assert.Equal(t, "10:30", all[3].Start)
}

func TestGenerate_Validation(t *testing.T) {
	svc := newTestService()
	_, err := svc.Generate(context.Background(), GenerateInput{DoctorID: "", Date: "2025-03-03", Start: "09:00", End: "10:00", DurationMinutes: 30})
	assert.ErrorIs(t, err, ErrInvalidInput)

	_, err = svc.Generate(context.Background(), GenerateInput{DoctorID: "d", Date: "03/03/2025", Start: "09:00", End: "10:00", DurationMinutes: 30})
	assert.Error(t, err)
}

func TestClaimRelease(t *testing.T) {
	svc := newTestService()
	ctx := context.Background()
	res, err := svc.Generate(ctx, GenerateInput{DoctorID: "d", Date: "2025-03-03", Start: "09:00", End: "09:30", DurationMinutes: 30})
	require.NoError(t, err)
	id := res.Slots[0].ID

	require.NoError(t, svc.Claim(ctx, id, "appt-1"))
	assert.ErrorIs(t, svc.Claim(ctx, id, "appt-2"), ErrAlreadyBooked)

	free, err := svc.List(ctx, ListFilter{DoctorID: "d", OnlyAvailable: true})
	require.NoError(t, err)
	assert.Empty(t, free)

	// otra cita no puede liberar el turno
	assert.ErrorIs(t, svc.Release(ctx, id, "appt-2"), ErrNotHeld)
	require.NoError(t, svc.Release(ctx, id, "appt-1"))

	s, err := svc.GetByID(ctx, id)
	require.NoError(t, err)
	assert.False(t, s.IsBooked)
	assert.Empty(t, s.AppointmentID)
}

func TestClaim_ConcurrentOnlyOneWins(t *testing.T) {
	svc := newTestService()
	ctx := context.Background()
	res, err := svc.Generate(ctx, GenerateInput{DoctorID: "d", Date: "2025-03-03", Start: "09:00", End: "09:30", DurationMinutes: 30})
	require.NoError(t, err)
	id := res.Slots[0].ID

	var wg sync.WaitGroup
	var mu sync.Mutex
	wins := 0
	for i := 0; i < 20; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			if svc.Claim(ctx, id, "appt-"+string(rune('a'+i))) == nil {
				mu.Lock()
				wins++
				mu.Unlock()
			}
		}(i)
	}
	wg.Wait()
	assert.Equal(t, 1, wins)
}

func TestDelete_OnlyUnbooked(t *testing.T) {
	svc := newTestService()
	ctx := context.Background()
	res, err := svc.Generate(ctx, GenerateInput{DoctorID: "d", Date: "2025-03-03", Start: "09:00", End: "10:00", DurationMinutes: 30})
	require.NoError(t, err)

	require.NoError(t, svc.Claim(ctx, res.Slots[0].ID, "appt-1"))
	assert.ErrorIs(t, svc.Delete(ctx, res.Slots[0].ID), ErrAlreadyBooked)
	assert.NoError(t, svc.Delete(ctx, res.Slots[1].ID))
	assert.ErrorIs(t, svc.Delete(ctx, res.Slots[1].ID), ErrNotFound)
}

func TestPurgeBefore(t *testing.T) {
	svc := newTestService()
	ctx := context.Background()
	for _, d := range []string{"2025-03-01", "2025-03-02", "2025-03-03"} {
		_, err := svc.Generate(ctx, GenerateInput{DoctorID: "d", Date: d, Start: "09:00", End: "10:00", DurationMinutes: 30})
		require.NoError(t, err)
	}
	require.NoError(t, svc.Claim(ctx, SlotID("d", "2025-03-01", "09:00"), "appt-1"))

	n, err := svc.PurgeBefore(ctx, "2025-03-03")
	require.NoError(t, err)
	assert.Equal(t, 3, n)

	left, err := svc.List(ctx, ListFilter{DoctorID: "d"})
	require.NoError(t, err)
	require.Len(t, left, 3)
	assert.True(t, left[0].IsBooked)
}
