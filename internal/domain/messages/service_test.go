package messages

import (
	"context"
	"testing"

	"pet-services/internal/adapters/storage/memory"
	"pet-services/internal/platform/logger"
	"pet-services/internal/ports/events"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestService() (*Service, *events.Recorder) {
	rec := &events.Recorder{}
	repo := NewRepository(memory.NewCollection[Message](memory.NewStore(), Collection))
	return NewService(repo, rec, logger.Nop()), rec
}

func TestCreate_EmitsMessageReceived(t *testing.T) {
	svc, rec := newTestService()
	m, err := svc.Create(context.Background(), CreateInput{Name: "Ana", Email: "Ana@Example.com", Body: "¿Atienden sábados?"})
	require.NoError(t, err)
	assert.Equal(t, "ana@example.com", m.Email)
	assert.Equal(t, "Consulta", m.Subject)
	assert.False(t, m.Read)

	e, ok := rec.Last(events.MessageReceived)
	require.True(t, ok)
	assert.Equal(t, m.ID, e.EntityID)
	assert.Equal(t, "¿Atienden sábados?", e.Data["body"])
}

func TestCreate_Validation(t *testing.T) {
	svc, rec := newTestService()
	ctx := context.Background()

	_, err := svc.Create(ctx, CreateInput{Name: "Ana", Email: "no-es-mail", Body: "hola"})
	assert.ErrorIs(t, err, ErrInvalidInput)
	_, err = svc.Create(ctx, CreateInput{Name: "", Email: "a@b.c", Body: "hola"})
	assert.ErrorIs(t, err, ErrInvalidInput)
	assert.Empty(t, rec.Events)
}

func TestMarkReadAndUnreadFilter(t *testing.T) {
	svc, _ := newTestService()
	ctx := context.Background()

	a, err := svc.Create(ctx, CreateInput{Name: "Ana", Email: "a@b.c", Body: "uno"})
	require.NoError(t, err)
	_, err = svc.Create(ctx, CreateInput{Name: "Luis", Email: "l@b.c", Body: "dos"})
	require.NoError(t, err)

	a, err = svc.MarkRead(ctx, a.ID, true)
	require.NoError(t, err)
	assert.True(t, a.Read)

	unread, err := svc.List(ctx, true, 0)
	require.NoError(t, err)
	require.Len(t, unread, 1)
	assert.Equal(t, "Luis", unread[0].Name)

	_, err = svc.MarkRead(ctx, "missing", true)
	assert.ErrorIs(t, err, ErrNotFound)

	require.NoError(t, svc.Delete(ctx, a.ID))
	assert.ErrorIs(t, svc.Delete(ctx, a.ID), ErrNotFound)
}
