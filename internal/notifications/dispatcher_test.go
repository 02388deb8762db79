package notifications

import (
	"context"
	"errors"
	"testing"

	"pet-services/internal/adapters/mail/logmail"
	"pet-services/internal/adapters/storage/memory"
	"pet-services/internal/platform/logger"
	"pet-services/internal/ports/events"
	"pet-services/internal/ports/mail"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestDispatcher(t *testing.T, sender mail.Sender) *Dispatcher {
	t.Helper()
	sent := memory.NewCollection[LogEntry](memory.NewStore(), LogCollection)
	d, err := NewDispatcher(sender, sent, Options{App: "Pet Services", AdminNotify: "admin@petservices.test"}, logger.Nop())
	require.NoError(t, err)
	return d
}

func TestRenderer_AllEventTypesHaveTemplates(t *testing.T) {
	r, err := newRenderer()
	require.NoError(t, err)
	for typ := range subjects {
		html, err := r.render(typ, templateData{App: "x", D: map[string]string{}})
		require.NoError(t, err, typ)
		assert.Contains(t, html, "<html", typ)
	}
}

func TestHandle_AppointmentGoesToOwner(t *testing.T) {
	out := logmail.NewSender(logger.Nop())
	d := newTestDispatcher(t, out)

	err := d.Handle(context.Background(), events.Event{
		ID:       "e1",
		Type:     events.AppointmentStatusChanged,
		EntityID: "a1",
		Status:   "confirmed",
		Data: map[string]string{
			"owner_name":  "Ana",
			"owner_email": "ana@example.com",
			"pet_name":    "Milo <3",
			"date":        "2025-03-03",
			"start":       "09:00",
			"status":      "confirmed",
		},
	})
	require.NoError(t, err)

	msgs := out.Sent()
	require.Len(t, msgs, 1)
	assert.Equal(t, "ana@example.com", msgs[0].To)
	assert.Contains(t, msgs[0].HTML, "confirmada")
	assert.Contains(t, msgs[0].HTML, "Milo &lt;3")
}

func TestHandle_DedupesSameKey(t *testing.T) {
	out := logmail.NewSender(logger.Nop())
	d := newTestDispatcher(t, out)
	ctx := context.Background()

	e := events.Event{ID: "e1", Type: events.GroomingCreated, EntityID: "g1", Status: "pending",
		Data: map[string]string{"owner_email": "ana@example.com"}}
	require.NoError(t, d.Handle(ctx, e))
	e.ID = "e2"
	require.NoError(t, d.Handle(ctx, e))
	assert.Len(t, out.Sent(), 1)

	e.Status = "confirmed"
	require.NoError(t, d.Handle(ctx, e))
	assert.Len(t, out.Sent(), 2)
}

func TestHandle_Recipients(t *testing.T) {
	out := logmail.NewSender(logger.Nop())
	d := newTestDispatcher(t, out)
	ctx := context.Background()

	require.NoError(t, d.Handle(ctx, events.Event{ID: "1", Type: events.MessageReceived, EntityID: "m1",
		Data: map[string]string{"email": "visitor@example.com", "subject": "Hola"}}))
	require.NoError(t, d.Handle(ctx, events.Event{ID: "2", Type: events.BoardingApproved, EntityID: "c1", Status: "approved",
		Data: map[string]string{"center_email": "centro@example.com"}}))
	require.NoError(t, d.Handle(ctx, events.Event{ID: "3", Type: events.AuthOTP, EntityID: "u1",
		Data: map[string]string{"email": "staff@example.com", "code": "123456"}}))
	// sin destinatario: se ignora
	require.NoError(t, d.Handle(ctx, events.Event{ID: "4", Type: events.AppointmentCreated, EntityID: "a1"}))

	msgs := out.Sent()
	require.Len(t, msgs, 3)
	assert.Equal(t, "admin@petservices.test", msgs[0].To)
	assert.Equal(t, "centro@example.com", msgs[1].To)
	assert.Equal(t, "staff@example.com", msgs[2].To)
	assert.Contains(t, msgs[2].HTML, "123456")
}

type flakySender struct {
	fail bool
	n    int
}

func (f *flakySender) Send(context.Context, mail.Message) error {
	f.n++
	if f.fail {
		return errors.New("smtp: connection refused")
	}
	return nil
}

func TestHandle_FailedSendCanBeRetried(t *testing.T) {
	s := &flakySender{fail: true}
	d := newTestDispatcher(t, s)
	ctx := context.Background()
	e := events.Event{ID: "e1", Type: events.PrescriptionIssued, EntityID: "p1",
		Data: map[string]string{"owner_email": "ana@example.com"}}

	require.Error(t, d.Handle(ctx, e))
	s.fail = false
	require.NoError(t, d.Handle(ctx, e))
	require.NoError(t, d.Handle(ctx, e))
	assert.Equal(t, 2, s.n)
}
