package events

import (
	"context"
	"time"

	"pet-services/internal/platform/logger"

	"github.com/google/uuid"
)

type Type string

const (
	AppointmentCreated       Type = "appointment.created"
	AppointmentStatusChanged Type = "appointment.status_changed"
	GroomingCreated          Type = "grooming.created"
	GroomingUpdated          Type = "grooming.updated"
	BoardingRegistered       Type = "boarding.registered"
	BoardingApproved         Type = "boarding.approved"
	BoardingRejected         Type = "boarding.rejected"
	PrescriptionIssued       Type = "prescription.issued"
	MessageReceived          Type = "message.received"
	AuthOTP                  Type = "auth.otp"
)

// Event es lo que se publica tras una escritura. Data lleva los campos que usan los templates.
type Event struct {
	ID         string            `json:"id"`
	Type       Type              `json:"type"`
	EntityID   string            `json:"entity_id"`
	Status     string            `json:"status,omitempty"`
	Revision   string            `json:"revision,omitempty"`
	OccurredAt time.Time         `json:"occurred_at"`
	Data       map[string]string `json:"data"`
}

// DedupeKey identifica la notificación; dos eventos con la misma key envían un solo mail.
// Revision distingue cambios de contenido que no mueven el estado (una reprogramación).
func (e Event) DedupeKey() string {
	if e.Type == AuthOTP {
		// cada OTP es un envío distinto
		return string(e.Type) + ":" + e.ID
	}
	key := string(e.Type) + ":" + e.EntityID + ":" + e.Status
	if e.Revision != "" {
		key += ":" + e.Revision
	}
	return key
}

type Publisher interface {
	Publish(ctx context.Context, e Event) error
}

// Nop descarta eventos.
type Nop struct{}

func (Nop) Publish(context.Context, Event) error { return nil }

// Emit completa ID/OccurredAt y publica. Un error solo se loguea: la escritura que
// originó el evento ya está hecha.
func Emit(ctx context.Context, p Publisher, log logger.Logger, e Event) {
	if p == nil {
		return
	}
	if e.ID == "" {
		e.ID = uuid.NewString()
	}
	if e.OccurredAt.IsZero() {
		e.OccurredAt = time.Now().UTC()
	}
	if err := p.Publish(ctx, e); err != nil && log != nil {
		log.Warn("event publish failed", map[string]any{
			"error":     err,
			"type":      string(e.Type),
			"entity_id": e.EntityID,
		})
	}
}

// Recorder guarda lo publicado; para tests.
type Recorder struct {
	Events []Event
}

func (r *Recorder) Publish(_ context.Context, e Event) error {
	r.Events = append(r.Events, e)
	return nil
}

// Last devuelve el último evento del tipo t.
func (r *Recorder) Last(t Type) (Event, bool) {
	for i := len(r.Events) - 1; i >= 0; i-- {
		if r.Events[i].Type == t {
			return r.Events[i], true
		}
	}
	return Event{}, false
}
