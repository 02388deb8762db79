package notifications

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"pet-services/internal/platform/logger"
	"pet-services/internal/ports/docstore"
	"pet-services/internal/ports/events"
	"pet-services/internal/ports/mail"
)

// LogCollection guarda una entrada por notificación enviada (id = DedupeKey del evento).
const LogCollection = "notificationLog"

type LogEntry struct {
	ID      string    `bson:"_id" json:"id"`
	Type    string    `bson:"type" json:"type"`
	To      string    `bson:"to" json:"to"`
	EventID string    `bson:"eventId" json:"eventId"`
	SentAt  time.Time `bson:"sentAt" json:"sentAt"`
}

var subjects = map[events.Type]string{
	events.AppointmentCreated:       "Solicitud de cita recibida",
	events.AppointmentStatusChanged: "Actualización de tu cita",
	events.GroomingCreated:          "Reserva de grooming recibida",
	events.GroomingUpdated:          "Actualización de tu reserva de grooming",
	events.BoardingRegistered:       "Nuevo centro de hospedaje registrado",
	events.BoardingApproved:         "Tu centro de hospedaje fue aprobado",
	events.BoardingRejected:         "Tu solicitud de centro de hospedaje",
	events.PrescriptionIssued:       "Receta veterinaria",
	events.MessageReceived:          "Nuevo mensaje de contacto",
	events.AuthOTP:                  "Tu código de acceso",
}

type Options struct {
	App         string
	AdminNotify string
}

// Dispatcher convierte eventos en mails. Implementa events.Publisher para el modo in-process.
type Dispatcher struct {
	sender mail.Sender
	sent   docstore.Collection[LogEntry]
	tpl    *renderer
	opts   Options
	log    logger.Logger
	now    func() time.Time
}

func NewDispatcher(sender mail.Sender, sent docstore.Collection[LogEntry], opts Options, log logger.Logger) (*Dispatcher, error) {
	tpl, err := newRenderer()
	if err != nil {
		return nil, err
	}
	return &Dispatcher{
		sender: sender,
		sent:   sent,
		tpl:    tpl,
		opts:   opts,
		log:    log,
		now:    time.Now,
	}, nil
}

func (d *Dispatcher) Publish(ctx context.Context, e events.Event) error {
	return d.Handle(ctx, e)
}

// recipient resuelve a quién va el mail; "" = nadie.
func (d *Dispatcher) recipient(e events.Event) string {
	switch e.Type {
	case events.BoardingRegistered, events.MessageReceived:
		return d.opts.AdminNotify
	case events.BoardingApproved, events.BoardingRejected:
		return e.Data["center_email"]
	case events.AuthOTP:
		return e.Data["email"]
	default:
		return e.Data["owner_email"]
	}
}

// Handle envía la notificación del evento una sola vez por DedupeKey.
// Si el envío falla se libera la key para que un reintento pueda enviarla.
func (d *Dispatcher) Handle(ctx context.Context, e events.Event) error {
	subject, ok := subjects[e.Type]
	if !ok {
		d.log.Debug("no notification for event", map[string]any{"type": string(e.Type)})
		return nil
	}
	to := strings.TrimSpace(d.recipient(e))
	if to == "" {
		d.log.Warn("notification without recipient", map[string]any{"type": string(e.Type), "entity_id": e.EntityID})
		return nil
	}

	html, err := d.tpl.render(e.Type, templateData{App: d.opts.App, D: e.Data})
	if err != nil {
		return fmt.Errorf("render %s: %w", e.Type, err)
	}

	key := e.DedupeKey()
	entry := LogEntry{ID: key, Type: string(e.Type), To: to, EventID: e.ID, SentAt: d.now().UTC()}
	if err := d.sent.Insert(ctx, key, entry); err != nil {
		if errors.Is(err, docstore.ErrDuplicate) {
			d.log.Info("notification already sent", map[string]any{"key": key})
			return nil
		}
		return err
	}

	if err := d.sender.Send(ctx, mail.Message{To: to, Subject: subject, HTML: html}); err != nil {
		if derr := d.sent.Delete(ctx, key); derr != nil {
			d.log.Error("failed to release notification key", map[string]any{"error": derr, "key": key})
		}
		return fmt.Errorf("send %s: %w", e.Type, err)
	}

	d.log.Info("notification sent", map[string]any{"type": string(e.Type), "to": to, "key": key})
	return nil
}
