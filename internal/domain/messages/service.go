package messages

import (
	"context"
	"fmt"
	"net/mail"
	"strings"
	"time"

	"pet-services/internal/platform/apperr"
	"pet-services/internal/platform/logger"
	"pet-services/internal/ports/events"

	"github.com/google/uuid"
)

var (
	ErrInvalidInput = fmt.Errorf("%w: invalid message", apperr.ErrInvalidInput)
	ErrNotFound     = fmt.Errorf("%w: message not found", apperr.ErrNotFound)
)

const maxBodyLen = 5000

type Service struct {
	repo Repository
	pub  events.Publisher
	log  logger.Logger
	now  func() time.Time
}

func NewService(repo Repository, pub events.Publisher, log logger.Logger) *Service {
	return &Service{repo: repo, pub: pub, log: log, now: time.Now}
}

type CreateInput struct {
	Name    string
	Email   string
	Phone   string
	Subject string
	Body    string
}

func (s *Service) Create(ctx context.Context, in CreateInput) (Message, error) {
	m := Message{
		ID:        uuid.NewString(),
		Name:      strings.TrimSpace(in.Name),
		Email:     strings.ToLower(strings.TrimSpace(in.Email)),
		Phone:     strings.TrimSpace(in.Phone),
		Subject:   strings.TrimSpace(in.Subject),
		Body:      strings.TrimSpace(in.Body),
		CreatedAt: s.now().UTC(),
	}
	if m.Name == "" || m.Body == "" {
		return Message{}, fmt.Errorf("%w: name and body are required", ErrInvalidInput)
	}
	if _, err := mail.ParseAddress(m.Email); err != nil {
		return Message{}, fmt.Errorf("%w: invalid email", ErrInvalidInput)
	}
	if len(m.Body) > maxBodyLen {
		return Message{}, fmt.Errorf("%w: body is too long", ErrInvalidInput)
	}
	if m.Subject == "" {
		m.Subject = "Consulta"
	}

	if err := s.repo.Create(ctx, m); err != nil {
		return Message{}, err
	}
	events.Emit(ctx, s.pub, s.log, events.Event{
		Type:     events.MessageReceived,
		EntityID: m.ID,
		Data: map[string]string{
			"name":    m.Name,
			"email":   m.Email,
			"phone":   m.Phone,
			"subject": m.Subject,
			"body":    m.Body,
		},
	})
	return m, nil
}

func (s *Service) List(ctx context.Context, unreadOnly bool, limit int) ([]Message, error) {
	return s.repo.List(ctx, unreadOnly, limit)
}

func (s *Service) GetByID(ctx context.Context, id string) (Message, error) {
	return s.repo.GetByID(ctx, id)
}

func (s *Service) MarkRead(ctx context.Context, id string, read bool) (Message, error) {
	if err := s.repo.SetRead(ctx, id, read); err != nil {
		return Message{}, err
	}
	return s.repo.GetByID(ctx, id)
}

func (s *Service) Delete(ctx context.Context, id string) error {
	return s.repo.Delete(ctx, id)
}
