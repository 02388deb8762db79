package logmail

import (
	"context"
	"sync"

	"pet-services/internal/platform/logger"
	"pet-services/internal/ports/mail"
)

// Sender no envía nada: loguea y guarda los mensajes (dev y tests).
type Sender struct {
	log logger.Logger

	mu   sync.Mutex
	sent []mail.Message
}

func NewSender(log logger.Logger) *Sender {
	return &Sender{log: log}
}

func (s *Sender) Send(_ context.Context, m mail.Message) error {
	s.mu.Lock()
	s.sent = append(s.sent, m)
	s.mu.Unlock()
	s.log.Info("mail (not delivered)", map[string]any{"to": m.To, "subject": m.Subject})
	return nil
}

// Sent devuelve una copia de lo enviado.
func (s *Sender) Sent() []mail.Message {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]mail.Message, len(s.sent))
	copy(out, s.sent)
	return out
}
