package relay

import (
	"context"
	"fmt"
	"time"

	"pet-services/internal/platform/httpclient"
	"pet-services/internal/ports/mail"
)

// Sender hace POST {to, subject, html} a un endpoint HTTP (función serverless de mail).
type Sender struct {
	c *httpclient.Client
}

func NewSender(url, apiKey string) (*Sender, error) {
	if url == "" {
		return nil, fmt.Errorf("relay: url is required")
	}
	c, err := httpclient.New(url, 10*time.Second, httpclient.WithHeader("X-Api-Key", apiKey))
	if err != nil {
		return nil, err
	}
	return &Sender{c: c}, nil
}

// NewWithClient es para tests.
func NewWithClient(c *httpclient.Client) *Sender {
	return &Sender{c: c}
}

func (s *Sender) Send(ctx context.Context, m mail.Message) error {
	if err := s.c.PostJSON(ctx, "", m, nil); err != nil {
		return fmt.Errorf("relay: %w", err)
	}
	return nil
}
