package mail

import "context"

// Message es el payload que se entrega al relay: {to, subject, html}.
type Message struct {
	To      string `json:"to"`
	Subject string `json:"subject"`
	HTML    string `json:"html"`
}

type Sender interface {
	Send(ctx context.Context, m Message) error
}
