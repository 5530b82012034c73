package email

import (
	"context"
	"errors"
)

// Sender define la interfaz para envio de correos de confirmacion.
type Sender interface {
	SendConfirmation(ctx context.Context, toEmail string, confirmURL string) error
}

type disabledSender struct {
	reason string
}

func NewDisabledSender(reason string) Sender {
	return &disabledSender{reason: reason}
}

func (s *disabledSender) SendConfirmation(_ context.Context, _ string, _ string) error {
	if s.reason == "" {
		return errors.New("email sender disabled")
	}
	return errors.New(s.reason)
}
