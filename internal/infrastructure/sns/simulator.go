package sns

import (
	"context"
	"log/slog"
)

// Simulator is the development SMSSender: it logs the message instead of
// dispatching it, so local runs don't need provider credentials.
type Simulator struct{}

func NewSimulator() SMSSender { return Simulator{} }

func (Simulator) SendSMS(_ context.Context, to, message string) error {
	slog.Info("sms dispatch simulated", "to", to, "message", message)
	return nil
}
