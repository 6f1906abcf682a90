// Package notify defines the outbound SMS contract. Delivery itself is an
// external collaborator; the core only asks for a message to be sent.
package notify

import (
	"context"

	"go.uber.org/zap"
)

// Sender delivers a text message to a mobile number.
type Sender interface {
	Send(ctx context.Context, mobileNumber, message string) error
}

// LogSender writes messages to the log instead of sending them. Used in
// development and test environments where no SMS provider is configured.
type LogSender struct {
	Logger *zap.Logger
}

// NewLogSender returns a Sender that logs every message.
func NewLogSender(logger *zap.Logger) *LogSender {
	return &LogSender{Logger: logger}
}

func (s *LogSender) Send(ctx context.Context, mobileNumber, message string) error {
	s.Logger.Info("SMS message (log sender)",
		zap.String("mobile_number", mobileNumber),
		zap.String("message", message))
	return nil
}
