package notify

import (
	"context"

	"github.com/casavia/casavia-core/internal/infrastructure/logging"
)

// LogSender writes notifications to the structured log instead of an
// external provider. It is the default sender in development and test
// environments where no mail transport is configured.
type LogSender struct {
	logger *logging.Logger
}

// NewLogSender creates a sender that logs message envelopes. Bodies are
// not logged because they may contain reset tokens.
func NewLogSender(logger *logging.Logger) *LogSender {
	return &LogSender{logger: logger}
}

// Send logs the message envelope.
func (s *LogSender) Send(_ context.Context, msg Message) error {
	s.logger.Info("notification", "to", msg.To, "subject", msg.Subject)
	return nil
}
