package notify

import (
	"context"

	"go.uber.org/zap"
)

// Notifier delivers a best-effort completion notice to whoever
// triggered an import. Delivery failure never fails the import.
type Notifier interface {
	Notify(ctx context.Context, to, subject, body string) error
}

// LogNotifier writes notifications to the application log, used in
// development and as the fallback when no mail provider is configured.
type LogNotifier struct {
	logger *zap.Logger
}

// NewLogNotifier builds a log-backed notifier.
func NewLogNotifier(logger *zap.Logger) *LogNotifier {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &LogNotifier{logger: logger}
}

// Notify logs the would-be email.
func (n *LogNotifier) Notify(ctx context.Context, to, subject, body string) error {
	n.logger.Sugar().Infow("notification", "to", to, "subject", subject, "body", body)
	return nil
}
