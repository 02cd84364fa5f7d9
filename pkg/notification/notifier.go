// Package notification fans application events out to users. Only a logging
// implementation exists so far; the port keeps handlers decoupled from
// whatever channel (email, campus IM) gets wired later.
package notification

import (
	"context"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

// Event is something a user should hear about.
type Event struct {
	UserID  uuid.UUID
	Kind    string // e.g. "application.accepted"
	Message string
}

type Notifier interface {
	Notify(ctx context.Context, e Event) error
}

// LogNotifier records events in the application log instead of delivering
// them anywhere.
type LogNotifier struct {
	logger *zap.Logger
}

func NewLogNotifier(log *zap.Logger) *LogNotifier {
	if log == nil {
		log = zap.NewNop()
	}
	return &LogNotifier{logger: log}
}

func (n *LogNotifier) Notify(_ context.Context, e Event) error {
	n.logger.Info("notification",
		zap.String("user_id", e.UserID.String()),
		zap.String("kind", e.Kind),
		zap.String("message", e.Message),
	)
	return nil
}
