package notification

import (
	"context"

	"hirepath/internal/common"
)

// Notifier delivers fire-and-forget user notifications. Callers log and
// swallow its errors: pipeline correctness never depends on delivery.
type Notifier interface {
	Notify(ctx context.Context, userID common.UUID, title, message string, metadata map[string]string) error
}

type Noop struct{}

func (Noop) Notify(ctx context.Context, userID common.UUID, title, message string, metadata map[string]string) error {
	return nil
}
