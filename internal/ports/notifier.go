package ports

import (
	"context"

	"btcMomentumBot/internal/domain"
)

// Notifier delivers best-effort alerts to an operator. Implementations log
// and swallow delivery failures; a dead notification channel must never
// affect trading.
type Notifier interface {
	Notify(ctx context.Context, message string)
}

// StatusPublisher receives the immutable status snapshot produced at the end
// of each cycle and exposes it on whatever surface it owns. Publish must not
// block the control loop.
type StatusPublisher interface {
	Publish(snapshot domain.StatusSnapshot)
}
