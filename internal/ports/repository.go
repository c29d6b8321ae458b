package ports

import (
	"context"

	"btcMomentumBot/internal/domain"
)

// OrderJournal is the append-only record of orders the bot has placed.
// It exists for audit and the dashboard; positions are never restored from
// it, so a restart forgets any trades still live at the venue.
type OrderJournal interface {
	// RecordOrder appends a new journal entry and returns its assigned ID.
	RecordOrder(ctx context.Context, rec *domain.OrderRecord) (int64, error)
	// CountOrders returns the total number of journaled orders.
	CountOrders(ctx context.Context) (int, error)
	// RecentOrders retrieves the most recent entries, newest first, up to limit.
	RecentOrders(ctx context.Context, limit int) ([]*domain.OrderRecord, error)
}
