package ports

import (
	"context"

	"btcMomentumBot/internal/domain"
)

// MarketDataProvider supplies the time-ordered bars the classifier consumes.
// Implementations wrap fetch failures with ErrDataUnavailable.
type MarketDataProvider interface {
	// RecentBars returns up to count bars, oldest first, each carrying the
	// close price and indicator values for its interval.
	RecentBars(ctx context.Context, count int) ([]*domain.Bar, error)
}
