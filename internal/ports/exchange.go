package ports

import (
	"context"
	"time"

	"btcMomentumBot/internal/domain"
)

// OrderFill holds the essential details returned after placing a market order.
type OrderFill struct {
	OrderID     int64     // Exchange's order ID
	Symbol      string    // Symbol for the order
	AvgPrice    float64   // Average filled price (may be 0 if the venue reports none)
	ExecutedQty float64   // Quantity filled
	Status      string    // Order status (e.g., NEW, FILLED)
	Side        string    // Order side (BUY, SELL)
	Timestamp   time.Time // Time the order response was generated
}

// ExchangeClient defines the calls the bot makes against the trading venue.
// Implementations wrap failures with ErrExecutionFailed (orders, account,
// leverage) or ErrDataUnavailable (klines, prices).
type ExchangeClient interface {
	// SetServerTime synchronizes the client's clock with the venue's,
	// required for signed requests.
	SetServerTime(ctx context.Context) error

	// GetMarkPrice retrieves the current mark price for a given symbol.
	GetMarkPrice(ctx context.Context, symbol string) (float64, error)

	// GetAccountBalance retrieves the available balance for an asset (e.g., "USDT").
	GetAccountBalance(ctx context.Context, asset string) (float64, error)

	// SetLeverage sets the leverage for a specific symbol.
	SetLeverage(ctx context.Context, symbol string, leverage int) error

	// PlaceMarketOrder places a market order and returns its fill details.
	PlaceMarketOrder(ctx context.Context, symbol string, side domain.OrderSide, quantity string) (*OrderFill, error)

	// GetKlines retrieves the most recent candlesticks for the symbol.
	GetKlines(ctx context.Context, symbol string, interval string, limit int) ([]*domain.Kline, error)

	// Ping checks connectivity to the exchange API.
	Ping(ctx context.Context) error
}
