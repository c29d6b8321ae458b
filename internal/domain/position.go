package domain

import "time"

// Position represents an open trade held in memory by the bot.
//
// EntryPrice, TakeProfit and StopLoss are fixed at creation and never
// recomputed; Quantity only ever decreases (a partial take-profit close), and
// a position whose quantity reaches zero is removed from the ledger rather
// than retained. Nothing here survives a process restart.
type Position struct {
	Symbol     string    // Trading symbol (e.g., "BTCUSDT")
	Side       OrderSide // BUY for long, SELL for short
	EntryPrice float64   // Average fill price of the entry order
	Quantity   float64   // Remaining size of the position
	Leverage   int       // Leverage used for the position
	TakeProfit float64   // Price level at which the partial take-profit triggers
	StopLoss   float64   // Price level at which the full stop-loss triggers
	EntryTime  time.Time // Timestamp when the position was entered
}

// UnrealizedReturn computes the signed fractional return of the position at
// the given mark price. Positive values are profit regardless of side.
func (p *Position) UnrealizedReturn(markPrice float64) float64 {
	if p.Side == Buy {
		return (markPrice - p.EntryPrice) / p.EntryPrice
	}
	return (p.EntryPrice - markPrice) / p.EntryPrice
}
