package domain

import "time"

// OrderRecord is one row of the append-only order journal. It records what
// the bot did at the venue (entries, partial take-profits, stop-loss closes)
// for audit and the dashboard; it is never used to rebuild the ledger.
type OrderRecord struct {
	ID         int64      `json:"id"`          // Unique identifier for the record (from DB)
	CreatedAt  time.Time  `json:"created_at"`  // Time the order was filled
	Event      OrderEvent `json:"event"`       // What triggered the order
	Symbol     string     `json:"symbol"`      // Trading symbol
	Side       OrderSide  `json:"side"`        // Side of the order as sent to the venue
	Quantity   float64    `json:"quantity"`    // Quantity filled
	Price      float64    `json:"price"`       // Fill price (or mark price fallback)
	EntryPrice float64    `json:"entry_price"` // Entry price of the position the order belongs to
	ReturnPct  float64    `json:"return_pct"`  // Signed return of the position at fill time (0 for entries)
}
