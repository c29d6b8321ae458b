package domain

// OrderSide represents the side of an order (BUY or SELL).
// It doubles as the position direction: BUY opens a long, SELL opens a short.
type OrderSide string

const (
	Buy  OrderSide = "BUY"
	Sell OrderSide = "SELL"
)

// Opposite returns the side that closes a position opened on this side.
func (s OrderSide) Opposite() OrderSide {
	if s == Buy {
		return Sell
	}
	return Buy
}

// Signal is the outcome of one classifier evaluation.
type Signal string

const (
	SignalBuy  Signal = "BUY"
	SignalSell Signal = "SELL"
	SignalNone Signal = ""
)

// Side maps an entry signal onto the order side used to open the position.
// Only meaningful for SignalBuy/SignalSell.
func (s Signal) Side() OrderSide {
	if s == SignalSell {
		return Sell
	}
	return Buy
}

// OrderEvent labels an entry in the order journal.
type OrderEvent string

const (
	EventPositionOpened OrderEvent = "OPENED"
	EventTakeProfitHit  OrderEvent = "TAKE_PROFIT"
	EventStopLossHit    OrderEvent = "STOP_LOSS"
)
