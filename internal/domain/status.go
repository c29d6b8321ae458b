package domain

// StatusSnapshot is the point-in-time view of the bot handed to the status
// publisher at the end of each cycle. It is a deep copy: the publisher serves
// it concurrently and must never observe the live ledger.
type StatusSnapshot struct {
	BotStatus   string     `json:"bot_status"`
	LastChecked string     `json:"last_checked"`
	LastPrice   float64    `json:"last_price"`
	LastSignal  Signal     `json:"last_signal"`
	Balance     float64    `json:"available_balance"`
	TotalOrders int        `json:"total_orders"`
	OpenTrades  []Position `json:"open_trades"`
}
