// Package trading holds the in-memory position ledger and the position
// manager that drives every position through its open / partial take-profit /
// stop-loss lifecycle.
package trading

import "btcMomentumBot/internal/domain"

// Ledger is the ordered collection of currently open positions. It is owned
// by the control loop's single goroutine and is deliberately unsynchronized;
// concurrent readers (the status publisher) only ever receive Snapshot copies.
type Ledger struct {
	positions []*domain.Position
}

// NewLedger creates an empty ledger.
func NewLedger() *Ledger {
	return &Ledger{}
}

// Append adds a newly opened position. Insertion order is preserved and is
// the order Monitor visits positions in.
func (l *Ledger) Append(pos *domain.Position) {
	l.positions = append(l.positions, pos)
}

// Positions returns the live backing slice in insertion order. Callers must
// be on the control loop goroutine.
func (l *Ledger) Positions() []*domain.Position {
	return l.positions
}

// Replace swaps the set of open positions, used by Monitor after a pass.
func (l *Ledger) Replace(positions []*domain.Position) {
	l.positions = positions
}

// Len returns the number of open positions.
func (l *Ledger) Len() int {
	return len(l.positions)
}

// Snapshot returns deep copies of all open positions, safe to hand to a
// concurrent reader.
func (l *Ledger) Snapshot() []domain.Position {
	out := make([]domain.Position, len(l.positions))
	for i, p := range l.positions {
		out[i] = *p
	}
	return out
}
