package trading

import (
	"context"
	"errors"
	"fmt"
	"math"
	"strconv"
	"time"

	"btcMomentumBot/internal/domain"
	"btcMomentumBot/internal/ports"
)

// partialCloseFraction is the share of the remaining quantity closed when the
// take-profit threshold is reached. The rest of the position stays open with
// its original take-profit and stop-loss prices.
const partialCloseFraction = 0.75

// Config holds the sizing and threshold parameters for the position manager.
type Config struct {
	Symbol            string
	Leverage          int
	MaxNotionalUSD    float64 // Notional per trade before leverage
	TakeProfitPct     float64 // e.g. 0.05 for 5%
	StopLossPct       float64 // e.g. 0.05 for 5%
	QuantityPrecision int     // Decimal places for order quantities
	PricePrecision    int     // Decimal places for derived TP/SL prices
}

// Manager materializes new positions from signals and advances every open
// position one monitoring step per cycle.
type Manager struct {
	cfg      Config
	logger   ports.Logger
	exchange ports.ExchangeClient
	notifier ports.Notifier
	journal  ports.OrderJournal
	ledger   *Ledger
}

// NewManager creates a position manager. The journal may be nil, in which
// case order history is not recorded.
func NewManager(cfg Config, logger ports.Logger, exchange ports.ExchangeClient, notifier ports.Notifier, journal ports.OrderJournal, ledger *Ledger) (*Manager, error) {
	if logger == nil || exchange == nil || notifier == nil || ledger == nil {
		return nil, fmt.Errorf("missing required dependencies for position manager")
	}
	if cfg.Symbol == "" {
		return nil, fmt.Errorf("configuration Symbol must be set")
	}
	if cfg.Leverage <= 0 {
		return nil, fmt.Errorf("configuration Leverage must be positive")
	}
	if cfg.MaxNotionalUSD <= 0 {
		return nil, fmt.Errorf("configuration MaxNotionalUSD must be positive")
	}
	if cfg.TakeProfitPct <= 0 || cfg.TakeProfitPct >= 1 {
		return nil, fmt.Errorf("configuration TakeProfitPct must be between 0 and 1")
	}
	if cfg.StopLossPct <= 0 || cfg.StopLossPct >= 1 {
		return nil, fmt.Errorf("configuration StopLossPct must be between 0 and 1")
	}
	if cfg.QuantityPrecision < 0 || cfg.PricePrecision < 0 {
		return nil, fmt.Errorf("configuration precisions cannot be negative")
	}
	return &Manager{
		cfg:      cfg,
		logger:   logger,
		exchange: exchange,
		notifier: notifier,
		journal:  journal,
		ledger:   ledger,
	}, nil
}

// Ledger exposes the manager's position ledger.
func (m *Manager) Ledger() *Ledger {
	return m.ledger
}

// Open sizes and places the entry order for the given signal and appends the
// resulting position to the ledger. The entry price is the venue's reported
// fill price, not the pre-trade mark price. Any exchange failure aborts the
// open; no partial position is recorded.
func (m *Manager) Open(ctx context.Context, sig domain.Signal, markPrice float64) (*domain.Position, error) {
	op := "Open"
	if sig == domain.SignalNone {
		return nil, fmt.Errorf("cannot open a position without a signal")
	}
	if markPrice <= 0 {
		return nil, fmt.Errorf("mark price must be positive, got %f", markPrice)
	}

	quantity := m.roundQuantity(m.cfg.MaxNotionalUSD * float64(m.cfg.Leverage) / markPrice)
	if quantity <= 0 {
		return nil, fmt.Errorf("%w: computed quantity is zero at price %.2f", ports.ErrExecutionFailed, markPrice)
	}

	side := sig.Side()
	m.logger.Info(ctx, op+": Placing entry market order", map[string]interface{}{
		"side":      side,
		"quantity":  quantity,
		"markPrice": markPrice,
	})

	fill, err := m.exchange.PlaceMarketOrder(ctx, m.cfg.Symbol, side, m.formatQuantity(quantity))
	if err != nil {
		return nil, fmt.Errorf("entry market order: %w", err)
	}

	entryPrice := fill.AvgPrice
	if entryPrice == 0 {
		m.logger.Warn(ctx, op+": Fill price not reported, falling back to mark price", map[string]interface{}{
			"orderID":       fill.OrderID,
			"fallbackPrice": markPrice,
		})
		entryPrice = markPrice
	}

	var takeProfit, stopLoss float64
	if side == domain.Buy {
		takeProfit = m.roundPrice(entryPrice * (1 + m.cfg.TakeProfitPct))
		stopLoss = m.roundPrice(entryPrice * (1 - m.cfg.StopLossPct))
	} else {
		takeProfit = m.roundPrice(entryPrice * (1 - m.cfg.TakeProfitPct))
		stopLoss = m.roundPrice(entryPrice * (1 + m.cfg.StopLossPct))
	}

	pos := &domain.Position{
		Symbol:     m.cfg.Symbol,
		Side:       side,
		EntryPrice: entryPrice,
		Quantity:   quantity,
		Leverage:   m.cfg.Leverage,
		TakeProfit: takeProfit,
		StopLoss:   stopLoss,
		EntryTime:  time.Now().UTC(),
	}
	m.ledger.Append(pos)

	m.recordOrder(ctx, domain.EventPositionOpened, side, quantity, entryPrice, entryPrice, 0)
	m.notifier.Notify(ctx, fmt.Sprintf("%s order placed: Entry=%.2f, TP=%.2f, SL=%.2f", side, entryPrice, takeProfit, stopLoss))

	m.logger.Info(ctx, op+": Position opened", map[string]interface{}{
		"side":       side,
		"entryPrice": entryPrice,
		"quantity":   quantity,
		"takeProfit": takeProfit,
		"stopLoss":   stopLoss,
	})
	return pos, nil
}

// Monitor advances every open position one step against the given mark
// price: the take-profit branch closes partialCloseFraction of the remaining
// quantity, the stop-loss branch closes everything. Take-profit is evaluated
// first, so a position can never trigger both in one pass. A close failure
// keeps that position unchanged for retry next cycle and does not stop the
// walk over the remaining positions.
func (m *Manager) Monitor(ctx context.Context, markPrice float64) error {
	op := "Monitor"
	positions := m.ledger.Positions()
	if len(positions) == 0 {
		return nil
	}

	kept := make([]*domain.Position, 0, len(positions))
	var errs []error

	for _, pos := range positions {
		ret := pos.UnrealizedReturn(markPrice)

		switch {
		case ret >= m.cfg.TakeProfitPct:
			closeQty := m.roundQuantity(pos.Quantity * partialCloseFraction)
			if closeQty <= 0 || closeQty > pos.Quantity {
				// Position too small to split at this precision, close it out.
				closeQty = pos.Quantity
			}
			fill, err := m.exchange.PlaceMarketOrder(ctx, m.cfg.Symbol, pos.Side.Opposite(), m.formatQuantity(closeQty))
			if err != nil {
				m.logger.Error(ctx, err, op+": Take-profit close failed, keeping position for retry", map[string]interface{}{
					"side":       pos.Side,
					"entryPrice": pos.EntryPrice,
					"quantity":   pos.Quantity,
				})
				errs = append(errs, fmt.Errorf("take-profit close: %w", err))
				kept = append(kept, pos)
				continue
			}
			fillPrice := fill.AvgPrice
			if fillPrice == 0 {
				fillPrice = markPrice
			}
			pos.Quantity = m.roundQuantity(pos.Quantity - closeQty)

			m.recordOrder(ctx, domain.EventTakeProfitHit, pos.Side.Opposite(), closeQty, fillPrice, pos.EntryPrice, ret)
			m.notifier.Notify(ctx, fmt.Sprintf("TP hit: %s at %.2f -> TP %.2f", pos.Side, pos.EntryPrice, pos.TakeProfit))
			m.logger.Info(ctx, op+": Take-profit hit", map[string]interface{}{
				"side":      pos.Side,
				"closedQty": closeQty,
				"remaining": pos.Quantity,
				"return":    ret,
			})
			if pos.Quantity > 0 {
				kept = append(kept, pos)
			}

		case ret <= -m.cfg.StopLossPct:
			fill, err := m.exchange.PlaceMarketOrder(ctx, m.cfg.Symbol, pos.Side.Opposite(), m.formatQuantity(pos.Quantity))
			if err != nil {
				m.logger.Error(ctx, err, op+": Stop-loss close failed, keeping position for retry", map[string]interface{}{
					"side":       pos.Side,
					"entryPrice": pos.EntryPrice,
					"quantity":   pos.Quantity,
				})
				errs = append(errs, fmt.Errorf("stop-loss close: %w", err))
				kept = append(kept, pos)
				continue
			}
			fillPrice := fill.AvgPrice
			if fillPrice == 0 {
				fillPrice = markPrice
			}

			m.recordOrder(ctx, domain.EventStopLossHit, pos.Side.Opposite(), pos.Quantity, fillPrice, pos.EntryPrice, ret)
			m.notifier.Notify(ctx, fmt.Sprintf("SL hit: %s at %.2f -> SL %.2f", pos.Side, pos.EntryPrice, pos.StopLoss))
			m.logger.Info(ctx, op+": Stop-loss hit, position closed", map[string]interface{}{
				"side":      pos.Side,
				"closedQty": pos.Quantity,
				"return":    ret,
			})

		default:
			kept = append(kept, pos)
		}
	}

	m.ledger.Replace(kept)
	return errors.Join(errs...)
}

// recordOrder appends to the order journal. Journal failures are logged and
// swallowed; bookkeeping must never block trading.
func (m *Manager) recordOrder(ctx context.Context, event domain.OrderEvent, side domain.OrderSide, quantity, price, entryPrice, returnPct float64) {
	if m.journal == nil {
		return
	}
	rec := &domain.OrderRecord{
		CreatedAt:  time.Now().UTC(),
		Event:      event,
		Symbol:     m.cfg.Symbol,
		Side:       side,
		Quantity:   quantity,
		Price:      price,
		EntryPrice: entryPrice,
		ReturnPct:  returnPct,
	}
	if _, err := m.journal.RecordOrder(ctx, rec); err != nil {
		m.logger.Error(ctx, err, "Failed to journal order", map[string]interface{}{"event": event})
	}
}

func (m *Manager) roundQuantity(q float64) float64 {
	factor := math.Pow10(m.cfg.QuantityPrecision)
	return math.Round(q*factor) / factor
}

func (m *Manager) roundPrice(p float64) float64 {
	factor := math.Pow10(m.cfg.PricePrecision)
	return math.Round(p*factor) / factor
}

func (m *Manager) formatQuantity(q float64) string {
	return strconv.FormatFloat(q, 'f', m.cfg.QuantityPrecision, 64)
}
