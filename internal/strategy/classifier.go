// Package strategy contains the entry-signal classifier: a pure function
// over the two most recent bars that decides whether to open a long, open a
// short, or do nothing.
package strategy

import (
	"context"
	"fmt"

	"btcMomentumBot/internal/domain"
	"btcMomentumBot/internal/ports"
)

// Config holds the classifier thresholds.
type Config struct {
	// MomentumThreshold is the minimum distance of the MACD line from its
	// signal line (absolute price units) for a crossover to count.
	MomentumThreshold float64
	// RSIUpperBand blocks longs when the RSI is at or above it.
	RSIUpperBand float64
	// RSILowerBand blocks shorts when the RSI is at or below it.
	RSILowerBand float64
}

// Classifier turns a bar sequence into a trade signal. It is stateless and
// deterministic: all history it needs is the two supplied bars.
type Classifier struct {
	cfg    Config
	logger ports.Logger
}

// New creates a classifier after validating the thresholds.
func New(cfg Config, logger ports.Logger) (*Classifier, error) {
	if logger == nil {
		return nil, fmt.Errorf("logger is required for classifier")
	}
	if cfg.MomentumThreshold < 0 {
		return nil, fmt.Errorf("momentum threshold cannot be negative")
	}
	if cfg.RSIUpperBand <= cfg.RSILowerBand || cfg.RSIUpperBand > 100 || cfg.RSILowerBand < 0 {
		return nil, fmt.Errorf("invalid RSI bands (upper must be > lower, within 0-100)")
	}
	return &Classifier{cfg: cfg, logger: logger}, nil
}

// Evaluate inspects the two most recent bars and returns exactly one of
// SignalBuy, SignalSell or SignalNone. With fewer than two bars it returns
// SignalNone together with ports.ErrInsufficientData; the caller treats that
// as no signal.
func (c *Classifier) Evaluate(ctx context.Context, bars []*domain.Bar) (domain.Signal, error) {
	if len(bars) < 2 {
		return domain.SignalNone, fmt.Errorf("%w: have %d bars, need 2", ports.ErrInsufficientData, len(bars))
	}

	prev := bars[len(bars)-2]
	last := bars[len(bars)-1]

	crossUp := prev.MACD < prev.MACDSignal && last.MACD > last.MACDSignal
	crossDown := prev.MACD > prev.MACDSignal && last.MACD < last.MACDSignal
	momentumUp := last.Histogram() > c.cfg.MomentumThreshold
	momentumDown := -last.Histogram() > c.cfg.MomentumThreshold

	c.logger.Debug(ctx, "Classifier evaluation", map[string]interface{}{
		"crossUp":   crossUp,
		"crossDown": crossDown,
		"histogram": last.Histogram(),
		"rsi":       last.RSI,
		"close":     last.Close,
	})

	switch {
	case crossUp && last.RSI < c.cfg.RSIUpperBand && momentumUp:
		return domain.SignalBuy, nil
	case crossDown && last.RSI > c.cfg.RSILowerBand && momentumDown:
		return domain.SignalSell, nil
	default:
		return domain.SignalNone, nil
	}
}
