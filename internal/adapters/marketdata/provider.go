// Package marketdata implements the ports.MarketDataProvider interface: it
// fetches raw candles through the exchange client and decorates them with the
// MACD and RSI values the classifier consumes.
package marketdata

import (
	"context"
	"fmt"

	"btcMomentumBot/internal/domain"
	"btcMomentumBot/internal/ports"
	"btcMomentumBot/internal/strategy/indicators"
)

// Config holds the candle and indicator parameters.
type Config struct {
	Symbol           string
	Interval         string // Kline interval (e.g., "5m")
	MACDFastPeriod   int    // e.g., 12
	MACDSlowPeriod   int    // e.g., 26
	MACDSignalPeriod int    // e.g., 9
	RSIPeriod        int    // e.g., 20
}

// Provider fetches candles and computes indicator series over them.
type Provider struct {
	cfg      Config
	logger   ports.Logger
	exchange ports.ExchangeClient
}

// New creates a market data provider.
func New(cfg Config, logger ports.Logger, exchange ports.ExchangeClient) (*Provider, error) {
	if logger == nil || exchange == nil {
		return nil, fmt.Errorf("missing required dependencies for market data provider")
	}
	if cfg.Symbol == "" || cfg.Interval == "" {
		return nil, fmt.Errorf("symbol and interval must be set")
	}
	if cfg.MACDFastPeriod <= 0 || cfg.MACDSlowPeriod <= 0 || cfg.MACDSignalPeriod <= 0 || cfg.RSIPeriod <= 0 {
		return nil, fmt.Errorf("indicator periods must be positive")
	}
	if cfg.MACDFastPeriod >= cfg.MACDSlowPeriod {
		return nil, fmt.Errorf("MACD fast period must be less than slow period")
	}
	return &Provider{cfg: cfg, logger: logger, exchange: exchange}, nil
}

// MinBars returns the smallest candle count that yields converged indicator
// values for the most recent bars.
func (p *Provider) MinBars() int {
	min := p.cfg.MACDSlowPeriod + p.cfg.MACDSignalPeriod
	if p.cfg.RSIPeriod+1 > min {
		min = p.cfg.RSIPeriod + 1
	}
	return min
}

// RecentBars fetches up to count candles, oldest first, and returns them as
// bars carrying the MACD line, signal line and RSI for each interval.
func (p *Provider) RecentBars(ctx context.Context, count int) ([]*domain.Bar, error) {
	if count < p.MinBars() {
		count = p.MinBars()
	}

	klines, err := p.exchange.GetKlines(ctx, p.cfg.Symbol, p.cfg.Interval, count)
	if err != nil {
		return nil, err
	}
	if len(klines) < p.MinBars() {
		return nil, fmt.Errorf("%w: got %d candles, need at least %d for indicators",
			ports.ErrDataUnavailable, len(klines), p.MinBars())
	}

	closes := make([]float64, len(klines))
	for i, k := range klines {
		closes[i] = k.Close
	}

	macdLine, macdSignal, err := indicators.MACD(closes, p.cfg.MACDFastPeriod, p.cfg.MACDSlowPeriod, p.cfg.MACDSignalPeriod)
	if err != nil {
		return nil, fmt.Errorf("%w: computing MACD: %w", ports.ErrDataUnavailable, err)
	}
	rsi, err := indicators.RSI(closes, p.cfg.RSIPeriod)
	if err != nil {
		return nil, fmt.Errorf("%w: computing RSI: %w", ports.ErrDataUnavailable, err)
	}

	bars := make([]*domain.Bar, len(klines))
	for i, k := range klines {
		bars[i] = &domain.Bar{
			OpenTime:   k.OpenTime,
			Close:      k.Close,
			MACD:       macdLine[i],
			MACDSignal: macdSignal[i],
			RSI:        rsi[i],
		}
	}

	p.logger.Debug(ctx, "Fetched bars", map[string]interface{}{
		"count":     len(bars),
		"lastClose": bars[len(bars)-1].Close,
	})
	return bars, nil
}
