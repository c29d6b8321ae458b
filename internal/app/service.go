// Package app orchestrates the bot: the poll cycle that fetches bars,
// classifies the signal, drives the position lifecycle and publishes status.
package app

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"btcMomentumBot/internal/domain"
	"btcMomentumBot/internal/ports"
	"btcMomentumBot/internal/strategy"
	"btcMomentumBot/internal/trading"
)

// Config holds the control loop parameters.
type Config struct {
	Symbol       string
	Leverage     int
	BalanceAsset string        // Asset reported in the status snapshot (e.g. "USDT")
	BarCount     int           // Bars requested from the market data provider per cycle
	PollInterval time.Duration // Cadence between cycles
	Timezone     *time.Location
}

// TradingService runs the poll cycle on a single goroutine. It is the sole
// mutator of the position ledger; the status publisher only ever receives
// point-in-time copies.
type TradingService struct {
	cfg        Config
	logger     ports.Logger
	exchange   ports.ExchangeClient
	marketData ports.MarketDataProvider
	classifier *strategy.Classifier
	manager    *trading.Manager
	notifier   ports.Notifier
	publisher  ports.StatusPublisher
	journal    ports.OrderJournal
}

// NewTradingService creates the application service instance.
func NewTradingService(
	cfg Config,
	logger ports.Logger,
	exchange ports.ExchangeClient,
	marketData ports.MarketDataProvider,
	classifier *strategy.Classifier,
	manager *trading.Manager,
	notifier ports.Notifier,
	publisher ports.StatusPublisher,
	journal ports.OrderJournal,
) (*TradingService, error) {
	if logger == nil || exchange == nil || marketData == nil || classifier == nil ||
		manager == nil || notifier == nil || publisher == nil {
		return nil, fmt.Errorf("missing required dependencies for TradingService")
	}
	if cfg.Symbol == "" {
		return nil, fmt.Errorf("configuration Symbol must be set")
	}
	if cfg.PollInterval <= 0 {
		return nil, fmt.Errorf("configuration PollInterval must be positive")
	}
	if cfg.BarCount < 2 {
		return nil, fmt.Errorf("configuration BarCount must be at least 2")
	}
	if cfg.BalanceAsset == "" {
		cfg.BalanceAsset = "USDT"
	}
	if cfg.Timezone == nil {
		cfg.Timezone = time.UTC
	}
	return &TradingService{
		cfg:        cfg,
		logger:     logger,
		exchange:   exchange,
		marketData: marketData,
		classifier: classifier,
		manager:    manager,
		notifier:   notifier,
		publisher:  publisher,
		journal:    journal,
	}, nil
}

// Start runs the poll loop until the context is cancelled or a shutdown
// signal arrives. Per-cycle errors are reported and swallowed; the loop has
// no terminal state short of process shutdown.
func (s *TradingService) Start(ctx context.Context) error {
	s.logger.Info(ctx, "Starting trading service", map[string]interface{}{
		"symbol":       s.cfg.Symbol,
		"pollInterval": s.cfg.PollInterval.String(),
	})

	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
	defer signal.Stop(sigCh)
	go func() {
		select {
		case sig := <-sigCh:
			s.logger.Info(ctx, "Received shutdown signal", map[string]interface{}{"signal": sig.String()})
			cancel()
		case <-ctx.Done():
		}
	}()

	if err := s.initialize(ctx); err != nil {
		return err
	}

	s.publisher.Publish(domain.StatusSnapshot{
		BotStatus:   "Starting...",
		LastChecked: time.Now().In(s.cfg.Timezone).Format("2006-01-02 15:04:05"),
	})

	ticker := time.NewTicker(s.cfg.PollInterval)
	defer ticker.Stop()

	for {
		if err := s.runCycle(ctx); err != nil {
			if errors.Is(err, context.Canceled) {
				break
			}
			s.logger.Error(ctx, err, "Cycle failed")
			s.notifier.Notify(ctx, fmt.Sprintf("Bot cycle failed: %v", err))
		}

		select {
		case <-ctx.Done():
			s.logger.Info(ctx, "Context cancelled, stopping trading service")
			return nil
		case <-ticker.C:
		}
	}
	return nil
}

// initialize synchronizes the venue clock and sets leverage. Leverage
// failures are downgraded to a warning: the venue keeps whatever leverage is
// already configured for the symbol.
func (s *TradingService) initialize(ctx context.Context) error {
	if err := s.exchange.SetServerTime(ctx); err != nil {
		return fmt.Errorf("failed to synchronize server time: %w", err)
	}
	s.logger.Info(ctx, "Server time synchronized")

	if err := s.exchange.SetLeverage(ctx, s.cfg.Symbol, s.cfg.Leverage); err != nil {
		s.logger.Warn(ctx, "Failed to set leverage, continuing with the venue's current setting", map[string]interface{}{
			"symbol":   s.cfg.Symbol,
			"leverage": s.cfg.Leverage,
			"error":    err.Error(),
		})
	} else {
		s.logger.Info(ctx, "Leverage set", map[string]interface{}{"symbol": s.cfg.Symbol, "leverage": s.cfg.Leverage})
	}

	// The ledger starts empty on every boot. Orders journaled by a previous
	// run may still be live at the venue; all we can do is say so.
	if s.journal != nil {
		if count, err := s.journal.CountOrders(ctx); err == nil && count > 0 {
			s.logger.Warn(ctx, "Order journal has prior activity; positions from earlier runs are NOT tracked", map[string]interface{}{
				"journaledOrders": count,
			})
		}
	}
	return nil
}

// runCycle executes one poll cycle: fetch bars, classify, open, monitor,
// publish. Any error ends the cycle early; the previous snapshot stays
// visible until the next successful cycle.
func (s *TradingService) runCycle(ctx context.Context) error {
	now := time.Now().In(s.cfg.Timezone)
	s.logger.Info(ctx, "Checking market", map[string]interface{}{"time": now.Format("2006-01-02 15:04:05")})

	bars, err := s.marketData.RecentBars(ctx, s.cfg.BarCount)
	if err != nil {
		return fmt.Errorf("fetching bars: %w", err)
	}

	sig, err := s.classifier.Evaluate(ctx, bars)
	if err != nil {
		if !errors.Is(err, ports.ErrInsufficientData) {
			return fmt.Errorf("classifying signal: %w", err)
		}
		// Too little history is not a cycle failure, just no signal yet.
		s.logger.Warn(ctx, "Not enough bars to classify, treating as no signal", map[string]interface{}{"bars": len(bars)})
		sig = domain.SignalNone
	}

	var lastPrice float64
	if len(bars) > 0 {
		lastPrice = bars[len(bars)-1].Close
	}

	markPrice, err := s.exchange.GetMarkPrice(ctx, s.cfg.Symbol)
	if err != nil {
		return fmt.Errorf("fetching mark price: %w", err)
	}

	if sig != domain.SignalNone {
		s.logger.Info(ctx, "Entry signal", map[string]interface{}{"signal": sig, "markPrice": markPrice})
		if _, err := s.manager.Open(ctx, sig, markPrice); err != nil {
			return fmt.Errorf("opening position: %w", err)
		}
	}

	// Close failures inside Monitor are isolated per position; the pass
	// completes and the failed positions are retried next cycle. Report the
	// collected error after publishing so the snapshot reflects this cycle.
	monitorErr := s.manager.Monitor(ctx, markPrice)

	balance, err := s.exchange.GetAccountBalance(ctx, s.cfg.BalanceAsset)
	if err != nil {
		s.logger.Warn(ctx, "Failed to fetch account balance for status", map[string]interface{}{"error": err.Error()})
		balance = 0
	}

	totalOrders := 0
	if s.journal != nil {
		if count, err := s.journal.CountOrders(ctx); err == nil {
			totalOrders = count
		}
	}

	s.publisher.Publish(domain.StatusSnapshot{
		BotStatus:   "Running",
		LastChecked: now.Format("2006-01-02 15:04:05"),
		LastPrice:   lastPrice,
		LastSignal:  sig,
		Balance:     balance,
		TotalOrders: totalOrders,
		OpenTrades:  s.manager.Ledger().Snapshot(),
	})

	if monitorErr != nil {
		return fmt.Errorf("monitoring positions: %w", monitorErr)
	}
	return nil
}
