package main

import (
	"context"
	"log" // Use standard log only for initial fatal errors before logger is set up

	"btcMomentumBot/config"
	"btcMomentumBot/internal/adapters/binanceclient"
	"btcMomentumBot/internal/adapters/logger"
	"btcMomentumBot/internal/adapters/marketdata"
	"btcMomentumBot/internal/adapters/sqlite"
	"btcMomentumBot/internal/adapters/statusserver"
	"btcMomentumBot/internal/adapters/telegram"
	"btcMomentumBot/internal/app"
	"btcMomentumBot/internal/strategy"
	"btcMomentumBot/internal/trading"
)

func main() {
	// 1. Load Configuration
	cfg, err := config.LoadConfig()
	if err != nil {
		log.Fatalf("FATAL: Failed to load configuration: %v", err) // Use standard log before logger is ready
	}

	// 2. Initialize Logger
	appLogger := logger.NewStdLogger(cfg.LogLevel)
	appLogger.Info(context.Background(), "Logger initialized", map[string]interface{}{"level": cfg.LogLevel.String()})

	// 3. Initialize Order Journal (Database Adapter)
	journal, err := sqlite.NewRepository(sqlite.Config{
		DBPath: cfg.DBPath,
		Logger: appLogger,
	})
	if err != nil {
		appLogger.Error(context.Background(), err, "FATAL: Failed to initialize order journal")
		log.Fatalf("FATAL: Failed to initialize order journal: %v", err)
	}
	defer func() {
		if err := journal.Close(); err != nil {
			appLogger.Error(context.Background(), err, "Error closing order journal")
		}
	}()

	// 4. Initialize Exchange Client (Binance Adapter)
	binanceClient, err := binanceclient.New(binanceclient.Config{
		APIKey:     cfg.APIKey,
		SecretKey:  cfg.SecretKey,
		UseTestnet: cfg.IsTestnet,
		Logger:     appLogger,
	})
	if err != nil {
		appLogger.Error(context.Background(), err, "FATAL: Failed to initialize Binance client")
		log.Fatalf("FATAL: Failed to initialize Binance client: %v", err)
	}
	appLogger.Info(context.Background(), "Binance client initialized", map[string]interface{}{"testnet": cfg.IsTestnet})

	// 5. Initialize Market Data Provider
	provider, err := marketdata.New(marketdata.Config{
		Symbol:           cfg.Symbol,
		Interval:         cfg.KlineInterval,
		MACDFastPeriod:   cfg.MACDFastPeriod,
		MACDSlowPeriod:   cfg.MACDSlowPeriod,
		MACDSignalPeriod: cfg.MACDSignalPeriod,
		RSIPeriod:        cfg.RSIPeriod,
	}, appLogger, binanceClient)
	if err != nil {
		appLogger.Error(context.Background(), err, "FATAL: Failed to initialize market data provider")
		log.Fatalf("FATAL: Failed to initialize market data provider: %v", err)
	}

	// 6. Initialize Signal Classifier
	classifier, err := strategy.New(strategy.Config{
		MomentumThreshold: cfg.MomentumThreshold,
		RSIUpperBand:      cfg.RSIUpperBand,
		RSILowerBand:      cfg.RSILowerBand,
	}, appLogger)
	if err != nil {
		appLogger.Error(context.Background(), err, "FATAL: Failed to initialize signal classifier")
		log.Fatalf("FATAL: Failed to initialize signal classifier: %v", err)
	}

	// 7. Initialize Telegram Notifier
	notifier, err := telegram.New(telegram.Config{
		Token:  cfg.TelegramToken,
		ChatID: cfg.TelegramChatID,
		Logger: appLogger,
	})
	if err != nil {
		appLogger.Error(context.Background(), err, "FATAL: Failed to initialize Telegram notifier")
		log.Fatalf("FATAL: Failed to initialize Telegram notifier: %v", err)
	}

	// 8. Initialize Position Manager
	ledger := trading.NewLedger()
	manager, err := trading.NewManager(trading.Config{
		Symbol:            cfg.Symbol,
		Leverage:          cfg.Leverage,
		MaxNotionalUSD:    cfg.MaxNotionalUSD,
		TakeProfitPct:     cfg.TakeProfitPct,
		StopLossPct:       cfg.StopLossPct,
		QuantityPrecision: cfg.QuantityPrecision,
		PricePrecision:    cfg.PricePrecision,
	}, appLogger, binanceClient, notifier, journal, ledger)
	if err != nil {
		appLogger.Error(context.Background(), err, "FATAL: Failed to initialize position manager")
		log.Fatalf("FATAL: Failed to initialize position manager: %v", err)
	}

	// 9. Initialize Status Server
	statusSrv, err := statusserver.New(cfg.StatusAddr, appLogger, journal)
	if err != nil {
		appLogger.Error(context.Background(), err, "FATAL: Failed to initialize status server")
		log.Fatalf("FATAL: Failed to initialize status server: %v", err)
	}

	// 10. Initialize Application Service
	tradingService, err := app.NewTradingService(app.Config{
		Symbol:       cfg.Symbol,
		Leverage:     cfg.Leverage,
		BalanceAsset: "USDT",
		BarCount:     cfg.KlineLimit,
		PollInterval: cfg.PollInterval,
		Timezone:     cfg.Timezone,
	}, appLogger, binanceClient, provider, classifier, manager, notifier, statusSrv, journal)
	if err != nil {
		appLogger.Error(context.Background(), err, "FATAL: Failed to initialize trading service")
		log.Fatalf("FATAL: Failed to initialize trading service: %v", err)
	}

	// 11. Start the Service. The status server runs alongside the poll loop
	// and shuts down with the same context.
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	go func() {
		if err := statusSrv.Start(ctx); err != nil {
			appLogger.Error(ctx, err, "Status server exited with error")
		}
	}()

	if err := tradingService.Start(ctx); err != nil {
		appLogger.Error(ctx, err, "Trading service exited with error")
		log.Fatalf("FATAL: Trading service exited with error: %v", err)
	}
	cancel()

	appLogger.Info(context.Background(), "Application finished gracefully.")
}
