package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"

	"btcMomentumBot/internal/adapters/logger" // Import the logger package for LogLevel
)

// Config holds all application configuration.
type Config struct {
	// Binance API
	APIKey    string
	SecretKey string
	IsTestnet bool

	// Trading Parameters
	Symbol            string
	Leverage          int
	MaxNotionalUSD    float64 // Margin committed per entry, before leverage
	TakeProfitPct     float64 // Take profit threshold (e.g., 0.05 for 5%)
	StopLossPct       float64 // Stop loss threshold (e.g., 0.05 for 5%)
	QuantityPrecision int     // Decimal places when rounding order quantities
	PricePrecision    int     // Decimal places when rounding TP/SL prices

	// Strategy Parameters
	MACDFastPeriod    int
	MACDSlowPeriod    int
	MACDSignalPeriod  int
	RSIPeriod         int
	MomentumThreshold float64 // Minimum MACD histogram magnitude to act on a cross
	RSIUpperBand      float64
	RSILowerBand      float64

	// Market Data
	KlineInterval string
	KlineLimit    int
	PollInterval  time.Duration

	// Telegram
	TelegramToken  string
	TelegramChatID string

	// Status Server
	StatusAddr string

	// Database
	DBPath string

	// Logging
	LogLevel logger.LogLevel // Use the LogLevel type from the logger adapter

	// Display timezone for dashboard timestamps
	Timezone *time.Location
}

// LoadConfig loads configuration from environment variables (.env file).
func LoadConfig() (*Config, error) {
	// Load .env file, but don't fail if it doesn't exist (allow pure env vars)
	_ = godotenv.Load()

	cfg := &Config{}
	var err error
	var errs []string // Collect validation errors

	// Binance API
	cfg.APIKey = getEnv("BINANCE_API_KEY", "")
	cfg.SecretKey = getEnv("BINANCE_API_SECRET", "")
	cfg.IsTestnet = getEnvAsBool("IS_TESTNET", true) // Default to testnet for safety

	if cfg.APIKey == "" {
		errs = append(errs, "BINANCE_API_KEY must be set")
	}
	if cfg.SecretKey == "" {
		errs = append(errs, "BINANCE_API_SECRET must be set")
	}

	// Trading Parameters
	cfg.Symbol = getEnv("SYMBOL", "BTCUSDT")
	if cfg.Symbol == "" {
		errs = append(errs, "SYMBOL must be set")
	}

	cfg.Leverage, err = getEnvAsIntRequired("LEVERAGE", 90)
	if err != nil {
		errs = append(errs, fmt.Sprintf("invalid LEVERAGE: %v", err))
	} else if cfg.Leverage <= 0 {
		errs = append(errs, "LEVERAGE must be positive")
	}

	cfg.MaxNotionalUSD, err = getEnvAsFloatRequired("MAX_NOTIONAL_USD", 20.0)
	if err != nil {
		errs = append(errs, fmt.Sprintf("invalid MAX_NOTIONAL_USD: %v", err))
	} else if cfg.MaxNotionalUSD <= 0 {
		errs = append(errs, "MAX_NOTIONAL_USD must be positive")
	}

	cfg.TakeProfitPct, err = getEnvAsFloatRequired("TAKE_PROFIT_PERCENT", 0.05)
	if err != nil {
		errs = append(errs, fmt.Sprintf("invalid TAKE_PROFIT_PERCENT: %v", err))
	} else if cfg.TakeProfitPct <= 0 || cfg.TakeProfitPct >= 1.0 {
		errs = append(errs, "TAKE_PROFIT_PERCENT must be between 0.0 and 1.0 (exclusive)")
	}

	cfg.StopLossPct, err = getEnvAsFloatRequired("STOP_LOSS_PERCENT", 0.05)
	if err != nil {
		errs = append(errs, fmt.Sprintf("invalid STOP_LOSS_PERCENT: %v", err))
	} else if cfg.StopLossPct <= 0 || cfg.StopLossPct >= 1.0 {
		errs = append(errs, "STOP_LOSS_PERCENT must be between 0.0 and 1.0 (exclusive)")
	}

	cfg.QuantityPrecision = getEnvAsInt("QUANTITY_PRECISION", 5)
	cfg.PricePrecision = getEnvAsInt("PRICE_PRECISION", 2)
	if cfg.QuantityPrecision < 0 || cfg.PricePrecision < 0 {
		errs = append(errs, "QUANTITY_PRECISION and PRICE_PRECISION cannot be negative")
	}

	// Strategy Parameters (using defaults if not set)
	cfg.MACDFastPeriod = getEnvAsInt("MACD_FAST_PERIOD", 12)
	cfg.MACDSlowPeriod = getEnvAsInt("MACD_SLOW_PERIOD", 26)
	cfg.MACDSignalPeriod = getEnvAsInt("MACD_SIGNAL_PERIOD", 9)
	cfg.RSIPeriod = getEnvAsInt("RSI_PERIOD", 20)
	cfg.MomentumThreshold = getEnvAsFloat("MOMENTUM_THRESHOLD", 10.0)
	cfg.RSIUpperBand = getEnvAsFloat("RSI_UPPER_BAND", 70.0)
	cfg.RSILowerBand = getEnvAsFloat("RSI_LOWER_BAND", 30.0)

	if cfg.MACDFastPeriod <= 0 || cfg.MACDSlowPeriod <= 0 || cfg.MACDSignalPeriod <= 0 || cfg.RSIPeriod <= 0 {
		errs = append(errs, "strategy periods (MACD, RSI) must be positive")
	}
	if cfg.MACDFastPeriod >= cfg.MACDSlowPeriod {
		errs = append(errs, "MACD_FAST_PERIOD must be less than MACD_SLOW_PERIOD")
	}
	if cfg.MomentumThreshold < 0 {
		errs = append(errs, "MOMENTUM_THRESHOLD cannot be negative")
	}
	if cfg.RSIUpperBand <= cfg.RSILowerBand || cfg.RSIUpperBand > 100 || cfg.RSILowerBand < 0 {
		errs = append(errs, "invalid RSI bands (upper must be > lower, between 0-100)")
	}

	// Market Data
	cfg.KlineInterval = getEnv("KLINE_INTERVAL", "5m")
	if cfg.KlineInterval == "" {
		errs = append(errs, "KLINE_INTERVAL must be set")
	}

	cfg.KlineLimit, err = getEnvAsIntRequired("KLINE_LIMIT", 100)
	if err != nil {
		errs = append(errs, fmt.Sprintf("invalid KLINE_LIMIT: %v", err))
	} else if cfg.KlineLimit <= 0 {
		errs = append(errs, "KLINE_LIMIT must be positive")
	}

	pollIntervalSeconds := getEnvAsInt("POLL_INTERVAL_SECONDS", 60)
	if pollIntervalSeconds <= 0 {
		errs = append(errs, "POLL_INTERVAL_SECONDS must be positive")
	}
	cfg.PollInterval = time.Duration(pollIntervalSeconds) * time.Second

	// Telegram (optional; notifications are skipped when unset)
	cfg.TelegramToken = getEnv("TELEGRAM_TOKEN", "")
	cfg.TelegramChatID = getEnv("TELEGRAM_CHAT_ID", "")

	// Status Server
	cfg.StatusAddr = getEnv("STATUS_ADDR", ":8080")

	// Database
	cfg.DBPath = getEnv("DB_PATH", "./data/orders.db")
	if cfg.DBPath == "" {
		errs = append(errs, "DB_PATH must be set")
	}

	// Logging
	logLevelStr := getEnv("LOG_LEVEL", "INFO")
	cfg.LogLevel = logger.ParseLevel(logLevelStr) // Use the parser from the logger package

	// Timezone
	tzName := getEnv("TIMEZONE", "Asia/Dubai")
	cfg.Timezone, err = time.LoadLocation(tzName)
	if err != nil {
		errs = append(errs, fmt.Sprintf("invalid TIMEZONE '%s': %v", tzName, err))
	}

	// Combine validation errors
	if len(errs) > 0 {
		return nil, fmt.Errorf("configuration validation failed: %s", strings.Join(errs, "; "))
	}

	return cfg, nil
}

// --- Env Var Helpers ---

func getEnv(key, defaultValue string) string {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue
	}
	return value
}

func getEnvAsInt(key string, defaultValue int) int {
	valueStr := os.Getenv(key)
	if valueStr == "" {
		return defaultValue
	}
	value, err := strconv.Atoi(valueStr)
	if err != nil {
		// For non-required fields the default is acceptable.
		return defaultValue
	}
	return value
}

func getEnvAsIntRequired(key string, defaultValue int) (int, error) {
	valueStr := os.Getenv(key)
	if valueStr == "" {
		// Use default if env var is not set at all
		return defaultValue, nil
	}
	value, err := strconv.Atoi(valueStr)
	if err != nil {
		// Return error if env var is set but invalid
		return 0, fmt.Errorf("invalid integer value '%s' for key %s: %w", valueStr, key, err)
	}
	return value, nil
}

func getEnvAsFloat(key string, defaultValue float64) float64 {
	valueStr := os.Getenv(key)
	if valueStr == "" {
		return defaultValue
	}
	value, err := strconv.ParseFloat(valueStr, 64)
	if err != nil {
		return defaultValue
	}
	return value
}

func getEnvAsFloatRequired(key string, defaultValue float64) (float64, error) {
	valueStr := os.Getenv(key)
	if valueStr == "" {
		return defaultValue, nil
	}
	value, err := strconv.ParseFloat(valueStr, 64)
	if err != nil {
		return 0, fmt.Errorf("invalid float value '%s' for key %s: %w", valueStr, key, err)
	}
	return value, nil
}

func getEnvAsBool(key string, defaultValue bool) bool {
	valueStr := os.Getenv(key)
	if valueStr == "" {
		return defaultValue
	}
	value, err := strconv.ParseBool(valueStr)
	if err != nil {
		return defaultValue
	}
	return value
}
