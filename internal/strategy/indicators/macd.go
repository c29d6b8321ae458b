// Package indicators implements the technical indicator series the bot's
// market data layer computes over raw candles: EMA, MACD and RSI.
//
// All functions return one value per input element so callers can line the
// series up against the candles they were computed from. Values before an
// indicator's warm-up period are carried as the running seed average; callers
// that need fully converged values should fetch enough history (the market
// data adapter requests 100 candles for the default MACD(12,26,9)).
package indicators

import "fmt"

// EMA returns the exponential moving average series of values for the given
// period. The series is seeded with the simple average of the first period
// elements, matching how the historical seed is usually warmed up.
func EMA(values []float64, period int) ([]float64, error) {
	if period <= 0 {
		return nil, fmt.Errorf("EMA period must be positive, got %d", period)
	}
	if len(values) < period {
		return nil, fmt.Errorf("not enough data (%d) to calculate EMA for period %d", len(values), period)
	}

	out := make([]float64, len(values))
	multiplier := 2.0 / float64(period+1)

	// Seed with the running simple average until a full period is available.
	var sum float64
	for i := 0; i < period; i++ {
		sum += values[i]
		out[i] = sum / float64(i+1)
	}

	ema := out[period-1]
	for i := period; i < len(values); i++ {
		ema = (values[i]-ema)*multiplier + ema
		out[i] = ema
	}
	return out, nil
}

// MACD returns the MACD line and its signal line for the close series.
// The MACD line is EMA(fast) − EMA(slow); the signal line is the EMA of the
// MACD line over signalPeriod.
func MACD(closes []float64, fastPeriod, slowPeriod, signalPeriod int) (line, signal []float64, err error) {
	if fastPeriod >= slowPeriod {
		return nil, nil, fmt.Errorf("MACD fast period (%d) must be less than slow period (%d)", fastPeriod, slowPeriod)
	}
	if len(closes) < slowPeriod+signalPeriod {
		return nil, nil, fmt.Errorf("not enough data (%d) to calculate MACD(%d,%d,%d)", len(closes), fastPeriod, slowPeriod, signalPeriod)
	}

	fast, err := EMA(closes, fastPeriod)
	if err != nil {
		return nil, nil, err
	}
	slow, err := EMA(closes, slowPeriod)
	if err != nil {
		return nil, nil, err
	}

	line = make([]float64, len(closes))
	for i := range closes {
		line[i] = fast[i] - slow[i]
	}

	signal, err = EMA(line, signalPeriod)
	if err != nil {
		return nil, nil, err
	}
	return line, signal, nil
}
