package domain

import "time"

// Bar is a closed candle decorated with the indicator values the classifier
// consumes: the MACD line, its signal line, and the RSI. Bars are produced by
// the market data provider, ordered by time, and never mutated afterwards.
type Bar struct {
	OpenTime   time.Time // Start time of the interval
	Close      float64   // Closing price of the interval
	MACD       float64   // MACD line value at this bar
	MACDSignal float64   // MACD signal line value at this bar
	RSI        float64   // RSI value at this bar
}

// Histogram returns the distance of the MACD line from its signal line.
// Positive values mean the MACD line is above the signal line.
func (b *Bar) Histogram() float64 {
	return b.MACD - b.MACDSignal
}
