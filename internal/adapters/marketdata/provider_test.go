package marketdata

import (
	"context"
	"math"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"btcMomentumBot/internal/domain"
	"btcMomentumBot/internal/ports"
)

type mockLogger struct{}

func (mockLogger) Debug(ctx context.Context, msg string, fields ...map[string]interface{}) {}
func (mockLogger) Info(ctx context.Context, msg string, fields ...map[string]interface{})  {}
func (mockLogger) Warn(ctx context.Context, msg string, fields ...map[string]interface{})  {}
func (mockLogger) Error(ctx context.Context, err error, msg string, fields ...map[string]interface{}) {
}

type mockExchange struct {
	klines    []*domain.Kline
	klinesErr error
	lastLimit int
}

func (m *mockExchange) GetKlines(ctx context.Context, symbol string, interval string, limit int) ([]*domain.Kline, error) {
	m.lastLimit = limit
	return m.klines, m.klinesErr
}

func (m *mockExchange) SetServerTime(ctx context.Context) error { return nil }
func (m *mockExchange) GetMarkPrice(ctx context.Context, symbol string) (float64, error) {
	return 0, nil
}
func (m *mockExchange) GetAccountBalance(ctx context.Context, asset string) (float64, error) {
	return 0, nil
}
func (m *mockExchange) SetLeverage(ctx context.Context, symbol string, leverage int) error {
	return nil
}
func (m *mockExchange) PlaceMarketOrder(ctx context.Context, symbol string, side domain.OrderSide, quantity string) (*ports.OrderFill, error) {
	return nil, nil
}
func (m *mockExchange) Ping(ctx context.Context) error { return nil }

func testKlines(n int) []*domain.Kline {
	now := time.Now()
	out := make([]*domain.Kline, n)
	for i := range out {
		// A gently oscillating close series keeps the RSI off its bounds.
		out[i] = &domain.Kline{
			OpenTime:  now.Add(time.Duration(i-n) * 5 * time.Minute),
			CloseTime: now.Add(time.Duration(i-n+1) * 5 * time.Minute),
			Symbol:    "BTCUSDT",
			Interval:  "5m",
			Close:     50000 + 500*math.Sin(float64(i)/5),
		}
	}
	return out
}

func testConfig() Config {
	return Config{
		Symbol:           "BTCUSDT",
		Interval:         "5m",
		MACDFastPeriod:   12,
		MACDSlowPeriod:   26,
		MACDSignalPeriod: 9,
		RSIPeriod:        20,
	}
}

func TestRecentBars(t *testing.T) {
	exchange := &mockExchange{klines: testKlines(100)}
	p, err := New(testConfig(), mockLogger{}, exchange)
	require.NoError(t, err)

	bars, err := p.RecentBars(context.Background(), 100)
	require.NoError(t, err)
	require.Len(t, bars, 100)
	assert.Equal(t, 100, exchange.lastLimit)

	for i, b := range bars {
		assert.Equal(t, exchange.klines[i].Close, b.Close)
		assert.Equal(t, exchange.klines[i].OpenTime, b.OpenTime)
		assert.GreaterOrEqual(t, b.RSI, 0.0)
		assert.LessOrEqual(t, b.RSI, 100.0)
	}

	// Bars are time-ordered, oldest first.
	for i := 1; i < len(bars); i++ {
		assert.True(t, bars[i].OpenTime.After(bars[i-1].OpenTime))
	}
}

func TestRecentBars_RaisesCountToIndicatorMinimum(t *testing.T) {
	exchange := &mockExchange{klines: testKlines(100)}
	p, err := New(testConfig(), mockLogger{}, exchange)
	require.NoError(t, err)

	_, err = p.RecentBars(context.Background(), 2)
	require.NoError(t, err)
	assert.Equal(t, p.MinBars(), exchange.lastLimit)
}

func TestRecentBars_FetchFailure(t *testing.T) {
	exchange := &mockExchange{klinesErr: ports.ErrDataUnavailable}
	p, err := New(testConfig(), mockLogger{}, exchange)
	require.NoError(t, err)

	_, err = p.RecentBars(context.Background(), 100)
	assert.ErrorIs(t, err, ports.ErrDataUnavailable)
}

func TestRecentBars_TooFewCandles(t *testing.T) {
	exchange := &mockExchange{klines: testKlines(10)}
	p, err := New(testConfig(), mockLogger{}, exchange)
	require.NoError(t, err)

	_, err = p.RecentBars(context.Background(), 100)
	assert.ErrorIs(t, err, ports.ErrDataUnavailable)
}

func TestNew_Validation(t *testing.T) {
	cfg := testConfig()
	_, err := New(cfg, nil, &mockExchange{})
	assert.Error(t, err)

	cfg.MACDFastPeriod = 26
	_, err = New(cfg, mockLogger{}, &mockExchange{})
	assert.Error(t, err)
}
