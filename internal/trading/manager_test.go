package trading

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"btcMomentumBot/internal/domain"
	"btcMomentumBot/internal/ports"
)

// Mock implementations

type mockLogger struct{}

func (mockLogger) Debug(ctx context.Context, msg string, fields ...map[string]interface{}) {}
func (mockLogger) Info(ctx context.Context, msg string, fields ...map[string]interface{})  {}
func (mockLogger) Warn(ctx context.Context, msg string, fields ...map[string]interface{})  {}
func (mockLogger) Error(ctx context.Context, err error, msg string, fields ...map[string]interface{}) {
}

type orderCall struct {
	side     domain.OrderSide
	quantity string
}

type scriptedResponse struct {
	fill *ports.OrderFill
	err  error
}

type mockExchange struct {
	calls       []orderCall
	script      []scriptedResponse // consumed in order; falls back to defaultFill
	defaultFill *ports.OrderFill
}

func (m *mockExchange) PlaceMarketOrder(ctx context.Context, symbol string, side domain.OrderSide, quantity string) (*ports.OrderFill, error) {
	m.calls = append(m.calls, orderCall{side: side, quantity: quantity})
	if len(m.script) > 0 {
		resp := m.script[0]
		m.script = m.script[1:]
		return resp.fill, resp.err
	}
	return m.defaultFill, nil
}

func (m *mockExchange) SetServerTime(ctx context.Context) error { return nil }
func (m *mockExchange) GetMarkPrice(ctx context.Context, symbol string) (float64, error) {
	return 0, nil
}
func (m *mockExchange) GetAccountBalance(ctx context.Context, asset string) (float64, error) {
	return 1000, nil
}
func (m *mockExchange) SetLeverage(ctx context.Context, symbol string, leverage int) error {
	return nil
}
func (m *mockExchange) GetKlines(ctx context.Context, symbol string, interval string, limit int) ([]*domain.Kline, error) {
	return nil, nil
}
func (m *mockExchange) Ping(ctx context.Context) error { return nil }

type mockNotifier struct {
	messages []string
}

func (m *mockNotifier) Notify(ctx context.Context, message string) {
	m.messages = append(m.messages, message)
}

type mockJournal struct {
	records []*domain.OrderRecord
}

func (m *mockJournal) RecordOrder(ctx context.Context, rec *domain.OrderRecord) (int64, error) {
	m.records = append(m.records, rec)
	return int64(len(m.records)), nil
}
func (m *mockJournal) CountOrders(ctx context.Context) (int, error) { return len(m.records), nil }
func (m *mockJournal) RecentOrders(ctx context.Context, limit int) ([]*domain.OrderRecord, error) {
	return m.records, nil
}

func testConfig() Config {
	return Config{
		Symbol:            "BTCUSDT",
		Leverage:          90,
		MaxNotionalUSD:    20,
		TakeProfitPct:     0.05,
		StopLossPct:       0.05,
		QuantityPrecision: 5,
		PricePrecision:    2,
	}
}

func newTestManager(t *testing.T, exchange *mockExchange) (*Manager, *mockNotifier, *mockJournal) {
	t.Helper()
	notifier := &mockNotifier{}
	journal := &mockJournal{}
	mgr, err := NewManager(testConfig(), mockLogger{}, exchange, notifier, journal, NewLedger())
	require.NoError(t, err)
	return mgr, notifier, journal
}

func openPosition(side domain.OrderSide, entry, qty float64) *domain.Position {
	tp := entry * 1.05
	sl := entry * 0.95
	if side == domain.Sell {
		tp, sl = sl, tp
	}
	return &domain.Position{
		Symbol:     "BTCUSDT",
		Side:       side,
		EntryPrice: entry,
		Quantity:   qty,
		Leverage:   90,
		TakeProfit: tp,
		StopLoss:   sl,
		EntryTime:  time.Now().UTC(),
	}
}

func TestOpen_SizesFromNotionalAndLeverage(t *testing.T) {
	exchange := &mockExchange{defaultFill: &ports.OrderFill{OrderID: 1, AvgPrice: 50100}}
	mgr, notifier, journal := newTestManager(t, exchange)

	pos, err := mgr.Open(context.Background(), domain.SignalBuy, 50000)
	require.NoError(t, err)

	// (20 * 90) / 50000 = 0.036
	assert.Equal(t, 0.036, pos.Quantity)
	require.Len(t, exchange.calls, 1)
	assert.Equal(t, domain.Buy, exchange.calls[0].side)
	assert.Equal(t, "0.03600", exchange.calls[0].quantity)

	// Entry comes from the fill, not the pre-trade mark price.
	assert.Equal(t, 50100.0, pos.EntryPrice)
	assert.Equal(t, 52605.0, pos.TakeProfit) // 50100 * 1.05
	assert.Equal(t, 47595.0, pos.StopLoss)   // 50100 * 0.95

	assert.Equal(t, 1, mgr.Ledger().Len())
	require.Len(t, notifier.messages, 1)
	assert.Contains(t, notifier.messages[0], "BUY order placed")
	require.Len(t, journal.records, 1)
	assert.Equal(t, domain.EventPositionOpened, journal.records[0].Event)
}

func TestOpen_ShortDerivesInvertedThresholds(t *testing.T) {
	exchange := &mockExchange{defaultFill: &ports.OrderFill{OrderID: 2, AvgPrice: 50000}}
	mgr, _, _ := newTestManager(t, exchange)

	pos, err := mgr.Open(context.Background(), domain.SignalSell, 50000)
	require.NoError(t, err)

	assert.Equal(t, domain.Sell, pos.Side)
	assert.Equal(t, 47500.0, pos.TakeProfit) // below entry for a short
	assert.Equal(t, 52500.0, pos.StopLoss)   // above entry for a short
}

func TestOpen_ExecutionFailureRecordsNothing(t *testing.T) {
	exchange := &mockExchange{script: []scriptedResponse{{err: ports.ErrExecutionFailed}}}
	mgr, notifier, journal := newTestManager(t, exchange)

	pos, err := mgr.Open(context.Background(), domain.SignalBuy, 50000)
	assert.ErrorIs(t, err, ports.ErrExecutionFailed)
	assert.Nil(t, pos)
	assert.Equal(t, 0, mgr.Ledger().Len())
	assert.Empty(t, notifier.messages)
	assert.Empty(t, journal.records)
}

func TestOpen_ZeroFillPriceFallsBackToMark(t *testing.T) {
	exchange := &mockExchange{defaultFill: &ports.OrderFill{OrderID: 3, AvgPrice: 0}}
	mgr, _, _ := newTestManager(t, exchange)

	pos, err := mgr.Open(context.Background(), domain.SignalBuy, 50000)
	require.NoError(t, err)
	assert.Equal(t, 50000.0, pos.EntryPrice)
}

func TestOpen_RejectsNoneSignal(t *testing.T) {
	mgr, _, _ := newTestManager(t, &mockExchange{defaultFill: &ports.OrderFill{}})
	_, err := mgr.Open(context.Background(), domain.SignalNone, 50000)
	assert.Error(t, err)
}

// Covers the lifecycle scenario: a long at 100 partially closes 75% at 106,
// then the remaining 25% is stopped out in full at 94.
func TestMonitor_TakeProfitThenStopLoss(t *testing.T) {
	exchange := &mockExchange{defaultFill: &ports.OrderFill{OrderID: 10, AvgPrice: 0}}
	mgr, notifier, journal := newTestManager(t, exchange)

	pos := openPosition(domain.Buy, 100, 1.0)
	mgr.Ledger().Append(pos)

	// pnl = 0.06 >= 0.05: close 75%, keep the rest with original thresholds.
	require.NoError(t, mgr.Monitor(context.Background(), 106))
	assert.Equal(t, 0.25, pos.Quantity)
	assert.Equal(t, 1, mgr.Ledger().Len())
	assert.Equal(t, 105.0, pos.TakeProfit)
	assert.Equal(t, 95.0, pos.StopLoss)
	require.Len(t, exchange.calls, 1)
	assert.Equal(t, domain.Sell, exchange.calls[0].side)
	assert.Equal(t, "0.75000", exchange.calls[0].quantity)
	require.Len(t, notifier.messages, 1)
	assert.Contains(t, notifier.messages[0], "TP hit")

	// pnl = -0.06 <= -0.05: close the remaining 25% and remove the position.
	require.NoError(t, mgr.Monitor(context.Background(), 94))
	assert.Equal(t, 0, mgr.Ledger().Len())
	require.Len(t, exchange.calls, 2)
	assert.Equal(t, "0.25000", exchange.calls[1].quantity)
	require.Len(t, notifier.messages, 2)
	assert.Contains(t, notifier.messages[1], "SL hit")

	require.Len(t, journal.records, 2)
	assert.Equal(t, domain.EventTakeProfitHit, journal.records[0].Event)
	assert.Equal(t, domain.EventStopLossHit, journal.records[1].Event)
}

func TestMonitor_ShortTakeProfit(t *testing.T) {
	exchange := &mockExchange{defaultFill: &ports.OrderFill{OrderID: 11, AvgPrice: 0}}
	mgr, _, _ := newTestManager(t, exchange)

	pos := openPosition(domain.Sell, 100, 1.0)
	mgr.Ledger().Append(pos)

	// Shorts profit when price falls.
	require.NoError(t, mgr.Monitor(context.Background(), 94))
	assert.Equal(t, 0.25, pos.Quantity)
	require.Len(t, exchange.calls, 1)
	assert.Equal(t, domain.Buy, exchange.calls[0].side)
}

func TestMonitor_NoTriggerLeavesPositionUntouched(t *testing.T) {
	exchange := &mockExchange{defaultFill: &ports.OrderFill{}}
	mgr, notifier, _ := newTestManager(t, exchange)

	pos := openPosition(domain.Buy, 100, 1.0)
	mgr.Ledger().Append(pos)

	require.NoError(t, mgr.Monitor(context.Background(), 102))
	assert.Equal(t, 1.0, pos.Quantity)
	assert.Equal(t, 1, mgr.Ledger().Len())
	assert.Empty(t, exchange.calls)
	assert.Empty(t, notifier.messages)
}

func TestMonitor_CloseFailureDoesNotBlockOthers(t *testing.T) {
	exchange := &mockExchange{
		script: []scriptedResponse{
			{err: ports.ErrExecutionFailed},            // first position's SL close fails
			{fill: &ports.OrderFill{OrderID: 12}, err: nil}, // second succeeds
		},
	}
	mgr, notifier, _ := newTestManager(t, exchange)

	first := openPosition(domain.Buy, 100, 1.0)
	second := openPosition(domain.Buy, 100, 2.0)
	mgr.Ledger().Append(first)
	mgr.Ledger().Append(second)

	err := mgr.Monitor(context.Background(), 94)
	assert.ErrorIs(t, err, ports.ErrExecutionFailed)

	// The failed position is retained unchanged for retry; the other is gone.
	require.Equal(t, 1, mgr.Ledger().Len())
	assert.Same(t, first, mgr.Ledger().Positions()[0])
	assert.Equal(t, 1.0, first.Quantity)
	require.Len(t, exchange.calls, 2)
	require.Len(t, notifier.messages, 1)
}

func TestMonitor_QuantityIsMonotonicallyNonIncreasing(t *testing.T) {
	exchange := &mockExchange{defaultFill: &ports.OrderFill{}}
	mgr, _, _ := newTestManager(t, exchange)

	pos := openPosition(domain.Buy, 100, 0.036)
	mgr.Ledger().Append(pos)

	prevQty := pos.Quantity
	for i := 0; i < 10 && mgr.Ledger().Len() > 0; i++ {
		require.NoError(t, mgr.Monitor(context.Background(), 106))
		assert.LessOrEqual(t, pos.Quantity, prevQty)
		assert.GreaterOrEqual(t, pos.Quantity, 0.0)
		prevQty = pos.Quantity
	}
	// Successive 75% closes exhaust the position within rounding precision.
	assert.Equal(t, 0, mgr.Ledger().Len())
}

func TestLedger_SnapshotIsDeepCopy(t *testing.T) {
	ledger := NewLedger()
	pos := openPosition(domain.Buy, 100, 1.0)
	ledger.Append(pos)

	snap := ledger.Snapshot()
	require.Len(t, snap, 1)

	pos.Quantity = 0.5
	assert.Equal(t, 1.0, snap[0].Quantity)
}

func TestNewManager_Validation(t *testing.T) {
	exchange := &mockExchange{}
	notifier := &mockNotifier{}
	ledger := NewLedger()

	_, err := NewManager(testConfig(), nil, exchange, notifier, nil, ledger)
	assert.Error(t, err)

	cfg := testConfig()
	cfg.Leverage = 0
	_, err = NewManager(cfg, mockLogger{}, exchange, notifier, nil, ledger)
	assert.Error(t, err)

	cfg = testConfig()
	cfg.TakeProfitPct = 1.5
	_, err = NewManager(cfg, mockLogger{}, exchange, notifier, nil, ledger)
	assert.Error(t, err)
}
