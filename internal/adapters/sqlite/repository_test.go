package sqlite

import (
	"context"
	"os"
	"path/filepath"
	"testing"
	"time"

	"btcMomentumBot/internal/domain"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// mockLogger implements ports.Logger for testing
type mockLogger struct{}

func (m *mockLogger) Debug(ctx context.Context, msg string, fields ...map[string]interface{}) {}
func (m *mockLogger) Info(ctx context.Context, msg string, fields ...map[string]interface{})  {}
func (m *mockLogger) Warn(ctx context.Context, msg string, fields ...map[string]interface{})  {}
func (m *mockLogger) Error(ctx context.Context, err error, msg string, fields ...map[string]interface{}) {
}

// setupTestDB creates a temporary database for testing
func setupTestDB(t *testing.T) (*Repository, func()) {
	t.Helper()

	tmpDir, err := os.MkdirTemp("", "momentum-bot-test-*")
	require.NoError(t, err)

	dbPath := filepath.Join(tmpDir, "test.db")
	repo, err := NewRepository(Config{
		DBPath: dbPath,
		Logger: &mockLogger{},
	})
	require.NoError(t, err)

	cleanup := func() {
		repo.Close()
		os.RemoveAll(tmpDir)
	}

	return repo, cleanup
}

func TestRepository_RecordOrder(t *testing.T) {
	repo, cleanup := setupTestDB(t)
	defer cleanup()

	ctx := context.Background()
	rec := &domain.OrderRecord{
		CreatedAt:  time.Now(),
		Event:      domain.EventPositionOpened,
		Symbol:     "BTCUSDT",
		Side:       domain.Buy,
		Quantity:   0.036,
		Price:      50000.0,
		EntryPrice: 50000.0,
	}

	id, err := repo.RecordOrder(ctx, rec)
	require.NoError(t, err)
	assert.Greater(t, id, int64(0))
	assert.Equal(t, id, rec.ID)
}

func TestRepository_CountOrders(t *testing.T) {
	repo, cleanup := setupTestDB(t)
	defer cleanup()

	ctx := context.Background()

	count, err := repo.CountOrders(ctx)
	require.NoError(t, err)
	assert.Equal(t, 0, count)

	for i := 0; i < 3; i++ {
		_, err := repo.RecordOrder(ctx, &domain.OrderRecord{
			CreatedAt:  time.Now(),
			Event:      domain.EventPositionOpened,
			Symbol:     "BTCUSDT",
			Side:       domain.Buy,
			Quantity:   0.01,
			Price:      50000.0,
			EntryPrice: 50000.0,
		})
		require.NoError(t, err)
	}

	count, err = repo.CountOrders(ctx)
	require.NoError(t, err)
	assert.Equal(t, 3, count)
}

func TestRepository_RecentOrders(t *testing.T) {
	repo, cleanup := setupTestDB(t)
	defer cleanup()

	ctx := context.Background()
	base := time.Now().Add(-time.Hour)

	events := []domain.OrderEvent{
		domain.EventPositionOpened,
		domain.EventTakeProfitHit,
		domain.EventStopLossHit,
	}
	for i, ev := range events {
		_, err := repo.RecordOrder(ctx, &domain.OrderRecord{
			CreatedAt:  base.Add(time.Duration(i) * time.Minute),
			Event:      ev,
			Symbol:     "BTCUSDT",
			Side:       domain.Sell,
			Quantity:   0.01,
			Price:      50000.0 + float64(i),
			EntryPrice: 50000.0,
			ReturnPct:  float64(i) * 0.01,
		})
		require.NoError(t, err)
	}

	records, err := repo.RecentOrders(ctx, 2)
	require.NoError(t, err)
	require.Len(t, records, 2)

	// Newest first.
	assert.Equal(t, domain.EventStopLossHit, records[0].Event)
	assert.Equal(t, domain.EventTakeProfitHit, records[1].Event)
	assert.Equal(t, domain.Sell, records[0].Side)
	assert.InDelta(t, 0.02, records[0].ReturnPct, 1e-9)
}

func TestRepository_RecentOrders_Empty(t *testing.T) {
	repo, cleanup := setupTestDB(t)
	defer cleanup()

	records, err := repo.RecentOrders(context.Background(), 10)
	require.NoError(t, err)
	assert.Empty(t, records)
}

func TestNewRepository_RequiresLogger(t *testing.T) {
	_, err := NewRepository(Config{DBPath: "ignored.db"})
	require.Error(t, err)
}
