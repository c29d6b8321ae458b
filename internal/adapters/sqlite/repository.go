package sqlite

import (
	"context"
	"database/sql"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"btcMomentumBot/internal/domain"
	"btcMomentumBot/internal/ports"

	_ "github.com/mattn/go-sqlite3" // SQLite driver
)

// Repository implements the ports.OrderJournal interface using SQLite.
// The journal is append-only: rows are inserted when orders fill and read
// back for the dashboard, never to rebuild in-memory state.
type Repository struct {
	db     *sql.DB
	logger ports.Logger
}

// Config holds configuration for the SQLite repository.
type Config struct {
	DBPath string
	Logger ports.Logger
}

// NewRepository creates a new SQLite repository instance.
func NewRepository(cfg Config) (*Repository, error) {
	if cfg.Logger == nil {
		return nil, fmt.Errorf("logger is required for SQLite repository")
	}
	dbPath := cfg.DBPath
	if dbPath == "" {
		dbPath = "./data/orders.db" // Default path
	}

	// Create data directory if it doesn't exist
	if err := os.MkdirAll(filepath.Dir(dbPath), 0755); err != nil {
		err = fmt.Errorf("failed to create data directory '%s': %w", filepath.Dir(dbPath), err)
		cfg.Logger.Error(context.Background(), err, "SQLite repository initialization failed")
		return nil, err
	}

	// WAL mode for better concurrency between the control loop and readers
	db, err := sql.Open("sqlite3", dbPath+"?_journal_mode=WAL&_busy_timeout=5000")
	if err != nil {
		err = fmt.Errorf("failed to open database at '%s': %w", dbPath, err)
		cfg.Logger.Error(context.Background(), err, "SQLite repository initialization failed")
		return nil, err
	}

	if err := db.Ping(); err != nil {
		db.Close()
		err = fmt.Errorf("failed to ping database at '%s': %w", dbPath, err)
		cfg.Logger.Error(context.Background(), err, "SQLite repository initialization failed")
		return nil, err
	}

	// SQLite handles concurrency internally; the Go driver benefits from a
	// single connection.
	db.SetMaxOpenConns(1)
	db.SetMaxIdleConns(1)
	db.SetConnMaxLifetime(time.Hour)

	cfg.Logger.Info(context.Background(), "SQLite database connection established", map[string]interface{}{"path": dbPath})

	repo := &Repository{db: db, logger: cfg.Logger}

	if err := repo.initializeSchema(context.Background()); err != nil {
		db.Close()
		err = fmt.Errorf("failed to initialize database schema: %w", err)
		cfg.Logger.Error(context.Background(), err, "SQLite repository initialization failed")
		return nil, err
	}

	return repo, nil
}

// initializeSchema creates tables if they don't exist.
// NOTE: This is a basic approach. A proper migration tool is recommended for production.
func (r *Repository) initializeSchema(ctx context.Context) error {
	const schema = `
	CREATE TABLE IF NOT EXISTS orders (
		id INTEGER PRIMARY KEY AUTOINCREMENT,
		created_at TIMESTAMP NOT NULL,
		event TEXT NOT NULL,
		symbol TEXT NOT NULL,
		side TEXT NOT NULL,
		quantity REAL NOT NULL,
		price REAL NOT NULL,
		entry_price REAL NOT NULL,
		return_pct REAL NOT NULL DEFAULT 0
	);
	CREATE INDEX IF NOT EXISTS idx_orders_created_at ON orders (created_at);
	`
	_, err := r.db.ExecContext(ctx, schema)
	if err != nil {
		return fmt.Errorf("failed to execute schema initialization: %w", err)
	}
	return nil
}

// Close closes the database connection.
func (r *Repository) Close() error {
	if r.db != nil {
		r.logger.Info(context.Background(), "Closing SQLite database connection")
		return r.db.Close()
	}
	return nil
}

// RecordOrder appends a new journal entry and returns its assigned ID.
func (r *Repository) RecordOrder(ctx context.Context, rec *domain.OrderRecord) (int64, error) {
	const query = `
	INSERT INTO orders (created_at, event, symbol, side, quantity, price, entry_price, return_pct)
	VALUES (?, ?, ?, ?, ?, ?, ?, ?)`

	result, err := r.db.ExecContext(ctx, query,
		rec.CreatedAt, rec.Event, rec.Symbol, rec.Side, rec.Quantity, rec.Price, rec.EntryPrice, rec.ReturnPct)
	if err != nil {
		return 0, fmt.Errorf("failed to insert order record for symbol %s: %w", rec.Symbol, err)
	}

	id, err := result.LastInsertId()
	if err != nil {
		return 0, fmt.Errorf("failed to get last insert ID for order record %s: %w", rec.Symbol, err)
	}
	rec.ID = id
	r.logger.Debug(ctx, "Order recorded", map[string]interface{}{"orderID": id, "event": rec.Event, "symbol": rec.Symbol})
	return id, nil
}

// CountOrders returns the total number of journaled orders.
func (r *Repository) CountOrders(ctx context.Context) (int, error) {
	const query = `SELECT COUNT(*) FROM orders`
	var count int
	if err := r.db.QueryRowContext(ctx, query).Scan(&count); err != nil {
		return 0, fmt.Errorf("failed to count orders: %w", err)
	}
	return count, nil
}

// RecentOrders retrieves the most recent entries, newest first, up to limit.
func (r *Repository) RecentOrders(ctx context.Context, limit int) ([]*domain.OrderRecord, error) {
	const query = `
	SELECT id, created_at, event, symbol, side, quantity, price, entry_price, return_pct
	FROM orders
	ORDER BY created_at DESC, id DESC LIMIT ?`

	rows, err := r.db.QueryContext(ctx, query, limit)
	if err != nil {
		return nil, fmt.Errorf("failed to query recent orders: %w", err)
	}
	defer rows.Close()

	records := make([]*domain.OrderRecord, 0)
	for rows.Next() {
		rec := &domain.OrderRecord{}
		var event, side string
		if err := rows.Scan(&rec.ID, &rec.CreatedAt, &event, &rec.Symbol, &side,
			&rec.Quantity, &rec.Price, &rec.EntryPrice, &rec.ReturnPct); err != nil {
			return nil, fmt.Errorf("failed to scan order record: %w", err)
		}
		rec.Event = domain.OrderEvent(event)
		rec.Side = domain.OrderSide(side)
		records = append(records, rec)
	}
	if err = rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating order rows: %w", err)
	}
	return records, nil
}
