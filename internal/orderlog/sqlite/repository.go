// Package sqlite provides the SQLite-backed orderlog.Repository.
//
// WAL mode is enabled on Open so writes from in-flight orders never block a
// concurrent read (e.g. an operator inspecting the log while the server runs).
package sqlite

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/megami-llc/order-server/internal/orderlog"

	// Pure-Go SQLite driver; no CGO, builds cleanly in minimal images.
	_ "modernc.org/sqlite"
)

// schema is applied once on startup. The table is append-only: each row is
// an immutable event in an order's processing history.
const schema = `
CREATE TABLE IF NOT EXISTS order_events (
    id          INTEGER PRIMARY KEY AUTOINCREMENT,

    -- Business identifier; multiple rows exist per order, one per event.
    order_id    TEXT NOT NULL,

    -- Event name, e.g. "ledger_ok", "payment_completed".
    event       TEXT NOT NULL,

    -- Failure reason or other free-form context.
    detail      TEXT NOT NULL DEFAULT '',

    -- W3C trace/span IDs from the active OTel span, if any.
    trace_id    TEXT NOT NULL DEFAULT '',
    span_id     TEXT NOT NULL DEFAULT '',

    -- RFC3339 timestamp stored as TEXT, the SQLite idiom.
    created_at  TEXT NOT NULL
);

CREATE INDEX IF NOT EXISTS idx_order_events_order_id ON order_events(order_id, created_at);
`

const timeLayout = "2006-01-02T15:04:05.999999999Z"

// Repository is the SQLite implementation of orderlog.Repository.
type Repository struct {
	db *sql.DB
}

// Open opens (or creates) the database at path and applies the schema.
func Open(path string) (*Repository, error) {
	dsn := fmt.Sprintf("file:%s?_pragma=journal_mode(WAL)&_pragma=busy_timeout(5000)", path)

	db, err := sql.Open("sqlite", dsn)
	if err != nil {
		return nil, fmt.Errorf("orderlog sqlite: open %q: %w", path, err)
	}

	// SQLite performs best with a single writer connection.
	db.SetMaxOpenConns(1)

	if _, err := db.Exec(schema); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("orderlog sqlite: apply schema: %w", err)
	}

	return &Repository{db: db}, nil
}

// Close releases the database connection.
func (r *Repository) Close() error {
	return r.db.Close()
}

// Save appends one event row. Safe for concurrent use.
func (r *Repository) Save(ctx context.Context, entry *orderlog.Entry) error {
	const q = `
		INSERT INTO order_events (order_id, event, detail, trace_id, span_id, created_at)
		VALUES (?, ?, ?, ?, ?, ?)`

	_, err := r.db.ExecContext(ctx, q,
		entry.OrderID,
		string(entry.Event),
		entry.Detail,
		entry.TraceID,
		entry.SpanID,
		entry.CreatedAt.UTC().Format(timeLayout),
	)
	if err != nil {
		return fmt.Errorf("orderlog sqlite: save event for %q: %w", entry.OrderID, err)
	}
	return nil
}

// ListByOrder returns all events recorded for an order, oldest first.
func (r *Repository) ListByOrder(ctx context.Context, orderID string) ([]*orderlog.Entry, error) {
	const q = `
		SELECT order_id, event, detail, trace_id, span_id, created_at
		FROM   order_events
		WHERE  order_id = ?
		ORDER  BY created_at ASC, id ASC`

	rows, err := r.db.QueryContext(ctx, q, orderID)
	if err != nil {
		return nil, fmt.Errorf("orderlog sqlite: list events for %q: %w", orderID, err)
	}
	defer rows.Close()

	var entries []*orderlog.Entry
	for rows.Next() {
		var entry orderlog.Entry
		var createdAt string
		if err := rows.Scan(&entry.OrderID, &entry.Event, &entry.Detail,
			&entry.TraceID, &entry.SpanID, &createdAt); err != nil {
			return nil, fmt.Errorf("orderlog sqlite: scan event: %w", err)
		}
		entry.CreatedAt, err = time.Parse(timeLayout, createdAt)
		if err != nil {
			return nil, fmt.Errorf("orderlog sqlite: parse created_at %q: %w", createdAt, err)
		}
		entries = append(entries, &entry)
	}
	return entries, rows.Err()
}
