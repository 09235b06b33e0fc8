// Package telemetry mirrors warning and error logs into DuckDB so
// soft failures during extraction runs (unparsable completions,
// failed exports) can be audited with SQL afterwards.
package telemetry

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"log/slog"

	_ "github.com/duckdb/duckdb-go/v2"
	"github.com/google/uuid"
)

// DuckDBHandler is a slog.Handler that forwards every record to the
// wrapped handler and additionally persists warn-and-above records.
type DuckDBHandler struct {
	next slog.Handler
	db   *sql.DB
}

// NewDuckDBHandler opens (or creates) the database at dbPath and
// ensures the run_warnings table exists.
func NewDuckDBHandler(next slog.Handler, dbPath string) (*DuckDBHandler, error) {
	db, err := sql.Open("duckdb", dbPath)
	if err != nil {
		return nil, fmt.Errorf("opening telemetry database: %w", err)
	}

	h := &DuckDBHandler{next: next, db: db}
	if err := h.initSchema(); err != nil {
		db.Close()
		return nil, fmt.Errorf("initializing telemetry schema: %w", err)
	}
	return h, nil
}

func (h *DuckDBHandler) initSchema() error {
	_, err := h.db.Exec(`
		CREATE TABLE IF NOT EXISTS run_warnings (
			id VARCHAR,
			timestamp TIMESTAMP,
			level VARCHAR,
			message VARCHAR,
			attributes JSON
		)
	`)
	return err
}

func (h *DuckDBHandler) Enabled(ctx context.Context, level slog.Level) bool {
	return h.next.Enabled(ctx, level)
}

func (h *DuckDBHandler) Handle(ctx context.Context, r slog.Record) error {
	if err := h.next.Handle(ctx, r); err != nil {
		return err
	}
	if r.Level < slog.LevelWarn {
		return nil
	}

	attrs := make(map[string]any)
	r.Attrs(func(a slog.Attr) bool {
		attrs[a.Key] = a.Value.Any()
		return true
	})
	attrsJSON, _ := json.Marshal(attrs)

	// A failed audit write must not fail the log call itself.
	if _, err := h.db.Exec(
		"INSERT INTO run_warnings (id, timestamp, level, message, attributes) VALUES (?, ?, ?, ?, ?)",
		uuid.NewString(), r.Time.UTC(), r.Level.String(), r.Message, string(attrsJSON),
	); err != nil {
		fmt.Printf("telemetry write failed: %v\n", err)
	}
	return nil
}

func (h *DuckDBHandler) WithAttrs(attrs []slog.Attr) slog.Handler {
	return &DuckDBHandler{next: h.next.WithAttrs(attrs), db: h.db}
}

func (h *DuckDBHandler) WithGroup(name string) slog.Handler {
	return &DuckDBHandler{next: h.next.WithGroup(name), db: h.db}
}

// Close closes the underlying database.
func (h *DuckDBHandler) Close() error {
	return h.db.Close()
}
