// Package export persists extracted triplets into analytical stores.
package export

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	_ "github.com/duckdb/duckdb-go/v2"
	"github.com/soundprediction/go-kag/pkg/types"
)

// DuckDBWriter appends extracted triplets to a DuckDB table so runs
// can be inspected and aggregated with SQL.
type DuckDBWriter struct {
	db *sql.DB
}

// NewDuckDBWriter opens (or creates) the database file at dbPath and
// ensures the triplets table exists.
func NewDuckDBWriter(dbPath string) (*DuckDBWriter, error) {
	db, err := sql.Open("duckdb", dbPath)
	if err != nil {
		return nil, fmt.Errorf("failed to open DuckDB: %w", err)
	}

	writer := &DuckDBWriter{db: db}
	if err := writer.createTables(context.Background()); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to create tables: %w", err)
	}

	return writer, nil
}

func (w *DuckDBWriter) createTables(ctx context.Context) error {
	_, err := w.db.ExecContext(ctx, `
		CREATE TABLE IF NOT EXISTS triplets (
			document_id VARCHAR,
			subject VARCHAR,
			relation VARCHAR,
			object VARCHAR,
			sentence VARCHAR,
			confidence DOUBLE,
			level INTEGER,
			extracted_at TIMESTAMP
		)
	`)
	if err != nil {
		return fmt.Errorf("failed to create triplets table: %w", err)
	}
	return nil
}

// WriteTriplets appends one row per triplet tagged with the document
// they were extracted from, in a single transaction.
func (w *DuckDBWriter) WriteTriplets(ctx context.Context, documentID string, triplets []types.Triplet) error {
	if len(triplets) == 0 {
		return nil
	}

	tx, err := w.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	stmt, err := tx.PrepareContext(ctx, `
		INSERT INTO triplets (
			document_id, subject, relation, object,
			sentence, confidence, level, extracted_at
		) VALUES (?, ?, ?, ?, ?, ?, ?, ?)
	`)
	if err != nil {
		return fmt.Errorf("failed to prepare statement: %w", err)
	}
	defer stmt.Close()

	now := time.Now().UTC()
	for _, t := range triplets {
		confidence := sql.NullFloat64{}
		if t.Confidence != nil {
			confidence = sql.NullFloat64{Float64: *t.Confidence, Valid: true}
		}

		if _, err := stmt.ExecContext(ctx,
			documentID,
			t.Subject,
			t.Relation,
			t.Object,
			t.Sentence,
			confidence,
			t.Level,
			now,
		); err != nil {
			return fmt.Errorf("failed to insert triplet %q: %w", t.Statement(), err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit transaction: %w", err)
	}
	return nil
}

// CountTriplets returns the number of stored rows for a document, or
// all rows when documentID is empty.
func (w *DuckDBWriter) CountTriplets(ctx context.Context, documentID string) (int, error) {
	var count int
	var err error
	if documentID == "" {
		err = w.db.QueryRowContext(ctx, "SELECT count(*) FROM triplets").Scan(&count)
	} else {
		err = w.db.QueryRowContext(ctx,
			"SELECT count(*) FROM triplets WHERE document_id = ?", documentID).Scan(&count)
	}
	if err != nil {
		return 0, fmt.Errorf("failed to count triplets: %w", err)
	}
	return count, nil
}

// Close closes the DuckDB connection.
func (w *DuckDBWriter) Close() error {
	if w.db != nil {
		return w.db.Close()
	}
	return nil
}
