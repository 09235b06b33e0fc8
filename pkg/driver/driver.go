// Package driver exports knowledge graphs to external graph databases
// and imports them back.
package driver

import (
	"context"

	"github.com/soundprediction/go-kag/pkg/graph"
)

// GraphExporter moves graphs between the in-memory store and an
// external graph database. Export and maintenance operations report
// success as a bool: connectivity and query failures degrade to false
// (or an empty store on import) rather than propagating errors, so a
// missing database never aborts a processing run.
type GraphExporter interface {
	// TestConnection reports whether the database is reachable.
	TestConnection(ctx context.Context) bool

	// ExportGraph writes every node and edge of the store under the
	// given node label.
	ExportGraph(ctx context.Context, store *graph.Store, label string) bool

	// ImportGraph rebuilds a store from the database. A non-empty
	// query runs as is and must return subject, relation and object
	// columns; otherwise label selects which nodes to read, and an
	// empty label reads everything.
	ImportGraph(ctx context.Context, query, label string) *graph.Store

	// ClearDatabase deletes all nodes and relationships. It refuses
	// to run unless confirm is true.
	ClearDatabase(ctx context.Context, confirm bool) bool

	Close(ctx context.Context) error
}
