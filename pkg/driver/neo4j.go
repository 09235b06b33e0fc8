package driver

import (
	"context"
	"fmt"
	"log/slog"
	"strings"

	"github.com/neo4j/neo4j-go-driver/v5/neo4j"
	"github.com/soundprediction/go-kag/pkg/graph"
)

// Neo4jExporter implements GraphExporter on a Neo4j (or Bolt
// compatible) database.
type Neo4jExporter struct {
	driver   neo4j.DriverWithContext
	database string
	logger   *slog.Logger
}

// NewNeo4jExporter connects to the database at uri. database may be
// empty for the server default.
func NewNeo4jExporter(uri, username, password, database string, logger *slog.Logger) (*Neo4jExporter, error) {
	if logger == nil {
		logger = slog.Default()
	}

	d, err := neo4j.NewDriverWithContext(uri, neo4j.BasicAuth(username, password, ""))
	if err != nil {
		return nil, fmt.Errorf("creating neo4j driver: %w", err)
	}

	return &Neo4jExporter{driver: d, database: database, logger: logger}, nil
}

func (e *Neo4jExporter) session(ctx context.Context) neo4j.SessionWithContext {
	return e.driver.NewSession(ctx, neo4j.SessionConfig{DatabaseName: e.database})
}

func (e *Neo4jExporter) TestConnection(ctx context.Context) bool {
	if err := e.driver.VerifyConnectivity(ctx); err != nil {
		e.logger.Warn("neo4j connection check failed", "error", err)
		return false
	}
	return true
}

// ExportGraph merges one node per entity under label, carrying the
// entity's first-seen role, then creates one relationship per edge
// with the edge properties attached.
func (e *Neo4jExporter) ExportGraph(ctx context.Context, store *graph.Store, label string) bool {
	if !e.TestConnection(ctx) {
		return false
	}
	if label == "" {
		label = "Document"
	}

	session := e.session(ctx)
	defer session.Close(ctx)

	_, err := session.ExecuteWrite(ctx, func(tx neo4j.ManagedTransaction) (any, error) {
		nodeQuery := fmt.Sprintf("MERGE (n:%s {name: $name}) SET n.type = $role", escapeName(label))
		for _, node := range store.Nodes() {
			if _, err := tx.Run(ctx, nodeQuery, map[string]any{
				"name": node.Name,
				"role": string(node.Role),
			}); err != nil {
				return nil, err
			}
		}

		for _, edge := range store.Edges() {
			// Relationship types cannot be parameterized in Cypher.
			query := fmt.Sprintf(
				"MATCH (s:%s {name: $source}), (o:%s {name: $target}) CREATE (s)-[r:%s]->(o) SET r += $props",
				escapeName(label), escapeName(label), escapeName(edge.Relation))
			if _, err := tx.Run(ctx, query, map[string]any{
				"source": edge.Source,
				"target": edge.Target,
				"props":  map[string]any(edge.Properties),
			}); err != nil {
				return nil, err
			}
		}
		return nil, nil
	})
	if err != nil {
		e.logger.Warn("graph export failed", "label", label, "error", err)
		return false
	}

	e.logger.Info("graph exported",
		"label", label,
		"nodes", store.NodeCount(),
		"edges", store.EdgeCount())
	return true
}

// ImportGraph reads triplets back into a fresh store. Failures return
// an empty store.
func (e *Neo4jExporter) ImportGraph(ctx context.Context, query, label string) *graph.Store {
	store := graph.NewStore()
	if !e.TestConnection(ctx) {
		return store
	}

	if query == "" {
		if label != "" {
			query = fmt.Sprintf(
				"MATCH (s:%s)-[r]->(o:%s) RETURN s.name AS subject, type(r) AS relation, o.name AS object",
				escapeName(label), escapeName(label))
		} else {
			query = "MATCH (s)-[r]->(o) RETURN s.name AS subject, type(r) AS relation, o.name AS object"
		}
	}

	session := e.session(ctx)
	defer session.Close(ctx)

	_, err := session.ExecuteRead(ctx, func(tx neo4j.ManagedTransaction) (any, error) {
		result, err := tx.Run(ctx, query, nil)
		if err != nil {
			return nil, err
		}
		for result.Next(ctx) {
			record := result.Record()
			subject, sok := record.Get("subject")
			relation, rok := record.Get("relation")
			object, ook := record.Get("object")
			if !sok || !rok || !ook {
				continue
			}
			s, sok := subject.(string)
			r, rok := relation.(string)
			o, ook := object.(string)
			if !sok || !rok || !ook {
				continue
			}
			store.AddTriplet(s, r, o, nil)
		}
		return nil, result.Err()
	})
	if err != nil {
		e.logger.Warn("graph import failed", "error", err)
		return graph.NewStore()
	}

	return store
}

func (e *Neo4jExporter) ClearDatabase(ctx context.Context, confirm bool) bool {
	if !confirm {
		e.logger.Warn("clear database refused without confirmation")
		return false
	}
	if !e.TestConnection(ctx) {
		return false
	}

	session := e.session(ctx)
	defer session.Close(ctx)

	_, err := session.ExecuteWrite(ctx, func(tx neo4j.ManagedTransaction) (any, error) {
		return tx.Run(ctx, "MATCH (n) DETACH DELETE n", nil)
	})
	if err != nil {
		e.logger.Warn("clear database failed", "error", err)
		return false
	}
	return true
}

func (e *Neo4jExporter) Close(ctx context.Context) error {
	return e.driver.Close(ctx)
}

// escapeName quotes an identifier for interpolation into Cypher where
// parameters are not allowed (labels and relationship types).
func escapeName(name string) string {
	if name == "" {
		name = "RELATED_TO"
	}
	return "`" + strings.ReplaceAll(name, "`", "``") + "`"
}
