package graph

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
)

// interchangeDoc is the attributed-graph interchange representation. Node
// role tags and edge relation labels plus all other edge properties survive
// a round trip; derived statistics do not travel and are rebuilt by scanning
// after a load.
type interchangeDoc struct {
	Directed bool              `json:"directed"`
	Nodes    []interchangeNode `json:"nodes"`
	Edges    []interchangeEdge `json:"edges"`
}

type interchangeNode struct {
	ID   string `json:"id"`
	Type string `json:"type"`
}

type interchangeEdge struct {
	Source     string         `json:"source"`
	Target     string         `json:"target"`
	Relation   string         `json:"relation"`
	Properties map[string]any `json:"properties,omitempty"`
}

// Encode writes the store as an attributed-graph interchange document.
func (s *Store) Encode(w io.Writer) error {
	doc := interchangeDoc{Directed: true}
	for _, name := range s.order {
		doc.Nodes = append(doc.Nodes, interchangeNode{
			ID:   name,
			Type: string(s.nodes[name].Role),
		})
	}
	for _, e := range s.edges {
		doc.Edges = append(doc.Edges, interchangeEdge{
			Source:     e.Source,
			Target:     e.Target,
			Relation:   e.Relation,
			Properties: e.Properties,
		})
	}

	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	if err := enc.Encode(doc); err != nil {
		return fmt.Errorf("encode graph: %w", err)
	}
	return nil
}

// Decode replaces the store contents with the interchange document read from
// r. Subject/object counts and the relation-type set are reconstructed by
// scanning the loaded nodes and edges, since the interchange format does not
// carry derived fields.
func (s *Store) Decode(r io.Reader) error {
	var doc interchangeDoc
	if err := json.NewDecoder(r).Decode(&doc); err != nil {
		return fmt.Errorf("decode graph: %w", err)
	}

	s.Clear()
	for _, n := range doc.Nodes {
		role := Role(n.Type)
		if role != RoleSubject && role != RoleObject {
			role = RoleSubject
		}
		s.ensureNode(n.ID, role)
	}
	for _, e := range doc.Edges {
		// Endpoints missing from the node list still become nodes so the
		// loaded graph is well formed.
		s.ensureNode(e.Source, RoleSubject)
		s.ensureNode(e.Target, RoleObject)
		props := make(Properties, len(e.Properties))
		for k, v := range e.Properties {
			props[k] = v
		}
		s.edges = append(s.edges, &Edge{
			Source:     e.Source,
			Target:     e.Target,
			Relation:   e.Relation,
			Properties: props,
		})
	}
	return nil
}

// SaveFile writes the interchange document to path.
func (s *Store) SaveFile(path string) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("save graph: %w", err)
	}
	defer f.Close()
	return s.Encode(f)
}

// LoadFile reads the interchange document at path into the store.
func (s *Store) LoadFile(path string) error {
	f, err := os.Open(path)
	if err != nil {
		return fmt.Errorf("load graph: %w", err)
	}
	defer f.Close()
	return s.Decode(f)
}
