// Package graph provides an in-memory directed multigraph of entities and
// relations, built from extracted triplets. Entity identity is exact string
// equality of the surface form; there is no fuzzy merging. Parallel edges
// between the same ordered pair are always permitted.
package graph

import (
	"sort"
	"strings"

	"github.com/soundprediction/go-kag/pkg/types"
)

// Role tags how an entity was first referenced. It is assigned on first
// insertion and never changes, even if the entity later appears in the
// opposite position.
type Role string

const (
	RoleSubject Role = "subject"
	RoleObject  Role = "object"
)

// Node is a single entity in the store.
type Node struct {
	Name string
	Role Role
}

// Properties is the open property set attached to an edge.
type Properties map[string]any

// Edge is one directed relation between two entities. A store may hold any
// number of parallel edges for the same (Source, Target) pair.
type Edge struct {
	Source     string
	Target     string
	Relation   string
	Properties Properties
}

// Relation describes one edge found between two queried entities, tagged
// with its direction relative to the first entity. OtherNode is always the
// entity on the far end of the edge from the first query argument.
type Relation struct {
	Direction  string // "outgoing" or "incoming"
	OtherNode  string
	Relation   string
	Properties Properties
}

// Similarity holds the Jaccard comparison of two stores.
type Similarity struct {
	NodeSimilarity    float64 `json:"node_similarity"`
	EdgeSimilarity    float64 `json:"edge_similarity"`
	OverallSimilarity float64 `json:"overall_similarity"`
}

// Stats are derived statistics, recomputed from the live node and edge
// collections on every request so they can never drift after clears or
// bulk loads.
type Stats struct {
	NodeCount     int      `json:"node_count"`
	EdgeCount     int      `json:"edge_count"`
	SubjectCount  int      `json:"subject_count"`
	ObjectCount   int      `json:"object_count"`
	RelationTypes []string `json:"relation_types"`
}

// Store is the in-memory multigraph. It is not safe for concurrent mutation;
// callers needing shared access must serialize it themselves.
type Store struct {
	nodes map[string]*Node
	order []string // insertion order, for deterministic iteration
	edges []*Edge
}

// NewStore creates an empty store.
func NewStore() *Store {
	return &Store{nodes: make(map[string]*Node)}
}

// AddTriplet inserts the subject and object entities if they are new, tagging
// each with its first-seen role, and appends a new edge labeled with relation
// and carrying props. Duplicate (subject, object, relation) insertions create
// additional parallel edges. Empty strings are valid entity identifiers.
func (s *Store) AddTriplet(subject, relation, object string, props Properties) {
	s.ensureNode(subject, RoleSubject)
	s.ensureNode(object, RoleObject)

	edgeProps := make(Properties, len(props))
	for k, v := range props {
		edgeProps[k] = v
	}
	s.edges = append(s.edges, &Edge{
		Source:     subject,
		Target:     object,
		Relation:   relation,
		Properties: edgeProps,
	})
}

// AddTriplets materializes a batch of extracted triplets, storing sentence,
// confidence and level as edge properties.
func (s *Store) AddTriplets(triplets []types.Triplet) {
	for _, t := range triplets {
		props := Properties{"sentence": t.Sentence}
		if t.Confidence != nil {
			props["confidence"] = *t.Confidence
		}
		if t.Level > 0 {
			props["level"] = t.Level
		}
		s.AddTriplet(t.Subject, t.Relation, t.Object, props)
	}
}

func (s *Store) ensureNode(name string, role Role) {
	if _, ok := s.nodes[name]; ok {
		return
	}
	s.nodes[name] = &Node{Name: name, Role: role}
	s.order = append(s.order, name)
}

// HasNode reports whether an entity exists in the store.
func (s *Store) HasNode(name string) bool {
	_, ok := s.nodes[name]
	return ok
}

// Nodes returns all entities in insertion order.
func (s *Store) Nodes() []Node {
	out := make([]Node, 0, len(s.order))
	for _, name := range s.order {
		out = append(out, *s.nodes[name])
	}
	return out
}

// Edges returns a copy of the edge list in insertion order.
func (s *Store) Edges() []Edge {
	out := make([]Edge, 0, len(s.edges))
	for _, e := range s.edges {
		out = append(out, *e)
	}
	return out
}

// NodeCount returns the number of distinct entities.
func (s *Store) NodeCount() int { return len(s.nodes) }

// EdgeCount returns the number of edges, counting parallels.
func (s *Store) EdgeCount() int { return len(s.edges) }

// Stats recomputes derived statistics by scanning the live collections.
func (s *Store) Stats() Stats {
	st := Stats{
		NodeCount: len(s.nodes),
		EdgeCount: len(s.edges),
	}
	for _, name := range s.order {
		switch s.nodes[name].Role {
		case RoleSubject:
			st.SubjectCount++
		case RoleObject:
			st.ObjectCount++
		}
	}
	seen := make(map[string]struct{})
	for _, e := range s.edges {
		if _, ok := seen[e.Relation]; !ok {
			seen[e.Relation] = struct{}{}
			st.RelationTypes = append(st.RelationTypes, e.Relation)
		}
	}
	sort.Strings(st.RelationTypes)
	return st
}

// SubgraphAround returns the induced subgraph over the set reached by
// expanding the frontier distance times across both in- and out-edges.
// distance 0 yields the singleton node with no edges; an unknown entity
// yields an empty store.
func (s *Store) SubgraphAround(entity string, distance int) *Store {
	sub := NewStore()
	node, ok := s.nodes[entity]
	if !ok {
		return sub
	}
	if distance <= 0 {
		sub.nodes[entity] = &Node{Name: node.Name, Role: node.Role}
		sub.order = append(sub.order, entity)
		return sub
	}

	include := map[string]struct{}{entity: {}}
	for i := 0; i < distance; i++ {
		next := make(map[string]struct{})
		for _, e := range s.edges {
			if _, ok := include[e.Source]; ok {
				next[e.Target] = struct{}{}
			}
			if _, ok := include[e.Target]; ok {
				next[e.Source] = struct{}{}
			}
		}
		for n := range next {
			include[n] = struct{}{}
		}
	}

	for _, name := range s.order {
		if _, ok := include[name]; ok {
			n := s.nodes[name]
			sub.nodes[name] = &Node{Name: n.Name, Role: n.Role}
			sub.order = append(sub.order, name)
		}
	}
	for _, e := range s.edges {
		_, srcOK := include[e.Source]
		_, dstOK := include[e.Target]
		if srcOK && dstOK {
			props := make(Properties, len(e.Properties))
			for k, v := range e.Properties {
				props[k] = v
			}
			sub.edges = append(sub.edges, &Edge{
				Source:     e.Source,
				Target:     e.Target,
				Relation:   e.Relation,
				Properties: props,
			})
		}
	}
	return sub
}

// SearchByLabel returns all entity names containing the query as a
// case-insensitive substring, in insertion order.
func (s *Store) SearchByLabel(query string) []string {
	q := strings.ToLower(query)
	var matches []string
	for _, name := range s.order {
		if strings.Contains(strings.ToLower(name), q) {
			matches = append(matches, name)
		}
	}
	return matches
}

// RelationsBetween returns every edge a->b tagged "outgoing" and every edge
// b->a tagged "incoming", each carrying its full property set. Unknown
// entities yield an empty list.
func (s *Store) RelationsBetween(a, b string) []Relation {
	var relations []Relation
	if !s.HasNode(a) || !s.HasNode(b) {
		return relations
	}
	for _, e := range s.edges {
		switch {
		case e.Source == a && e.Target == b:
			relations = append(relations, newRelation("outgoing", b, e))
		case e.Source == b && e.Target == a:
			relations = append(relations, newRelation("incoming", b, e))
		}
	}
	return relations
}

func newRelation(direction, other string, e *Edge) Relation {
	props := make(Properties, len(e.Properties))
	for k, v := range e.Properties {
		props[k] = v
	}
	return Relation{
		Direction:  direction,
		OtherNode:  other,
		Relation:   e.Relation,
		Properties: props,
	}
}

// CompareTo computes the Jaccard similarity of the two stores' node-name
// sets and their (source, target, relation) triple sets, plus the mean of
// the two. Comparing two empty stores yields zeros.
func (s *Store) CompareTo(other *Store) Similarity {
	nodes1 := make(map[string]struct{}, len(s.nodes))
	for name := range s.nodes {
		nodes1[name] = struct{}{}
	}
	nodes2 := make(map[string]struct{}, len(other.nodes))
	for name := range other.nodes {
		nodes2[name] = struct{}{}
	}

	type tripleKey struct{ src, dst, rel string }
	edges1 := make(map[tripleKey]struct{}, len(s.edges))
	for _, e := range s.edges {
		edges1[tripleKey{e.Source, e.Target, e.Relation}] = struct{}{}
	}
	edges2 := make(map[tripleKey]struct{}, len(other.edges))
	for _, e := range other.edges {
		edges2[tripleKey{e.Source, e.Target, e.Relation}] = struct{}{}
	}

	nodeSim := jaccard(intersectCount(nodes1, nodes2), len(nodes1), len(nodes2))
	edgeSim := jaccard(intersectCount(edges1, edges2), len(edges1), len(edges2))

	return Similarity{
		NodeSimilarity:    nodeSim,
		EdgeSimilarity:    edgeSim,
		OverallSimilarity: (nodeSim + edgeSim) / 2,
	}
}

func intersectCount[K comparable](a, b map[K]struct{}) int {
	n := 0
	for k := range a {
		if _, ok := b[k]; ok {
			n++
		}
	}
	return n
}

func jaccard(intersection, sizeA, sizeB int) float64 {
	union := sizeA + sizeB - intersection
	if union == 0 {
		return 0
	}
	return float64(intersection) / float64(union)
}

// Clear removes all entities and relations. Derived statistics computed
// afterwards are empty/zero.
func (s *Store) Clear() {
	s.nodes = make(map[string]*Node)
	s.order = nil
	s.edges = nil
}
