// Package graph builds an undirected word graph from derived relations.
// Nodes are words keyed by location, edges carry the relation type and
// weight. The graph answers neighborhood, degree, and subgraph queries.
package graph

import (
	"fmt"

	"github.com/talebmz/ayagraph/core/qerrors"
	"github.com/talebmz/ayagraph/core/quran"
)

// Edge is one undirected connection between two graph nodes. Parallel
// edges are allowed: the same word pair may be connected once per relation
// type.
type Edge struct {
	Word1  quran.Word
	Word2  quran.Word
	Type   string
	Weight float64
}

// String renders the edge for diagnostics.
func (e Edge) String() string {
	return fmt.Sprintf("%s <-[%s %.2f]-> %s", e.Word1.Key(), e.Type, e.Weight, e.Word2.Key())
}

// WordGraph is an undirected multigraph over corpus words. Nodes are keyed
// by word location; edges keep insertion order. A WordGraph is not safe for
// concurrent mutation.
type WordGraph struct {
	nodes map[string]quran.Word
	edges []Edge
	// adjacency maps a node key to the indexes of its incident edges.
	adjacency map[string][]int
}

// NewWordGraph returns an empty graph.
func NewWordGraph() *WordGraph {
	return &WordGraph{
		nodes:     make(map[string]quran.Word),
		adjacency: make(map[string][]int),
	}
}

// AddNode inserts a word node. Re-adding an existing location is a no-op.
func (g *WordGraph) AddNode(w quran.Word) {
	key := w.Key()
	if _, ok := g.nodes[key]; ok {
		return
	}
	g.nodes[key] = w
}

// AddEdge connects two words, inserting missing endpoints first. Self
// edges are rejected.
func (g *WordGraph) AddEdge(word1, word2 quran.Word, edgeType string, weight float64) error {
	if word1.SameLocation(word2) {
		return qerrors.Graph(fmt.Errorf("self edge at %s", word1.Key()))
	}
	if edgeType == "" {
		return qerrors.Graph(fmt.Errorf("edge type must not be empty"))
	}
	if weight < 0 || weight > 1 {
		return qerrors.Graph(fmt.Errorf("edge weight %v out of range [0, 1]", weight))
	}

	g.AddNode(word1)
	g.AddNode(word2)

	idx := len(g.edges)
	g.edges = append(g.edges, Edge{Word1: word1, Word2: word2, Type: edgeType, Weight: weight})
	g.adjacency[word1.Key()] = append(g.adjacency[word1.Key()], idx)
	g.adjacency[word2.Key()] = append(g.adjacency[word2.Key()], idx)
	return nil
}

// HasNode reports whether a word location is present.
func (g *WordGraph) HasNode(w quran.Word) bool {
	_, ok := g.nodes[w.Key()]
	return ok
}

// Node returns the word stored at a location key.
func (g *WordGraph) Node(key string) (quran.Word, bool) {
	w, ok := g.nodes[key]
	return w, ok
}

// Nodes returns all words in the graph. Order is unspecified.
func (g *WordGraph) Nodes() []quran.Word {
	nodes := make([]quran.Word, 0, len(g.nodes))
	for _, w := range g.nodes {
		nodes = append(nodes, w)
	}
	return nodes
}

// Edges returns all edges in insertion order.
func (g *WordGraph) Edges() []Edge {
	return g.edges
}

// NodeCount returns the number of nodes.
func (g *WordGraph) NodeCount() int {
	return len(g.nodes)
}

// EdgeCount returns the number of edges, counting parallel edges.
func (g *WordGraph) EdgeCount() int {
	return len(g.edges)
}

// Degree returns the number of edges incident to a word. Parallel edges
// each contribute one. An unknown word has degree zero.
func (g *WordGraph) Degree(w quran.Word) int {
	return len(g.adjacency[w.Key()])
}

// EdgesFor returns the edges incident to a word, in insertion order.
func (g *WordGraph) EdgesFor(w quran.Word) []Edge {
	indexes := g.adjacency[w.Key()]
	if len(indexes) == 0 {
		return nil
	}
	edges := make([]Edge, 0, len(indexes))
	for _, idx := range indexes {
		edges = append(edges, g.edges[idx])
	}
	return edges
}

// Neighbors returns the distinct words adjacent to w, in first-connection
// order. A word connected through several parallel edges appears once.
func (g *WordGraph) Neighbors(w quran.Word) []quran.Word {
	key := w.Key()
	seen := make(map[string]bool)
	var neighbors []quran.Word
	for _, idx := range g.adjacency[key] {
		edge := g.edges[idx]
		other := edge.Word1
		if other.Key() == key {
			other = edge.Word2
		}
		if seen[other.Key()] {
			continue
		}
		seen[other.Key()] = true
		neighbors = append(neighbors, other)
	}
	return neighbors
}

// Subgraph extracts the induced subgraph over the given words: the listed
// nodes plus every edge whose endpoints are both listed. Unknown words are
// ignored.
func (g *WordGraph) Subgraph(words []quran.Word) *WordGraph {
	sub := NewWordGraph()
	wanted := make(map[string]bool, len(words))
	for _, w := range words {
		if stored, ok := g.nodes[w.Key()]; ok {
			sub.AddNode(stored)
			wanted[w.Key()] = true
		}
	}
	for _, edge := range g.edges {
		if wanted[edge.Word1.Key()] && wanted[edge.Word2.Key()] {
			// Endpoints already validated when the edge was first added.
			_ = sub.AddEdge(edge.Word1, edge.Word2, edge.Type, edge.Weight)
		}
	}
	return sub
}

// String renders a short summary of the graph.
func (g *WordGraph) String() string {
	return fmt.Sprintf("WordGraph(nodes=%d, edges=%d)", g.NodeCount(), g.EdgeCount())
}
