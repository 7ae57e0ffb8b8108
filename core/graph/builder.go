package graph

import (
	"fmt"

	"github.com/talebmz/ayagraph/core/quran"
	"github.com/talebmz/ayagraph/core/relations"
	"github.com/talebmz/ayagraph/internal/logging"
)

// GraphBuilder assembles a WordGraph from relations or directly from a
// word list.
type GraphBuilder struct{}

// NewGraphBuilder returns a builder.
func NewGraphBuilder() *GraphBuilder {
	return &GraphBuilder{}
}

// BuildFromRelations turns each relation into one edge. Duplicate
// relations yield parallel edges; no deduplication happens here.
func (gb *GraphBuilder) BuildFromRelations(rels []relations.Relation) (*WordGraph, error) {
	g := NewWordGraph()
	for i, rel := range rels {
		if err := g.AddEdge(rel.Word1, rel.Word2, rel.Type, rel.Weight); err != nil {
			return nil, fmt.Errorf("relation %d: %w", i, err)
		}
	}
	logging.GraphEvent("constructed", g.NodeCount(), g.EdgeCount())
	return g, nil
}

// BuildFromWords derives relations from the word list and builds the graph
// in one step. Each flag enables one derivation pass.
func (gb *GraphBuilder) BuildFromWords(words []quran.Word, useRoots, useLemmas, useNormalized bool) (*WordGraph, error) {
	b := relations.NewRelationBuilder()
	if useRoots {
		if err := b.BuildRootRelations(words); err != nil {
			return nil, err
		}
	}
	if useLemmas {
		if err := b.BuildLemmaRelations(words); err != nil {
			return nil, err
		}
	}
	if useNormalized {
		if err := b.BuildNormalizedRelations(words); err != nil {
			return nil, err
		}
	}
	return gb.BuildFromRelations(b.Relations())
}

// ConnectedComponents partitions the graph into its connected components
// and returns those with at least minSize nodes, largest first. Node order
// within a component follows discovery order from the component's first
// edge insertion.
func ConnectedComponents(g *WordGraph, minSize int) [][]quran.Word {
	visited := make(map[string]bool, g.NodeCount())
	var components [][]quran.Word

	// Walk nodes in edge-insertion order first so component discovery is
	// deterministic, then sweep isolated nodes.
	var order []quran.Word
	seen := make(map[string]bool, g.NodeCount())
	for _, edge := range g.edges {
		for _, w := range []quran.Word{edge.Word1, edge.Word2} {
			if !seen[w.Key()] {
				seen[w.Key()] = true
				order = append(order, w)
			}
		}
	}
	for _, w := range g.Nodes() {
		if !seen[w.Key()] {
			order = append(order, w)
		}
	}

	for _, start := range order {
		if visited[start.Key()] {
			continue
		}
		var component []quran.Word
		queue := []quran.Word{start}
		visited[start.Key()] = true
		for len(queue) > 0 {
			w := queue[0]
			queue = queue[1:]
			component = append(component, w)
			for _, n := range g.Neighbors(w) {
				if !visited[n.Key()] {
					visited[n.Key()] = true
					queue = append(queue, n)
				}
			}
		}
		if len(component) >= minSize {
			components = append(components, component)
		}
	}

	// Stable sort by size, largest first.
	for i := 1; i < len(components); i++ {
		for j := i; j > 0 && len(components[j]) > len(components[j-1]); j-- {
			components[j], components[j-1] = components[j-1], components[j]
		}
	}
	return components
}

// GroupByRoot buckets words by their morphological root, skipping words
// without one. Keys follow first-seen order in the returned slice.
func GroupByRoot(words []quran.Word) (map[string][]quran.Word, []string) {
	groups := make(map[string][]quran.Word)
	var order []string
	for _, w := range words {
		if !w.HasRoot() {
			continue
		}
		if _, seen := groups[w.Root]; !seen {
			order = append(order, w.Root)
		}
		groups[w.Root] = append(groups[w.Root], w)
	}
	return groups, order
}
