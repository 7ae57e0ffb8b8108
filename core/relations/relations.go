// Package relations derives typed, weighted pairwise relations between
// corpus words. Relations are the edge material for the word graph: two
// words relate when they share a morphological root, a lemma, or a
// normalized surface form.
package relations

import (
	"fmt"

	"github.com/talebmz/ayagraph/core/qerrors"
	"github.com/talebmz/ayagraph/core/quran"
)

// Relation types and their default weights. Root sharing is the strongest
// signal, normalized-surface sharing is close behind, lemma sharing is the
// weakest.
const (
	TypeSharedRoot       = "shared_root"
	TypeSharedLemma      = "shared_lemma"
	TypeSharedNormalized = "shared_normalized"

	WeightRoot       = 1.0
	WeightLemma      = 0.5
	WeightNormalized = 0.8
)

// Relation is one typed, weighted connection between two words. Word order
// within a relation carries no meaning.
type Relation struct {
	Word1    quran.Word
	Word2    quran.Word
	Type     string
	Weight   float64
	Metadata map[string]string
}

// NewRelation validates and constructs a relation. Weight must lie in
// [0, 1] and the type must be non-empty.
func NewRelation(word1, word2 quran.Word, relType string, weight float64, metadata map[string]string) (Relation, error) {
	if relType == "" {
		return Relation{}, qerrors.Graphf("relation type must not be empty")
	}
	if weight < 0 || weight > 1 {
		return Relation{}, qerrors.Graphf("relation weight %v out of range [0, 1]", weight)
	}
	return Relation{Word1: word1, Word2: word2, Type: relType, Weight: weight, Metadata: metadata}, nil
}

// Involves reports whether the relation touches the given word location.
func (r Relation) Involves(w quran.Word) bool {
	return r.Word1.SameLocation(w) || r.Word2.SameLocation(w)
}

// Other returns the relation endpoint that is not the given word. The
// boolean is false when the word is not an endpoint at all.
func (r Relation) Other(w quran.Word) (quran.Word, bool) {
	switch {
	case r.Word1.SameLocation(w):
		return r.Word2, true
	case r.Word2.SameLocation(w):
		return r.Word1, true
	default:
		return quran.Word{}, false
	}
}

// String renders the relation for diagnostics.
func (r Relation) String() string {
	return fmt.Sprintf("%s <-[%s %.2f]-> %s", r.Word1.Key(), r.Type, r.Weight, r.Word2.Key())
}

// RelationBuilder accumulates relations across multiple derivation passes.
// Builders are not safe for concurrent use.
type RelationBuilder struct {
	relations []Relation
}

// NewRelationBuilder returns an empty builder.
func NewRelationBuilder() *RelationBuilder {
	return &RelationBuilder{}
}

// AddRelation validates and appends one relation.
func (b *RelationBuilder) AddRelation(word1, word2 quran.Word, relType string, weight float64, metadata map[string]string) error {
	rel, err := NewRelation(word1, word2, relType, weight, metadata)
	if err != nil {
		return err
	}
	b.relations = append(b.relations, rel)
	return nil
}

// BuildRootRelations pairs up every two words sharing a non-empty root.
// Each group of n sharing words yields n*(n-1)/2 relations, so the pass is
// quadratic in the largest group size.
func (b *RelationBuilder) BuildRootRelations(words []quran.Word) error {
	return b.buildGrouped(words, TypeSharedRoot, WeightRoot, 2,
		func(w quran.Word) string {
			if !w.HasRoot() {
				return ""
			}
			return w.Root
		},
		func(key string) map[string]string {
			return map[string]string{"root": key}
		})
}

// BuildLemmaRelations pairs up every two words sharing a non-empty lemma.
func (b *RelationBuilder) BuildLemmaRelations(words []quran.Word) error {
	return b.buildGrouped(words, TypeSharedLemma, WeightLemma, 2,
		func(w quran.Word) string {
			if !w.HasLemma() {
				return ""
			}
			return w.Lemma
		},
		func(key string) map[string]string {
			return map[string]string{"lemma": key}
		})
}

// BuildNormalizedRelations pairs up words sharing a normalized surface
// form. A form that occurs only once produces no relations.
func (b *RelationBuilder) BuildNormalizedRelations(words []quran.Word) error {
	return b.buildGrouped(words, TypeSharedNormalized, WeightNormalized, 2,
		func(w quran.Word) string { return w.Normalized },
		func(key string) map[string]string {
			return map[string]string{"normalized": key}
		})
}

// buildGrouped groups words by a key and emits all pairwise relations
// within each group of at least minGroup members. Words producing an empty
// key are skipped. Group iteration follows first-seen key order so output
// is deterministic.
func (b *RelationBuilder) buildGrouped(
	words []quran.Word,
	relType string,
	weight float64,
	minGroup int,
	keyOf func(quran.Word) string,
	metaOf func(key string) map[string]string,
) error {
	groups := make(map[string][]quran.Word)
	var order []string
	for _, w := range words {
		key := keyOf(w)
		if key == "" {
			continue
		}
		if _, seen := groups[key]; !seen {
			order = append(order, key)
		}
		groups[key] = append(groups[key], w)
	}

	for _, key := range order {
		group := groups[key]
		if len(group) < minGroup {
			continue
		}
		for i := 0; i < len(group); i++ {
			for j := i + 1; j < len(group); j++ {
				if err := b.AddRelation(group[i], group[j], relType, weight, metaOf(key)); err != nil {
					return fmt.Errorf("building %s relations: %w", relType, err)
				}
			}
		}
	}
	return nil
}

// Relations returns the accumulated relations in insertion order.
func (b *RelationBuilder) Relations() []Relation {
	return b.relations
}

// Count returns the number of accumulated relations.
func (b *RelationBuilder) Count() int {
	return len(b.relations)
}

// CountByType tallies relations per type.
func (b *RelationBuilder) CountByType() map[string]int {
	counts := make(map[string]int)
	for _, r := range b.relations {
		counts[r.Type]++
	}
	return counts
}

// Clear discards all accumulated relations.
func (b *RelationBuilder) Clear() {
	b.relations = nil
}
