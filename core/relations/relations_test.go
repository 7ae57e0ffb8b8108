package relations

import (
	"errors"
	"testing"

	"github.com/talebmz/ayagraph/core/arabic"
	"github.com/talebmz/ayagraph/core/qerrors"
	"github.com/talebmz/ayagraph/core/quran"
)

func mustWord(t *testing.T, chapter, verse, position int, normalized, root, lemma string) quran.Word {
	t.Helper()
	w, err := quran.NewWord(chapter, verse, position, normalized, normalized, arabic.ToBuckwalter(normalized), root, lemma)
	if err != nil {
		t.Fatalf("NewWord: %v", err)
	}
	return w
}

func TestNewRelationValidation(t *testing.T) {
	w1 := mustWord(t, 1, 1, 1, "بسم", "", "")
	w2 := mustWord(t, 1, 1, 2, "الله", "", "")

	tests := []struct {
		name    string
		relType string
		weight  float64
		wantErr bool
	}{
		{"valid", TypeSharedRoot, 1.0, false},
		{"zero weight", TypeSharedLemma, 0, false},
		{"empty type", "", 0.5, true},
		{"negative weight", TypeSharedRoot, -0.1, true},
		{"weight above one", TypeSharedRoot, 1.1, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := NewRelation(w1, w2, tt.relType, tt.weight, nil)
			if tt.wantErr {
				if !errors.Is(err, qerrors.ErrGraph) {
					t.Errorf("error = %v, want ErrGraph", err)
				}
				return
			}
			if err != nil {
				t.Errorf("unexpected error: %v", err)
			}
		})
	}
}

func TestRelationInvolvesAndOther(t *testing.T) {
	w1 := mustWord(t, 1, 1, 1, "a", "", "")
	w2 := mustWord(t, 2, 3, 4, "b", "", "")
	w3 := mustWord(t, 5, 6, 7, "c", "", "")

	rel, err := NewRelation(w1, w2, TypeSharedRoot, 1.0, nil)
	if err != nil {
		t.Fatal(err)
	}

	if !rel.Involves(w1) || !rel.Involves(w2) {
		t.Error("relation should involve both endpoints")
	}
	if rel.Involves(w3) {
		t.Error("relation involves an unrelated word")
	}

	other, ok := rel.Other(w1)
	if !ok || !other.SameLocation(w2) {
		t.Errorf("Other(w1) = %v, %v; want w2", other, ok)
	}
	other, ok = rel.Other(w2)
	if !ok || !other.SameLocation(w1) {
		t.Errorf("Other(w2) = %v, %v; want w1", other, ok)
	}
	if _, ok := rel.Other(w3); ok {
		t.Error("Other on an unrelated word reported an endpoint")
	}
}

func TestBuildRootRelations(t *testing.T) {
	words := []quran.Word{
		mustWord(t, 1, 1, 1, "كتاب", "كتب", ""),
		mustWord(t, 2, 1, 1, "كاتب", "كتب", ""),
		mustWord(t, 3, 1, 1, "مكتوب", "كتب", ""),
		mustWord(t, 4, 1, 1, "قال", "قول", ""),
		mustWord(t, 5, 1, 1, "بسم", "", ""), // no root, must be skipped
	}

	b := NewRelationBuilder()
	if err := b.BuildRootRelations(words); err != nil {
		t.Fatal(err)
	}

	// Group of 3 yields 3 pairs; group of 1 and rootless words yield none.
	if b.Count() != 3 {
		t.Fatalf("Count = %d, want 3", b.Count())
	}
	for _, rel := range b.Relations() {
		if rel.Type != TypeSharedRoot {
			t.Errorf("Type = %q, want %q", rel.Type, TypeSharedRoot)
		}
		if rel.Weight != WeightRoot {
			t.Errorf("Weight = %v, want %v", rel.Weight, WeightRoot)
		}
		if rel.Metadata["root"] != "كتب" {
			t.Errorf("Metadata = %v, want root كتب", rel.Metadata)
		}
		if rel.Word1.SameLocation(rel.Word2) {
			t.Error("self-relation emitted")
		}
	}
}

func TestBuildLemmaRelations(t *testing.T) {
	words := []quran.Word{
		mustWord(t, 1, 1, 1, "قال", "", "قالَ"),
		mustWord(t, 2, 1, 1, "قالوا", "", "قالَ"),
		mustWord(t, 3, 1, 1, "كتاب", "", "كِتاب"),
	}

	b := NewRelationBuilder()
	if err := b.BuildLemmaRelations(words); err != nil {
		t.Fatal(err)
	}
	if b.Count() != 1 {
		t.Fatalf("Count = %d, want 1", b.Count())
	}
	rel := b.Relations()[0]
	if rel.Type != TypeSharedLemma || rel.Weight != WeightLemma {
		t.Errorf("relation = %v, want shared_lemma at %v", rel, WeightLemma)
	}
}

func TestBuildNormalizedRelations(t *testing.T) {
	words := []quran.Word{
		mustWord(t, 1, 1, 2, "الله", "", ""),
		mustWord(t, 1, 2, 2, "الله", "", ""),
		mustWord(t, 2, 1, 1, "الله", "", ""),
		mustWord(t, 1, 1, 1, "بسم", "", ""), // singleton form, no relations
	}

	b := NewRelationBuilder()
	if err := b.BuildNormalizedRelations(words); err != nil {
		t.Fatal(err)
	}

	if b.Count() != 3 {
		t.Fatalf("Count = %d, want 3", b.Count())
	}
	for _, rel := range b.Relations() {
		if rel.Weight != WeightNormalized {
			t.Errorf("Weight = %v, want %v", rel.Weight, WeightNormalized)
		}
		if rel.Metadata["normalized"] != "الله" {
			t.Errorf("Metadata = %v, want normalized الله", rel.Metadata)
		}
	}
}

func TestBuilderAccumulatesAcrossPasses(t *testing.T) {
	words := []quran.Word{
		mustWord(t, 1, 1, 1, "كتاب", "كتب", "كِتاب"),
		mustWord(t, 2, 1, 1, "كتاب", "كتب", "كِتاب"),
	}

	b := NewRelationBuilder()
	if err := b.BuildRootRelations(words); err != nil {
		t.Fatal(err)
	}
	if err := b.BuildLemmaRelations(words); err != nil {
		t.Fatal(err)
	}
	if err := b.BuildNormalizedRelations(words); err != nil {
		t.Fatal(err)
	}

	if b.Count() != 3 {
		t.Fatalf("Count = %d, want 3 (one per pass)", b.Count())
	}
	counts := b.CountByType()
	for _, relType := range []string{TypeSharedRoot, TypeSharedLemma, TypeSharedNormalized} {
		if counts[relType] != 1 {
			t.Errorf("CountByType[%s] = %d, want 1", relType, counts[relType])
		}
	}

	b.Clear()
	if b.Count() != 0 {
		t.Errorf("Count after Clear = %d, want 0", b.Count())
	}
}

func TestBuilderDeterministicOrder(t *testing.T) {
	words := []quran.Word{
		mustWord(t, 1, 1, 1, "a", "r1", ""),
		mustWord(t, 2, 1, 1, "b", "r2", ""),
		mustWord(t, 3, 1, 1, "c", "r1", ""),
		mustWord(t, 4, 1, 1, "d", "r2", ""),
	}

	var first []string
	for run := 0; run < 5; run++ {
		b := NewRelationBuilder()
		if err := b.BuildRootRelations(words); err != nil {
			t.Fatal(err)
		}
		var keys []string
		for _, rel := range b.Relations() {
			keys = append(keys, rel.Word1.Key()+"|"+rel.Word2.Key())
		}
		if run == 0 {
			first = keys
			continue
		}
		if len(keys) != len(first) {
			t.Fatalf("run %d emitted %d relations, want %d", run, len(keys), len(first))
		}
		for i := range keys {
			if keys[i] != first[i] {
				t.Fatalf("run %d relation %d = %s, want %s", run, i, keys[i], first[i])
			}
		}
	}
}

func TestAddRelationRejectsInvalid(t *testing.T) {
	b := NewRelationBuilder()
	w1 := mustWord(t, 1, 1, 1, "a", "", "")
	w2 := mustWord(t, 1, 1, 2, "b", "", "")

	if err := b.AddRelation(w1, w2, "", 0.5, nil); err == nil {
		t.Error("empty type accepted")
	}
	if b.Count() != 0 {
		t.Errorf("invalid relation was stored, Count = %d", b.Count())
	}
}
