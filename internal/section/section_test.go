package section

import (
	"reflect"
	"testing"
)

func sampleTree() []*Section {
	a := New("alpha", "Alpha", 1)
	a.Add(New("alpha_one", "Alpha One", 2))
	a.Add(New("alpha_two", "Alpha Two", 2))
	b := New("beta", "Beta", 1)
	return []*Section{a, b}
}

func TestNumber(t *testing.T) {
	tree := sampleTree()
	Number(tree)

	if tree[0].Number != "1" {
		t.Errorf("expected number 1, got %q", tree[0].Number)
	}
	if tree[0].Subsections[0].Number != "1.1" {
		t.Errorf("expected number 1.1, got %q", tree[0].Subsections[0].Number)
	}
	if tree[0].Subsections[1].Number != "1.2" {
		t.Errorf("expected number 1.2, got %q", tree[0].Subsections[1].Number)
	}
	if tree[1].Number != "2" {
		t.Errorf("expected number 2, got %q", tree[1].Number)
	}
}

func TestNumber_Idempotent(t *testing.T) {
	tree := sampleTree()
	Number(tree)

	var first []string
	Walk(tree, func(s *Section) { first = append(first, s.Number) })

	Number(tree)
	var second []string
	Walk(tree, func(s *Section) { second = append(second, s.Number) })

	if !reflect.DeepEqual(first, second) {
		t.Errorf("numbering not idempotent: %v vs %v", first, second)
	}
}

func TestFlatten_PreOrder(t *testing.T) {
	tree := sampleTree()
	var keys []string
	for _, s := range Flatten(tree) {
		keys = append(keys, s.Key)
	}
	want := []string{"alpha", "alpha_one", "alpha_two", "beta"}
	if !reflect.DeepEqual(keys, want) {
		t.Errorf("expected %v, got %v", want, keys)
	}
}

func TestCount(t *testing.T) {
	if got := Count(sampleTree()); got != 4 {
		t.Errorf("expected 4 nodes, got %d", got)
	}
}

func TestDedupeKeys(t *testing.T) {
	tree := []*Section{
		New("pricing", "Pricing", 1),
		New("pricing", "Pricing Again", 1),
		New("pricing", "Pricing Thrice", 1),
	}
	DedupeKeys(tree)

	want := []string{"pricing", "pricing_2", "pricing_3"}
	for i, s := range tree {
		if s.Key != want[i] {
			t.Errorf("key %d: expected %q, got %q", i, want[i], s.Key)
		}
	}
}

func TestDedupeKeys_SuffixCollision(t *testing.T) {
	// A generated key may already look like a suffixed one.
	tree := []*Section{
		New("pricing", "Pricing", 1),
		New("pricing_2", "Pricing Model", 1),
		New("pricing", "Pricing Again", 1),
	}
	DedupeKeys(tree)

	if tree[2].Key != "pricing_3" {
		t.Errorf("expected pricing_3, got %q", tree[2].Key)
	}
}
