// Package section holds the hierarchical proposal outline: the unit of
// structure synthesis, content generation, and rendering.
package section

import (
	"fmt"
)

// Section is one node of the proposal table of contents. A node owns its
// subsections exclusively; the structure is a tree, never a graph.
type Section struct {
	Key                 string     `json:"key"`
	Title               string     `json:"title"`
	Level               int        `json:"level"`
	Number              string     `json:"number"`
	IsDynamic           bool       `json:"is_dynamic"`
	ContentRequirements []string   `json:"content_requirements"`
	Subsections         []*Section `json:"subsections"`
}

// New creates a section with the given key, title, and level.
func New(key, title string, level int, contentRequirements ...string) *Section {
	return &Section{
		Key:                 key,
		Title:               title,
		Level:               level,
		ContentRequirements: contentRequirements,
	}
}

// Add appends a subsection and returns the receiver for chaining.
func (s *Section) Add(sub *Section) *Section {
	s.Subsections = append(s.Subsections, sub)
	return s
}

// Walk visits every node depth-first in pre-order, siblings in order. All
// traversals in the system (numbering, flattening, rendering) go through
// this one function so they cannot disagree on order.
func Walk(sections []*Section, visit func(*Section)) {
	for _, sec := range sections {
		visit(sec)
		Walk(sec.Subsections, visit)
	}
}

// Number assigns hierarchical dotted numerals top-down, depth-first: a node's
// number is its parent's number plus "." plus its 1-based sibling index, or
// the bare index at the root. It must be re-run after any structural
// mutation; running it twice yields identical numbers.
func Number(sections []*Section) {
	number(sections, "")
}

func number(sections []*Section, parent string) {
	for i, sec := range sections {
		if parent != "" {
			sec.Number = fmt.Sprintf("%s.%d", parent, i+1)
		} else {
			sec.Number = fmt.Sprintf("%d", i+1)
		}
		number(sec.Subsections, sec.Number)
	}
}

// Flatten returns all nodes in depth-first pre-order.
func Flatten(sections []*Section) []*Section {
	var flat []*Section
	Walk(sections, func(s *Section) {
		flat = append(flat, s)
	})
	return flat
}

// Count returns the total number of nodes in the tree.
func Count(sections []*Section) int {
	n := 0
	Walk(sections, func(*Section) { n++ })
	return n
}

// DedupeKeys resolves duplicate keys by appending a numeric suffix to later
// occurrences ("pricing", "pricing_2", "pricing_3"). Keys are the join key
// between the content map and every renderer, so a collision would silently
// drop content.
func DedupeKeys(sections []*Section) {
	seen := make(map[string]bool)
	Walk(sections, func(s *Section) {
		if seen[s.Key] {
			base := s.Key
			for i := 2; ; i++ {
				candidate := fmt.Sprintf("%s_%d", base, i)
				if !seen[candidate] {
					s.Key = candidate
					break
				}
			}
		}
		seen[s.Key] = true
	})
}
