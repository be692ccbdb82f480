// Package outline turns raw extracted text into a normalized document
// outline: heading candidates with inferred nesting, requirement sentences,
// and a scope summary.
package outline

import (
	"regexp"
	"strings"
)

// Heading is a recognized heading candidate.
type Heading struct {
	Title       string `json:"title"`
	Level       int    `json:"level"`
	Key         string `json:"key"`
	Number      string `json:"number,omitempty"`
	ContentType string `json:"content_type"`
}

// Structure is the normalized outline of one or more source documents.
type Structure struct {
	Headings     []Heading `json:"sections"`
	Requirements []string  `json:"requirements"`
	Scope        string    `json:"scope"`
}

// Pattern families tried in priority order; first match wins.
var (
	numberedRe = regexp.MustCompile(`^(\d+(?:\.\d+)*)\.?\s+(.+)$`)
	letterRe   = regexp.MustCompile(`^([A-Z]\.\d+)\s+(.+)$`)
	namedRe    = regexp.MustCompile(`^((?:Chapter|Section)\s+\d+|Part\s+[IVX]+|Appendix\s+[A-Z])[\s\-:]+(.+)$`)
)

var requirementWords = []string{"must", "shall", "requirement", "mandatory", "essential", "required"}

var scopeWords = []string{"scope", "objective", "purpose", "goal", "deliverable"}

const maxScopeParts = 5

// Analyze scans text line by line and classifies headings, requirement
// sentences, and scope statements.
func Analyze(text string) Structure {
	var st Structure
	var scopeParts []string

	for _, line := range strings.Split(text, "\n") {
		line = strings.TrimSpace(line)
		if line == "" {
			continue
		}

		// A line recognized as a heading is only a heading: "REQUIREMENTS"
		// names a block, it is not itself a requirement sentence.
		if h, ok := identifyHeading(line); ok {
			st.Headings = append(st.Headings, h)
			continue
		}

		lower := strings.ToLower(line)
		if containsAny(lower, requirementWords) {
			st.Requirements = append(st.Requirements, line)
		}
		if containsAny(lower, scopeWords) && len(scopeParts) < maxScopeParts {
			scopeParts = append(scopeParts, line)
		}
	}

	st.Scope = strings.Join(scopeParts, " ")
	return st
}

// identifyHeading applies the pattern families in fixed priority order.
func identifyHeading(line string) (Heading, bool) {
	if m := numberedRe.FindStringSubmatch(line); m != nil {
		title := strings.TrimSpace(m[2])
		return Heading{
			Title:       title,
			Level:       levelFromNumber(m[1]),
			Key:         DeriveKey(title),
			Number:      m[1],
			ContentType: "heading",
		}, true
	}

	if isAllCapsHeading(line) {
		return Heading{
			Title:       line,
			Level:       1,
			Key:         DeriveKey(line),
			ContentType: "heading",
		}, true
	}

	if m := letterRe.FindStringSubmatch(line); m != nil {
		title := strings.TrimSpace(m[2])
		return Heading{
			Title:       title,
			Level:       1,
			Key:         DeriveKey(title),
			Number:      m[1],
			ContentType: "heading",
		}, true
	}

	if m := namedRe.FindStringSubmatch(line); m != nil {
		title := strings.TrimSpace(m[2])
		return Heading{
			Title:       title,
			Level:       1,
			Key:         DeriveKey(title),
			Number:      strings.TrimSpace(m[1]),
			ContentType: "heading",
		}, true
	}

	return Heading{}, false
}

// levelFromNumber maps a dotted numeral prefix to a nesting level:
// "2" -> 1, "2.1" -> 2, "2.1.3" -> 3, capped at 3.
func levelFromNumber(number string) int {
	dots := strings.Count(number, ".")
	if dots == 0 {
		return 1
	}
	level := dots + 1
	if level > 3 {
		level = 3
	}
	return level
}

// isAllCapsHeading recognizes short standalone ALL-CAPS lines that carry at
// least one letter and no digits among the first ten characters.
func isAllCapsHeading(line string) bool {
	if len(line) <= 5 || len(line) >= 100 {
		return false
	}
	if line != strings.ToUpper(line) || line == strings.ToLower(line) {
		return false
	}
	prefix := line
	if len(prefix) > 10 {
		prefix = prefix[:10]
	}
	for _, r := range prefix {
		if r >= '0' && r <= '9' {
			return false
		}
	}
	return true
}

var (
	keyStripRe    = regexp.MustCompile(`[^\pL\pN\s]`)
	keyCollapseRe = regexp.MustCompile(`\s+`)
)

// DeriveKey produces the stable slug used to correlate a section across
// generation, selection, and rendering. Pure and deterministic: lowercase,
// punctuation stripped, whitespace runs collapsed to single underscores,
// trimmed, truncated to 50 characters.
func DeriveKey(title string) string {
	key := strings.ToLower(title)
	key = keyStripRe.ReplaceAllString(key, "")
	key = keyCollapseRe.ReplaceAllString(strings.TrimSpace(key), "_")
	key = strings.Trim(key, "_")
	if len(key) > 50 {
		key = key[:50]
	}
	return key
}

// Merge folds another structure into this one, in source order. Used when a
// job carries multiple source files.
func (s *Structure) Merge(other Structure) {
	s.Headings = append(s.Headings, other.Headings...)
	s.Requirements = append(s.Requirements, other.Requirements...)
	if other.Scope != "" {
		if s.Scope != "" {
			s.Scope += " " + other.Scope
		} else {
			s.Scope = other.Scope
		}
	}
}

// AddHeading appends a heading built from an explicit style level, used by
// parsers that see paragraph style metadata instead of flattened text.
func (s *Structure) AddHeading(title string, level int) {
	s.Headings = append(s.Headings, Heading{
		Title:       title,
		Level:       level,
		Key:         DeriveKey(title),
		ContentType: "heading",
	})
}

// Classify runs the requirement and scope vocabularies over a single
// paragraph without heading detection. Used alongside AddHeading by
// style-aware parsers.
func (s *Structure) Classify(line string) {
	lower := strings.ToLower(line)
	if containsAny(lower, requirementWords) {
		s.Requirements = append(s.Requirements, line)
	}
	if containsAny(lower, scopeWords) && len(s.Scope) < 1000 {
		if s.Scope != "" {
			s.Scope += " " + line
		} else {
			s.Scope = line
		}
	}
}

func containsAny(s string, words []string) bool {
	for _, w := range words {
		if strings.Contains(s, w) {
			return true
		}
	}
	return false
}
