package render

// TextShaper prepares right-to-left text for engines that cannot shape
// Arabic themselves. Shape must be idempotent: shaping already shaped text
// returns it unchanged.
type TextShaper interface {
	Shape(s string) string
}

// PassthroughShaper returns text untouched. Useful where the consuming
// application (Word, a browser) performs its own bidi shaping.
type PassthroughShaper struct{}

func (PassthroughShaper) Shape(s string) string { return s }
