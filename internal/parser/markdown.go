package parser

import (
	"io"
	"strings"

	"github.com/yuin/goldmark"
	"github.com/yuin/goldmark/ast"
	gmtext "github.com/yuin/goldmark/text"

	"propgen/internal/outline"
)

// MarkdownParser handles Markdown files using goldmark. Heading nodes in the
// AST set outline levels directly, like docx paragraph styles.
type MarkdownParser struct{}

func (p *MarkdownParser) Parse(r io.Reader, filename string) (*Document, error) {
	src, err := io.ReadAll(r)
	if err != nil {
		return nil, err
	}

	md := goldmark.New()
	reader := gmtext.NewReader(src)
	doc := md.Parser().Parse(reader)

	var st outline.Structure
	for n := doc.FirstChild(); n != nil; n = n.NextSibling() {
		heading, ok := n.(*ast.Heading)
		if !ok {
			continue
		}
		title := strings.TrimSpace(string(heading.Text(src)))
		if title == "" {
			continue
		}
		level := heading.Level
		if level > 3 {
			level = 3
		}
		st.AddHeading(title, level)
	}

	text := string(src)
	for _, line := range strings.Split(text, "\n") {
		line = strings.TrimSpace(line)
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}
		st.Classify(line)
	}

	return &Document{Text: text, Outline: st}, nil
}
