package parser

import (
	"errors"
	"strings"
	"testing"
)

func TestTextParser_OutlineExtraction(t *testing.T) {
	input := "PROJECT OVERVIEW\nThe vendor must deliver monthly reports.\nThe scope of work covers data migration.\nJust a plain sentence.\n"
	p := &TextParser{}
	doc, err := p.Parse(strings.NewReader(input), "rfp.txt")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if doc.Text != input {
		t.Error("text should be preserved verbatim")
	}
	if len(doc.Outline.Headings) != 1 {
		t.Fatalf("expected 1 heading, got %d", len(doc.Outline.Headings))
	}
	if doc.Outline.Headings[0].Key != "project_overview" {
		t.Errorf("unexpected heading key: %q", doc.Outline.Headings[0].Key)
	}
	if len(doc.Outline.Requirements) != 1 {
		t.Fatalf("expected 1 requirement, got %v", doc.Outline.Requirements)
	}
	if !strings.Contains(doc.Outline.Scope, "scope of work") {
		t.Errorf("unexpected scope: %q", doc.Outline.Scope)
	}
}

func TestMarkdownParser_HeadingLevels(t *testing.T) {
	input := "# Introduction\n\nSome intro text.\n\n## Goals\n\nThe system shall scale.\n\n#### Deep Detail\n"
	p := &MarkdownParser{}
	doc, err := p.Parse(strings.NewReader(input), "rfp.md")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if len(doc.Outline.Headings) != 3 {
		t.Fatalf("expected 3 headings, got %d", len(doc.Outline.Headings))
	}
	levels := []int{1, 2, 3}
	titles := []string{"Introduction", "Goals", "Deep Detail"}
	for i, h := range doc.Outline.Headings {
		if h.Title != titles[i] || h.Level != levels[i] {
			t.Errorf("heading[%d]: expected %q level %d, got %q level %d", i, titles[i], levels[i], h.Title, h.Level)
		}
	}
	if len(doc.Outline.Requirements) != 1 {
		t.Errorf("expected 1 requirement, got %v", doc.Outline.Requirements)
	}
}

func TestHTMLParser_HeadingsAndClassification(t *testing.T) {
	input := `<html><head><script>var x = "mandatory";</script></head><body>
<nav><p>must-skip navigation</p></nav>
<h1>Tender Notice</h1>
<h2>Requirements</h2>
<p>Responses must arrive by Friday.</p>
<p>Project scope includes training.</p>
</body></html>`
	p := &HTMLParser{}
	doc, err := p.Parse(strings.NewReader(input), "rfp.html")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if len(doc.Outline.Headings) != 2 {
		t.Fatalf("expected 2 headings, got %v", doc.Outline.Headings)
	}
	if doc.Outline.Headings[0].Title != "Tender Notice" || doc.Outline.Headings[0].Level != 1 {
		t.Errorf("unexpected first heading: %+v", doc.Outline.Headings[0])
	}
	if doc.Outline.Headings[1].Level != 2 {
		t.Errorf("h2 should map to level 2, got %d", doc.Outline.Headings[1].Level)
	}
	// Script and nav content never reaches classification.
	if len(doc.Outline.Requirements) != 1 {
		t.Fatalf("expected 1 requirement, got %v", doc.Outline.Requirements)
	}
	if !strings.Contains(doc.Outline.Scope, "scope includes training") {
		t.Errorf("unexpected scope: %q", doc.Outline.Scope)
	}
}

func TestImageParser_PlaceholderWithoutOCR(t *testing.T) {
	p := &ImageParser{}
	doc, err := p.Parse(strings.NewReader("binary"), "scan.png")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !strings.Contains(doc.Text, "scan.png") {
		t.Errorf("placeholder should name the file, got %q", doc.Text)
	}
}

func TestImageParser_WithOCR(t *testing.T) {
	p := &ImageParser{OCR: func(data []byte) (string, error) {
		return "SCANNED HEADING\nThe printer must be replaced.", nil
	}}
	doc, err := p.Parse(strings.NewReader("binary"), "scan.jpg")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(doc.Outline.Headings) != 1 || len(doc.Outline.Requirements) != 1 {
		t.Errorf("OCR text should be analyzed, got %+v", doc.Outline)
	}
}

func TestForFile(t *testing.T) {
	for _, filename := range []string{"a.pdf", "a.docx", "a.txt", "a.MD", "a.htm", "a.jpeg"} {
		p, err := ForFile(filename)
		if err != nil {
			t.Errorf("ForFile(%q): unexpected error: %v", filename, err)
			continue
		}
		if p == nil {
			t.Errorf("ForFile(%q): nil parser", filename)
		}
	}

	if _, err := ForFile("a.exe"); !errors.Is(err, ErrUnsupportedFormat) {
		t.Errorf("expected ErrUnsupportedFormat, got %v", err)
	}
}

func TestIsSupportedExtension(t *testing.T) {
	if !IsSupportedExtension("report.PDF") {
		t.Error("extension check should be case-insensitive")
	}
	if IsSupportedExtension("report.exe") {
		t.Error("exe should not be supported")
	}
	if IsSupportedExtension("noextension") {
		t.Error("missing extension should not be supported")
	}
}
