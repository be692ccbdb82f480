package render

import (
	"archive/zip"
	"bytes"
	"context"
	"io"
	"os"
	"strings"
	"testing"

	"propgen/internal/proposal"
	"propgen/internal/section"
)

func testTree() []*section.Section {
	a := section.New("summary", "Summary", 1)
	b := section.New("approach", "Approach *bold*", 1)
	b.Add(section.New("methodology", "Methodology", 2))
	c := section.New("conclusion", "Conclusion", 1)
	tree := []*section.Section{a, b, c}
	section.Number(tree)
	return tree
}

func testContent() map[string]string {
	return map[string]string{
		"summary":     "An overview paragraph.\n- first point\n- second point",
		"approach":    "How we *work*.",
		"methodology": "Step by step.",
		"conclusion":  "The end.",
	}
}

func TestDocxRenderer_WritesValidPackage(t *testing.T) {
	dir := t.TempDir()
	r := &DocxRenderer{OutputDir: dir, Shaper: PassthroughShaper{}}

	in := Input{
		Tree:    testTree(),
		Content: testContent(),
		Req:     proposal.Request{CompanyName: "Acme Corp", Language: "en"},
		JobID:   "job123",
	}
	name, err := r.Render(context.Background(), in)
	if err != nil {
		t.Fatalf("render: %v", err)
	}
	if name != "proposal_Acme_Corp_job123.docx" {
		t.Errorf("unexpected filename: %q", name)
	}

	data, err := os.ReadFile(dir + "/" + name)
	if err != nil {
		t.Fatalf("read artifact: %v", err)
	}
	zr, err := zip.NewReader(bytes.NewReader(data), int64(len(data)))
	if err != nil {
		t.Fatalf("artifact is not a zip: %v", err)
	}

	parts := map[string]bool{}
	for _, f := range zr.File {
		parts[f.Name] = true
	}
	for _, want := range []string{"[Content_Types].xml", "word/document.xml", "word/styles.xml", "word/settings.xml", "word/footer1.xml"} {
		if !parts[want] {
			t.Errorf("missing package part %q", want)
		}
	}

	doc := readZipPart(t, zr, "word/document.xml")
	// Every section gets a bookmark and a matching TOC PAGEREF.
	for _, key := range []string{"summary", "approach", "methodology", "conclusion"} {
		if !strings.Contains(doc, `w:name="section_`+key+`"`) {
			t.Errorf("missing bookmark for %q", key)
		}
		if !strings.Contains(doc, "PAGEREF section_"+key) {
			t.Errorf("missing TOC page reference for %q", key)
		}
	}
	// Emphasis characters are stripped before emission.
	if strings.Contains(doc, "*") {
		t.Error("emphasis characters leaked into document body")
	}
	// Footer carries running page fields.
	footer := readZipPart(t, zr, "word/footer1.xml")
	if !strings.Contains(footer, "PAGE") || !strings.Contains(footer, "NUMPAGES") {
		t.Error("footer missing page number fields")
	}
}

func TestDocxRenderer_SelectionFilter(t *testing.T) {
	dir := t.TempDir()
	r := &DocxRenderer{OutputDir: dir, Shaper: PassthroughShaper{}}

	in := Input{
		Tree:    testTree(),
		Content: testContent(),
		Req: proposal.Request{
			CompanyName:      "Acme",
			SelectedSections: []string{"summary", "conclusion"},
		},
		JobID: "job456",
	}
	name, err := r.Render(context.Background(), in)
	if err != nil {
		t.Fatalf("render: %v", err)
	}

	doc := readArtifactPart(t, dir+"/"+name, "word/document.xml")
	if !strings.Contains(doc, `w:name="section_summary"`) || !strings.Contains(doc, `w:name="section_conclusion"`) {
		t.Error("selected sections missing")
	}
	if strings.Contains(doc, "section_approach") || strings.Contains(doc, "section_methodology") {
		t.Error("filtered sections leaked into document")
	}
}

func TestDocxRenderer_RTL(t *testing.T) {
	dir := t.TempDir()
	r := &DocxRenderer{OutputDir: dir, Shaper: PassthroughShaper{}}

	in := Input{
		Tree:    testTree(),
		Content: testContent(),
		Req:     proposal.Request{CompanyName: "Acme", Language: "ar"},
		JobID:   "jobar",
	}
	name, err := r.Render(context.Background(), in)
	if err != nil {
		t.Fatalf("render: %v", err)
	}

	doc := readArtifactPart(t, dir+"/"+name, "word/document.xml")
	if !strings.Contains(doc, "<w:bidi/>") {
		t.Error("expected document-level bidi flag")
	}
	// Mirrored TOC entry: title first, then dot-number.
	if !strings.Contains(doc, "Summary .1") {
		t.Error("expected mirrored TOC entry for RTL")
	}
}

func TestDocxRenderer_RTLWithoutShaperFails(t *testing.T) {
	r := &DocxRenderer{OutputDir: t.TempDir()}
	in := Input{
		Tree: testTree(),
		Req:  proposal.Request{CompanyName: "Acme", Language: "ar"},
	}
	if _, err := r.Render(context.Background(), in); err == nil {
		t.Error("expected error when rendering RTL without a shaper")
	}
}

func readZipPart(t *testing.T, zr *zip.Reader, name string) string {
	t.Helper()
	for _, f := range zr.File {
		if f.Name != name {
			continue
		}
		rc, err := f.Open()
		if err != nil {
			t.Fatalf("open %s: %v", name, err)
		}
		defer rc.Close()
		data, err := io.ReadAll(rc)
		if err != nil {
			t.Fatalf("read %s: %v", name, err)
		}
		return string(data)
	}
	t.Fatalf("part %s not found", name)
	return ""
}

func readArtifactPart(t *testing.T, path, part string) string {
	t.Helper()
	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("read artifact: %v", err)
	}
	zr, err := zip.NewReader(bytes.NewReader(data), int64(len(data)))
	if err != nil {
		t.Fatalf("open artifact: %v", err)
	}
	return readZipPart(t, zr, part)
}
