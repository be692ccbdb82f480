package render

import (
	"context"
	"strings"
	"testing"

	"github.com/xuri/excelize/v2"

	"propgen/internal/proposal"
)

func TestXlsxRenderer_SheetsAndTOC(t *testing.T) {
	dir := t.TempDir()
	r := &XlsxRenderer{OutputDir: dir}

	in := Input{
		Tree:    testTree(),
		Content: testContent(),
		Req:     proposal.Request{CompanyName: "Acme Corp", Language: "en"},
		JobID:   "jobx",
	}
	name, err := r.Render(context.Background(), in)
	if err != nil {
		t.Fatalf("render: %v", err)
	}
	if name != "proposal_Acme_Corp_jobx.xlsx" {
		t.Errorf("unexpected filename: %q", name)
	}

	f, err := excelize.OpenFile(dir + "/" + name)
	if err != nil {
		t.Fatalf("open workbook: %v", err)
	}
	defer f.Close()

	sheets := f.GetSheetList()
	if len(sheets) != 2 || sheets[0] != xlsxTOCSheet || sheets[1] != xlsxContentSheet {
		t.Fatalf("unexpected sheets: %v", sheets)
	}

	// TOC entries carry number-dot-title and link into the content sheet.
	v, err := f.GetCellValue(xlsxTOCSheet, "A3")
	if err != nil {
		t.Fatalf("read toc cell: %v", err)
	}
	if v != "1. Summary" {
		t.Errorf("expected first TOC entry %q, got %q", "1. Summary", v)
	}
	hasLink, target, err := f.GetCellHyperLink(xlsxTOCSheet, "A3")
	if err != nil {
		t.Fatalf("read toc hyperlink: %v", err)
	}
	if !hasLink || !strings.Contains(target, xlsxContentSheet) {
		t.Errorf("expected hyperlink into content sheet, got %v %q", hasLink, target)
	}

	// Subsection entries are indented beneath their parent.
	v, _ = f.GetCellValue(xlsxTOCSheet, "A5")
	if v != "    2.1 Methodology" {
		t.Errorf("expected indented subsection entry, got %q", v)
	}

	// Content sheet heading matches the TOC numbering, emphasis stripped.
	v, _ = f.GetCellValue(xlsxContentSheet, "A3")
	if v != "1. Summary" {
		t.Errorf("expected content heading %q, got %q", "1. Summary", v)
	}
	if strings.Contains(mustCell(t, f, xlsxContentSheet, "A7"), "*") {
		t.Error("emphasis characters leaked into spreadsheet")
	}
}

func TestXlsxRenderer_SelectionFilter(t *testing.T) {
	dir := t.TempDir()
	r := &XlsxRenderer{OutputDir: dir}

	in := Input{
		Tree:    testTree(),
		Content: testContent(),
		Req: proposal.Request{
			CompanyName:      "Acme",
			SelectedSections: []string{"approach", "methodology"},
		},
		JobID: "joby",
	}
	name, err := r.Render(context.Background(), in)
	if err != nil {
		t.Fatalf("render: %v", err)
	}

	f, err := excelize.OpenFile(dir + "/" + name)
	if err != nil {
		t.Fatalf("open workbook: %v", err)
	}
	defer f.Close()

	rows, err := f.GetRows(xlsxContentSheet)
	if err != nil {
		t.Fatalf("read rows: %v", err)
	}
	joined := ""
	for _, row := range rows {
		joined += strings.Join(row, " ") + "\n"
	}
	if !strings.Contains(joined, "Approach") || !strings.Contains(joined, "Methodology") {
		t.Error("selected sections missing from content sheet")
	}
	if strings.Contains(joined, "1. Summary") || strings.Contains(joined, "Conclusion") {
		t.Error("filtered sections leaked into content sheet")
	}
}

func mustCell(t *testing.T, f *excelize.File, sheet, cell string) string {
	t.Helper()
	v, err := f.GetCellValue(sheet, cell)
	if err != nil {
		t.Fatalf("read %s!%s: %v", sheet, cell, err)
	}
	return v
}
