package render

import (
	"context"
	"fmt"
	"strings"

	"github.com/xuri/excelize/v2"

	"propgen/internal/section"
)

const (
	xlsxTOCSheet     = "Table of Contents"
	xlsxContentSheet = "Proposal"
)

// XlsxRenderer emits a spreadsheet with a hyperlinked table of contents
// sheet and a content sheet holding every selected section.
type XlsxRenderer struct {
	OutputDir string
}

func (r *XlsxRenderer) Render(ctx context.Context, in Input) (string, error) {
	lang := normLang(in.Req.Language)
	f := excelize.NewFile()
	defer f.Close()

	if _, err := f.NewSheet(xlsxTOCSheet); err != nil {
		return "", fmt.Errorf("xlsx: create toc sheet: %w", err)
	}
	if _, err := f.NewSheet(xlsxContentSheet); err != nil {
		return "", fmt.Errorf("xlsx: create content sheet: %w", err)
	}
	if err := f.DeleteSheet("Sheet1"); err != nil {
		return "", fmt.Errorf("xlsx: drop default sheet: %w", err)
	}

	titleStyle, err := f.NewStyle(&excelize.Style{
		Font:      &excelize.Font{Bold: true, Size: 16, Color: "FFFFFF"},
		Fill:      excelize.Fill{Type: "pattern", Color: []string{"003366"}, Pattern: 1},
		Alignment: &excelize.Alignment{Horizontal: "center", Vertical: "center"},
	})
	if err != nil {
		return "", fmt.Errorf("xlsx: title style: %w", err)
	}
	headingStyle, err := f.NewStyle(&excelize.Style{
		Font: &excelize.Font{Bold: true, Color: "FFFFFF"},
		Fill: excelize.Fill{Type: "pattern", Color: []string{"336699"}, Pattern: 1},
	})
	if err != nil {
		return "", fmt.Errorf("xlsx: heading style: %w", err)
	}
	bodyStyle, err := f.NewStyle(&excelize.Style{
		Alignment: &excelize.Alignment{WrapText: true, Vertical: "top"},
	})
	if err != nil {
		return "", fmt.Errorf("xlsx: body style: %w", err)
	}

	var selected []*section.Section
	for _, sec := range section.Flatten(in.Tree) {
		if in.Req.Includes(sec.Key) {
			selected = append(selected, sec)
		}
	}

	// Content sheet first: record where each heading lands so the TOC can
	// hyperlink to it.
	headingRow := make(map[string]int, len(selected))

	if err := f.MergeCell(xlsxContentSheet, "A1", "B1"); err != nil {
		return "", fmt.Errorf("xlsx: merge title: %w", err)
	}
	title := fmt.Sprintf("%s - %s", translate(lang, "technical_proposal"), in.Req.CompanyName)
	if err := f.SetCellValue(xlsxContentSheet, "A1", title); err != nil {
		return "", fmt.Errorf("xlsx: write title: %w", err)
	}
	if err := f.SetCellStyle(xlsxContentSheet, "A1", "B1", titleStyle); err != nil {
		return "", fmt.Errorf("xlsx: style title: %w", err)
	}

	row := 3
	for _, sec := range selected {
		headingRow[sec.Key] = row
		headingCell := fmt.Sprintf("A%d", row)
		heading := fmt.Sprintf("%s. %s", sec.Number, StripEmphasis(sec.Title))
		if err := f.SetCellValue(xlsxContentSheet, headingCell, heading); err != nil {
			return "", fmt.Errorf("xlsx: write heading: %w", err)
		}
		if err := f.SetCellStyle(xlsxContentSheet, headingCell, fmt.Sprintf("B%d", row), headingStyle); err != nil {
			return "", fmt.Errorf("xlsx: style heading: %w", err)
		}
		row++

		if body := in.Content[sec.Key]; body != "" {
			bodyCell := fmt.Sprintf("A%d", row)
			if err := f.SetCellValue(xlsxContentSheet, bodyCell, StripEmphasis(body)); err != nil {
				return "", fmt.Errorf("xlsx: write body: %w", err)
			}
			if err := f.SetCellStyle(xlsxContentSheet, bodyCell, bodyCell, bodyStyle); err != nil {
				return "", fmt.Errorf("xlsx: style body: %w", err)
			}
			row++
		}
		row++
	}

	if err := f.MergeCell(xlsxTOCSheet, "A1", "B1"); err != nil {
		return "", fmt.Errorf("xlsx: merge toc title: %w", err)
	}
	if err := f.SetCellValue(xlsxTOCSheet, "A1", translate(lang, "table_of_contents")); err != nil {
		return "", fmt.Errorf("xlsx: write toc title: %w", err)
	}
	if err := f.SetCellStyle(xlsxTOCSheet, "A1", "B1", titleStyle); err != nil {
		return "", fmt.Errorf("xlsx: style toc title: %w", err)
	}

	tocRow := 3
	for _, sec := range selected {
		cell := fmt.Sprintf("A%d", tocRow)
		indent := strings.Repeat("    ", sec.Level-1)
		var entry string
		if lang == "ar" {
			entry = fmt.Sprintf("%s .%s", StripEmphasis(sec.Title), sec.Number)
		} else {
			entry = fmt.Sprintf("%s%s. %s", indent, sec.Number, StripEmphasis(sec.Title))
		}
		if err := f.SetCellValue(xlsxTOCSheet, cell, entry); err != nil {
			return "", fmt.Errorf("xlsx: write toc entry: %w", err)
		}
		target := fmt.Sprintf("'%s'!A%d", xlsxContentSheet, headingRow[sec.Key])
		if err := f.SetCellHyperLink(xlsxTOCSheet, cell, target, "Location"); err != nil {
			return "", fmt.Errorf("xlsx: toc hyperlink: %w", err)
		}
		tocRow++
	}

	for _, sheet := range []string{xlsxTOCSheet, xlsxContentSheet} {
		if err := f.SetColWidth(sheet, "A", "A", 90); err != nil {
			return "", fmt.Errorf("xlsx: column width: %w", err)
		}
		if lang == "ar" {
			rtl := true
			if err := f.SetSheetView(sheet, 0, &excelize.ViewOptions{RightToLeft: &rtl}); err != nil {
				return "", fmt.Errorf("xlsx: rtl view: %w", err)
			}
		}
	}

	if idx, err := f.GetSheetIndex(xlsxTOCSheet); err == nil {
		f.SetActiveSheet(idx)
	}

	out, err := f.WriteToBuffer()
	if err != nil {
		return "", fmt.Errorf("xlsx: serialize: %w", err)
	}

	filename := fmt.Sprintf("proposal_%s_%s.xlsx", companySlug(in.Req.CompanyName), in.JobID)
	return writeArtifact(r.OutputDir, filename, out.Bytes())
}
