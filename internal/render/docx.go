package render

import (
	"archive/zip"
	"bytes"
	"context"
	"encoding/xml"
	"fmt"
	"strings"
	"time"

	"propgen/internal/proposal"
	"propgen/internal/section"
)

// DocxRenderer emits a Word document with a title page, a field-driven table
// of contents, bookmarked section headings, and a Page-X-of-Y footer. The
// OOXML parts are written directly into the package zip.
type DocxRenderer struct {
	OutputDir string
	Logos     *LogoResolver
	Shaper    TextShaper
}

func (r *DocxRenderer) Render(ctx context.Context, in Input) (string, error) {
	lang := normLang(in.Req.Language)
	rtl := lang == "ar"
	if rtl && r.Shaper == nil {
		return "", fmt.Errorf("docx: right-to-left output requires a text shaper")
	}

	var logoHeader, logoFooter []byte
	if r.Logos != nil {
		logoHeader = r.Logos.Resolve(ctx, in.Req.LogoTopLeft)
		logoFooter = r.Logos.Resolve(ctx, in.Req.LogoBottomRight)
	}

	b := &docxBuilder{lang: lang, rtl: rtl, shaper: r.Shaper}
	b.titlePage(in.Req.CompanyName)
	b.tableOfContents(in.Tree, in.Req, 0)
	b.pageBreak()
	b.renderSections(in.Tree, in.Content, in.Req, true)

	pkg, err := buildDocxPackage(b.body.String(), rtl, lang, logoHeader, logoFooter)
	if err != nil {
		return "", err
	}

	filename := fmt.Sprintf("proposal_%s_%s.docx", companySlug(in.Req.CompanyName), in.JobID)
	return writeArtifact(r.OutputDir, filename, pkg)
}

// docxBuilder accumulates document.xml body paragraphs.
type docxBuilder struct {
	body       strings.Builder
	lang       string
	rtl        bool
	shaper     TextShaper
	bookmarkID int
}

func (b *docxBuilder) shape(s string) string {
	if b.rtl && b.shaper != nil {
		return b.shaper.Shape(s)
	}
	return s
}

func xmlEscape(s string) string {
	var buf bytes.Buffer
	xml.EscapeText(&buf, []byte(s))
	return buf.String()
}

func (b *docxBuilder) bodyAlign() string {
	if b.rtl {
		return "right"
	}
	return "left"
}

func (b *docxBuilder) runProps() string {
	if b.rtl {
		return `<w:rPr><w:rtl/></w:rPr>`
	}
	return ""
}

func (b *docxBuilder) openPara(align, style string) {
	b.body.WriteString(`<w:p><w:pPr>`)
	if style != "" {
		fmt.Fprintf(&b.body, `<w:pStyle w:val="%s"/>`, style)
	}
	if align != "" {
		fmt.Fprintf(&b.body, `<w:jc w:val="%s"/>`, align)
	}
	if b.rtl {
		b.body.WriteString(`<w:bidi/>`)
	}
	b.body.WriteString(`</w:pPr>`)
}

func (b *docxBuilder) closePara() {
	b.body.WriteString(`</w:p>`)
}

func (b *docxBuilder) para(align, style, text string) {
	b.openPara(align, style)
	b.writeTextRun(text)
	b.closePara()
}

func (b *docxBuilder) writeTextRun(text string) {
	fmt.Fprintf(&b.body, `<w:r>%s<w:t xml:space="preserve">%s</w:t></w:r>`,
		b.runProps(), xmlEscape(b.shape(text)))
}

// writeField emits a complete field run: begin, instruction, separator,
// default text, end. Word replaces the default on field update.
func (b *docxBuilder) writeField(instr, placeholder string) {
	fmt.Fprintf(&b.body,
		`<w:r><w:fldChar w:fldCharType="begin"/></w:r>`+
			`<w:r><w:instrText xml:space="preserve">%s</w:instrText></w:r>`+
			`<w:r><w:fldChar w:fldCharType="separate"/></w:r>`+
			`<w:r><w:t>%s</w:t></w:r>`+
			`<w:r><w:fldChar w:fldCharType="end"/></w:r>`,
		xmlEscape(instr), xmlEscape(placeholder))
}

func (b *docxBuilder) pageBreak() {
	b.body.WriteString(`<w:p><w:r><w:br w:type="page"/></w:r></w:p>`)
}

func (b *docxBuilder) titlePage(companyName string) {
	align := "center"
	if b.rtl {
		align = "right"
	}
	b.para(align, "Title", translate(b.lang, "technical_proposal"))
	b.para(align, "Subtitle", translate(b.lang, "prepared_for")+" "+companyName)
	b.para("", "", "")
	b.para(align, "", time.Now().Format("January 2006"))
	b.pageBreak()
}

// tableOfContents emits one entry per selected node. Entries carry a PAGEREF
// field pointing at the section bookmark; RTL entries mirror to
// "<title> .<number>" with no field.
func (b *docxBuilder) tableOfContents(tree []*section.Section, req proposal.Request, depth int) {
	if depth == 0 {
		b.para(b.bodyAlign(), "Heading1", translate(b.lang, "table_of_contents"))
	}
	for _, sec := range tree {
		if !req.Includes(sec.Key) {
			continue
		}
		clean := StripEmphasis(sec.Title)
		if b.rtl {
			b.para("right", "", clean+" ."+sec.Number)
		} else {
			b.openPara("left", "")
			indent := strings.Repeat("    ", depth)
			b.writeTextRun(fmt.Sprintf("%s%s. %s", indent, sec.Number, clean))
			b.body.WriteString(`<w:r><w:tab/></w:r>`)
			b.writeField(fmt.Sprintf(` PAGEREF %s \h `, bookmarkName(sec.Key)), "1")
			b.closePara()
		}
		if len(sec.Subsections) > 0 {
			b.tableOfContents(sec.Subsections, req, depth+1)
		}
	}
}

func bookmarkName(key string) string {
	return "section_" + key
}

// renderSections walks the tree emitting bookmarked headings and bodies.
// A hard page break follows every top-level node except the last.
func (b *docxBuilder) renderSections(tree []*section.Section, content map[string]string, req proposal.Request, topLevel bool) {
	for i, sec := range tree {
		if !req.Includes(sec.Key) {
			continue
		}

		level := sec.Level
		if level > 4 {
			level = 4
		}
		clean := StripEmphasis(sec.Title)

		b.openPara(b.bodyAlign(), fmt.Sprintf("Heading%d", level))
		b.bookmarkID++
		fmt.Fprintf(&b.body, `<w:bookmarkStart w:id="%d" w:name="%s"/>`, b.bookmarkID, bookmarkName(sec.Key))
		b.writeTextRun(fmt.Sprintf("%s. %s", sec.Number, clean))
		fmt.Fprintf(&b.body, `<w:bookmarkEnd w:id="%d"/>`, b.bookmarkID)
		b.closePara()

		if body := content[sec.Key]; body != "" {
			b.renderBody(body)
		}
		b.para("", "", "")

		if len(sec.Subsections) > 0 {
			b.renderSections(sec.Subsections, content, req, false)
		}

		if topLevel && sec.Level == 1 && i != len(tree)-1 {
			b.pageBreak()
		}
	}
}

func (b *docxBuilder) renderBody(body string) {
	align := "both"
	if b.rtl {
		align = "right"
	}
	for _, line := range strings.Split(StripEmphasis(body), "\n") {
		line = strings.TrimSpace(line)
		if line == "" {
			continue
		}
		if strings.HasPrefix(line, "- ") || strings.HasPrefix(line, "• ") {
			b.openPara(align, "ListBullet")
			b.writeTextRun(strings.TrimSpace(line[strings.IndexByte(line, ' '):]))
			b.closePara()
			continue
		}
		b.para(align, "", line)
	}
}

// buildDocxPackage assembles the OOXML zip around the accumulated body XML.
func buildDocxPackage(bodyXML string, rtl bool, lang string, logoHeader, logoFooter []byte) ([]byte, error) {
	var buf bytes.Buffer
	zw := zip.NewWriter(&buf)

	write := func(name, data string) error {
		w, err := zw.Create(name)
		if err != nil {
			return err
		}
		_, err = w.Write([]byte(data))
		return err
	}
	writeBytes := func(name string, data []byte) error {
		w, err := zw.Create(name)
		if err != nil {
			return err
		}
		_, err = w.Write(data)
		return err
	}

	headerExt, footerExt := imageExt(logoHeader), imageExt(logoFooter)

	contentTypes := `<?xml version="1.0" encoding="UTF-8" standalone="yes"?>
<Types xmlns="http://schemas.openxmlformats.org/package/2006/content-types">
<Default Extension="rels" ContentType="application/vnd.openxmlformats-package.relationships+xml"/>
<Default Extension="xml" ContentType="application/xml"/>
<Default Extension="png" ContentType="image/png"/>
<Default Extension="jpeg" ContentType="image/jpeg"/>
<Override PartName="/word/document.xml" ContentType="application/vnd.openxmlformats-officedocument.wordprocessingml.document.main+xml"/>
<Override PartName="/word/styles.xml" ContentType="application/vnd.openxmlformats-officedocument.wordprocessingml.styles+xml"/>
<Override PartName="/word/settings.xml" ContentType="application/vnd.openxmlformats-officedocument.wordprocessingml.settings+xml"/>
<Override PartName="/word/header1.xml" ContentType="application/vnd.openxmlformats-officedocument.wordprocessingml.header+xml"/>
<Override PartName="/word/footer1.xml" ContentType="application/vnd.openxmlformats-officedocument.wordprocessingml.footer+xml"/>
</Types>`
	if err := write("[Content_Types].xml", contentTypes); err != nil {
		return nil, err
	}

	if err := write("_rels/.rels", `<?xml version="1.0" encoding="UTF-8" standalone="yes"?>
<Relationships xmlns="http://schemas.openxmlformats.org/package/2006/relationships">
<Relationship Id="rId1" Type="http://schemas.openxmlformats.org/officeDocument/2006/relationships/officeDocument" Target="word/document.xml"/>
</Relationships>`); err != nil {
		return nil, err
	}

	if err := write("word/_rels/document.xml.rels", `<?xml version="1.0" encoding="UTF-8" standalone="yes"?>
<Relationships xmlns="http://schemas.openxmlformats.org/package/2006/relationships">
<Relationship Id="rId1" Type="http://schemas.openxmlformats.org/officeDocument/2006/relationships/styles" Target="styles.xml"/>
<Relationship Id="rId2" Type="http://schemas.openxmlformats.org/officeDocument/2006/relationships/settings" Target="settings.xml"/>
<Relationship Id="rId3" Type="http://schemas.openxmlformats.org/officeDocument/2006/relationships/header" Target="header1.xml"/>
<Relationship Id="rId4" Type="http://schemas.openxmlformats.org/officeDocument/2006/relationships/footer" Target="footer1.xml"/>
</Relationships>`); err != nil {
		return nil, err
	}

	if err := write("word/styles.xml", docxStyles); err != nil {
		return nil, err
	}

	// updateFields makes Word recompute PAGEREF and NUMPAGES on open.
	if err := write("word/settings.xml", `<?xml version="1.0" encoding="UTF-8" standalone="yes"?>
<w:settings xmlns:w="http://schemas.openxmlformats.org/wordprocessingml/2006/main">
<w:updateFields w:val="true"/>
</w:settings>`); err != nil {
		return nil, err
	}

	headerXML := `<?xml version="1.0" encoding="UTF-8" standalone="yes"?>
<w:hdr ` + docxNamespaces + `>`
	if logoHeader != nil {
		headerXML += `<w:p><w:pPr><w:jc w:val="left"/></w:pPr><w:r>` + drawingXML("rId1", 1) + `</w:r></w:p>`
		if err := write("word/_rels/header1.xml.rels", imageRels("media/logo_header."+headerExt)); err != nil {
			return nil, err
		}
		if err := writeBytes("word/media/logo_header."+headerExt, logoHeader); err != nil {
			return nil, err
		}
	} else {
		headerXML += `<w:p/>`
	}
	headerXML += `</w:hdr>`
	if err := write("word/header1.xml", headerXML); err != nil {
		return nil, err
	}

	footerXML := `<?xml version="1.0" encoding="UTF-8" standalone="yes"?>
<w:ftr ` + docxNamespaces + `>` + footerParagraph(lang, logoFooter != nil)
	if logoFooter != nil {
		if err := write("word/_rels/footer1.xml.rels", imageRels("media/logo_footer."+footerExt)); err != nil {
			return nil, err
		}
		if err := writeBytes("word/media/logo_footer."+footerExt, logoFooter); err != nil {
			return nil, err
		}
	}
	footerXML += `</w:ftr>`
	if err := write("word/footer1.xml", footerXML); err != nil {
		return nil, err
	}

	var bidi string
	if rtl {
		bidi = `<w:bidi/>`
	}
	documentXML := `<?xml version="1.0" encoding="UTF-8" standalone="yes"?>
<w:document ` + docxNamespaces + `>
<w:body>` + bodyXML + `<w:sectPr>
<w:headerReference w:type="default" r:id="rId3"/>
<w:footerReference w:type="default" r:id="rId4"/>
<w:pgSz w:w="11906" w:h="16838"/>
<w:pgMar w:top="1440" w:right="1440" w:bottom="1440" w:left="1440" w:header="720" w:footer="720"/>
` + bidi + `</w:sectPr>
</w:body>
</w:document>`
	if err := write("word/document.xml", documentXML); err != nil {
		return nil, err
	}

	if err := zw.Close(); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

const docxNamespaces = `xmlns:w="http://schemas.openxmlformats.org/wordprocessingml/2006/main" ` +
	`xmlns:r="http://schemas.openxmlformats.org/officeDocument/2006/relationships" ` +
	`xmlns:wp="http://schemas.openxmlformats.org/drawingml/2006/wordprocessingDrawing" ` +
	`xmlns:a="http://schemas.openxmlformats.org/drawingml/2006/main" ` +
	`xmlns:pic="http://schemas.openxmlformats.org/drawingml/2006/picture"`

// footerParagraph builds the "Page X of Y" footer, with an optional
// right-aligned logo paragraph after it.
func footerParagraph(lang string, withLogo bool) string {
	page := translate(lang, "page")
	of := translate(lang, "of")
	footer := `<w:p><w:pPr><w:jc w:val="center"/></w:pPr>` +
		`<w:r><w:t xml:space="preserve">` + xmlEscape(page) + ` </w:t></w:r>` +
		footerField("PAGE") +
		`<w:r><w:t xml:space="preserve"> ` + xmlEscape(of) + ` </w:t></w:r>` +
		footerField("NUMPAGES") +
		`</w:p>`
	if withLogo {
		footer += `<w:p><w:pPr><w:jc w:val="right"/></w:pPr><w:r>` + drawingXML("rId1", 2) + `</w:r></w:p>`
	}
	return footer
}

func footerField(instr string) string {
	return `<w:r><w:fldChar w:fldCharType="begin"/></w:r>` +
		`<w:r><w:instrText xml:space="preserve">` + instr + `</w:instrText></w:r>` +
		`<w:r><w:fldChar w:fldCharType="separate"/></w:r>` +
		`<w:r><w:t>?</w:t></w:r>` +
		`<w:r><w:fldChar w:fldCharType="end"/></w:r>`
}

func imageRels(target string) string {
	return `<?xml version="1.0" encoding="UTF-8" standalone="yes"?>
<Relationships xmlns="http://schemas.openxmlformats.org/package/2006/relationships">
<Relationship Id="rId1" Type="http://schemas.openxmlformats.org/officeDocument/2006/relationships/image" Target="` + target + `"/>
</Relationships>`
}

// drawingXML emits an inline picture at 0.75 inch square (685800 EMU).
func drawingXML(relID string, docPrID int) string {
	return fmt.Sprintf(`<w:drawing><wp:inline distT="0" distB="0" distL="0" distR="0">`+
		`<wp:extent cx="685800" cy="685800"/>`+
		`<wp:docPr id="%d" name="Logo%d"/>`+
		`<a:graphic><a:graphicData uri="http://schemas.openxmlformats.org/drawingml/2006/picture">`+
		`<pic:pic>`+
		`<pic:nvPicPr><pic:cNvPr id="%d" name="Logo%d"/><pic:cNvPicPr/></pic:nvPicPr>`+
		`<pic:blipFill><a:blip r:embed="%s"/><a:stretch><a:fillRect/></a:stretch></pic:blipFill>`+
		`<pic:spPr><a:xfrm><a:off x="0" y="0"/><a:ext cx="685800" cy="685800"/></a:xfrm>`+
		`<a:prstGeom prst="rect"><a:avLst/></a:prstGeom></pic:spPr>`+
		`</pic:pic></a:graphicData></a:graphic></wp:inline></w:drawing>`,
		docPrID, docPrID, docPrID, docPrID, relID)
}

// imageExt sniffs the image type from magic bytes; png is the default.
func imageExt(data []byte) string {
	if len(data) >= 3 && data[0] == 0xFF && data[1] == 0xD8 && data[2] == 0xFF {
		return "jpeg"
	}
	return "png"
}

const docxStyles = `<?xml version="1.0" encoding="UTF-8" standalone="yes"?>
<w:styles xmlns:w="http://schemas.openxmlformats.org/wordprocessingml/2006/main">
<w:style w:type="paragraph" w:styleId="Title">
<w:name w:val="Title"/>
<w:pPr><w:spacing w:after="240"/></w:pPr>
<w:rPr><w:rFonts w:ascii="Arial" w:hAnsi="Arial"/><w:b/><w:sz w:val="56"/><w:color w:val="003366"/></w:rPr>
</w:style>
<w:style w:type="paragraph" w:styleId="Subtitle">
<w:name w:val="Subtitle"/>
<w:pPr><w:spacing w:after="200"/></w:pPr>
<w:rPr><w:rFonts w:ascii="Arial" w:hAnsi="Arial"/><w:b/><w:sz w:val="32"/></w:rPr>
</w:style>
<w:style w:type="paragraph" w:styleId="Heading1">
<w:name w:val="heading 1"/>
<w:pPr><w:spacing w:before="240" w:after="120"/><w:outlineLvl w:val="0"/></w:pPr>
<w:rPr><w:rFonts w:ascii="Arial" w:hAnsi="Arial"/><w:b/><w:sz w:val="36"/><w:color w:val="003366"/></w:rPr>
</w:style>
<w:style w:type="paragraph" w:styleId="Heading2">
<w:name w:val="heading 2"/>
<w:pPr><w:spacing w:before="200" w:after="100"/><w:outlineLvl w:val="1"/></w:pPr>
<w:rPr><w:rFonts w:ascii="Arial" w:hAnsi="Arial"/><w:b/><w:sz w:val="32"/><w:color w:val="003366"/></w:rPr>
</w:style>
<w:style w:type="paragraph" w:styleId="Heading3">
<w:name w:val="heading 3"/>
<w:pPr><w:spacing w:before="160" w:after="80"/><w:outlineLvl w:val="2"/></w:pPr>
<w:rPr><w:rFonts w:ascii="Arial" w:hAnsi="Arial"/><w:b/><w:sz w:val="28"/><w:color w:val="003366"/></w:rPr>
</w:style>
<w:style w:type="paragraph" w:styleId="Heading4">
<w:name w:val="heading 4"/>
<w:pPr><w:spacing w:before="120" w:after="60"/><w:outlineLvl w:val="3"/></w:pPr>
<w:rPr><w:rFonts w:ascii="Arial" w:hAnsi="Arial"/><w:b/><w:sz w:val="24"/><w:color w:val="003366"/></w:rPr>
</w:style>
<w:style w:type="paragraph" w:styleId="ListBullet">
<w:name w:val="List Bullet"/>
<w:pPr><w:ind w:left="720"/><w:spacing w:after="120"/></w:pPr>
</w:style>
</w:styles>`
