package services

import (
	"archive/zip"
	"bytes"
	"encoding/xml"
	"fmt"
	"strings"
	"time"

	"github.com/nguyenthenguyen/docx"

	"alfredoptarigan/jobfit-analyzer/internal/models"
)

type ExportFormat string

const (
	FormatDocx     ExportFormat = "docx"
	FormatMarkdown ExportFormat = "md"
)

const (
	reportTitle  = "JobFit Analyzer - Resume Analysis Report"
	reportFooter = "Resume Expert - Making Job Applications Easier"
	bodyMarker   = "{{REPORT_BODY}}"
)

// ParseExportFormat maps a query value to a format. Blank means docx.
func ParseExportFormat(value string) (ExportFormat, error) {
	switch strings.ToLower(strings.TrimSpace(value)) {
	case "", "docx", "word":
		return FormatDocx, nil
	case "md", "markdown":
		return FormatMarkdown, nil
	default:
		return "", fmt.Errorf("unsupported export format: %s", value)
	}
}

func (f ExportFormat) ContentType() string {
	if f == FormatMarkdown {
		return "text/markdown; charset=utf-8"
	}
	return "application/vnd.openxmlformats-officedocument.wordprocessingml.document"
}

func (f ExportFormat) Extension() string {
	if f == FormatMarkdown {
		return ".md"
	}
	return ".docx"
}

type Exporter interface {
	Render(history []models.HistoryEntry, generatedAt time.Time, format ExportFormat) ([]byte, error)
}

type exporter struct {
	template []byte
}

func NewExporter() (Exporter, error) {
	tpl, err := buildDocxTemplate()
	if err != nil {
		return nil, fmt.Errorf("failed to build docx template: %w", err)
	}
	return &exporter{template: tpl}, nil
}

// Render writes every entry in insertion order. The history slice is only read.
func (e *exporter) Render(history []models.HistoryEntry, generatedAt time.Time, format ExportFormat) ([]byte, error) {
	switch format {
	case FormatMarkdown:
		return renderMarkdown(history, generatedAt), nil
	case FormatDocx, "":
		out, err := e.renderDocx(history, generatedAt)
		if err != nil {
			return nil, &ExportError{Cause: err}
		}
		return out, nil
	default:
		return nil, &ExportError{Cause: fmt.Errorf("unsupported export format: %s", format)}
	}
}

func (e *exporter) renderDocx(history []models.HistoryEntry, generatedAt time.Time) ([]byte, error) {
	doc, err := docx.ReadDocxFromMemory(bytes.NewReader(e.template), int64(len(e.template)))
	if err != nil {
		return nil, fmt.Errorf("failed to open template: %w", err)
	}
	defer doc.Close()

	var body strings.Builder
	body.WriteString(paragraph("Title", reportTitle))
	body.WriteString(paragraph("Subtitle", "Generated on "+generatedAt.Format(models.DisplayTimeFormat)))
	if len(history) == 0 {
		body.WriteString(paragraph("", "No analyses recorded in this session."))
	}
	for _, entry := range history {
		body.WriteString(divider())
		body.WriteString(paragraph("Heading1", fmt.Sprintf("%s (%s)", entry.Label, entry.DisplayTime)))
		for _, line := range strings.Split(entry.Result.Text, "\n") {
			body.WriteString(paragraph("", strings.TrimRight(line, "\r")))
		}
	}
	body.WriteString(divider())
	body.WriteString(paragraph("Footer", reportFooter))

	editable := doc.Editable()
	editable.ReplaceRaw(markerParagraph, body.String(), 1)

	var out bytes.Buffer
	if err := editable.Write(&out); err != nil {
		return nil, fmt.Errorf("failed to write document: %w", err)
	}
	return out.Bytes(), nil
}

func renderMarkdown(history []models.HistoryEntry, generatedAt time.Time) []byte {
	var b strings.Builder
	fmt.Fprintf(&b, "# %s\n\n", reportTitle)
	fmt.Fprintf(&b, "_Generated on %s_\n\n", generatedAt.Format(models.DisplayTimeFormat))
	if len(history) == 0 {
		b.WriteString("No analyses recorded in this session.\n\n")
	}
	for _, entry := range history {
		b.WriteString("---\n\n")
		fmt.Fprintf(&b, "## %s (%s)\n\n", entry.Label, entry.DisplayTime)
		b.WriteString(entry.Result.Text)
		b.WriteString("\n\n")
	}
	b.WriteString("---\n\n")
	fmt.Fprintf(&b, "*%s*\n", reportFooter)
	return []byte(b.String())
}

func paragraph(style, text string) string {
	var b strings.Builder
	b.WriteString("<w:p>")
	if style != "" {
		fmt.Fprintf(&b, `<w:pPr><w:pStyle w:val="%s"/></w:pPr>`, style)
	}
	b.WriteString(`<w:r><w:t xml:space="preserve">`)
	_ = xml.EscapeText(&b, []byte(text))
	b.WriteString("</w:t></w:r></w:p>")
	return b.String()
}

func divider() string {
	return `<w:p><w:pPr><w:pBdr><w:bottom w:val="single" w:sz="6" w:space="1" w:color="999999"/></w:pBdr></w:pPr></w:p>`
}

const markerParagraph = `<w:p><w:r><w:t>` + bodyMarker + `</w:t></w:r></w:p>`

const wordNS = `xmlns:w="http://schemas.openxmlformats.org/wordprocessingml/2006/main"`

var docxTemplateParts = []struct {
	name    string
	content string
}{
	{"[Content_Types].xml", `<?xml version="1.0" encoding="UTF-8" standalone="yes"?>
<Types xmlns="http://schemas.openxmlformats.org/package/2006/content-types"><Default Extension="rels" ContentType="application/vnd.openxmlformats-package.relationships+xml"/><Default Extension="xml" ContentType="application/xml"/><Override PartName="/word/document.xml" ContentType="application/vnd.openxmlformats-officedocument.wordprocessingml.document.main+xml"/><Override PartName="/word/styles.xml" ContentType="application/vnd.openxmlformats-officedocument.wordprocessingml.styles+xml"/></Types>`},
	{"_rels/.rels", `<?xml version="1.0" encoding="UTF-8" standalone="yes"?>
<Relationships xmlns="http://schemas.openxmlformats.org/package/2006/relationships"><Relationship Id="rId1" Type="http://schemas.openxmlformats.org/officeDocument/2006/relationships/officeDocument" Target="word/document.xml"/></Relationships>`},
	{"word/_rels/document.xml.rels", `<?xml version="1.0" encoding="UTF-8" standalone="yes"?>
<Relationships xmlns="http://schemas.openxmlformats.org/package/2006/relationships"><Relationship Id="rId1" Type="http://schemas.openxmlformats.org/officeDocument/2006/relationships/styles" Target="styles.xml"/></Relationships>`},
	{"word/styles.xml", `<?xml version="1.0" encoding="UTF-8" standalone="yes"?>
<w:styles ` + wordNS + `>` +
		`<w:style w:type="paragraph" w:default="1" w:styleId="Normal"><w:name w:val="Normal"/><w:rPr><w:sz w:val="22"/></w:rPr></w:style>` +
		`<w:style w:type="paragraph" w:styleId="Title"><w:name w:val="Title"/><w:basedOn w:val="Normal"/><w:pPr><w:jc w:val="center"/></w:pPr><w:rPr><w:b/><w:sz w:val="40"/></w:rPr></w:style>` +
		`<w:style w:type="paragraph" w:styleId="Subtitle"><w:name w:val="Subtitle"/><w:basedOn w:val="Normal"/><w:pPr><w:jc w:val="center"/></w:pPr><w:rPr><w:i/></w:rPr></w:style>` +
		`<w:style w:type="paragraph" w:styleId="Heading1"><w:name w:val="heading 1"/><w:basedOn w:val="Normal"/><w:rPr><w:b/><w:sz w:val="28"/></w:rPr></w:style>` +
		`<w:style w:type="paragraph" w:styleId="Footer"><w:name w:val="footer"/><w:basedOn w:val="Normal"/><w:pPr><w:jc w:val="center"/></w:pPr><w:rPr><w:i/><w:sz w:val="18"/></w:rPr></w:style>` +
		`</w:styles>`},
	{"word/document.xml", `<?xml version="1.0" encoding="UTF-8" standalone="yes"?>
<w:document ` + wordNS + `><w:body>` + markerParagraph +
		`<w:sectPr><w:pgSz w:w="12240" w:h="15840"/><w:pgMar w:top="1440" w:right="1440" w:bottom="1440" w:left="1440" w:header="720" w:footer="720" w:gutter="0"/></w:sectPr></w:body></w:document>`},
}

func buildDocxTemplate() ([]byte, error) {
	var buf bytes.Buffer
	zw := zip.NewWriter(&buf)
	for _, part := range docxTemplateParts {
		w, err := zw.Create(part.name)
		if err != nil {
			return nil, err
		}
		if _, err := w.Write([]byte(part.content)); err != nil {
			return nil, err
		}
	}
	if err := zw.Close(); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}
