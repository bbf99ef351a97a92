// Copyright Amazon.com, Inc. or its affiliates. All Rights Reserved.
// SPDX-License-Identifier: Apache-2.0

package export

import (
	"encoding/xml"
	"fmt"
	"strings"
	"time"

	"textmark/internal/document"
)

const docxContentTypes = `<?xml version="1.0" encoding="UTF-8" standalone="yes"?>
<Types xmlns="http://schemas.openxmlformats.org/package/2006/content-types">` +
	`<Default Extension="rels" ContentType="application/vnd.openxmlformats-package.relationships+xml"/>` +
	`<Default Extension="xml" ContentType="application/xml"/>` +
	`<Override PartName="/word/document.xml" ContentType="application/vnd.openxmlformats-officedocument.wordprocessingml.document.main+xml"/>` +
	`<Override PartName="/docProps/core.xml" ContentType="application/vnd.openxmlformats-package.core-properties+xml"/>` +
	`</Types>`

const docxRels = `<?xml version="1.0" encoding="UTF-8" standalone="yes"?>
<Relationships xmlns="http://schemas.openxmlformats.org/package/2006/relationships">` +
	`<Relationship Id="rId1" Type="http://schemas.openxmlformats.org/officeDocument/2006/relationships/officeDocument" Target="word/document.xml"/>` +
	`<Relationship Id="rId2" Type="http://schemas.openxmlformats.org/package/2006/relationships/metadata/core-properties" Target="docProps/core.xml"/>` +
	`</Relationships>`

// DocxExporter writes WordprocessingML packages with w:bookmarkStart and
// w:bookmarkEnd around every bookmarked span
type DocxExporter struct {
	now func() time.Time
}

// NewDocxExporter creates a Word document exporter
func NewDocxExporter() *DocxExporter {
	return &DocxExporter{now: time.Now}
}

// Name returns the exporter name
func (e *DocxExporter) Name() string { return "docx" }

// Extensions returns the handled extensions
func (e *DocxExporter) Extensions() []string { return []string{".docx"} }

// Export writes doc as a .docx package
func (e *DocxExporter) Export(doc *document.Document, outputPath string) error {
	return writePackage(outputPath, []part{
		{name: "[Content_Types].xml", content: docxContentTypes},
		{name: "_rels/.rels", content: docxRels},
		{name: "word/document.xml", content: e.documentXML(doc)},
		{name: "docProps/core.xml", content: e.coreXML(doc)},
	})
}

func (e *DocxExporter) documentXML(doc *document.Document) string {
	var b strings.Builder
	b.WriteString(`<?xml version="1.0" encoding="UTF-8" standalone="yes"?>` + "\n")
	b.WriteString(`<w:document xmlns:w="http://schemas.openxmlformats.org/wordprocessingml/2006/main"><w:body>`)

	marks := paragraphMarks(doc)
	for i := 0; i < doc.ParagraphCount(); i++ {
		b.WriteString("<w:p>")
		walkParagraph(doc.Paragraph(i), marks[i],
			func(text string) { writeWordRun(&b, text) },
			func(m mark) {
				if m.start {
					fmt.Fprintf(&b, `<w:bookmarkStart w:id="%d" w:name="%s"/>`, m.id, escapeAttr(m.name))
				} else {
					fmt.Fprintf(&b, `<w:bookmarkEnd w:id="%d"/>`, m.id)
				}
			})
		b.WriteString("</w:p>")
	}

	b.WriteString(`<w:sectPr/></w:body></w:document>`)
	return b.String()
}

// writeWordRun writes text as one run; tabs become w:tab elements
func writeWordRun(b *strings.Builder, text string) {
	b.WriteString("<w:r>")
	for i, chunk := range strings.Split(text, "\t") {
		if i > 0 {
			b.WriteString("<w:tab/>")
		}
		if chunk == "" {
			continue
		}
		b.WriteString(`<w:t xml:space="preserve">`)
		_ = xml.EscapeText(b, []byte(chunk))
		b.WriteString("</w:t>")
	}
	b.WriteString("</w:r>")
}

func (e *DocxExporter) coreXML(doc *document.Document) string {
	var b strings.Builder
	b.WriteString(`<?xml version="1.0" encoding="UTF-8" standalone="yes"?>` + "\n")
	b.WriteString(`<cp:coreProperties xmlns:cp="http://schemas.openxmlformats.org/package/2006/metadata/core-properties" xmlns:dc="http://purl.org/dc/elements/1.1/" xmlns:dcterms="http://purl.org/dc/terms/" xmlns:xsi="http://www.w3.org/2001/XMLSchema-instance">`)
	b.WriteString("<dc:title>")
	_ = xml.EscapeText(&b, []byte(doc.Title()))
	b.WriteString("</dc:title>")
	fmt.Fprintf(&b, `<dcterms:created xsi:type="dcterms:W3CDTF">%s</dcterms:created>`, e.now().UTC().Format(time.RFC3339))
	b.WriteString("</cp:coreProperties>")
	return b.String()
}

func escapeAttr(s string) string {
	var b strings.Builder
	_ = xml.EscapeText(&b, []byte(s))
	return b.String()
}
