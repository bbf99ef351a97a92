// Copyright Amazon.com, Inc. or its affiliates. All Rights Reserved.
// SPDX-License-Identifier: Apache-2.0

package export

import (
	"encoding/xml"
	"fmt"
	"strings"

	"textmark/internal/document"
	"textmark/internal/version"
)

const odtMimeType = "application/vnd.oasis.opendocument.text"

const odtManifest = `<?xml version="1.0" encoding="UTF-8"?>
<manifest:manifest xmlns:manifest="urn:oasis:names:tc:opendocument:xmlns:manifest:1.0" manifest:version="1.2">` +
	`<manifest:file-entry manifest:full-path="/" manifest:version="1.2" manifest:media-type="` + odtMimeType + `"/>` +
	`<manifest:file-entry manifest:full-path="content.xml" manifest:media-type="text/xml"/>` +
	`<manifest:file-entry manifest:full-path="meta.xml" manifest:media-type="text/xml"/>` +
	`</manifest:manifest>`

// OdtExporter writes OpenDocument text packages with text:bookmark-start
// and text:bookmark-end around every bookmarked span
type OdtExporter struct{}

// NewOdtExporter creates an OpenDocument text exporter
func NewOdtExporter() *OdtExporter {
	return &OdtExporter{}
}

// Name returns the exporter name
func (e *OdtExporter) Name() string { return "odt" }

// Extensions returns the handled extensions
func (e *OdtExporter) Extensions() []string { return []string{".odt"} }

// Export writes doc as an .odt package. The mimetype entry comes first and
// is stored uncompressed.
func (e *OdtExporter) Export(doc *document.Document, outputPath string) error {
	return writePackage(outputPath, []part{
		{name: "mimetype", content: odtMimeType, store: true},
		{name: "META-INF/manifest.xml", content: odtManifest},
		{name: "content.xml", content: e.contentXML(doc)},
		{name: "meta.xml", content: e.metaXML(doc)},
	})
}

func (e *OdtExporter) contentXML(doc *document.Document) string {
	var b strings.Builder
	b.WriteString(`<?xml version="1.0" encoding="UTF-8"?>` + "\n")
	b.WriteString(`<office:document-content xmlns:office="urn:oasis:names:tc:opendocument:xmlns:office:1.0" xmlns:text="urn:oasis:names:tc:opendocument:xmlns:text:1.0" office:version="1.2">`)
	b.WriteString(`<office:body><office:text>`)

	marks := paragraphMarks(doc)
	for i := 0; i < doc.ParagraphCount(); i++ {
		b.WriteString("<text:p>")
		w := odfTextWriter{b: &b}
		walkParagraph(doc.Paragraph(i), marks[i], w.write, func(m mark) {
			w.flush()
			if m.start {
				fmt.Fprintf(&b, `<text:bookmark-start text:name="%s"/>`, escapeAttr(m.name))
			} else {
				fmt.Fprintf(&b, `<text:bookmark-end text:name="%s"/>`, escapeAttr(m.name))
			}
		})
		w.flush()
		b.WriteString("</text:p>")
	}

	b.WriteString(`</office:text></office:body></office:document-content>`)
	return b.String()
}

func (e *OdtExporter) metaXML(doc *document.Document) string {
	var b strings.Builder
	b.WriteString(`<?xml version="1.0" encoding="UTF-8"?>` + "\n")
	b.WriteString(`<office:document-meta xmlns:office="urn:oasis:names:tc:opendocument:xmlns:office:1.0" xmlns:dc="http://purl.org/dc/elements/1.1/" xmlns:meta="urn:oasis:names:tc:opendocument:xmlns:meta:1.0" office:version="1.2"><office:meta>`)
	b.WriteString("<meta:generator>")
	_ = xml.EscapeText(&b, []byte(version.Generator()))
	b.WriteString("</meta:generator>")
	b.WriteString("<dc:title>")
	_ = xml.EscapeText(&b, []byte(doc.Title()))
	b.WriteString("</dc:title></office:meta></office:document-meta>")
	return b.String()
}

// odfTextWriter encodes paragraph text so ODF whitespace collapsing keeps
// it intact. Only a space directly after other text is written literally;
// the rest become text:s elements and tabs become text:tab.
type odfTextWriter struct {
	b         *strings.Builder
	afterText bool
	pending   int
}

func (w *odfTextWriter) write(text string) {
	for _, r := range text {
		switch r {
		case ' ':
			if w.afterText {
				w.b.WriteByte(' ')
				w.afterText = false
			} else {
				w.pending++
			}
		case '\t':
			w.flush()
			w.b.WriteString("<text:tab/>")
			w.afterText = false
		default:
			w.flush()
			_ = xml.EscapeText(w.b, []byte(string(r)))
			w.afterText = true
		}
	}
}

// flush writes spaces held back by write
func (w *odfTextWriter) flush() {
	switch {
	case w.pending == 1:
		w.b.WriteString("<text:s/>")
	case w.pending > 1:
		fmt.Fprintf(w.b, `<text:s text:c="%d"/>`, w.pending)
	}
	w.pending = 0
}
