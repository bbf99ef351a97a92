// Copyright Amazon.com, Inc. or its affiliates. All Rights Reserved.
// SPDX-License-Identifier: Apache-2.0

package sources

import (
	"archive/zip"
	"encoding/xml"
	"fmt"
	"io"
	"strconv"
	"strings"

	"textmark/internal/document"
)

const (
	wordNS      = "http://schemas.openxmlformats.org/wordprocessingml/2006/main"
	odfTextNS   = "urn:oasis:names:tc:opendocument:xmlns:text:1.0"
	dublinCore  = "http://purl.org/dc/elements/1.1/"
	maxPartSize = 64 << 20
)

// xmlFlavor describes how paragraphs are laid out in one XML vocabulary
type xmlFlavor struct {
	ns         string
	paragraphs map[string]bool
	skipped    map[string]bool

	// looseText makes character data anywhere inside a paragraph count as
	// text; otherwise only elements accepted by onElement carry text
	looseText bool

	// collapseSpace applies ODF white-space rules to character data: runs of
	// space, tab, CR and LF become one space and are dropped at paragraph
	// start. Explicit elements such as text:s are kept as written.
	collapseSpace bool

	// onElement handles an element in ns inside a paragraph and reports
	// whether its character data is text
	onElement func(el xml.StartElement, buf *strings.Builder) bool
}

var wordFlavor = xmlFlavor{
	ns:         wordNS,
	paragraphs: map[string]bool{"p": true},
	skipped:    map[string]bool{"delText": true, "instrText": true},
	onElement: func(el xml.StartElement, buf *strings.Builder) bool {
		switch el.Name.Local {
		case "t":
			return true
		case "tab":
			buf.WriteByte('\t')
		case "br", "cr":
			buf.WriteByte(' ')
		}
		return false
	},
}

var odfFlavor = xmlFlavor{
	ns:         odfTextNS,
	paragraphs: map[string]bool{"p": true, "h": true},
	skipped:       map[string]bool{"annotation": true, "tracked-changes": true},
	looseText:     true,
	collapseSpace: true,
	onElement: func(el xml.StartElement, buf *strings.Builder) bool {
		switch el.Name.Local {
		case "s":
			count := 1
			for _, attr := range el.Attr {
				if attr.Name.Local == "c" {
					if n, err := strconv.Atoi(attr.Value); err == nil && n > 0 {
						count = n
					}
				}
			}
			buf.WriteString(strings.Repeat(" ", count))
		case "tab":
			buf.WriteByte('\t')
		case "line-break":
			buf.WriteByte(' ')
		}
		return true
	},
}

// DocxSource reads the body text of Word documents
type DocxSource struct{}

// NewDocxSource creates a Word document source
func NewDocxSource() *DocxSource {
	return &DocxSource{}
}

// Name returns the source name
func (s *DocxSource) Name() string { return "docx" }

// Extensions returns the handled extensions
func (s *DocxSource) Extensions() []string { return []string{".docx"} }

// Load reads word/document.xml; one w:p becomes one paragraph
func (s *DocxSource) Load(path string) (*Loaded, error) {
	return loadPackage(path, "word/document.xml", "docProps/core.xml", wordFlavor)
}

// OdtSource reads the body text of OpenDocument text files
type OdtSource struct{}

// NewOdtSource creates an OpenDocument text source
func NewOdtSource() *OdtSource {
	return &OdtSource{}
}

// Name returns the source name
func (s *OdtSource) Name() string { return "odt" }

// Extensions returns the handled extensions
func (s *OdtSource) Extensions() []string { return []string{".odt"} }

// Load reads content.xml; text:p and text:h elements become paragraphs.
// Paragraphs nested in notes are folded into the enclosing paragraph.
func (s *OdtSource) Load(path string) (*Loaded, error) {
	return loadPackage(path, "content.xml", "meta.xml", odfFlavor)
}

func loadPackage(path, bodyPart, metaPart string, flavor xmlFlavor) (*Loaded, error) {
	reader, err := zip.OpenReader(path)
	if err != nil {
		return nil, fmt.Errorf("error opening file: %w", err)
	}
	defer reader.Close()

	body := findPart(&reader.Reader, bodyPart)
	if body == nil {
		return nil, fmt.Errorf("%s not found in the archive", bodyPart)
	}

	doc := document.New(readTitle(findPart(&reader.Reader, metaPart)))
	if err := readParagraphs(body, doc, flavor); err != nil {
		return nil, err
	}
	return &Loaded{Document: doc}, nil
}

func findPart(r *zip.Reader, name string) *zip.File {
	for _, f := range r.File {
		if f.Name == name {
			return f
		}
	}
	return nil
}

// readParagraphs streams an XML part and appends one paragraph per
// outermost paragraph element
func readParagraphs(part *zip.File, doc *document.Document, flavor xmlFlavor) error {
	rc, err := part.Open()
	if err != nil {
		return fmt.Errorf("error opening %s: %w", part.Name, err)
	}
	defer rc.Close()

	decoder := xml.NewDecoder(io.LimitReader(rc, maxPartSize))
	var buf strings.Builder
	depth := 0
	skipDepth := 0
	// textStack[i] tells whether character data directly inside the i-th
	// open element is document text
	var textStack []bool
	// afterSpace is set while the last text written was collapsible space,
	// or nothing has been written to the paragraph yet
	afterSpace := true

	for {
		tok, err := decoder.Token()
		if err == io.EOF {
			break
		}
		if err != nil {
			return fmt.Errorf("error parsing %s: %w", part.Name, err)
		}

		switch t := tok.(type) {
		case xml.StartElement:
			if skipDepth > 0 || flavor.skipped[t.Name.Local] {
				skipDepth++
				continue
			}
			inNS := t.Name.Space == flavor.ns
			switch {
			case inNS && flavor.paragraphs[t.Name.Local]:
				if depth == 0 {
					buf.Reset()
					afterSpace = true
				}
				depth++
				textStack = append(textStack, flavor.looseText)
			case depth > 0 && inNS:
				before := buf.Len()
				textStack = append(textStack, flavor.onElement(t, &buf))
				if buf.Len() > before {
					afterSpace = false
				}
			default:
				textStack = append(textStack, depth > 0 && flavor.looseText)
			}
		case xml.EndElement:
			if skipDepth > 0 {
				skipDepth--
				continue
			}
			if len(textStack) > 0 {
				textStack = textStack[:len(textStack)-1]
			}
			if t.Name.Space == flavor.ns && flavor.paragraphs[t.Name.Local] && depth > 0 {
				depth--
				if depth == 0 {
					if p := strings.TrimSpace(buf.String()); p != "" {
						doc.AppendParagraph(p)
					}
				}
			}
		case xml.CharData:
			if skipDepth == 0 && depth > 0 && len(textStack) > 0 && textStack[len(textStack)-1] {
				if flavor.collapseSpace {
					afterSpace = writeCollapsed(&buf, t, afterSpace)
				} else {
					buf.Write(t)
				}
			}
		}
	}
	return nil
}

// writeCollapsed writes data with each white-space run reduced to one
// space and returns the updated afterSpace state
func writeCollapsed(buf *strings.Builder, data []byte, afterSpace bool) bool {
	for _, c := range data {
		switch c {
		case ' ', '\t', '\r', '\n':
			if !afterSpace {
				buf.WriteByte(' ')
				afterSpace = true
			}
		default:
			buf.WriteByte(c)
			afterSpace = false
		}
	}
	return afterSpace
}

// readTitle returns the dc:title of a metadata part, or "" when absent
func readTitle(part *zip.File) string {
	if part == nil {
		return ""
	}
	rc, err := part.Open()
	if err != nil {
		return ""
	}
	defer rc.Close()

	decoder := xml.NewDecoder(io.LimitReader(rc, maxPartSize))
	for {
		tok, err := decoder.Token()
		if err != nil {
			return ""
		}
		if el, ok := tok.(xml.StartElement); ok && el.Name.Space == dublinCore && el.Name.Local == "title" {
			var title string
			if err := decoder.DecodeElement(&title, &el); err != nil {
				return ""
			}
			return strings.TrimSpace(title)
		}
	}
}
