// Copyright Amazon.com, Inc. or its affiliates. All Rights Reserved.
// SPDX-License-Identifier: Apache-2.0

package document

import (
	"fmt"
	"sort"
	"strings"
	"unicode/utf8"
)

// Range is a span of text inside one paragraph. Start and End are byte
// offsets into the paragraph text with Start <= End.
type Range struct {
	Paragraph int `json:"paragraph" yaml:"paragraph"`
	Start     int `json:"start" yaml:"start"`
	End       int `json:"end" yaml:"end"`
}

// String returns a compact representation of the range
func (r Range) String() string {
	return fmt.Sprintf("p%d[%d:%d]", r.Paragraph, r.Start, r.End)
}

// Len returns the length of the range in bytes
func (r Range) Len() int {
	return r.End - r.Start
}

// Bookmark is a named anchor on a range of document text
type Bookmark struct {
	Name  string `json:"name" yaml:"name"`
	Range Range  `json:"range" yaml:"range"`
}

// Document is an in-memory text document made of plain-text paragraphs and
// a collection of uniquely named bookmarks.
//
// Document is not safe for concurrent use.
type Document struct {
	title      string
	source     string
	paragraphs []string
	bookmarks  []Bookmark
	byName     map[string]int
	pageStarts []int
}

// New creates an empty document
func New(title string) *Document {
	return &Document{
		title:  title,
		byName: make(map[string]int),
	}
}

// Title returns the document title
func (d *Document) Title() string {
	return d.title
}

// SetTitle replaces the document title
func (d *Document) SetTitle(title string) {
	d.title = title
}

// Source returns the path the document was loaded from, if any
func (d *Document) Source() string {
	return d.source
}

// SetSource records the path the document was loaded from
func (d *Document) SetSource(path string) {
	d.source = path
}

// AppendParagraph adds a paragraph at the end of the document
func (d *Document) AppendParagraph(text string) {
	d.paragraphs = append(d.paragraphs, text)
}

// AppendText extends the last paragraph with text, starting the first
// paragraph when the document is empty.
func (d *Document) AppendText(text string) {
	if len(d.paragraphs) == 0 {
		d.paragraphs = append(d.paragraphs, text)
		return
	}
	d.paragraphs[len(d.paragraphs)-1] += text
}

// ParagraphCount returns the number of paragraphs
func (d *Document) ParagraphCount() int {
	return len(d.paragraphs)
}

// Paragraph returns the text of paragraph i
func (d *Document) Paragraph(i int) string {
	return d.paragraphs[i]
}

// Paragraphs returns a copy of all paragraph texts
func (d *Document) Paragraphs() []string {
	return append([]string(nil), d.paragraphs...)
}

// String joins all paragraphs with newlines
func (d *Document) String() string {
	return strings.Join(d.paragraphs, "\n")
}

// CharCount returns the number of characters in the document, paragraph
// breaks excluded.
func (d *Document) CharCount() int {
	n := 0
	for _, p := range d.paragraphs {
		n += utf8.RuneCountInString(p)
	}
	return n
}

// Text returns the text covered by r
func (d *Document) Text(r Range) (string, error) {
	if err := d.checkRange(r); err != nil {
		return "", err
	}
	return d.paragraphs[r.Paragraph][r.Start:r.End], nil
}

func (d *Document) checkRange(r Range) error {
	if r.Paragraph < 0 || r.Paragraph >= len(d.paragraphs) {
		return fmt.Errorf("paragraph %d out of range (document has %d)", r.Paragraph, len(d.paragraphs))
	}
	text := d.paragraphs[r.Paragraph]
	if r.Start < 0 || r.End > len(text) || r.Start > r.End {
		return fmt.Errorf("range %s outside paragraph of %d bytes", r, len(text))
	}
	if !utf8.RuneStart(byteAt(text, r.Start)) || !utf8.RuneStart(byteAt(text, r.End)) {
		return fmt.Errorf("range %s splits a character", r)
	}
	return nil
}

// byteAt returns the byte at i, or a rune-start byte at the end of s
func byteAt(s string, i int) byte {
	if i >= len(s) {
		return 0
	}
	return s[i]
}

// Bookmarks returns the bookmarks in creation order
func (d *Document) Bookmarks() []Bookmark {
	return append([]Bookmark(nil), d.bookmarks...)
}

// Bookmark returns the bookmark with the given name
func (d *Document) Bookmark(name string) (Bookmark, bool) {
	i, ok := d.byName[name]
	if !ok {
		return Bookmark{}, false
	}
	return d.bookmarks[i], true
}

// HasBookmark reports whether a bookmark with the given name exists
func (d *Document) HasBookmark(name string) bool {
	_, ok := d.byName[name]
	return ok
}

// BookmarksByPosition returns the bookmarks sorted by paragraph and start
// offset; bookmarks at the same start keep creation order.
func (d *Document) BookmarksByPosition() []Bookmark {
	out := d.Bookmarks()
	sort.SliceStable(out, func(i, j int) bool {
		a, b := out[i].Range, out[j].Range
		if a.Paragraph != b.Paragraph {
			return a.Paragraph < b.Paragraph
		}
		return a.Start < b.Start
	})
	return out
}

func (d *Document) addBookmark(b Bookmark) {
	d.byName[b.Name] = len(d.bookmarks)
	d.bookmarks = append(d.bookmarks, b)
}

// SetPageStarts records the first paragraph index of every page. Documents
// without a page layout have no page map.
func (d *Document) SetPageStarts(starts []int) {
	d.pageStarts = append([]int(nil), starts...)
}

// PageCount returns the number of pages in the page map
func (d *Document) PageCount() int {
	return len(d.pageStarts)
}

// PageOf returns the 1-based page holding paragraph i, or 0 when the
// document has no page map.
func (d *Document) PageOf(paragraph int) int {
	if len(d.pageStarts) == 0 {
		return 0
	}
	page := sort.Search(len(d.pageStarts), func(k int) bool {
		return d.pageStarts[k] > paragraph
	})
	if page == 0 {
		return 1
	}
	return page
}
