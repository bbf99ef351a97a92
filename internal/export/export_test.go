// Copyright Amazon.com, Inc. or its affiliates. All Rights Reserved.
// SPDX-License-Identifier: Apache-2.0

package export

import (
	"archive/zip"
	"io"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"textmark/internal/catalog"
	"textmark/internal/document"
	"textmark/internal/sources"
	"textmark/internal/version"
)

func markedExample(t *testing.T) *document.Document {
	t.Helper()
	doc := document.NewExample()
	document.NewMarker(doc, document.SearchOptions{}).MarkCatalogs(catalog.Builtin())
	require.Len(t, doc.Bookmarks(), 3)
	return doc
}

func readPart(t *testing.T, path, name string) string {
	t.Helper()
	r, err := zip.OpenReader(path)
	require.NoError(t, err)
	defer r.Close()
	for _, f := range r.File {
		if f.Name == name {
			rc, err := f.Open()
			require.NoError(t, err)
			defer rc.Close()
			data, err := io.ReadAll(rc)
			require.NoError(t, err)
			return string(data)
		}
	}
	t.Fatalf("part %s not found in %s", name, path)
	return ""
}

func TestDocxExport_RoundTrip(t *testing.T) {
	doc := markedExample(t)
	out := filepath.Join(t.TempDir(), "nested", "marked.docx")

	require.NoError(t, DefaultRegistry().Export(doc, out))

	body := readPart(t, out, "word/document.xml")
	assert.Contains(t, body, `<w:bookmarkStart w:id="0" w:name="Offending1"/><w:r><w:t xml:space="preserve">bor</w:t></w:r><w:bookmarkEnd w:id="0"/>`)
	assert.Contains(t, body, `w:name="Offending2"`)
	assert.Contains(t, body, `w:name="BadStyle2"`)
	assert.Equal(t, 3, strings.Count(body, "<w:bookmarkEnd "))

	loaded, err := sources.DefaultRegistry().Load(out)
	require.NoError(t, err)
	assert.Equal(t, doc.Paragraphs(), loaded.Document.Paragraphs())
	assert.Equal(t, document.ExampleTitle, loaded.Document.Title())
}

func TestOdtExport_RoundTrip(t *testing.T) {
	doc := markedExample(t)
	doc.AppendParagraph("  spaced\tout  text & <tags>")
	out := filepath.Join(t.TempDir(), "marked.odt")

	require.NoError(t, DefaultRegistry().Export(doc, out))

	r, err := zip.OpenReader(out)
	require.NoError(t, err)
	require.NotEmpty(t, r.File)
	assert.Equal(t, "mimetype", r.File[0].Name)
	assert.Equal(t, zip.Store, r.File[0].Method)
	r.Close()

	content := readPart(t, out, "content.xml")
	assert.Contains(t, content, `<text:bookmark-start text:name="BadStyle2"/>brilliant<text:bookmark-end text:name="BadStyle2"/>`)
	assert.Contains(t, content, `<text:s text:c="2"/>spaced<text:tab/>out <text:s/>text &amp; &lt;tags&gt;`)

	meta := readPart(t, out, "meta.xml")
	assert.Contains(t, meta, "<meta:generator>"+version.Generator()+"</meta:generator>")

	loaded, err := sources.DefaultRegistry().Load(out)
	require.NoError(t, err)
	want := doc.Paragraphs()
	want[len(want)-1] = "spaced\tout  text & <tags>"
	assert.Equal(t, want, loaded.Document.Paragraphs())
}

func TestParagraphMarks_EndBeforeStart(t *testing.T) {
	doc := document.New("t")
	doc.AppendParagraph("catdog")
	sink := document.NewSink(doc)
	require.NoError(t, sink.CreateBookmark(document.Range{Paragraph: 0, Start: 3, End: 6}, "Dog0"))
	require.NoError(t, sink.CreateBookmark(document.Range{Paragraph: 0, Start: 0, End: 3}, "Cat0"))

	var seq []string
	walkParagraph(doc.Paragraph(0), paragraphMarks(doc)[0],
		func(s string) { seq = append(seq, s) },
		func(m mark) {
			if m.start {
				seq = append(seq, "<"+m.name)
			} else {
				seq = append(seq, m.name+">")
			}
		})
	assert.Equal(t, []string{"<Cat0", "cat", "Cat0>", "<Dog0", "dog", "Dog0>"}, seq)
}

func TestRegistry_UnsupportedFormat(t *testing.T) {
	err := DefaultRegistry().Export(document.New("t"), filepath.Join(t.TempDir(), "out.rtf"))
	require.Error(t, err)
	assert.Contains(t, err.Error(), ".rtf")
}

func TestPDFExport_RequiresPDFSource(t *testing.T) {
	err := NewPDFExporter().Export(markedExample(t), filepath.Join(t.TempDir(), "out.pdf"))
	assert.ErrorIs(t, err, ErrNeedsPDFSource)
}

func TestOutline(t *testing.T) {
	doc := document.New("t")
	for _, p := range []string{"intro", "a bloody mess", "page two", "brilliant"} {
		doc.AppendParagraph(p)
	}
	doc.SetPageStarts([]int{0, 2})
	document.NewMarker(doc, document.SearchOptions{}).MarkCatalogs(catalog.Builtin())

	bms := Outline(doc)
	require.Len(t, bms, 2)
	assert.Equal(t, "Offending2", bms[0].Title)
	assert.Equal(t, 1, bms[0].PageFrom)
	assert.Equal(t, "BadStyle2", bms[1].Title)
	assert.Equal(t, 2, bms[1].PageFrom)
}
