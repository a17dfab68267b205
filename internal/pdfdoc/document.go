// Package pdfdoc is the document provider: it validates raw PDF bytes and
// exposes page text and an inferred item table per page.
package pdfdoc

import (
	"bytes"
	"errors"
	"fmt"

	"po-extractor/internal/extract"
	"po-extractor/internal/logging"
	"po-extractor/internal/models"

	"github.com/ledongthuc/pdf"
	"github.com/pdfcpu/pdfcpu/pkg/api"
	"github.com/pdfcpu/pdfcpu/pkg/pdfcpu/model"
)

// ErrNotPDF is returned for payloads without a PDF header
var ErrNotPDF = errors.New("not a PDF document")

// headerWindow is how far into the file the %PDF- marker may appear
const headerWindow = 1024

func init() {
	// No pdfcpu config directory is created in the user's home
	api.DisableConfigDir()
}

// Page is one decoded page
type Page struct {
	number int
	text   string
	table  [][]string
}

// Text returns the page text, rows separated by newlines and cells by two spaces
func (p *Page) Text() string {
	return p.text
}

// Table returns the inferred table, header first, or nil
func (p *Page) Table() [][]string {
	return p.table
}

// Number is the 1-based page number
func (p *Page) Number() int {
	return p.number
}

// Document is an opened PDF whose pages are already decoded
type Document struct {
	pages []extract.Page
}

// Pages returns the pages in document order
func (d *Document) Pages() []extract.Page {
	return d.pages
}

// Opener opens documents with a fixed table layout
type Opener struct {
	layout layout
}

// NewOpener returns an Opener tuned by the table configuration
func NewOpener(cfg models.TableConfig) *Opener {
	l := layout{
		minColumns: cfg.MinColumns,
		cellGap:    cfg.CellGap,
		charWidth:  cfg.CharWidth,
	}
	if l.minColumns < 2 {
		l.minColumns = 2
	}
	if l.charWidth <= 0 {
		l.charWidth = 5
	}
	if l.cellGap <= 0 {
		l.cellGap = l.charWidth
	}
	return &Opener{layout: l}
}

// Open validates data with pdfcpu and decodes every page with ledongthuc/pdf.
// Only a structurally unreadable document is an error; a page whose content
// cannot be decoded becomes an empty page.
func (o *Opener) Open(data []byte) (extract.Document, error) {
	if !looksLikePDF(data) {
		return nil, ErrNotPDF
	}

	pageCount, err := probe(data)
	if err != nil {
		return nil, err
	}

	reader, err := newReader(data)
	if err != nil {
		return nil, err
	}

	numPages := safeNumPage(reader)
	if numPages != pageCount {
		logging.Log.Debugf("page count mismatch: pdfcpu %d, reader %d", pageCount, numPages)
	}

	doc := &Document{pages: make([]extract.Page, 0, numPages)}
	for i := 1; i <= numPages; i++ {
		text, table := o.layout.pageLayout(pageRows(reader, i))
		doc.pages = append(doc.pages, &Page{number: i, text: text, table: table})
	}

	return doc, nil
}

func looksLikePDF(data []byte) bool {
	window := data
	if len(window) > headerWindow {
		window = window[:headerWindow]
	}
	return bytes.Contains(window, []byte("%PDF-"))
}

// probe reads the cross-reference structure in relaxed mode and returns the page count
func probe(data []byte) (count int, err error) {
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("failed to read PDF structure: %v", r)
		}
	}()

	conf := model.NewDefaultConfiguration()
	conf.ValidationMode = model.ValidationRelaxed

	ctx, err := api.ReadContext(bytes.NewReader(data), conf)
	if err != nil {
		return 0, fmt.Errorf("failed to read PDF context: %w", err)
	}
	if err := ctx.EnsurePageCount(); err != nil {
		return 0, fmt.Errorf("failed to ensure page count: %w", err)
	}

	return ctx.PageCount, nil
}

func newReader(data []byte) (reader *pdf.Reader, err error) {
	defer func() {
		if r := recover(); r != nil {
			reader, err = nil, fmt.Errorf("failed to open PDF: %v", r)
		}
	}()

	reader, err = pdf.NewReader(bytes.NewReader(data), int64(len(data)))
	if err != nil {
		return nil, fmt.Errorf("failed to open PDF: %w", err)
	}
	return reader, nil
}

func safeNumPage(reader *pdf.Reader) (n int) {
	defer func() {
		if r := recover(); r != nil {
			n = 0
		}
	}()
	return reader.NumPage()
}

// pageRows returns the text rows of page i from top to bottom. Glyph
// positions come from the content stream, so text placed with Td, TD, T* or
// Tm is positioned alike. Any decoding failure yields no rows, so the page
// reads as empty.
func pageRows(reader *pdf.Reader, i int) (rows [][]textItem) {
	defer func() {
		if r := recover(); r != nil {
			logging.Log.Debugf("page %d has no extractable text: %v", i, r)
			rows = nil
		}
	}()

	page := reader.Page(i)
	if page.V.IsNull() {
		return nil
	}

	glyphs := page.Content().Text
	items := make([]textItem, 0, len(glyphs))
	for _, t := range glyphs {
		items = append(items, textItem{S: t.S, X: t.X, Y: t.Y, W: t.W})
	}
	return groupRows(items)
}
