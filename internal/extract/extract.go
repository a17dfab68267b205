// Package extract turns the text and tables of a purchase order PDF into a
// models.Record. Extraction is best effort: every field is looked up on its
// own and a miss leaves only that field absent.
package extract

import (
	"fmt"
	"strings"

	"po-extractor/internal/config"
	"po-extractor/internal/logging"
	"po-extractor/internal/models"
)

// Page is one decoded page. Text returns "" when the page has no extractable
// text; Table returns nil when no table was found.
type Page interface {
	Text() string
	Table() [][]string
}

// Document is an opened PDF, pages in order
type Document interface {
	Pages() []Page
}

// Strategy extracts one record from one document and never fails
type Strategy interface {
	Name() string
	Extract(doc Document) *models.Record
}

// New builds the strategy selected in the configuration
func New(cfg models.ExtractionConfig) (Strategy, error) {
	switch cfg.Strategy {
	case config.StrategyKeyword:
		return NewKeywordStrategy(cfg.Labels, cfg.Columns), nil
	case config.StrategyAnchored:
		return NewAnchoredStrategy(cfg.Anchored)
	default:
		return nil, fmt.Errorf("unknown extraction strategy %q", cfg.Strategy)
	}
}

// pageText isolates the strategies from panics inside a page implementation
func pageText(p Page) (text string) {
	defer func() {
		if r := recover(); r != nil {
			logging.Log.Debugf("page text unavailable: %v", r)
			text = ""
		}
	}()
	return p.Text()
}

func pageTable(p Page) (table [][]string) {
	defer func() {
		if r := recover(); r != nil {
			logging.Log.Debugf("page table unavailable: %v", r)
			table = nil
		}
	}()
	return p.Table()
}

// joinPages concatenates page text, each page terminated by a newline
func joinPages(pages []Page) string {
	var b strings.Builder
	for _, p := range pages {
		b.WriteString(pageText(p))
		b.WriteByte('\n')
	}
	return b.String()
}
