package extract

import (
	"fmt"
	"regexp"
	"strings"

	"po-extractor/internal/config"
	"po-extractor/internal/models"
)

// cellSeparator splits an item line into columns
var cellSeparator = regexp.MustCompile(`\s{2,}`)

const minItemCells = 4

type fieldPattern struct {
	field models.Field
	re    *regexp.Regexp
}

// AnchoredStrategy applies one label-anchored regular expression per field to
// the document text. Line items come from the block between the item table
// header and the total line.
type AnchoredStrategy struct {
	fields      []fieldPattern
	itemBlock   *regexp.Regexp
	description string
}

// NewAnchoredStrategy compiles the configured patterns
func NewAnchoredStrategy(cfg models.AnchoredConfig) (*AnchoredStrategy, error) {
	s := &AnchoredStrategy{description: cfg.ItemDescription}

	// Compile in the fixed field order so results never depend on map iteration
	for _, field := range models.ScalarFields {
		pattern, ok := cfg.Patterns[field]
		if !ok || pattern == "" {
			continue
		}
		re, err := regexp.Compile(pattern)
		if err != nil {
			return nil, fmt.Errorf("invalid pattern for %s: %w", field, err)
		}
		s.fields = append(s.fields, fieldPattern{field: field, re: re})
	}

	if cfg.ItemBlock != "" {
		re, err := regexp.Compile(cfg.ItemBlock)
		if err != nil {
			return nil, fmt.Errorf("invalid item block pattern: %w", err)
		}
		s.itemBlock = re
	}

	return s, nil
}

func (s *AnchoredStrategy) Name() string {
	return config.StrategyAnchored
}

func (s *AnchoredStrategy) Extract(doc Document) *models.Record {
	record := models.NewRecord()
	text := joinPages(doc.Pages())

	for _, fp := range s.fields {
		if value, ok := firstGroup(fp.re, text); ok {
			record.Set(fp.field, value)
		}
	}

	s.appendItems(record, text)

	return record
}

// appendItems reads quantity, unit, unit price and net price from each line
// of the item block that has at least four cells. Descriptions are the
// configured placeholder.
func (s *AnchoredStrategy) appendItems(record *models.Record, text string) {
	if s.itemBlock == nil {
		return
	}
	block, ok := firstGroup(s.itemBlock, text)
	if !ok {
		return
	}

	for _, line := range strings.Split(block, "\n") {
		cells := cellSeparator.Split(strings.TrimSpace(line), -1)
		if len(cells) < minItemCells {
			continue
		}
		record.Items.Append(models.ColumnDescription, s.description)
		record.Items.Append(models.ColumnQuantity, cells[0])
		record.Items.Append(models.ColumnUnit, cells[1])
		record.Items.Append(models.ColumnUnitPrice, stripThousands(cells[2]))
		record.Items.Append(models.ColumnNetPrice, stripThousands(cells[3]))
	}
}

// firstGroup returns the trimmed first capture group of the first match
func firstGroup(re *regexp.Regexp, text string) (string, bool) {
	m := re.FindStringSubmatch(text)
	if len(m) < 2 {
		return "", false
	}
	return strings.TrimSpace(m[1]), true
}

func stripThousands(s string) string {
	return strings.ReplaceAll(s, ",", "")
}
