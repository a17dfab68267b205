package extract

import (
	"strings"

	"po-extractor/internal/config"
	"po-extractor/internal/models"
)

// KeywordStrategy scans the text line by line for known labels and reads
// line items from the tables the document provider found.
type KeywordStrategy struct {
	labels  []models.LabelGroup
	headers map[string]models.ItemColumn
}

// NewKeywordStrategy builds the strategy from ordered label groups and a
// column → accepted header names table. Header names are matched trimmed and
// case-insensitively.
func NewKeywordStrategy(labels []models.LabelGroup, columns map[string][]string) *KeywordStrategy {
	s := &KeywordStrategy{
		labels:  labels,
		headers: make(map[string]models.ItemColumn),
	}
	for col, names := range columns {
		for _, name := range names {
			s.headers[normalizeHeader(name)] = models.ItemColumn(col)
		}
	}
	return s
}

func (s *KeywordStrategy) Name() string {
	return config.StrategyKeyword
}

func (s *KeywordStrategy) Extract(doc Document) *models.Record {
	record := models.NewRecord()
	pages := doc.Pages()

	for _, line := range strings.Split(joinPages(pages), "\n") {
		s.scanLine(record, line)
	}

	for _, page := range pages {
		s.appendTable(record, pageTable(page))
	}

	return record
}

// scanLine lets the first label group found in the line claim it. The value
// is whatever follows the first colon; a later line with the same label wins.
func (s *KeywordStrategy) scanLine(record *models.Record, line string) {
	for _, group := range s.labels {
		if !containsAny(line, group.Labels) {
			continue
		}
		if idx := strings.Index(line, ":"); idx >= 0 {
			record.Set(group.Field, strings.TrimSpace(line[idx+1:]))
		}
		return
	}
}

// appendTable zips every row after the header against the header and appends
// one value per item column, "" for columns the table does not have.
func (s *KeywordStrategy) appendTable(record *models.Record, table [][]string) {
	if len(table) == 0 {
		return
	}

	positions := make(map[models.ItemColumn]int)
	for i, header := range table[0] {
		col, ok := s.headers[normalizeHeader(header)]
		if !ok {
			continue
		}
		if _, seen := positions[col]; !seen {
			positions[col] = i
		}
	}

	for _, row := range table[1:] {
		for _, col := range models.ItemColumns {
			value := ""
			if i, ok := positions[col]; ok && i < len(row) {
				value = row[i]
			}
			record.Items.Append(col, value)
		}
	}
}

func normalizeHeader(h string) string {
	return strings.ToLower(strings.TrimSpace(h))
}

func containsAny(line string, labels []string) bool {
	for _, label := range labels {
		if label != "" && strings.Contains(line, label) {
			return true
		}
	}
	return false
}
