// Package export writes flattened purchase order rows to a single-sheet workbook.
package export

import (
	"bytes"
	"fmt"
	"io"
	"os"

	"po-extractor/internal/models"

	"github.com/xuri/excelize/v2"
)

const (
	// ContentType is the MIME type of the produced workbook
	ContentType = "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"

	defaultSheet = "Sheet1"
	columnWidth  = 22
)

// Write encodes rows as a workbook with a bold header row of FlatRowHeaders
func Write(w io.Writer, rows []models.FlatRow, sheet string) error {
	f, err := build(rows, sheet)
	if err != nil {
		return err
	}
	defer func() { _ = f.Close() }()

	if _, err := f.WriteTo(w); err != nil {
		return fmt.Errorf("error writing workbook: %w", err)
	}
	return nil
}

// Bytes returns the encoded workbook
func Bytes(rows []models.FlatRow, sheet string) ([]byte, error) {
	var buf bytes.Buffer
	if err := Write(&buf, rows, sheet); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

// WriteFile writes the workbook to path, replacing any existing file
func WriteFile(path string, rows []models.FlatRow, sheet string) error {
	data, err := Bytes(rows, sheet)
	if err != nil {
		return err
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("error writing %s: %w", path, err)
	}
	return nil
}

func build(rows []models.FlatRow, sheet string) (*excelize.File, error) {
	if sheet == "" {
		sheet = defaultSheet
	}

	f := excelize.NewFile()
	fail := func(err error) (*excelize.File, error) {
		_ = f.Close()
		return nil, err
	}

	if sheet != defaultSheet {
		if err := f.SetSheetName(defaultSheet, sheet); err != nil {
			return fail(fmt.Errorf("invalid sheet name %q: %w", sheet, err))
		}
	}

	header := make([]interface{}, len(models.FlatRowHeaders))
	for i, h := range models.FlatRowHeaders {
		header[i] = h
	}
	if err := f.SetSheetRow(sheet, "A1", &header); err != nil {
		return fail(err)
	}

	bold, err := f.NewStyle(&excelize.Style{Font: &excelize.Font{Bold: true}})
	if err != nil {
		return fail(err)
	}
	if err := f.SetRowStyle(sheet, 1, 1, bold); err != nil {
		return fail(err)
	}

	for i, row := range rows {
		cell, err := excelize.CoordinatesToCellName(1, i+2)
		if err != nil {
			return fail(err)
		}
		values := row.Values()
		cells := make([]interface{}, len(values))
		for j, v := range values {
			cells[j] = v
		}
		if err := f.SetSheetRow(sheet, cell, &cells); err != nil {
			return fail(fmt.Errorf("error writing row %d: %w", i+1, err))
		}
	}

	lastCol, err := excelize.ColumnNumberToName(len(models.FlatRowHeaders))
	if err != nil {
		return fail(err)
	}
	if err := f.SetColWidth(sheet, "A", lastCol, columnWidth); err != nil {
		return fail(err)
	}

	if err := f.SetPanes(sheet, &excelize.Panes{
		Freeze:      true,
		YSplit:      1,
		TopLeftCell: "A2",
		ActivePane:  "bottomLeft",
	}); err != nil {
		return fail(err)
	}

	return f, nil
}
