// Package flatten expands records into spreadsheet rows, one row per line item.
package flatten

import "po-extractor/internal/models"

// Flatten returns max(1, len(Description)) rows per record, in record order.
// Item cells missing from a shorter sequence are "". Scalar fields and
// provenance repeat on every row of the record.
func Flatten(records []*models.Record) []models.FlatRow {
	rows := make([]models.FlatRow, 0, len(records))
	for _, record := range records {
		if record == nil {
			continue
		}
		rows = append(rows, flattenRecord(record)...)
	}
	return rows
}

func flattenRecord(r *models.Record) []models.FlatRow {
	base := models.FlatRow{
		EmailFrom:     r.Source.From,
		EmailSubject:  r.Source.Subject,
		Date:          r.Source.Date,
		VendorNumber:  r.Value(models.FieldVendorNumber),
		OrderNumber:   r.Value(models.FieldOrderNumber),
		OrderDate:     r.Value(models.FieldOrderDate),
		VendorAddress: r.Value(models.FieldVendorAddress),
		BillTo:        r.Value(models.FieldBillTo),
		ShipTo:        r.Value(models.FieldShipTo),
		GST:           r.Value(models.FieldGST),
		CGST:          r.Value(models.FieldCGST),
		SGST:          r.Value(models.FieldSGST),
		IGST:          r.Value(models.FieldIGST),
		TotalValue:    r.Value(models.FieldTotalValue),
	}

	n := max(1, r.Items.Len())
	rows := make([]models.FlatRow, n)
	for i := range rows {
		row := base
		row.ItemDescription = at(r.Items.Description, i)
		row.Quantity = at(r.Items.Quantity, i)
		row.Unit = at(r.Items.Unit, i)
		row.UnitPrice = at(r.Items.UnitPrice, i)
		row.NetPrice = at(r.Items.NetPrice, i)
		rows[i] = row
	}
	return rows
}

func at(seq []string, i int) string {
	if i < len(seq) {
		return seq[i]
	}
	return ""
}
