package models

// FlatRow is one spreadsheet row: the record scalars plus at most one line item
type FlatRow struct {
	EmailFrom       string
	EmailSubject    string
	Date            string
	VendorNumber    string
	OrderNumber     string
	OrderDate       string
	VendorAddress   string
	BillTo          string
	ShipTo          string
	ItemDescription string
	Quantity        string
	Unit            string
	UnitPrice       string
	NetPrice        string
	GST             string
	CGST            string
	SGST            string
	IGST            string
	TotalValue      string
}

// FlatRowHeaders are the column titles, in the same order as FlatRow.Values
var FlatRowHeaders = []string{
	"Email From",
	"Email Subject",
	"Date",
	"Vendor Number",
	"Purchase Order Number",
	"Order Date",
	"Vendor Address",
	"Bill To",
	"Ship To",
	"Item Description",
	"Quantity",
	"Unit",
	"Unit Price",
	"Net Price",
	"GST",
	"CGST",
	"SGST",
	"IGST",
	"Total Value",
}

// Values returns the row cells in FlatRowHeaders order
func (r FlatRow) Values() []string {
	return []string{
		r.EmailFrom,
		r.EmailSubject,
		r.Date,
		r.VendorNumber,
		r.OrderNumber,
		r.OrderDate,
		r.VendorAddress,
		r.BillTo,
		r.ShipTo,
		r.ItemDescription,
		r.Quantity,
		r.Unit,
		r.UnitPrice,
		r.NetPrice,
		r.GST,
		r.CGST,
		r.SGST,
		r.IGST,
		r.TotalValue,
	}
}
