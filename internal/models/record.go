package models

// Field names a scalar value extracted from a purchase order
type Field string

const (
	FieldVendorNumber  Field = "vendor_number"
	FieldOrderNumber   Field = "order_number"
	FieldOrderDate     Field = "order_date"
	FieldVendorAddress Field = "vendor_address"
	FieldBillTo        Field = "bill_to"
	FieldShipTo        Field = "ship_to"
	FieldGST           Field = "gst"
	FieldCGST          Field = "cgst"
	FieldSGST          Field = "sgst"
	FieldIGST          Field = "igst"
	FieldTotalValue    Field = "total_value"
)

// ScalarFields lists every known scalar field in output order
var ScalarFields = []Field{
	FieldVendorNumber,
	FieldOrderNumber,
	FieldOrderDate,
	FieldVendorAddress,
	FieldBillTo,
	FieldShipTo,
	FieldGST,
	FieldCGST,
	FieldSGST,
	FieldIGST,
	FieldTotalValue,
}

// IsKnown reports whether f is one of ScalarFields
func (f Field) IsKnown() bool {
	for _, known := range ScalarFields {
		if f == known {
			return true
		}
	}
	return false
}

// ItemColumn names one of the parallel line-item sequences
type ItemColumn string

const (
	ColumnDescription ItemColumn = "description"
	ColumnQuantity    ItemColumn = "quantity"
	ColumnUnit        ItemColumn = "unit"
	ColumnUnitPrice   ItemColumn = "unit_price"
	ColumnNetPrice    ItemColumn = "net_price"
)

// ItemColumns lists the line-item sequences in output order
var ItemColumns = []ItemColumn{
	ColumnDescription,
	ColumnQuantity,
	ColumnUnit,
	ColumnUnitPrice,
	ColumnNetPrice,
}

// LineItems holds the parallel item sequences of one record. Index i in every
// slice describes the same item; slices may be shorter when extraction missed cells.
type LineItems struct {
	Description []string
	Quantity    []string
	Unit        []string
	UnitPrice   []string
	NetPrice    []string
}

// Append adds a value to the sequence named by col
func (li *LineItems) Append(col ItemColumn, value string) {
	switch col {
	case ColumnDescription:
		li.Description = append(li.Description, value)
	case ColumnQuantity:
		li.Quantity = append(li.Quantity, value)
	case ColumnUnit:
		li.Unit = append(li.Unit, value)
	case ColumnUnitPrice:
		li.UnitPrice = append(li.UnitPrice, value)
	case ColumnNetPrice:
		li.NetPrice = append(li.NetPrice, value)
	}
}

// Len is the driving length: the number of descriptions
func (li *LineItems) Len() int {
	return len(li.Description)
}

// Provenance describes the message an attachment came from
type Provenance struct {
	Subject string
	From    string
	Date    string
}

// Record is the extraction result for one document
type Record struct {
	fields map[Field]string
	Items  LineItems
	Source Provenance
}

// NewRecord returns an empty record with every field absent
func NewRecord() *Record {
	return &Record{fields: make(map[Field]string)}
}

// Set stores a scalar field value
func (r *Record) Set(f Field, value string) {
	if r.fields == nil {
		r.fields = make(map[Field]string)
	}
	r.fields[f] = value
}

// Get returns a scalar field value and whether it was found
func (r *Record) Get(f Field) (string, bool) {
	v, ok := r.fields[f]
	return v, ok
}

// Value returns the field value, or "" when the field is absent
func (r *Record) Value(f Field) string {
	return r.fields[f]
}
