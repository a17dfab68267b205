package extract

import (
	"testing"

	"po-extractor/internal/config"
	"po-extractor/internal/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const anchoredPO = `PURCHASE ORDER
PO Number 98765
PO Date 12.03.2025
Vendor Code V-1001
Vendor Address: Acme Industrial Supplies
Plot 7, MIDC
Pune 411019
Bill To: Buyer Pvt Ltd
221 Residency Road
Ship To: Buyer Warehouse
Gate 3, Hosur
Qty   Unit   Unit Price   Net Price
10  EA  1,250.00  12,500.00
5    BOX    300.00    1,500.00
Freight charges extra
2  KG  40.00
CGST @ 9% 1,260.00
SGST @ 9% 1,260.00
Total Order Value ( INR ) 16,520.00`

func defaultAnchoredStrategy(t *testing.T) *AnchoredStrategy {
	t.Helper()
	s, err := NewAnchoredStrategy(config.Default().Extraction.Anchored)
	require.NoError(t, err)
	return s
}

func TestAnchoredStrategy_PONumber(t *testing.T) {
	s := defaultAnchoredStrategy(t)

	record := s.Extract(textDocument("Reference PO Number 98765 dated today"))
	v, ok := record.Get(models.FieldOrderNumber)
	assert.True(t, ok)
	assert.Equal(t, "98765", v)

	record = s.Extract(textDocument("Reference 98765 dated today"))
	_, ok = record.Get(models.FieldOrderNumber)
	assert.False(t, ok, "missing anchor must leave the field absent, not empty")
}

func TestAnchoredStrategy_FullDocument(t *testing.T) {
	s := defaultAnchoredStrategy(t)

	record := s.Extract(textDocument(anchoredPO))

	assert.Equal(t, "98765", record.Value(models.FieldOrderNumber))
	assert.Equal(t, "12.03.2025", record.Value(models.FieldOrderDate))
	assert.Equal(t, "V-1001", record.Value(models.FieldVendorNumber))
	assert.Equal(t, "Acme Industrial Supplies\nPlot 7, MIDC\nPune 411019", record.Value(models.FieldVendorAddress))
	assert.Equal(t, "Buyer Pvt Ltd\n221 Residency Road", record.Value(models.FieldBillTo))
	assert.Equal(t, "Buyer Warehouse\nGate 3, Hosur", record.Value(models.FieldShipTo))
	assert.Equal(t, "1,260.00", record.Value(models.FieldCGST))
	assert.Equal(t, "1,260.00", record.Value(models.FieldSGST))
	assert.Equal(t, "16,520.00", record.Value(models.FieldTotalValue), "totals keep their formatting")

	_, ok := record.Get(models.FieldGST)
	assert.False(t, ok, "CGST/SGST lines must not be read as GST")
	_, ok = record.Get(models.FieldIGST)
	assert.False(t, ok)

	require.Equal(t, 2, record.Items.Len())
	assert.Equal(t, []string{"Item", "Item"}, record.Items.Description)
	assert.Equal(t, []string{"10", "5"}, record.Items.Quantity)
	assert.Equal(t, []string{"EA", "BOX"}, record.Items.Unit)
	assert.Equal(t, []string{"1250.00", "300.00"}, record.Items.UnitPrice)
	assert.Equal(t, []string{"12500.00", "1500.00"}, record.Items.NetPrice)
}

func TestAnchoredStrategy_SpansPages(t *testing.T) {
	s := defaultAnchoredStrategy(t)

	record := s.Extract(textDocument(
		"PO Number 111\nQty  Unit  Unit Price  Net Price\n1  EA  10.00  10.00",
		"",
		"2  EA  20.00  40.00\nTotal Order Value ( INR ) 50.00",
	))

	assert.Equal(t, "111", record.Value(models.FieldOrderNumber))
	assert.Equal(t, "50.00", record.Value(models.FieldTotalValue))
	assert.Equal(t, []string{"1", "2"}, record.Items.Quantity)
}

func TestAnchoredStrategy_NoItemBlock(t *testing.T) {
	s := defaultAnchoredStrategy(t)

	record := s.Extract(textDocument("PO Number 5\n1  EA  10.00  10.00"))
	assert.Equal(t, 0, record.Items.Len())
	assert.Empty(t, record.Items.Quantity)
}

func TestAnchoredStrategy_EmptyDocument(t *testing.T) {
	s := defaultAnchoredStrategy(t)

	record := s.Extract(fakeDocument{})
	for _, field := range models.ScalarFields {
		_, ok := record.Get(field)
		assert.False(t, ok, "field %s", field)
	}
}

func TestAnchoredStrategy_CustomPlaceholderAndPatterns(t *testing.T) {
	cfg := models.AnchoredConfig{
		ItemDescription: "See PDF",
		Patterns: map[models.Field]string{
			models.FieldOrderNumber: `Order\s*#\s*(\w+)`,
			models.FieldShipTo:      "",
		},
		ItemBlock: `(?s)ITEMS\n(.*?)\nEND`,
	}
	s, err := NewAnchoredStrategy(cfg)
	require.NoError(t, err)

	record := s.Extract(textDocument("Order # A17\nITEMS\n3  PC  1,000  3,000  extra\nEND"))

	assert.Equal(t, "A17", record.Value(models.FieldOrderNumber))
	assert.Equal(t, []string{"See PDF"}, record.Items.Description)
	assert.Equal(t, []string{"1000"}, record.Items.UnitPrice)
	assert.Equal(t, []string{"3000"}, record.Items.NetPrice)
}

func TestNewAnchoredStrategy_InvalidPattern(t *testing.T) {
	_, err := NewAnchoredStrategy(models.AnchoredConfig{
		Patterns: map[models.Field]string{models.FieldOrderNumber: `PO (\d+`},
	})
	assert.Error(t, err)

	_, err = NewAnchoredStrategy(models.AnchoredConfig{ItemBlock: `(`})
	assert.Error(t, err)
}
