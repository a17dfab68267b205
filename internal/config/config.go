package config

import (
	"fmt"
	"os"
	"regexp"
	"time"

	"po-extractor/internal/models"

	"gopkg.in/yaml.v2"
)

const (
	StrategyKeyword  = "keyword"
	StrategyAnchored = "anchored"

	PolicyBodyKeyword    = "body-keyword"
	PolicyFilenamePhrase = "filename-phrase"

	DefaultConfigFile = "config.yaml"
	DefaultOutputFile = "purchase_order_summary.xlsx"
)

// Load reads the configuration from the specified YAML file on top of Default()
func Load(filepath string) (*models.Config, error) {
	configFile, err := os.ReadFile(filepath)
	if err != nil {
		return nil, err
	}

	config := Default()
	if err := yaml.Unmarshal(configFile, config); err != nil {
		return nil, err
	}

	return config, nil
}

// Default returns a configuration that works against Gmail with the keyword strategy
func Default() *models.Config {
	return &models.Config{
		LogLevel: "info",
		Email: models.EmailConfig{
			Imap:       "imap.gmail.com:993",
			MailBox:    "INBOX",
			Timeout:    30 * time.Second,
			RunTimeout: 5 * time.Minute,
		},
		Selection: models.SelectionConfig{
			Policy:  PolicyBodyKeyword,
			Keyword: "discussion",
			Phrase:  "purchase order",
		},
		Extraction: models.ExtractionConfig{
			Strategy: StrategyKeyword,
			Labels: []models.LabelGroup{
				{Field: models.FieldVendorNumber, Labels: []string{"Vendor Number"}},
				{Field: models.FieldOrderNumber, Labels: []string{"Purchase Order"}},
				{Field: models.FieldVendorAddress, Labels: []string{"Vendor Address"}},
				{Field: models.FieldGST, Labels: []string{"GST"}},
				{Field: models.FieldTotalValue, Labels: []string{"Total Value", "Grand Total"}},
			},
			Columns: map[string][]string{
				string(models.ColumnDescription): {"description", "item description"},
				string(models.ColumnQuantity):    {"quantity", "qty"},
				string(models.ColumnUnit):        {"unit", "uom"},
				string(models.ColumnUnitPrice):   {"unit price", "rate"},
				string(models.ColumnNetPrice):    {"net price", "amount"},
			},
			Table: models.TableConfig{
				MinColumns: 3,
				CellGap:    6,
				CharWidth:  5,
			},
			Anchored: models.AnchoredConfig{
				ItemDescription: "Item",
				Patterns:        DefaultPatterns(),
				ItemBlock:       `(?s)Qty\s+Unit\s+Unit\s*Price\s+Net\s*Price[^\n]*\n(.*?)\n[^\n]*Total\s*Order\s*Value`,
			},
		},
		Output: models.OutputConfig{
			File:  DefaultOutputFile,
			Sheet: "Purchase Orders",
		},
		Server: models.ServerConfig{
			Listen: "127.0.0.1:8501",
		},
	}
}

// DefaultPatterns are the label anchors of the supported purchase order layout
func DefaultPatterns() map[models.Field]string {
	return map[models.Field]string{
		models.FieldOrderNumber:   `PO\s*(?:Number|No\.?)\s*[:\-]?\s*(\d+)`,
		models.FieldVendorNumber:  `Vendor\s*(?:Code|Number|No\.?)\s*[:\-]?\s*([A-Za-z0-9\-]+)`,
		models.FieldOrderDate:     `PO\s*Date\s*[:\-]?\s*(\d{1,2}[./\-]\d{1,2}[./\-]\d{2,4}|\d{1,2}[\- ][A-Za-z]{3}[\- ]\d{2,4})`,
		models.FieldVendorAddress: `(?s)Vendor\s*Address\s*:?\s*(.*?)\s*Bill\s*To`,
		models.FieldBillTo:        `(?s)Bill\s*To\s*:?\s*(.*?)\s*Ship\s*To`,
		models.FieldShipTo:        `(?s)Ship\s*To\s*:?\s*(.*?)\n\s*Qty\b`,
		models.FieldGST:           `\bGST\s*(?:@\s*[\d.]+\s*%)?\s*[:\-]?\s*([\d,]+\.\d{2})`,
		models.FieldCGST:          `CGST\s*(?:@\s*[\d.]+\s*%)?\s*[:\-]?\s*([\d,]+\.\d{2})`,
		models.FieldSGST:          `SGST\s*(?:@\s*[\d.]+\s*%)?\s*[:\-]?\s*([\d,]+\.\d{2})`,
		models.FieldIGST:          `IGST\s*(?:@\s*[\d.]+\s*%)?\s*[:\-]?\s*([\d,]+\.\d{2})`,
		models.FieldTotalValue:    `Total\s*Order\s*Value\s*\(\s*INR\s*\)\s*[:\-]?\s*([\d,]+(?:\.\d+)?)`,
	}
}

// Validate checks names, durations and patterns before any network call
func Validate(cfg *models.Config) error {
	if cfg.Email.Imap == "" {
		return fmt.Errorf("email.imap must not be empty")
	}
	if cfg.Email.MailBox == "" {
		return fmt.Errorf("email.mailbox must not be empty")
	}
	if cfg.Email.Timeout <= 0 {
		return fmt.Errorf("email.timeout must be positive")
	}
	if cfg.Email.RunTimeout <= 0 {
		return fmt.Errorf("email.runTimeout must be positive")
	}

	switch cfg.Selection.Policy {
	case PolicyBodyKeyword:
		if cfg.Selection.Keyword == "" {
			return fmt.Errorf("selection.keyword is required by policy %s", PolicyBodyKeyword)
		}
	case PolicyFilenamePhrase:
		if cfg.Selection.Phrase == "" {
			return fmt.Errorf("selection.phrase is required by policy %s", PolicyFilenamePhrase)
		}
	default:
		return fmt.Errorf("unknown selection policy %q (must be %s or %s)",
			cfg.Selection.Policy, PolicyBodyKeyword, PolicyFilenamePhrase)
	}

	switch cfg.Extraction.Strategy {
	case StrategyKeyword:
		for _, group := range cfg.Extraction.Labels {
			if !group.Field.IsKnown() {
				return fmt.Errorf("unknown field %q in extraction.labels", group.Field)
			}
		}
		for col := range cfg.Extraction.Columns {
			if !isItemColumn(col) {
				return fmt.Errorf("unknown item column %q in extraction.columns", col)
			}
		}
	case StrategyAnchored:
		for field, pattern := range cfg.Extraction.Anchored.Patterns {
			if !field.IsKnown() {
				return fmt.Errorf("unknown field %q in extraction.anchored.patterns", field)
			}
			if _, err := regexp.Compile(pattern); err != nil {
				return fmt.Errorf("invalid pattern for %s: %w", field, err)
			}
		}
		if _, err := regexp.Compile(cfg.Extraction.Anchored.ItemBlock); err != nil {
			return fmt.Errorf("invalid extraction.anchored.itemBlock: %w", err)
		}
	default:
		return fmt.Errorf("unknown extraction strategy %q (must be %s or %s)",
			cfg.Extraction.Strategy, StrategyKeyword, StrategyAnchored)
	}

	if cfg.Output.File == "" {
		return fmt.Errorf("output.file must not be empty")
	}

	return nil
}

func isItemColumn(name string) bool {
	for _, col := range models.ItemColumns {
		if string(col) == name {
			return true
		}
	}
	return false
}
