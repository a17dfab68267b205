package models

import "time"

// Config represents the application configuration
type Config struct {
	LogLevel   string           `yaml:"logLevel"`
	Email      EmailConfig      `yaml:"email"`
	Selection  SelectionConfig  `yaml:"selection"`
	Extraction ExtractionConfig `yaml:"extraction"`
	Output     OutputConfig     `yaml:"output"`
	Server     ServerConfig     `yaml:"server"`
}

// EmailConfig represents IMAP email configuration. Credentials are never part of it.
type EmailConfig struct {
	Imap       string        `yaml:"imap"`
	MailBox    string        `yaml:"mailbox"`
	Timeout    time.Duration `yaml:"timeout"`
	RunTimeout time.Duration `yaml:"runTimeout"`
}

// SelectionConfig chooses which attachments are handed to the extractor
type SelectionConfig struct {
	Policy  string `yaml:"policy"`
	Keyword string `yaml:"keyword"`
	Phrase  string `yaml:"phrase"`
}

// ExtractionConfig selects and tunes the field extraction strategy
type ExtractionConfig struct {
	Strategy string              `yaml:"strategy"`
	Labels   []LabelGroup        `yaml:"labels"`
	Columns  map[string][]string `yaml:"columns"`
	Table    TableConfig         `yaml:"table"`
	Anchored AnchoredConfig      `yaml:"anchored"`
}

// LabelGroup binds a record field to the line labels that announce it
type LabelGroup struct {
	Field  Field    `yaml:"field"`
	Labels []string `yaml:"labels"`
}

// TableConfig tunes how rows of page text are split into table cells
type TableConfig struct {
	MinColumns int     `yaml:"minColumns"`
	CellGap    float64 `yaml:"cellGap"`
	CharWidth  float64 `yaml:"charWidth"`
}

// AnchoredConfig holds the label-anchored patterns
type AnchoredConfig struct {
	ItemDescription string           `yaml:"itemDescription"`
	Patterns        map[Field]string `yaml:"patterns"`
	ItemBlock       string           `yaml:"itemBlock"`
}

// OutputConfig describes the exported spreadsheet
type OutputConfig struct {
	File  string `yaml:"file"`
	Sheet string `yaml:"sheet"`
}

// ServerConfig is used by the local browser surface
type ServerConfig struct {
	Listen string `yaml:"listen"`
}
