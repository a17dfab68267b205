package selection

import (
	"fmt"
	"strings"

	"po-extractor/internal/config"
	"po-extractor/internal/models"
)

// Policy decides whether one attachment of a message is a purchase order to extract
type Policy interface {
	Name() string
	Accept(email *models.Email, att models.Attachment) bool
}

// New returns the policy named in the configuration
func New(cfg models.SelectionConfig) (Policy, error) {
	switch cfg.Policy {
	case config.PolicyBodyKeyword:
		return &BodyKeywordPolicy{Keyword: cfg.Keyword}, nil
	case config.PolicyFilenamePhrase:
		return &FilenamePhrasePolicy{Phrase: cfg.Phrase}, nil
	default:
		return nil, fmt.Errorf("unknown selection policy %q", cfg.Policy)
	}
}

// BodyKeywordPolicy accepts PDF attachments of messages whose plain-text body mentions the keyword
type BodyKeywordPolicy struct {
	Keyword string
}

func (p *BodyKeywordPolicy) Name() string {
	return config.PolicyBodyKeyword
}

// Accept requires at least one attachment, the keyword in the body (case-insensitive) and a PDF filename
func (p *BodyKeywordPolicy) Accept(email *models.Email, att models.Attachment) bool {
	if !email.HasAttachments() {
		return false
	}
	if !containsFold(email.BodyText, p.Keyword) {
		return false
	}
	return IsPDF(att.Filename)
}

// FilenamePhrasePolicy accepts PDF attachments whose filename contains the phrase. The body is ignored.
type FilenamePhrasePolicy struct {
	Phrase string
}

func (p *FilenamePhrasePolicy) Name() string {
	return config.PolicyFilenamePhrase
}

func (p *FilenamePhrasePolicy) Accept(_ *models.Email, att models.Attachment) bool {
	return IsPDF(att.Filename) && containsFold(att.Filename, p.Phrase)
}

// IsPDF checks the filename extension only
func IsPDF(filename string) bool {
	return strings.HasSuffix(strings.ToLower(filename), ".pdf")
}

func containsFold(s, substr string) bool {
	return strings.Contains(strings.ToLower(s), strings.ToLower(substr))
}
