// Package aggregate runs one extraction: it searches the mailbox for a date
// range, applies the selection policy to every attachment and extracts one
// record per accepted document.
package aggregate

import (
	"context"
	"fmt"

	"po-extractor/internal/extract"
	imapclient "po-extractor/internal/imap"
	"po-extractor/internal/logging"
	"po-extractor/internal/mailparse"
	"po-extractor/internal/models"
	"po-extractor/internal/selection"
)

// ClientFactory returns a fresh, unconnected mailbox client for each run
type ClientFactory func() imapclient.Client

// Opener is the document provider
type Opener interface {
	Open(data []byte) (extract.Document, error)
}

// Result is the outcome of a run. Records keep message order, then attachment order.
type Result struct {
	Records []*models.Record

	// Messages is the number of messages fetched and parsed
	Messages int
	// Skipped counts messages that could not be fetched or parsed
	Skipped int
	// OutOfRange counts messages the server returned whose internal date is outside the range
	OutOfRange int
	// Extracted and Failed count accepted attachments
	Extracted int
	Failed    int
	// Unselected counts attachments the selection policy rejected
	Unselected int
	// Truncated is set when the run deadline stopped the scan early
	Truncated bool
}

type Processor struct {
	server    string
	mailbox   string
	newClient ClientFactory
	policy    selection.Policy
	strategy  extract.Strategy
	opener    Opener
}

// NewProcessor creates a new Processor for the configured server and mailbox
func NewProcessor(cfg models.EmailConfig, newClient ClientFactory, policy selection.Policy, strategy extract.Strategy, opener Opener) *Processor {
	return &Processor{
		server:    cfg.Imap,
		mailbox:   cfg.MailBox,
		newClient: newClient,
		policy:    policy,
		strategy:  strategy,
		opener:    opener,
	}
}

// Run orchestrates one extraction: validate → connect → login → select →
// search → fetch/parse/select/extract per message. The connection is closed
// on every path. Connection-level failures are returned as *MailboxError;
// anything that goes wrong with a single message or attachment is logged and
// skipped.
func (p *Processor) Run(ctx context.Context, in models.RunInput) (*Result, error) {
	if err := in.Validate(); err != nil {
		return nil, fmt.Errorf("%w: %w", ErrInvalidInput, err)
	}

	client := p.newClient()
	defer func() {
		if err := client.Close(); err != nil {
			logging.Log.Debugf("Error closing mailbox connection: %v", err)
		}
	}()

	if err := client.Connect(p.server); err != nil {
		return nil, &MailboxError{Op: "connect", Err: err}
	}

	if err := client.Login(in.Address, in.Credential.Reveal()); err != nil {
		logging.Log.Errorf("Login error for %s: %v", in.Address, err)
		return nil, &MailboxError{Op: "login", Err: err}
	}

	if err := client.SelectMailbox(p.mailbox); err != nil {
		return nil, &MailboxError{Op: "select", Err: err}
	}

	uids, err := client.SearchRange(in.Range)
	if err != nil {
		return nil, &MailboxError{Op: "search", Err: err}
	}

	logging.Log.Infof("Found %d messages in %s between %s and %s",
		len(uids), p.mailbox, in.Range.Since().Format("2006-01-02"), in.Range.To.Format("2006-01-02"))

	result := &Result{}
	for i, uid := range uids {
		if err := ctx.Err(); err != nil {
			logging.Log.Warnf("Run stopped after %d of %d messages: %v", i, len(uids), err)
			result.Truncated = true
			break
		}
		p.processMessage(client, uid, in.Range, result)
	}

	logging.Log.Infof("Run finished: %d records from %d messages (%d skipped, %d out of range, %d attachments failed, %d not selected)",
		len(result.Records), result.Messages, result.Skipped, result.OutOfRange, result.Failed, result.Unselected)

	return result, nil
}

// processMessage fetches and parses one message and extracts every accepted attachment
func (p *Processor) processMessage(client imapclient.Client, uid uint32, r models.DateRange, result *Result) {
	raw, err := client.FetchMessage(uid)
	if err != nil {
		logging.Log.WithField("trace_id", "unknown").Errorf("Error fetching message UID %d: %v", uid, err)
		result.Skipped++
		return
	}

	// Servers compare dates in their own time zone; the range is in local days
	if !raw.InternalDate.IsZero() && !r.Contains(raw.InternalDate) {
		logging.Log.Debugf("Message UID %d dated %v is outside the range, skipping", uid, raw.InternalDate)
		result.OutOfRange++
		return
	}

	email, err := mailparse.Parse(raw)
	if err != nil {
		logging.Log.WithField("trace_id", "unknown").Errorf("Error parsing message UID %d: %v", uid, err)
		result.Skipped++
		return
	}
	result.Messages++

	locallog := logging.Log.WithField("trace_id", email.TraceID).WithField("from", email.FromAddress)

	for _, att := range email.Attachments {
		var record *models.Record
		outcome := models.OutcomeSkipped
		if p.policy.Accept(email, att) {
			record, outcome = p.extractAttachment(email, att)
		}

		switch outcome {
		case models.OutcomeSkipped:
			result.Unselected++
			locallog.Debugf("Attachment %q of UID %d not selected by %s", att.Filename, uid, p.policy.Name())
		case models.OutcomeExtracted:
			result.Records = append(result.Records, record)
			result.Extracted++
			locallog.Infof("Extracted %s from UID %d (%d items)", att.Filename, uid, record.Items.Len())
		case models.OutcomeFailed:
			result.Failed++
		}
	}
}

// extractAttachment opens one document and runs the strategy on it. Only a
// payload that could not be decoded or a document that cannot be opened fails.
func (p *Processor) extractAttachment(email *models.Email, att models.Attachment) (record *models.Record, outcome models.AttachmentOutcome) {
	locallog := logging.Log.WithField("trace_id", email.TraceID)

	defer func() {
		if r := recover(); r != nil {
			locallog.Errorf("Extraction of %s panicked: %v", att.Filename, r)
			record, outcome = nil, models.OutcomeFailed
		}
	}()

	if att.DecodeErr != nil {
		locallog.WithError(att.DecodeErr).Warnf("Cannot decode %s, skipping", att.Filename)
		return nil, models.OutcomeFailed
	}

	doc, err := p.opener.Open(att.Data)
	if err != nil {
		locallog.WithError(err).Warnf("Cannot read %s, skipping", att.Filename)
		return nil, models.OutcomeFailed
	}

	record = p.strategy.Extract(doc)
	record.Source = models.Provenance{
		Subject: email.Subject,
		From:    email.From,
		Date:    email.Date,
	}

	return record, models.OutcomeExtracted
}
