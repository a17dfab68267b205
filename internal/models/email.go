package models

import "time"

// RawMessage is a message as returned by the mailbox, before MIME decoding
type RawMessage struct {
	UID          uint32
	InternalDate time.Time
	Body         []byte
}

// Email represents a normalized parsed email message
type Email struct {
	UID          uint32
	From         string
	FromAddress  string
	Subject      string
	Date         string
	BodyText     string
	InternalDate time.Time
	TraceID      string
	Attachments  []Attachment
}

// Attachment is a body part whose Content-Disposition marks it as an attachment.
// Data is already decoded from its transfer encoding; when decoding failed,
// DecodeErr is set and Data is nil.
type Attachment struct {
	Filename    string
	ContentType string
	Disposition string
	Data        []byte
	DecodeErr   error
}

// HasAttachments reports whether the message carries at least one attachment
func (e *Email) HasAttachments() bool {
	return len(e.Attachments) > 0
}
