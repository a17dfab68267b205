package mailparse

import (
	"bytes"
	"fmt"
	"io"
	"mime"
	"regexp"
	"strings"

	"po-extractor/internal/models"

	"github.com/emersion/go-message"
	_ "github.com/emersion/go-message/charset"
	"github.com/emersion/go-message/mail"
	"github.com/google/uuid"
)

var emailAddressRe = regexp.MustCompile(`[a-zA-Z0-9._%+-]+@[a-zA-Z0-9.-]+\.[a-zA-Z]{2,}`)

// Parse decodes a raw message into headers, plain-text body and attachments.
// Attachment payloads are decoded from their transfer encoding.
func Parse(raw *models.RawMessage) (*models.Email, error) {
	mr, err := mail.CreateReader(bytes.NewReader(raw.Body))
	if err != nil && !message.IsUnknownCharset(err) {
		return nil, err
	}

	email := &models.Email{
		UID:          raw.UID,
		InternalDate: raw.InternalDate,
		TraceID:      uuid.New().String(),
	}

	header := mr.Header

	// From is kept as displayed, the address separately for logging
	from := header.Get("From")
	if decoded, err := DecodeHeader(from); err == nil {
		from = decoded
	}
	email.From = from
	email.FromAddress = extractEmailAddress(from)

	// Decode Subject, falling back to the raw value
	subject := header.Get("Subject")
	if decoded, err := DecodeHeader(subject); err == nil {
		subject = decoded
	}
	email.Subject = subject
	email.Date = header.Get("Date")

	var body strings.Builder
	for {
		p, err := mr.NextPart()
		if err == io.EOF {
			break
		} else if err != nil && !message.IsUnknownCharset(err) {
			return nil, fmt.Errorf("error reading part: %w", err)
		}
		if p == nil {
			continue
		}

		disposition := p.Header.Get("Content-Disposition")
		if isAttachment(disposition) {
			email.Attachments = append(email.Attachments, readAttachment(p, disposition))
			continue
		}

		if h, ok := p.Header.(*mail.InlineHeader); ok {
			contentType, _, err := h.ContentType()
			if err != nil {
				continue
			}
			if contentType == "text/plain" {
				text, err := io.ReadAll(p.Body)
				if err != nil {
					continue
				}
				body.Write(text)
			}
		}
	}
	email.BodyText = body.String()

	return email, nil
}

// isAttachment follows the Content-Disposition header only
func isAttachment(disposition string) bool {
	return strings.Contains(strings.ToLower(disposition), "attachment")
}

// readAttachment never fails: a payload that cannot be decoded is kept with
// DecodeErr set so the other parts of the message are still read
func readAttachment(p *mail.Part, disposition string) models.Attachment {
	att := models.Attachment{
		Disposition: disposition,
		Filename:    partFilename(p),
	}

	if contentType, _, err := mime.ParseMediaType(p.Header.Get("Content-Type")); err == nil {
		att.ContentType = contentType
	}

	data, err := io.ReadAll(p.Body)
	if err != nil {
		att.DecodeErr = fmt.Errorf("error reading attachment %q: %w", att.Filename, err)
		return att
	}
	att.Data = data

	return att
}

// partFilename prefers the Content-Disposition filename and falls back to the Content-Type name
func partFilename(p *mail.Part) string {
	switch h := p.Header.(type) {
	case *mail.AttachmentHeader:
		if name, err := h.Filename(); err == nil && name != "" {
			return name
		}
	case *mail.InlineHeader:
		if _, params, err := h.ContentDisposition(); err == nil && params["filename"] != "" {
			return params["filename"]
		}
	}

	if _, params, err := mime.ParseMediaType(p.Header.Get("Content-Type")); err == nil && params["name"] != "" {
		if decoded, err := DecodeHeader(params["name"]); err == nil {
			return decoded
		}
		return params["name"]
	}

	return ""
}

// Simple regex to extract email address from "From" header, which may contain name and email
func extractEmailAddress(fromHeader string) string {
	return emailAddressRe.FindString(fromHeader)
}

// DecodeHeader decodes MIME-encoded headers (e.g., "=?UTF-8?B?...?=") to plain text
func DecodeHeader(encoded string) (string, error) {
	decoder := new(mime.WordDecoder)
	decoded, err := decoder.DecodeHeader(encoded)
	if err != nil {
		return "", err
	}
	return decoded, nil
}
