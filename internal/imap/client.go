package imap

import (
	"fmt"
	"io"
	"net"
	"time"

	"po-extractor/internal/models"

	"github.com/emersion/go-imap"
	"github.com/emersion/go-imap/client"
)

type StandardClient struct {
	client  *client.Client
	timeout time.Duration
}

// NewStandardClient creates a new StandardClient whose dial and commands are bounded by timeout.
// A non-positive timeout falls back to 30 seconds.
func NewStandardClient(timeout time.Duration) *StandardClient {
	if timeout <= 0 {
		timeout = 30 * time.Second
	}
	return &StandardClient{
		timeout: timeout,
	}
}

// Connect establishes a secure connection to the IMAP server using TLS. It returns an error if the connection fails.
func (c *StandardClient) Connect(server string) error {
	dialer := &net.Dialer{Timeout: c.timeout}
	cl, err := client.DialWithDialerTLS(dialer, server, nil)
	if err != nil {
		return fmt.Errorf("IMAP connection error: %w", err)
	}
	cl.Timeout = c.timeout
	c.client = cl
	return nil
}

// Login authenticates the user with the IMAP server using the provided username and password. It returns an error if authentication fails or if there is no active connection.
func (c *StandardClient) Login(user, password string) error {
	if c.client == nil {
		return fmt.Errorf("not connected")
	}
	return c.client.Login(user, password)
}

// SelectMailbox selects the specified mailbox (e.g., "INBOX") read-only, so fetching never changes flags.
func (c *StandardClient) SelectMailbox(name string) error {
	if c.client == nil {
		return fmt.Errorf("not connected")
	}
	_, err := c.client.Select(name, true)
	return err
}

// SearchRange retrieves the UIDs of messages whose internal date falls within the range, in server order.
func (c *StandardClient) SearchRange(r models.DateRange) ([]uint32, error) {
	if c.client == nil {
		return nil, fmt.Errorf("not connected")
	}

	uids, err := c.client.UidSearch(criteriaFor(r))
	if err != nil {
		return nil, fmt.Errorf("error searching messages: %w", err)
	}

	return uids, nil
}

// criteriaFor builds SINCE/BEFORE criteria. BEFORE is exclusive, hence the widened upper bound.
func criteriaFor(r models.DateRange) *imap.SearchCriteria {
	criteria := imap.NewSearchCriteria()
	criteria.Since = r.Since()
	criteria.Before = r.Before()
	return criteria
}

// FetchMessage retrieves the full RFC 822 bytes of the message with the specified UID without marking it as seen.
func (c *StandardClient) FetchMessage(uid uint32) (*models.RawMessage, error) {
	if c.client == nil {
		return nil, fmt.Errorf("not connected")
	}

	seqSet := new(imap.SeqSet)
	seqSet.AddNum(uid)

	section := &imap.BodySectionName{Peek: true}
	items := []imap.FetchItem{section.FetchItem(), imap.FetchInternalDate, imap.FetchUid}

	messages := make(chan *imap.Message, 1)
	done := make(chan error, 1)

	go func() {
		done <- c.client.UidFetch(seqSet, items, messages)
	}()

	var msg *imap.Message
	for m := range messages {
		msg = m
	}

	if err := <-done; err != nil {
		return nil, fmt.Errorf("error fetching message UID %d: %w", uid, err)
	}

	if msg == nil {
		return nil, fmt.Errorf("no message retrieved for UID %d", uid)
	}

	r := msg.GetBody(section)
	if r == nil {
		return nil, fmt.Errorf("message UID %d has no body", uid)
	}

	body, err := io.ReadAll(r)
	if err != nil {
		return nil, fmt.Errorf("error reading message UID %d: %w", uid, err)
	}

	return &models.RawMessage{
		UID:          uid,
		InternalDate: msg.InternalDate,
		Body:         body,
	}, nil
}

// Close logs out from the IMAP server and closes the connection. If there is no active connection, it simply returns nil.
func (c *StandardClient) Close() error {
	if c.client == nil {
		return nil
	}
	err := c.client.Logout()
	c.client = nil
	return err
}
