package aggregate

import (
	"bytes"
	"errors"
	"strings"
	"testing"
	"time"

	"po-extractor/internal/extract"
	"po-extractor/internal/models"

	"github.com/jhillyerd/enmime"
	"github.com/stretchr/testify/require"
)

// fakeClient serves prebuilt messages and records how it was driven
type fakeClient struct {
	connectErr error
	loginErr   error
	selectErr  error
	searchErr  error

	messages map[uint32][]byte
	order    []uint32
	fetchErr map[uint32]error
	dates    map[uint32]time.Time

	calls    []string
	user     string
	password string
	searched models.DateRange
	closed   int
	fetched  []uint32
}

func (c *fakeClient) Connect(server string) error {
	c.calls = append(c.calls, "connect "+server)
	return c.connectErr
}

func (c *fakeClient) Login(user, password string) error {
	c.calls = append(c.calls, "login")
	c.user, c.password = user, password
	return c.loginErr
}

func (c *fakeClient) SelectMailbox(name string) error {
	c.calls = append(c.calls, "select "+name)
	return c.selectErr
}

func (c *fakeClient) SearchRange(r models.DateRange) ([]uint32, error) {
	c.calls = append(c.calls, "search")
	c.searched = r
	if c.searchErr != nil {
		return nil, c.searchErr
	}
	return c.order, nil
}

func (c *fakeClient) FetchMessage(uid uint32) (*models.RawMessage, error) {
	c.fetched = append(c.fetched, uid)
	if err := c.fetchErr[uid]; err != nil {
		return nil, err
	}
	body, ok := c.messages[uid]
	if !ok {
		return nil, errors.New("no such message")
	}
	return &models.RawMessage{UID: uid, InternalDate: c.dates[uid], Body: body}, nil
}

func (c *fakeClient) Close() error {
	c.closed++
	return nil
}

func (c *fakeClient) addDated(uid uint32, date time.Time, body []byte) {
	if c.dates == nil {
		c.dates = make(map[uint32]time.Time)
	}
	c.dates[uid] = date
	c.add(uid, body)
}

func (c *fakeClient) add(uid uint32, body []byte) {
	if c.messages == nil {
		c.messages = make(map[uint32][]byte)
	}
	c.messages[uid] = body
	c.order = append(c.order, uid)
}

// textOpener treats attachment bytes as the text of a single page.
// Payloads starting with "CORRUPT" cannot be opened.
type textOpener struct{}

type textPage string

func (p textPage) Text() string      { return string(p) }
func (p textPage) Table() [][]string { return nil }

type textDoc []extract.Page

func (d textDoc) Pages() []extract.Page { return d }

func (textOpener) Open(data []byte) (extract.Document, error) {
	if bytes.HasPrefix(data, []byte("CORRUPT")) {
		return nil, errors.New("xref table not found")
	}
	return textDoc{textPage(data)}, nil
}

type attachment struct {
	name string
	data string
}

func buildMessage(t *testing.T, subject, body string, attachments ...attachment) []byte {
	t.Helper()

	b := enmime.Builder().
		From("Vendor Desk", "orders@vendor.example.com").
		To("Buyer", "buyer@example.com").
		Subject(subject).
		Date(time.Date(2025, time.March, 3, 10, 0, 0, 0, time.UTC)).
		Text([]byte(body))

	for _, att := range attachments {
		contentType := "application/octet-stream"
		if strings.HasSuffix(strings.ToLower(att.name), ".pdf") {
			contentType = "application/pdf"
		}
		b = b.AddAttachment([]byte(att.data), contentType, att.name)
	}

	root, err := b.Build()
	require.NoError(t, err)

	var buf bytes.Buffer
	require.NoError(t, root.Encode(&buf))
	return buf.Bytes()
}
