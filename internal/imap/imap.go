package imap

import (
	"po-extractor/internal/models"
)

// Client is the message selector: a scoped mailbox session that can search a
// date range and fetch raw messages by UID
type Client interface {
	Connect(server string) error
	Login(user, password string) error
	SelectMailbox(name string) error
	SearchRange(r models.DateRange) ([]uint32, error)
	FetchMessage(uid uint32) (*models.RawMessage, error)
	Close() error
}
