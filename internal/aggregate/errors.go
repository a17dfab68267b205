package aggregate

import (
	"errors"
	"fmt"
)

// ErrInvalidInput is returned before any network call when the run input is incomplete
var ErrInvalidInput = errors.New("invalid input")

// MailboxError is a connection-level failure: connect, login, select or search
type MailboxError struct {
	Op  string
	Err error
}

func (e *MailboxError) Error() string {
	return fmt.Sprintf("mailbox %s failed: %v", e.Op, e.Err)
}

func (e *MailboxError) Unwrap() error {
	return e.Err
}
