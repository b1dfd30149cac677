package campaign

import (
	"errors"
	"fmt"
)

var (
	ErrTemplateNotFound = errors.New("template not found")
	ErrContactsNotFound = errors.New("contacts file not found")
	ErrEmptySubject     = errors.New("subject cannot be empty")
	ErrNoMailer         = errors.New("no mailer configured")
)

// AuthHint replaces the raw server message when the SMTP login is rejected
const AuthHint = "SMTP auth failed. Check EMAIL_ADDRESS and EMAIL_PASSWORD (use Gmail App Password if 2FA)."

// AuthFailedError carries the original auth error behind the remediation hint
type AuthFailedError struct {
	Err error
}

func (e *AuthFailedError) Error() string { return AuthHint }
func (e *AuthFailedError) Unwrap() error { return e.Err }

// SendFailedError reports the contact that stopped the run
type SendFailedError struct {
	Index int // 1-based position in the filtered list
	Total int
	Email string
	Err   error
}

func (e *SendFailedError) Error() string {
	return fmt.Sprintf("[%d/%d] failed to send to %s: %v", e.Index, e.Total, e.Email, e.Err)
}

func (e *SendFailedError) Unwrap() error { return e.Err }
