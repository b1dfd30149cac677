package mail

import (
	"errors"
	"net/textproto"
	"strings"

	gomail "gopkg.in/mail.v2"
)

// Kind tags a transport failure
type Kind int

const (
	KindTransport Kind = iota
	KindAuth
)

func (k Kind) String() string {
	if k == KindAuth {
		return "auth"
	}
	return "transport"
}

// authCodes are SMTP replies that mean the server rejected our credentials
var authCodes = map[int]struct{}{
	530: {},
	534: {},
	535: {},
}

// ErrorInfo is the structured description of a failure handed to Classify
type ErrorInfo struct {
	Code    int // SMTP reply code, 0 when the failure happened below the protocol
	Message string
}

// Classify decides whether a failure is an authentication rejection.
// Matching "auth" in the message is a heuristic and can misfire on unrelated text.
func Classify(info ErrorInfo) Kind {
	if _, ok := authCodes[info.Code]; ok {
		return KindAuth
	}
	if strings.Contains(strings.ToLower(info.Message), "auth") {
		return KindAuth
	}
	return KindTransport
}

// AuthError is returned when the server rejects the credentials
type AuthError struct {
	Info ErrorInfo
	Err  error
}

func (e *AuthError) Error() string { return e.Info.Message }
func (e *AuthError) Unwrap() error { return e.Err }

// TransportError covers every other delivery or connection failure
type TransportError struct {
	Info ErrorInfo
	Err  error
}

func (e *TransportError) Error() string { return e.Info.Message }
func (e *TransportError) Unwrap() error { return e.Err }

// Describe extracts the reply code and message from a transport error.
// gomail wraps per-message failures in a SendError; the cause is reported instead.
func Describe(err error) ErrorInfo {
	var sendErr *gomail.SendError
	if errors.As(err, &sendErr) && sendErr.Cause != nil {
		err = sendErr.Cause
	}

	info := ErrorInfo{Message: err.Error()}
	var protoErr *textproto.Error
	if errors.As(err, &protoErr) {
		info.Code = protoErr.Code
	}
	return info
}

// Wrap converts a raw transport error into an AuthError or TransportError
func Wrap(err error) error {
	if err == nil {
		return nil
	}

	var authErr *AuthError
	var transportErr *TransportError
	if errors.As(err, &authErr) || errors.As(err, &transportErr) {
		return err
	}

	info := Describe(err)
	if Classify(info) == KindAuth {
		return &AuthError{Info: info, Err: err}
	}
	return &TransportError{Info: info, Err: err}
}

// IsAuth reports whether err is an authentication failure
func IsAuth(err error) bool {
	var authErr *AuthError
	return errors.As(err, &authErr)
}
