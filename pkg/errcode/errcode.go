package errcode

import "fmt"

// Error represents a business error
type Error struct {
	Code int    `json:"code"`
	Msg  string `json:"msg"`
}

func (e *Error) Error() string {
	return fmt.Sprintf("errcode: %d, msg: %s", e.Code, e.Msg)
}

// New creates a new error with code and message
func New(code int, msg string) *Error {
	return &Error{Code: code, Msg: msg}
}

// Wrap wraps an error with additional context
func (e *Error) Wrap(err error) *Error {
	if err == nil {
		return e
	}
	return &Error{
		Code: e.Code,
		Msg:  fmt.Sprintf("%s: %v", e.Msg, err),
	}
}

// Is allows errors.Is matching by code
func (e *Error) Is(target error) bool {
	t, ok := target.(*Error)
	return ok && t.Code == e.Code
}

// Common error codes
var (
	// Success
	ErrSuccess = New(0, "success")

	// Validation errors (1xxx)
	ErrInvalidParam     = New(1001, "invalid parameter")
	ErrInternalServer   = New(1002, "internal server error")
	ErrNotFound         = New(1003, "not found")
	ErrInvalidDateRange = New(1004, "check-in date must be before check-out date")
	ErrNoRecipient      = New(1005, "no resolvable recipient")

	// Auth errors (2xxx)
	ErrTokenInvalid      = New(2001, "token invalid")
	ErrTokenExpired      = New(2002, "token expired")
	ErrCredentialMissing = New(2003, "credential missing")
	ErrLoginFailed       = New(2004, "login failed")
	ErrUserNotFound      = New(2005, "user not found")

	// Booking errors (3xxx)
	ErrPropertyUnavailable = New(3001, "property unavailable for the requested dates")
	ErrPropertyNotFound    = New(3002, "property not found")
	ErrBookingNotFound     = New(3003, "booking not found")
	ErrBookingRejected     = New(3004, "booking rejected by server")

	// Message errors (4xxx)
	ErrEmptyMessage = New(4001, "message content is empty")
	ErrConvNotFound = New(4002, "conversation not found")
	ErrConvClosed   = New(4003, "no open conversation")
	ErrSendFailed   = New(4004, "message send failed")

	// Channel errors (5xxx)
	ErrNotConnected    = New(5001, "channel not connected")
	ErrConnClosed      = New(5002, "connection closed")
	ErrInvalidProtocol = New(5003, "invalid protocol")
	ErrAckTimeout      = New(5004, "acknowledgement timeout")
)
