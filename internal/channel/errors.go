package channel

import "errors"

// Channel errors
var (
	ErrConnClosed       = errors.New("connection closed")
	ErrWriteChannelFull = errors.New("write channel full")
	ErrInvalidProtocol  = errors.New("invalid protocol")
	ErrAckTimeout       = errors.New("acknowledgement timeout")
	ErrAckRejected      = errors.New("acknowledgement rejected")
)
