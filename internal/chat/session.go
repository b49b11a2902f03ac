package chat

import (
	"context"
	"sync"
	"sync/atomic"

	"github.com/mbeoliero/kit/log"

	"github.com/Iggy502/booking-web-sub000/internal/channel"
	"github.com/Iggy502/booking-web-sub000/internal/entity"
	"github.com/Iggy502/booking-web-sub000/pkg/errcode"
)

// Status is the session connection state
type Status int32

const (
	StatusDisconnected Status = iota
	StatusConnecting
	StatusConnected
)

func (s Status) String() string {
	switch s {
	case StatusConnecting:
		return "connecting"
	case StatusConnected:
		return "connected"
	default:
		return "disconnected"
	}
}

// Session owns the event channel lifecycle for one authenticated user:
// connect, teardown, and the dispatch of inbound frames as typed events.
// At most one connection is open at a time; reconnection is always
// caller-triggered, the session only reports that the connection is gone.
type Session struct {
	mu   sync.Mutex
	opts channel.Options
	conn *channel.Conn

	status atomic.Int32

	onStatus func(connected bool)
}

// NewSession creates a session. onStatus receives connection status
// changes consumable by the UI; it may be nil.
func NewSession(opts channel.Options, onStatus func(connected bool)) *Session {
	return &Session{
		opts:     opts,
		onStatus: onStatus,
	}
}

// Connect establishes the channel connection. Both credential parts are
// required; without them no connection attempt is made. Connecting while
// already connected is a no-op. The handler is attached per connection:
// nothing persists across a reconnect except what the caller passes in
// again.
func (s *Session) Connect(ctx context.Context, creds channel.Credentials, handler func(Event)) error {
	if creds.Token == "" || creds.UserId == "" {
		return errcode.ErrCredentialMissing
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if s.conn != nil && !s.conn.IsClosed() {
		return nil
	}

	s.setStatus(StatusConnecting)

	conn, err := channel.Dial(ctx, s.opts, creds, func(frame channel.Frame) {
		s.dispatch(frame, handler)
	}, func(err error) {
		if err != nil {
			log.Warn("channel connection lost: %v", err)
		}
		s.setStatus(StatusDisconnected)
	})
	if err != nil {
		s.setStatus(StatusDisconnected)
		return errcode.ErrNotConnected.Wrap(err)
	}

	s.conn = conn
	s.setStatus(StatusConnected)
	return nil
}

// dispatch converts a frame to a typed event and hands it to the handler.
// Frames that fail to decode are logged and dropped, never surfaced.
func (s *Session) dispatch(frame channel.Frame, handler func(Event)) {
	ev, err := DecodeEvent(frame)
	if err != nil {
		log.Warn("drop inbound frame: %v", err)
		return
	}
	if handler != nil {
		handler(ev)
	}
}

// Disconnect tears the connection down. Safe to call when already
// disconnected.
func (s *Session) Disconnect() {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.conn == nil {
		return
	}
	s.conn.Close()
	s.conn = nil
	s.setStatus(StatusDisconnected)
}

// Status returns the current connection status
func (s *Session) Status() Status {
	return Status(s.status.Load())
}

// Connected reports whether the channel is usable
func (s *Session) Connected() bool {
	return s.Status() == StatusConnected
}

// setStatus records a transition and notifies the status consumer on
// connected/disconnected edges
func (s *Session) setStatus(next Status) {
	prev := Status(s.status.Swap(int32(next)))
	if s.onStatus == nil {
		return
	}
	if prev != StatusConnected && next == StatusConnected {
		s.onStatus(true)
	} else if prev == StatusConnected && next != StatusConnected {
		s.onStatus(false)
	}
}

// Emit forwards a fire-and-forget event over the open connection
func (s *Session) Emit(event string, payload interface{}) error {
	conn := s.current()
	if conn == nil {
		return errcode.ErrNotConnected
	}
	return conn.Emit(event, payload)
}

// EmitWithAck forwards an acknowledged event over the open connection
func (s *Session) EmitWithAck(ctx context.Context, event string, payload interface{}) (channel.AckResult, error) {
	conn := s.current()
	if conn == nil {
		return channel.AckResult{}, errcode.ErrNotConnected
	}
	return conn.EmitWithAck(ctx, event, payload)
}

// NotifyBookingCreated announces a new booking chat to the remote party
// so the conversation appears without a page reload
func (s *Session) NotifyBookingCreated(ctx context.Context, chat *entity.BookingChat) error {
	return s.Emit(channel.EventBookingCreated, chat)
}

func (s *Session) current() *channel.Conn {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.conn == nil || s.conn.IsClosed() {
		return nil
	}
	return s.conn
}
