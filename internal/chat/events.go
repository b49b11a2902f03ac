package chat

import (
	"fmt"

	"github.com/Iggy502/booking-web-sub000/internal/channel"
	"github.com/Iggy502/booking-web-sub000/internal/entity"
)

// Event is the closed set of inbound chat events. Every variant has a
// defined, possibly no-op, outcome in the state reducer.
type Event interface {
	event()
}

// MessageReceived carries a new message pushed by the server
type MessageReceived struct {
	Message entity.Message
}

// BookingsUpdated carries a full snapshot of the user's booking chats.
// It replaces the whole collection; this is the resynchronization path
// after connect or reconnect.
type BookingsUpdated struct {
	Chats []entity.BookingChat
}

// TypingChanged reports a participant starting or stopping typing
type TypingChanged struct {
	UserId   string
	IsTyping bool
}

// MessagesRead reports that a participant read the messages addressed to
// them in a conversation
type MessagesRead struct {
	ConversationId string
	UserId         string
}

func (MessageReceived) event() {}
func (BookingsUpdated) event() {}
func (TypingChanged) event()   {}
func (MessagesRead) event()    {}

// DecodeEvent maps an inbound frame to its typed event. Unknown event
// names return an error and are dropped by the caller.
func DecodeEvent(frame channel.Frame) (Event, error) {
	switch frame.Event {
	case channel.EventMessageReceived:
		var msg entity.Message
		if err := channel.Decode(frame.Data, &msg); err != nil {
			return nil, fmt.Errorf("decode %s: %w", frame.Event, err)
		}
		return MessageReceived{Message: msg}, nil

	case channel.EventBookingsUpdated:
		var chats []entity.BookingChat
		if err := channel.Decode(frame.Data, &chats); err != nil {
			return nil, fmt.Errorf("decode %s: %w", frame.Event, err)
		}
		return BookingsUpdated{Chats: chats}, nil

	case channel.EventTyping:
		var p channel.TypingPayload
		if err := channel.Decode(frame.Data, &p); err != nil {
			return nil, fmt.Errorf("decode %s: %w", frame.Event, err)
		}
		return TypingChanged{UserId: p.UserId, IsTyping: p.IsTyping}, nil

	case channel.EventMessagesRead:
		var p channel.MessagesReadPayload
		if err := channel.Decode(frame.Data, &p); err != nil {
			return nil, fmt.Errorf("decode %s: %w", frame.Event, err)
		}
		return MessagesRead{ConversationId: p.ConversationId, UserId: p.UserId}, nil

	default:
		return nil, fmt.Errorf("unknown event %q", frame.Event)
	}
}
