package entity

import "time"

// Message represents a single chat message. A message is immutable once
// sent except for the Read flag, which may only transition false -> true,
// and only for messages addressed to the reader.
type Message struct {
	ConversationId string    `json:"conversationId"`
	From           string    `json:"from"`
	To             string    `json:"to"`
	Content        string    `json:"content"`
	Timestamp      time.Time `json:"timestamp"`
	Read           bool      `json:"read"`
}

// SameOrigin reports whether two messages are the same wire message,
// identified by conversation, sender and send time. Used to reconcile an
// optimistic local copy against its server echo.
func (m *Message) SameOrigin(other *Message) bool {
	return m.ConversationId == other.ConversationId &&
		m.From == other.From &&
		m.Timestamp.Equal(other.Timestamp)
}
