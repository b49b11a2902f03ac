package entity

// Conversation represents an ordered message thread bound 1:1 to a booking.
// Messages are append-only from the client's perspective; insertion order
// is chronological order.
type Conversation struct {
	Id       string    `json:"id"`
	Active   bool      `json:"active"`
	Messages []Message `json:"messages"`
}

// BookingChat is the denormalized projection joining a booking, its
// property, the guest and the conversation. It is the unit the chat state
// operates on.
type BookingChat struct {
	BookingId    string          `json:"bookingId"`
	Property     PropertySummary `json:"property"`
	Guest        UserSummary     `json:"guest"`
	Conversation Conversation    `json:"conversation"`
}

// Peer returns the other chat participant for the given user: the owner
// when the user is the guest, the guest otherwise. ok is false when the
// user is not a participant of this chat.
func (c *BookingChat) Peer(userId string) (string, bool) {
	switch userId {
	case c.Guest.Id:
		return c.Property.Owner.Id, true
	case c.Property.Owner.Id:
		return c.Guest.Id, true
	default:
		return "", false
	}
}

// UnreadFor counts the messages in the conversation addressed to userId
// that are still unread. Counters elsewhere are always derived from this,
// never incremented independently.
func (c *BookingChat) UnreadFor(userId string) int {
	n := 0
	for i := range c.Conversation.Messages {
		m := &c.Conversation.Messages[i]
		if m.To == userId && !m.Read {
			n++
		}
	}
	return n
}
