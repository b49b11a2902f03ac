package channel

import "encoding/json"

// Event names carried on the wire. These must match the counterpart
// service verbatim.
const (
	EventConnect         = "connect"
	EventDisconnect      = "disconnect"
	EventMessageReceived = "messageReceived"
	EventBookingsUpdated = "bookingsUpdated"
	EventTyping          = "typing"
	EventMessagesRead    = "messagesRead"
	EventSendMessage     = "sendMessage"
	EventOpenChat        = "openChat"
	EventBookingCreated  = "bookingCreated"

	// eventAck carries acknowledgements for frames sent with an ackId
	eventAck = "ack"
)

// Frame is the unit exchanged over the channel: a named event with a JSON
// payload and an optional ack correlation id.
type Frame struct {
	Event string          `json:"event"`
	Data  json.RawMessage `json:"data,omitempty"`
	AckId int64           `json:"ackId,omitempty"`
}

// AckResult is the payload of an ack frame
type AckResult struct {
	Success bool   `json:"success"`
	Error   string `json:"error,omitempty"`
}

// TypingPayload is the payload of the typing event. Inbound frames carry
// the peer's userId; outbound frames carry the conversationId instead.
type TypingPayload struct {
	UserId         string `json:"userId,omitempty"`
	ConversationId string `json:"conversationId,omitempty"`
	IsTyping       bool   `json:"isTyping"`
}

// MessagesReadPayload is the payload of the messagesRead event
type MessagesReadPayload struct {
	ConversationId string `json:"conversationId"`
	UserId         string `json:"userId"`
}

// Encode encodes data to JSON bytes
func Encode(v interface{}) ([]byte, error) {
	return json.Marshal(v)
}

// Decode decodes JSON bytes to struct
func Decode(data []byte, v interface{}) error {
	return json.Unmarshal(data, v)
}
