package chat

import (
	"context"
	"sync"
	"time"

	"github.com/mbeoliero/kit/log"

	"github.com/Iggy502/booking-web-sub000/internal/channel"
	"github.com/Iggy502/booking-web-sub000/internal/entity"
	"github.com/Iggy502/booking-web-sub000/pkg/errcode"
)

// DefaultTypingSafetyTTL force-clears the peer-typing flag when the
// peer's stop event never arrives
const DefaultTypingSafetyTTL = 3 * time.Second

// Emitter is the outbound half of the event channel the state needs:
// fire-and-forget notifications and acknowledged sends.
type Emitter interface {
	Emit(event string, payload interface{}) error
	EmitWithAck(ctx context.Context, event string, payload interface{}) (channel.AckResult, error)
}

// State holds the authoritative client-side view of all booking chats.
// All mutation goes through Apply and the local open/close operations;
// unread counters are recomputed from the message set on every change,
// never incremented in place.
type State struct {
	mu      sync.Mutex
	userId  string
	emitter Emitter

	chats      []*entity.BookingChat
	openConvId string

	peerTyping  bool
	typingTimer *time.Timer
	typingTTL   time.Duration

	unread      map[string]int
	totalUnread int

	onChange func()
}

// NewState creates the chat state for one authenticated user. A zero
// typingTTL falls back to DefaultTypingSafetyTTL.
func NewState(userId string, emitter Emitter, typingTTL time.Duration) *State {
	if typingTTL == 0 {
		typingTTL = DefaultTypingSafetyTTL
	}
	return &State{
		userId:    userId,
		emitter:   emitter,
		typingTTL: typingTTL,
		unread:    make(map[string]int),
	}
}

// SetOnChange registers a callback fired after every state change. Used
// by the UI layer to re-render.
func (s *State) SetOnChange(fn func()) {
	s.mu.Lock()
	s.onChange = fn
	s.mu.Unlock()
}

// Apply runs one inbound event through the reducer. Transitions are
// total: an event referencing an unknown conversation is a silent no-op.
func (s *State) Apply(ev Event) {
	s.mu.Lock()
	changed := false

	switch e := ev.(type) {
	case MessageReceived:
		changed = s.applyMessageReceived(e.Message)
	case BookingsUpdated:
		changed = s.applyBookingsUpdated(e.Chats)
	case TypingChanged:
		changed = s.applyTyping(e.UserId, e.IsTyping)
	case MessagesRead:
		changed = s.applyMessagesRead(e.ConversationId, e.UserId)
	}

	fn := s.onChange
	s.mu.Unlock()

	if changed && fn != nil {
		fn()
	}
}

func (s *State) applyMessageReceived(msg entity.Message) bool {
	chat := s.findLocked(msg.ConversationId)
	if chat == nil {
		// Conversation not yet known to this client
		log.Debug("drop message for unknown conversation %s", msg.ConversationId)
		return false
	}

	// Reconcile the echo of an optimistically appended message
	for i := range chat.Conversation.Messages {
		if chat.Conversation.Messages[i].SameOrigin(&msg) {
			return false
		}
	}

	if msg.To == s.userId && s.openConvId == msg.ConversationId {
		// An open conversation auto-reads incoming messages and tells
		// the server so, acting as a live read receipt.
		msg.Read = true
		if err := s.emitter.Emit(channel.EventOpenChat, msg.ConversationId); err != nil {
			log.Warn("open chat receipt failed: %v", err)
		}
	} else if msg.To == s.userId {
		msg.Read = false
	}

	chat.Conversation.Messages = append(chat.Conversation.Messages, msg)
	s.recomputeLocked()
	return true
}

func (s *State) applyBookingsUpdated(chats []entity.BookingChat) bool {
	next := make([]*entity.BookingChat, 0, len(chats))
	for i := range chats {
		c := chats[i]
		next = append(next, &c)
	}
	s.chats = next

	// The open marker only survives if the conversation still exists
	if s.openConvId != "" && s.findLocked(s.openConvId) == nil {
		s.openConvId = ""
	}

	s.recomputeLocked()
	return true
}

func (s *State) applyTyping(userId string, isTyping bool) bool {
	if userId == s.userId {
		return false
	}

	if s.typingTimer != nil {
		s.typingTimer.Stop()
		s.typingTimer = nil
	}

	changed := s.peerTyping != isTyping
	s.peerTyping = isTyping

	if isTyping {
		// Safety timer: a dropped stop event must not leave the flag stuck
		s.typingTimer = time.AfterFunc(s.typingTTL, s.typingExpired)
	}
	return changed
}

// typingExpired force-resets the typing flag when no stop event arrived
func (s *State) typingExpired() {
	s.mu.Lock()
	changed := s.peerTyping
	s.peerTyping = false
	s.typingTimer = nil
	fn := s.onChange
	s.mu.Unlock()

	if changed && fn != nil {
		fn()
	}
}

func (s *State) applyMessagesRead(conversationId, userId string) bool {
	if userId == s.userId {
		return false
	}

	chat := s.findLocked(conversationId)
	if chat == nil {
		log.Debug("drop read receipt for unknown conversation %s", conversationId)
		return false
	}

	// Only the remote party's read state is being reported; messages
	// addressed to the current user are untouched.
	changed := false
	for i := range chat.Conversation.Messages {
		m := &chat.Conversation.Messages[i]
		if m.To == userId && !m.Read {
			m.Read = true
			changed = true
		}
	}

	if changed {
		s.recomputeLocked()
	}
	return changed
}

// OpenConversation marks a conversation as the single open one, reads all
// messages addressed to the current user, and notifies the server.
func (s *State) OpenConversation(conversationId string) error {
	s.mu.Lock()

	chat := s.findLocked(conversationId)
	if chat == nil {
		s.mu.Unlock()
		return errcode.ErrConvNotFound
	}

	s.openConvId = conversationId
	for i := range chat.Conversation.Messages {
		m := &chat.Conversation.Messages[i]
		if m.To == s.userId {
			m.Read = true
		}
	}
	s.recomputeLocked()

	if err := s.emitter.Emit(channel.EventOpenChat, conversationId); err != nil {
		log.Warn("open chat notification failed: %v", err)
	}

	fn := s.onChange
	s.mu.Unlock()

	if fn != nil {
		fn()
	}
	return nil
}

// CloseConversation clears the open-conversation marker
func (s *State) CloseConversation() {
	s.mu.Lock()
	s.openConvId = ""
	fn := s.onChange
	s.mu.Unlock()

	if fn != nil {
		fn()
	}
}

// appendLocal adds an optimistic local copy of an outbound message.
// The later server echo is de-duplicated against it in Apply.
func (s *State) appendLocal(msg entity.Message) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	chat := s.findLocked(msg.ConversationId)
	if chat == nil {
		return errcode.ErrConvNotFound
	}

	chat.Conversation.Messages = append(chat.Conversation.Messages, msg)
	s.recomputeLocked()
	return nil
}

// removeLocal rolls back an optimistic copy after a failed send
func (s *State) removeLocal(msg entity.Message) {
	s.mu.Lock()
	defer s.mu.Unlock()

	chat := s.findLocked(msg.ConversationId)
	if chat == nil {
		return
	}

	msgs := chat.Conversation.Messages
	for i := range msgs {
		if msgs[i].SameOrigin(&msg) {
			chat.Conversation.Messages = append(msgs[:i], msgs[i+1:]...)
			break
		}
	}
	s.recomputeLocked()
}

// findLocked returns the chat owning a conversation id, or nil
func (s *State) findLocked(conversationId string) *entity.BookingChat {
	for _, c := range s.chats {
		if c.Conversation.Id == conversationId {
			return c
		}
	}
	return nil
}

// recomputeLocked rebuilds all unread counters from the message set
func (s *State) recomputeLocked() {
	unread := make(map[string]int, len(s.chats))
	total := 0
	for _, c := range s.chats {
		n := c.UnreadFor(s.userId)
		unread[c.Conversation.Id] = n
		total += n
	}
	s.unread = unread
	s.totalUnread = total
}

// Chats returns a snapshot copy of the booking chat collection
func (s *State) Chats() []entity.BookingChat {
	s.mu.Lock()
	defer s.mu.Unlock()

	out := make([]entity.BookingChat, 0, len(s.chats))
	for _, c := range s.chats {
		chat := *c
		chat.Conversation.Messages = append([]entity.Message(nil), c.Conversation.Messages...)
		out = append(out, chat)
	}
	return out
}

// Chat returns a snapshot of one booking chat by conversation id
func (s *State) Chat(conversationId string) (entity.BookingChat, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()

	c := s.findLocked(conversationId)
	if c == nil {
		return entity.BookingChat{}, false
	}
	chat := *c
	chat.Conversation.Messages = append([]entity.Message(nil), c.Conversation.Messages...)
	return chat, true
}

// OpenConversationId returns the id of the open conversation, "" if none
func (s *State) OpenConversationId() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.openConvId
}

// UnreadCount returns the derived unread count for one conversation
func (s *State) UnreadCount(conversationId string) int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.unread[conversationId]
}

// TotalUnread returns the derived total unread count
func (s *State) TotalUnread() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.totalUnread
}

// PeerTyping reports whether the remote participant is typing
func (s *State) PeerTyping() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.peerTyping
}
