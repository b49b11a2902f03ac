package chat

import (
	"context"
	"strings"
	"sync"
	"time"

	"github.com/mbeoliero/kit/log"

	"github.com/Iggy502/booking-web-sub000/internal/channel"
	"github.com/Iggy502/booking-web-sub000/internal/entity"
	"github.com/Iggy502/booking-web-sub000/pkg/errcode"
)

// DefaultTypingDebounce is the pause after the last keystroke before a
// stop-typing event is emitted
const DefaultTypingDebounce = 2 * time.Second

// Sender is the outbound message pipeline: optimistic send with rollback
// on a failed acknowledgement, plus debounced typing indication.
type Sender struct {
	mu     sync.Mutex
	state  *State
	userId string

	emitter Emitter

	draft string

	debounce      time.Duration
	debounceTimer *time.Timer
	typingConvId  string
}

// NewSender creates the outbound pipeline for one user. A zero debounce
// falls back to DefaultTypingDebounce.
func NewSender(state *State, emitter Emitter, userId string, debounce time.Duration) *Sender {
	if debounce == 0 {
		debounce = DefaultTypingDebounce
	}
	return &Sender{
		state:    state,
		userId:   userId,
		emitter:  emitter,
		debounce: debounce,
	}
}

// Send emits a message to the other participant of the conversation.
// The message is appended optimistically and rolled back when the
// acknowledgement fails, in which case the draft is restored so the user
// can retry. No separate error dialog is raised for ack failures.
func (s *Sender) Send(ctx context.Context, content, conversationId string) error {
	content = strings.TrimSpace(content)
	if content == "" {
		return errcode.ErrEmptyMessage
	}

	chat, ok := s.state.Chat(conversationId)
	if !ok {
		return errcode.ErrConvNotFound
	}

	recipient, ok := chat.Peer(s.userId)
	if !ok {
		return errcode.ErrNoRecipient
	}

	msg := entity.Message{
		ConversationId: conversationId,
		From:           s.userId,
		To:             recipient,
		Content:        content,
		Timestamp:      time.Now().UTC(),
		Read:           false,
	}

	if err := s.state.appendLocal(msg); err != nil {
		return err
	}

	if _, err := s.emitter.EmitWithAck(ctx, channel.EventSendMessage, msg); err != nil {
		log.Warn("send not acknowledged, rolling back: %v", err)
		s.state.removeLocal(msg)
		s.SetDraft(content)
		return errcode.ErrSendFailed.Wrap(err)
	}

	s.StopTyping()
	s.SetDraft("")
	return nil
}

// NoteTyping reports one keystroke while composing. Every call emits a
// start-typing event and re-arms the debounce timer; when the timer fires
// without further keystrokes a stop-typing event goes out.
func (s *Sender) NoteTyping(conversationId string) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.debounceTimer != nil {
		s.debounceTimer.Stop()
	}
	s.typingConvId = conversationId

	if err := s.emitter.Emit(channel.EventTyping, channel.TypingPayload{
		ConversationId: conversationId,
		IsTyping:       true,
	}); err != nil {
		log.Debug("typing indicator failed: %v", err)
	}

	s.debounceTimer = time.AfterFunc(s.debounce, s.debounceExpired)
}

// debounceExpired emits the deferred stop-typing event
func (s *Sender) debounceExpired() {
	s.mu.Lock()
	convId := s.typingConvId
	s.debounceTimer = nil
	s.mu.Unlock()

	if convId == "" {
		return
	}
	s.emitStopTyping(convId)
}

// StopTyping emits an immediate stop-typing event and cancels the
// pending debounce, e.g. right after a send.
func (s *Sender) StopTyping() {
	s.mu.Lock()
	if s.debounceTimer != nil {
		s.debounceTimer.Stop()
		s.debounceTimer = nil
	}
	convId := s.typingConvId
	s.typingConvId = ""
	s.mu.Unlock()

	if convId == "" {
		return
	}
	s.emitStopTyping(convId)
}

func (s *Sender) emitStopTyping(conversationId string) {
	if err := s.emitter.Emit(channel.EventTyping, channel.TypingPayload{
		ConversationId: conversationId,
		IsTyping:       false,
	}); err != nil {
		log.Debug("typing indicator failed: %v", err)
	}
}

// SetDraft stores the compose-box content
func (s *Sender) SetDraft(content string) {
	s.mu.Lock()
	s.draft = content
	s.mu.Unlock()
}

// Draft returns the compose-box content, including content restored
// after a failed send
func (s *Sender) Draft() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.draft
}
