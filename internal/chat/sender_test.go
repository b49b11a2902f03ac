package chat

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Iggy502/booking-web-sub000/internal/channel"
	"github.com/Iggy502/booking-web-sub000/internal/entity"
)

func TestSender_Send(t *testing.T) {
	ctx := context.Background()

	t.Run("acknowledged send keeps exactly one copy", func(t *testing.T) {
		emitter := &fakeEmitter{}
		s := newTestState(emitter, testChat("c1"))
		sender := NewSender(s, emitter, guestId, 0)

		require.NoError(t, sender.Send(ctx, "hello there", "c1"))

		chat, _ := s.Chat("c1")
		require.Len(t, chat.Conversation.Messages, 1)
		msg := chat.Conversation.Messages[0]
		assert.Equal(t, guestId, msg.From)
		assert.Equal(t, ownerId, msg.To, "recipient is the other participant")
		assert.False(t, msg.Read)

		// The server echo of the same message must not duplicate it
		s.Apply(MessageReceived{Message: msg})
		chat, _ = s.Chat("c1")
		assert.Len(t, chat.Conversation.Messages, 1)
	})

	t.Run("owner sends to guest", func(t *testing.T) {
		emitter := &fakeEmitter{}
		s := NewState(ownerId, emitter, 0)
		s.Apply(BookingsUpdated{Chats: []entity.BookingChat{testChat("c1")}})
		sender := NewSender(s, emitter, ownerId, 0)

		require.NoError(t, sender.Send(ctx, "welcome", "c1"))

		chat, _ := s.Chat("c1")
		require.Len(t, chat.Conversation.Messages, 1)
		assert.Equal(t, guestId, chat.Conversation.Messages[0].To)
	})

	t.Run("failed ack rolls back and restores the draft", func(t *testing.T) {
		emitter := &fakeEmitter{ackErr: errors.New("boom")}
		s := newTestState(emitter, testChat("c1"))
		sender := NewSender(s, emitter, guestId, 0)

		err := sender.Send(ctx, "  lost in transit  ", "c1")
		require.Error(t, err)

		chat, _ := s.Chat("c1")
		assert.Empty(t, chat.Conversation.Messages, "no orphaned optimistic message remains")
		assert.Equal(t, "lost in transit", sender.Draft(), "compose content restored for retry")
		assert.Equal(t, 0, s.TotalUnread())
	})

	t.Run("empty content is rejected before the channel", func(t *testing.T) {
		emitter := &fakeEmitter{}
		s := newTestState(emitter, testChat("c1"))
		sender := NewSender(s, emitter, guestId, 0)

		assert.Error(t, sender.Send(ctx, "   ", "c1"))
		assert.Empty(t, emitter.emittedEvents(channel.EventSendMessage))
	})

	t.Run("unknown conversation is rejected", func(t *testing.T) {
		emitter := &fakeEmitter{}
		s := newTestState(emitter, testChat("c1"))
		sender := NewSender(s, emitter, guestId, 0)

		assert.Error(t, sender.Send(ctx, "hello", "ghost"))
	})
}

func TestSender_TypingDebounce(t *testing.T) {
	typingStates := func(emitter *fakeEmitter) []bool {
		var out []bool
		for _, e := range emitter.emittedEvents(channel.EventTyping) {
			out = append(out, e.payload.(channel.TypingPayload).IsTyping)
		}
		return out
	}

	t.Run("stop follows the last keystroke", func(t *testing.T) {
		emitter := &fakeEmitter{}
		s := newTestState(emitter, testChat("c1"))
		sender := NewSender(s, emitter, guestId, 30*time.Millisecond)

		sender.NoteTyping("c1")
		time.Sleep(80 * time.Millisecond)

		assert.Equal(t, []bool{true, false}, typingStates(emitter))
	})

	t.Run("keystrokes reset the timer", func(t *testing.T) {
		emitter := &fakeEmitter{}
		s := newTestState(emitter, testChat("c1"))
		sender := NewSender(s, emitter, guestId, 50*time.Millisecond)

		sender.NoteTyping("c1")
		time.Sleep(20 * time.Millisecond)
		sender.NoteTyping("c1")
		time.Sleep(20 * time.Millisecond)

		assert.Equal(t, []bool{true, true}, typingStates(emitter), "no stop while still typing")

		time.Sleep(80 * time.Millisecond)
		states := typingStates(emitter)
		assert.Equal(t, []bool{true, true, false}, states)
	})

	t.Run("send stops the indicator immediately", func(t *testing.T) {
		emitter := &fakeEmitter{}
		s := newTestState(emitter, testChat("c1"))
		sender := NewSender(s, emitter, guestId, time.Minute)

		sender.NoteTyping("c1")
		require.NoError(t, sender.Send(context.Background(), "done", "c1"))

		assert.Equal(t, []bool{true, false}, typingStates(emitter))
	})
}
