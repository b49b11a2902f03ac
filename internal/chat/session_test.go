package chat

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/gorilla/websocket"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Iggy502/booking-web-sub000/internal/channel"
	"github.com/Iggy502/booking-web-sub000/internal/entity"
	"github.com/Iggy502/booking-web-sub000/pkg/errcode"
)

var upgrader = websocket.Upgrader{
	CheckOrigin: func(r *http.Request) bool { return true },
}

// chatServer is a counterpart service that can push chat event frames
type chatServer struct {
	srv *httptest.Server

	mu   sync.Mutex
	conn *websocket.Conn
}

func newChatServer(t *testing.T) *chatServer {
	t.Helper()

	cs := &chatServer{}
	cs.srv = httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		conn, err := upgrader.Upgrade(w, r, nil)
		if err != nil {
			return
		}
		cs.mu.Lock()
		cs.conn = conn
		cs.mu.Unlock()

		for {
			if _, _, err := conn.ReadMessage(); err != nil {
				return
			}
		}
	}))
	t.Cleanup(cs.srv.Close)
	return cs
}

func (cs *chatServer) options() channel.Options {
	return channel.Options{URL: "ws" + strings.TrimPrefix(cs.srv.URL, "http")}
}

func (cs *chatServer) push(t *testing.T, event string, payload interface{}) {
	t.Helper()

	deadline := time.Now().Add(2 * time.Second)
	for {
		cs.mu.Lock()
		conn := cs.conn
		cs.mu.Unlock()
		if conn != nil {
			data, err := channel.Encode(payload)
			require.NoError(t, err)
			frame, err := channel.Encode(channel.Frame{Event: event, Data: data})
			require.NoError(t, err)
			require.NoError(t, conn.WriteMessage(websocket.TextMessage, frame))
			return
		}
		if time.Now().After(deadline) {
			t.Fatal("server connection never established")
		}
		time.Sleep(10 * time.Millisecond)
	}
}

func testCreds() channel.Credentials {
	return channel.Credentials{Token: "tok-1", UserId: guestId}
}

func TestSession_Connect(t *testing.T) {
	ctx := context.Background()

	t.Run("missing credentials refuse the attempt", func(t *testing.T) {
		s := NewSession(channel.Options{URL: "ws://localhost:1"}, nil)

		err := s.Connect(ctx, channel.Credentials{UserId: guestId}, nil)
		assert.ErrorIs(t, err, errcode.ErrCredentialMissing)
		assert.Equal(t, StatusDisconnected, s.Status())

		err = s.Connect(ctx, channel.Credentials{Token: "tok"}, nil)
		assert.ErrorIs(t, err, errcode.ErrCredentialMissing)
	})

	t.Run("connect and teardown", func(t *testing.T) {
		cs := newChatServer(t)

		var statusMu sync.Mutex
		var statuses []bool
		s := NewSession(cs.options(), func(connected bool) {
			statusMu.Lock()
			statuses = append(statuses, connected)
			statusMu.Unlock()
		})

		require.NoError(t, s.Connect(ctx, testCreds(), nil))
		assert.True(t, s.Connected())

		require.NoError(t, s.Connect(ctx, testCreds(), nil), "connect while connected is a no-op")

		s.Disconnect()
		assert.Equal(t, StatusDisconnected, s.Status())
		s.Disconnect() // idempotent

		statusMu.Lock()
		defer statusMu.Unlock()
		assert.Equal(t, []bool{true, false}, statuses)
	})

	t.Run("unreachable server reports disconnected", func(t *testing.T) {
		s := NewSession(channel.Options{URL: "ws://127.0.0.1:1"}, nil)

		err := s.Connect(ctx, testCreds(), nil)
		require.Error(t, err)
		assert.Equal(t, StatusDisconnected, s.Status())
	})
}

func TestSession_Dispatch(t *testing.T) {
	ctx := context.Background()
	cs := newChatServer(t)

	events := make(chan Event, 8)
	s := NewSession(cs.options(), nil)
	require.NoError(t, s.Connect(ctx, testCreds(), func(ev Event) {
		events <- ev
	}))
	defer s.Disconnect()

	waitEvent := func() Event {
		select {
		case ev := <-events:
			return ev
		case <-time.After(2 * time.Second):
			t.Fatal("timeout waiting for event")
			return nil
		}
	}

	t.Run("messageReceived becomes a typed event", func(t *testing.T) {
		cs.push(t, channel.EventMessageReceived, entity.Message{
			ConversationId: "c1",
			From:           ownerId,
			To:             guestId,
			Content:        "hello",
			Timestamp:      time.Unix(1700000000, 0).UTC(),
		})

		ev := waitEvent()
		mr, ok := ev.(MessageReceived)
		require.True(t, ok)
		assert.Equal(t, "c1", mr.Message.ConversationId)
		assert.Equal(t, "hello", mr.Message.Content)
	})

	t.Run("bookingsUpdated becomes a typed event", func(t *testing.T) {
		cs.push(t, channel.EventBookingsUpdated, []entity.BookingChat{testChat("c1")})

		ev := waitEvent()
		bu, ok := ev.(BookingsUpdated)
		require.True(t, ok)
		require.Len(t, bu.Chats, 1)
		assert.Equal(t, "c1", bu.Chats[0].Conversation.Id)
	})

	t.Run("typing becomes a typed event", func(t *testing.T) {
		cs.push(t, channel.EventTyping, channel.TypingPayload{UserId: ownerId, IsTyping: true})

		ev := waitEvent()
		tc, ok := ev.(TypingChanged)
		require.True(t, ok)
		assert.True(t, tc.IsTyping)
		assert.Equal(t, ownerId, tc.UserId)
	})

	t.Run("messagesRead becomes a typed event", func(t *testing.T) {
		cs.push(t, channel.EventMessagesRead, channel.MessagesReadPayload{
			ConversationId: "c1",
			UserId:         ownerId,
		})

		ev := waitEvent()
		mr, ok := ev.(MessagesRead)
		require.True(t, ok)
		assert.Equal(t, "c1", mr.ConversationId)
	})

	t.Run("unknown events are dropped", func(t *testing.T) {
		cs.push(t, "somethingElse", map[string]string{"x": "y"})
		cs.push(t, channel.EventTyping, channel.TypingPayload{UserId: ownerId, IsTyping: false})

		ev := waitEvent()
		_, ok := ev.(TypingChanged)
		assert.True(t, ok, "the unknown event must not reach the handler")
	})
}

func TestSession_EmitWhenDisconnected(t *testing.T) {
	s := NewSession(channel.Options{URL: "ws://localhost:1"}, nil)

	assert.ErrorIs(t, s.Emit(channel.EventOpenChat, "c1"), errcode.ErrNotConnected)

	_, err := s.EmitWithAck(context.Background(), channel.EventSendMessage, nil)
	assert.ErrorIs(t, err, errcode.ErrNotConnected)
}
