package channel

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
)

var upgrader = websocket.Upgrader{
	CheckOrigin: func(r *http.Request) bool { return true },
}

// testServer is a minimal counterpart service: it records handshake
// query parameters, acks every sendMessage frame, and can push frames.
type testServer struct {
	srv *httptest.Server

	mu    sync.Mutex
	conn  *websocket.Conn
	query map[string]string
	recv  chan Frame
}

func newTestServer(t *testing.T) *testServer {
	t.Helper()

	ts := &testServer{recv: make(chan Frame, 16)}
	ts.srv = httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		ts.mu.Lock()
		ts.query = map[string]string{
			QueryToken:  r.URL.Query().Get(QueryToken),
			QueryUserId: r.URL.Query().Get(QueryUserId),
		}
		ts.mu.Unlock()

		conn, err := upgrader.Upgrade(w, r, nil)
		if err != nil {
			return
		}
		ts.mu.Lock()
		ts.conn = conn
		ts.mu.Unlock()

		for {
			_, data, err := conn.ReadMessage()
			if err != nil {
				return
			}
			var frame Frame
			if err := Decode(data, &frame); err != nil {
				continue
			}

			if frame.AckId != 0 {
				ackData, _ := Encode(AckResult{Success: true})
				ack, _ := Encode(Frame{Event: eventAck, Data: ackData, AckId: frame.AckId})
				conn.WriteMessage(websocket.TextMessage, ack)
			}

			select {
			case ts.recv <- frame:
			default:
			}
		}
	}))
	t.Cleanup(ts.srv.Close)
	return ts
}

func (ts *testServer) url() string {
	return "ws" + strings.TrimPrefix(ts.srv.URL, "http")
}

func (ts *testServer) push(t *testing.T, frame Frame) {
	t.Helper()
	ts.mu.Lock()
	conn := ts.conn
	ts.mu.Unlock()
	require.NotNil(t, conn)

	data, err := Encode(frame)
	require.NoError(t, err)
	require.NoError(t, conn.WriteMessage(websocket.TextMessage, data))
}

func (ts *testServer) waitFrame(t *testing.T) Frame {
	t.Helper()
	select {
	case frame := <-ts.recv:
		return frame
	case <-time.After(2 * time.Second):
		t.Fatal("timeout waiting for frame")
		return Frame{}
	}
}

func dialTest(t *testing.T, ts *testServer, handler Handler, onClose func(error)) *Conn {
	t.Helper()
	conn, err := Dial(context.Background(), Options{URL: ts.url()},
		Credentials{Token: "tok-1", UserId: "user-1"}, handler, onClose)
	require.NoError(t, err)
	t.Cleanup(func() { conn.Close() })
	return conn
}

func TestConn_Handshake(t *testing.T) {
	ts := newTestServer(t)
	dialTest(t, ts, nil, nil)

	ts.mu.Lock()
	defer ts.mu.Unlock()
	assert.Equal(t, "tok-1", ts.query[QueryToken])
	assert.Equal(t, "user-1", ts.query[QueryUserId])
}

func TestConn_EmitRoundTrip(t *testing.T) {
	ts := newTestServer(t)

	received := make(chan Frame, 1)
	conn := dialTest(t, ts, func(frame Frame) {
		received <- frame
	}, nil)

	t.Run("outbound frame reaches the server", func(t *testing.T) {
		require.NoError(t, conn.Emit(EventOpenChat, "conv-1"))

		frame := ts.waitFrame(t)
		assert.Equal(t, EventOpenChat, frame.Event)

		var convId string
		require.NoError(t, Decode(frame.Data, &convId))
		assert.Equal(t, "conv-1", convId)
	})

	t.Run("inbound frame reaches the handler", func(t *testing.T) {
		payload, _ := Encode(TypingPayload{UserId: "user-2", IsTyping: true})
		ts.push(t, Frame{Event: EventTyping, Data: payload})

		select {
		case frame := <-received:
			assert.Equal(t, EventTyping, frame.Event)
		case <-time.After(2 * time.Second):
			t.Fatal("timeout waiting for inbound frame")
		}
	})
}

func TestConn_EmitWithAck(t *testing.T) {
	ts := newTestServer(t)
	conn := dialTest(t, ts, nil, nil)

	result, err := conn.EmitWithAck(context.Background(), EventSendMessage,
		map[string]string{"content": "hi"})
	require.NoError(t, err)
	assert.True(t, result.Success)
}

func TestConn_AckTimeout(t *testing.T) {
	// A server that never acks
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		conn, err := upgrader.Upgrade(w, r, nil)
		if err != nil {
			return
		}
		for {
			if _, _, err := conn.ReadMessage(); err != nil {
				return
			}
		}
	}))
	defer srv.Close()

	conn, err := Dial(context.Background(),
		Options{URL: "ws" + strings.TrimPrefix(srv.URL, "http"), AckTimeout: 50 * time.Millisecond},
		Credentials{Token: "tok", UserId: "u"}, nil, nil)
	require.NoError(t, err)
	defer conn.Close()

	_, err = conn.EmitWithAck(context.Background(), EventSendMessage, "payload")
	assert.ErrorIs(t, err, ErrAckTimeout)
}

func TestConn_Close(t *testing.T) {
	ts := newTestServer(t)

	closed := make(chan struct{})
	var once sync.Once
	conn := dialTest(t, ts, nil, func(err error) {
		once.Do(func() { close(closed) })
	})

	require.NoError(t, conn.Close())
	require.NoError(t, conn.Close(), "close is idempotent")
	assert.True(t, conn.IsClosed())

	select {
	case <-closed:
	case <-time.After(2 * time.Second):
		t.Fatal("onClose never fired")
	}

	assert.ErrorIs(t, conn.Emit(EventOpenChat, "conv-1"), ErrConnClosed)
}
