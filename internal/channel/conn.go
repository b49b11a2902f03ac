package channel

import (
	"context"
	"fmt"
	"net/url"
	"sync"
	"sync/atomic"
	"time"

	"github.com/gorilla/websocket"
	"github.com/mbeoliero/kit/log"
)

// Query parameter keys used during the handshake
const (
	QueryToken  = "token"
	QueryUserId = "userId"
)

// Default connection timing
const (
	DefaultWriteWait      = 10 * time.Second
	DefaultPongWait       = 30 * time.Second
	DefaultPingPeriod     = (DefaultPongWait * 9) / 10
	DefaultMaxMessageSize = 51200
	DefaultAckTimeout     = 10 * time.Second
)

// Credentials identify the connecting user. Both fields are required
// before a connection attempt is made.
type Credentials struct {
	Token  string
	UserId string
}

// Options configures a connection
type Options struct {
	URL            string
	WriteWait      time.Duration
	PongWait       time.Duration
	PingPeriod     time.Duration
	MaxMessageSize int64
	AckTimeout     time.Duration
}

func (o *Options) withDefaults() Options {
	out := *o
	if out.WriteWait == 0 {
		out.WriteWait = DefaultWriteWait
	}
	if out.PongWait == 0 {
		out.PongWait = DefaultPongWait
	}
	if out.PingPeriod == 0 {
		out.PingPeriod = DefaultPingPeriod
	}
	if out.MaxMessageSize == 0 {
		out.MaxMessageSize = DefaultMaxMessageSize
	}
	if out.AckTimeout == 0 {
		out.AckTimeout = DefaultAckTimeout
	}
	return out
}

// Handler receives every inbound non-ack frame
type Handler func(frame Frame)

// Conn is a live event channel connection. Writes go through a buffered
// channel drained by a single writer goroutine; reads run in their own
// loop and hand frames to the handler.
type Conn struct {
	opts      Options
	conn      *websocket.Conn
	handler   Handler
	onClose   func(err error)
	writeChan chan []byte
	closeChan chan struct{}
	closeOnce sync.Once
	writeMu   sync.Mutex
	closed    bool

	ackSeq  atomic.Int64
	ackMu   sync.Mutex
	pending map[int64]chan AckResult
}

// Dial establishes the channel connection, authenticating with query
// parameters on the handshake URL. handler receives inbound frames;
// onClose fires once when the connection ends for any reason.
func Dial(ctx context.Context, opts Options, creds Credentials, handler Handler, onClose func(err error)) (*Conn, error) {
	opts = opts.withDefaults()

	u, err := url.Parse(opts.URL)
	if err != nil {
		return nil, fmt.Errorf("invalid channel url: %w", err)
	}
	q := u.Query()
	q.Set(QueryToken, creds.Token)
	q.Set(QueryUserId, creds.UserId)
	u.RawQuery = q.Encode()

	ws, _, err := websocket.DefaultDialer.DialContext(ctx, u.String(), nil)
	if err != nil {
		return nil, fmt.Errorf("dial channel: %w", err)
	}

	c := &Conn{
		opts:      opts,
		conn:      ws,
		handler:   handler,
		onClose:   onClose,
		writeChan: make(chan []byte, 256),
		closeChan: make(chan struct{}),
		pending:   make(map[int64]chan AckResult),
	}

	ws.SetReadLimit(opts.MaxMessageSize)
	ws.SetPongHandler(func(string) error {
		ws.SetReadDeadline(time.Now().Add(opts.PongWait))
		return nil
	})

	go c.writeLoop()
	go c.readLoop()

	return c, nil
}

// writeLoop handles all writes to the connection (single writer pattern)
func (c *Conn) writeLoop() {
	ticker := time.NewTicker(c.opts.PingPeriod)
	defer func() {
		ticker.Stop()
		c.conn.Close()
	}()

	for {
		select {
		case message, ok := <-c.writeChan:
			c.conn.SetWriteDeadline(time.Now().Add(c.opts.WriteWait))
			if !ok {
				c.conn.WriteMessage(websocket.CloseMessage, []byte{})
				return
			}

			if err := c.conn.WriteMessage(websocket.TextMessage, message); err != nil {
				log.Warn("write frame error: %v", err)
				return
			}

		case <-ticker.C:
			c.conn.SetWriteDeadline(time.Now().Add(c.opts.WriteWait))
			if err := c.conn.WriteMessage(websocket.PingMessage, nil); err != nil {
				log.Debug("ping error: %v", err)
				return
			}

		case <-c.closeChan:
			return
		}
	}
}

// readLoop reads frames until the connection fails or is closed
func (c *Conn) readLoop() {
	var readErr error
	defer c.teardown(&readErr)

	for {
		c.conn.SetReadDeadline(time.Now().Add(c.opts.PongWait))
		_, message, err := c.conn.ReadMessage()
		if err != nil {
			readErr = err
			return
		}

		var frame Frame
		if err := Decode(message, &frame); err != nil {
			log.Warn("drop undecodable frame: %v", err)
			continue
		}

		if frame.Event == eventAck {
			c.resolveAck(frame)
			continue
		}

		if c.handler != nil {
			c.handler(frame)
		}
	}
}

// teardown closes the connection once and reports the terminal error
func (c *Conn) teardown(readErr *error) {
	alreadyClosed := true
	c.closeOnce.Do(func() {
		alreadyClosed = false
		c.writeMu.Lock()
		c.closed = true
		close(c.writeChan)
		c.writeMu.Unlock()
		close(c.closeChan)
	})

	c.failPending(ErrConnClosed)

	if !alreadyClosed && c.onClose != nil {
		var err error
		if readErr != nil {
			err = *readErr
		}
		c.onClose(err)
	}
}

// Emit queues a fire-and-forget frame
func (c *Conn) Emit(event string, payload interface{}) error {
	data, err := Encode(payload)
	if err != nil {
		return fmt.Errorf("encode %s payload: %w", event, err)
	}
	return c.enqueue(Frame{Event: event, Data: data})
}

// EmitWithAck queues a frame carrying an ack id and blocks until the
// acknowledgement arrives, the context ends, or the ack timeout fires.
func (c *Conn) EmitWithAck(ctx context.Context, event string, payload interface{}) (AckResult, error) {
	data, err := Encode(payload)
	if err != nil {
		return AckResult{}, fmt.Errorf("encode %s payload: %w", event, err)
	}

	ackId := c.ackSeq.Add(1)
	ch := make(chan AckResult, 1)

	c.ackMu.Lock()
	c.pending[ackId] = ch
	c.ackMu.Unlock()

	if err := c.enqueue(Frame{Event: event, Data: data, AckId: ackId}); err != nil {
		c.dropPending(ackId)
		return AckResult{}, err
	}

	timer := time.NewTimer(c.opts.AckTimeout)
	defer timer.Stop()

	select {
	case result := <-ch:
		if !result.Success {
			return result, ErrAckRejected
		}
		return result, nil
	case <-ctx.Done():
		c.dropPending(ackId)
		return AckResult{}, ctx.Err()
	case <-timer.C:
		c.dropPending(ackId)
		return AckResult{}, ErrAckTimeout
	case <-c.closeChan:
		c.dropPending(ackId)
		return AckResult{}, ErrConnClosed
	}
}

// enqueue puts an encoded frame on the write channel
func (c *Conn) enqueue(frame Frame) error {
	data, err := Encode(frame)
	if err != nil {
		return err
	}

	c.writeMu.Lock()
	defer c.writeMu.Unlock()

	if c.closed {
		return ErrConnClosed
	}

	select {
	case c.writeChan <- data:
		return nil
	default:
		// Channel full, connection is a slow consumer
		return ErrWriteChannelFull
	}
}

// resolveAck delivers an ack frame to its waiter
func (c *Conn) resolveAck(frame Frame) {
	var result AckResult
	if err := Decode(frame.Data, &result); err != nil {
		log.Warn("drop undecodable ack: %v", err)
		return
	}

	c.ackMu.Lock()
	ch, ok := c.pending[frame.AckId]
	if ok {
		delete(c.pending, frame.AckId)
	}
	c.ackMu.Unlock()

	if ok {
		ch <- result
	}
}

// dropPending removes a waiter without delivering a result
func (c *Conn) dropPending(ackId int64) {
	c.ackMu.Lock()
	delete(c.pending, ackId)
	c.ackMu.Unlock()
}

// failPending rejects all waiters with the given error state
func (c *Conn) failPending(err error) {
	c.ackMu.Lock()
	defer c.ackMu.Unlock()
	for id, ch := range c.pending {
		ch <- AckResult{Success: false, Error: err.Error()}
		delete(c.pending, id)
	}
}

// Close closes the connection. Safe to call more than once.
func (c *Conn) Close() error {
	c.teardown(nil)
	return nil
}

// IsClosed reports whether the connection has been torn down
func (c *Conn) IsClosed() bool {
	select {
	case <-c.closeChan:
		return true
	default:
		return false
	}
}
