package transport

import (
	"errors"
	"net/http"
	"sync"
	"time"

	"github.com/goccy/go-json"
	"github.com/google/uuid"
	"github.com/gorilla/websocket"
	"go.uber.org/zap"

	chat "github.com/trigaass/Hauz/internal/pkg/chat/domain"
)

const (
	writeWait   = 10 * time.Second
	pingPeriod  = 30 * time.Second
	readWait    = 60 * time.Second
	sendBuffer  = 128
	baseBackoff = 500 * time.Millisecond

	// DefaultBackoffCap bounds the reconnect delay.
	DefaultBackoffCap = 30 * time.Second
)

// ErrUnavailable is returned by emits while no connection is established.
// Callers treat it as a no-op; delivery here is at-most-once by design.
var ErrUnavailable = errors.New("transport: channel unavailable")

// MessageHandler receives one inbound message event.
type MessageHandler func(conversationID int64, m chat.Message)

// TypingHandler receives one inbound typing event.
type TypingHandler func(conversationID int64, isTyping bool)

// Channel owns the single long-lived websocket connection to the messaging
// backend, shared by all open conversations. It redials with capped
// exponential backoff and re-announces presence after every successful
// connect; events lost during an outage are not replayed.
type Channel struct {
	endpoint   string
	backoffCap time.Duration
	clientID   string
	log        *zap.Logger
	dialer     websocket.Dialer

	handlerMu sync.RWMutex
	onMessage MessageHandler
	onTyping  TypingHandler

	mu      sync.Mutex
	conn    *websocket.Conn
	send    chan []byte
	selfID  int64
	started bool

	done      chan struct{}
	closeOnce sync.Once
	wg        sync.WaitGroup
}

// NewChannel constructs a Channel for the given websocket endpoint
// (e.g. "wss://hauzserver.onrender.com/ws"). It does not dial until Connect.
func NewChannel(endpoint string, backoffCap time.Duration, log *zap.Logger) *Channel {
	if backoffCap <= 0 {
		backoffCap = DefaultBackoffCap
	}
	if log == nil {
		log = zap.NewNop()
	}
	return &Channel{
		endpoint:   endpoint,
		backoffCap: backoffCap,
		clientID:   uuid.NewString(),
		log:        log,
		dialer: websocket.Dialer{
			HandshakeTimeout: 10 * time.Second,
		},
		done: make(chan struct{}),
	}
}

// OnMessage registers the inbound message handler. Register before Connect.
func (c *Channel) OnMessage(h MessageHandler) {
	c.handlerMu.Lock()
	c.onMessage = h
	c.handlerMu.Unlock()
}

// OnTyping registers the inbound typing handler. Register before Connect.
func (c *Channel) OnTyping(h TypingHandler) {
	c.handlerMu.Lock()
	c.onTyping = h
	c.handlerMu.Unlock()
}

// Connect starts the connection lifecycle for the given user. Repeated calls
// while the channel is running are no-ops.
func (c *Channel) Connect(selfUserID int64) {
	c.mu.Lock()
	if c.started {
		c.mu.Unlock()
		return
	}
	c.started = true
	c.selfID = selfUserID
	c.mu.Unlock()

	c.wg.Add(1)
	go c.run()
}

// Disconnect releases the connection and stops reconnecting. Safe to call
// multiple times.
func (c *Channel) Disconnect() {
	c.closeOnce.Do(func() {
		close(c.done)
	})

	c.mu.Lock()
	conn := c.conn
	c.mu.Unlock()
	if conn != nil {
		_ = conn.WriteControl(websocket.CloseMessage,
			websocket.FormatCloseMessage(websocket.CloseNormalClosure, "session closed"),
			time.Now().Add(writeWait))
		_ = conn.Close()
	}
	c.wg.Wait()
}

// EmitMessage sends a message event to the peer. Best-effort, non-blocking.
func (c *Channel) EmitMessage(conversationID, receiverID int64, m chat.Message) error {
	return c.emit(frame{
		Type:           FrameMessageSend,
		ConversationID: conversationID,
		ReceiverID:     receiverID,
		Message:        &m,
	})
}

// EmitTypingStart signals the peer that self started typing.
func (c *Channel) EmitTypingStart(conversationID, receiverID int64) error {
	return c.emit(frame{Type: FrameTypingStart, ConversationID: conversationID, ReceiverID: receiverID})
}

// EmitTypingStop signals the peer that self stopped typing.
func (c *Channel) EmitTypingStop(conversationID, receiverID int64) error {
	return c.emit(frame{Type: FrameTypingStop, ConversationID: conversationID, ReceiverID: receiverID})
}

func (c *Channel) emit(f frame) error {
	payload, err := json.Marshal(f)
	if err != nil {
		return err
	}

	c.mu.Lock()
	send := c.send
	c.mu.Unlock()
	if send == nil {
		return ErrUnavailable
	}

	select {
	case send <- payload:
		return nil
	default:
		// Slow or stalled connection; drop rather than block the caller.
		return ErrUnavailable
	}
}

// run dials, serves one connection until it breaks, then redials with capped
// exponential backoff until Disconnect.
func (c *Channel) run() {
	defer c.wg.Done()

	backoff := baseBackoff
	for {
		select {
		case <-c.done:
			return
		default:
		}

		header := http.Header{"X-Chat-Client": []string{c.clientID}}
		conn, resp, err := c.dialer.Dial(c.endpoint, header)
		if resp != nil && resp.Body != nil {
			_ = resp.Body.Close()
		}
		if err != nil {
			c.log.Warn("transport dial failed",
				zap.String("endpoint", c.endpoint),
				zap.Duration("retry_in", backoff),
				zap.Error(err))
			select {
			case <-c.done:
				return
			case <-time.After(backoff):
			}
			backoff *= 2
			if backoff > c.backoffCap {
				backoff = c.backoffCap
			}
			continue
		}
		backoff = baseBackoff

		send := make(chan []byte, sendBuffer)
		c.mu.Lock()
		c.conn = conn
		c.send = send
		selfID := c.selfID
		c.mu.Unlock()

		c.log.Info("transport connected", zap.String("endpoint", c.endpoint))

		// Announce presence on every (re)connect.
		if err := c.emit(frame{Type: FrameUserOnline, UserID: selfID}); err != nil {
			c.log.Warn("presence announce failed", zap.Error(err))
		}

		stop := make(chan struct{})
		go writeLoop(conn, send, stop)
		c.readLoop(conn)
		close(stop)

		c.mu.Lock()
		c.conn = nil
		c.send = nil
		c.mu.Unlock()
		_ = conn.Close()
	}
}

// readLoop consumes frames in delivery order until the connection breaks.
func (c *Channel) readLoop(conn *websocket.Conn) {
	conn.SetReadLimit(1 << 20)
	_ = conn.SetReadDeadline(time.Now().Add(readWait))
	conn.SetPongHandler(func(string) error {
		return conn.SetReadDeadline(time.Now().Add(readWait))
	})

	for {
		_, data, err := conn.ReadMessage()
		if err != nil {
			select {
			case <-c.done:
			default:
				c.log.Warn("transport read failed", zap.Error(err))
			}
			return
		}
		c.dispatch(data)
	}
}

func (c *Channel) dispatch(data []byte) {
	var f frame
	if err := json.Unmarshal(data, &f); err != nil {
		c.log.Debug("transport dropped malformed frame", zap.Error(err))
		return
	}

	c.handlerMu.RLock()
	onMessage := c.onMessage
	onTyping := c.onTyping
	c.handlerMu.RUnlock()

	switch f.Type {
	case FrameMessageReceived:
		if onMessage != nil && f.Message != nil {
			onMessage(f.ConversationID, *f.Message)
		}
	case FrameTypingIndicator:
		if onTyping != nil {
			onTyping(f.ConversationID, f.IsTyping)
		}
	default:
		c.log.Debug("transport dropped unknown frame", zap.String("type", f.Type))
	}
}

// writeLoop drains the send buffer and keeps the connection alive with pings.
func writeLoop(conn *websocket.Conn, send <-chan []byte, stop <-chan struct{}) {
	ticker := time.NewTicker(pingPeriod)
	defer ticker.Stop()

	for {
		select {
		case <-stop:
			return
		case payload := <-send:
			_ = conn.SetWriteDeadline(time.Now().Add(writeWait))
			if err := conn.WriteMessage(websocket.TextMessage, payload); err != nil {
				return
			}
		case <-ticker.C:
			_ = conn.SetWriteDeadline(time.Now().Add(writeWait))
			if err := conn.WriteMessage(websocket.PingMessage, nil); err != nil {
				return
			}
		}
	}
}
