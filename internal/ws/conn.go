package ws

import (
	"sync"
	"time"

	"github.com/gorilla/websocket"
	"go.uber.org/zap"
)

const (
	writeTimeout = 10 * time.Second
	pongTimeout  = 60 * time.Second
	pingInterval = 25 * time.Second
)

// Conn wraps one client socket. All outbound traffic goes through a bounded
// channel drained by a single writer goroutine, so a slow or hung client can
// never stall the caller: Send drops when the buffer is full.
type Conn struct {
	id     string
	sock   *websocket.Conn
	outbox chan []byte
	closed chan struct{}
	once   sync.Once
	logger *zap.Logger
}

func NewConn(id string, sock *websocket.Conn, queueSize int, logger *zap.Logger) *Conn {
	c := &Conn{
		id:     id,
		sock:   sock,
		outbox: make(chan []byte, queueSize),
		closed: make(chan struct{}),
		logger: logger,
	}
	go c.writeLoop()
	return c
}

func (c *Conn) ID() string { return c.id }

// IsAlive reports whether the writer loop still accepts payloads.
func (c *Conn) IsAlive() bool {
	select {
	case <-c.closed:
		return false
	default:
		return true
	}
}

// Send enqueues a serialized payload. It never blocks: a closed connection or
// a full outbox drops the payload and returns false.
func (c *Conn) Send(payload []byte) bool {
	select {
	case <-c.closed:
		return false
	default:
	}

	select {
	case c.outbox <- payload:
		return true
	default:
		c.logger.Warn("outbound queue full, dropping payload", zap.String("conn_id", c.id))
		return false
	}
}

// Close shuts the writer loop and the underlying socket. Safe to call more
// than once and from any goroutine.
func (c *Conn) Close() {
	c.once.Do(func() {
		close(c.closed)
		_ = c.sock.Close()
	})
}

func (c *Conn) writeLoop() {
	ticker := time.NewTicker(pingInterval)
	defer ticker.Stop()
	defer c.Close()

	for {
		select {
		case <-c.closed:
			return
		case payload := <-c.outbox:
			_ = c.sock.SetWriteDeadline(time.Now().Add(writeTimeout))
			if err := c.sock.WriteMessage(websocket.TextMessage, payload); err != nil {
				c.logger.Debug("write failed, closing connection",
					zap.String("conn_id", c.id), zap.Error(err))
				return
			}
		case <-ticker.C:
			_ = c.sock.SetWriteDeadline(time.Now().Add(writeTimeout))
			if err := c.sock.WriteMessage(websocket.PingMessage, nil); err != nil {
				return
			}
		}
	}
}
