// Package transport carries protocol frames over a websocket connection to
// the game server.
package transport

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/gorilla/websocket"
	"go.uber.org/zap"

	"github.com/magefree/mage-client-go/internal/config"
	"github.com/magefree/mage-client-go/internal/protocol"
)

var (
	// ErrClosed is returned when sending on a closed connection.
	ErrClosed = errors.New("connection closed")
	// ErrSendBufferFull is returned when the write pump is not keeping up.
	ErrSendBufferFull = errors.New("send buffer full")
)

// Conn is a client connection with a read pump and a write pump. Inbound
// frames are delivered in arrival order.
type Conn struct {
	ws     *websocket.Conn
	cfg    config.ServerConfig
	logger *zap.Logger

	send    chan []byte
	inbound chan []byte
	done    chan struct{}

	closeOnce sync.Once
	mu        sync.RWMutex
	closed    bool
	err       error
}

// Dial connects to cfg.URL.
func Dial(ctx context.Context, cfg config.ServerConfig, logger *zap.Logger) (*Conn, error) {
	if logger == nil {
		logger = zap.NewNop()
	}
	dialer := websocket.Dialer{
		Proxy:            websocket.DefaultDialer.Proxy,
		HandshakeTimeout: cfg.HandshakeTimeout,
	}
	ws, _, err := dialer.DialContext(ctx, cfg.URL, nil)
	if err != nil {
		return nil, fmt.Errorf("dial %s: %w", cfg.URL, err)
	}

	c := &Conn{
		ws:      ws,
		cfg:     cfg,
		logger:  logger.With(zap.String("url", cfg.URL)),
		send:    make(chan []byte, cfg.SendBuffer),
		inbound: make(chan []byte, cfg.ReceiveBuffer),
		done:    make(chan struct{}),
	}
	go c.writePump()
	go c.readPump()

	c.logger.Info("connected to server")
	return c, nil
}

// Send encodes cmd and queues it for the write pump.
func (c *Conn) Send(cmd protocol.Command) error {
	data, err := protocol.Encode(cmd)
	if err != nil {
		return err
	}

	c.mu.RLock()
	defer c.mu.RUnlock()
	if c.closed {
		return ErrClosed
	}
	select {
	case c.send <- data:
		return nil
	default:
		return ErrSendBufferFull
	}
}

// Inbound returns the frames read from the server. The channel is closed
// after the connection ends.
func (c *Conn) Inbound() <-chan []byte {
	return c.inbound
}

// Done is closed once the connection is gone.
func (c *Conn) Done() <-chan struct{} {
	return c.done
}

// Err returns why the connection ended. It is nil after Close or a normal
// close from the server.
func (c *Conn) Err() error {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.err
}

// Close shuts the connection down.
func (c *Conn) Close() error {
	c.shutdown(nil)
	return nil
}

func (c *Conn) shutdown(cause error) {
	c.closeOnce.Do(func() {
		c.mu.Lock()
		c.closed = true
		c.err = cause
		close(c.send)
		c.mu.Unlock()

		close(c.done)
		if cause != nil {
			c.logger.Warn("connection lost", zap.Error(cause))
		} else {
			c.logger.Info("connection closed")
		}
	})
}

func (c *Conn) readPump() {
	defer func() {
		close(c.inbound)
		_ = c.ws.Close()
	}()

	c.ws.SetReadLimit(c.cfg.MaxMessageSize)
	_ = c.ws.SetReadDeadline(time.Now().Add(c.cfg.PongWait))
	c.ws.SetPongHandler(func(string) error {
		return c.ws.SetReadDeadline(time.Now().Add(c.cfg.PongWait))
	})

	for {
		_, message, err := c.ws.ReadMessage()
		if err != nil {
			if websocket.IsCloseError(err, websocket.CloseNormalClosure, websocket.CloseGoingAway) {
				c.shutdown(nil)
			} else {
				c.shutdown(fmt.Errorf("read: %w", err))
			}
			return
		}
		select {
		case c.inbound <- message:
		case <-c.done:
			return
		}
	}
}

func (c *Conn) writePump() {
	ticker := time.NewTicker(c.cfg.PingPeriod)
	defer func() {
		ticker.Stop()
		_ = c.ws.Close()
	}()

	for {
		select {
		case message, ok := <-c.send:
			_ = c.ws.SetWriteDeadline(time.Now().Add(c.cfg.WriteWait))
			if !ok {
				_ = c.ws.WriteMessage(websocket.CloseMessage,
					websocket.FormatCloseMessage(websocket.CloseNormalClosure, ""))
				return
			}
			if err := c.ws.WriteMessage(websocket.TextMessage, message); err != nil {
				c.shutdown(fmt.Errorf("write: %w", err))
				return
			}
		case <-ticker.C:
			_ = c.ws.SetWriteDeadline(time.Now().Add(c.cfg.WriteWait))
			if err := c.ws.WriteMessage(websocket.PingMessage, nil); err != nil {
				c.shutdown(fmt.Errorf("ping: %w", err))
				return
			}
		}
	}
}
