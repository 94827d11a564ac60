/*
Package chat contains the client side of the real-time chat protocol.

This file defines Conn, the WebSocket connection to the chat server. It runs a read pump
that forwards raw frames to the owning loop and a write pump that drains the outbound
queue and keeps the connection alive with pings.
*/
package chat

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"sync"
	"time"

	"github.com/gorilla/websocket"
	"github.com/rs/zerolog"

	"roomchat/internal/pkg/errs"
)

const (
	// timeout duration for writing to the WebSocket connection.
	writeWait = 10 * time.Second

	// maximum time allowed to wait for a Pong message from the server.
	pongWait = 60 * time.Second

	// frequency at which the client sends a Ping message.
	pingPeriod = (pongWait * 9) / 10

	// maximum allowed size (in bytes) of a frame received from the server.
	// A larger frame ends the connection, so this sits well above any roster or message.
	maxMessageSize = 4 << 20

	// DefaultSendQueueSize is the outbound queue capacity used when none is configured.
	DefaultSendQueueSize = 256
)

// Transport is the frame connection a Session talks through.
type Transport interface {
	// Send queues one frame without blocking.
	Send(frame []byte) error

	// Inbound delivers raw frames in arrival order. It is closed when the connection drops.
	Inbound() <-chan []byte

	// Close terminates the connection with a normal closure.
	Close() error
}

// Dialer opens a Transport to url.
type Dialer func(ctx context.Context, url string) (Transport, error)

// Conn is a WebSocket Transport.
type Conn struct {
	// underlying WebSocket connection object.
	conn *websocket.Conn

	// a buffered channel used to queue frames waiting to be written.
	send chan []byte

	// frames read from the server, consumed by the owning loop.
	inbound chan []byte

	// closed when the read pump exits.
	done chan struct{}

	// largest inbound frame accepted before the connection is torn down.
	readLimit int64

	// closed by Close to stop the write pump.
	quit      chan struct{}
	closeOnce sync.Once

	// structured logger with connection context.
	logger zerolog.Logger
}

// WebSocketDialer returns a Dialer producing *Conn with the given outbound queue size.
func WebSocketDialer(queueSize int, logger zerolog.Logger) Dialer {
	return func(ctx context.Context, url string) (Transport, error) {
		return Dial(ctx, url, queueSize, logger)
	}
}

// Dial performs the WebSocket handshake with url and starts the read and write pumps.
func Dial(ctx context.Context, url string, queueSize int, logger zerolog.Logger) (*Conn, error) {
	return dial(ctx, url, queueSize, maxMessageSize, logger)
}

func dial(ctx context.Context, url string, queueSize int, readLimit int64, logger zerolog.Logger) (*Conn, error) {
	if queueSize <= 0 {
		queueSize = DefaultSendQueueSize
	}

	wsConn, resp, err := websocket.DefaultDialer.DialContext(ctx, url, http.Header{})
	if err != nil {
		if resp != nil {
			err = fmt.Errorf("%w (http status %d)", err, resp.StatusCode)
		}
		return nil, errs.Wrap(errs.ErrDialFailed, err, url)
	}

	c := &Conn{
		conn:      wsConn,
		send:      make(chan []byte, queueSize),
		inbound:   make(chan []byte),
		done:      make(chan struct{}),
		readLimit: readLimit,
		quit:      make(chan struct{}),
		logger:    logger.With().Str("component", "Conn").Str("server_url", url).Logger(),
	}

	go c.writePump()
	go c.readPump()

	c.logger.Info().Msg("WebSocket connection established.")

	return c, nil
}

// Send queues frame for the write pump. It never blocks: a full queue or a closed
// connection returns an error immediately.
func (c *Conn) Send(frame []byte) error {
	select {
	case <-c.done:
		return errs.NewError(errs.ErrNotConnected)
	case <-c.quit:
		return errs.NewError(errs.ErrNotConnected)
	default:
	}

	select {
	case c.send <- frame:
		return nil
	default:
		c.logger.Warn().Int("queue_len", len(c.send)).Msg("Send queue full, dropping frame")
		return errs.NewError(errs.ErrSendQueueFull)
	}
}

// Inbound delivers raw frames read from the server.
func (c *Conn) Inbound() <-chan []byte {
	return c.inbound
}

// Close asks the write pump to send a close frame and shut the connection down.
func (c *Conn) Close() error {
	c.closeOnce.Do(func() {
		close(c.quit)
	})
	return nil
}

// readPump reads frames from the server and hands them to the owning loop.
// It closes inbound and done when the connection ends.
func (c *Conn) readPump() {
	defer func() {
		close(c.inbound)
		close(c.done)
		c.Close()
		c.logger.Info().Msg("Read pump stopped.")
	}()

	c.conn.SetReadLimit(c.readLimit)

	if err := c.conn.SetReadDeadline(time.Now().Add(pongWait)); err != nil {
		c.logger.Error().Err(err).Msg("Failed to set read deadline")
		return
	}

	c.conn.SetPongHandler(func(string) error {
		return c.conn.SetReadDeadline(time.Now().Add(pongWait))
	})

	for {
		_, frame, err := c.conn.ReadMessage()
		if err != nil {
			switch {
			case errors.Is(err, websocket.ErrReadLimit):
				c.logger.Warn().Err(err).Int64("read_limit", c.readLimit).Msg("Inbound frame too large, connection closed")
			case websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseNormalClosure):
				c.logger.Warn().Err(err).Msg("Connection dropped unexpectedly")
			default:
				c.logger.Info().Err(err).Msg("Connection closed")
			}
			return
		}

		select {
		case c.inbound <- frame:
		case <-c.quit:
			return
		}
	}
}

// writePump writes queued frames to the connection and pings the server periodically.
func (c *Conn) writePump() {
	ticker := time.NewTicker(pingPeriod)

	defer func() {
		ticker.Stop()

		if err := c.conn.Close(); err != nil {
			c.logger.Debug().Err(err).Msg("Connection close error in write pump")
		}
	}()

	for {
		select {
		case frame := <-c.send:
			if !c.writeFrame(websocket.TextMessage, frame) {
				return
			}

		case <-ticker.C:
			if !c.writeFrame(websocket.PingMessage, nil) {
				return
			}

		case <-c.quit:
			c.writeFrame(websocket.CloseMessage, websocket.FormatCloseMessage(websocket.CloseNormalClosure, ""))
			return

		case <-c.done:
			return
		}
	}
}

// writeFrame writes one frame under a write deadline.
// Returns false if the write pump should terminate.
func (c *Conn) writeFrame(messageType int, data []byte) bool {
	if err := c.conn.SetWriteDeadline(time.Now().Add(writeWait)); err != nil {
		c.logger.Error().Err(err).Msg("Failed to set write deadline")
		return false
	}

	if err := c.conn.WriteMessage(messageType, data); err != nil {
		c.logger.Error().Err(err).Int("ws_message_type", messageType).Msg("Error writing frame")
		return false
	}

	return true
}
