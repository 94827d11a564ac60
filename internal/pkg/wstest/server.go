/*
Package wstest provides an in-process WebSocket chat endpoint for tests.

The server records every frame a client writes and lets the test push frames back to
all connected clients. It is routed with chi the same way a real chat server would be.
*/
package wstest

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/gorilla/websocket"

	"roomchat/internal/pkg/logx"
)

// ChatPath is the route the chat endpoint is mounted on.
const ChatPath = "/chat"

// Server is a recording WebSocket endpoint backed by httptest.
type Server struct {
	*httptest.Server

	mu       sync.Mutex
	conns    []*websocket.Conn
	received [][]byte
	notify   chan struct{}
}

// NewServer starts a Server. Call Close when done.
func NewServer() *Server {
	s := &Server{notify: make(chan struct{}, 1)}

	upgrader := websocket.Upgrader{
		ReadBufferSize:  4096,
		WriteBufferSize: 4096,
		CheckOrigin:     func(*http.Request) bool { return true },
	}

	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(logx.RequestLogger())
	r.Use(middleware.Recoverer)
	r.Get(ChatPath, s.handleChat(upgrader))

	s.Server = httptest.NewServer(r)
	return s
}

// WSURL returns the ws:// address of the chat endpoint.
func (s *Server) WSURL() string {
	return "ws" + strings.TrimPrefix(s.Server.URL, "http") + ChatPath
}

func (s *Server) handleChat(upgrader websocket.Upgrader) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		conn, err := upgrader.Upgrade(w, r, nil)
		if err != nil {
			logx.Error(err, "Failed to upgrade test connection")
			return
		}

		s.mu.Lock()
		s.conns = append(s.conns, conn)
		s.mu.Unlock()

		for {
			_, frame, err := conn.ReadMessage()
			if err != nil {
				return
			}

			s.mu.Lock()
			s.received = append(s.received, frame)
			s.mu.Unlock()

			select {
			case s.notify <- struct{}{}:
			default:
			}
		}
	}
}

// Received returns a copy of every frame clients have written, in arrival order.
func (s *Server) Received() [][]byte {
	s.mu.Lock()
	defer s.mu.Unlock()

	out := make([][]byte, len(s.received))
	copy(out, s.received)
	return out
}

// WaitReceived blocks until at least n frames arrived or timeout elapses.
func (s *Server) WaitReceived(n int, timeout time.Duration) [][]byte {
	deadline := time.After(timeout)
	for {
		if got := s.Received(); len(got) >= n {
			return got
		}
		select {
		case <-s.notify:
		case <-deadline:
			return s.Received()
		}
	}
}

// WaitConnected blocks until at least n clients connected or timeout elapses.
func (s *Server) WaitConnected(n int, timeout time.Duration) bool {
	deadline := time.Now().Add(timeout)
	for time.Now().Before(deadline) {
		s.mu.Lock()
		count := len(s.conns)
		s.mu.Unlock()
		if count >= n {
			return true
		}
		time.Sleep(5 * time.Millisecond)
	}
	return false
}

// Broadcast writes frame to every connected client.
func (s *Server) Broadcast(frame string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	for _, conn := range s.conns {
		if err := conn.WriteMessage(websocket.TextMessage, []byte(frame)); err != nil {
			return err
		}
	}
	return nil
}

// DropClients closes every client connection without a close handshake.
func (s *Server) DropClients() {
	s.mu.Lock()
	defer s.mu.Unlock()

	for _, conn := range s.conns {
		conn.Close()
	}
	s.conns = nil
}

// Close drops all clients and shuts the server down.
func (s *Server) Close() {
	s.DropClients()
	s.Server.Close()
}
