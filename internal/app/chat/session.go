/*
Package chat contains the client side of the real-time chat protocol.

This file defines Session, one activation of the chat view: it dials the server, registers
the username, reduces inbound frames into State, and sends user-authored messages.
*/
package chat

import (
	"context"
	"strings"
	"time"

	"github.com/rs/zerolog"
	"golang.org/x/time/rate"

	"roomchat/internal/app/session"
	"roomchat/internal/pkg/errs"
	"roomchat/internal/pkg/logx"
	"roomchat/internal/pkg/randx"
)

// Status is the connection status of a Session as shown to the user.
type Status int

const (
	StatusIdle Status = iota
	StatusConnected
	StatusDisconnected
)

// String returns the label shown in the chat screen's status line.
func (s Status) String() string {
	switch s {
	case StatusIdle:
		return "idle"
	case StatusConnected:
		return "connected"
	case StatusDisconnected:
		return "disconnected"
	default:
		return "unknown"
	}
}

// Options configures a Session.
type Options struct {
	// ServerURL is the WebSocket endpoint of the chat server.
	ServerURL string

	// AvatarTemplate derives roster avatars; empty uses user.DefaultAvatarTemplate.
	AvatarTemplate string

	// Dialer opens the transport; nil uses a WebSocket dialer logging with the session's fields.
	Dialer Dialer

	// QueueSize is the outbound queue capacity of the default dialer. Zero uses DefaultSendQueueSize.
	QueueSize int

	// DialTimeout bounds the handshake. Zero means no bound beyond the caller's context.
	DialTimeout time.Duration

	// SendRate and SendBurst throttle Submit. A zero SendRate disables throttling.
	SendRate  rate.Limit
	SendBurst int
}

// Session is one activation of the chat view.
// All methods must be called from the single loop that owns the view state.
type Session struct {
	identity  session.Reader
	opts      Options
	transport Transport
	state     *State
	limiter   *rate.Limiter
	status    Status
	logger    zerolog.Logger
}

// NewSession prepares a session for the username held by identity. It does not connect.
func NewSession(identity session.Reader, opts Options) *Session {
	sessionLogger := logx.Logger().With().
		Str("session_id", randx.SessionID()).
		Str("username", identity.Username()).
		Logger()

	if opts.Dialer == nil {
		opts.Dialer = WebSocketDialer(opts.QueueSize, sessionLogger)
	}

	var limiter *rate.Limiter
	if opts.SendRate > 0 {
		burst := opts.SendBurst
		if burst < 1 {
			burst = 1
		}
		limiter = rate.NewLimiter(opts.SendRate, burst)
	}

	return &Session{
		identity: identity,
		opts:     opts,
		state:    NewState(opts.AvatarTemplate).WithLogger(sessionLogger),
		limiter:  limiter,
		status:   StatusIdle,
		logger:   sessionLogger.With().Str("component", "Session").Logger(),
	}
}

// Start opens the connection and immediately sends the registration envelope.
// A dial failure is returned; a failure to send the registration is only logged.
func (s *Session) Start(ctx context.Context) error {
	if s.transport != nil {
		return nil
	}

	transport, err := s.Dial(ctx)
	if err != nil {
		s.Fail()
		return err
	}

	s.Attach(transport)
	return nil
}

// Dial opens a transport to the configured server without touching session state,
// so it may run off the owning loop. Pass the result to Attach.
// An identity without a username is refused before any connection is made.
func (s *Session) Dial(ctx context.Context) (Transport, error) {
	if !s.identity.IsSet() {
		err := errs.NewError(errs.ErrInvalidUsername)
		s.logger.Error().Err(err).Msg("Refusing to connect without a username.")
		return nil, err
	}

	if s.opts.DialTimeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, s.opts.DialTimeout)
		defer cancel()
	}

	transport, err := s.opts.Dialer(ctx, s.opts.ServerURL)
	if err != nil {
		s.logger.Error().Err(err).Str("server_url", s.opts.ServerURL).Msg("Failed to connect to chat server.")
		return nil, err
	}
	return transport, nil
}

// Attach binds transport to the session and sends the registration envelope before
// anything else can be queued. A second Attach closes the extra transport.
func (s *Session) Attach(transport Transport) {
	if s.transport != nil {
		s.logger.Warn().Msg("Session already attached, closing extra transport.")
		transport.Close()
		return
	}

	s.transport = transport
	s.status = StatusConnected

	s.register()
}

// Fail records a connection attempt that never produced a transport.
func (s *Session) Fail() {
	s.status = StatusDisconnected
}

// register sends the registration envelope. Failures are logged and otherwise ignored.
func (s *Session) register() {
	frame, err := NewRegisterEnvelope(s.identity.Username()).Encode()
	if err != nil {
		s.logger.Error().Err(err).Msg("Failed to encode register envelope.")
		return
	}

	if err := s.transport.Send(frame); err != nil {
		s.logger.Warn().Err(err).Msg("Failed to send register envelope.")
		return
	}

	s.logger.Debug().Msg("Register envelope sent.")
}

// HandleFrame decodes one inbound frame and applies it to the state.
// It reports whether the view needs to re-render. Malformed frames are logged and dropped.
func (s *Session) HandleFrame(raw []byte) bool {
	env, err := DecodeEnvelope(raw)
	if err != nil {
		s.logger.Warn().Err(err).
			Int("code", errs.ErrEnvelopeDecode).
			Bytes("frame", raw).
			Msg("Dropping malformed envelope.")
		return false
	}

	changed, err := s.state.Apply(env)
	if err != nil {
		s.logger.Warn().Err(err).
			Int("code", errs.ErrMessageDecode).
			Str("msg_type", string(env.MessageType)).
			Msg("Dropping envelope with malformed payload.")
		return false
	}

	return changed
}

// Submit sends body as a chat message. Blank bodies are ignored.
// On error nothing was sent and the caller should keep the user's input.
func (s *Session) Submit(body string) error {
	if strings.TrimSpace(body) == "" {
		return nil
	}

	if s.transport == nil || s.status != StatusConnected {
		err := errs.NewError(errs.ErrNotConnected)
		s.logger.Warn().Err(err).Msg("Message not sent.")
		return err
	}

	if s.limiter != nil && !s.limiter.Allow() {
		err := errs.NewError(errs.ErrSendRateLimited)
		s.logger.Warn().Err(err).Msg("Message not sent.")
		return err
	}

	frame, err := NewMessageEnvelope(body).Encode()
	if err != nil {
		s.logger.Error().Err(err).Msg("Failed to encode message envelope.")
		return err
	}

	if err := s.transport.Send(frame); err != nil {
		s.logger.Warn().Err(err).Msg("Message not sent.")
		return err
	}

	return nil
}

// Inbound exposes the transport's frame channel, or nil before Start.
func (s *Session) Inbound() <-chan []byte {
	if s.transport == nil {
		return nil
	}
	return s.transport.Inbound()
}

// MarkDisconnected records that the inbound stream ended. No reconnection is attempted.
func (s *Session) MarkDisconnected() {
	if s.status == StatusDisconnected {
		return
	}
	s.status = StatusDisconnected
	s.logger.Warn().Msg("Connection to chat server lost.")
}

// Run drives the session without a UI until ctx is cancelled or the connection drops.
// Inbound frames and lines typed by the user are handled one at a time on this loop;
// onChange is called after every state change. A nil lines channel sends nothing.
func (s *Session) Run(ctx context.Context, lines <-chan string, onChange func(*State)) error {
	inbound := s.Inbound()
	if inbound == nil {
		return errs.NewError(errs.ErrNotConnected)
	}

	for {
		select {
		case <-ctx.Done():
			return ctx.Err()

		case raw, ok := <-inbound:
			if !ok {
				s.MarkDisconnected()
				return nil
			}
			if s.HandleFrame(raw) && onChange != nil {
				onChange(s.state)
			}

		case line, ok := <-lines:
			if !ok {
				lines = nil
				continue
			}
			// failures are already logged by Submit
			_ = s.Submit(line)
		}
	}
}

// State returns the session's view state.
func (s *Session) State() *State {
	return s.state
}

// Status returns the current connection status.
func (s *Session) Status() Status {
	return s.status
}

// Username returns the username the session registered with.
func (s *Session) Username() string {
	return s.identity.Username()
}

// Close terminates the connection.
func (s *Session) Close() error {
	if s.transport == nil {
		return nil
	}
	s.status = StatusDisconnected
	return s.transport.Close()
}
