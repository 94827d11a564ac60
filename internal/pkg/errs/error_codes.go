/*
Package errs provides custom error types and application-level error code constants.

These error codes classify every failure the chat client can observe so that transport,
protocol, and rendering problems are logged distinctly.
*/
package errs

// 1xxx: Transport Errors
const (
	// ErrSendQueueFull indicates that the outbound queue had no room for another frame.
	ErrSendQueueFull = 1001

	// ErrSendRateLimited indicates that the outbound token bucket was empty.
	ErrSendRateLimited = 1002

	// ErrNotConnected indicates a send attempted before Start or after the connection closed.
	ErrNotConnected = 1003

	// ErrDialFailed indicates that the WebSocket handshake with the server failed.
	ErrDialFailed = 1004
)

// 2xxx: Protocol Errors
const (
	// ErrEnvelopeDecode indicates that an inbound frame was not a valid envelope.
	ErrEnvelopeDecode = 2001

	// ErrMessageDecode indicates that a message envelope carried an invalid embedded payload.
	ErrMessageDecode = 2002

	// ErrEnvelopeEncode indicates that an outbound envelope could not be serialized.
	ErrEnvelopeEncode = 2003
)

// 3xxx: Rendering Errors
const (
	// ErrRosterEntryMissing indicates that a message sender is absent from the latest roster.
	ErrRosterEntryMissing = 3001
)

// 4xxx: Session Errors
const (
	// ErrInvalidUsername indicates that the username is empty or otherwise unusable.
	ErrInvalidUsername = 4001

	// ErrIdentityAlreadySet indicates a second write to the write-once session identity.
	ErrIdentityAlreadySet = 4002
)

// 5xxx: Internal Errors
const (
	// ErrUnknown represents an unclassified internal error.
	ErrUnknown = 5000
)
