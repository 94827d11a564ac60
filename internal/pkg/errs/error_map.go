/*
Package errs provides custom error types and application-level error code constants.

This file defines the map from error codes to the CustomError struct.
*/
package errs

// errorMap stores the CustomError template corresponding to every application error code.
var errorMap = map[int]CustomError{
	// 1xxx: Transport Errors
	ErrSendQueueFull:   {Code: ErrSendQueueFull, Message: "Outbound queue is full, message not sent."},
	ErrSendRateLimited: {Code: ErrSendRateLimited, Message: "Sending too fast, slow down."},
	ErrNotConnected:    {Code: ErrNotConnected, Message: "Not connected to the chat server."},
	ErrDialFailed:      {Code: ErrDialFailed, Message: "Could not connect to %s."},

	// 2xxx: Protocol Errors
	ErrEnvelopeDecode: {Code: ErrEnvelopeDecode, Message: "Received a malformed frame."},
	ErrMessageDecode:  {Code: ErrMessageDecode, Message: "Received a malformed chat message."},
	ErrEnvelopeEncode: {Code: ErrEnvelopeEncode, Message: "Could not encode outbound frame."},

	// 3xxx: Rendering Errors
	ErrRosterEntryMissing: {Code: ErrRosterEntryMissing, Message: "Sender %s is not in the roster."},

	// 4xxx: Session Errors
	ErrInvalidUsername:    {Code: ErrInvalidUsername, Message: "Username must not be empty."},
	ErrIdentityAlreadySet: {Code: ErrIdentityAlreadySet, Message: "Username is already set for this session."},

	// 5xxx: Internal Errors
	ErrUnknown: {Code: ErrUnknown, Message: "Something went wrong."},
}
