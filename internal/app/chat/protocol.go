/*
Package chat contains the client side of the real-time chat protocol: the wire envelope,
the WebSocket transport, the reducer that folds inbound events into view state, and the
session that ties them to a username.

This file defines the wire envelope and the message payload embedded in it.
*/
package chat

import (
	"encoding/json"
	"fmt"
	"strings"

	"roomchat/internal/pkg/errs"
)

// MessageType is the tag selecting which envelope field carries the payload.
type MessageType string

const (
	// TypeUsers is an inbound roster snapshot carried in DataArray.
	TypeUsers MessageType = "users"

	// TypeRegister is the outbound registration carrying the username in Data.
	TypeRegister MessageType = "register"

	// TypeMessage is a chat message carried in Data.
	TypeMessage MessageType = "message"
)

// imageSuffix marks a message body that should be rendered as an image.
const imageSuffix = ".gif"

// Envelope is the tagged frame exchanged with the server.
// TypeUsers populates DataArray; TypeRegister and TypeMessage populate Data.
type Envelope struct {
	MessageType MessageType `json:"messageType"`
	DataArray   []string    `json:"dataArray"`
	Data        *string     `json:"data"`
}

// MessageData is the payload of an inbound TypeMessage envelope.
type MessageData struct {
	From    string `json:"from"`
	Message string `json:"message"`
}

// IsImage reports whether the body should be rendered as an image rather than text.
func (m MessageData) IsImage() bool {
	return strings.HasSuffix(m.Message, imageSuffix)
}

// NewRegisterEnvelope builds the registration frame for username.
func NewRegisterEnvelope(username string) Envelope {
	return Envelope{MessageType: TypeRegister, Data: &username}
}

// NewMessageEnvelope builds an outbound chat frame. The server attributes the sender.
func NewMessageEnvelope(body string) Envelope {
	return Envelope{MessageType: TypeMessage, Data: &body}
}

// Encode serializes the envelope for the wire.
func (e Envelope) Encode() ([]byte, error) {
	data, err := json.Marshal(e)
	if err != nil {
		return nil, errs.Wrap(errs.ErrEnvelopeEncode, err)
	}
	return data, nil
}

// DecodeEnvelope parses one inbound frame.
// Unknown message types decode successfully; the reducer ignores them.
func DecodeEnvelope(raw []byte) (Envelope, error) {
	var env Envelope
	if err := json.Unmarshal(raw, &env); err != nil {
		return Envelope{}, errs.Wrap(errs.ErrEnvelopeDecode, err)
	}
	return env, nil
}

// DecodeMessageData parses the JSON payload embedded in a TypeMessage envelope.
// Both "from" and "message" must be present.
func DecodeMessageData(data *string) (MessageData, error) {
	if data == nil {
		return MessageData{}, errs.Wrap(errs.ErrMessageDecode, fmt.Errorf("data is null"))
	}

	var aux struct {
		From    *string `json:"from"`
		Message *string `json:"message"`
	}
	if err := json.Unmarshal([]byte(*data), &aux); err != nil {
		return MessageData{}, errs.Wrap(errs.ErrMessageDecode, err)
	}
	if aux.From == nil || aux.Message == nil {
		return MessageData{}, errs.Wrap(errs.ErrMessageDecode, fmt.Errorf("missing from or message field"))
	}

	return MessageData{From: *aux.From, Message: *aux.Message}, nil
}
