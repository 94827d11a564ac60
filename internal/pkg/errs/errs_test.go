package errs

import (
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewErrorFormatsDetails(t *testing.T) {
	err := NewError(ErrDialFailed, "ws://localhost:8080/chat")

	assert.Equal(t, ErrDialFailed, err.Code)
	assert.Equal(t, "Could not connect to ws://localhost:8080/chat.", err.Message)
}

func TestNewErrorIgnoresDetailsWithoutPlaceholder(t *testing.T) {
	err := NewError(ErrSendQueueFull, "extra")

	assert.Equal(t, errorMap[ErrSendQueueFull].Message, err.Message)
}

func TestNewErrorUnknownCode(t *testing.T) {
	err := NewError(9999)

	assert.Equal(t, ErrUnknown, err.Code)
}

func TestNewErrorDoesNotMutateTemplate(t *testing.T) {
	_ = NewError(ErrRosterEntryMissing, "alice")

	assert.Equal(t, "Sender %s is not in the roster.", errorMap[ErrRosterEntryMissing].Message)
}

func TestWrapUnwrapsToCause(t *testing.T) {
	cause := errors.New("connection reset")
	err := fmt.Errorf("send: %w", Wrap(ErrNotConnected, cause))

	require.ErrorIs(t, err, cause)
	assert.True(t, HasCode(err, ErrNotConnected))
	assert.False(t, HasCode(err, ErrSendQueueFull))
	assert.Contains(t, err.Error(), "connection reset")
}

func TestHasCodePlainError(t *testing.T) {
	assert.False(t, HasCode(errors.New("plain"), ErrUnknown))
	assert.False(t, HasCode(nil, ErrUnknown))
}
