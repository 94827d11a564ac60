/*
Package session holds the identity shared by the login and chat screens.

The username is written once by the login screen and read by the chat screen when it
connects. Each screen receives only the half of Identity it needs: Setter or Reader.
*/
package session

import (
	"strings"
	"sync"

	"roomchat/internal/pkg/errs"
)

// Setter is the write side of the identity, held by the login screen.
type Setter interface {
	SetUsername(name string) error
}

// Reader is the read side of the identity, held by the chat screen.
type Reader interface {
	Username() string
	IsSet() bool
}

// Identity is the write-once session username.
type Identity struct {
	mu       sync.RWMutex
	username string
	set      bool
}

// NewIdentity returns an empty identity.
func NewIdentity() *Identity {
	return &Identity{}
}

// SetUsername records name as the session username.
// Surrounding whitespace is trimmed; a blank name or a second call returns an error.
func (i *Identity) SetUsername(name string) error {
	name = strings.TrimSpace(name)
	if name == "" {
		return errs.NewError(errs.ErrInvalidUsername)
	}

	i.mu.Lock()
	defer i.mu.Unlock()

	if i.set {
		return errs.NewError(errs.ErrIdentityAlreadySet)
	}

	i.username = name
	i.set = true
	return nil
}

// Username returns the recorded username, or "" before SetUsername succeeds.
func (i *Identity) Username() string {
	i.mu.RLock()
	defer i.mu.RUnlock()

	return i.username
}

// IsSet reports whether SetUsername has succeeded.
func (i *Identity) IsSet() bool {
	i.mu.RLock()
	defer i.mu.RUnlock()

	return i.set
}
