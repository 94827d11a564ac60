/*
Package randx provides functions for generating cryptographically secure random identifiers.

It is used to tag each chat session's log lines with a UUID and to pick a guest username
when the headless client is started without one.
*/
package randx

import (
	"crypto/rand"
	"fmt"
	"math/big"

	"github.com/google/uuid"
)

const (
	// Base62Chars defines the character set used for Base62 encoding (0-9, A-Z, a-z).
	Base62Chars = "0123456789ABCDEFGHIJKLMNOPQRSTUVWXYZabcdefghijklmnopqrstuvwxyz"

	// Base62Len is the total number of characters in the Base62 character set (62).
	Base62Len = int64(len(Base62Chars))

	// GuestNamePrefix is the prefix of generated guest usernames.
	GuestNamePrefix = "guest_"

	// GuestNameRawLength is the number of random Base62 characters after the prefix.
	GuestNameRawLength = 6
)

// SessionID generates a UUID v4 string identifying one chat-session activation.
func SessionID() string {
	return uuid.New().String()
}

// GuestName generates a random username with the GuestNamePrefix and GuestNameRawLength Base62 characters.
func GuestName() (string, error) {
	result := make([]byte, GuestNameRawLength)

	for i := 0; i < GuestNameRawLength; i++ {
		num, err := rand.Int(rand.Reader, big.NewInt(Base62Len))
		if err != nil {
			return "", fmt.Errorf("failed to generate random number for guest name: %v", err)
		}
		result[i] = Base62Chars[num.Int64()]
	}

	return GuestNamePrefix + string(result), nil
}
