/*
Package user contains the roster representation of chat participants.

A participant is known only by name; its avatar is an image URL derived
deterministically from that name through an external avatar service.
*/
package user

import (
	"net/url"
	"strings"
)

const (
	// DefaultAvatarTemplate is the avatar endpoint used when no template is configured.
	DefaultAvatarTemplate = "https://avatars.dicebear.com/api/adventurer-neutral/%s.svg"

	// PlaceholderAvatar is shown for senders that are missing from the latest roster.
	PlaceholderAvatar = "https://avatars.dicebear.com/api/adventurer-neutral/placeholder.svg"
)

// Profile is one entry of the roster.
type Profile struct {
	// Name is the username exactly as broadcast by the server.
	Name string `json:"name"`

	// Avatar is the image URL derived from Name.
	Avatar string `json:"avatar"`
}

// AvatarURL fills template's first %s with the path-escaped name.
// Any other % sequence in template is kept as is.
// An empty template falls back to DefaultAvatarTemplate.
func AvatarURL(template, name string) string {
	if template == "" {
		template = DefaultAvatarTemplate
	}
	return strings.Replace(template, "%s", url.PathEscape(name), 1)
}

// NewProfiles builds the roster entries for names, preserving their order.
func NewProfiles(template string, names []string) []Profile {
	profiles := make([]Profile, 0, len(names))
	for _, name := range names {
		profiles = append(profiles, Profile{
			Name:   name,
			Avatar: AvatarURL(template, name),
		})
	}
	return profiles
}
