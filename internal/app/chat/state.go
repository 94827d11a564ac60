/*
Package chat contains the client side of the real-time chat protocol.

This file defines State, the renderable view state, and the reducer that applies one
decoded envelope to it.
*/
package chat

import (
	"github.com/rs/zerolog"

	"roomchat/internal/app/user"
	"roomchat/internal/pkg/errs"
	"roomchat/internal/pkg/logx"
)

// FeedItem is a message joined with its sender's avatar, ready to render.
type FeedItem struct {
	From    string
	Avatar  string
	Body    string
	IsImage bool
}

// State is the roster and message feed of one chat view.
// It is owned by a single loop and is not safe for concurrent use.
type State struct {
	// template used to derive roster avatars.
	avatarTemplate string

	// the latest roster snapshot, in broadcast order.
	roster []user.Profile

	// every chat message received, in arrival order.
	messages []MessageData

	// senders already reported as missing from the roster.
	reportedMissing map[string]struct{}

	// structured logger with state context.
	logger zerolog.Logger
}

// NewState returns empty view state deriving avatars from avatarTemplate.
func NewState(avatarTemplate string) *State {
	return &State{
		avatarTemplate:  avatarTemplate,
		roster:          []user.Profile{},
		messages:        []MessageData{},
		reportedMissing: make(map[string]struct{}),
		logger:          logx.Logger().With().Str("component", "State").Logger(),
	}
}

// WithLogger replaces the state's logger, typically with one carrying session fields.
func (s *State) WithLogger(logger zerolog.Logger) *State {
	s.logger = logger.With().Str("component", "State").Logger()
	return s
}

// Apply folds one envelope into the state and reports whether a re-render is needed.
// A malformed embedded message returns an error and leaves the state unchanged.
func (s *State) Apply(env Envelope) (bool, error) {
	switch env.MessageType {
	case TypeUsers:
		s.roster = user.NewProfiles(s.avatarTemplate, env.DataArray)
		s.logger.Debug().Int("roster_size", len(s.roster)).Msg("Roster replaced.")
		return true, nil

	case TypeMessage:
		msg, err := DecodeMessageData(env.Data)
		if err != nil {
			return false, err
		}
		s.messages = append(s.messages, msg)
		return true, nil

	default:
		s.logger.Debug().Str("msg_type", string(env.MessageType)).Msg("Ignoring envelope of unhandled type.")
		return false, nil
	}
}

// Roster returns a copy of the latest roster snapshot.
func (s *State) Roster() []user.Profile {
	out := make([]user.Profile, len(s.roster))
	copy(out, s.roster)
	return out
}

// Messages returns a copy of the message feed in arrival order.
func (s *State) Messages() []MessageData {
	out := make([]MessageData, len(s.messages))
	copy(out, s.messages)
	return out
}

// AvatarFor returns the avatar of the roster entry named exactly name.
// When no entry matches it returns user.PlaceholderAvatar and false.
func (s *State) AvatarFor(name string) (string, bool) {
	for _, p := range s.roster {
		if p.Name == name {
			return p.Avatar, true
		}
	}
	return user.PlaceholderAvatar, false
}

// Feed joins every message with its sender's avatar.
// Senders missing from the roster get the placeholder avatar; each is logged once.
func (s *State) Feed() []FeedItem {
	items := make([]FeedItem, 0, len(s.messages))
	for _, m := range s.messages {
		avatar, ok := s.AvatarFor(m.From)
		if !ok {
			s.reportMissing(m.From)
		}
		items = append(items, FeedItem{
			From:    m.From,
			Avatar:  avatar,
			Body:    m.Message,
			IsImage: m.IsImage(),
		})
	}
	return items
}

func (s *State) reportMissing(name string) {
	if _, seen := s.reportedMissing[name]; seen {
		return
	}
	s.reportedMissing[name] = struct{}{}

	s.logger.Warn().
		Err(errs.NewError(errs.ErrRosterEntryMissing, name)).
		Int("code", errs.ErrRosterEntryMissing).
		Str("from", name).
		Msg("Using placeholder avatar.")
}
