package chat

import (
	"bytes"
	"fmt"
	"strings"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"roomchat/internal/app/user"
	"roomchat/internal/pkg/errs"
)

func usersEnvelope(names ...string) Envelope {
	return Envelope{MessageType: TypeUsers, DataArray: names}
}

func messageEnvelope(from, body string) Envelope {
	data := fmt.Sprintf(`{"from":%q,"message":%q}`, from, body)
	return Envelope{MessageType: TypeMessage, Data: &data}
}

func TestApplyRosterSnapshot(t *testing.T) {
	s := NewState("")

	changed, err := s.Apply(usersEnvelope("alice", "bob"))
	require.NoError(t, err)
	assert.True(t, changed)

	assert.Equal(t, []user.Profile{
		{Name: "alice", Avatar: user.AvatarURL("", "alice")},
		{Name: "bob", Avatar: user.AvatarURL("", "bob")},
	}, s.Roster())
}

func TestApplyRosterReplacesWholesale(t *testing.T) {
	s := NewState("")

	snapshots := [][]string{
		{"alice", "bob"},
		{"carol"},
		{"bob", "dave", "erin"},
	}
	for _, names := range snapshots {
		_, err := s.Apply(usersEnvelope(names...))
		require.NoError(t, err)
	}

	got := s.Roster()
	require.Len(t, got, 3)
	for i, name := range []string{"bob", "dave", "erin"} {
		assert.Equal(t, name, got[i].Name)
	}
}

func TestApplyRosterNullListEmptiesRoster(t *testing.T) {
	s := NewState("")
	_, err := s.Apply(usersEnvelope("alice"))
	require.NoError(t, err)

	changed, err := s.Apply(Envelope{MessageType: TypeUsers})
	require.NoError(t, err)

	assert.True(t, changed)
	assert.Empty(t, s.Roster())
}

func TestApplyMessagesKeepArrivalOrder(t *testing.T) {
	s := NewState("")

	const n = 25
	for i := 0; i < n; i++ {
		changed, err := s.Apply(messageEnvelope("alice", fmt.Sprintf("msg-%d", i)))
		require.NoError(t, err)
		require.True(t, changed)
	}

	got := s.Messages()
	require.Len(t, got, n)
	for i, m := range got {
		assert.Equal(t, fmt.Sprintf("msg-%d", i), m.Message)
	}
}

func TestApplySingleMessage(t *testing.T) {
	s := NewState("")

	_, err := s.Apply(messageEnvelope("alice", "hi"))
	require.NoError(t, err)

	assert.Equal(t, []MessageData{{From: "alice", Message: "hi"}}, s.Messages())
}

func TestApplyIgnoredTypesLeaveStateUnchanged(t *testing.T) {
	s := NewState("")
	_, err := s.Apply(usersEnvelope("alice"))
	require.NoError(t, err)
	_, err = s.Apply(messageEnvelope("alice", "hi"))
	require.NoError(t, err)

	roster, messages := s.Roster(), s.Messages()

	for _, env := range []Envelope{
		{MessageType: TypeRegister, Data: strPtr("bob")},
		{MessageType: "typing", DataArray: []string{"zed"}},
		{},
	} {
		changed, err := s.Apply(env)
		require.NoError(t, err)
		assert.False(t, changed)
	}

	assert.Equal(t, roster, s.Roster())
	assert.Equal(t, messages, s.Messages())
}

func TestApplyMalformedMessageLeavesStateUnchanged(t *testing.T) {
	s := NewState("")
	_, err := s.Apply(messageEnvelope("alice", "hi"))
	require.NoError(t, err)

	changed, err := s.Apply(Envelope{MessageType: TypeMessage, Data: strPtr("{broken")})

	require.Error(t, err)
	assert.True(t, errs.HasCode(err, errs.ErrMessageDecode))
	assert.False(t, changed)
	assert.Len(t, s.Messages(), 1)
}

func TestRosterAndMessagesAreCopies(t *testing.T) {
	s := NewState("")
	_, _ = s.Apply(usersEnvelope("alice"))
	_, _ = s.Apply(messageEnvelope("alice", "hi"))

	s.Roster()[0].Name = "mallory"
	s.Messages()[0].Message = "tampered"

	assert.Equal(t, "alice", s.Roster()[0].Name)
	assert.Equal(t, "hi", s.Messages()[0].Message)
}

func TestAvatarFor(t *testing.T) {
	s := NewState("https://img.test/%s.png")
	_, _ = s.Apply(usersEnvelope("alice"))

	avatar, ok := s.AvatarFor("alice")
	assert.True(t, ok)
	assert.Equal(t, "https://img.test/alice.png", avatar)

	avatar, ok = s.AvatarFor("Alice")
	assert.False(t, ok)
	assert.Equal(t, user.PlaceholderAvatar, avatar)
}

func TestFeedJoinsRosterAndFlagsImages(t *testing.T) {
	s := NewState("")
	_, _ = s.Apply(usersEnvelope("alice"))
	_, _ = s.Apply(messageEnvelope("alice", "https://media.test/wave.gif"))
	_, _ = s.Apply(messageEnvelope("ghost", "boo"))

	assert.Equal(t, []FeedItem{
		{From: "alice", Avatar: user.AvatarURL("", "alice"), Body: "https://media.test/wave.gif", IsImage: true},
		{From: "ghost", Avatar: user.PlaceholderAvatar, Body: "boo", IsImage: false},
	}, s.Feed())

	// the rendering hint never alters what is stored
	assert.Equal(t, "https://media.test/wave.gif", s.Messages()[0].Message)
}

func TestFeedReportsMissingSenderOnce(t *testing.T) {
	var logs bytes.Buffer
	s := NewState("").WithLogger(zerolog.New(&logs).Level(zerolog.InfoLevel))
	_, _ = s.Apply(usersEnvelope("alice"))
	_, _ = s.Apply(messageEnvelope("ghost", "boo"))
	_, _ = s.Apply(messageEnvelope("ghost", "boo again"))
	_, _ = s.Apply(messageEnvelope("alice", "hi"))

	s.Feed()
	s.Feed()

	assert.Equal(t, 1, strings.Count(logs.String(), `"from":"ghost"`))
	assert.Contains(t, logs.String(), `"level":"warn"`)
	assert.Contains(t, logs.String(), fmt.Sprintf(`"code":%d`, errs.ErrRosterEntryMissing))
	assert.NotContains(t, logs.String(), `"from":"alice"`)
}
