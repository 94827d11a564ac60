package tui

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/textinput"
	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"roomchat/internal/app/chat"
	"roomchat/internal/pkg/errs"
)

type (
	// connectedMsg carries the result of dialing the server.
	connectedMsg struct {
		transport chat.Transport
		err       error
	}

	// frameMsg is one raw inbound frame.
	frameMsg []byte

	// disconnectedMsg reports that the inbound stream ended.
	disconnectedMsg struct{}
)

// chatModel is the screen showing the roster, the feed and the input line.
type chatModel struct {
	ctx     context.Context
	session *chat.Session
	input   textinput.Model
	feed    viewport.Model
	status  string
	width   int
	height  int
}

func newChatModel(ctx context.Context, s *chat.Session, width, height int) *chatModel {
	input := textinput.New()
	input.Placeholder = "Message"
	input.CharLimit = 2000
	input.Focus()

	m := &chatModel{
		ctx:     ctx,
		session: s,
		input:   input,
		feed:    viewport.New(0, 0),
		status:  "connecting...",
	}
	m.resize(width, height)
	return m
}

// Init dials off the update loop; the session is only touched once connectedMsg arrives.
func (m *chatModel) Init() tea.Cmd {
	s := m.session
	ctx := m.ctx
	return tea.Batch(textinput.Blink, func() tea.Msg {
		transport, err := s.Dial(ctx)
		return connectedMsg{transport: transport, err: err}
	})
}

// waitForFrame delivers the next inbound frame to the update loop.
func waitForFrame(inbound <-chan []byte) tea.Cmd {
	return func() tea.Msg {
		frame, ok := <-inbound
		if !ok {
			return disconnectedMsg{}
		}
		return frameMsg(frame)
	}
}

func (m *chatModel) Update(msg tea.Msg) tea.Cmd {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.resize(msg.Width, msg.Height)
		return nil

	case connectedMsg:
		if msg.err != nil {
			m.session.Fail()
			m.status = statusText(msg.err)
			return nil
		}
		m.session.Attach(msg.transport)
		m.status = ""
		return waitForFrame(m.session.Inbound())

	case frameMsg:
		if m.session.HandleFrame(msg) {
			m.refreshFeed()
		}
		return waitForFrame(m.session.Inbound())

	case disconnectedMsg:
		m.session.MarkDisconnected()
		m.status = "disconnected from server"
		return nil

	case tea.KeyMsg:
		if msg.Type == tea.KeyEnter {
			m.submit()
			return nil
		}
	}

	var inputCmd, feedCmd tea.Cmd
	m.input, inputCmd = m.input.Update(msg)
	m.feed, feedCmd = m.feed.Update(msg)
	return tea.Batch(inputCmd, feedCmd)
}

// submit sends the input line. The text is kept when sending fails so nothing is lost.
func (m *chatModel) submit() {
	if err := m.session.Submit(m.input.Value()); err != nil {
		m.status = statusText(err)
		return
	}
	m.input.SetValue("")
	m.status = ""
}

func (m *chatModel) resize(width, height int) {
	m.width, m.height = width, height

	feedWidth := max(width-rosterWidth-4, 10)
	feedHeight := max(height-6, 3)

	m.feed.Width = feedWidth
	m.feed.Height = feedHeight
	m.input.Width = max(feedWidth-4, 10)
	m.refreshFeed()
}

func (m *chatModel) refreshFeed() {
	m.feed.SetContent(renderFeed(m.session.State().Feed(), m.session.Username()))
	m.feed.GotoBottom()
}

func renderFeed(items []chat.FeedItem, self string) string {
	if len(items) == 0 {
		return hintStyle.Render("No messages yet.")
	}

	var b strings.Builder
	for i, item := range items {
		if i > 0 {
			b.WriteString("\n")
		}
		sender := item.From
		if sender == self {
			sender += " (you)"
		}
		fmt.Fprintf(&b, "%s %s\n", senderStyle.Render(sender), avatarStyle.Render(item.Avatar))
		if item.IsImage {
			b.WriteString(imageStyle.Render(item.Body))
		} else {
			b.WriteString(item.Body)
		}
		b.WriteString("\n")
	}
	return b.String()
}

func renderRoster(s *chat.Session) string {
	lines := []string{titleStyle.Render("Users")}

	roster := s.State().Roster()
	if len(roster) == 0 {
		lines = append(lines, hintStyle.Render("nobody here yet"))
	}
	for _, p := range roster {
		lines = append(lines, "• "+p.Name, "  "+avatarStyle.Render(p.Avatar))
	}
	return strings.Join(lines, "\n")
}

func statusText(err error) string {
	var customErr *errs.CustomError
	if errors.As(err, &customErr) {
		return customErr.Message
	}
	return err.Error()
}

func (m *chatModel) View() string {
	roster := paneStyle.
		Width(rosterWidth).
		Height(max(m.height-2, 1)).
		Render(renderRoster(m.session))

	header := titleStyle.Render("💬 Chat") + " " + hintStyle.Render(fmt.Sprintf("%s · %s", m.session.Username(), m.session.Status()))

	footer := m.input.View()
	if m.status != "" {
		footer += "\n" + errorStyle.Render(m.status)
	}

	main := paneStyle.Render(lipgloss.JoinVertical(lipgloss.Left, header, m.feed.View(), footer))

	return lipgloss.JoinHorizontal(lipgloss.Top, roster, main)
}
