/*
Package tui renders the two terminal screens of the client: login and chat.

The bubbletea update loop is the single owner of all view state. Inbound frames are
delivered to it as messages one at a time, and outbound sends happen on it directly.
*/
package tui

import (
	"context"

	tea "github.com/charmbracelet/bubbletea"

	"roomchat/internal/app/chat"
	"roomchat/internal/app/session"
)

// SessionFactory builds the chat session for the logged-in identity.
type SessionFactory func(identity session.Reader) *chat.Session

type screen int

const (
	screenLogin screen = iota
	screenChat
)

// App is the root model switching between the login and chat screens.
type App struct {
	ctx        context.Context
	identity   *session.Identity
	newSession SessionFactory

	screen screen
	login  loginModel
	chat   *chatModel

	width  int
	height int
}

// NewApp returns the root model starting on the login screen.
func NewApp(ctx context.Context, identity *session.Identity, newSession SessionFactory) *App {
	return &App{
		ctx:        ctx,
		identity:   identity,
		newSession: newSession,
		screen:     screenLogin,
		login:      newLoginModel(identity),
	}
}

func (a *App) Init() tea.Cmd {
	return a.login.Init()
}

func (a *App) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		if msg.Type == tea.KeyCtrlC {
			a.Close()
			return a, tea.Quit
		}

	case tea.WindowSizeMsg:
		a.width, a.height = msg.Width, msg.Height

	case loggedInMsg:
		a.screen = screenChat
		a.chat = newChatModel(a.ctx, a.newSession(a.identity), a.width, a.height)
		return a, a.chat.Init()
	}

	switch a.screen {
	case screenChat:
		return a, a.chat.Update(msg)
	default:
		var cmd tea.Cmd
		a.login, cmd = a.login.Update(msg)
		return a, cmd
	}
}

func (a *App) View() string {
	if a.screen == screenChat {
		return a.chat.View()
	}
	return a.login.View()
}

// Session returns the active chat session, or nil while on the login screen.
func (a *App) Session() *chat.Session {
	if a.chat == nil {
		return nil
	}
	return a.chat.session
}

// Close terminates the chat connection, if any.
func (a *App) Close() {
	if s := a.Session(); s != nil {
		s.Close()
	}
}
