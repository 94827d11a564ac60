package tui

import (
	"errors"
	"strings"

	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"roomchat/internal/app/session"
	"roomchat/internal/pkg/errs"
)

// loggedInMsg tells the App to switch to the chat screen.
type loggedInMsg struct{}

// loginModel is the screen that captures the username.
type loginModel struct {
	setter session.Setter
	input  textinput.Model
	status string
}

func newLoginModel(setter session.Setter) loginModel {
	input := textinput.New()
	input.Placeholder = "Enter your username"
	input.CharLimit = 64
	input.Width = 32
	input.Focus()

	return loginModel{setter: setter, input: input}
}

func (m loginModel) Init() tea.Cmd {
	return textinput.Blink
}

// canSubmit mirrors a disabled button: nothing happens while the field is blank.
func (m loginModel) canSubmit() bool {
	return strings.TrimSpace(m.input.Value()) != ""
}

func (m loginModel) Update(msg tea.Msg) (loginModel, tea.Cmd) {
	if key, ok := msg.(tea.KeyMsg); ok && key.Type == tea.KeyEnter {
		if !m.canSubmit() {
			return m, nil
		}

		if err := m.setter.SetUsername(m.input.Value()); err != nil {
			var customErr *errs.CustomError
			if errors.As(err, &customErr) {
				m.status = customErr.Message
			} else {
				m.status = err.Error()
			}
			return m, nil
		}

		return m, func() tea.Msg { return loggedInMsg{} }
	}

	var cmd tea.Cmd
	m.input, cmd = m.input.Update(msg)
	m.status = ""
	return m, cmd
}

func (m loginModel) View() string {
	hint := "enter to chat · ctrl+c to quit"
	if !m.canSubmit() {
		hint = "type a username · ctrl+c to quit"
	}

	lines := []string{
		titleStyle.Render("Welcome Back"),
		hintStyle.Render("Ready to dive into conversations?"),
		"",
		m.input.View(),
		"",
		hintStyle.Render(hint),
	}
	if m.status != "" {
		lines = append(lines, errorStyle.Render(m.status))
	}

	return paneStyle.Render(lipgloss.JoinVertical(lipgloss.Left, lines...))
}
