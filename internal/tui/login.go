package tui

import (
	"context"
	"fmt"
	"strings"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/blrlabs/blr-admin/internal/session"
	"github.com/blrlabs/blr-admin/pkg/domain"
)

type loginField int

const (
	fieldUsername loginField = iota
	fieldPassword
	numLoginFields
)

// loginResultMsg carries the outcome of a login attempt. The root App
// watches it too: an OK result opens the dashboard.
type loginResultMsg struct {
	result domain.Result
}

// loginModel is the sign-in form shown while the gate is closed.
type loginModel struct {
	mgr        *session.Manager
	fields     [numLoginFields]string
	focus      loginField
	submitting bool
	statusMsg  string
	width      int
	height     int
}

func newLoginModel(mgr *session.Manager) loginModel {
	return loginModel{mgr: mgr}
}

func (m loginModel) Init() tea.Cmd {
	return nil
}

func (m loginModel) Update(msg tea.Msg) (loginModel, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		return m, nil

	case loginResultMsg:
		m.submitting = false
		if !msg.result.OK {
			m.statusMsg = msg.result.Message
		}
		return m, nil

	case tea.KeyMsg:
		if m.submitting {
			// No edits or double submits while the attempt is outstanding.
			return m, nil
		}
		return m.updateKeys(msg)
	}
	return m, nil
}

func (m loginModel) updateKeys(msg tea.KeyMsg) (loginModel, tea.Cmd) {
	m.statusMsg = ""

	switch msg.String() {
	case "tab", "down":
		m.focus = (m.focus + 1) % numLoginFields
	case "shift+tab", "up":
		m.focus = (m.focus - 1 + numLoginFields) % numLoginFields
	case "enter":
		if m.focus == fieldPassword {
			return m.submit()
		}
		m.focus = fieldPassword
	case "backspace":
		f := &m.fields[m.focus]
		*f = editRune(*f, "backspace")
	default:
		m.fields[m.focus] = editRune(m.fields[m.focus], msg.String())
	}
	return m, nil
}

func (m loginModel) submit() (loginModel, tea.Cmd) {
	username := strings.TrimSpace(m.fields[fieldUsername])
	password := m.fields[fieldPassword]

	if username == "" {
		m.statusMsg = "username is required"
		m.focus = fieldUsername
		return m, nil
	}
	if password == "" {
		m.statusMsg = "password is required"
		m.focus = fieldPassword
		return m, nil
	}

	m.submitting = true
	mgr := m.mgr
	return m, func() tea.Msg {
		res := mgr.Login(context.Background(), domain.Credentials{Username: username, Password: password})
		return loginResultMsg{result: res}
	}
}

func (m loginModel) View() string {
	var b strings.Builder

	b.WriteString("\n  " + titleStyle.Render("B L R  A D M I N") + "\n")
	b.WriteString("  " + metaStyle.Render("sign in to continue") + "\n\n")

	labels := [numLoginFields]string{"username", "password"}
	for i := loginField(0); i < numLoginFields; i++ {
		cursor := " "
		style := metaStyle
		if i == m.focus {
			cursor = ">"
			style = selectedStyle
		}

		display := m.fields[i]
		if i == fieldPassword {
			display = strings.Repeat("*", len([]rune(display)))
		}
		if i == m.focus && !m.submitting {
			display += "█"
		}
		fmt.Fprintf(&b, "  %s %s: %s\n", cursor, style.Render(fmt.Sprintf("%-8s", labels[i])), display)
	}

	b.WriteString("\n")
	switch {
	case m.submitting:
		b.WriteString("  " + dimStyle.Render("signing in..."))
	case m.statusMsg != "":
		b.WriteString("  " + errorStyle.Render(m.statusMsg))
	}

	return b.String()
}
