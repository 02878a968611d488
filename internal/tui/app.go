// Package tui renders the admin console: a login gate in front of the
// user and admin-account tables.
package tui

import (
	"fmt"
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/blrlabs/blr-admin/internal/browser"
	"github.com/blrlabs/blr-admin/internal/data"
	"github.com/blrlabs/blr-admin/internal/session"
	"github.com/blrlabs/blr-admin/pkg/client"
	"github.com/blrlabs/blr-admin/pkg/domain"
)

type view int

const (
	viewUsers view = iota
	viewAdmins
)

// sessionLoadedMsg carries the persisted session read at startup.
type sessionLoadedMsg struct {
	sess domain.Session
}

// authExpiredMsg is emitted by a data view when the backend answers 401;
// the App drops back to the login gate.
type authExpiredMsg struct{}

// App is the root model. It owns the auth gate: until a session is
// loaded nothing routes, then either the login form or the dashboard
// renders, never both.
type App struct {
	mgr        *session.Manager
	newService func(token string) *data.Service
	consoleURL string
	version    string

	booted bool // initial session load settled
	authed bool

	login  loginModel
	users  usersModel
	admins adminsModel
	svc    *data.Service
	view   view

	helpOpen   bool
	helpCursor int
	statusMsg  string

	width  int
	height int
}

// NewApp creates the root TUI model.
func NewApp(mgr *session.Manager, newService func(token string) *data.Service, consoleURL, version string) App {
	return App{
		mgr:        mgr,
		newService: newService,
		consoleURL: consoleURL,
		version:    version,
		login:      newLoginModel(mgr),
	}
}

func (a App) Init() tea.Cmd {
	mgr := a.mgr
	return func() tea.Msg {
		return sessionLoadedMsg{sess: mgr.Load()}
	}
}

// authLostCmd converts a 401 into an authExpiredMsg; other errors stay
// with the view that saw them.
func authLostCmd(err error) tea.Cmd {
	if client.IsStatus(err, 401) {
		return func() tea.Msg { return authExpiredMsg{} }
	}
	return nil
}

// enterDashboard builds the authenticated service and data views.
func (a *App) enterDashboard() tea.Cmd {
	a.svc = a.newService(a.mgr.Token())
	a.users = newUsersModel(a.svc)
	a.admins = newAdminsModel(a.svc)
	a.view = viewUsers
	a.authed = true
	a.resize()
	return a.users.Init()
}

// resize pushes the current body size into every sub-model.
func (a *App) resize() {
	if a.width == 0 {
		return
	}
	// Chrome: header(2) + tabs(1) + help(1) = 4 lines
	bodyMsg := tea.WindowSizeMsg{Width: a.width, Height: a.height - 4}
	a.login, _ = a.login.Update(bodyMsg)
	a.users, _ = a.users.Update(bodyMsg)
	a.admins, _ = a.admins.Update(bodyMsg)
}

// isAdmin reports whether the signed-in operator holds the admin role.
// Seller accounts see the user table only; the backend enforces this
// independently, the gate here is convenience.
func (a App) isAdmin() bool {
	sess := a.mgr.Current()
	return sess.Admin != nil && sess.Admin.Role == domain.RoleAdmin
}

func (a App) isEditing() bool {
	if !a.authed {
		return true // login form captures everything
	}
	switch a.view {
	case viewUsers:
		return a.users.editing || a.users.grantOpen
	case viewAdmins:
		return a.admins.editing || a.admins.createOpen
	}
	return false
}

var appHelpItems = []helpItem{
	{label: "Backend", desc: "open the backend in a browser"},
}

func (a App) helpItems() []helpItem {
	items := make([]helpItem, len(appHelpItems))
	copy(items, appHelpItems)
	items[0].url = a.consoleURL
	return items
}

func (a App) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		a.width = msg.Width
		a.height = msg.Height
		a.resize()
		return a, nil

	case sessionLoadedMsg:
		a.booted = true
		if msg.sess.Authenticated {
			return a, a.enterDashboard()
		}
		return a, nil

	case loginResultMsg:
		// The login view also consumes this to clear its spinner.
		a.login, _ = a.login.Update(msg)
		if msg.result.OK {
			a.statusMsg = ""
			return a, a.enterDashboard()
		}
		return a, nil

	case authExpiredMsg:
		a.mgr.Logout()
		a.authed = false
		a.svc = nil
		a.login = newLoginModel(a.mgr)
		a.login.statusMsg = "session expired, sign in again"
		a.resize()
		return a, nil

	case tea.KeyMsg:
		a.statusMsg = ""

		// Help overlay captures all keys when open.
		if a.helpOpen {
			items := a.helpItems()
			switch msg.String() {
			case "h", "esc":
				a.helpOpen = false
			case "q", "ctrl+c":
				return a, tea.Quit
			case "j", "down":
				if a.helpCursor < len(items)-1 {
					a.helpCursor++
				}
			case "k", "up":
				if a.helpCursor > 0 {
					a.helpCursor--
				}
			case "enter":
				if item := items[a.helpCursor]; item.url != "" {
					browser.Open(item.url) //nolint:errcheck // best-effort browser open
				}
			}
			return a, nil
		}

		if msg.String() == "ctrl+c" {
			return a, tea.Quit
		}

		if !a.isEditing() {
			switch msg.String() {
			case "q":
				return a, tea.Quit
			case "h":
				a.helpOpen = true
				a.helpCursor = 0
				return a, nil
			case "ctrl+l":
				a.mgr.Logout()
				a.authed = false
				a.svc = nil
				a.login = newLoginModel(a.mgr)
				a.resize()
				return a, nil
			case "1":
				if a.view != viewUsers {
					a.view = viewUsers
					return a, a.users.Init()
				}
				return a, nil
			case "2":
				if !a.isAdmin() {
					a.statusMsg = "admin management requires the admin role"
					return a, nil
				}
				if a.view != viewAdmins {
					a.view = viewAdmins
					return a, a.admins.Init()
				}
				return a, nil
			}
		} else if a.authed && msg.String() == "ctrl+l" {
			// Logout works even from a search box; nothing sensitive to lose.
			a.mgr.Logout()
			a.authed = false
			a.svc = nil
			a.login = newLoginModel(a.mgr)
			a.resize()
			return a, nil
		}
	}

	if !a.booted {
		return a, nil
	}

	if !a.authed {
		var cmd tea.Cmd
		a.login, cmd = a.login.Update(msg)
		return a, cmd
	}

	var cmd tea.Cmd
	switch a.view {
	case viewUsers:
		a.users, cmd = a.users.Update(msg)
	case viewAdmins:
		a.admins, cmd = a.admins.Update(msg)
	}
	return a, cmd
}

func (a App) View() string {
	if !a.booted {
		return "\n  " + dimStyle.Render("loading session...")
	}

	if !a.authed {
		body := a.login.View()
		help := " " + helpEntry("tab", "next field") + "  " + helpEntry("enter", "sign in") + "  " + helpEntry("ctrl+c", "quit")
		return fmt.Sprintf("%s\n%s", body, help)
	}

	// Header: title + signed-in identity.
	title := titleStyle.Render("B L R  A D M I N")
	if a.version != "" && a.version != "dev" {
		title += " " + metaStyle.Render(a.version)
	}
	identity := ""
	if sess := a.mgr.Current(); sess.Admin != nil {
		identity = normalStyle.Render(sess.Admin.Username) + " " + RoleStyle(sess.Admin.Role).Render(string(sess.Admin.Role))
	}
	header := " " + title
	if identity != "" {
		gap := a.width - lipgloss.Width(title) - lipgloss.Width(identity) - 3
		if gap < 1 {
			gap = 1
		}
		header += strings.Repeat(" ", gap) + identity
	}
	if a.statusMsg != "" {
		header += "\n " + errorStyle.Render(a.statusMsg)
	} else {
		header += "\n"
	}

	// Tab bar.
	type tabEntry struct {
		key  string
		name string
		v    view
	}
	tabs := []tabEntry{{"1", "Users", viewUsers}}
	if a.isAdmin() {
		tabs = append(tabs, tabEntry{"2", "Admins", viewAdmins})
	}
	var tabBar strings.Builder
	tabBar.WriteString(" ")
	for i, t := range tabs {
		if i > 0 {
			tabBar.WriteString("   ")
		}
		if t.v == a.view {
			tabBar.WriteString(accentStyle.Render(t.key) + " " + selectedStyle.Underline(true).Render(t.name))
		} else {
			tabBar.WriteString(metaStyle.Render(t.key) + " " + dimStyle.Render(t.name))
		}
	}

	var body, help string
	switch a.view {
	case viewUsers:
		body = a.users.View()
		help = " " + a.users.helpKeys()
	case viewAdmins:
		body = a.admins.View()
		help = " " + a.admins.helpKeys()
	}

	if a.helpOpen {
		body = helpView(a.helpCursor, a.helpItems())
		help = " " + helpEntry("j/k", "nav") + "  " + helpEntry("enter", "open") + "  " + helpEntry("esc", "close")
	}

	// Chrome budget: header(2) + tabs(1) + help(1) = 4 lines + body
	body = strings.TrimRight(truncateToHeight(body, a.height-4), "\n")

	return fmt.Sprintf("%s\n%s\n%s\n%s", header, tabBar.String(), body, help)
}
