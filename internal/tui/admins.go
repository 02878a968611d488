package tui

import (
	"context"
	"fmt"
	"strings"

	"github.com/atotto/clipboard"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/blrlabs/blr-admin/internal/data"
	"github.com/blrlabs/blr-admin/pkg/client"
	"github.com/blrlabs/blr-admin/pkg/domain"
)

type adminsLoadedMsg struct {
	page *domain.AdminPage
	err  error
}

type createResultMsg struct {
	result domain.Result
}

const (
	createFieldUsername = iota
	createFieldPassword
	createFieldRole
	numCreateFields
)

// adminsModel is the admin-account table plus the create-account modal.
type adminsModel struct {
	svc     *data.Service
	page    *domain.AdminPage
	cursor  int
	pageNum int

	search  string
	editing bool

	createOpen   bool
	createFields [numCreateFields]string
	createRole   domain.Role
	createFocus  int
	creating     bool
	createErr    string

	loading   bool
	err       error
	statusMsg string
	width     int
	height    int
}

func newAdminsModel(svc *data.Service) adminsModel {
	return adminsModel{
		svc:        svc,
		pageNum:    1,
		loading:    true,
		createRole: domain.RoleSeller,
	}
}

func (m adminsModel) params() client.ListAdminsParams {
	return client.ListAdminsParams{
		Page:   m.pageNum,
		Limit:  pageSize,
		Search: strings.TrimSpace(m.search),
	}
}

func (m adminsModel) load() tea.Cmd {
	svc := m.svc
	p := m.params()
	return func() tea.Msg {
		page, err := svc.Admins(context.Background(), p)
		return adminsLoadedMsg{page: page, err: err}
	}
}

func (m adminsModel) Init() tea.Cmd {
	return m.load()
}

func (m adminsModel) Update(msg tea.Msg) (adminsModel, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		return m, nil

	case adminsLoadedMsg:
		m.loading = false
		m.page = msg.page
		m.err = msg.err
		if msg.err != nil {
			if cmd := authLostCmd(msg.err); cmd != nil {
				return m, cmd
			}
			return m, nil
		}
		if m.cursor >= len(msg.page.Admins) {
			m.cursor = 0
		}
		return m, nil

	case createResultMsg:
		m.creating = false
		if msg.result.OK {
			m.createOpen = false
			m.statusMsg = msg.result.Message
			m.loading = true
			return m, m.load()
		}
		m.createErr = msg.result.Message
		return m, nil

	case tea.KeyMsg:
		m.statusMsg = ""
		if m.createOpen {
			return m.updateCreate(msg)
		}
		if m.editing {
			return m.updateSearch(msg)
		}
		return m.updateList(msg)
	}
	return m, nil
}

func (m adminsModel) updateSearch(msg tea.KeyMsg) (adminsModel, tea.Cmd) {
	switch msg.String() {
	case "enter":
		m.editing = false
		m.pageNum = 1
		m.loading = true
		return m, m.load()
	case "esc":
		m.editing = false
		m.search = ""
		m.pageNum = 1
		m.loading = true
		return m, m.load()
	default:
		m.search = editRune(m.search, msg.String())
	}
	return m, nil
}

func (m adminsModel) updateList(msg tea.KeyMsg) (adminsModel, tea.Cmd) {
	switch msg.String() {
	case "j", "down":
		if m.page != nil && m.cursor < len(m.page.Admins)-1 {
			m.cursor++
		}
	case "k", "up":
		if m.cursor > 0 {
			m.cursor--
		}
	case "/":
		m.editing = true
	case "]", "right":
		if m.page != nil && m.pageNum < m.page.TotalPages {
			m.pageNum++
			m.loading = true
			return m, m.load()
		}
	case "[", "left":
		if m.pageNum > 1 {
			m.pageNum--
			m.loading = true
			return m, m.load()
		}
	case "R":
		m.search = ""
		m.pageNum = 1
		m.loading = true
		return m, m.load()
	case "n":
		m.createOpen = true
		m.createFields = [numCreateFields]string{}
		m.createRole = domain.RoleSeller
		m.createFocus = createFieldUsername
		m.createErr = ""
	case "r":
		m.svc.RefreshAdmins()
		m.loading = true
		return m, m.load()
	case "c":
		if a := m.selected(); a != nil {
			username := a.Username
			return m, func() tea.Msg {
				return copyResultMsg{err: clipboard.WriteAll(username)}
			}
		}
	}
	return m, nil
}

func (m adminsModel) updateCreate(msg tea.KeyMsg) (adminsModel, tea.Cmd) {
	if m.creating {
		return m, nil
	}
	switch msg.String() {
	case "esc":
		m.createOpen = false
	case "tab", "down":
		m.createFocus = (m.createFocus + 1) % numCreateFields
	case "shift+tab", "up":
		m.createFocus = (m.createFocus + numCreateFields - 1) % numCreateFields
	case "h", "left":
		if m.createFocus == createFieldRole {
			m.createRole = cycleRole(m.createRole)
		} else {
			m.createFields[m.createFocus] = editRune(m.createFields[m.createFocus], msg.String())
		}
	case "l", "right":
		if m.createFocus == createFieldRole {
			m.createRole = cycleRole(m.createRole)
		} else {
			m.createFields[m.createFocus] = editRune(m.createFields[m.createFocus], msg.String())
		}
	case "enter":
		if m.createFocus != createFieldRole {
			m.createFocus++
			return m, nil
		}
		return m.submitCreate()
	default:
		if m.createFocus != createFieldRole {
			m.createFields[m.createFocus] = editRune(m.createFields[m.createFocus], msg.String())
		}
	}
	return m, nil
}

func (m adminsModel) submitCreate() (adminsModel, tea.Cmd) {
	username := strings.TrimSpace(m.createFields[createFieldUsername])
	password := m.createFields[createFieldPassword]
	if username == "" {
		m.createErr = "username is required"
		return m, nil
	}
	if len(password) < 6 {
		m.createErr = "password must be at least 6 characters"
		return m, nil
	}
	m.creating = true
	m.createErr = ""
	svc := m.svc
	role := m.createRole
	return m, func() tea.Msg {
		return createResultMsg{result: svc.CreateAdmin(context.Background(), username, password, role)}
	}
}

func (m adminsModel) selected() *domain.AdminUser {
	if m.page == nil || m.cursor >= len(m.page.Admins) {
		return nil
	}
	return &m.page.Admins[m.cursor]
}

func cycleRole(cur domain.Role) domain.Role {
	for i, r := range domain.Roles {
		if r == cur {
			return domain.Roles[(i+1)%len(domain.Roles)]
		}
	}
	return domain.Roles[0]
}

func (m adminsModel) helpKeys() string {
	if m.createOpen {
		return helpEntry("tab", "next") + "  " + helpEntry("h/l", "role") + "  " + helpEntry("enter", "create") + "  " + helpEntry("esc", "cancel")
	}
	if m.editing {
		return helpEntry("enter", "filter") + "  " + helpEntry("esc", "clear")
	}
	return helpEntry("j/k", "nav") + "  " + helpEntry("/", "search") + "  " + helpEntry("[ ]", "page") + "  " +
		helpEntry("n", "new") + "  " + helpEntry("c", "copy") + "  " + helpEntry("r", "refresh") + "  " +
		helpEntry("h", "help") + "  " + helpEntry("q", "quit")
}

func (m adminsModel) View() string {
	var b strings.Builder

	head := " " + selectedStyle.Render("Admin accounts")
	if m.page != nil {
		head += "  " + metaStyle.Render(fmt.Sprintf("%d total", m.page.Total))
		if m.page.TotalPages > 1 {
			head += " " + metaStyle.Render(fmt.Sprintf("(page %d/%d)", m.page.Page, m.page.TotalPages))
		}
	}
	if m.editing {
		head += "  " + searchStyle.Render("/"+m.search+"█")
	} else if m.search != "" {
		head += "  " + searchStyle.Render("/"+m.search)
	}
	b.WriteString(head + "\n\n")

	switch {
	case m.loading:
		b.WriteString("  " + dimStyle.Render("loading admin accounts...") + "\n")
	case m.err != nil:
		b.WriteString("  " + errorStyle.Render(client.ErrorMessage(m.err)) + "\n")
	case m.page == nil || len(m.page.Admins) == 0:
		b.WriteString("  " + dimStyle.Render("no admin accounts match") + "\n")
	default:
		nameW := m.width - 34
		if nameW < 16 {
			nameW = 16
		}
		b.WriteString("  " + metaStyle.Render(padCell("username", nameW)+padCell("role", 9)+padCell("status", 10)+"created") + "\n")
		for i, a := range m.page.Admins {
			status := "active"
			stateStyle := normalStyle
			if !a.IsActive {
				status = "inactive"
				stateStyle = inactiveStyle
			}
			if i == m.cursor {
				row := "> " + padCell(a.Username, nameW) + padCell(string(a.Role), 9) +
					padCell(status, 10) + formatDate(a.CreatedAt)
				b.WriteString(selectedRowBg.Render(row) + "\n")
				continue
			}
			row := "  " + normalStyle.Render(padCell(a.Username, nameW)) +
				RoleStyle(a.Role).Render(padCell(string(a.Role), 9)) +
				stateStyle.Render(padCell(status, 10)) +
				dimStyle.Render(formatDate(a.CreatedAt))
			b.WriteString(row + "\n")
		}
	}

	if m.createOpen {
		b.WriteString("\n" + m.createView())
	}
	if m.statusMsg != "" {
		b.WriteString("\n  " + statusStyle.Render(m.statusMsg))
	}

	return b.String()
}

func (m adminsModel) createView() string {
	var b strings.Builder
	b.WriteString("  " + selectedStyle.Render("New admin account") + "\n")

	labels := [numCreateFields]string{"username", "password", "role"}
	for i, label := range labels {
		prompt := "  "
		if i == m.createFocus {
			prompt = inputPromptStyle.Render("> ")
		}
		var value string
		switch i {
		case createFieldPassword:
			value = strings.Repeat("*", len(m.createFields[i]))
		case createFieldRole:
			value = RoleStyle(m.createRole).Render(string(m.createRole)) + metaStyle.Render("  (h/l to change)")
		default:
			value = m.createFields[i]
		}
		if i == m.createFocus && i != createFieldRole {
			value += "█"
		}
		fmt.Fprintf(&b, "  %s%s %s\n", prompt, metaStyle.Render(padCell(label+":", 10)), value)
	}

	switch {
	case m.creating:
		b.WriteString("  " + dimStyle.Render("creating..."))
	case m.createErr != "":
		b.WriteString("  " + errorStyle.Render(m.createErr))
	}
	return b.String()
}
