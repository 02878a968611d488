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

// usersLoadedMsg carries one page of end users.
type usersLoadedMsg struct {
	page *domain.UserPage
	err  error
}

// grantResultMsg carries the outcome of a grant-premium write.
type grantResultMsg struct {
	result domain.Result
}

type copyResultMsg struct{ err error }

// usersModel is the end-user table: search, premium filter, pagination,
// and the grant-premium modal.
type usersModel struct {
	svc     *data.Service
	page    *domain.UserPage
	cursor  int
	pageNum int

	search  string
	editing bool  // typing in the search box
	premium *bool // nil = all, true = premium, false = free

	grantOpen     bool
	grantDuration domain.PremiumDuration
	granting      bool

	loading   bool
	err       error
	statusMsg string
	width     int
	height    int
}

func newUsersModel(svc *data.Service) usersModel {
	return usersModel{
		svc:           svc,
		pageNum:       1,
		loading:       true,
		grantDuration: domain.PremiumOneMonth,
	}
}

func (m usersModel) params() client.ListUsersParams {
	return client.ListUsersParams{
		Page:       m.pageNum,
		Limit:      pageSize,
		Search:     strings.TrimSpace(m.search),
		HasPremium: m.premium,
	}
}

func (m usersModel) load() tea.Cmd {
	svc := m.svc
	p := m.params()
	return func() tea.Msg {
		page, err := svc.Users(context.Background(), p)
		return usersLoadedMsg{page: page, err: err}
	}
}

func (m usersModel) Init() tea.Cmd {
	return m.load()
}

func (m usersModel) Update(msg tea.Msg) (usersModel, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		return m, nil

	case usersLoadedMsg:
		m.loading = false
		m.page = msg.page
		m.err = msg.err
		if msg.err != nil {
			if cmd := authLostCmd(msg.err); cmd != nil {
				return m, cmd
			}
			return m, nil
		}
		if m.cursor >= len(msg.page.Users) {
			m.cursor = 0
		}
		return m, nil

	case grantResultMsg:
		m.granting = false
		m.grantOpen = false
		m.statusMsg = msg.result.Message
		if msg.result.OK {
			// The write invalidated the listing cache; reload to show the
			// flipped flag.
			m.loading = true
			return m, m.load()
		}
		return m, nil

	case copyResultMsg:
		if msg.err != nil {
			m.statusMsg = fmt.Sprintf("copy failed: %v", msg.err)
		} else {
			m.statusMsg = "copied!"
		}
		return m, nil

	case tea.KeyMsg:
		m.statusMsg = ""
		if m.grantOpen {
			return m.updateGrant(msg)
		}
		if m.editing {
			return m.updateSearch(msg)
		}
		return m.updateList(msg)
	}
	return m, nil
}

func (m usersModel) updateSearch(msg tea.KeyMsg) (usersModel, tea.Cmd) {
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

func (m usersModel) updateList(msg tea.KeyMsg) (usersModel, tea.Cmd) {
	switch msg.String() {
	case "j", "down":
		if m.page != nil && m.cursor < len(m.page.Users)-1 {
			m.cursor++
		}
	case "k", "up":
		if m.cursor > 0 {
			m.cursor--
		}
	case "/":
		m.editing = true
	case "f":
		m.premium = cyclePremiumFilter(m.premium)
		m.pageNum = 1
		m.loading = true
		return m, m.load()
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
	case "r":
		m.svc.RefreshUsers()
		m.loading = true
		return m, m.load()
	case "R":
		m.search = ""
		m.premium = nil
		m.pageNum = 1
		m.loading = true
		return m, m.load()
	case "g":
		if u := m.selected(); u != nil {
			m.grantOpen = true
			m.grantDuration = domain.PremiumOneMonth
		}
	case "c":
		if u := m.selected(); u != nil {
			email := u.Email
			return m, func() tea.Msg {
				return copyResultMsg{err: clipboard.WriteAll(email)}
			}
		}
	}
	return m, nil
}

func (m usersModel) updateGrant(msg tea.KeyMsg) (usersModel, tea.Cmd) {
	if m.granting {
		return m, nil
	}
	switch msg.String() {
	case "esc":
		m.grantOpen = false
	case "h", "left", "l", "right":
		m.grantDuration = cycleDuration(m.grantDuration)
	case "enter":
		u := m.selected()
		if u == nil {
			m.grantOpen = false
			return m, nil
		}
		m.granting = true
		svc := m.svc
		userID := u.ID
		duration := m.grantDuration
		return m, func() tea.Msg {
			return grantResultMsg{result: svc.GrantPremium(context.Background(), userID, duration)}
		}
	}
	return m, nil
}

func (m usersModel) selected() *domain.User {
	if m.page == nil || m.cursor >= len(m.page.Users) {
		return nil
	}
	return &m.page.Users[m.cursor]
}

// cyclePremiumFilter advances all -> premium -> free -> all.
func cyclePremiumFilter(cur *bool) *bool {
	switch {
	case cur == nil:
		v := true
		return &v
	case *cur:
		v := false
		return &v
	default:
		return nil
	}
}

func cycleDuration(cur domain.PremiumDuration) domain.PremiumDuration {
	for i, d := range domain.PremiumDurations {
		if d == cur {
			return domain.PremiumDurations[(i+1)%len(domain.PremiumDurations)]
		}
	}
	return domain.PremiumDurations[0]
}

func (m usersModel) filterLabel() string {
	switch {
	case m.premium == nil:
		return "all"
	case *m.premium:
		return "premium"
	default:
		return "free"
	}
}

func (m usersModel) helpKeys() string {
	if m.grantOpen {
		return helpEntry("h/l", "duration") + "  " + helpEntry("enter", "grant") + "  " + helpEntry("esc", "cancel")
	}
	if m.editing {
		return helpEntry("enter", "search") + "  " + helpEntry("esc", "clear")
	}
	return helpEntry("j/k", "nav") + "  " + helpEntry("/", "search") + "  " + helpEntry("f", "filter") + "  " +
		helpEntry("[ ]", "page") + "  " + helpEntry("g", "grant") + "  " + helpEntry("c", "copy") + "  " +
		helpEntry("r", "refresh") + "  " + helpEntry("h", "help") + "  " + helpEntry("q", "quit")
}

func (m usersModel) View() string {
	var b strings.Builder

	// Status line: totals, filter, search.
	head := " " + selectedStyle.Render("Users")
	if m.page != nil {
		head += "  " + metaStyle.Render(fmt.Sprintf("%d total", m.page.Total))
		if m.page.TotalPages > 1 {
			head += " " + metaStyle.Render(fmt.Sprintf("(page %d/%d)", m.page.Page, m.page.TotalPages))
		}
	}
	if m.premium != nil {
		head += "  " + accentStyle.Render("filter:"+m.filterLabel())
	}
	if m.editing {
		head += "  " + searchStyle.Render("/"+m.search+"█")
	} else if m.search != "" {
		head += "  " + searchStyle.Render("/"+m.search)
	}
	b.WriteString(head + "\n\n")

	switch {
	case m.loading:
		b.WriteString("  " + dimStyle.Render("loading users...") + "\n")
	case m.err != nil:
		b.WriteString("  " + errorStyle.Render(client.ErrorMessage(m.err)) + "\n")
	case m.page == nil || len(m.page.Users) == 0:
		b.WriteString("  " + dimStyle.Render("no users match") + "\n")
	default:
		emailW := m.width - 38
		if emailW < 20 {
			emailW = 20
		}
		b.WriteString("  " + metaStyle.Render(padCell("email", emailW)+padCell("plan", 9)+padCell("created", 12)+"updated") + "\n")
		for i, u := range m.page.Users {
			if i == m.cursor {
				row := "> " + padCell(u.Email, emailW) + padCell(m.planLabel(u), 9) +
					padCell(formatDate(u.CreatedAt), 12) + formatDate(u.UpdatedAt)
				b.WriteString(selectedRowBg.Render(row) + "\n")
				continue
			}
			planStyle := freeStyle
			if u.HasPremium {
				planStyle = premiumStyle
			}
			row := "  " + normalStyle.Render(padCell(u.Email, emailW)) +
				planStyle.Render(padCell(m.planLabel(u), 9)) +
				dimStyle.Render(padCell(formatDate(u.CreatedAt), 12)+formatDate(u.UpdatedAt))
			b.WriteString(row + "\n")
		}
	}

	if m.grantOpen {
		b.WriteString("\n" + m.grantView())
	}
	if m.statusMsg != "" {
		b.WriteString("\n  " + statusStyle.Render(m.statusMsg))
	}

	return b.String()
}

func (m usersModel) planLabel(u domain.User) string {
	if u.HasPremium {
		return "premium"
	}
	return "free"
}

func (m usersModel) grantView() string {
	u := m.selected()
	if u == nil {
		return ""
	}
	var b strings.Builder
	b.WriteString("  " + selectedStyle.Render("Grant premium") + " " + normalStyle.Render(u.Email) + "\n")
	for _, d := range domain.PremiumDurations {
		cursor := " "
		style := metaStyle
		if d == m.grantDuration {
			cursor = ">"
			style = accentStyle
		}
		fmt.Fprintf(&b, "  %s %s\n", cursor, style.Render(d.Label()))
	}
	if m.granting {
		b.WriteString("  " + dimStyle.Render("granting..."))
	}
	return b.String()
}
