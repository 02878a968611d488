package tui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/blrlabs/blr-admin/pkg/domain"
)

var (
	// Base palette
	dimStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#8890a0"))

	selectedStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#e4e4ec")).
			Bold(true)

	normalStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#c0c4d0"))

	metaStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#505868"))

	titleStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#60a0e0")).
			Bold(true)

	accentStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#34d474"))

	errorStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#e06060"))

	statusStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#34d474"))

	// Help bar
	helpKeyStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#8890a0"))

	helpLabelStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#505868"))

	// Search / input
	searchStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#60a0e0")).
			Bold(true)

	inputPromptStyle = lipgloss.NewStyle().
				Foreground(lipgloss.Color("#60a0e0")).
				Bold(true)

	// Selected table row background
	selectedRowBg = lipgloss.NewStyle().Background(lipgloss.Color("#1e1e2a"))

	// Entitlement tags
	premiumStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#d4a844")).
			Bold(true)

	freeStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#606878"))

	inactiveStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#b45555"))
)

// roleColors maps admin roles to their display color.
var roleColors = map[domain.Role]lipgloss.Color{
	domain.RoleAdmin:  lipgloss.Color("#60a0e0"),
	domain.RoleSeller: lipgloss.Color("#b080d0"),
}

// RoleStyle returns a bold style colored for the given role.
func RoleStyle(r domain.Role) lipgloss.Style {
	if c, ok := roleColors[r]; ok {
		return lipgloss.NewStyle().Foreground(c).Bold(true)
	}
	return lipgloss.NewStyle().Foreground(lipgloss.Color("#8890a0")).Bold(true)
}

// helpEntry renders a single "key label" pair for help bars.
func helpEntry(key, label string) string {
	return helpKeyStyle.Render(key) + " " + helpLabelStyle.Render(label)
}

// helpItem is a selectable link in the help overlay.
type helpItem struct {
	label string
	desc  string
	url   string
}

// helpView renders the interactive help overlay with a cursor over the
// link items.
func helpView(cursor int, items []helpItem) string {
	title := titleStyle.Render("B L R  A D M I N")

	cmdStyle := lipgloss.NewStyle().Bold(true)
	descStyle := lipgloss.NewStyle().Foreground(lipgloss.Color("245"))
	sectionStyle := lipgloss.NewStyle().Foreground(lipgloss.Color("245")).Bold(true)
	cursorStyle := lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("#60a0e0"))

	keys := []struct{ key, desc string }{
		{"1 / 2", "switch between users and admins"},
		{"j k", "move the cursor"},
		{"[ ]", "previous / next page"},
		{"/", "search"},
		{"f", "cycle premium filter (users)"},
		{"g", "grant premium to selected user"},
		{"n", "create admin account (admins)"},
		{"c", "copy selected email or username"},
		{"r", "refresh from the backend"},
		{"R", "reset search and filters"},
		{"ctrl+l", "log out"},
		{"q", "quit"},
	}

	var b strings.Builder
	fmt.Fprintf(&b, "\n  %s\n\n", title)

	fmt.Fprintf(&b, "  %s\n", sectionStyle.Render("Keys"))
	for _, k := range keys {
		fmt.Fprintf(&b, "    %s  %s\n", cmdStyle.Render(fmt.Sprintf("%-10s", k.key)), descStyle.Render(k.desc))
	}

	if len(items) > 0 {
		fmt.Fprintf(&b, "\n  %s\n", sectionStyle.Render("Links (enter to open)"))
		for i, item := range items {
			label := cmdStyle.Render(fmt.Sprintf("%-20s", item.label))
			prefix := "    "
			if i == cursor {
				label = cursorStyle.Render(fmt.Sprintf("%-20s", item.label))
				prefix = "  > "
			}
			fmt.Fprintf(&b, "%s%s  %s\n", prefix, label, descStyle.Render(item.desc))
		}
	}
	return b.String()
}
