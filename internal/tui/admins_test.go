package tui

import (
	"strings"
	"testing"
	"time"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/blrlabs/blr-admin/pkg/domain"
)

func newTestAdminsModel() adminsModel {
	m := newAdminsModel(nil)
	m.width = 80
	m.height = 24
	m.loading = false
	return m
}

func makeTestAdmin(username string, role domain.Role, active bool) domain.AdminUser {
	return domain.AdminUser{
		ID:        "a-" + username,
		Username:  username,
		Role:      role,
		IsActive:  active,
		CreatedAt: time.Date(2026, 1, 2, 9, 0, 0, 0, time.UTC),
	}
}

func makeAdminPage(admins ...domain.AdminUser) *domain.AdminPage {
	return &domain.AdminPage{
		Admins:     admins,
		Total:      len(admins),
		Page:       1,
		Limit:      pageSize,
		TotalPages: 1,
	}
}

func TestAdminsListRendersAccounts(t *testing.T) {
	m := newTestAdminsModel()
	m, _ = m.Update(adminsLoadedMsg{page: makeAdminPage(
		makeTestAdmin("root", domain.RoleAdmin, true),
		makeTestAdmin("storefront", domain.RoleSeller, false),
	)})

	view := m.View()
	for _, want := range []string{"root", "storefront", "admin", "seller", "inactive"} {
		if !strings.Contains(view, want) {
			t.Errorf("expected %q in view, got:\n%s", want, view)
		}
	}
}

func TestAdminsCreateModalOpens(t *testing.T) {
	m := newTestAdminsModel()
	m, _ = m.Update(adminsLoadedMsg{page: makeAdminPage(makeTestAdmin("root", domain.RoleAdmin, true))})

	m, _ = m.Update(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune("n")})
	if !m.createOpen {
		t.Fatal("expected createOpen=true after 'n'")
	}
	if m.createRole != domain.RoleSeller {
		t.Errorf("expected default role seller, got %q", m.createRole)
	}
	if m.createFocus != createFieldUsername {
		t.Errorf("expected focus on username, got %d", m.createFocus)
	}

	view := m.View()
	if !strings.Contains(view, "New admin account") {
		t.Errorf("expected create modal in view, got:\n%s", view)
	}
}

func TestAdminsCreateTyping(t *testing.T) {
	m := newTestAdminsModel()
	m.createOpen = true

	for _, r := range "ops" {
		m, _ = m.Update(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune{r}})
	}
	if m.createFields[createFieldUsername] != "ops" {
		t.Fatalf("expected username=%q, got %q", "ops", m.createFields[createFieldUsername])
	}

	m, _ = m.Update(tea.KeyMsg{Type: tea.KeyTab})
	if m.createFocus != createFieldPassword {
		t.Fatalf("expected focus on password after tab, got %d", m.createFocus)
	}
	for _, r := range "secret1" {
		m, _ = m.Update(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune{r}})
	}
	if m.createFields[createFieldPassword] != "secret1" {
		t.Errorf("expected password captured, got %q", m.createFields[createFieldPassword])
	}

	// The password renders masked.
	view := m.View()
	if strings.Contains(view, "secret1") {
		t.Error("expected password masked in view")
	}
	if !strings.Contains(view, "*******") {
		t.Errorf("expected asterisks in view, got:\n%s", view)
	}
}

func TestAdminsCreateRoleCycle(t *testing.T) {
	m := newTestAdminsModel()
	m.createOpen = true
	m.createFocus = createFieldRole

	m, _ = m.Update(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune("l")})
	if m.createRole != domain.RoleAdmin {
		t.Errorf("expected role cycled to admin, got %q", m.createRole)
	}
	m, _ = m.Update(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune("h")})
	if m.createRole != domain.RoleSeller {
		t.Errorf("expected role cycled back to seller, got %q", m.createRole)
	}
}

func TestAdminsCreateValidation(t *testing.T) {
	tests := []struct {
		name     string
		username string
		password string
		wantErr  string
	}{
		{"empty username", "", "longenough", "username is required"},
		{"whitespace username", "   ", "longenough", "username is required"},
		{"short password", "ops", "five5", "password must be at least 6 characters"},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			m := newTestAdminsModel()
			m.createOpen = true
			m.createFields[createFieldUsername] = tc.username
			m.createFields[createFieldPassword] = tc.password
			m.createFocus = createFieldRole

			m, cmd := m.Update(tea.KeyMsg{Type: tea.KeyEnter})
			if cmd != nil {
				t.Fatal("expected no submit command on invalid input")
			}
			if m.createErr != tc.wantErr {
				t.Errorf("expected error %q, got %q", tc.wantErr, m.createErr)
			}
			if !m.createOpen {
				t.Error("expected modal to stay open")
			}
		})
	}
}

func TestAdminsCreateSubmitReturnsCommand(t *testing.T) {
	m := newTestAdminsModel()
	m.createOpen = true
	m.createFields[createFieldUsername] = "ops"
	m.createFields[createFieldPassword] = "secret1"
	m.createFocus = createFieldRole

	m, cmd := m.Update(tea.KeyMsg{Type: tea.KeyEnter})
	if !m.creating {
		t.Error("expected creating=true after submit")
	}
	if cmd == nil {
		t.Error("expected create command after submit")
	}
}

func TestAdminsCreateResultSuccess(t *testing.T) {
	m := newTestAdminsModel()
	m.createOpen = true
	m.creating = true

	m, cmd := m.Update(createResultMsg{result: domain.Result{OK: true, Message: "admin account created"}})
	if m.createOpen {
		t.Error("expected modal closed on success")
	}
	if m.statusMsg != "admin account created" {
		t.Errorf("expected status message, got %q", m.statusMsg)
	}
	if cmd == nil {
		t.Error("expected reload command after successful create")
	}
}

func TestAdminsCreateResultFailureStaysOpen(t *testing.T) {
	m := newTestAdminsModel()
	m.createOpen = true
	m.creating = true

	m, cmd := m.Update(createResultMsg{result: domain.Result{Message: "username already taken"}})
	if !m.createOpen {
		t.Error("expected modal to stay open on failure")
	}
	if m.createErr != "username already taken" {
		t.Errorf("expected backend message verbatim, got %q", m.createErr)
	}
	if cmd != nil {
		t.Error("expected no reload after failed create")
	}
}

func TestAdminsSearchCommits(t *testing.T) {
	m := newTestAdminsModel()
	m, _ = m.Update(adminsLoadedMsg{page: makeAdminPage(makeTestAdmin("root", domain.RoleAdmin, true))})

	m, _ = m.Update(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune("/")})
	if !m.editing {
		t.Fatal("expected editing=true after '/'")
	}
	for _, r := range "ro" {
		m, _ = m.Update(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune{r}})
	}

	m, cmd := m.Update(tea.KeyMsg{Type: tea.KeyEnter})
	if m.editing {
		t.Error("expected editing=false after enter")
	}
	if m.search != "ro" {
		t.Errorf("expected search=%q, got %q", "ro", m.search)
	}
	if cmd == nil {
		t.Error("expected reload command after committing search")
	}
}

func TestAdminsErrorRendered(t *testing.T) {
	m := newTestAdminsModel()
	m, _ = m.Update(adminsLoadedMsg{err: errTest})

	view := m.View()
	if !strings.Contains(view, "boom") {
		t.Errorf("expected error text in view, got:\n%s", view)
	}
}
