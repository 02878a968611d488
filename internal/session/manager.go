package session

import (
	"context"
	"strings"
	"sync"

	"github.com/google/uuid"

	"github.com/blrlabs/blr-admin/pkg/client"
	"github.com/blrlabs/blr-admin/pkg/domain"
)

// Manager is the auth gate. It has exactly two states, unauthenticated
// and authenticated; Login is the only way in, Logout the only way out.
// Every state change is persisted so a restart restores it. The mutex
// matters because Login runs inside a bubbletea command goroutine.
type Manager struct {
	mu    sync.Mutex
	store Store
	api   *client.Client // unauthenticated client, used only for login
	cur   domain.Session
}

// NewManager creates a Manager over the given store and login client.
func NewManager(store Store, api *client.Client) *Manager {
	return &Manager{store: store, api: api}
}

// Load reads the persisted session once at startup. A previously
// authenticated session is trusted as-is; a revoked token surfaces as a
// 401 on the first API call, not here. Assigns the per-install client ID
// on first run.
func (m *Manager) Load() domain.Session {
	m.mu.Lock()
	defer m.mu.Unlock()

	sess, err := m.store.Get()
	if err != nil {
		sess = domain.Session{}
	}
	if sess.ClientID == "" {
		sess.ClientID = uuid.NewString()
		m.store.Set(sess) //nolint:errcheck // best-effort; login will persist again
	}
	m.cur = sess
	return sess
}

// Login exchanges credentials for a session. It always returns a Result:
// transport and HTTP failures become {OK: false, Message}; nothing is
// raised past this boundary. On failure the state stays unauthenticated
// and nothing is persisted.
func (m *Manager) Login(ctx context.Context, creds domain.Credentials) domain.Result {
	creds.Username = strings.TrimSpace(creds.Username)
	if creds.Username == "" {
		return domain.Result{Message: "username is required"}
	}
	if creds.Password == "" {
		return domain.Result{Message: "password is required"}
	}

	resp, err := m.api.AdminLogin(ctx, creds)
	if err != nil {
		return domain.Result{Message: client.ErrorMessage(err)}
	}
	if !resp.Success || resp.AccessToken == "" {
		msg := resp.Message
		if msg == "" {
			msg = "login failed"
		}
		return domain.Result{Message: msg}
	}

	// Identity comes from the backend when it supplies one; otherwise keep
	// a minimal identity derived from the login username.
	admin := resp.AdminUser
	if admin == nil {
		admin = &domain.AdminUser{Username: creds.Username, Role: domain.RoleAdmin, IsActive: true}
	}

	m.mu.Lock()
	defer m.mu.Unlock()
	m.cur = domain.Session{
		Authenticated: true,
		Admin:         admin,
		Token:         resp.AccessToken,
		ClientID:      m.cur.ClientID,
	}
	if err := m.store.Set(m.cur); err != nil {
		// Session is live in memory either way; persistence failure only
		// costs the next restart.
		return domain.Result{OK: true, Message: "signed in (session not saved: " + err.Error() + ")"}
	}
	msg := resp.Message
	if msg == "" {
		msg = "signed in"
	}
	return domain.Result{OK: true, Message: msg}
}

// Logout drops the session locally. It needs no network call and always
// succeeds, even when the store cannot be cleared.
func (m *Manager) Logout() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.store.Clear() //nolint:errcheck // logout is effective locally regardless
	m.cur = domain.Session{ClientID: m.cur.ClientID}
}

// Current returns the session as of the last state change.
func (m *Manager) Current() domain.Session {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.cur
}

// Authenticated reports whether the gate is open.
func (m *Manager) Authenticated() bool {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.cur.Authenticated
}

// Token returns the bearer token, or "" when unauthenticated.
func (m *Manager) Token() string {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.cur.Token
}
