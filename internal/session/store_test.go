package session

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/blrlabs/blr-admin/pkg/domain"
)

func testStore(t *testing.T) *FileStore {
	t.Helper()
	return NewFileStore(filepath.Join(t.TempDir(), "state", "session.json"))
}

func TestFileStoreRoundTrip(t *testing.T) {
	s := testStore(t)

	want := domain.Session{
		Authenticated: true,
		Token:         "tok-abc",
		ClientID:      "install-1",
		Admin:         &domain.AdminUser{ID: "ad01", Username: "root", Role: domain.RoleAdmin},
	}
	if err := s.Set(want); err != nil {
		t.Fatalf("Set() error: %v", err)
	}

	got, err := s.Get()
	if err != nil {
		t.Fatalf("Get() error: %v", err)
	}
	if !got.Authenticated || got.Token != "tok-abc" || got.ClientID != "install-1" {
		t.Errorf("Get() = %+v, want %+v", got, want)
	}
	if got.Admin == nil || got.Admin.Username != "root" {
		t.Errorf("Admin = %+v, want username root", got.Admin)
	}
}

func TestFileStoreMissingFileIsLoggedOut(t *testing.T) {
	s := testStore(t)
	got, err := s.Get()
	if err != nil {
		t.Fatalf("Get() error: %v", err)
	}
	if got.Authenticated || got.Token != "" {
		t.Errorf("Get() on missing file = %+v, want zero session", got)
	}
}

func TestFileStoreCorruptFileIsLoggedOut(t *testing.T) {
	s := testStore(t)
	if err := os.MkdirAll(filepath.Dir(s.path), 0700); err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(s.path, []byte("{not json"), 0600); err != nil {
		t.Fatal(err)
	}
	got, err := s.Get()
	if err != nil {
		t.Fatalf("Get() error: %v", err)
	}
	if got.Authenticated {
		t.Error("corrupt session file must read as logged out")
	}
}

func TestFileStoreClear(t *testing.T) {
	s := testStore(t)
	if err := s.Set(domain.Session{Authenticated: true, Token: "tok"}); err != nil {
		t.Fatalf("Set() error: %v", err)
	}
	if err := s.Clear(); err != nil {
		t.Fatalf("Clear() error: %v", err)
	}
	if _, err := os.Stat(s.path); !os.IsNotExist(err) {
		t.Error("session file still exists after Clear")
	}
	// Clearing twice is fine.
	if err := s.Clear(); err != nil {
		t.Errorf("second Clear() error: %v", err)
	}
}

func TestFileStorePermissions(t *testing.T) {
	s := testStore(t)
	if err := s.Set(domain.Session{Token: "secret"}); err != nil {
		t.Fatalf("Set() error: %v", err)
	}
	info, err := os.Stat(s.path)
	if err != nil {
		t.Fatal(err)
	}
	if perm := info.Mode().Perm(); perm != 0600 {
		t.Errorf("session file mode = %o, want 0600", perm)
	}
}
