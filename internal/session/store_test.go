package session

import (
	"os"
	"path/filepath"
	"testing"
)

func tempStore(t *testing.T) (*Store, string) {
	t.Helper()
	path := filepath.Join(t.TempDir(), "session.json")
	return NewStore(path), path
}

func TestLoginLogout(t *testing.T) {
	s, _ := tempStore(t)

	if s.IsAuthenticated() {
		t.Fatal("fresh store should be unauthenticated")
	}

	if err := s.Login("abc", "bob"); err != nil {
		t.Fatalf("login: %v", err)
	}
	if !s.IsAuthenticated() {
		t.Error("expected authenticated after login")
	}
	if s.Token() != "abc" || s.Username() != "bob" {
		t.Errorf("unexpected session: %+v", s.Current())
	}

	if err := s.Logout(); err != nil {
		t.Fatalf("logout: %v", err)
	}
	if s.IsAuthenticated() {
		t.Error("expected unauthenticated after logout")
	}
	if s.Token() != "" || s.Username() != "" {
		t.Errorf("session not cleared: %+v", s.Current())
	}
}

func TestLoginRequiresToken(t *testing.T) {
	s, _ := tempStore(t)
	if err := s.Login("", "bob"); err == nil {
		t.Fatal("expected error for empty token")
	}
	if s.IsAuthenticated() {
		t.Error("failed login must not authenticate")
	}
}

func TestLoginReplacesSession(t *testing.T) {
	s, _ := tempStore(t)
	if err := s.Login("first", "alice"); err != nil {
		t.Fatal(err)
	}
	if err := s.Login("second", "bob"); err != nil {
		t.Fatal(err)
	}
	cur := s.Current()
	if cur.Token != "second" || cur.Username != "bob" {
		t.Errorf("session not replaced: %+v", cur)
	}
}

func TestLogoutIdempotent(t *testing.T) {
	s, _ := tempStore(t)
	if err := s.Logout(); err != nil {
		t.Fatalf("logout on empty store: %v", err)
	}
	if err := s.Login("tok", "u"); err != nil {
		t.Fatal(err)
	}
	if err := s.Logout(); err != nil {
		t.Fatal(err)
	}
	if err := s.Logout(); err != nil {
		t.Fatalf("second logout: %v", err)
	}
}

func TestRestoreAcrossRestart(t *testing.T) {
	s, path := tempStore(t)
	if err := s.Login("abc", "bob"); err != nil {
		t.Fatal(err)
	}

	// Simulate process restart: a fresh store on the same file
	restored := NewStore(path)
	if !restored.IsAuthenticated() {
		t.Fatal("session not restored from disk")
	}
	if restored.Username() != "bob" || restored.Token() != "abc" {
		t.Errorf("restored session wrong: %+v", restored.Current())
	}
}

func TestLogoutRemovesFile(t *testing.T) {
	s, path := tempStore(t)
	if err := s.Login("abc", "bob"); err != nil {
		t.Fatal(err)
	}
	if err := s.Logout(); err != nil {
		t.Fatal(err)
	}
	if _, err := os.Stat(path); !os.IsNotExist(err) {
		t.Error("session file should be gone after logout")
	}

	restored := NewStore(path)
	if restored.IsAuthenticated() {
		t.Error("restarting after logout must be unauthenticated")
	}
}

func TestCorruptFileTreatedAsLoggedOut(t *testing.T) {
	path := filepath.Join(t.TempDir(), "session.json")
	if err := os.WriteFile(path, []byte("{not json"), 0600); err != nil {
		t.Fatal(err)
	}
	s := NewStore(path)
	if s.IsAuthenticated() {
		t.Error("corrupt session file must fall back to unauthenticated")
	}
}

func TestPersistFailureKeepsMemorySession(t *testing.T) {
	// Point the store at a path whose parent is a file, so MkdirAll fails
	dir := t.TempDir()
	blocker := filepath.Join(dir, "blocker")
	if err := os.WriteFile(blocker, []byte("x"), 0644); err != nil {
		t.Fatal(err)
	}

	s := NewStore(filepath.Join(blocker, "session.json"))
	err := s.Login("abc", "bob")
	if err == nil {
		t.Skip("filesystem allowed the write")
	}
	if !s.IsAuthenticated() {
		t.Error("login must keep the in-memory session when persist fails")
	}
}
