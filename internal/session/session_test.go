package session

import (
	"os"
	"path/filepath"
	"testing"
)

func TestLoadMissingFileYieldsEmptySession(t *testing.T) {
	path := filepath.Join(t.TempDir(), "session.json")
	ctx, err := Load(path)
	if err != nil {
		t.Fatalf("expected no error, got %v", err)
	}
	if ctx.Authenticated() {
		t.Fatal("expected an unauthenticated session")
	}
}

func TestLoadRejectsEmptyPath(t *testing.T) {
	if _, err := Load("   "); err == nil {
		t.Fatal("expected an error for an empty path")
	}
}

func TestLoadCorruptFileYieldsEmptySession(t *testing.T) {
	path := filepath.Join(t.TempDir(), "session.json")
	if err := os.WriteFile(path, []byte("{not json"), 0o600); err != nil {
		t.Fatalf("write file: %v", err)
	}
	ctx, err := Load(path)
	if err != nil {
		t.Fatalf("expected no error, got %v", err)
	}
	if ctx.Authenticated() {
		t.Fatal("expected a corrupt file to be treated as logged out")
	}
}

func TestSetSessionPersistsAndReloads(t *testing.T) {
	path := filepath.Join(t.TempDir(), "session.json")
	ctx, err := Load(path)
	if err != nil {
		t.Fatalf("load: %v", err)
	}

	token := Token{AccessToken: "access-1", RefreshToken: "refresh-1"}
	info := Info{ID: "a1", FullName: "Admin", Email: "admin@example.com", Role: "admin"}
	if err := ctx.SetSession(token, info); err != nil {
		t.Fatalf("set session: %v", err)
	}
	if !ctx.Authenticated() {
		t.Fatal("expected an authenticated session")
	}

	reloaded, err := Load(path)
	if err != nil {
		t.Fatalf("reload: %v", err)
	}
	if got := reloaded.Token(); got != token {
		t.Fatalf("expected token %+v, got %+v", token, got)
	}
	if got := reloaded.UserInfo(); got != info {
		t.Fatalf("expected info %+v, got %+v", info, got)
	}
}

func TestClearSessionRemovesFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "session.json")
	ctx, err := Load(path)
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if err := ctx.SetSession(Token{AccessToken: "x"}, Info{}); err != nil {
		t.Fatalf("set session: %v", err)
	}
	if err := ctx.ClearSession(); err != nil {
		t.Fatalf("clear session: %v", err)
	}
	if ctx.Authenticated() {
		t.Fatal("expected an unauthenticated session after clear")
	}
	if _, err := os.Stat(path); !os.IsNotExist(err) {
		t.Fatalf("expected session file to be removed, stat err %v", err)
	}
}

func TestClearSessionIdempotent(t *testing.T) {
	path := filepath.Join(t.TempDir(), "session.json")
	ctx, err := Load(path)
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if err := ctx.ClearSession(); err != nil {
		t.Fatalf("expected no error clearing an empty session, got %v", err)
	}
}
