// Package session owns the admin's bearer token and profile snapshot. The
// state is persisted to a JSON file so it survives process restarts, and is
// mutated only through SetSession and ClearSession.
package session

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"sync"
)

type Token struct {
	AccessToken  string `json:"accessToken"`
	RefreshToken string `json:"refreshToken,omitempty"`
}

func (t Token) Empty() bool {
	return strings.TrimSpace(t.AccessToken) == ""
}

type Info struct {
	ID       string `json:"id"`
	FullName string `json:"fullName"`
	Email    string `json:"email"`
	Role     string `json:"role"`
}

type persisted struct {
	Token Token `json:"token"`
	Info  Info  `json:"info"`
}

// Context is the single piece of shared mutable state in the client stack.
// It is safe for concurrent use; in-flight requests read the token while
// sign-in and the 401 handler write it.
type Context struct {
	mu    sync.RWMutex
	path  string
	token Token
	info  Info
}

// Load initializes a Context from the token file at path. A missing file
// yields an empty (unauthenticated) session, not an error.
func Load(path string) (*Context, error) {
	path = strings.TrimSpace(path)
	if path == "" {
		return nil, fmt.Errorf("session token path is required")
	}
	ctx := &Context{path: path}

	raw, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return ctx, nil
		}
		return nil, fmt.Errorf("read session file: %w", err)
	}
	var state persisted
	if err := json.Unmarshal(raw, &state); err != nil {
		// A corrupt token file is treated as logged out rather than fatal.
		return ctx, nil
	}
	ctx.token = state.Token
	ctx.info = state.Info
	return ctx, nil
}

func (c *Context) Token() Token {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.token
}

func (c *Context) UserInfo() Info {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.info
}

func (c *Context) Authenticated() bool {
	return !c.Token().Empty()
}

// SetSession stores the token and profile and persists them.
func (c *Context) SetSession(token Token, info Info) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.token = token
	c.info = info
	return c.persistLocked()
}

// ClearSession zeroes the in-memory state and removes the token file. It is
// called on explicit logout and whenever a request comes back with 401.
func (c *Context) ClearSession() error {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.token = Token{}
	c.info = Info{}
	if err := os.Remove(c.path); err != nil && !os.IsNotExist(err) {
		return fmt.Errorf("remove session file: %w", err)
	}
	return nil
}

func (c *Context) persistLocked() error {
	raw, err := json.MarshalIndent(persisted{Token: c.token, Info: c.info}, "", "  ")
	if err != nil {
		return fmt.Errorf("encode session: %w", err)
	}
	if dir := filepath.Dir(c.path); dir != "." && dir != "" {
		if err := os.MkdirAll(dir, 0o700); err != nil {
			return fmt.Errorf("create session dir: %w", err)
		}
	}
	if err := os.WriteFile(c.path, raw, 0o600); err != nil {
		return fmt.Errorf("write session file: %w", err)
	}
	return nil
}
