package mockserver

import (
	"bytes"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"

	"github.com/ijsvault/vaultadmin/internal/vault"
)

func newTestServer(t *testing.T) (*Server, *httptest.Server) {
	t.Helper()
	mini := miniredis.RunT(t)
	rdb := redis.NewClient(&redis.Options{Addr: mini.Addr()})
	t.Cleanup(func() { rdb.Close() })

	srv := New(rdb, []byte("test-secret"), nil)
	ts := httptest.NewServer(srv.Handler())
	t.Cleanup(ts.Close)
	return srv, ts
}

func loginToken(t *testing.T, ts *httptest.Server) string {
	t.Helper()
	body := fmt.Sprintf(`{"email":"admin@ijsvault.com","password":%q}`, adminPassword)
	resp, err := http.Post(ts.URL+"/api/auth/login", "application/json", bytes.NewBufferString(body))
	if err != nil {
		t.Fatalf("login request: %v", err)
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("expected status 200, got %d", resp.StatusCode)
	}
	var envelope struct {
		Success bool `json:"success"`
		Data    struct {
			Tokens tokensPayload `json:"tokens"`
		} `json:"data"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&envelope); err != nil {
		t.Fatalf("decode login response: %v", err)
	}
	if !envelope.Success {
		t.Fatal("expected a success envelope from login")
	}
	if envelope.Data.Tokens.Access.Token == "" {
		t.Fatal("expected an access token")
	}
	return envelope.Data.Tokens.Access.Token
}

func authedGet(t *testing.T, ts *httptest.Server, token, path string) map[string]json.RawMessage {
	t.Helper()
	req, err := http.NewRequest(http.MethodGet, ts.URL+path, nil)
	if err != nil {
		t.Fatalf("build request: %v", err)
	}
	req.Header.Set("Authorization", "Bearer "+token)
	resp, err := http.DefaultClient.Do(req)
	if err != nil {
		t.Fatalf("request %s: %v", path, err)
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("expected status 200 for %s, got %d", path, resp.StatusCode)
	}
	var body map[string]json.RawMessage
	if err := json.NewDecoder(resp.Body).Decode(&body); err != nil {
		t.Fatalf("decode %s: %v", path, err)
	}
	return body
}

func TestLoginRejectsBadPassword(t *testing.T) {
	_, ts := newTestServer(t)
	resp, err := http.Post(ts.URL+"/api/auth/login", "application/json",
		bytes.NewBufferString(`{"email":"admin@ijsvault.com","password":"wrong"}`))
	if err != nil {
		t.Fatalf("login request: %v", err)
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusUnauthorized {
		t.Fatalf("expected status 401, got %d", resp.StatusCode)
	}
}

// The users and sessions handlers answer in the legacy numeric-status shape,
// the rest in the success shape.
func TestEnvelopeShapeSplit(t *testing.T) {
	_, ts := newTestServer(t)
	token := loginToken(t, ts)

	tests := []struct {
		path       string
		wantLegacy bool
	}{
		{path: "/api/admin/users", wantLegacy: true},
		{path: "/api/admin/sessions", wantLegacy: true},
		{path: "/api/admin/notifications", wantLegacy: false},
		{path: "/api/admin/legal", wantLegacy: false},
		{path: "/api/admin/dashboard", wantLegacy: false},
	}
	for _, tt := range tests {
		t.Run(tt.path, func(t *testing.T) {
			body := authedGet(t, ts, token, tt.path)
			_, hasStatus := body["status"]
			_, hasSuccess := body["success"]
			if tt.wantLegacy && (!hasStatus || hasSuccess) {
				t.Fatalf("expected a legacy envelope, got keys status=%v success=%v", hasStatus, hasSuccess)
			}
			if !tt.wantLegacy && (hasStatus || !hasSuccess) {
				t.Fatalf("expected a success envelope, got keys status=%v success=%v", hasStatus, hasSuccess)
			}
		})
	}
}

func TestRequireAuth(t *testing.T) {
	_, ts := newTestServer(t)
	resp, err := http.Get(ts.URL + "/api/admin/users")
	if err != nil {
		t.Fatalf("request: %v", err)
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusUnauthorized {
		t.Fatalf("expected status 401, got %d", resp.StatusCode)
	}
}

func TestPublicLegalPageNeedsNoAuth(t *testing.T) {
	_, ts := newTestServer(t)
	resp, err := http.Get(ts.URL + "/api/legal/terms")
	if err != nil {
		t.Fatalf("request: %v", err)
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("expected status 200, got %d", resp.StatusCode)
	}
}

func TestMutationAppendsActivity(t *testing.T) {
	srv, ts := newTestServer(t)
	token := loginToken(t, ts)

	users := srv.store.filterUsers("", vault.UserStatusActive, "")
	target := users[0]

	req, err := http.NewRequest(http.MethodPost,
		ts.URL+"/api/admin/users/"+target.ID+"/suspend",
		bytes.NewBufferString(`{"reason":"test"}`))
	if err != nil {
		t.Fatalf("build request: %v", err)
	}
	req.Header.Set("Authorization", "Bearer "+token)
	req.Header.Set("Content-Type", "application/json")
	resp, err := http.DefaultClient.Do(req)
	if err != nil {
		t.Fatalf("suspend request: %v", err)
	}
	resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("expected status 200, got %d", resp.StatusCode)
	}

	activity := srv.store.listActivity(vault.ActionUserSuspended)
	if len(activity) != 1 {
		t.Fatalf("expected 1 suspend record, got %d", len(activity))
	}
	if activity[0].TargetUser == nil || activity[0].TargetUser.ID != target.ID {
		t.Fatalf("expected target user %s in the audit record", target.ID)
	}

	updated, ok := srv.store.getUser(target.ID)
	if !ok {
		t.Fatalf("expected user %s to still exist", target.ID)
	}
	if updated.Status != vault.UserStatusSuspended {
		t.Fatalf("expected status %q, got %q", vault.UserStatusSuspended, updated.Status)
	}
}

func TestLogoutRevokesAccessToken(t *testing.T) {
	_, ts := newTestServer(t)
	token := loginToken(t, ts)

	req, err := http.NewRequest(http.MethodGet, ts.URL+"/api/auth/logout", nil)
	if err != nil {
		t.Fatalf("build request: %v", err)
	}
	req.Header.Set("Authorization", "Bearer "+token)
	resp, err := http.DefaultClient.Do(req)
	if err != nil {
		t.Fatalf("logout request: %v", err)
	}
	resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("expected status 200, got %d", resp.StatusCode)
	}

	req, err = http.NewRequest(http.MethodGet, ts.URL+"/api/admin/users", nil)
	if err != nil {
		t.Fatalf("build request: %v", err)
	}
	req.Header.Set("Authorization", "Bearer "+token)
	resp, err = http.DefaultClient.Do(req)
	if err != nil {
		t.Fatalf("request after logout: %v", err)
	}
	resp.Body.Close()
	if resp.StatusCode != http.StatusUnauthorized {
		t.Fatalf("expected status 401 for a revoked token, got %d", resp.StatusCode)
	}
}

func TestPaginate(t *testing.T) {
	items := []int{1, 2, 3, 4, 5}
	tests := []struct {
		name      string
		page      int
		pageSize  int
		wantItems []int
		wantTotal int
	}{
		{name: "first page", page: 1, pageSize: 2, wantItems: []int{1, 2}, wantTotal: 5},
		{name: "middle page", page: 2, pageSize: 2, wantItems: []int{3, 4}, wantTotal: 5},
		{name: "short last page", page: 3, pageSize: 2, wantItems: []int{5}, wantTotal: 5},
		{name: "past the end", page: 4, pageSize: 2, wantItems: []int{}, wantTotal: 5},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, total := paginate(items, tt.page, tt.pageSize)
			if total != tt.wantTotal {
				t.Fatalf("expected total %d, got %d", tt.wantTotal, total)
			}
			if len(got) != len(tt.wantItems) {
				t.Fatalf("expected %v, got %v", tt.wantItems, got)
			}
			for i := range got {
				if got[i] != tt.wantItems[i] {
					t.Fatalf("expected %v, got %v", tt.wantItems, got)
				}
			}
		})
	}
}

func TestSeedCounts(t *testing.T) {
	store := newFixtureStore(time.Now)
	users := store.filterUsers("", "", "")
	if len(users) != seedUserCount {
		t.Fatalf("expected %d seeded users, got %d", seedUserCount, len(users))
	}
	pages := store.listLegalPages()
	if len(pages) != 3 {
		t.Fatalf("expected 3 legal pages, got %d", len(pages))
	}
}
