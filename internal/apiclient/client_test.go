package apiclient_test

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"sync/atomic"
	"testing"
	"time"

	"github.com/ijsvault/vaultadmin/internal/apiclient"
	"github.com/ijsvault/vaultadmin/internal/config"
	"github.com/ijsvault/vaultadmin/internal/session"
)

func newClient(t *testing.T, baseURL string) (*apiclient.Client, *session.Context) {
	t.Helper()
	sess, err := session.Load(filepath.Join(t.TempDir(), "session.json"))
	if err != nil {
		t.Fatalf("load session: %v", err)
	}
	cfg := &config.Config{
		APIBaseURL:     baseURL,
		RequestTimeout: 5 * time.Second,
		RetryAttempts:  3,
		RetryDelay:     time.Millisecond,
	}
	return apiclient.New(cfg, sess), sess
}

func TestEnvelopeNormalization(t *testing.T) {
	tests := []struct {
		name        string
		status      int
		body        string
		wantName    string
		wantErr     bool
		wantMessage string
	}{
		{
			name:     "success shape with data",
			status:   http.StatusOK,
			body:     `{"success":true,"data":{"name":"alice"}}`,
			wantName: "alice",
		},
		{
			name:     "success shape with inline payload",
			status:   http.StatusOK,
			body:     `{"success":true,"name":"bob"}`,
			wantName: "bob",
		},
		{
			name:     "legacy shape with status zero",
			status:   http.StatusOK,
			body:     `{"status":0,"data":{"name":"carol"}}`,
			wantName: "carol",
		},
		{
			name:        "success false uses error message",
			status:      http.StatusOK,
			body:        `{"success":false,"message":"outer","error":{"message":"inner","hint":"try later"}}`,
			wantErr:     true,
			wantMessage: "inner",
		},
		{
			name:        "success false falls back to hint",
			status:      http.StatusOK,
			body:        `{"success":false,"message":"outer","error":{"hint":"the hint"}}`,
			wantErr:     true,
			wantMessage: "the hint",
		},
		{
			name:        "success false falls back to top-level message",
			status:      http.StatusOK,
			body:        `{"success":false,"message":"outer"}`,
			wantErr:     true,
			wantMessage: "outer",
		},
		{
			name:        "legacy non-zero status",
			status:      http.StatusOK,
			body:        `{"status":3,"message":"legacy failure"}`,
			wantErr:     true,
			wantMessage: "legacy failure",
		},
		{
			name:        "http error with envelope body",
			status:      http.StatusBadRequest,
			body:        `{"success":false,"message":"bad input"}`,
			wantErr:     true,
			wantMessage: "bad input",
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				w.Header().Set("Content-Type", "application/json")
				w.WriteHeader(tt.status)
				w.Write([]byte(tt.body))
			}))
			defer ts.Close()

			client, _ := newClient(t, ts.URL)
			var out struct {
				Name string `json:"name"`
			}
			err := client.Post(context.Background(), "/thing", nil, &out)
			if tt.wantErr {
				var apiErr *apiclient.APIError
				if !errors.As(err, &apiErr) {
					t.Fatalf("expected APIError, got %v", err)
				}
				if apiErr.Message != tt.wantMessage {
					t.Fatalf("expected message %q, got %q", tt.wantMessage, apiErr.Message)
				}
				return
			}
			if err != nil {
				t.Fatalf("expected no error, got %v", err)
			}
			if out.Name != tt.wantName {
				t.Fatalf("expected name %q, got %q", tt.wantName, out.Name)
			}
		})
	}
}

func TestUnrecognizableEnvelopeIsMalformed(t *testing.T) {
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{"neither":"shape"}`))
	}))
	defer ts.Close()

	client, _ := newClient(t, ts.URL)
	err := client.Post(context.Background(), "/thing", nil, nil)
	if !errors.Is(err, apiclient.ErrMalformedResponse) {
		t.Fatalf("expected ErrMalformedResponse, got %v", err)
	}
}

func TestUnauthorizedClearsSession(t *testing.T) {
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusUnauthorized)
		w.Write([]byte(`{"success":false,"message":"Token expired"}`))
	}))
	defer ts.Close()

	client, sess := newClient(t, ts.URL)
	if err := sess.SetSession(session.Token{AccessToken: "stale"}, session.Info{}); err != nil {
		t.Fatalf("set session: %v", err)
	}

	err := client.Post(context.Background(), "/thing", nil, nil)
	if !apiclient.IsStatus(err, http.StatusUnauthorized) {
		t.Fatalf("expected a 401 APIError, got %v", err)
	}
	if sess.Authenticated() {
		t.Fatal("expected the session to be cleared after a 401")
	}
}

func TestGetRetriesServerErrors(t *testing.T) {
	var calls atomic.Int32
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		if calls.Add(1) < 3 {
			w.WriteHeader(http.StatusInternalServerError)
			w.Write([]byte(`{"success":false,"message":"boom"}`))
			return
		}
		w.Write([]byte(`{"success":true,"data":{"name":"ok"}}`))
	}))
	defer ts.Close()

	client, _ := newClient(t, ts.URL)
	var out struct {
		Name string `json:"name"`
	}
	if err := client.Get(context.Background(), "/thing", nil, &out); err != nil {
		t.Fatalf("expected recovery on third attempt, got %v", err)
	}
	if got := calls.Load(); got != 3 {
		t.Fatalf("expected 3 attempts, got %d", got)
	}
	if out.Name != "ok" {
		t.Fatalf("expected name %q, got %q", "ok", out.Name)
	}
}

func TestGetGivesUpAfterConfiguredAttempts(t *testing.T) {
	var calls atomic.Int32
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		calls.Add(1)
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusInternalServerError)
		w.Write([]byte(`{"success":false,"message":"still down"}`))
	}))
	defer ts.Close()

	client, _ := newClient(t, ts.URL)
	err := client.Get(context.Background(), "/thing", nil, nil)
	if !apiclient.IsStatus(err, http.StatusInternalServerError) {
		t.Fatalf("expected a 500 APIError, got %v", err)
	}
	if got := calls.Load(); got != 3 {
		t.Fatalf("expected 3 attempts, got %d", got)
	}
}

func TestGetDoesNotRetryClientErrors(t *testing.T) {
	var calls atomic.Int32
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		calls.Add(1)
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusNotFound)
		w.Write([]byte(`{"success":false,"message":"nope"}`))
	}))
	defer ts.Close()

	client, _ := newClient(t, ts.URL)
	err := client.Get(context.Background(), "/thing", nil, nil)
	if !apiclient.IsStatus(err, http.StatusNotFound) {
		t.Fatalf("expected a 404 APIError, got %v", err)
	}
	if got := calls.Load(); got != 1 {
		t.Fatalf("expected 1 attempt, got %d", got)
	}
}

func TestMutationsAreNeverRetried(t *testing.T) {
	var calls atomic.Int32
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		calls.Add(1)
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusInternalServerError)
		w.Write([]byte(`{"success":false,"message":"boom"}`))
	}))
	defer ts.Close()

	client, _ := newClient(t, ts.URL)
	err := client.Post(context.Background(), "/thing", map[string]string{"k": "v"}, nil)
	if !apiclient.IsStatus(err, http.StatusInternalServerError) {
		t.Fatalf("expected a 500 APIError, got %v", err)
	}
	if got := calls.Load(); got != 1 {
		t.Fatalf("expected 1 attempt, got %d", got)
	}
}

func TestBearerHeaderAttachedWhenAuthenticated(t *testing.T) {
	var gotAuth string
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotAuth = r.Header.Get("Authorization")
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{"success":true,"data":null}`))
	}))
	defer ts.Close()

	client, sess := newClient(t, ts.URL)
	if err := client.Get(context.Background(), "/thing", nil, nil); err != nil {
		t.Fatalf("unauthenticated get: %v", err)
	}
	if gotAuth != "" {
		t.Fatalf("expected no Authorization header, got %q", gotAuth)
	}

	if err := sess.SetSession(session.Token{AccessToken: "tok-123"}, session.Info{}); err != nil {
		t.Fatalf("set session: %v", err)
	}
	if err := client.Get(context.Background(), "/thing", nil, nil); err != nil {
		t.Fatalf("authenticated get: %v", err)
	}
	if gotAuth != "Bearer tok-123" {
		t.Fatalf("expected %q, got %q", "Bearer tok-123", gotAuth)
	}
}

func TestGetRawPassesThroughBlobs(t *testing.T) {
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "text/csv;charset=utf-8")
		w.Write([]byte("id,email\n1,a@b.c\n"))
	}))
	defer ts.Close()

	client, _ := newClient(t, ts.URL)
	data, contentType, err := client.GetRaw(context.Background(), "/export", nil)
	if err != nil {
		t.Fatalf("get raw: %v", err)
	}
	if contentType != "text/csv;charset=utf-8" {
		t.Fatalf("expected csv content type, got %q", contentType)
	}
	if string(data) != "id,email\n1,a@b.c\n" {
		t.Fatalf("expected body to pass through verbatim, got %q", string(data))
	}
}

func TestGetRawNormalizesJSON(t *testing.T) {
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{"success":true,"data":{"users":[]}}`))
	}))
	defer ts.Close()

	client, _ := newClient(t, ts.URL)
	data, _, err := client.GetRaw(context.Background(), "/export", nil)
	if err != nil {
		t.Fatalf("get raw: %v", err)
	}
	if string(data) != `{"users":[]}` {
		t.Fatalf("expected unwrapped payload, got %q", string(data))
	}
}
