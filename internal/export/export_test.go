package export

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/ijsvault/vaultadmin/internal/vault"
)

func TestUsersCSVHeader(t *testing.T) {
	data, err := UsersCSV(nil)
	if err != nil {
		t.Fatalf("users csv: %v", err)
	}
	want := "id,fullName,email,phone,status,isEmailVerified,provider,plan,files,folders,storageUsed,storageLimit,activeSessions,createdAt,lastLoginAt\n"
	if string(data) != want {
		t.Fatalf("expected header %q, got %q", want, string(data))
	}
}

func TestUsersCSVQuotesSpecialCharacters(t *testing.T) {
	users := []vault.User{
		{
			ID:       "u1",
			FullName: `Smith, "Ace"`,
			Email:    "ace@example.com",
			Status:   vault.UserStatusActive,
		},
	}
	data, err := UsersCSV(users)
	if err != nil {
		t.Fatalf("users csv: %v", err)
	}
	if !strings.Contains(string(data), `"Smith, ""Ace"""`) {
		t.Fatalf("expected quoted field with doubled quotes, got %q", string(data))
	}
}

func TestUsersCSVRowDefaults(t *testing.T) {
	users := []vault.User{
		{
			ID:        "u1",
			Username:  "ace",
			Email:     "ace@example.com",
			Status:    vault.UserStatusActive,
			LastLogin: "2026-08-01T10:00:00Z",
		},
	}
	data, err := UsersCSV(users)
	if err != nil {
		t.Fatalf("users csv: %v", err)
	}
	lines := strings.Split(strings.TrimSpace(string(data)), "\n")
	if len(lines) != 2 {
		t.Fatalf("expected 2 lines, got %d", len(lines))
	}
	row := lines[1]
	for _, want := range []string{"ace", "No", "local", "free", "2026-08-01T10:00:00Z"} {
		if !strings.Contains(row, want) {
			t.Fatalf("expected row to contain %q, got %q", want, row)
		}
	}
}

func TestFileName(t *testing.T) {
	now := time.Date(2026, 8, 31, 12, 0, 0, 0, time.UTC)
	tests := []struct {
		format vault.ExportFormat
		want   string
	}{
		{format: vault.ExportCSV, want: "ijs-vault-users-2026-08-31.csv"},
		{format: vault.ExportExcel, want: "ijs-vault-users-2026-08-31.xlsx"},
	}
	for _, tt := range tests {
		if got := FileName(tt.format, now); got != tt.want {
			t.Fatalf("expected %q, got %q", tt.want, got)
		}
	}
}

func TestDirSinkWritesFile(t *testing.T) {
	dir := t.TempDir()
	sink := DirSink{Dir: dir}
	target, err := sink.Save("out.csv", MIMECSV, []byte("id\n1\n"))
	if err != nil {
		t.Fatalf("save: %v", err)
	}
	if target != filepath.Join(dir, "out.csv") {
		t.Fatalf("expected target in %s, got %s", dir, target)
	}
	data, err := os.ReadFile(target)
	if err != nil {
		t.Fatalf("read back: %v", err)
	}
	if string(data) != "id\n1\n" {
		t.Fatalf("expected file contents to round-trip, got %q", string(data))
	}
}
