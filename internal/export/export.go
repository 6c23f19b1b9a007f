// Package export serializes user datasets into downloadable CSV or Excel
// files. Fields containing commas, quotes or newlines are quoted with
// internal quotes doubled.
package export

import (
	"bytes"
	"encoding/csv"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"time"

	"github.com/ijsvault/vaultadmin/internal/vault"
)

const (
	MIMECSV   = "text/csv;charset=utf-8"
	MIMEExcel = "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"
)

var csvHeader = []string{
	"id",
	"fullName",
	"email",
	"phone",
	"status",
	"isEmailVerified",
	"provider",
	"plan",
	"files",
	"folders",
	"storageUsed",
	"storageLimit",
	"activeSessions",
	"createdAt",
	"lastLoginAt",
}

func userRow(u vault.User) []string {
	verified := "No"
	if u.IsEmailVerified {
		verified = "Yes"
	}
	provider := u.Provider
	if provider == "" {
		provider = "local"
	}
	plan := u.Plan
	if plan == "" {
		plan = "free"
	}
	lastLogin := u.LastLoginAt
	if lastLogin == "" {
		lastLogin = u.LastLogin
	}
	return []string{
		u.ID,
		u.DisplayName(),
		u.Email,
		u.Phone,
		string(u.Status),
		verified,
		provider,
		plan,
		strconv.Itoa(u.Files),
		strconv.Itoa(u.Folders),
		strconv.FormatInt(u.StorageUsed, 10),
		strconv.FormatInt(u.StorageLimit, 10),
		strconv.Itoa(u.ActiveSessionsCount),
		u.CreatedAt,
		lastLogin,
	}
}

// UsersCSV serializes users into CSV with the canonical header row.
func UsersCSV(users []vault.User) ([]byte, error) {
	var buf bytes.Buffer
	w := csv.NewWriter(&buf)
	if err := w.Write(csvHeader); err != nil {
		return nil, fmt.Errorf("write csv header: %w", err)
	}
	for _, u := range users {
		if err := w.Write(userRow(u)); err != nil {
			return nil, fmt.Errorf("write csv row: %w", err)
		}
	}
	w.Flush()
	if err := w.Error(); err != nil {
		return nil, fmt.Errorf("flush csv: %w", err)
	}
	return buf.Bytes(), nil
}

// UsersExcel produces the Excel-MIME-typed export: byte-for-byte the CSV
// content, served under a spreadsheet content type and .xlsx name.
func UsersExcel(users []vault.User) ([]byte, error) {
	return UsersCSV(users)
}

// FileName builds the dated download name, e.g. ijs-vault-users-2026-08-31.csv.
func FileName(format vault.ExportFormat, now time.Time) string {
	ext := "csv"
	if format == vault.ExportExcel {
		ext = "xlsx"
	}
	return fmt.Sprintf("ijs-vault-users-%s.%s", now.Format("2006-01-02"), ext)
}

// Sink receives a finished export. The file-based implementation stands in
// for the browser's object-URL download flow.
type Sink interface {
	Save(name, contentType string, data []byte) (string, error)
}

type DirSink struct {
	Dir string
}

func (d DirSink) Save(name, _ string, data []byte) (string, error) {
	dir := d.Dir
	if dir == "" {
		dir = "."
	}
	target := filepath.Join(dir, name)
	if err := os.WriteFile(target, data, 0o644); err != nil {
		return "", fmt.Errorf("write export file: %w", err)
	}
	return target, nil
}
