package workflow

import (
	"github.com/ijsvault/vaultadmin/internal/query"
	"github.com/ijsvault/vaultadmin/internal/vault"
)

// Cache key prefixes. Mutations invalidate by prefix so every filter
// combination of a list is covered at once.
const (
	prefixUsersList     = "users.list"
	prefixUsersDetail   = "users.detail"
	prefixSessionsList  = "sessions.list"
	prefixSessionsUser  = "sessions.user"
	prefixDashboard     = "dashboard"
	prefixActivity      = "activity"
	prefixNotifications = "notifications"
)

func usersListKey(f vault.UserFilters) string {
	return query.Key("users", "list", f)
}

func userDetailKey(userID string) string {
	return query.Key("users", "detail", userID)
}

func sessionsListKey(f vault.SessionFilters) string {
	return query.Key("sessions", "list", f)
}
