package mockserver

import (
	"fmt"
	"sort"

	"github.com/labstack/echo/v4"

	"github.com/ijsvault/vaultadmin/internal/vault"
)

// Stats are computed from the live fixture state so mutations done through
// the API show up in the dashboard, same as against the real backend.

type userTally struct {
	total, active, inactive, suspended int
	files, folders                     int
	storageUsed, storageLimit          int64
}

func (s *Server) tallyUsers() userTally {
	var t userTally
	for _, u := range s.store.filterUsers("", "", "") {
		t.total++
		switch u.Status {
		case vault.UserStatusActive:
			t.active++
		case vault.UserStatusInactive:
			t.inactive++
		case vault.UserStatusSuspended:
			t.suspended++
		}
		t.files += u.Files
		t.folders += u.Folders
		t.storageUsed += u.StorageUsed
		t.storageLimit += u.StorageLimit
	}
	return t
}

func (s *Server) sessionsByDevice() (int, []vault.DeviceCount) {
	sessions := s.store.activeSessionsWithUsers("", "")
	counts := map[vault.DeviceType]int{}
	for _, session := range sessions {
		counts[session.DeviceType]++
	}
	out := make([]vault.DeviceCount, 0, len(counts))
	for _, device := range []vault.DeviceType{vault.DeviceAndroid, vault.DeviceIOS, vault.DeviceHuawei, vault.DeviceWeb} {
		if count := counts[device]; count > 0 {
			out = append(out, vault.DeviceCount{Device: string(device), Count: count})
		}
	}
	return len(sessions), out
}

func (s *Server) dashboardStats(c echo.Context) error {
	t := s.tallyUsers()
	activeSessions, byDevice := s.sessionsByDevice()
	stats := vault.DashboardStats{
		TotalUsers:     t.total,
		ActiveUsers:    t.active,
		InactiveUsers:  t.inactive,
		SuspendedUsers: t.suspended,
		ActiveSessions: activeSessions,
		UserStatusDistribution: []vault.StatusCount{
			{Status: string(vault.UserStatusActive), Count: t.active},
			{Status: string(vault.UserStatusInactive), Count: t.inactive},
			{Status: string(vault.UserStatusSuspended), Count: t.suspended},
		},
		SessionsByDevice: byDevice,
	}
	return respondSuccess(c, map[string]any{"stats": stats})
}

func usagePercentage(used, limit int64) string {
	if limit <= 0 {
		return "0.00"
	}
	return fmt.Sprintf("%.2f", float64(used)/float64(limit)*100)
}

func (s *Server) platformStats(c echo.Context) error {
	t := s.tallyUsers()
	activeSessions, _ := s.sessionsByDevice()

	var stats vault.PlatformStats
	stats.Users.Total = t.total
	stats.Users.Active = t.active
	stats.Users.Inactive = t.inactive
	stats.Users.Suspended = t.suspended
	stats.Sessions.Active = activeSessions
	stats.Items.Files = t.files
	stats.Items.Folders = t.folders
	stats.Items.Total = t.files + t.folders
	stats.Storage.TotalUsed = t.storageUsed
	stats.Storage.TotalLimit = t.storageLimit
	stats.Storage.UsagePercentage = usagePercentage(t.storageUsed, t.storageLimit)
	return respondSuccess(c, map[string]any{"stats": stats})
}

func (s *Server) storageStats(c echo.Context) error {
	users := s.store.filterUsers("", "", "")
	sort.Slice(users, func(i, j int) bool {
		return users[i].StorageUsed > users[j].StorageUsed
	})
	if len(users) > 10 {
		users = users[:10]
	}
	top := make([]vault.StorageTopUser, 0, len(users))
	for _, u := range users {
		top = append(top, vault.StorageTopUser{
			ID:              u.ID,
			Name:            u.DisplayName(),
			Email:           u.Email,
			StorageUsed:     u.StorageUsed,
			StorageLimit:    u.StorageLimit,
			UsagePercentage: usagePercentage(u.StorageUsed, u.StorageLimit),
			Plan:            u.Plan,
		})
	}
	return respondSuccess(c, map[string]any{"stats": vault.StorageStats{TopUsers: top}})
}
