package vault

import (
	"net/url"
	"strings"
)

// Endpoint paths are defined in one place so no service hardcodes URLs.
// Segments of the form :name are substituted by buildPath.
const (
	pathAuthLogin   = "/auth/login"
	pathAuthLogout  = "/auth/logout"
	pathAuthRefresh = "/auth/refresh-tokens"

	pathDashboardStats = "/admin/dashboard"
	pathPlatformStats  = "/admin/stats"
	pathStorageStats   = "/admin/storage/stats"

	pathUsersList         = "/admin/users"
	pathUserDetail        = "/admin/users/:id"
	pathUserStatus        = "/admin/users/:id/status"
	pathUserSuspend       = "/admin/users/:id/suspend"
	pathUserActivate      = "/admin/users/:id/activate"
	pathUserLogoutAll     = "/admin/users/:id/logout-all"
	pathUserDelete        = "/admin/users/:id"
	pathUsersExport       = "/admin/users/export"
	pathUsersBulkDelete   = "/admin/users/bulk-delete"
	pathUsersBulkSuspend  = "/admin/users/bulk-suspend"
	pathUsersBulkActivate = "/admin/users/bulk-activate"
	pathUserSessions      = "/admin/users/:id/sessions"
	pathUserSessionLogout = "/admin/users/:id/sessions/:sessionId/logout"

	pathSessionsList       = "/admin/sessions"
	pathSessionsStats      = "/admin/sessions/stats"
	pathSessionTerminate   = "/admin/sessions/:id"
	pathSessionsBulkLogout = "/admin/sessions/bulk-logout"

	pathLegalList   = "/admin/legal"
	pathLegalByType = "/admin/legal/:type"
	pathLegalPublic = "/legal/:type"

	pathNotificationsList  = "/admin/notifications"
	pathNotificationsSend  = "/admin/notifications/send"
	pathNotificationsAll   = "/admin/notifications/send-all"
	pathNotificationsStats = "/admin/notifications/stats"

	pathAdminProfile     = "/admin/profile"
	pathActivityTimeline = "/admin/activity/timeline"
	pathActivityList     = "/admin/activity"
	pathActivityStats    = "/admin/activity/stats"
)

func buildPath(path string, params map[string]string) string {
	for key, value := range params {
		path = strings.ReplaceAll(path, ":"+key, url.PathEscape(value))
	}
	return path
}
