// Package vault holds the typed surface of the IJS VAULT admin API: entity
// types, filter shapes and one request-builder per backend operation.
package vault

import "strings"

type UserStatus string

const (
	UserStatusActive    UserStatus = "active"
	UserStatusInactive  UserStatus = "inactive"
	UserStatusSuspended UserStatus = "suspended"
)

func ParseUserStatus(raw string) (UserStatus, bool) {
	switch UserStatus(strings.ToLower(strings.TrimSpace(raw))) {
	case UserStatusActive:
		return UserStatusActive, true
	case UserStatusInactive:
		return UserStatusInactive, true
	case UserStatusSuspended:
		return UserStatusSuspended, true
	default:
		return "", false
	}
}

type UserRole string

const (
	UserRoleUser       UserRole = "user"
	UserRoleGroupAdmin UserRole = "group_admin"
)

func ParseUserRole(raw string) (UserRole, bool) {
	switch UserRole(strings.ToLower(strings.TrimSpace(raw))) {
	case UserRoleUser:
		return UserRoleUser, true
	case UserRoleGroupAdmin:
		return UserRoleGroupAdmin, true
	default:
		return "", false
	}
}

type DeviceType string

const (
	DeviceAndroid DeviceType = "android"
	DeviceIOS     DeviceType = "ios"
	DeviceHuawei  DeviceType = "huawei"
	DeviceWeb     DeviceType = "web"
)

func ParseDeviceType(raw string) (DeviceType, bool) {
	switch DeviceType(strings.ToLower(strings.TrimSpace(raw))) {
	case DeviceAndroid:
		return DeviceAndroid, true
	case DeviceIOS:
		return DeviceIOS, true
	case DeviceHuawei:
		return DeviceHuawei, true
	case DeviceWeb:
		return DeviceWeb, true
	default:
		return "", false
	}
}

// User is a vault end user as the admin API reports it. The export endpoint
// fills the account/storage fields; list endpoints may leave some zero.
type User struct {
	ID                  string     `json:"id"`
	Username            string     `json:"username,omitempty"`
	FullName            string     `json:"fullName,omitempty"`
	Email               string     `json:"email"`
	Phone               string     `json:"phone,omitempty"`
	Avatar              string     `json:"avatar,omitempty"`
	Status              UserStatus `json:"status"`
	Role                UserRole   `json:"role,omitempty"`
	IsEmailVerified     bool       `json:"isEmailVerified,omitempty"`
	Provider            string     `json:"provider,omitempty"`
	Plan                string     `json:"plan,omitempty"`
	Files               int        `json:"files,omitempty"`
	Folders             int        `json:"folders,omitempty"`
	StorageUsed         int64      `json:"storageUsed,omitempty"`
	StorageLimit        int64      `json:"storageLimit,omitempty"`
	CategoriesCount     int        `json:"categoriesCount,omitempty"`
	SubcategoriesCount  int        `json:"subcategoriesCount,omitempty"`
	ActiveSessionsCount int        `json:"activeSessionsCount,omitempty"`
	CreatedAt           string     `json:"createdAt,omitempty"`
	LastLogin           string     `json:"lastLogin,omitempty"`
	LastLoginAt         string     `json:"lastLoginAt,omitempty"`
}

// DisplayName prefers the full name and falls back to the username.
func (u User) DisplayName() string {
	if name := strings.TrimSpace(u.FullName); name != "" {
		return name
	}
	return strings.TrimSpace(u.Username)
}

type UserSession struct {
	ID           string     `json:"id"`
	UserID       string     `json:"userId"`
	DeviceType   DeviceType `json:"deviceType"`
	DeviceName   string     `json:"deviceName,omitempty"`
	DeviceModel  string     `json:"deviceModel,omitempty"`
	IPAddress    string     `json:"ipAddress,omitempty"`
	Location     string     `json:"location,omitempty"`
	LoginAt      string     `json:"loginAt,omitempty"`
	LastActivity string     `json:"lastActivity,omitempty"`
	IsActive     bool       `json:"isActive"`
}

type SessionUser struct {
	ID       string `json:"id"`
	Username string `json:"username"`
	Email    string `json:"email"`
	Avatar   string `json:"avatar,omitempty"`
}

// SessionWithUser is the sessions-list row: a session joined with its owner.
type SessionWithUser struct {
	UserSession
	User SessionUser `json:"user"`
}

type ActivityAction string

const (
	ActionUserSuspended      ActivityAction = "user_suspended"
	ActionUserActivated      ActivityAction = "user_activated"
	ActionUserStatusChanged  ActivityAction = "user_status_changed"
	ActionUserDeleted        ActivityAction = "user_deleted"
	ActionUsersExported      ActivityAction = "users_exported"
	ActionSessionTerminated  ActivityAction = "session_terminated"
	ActionSessionsTerminated ActivityAction = "sessions_terminated"
	ActionLegalPageCreated   ActivityAction = "legal_page_created"
	ActionLegalPageUpdated   ActivityAction = "legal_page_updated"
	ActionNotificationSent   ActivityAction = "notification_sent"
)

func ParseActivityAction(raw string) (ActivityAction, bool) {
	switch action := ActivityAction(strings.ToLower(strings.TrimSpace(raw))); action {
	case ActionUserSuspended, ActionUserActivated, ActionUserStatusChanged,
		ActionUserDeleted, ActionUsersExported, ActionSessionTerminated,
		ActionSessionsTerminated, ActionLegalPageCreated, ActionLegalPageUpdated,
		ActionNotificationSent:
		return action, true
	default:
		return "", false
	}
}

type ActivityActor struct {
	ID       string `json:"id"`
	FullName string `json:"fullName"`
	Email    string `json:"email,omitempty"`
}

// ActivityItem is an append-only audit record produced server-side by every
// mutating operation. The client only reads it.
type ActivityItem struct {
	ID          string         `json:"id"`
	Action      ActivityAction `json:"action"`
	Description string         `json:"description"`
	Details     map[string]any `json:"details,omitempty"`
	TargetUser  *ActivityActor `json:"targetUser,omitempty"`
	Admin       *ActivityActor `json:"admin,omitempty"`
	IPAddress   string         `json:"ipAddress,omitempty"`
	CreatedAt   string         `json:"createdAt"`
}

type AdminProfile struct {
	ID          string `json:"id"`
	FullName    string `json:"fullName"`
	Email       string `json:"email"`
	Phone       string `json:"phone,omitempty"`
	Image       string `json:"image,omitempty"`
	Role        string `json:"role"`
	CreatedAt   string `json:"createdAt,omitempty"`
	LastLoginAt string `json:"lastLoginAt,omitempty"`
}

type Notification struct {
	ID          string         `json:"id"`
	Title       string         `json:"title"`
	Message     string         `json:"message"`
	Type        string         `json:"type,omitempty"`
	TargetType  string         `json:"targetType,omitempty"`
	TargetUsers []string       `json:"targetUsers,omitempty"`
	SentBy      *ActivityActor `json:"sentBy,omitempty"`
	SentAt      string         `json:"sentAt,omitempty"`
	SendPush    bool           `json:"sendPush,omitempty"`
	PushSent    bool           `json:"pushSent,omitempty"`
	ReadCount   int            `json:"readCount,omitempty"`
}

type LegalPage struct {
	ID            string         `json:"id"`
	Type          string         `json:"type"`
	Title         string         `json:"title"`
	Content       string         `json:"content"`
	Version       string         `json:"version,omitempty"`
	IsPublished   bool           `json:"isPublished"`
	LastUpdatedBy *ActivityActor `json:"lastUpdatedBy,omitempty"`
	PublishedAt   string         `json:"publishedAt,omitempty"`
}

type StatusCount struct {
	Status string `json:"status"`
	Count  int    `json:"count"`
}

type DeviceCount struct {
	Device string `json:"device"`
	Count  int    `json:"count"`
}

type DashboardStats struct {
	TotalUsers             int           `json:"totalUsers"`
	ActiveUsers            int           `json:"activeUsers"`
	InactiveUsers          int           `json:"inactiveUsers"`
	SuspendedUsers         int           `json:"suspendedUsers"`
	ActiveSessions         int           `json:"activeSessions"`
	UserStatusDistribution []StatusCount `json:"userStatusDistribution"`
	SessionsByDevice       []DeviceCount `json:"sessionsByDevice"`
}

type PlatformStats struct {
	Users struct {
		Total     int `json:"total"`
		Active    int `json:"active"`
		Inactive  int `json:"inactive"`
		Suspended int `json:"suspended"`
	} `json:"users"`
	Sessions struct {
		Active int `json:"active"`
	} `json:"sessions"`
	Items struct {
		Total   int `json:"total"`
		Folders int `json:"folders"`
		Files   int `json:"files"`
	} `json:"items"`
	Storage struct {
		TotalUsed       int64  `json:"totalUsed"`
		TotalLimit      int64  `json:"totalLimit"`
		UsagePercentage string `json:"usagePercentage"`
	} `json:"storage"`
}

type StorageTopUser struct {
	ID              string `json:"id"`
	Name            string `json:"name"`
	Email           string `json:"email"`
	StorageUsed     int64  `json:"storageUsed"`
	StorageLimit    int64  `json:"storageLimit"`
	UsagePercentage string `json:"usagePercentage"`
	Plan            string `json:"plan"`
}

type StorageStats struct {
	TopUsers []StorageTopUser `json:"topUsers"`
}

type ActionCount struct {
	Action ActivityAction `json:"action"`
	Count  int            `json:"count"`
}

type ActivityStats struct {
	Today      int           `json:"today"`
	Last7Days  int           `json:"last7Days"`
	Last30Days int           `json:"last30Days"`
	ByAction   []ActionCount `json:"byAction"`
}

type SessionStats struct {
	ActiveSessions int           `json:"activeSessions"`
	ByDevice       []DeviceCount `json:"byDevice"`
}

type NotificationStats struct {
	TotalSent     int `json:"totalSent"`
	PushSent      int `json:"pushSent"`
	LastSevenDays int `json:"last7Days"`
}
