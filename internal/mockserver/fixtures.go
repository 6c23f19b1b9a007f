package mockserver

import (
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/ijsvault/vaultadmin/internal/vault"
)

const seedUserCount = 25

// fixtureStore is the mock backend's entire state: a mutable in-memory
// snapshot seeded deterministically at startup.
type fixtureStore struct {
	mu            sync.Mutex
	now           func() time.Time
	users         []*vault.User
	sessions      []*vault.UserSession
	notifications []*vault.Notification
	legal         []*vault.LegalPage
	activity      []*vault.ActivityItem
	admin         vault.AdminProfile
}

func newFixtureStore(now func() time.Time) *fixtureStore {
	s := &fixtureStore{now: now}
	s.seed()
	return s
}

func (s *fixtureStore) seed() {
	base := s.now().UTC().Add(-90 * 24 * time.Hour)
	devices := []vault.DeviceType{vault.DeviceAndroid, vault.DeviceIOS, vault.DeviceWeb, vault.DeviceHuawei}

	for i := 1; i <= seedUserCount; i++ {
		status := vault.UserStatusActive
		switch {
		case i%7 == 0:
			status = vault.UserStatusSuspended
		case i%5 == 0:
			status = vault.UserStatusInactive
		}
		role := vault.UserRoleUser
		if i%10 == 0 {
			role = vault.UserRoleGroupAdmin
		}
		created := base.Add(time.Duration(i) * 24 * time.Hour)
		user := &vault.User{
			ID:              uuid.NewString(),
			Username:        fmt.Sprintf("vaultuser%02d", i),
			FullName:        fmt.Sprintf("Vault User %02d", i),
			Email:           fmt.Sprintf("vaultuser%02d@example.com", i),
			Phone:           fmt.Sprintf("+4206000%04d", i),
			Status:          status,
			Role:            role,
			IsEmailVerified: i%3 != 0,
			Provider:        "local",
			Plan:            "free",
			Files:           i * 4,
			Folders:         i,
			StorageUsed:     int64(i) * 120,
			StorageLimit:    5120,
			CreatedAt:       created.Format(time.RFC3339),
			LastLogin:       created.Add(12 * time.Hour).Format(time.RFC3339),
			LastLoginAt:     created.Add(12 * time.Hour).Format(time.RFC3339),
		}
		s.users = append(s.users, user)

		// Two sessions per user, the second one already logged out for every
		// third user.
		for j := 0; j < 2; j++ {
			active := true
			if j == 1 && i%3 == 0 {
				active = false
			}
			session := &vault.UserSession{
				ID:           uuid.NewString(),
				UserID:       user.ID,
				DeviceType:   devices[(i+j)%len(devices)],
				DeviceName:   fmt.Sprintf("Device %02d-%d", i, j),
				IPAddress:    fmt.Sprintf("10.0.%d.%d", i, j+1),
				LoginAt:      created.Add(time.Duration(j) * time.Hour).Format(time.RFC3339),
				LastActivity: created.Add(time.Duration(j+6) * time.Hour).Format(time.RFC3339),
				IsActive:     active,
			}
			s.sessions = append(s.sessions, session)
		}
	}
	for i := range s.users {
		s.users[i].ActiveSessionsCount = s.activeSessionCountLocked(s.users[i].ID)
	}

	s.admin = vault.AdminProfile{
		ID:          uuid.NewString(),
		FullName:    "IJS Vault Admin",
		Email:       "admin@ijsvault.com",
		Role:        "admin",
		CreatedAt:   base.Format(time.RFC3339),
		LastLoginAt: s.now().UTC().Format(time.RFC3339),
	}

	for _, pageType := range []string{"terms", "privacy", "cookies"} {
		s.legal = append(s.legal, &vault.LegalPage{
			ID:          uuid.NewString(),
			Type:        pageType,
			Title:       strings.ToUpper(pageType[:1]) + pageType[1:],
			Content:     "<p>Placeholder " + pageType + " content.</p>",
			Version:     "1.0",
			IsPublished: true,
			PublishedAt: base.Format(time.RFC3339),
		})
	}
}

func (s *fixtureStore) activeSessionCountLocked(userID string) int {
	count := 0
	for _, session := range s.sessions {
		if session.UserID == userID && session.IsActive {
			count++
		}
	}
	return count
}

func matchesUser(u *vault.User, search string, status vault.UserStatus, role vault.UserRole) bool {
	if search != "" {
		needle := strings.ToLower(search)
		if !strings.Contains(strings.ToLower(u.Username), needle) &&
			!strings.Contains(strings.ToLower(u.FullName), needle) &&
			!strings.Contains(strings.ToLower(u.Email), needle) &&
			!strings.Contains(u.Phone, search) {
			return false
		}
	}
	if status != "" && u.Status != status {
		return false
	}
	if role != "" && u.Role != role {
		return false
	}
	return true
}

func (s *fixtureStore) filterUsers(search string, status vault.UserStatus, role vault.UserRole) []vault.User {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]vault.User, 0, len(s.users))
	for _, u := range s.users {
		if matchesUser(u, search, status, role) {
			copied := *u
			copied.ActiveSessionsCount = s.activeSessionCountLocked(u.ID)
			out = append(out, copied)
		}
	}
	return out
}

func (s *fixtureStore) getUser(id string) (vault.User, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, u := range s.users {
		if u.ID == id {
			copied := *u
			copied.ActiveSessionsCount = s.activeSessionCountLocked(id)
			return copied, true
		}
	}
	return vault.User{}, false
}

func (s *fixtureStore) deleteUsers(ids []string) int {
	s.mu.Lock()
	defer s.mu.Unlock()
	drop := make(map[string]struct{}, len(ids))
	for _, id := range ids {
		drop[id] = struct{}{}
	}
	kept := s.users[:0]
	removed := 0
	for _, u := range s.users {
		if _, ok := drop[u.ID]; ok {
			removed++
			continue
		}
		kept = append(kept, u)
	}
	s.users = kept
	if removed > 0 {
		sessions := s.sessions[:0]
		for _, session := range s.sessions {
			if _, ok := drop[session.UserID]; !ok {
				sessions = append(sessions, session)
			}
		}
		s.sessions = sessions
	}
	return removed
}

func (s *fixtureStore) setUsersStatus(ids []string, status vault.UserStatus) int {
	s.mu.Lock()
	defer s.mu.Unlock()
	want := make(map[string]struct{}, len(ids))
	for _, id := range ids {
		want[id] = struct{}{}
	}
	changed := 0
	for _, u := range s.users {
		if _, ok := want[u.ID]; ok {
			u.Status = status
			changed++
		}
	}
	return changed
}

func (s *fixtureStore) userSessions(userID string) []vault.UserSession {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]vault.UserSession, 0, 4)
	for _, session := range s.sessions {
		if session.UserID == userID {
			out = append(out, *session)
		}
	}
	return out
}

func (s *fixtureStore) deactivateSession(sessionID, userID string) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, session := range s.sessions {
		if session.ID != sessionID {
			continue
		}
		if userID != "" && session.UserID != userID {
			continue
		}
		session.IsActive = false
		return true
	}
	return false
}

func (s *fixtureStore) deactivateSessions(ids []string) int {
	s.mu.Lock()
	defer s.mu.Unlock()
	want := make(map[string]struct{}, len(ids))
	for _, id := range ids {
		want[id] = struct{}{}
	}
	changed := 0
	for _, session := range s.sessions {
		if _, ok := want[session.ID]; ok && session.IsActive {
			session.IsActive = false
			changed++
		}
	}
	return changed
}

func (s *fixtureStore) deactivateAllSessions(userID string) int {
	s.mu.Lock()
	defer s.mu.Unlock()
	changed := 0
	for _, session := range s.sessions {
		if session.UserID == userID && session.IsActive {
			session.IsActive = false
			changed++
		}
	}
	return changed
}

// activeSessionsWithUsers joins active sessions with their owners for the
// sessions list, filtered by search term and device type.
func (s *fixtureStore) activeSessionsWithUsers(search string, deviceType vault.DeviceType) []vault.SessionWithUser {
	s.mu.Lock()
	defer s.mu.Unlock()
	byID := make(map[string]*vault.User, len(s.users))
	for _, u := range s.users {
		byID[u.ID] = u
	}
	out := make([]vault.SessionWithUser, 0, len(s.sessions))
	for _, session := range s.sessions {
		if !session.IsActive {
			continue
		}
		if deviceType != "" && session.DeviceType != deviceType {
			continue
		}
		owner := byID[session.UserID]
		if owner == nil {
			continue
		}
		if search != "" {
			needle := strings.ToLower(search)
			if !strings.Contains(strings.ToLower(owner.Username), needle) &&
				!strings.Contains(strings.ToLower(owner.Email), needle) {
				continue
			}
		}
		out = append(out, vault.SessionWithUser{
			UserSession: *session,
			User: vault.SessionUser{
				ID:       owner.ID,
				Username: owner.Username,
				Email:    owner.Email,
				Avatar:   owner.Avatar,
			},
		})
	}
	return out
}

// appendActivity records the audit trail entry every mutating handler emits.
func (s *fixtureStore) appendActivity(action vault.ActivityAction, description, ip string, target *vault.ActivityActor) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.activity = append(s.activity, &vault.ActivityItem{
		ID:          uuid.NewString(),
		Action:      action,
		Description: description,
		Admin: &vault.ActivityActor{
			ID:       s.admin.ID,
			FullName: s.admin.FullName,
			Email:    s.admin.Email,
		},
		TargetUser: target,
		IPAddress:  ip,
		CreatedAt:  s.now().UTC().Format(time.RFC3339),
	})
}

// listActivity returns activity newest first, optionally filtered by action.
func (s *fixtureStore) listActivity(action vault.ActivityAction) []vault.ActivityItem {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]vault.ActivityItem, 0, len(s.activity))
	for i := len(s.activity) - 1; i >= 0; i-- {
		item := s.activity[i]
		if action != "" && item.Action != action {
			continue
		}
		out = append(out, *item)
	}
	return out
}

func (s *fixtureStore) addNotification(n *vault.Notification) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.notifications = append(s.notifications, n)
}

func (s *fixtureStore) listNotifications(notificationType string) []vault.Notification {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]vault.Notification, 0, len(s.notifications))
	for i := len(s.notifications) - 1; i >= 0; i-- {
		n := s.notifications[i]
		if notificationType != "" && n.Type != notificationType {
			continue
		}
		out = append(out, *n)
	}
	return out
}

func (s *fixtureStore) listLegalPages() []vault.LegalPage {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]vault.LegalPage, 0, len(s.legal))
	for _, page := range s.legal {
		out = append(out, *page)
	}
	return out
}

func (s *fixtureStore) getLegalPage(pageType string) (vault.LegalPage, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, page := range s.legal {
		if page.Type == pageType {
			return *page, true
		}
	}
	return vault.LegalPage{}, false
}

func (s *fixtureStore) createLegalPage(page *vault.LegalPage) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, existing := range s.legal {
		if existing.Type == page.Type {
			return false
		}
	}
	s.legal = append(s.legal, page)
	return true
}

func (s *fixtureStore) updateLegalPage(pageType, title, content, version string, isPublished *bool) (vault.LegalPage, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, page := range s.legal {
		if page.Type != pageType {
			continue
		}
		page.Title = title
		page.Content = content
		if version != "" {
			page.Version = version
		}
		if isPublished != nil {
			page.IsPublished = *isPublished
		}
		page.LastUpdatedBy = &vault.ActivityActor{
			ID:       s.admin.ID,
			FullName: s.admin.FullName,
			Email:    s.admin.Email,
		}
		page.PublishedAt = s.now().UTC().Format(time.RFC3339)
		return *page, true
	}
	return vault.LegalPage{}, false
}

func (s *fixtureStore) adminProfile() vault.AdminProfile {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.admin
}

func (s *fixtureStore) updateAdminProfile(fullName, phone, image string) vault.AdminProfile {
	s.mu.Lock()
	defer s.mu.Unlock()
	if strings.TrimSpace(fullName) != "" {
		s.admin.FullName = fullName
	}
	if strings.TrimSpace(phone) != "" {
		s.admin.Phone = phone
	}
	if strings.TrimSpace(image) != "" {
		s.admin.Image = image
	}
	return s.admin
}

// paginate slices one page out of items and reports the pre-pagination total.
func paginate[T any](items []T, page, pageSize int) ([]T, int) {
	total := len(items)
	start := (page - 1) * pageSize
	if start >= total {
		return []T{}, total
	}
	end := start + pageSize
	if end > total {
		end = total
	}
	return items[start:end], total
}

func totalPages(total, pageSize int) int {
	if pageSize < 1 {
		return 0
	}
	return (total + pageSize - 1) / pageSize
}
