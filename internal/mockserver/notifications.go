package mockserver

import (
	"net/http"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"

	"github.com/ijsvault/vaultadmin/internal/vault"
)

func (s *Server) listNotifications(c echo.Context) error {
	page := queryInt(c, "page", 1)
	limit := queryInt(c, "limit", 10)
	matched := s.store.listNotifications(strings.TrimSpace(c.QueryParam("type")))
	items, total := paginate(matched, page, limit)
	return respondSuccess(c, map[string]any{
		"results":      items,
		"totalResults": total,
		"page":         page,
		"limit":        limit,
		"totalPages":   totalPages(total, limit),
	})
}

type sendNotificationRequest struct {
	Title    string   `json:"title"`
	Message  string   `json:"message"`
	Type     string   `json:"type,omitempty"`
	UserIDs  []string `json:"userIds,omitempty"`
	SendPush bool     `json:"sendPush,omitempty"`
}

func (s *Server) recordNotification(c echo.Context, req sendNotificationRequest, targetType string, sent, failed int) error {
	admin := s.store.adminProfile()
	s.store.addNotification(&vault.Notification{
		ID:          uuid.NewString(),
		Title:       req.Title,
		Message:     req.Message,
		Type:        req.Type,
		TargetType:  targetType,
		TargetUsers: req.UserIDs,
		SentBy:      &vault.ActivityActor{ID: admin.ID, FullName: admin.FullName, Email: admin.Email},
		SentAt:      s.now().UTC().Format(time.RFC3339),
		SendPush:    req.SendPush,
		PushSent:    req.SendPush && sent > 0,
	})
	s.store.appendActivity(vault.ActionNotificationSent, "Sent notification: "+req.Title, c.RealIP(), nil)
	return respondSuccessMessage(c, "Notification sent", map[string]int{"sent": sent, "failed": failed})
}

// sendNotification targets specific user ids; unknown ids count as failed.
func (s *Server) sendNotification(c echo.Context) error {
	var req sendNotificationRequest
	if err := c.Bind(&req); err != nil {
		return respondError(c, http.StatusBadRequest, "invalid request body", "")
	}
	if strings.TrimSpace(req.Title) == "" || strings.TrimSpace(req.Message) == "" {
		return respondError(c, http.StatusBadRequest, "title and message are required", "")
	}
	if len(req.UserIDs) == 0 {
		return respondError(c, http.StatusBadRequest, "userIds must not be empty", "use send-all to notify everyone")
	}
	sent, failed := 0, 0
	for _, id := range req.UserIDs {
		if _, ok := s.store.getUser(id); ok {
			sent++
		} else {
			failed++
		}
	}
	return s.recordNotification(c, req, "selected", sent, failed)
}

func (s *Server) sendNotificationToAll(c echo.Context) error {
	var req sendNotificationRequest
	if err := c.Bind(&req); err != nil {
		return respondError(c, http.StatusBadRequest, "invalid request body", "")
	}
	if strings.TrimSpace(req.Title) == "" || strings.TrimSpace(req.Message) == "" {
		return respondError(c, http.StatusBadRequest, "title and message are required", "")
	}
	req.UserIDs = nil
	sent := len(s.store.filterUsers("", "", ""))
	return s.recordNotification(c, req, "all", sent, 0)
}

func (s *Server) notificationStats(c echo.Context) error {
	all := s.store.listNotifications("")
	stats := vault.NotificationStats{TotalSent: len(all)}
	weekAgo := s.now().UTC().Add(-7 * 24 * time.Hour)
	for _, n := range all {
		if n.PushSent {
			stats.PushSent++
		}
		if sentAt, err := time.Parse(time.RFC3339, n.SentAt); err == nil && sentAt.After(weekAgo) {
			stats.LastSevenDays++
		}
	}
	return respondSuccess(c, map[string]any{"stats": stats})
}
