package mockserver

import (
	"net/http"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/ijsvault/vaultadmin/internal/vault"
)

func (s *Server) activityPage(c echo.Context) error {
	page := queryInt(c, "page", 1)
	limit := queryInt(c, "limit", 20)
	action, _ := vault.ParseActivityAction(c.QueryParam("action"))
	matched := s.store.listActivity(action)
	items, total := paginate(matched, page, limit)
	return respondSuccess(c, map[string]any{
		"results":      items,
		"totalResults": total,
		"page":         page,
		"limit":        limit,
		"totalPages":   totalPages(total, limit),
	})
}

func (s *Server) listActivity(c echo.Context) error {
	return s.activityPage(c)
}

// activityTimeline would filter by the requesting admin; the fixtures only
// have one, so it matches the full list.
func (s *Server) activityTimeline(c echo.Context) error {
	return s.activityPage(c)
}

func (s *Server) activityStats(c echo.Context) error {
	all := s.store.listActivity("")
	now := s.now().UTC()
	dayAgo := now.Add(-24 * time.Hour)
	weekAgo := now.Add(-7 * 24 * time.Hour)
	monthAgo := now.Add(-30 * 24 * time.Hour)

	stats := vault.ActivityStats{}
	byAction := map[vault.ActivityAction]int{}
	for _, item := range all {
		byAction[item.Action]++
		created, err := time.Parse(time.RFC3339, item.CreatedAt)
		if err != nil {
			continue
		}
		if created.After(dayAgo) {
			stats.Today++
		}
		if created.After(weekAgo) {
			stats.Last7Days++
		}
		if created.After(monthAgo) {
			stats.Last30Days++
		}
	}
	for action, count := range byAction {
		stats.ByAction = append(stats.ByAction, vault.ActionCount{Action: action, Count: count})
	}
	return respondSuccess(c, map[string]any{"stats": stats})
}

func (s *Server) getAdminProfile(c echo.Context) error {
	recent := s.store.listActivity("")
	if len(recent) > 10 {
		recent = recent[:10]
	}
	return respondSuccess(c, map[string]any{
		"profile":        s.store.adminProfile(),
		"recentActivity": recent,
	})
}

type updateProfileRequest struct {
	FullName string `json:"fullName,omitempty"`
	Phone    string `json:"phone,omitempty"`
	Image    string `json:"image,omitempty"`
}

func (s *Server) updateAdminProfile(c echo.Context) error {
	var req updateProfileRequest
	if err := c.Bind(&req); err != nil {
		return respondError(c, http.StatusBadRequest, "invalid request body", "")
	}
	profile := s.store.updateAdminProfile(req.FullName, req.Phone, req.Image)
	return respondSuccessMessage(c, "Profile updated", map[string]any{"profile": profile})
}
