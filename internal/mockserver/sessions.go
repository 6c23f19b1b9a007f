package mockserver

import (
	"fmt"
	"net/http"
	"strings"

	"github.com/labstack/echo/v4"

	"github.com/ijsvault/vaultadmin/internal/vault"
)

// The sessions list answers with results/totalResults/limit naming, matching
// the older backend revision, so clients keep handling both list shapes.
func (s *Server) listSessions(c echo.Context) error {
	search := strings.TrimSpace(c.QueryParam("search"))
	deviceType, _ := vault.ParseDeviceType(c.QueryParam("deviceType"))
	page := queryInt(c, "page", 1)
	pageSize := queryInt(c, "pageSize", 10)

	matched := s.store.activeSessionsWithUsers(search, deviceType)
	items, total := paginate(matched, page, pageSize)
	return respondLegacy(c, "sessions retrieved", map[string]any{
		"results":      items,
		"totalResults": total,
		"page":         page,
		"limit":        pageSize,
		"totalPages":   totalPages(total, pageSize),
	})
}

func (s *Server) terminateSession(c echo.Context) error {
	if !s.store.deactivateSession(c.Param("id"), "") {
		return respondLegacyError(c, http.StatusNotFound, "Session not found")
	}
	s.store.appendActivity(vault.ActionSessionTerminated, "Terminated session "+c.Param("id"), c.RealIP(), nil)
	return respondLegacy(c, "Session terminated", nil)
}

type bulkSessionsRequest struct {
	SessionIDs []string `json:"sessionIds"`
}

func (s *Server) bulkLogoutSessions(c echo.Context) error {
	var req bulkSessionsRequest
	if err := c.Bind(&req); err != nil {
		return respondLegacyError(c, http.StatusBadRequest, "invalid request body")
	}
	if len(req.SessionIDs) == 0 {
		return respondLegacyError(c, http.StatusBadRequest, "sessionIds must not be empty")
	}
	changed := s.store.deactivateSessions(req.SessionIDs)
	s.store.appendActivity(vault.ActionSessionsTerminated,
		fmt.Sprintf("Bulk terminated %d session(s)", changed), c.RealIP(), nil)
	return respondLegacy(c, fmt.Sprintf("%d session(s) terminated", changed), nil)
}

func (s *Server) sessionStats(c echo.Context) error {
	sessions := s.store.activeSessionsWithUsers("", "")
	byDevice := map[vault.DeviceType]int{}
	for _, session := range sessions {
		byDevice[session.DeviceType]++
	}
	stats := vault.SessionStats{ActiveSessions: len(sessions)}
	for _, device := range []vault.DeviceType{vault.DeviceAndroid, vault.DeviceIOS, vault.DeviceHuawei, vault.DeviceWeb} {
		if count := byDevice[device]; count > 0 {
			stats.ByDevice = append(stats.ByDevice, vault.DeviceCount{Device: string(device), Count: count})
		}
	}
	return respondLegacy(c, "session stats", map[string]any{"stats": stats})
}
