package mockserver

import (
	"fmt"
	"net/http"
	"strings"

	"github.com/labstack/echo/v4"

	"github.com/ijsvault/vaultadmin/internal/export"
	"github.com/ijsvault/vaultadmin/internal/vault"
)

func userFiltersFromQuery(c echo.Context) (string, vault.UserStatus, vault.UserRole) {
	search := strings.TrimSpace(c.QueryParam("search"))
	status, _ := vault.ParseUserStatus(c.QueryParam("status"))
	role, _ := vault.ParseUserRole(c.QueryParam("role"))
	return search, status, role
}

func (s *Server) listUsers(c echo.Context) error {
	search, status, role := userFiltersFromQuery(c)
	page := queryInt(c, "page", 1)
	pageSize := queryInt(c, "pageSize", 10)

	matched := s.store.filterUsers(search, status, role)
	items, total := paginate(matched, page, pageSize)
	return respondLegacy(c, "users retrieved", map[string]any{
		"users":      items,
		"total":      total,
		"page":       page,
		"pageSize":   pageSize,
		"totalPages": totalPages(total, pageSize),
	})
}

func (s *Server) getUserDetail(c echo.Context) error {
	user, ok := s.store.getUser(c.Param("id"))
	if !ok {
		return respondLegacyError(c, http.StatusNotFound, "User not found")
	}
	return respondLegacy(c, "user retrieved", map[string]any{
		"user":     user,
		"sessions": s.store.userSessions(user.ID),
	})
}

func (s *Server) deleteUser(c echo.Context) error {
	user, ok := s.store.getUser(c.Param("id"))
	if !ok {
		return respondLegacyError(c, http.StatusNotFound, "User not found")
	}
	s.store.deleteUsers([]string{user.ID})
	s.store.appendActivity(vault.ActionUserDeleted, fmt.Sprintf("Deleted user %s", user.Email), c.RealIP(), actorFor(user))
	return respondLegacy(c, "User deleted", nil)
}

type statusUpdateRequest struct {
	Status string `json:"status"`
	Reason string `json:"reason,omitempty"`
}

func (s *Server) updateUserStatus(c echo.Context) error {
	var req statusUpdateRequest
	if err := c.Bind(&req); err != nil {
		return respondLegacyError(c, http.StatusBadRequest, "invalid request body")
	}
	status, ok := vault.ParseUserStatus(req.Status)
	if !ok {
		return respondLegacyError(c, http.StatusBadRequest, "invalid status")
	}
	user, found := s.store.getUser(c.Param("id"))
	if !found {
		return respondLegacyError(c, http.StatusNotFound, "User not found")
	}
	s.store.setUsersStatus([]string{user.ID}, status)
	s.store.appendActivity(vault.ActionUserStatusChanged,
		fmt.Sprintf("Changed status of %s to %s", user.Email, status), c.RealIP(), actorFor(user))
	return respondLegacy(c, "Status updated", nil)
}

func (s *Server) suspendUser(c echo.Context) error {
	user, ok := s.store.getUser(c.Param("id"))
	if !ok {
		return respondLegacyError(c, http.StatusNotFound, "User not found")
	}
	s.store.setUsersStatus([]string{user.ID}, vault.UserStatusSuspended)
	s.store.appendActivity(vault.ActionUserSuspended, fmt.Sprintf("Suspended user %s", user.Email), c.RealIP(), actorFor(user))
	return respondLegacy(c, "User suspended", nil)
}

func (s *Server) activateUser(c echo.Context) error {
	user, ok := s.store.getUser(c.Param("id"))
	if !ok {
		return respondLegacyError(c, http.StatusNotFound, "User not found")
	}
	s.store.setUsersStatus([]string{user.ID}, vault.UserStatusActive)
	s.store.appendActivity(vault.ActionUserActivated, fmt.Sprintf("Activated user %s", user.Email), c.RealIP(), actorFor(user))
	return respondLegacy(c, "User activated", nil)
}

type bulkUsersRequest struct {
	UserIDs []string `json:"userIds"`
}

func (s *Server) bulkUsersBody(c echo.Context) ([]string, error) {
	var req bulkUsersRequest
	if err := c.Bind(&req); err != nil {
		return nil, respondLegacyError(c, http.StatusBadRequest, "invalid request body")
	}
	if len(req.UserIDs) == 0 {
		return nil, respondLegacyError(c, http.StatusBadRequest, "userIds must not be empty")
	}
	return req.UserIDs, nil
}

func (s *Server) bulkDeleteUsers(c echo.Context) error {
	ids, err := s.bulkUsersBody(c)
	if ids == nil {
		return err
	}
	removed := s.store.deleteUsers(ids)
	s.store.appendActivity(vault.ActionUserDeleted, fmt.Sprintf("Bulk deleted %d user(s)", removed), c.RealIP(), nil)
	return respondLegacy(c, fmt.Sprintf("%d user(s) deleted", removed), nil)
}

func (s *Server) bulkSuspendUsers(c echo.Context) error {
	ids, err := s.bulkUsersBody(c)
	if ids == nil {
		return err
	}
	changed := s.store.setUsersStatus(ids, vault.UserStatusSuspended)
	s.store.appendActivity(vault.ActionUserSuspended, fmt.Sprintf("Bulk suspended %d user(s)", changed), c.RealIP(), nil)
	return respondLegacy(c, fmt.Sprintf("%d user(s) suspended", changed), nil)
}

func (s *Server) bulkActivateUsers(c echo.Context) error {
	ids, err := s.bulkUsersBody(c)
	if ids == nil {
		return err
	}
	changed := s.store.setUsersStatus(ids, vault.UserStatusActive)
	s.store.appendActivity(vault.ActionUserActivated, fmt.Sprintf("Bulk activated %d user(s)", changed), c.RealIP(), nil)
	return respondLegacy(c, fmt.Sprintf("%d user(s) activated", changed), nil)
}

func (s *Server) getUserSessions(c echo.Context) error {
	if _, ok := s.store.getUser(c.Param("id")); !ok {
		return respondLegacyError(c, http.StatusNotFound, "User not found")
	}
	return respondLegacy(c, "sessions retrieved", s.store.userSessions(c.Param("id")))
}

func (s *Server) logoutUserSession(c echo.Context) error {
	if !s.store.deactivateSession(c.Param("sessionId"), c.Param("id")) {
		return respondLegacyError(c, http.StatusNotFound, "Session not found")
	}
	s.store.appendActivity(vault.ActionSessionTerminated, "Terminated one user session", c.RealIP(), nil)
	return respondLegacy(c, "Session terminated", nil)
}

func (s *Server) logoutAllUserSessions(c echo.Context) error {
	user, ok := s.store.getUser(c.Param("id"))
	if !ok {
		return respondLegacyError(c, http.StatusNotFound, "User not found")
	}
	count := s.store.deactivateAllSessions(user.ID)
	s.store.appendActivity(vault.ActionSessionsTerminated,
		fmt.Sprintf("Terminated %d session(s) of %s", count, user.Email), c.RealIP(), actorFor(user))
	return respondLegacy(c, fmt.Sprintf("%d session(s) terminated", count), nil)
}

// exportUsers streams a finished file so clients exercise the blob path of
// their download handling. The filtered set ignores pagination.
func (s *Server) exportUsers(c echo.Context) error {
	search, status, role := userFiltersFromQuery(c)
	users := s.store.filterUsers(search, status, role)
	format := vault.ParseExportFormat(c.QueryParam("format"))

	var data []byte
	var contentType string
	var err error
	if format == vault.ExportExcel {
		data, err = export.UsersExcel(users)
		contentType = export.MIMEExcel
	} else {
		data, err = export.UsersCSV(users)
		contentType = export.MIMECSV
	}
	if err != nil {
		return respondLegacyError(c, http.StatusInternalServerError, "export failed")
	}

	s.store.appendActivity(vault.ActionUsersExported, fmt.Sprintf("Exported %d user(s)", len(users)), c.RealIP(), nil)
	name := export.FileName(format, s.now())
	c.Response().Header().Set(echo.HeaderContentDisposition, fmt.Sprintf("attachment; filename=%q", name))
	return c.Blob(http.StatusOK, contentType, data)
}

func actorFor(user vault.User) *vault.ActivityActor {
	return &vault.ActivityActor{ID: user.ID, FullName: user.DisplayName(), Email: user.Email}
}
