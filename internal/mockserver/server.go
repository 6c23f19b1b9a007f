// Package mockserver is a drop-in implementation of the IJS VAULT admin REST
// contract for local development. State is an in-memory fixture set; auth is
// real JWT bearer tokens with a redis-backed revocation list so the client
// stack exercises the same code paths it uses against production.
package mockserver

import (
	"net/http"
	"strings"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"
	"github.com/redis/go-redis/v9"
)

type Server struct {
	echo   *echo.Echo
	store  *fixtureStore
	rdb    *redis.Client
	secret []byte
	now    func() time.Time
}

func New(rdb *redis.Client, secret []byte, now func() time.Time) *Server {
	if now == nil {
		now = time.Now
	}
	s := &Server{
		echo:   echo.New(),
		store:  newFixtureStore(now),
		rdb:    rdb,
		secret: secret,
		now:    now,
	}
	s.echo.HideBanner = true
	s.routes()
	return s
}

// Handler exposes the server for httptest-based wiring.
func (s *Server) Handler() http.Handler {
	return s.echo
}

func (s *Server) Start(addr string) error {
	return s.echo.Start(addr)
}

func (s *Server) routes() {
	e := s.echo
	e.Use(middleware.Logger())
	e.Use(middleware.Recover())
	e.Use(s.rateLimit())

	api := e.Group("/api")

	api.POST("/auth/login", s.login)
	api.GET("/legal/:type", s.getPublicLegalPage)

	admin := api.Group("", s.requireAuth)
	admin.GET("/auth/logout", s.logout)
	admin.POST("/auth/refresh-tokens", s.refreshTokens)

	admin.GET("/admin/users", s.listUsers)
	admin.GET("/admin/users/export", s.exportUsers)
	admin.POST("/admin/users/bulk-delete", s.bulkDeleteUsers)
	admin.POST("/admin/users/bulk-suspend", s.bulkSuspendUsers)
	admin.POST("/admin/users/bulk-activate", s.bulkActivateUsers)
	admin.GET("/admin/users/:id", s.getUserDetail)
	admin.DELETE("/admin/users/:id", s.deleteUser)
	admin.PUT("/admin/users/:id/status", s.updateUserStatus)
	admin.POST("/admin/users/:id/suspend", s.suspendUser)
	admin.POST("/admin/users/:id/activate", s.activateUser)
	admin.GET("/admin/users/:id/sessions", s.getUserSessions)
	admin.POST("/admin/users/:id/sessions/:sessionId/logout", s.logoutUserSession)
	admin.POST("/admin/users/:id/logout-all", s.logoutAllUserSessions)

	admin.GET("/admin/sessions", s.listSessions)
	admin.GET("/admin/sessions/stats", s.sessionStats)
	admin.POST("/admin/sessions/bulk-logout", s.bulkLogoutSessions)
	admin.DELETE("/admin/sessions/:id", s.terminateSession)

	admin.GET("/admin/notifications", s.listNotifications)
	admin.GET("/admin/notifications/stats", s.notificationStats)
	admin.POST("/admin/notifications/send", s.sendNotification)
	admin.POST("/admin/notifications/send-all", s.sendNotificationToAll)

	admin.GET("/admin/legal", s.listLegalPages)
	admin.POST("/admin/legal", s.createLegalPage)
	admin.GET("/admin/legal/:type", s.getLegalPage)
	admin.PUT("/admin/legal/:type", s.updateLegalPage)

	admin.GET("/admin/profile", s.getAdminProfile)
	admin.PUT("/admin/profile", s.updateAdminProfile)
	admin.GET("/admin/activity", s.listActivity)
	admin.GET("/admin/activity/timeline", s.activityTimeline)
	admin.GET("/admin/activity/stats", s.activityStats)

	admin.GET("/admin/dashboard", s.dashboardStats)
	admin.GET("/admin/stats", s.platformStats)
	admin.GET("/admin/storage/stats", s.storageStats)
}

func queryInt(c echo.Context, name string, fallback int) int {
	raw := strings.TrimSpace(c.QueryParam(name))
	if raw == "" {
		return fallback
	}
	value := 0
	for _, r := range raw {
		if r < '0' || r > '9' {
			return fallback
		}
		value = value*10 + int(r-'0')
	}
	if value < 1 {
		return fallback
	}
	return value
}
