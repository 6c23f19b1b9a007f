package mockserver

import (
	"net/http"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"

	"github.com/ijsvault/vaultadmin/internal/vault"
)

func (s *Server) listLegalPages(c echo.Context) error {
	return respondSuccess(c, map[string]any{"pages": s.store.listLegalPages()})
}

func (s *Server) getLegalPage(c echo.Context) error {
	page, ok := s.store.getLegalPage(c.Param("type"))
	if !ok {
		return respondError(c, http.StatusNotFound, "Legal page not found", "")
	}
	return respondSuccess(c, map[string]any{"page": page})
}

// getPublicLegalPage serves only published pages, without auth.
func (s *Server) getPublicLegalPage(c echo.Context) error {
	page, ok := s.store.getLegalPage(c.Param("type"))
	if !ok || !page.IsPublished {
		return respondError(c, http.StatusNotFound, "Legal page not found", "")
	}
	return respondSuccess(c, map[string]any{"page": page})
}

type legalPageRequest struct {
	Type        string `json:"type,omitempty"`
	Title       string `json:"title"`
	Content     string `json:"content"`
	Version     string `json:"version,omitempty"`
	IsPublished *bool  `json:"isPublished,omitempty"`
}

func (s *Server) createLegalPage(c echo.Context) error {
	var req legalPageRequest
	if err := c.Bind(&req); err != nil {
		return respondError(c, http.StatusBadRequest, "invalid request body", "")
	}
	pageType := strings.ToLower(strings.TrimSpace(req.Type))
	if pageType == "" || strings.TrimSpace(req.Title) == "" {
		return respondError(c, http.StatusBadRequest, "type and title are required", "")
	}
	published := true
	if req.IsPublished != nil {
		published = *req.IsPublished
	}
	page := &vault.LegalPage{
		ID:          uuid.NewString(),
		Type:        pageType,
		Title:       req.Title,
		Content:     req.Content,
		Version:     req.Version,
		IsPublished: published,
		PublishedAt: s.now().UTC().Format(time.RFC3339),
	}
	if !s.store.createLegalPage(page) {
		return respondError(c, http.StatusConflict, "Legal page already exists", "use PUT to update it")
	}
	s.store.appendActivity(vault.ActionLegalPageCreated, "Created legal page "+pageType, c.RealIP(), nil)
	return respondSuccessMessage(c, "Legal page created", map[string]any{"page": page})
}

func (s *Server) updateLegalPage(c echo.Context) error {
	var req legalPageRequest
	if err := c.Bind(&req); err != nil {
		return respondError(c, http.StatusBadRequest, "invalid request body", "")
	}
	page, ok := s.store.updateLegalPage(c.Param("type"), req.Title, req.Content, req.Version, req.IsPublished)
	if !ok {
		return respondError(c, http.StatusNotFound, "Legal page not found", "")
	}
	s.store.appendActivity(vault.ActionLegalPageUpdated, "Updated legal page "+page.Type, c.RealIP(), nil)
	return respondSuccessMessage(c, "Legal page updated", map[string]any{"page": page})
}
