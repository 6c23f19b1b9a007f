package vault

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"strings"

	"golang.org/x/sync/errgroup"

	"github.com/ijsvault/vaultadmin/internal/apiclient"
)

type usersListWire struct {
	Users        []User `json:"users"`
	Results      []User `json:"results"`
	Total        int    `json:"total"`
	TotalResults int    `json:"totalResults"`
	Page         int    `json:"page"`
	PageSize     int    `json:"pageSize"`
	Limit        int    `json:"limit"`
	TotalPages   int    `json:"totalPages"`
}

func (w usersListWire) toPage(requested UserFilters) *Page[User] {
	items := w.Users
	if items == nil {
		items = w.Results
	}
	if items == nil {
		items = []User{}
	}
	page := &Page[User]{
		Items:      items,
		Total:      firstNonZero(w.Total, w.TotalResults),
		Page:       firstNonZero(w.Page, requested.Page),
		PageSize:   firstNonZero(w.PageSize, w.Limit, requested.PageSize),
		TotalPages: w.TotalPages,
	}
	if page.TotalPages == 0 {
		page.TotalPages = totalPagesFor(page.Total, page.PageSize)
	}
	return page
}

// GetUsersList fetches a filtered, paginated slice of users.
func (s *Service) GetUsersList(ctx context.Context, filters UserFilters) (*Page[User], error) {
	filters = filters.normalized()
	values, err := queryValues(filters)
	if err != nil {
		return nil, err
	}
	var wire usersListWire
	if err := s.client.Get(ctx, pathUsersList, values, &wire); err != nil {
		return nil, err
	}
	return wire.toPage(filters), nil
}

type UserDetail struct {
	User     User          `json:"user"`
	Sessions []UserSession `json:"sessions"`
}

func (s *Service) GetUserDetail(ctx context.Context, userID string) (*UserDetail, error) {
	var detail UserDetail
	path := buildPath(pathUserDetail, map[string]string{"id": userID})
	if err := s.client.Get(ctx, path, nil, &detail); err != nil {
		return nil, err
	}
	return &detail, nil
}

func (s *Service) DeleteUser(ctx context.Context, userID string) error {
	path := buildPath(pathUserDelete, map[string]string{"id": userID})
	return s.client.Delete(ctx, path, nil)
}

func (s *Service) SuspendUser(ctx context.Context, userID, reason string) error {
	path := buildPath(pathUserSuspend, map[string]string{"id": userID})
	var body any
	if strings.TrimSpace(reason) != "" {
		body = map[string]string{"reason": reason}
	}
	return s.client.Post(ctx, path, body, nil)
}

func (s *Service) ActivateUser(ctx context.Context, userID string) error {
	path := buildPath(pathUserActivate, map[string]string{"id": userID})
	return s.client.Post(ctx, path, nil, nil)
}

func (s *Service) UpdateUserStatus(ctx context.Context, userID string, status UserStatus, reason string) error {
	path := buildPath(pathUserStatus, map[string]string{"id": userID})
	body := map[string]string{"status": string(status)}
	if strings.TrimSpace(reason) != "" {
		body["reason"] = reason
	}
	return s.client.Put(ctx, path, body, nil)
}

type bulkUserIDs struct {
	UserIDs []string `json:"userIds"`
}

// BulkSuspendUsers suspends every id in one call, falling back to per-id
// fan-out when the backend has no bulk endpoint. Callers cannot tell which
// strategy ran.
func (s *Service) BulkSuspendUsers(ctx context.Context, userIDs []string) error {
	return s.bulkUsers(ctx, pathUsersBulkSuspend, userIDs, func(ctx context.Context, id string) error {
		return s.SuspendUser(ctx, id, "")
	})
}

func (s *Service) BulkActivateUsers(ctx context.Context, userIDs []string) error {
	return s.bulkUsers(ctx, pathUsersBulkActivate, userIDs, s.ActivateUser)
}

func (s *Service) BulkDeleteUsers(ctx context.Context, userIDs []string) error {
	return s.bulkUsers(ctx, pathUsersBulkDelete, userIDs, s.DeleteUser)
}

func (s *Service) bulkUsers(ctx context.Context, path string, userIDs []string, each func(context.Context, string) error) error {
	if len(userIDs) == 0 {
		return nil
	}
	err := s.client.Post(ctx, path, bulkUserIDs{UserIDs: userIDs}, nil)
	if err == nil || !endpointMissing(err) {
		return err
	}
	// No bulk endpoint on this backend: fan out per id. A failure in any one
	// call fails the whole batch.
	group, ctx := errgroup.WithContext(ctx)
	for _, id := range userIDs {
		group.Go(func() error {
			return each(ctx, id)
		})
	}
	return group.Wait()
}

func endpointMissing(err error) bool {
	return apiclient.IsStatus(err, http.StatusNotFound) ||
		apiclient.IsStatus(err, http.StatusMethodNotAllowed)
}

func (s *Service) GetUserSessions(ctx context.Context, userID string) ([]UserSession, error) {
	path := buildPath(pathUserSessions, map[string]string{"id": userID})
	var sessions []UserSession
	if err := s.client.Get(ctx, path, nil, &sessions); err != nil {
		return nil, err
	}
	return sessions, nil
}

func (s *Service) LogoutSession(ctx context.Context, userID, sessionID string) error {
	path := buildPath(pathUserSessionLogout, map[string]string{"id": userID, "sessionId": sessionID})
	return s.client.Post(ctx, path, nil, nil)
}

func (s *Service) LogoutAllSessions(ctx context.Context, userID string) error {
	path := buildPath(pathUserLogoutAll, map[string]string{"id": userID})
	return s.client.Post(ctx, path, nil, nil)
}

type ExportFormat string

const (
	ExportCSV   ExportFormat = "csv"
	ExportExcel ExportFormat = "excel"
)

func ParseExportFormat(raw string) ExportFormat {
	if strings.EqualFold(strings.TrimSpace(raw), string(ExportExcel)) {
		return ExportExcel
	}
	return ExportCSV
}

// ExportResult carries either a ready-made file from the backend or the raw
// user list for local serialization, never both.
type ExportResult struct {
	Blob        []byte
	ContentType string
	Users       []User
}

// ExportUsers requests the full filtered dataset; pagination fields are
// dropped before encoding.
func (s *Service) ExportUsers(ctx context.Context, format ExportFormat, filters UserFilters) (*ExportResult, error) {
	filters.Page = 0
	filters.PageSize = 0
	values, err := queryValues(filters)
	if err != nil {
		return nil, err
	}
	values.Set("format", string(format))

	data, contentType, err := s.client.GetRaw(ctx, pathUsersExport, values)
	if err != nil {
		return nil, err
	}
	if !strings.Contains(contentType, "application/json") {
		return &ExportResult{Blob: data, ContentType: contentType}, nil
	}

	var wrapped struct {
		Users []User `json:"users"`
	}
	if err := json.Unmarshal(data, &wrapped); err == nil && wrapped.Users != nil {
		return &ExportResult{Users: wrapped.Users}, nil
	}
	var bare []User
	if err := json.Unmarshal(data, &bare); err != nil {
		return nil, fmt.Errorf("decode export payload: %w", err)
	}
	return &ExportResult{Users: bare}, nil
}
