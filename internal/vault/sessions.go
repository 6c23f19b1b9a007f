package vault

import (
	"context"
	"encoding/json"

	"golang.org/x/sync/errgroup"
)

type sessionsListWire struct {
	Sessions     []SessionWithUser `json:"sessions"`
	Results      []SessionWithUser `json:"results"`
	Total        int               `json:"total"`
	TotalResults int               `json:"totalResults"`
	Page         int               `json:"page"`
	PageSize     int               `json:"pageSize"`
	Limit        int               `json:"limit"`
	TotalPages   int               `json:"totalPages"`
}

func (w sessionsListWire) toPage(requested SessionFilters) *Page[SessionWithUser] {
	items := w.Sessions
	if items == nil {
		items = w.Results
	}
	if items == nil {
		items = []SessionWithUser{}
	}
	page := &Page[SessionWithUser]{
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

// GetSessionsList fetches the filtered, paginated active-sessions list.
func (s *Service) GetSessionsList(ctx context.Context, filters SessionFilters) (*Page[SessionWithUser], error) {
	filters = filters.normalized()
	values, err := queryValues(filters)
	if err != nil {
		return nil, err
	}
	var wire sessionsListWire
	if err := s.client.Get(ctx, pathSessionsList, values, &wire); err != nil {
		return nil, err
	}
	return wire.toPage(filters), nil
}

// TerminateSession force-logs-out one session.
func (s *Service) TerminateSession(ctx context.Context, sessionID string) error {
	path := buildPath(pathSessionTerminate, map[string]string{"id": sessionID})
	return s.client.Delete(ctx, path, nil)
}

type bulkSessionIDs struct {
	SessionIDs []string `json:"sessionIds"`
}

// BulkLogoutSessions terminates every id, via the bulk endpoint when the
// backend has one and per-id fan-out otherwise.
func (s *Service) BulkLogoutSessions(ctx context.Context, sessionIDs []string) error {
	if len(sessionIDs) == 0 {
		return nil
	}
	err := s.client.Post(ctx, pathSessionsBulkLogout, bulkSessionIDs{SessionIDs: sessionIDs}, nil)
	if err == nil || !endpointMissing(err) {
		return err
	}
	group, ctx := errgroup.WithContext(ctx)
	for _, id := range sessionIDs {
		group.Go(func() error {
			return s.TerminateSession(ctx, id)
		})
	}
	return group.Wait()
}

func (s *Service) GetSessionStats(ctx context.Context) (*SessionStats, error) {
	var raw json.RawMessage
	if err := s.client.Get(ctx, pathSessionsStats, nil, &raw); err != nil {
		return nil, err
	}
	return unwrapStats[SessionStats](raw)
}
