package vault

import (
	"context"
	"encoding/json"
)

type NotificationFilters struct {
	Page  int    `url:"page,omitempty" json:"page,omitempty"`
	Limit int    `url:"limit,omitempty" json:"limit,omitempty"`
	Type  string `url:"type,omitempty" json:"type,omitempty"`
}

type notificationsListWire struct {
	Notifications []Notification `json:"notifications"`
	Results       []Notification `json:"results"`
	Total         int            `json:"total"`
	TotalResults  int            `json:"totalResults"`
	Page          int            `json:"page"`
	Limit         int            `json:"limit"`
	TotalPages    int            `json:"totalPages"`
}

func (s *Service) GetNotifications(ctx context.Context, filters NotificationFilters) (*Page[Notification], error) {
	if filters.Page < 1 {
		filters.Page = defaultPage
	}
	if filters.Limit < 1 {
		filters.Limit = defaultPageSize
	}
	values, err := queryValues(filters)
	if err != nil {
		return nil, err
	}
	var wire notificationsListWire
	if err := s.client.Get(ctx, pathNotificationsList, values, &wire); err != nil {
		return nil, err
	}

	items := wire.Notifications
	if items == nil {
		items = wire.Results
	}
	if items == nil {
		items = []Notification{}
	}
	page := &Page[Notification]{
		Items:      items,
		Total:      firstNonZero(wire.Total, wire.TotalResults),
		Page:       firstNonZero(wire.Page, filters.Page),
		PageSize:   firstNonZero(wire.Limit, filters.Limit),
		TotalPages: wire.TotalPages,
	}
	if page.TotalPages == 0 {
		page.TotalPages = totalPagesFor(page.Total, page.PageSize)
	}
	return page, nil
}

type SendNotificationRequest struct {
	Title    string   `json:"title"`
	Message  string   `json:"message"`
	Type     string   `json:"type,omitempty"`
	UserIDs  []string `json:"userIds,omitempty"`
	SendPush bool     `json:"sendPush,omitempty"`
}

// SendOutcome is the per-item result aggregate. This is the only bulk
// operation whose contract guarantees partial-success reporting.
type SendOutcome struct {
	Sent   int `json:"sent"`
	Failed int `json:"failed"`
}

func (s *Service) SendNotification(ctx context.Context, req SendNotificationRequest) (*SendOutcome, error) {
	var outcome SendOutcome
	if err := s.client.Post(ctx, pathNotificationsSend, req, &outcome); err != nil {
		return nil, err
	}
	return &outcome, nil
}

func (s *Service) SendNotificationToAll(ctx context.Context, req SendNotificationRequest) (*SendOutcome, error) {
	req.UserIDs = nil
	var outcome SendOutcome
	if err := s.client.Post(ctx, pathNotificationsAll, req, &outcome); err != nil {
		return nil, err
	}
	return &outcome, nil
}

func (s *Service) GetNotificationStats(ctx context.Context) (*NotificationStats, error) {
	var raw json.RawMessage
	if err := s.client.Get(ctx, pathNotificationsStats, nil, &raw); err != nil {
		return nil, err
	}
	return unwrapStats[NotificationStats](raw)
}
