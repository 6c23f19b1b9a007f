package vault

import (
	"context"
	"encoding/json"
)

type ActivityFilters struct {
	Page   int            `url:"page,omitempty" json:"page,omitempty"`
	Limit  int            `url:"limit,omitempty" json:"limit,omitempty"`
	Action ActivityAction `url:"action,omitempty" json:"action,omitempty"`
}

type activityListWire struct {
	Results      []ActivityItem `json:"results"`
	Page         int            `json:"page"`
	Limit        int            `json:"limit"`
	TotalPages   int            `json:"totalPages"`
	TotalResults int            `json:"totalResults"`
}

func (s *Service) activityList(ctx context.Context, path string, filters ActivityFilters) (*Page[ActivityItem], error) {
	if filters.Page < 1 {
		filters.Page = defaultPage
	}
	if filters.Limit < 1 {
		filters.Limit = 20
	}
	values, err := queryValues(filters)
	if err != nil {
		return nil, err
	}
	var wire activityListWire
	if err := s.client.Get(ctx, path, values, &wire); err != nil {
		return nil, err
	}
	if wire.Results == nil {
		wire.Results = []ActivityItem{}
	}
	page := &Page[ActivityItem]{
		Items:      wire.Results,
		Total:      wire.TotalResults,
		Page:       firstNonZero(wire.Page, filters.Page),
		PageSize:   firstNonZero(wire.Limit, filters.Limit),
		TotalPages: wire.TotalPages,
	}
	if page.TotalPages == 0 {
		page.TotalPages = totalPagesFor(page.Total, page.PageSize)
	}
	return page, nil
}

// GetActivityTimeline lists the signed-in admin's own actions.
func (s *Service) GetActivityTimeline(ctx context.Context, filters ActivityFilters) (*Page[ActivityItem], error) {
	return s.activityList(ctx, pathActivityTimeline, filters)
}

// GetAllActivities lists actions across all admins.
func (s *Service) GetAllActivities(ctx context.Context, filters ActivityFilters) (*Page[ActivityItem], error) {
	return s.activityList(ctx, pathActivityList, filters)
}

func (s *Service) GetActivityStats(ctx context.Context) (*ActivityStats, error) {
	var raw json.RawMessage
	if err := s.client.Get(ctx, pathActivityStats, nil, &raw); err != nil {
		return nil, err
	}
	return unwrapStats[ActivityStats](raw)
}

type AdminProfileView struct {
	Profile        AdminProfile   `json:"profile"`
	RecentActivity []ActivityItem `json:"recentActivity"`
}

func (s *Service) GetAdminProfile(ctx context.Context) (*AdminProfileView, error) {
	var view AdminProfileView
	if err := s.client.Get(ctx, pathAdminProfile, nil, &view); err != nil {
		return nil, err
	}
	return &view, nil
}

type UpdateAdminProfileRequest struct {
	FullName string `json:"fullName,omitempty"`
	Phone    string `json:"phone,omitempty"`
	Image    string `json:"image,omitempty"`
}

func (s *Service) UpdateAdminProfile(ctx context.Context, req UpdateAdminProfileRequest) (*AdminProfile, error) {
	var wire struct {
		Profile *AdminProfile `json:"profile"`
	}
	if err := s.client.Put(ctx, pathAdminProfile, req, &wire); err != nil {
		return nil, err
	}
	return wire.Profile, nil
}
