package vault

import (
	"fmt"
	"net/url"

	"github.com/google/go-querystring/query"

	"github.com/ijsvault/vaultadmin/internal/listselect"
)

const (
	defaultPage     = 1
	defaultPageSize = 10
)

// UserFilters drives the users list query. The zero value of an optional
// field keeps it out of the encoded query string.
type UserFilters struct {
	Search    string     `url:"search,omitempty" json:"search,omitempty"`
	Status    UserStatus `url:"status,omitempty" json:"status,omitempty"`
	Role      UserRole   `url:"role,omitempty" json:"role,omitempty"`
	SortBy    string     `url:"sortBy,omitempty" json:"sortBy,omitempty"`
	SortOrder string     `url:"sortOrder,omitempty" json:"sortOrder,omitempty"`
	Page      int        `url:"page,omitempty" json:"page,omitempty"`
	PageSize  int        `url:"pageSize,omitempty" json:"pageSize,omitempty"`
}

type SessionFilters struct {
	Search     string     `url:"search,omitempty" json:"search,omitempty"`
	DeviceType DeviceType `url:"deviceType,omitempty" json:"deviceType,omitempty"`
	Page       int        `url:"page,omitempty" json:"page,omitempty"`
	PageSize   int        `url:"pageSize,omitempty" json:"pageSize,omitempty"`
}

func queryValues(filters any) (url.Values, error) {
	values, err := query.Values(filters)
	if err != nil {
		return nil, fmt.Errorf("encode query parameters: %w", err)
	}
	return values, nil
}

// UserFilterExtra is the user-list-specific slice of filter state held by the
// generic list/selection store.
type UserFilterExtra struct {
	Status UserStatus `json:"status,omitempty"`
	Role   UserRole   `json:"role,omitempty"`
}

// SessionFilterExtra is the sessions-list counterpart.
type SessionFilterExtra struct {
	DeviceType DeviceType `json:"deviceType,omitempty"`
}

// NewUserListStore builds the filter/selection store backing the users page.
func NewUserListStore() *listselect.Store[UserFilterExtra] {
	return listselect.New(UserFilterExtra{})
}

// NewSessionListStore builds the store backing the sessions page.
func NewSessionListStore() *listselect.Store[SessionFilterExtra] {
	return listselect.New(SessionFilterExtra{})
}

// UserFiltersFrom translates store state into request parameters.
func UserFiltersFrom(f listselect.Filters[UserFilterExtra]) UserFilters {
	return UserFilters{
		Search:   f.Search,
		Status:   f.Extra.Status,
		Role:     f.Extra.Role,
		Page:     f.Page,
		PageSize: f.PageSize,
	}
}

// SessionFiltersFrom translates store state into request parameters.
func SessionFiltersFrom(f listselect.Filters[SessionFilterExtra]) SessionFilters {
	return SessionFilters{
		Search:     f.Search,
		DeviceType: f.Extra.DeviceType,
		Page:       f.Page,
		PageSize:   f.PageSize,
	}
}

func (f UserFilters) normalized() UserFilters {
	if f.Page < 1 {
		f.Page = defaultPage
	}
	if f.PageSize < 1 {
		f.PageSize = defaultPageSize
	}
	return f
}

func (f SessionFilters) normalized() SessionFilters {
	if f.Page < 1 {
		f.Page = defaultPage
	}
	if f.PageSize < 1 {
		f.PageSize = defaultPageSize
	}
	return f
}
