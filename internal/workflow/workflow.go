// Package workflow composes selection state, user confirmation, mutations and
// cache invalidation into the guarded bulk operations behind the dashboard's
// action bars.
package workflow

import (
	"context"
	"time"

	"github.com/ijsvault/vaultadmin/internal/export"
	"github.com/ijsvault/vaultadmin/internal/listselect"
	"github.com/ijsvault/vaultadmin/internal/query"
	"github.com/ijsvault/vaultadmin/internal/vault"
)

// Confirmer is the blocking yes/no decision shown before a destructive
// action. action is a short verb phrase, count the number of affected items.
type Confirmer interface {
	Confirm(action string, count int) (bool, error)
}

// Notifier receives exactly one message per finished operation, success or
// failure.
type Notifier interface {
	Success(message string)
	Error(message string)
}

type Workflows struct {
	svc      *vault.Service
	cache    *query.Cache
	Users    *listselect.Store[vault.UserFilterExtra]
	Sessions *listselect.Store[vault.SessionFilterExtra]
	confirm  Confirmer
	notify   Notifier
	sink     export.Sink
	now      func() time.Time
}

func New(svc *vault.Service, cache *query.Cache, confirm Confirmer, notify Notifier, sink export.Sink) *Workflows {
	return &Workflows{
		svc:      svc,
		cache:    cache,
		Users:    vault.NewUserListStore(),
		Sessions: vault.NewSessionListStore(),
		confirm:  confirm,
		notify:   notify,
		sink:     sink,
		now:      time.Now,
	}
}

// SetNow overrides the clock, for tests.
func (w *Workflows) SetNow(now func() time.Time) {
	if now != nil {
		w.now = now
	}
}

// UsersPage reads the users list for the current filter state through the
// cache, then prunes the selection to ids present in the result so entities
// removed elsewhere cannot linger in a pending bulk action.
func (w *Workflows) UsersPage(ctx context.Context) (*vault.Page[vault.User], error) {
	filters := vault.UserFiltersFrom(w.Users.Filters())
	page, err := query.GetTyped(ctx, w.cache, usersListKey(filters), func(ctx context.Context) (*vault.Page[vault.User], error) {
		return w.svc.GetUsersList(ctx, filters)
	})
	if err != nil {
		return nil, err
	}
	if w.Users.HasSelection() {
		ids := make([]string, 0, len(page.Items))
		for _, u := range page.Items {
			ids = append(ids, u.ID)
		}
		w.Users.Prune(ids)
	}
	return page, nil
}

// SessionsPage is the sessions-list counterpart of UsersPage.
func (w *Workflows) SessionsPage(ctx context.Context) (*vault.Page[vault.SessionWithUser], error) {
	filters := vault.SessionFiltersFrom(w.Sessions.Filters())
	page, err := query.GetTyped(ctx, w.cache, sessionsListKey(filters), func(ctx context.Context) (*vault.Page[vault.SessionWithUser], error) {
		return w.svc.GetSessionsList(ctx, filters)
	})
	if err != nil {
		return nil, err
	}
	if w.Sessions.HasSelection() {
		ids := make([]string, 0, len(page.Items))
		for _, s := range page.Items {
			ids = append(ids, s.ID)
		}
		w.Sessions.Prune(ids)
	}
	return page, nil
}

// UserDetail reads one user with their sessions through the cache.
func (w *Workflows) UserDetail(ctx context.Context, userID string) (*vault.UserDetail, error) {
	return query.GetTyped(ctx, w.cache, userDetailKey(userID), func(ctx context.Context) (*vault.UserDetail, error) {
		return w.svc.GetUserDetail(ctx, userID)
	})
}

// DashboardStats reads the dashboard aggregates through the cache.
func (w *Workflows) DashboardStats(ctx context.Context) (*vault.DashboardStats, error) {
	return query.GetTyped(ctx, w.cache, query.Key("dashboard", "stats", nil), func(ctx context.Context) (*vault.DashboardStats, error) {
		return w.svc.GetDashboardStats(ctx)
	})
}
