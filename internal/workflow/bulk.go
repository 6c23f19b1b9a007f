package workflow

import (
	"context"
	"fmt"
)

// bulkUserAction is the shared protocol for users bulk operations: no-op on
// empty selection, blocking confirmation, mutation with invalidation only on
// success, selection cleared only on success. A failed batch keeps the
// selection so the operator can retry.
func (w *Workflows) bulkUserAction(ctx context.Context, verb string, run func(ctx context.Context, ids []string) error, extraPrefixes ...string) error {
	ids := w.Users.SelectedIDs()
	if len(ids) == 0 {
		return nil
	}
	ok, err := w.confirm.Confirm(verb, len(ids))
	if err != nil {
		return err
	}
	if !ok {
		return nil
	}

	prefixes := append([]string{prefixUsersList, prefixDashboard, prefixActivity}, extraPrefixes...)
	err = w.cache.Mutate(ctx, func(ctx context.Context) error {
		return run(ctx, ids)
	}, prefixes...)
	if err != nil {
		w.notify.Error(err.Error())
		return err
	}
	w.Users.ClearSelection()
	w.notify.Success(fmt.Sprintf("%d user(s) %s successfully", len(ids), verb))
	return nil
}

func (w *Workflows) BulkSuspendUsers(ctx context.Context) error {
	return w.bulkUserAction(ctx, "suspended", w.svc.BulkSuspendUsers, prefixUsersDetail)
}

func (w *Workflows) BulkActivateUsers(ctx context.Context) error {
	return w.bulkUserAction(ctx, "activated", w.svc.BulkActivateUsers, prefixUsersDetail)
}

func (w *Workflows) BulkDeleteUsers(ctx context.Context) error {
	return w.bulkUserAction(ctx, "deleted", w.svc.BulkDeleteUsers, prefixUsersDetail, prefixSessionsList)
}

// BulkLogoutSessions terminates every selected session after confirmation.
func (w *Workflows) BulkLogoutSessions(ctx context.Context) error {
	ids := w.Sessions.SelectedIDs()
	if len(ids) == 0 {
		return nil
	}
	ok, err := w.confirm.Confirm("terminated", len(ids))
	if err != nil {
		return err
	}
	if !ok {
		return nil
	}

	err = w.cache.Mutate(ctx, func(ctx context.Context) error {
		return w.svc.BulkLogoutSessions(ctx, ids)
	}, prefixSessionsList, prefixSessionsUser, prefixDashboard, prefixActivity)
	if err != nil {
		w.notify.Error(err.Error())
		return err
	}
	w.Sessions.ClearSelection()
	w.notify.Success(fmt.Sprintf("%d session(s) terminated successfully", len(ids)))
	return nil
}

// DeleteUser removes a single user after confirmation.
func (w *Workflows) DeleteUser(ctx context.Context, userID string) error {
	ok, err := w.confirm.Confirm("deleted", 1)
	if err != nil {
		return err
	}
	if !ok {
		return nil
	}
	err = w.cache.Mutate(ctx, func(ctx context.Context) error {
		return w.svc.DeleteUser(ctx, userID)
	}, prefixUsersList, prefixUsersDetail, prefixSessionsList, prefixDashboard, prefixActivity)
	if err != nil {
		w.notify.Error(err.Error())
		return err
	}
	w.notify.Success("User deleted successfully")
	return nil
}

// SuspendUser suspends a single user, no confirmation required.
func (w *Workflows) SuspendUser(ctx context.Context, userID, reason string) error {
	err := w.cache.Mutate(ctx, func(ctx context.Context) error {
		return w.svc.SuspendUser(ctx, userID, reason)
	}, prefixUsersList, prefixUsersDetail, prefixDashboard, prefixActivity)
	if err != nil {
		w.notify.Error(err.Error())
		return err
	}
	w.notify.Success("User suspended successfully")
	return nil
}

// ActivateUser reactivates a single user.
func (w *Workflows) ActivateUser(ctx context.Context, userID string) error {
	err := w.cache.Mutate(ctx, func(ctx context.Context) error {
		return w.svc.ActivateUser(ctx, userID)
	}, prefixUsersList, prefixUsersDetail, prefixDashboard, prefixActivity)
	if err != nil {
		w.notify.Error(err.Error())
		return err
	}
	w.notify.Success("User activated successfully")
	return nil
}

// LogoutAllSessions terminates every session of one user.
func (w *Workflows) LogoutAllSessions(ctx context.Context, userID string) error {
	err := w.cache.Mutate(ctx, func(ctx context.Context) error {
		return w.svc.LogoutAllSessions(ctx, userID)
	}, prefixSessionsList, prefixSessionsUser, prefixUsersDetail, prefixActivity)
	if err != nil {
		w.notify.Error(err.Error())
		return err
	}
	w.notify.Success("All sessions terminated successfully")
	return nil
}
