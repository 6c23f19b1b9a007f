package workflow

import (
	"context"
	"fmt"

	"github.com/ijsvault/vaultadmin/internal/export"
	"github.com/ijsvault/vaultadmin/internal/vault"
)

// ExportUsers downloads the filtered dataset in the requested format. Exports
// are reads, not mutations: nothing is invalidated and the selection is left
// alone. When the backend streams a finished file it is saved as-is;
// otherwise the JSON list is serialized locally.
func (w *Workflows) ExportUsers(ctx context.Context, format vault.ExportFormat) (string, error) {
	filters := vault.UserFiltersFrom(w.Users.Filters())
	result, err := w.svc.ExportUsers(ctx, format, filters)
	if err != nil {
		w.notify.Error(err.Error())
		return "", err
	}

	var data []byte
	var contentType string
	switch {
	case len(result.Blob) > 0:
		data = result.Blob
		contentType = result.ContentType
	case len(result.Users) == 0:
		w.notify.Error("No users to export")
		return "", nil
	case format == vault.ExportExcel:
		data, err = export.UsersExcel(result.Users)
		contentType = export.MIMEExcel
	default:
		data, err = export.UsersCSV(result.Users)
		contentType = export.MIMECSV
	}
	if err != nil {
		w.notify.Error(err.Error())
		return "", err
	}

	name := export.FileName(format, w.now())
	target, err := w.sink.Save(name, contentType, data)
	if err != nil {
		w.notify.Error(err.Error())
		return "", err
	}
	w.notify.Success(fmt.Sprintf("Users exported to %s", target))
	return target, nil
}

// SendNotification delivers a notification to specific users or to everyone
// and reports the per-item aggregate the endpoint guarantees.
func (w *Workflows) SendNotification(ctx context.Context, req vault.SendNotificationRequest) (*vault.SendOutcome, error) {
	var outcome *vault.SendOutcome
	err := w.cache.Mutate(ctx, func(ctx context.Context) error {
		var err error
		if len(req.UserIDs) == 0 {
			outcome, err = w.svc.SendNotificationToAll(ctx, req)
		} else {
			outcome, err = w.svc.SendNotification(ctx, req)
		}
		return err
	}, prefixNotifications, prefixActivity)
	if err != nil {
		w.notify.Error(err.Error())
		return nil, err
	}
	w.notify.Success(fmt.Sprintf("Notification sent to %d recipient(s), %d failed", outcome.Sent, outcome.Failed))
	return outcome, nil
}
