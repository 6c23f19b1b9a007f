package vault

import (
	"encoding/json"
	"fmt"

	"github.com/ijsvault/vaultadmin/internal/apiclient"
	"github.com/ijsvault/vaultadmin/internal/session"
)

// Service exposes one typed request-builder per backend operation. It only
// shapes requests and responses; every failure from the request client passes
// through untouched.
type Service struct {
	client  *apiclient.Client
	session *session.Context
}

func New(client *apiclient.Client, sess *session.Context) *Service {
	return &Service{client: client, session: sess}
}

// Page is a normalized list response. Whatever field names the backend used
// (users/results, total/totalResults, pageSize/limit), callers see this.
type Page[T any] struct {
	Items      []T `json:"items"`
	Total      int `json:"total"`
	Page       int `json:"page"`
	PageSize   int `json:"pageSize"`
	TotalPages int `json:"totalPages"`
}

func totalPagesFor(total, pageSize int) int {
	if pageSize < 1 {
		return 0
	}
	return (total + pageSize - 1) / pageSize
}

func firstNonZero(values ...int) int {
	for _, v := range values {
		if v != 0 {
			return v
		}
	}
	return 0
}

// unwrapStats tolerates both a `{stats: {...}}` wrapper and a bare object,
// which the stats endpoints use interchangeably.
func unwrapStats[T any](raw json.RawMessage) (*T, error) {
	var wrapped struct {
		Stats *T `json:"stats"`
	}
	if err := json.Unmarshal(raw, &wrapped); err == nil && wrapped.Stats != nil {
		return wrapped.Stats, nil
	}
	var direct T
	if err := json.Unmarshal(raw, &direct); err != nil {
		return nil, fmt.Errorf("decode stats payload: %w", err)
	}
	return &direct, nil
}
