package vault

import (
	"context"
	"encoding/json"
)

func (s *Service) GetDashboardStats(ctx context.Context) (*DashboardStats, error) {
	var raw json.RawMessage
	if err := s.client.Get(ctx, pathDashboardStats, nil, &raw); err != nil {
		return nil, err
	}
	return unwrapStats[DashboardStats](raw)
}

func (s *Service) GetPlatformStats(ctx context.Context) (*PlatformStats, error) {
	var raw json.RawMessage
	if err := s.client.Get(ctx, pathPlatformStats, nil, &raw); err != nil {
		return nil, err
	}
	return unwrapStats[PlatformStats](raw)
}

func (s *Service) GetStorageStats(ctx context.Context) (*StorageStats, error) {
	var raw json.RawMessage
	if err := s.client.Get(ctx, pathStorageStats, nil, &raw); err != nil {
		return nil, err
	}
	return unwrapStats[StorageStats](raw)
}
