package vault

import "context"

type LegalPageRequest struct {
	Title       string `json:"title"`
	Content     string `json:"content"`
	Version     string `json:"version,omitempty"`
	IsPublished *bool  `json:"isPublished,omitempty"`
}

func (s *Service) GetAllLegalPages(ctx context.Context) ([]LegalPage, error) {
	var wire struct {
		Pages []LegalPage `json:"pages"`
	}
	if err := s.client.Get(ctx, pathLegalList, nil, &wire); err != nil {
		return nil, err
	}
	if wire.Pages == nil {
		wire.Pages = []LegalPage{}
	}
	return wire.Pages, nil
}

func (s *Service) GetLegalPage(ctx context.Context, pageType string) (*LegalPage, error) {
	var wire struct {
		Page *LegalPage `json:"page"`
	}
	path := buildPath(pathLegalByType, map[string]string{"type": pageType})
	if err := s.client.Get(ctx, path, nil, &wire); err != nil {
		return nil, err
	}
	return wire.Page, nil
}

func (s *Service) CreateLegalPage(ctx context.Context, pageType string, req LegalPageRequest) error {
	body := struct {
		Type string `json:"type"`
		LegalPageRequest
	}{Type: pageType, LegalPageRequest: req}
	return s.client.Post(ctx, pathLegalList, body, nil)
}

func (s *Service) UpdateLegalPage(ctx context.Context, pageType string, req LegalPageRequest) error {
	path := buildPath(pathLegalByType, map[string]string{"type": pageType})
	return s.client.Put(ctx, path, req, nil)
}

// GetPublicLegalPage reads the published page through the unauthenticated
// endpoint end users see.
func (s *Service) GetPublicLegalPage(ctx context.Context, pageType string) (*LegalPage, error) {
	var wire struct {
		Page *LegalPage `json:"page"`
	}
	path := buildPath(pathLegalPublic, map[string]string{"type": pageType})
	if err := s.client.Get(ctx, path, nil, &wire); err != nil {
		return nil, err
	}
	return wire.Page, nil
}
