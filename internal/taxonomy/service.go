// AngelaMos | 2026
// service.go

package taxonomy

import (
	"context"
)

type Service struct {
	repo Repository
}

func NewService(repo Repository) *Service {
	return &Service{repo: repo}
}

func (s *Service) List(
	ctx context.Context,
	kind Kind,
	ownerID string,
	params ListParams,
) ([]Item, error) {
	return s.repo.List(ctx, kind, ownerID, params)
}

func (s *Service) Rename(
	ctx context.Context,
	kind Kind,
	ownerID string,
	id int64,
	name string,
) (*Item, error) {
	return s.repo.Rename(ctx, kind, ownerID, id, name)
}

func (s *Service) Delete(
	ctx context.Context,
	kind Kind,
	ownerID string,
	id int64,
) error {
	return s.repo.Delete(ctx, kind, ownerID, id)
}
