package service

import (
	"context"

	"soundpath/internal/domain"
)

type Profiles struct {
	repo domain.ProfileRepository
}

func NewProfiles(repo domain.ProfileRepository) *Profiles {
	return &Profiles{repo: repo}
}

func (s *Profiles) Create(ctx context.Context, p domain.Profile) (*domain.Profile, error) {
	return s.repo.Insert(ctx, p)
}

func (s *Profiles) List(ctx context.Context) ([]domain.Profile, error) {
	return s.repo.FindAll(ctx)
}
