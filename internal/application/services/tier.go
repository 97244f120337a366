package services

import (
	"context"

	"image-tier-api/internal/application/ports"
	"image-tier-api/internal/domain/tier"
)

type TierService struct {
	tierRepository tier.Repository
}

func NewTierService(tierRepository tier.Repository) ports.TierService {
	return &TierService{tierRepository: tierRepository}
}

func (ts *TierService) SaveTier(ctx context.Context, t tier.Tier) (*tier.Tier, error) {
	if err := t.Validate(); err != nil {
		return nil, err
	}

	return ts.tierRepository.SaveTier(ctx, t)
}

func (ts *TierService) FindTier(ctx context.Context, name string) (*tier.Tier, error) {
	t, err := ts.tierRepository.FetchTierByName(ctx, name)
	if err != nil {
		return nil, err
	}
	if t == nil {
		return nil, tier.ErrTierNotFound
	}

	return t, nil
}
