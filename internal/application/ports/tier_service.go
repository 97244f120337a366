package ports

import (
	"context"

	"image-tier-api/internal/domain/tier"
)

type TierService interface {
	SaveTier(ctx context.Context, t tier.Tier) (*tier.Tier, error)
	FindTier(ctx context.Context, name string) (*tier.Tier, error)
}
