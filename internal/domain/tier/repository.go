package tier

import "context"

type Repository interface {
	FetchTierByName(ctx context.Context, name string) (*Tier, error)
	SaveTier(ctx context.Context, t Tier) (*Tier, error)
}
