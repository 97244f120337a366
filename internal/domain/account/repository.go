package account

import (
	"context"

	"image-tier-api/internal/domain/tier"
)

type Repository interface {
	// FetchAccount returns nil, nil when no account has the given UUID.
	FetchAccount(ctx context.Context, uuid UUID) (*Account, error)
	CreateAccount(ctx context.Context, tierID *tier.ID) (*Account, error)
}
