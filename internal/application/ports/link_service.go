package ports

import (
	"context"

	"github.com/google/uuid"

	"image-tier-api/internal/domain/account"
	"image-tier-api/internal/domain/link"
)

type LinkService interface {
	// CreateExpiringLink uses the tier's default expiration when expiresIn
	// is nil.
	CreateExpiringLink(ctx context.Context, accountUUID account.UUID, imageUUID uuid.UUID, expiresIn *int) (*link.ExpiringLink, error)
	ResolveLink(ctx context.Context, token string) (string, error)
}
