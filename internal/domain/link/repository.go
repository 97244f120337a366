package link

import (
	"context"
	"time"
)

type Store interface {
	Save(ctx context.Context, token, blobKey string, ttl time.Duration) error
	// Resolve returns ErrLinkNotFound for unknown and expired tokens.
	Resolve(ctx context.Context, token string) (string, error)
}
