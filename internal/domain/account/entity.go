package account

import (
	"errors"
	"time"

	"github.com/google/uuid"

	"image-tier-api/internal/domain/tier"
)

var ErrProfileNotFound = errors.New("profile not found")

type (
	ID   uint64
	UUID = uuid.UUID

	// Account is the pipeline's view of an authenticated user. Tier is nil
	// when the account has no subscription.
	Account struct {
		ID        ID
		UUID      UUID
		Tier      *tier.Tier
		CreatedAt time.Time
	}
)
