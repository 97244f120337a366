package account

import (
	"time"

	"github.com/google/uuid"
)

// Account is a user_accounts row joined with its (optional) tier.
type Account struct {
	ID        uint64
	UUID      uuid.UUID
	CreatedAt time.Time

	TierID                  *uint64
	TierName                *string
	TierAllowOriginalAccess *bool
	TierAllowExpiringLinks  *bool
	TierExpirationSeconds   *int32
	TierHeights             []int32
}
