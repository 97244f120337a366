package validator

import (
	"fmt"

	"github.com/google/uuid"

	"image-tier-api/internal/domain/tier"
	"image-tier-api/internal/interface/api/rest/dto/link"
)

func IsUUID(s string) (bool, uuid.UUID) {
	id, err := uuid.Parse(s)
	return err == nil, id
}

// ValidateExpiringLink checks the request shape. Whether the tier may issue
// links at all is decided by the service.
func ValidateExpiringLink(r link.Request) map[string]string {
	errs := make(map[string]string)

	if r.ExpiresIn != nil && !tier.ValidExpiration(*r.ExpiresIn) {
		errs["expires_in"] = fmt.Sprintf("must be within [%d, %d] seconds",
			tier.MinExpirationSeconds, tier.MaxExpirationSeconds)
	}

	if len(errs) == 0 {
		return nil
	}
	return errs
}
