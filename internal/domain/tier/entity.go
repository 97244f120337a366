package tier

import (
	"errors"
	"fmt"
)

const (
	// BasicTierName never exposes originals, whatever its flags say.
	BasicTierName = "Basic"

	MinExpirationSeconds     = 300
	MaxExpirationSeconds     = 30000
	DefaultExpirationSeconds = MinExpirationSeconds
)

var (
	ErrInvalidTier  = errors.New("invalid tier")
	ErrTierNotFound = errors.New("tier not found")
)

type (
	ID uint64

	// ThumbnailSpec is a target derivative height in pixels.
	ThumbnailSpec struct {
		Height int
	}

	Tier struct {
		ID                  ID
		Name                string
		ThumbnailSpecs      []ThumbnailSpec
		AllowOriginalAccess bool
		AllowExpiringLinks  bool
		ExpirationSeconds   *int
	}
)

func (t Tier) Validate() error {
	if t.Name == "" {
		return fmt.Errorf("%w: name is required", ErrInvalidTier)
	}
	for _, s := range t.ThumbnailSpecs {
		if s.Height <= 0 {
			return fmt.Errorf("%w: thumbnail height must be positive, got %d", ErrInvalidTier, s.Height)
		}
	}
	if t.ExpirationSeconds != nil {
		if !t.AllowExpiringLinks {
			return fmt.Errorf("%w: expiration requires expiring links", ErrInvalidTier)
		}
		if !ValidExpiration(*t.ExpirationSeconds) {
			return fmt.Errorf("%w: expiration must be within [%d, %d] seconds",
				ErrInvalidTier, MinExpirationSeconds, MaxExpirationSeconds)
		}
	}

	return nil
}

func ValidExpiration(seconds int) bool {
	return seconds >= MinExpirationSeconds && seconds <= MaxExpirationSeconds
}
