package link

import (
	"errors"
	"time"
)

var (
	ErrExpiringLinksNotAllowed = errors.New("expiring links are not available on this tier")
	ErrInvalidExpiration       = errors.New("invalid expiration")
	ErrLinkNotFound            = errors.New("link not found or expired")
	ErrTokenTaken              = errors.New("link token already in use")
)

// ExpiringLink grants anonymous read access to one original blob until
// ExpiresAt.
type ExpiringLink struct {
	Token     string
	URL       string
	ExpiresAt time.Time
}
