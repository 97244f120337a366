package ports

import (
	"context"

	"image-tier-api/internal/domain/account"
)

// Identity registers accounts and issues their bearer tokens. Issuing a
// token is an explicit step taken after registration.
type Identity interface {
	RegisterAccount(ctx context.Context, tierName string) (*account.Account, error)
	IssueToken(a *account.Account) (string, error)
}
