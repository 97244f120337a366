package services

import (
	"context"
	"errors"
	"time"

	"image-tier-api/internal/application/ports"
	"image-tier-api/internal/domain/account"
	"image-tier-api/internal/domain/tier"
	"image-tier-api/internal/infrastructure/jwt"
)

var ErrFailedToGenerateToken = errors.New("failed to generate token")

type IdentityService struct {
	accountRepository account.Repository
	tierRepository    tier.Repository
	jwtService        *jwt.Service
	tokenTTL          time.Duration
}

// NewIdentityService issues tokens valid for tokenTTL; tokenTTL <= 0 issues
// tokens that never expire.
func NewIdentityService(
	accountRepository account.Repository,
	tierRepository tier.Repository,
	jwtService *jwt.Service,
	tokenTTL time.Duration,
) ports.Identity {
	return &IdentityService{
		accountRepository: accountRepository,
		tierRepository:    tierRepository,
		jwtService:        jwtService,
		tokenTTL:          tokenTTL,
	}
}

// RegisterAccount creates an account on the named tier. An empty name
// creates an account without a tier.
func (is *IdentityService) RegisterAccount(ctx context.Context, tierName string) (*account.Account, error) {
	var tierID *tier.ID
	if tierName != "" {
		t, err := is.tierRepository.FetchTierByName(ctx, tierName)
		if err != nil {
			return nil, err
		}
		if t == nil {
			return nil, tier.ErrTierNotFound
		}
		tierID = &t.ID
	}

	return is.accountRepository.CreateAccount(ctx, tierID)
}

func (is *IdentityService) IssueToken(a *account.Account) (string, error) {
	if a == nil {
		return "", account.ErrProfileNotFound
	}

	token, err := is.jwtService.GenerateJWT(a.UUID.String(), is.tokenTTL)
	if err != nil {
		return "", ErrFailedToGenerateToken
	}

	return token, nil
}
