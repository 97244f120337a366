package services

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/prometheus/client_golang/prometheus"

	"image-tier-api/internal/application/ports"
	"image-tier-api/internal/domain/account"
	"image-tier-api/internal/domain/link"
	"image-tier-api/internal/domain/tier"
	"image-tier-api/internal/domain/user_image"
)

// linkPath is where the REST layer serves tokens.
const linkPath = "/links/"

type LinkService struct {
	linkStore           link.Store
	accountRepository   account.Repository
	userImageRepository user_image.Repository
	publicBase          string
	mCounter            *prometheus.CounterVec
	now                 func() time.Time
}

func NewLinkService(
	linkStore link.Store,
	accountRepository account.Repository,
	userImageRepository user_image.Repository,
	publicBase string,
	mCounter *prometheus.CounterVec,
) ports.LinkService {
	return &LinkService{
		linkStore:           linkStore,
		accountRepository:   accountRepository,
		userImageRepository: userImageRepository,
		publicBase:          strings.TrimSuffix(publicBase, "/"),
		mCounter:            mCounter,
		now:                 time.Now,
	}
}

func (ls *LinkService) CreateExpiringLink(
	ctx context.Context,
	accountUUID account.UUID,
	imageUUID uuid.UUID,
	expiresIn *int,
) (*link.ExpiringLink, error) {
	acc, err := ls.accountRepository.FetchAccount(ctx, accountUUID)
	if err != nil {
		return nil, err
	}
	if acc == nil {
		return nil, account.ErrProfileNotFound
	}

	policy := tier.Resolve(acc.Tier)
	if !policy.AllowExpiringLinks {
		return nil, link.ErrExpiringLinksNotAllowed
	}
	seconds := policy.ExpirationSeconds
	if expiresIn != nil {
		seconds = *expiresIn
	}
	if !tier.ValidExpiration(seconds) {
		return nil, fmt.Errorf("%w: expires_in must be within [%d, %d] seconds",
			link.ErrInvalidExpiration, tier.MinExpirationSeconds, tier.MaxExpirationSeconds)
	}

	ui, err := ls.userImageRepository.FetchOwnedImage(ctx, acc.ID, imageUUID)
	if err != nil {
		return nil, err
	}
	if ui == nil {
		return nil, user_image.ErrImageNotFound
	}

	ttl := time.Duration(seconds) * time.Second
	token := strings.ReplaceAll(uuid.NewString(), "-", "")
	if err = ls.linkStore.Save(ctx, token, ui.OriginalKey, ttl); err != nil {
		if errors.Is(err, link.ErrTokenTaken) {
			return nil, err
		}
		return nil, fmt.Errorf("%w: %w", user_image.ErrStorageFailure, err)
	}

	ls.mCounter.WithLabelValues("expiring_link_created_total").Inc()

	return &link.ExpiringLink{
		Token:     token,
		URL:       ls.publicBase + linkPath + token,
		ExpiresAt: ls.now().Add(ttl).UTC(),
	}, nil
}

// ResolveLink returns the blob key behind a live token.
func (ls *LinkService) ResolveLink(ctx context.Context, token string) (string, error) {
	if token == "" {
		return "", link.ErrLinkNotFound
	}

	return ls.linkStore.Resolve(ctx, token)
}
