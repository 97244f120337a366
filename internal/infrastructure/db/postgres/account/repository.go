package account

import (
	"context"
	"errors"

	"github.com/jackc/pgx/v5"

	"image-tier-api/internal/domain/account"
	"image-tier-api/internal/domain/tier"
	"image-tier-api/internal/infrastructure/db/postgres"
)

type Repository struct {
	db postgres.DB
}

func NewRepository(db postgres.DB) account.Repository {
	return &Repository{db: db}
}

func (r *Repository) FetchAccount(ctx context.Context, uuid account.UUID) (*account.Account, error) {
	a := new(Account)
	err := r.db.QueryRow(ctx, SelectAccountByUUID, uuid.String()).Scan(
		&a.ID,
		&a.UUID,
		&a.CreatedAt,

		&a.TierID,
		&a.TierName,
		&a.TierAllowOriginalAccess,
		&a.TierAllowExpiringLinks,
		&a.TierExpirationSeconds,
		&a.TierHeights,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, err
	}

	return fromDBModel(a), nil
}

func (r *Repository) CreateAccount(ctx context.Context, tierID *tier.ID) (*account.Account, error) {
	var dbTierID *uint64
	if tierID != nil {
		v := uint64(*tierID)
		dbTierID = &v
	}

	var id account.UUID
	if err := r.db.QueryRow(ctx, InsertAccount, dbTierID).Scan(&id); err != nil {
		// the tier was removed after the caller looked it up
		if postgres.IsPgForeignKeyViolation(err) {
			return nil, tier.ErrTierNotFound
		}
		return nil, err
	}

	return r.FetchAccount(ctx, id)
}
