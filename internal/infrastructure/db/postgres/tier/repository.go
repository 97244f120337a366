package tier

import (
	"context"
	"errors"

	"github.com/jackc/pgx/v5"

	"image-tier-api/internal/domain/tier"
	"image-tier-api/internal/infrastructure/db/postgres"
)

type Repository struct {
	db postgres.DB
}

func NewRepository(db postgres.DB) tier.Repository {
	return &Repository{db: db}
}

func (r *Repository) FetchTierByName(ctx context.Context, name string) (*tier.Tier, error) {
	t := new(Tier)
	err := r.db.QueryRow(ctx, SelectTierByName, name).Scan(
		&t.ID,
		&t.Name,
		&t.AllowOriginalAccess,
		&t.AllowExpiringLinks,
		&t.ExpirationSeconds,
		&t.Heights,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, err
	}

	return fromDBModel(t), nil
}

// SaveTier creates or replaces a tier and its thumbnail sizes atomically.
func (r *Repository) SaveTier(ctx context.Context, req tier.Tier) (*tier.Tier, error) {
	err := postgres.InTx(ctx, r.db, func(tx pgx.Tx) error {
		var id uint64
		if err := tx.QueryRow(
			ctx,
			UpsertTier,
			req.Name, req.AllowOriginalAccess, req.AllowExpiringLinks, expirationToDB(req.ExpirationSeconds),
		).Scan(&id); err != nil {
			return err
		}
		if _, err := tx.Exec(ctx, DeleteTierSizes, id); err != nil {
			return err
		}
		for _, s := range req.ThumbnailSpecs {
			if _, err := tx.Exec(ctx, InsertTierSize, id, s.Height); err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	return r.FetchTierByName(ctx, req.Name)
}
