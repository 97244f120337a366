package user_image

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"

	"image-tier-api/internal/domain/account"
	"image-tier-api/internal/domain/user_image"
	"image-tier-api/internal/infrastructure/db/postgres"
)

type Repository struct {
	db postgres.DB
}

func NewRepository(db postgres.DB) user_image.Repository {
	return &Repository{db: db}
}

func scanImage(row pgx.Row) (*UploadedImage, error) {
	ui := new(UploadedImage)
	err := row.Scan(
		&ui.ID,
		&ui.UUID,
		&ui.UserID,

		&ui.OriginalKey,
		&ui.OriginalURL,
		&ui.OriginalName,
		&ui.ContentType,
		&ui.Width,
		&ui.Height,
		&ui.Status,

		&ui.CreatedAt,
	)
	if err != nil {
		return nil, err
	}
	return ui, nil
}

func (r *Repository) CreateUploadedImage(
	ctx context.Context,
	ownerID account.ID,
	req *user_image.UploadedImage,
) (*user_image.UploadedImage, error) {
	ui, err := scanImage(r.db.QueryRow(
		ctx,
		InsertUploadedImage,
		uint64(ownerID), req.OriginalKey, req.OriginalURL, req.OriginalName, req.ContentType,
		req.Width, req.Height, string(user_image.StatusProcessing),
	))
	if err != nil {
		return nil, err
	}

	return fromDBModel(ui, nil), nil
}

func (r *Repository) PublishDerivatives(
	ctx context.Context,
	imageID user_image.ID,
	want int,
	ds user_image.Derivatives,
) (stored, rejected user_image.Derivatives, err error) {
	err = postgres.InTx(ctx, r.db, func(tx pgx.Tx) error {
		stored, rejected = nil, nil
		for _, d := range ds {
			if insErr := insertDerivative(ctx, tx, imageID, d); insErr != nil {
				rejected = append(rejected, d)
				continue
			}
			stored = append(stored, d)
		}

		status := user_image.StatusFor(want, len(stored))
		_, execErr := tx.Exec(ctx, UpdateImageStatus, uint64(imageID), string(status))
		return execErr
	})
	if err != nil {
		return nil, ds, err
	}

	return stored, rejected, nil
}

// insertDerivative isolates one row in a savepoint so a failing row does
// not abort the surrounding transaction.
func insertDerivative(ctx context.Context, tx pgx.Tx, imageID user_image.ID, d user_image.Derivative) error {
	sp, err := tx.Begin(ctx)
	if err != nil {
		return err
	}
	if _, err = sp.Exec(ctx, InsertDerivative, uint64(imageID), d.Height, d.Width, d.BlobKey, d.URL); err != nil {
		_ = sp.Rollback(ctx)
		return err
	}

	return sp.Commit(ctx)
}

func (r *Repository) FetchOwnedImages(ctx context.Context, ownerID account.ID) (user_image.UploadedImages, error) {
	rows, err := r.db.Query(ctx, SelectOwnedImages, uint64(ownerID))
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var uis UploadedImages
	for rows.Next() {
		ui, err := scanImage(rows)
		if err != nil {
			return nil, err
		}
		uis = append(uis, ui)
	}
	if err = rows.Err(); err != nil {
		return nil, err
	}

	ids := make([]int64, len(uis))
	for idx, ui := range uis {
		ids[idx] = int64(ui.ID)
	}
	ds, err := r.fetchDerivatives(ctx, ids)
	if err != nil {
		return nil, err
	}

	return fromDBModels(uis, ds), nil
}

func (r *Repository) FetchOwnedImage(
	ctx context.Context,
	ownerID account.ID,
	imageUUID uuid.UUID,
) (*user_image.UploadedImage, error) {
	ui, err := scanImage(r.db.QueryRow(ctx, SelectOwnedImage, imageUUID.String(), uint64(ownerID)))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, err
	}

	ds, err := r.fetchDerivatives(ctx, []int64{int64(ui.ID)})
	if err != nil {
		return nil, err
	}

	return fromDBModel(ui, ds[ui.ID]), nil
}

// DeleteOwnedImage removes the image and, by cascade, its derivatives. The
// returned image carries the blob keys the caller should clean up.
func (r *Repository) DeleteOwnedImage(
	ctx context.Context,
	ownerID account.ID,
	imageUUID uuid.UUID,
) (*user_image.UploadedImage, error) {
	ui, err := r.FetchOwnedImage(ctx, ownerID, imageUUID)
	if err != nil || ui == nil {
		return ui, err
	}

	tag, err := r.db.Exec(ctx, DeleteImageByID, uint64(ui.ID))
	if err != nil {
		return nil, err
	}
	if tag.RowsAffected() == 0 {
		return nil, nil
	}

	return ui, nil
}

func (r *Repository) fetchDerivatives(ctx context.Context, imageIDs []int64) (map[uint64]Derivatives, error) {
	out := make(map[uint64]Derivatives, len(imageIDs))
	if len(imageIDs) == 0 {
		return out, nil
	}

	rows, err := r.db.Query(ctx, SelectDerivatives, imageIDs)
	if err != nil {
		return nil, fmt.Errorf("select derivatives: %w", err)
	}
	defer rows.Close()

	for rows.Next() {
		d := new(Derivative)
		if err = rows.Scan(
			&d.ImageID,
			&d.Height,
			&d.Width,
			&d.BlobKey,
			&d.URL,
		); err != nil {
			return nil, err
		}
		out[d.ImageID] = append(out[d.ImageID], d)
	}
	if err = rows.Err(); err != nil {
		return nil, err
	}

	return out, nil
}
