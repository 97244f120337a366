package user_image

import (
	"context"

	"github.com/google/uuid"

	"image-tier-api/internal/domain/account"
)

type Repository interface {
	CreateUploadedImage(ctx context.Context, ownerID account.ID, req *UploadedImage) (*UploadedImage, error)
	// PublishDerivatives stores the derivative rows and the final status in one
	// transaction. Rows that fail are skipped and returned as rejected.
	PublishDerivatives(ctx context.Context, imageID ID, want int, ds Derivatives) (stored, rejected Derivatives, err error)
	FetchOwnedImages(ctx context.Context, ownerID account.ID) (UploadedImages, error)
	// FetchOwnedImage returns nil, nil when the image does not exist or
	// belongs to someone else.
	FetchOwnedImage(ctx context.Context, ownerID account.ID, imageUUID uuid.UUID) (*UploadedImage, error)
	DeleteOwnedImage(ctx context.Context, ownerID account.ID, imageUUID uuid.UUID) (*UploadedImage, error)
}
