package ports

import (
	"context"
	"io"

	"github.com/google/uuid"

	"image-tier-api/internal/domain/account"
	"image-tier-api/internal/domain/user_image"
)

type UserImageService interface {
	CreateUserImage(ctx context.Context, accountUUID account.UUID, fileName string, r io.Reader) (*user_image.View, error)
	FindUserImages(ctx context.Context, accountUUID account.UUID) (*user_image.Listing, error)
	FindUserImage(ctx context.Context, accountUUID account.UUID, imageUUID uuid.UUID) (*user_image.View, error)
	DeleteUserImage(ctx context.Context, accountUUID account.UUID, imageUUID uuid.UUID) error
}
