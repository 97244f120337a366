package user_image

import (
	"time"

	"github.com/google/uuid"
)

type (
	UploadedImage struct {
		ID     uint64
		UUID   uuid.UUID
		UserID uint64

		OriginalKey  string
		OriginalURL  string
		OriginalName string
		ContentType  string
		Width        int32
		Height       int32
		Status       string

		CreatedAt time.Time
	}
	UploadedImages []*UploadedImage

	Derivative struct {
		ImageID uint64
		Height  int32
		Width   int32
		BlobKey string
		URL     string
	}
	Derivatives []*Derivative
)
