package user_image

import (
	"time"

	"github.com/google/uuid"

	"image-tier-api/internal/domain/account"
)

type Status string

const (
	// StatusProcessing: original committed, derivative set not yet published.
	StatusProcessing Status = "processing"
	StatusComplete   Status = "complete"
	StatusPartial    Status = "partial"
)

type (
	ID uint64

	UploadedImage struct {
		ID      ID
		UUID    uuid.UUID
		OwnerID account.ID

		OriginalKey  string
		OriginalURL  string
		OriginalName string
		ContentType  string
		Width        int
		Height       int
		Status       Status

		CreatedAt   time.Time
		Derivatives Derivatives
	}
	UploadedImages []*UploadedImage

	Derivative struct {
		Height  int
		Width   int
		BlobKey string
		URL     string
	}
	Derivatives []Derivative

	// View is an image together with the original-visibility decision taken
	// for the caller's current tier.
	View struct {
		Image          *UploadedImage
		ExposeOriginal bool
	}

	// Listing is every image a caller owns under one visibility decision.
	Listing struct {
		Images         UploadedImages
		ExposeOriginal bool
	}
)

// StatusFor reports the status of an image that asked for want derivatives
// and ended up with got of them.
func StatusFor(want, got int) Status {
	if got < want {
		return StatusPartial
	}
	return StatusComplete
}
