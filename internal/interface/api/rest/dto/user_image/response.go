package user_image

import (
	"time"

	"github.com/google/uuid"
)

const NoImagesMessage = "No uploaded images found for this user"

type (
	DynamicImage struct {
		Size  int    `json:"size"`
		Width int    `json:"width"`
		Image string `json:"image"`
	}
	DynamicImages []DynamicImage

	// UserImage omits Image when the caller's tier hides originals.
	UserImage struct {
		ID             uuid.UUID     `json:"id"`
		Image          *string       `json:"image,omitempty"`
		UploadDatetime time.Time     `json:"upload_datetime"`
		Status         string        `json:"status"`
		Width          int           `json:"width"`
		Height         int           `json:"height"`
		DynamicImages  DynamicImages `json:"dynamic_images"`
	}
	UserImages   []UserImage
	ResponseData struct {
		Data UserImages `json:"data"`
	}
	EmptyResponse struct {
		Message string `json:"message"`
	}
)
