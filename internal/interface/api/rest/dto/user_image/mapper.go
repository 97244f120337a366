package user_image

import (
	"image-tier-api/internal/domain/user_image"
)

func ToResponseUserImage(ui user_image.UploadedImage, exposeOriginal bool) UserImage {
	var out = UserImage{
		ID:             ui.UUID,
		UploadDatetime: ui.CreatedAt,
		Status:         string(ui.Status),
		Width:          ui.Width,
		Height:         ui.Height,
		DynamicImages:  make(DynamicImages, 0, len(ui.Derivatives)),
	}
	if exposeOriginal {
		url := ui.OriginalURL
		out.Image = &url
	}
	for _, d := range ui.Derivatives {
		out.DynamicImages = append(out.DynamicImages, DynamicImage{
			Size:  d.Height,
			Width: d.Width,
			Image: d.URL,
		})
	}

	return out
}

func ToResponseView(v user_image.View) UserImage {
	return ToResponseUserImage(*v.Image, v.ExposeOriginal)
}

func ToResponseUserImages(l user_image.Listing) UserImages {
	uis := make(UserImages, len(l.Images))
	for idx, ui := range l.Images {
		uis[idx] = ToResponseUserImage(*ui, l.ExposeOriginal)
	}

	return uis
}
