package user_image

import (
	"image-tier-api/internal/domain/account"
	domain "image-tier-api/internal/domain/user_image"
)

func fromDBModel(model *UploadedImage, ds Derivatives) *domain.UploadedImage {
	var ui = &domain.UploadedImage{
		ID:      domain.ID(model.ID),
		UUID:    model.UUID,
		OwnerID: account.ID(model.UserID),

		OriginalKey:  model.OriginalKey,
		OriginalURL:  model.OriginalURL,
		OriginalName: model.OriginalName,
		ContentType:  model.ContentType,
		Width:        int(model.Width),
		Height:       int(model.Height),
		Status:       domain.Status(model.Status),

		CreatedAt:   model.CreatedAt,
		Derivatives: make(domain.Derivatives, 0, len(ds)),
	}
	for _, d := range ds {
		ui.Derivatives = append(ui.Derivatives, domain.Derivative{
			Height:  int(d.Height),
			Width:   int(d.Width),
			BlobKey: d.BlobKey,
			URL:     d.URL,
		})
	}

	return ui
}

func fromDBModels(models UploadedImages, ds map[uint64]Derivatives) domain.UploadedImages {
	uis := make(domain.UploadedImages, len(models))
	for idx, m := range models {
		uis[idx] = fromDBModel(m, ds[m.ID])
	}

	return uis
}
