package tier

import (
	domain "image-tier-api/internal/domain/tier"
)

func fromDBModel(model *Tier) *domain.Tier {
	var t = &domain.Tier{
		ID:                  domain.ID(model.ID),
		Name:                model.Name,
		ThumbnailSpecs:      make([]domain.ThumbnailSpec, len(model.Heights)),
		AllowOriginalAccess: model.AllowOriginalAccess,
		AllowExpiringLinks:  model.AllowExpiringLinks,
	}
	for idx, h := range model.Heights {
		t.ThumbnailSpecs[idx] = domain.ThumbnailSpec{Height: int(h)}
	}
	if model.ExpirationSeconds != nil {
		v := int(*model.ExpirationSeconds)
		t.ExpirationSeconds = &v
	}

	return t
}

func expirationToDB(v *int) *int32 {
	if v == nil {
		return nil
	}
	e := int32(*v)
	return &e
}
