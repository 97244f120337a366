package account

import (
	domain "image-tier-api/internal/domain/account"
	"image-tier-api/internal/domain/tier"
)

func fromDBModel(model *Account) *domain.Account {
	var a = &domain.Account{
		ID:        domain.ID(model.ID),
		UUID:      model.UUID,
		CreatedAt: model.CreatedAt,
	}
	if model.TierID == nil {
		return a
	}

	t := &tier.Tier{
		ID:             tier.ID(*model.TierID),
		ThumbnailSpecs: make([]tier.ThumbnailSpec, len(model.TierHeights)),
	}
	if model.TierName != nil {
		t.Name = *model.TierName
	}
	if model.TierAllowOriginalAccess != nil {
		t.AllowOriginalAccess = *model.TierAllowOriginalAccess
	}
	if model.TierAllowExpiringLinks != nil {
		t.AllowExpiringLinks = *model.TierAllowExpiringLinks
	}
	if model.TierExpirationSeconds != nil {
		v := int(*model.TierExpirationSeconds)
		t.ExpirationSeconds = &v
	}
	for idx, h := range model.TierHeights {
		t.ThumbnailSpecs[idx] = tier.ThumbnailSpec{Height: int(h)}
	}
	a.Tier = t

	return a
}
