package tier

import "slices"

// Policy is what a tier grants at the moment it is resolved.
type Policy struct {
	Heights            []int
	ExposeOriginal     bool
	AllowExpiringLinks bool
	ExpirationSeconds  int
}

// Resolve turns a tier (nil when the account has none) into a Policy.
// Heights are deduplicated and sorted ascending. The original is exposed only
// when the capability flag is set and the tier is not named Basic.
func Resolve(t *Tier) Policy {
	if t == nil {
		return Policy{Heights: []int{}}
	}

	heights := make([]int, 0, len(t.ThumbnailSpecs))
	for _, s := range t.ThumbnailSpecs {
		heights = append(heights, s.Height)
	}
	slices.Sort(heights)
	heights = slices.Compact(heights)

	p := Policy{
		Heights:            heights,
		ExposeOriginal:     t.AllowOriginalAccess && t.Name != BasicTierName,
		AllowExpiringLinks: t.AllowExpiringLinks,
		ExpirationSeconds:  DefaultExpirationSeconds,
	}
	if t.ExpirationSeconds != nil {
		p.ExpirationSeconds = *t.ExpirationSeconds
	}

	return p
}
