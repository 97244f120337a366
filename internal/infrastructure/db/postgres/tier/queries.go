package tier

const (
	SelectTierByName = `
		SELECT t.id, t.name, t.allow_original_access, t.allow_expiring_links, t.expiration_seconds,
		       COALESCE(array_agg(s.height ORDER BY s.height) FILTER (WHERE s.height IS NOT NULL), '{}')
		FROM tiers t
		LEFT JOIN tier_thumbnail_sizes s ON s.tier_id = t.id
		WHERE t.name = $1
		GROUP BY t.id
	`
	UpsertTier = `
		INSERT INTO tiers (name, allow_original_access, allow_expiring_links, expiration_seconds)
		VALUES ($1, $2, $3, $4)
		ON CONFLICT (name) DO UPDATE
		SET allow_original_access = EXCLUDED.allow_original_access,
		    allow_expiring_links = EXCLUDED.allow_expiring_links,
		    expiration_seconds = EXCLUDED.expiration_seconds
		RETURNING id
	`
	DeleteTierSizes = `DELETE FROM tier_thumbnail_sizes WHERE tier_id = $1`
	InsertTierSize  = `
		INSERT INTO tier_thumbnail_sizes (tier_id, height)
		VALUES ($1, $2)
		ON CONFLICT DO NOTHING
	`
)
