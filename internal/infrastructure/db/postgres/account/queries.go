package account

const (
	// SelectAccountByUUID reads the account and its tier in one statement so
	// the tier is a consistent snapshot.
	SelectAccountByUUID = `
		SELECT a.id, a.uuid, a.created_at,
		       t.id, t.name, t.allow_original_access, t.allow_expiring_links, t.expiration_seconds,
		       COALESCE(
		         (SELECT array_agg(s.height ORDER BY s.height) FROM tier_thumbnail_sizes s WHERE s.tier_id = t.id),
		         '{}'
		       )
		FROM user_accounts a
		LEFT JOIN tiers t ON t.id = a.tier_id
		WHERE a.uuid = $1
	`
	InsertAccount = `
		INSERT INTO user_accounts (tier_id)
		VALUES ($1)
		RETURNING uuid
	`
)
