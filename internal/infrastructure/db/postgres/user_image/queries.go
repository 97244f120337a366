package user_image

const (
	InsertUploadedImage = `
		INSERT INTO uploaded_images (user_id, original_key, original_url, original_name, content_type, width, height, status)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
		RETURNING
		  id, uuid, user_id, original_key, original_url, original_name, content_type, width, height, status, created_at
	`
	SelectOwnedImages = `
		SELECT id, uuid, user_id, original_key, original_url, original_name, content_type, width, height, status, created_at
		FROM uploaded_images
		WHERE user_id = $1
		ORDER BY created_at, id
	`
	SelectOwnedImage = `
		SELECT id, uuid, user_id, original_key, original_url, original_name, content_type, width, height, status, created_at
		FROM uploaded_images
		WHERE uuid = $1 AND user_id = $2
	`
	SelectDerivatives = `
		SELECT image_id, height, width, blob_key, url
		FROM derivatives
		WHERE image_id = ANY($1)
		ORDER BY image_id, height
	`
	InsertDerivative = `
		INSERT INTO derivatives (image_id, height, width, blob_key, url)
		VALUES ($1, $2, $3, $4, $5)
	`
	UpdateImageStatus = `
		UPDATE uploaded_images
		SET status = $2
		WHERE id = $1
	`
	DeleteImageByID = `DELETE FROM uploaded_images WHERE id = $1`
)
