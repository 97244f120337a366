package link

import "image-tier-api/internal/domain/link"

func ToResponse(l link.ExpiringLink) Response {
	return Response{
		URL:       l.URL,
		Token:     l.Token,
		ExpiresAt: l.ExpiresAt,
	}
}
