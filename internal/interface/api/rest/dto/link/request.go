package link

import "time"

type (
	// Request leaves ExpiresIn nil to take the tier's default.
	Request struct {
		ExpiresIn *int `json:"expires_in"`
	}
	Response struct {
		URL       string    `json:"url"`
		Token     string    `json:"token"`
		ExpiresAt time.Time `json:"expires_at"`
	}
)
