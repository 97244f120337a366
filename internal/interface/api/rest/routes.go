package rest

const (
	// api
	RouteApiV1 = "/api/v1"

	RouteUserImages    = "/user-images/"
	RouteUserImage     = RouteUserImages + ":image_id/"
	RouteExpiringLinks = RouteUserImage + "expiring-links/"

	// public blobs
	RouteLink  = "/links/:token"
	RouteMedia = "/media/*key"

	// ops
	RouteHealth  = RouteApiV1 + "/healthz"
	RouteMetrics = RouteApiV1 + "/metrics"
)
