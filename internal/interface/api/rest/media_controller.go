package rest

import (
	"errors"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"image-tier-api/internal/application/ports"
	"image-tier-api/internal/infrastructure/s3"
)

type MediaController struct {
	blobs  ports.BlobStore
	logger *zap.Logger
}

func NewMediaController(
	r *gin.Engine,
	blobs ports.BlobStore,
	logger *zap.Logger,
) *MediaController {
	mc := &MediaController{
		blobs:  blobs,
		logger: logger,
	}

	r.GET(RouteMedia, mc.GetMediaHandler)

	return mc
}

func (mc *MediaController) GetMediaHandler(c *gin.Context) {
	key := strings.TrimPrefix(c.Param("key"), "/")
	if key == "" || strings.Contains(key, "..") {
		c.JSON(http.StatusNotFound, gin.H{"error": "media not found"})
		return
	}

	mc.serveBlob(c, key)
}

func (mc *MediaController) serveBlob(c *gin.Context, key string) {
	rc, contentType, err := mc.blobs.Get(c.Request.Context(), key)
	if err != nil {
		if errors.Is(err, s3.ErrObjectNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "media not found"})
			return
		}
		c.JSON(
			http.StatusInternalServerError,
			gin.H{"error": "failed to read media"},
		)
		mc.logger.Error("blob Get() error", zap.String("key", key), zap.Error(err))
		return
	}
	defer rc.Close()

	if contentType == "" {
		contentType = "application/octet-stream"
	}
	c.DataFromReader(http.StatusOK, -1, contentType, rc, nil)
}
