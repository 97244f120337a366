package rest

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"image-tier-api/internal/application/ports"
	"image-tier-api/internal/domain/account"
	domain "image-tier-api/internal/domain/link"
	"image-tier-api/internal/domain/user_image"
	"image-tier-api/internal/infrastructure/jwt"
	"image-tier-api/internal/interface/api/rest/dto/link"
	"image-tier-api/internal/interface/api/rest/middleware"
	"image-tier-api/internal/interface/api/rest/validator"
)

type LinkController struct {
	linkService ports.LinkService
	media       *MediaController
	logger      *zap.Logger
}

func NewLinkController(
	r *gin.Engine,
	linkService ports.LinkService,
	media *MediaController,
	logger *zap.Logger,
	jwtService *jwt.Service,
) *LinkController {
	lc := &LinkController{
		linkService: linkService,
		media:       media,
		logger:      logger,
	}

	r.POST(RouteExpiringLinks, middleware.AuthMiddleware(jwtService), lc.CreateExpiringLinkHandler)
	r.GET(RouteLink, lc.GetLinkHandler)

	return lc
}

func (lc *LinkController) CreateExpiringLinkHandler(c *gin.Context) {
	accountID, ok := middleware.AccountID(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "unauthenticated"})
		return
	}
	ok, imageID := validator.IsUUID(c.Param("image_id"))
	if !ok {
		c.JSON(http.StatusNotFound, gin.H{"error": user_image.ErrImageNotFound.Error()})
		return
	}

	var req link.Request
	if c.Request.ContentLength != 0 {
		if err := c.ShouldBindJSON(&req); err != nil {
			c.JSON(
				http.StatusBadRequest,
				gin.H{"error": "invalid json"},
			)
			return
		}
	}
	if errs := validator.ValidateExpiringLink(req); errs != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"error":   "invalid request body",
			"details": errs,
		})
		return
	}

	l, err := lc.linkService.CreateExpiringLink(c.Request.Context(), accountID, imageID, req.ExpiresIn)
	if err != nil {
		switch {
		case errors.Is(err, domain.ErrInvalidExpiration):
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		case errors.Is(err, domain.ErrExpiringLinksNotAllowed),
			errors.Is(err, account.ErrProfileNotFound):
			c.JSON(http.StatusForbidden, gin.H{"error": err.Error()})
		case errors.Is(err, user_image.ErrImageNotFound):
			c.JSON(http.StatusNotFound, gin.H{"error": err.Error()})
		default:
			c.JSON(
				http.StatusInternalServerError,
				gin.H{"error": "failed to create link"},
			)
			lc.logger.Error("CreateExpiringLink() error", zap.Error(err))
		}
		return
	}

	c.JSON(http.StatusCreated, link.ToResponse(*l))
}

// GetLinkHandler serves the original behind a live token. The token is the
// only credential.
func (lc *LinkController) GetLinkHandler(c *gin.Context) {
	key, err := lc.linkService.ResolveLink(c.Request.Context(), c.Param("token"))
	if err != nil {
		if errors.Is(err, domain.ErrLinkNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": err.Error()})
			return
		}
		c.JSON(
			http.StatusInternalServerError,
			gin.H{"error": "failed to resolve link"},
		)
		lc.logger.Error("ResolveLink() error", zap.Error(err))
		return
	}

	lc.media.serveBlob(c, key)
}
