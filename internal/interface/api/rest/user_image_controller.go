package rest

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"image-tier-api/internal/application/ports"
	"image-tier-api/internal/domain/account"
	"image-tier-api/internal/domain/user_image"
	"image-tier-api/internal/infrastructure/jwt"
	dto "image-tier-api/internal/interface/api/rest/dto/user_image"
	"image-tier-api/internal/interface/api/rest/middleware"
	"image-tier-api/internal/interface/api/rest/validator"
)

// multipart framing allowance on top of the image itself
const multipartOverhead = int64(1 << 20)

type UserImageController struct {
	userImageService ports.UserImageService
	logger           *zap.Logger
	maxSize          int64
}

func NewUserImageController(
	r *gin.Engine,
	userImageService ports.UserImageService,
	logger *zap.Logger,
	jwtService *jwt.Service,
	maxSize int64,
) *UserImageController {
	uic := &UserImageController{
		userImageService: userImageService,
		logger:           logger,
		maxSize:          maxSize,
	}

	auth := middleware.AuthMiddleware(jwtService)
	r.POST(RouteUserImages, auth, uic.CreateUserImageHandler)
	r.GET(RouteUserImages, auth, uic.GetUserImagesHandler)
	r.GET(RouteUserImage, auth, uic.GetUserImageHandler)
	r.DELETE(RouteUserImage, auth, uic.DeleteUserImageHandler)

	return uic
}

func (uic *UserImageController) CreateUserImageHandler(c *gin.Context) {
	accountID, ok := middleware.AccountID(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "unauthenticated"})
		return
	}

	c.Request.Body = http.MaxBytesReader(c.Writer, c.Request.Body, uic.maxSize+multipartOverhead)
	fh, err := c.FormFile("image")
	if err != nil {
		var tooLarge *http.MaxBytesError
		if errors.As(err, &tooLarge) {
			c.JSON(http.StatusRequestEntityTooLarge, gin.H{"error": "image too large"})
			return
		}
		c.JSON(http.StatusBadRequest, gin.H{"error": "image is required"})
		return
	}
	if fh.Size <= 0 || fh.Size > uic.maxSize {
		c.JSON(http.StatusRequestEntityTooLarge, gin.H{"error": "image too large or empty"})
		return
	}

	f, err := fh.Open()
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "image is unreadable"})
		return
	}
	defer f.Close()

	view, err := uic.userImageService.CreateUserImage(c.Request.Context(), accountID, fh.Filename, f)
	if err != nil {
		switch {
		case errors.Is(err, user_image.ErrUnsupportedFormat),
			errors.Is(err, user_image.ErrTooSmall),
			errors.Is(err, user_image.ErrInvalidDimension):
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		case errors.Is(err, user_image.ErrTooManyPixels):
			c.JSON(http.StatusRequestEntityTooLarge, gin.H{"error": err.Error()})
		case errors.Is(err, account.ErrProfileNotFound):
			c.JSON(http.StatusForbidden, gin.H{"error": err.Error()})
		default:
			c.JSON(
				http.StatusInternalServerError,
				gin.H{"error": "failed to upload image"},
			)
			uic.logger.Error("CreateUserImage() error", zap.Error(err))
		}
		return
	}

	c.JSON(http.StatusCreated, dto.ToResponseView(*view))
}

func (uic *UserImageController) GetUserImagesHandler(c *gin.Context) {
	accountID, ok := middleware.AccountID(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "unauthenticated"})
		return
	}

	listing, err := uic.userImageService.FindUserImages(c.Request.Context(), accountID)
	if err != nil {
		if errors.Is(err, account.ErrProfileNotFound) {
			c.JSON(http.StatusForbidden, gin.H{"error": err.Error()})
			return
		}
		c.JSON(
			http.StatusInternalServerError,
			gin.H{"error": "failed to get images"},
		)
		uic.logger.Error("FindUserImages() error", zap.Error(err))
		return
	}

	if len(listing.Images) == 0 {
		c.JSON(http.StatusOK, dto.EmptyResponse{Message: dto.NoImagesMessage})
		return
	}

	c.JSON(http.StatusOK, dto.ResponseData{
		Data: dto.ToResponseUserImages(*listing),
	})
}

func (uic *UserImageController) GetUserImageHandler(c *gin.Context) {
	accountID, ok := middleware.AccountID(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "unauthenticated"})
		return
	}
	// a malformed id cannot name anything the caller owns
	ok, imageID := validator.IsUUID(c.Param("image_id"))
	if !ok {
		c.JSON(http.StatusNotFound, gin.H{"error": user_image.ErrImageNotFound.Error()})
		return
	}

	view, err := uic.userImageService.FindUserImage(c.Request.Context(), accountID, imageID)
	if err != nil {
		switch {
		case errors.Is(err, user_image.ErrImageNotFound):
			c.JSON(http.StatusNotFound, gin.H{"error": err.Error()})
		case errors.Is(err, account.ErrProfileNotFound):
			c.JSON(http.StatusForbidden, gin.H{"error": err.Error()})
		default:
			c.JSON(
				http.StatusInternalServerError,
				gin.H{"error": "failed to get image"},
			)
			uic.logger.Error("FindUserImage() error", zap.Error(err))
		}
		return
	}

	c.JSON(http.StatusOK, dto.ToResponseView(*view))
}

func (uic *UserImageController) DeleteUserImageHandler(c *gin.Context) {
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

	err := uic.userImageService.DeleteUserImage(c.Request.Context(), accountID, imageID)
	if err != nil {
		switch {
		case errors.Is(err, user_image.ErrImageNotFound):
			c.JSON(http.StatusNotFound, gin.H{"error": err.Error()})
		case errors.Is(err, account.ErrProfileNotFound):
			c.JSON(http.StatusForbidden, gin.H{"error": err.Error()})
		default:
			c.JSON(
				http.StatusInternalServerError,
				gin.H{"error": "failed to delete image"},
			)
			uic.logger.Error("DeleteUserImage() error", zap.Error(err))
		}
		return
	}

	c.Status(http.StatusNoContent)
}
