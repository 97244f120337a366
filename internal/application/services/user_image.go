package services

import (
	"context"
	"fmt"
	"io"
	"time"

	"github.com/google/uuid"
	"github.com/prometheus/client_golang/prometheus"
	"go.uber.org/zap"

	"image-tier-api/internal/application/ports"
	"image-tier-api/internal/domain/account"
	"image-tier-api/internal/domain/tier"
	domain "image-tier-api/internal/domain/user_image"
	"image-tier-api/internal/infrastructure/mq"
	"image-tier-api/internal/infrastructure/thumbnail"
)

const (
	EventImageUploaded = mq.RoutingImageUploaded
	EventImageDeleted  = mq.RoutingImageDeleted
)

type UserImageService struct {
	logger              *zap.Logger
	blobs               ports.BlobStore
	accountRepository   account.Repository
	userImageRepository domain.Repository
	generator           *thumbnail.Generator
	mq                  ports.RabbitMQ
	mCounter            *prometheus.CounterVec
	mDuration           *prometheus.HistogramVec
	now                 func() time.Time
}

func NewUserImageService(
	logger *zap.Logger,
	blobs ports.BlobStore,
	accountRepository account.Repository,
	userImageRepository domain.Repository,
	generator *thumbnail.Generator,
	mq ports.RabbitMQ,
	mCounter *prometheus.CounterVec,
	mDuration *prometheus.HistogramVec,
) ports.UserImageService {
	return &UserImageService{
		logger:              logger,
		blobs:               blobs,
		accountRepository:   accountRepository,
		userImageRepository: userImageRepository,
		generator:           generator,
		mq:                  mq,
		mCounter:            mCounter,
		mDuration:           mDuration,
		now:                 time.Now,
	}
}

// CreateUserImage validates the upload, commits the original and then
// publishes whichever derivatives the caller's tier asks for. Once the
// original is committed the call succeeds even if every derivative fails.
func (uis *UserImageService) CreateUserImage(
	ctx context.Context,
	accountUUID account.UUID,
	fileName string,
	r io.Reader,
) (*domain.View, error) {
	data, err := io.ReadAll(r)
	if err != nil {
		return nil, fmt.Errorf("read upload: %w", err)
	}
	src, err := uis.generator.Decode(ctx, data)
	if err != nil {
		return nil, err
	}

	acc, err := uis.fetchAccount(ctx, accountUUID)
	if err != nil {
		return nil, err
	}
	policy := tier.Resolve(acc.Tier)

	// from here on work already done must land even if the client leaves
	persistCtx := context.WithoutCancel(ctx)

	key := originalKey(uis.now(), accountUUID, fileName, src.Extension)
	if _, err = uis.blobs.Put(persistCtx, key, src.ContentType, data); err != nil {
		return nil, fmt.Errorf("%w: %w", domain.ErrStorageFailure, err)
	}
	ui, err := uis.userImageRepository.CreateUploadedImage(persistCtx, acc.ID, &domain.UploadedImage{
		OriginalKey:  key,
		OriginalURL:  uis.blobs.GetPublicURL(key),
		OriginalName: fileName,
		ContentType:  src.ContentType,
		Width:        src.Width,
		Height:       src.Height,
	})
	if err != nil {
		uis.removeBlobs(persistCtx, key)
		return nil, fmt.Errorf("%w: %w", domain.ErrStorageFailure, err)
	}
	uis.mCounter.WithLabelValues("image_uploaded_total").Inc()

	ds := uis.storeDerivatives(ctx, persistCtx, ui, src, policy.Heights)

	stored, rejected, err := uis.userImageRepository.PublishDerivatives(persistCtx, ui.ID, len(policy.Heights), ds)
	if err != nil {
		// the original stays committed as processing without derivatives
		uis.logger.Error("publish derivatives failed",
			zap.String("image_id", ui.UUID.String()),
			zap.Error(err),
		)
	} else {
		ui.Status = domain.StatusFor(len(policy.Heights), len(stored))
	}
	for _, d := range rejected {
		uis.logger.Warn("derivative row rejected",
			zap.String("image_id", ui.UUID.String()),
			zap.Int("height", d.Height),
		)
		uis.removeBlobs(persistCtx, d.BlobKey)
	}
	if stored == nil {
		stored = domain.Derivatives{}
	}
	ui.Derivatives = stored

	failed := len(policy.Heights) - len(stored)
	uis.mCounter.WithLabelValues("derivative_generated_total").Add(float64(len(stored)))
	uis.mCounter.WithLabelValues("derivative_failed_total").Add(float64(failed))

	publish(uis.mq, uis.logger, mq.Event{
		Action:    EventImageUploaded,
		AccountID: accountUUID.String(),
		Payload: mq.ImagePayload{
			ImageID:              ui.UUID.String(),
			Status:               string(ui.Status),
			DerivativesRequested: len(policy.Heights),
			DerivativesGenerated: len(stored),
			DerivativesFailed:    failed,
		},
	})

	return &domain.View{Image: ui, ExposeOriginal: policy.ExposeOriginal}, nil
}

// storeDerivatives generates every height and writes the blobs of those that
// succeed. Failures are logged and skipped.
func (uis *UserImageService) storeDerivatives(
	ctx, persistCtx context.Context,
	ui *domain.UploadedImage,
	src *thumbnail.Source,
	heights []int,
) domain.Derivatives {
	ds := make(domain.Derivatives, 0, len(heights))
	for _, res := range uis.generator.Generate(ctx, src, heights) {
		if res.Err != nil {
			uis.mDuration.WithLabelValues("failed").Observe(res.Took.Seconds())
			uis.logger.Warn("derivative generation failed",
				zap.String("image_id", ui.UUID.String()),
				zap.Int("height", res.Height),
				zap.Error(res.Err),
			)
			continue
		}
		uis.mDuration.WithLabelValues("ok").Observe(res.Took.Seconds())

		art := res.Artifact
		key := derivativeKey(ui.UUID, art.Name)
		if _, err := uis.blobs.Put(persistCtx, key, thumbnail.ContentType, art.Data); err != nil {
			uis.logger.Warn("derivative blob write failed",
				zap.String("image_id", ui.UUID.String()),
				zap.Int("height", res.Height),
				zap.Error(fmt.Errorf("%w: %w", domain.ErrStorageFailure, err)),
			)
			continue
		}
		ds = append(ds, domain.Derivative{
			Height:  art.Height,
			Width:   art.Width,
			BlobKey: key,
			URL:     uis.blobs.GetPublicURL(key),
		})
	}

	return ds
}

// FindUserImages lists the caller's images. Original visibility follows the
// caller's tier as it is now, not as it was at upload time.
func (uis *UserImageService) FindUserImages(ctx context.Context, accountUUID account.UUID) (*domain.Listing, error) {
	acc, err := uis.fetchAccount(ctx, accountUUID)
	if err != nil {
		return nil, err
	}

	imgs, err := uis.userImageRepository.FetchOwnedImages(ctx, acc.ID)
	if err != nil {
		return nil, err
	}

	return &domain.Listing{
		Images:         imgs,
		ExposeOriginal: tier.Resolve(acc.Tier).ExposeOriginal,
	}, nil
}

func (uis *UserImageService) FindUserImage(
	ctx context.Context,
	accountUUID account.UUID,
	imageUUID uuid.UUID,
) (*domain.View, error) {
	acc, err := uis.fetchAccount(ctx, accountUUID)
	if err != nil {
		return nil, err
	}

	ui, err := uis.userImageRepository.FetchOwnedImage(ctx, acc.ID, imageUUID)
	if err != nil {
		return nil, err
	}
	if ui == nil {
		return nil, domain.ErrImageNotFound
	}

	return &domain.View{Image: ui, ExposeOriginal: tier.Resolve(acc.Tier).ExposeOriginal}, nil
}

func (uis *UserImageService) DeleteUserImage(
	ctx context.Context,
	accountUUID account.UUID,
	imageUUID uuid.UUID,
) error {
	acc, err := uis.fetchAccount(ctx, accountUUID)
	if err != nil {
		return err
	}

	ui, err := uis.userImageRepository.DeleteOwnedImage(ctx, acc.ID, imageUUID)
	if err != nil {
		return err
	}
	if ui == nil {
		return domain.ErrImageNotFound
	}

	keys := []string{ui.OriginalKey}
	for _, d := range ui.Derivatives {
		keys = append(keys, d.BlobKey)
	}
	uis.removeBlobs(context.WithoutCancel(ctx), keys...)

	uis.mCounter.WithLabelValues("image_deleted_total").Inc()
	publish(uis.mq, uis.logger, mq.Event{
		Action:    EventImageDeleted,
		AccountID: accountUUID.String(),
		Payload: mq.ImagePayload{
			ImageID:              ui.UUID.String(),
			Status:               string(ui.Status),
			DerivativesGenerated: len(ui.Derivatives),
		},
	})

	return nil
}

func (uis *UserImageService) fetchAccount(ctx context.Context, accountUUID account.UUID) (*account.Account, error) {
	acc, err := uis.accountRepository.FetchAccount(ctx, accountUUID)
	if err != nil {
		return nil, err
	}
	if acc == nil {
		return nil, account.ErrProfileNotFound
	}

	return acc, nil
}

// removeBlobs is best effort: a leftover blob is an orphan, never a dangling
// reference.
func (uis *UserImageService) removeBlobs(ctx context.Context, keys ...string) {
	for _, key := range keys {
		if err := uis.blobs.Remove(ctx, key); err != nil {
			uis.logger.Warn("blob cleanup failed", zap.String("key", key), zap.Error(err))
		}
	}
}
