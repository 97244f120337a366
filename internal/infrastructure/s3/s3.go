package s3

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"net/url"
	"strings"

	"github.com/minio/minio-go/v7"
	"github.com/minio/minio-go/v7/pkg/credentials"
	"go.uber.org/zap"

	"image-tier-api/config"
)

var ErrObjectNotFound = errors.New("object not found")

// Client stores blobs in one bucket of an S3-compatible object store and
// hands out URLs served by this API's media route.
type Client struct {
	logger     *zap.Logger
	minio      *minio.Client
	region     string
	bucket     string
	publicBase string
}

func New(
	ctx context.Context,
	logger *zap.Logger,
	cfg config.S3,
	publicBase string,
) (*Client, error) {
	endpoint := cfg.Endpoint
	useSSL := cfg.UseSSL
	if strings.HasPrefix(endpoint, "http") {
		u, err := url.Parse(endpoint)
		if err != nil {
			return nil, fmt.Errorf("parse endpoint: %w", err)
		}
		endpoint = u.Host
		useSSL = u.Scheme == "https"
	}

	mc, err := minio.New(endpoint, &minio.Options{
		Creds:  credentials.NewStaticV4(cfg.AccessKeyID, cfg.SecretAccessKey, ""),
		Secure: useSSL,
		Region: cfg.Region,
	})
	if err != nil {
		return nil, fmt.Errorf("init minio: %w", err)
	}

	c := &Client{
		logger:     logger,
		minio:      mc,
		region:     cfg.Region,
		bucket:     cfg.BucketUploads,
		publicBase: strings.TrimSuffix(publicBase, "/"),
	}
	if err = c.EnsureBucket(ctx); err != nil {
		return nil, err
	}

	logger.Info("object store connected successfully", zap.String("bucket", c.bucket))

	return c, nil
}

func (c *Client) EnsureBucket(ctx context.Context) error {
	exists, err := c.minio.BucketExists(ctx, c.bucket)
	if err != nil {
		return fmt.Errorf("bucket exists %s: %w", c.bucket, err)
	}
	if exists {
		return nil
	}
	if err = c.minio.MakeBucket(ctx, c.bucket, minio.MakeBucketOptions{Region: c.region}); err != nil {
		return fmt.Errorf("create bucket %s: %w", c.bucket, err)
	}

	return nil
}

// Put writes data under key and returns the key as the blob reference.
func (c *Client) Put(ctx context.Context, key, contentType string, data []byte) (string, error) {
	_, err := c.minio.PutObject(ctx, c.bucket, key, bytes.NewReader(data), int64(len(data)),
		minio.PutObjectOptions{ContentType: contentType})
	if err != nil {
		return "", fmt.Errorf("put object %s: %w", key, err)
	}

	return key, nil
}

// Get returns the blob stored under key and its content type. The caller
// closes the reader.
func (c *Client) Get(ctx context.Context, key string) (io.ReadCloser, string, error) {
	obj, err := c.minio.GetObject(ctx, c.bucket, key, minio.GetObjectOptions{})
	if err != nil {
		return nil, "", fmt.Errorf("get object %s: %w", key, err)
	}
	info, err := obj.Stat()
	if err != nil {
		_ = obj.Close()
		if minio.ToErrorResponse(err).Code == "NoSuchKey" {
			return nil, "", ErrObjectNotFound
		}
		return nil, "", fmt.Errorf("stat object %s: %w", key, err)
	}

	return obj, info.ContentType, nil
}

func (c *Client) Remove(ctx context.Context, key string) error {
	if err := c.minio.RemoveObject(ctx, c.bucket, key, minio.RemoveObjectOptions{}); err != nil {
		return fmt.Errorf("remove object %s: %w", key, err)
	}
	return nil
}

func (c *Client) GetPublicURL(key string) string {
	return PublicURL(c.publicBase, key)
}

func (c *Client) GetBucket() string { return c.bucket }

// PublicURL is where the media route serves key.
func PublicURL(base, key string) string {
	return fmt.Sprintf("%s/media/%s", strings.TrimSuffix(base, "/"), strings.TrimPrefix(key, "/"))
}
