package ports

import (
	"context"
	"io"
)

type BlobStore interface {
	Put(ctx context.Context, key, contentType string, data []byte) (string, error)
	Get(ctx context.Context, key string) (io.ReadCloser, string, error)
	Remove(ctx context.Context, key string) error
	GetPublicURL(key string) string
	GetBucket() string
}
