package linkstore

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	"image-tier-api/config"
	"image-tier-api/internal/domain/link"
)

const keyPrefix = "link:"

type Store struct {
	rdb *redis.Client
}

func NewRedisClient(ctx context.Context, cfg config.Redis) (*redis.Client, error) {
	client := redis.NewClient(&redis.Options{
		Addr:     cfg.Addr,
		Password: cfg.Password,
		DB:       cfg.DB,
	})

	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	if err := client.Ping(ctx).Err(); err != nil {
		return nil, fmt.Errorf("redis ping: %w", err)
	}

	return client, nil
}

func New(rdb *redis.Client) link.Store { return &Store{rdb: rdb} }

// Save maps token to blobKey for ttl. Tokens are never overwritten.
func (s *Store) Save(ctx context.Context, token, blobKey string, ttl time.Duration) error {
	ok, err := s.rdb.SetNX(ctx, keyPrefix+token, blobKey, ttl).Result()
	if err != nil {
		return fmt.Errorf("save link: %w", err)
	}
	if !ok {
		return link.ErrTokenTaken
	}
	return nil
}

func (s *Store) Resolve(ctx context.Context, token string) (string, error) {
	key, err := s.rdb.Get(ctx, keyPrefix+token).Result()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return "", link.ErrLinkNotFound
		}
		return "", fmt.Errorf("resolve link: %w", err)
	}
	return key, nil
}
