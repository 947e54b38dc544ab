package repositories

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	"painting-demo/internal/domain/domainerrors"
	"painting-demo/internal/domain/entities"
	domainrepos "painting-demo/internal/domain/repositories"
	"painting-demo/internal/domain/valueobjects"
)

type RedisFrameStore struct {
	client *redis.Client
	prefix string
	ttl    time.Duration
}

func NewRedisFrameStore(client *redis.Client, cfg RedisConfig) domainrepos.FrameStore {
	prefix := cfg.Prefix
	if prefix == "" {
		prefix = "painting:"
	}
	ttl := cfg.TTL
	if ttl <= 0 {
		ttl = 2 * time.Hour
	}
	return &RedisFrameStore{
		client: client,
		prefix: prefix + "frame:",
		ttl:    ttl,
	}
}

func (s *RedisFrameStore) Put(ctx context.Context, viewID entities.ViewID, frame *valueobjects.ImageData) error {
	if frame == nil {
		return &domainerrors.InvalidInputError{Reason: "frame is required"}
	}

	data, err := json.Marshal(toImageSnapshot(frame))
	if err != nil {
		return err
	}

	if err := s.client.Set(ctx, s.prefix+string(viewID), data, s.ttl).Err(); err != nil {
		return fmt.Errorf("failed to store frame: %w", err)
	}
	return nil
}

func (s *RedisFrameStore) Get(ctx context.Context, viewID entities.ViewID) (*valueobjects.ImageData, error) {
	raw, err := s.client.Get(ctx, s.prefix+string(viewID)).Bytes()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return nil, &domainerrors.NoActiveViewError{Detail: "no frame captured for the current view"}
		}
		return nil, fmt.Errorf("failed to load frame: %w", err)
	}

	var snapshot imageSnapshot
	if err := json.Unmarshal(raw, &snapshot); err != nil {
		return nil, fmt.Errorf("failed to decode frame: %w", err)
	}
	return snapshot.restore()
}
