package repositories

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	"painting-demo/internal/domain/domainerrors"
	"painting-demo/internal/domain/entities"
	domainrepos "painting-demo/internal/domain/repositories"
)

const maxUpdateRetries = 8

type RedisConfig struct {
	Addr     string
	Password string
	DB       int
	Prefix   string
	TTL      time.Duration
}

// NewRedisClient - 接続して PING で疎通確認する
func NewRedisClient(ctx context.Context, cfg RedisConfig) (*redis.Client, error) {
	if cfg.Addr == "" {
		return nil, fmt.Errorf("redis address required")
	}

	client := redis.NewClient(&redis.Options{
		Addr:     cfg.Addr,
		Password: cfg.Password,
		DB:       cfg.DB,
	})

	if err := client.Ping(ctx).Err(); err != nil {
		_ = client.Close()
		return nil, fmt.Errorf("redis ping failed: %w", err)
	}

	return client, nil
}

type RedisSessionRepository struct {
	client *redis.Client
	prefix string
	ttl    time.Duration
}

func NewRedisSessionRepository(client *redis.Client, cfg RedisConfig) domainrepos.SessionRepository {
	prefix := cfg.Prefix
	if prefix == "" {
		prefix = "painting:"
	}
	ttl := cfg.TTL
	if ttl <= 0 {
		ttl = 2 * time.Hour
	}
	return &RedisSessionRepository{
		client: client,
		prefix: prefix + "session:",
		ttl:    ttl,
	}
}

func (r *RedisSessionRepository) key(id entities.SessionID) string {
	return r.prefix + string(id)
}

func (r *RedisSessionRepository) Create(ctx context.Context, session *entities.Session) error {
	data, err := encodeSession(session)
	if err != nil {
		return err
	}

	created, err := r.client.SetNX(ctx, r.key(session.ID()), data, r.ttl).Result()
	if err != nil {
		return fmt.Errorf("failed to store session: %w", err)
	}
	if !created {
		return fmt.Errorf("session already exists: %s", session.ID())
	}
	return nil
}

func (r *RedisSessionRepository) Get(ctx context.Context, id entities.SessionID) (*entities.Session, error) {
	raw, err := r.client.Get(ctx, r.key(id)).Bytes()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return nil, fmt.Errorf("%w: %s", domainerrors.ErrSessionNotFound, id)
		}
		return nil, fmt.Errorf("failed to load session: %w", err)
	}
	return decodeSession(raw)
}

// Update - WATCH/MULTI で楽観ロック。競合したらトランザクションは破棄され、
// 新しい値に対して読み込みから再実行する
func (r *RedisSessionRepository) Update(
	ctx context.Context,
	id entities.SessionID,
	fn func(*entities.Session) error,
) (*entities.Session, error) {
	key := r.key(id)

	for i := 0; i < maxUpdateRetries; i++ {
		var updated *entities.Session

		err := r.client.Watch(ctx, func(tx *redis.Tx) error {
			raw, err := tx.Get(ctx, key).Bytes()
			if err != nil {
				if errors.Is(err, redis.Nil) {
					return fmt.Errorf("%w: %s", domainerrors.ErrSessionNotFound, id)
				}
				return fmt.Errorf("failed to load session: %w", err)
			}

			session, err := decodeSession(raw)
			if err != nil {
				return err
			}
			if err := fn(session); err != nil {
				return err
			}

			data, err := encodeSession(session)
			if err != nil {
				return err
			}

			_, err = tx.TxPipelined(ctx, func(pipe redis.Pipeliner) error {
				pipe.Set(ctx, key, data, r.ttl)
				return nil
			})
			if err != nil {
				return err
			}

			updated = session
			return nil
		}, key)

		if errors.Is(err, redis.TxFailedErr) {
			continue
		}
		if err != nil {
			return nil, err
		}
		return updated, nil
	}

	return nil, fmt.Errorf("session %s: too much contention, update abandoned", id)
}
