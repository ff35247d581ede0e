package session

import (
	"context"
	"encoding/json"
	"errors"
	"time"

	wizarderrors "korskola/internal/wizard/errors"

	"github.com/go-redis/redis/v8"
)

// RedisStore shares sessions between instances. Every save refreshes the TTL.
type RedisStore struct {
	client *redis.Client
	prefix string
	ttl    time.Duration
}

func NewRedisStore(client *redis.Client, prefix string, ttl time.Duration) *RedisStore {
	return &RedisStore{client: client, prefix: prefix, ttl: ttl}
}

func (s *RedisStore) key(id string) string {
	return s.prefix + id
}

func (s *RedisStore) Create(ctx context.Context, sess *Session) error {
	data, err := s.encode(sess)
	if err != nil {
		return err
	}

	created, err := s.client.SetNX(ctx, s.key(sess.ID), data, s.ttl).Result()
	if err != nil {
		return err
	}
	if !created {
		return wizarderrors.ErrSessionConflict
	}
	return nil
}

func (s *RedisStore) Get(ctx context.Context, id string) (*Session, error) {
	data, err := s.client.Get(ctx, s.key(id)).Bytes()
	if err == redis.Nil {
		return nil, wizarderrors.ErrSessionNotFound
	}
	if err != nil {
		return nil, err
	}

	var sess Session
	if err := json.Unmarshal(data, &sess); err != nil {
		return nil, err
	}
	return &sess, nil
}

// Save compares versions inside a WATCH so a concurrent writer aborts the
// transaction instead of being overwritten.
func (s *RedisStore) Save(ctx context.Context, sess *Session) error {
	key := s.key(sess.ID)

	err := s.client.Watch(ctx, func(tx *redis.Tx) error {
		data, err := tx.Get(ctx, key).Bytes()
		if err == redis.Nil {
			return wizarderrors.ErrSessionNotFound
		}
		if err != nil {
			return err
		}

		var stored Session
		if err := json.Unmarshal(data, &stored); err != nil {
			return err
		}
		if stored.Version != sess.Version {
			return wizarderrors.ErrSessionConflict
		}

		next := *sess
		next.Version++
		encoded, err := s.encode(&next)
		if err != nil {
			return err
		}

		if _, err := tx.TxPipelined(ctx, func(pipe redis.Pipeliner) error {
			pipe.Set(ctx, key, encoded, s.ttl)
			return nil
		}); err != nil {
			return err
		}

		*sess = next
		return nil
	}, key)

	if errors.Is(err, redis.TxFailedErr) {
		return wizarderrors.ErrSessionConflict
	}
	return err
}

func (s *RedisStore) Delete(ctx context.Context, id string) error {
	return s.client.Del(ctx, s.key(id)).Err()
}

// Stop is a no-op; the client is closed by the application.
func (s *RedisStore) Stop() {}

func (s *RedisStore) encode(sess *Session) ([]byte, error) {
	now := time.Now()
	sess.UpdatedAt = now
	sess.ExpiresAt = now.Add(s.ttl)
	return json.Marshal(sess)
}
