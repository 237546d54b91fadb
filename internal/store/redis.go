package store

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog/log"
)

const keyPrefix = "chess:session:"

// Redis stores each session as a JSON blob with a TTL that is refreshed on
// every save. A set indexes the live session IDs.
type Redis struct {
	rdb *redis.Client
	ttl time.Duration
}

// NewRedis connects to url (redis://host:port/db) and checks the connection.
func NewRedis(ctx context.Context, url string, ttl time.Duration) (*Redis, error) {
	opts, err := redis.ParseURL(url)
	if err != nil {
		return nil, fmt.Errorf("invalid redis url: %w", err)
	}
	rdb := redis.NewClient(opts)
	if err := rdb.Ping(ctx).Err(); err != nil {
		_ = rdb.Close()
		return nil, fmt.Errorf("redis ping: %w", err)
	}
	return &Redis{rdb: rdb, ttl: ttl}, nil
}

func (r *Redis) keySession(id string) string { return keyPrefix + id }
func (r *Redis) keyIndex() string            { return keyPrefix + "index" }

func (r *Redis) Save(ctx context.Context, s *Session) error {
	raw, err := json.Marshal(s)
	if err != nil {
		return err
	}
	if err := r.rdb.Set(ctx, r.keySession(s.ID), raw, r.ttl).Err(); err != nil {
		return err
	}
	if err := r.rdb.SAdd(ctx, r.keyIndex(), s.ID).Err(); err != nil {
		return err
	}
	return nil
}

func (r *Redis) Load(ctx context.Context, id string) (*Session, error) {
	raw, err := r.rdb.Get(ctx, r.keySession(id)).Bytes()
	if errors.Is(err, redis.Nil) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	var s Session
	if err := json.Unmarshal(raw, &s); err != nil {
		return nil, fmt.Errorf("decode session %s: %w", id, err)
	}
	return &s, nil
}

// List loads every indexed session and prunes index entries whose session
// has expired.
func (r *Redis) List(ctx context.Context) ([]*Session, error) {
	ids, err := r.rdb.SMembers(ctx, r.keyIndex()).Result()
	if err != nil {
		return nil, err
	}
	out := make([]*Session, 0, len(ids))
	for _, id := range ids {
		s, err := r.Load(ctx, id)
		if errors.Is(err, ErrNotFound) {
			if err := r.rdb.SRem(ctx, r.keyIndex(), id).Err(); err != nil {
				log.Warn().Err(err).Str("session", id).Msg("Failed to prune expired session")
			}
			continue
		}
		if err != nil {
			return nil, err
		}
		out = append(out, s)
	}
	sortSessions(out)
	return out, nil
}

func (r *Redis) Delete(ctx context.Context, id string) error {
	if err := r.rdb.Del(ctx, r.keySession(id)).Err(); err != nil {
		return err
	}
	return r.rdb.SRem(ctx, r.keyIndex(), id).Err()
}

func (r *Redis) Close() error {
	return r.rdb.Close()
}
