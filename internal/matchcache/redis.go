package matchcache

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strconv"
	"time"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"

	"github.com/erazemk/gotchan/internal/model"
)

const generationKey = "gotchan:matches:gen"

// Redis shares cached matches between server instances.
type Redis struct {
	rdb *redis.Client
	ttl time.Duration
}

// NewRedis returns a cache backed by rdb whose entries live for ttl.
func NewRedis(rdb *redis.Client, ttl time.Duration) *Redis {
	return &Redis{rdb: rdb, ttl: ttl}
}

// Dial connects to the server at url (redis://host:port/db) and checks it
// responds.
func Dial(ctx context.Context, url string) (*redis.Client, error) {
	opts, err := redis.ParseURL(url)
	if err != nil {
		return nil, fmt.Errorf("parsing redis url: %w", err)
	}
	rdb := redis.NewClient(opts)
	if err := rdb.Ping(ctx).Err(); err != nil {
		rdb.Close()
		return nil, fmt.Errorf("connecting to redis: %w", err)
	}
	return rdb, nil
}

func entryKey(generation int64, userID uuid.UUID) string {
	return fmt.Sprintf("gotchan:matches:%d:%s", generation, userID)
}

func (r *Redis) generation(ctx context.Context) (int64, error) {
	raw, err := r.rdb.Get(ctx, generationKey).Result()
	if errors.Is(err, redis.Nil) {
		return 0, nil
	}
	if err != nil {
		return 0, fmt.Errorf("getting match generation: %w", err)
	}
	gen, err := strconv.ParseInt(raw, 10, 64)
	if err != nil {
		return 0, fmt.Errorf("parsing match generation: %w", err)
	}
	return gen, nil
}

func (r *Redis) Lookup(ctx context.Context, userID uuid.UUID) (Entry, error) {
	gen, err := r.generation(ctx)
	if err != nil {
		return Entry{}, err
	}

	raw, err := r.rdb.Get(ctx, entryKey(gen, userID)).Bytes()
	if errors.Is(err, redis.Nil) {
		return Entry{Generation: gen}, nil
	}
	if err != nil {
		return Entry{}, fmt.Errorf("getting cached matches: %w", err)
	}

	var results []model.MatchResult
	if err := json.Unmarshal(raw, &results); err != nil {
		return Entry{}, fmt.Errorf("decoding cached matches: %w", err)
	}
	return Entry{Results: results, Hit: true, Generation: gen}, nil
}

func (r *Redis) Store(ctx context.Context, userID uuid.UUID, generation int64, results []model.MatchResult) error {
	raw, err := json.Marshal(results)
	if err != nil {
		return fmt.Errorf("encoding matches: %w", err)
	}
	if err := r.rdb.Set(ctx, entryKey(generation, userID), raw, r.ttl).Err(); err != nil {
		return fmt.Errorf("caching matches: %w", err)
	}
	return nil
}

func (r *Redis) Invalidate(ctx context.Context) error {
	if err := r.rdb.Incr(ctx, generationKey).Err(); err != nil {
		return fmt.Errorf("bumping match generation: %w", err)
	}
	return nil
}
