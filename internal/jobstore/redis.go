package jobstore

import (
	"context"
	"encoding/json"
	"fmt"
	"sort"
	"time"

	"github.com/go-redis/redis/v8"
)

const (
	redisKeyPrefix = "vcut:jobs:"
	redisIndexKey  = "vcut:jobs"
	redisJobTTL    = 24 * time.Hour
)

// RedisStore keeps job state in redis so multiple service instances can
// share it. Jobs expire after a day; the index set is pruned lazily.
type RedisStore struct {
	client *redis.Client
}

func NewRedis(url string) (*RedisStore, error) {
	opt, err := redis.ParseURL(url)
	if err != nil {
		return nil, fmt.Errorf("parse redis url: %w", err)
	}
	client := redis.NewClient(opt)

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := client.Ping(ctx).Err(); err != nil {
		client.Close()
		return nil, fmt.Errorf("ping redis: %w", err)
	}
	return &RedisStore{client: client}, nil
}

func (s *RedisStore) Create(ctx context.Context, job *Job) error {
	now := time.Now().UTC()
	job.CreatedAt = now
	job.UpdatedAt = now
	if err := s.put(ctx, job); err != nil {
		return err
	}
	return s.client.SAdd(ctx, redisIndexKey, job.ID).Err()
}

func (s *RedisStore) Get(ctx context.Context, id string) (*Job, error) {
	raw, err := s.client.Get(ctx, redisKeyPrefix+id).Bytes()
	if err == redis.Nil {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	var job Job
	if err := json.Unmarshal(raw, &job); err != nil {
		return nil, fmt.Errorf("decode job %s: %w", id, err)
	}
	return &job, nil
}

func (s *RedisStore) Update(ctx context.Context, job *Job) error {
	existing, err := s.Get(ctx, job.ID)
	if err != nil {
		return err
	}
	job.CreatedAt = existing.CreatedAt
	job.UpdatedAt = time.Now().UTC()
	return s.put(ctx, job)
}

func (s *RedisStore) List(ctx context.Context) ([]*Job, error) {
	ids, err := s.client.SMembers(ctx, redisIndexKey).Result()
	if err != nil {
		return nil, err
	}

	var out []*Job
	for _, id := range ids {
		job, err := s.Get(ctx, id)
		if err == ErrNotFound {
			// Expired job; drop it from the index.
			s.client.SRem(ctx, redisIndexKey, id)
			continue
		}
		if err != nil {
			return nil, err
		}
		out = append(out, job)
	}
	sort.Slice(out, func(i, j int) bool {
		return out[i].CreatedAt.After(out[j].CreatedAt)
	})
	return out, nil
}

func (s *RedisStore) Close() error { return s.client.Close() }

func (s *RedisStore) put(ctx context.Context, job *Job) error {
	raw, err := json.Marshal(job)
	if err != nil {
		return err
	}
	return s.client.Set(ctx, redisKeyPrefix+job.ID, raw, redisJobTTL).Err()
}

var _ Store = (*RedisStore)(nil)
