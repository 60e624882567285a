package truerandomnumber

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
)

// Journal records emitted draws. It is write-only from the worker's point of view;
// recorded values are never fed back into a run.
type Journal interface {
	Record(ctx context.Context, entry JournalEntry) error
}

type JournalEntry struct {
	ID                 string         `json:"id"`
	JobKey             int64          `json:"jobKey"`
	ProcessInstanceKey int64          `json:"processInstanceKey"`
	Results            []RandomResult `json:"results"`
	RecordedAt         time.Time      `json:"recordedAt"`
}

// RedisJournal appends entries to a capped Redis list.
type RedisJournal struct {
	client     redis.Cmdable
	key        string
	maxEntries int64
	ttl        time.Duration
}

func NewRedisJournal(client redis.Cmdable, key string, maxEntries int64, ttl time.Duration) *RedisJournal {
	return &RedisJournal{
		client:     client,
		key:        key,
		maxEntries: maxEntries,
		ttl:        ttl,
	}
}

func (j *RedisJournal) Record(ctx context.Context, entry JournalEntry) error {
	if entry.ID == "" {
		entry.ID = uuid.NewString()
	}
	if entry.RecordedAt.IsZero() {
		entry.RecordedAt = time.Now().UTC()
	}

	payload, err := json.Marshal(entry)
	if err != nil {
		return fmt.Errorf("marshal journal entry: %w", err)
	}

	if err := j.client.RPush(ctx, j.key, string(payload)).Err(); err != nil {
		return fmt.Errorf("append to %s: %w", j.key, err)
	}

	if j.maxEntries > 0 {
		if err := j.client.LTrim(ctx, j.key, -j.maxEntries, -1).Err(); err != nil {
			return fmt.Errorf("trim %s: %w", j.key, err)
		}
	}

	if j.ttl > 0 {
		if err := j.client.Expire(ctx, j.key, j.ttl).Err(); err != nil {
			return fmt.Errorf("expire %s: %w", j.key, err)
		}
	}

	return nil
}

// Recent returns up to n of the newest entries, oldest first.
func (j *RedisJournal) Recent(ctx context.Context, n int64) ([]JournalEntry, error) {
	if n <= 0 {
		return nil, nil
	}

	raw, err := j.client.LRange(ctx, j.key, -n, -1).Result()
	if err != nil {
		return nil, fmt.Errorf("read %s: %w", j.key, err)
	}

	entries := make([]JournalEntry, 0, len(raw))
	for _, r := range raw {
		var e JournalEntry
		if err := json.Unmarshal([]byte(r), &e); err != nil {
			return nil, fmt.Errorf("decode journal entry: %w", err)
		}
		entries = append(entries, e)
	}
	return entries, nil
}

// Ping checks the backing Redis connection.
func (j *RedisJournal) Ping(ctx context.Context) error {
	return j.client.Ping(ctx).Err()
}
