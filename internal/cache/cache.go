package cache

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strconv"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/therealutkarshpriyadarshi/streamtv/pkg/models"
)

// Cache is a Redis backed Store
type Cache struct {
	client *redis.Client
	prefix string
}

// NewCache creates a new cache instance
func NewCache(host string, port int, password string, db int) (*Cache, error) {
	client := redis.NewClient(&redis.Options{
		Addr:     fmt.Sprintf("%s:%d", host, port),
		Password: password,
		DB:       db,
	})

	// Test connection
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := client.Ping(ctx).Err(); err != nil {
		return nil, fmt.Errorf("failed to connect to Redis: %w", err)
	}

	return &Cache{client: client, prefix: "streamtv"}, nil
}

// WithKeyPrefix namespaces every key under prefix
func (c *Cache) WithKeyPrefix(prefix string) *Cache {
	if prefix != "" {
		c.prefix = prefix
	}
	return c
}

// Close closes the Redis connection
func (c *Cache) Close() error {
	return c.client.Close()
}

// Ping checks the connection
func (c *Cache) Ping(ctx context.Context) error {
	return c.client.Ping(ctx).Err()
}

func (c *Cache) key(parts ...string) string {
	k := c.prefix
	for _, p := range parts {
		k += ":" + p
	}
	return k
}

// My List Operations

// AddToMyList adds contentID to the sorted set. The score comes from a
// counter so insertion order survives; NX keeps re-adds idempotent.
func (c *Cache) AddToMyList(ctx context.Context, contentID int) error {
	member := strconv.Itoa(contentID)

	exists, err := c.InMyList(ctx, contentID)
	if err != nil {
		return err
	}
	if exists {
		return nil
	}

	seq, err := c.client.Incr(ctx, c.key("mylist", "seq")).Result()
	if err != nil {
		return fmt.Errorf("failed to increment my list sequence: %w", err)
	}

	if err := c.client.ZAddNX(ctx, c.key("mylist"), redis.Z{Score: float64(seq), Member: member}).Err(); err != nil {
		return fmt.Errorf("failed to add to my list: %w", err)
	}
	return nil
}

// RemoveFromMyList removes contentID from the set
func (c *Cache) RemoveFromMyList(ctx context.Context, contentID int) error {
	if err := c.client.ZRem(ctx, c.key("mylist"), strconv.Itoa(contentID)).Err(); err != nil {
		return fmt.Errorf("failed to remove from my list: %w", err)
	}
	return nil
}

// InMyList reports membership
func (c *Cache) InMyList(ctx context.Context, contentID int) (bool, error) {
	_, err := c.client.ZScore(ctx, c.key("mylist"), strconv.Itoa(contentID)).Result()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return false, nil
		}
		return false, fmt.Errorf("failed to check my list: %w", err)
	}
	return true, nil
}

// MyList returns ids most recently added first
func (c *Cache) MyList(ctx context.Context) ([]int, error) {
	members, err := c.client.ZRevRange(ctx, c.key("mylist"), 0, -1).Result()
	if err != nil {
		return nil, fmt.Errorf("failed to read my list: %w", err)
	}

	ids := make([]int, 0, len(members))
	for _, m := range members {
		id, err := strconv.Atoi(m)
		if err != nil {
			return nil, fmt.Errorf("corrupt my list member %q: %w", m, err)
		}
		ids = append(ids, id)
	}
	return ids, nil
}

// Progress Operations

// SaveProgress upserts the record in the progress hash
func (c *Cache) SaveProgress(ctx context.Context, progress models.WatchProgress) error {
	data, err := json.Marshal(progress)
	if err != nil {
		return fmt.Errorf("failed to marshal progress: %w", err)
	}

	field := strconv.Itoa(progress.ContentID)
	return c.client.HSet(ctx, c.key("progress"), field, data).Err()
}

// Progress retrieves the record for contentID
func (c *Cache) Progress(ctx context.Context, contentID int) (*models.WatchProgress, error) {
	data, err := c.client.HGet(ctx, c.key("progress"), strconv.Itoa(contentID)).Bytes()
	if err != nil {
		if err == redis.Nil {
			return nil, nil // Cache miss
		}
		return nil, fmt.Errorf("failed to get progress from cache: %w", err)
	}

	var progress models.WatchProgress
	if err := json.Unmarshal(data, &progress); err != nil {
		return nil, fmt.Errorf("failed to unmarshal progress: %w", err)
	}

	return &progress, nil
}

// ListProgress returns every record, most recently watched first
func (c *Cache) ListProgress(ctx context.Context) ([]models.WatchProgress, error) {
	fields, err := c.client.HGetAll(ctx, c.key("progress")).Result()
	if err != nil {
		return nil, fmt.Errorf("failed to list progress: %w", err)
	}

	records := make([]models.WatchProgress, 0, len(fields))
	for field, data := range fields {
		var p models.WatchProgress
		if err := json.Unmarshal([]byte(data), &p); err != nil {
			return nil, fmt.Errorf("failed to unmarshal progress %s: %w", field, err)
		}
		records = append(records, p)
	}

	sortByLastWatched(records)
	return records, nil
}

// Preference Operations

// Preference returns the stored value for key
func (c *Cache) Preference(ctx context.Context, key string) (string, bool, error) {
	v, err := c.client.HGet(ctx, c.key("preferences"), key).Result()
	if err != nil {
		if err == redis.Nil {
			return "", false, nil
		}
		return "", false, fmt.Errorf("failed to get preference: %w", err)
	}
	return v, true, nil
}

// SetPreference stores value under key
func (c *Cache) SetPreference(ctx context.Context, key, value string) error {
	return c.client.HSet(ctx, c.key("preferences"), key, value).Err()
}

// Batch Operations

// Flush deletes every key under the prefix
func (c *Cache) Flush(ctx context.Context) error {
	iter := c.client.Scan(ctx, 0, c.prefix+":*", 0).Iterator()
	for iter.Next(ctx) {
		if err := c.client.Del(ctx, iter.Val()).Err(); err != nil {
			return fmt.Errorf("failed to delete key %s: %w", iter.Val(), err)
		}
	}
	return iter.Err()
}
