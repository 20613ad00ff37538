package caching

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/ECOM-SR/ECOM-REPORTS/internal/model"
	"github.com/ECOM-SR/ECOM-REPORTS/pkg/utils"
)

const keyPrefix = "ecom-reports"

// ResultCache keeps aggregate results hot for repeated reads of a job.
// Get returns nil, nil on a miss.
type ResultCache interface {
	GetResult(ctx context.Context, jobID string) (*model.AggregateResult, error)
	SetResult(ctx context.Context, jobID string, result *model.AggregateResult, ttl time.Duration) error
	DeleteResult(ctx context.Context, jobID string) error
	Close() error
}

func resultKey(jobID string) string {
	return fmt.Sprintf("%s:result:%s", keyPrefix, jobID)
}

// ------------------- Redis -------------------

type redisResultCache struct {
	client *redis.Client
}

// NewRedisResultCache connects to Redis at addr. A failed ping is logged, not
// returned; later calls surface the error.
func NewRedisResultCache(addr, password string, db int, logger *utils.Logger) ResultCache {
	parsedAddr := addr
	if strings.HasPrefix(addr, "redis://") || strings.HasPrefix(addr, "rediss://") {
		parsedAddr = strings.TrimPrefix(strings.TrimPrefix(addr, "redis://"), "rediss://")
	}

	client := redis.NewClient(&redis.Options{
		Addr:     parsedAddr,
		Password: password,
		DB:       db,
	})

	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer cancel()
	if err := client.Ping(ctx).Err(); err != nil {
		logger.Warn("Redis ping failed: %v (address: %s)", err, parsedAddr)
	} else {
		logger.Debug("Redis connection established at %s", parsedAddr)
	}

	return &redisResultCache{client: client}
}

func (r *redisResultCache) GetResult(ctx context.Context, jobID string) (*model.AggregateResult, error) {
	data, err := r.client.Get(ctx, resultKey(jobID)).Bytes()
	if err != nil {
		if err == redis.Nil {
			return nil, nil
		}
		return nil, err
	}

	var result model.AggregateResult
	if err := json.Unmarshal(data, &result); err != nil {
		return nil, err
	}
	return &result, nil
}

func (r *redisResultCache) SetResult(ctx context.Context, jobID string, result *model.AggregateResult, ttl time.Duration) error {
	data, err := json.Marshal(result)
	if err != nil {
		return err
	}
	return r.client.Set(ctx, resultKey(jobID), data, ttl).Err()
}

func (r *redisResultCache) DeleteResult(ctx context.Context, jobID string) error {
	return r.client.Del(ctx, resultKey(jobID)).Err()
}

func (r *redisResultCache) Close() error {
	return r.client.Close()
}

// ------------------- Memory -------------------

type memoryEntry struct {
	data    []byte
	stored  time.Time
	expires time.Time
}

// DefaultMemoryEntries bounds the in-process cache. The oldest entry is
// evicted once the bound is reached.
const DefaultMemoryEntries = 256

// MemoryResultCache is an in-process cache used when no Redis address is set.
// Entries are stored as JSON so callers never share a result value.
type MemoryResultCache struct {
	mu         sync.Mutex
	entries    map[string]memoryEntry
	now        func() time.Time
	maxEntries int
}

// NewMemoryResultCache creates an empty in-process cache.
func NewMemoryResultCache() *MemoryResultCache {
	return &MemoryResultCache{
		entries:    make(map[string]memoryEntry),
		now:        time.Now,
		maxEntries: DefaultMemoryEntries,
	}
}

func (m *MemoryResultCache) GetResult(ctx context.Context, jobID string) (*model.AggregateResult, error) {
	m.mu.Lock()
	entry, ok := m.entries[resultKey(jobID)]
	if ok && !entry.expires.IsZero() && m.now().After(entry.expires) {
		delete(m.entries, resultKey(jobID))
		ok = false
	}
	m.mu.Unlock()
	if !ok {
		return nil, nil
	}

	var result model.AggregateResult
	if err := json.Unmarshal(entry.data, &result); err != nil {
		return nil, err
	}
	return &result, nil
}

func (m *MemoryResultCache) SetResult(ctx context.Context, jobID string, result *model.AggregateResult, ttl time.Duration) error {
	data, err := json.Marshal(result)
	if err != nil {
		return err
	}
	now := m.now()
	entry := memoryEntry{data: data, stored: now}
	if ttl > 0 {
		entry.expires = now.Add(ttl)
	}

	key := resultKey(jobID)
	m.mu.Lock()
	defer m.mu.Unlock()
	m.sweep(now)
	if _, exists := m.entries[key]; !exists && m.maxEntries > 0 {
		for len(m.entries) >= m.maxEntries {
			m.evictOldest()
		}
	}
	m.entries[key] = entry
	return nil
}

// sweep drops expired entries. Callers hold mu.
func (m *MemoryResultCache) sweep(now time.Time) {
	for k, e := range m.entries {
		if !e.expires.IsZero() && now.After(e.expires) {
			delete(m.entries, k)
		}
	}
}

func (m *MemoryResultCache) evictOldest() {
	var oldest string
	var at time.Time
	for k, e := range m.entries {
		if oldest == "" || e.stored.Before(at) {
			oldest, at = k, e.stored
		}
	}
	delete(m.entries, oldest)
}

// Len reports the number of entries held, expired or not.
func (m *MemoryResultCache) Len() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.entries)
}

func (m *MemoryResultCache) DeleteResult(ctx context.Context, jobID string) error {
	m.mu.Lock()
	delete(m.entries, resultKey(jobID))
	m.mu.Unlock()
	return nil
}

func (m *MemoryResultCache) Close() error { return nil }

// New picks Redis when addr is set, otherwise the in-process cache.
func New(addr, password string, db int, logger *utils.Logger) ResultCache {
	if addr == "" {
		return NewMemoryResultCache()
	}
	return NewRedisResultCache(addr, password, db, logger)
}
