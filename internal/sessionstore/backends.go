package sessionstore

import (
	"context"
	"errors"
	"sync"
	"time"

	"github.com/redis/go-redis/v9"

	"troopsite/internal/models"
	"troopsite/internal/repository"
)

// SQLBackend keeps sessions in the application database.
type SQLBackend struct {
	repo repository.SessionRepository
}

func NewSQLBackend(repo repository.SessionRepository) *SQLBackend {
	return &SQLBackend{repo: repo}
}

func (b *SQLBackend) Load(ctx context.Context, id string) ([]byte, error) {
	record, err := b.repo.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	if record == nil {
		return nil, errNotFound
	}
	return record.Data, nil
}

func (b *SQLBackend) Store(ctx context.Context, id string, data []byte, ttl time.Duration) error {
	return b.repo.Save(ctx, &models.SessionRecord{
		ID:        id,
		Data:      data,
		ExpiresAt: time.Now().Add(ttl),
	})
}

func (b *SQLBackend) Delete(ctx context.Context, id string) error {
	return b.repo.Delete(ctx, id)
}

func (b *SQLBackend) DeleteExpired(ctx context.Context, now time.Time) (int64, error) {
	return b.repo.DeleteExpired(ctx, now)
}

// RedisBackend relies on key TTLs for expiry.
type RedisBackend struct {
	client redis.UniversalClient
	prefix string
}

func NewRedisBackend(client redis.UniversalClient, prefix string) *RedisBackend {
	return &RedisBackend{client: client, prefix: prefix}
}

func (b *RedisBackend) Load(ctx context.Context, id string) ([]byte, error) {
	data, err := b.client.Get(ctx, b.prefix+id).Bytes()
	if errors.Is(err, redis.Nil) {
		return nil, errNotFound
	}
	return data, err
}

func (b *RedisBackend) Store(ctx context.Context, id string, data []byte, ttl time.Duration) error {
	return b.client.Set(ctx, b.prefix+id, data, ttl).Err()
}

func (b *RedisBackend) Delete(ctx context.Context, id string) error {
	return b.client.Del(ctx, b.prefix+id).Err()
}

type memoryEntry struct {
	data      []byte
	expiresAt time.Time
}

// MemoryBackend is process-local; sessions are lost on restart.
type MemoryBackend struct {
	mu      sync.RWMutex
	entries map[string]memoryEntry
	now     func() time.Time
}

func NewMemoryBackend() *MemoryBackend {
	return &MemoryBackend{
		entries: make(map[string]memoryEntry),
		now:     time.Now,
	}
}

func (b *MemoryBackend) Load(_ context.Context, id string) ([]byte, error) {
	b.mu.RLock()
	entry, ok := b.entries[id]
	b.mu.RUnlock()

	if !ok || !b.now().Before(entry.expiresAt) {
		return nil, errNotFound
	}
	return entry.data, nil
}

func (b *MemoryBackend) Store(_ context.Context, id string, data []byte, ttl time.Duration) error {
	b.mu.Lock()
	defer b.mu.Unlock()

	b.entries[id] = memoryEntry{data: data, expiresAt: b.now().Add(ttl)}
	return nil
}

func (b *MemoryBackend) Delete(_ context.Context, id string) error {
	b.mu.Lock()
	defer b.mu.Unlock()

	delete(b.entries, id)
	return nil
}

func (b *MemoryBackend) DeleteExpired(_ context.Context, now time.Time) (int64, error) {
	b.mu.Lock()
	defer b.mu.Unlock()

	var removed int64
	for id, entry := range b.entries {
		if !now.Before(entry.expiresAt) {
			delete(b.entries, id)
			removed++
		}
	}
	return removed, nil
}

// Len reports the number of stored sessions, expired or not.
func (b *MemoryBackend) Len() int {
	b.mu.RLock()
	defer b.mu.RUnlock()
	return len(b.entries)
}
