package store

import (
	"context"
	"encoding/json"
	"time"

	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"

	"io.winapps.explorerdiary/internal/journal"
)

const (
	entryCacheTTL        = 24 * time.Hour
	entryKeyPrefix       = "entry:"
	userEntriesKeyPrefix = "user_entries:"
)

// CachedStore wraps an EntryStore with a best-effort Redis cache. Cache
// failures are logged and never surfaced; the inner store stays the source
// of truth.
type CachedStore struct {
	inner  EntryStore
	redis  *redis.Client
	logger *zap.SugaredLogger
}

// NewCachedStore wraps inner with the Redis cache layer.
func NewCachedStore(inner EntryStore, client *redis.Client, logger *zap.SugaredLogger) *CachedStore {
	return &CachedStore{inner: inner, redis: client, logger: logger}
}

func (s *CachedStore) Insert(ctx context.Context, entry journal.Entry) (string, error) {
	id, err := s.inner.Insert(ctx, entry)
	if err != nil {
		return "", err
	}
	entry.ID = id
	s.cacheEntry(ctx, entry)
	return id, nil
}

func (s *CachedStore) Get(ctx context.Context, ownerID, id string) (*journal.Entry, error) {
	if cached, err := s.redis.Get(ctx, entryKeyPrefix+id).Result(); err == nil {
		var entry journal.Entry
		if err := json.Unmarshal([]byte(cached), &entry); err == nil && entry.OwnerID == ownerID {
			return &entry, nil
		}
	}

	entry, err := s.inner.Get(ctx, ownerID, id)
	if err != nil {
		return nil, err
	}
	s.cacheEntry(ctx, *entry)
	return entry, nil
}

func (s *CachedStore) Delete(ctx context.Context, ownerID, id string) error {
	if err := s.inner.Delete(ctx, ownerID, id); err != nil {
		return err
	}
	if err := s.redis.Del(ctx, entryKeyPrefix+id).Err(); err != nil {
		s.logw("failed to invalidate entry cache", "entry_id", id, "error", err)
	}
	if err := s.redis.SRem(ctx, userEntriesKeyPrefix+ownerID, id).Err(); err != nil {
		s.logw("failed to update user entries cache", "user_uid", ownerID, "error", err)
	}
	return nil
}

func (s *CachedStore) QueryByOwner(ctx context.Context, ownerID string, order Order, limit int) ([]journal.Entry, error) {
	entries, err := s.inner.QueryByOwner(ctx, ownerID, order, limit)
	if err != nil {
		return nil, err
	}
	for _, entry := range entries {
		s.cacheEntry(ctx, entry)
	}
	return entries, nil
}

func (s *CachedStore) cacheEntry(ctx context.Context, entry journal.Entry) {
	data, err := json.Marshal(entry)
	if err != nil {
		s.logw("failed to marshal entry for cache", "entry_id", entry.ID, "error", err)
		return
	}
	if err := s.redis.Set(ctx, entryKeyPrefix+entry.ID, data, entryCacheTTL).Err(); err != nil {
		s.logw("failed to cache entry", "entry_id", entry.ID, "error", err)
		return
	}
	userKey := userEntriesKeyPrefix + entry.OwnerID
	if err := s.redis.SAdd(ctx, userKey, entry.ID).Err(); err != nil {
		s.logw("failed to update user entries cache", "user_uid", entry.OwnerID, "error", err)
		return
	}
	s.redis.Expire(ctx, userKey, entryCacheTTL)
}

func (s *CachedStore) logw(msg string, kv ...interface{}) {
	if s.logger != nil {
		s.logger.Warnw(msg, kv...)
	}
}
