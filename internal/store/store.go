// internal/store/store.go

// Package store reads worker inputs from Postgres through a Redis read-through
// cache and persists computed scores.
package store

import (
	"context"
	"database/sql"
	stderrors "errors"
	"time"

	"github.com/goccy/go-json"
	"github.com/redis/go-redis/v9"

	"github.com/arthverse/arthverse/internal/common/logger"
	"github.com/arthverse/arthverse/internal/common/metrics"
)

// ErrNotFound is returned when the requested row does not exist.
var ErrNotFound = stderrors.New("not found")

const defaultTTL = 15 * time.Minute

type Store struct {
	db     *sql.DB
	redis  *redis.Client
	ttl    time.Duration
	logger logger.Logger
}

// New builds a store. A nil redis client disables caching.
func New(db *sql.DB, rdb *redis.Client, ttl time.Duration, log logger.Logger) *Store {
	if ttl <= 0 {
		ttl = defaultTTL
	}
	return &Store{
		db:     db,
		redis:  rdb,
		ttl:    ttl,
		logger: log.WithFields(map[string]interface{}{"component": "store"}),
	}
}

func questionnaireKey(userID string) string { return "questionnaire:" + userID }
func riskProfileKey(userID string) string   { return "risk_profile:" + userID }
func policiesKey(userID string) string      { return "policies:" + userID }
func latestHealthKey(userID string) string  { return "health_score:latest:" + userID }
func latestGapKey(userID string) string     { return "protection_gap:latest:" + userID }

// cached decodes key into dst and reports whether it was a usable hit.
func (s *Store) cached(ctx context.Context, entity, key string, dst interface{}) bool {
	if s.redis == nil {
		return false
	}

	data, err := s.redis.Get(ctx, key).Bytes()
	if err != nil {
		if err != redis.Nil {
			s.logger.Warn("cache read failed", map[string]interface{}{"key": key, "error": err})
		}
		metrics.CacheMiss(entity)
		return false
	}

	if err := json.Unmarshal(data, dst); err != nil {
		s.logger.Warn("cache entry corrupt", map[string]interface{}{"key": key, "error": err})
		metrics.CacheMiss(entity)
		return false
	}
	metrics.CacheHit(entity)
	return true
}

func (s *Store) remember(ctx context.Context, key string, v interface{}) {
	if s.redis == nil {
		return
	}
	data, err := json.Marshal(v)
	if err != nil {
		s.logger.Warn("cache encode failed", map[string]interface{}{"key": key, "error": err})
		return
	}
	if err := s.redis.Set(ctx, key, data, s.ttl).Err(); err != nil {
		s.logger.Warn("cache write failed", map[string]interface{}{"key": key, "error": err})
	}
}

// Invalidate drops every cached entry for a user.
func (s *Store) Invalidate(ctx context.Context, userID string) error {
	if s.redis == nil {
		return nil
	}
	return s.redis.Del(ctx,
		questionnaireKey(userID),
		riskProfileKey(userID),
		policiesKey(userID),
		latestHealthKey(userID),
		latestGapKey(userID),
	).Err()
}
