// internal/store/scores.go
package store

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/goccy/go-json"
	"github.com/google/uuid"

	"github.com/arthverse/arthverse/internal/scoring/healthscore"
	"github.com/arthverse/arthverse/internal/scoring/protection"
)

type StoredHealthScore struct {
	ID           string                   `json:"id"`
	UserID       string                   `json:"userId"`
	CalculatedAt time.Time                `json:"calculatedAt"`
	Result       *healthscore.ScoreResult `json:"result"`
}

type StoredProtectionGap struct {
	ID           string             `json:"id"`
	UserID       string             `json:"userId"`
	CalculatedAt time.Time          `json:"calculatedAt"`
	Result       *protection.Result `json:"result"`
}

// SaveHealthScore inserts a score row and refreshes the cached latest score.
func (s *Store) SaveHealthScore(ctx context.Context, userID string, result *healthscore.ScoreResult, at time.Time) (*StoredHealthScore, error) {
	doc, err := json.Marshal(result)
	if err != nil {
		return nil, fmt.Errorf("encode health score: %w", err)
	}

	rec := &StoredHealthScore{ID: uuid.NewString(), UserID: userID, CalculatedAt: at.UTC(), Result: result}
	_, err = s.db.ExecContext(ctx,
		`INSERT INTO health_scores (id, user_id, score, rating, result, calculated_at)
		 VALUES ($1, $2, $3, $4, $5, $6)`,
		rec.ID, userID, result.Score, string(result.Rating), doc, rec.CalculatedAt,
	)
	if err != nil {
		return nil, fmt.Errorf("insert health score: %w", err)
	}

	s.remember(ctx, latestHealthKey(userID), rec)
	return rec, nil
}

func (s *Store) SaveProtectionGap(ctx context.Context, userID string, result *protection.Result, at time.Time) (*StoredProtectionGap, error) {
	doc, err := json.Marshal(result)
	if err != nil {
		return nil, fmt.Errorf("encode protection gap: %w", err)
	}

	rec := &StoredProtectionGap{ID: uuid.NewString(), UserID: userID, CalculatedAt: at.UTC(), Result: result}
	_, err = s.db.ExecContext(ctx,
		`INSERT INTO protection_gaps (id, user_id, protection_score, result, calculated_at)
		 VALUES ($1, $2, $3, $4, $5)`,
		rec.ID, userID, result.ProtectionScore, doc, rec.CalculatedAt,
	)
	if err != nil {
		return nil, fmt.Errorf("insert protection gap: %w", err)
	}

	s.remember(ctx, latestGapKey(userID), rec)
	return rec, nil
}

func (s *Store) LatestHealthScore(ctx context.Context, userID string) (*StoredHealthScore, error) {
	key := latestHealthKey(userID)
	var rec StoredHealthScore
	if s.cached(ctx, "health_score", key, &rec) {
		return &rec, nil
	}

	var doc []byte
	err := s.db.QueryRowContext(ctx,
		`SELECT id, result, calculated_at FROM health_scores
		  WHERE user_id = $1 ORDER BY calculated_at DESC LIMIT 1`,
		userID,
	).Scan(&rec.ID, &doc, &rec.CalculatedAt)
	if err == sql.ErrNoRows {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("query latest health score: %w", err)
	}

	rec.UserID = userID
	rec.Result = &healthscore.ScoreResult{}
	if err := json.Unmarshal(doc, rec.Result); err != nil {
		return nil, fmt.Errorf("decode health score %s: %w", rec.ID, err)
	}

	s.remember(ctx, key, rec)
	return &rec, nil
}

func (s *Store) LatestProtectionGap(ctx context.Context, userID string) (*StoredProtectionGap, error) {
	key := latestGapKey(userID)
	var rec StoredProtectionGap
	if s.cached(ctx, "protection_gap", key, &rec) {
		return &rec, nil
	}

	var doc []byte
	err := s.db.QueryRowContext(ctx,
		`SELECT id, result, calculated_at FROM protection_gaps
		  WHERE user_id = $1 ORDER BY calculated_at DESC LIMIT 1`,
		userID,
	).Scan(&rec.ID, &doc, &rec.CalculatedAt)
	if err == sql.ErrNoRows {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("query latest protection gap: %w", err)
	}

	rec.UserID = userID
	rec.Result = &protection.Result{}
	if err := json.Unmarshal(doc, rec.Result); err != nil {
		return nil, fmt.Errorf("decode protection gap %s: %w", rec.ID, err)
	}

	s.remember(ctx, key, rec)
	return &rec, nil
}
