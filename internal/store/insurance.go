// internal/store/insurance.go
package store

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/goccy/go-json"

	"github.com/arthverse/arthverse/internal/models"
)

func (s *Store) LoadRiskProfile(ctx context.Context, userID string) (*models.RiskProfile, error) {
	key := riskProfileKey(userID)
	profile := models.NewRiskProfile(userID)
	if s.cached(ctx, "risk_profile", key, profile) {
		return profile, nil
	}

	var doc []byte
	err := s.db.QueryRowContext(ctx,
		`SELECT data FROM risk_profiles WHERE user_id = $1`,
		userID,
	).Scan(&doc)
	if err == sql.ErrNoRows {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("query risk profile: %w", err)
	}

	if err := json.Unmarshal(doc, profile); err != nil {
		return nil, fmt.Errorf("decode risk profile: %w", err)
	}
	profile.UserID = userID

	s.remember(ctx, key, profile)
	return profile, nil
}

// ListPolicies returns a user's policies oldest first. No policies is not an error.
func (s *Store) ListPolicies(ctx context.Context, userID string) ([]models.InsurancePolicy, error) {
	key := policiesKey(userID)
	var policies []models.InsurancePolicy
	if s.cached(ctx, "policies", key, &policies) {
		return policies, nil
	}

	rows, err := s.db.QueryContext(ctx,
		`SELECT id, data FROM insurance_policies WHERE user_id = $1 ORDER BY created_at`,
		userID,
	)
	if err != nil {
		return nil, fmt.Errorf("query policies: %w", err)
	}
	defer rows.Close()

	policies = []models.InsurancePolicy{}
	for rows.Next() {
		var (
			id  string
			doc []byte
		)
		if err := rows.Scan(&id, &doc); err != nil {
			return nil, fmt.Errorf("scan policy: %w", err)
		}

		var p models.InsurancePolicy
		if err := json.Unmarshal(doc, &p); err != nil {
			return nil, fmt.Errorf("decode policy %s: %w", id, err)
		}
		p.ID = id
		p.UserID = userID
		policies = append(policies, p)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate policies: %w", err)
	}

	s.remember(ctx, key, policies)
	return policies, nil
}

func (s *Store) LoadCoverage(ctx context.Context, policyID string) (*models.PolicyCoverage, error) {
	var (
		inclusions, exclusions []byte
		notes                  string
	)
	err := s.db.QueryRowContext(ctx,
		`SELECT inclusions, exclusions, custom_notes FROM policy_coverages WHERE policy_id = $1`,
		policyID,
	).Scan(&inclusions, &exclusions, &notes)
	if err == sql.ErrNoRows {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("query coverage: %w", err)
	}

	cov := &models.PolicyCoverage{PolicyID: policyID, CustomNotes: notes}
	if err := json.Unmarshal(inclusions, &cov.Inclusions); err != nil {
		return nil, fmt.Errorf("decode inclusions: %w", err)
	}
	if err := json.Unmarshal(exclusions, &cov.Exclusions); err != nil {
		return nil, fmt.Errorf("decode exclusions: %w", err)
	}
	return cov, nil
}
