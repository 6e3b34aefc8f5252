// internal/models/risk_profile.go
package models

import "github.com/goccy/go-json"

type CityTier string

const (
	CityTier1 CityTier = "tier1"
	CityTier2 CityTier = "tier2"
	CityTier3 CityTier = "tier3"
)

// RiskProfile holds the personal and financial context used to size
// insurance needs.
type RiskProfile struct {
	UserID string `json:"user_id"`

	Age            int      `json:"age"`
	MaritalStatus  string   `json:"marital_status"`
	Dependents     int      `json:"dependents"`
	EarningMembers int      `json:"earning_members"`
	CityTier       CityTier `json:"city_tier"`

	AnnualIncome        float64 `json:"annual_income"`
	OutstandingLoans    float64 `json:"outstanding_loans"`
	ExistingInvestments float64 `json:"existing_investments"`
	EmergencyFundMonths int     `json:"emergency_fund_months"`

	HasPureTerm    bool    `json:"has_pure_term"`
	TotalLifeCover float64 `json:"total_life_cover"`

	HealthCoverType       string  `json:"health_cover_type"` // individual, floater, corporate_only
	HealthSumInsured      float64 `json:"health_sum_insured"`
	EmployerInsuranceOnly bool    `json:"employer_insurance_only"`

	VehicleCoverType    string `json:"vehicle_cover_type"` // comprehensive, third_party_only
	HasZeroDepreciation bool   `json:"has_zero_depreciation"`
	HasOwnDamage        bool   `json:"has_own_damage"`

	KnowsCardBenefits   bool    `json:"knows_card_benefits"`
	CardAccidentalCover float64 `json:"card_accidental_cover"`

	CreatedAt string `json:"created_at,omitempty"`
	UpdatedAt string `json:"updated_at,omitempty"`
}

func NewRiskProfile(userID string) *RiskProfile {
	return &RiskProfile{
		UserID:         userID,
		EarningMembers: 1,
		CityTier:       CityTier1,
	}
}

func (r *RiskProfile) UnmarshalJSON(data []byte) error {
	type alias RiskProfile
	v := alias{EarningMembers: 1, CityTier: CityTier1}
	if err := json.Unmarshal(data, &v); err != nil {
		return err
	}
	*r = RiskProfile(v)
	return nil
}

// FamilySize counts the insured person and their dependents.
func (r *RiskProfile) FamilySize() int {
	return 1 + r.Dependents
}
