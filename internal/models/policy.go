// internal/models/policy.go
package models

import (
	"errors"
	"fmt"

	"github.com/goccy/go-json"
)

type PolicyCategory string

const (
	CategoryLife    PolicyCategory = "life"
	CategoryHealth  PolicyCategory = "health"
	CategoryVehicle PolicyCategory = "vehicle"
	CategoryCards   PolicyCategory = "cards"
)

type PolicyType string

const (
	PolicyTermInsurance       PolicyType = "term_insurance"
	PolicyLICEndowment        PolicyType = "lic_endowment"
	PolicyULIP                PolicyType = "ulip"
	PolicyHealthIndividual    PolicyType = "health_individual"
	PolicyHealthFamilyFloater PolicyType = "health_family_floater"
	PolicyHealthCorporate     PolicyType = "health_corporate"
	PolicyVehicleCar          PolicyType = "vehicle_car"
	PolicyVehicleTwoWheeler   PolicyType = "vehicle_two_wheeler"
	PolicyCreditCard          PolicyType = "credit_card"
	PolicyDebitCard           PolicyType = "debit_card"
	PolicyLoanLinked          PolicyType = "loan_linked"
)

type PremiumFrequency string

const (
	PremiumMonthly    PremiumFrequency = "monthly"
	PremiumQuarterly  PremiumFrequency = "quarterly"
	PremiumHalfYearly PremiumFrequency = "half_yearly"
	PremiumYearly     PremiumFrequency = "yearly"
	PremiumOneTime    PremiumFrequency = "one_time"
)

var (
	ErrUnknownCategory   = errors.New("unknown policy category")
	ErrUnknownPolicyType = errors.New("unknown policy type")
	ErrCategoryMismatch  = errors.New("policy type does not belong to category")
)

var policyTypeCategory = map[PolicyType]PolicyCategory{
	PolicyTermInsurance:       CategoryLife,
	PolicyLICEndowment:        CategoryLife,
	PolicyULIP:                CategoryLife,
	PolicyHealthIndividual:    CategoryHealth,
	PolicyHealthFamilyFloater: CategoryHealth,
	PolicyHealthCorporate:     CategoryHealth,
	PolicyVehicleCar:          CategoryVehicle,
	PolicyVehicleTwoWheeler:   CategoryVehicle,
	PolicyCreditCard:          CategoryCards,
	PolicyDebitCard:           CategoryCards,
	PolicyLoanLinked:          CategoryCards,
}

func (c PolicyCategory) Valid() bool {
	switch c {
	case CategoryLife, CategoryHealth, CategoryVehicle, CategoryCards:
		return true
	}
	return false
}

type Nominee struct {
	Name         string  `json:"name"`
	Relationship string  `json:"relationship"`
	Percentage   float64 `json:"percentage"`
}

func (n *Nominee) UnmarshalJSON(data []byte) error {
	type alias Nominee
	v := alias{Percentage: 100}
	if err := json.Unmarshal(data, &v); err != nil {
		return err
	}
	*n = Nominee(v)
	return nil
}

// InsurancePolicy is a policy record owned by the user. Scoring reads only
// Category, PolicyType and SumAssured.
type InsurancePolicy struct {
	ID               string           `json:"id,omitempty"`
	UserID           string           `json:"user_id"`
	Category         PolicyCategory   `json:"category"`
	PolicyType       PolicyType       `json:"policy_type"`
	InsurerName      string           `json:"insurer_name"`
	PolicyNumber     string           `json:"policy_number"`
	StartDate        string           `json:"start_date"`
	EndDate          string           `json:"end_date"`
	PremiumAmount    float64          `json:"premium_amount"`
	PremiumFrequency PremiumFrequency `json:"premium_frequency"`
	SumAssured       float64          `json:"sum_assured"`
	NomineeAdded     bool             `json:"nominee_added"`
	Nominees         []Nominee        `json:"nominees"`
	DocumentURL      string           `json:"document_url,omitempty"`
	CreatedAt        string           `json:"created_at,omitempty"`
	UpdatedAt        string           `json:"updated_at,omitempty"`
}

// Validate checks the enumerations a stored policy must satisfy.
func (p *InsurancePolicy) Validate() error {
	if !p.Category.Valid() {
		return fmt.Errorf("%w: %q", ErrUnknownCategory, p.Category)
	}
	owner, ok := policyTypeCategory[p.PolicyType]
	if !ok {
		return fmt.Errorf("%w: %q", ErrUnknownPolicyType, p.PolicyType)
	}
	if owner != p.Category {
		return fmt.Errorf("%w: %s is a %s policy, not %s", ErrCategoryMismatch, p.PolicyType, owner, p.Category)
	}
	return nil
}

// AnnualPremium normalises the premium to a yearly outlay. One-time premiums
// have no recurring outlay.
func (p *InsurancePolicy) AnnualPremium() float64 {
	switch p.PremiumFrequency {
	case PremiumMonthly:
		return p.PremiumAmount * 12
	case PremiumQuarterly:
		return p.PremiumAmount * 4
	case PremiumHalfYearly:
		return p.PremiumAmount * 2
	case PremiumOneTime:
		return 0
	default:
		return p.PremiumAmount
	}
}
