// internal/scoring/protection/evaluate.go

// Package protection evaluates how well a user's insurance policies cover
// their life, health, vehicle and card risks.
package protection

import (
	"fmt"

	"github.com/arthverse/arthverse/internal/models"
)

type Status string

const (
	StatusCovered      Status = "covered"
	StatusUnderinsured Status = "underinsured"
	StatusNotInsured   Status = "not_insured"
	StatusUnknown      Status = "unknown"
)

const (
	maxActionItems     = 6
	actionsPerCategory = 2
	lakh               = 100000

	// category shares of the protection score, in percent
	weightLife    = 40
	weightHealth  = 35
	weightVehicle = 15
	weightCards   = 10
)

func (s Status) points() int {
	switch s {
	case StatusCovered:
		return 100
	case StatusUnderinsured:
		return 50
	case StatusUnknown:
		return 25
	default:
		return 0
	}
}

// RiskCategory is the verdict for one insurance area. GapAmount is nil when
// the area is only checked for presence.
type RiskCategory struct {
	Category        string   `json:"category"`
	Status          Status   `json:"status"`
	Message         string   `json:"message"`
	GapAmount       *float64 `json:"gap_amount"`
	Recommendations []string `json:"recommendations"`
}

type Result struct {
	ProtectionScore  int          `json:"protection_score"`
	LifeInsurance    RiskCategory `json:"life_insurance"`
	HealthInsurance  RiskCategory `json:"health_insurance"`
	VehicleInsurance RiskCategory `json:"vehicle_insurance"`
	CardsInsurance   RiskCategory `json:"cards_insurance"`
	UnprotectedAreas []string     `json:"unprotected_areas"`
	ActionItems      []string     `json:"action_items"`
}

// Categories returns the four verdicts in evaluation order.
func (r *Result) Categories() []RiskCategory {
	return []RiskCategory{r.LifeInsurance, r.HealthInsurance, r.VehicleInsurance, r.CardsInsurance}
}

// Evaluate scores the protection gap of a profile against its policies. The
// inputs are read only.
func Evaluate(profile *models.RiskProfile, policies []models.InsurancePolicy) *Result {
	if profile == nil {
		profile = models.NewRiskProfile("")
	}

	r := &Result{
		LifeInsurance:    evaluateLife(profile, policies),
		HealthInsurance:  evaluateHealth(profile, policies),
		VehicleInsurance: evaluatePresence(policies, models.CategoryVehicle),
		CardsInsurance:   evaluatePresence(policies, models.CategoryCards),
	}

	weighted := r.LifeInsurance.Status.points()*weightLife +
		r.HealthInsurance.Status.points()*weightHealth +
		r.VehicleInsurance.Status.points()*weightVehicle +
		r.CardsInsurance.Status.points()*weightCards
	r.ProtectionScore = weighted / 100

	r.UnprotectedAreas = unprotectedAreas(r)
	r.ActionItems = actionItems(r)
	return r
}

func evaluateLife(profile *models.RiskProfile, policies []models.InsurancePolicy) RiskCategory {
	var total float64
	hasTerm := false
	for _, p := range policies {
		if p.Category != models.CategoryLife {
			continue
		}
		total += p.SumAssured
		if p.PolicyType == models.PolicyTermInsurance {
			hasTerm = true
		}
	}

	required := RequiredLifeCover(profile.AnnualIncome, profile.OutstandingLoans, profile.ExistingInvestments, profile.Dependents)

	if total == 0 {
		return RiskCategory{
			Category:  "Life Insurance",
			Status:    StatusNotInsured,
			Message:   "No life insurance coverage found",
			GapAmount: amount(required),
			Recommendations: []string{
				"Get a pure term insurance immediately",
				fmt.Sprintf("Recommended cover: ₹%.0f lakh", required/lakh),
				"Compare quotes from LIC, HDFC, ICICI, Max Life",
			},
		}
	}

	ratio := 1.0
	if required > 0 {
		ratio = total / required
	}

	gap := required - total
	switch {
	case ratio >= 0.9:
		return RiskCategory{
			Category:        "Life Insurance",
			Status:          StatusCovered,
			Message:         "Adequately covered",
			GapAmount:       amount(0),
			Recommendations: []string{"Review coverage annually", "Ensure nominees are updated"},
		}
	case ratio >= 0.5:
		next := "Consider an additional term plan"
		if hasTerm {
			next = "Top up existing term plan"
		}
		return RiskCategory{
			Category:  "Life Insurance",
			Status:    StatusUnderinsured,
			Message:   fmt.Sprintf("Cover short by ₹%.0f lakh", gap/lakh),
			GapAmount: amount(gap),
			Recommendations: []string{
				fmt.Sprintf("Increase life cover by ₹%.0f lakh", gap/lakh),
				next,
			},
		}
	default:
		return RiskCategory{
			Category:  "Life Insurance",
			Status:    StatusUnderinsured,
			Message:   fmt.Sprintf("Severely underinsured by ₹%.0f lakh", gap/lakh),
			GapAmount: amount(gap),
			Recommendations: []string{
				"Urgent: Get adequate life insurance",
				fmt.Sprintf("You need at least ₹%.0f lakh cover", required/lakh),
				"Pure term insurance is most cost-effective",
			},
		}
	}
}

func evaluateHealth(profile *models.RiskProfile, policies []models.InsurancePolicy) RiskCategory {
	var total float64
	count := 0
	onlyCorporate := true
	for _, p := range policies {
		if p.Category != models.CategoryHealth {
			continue
		}
		count++
		total += p.SumAssured
		if p.PolicyType != models.PolicyHealthCorporate {
			onlyCorporate = false
		}
	}

	required := RequiredHealthCover(profile.CityTier, profile.FamilySize())

	if total == 0 {
		return RiskCategory{
			Category:  "Health Insurance",
			Status:    StatusNotInsured,
			Message:   "No health insurance found",
			GapAmount: amount(required),
			Recommendations: []string{
				"Get health insurance immediately",
				fmt.Sprintf("Recommended: ₹%.0f lakh family floater", required/lakh),
				"Consider: Star Health, HDFC Ergo, Care Health",
			},
		}
	}

	// Corporate-only cover is never adequate, whatever the amount.
	if onlyCorporate && count > 0 {
		return RiskCategory{
			Category:  "Health Insurance",
			Status:    StatusUnderinsured,
			Message:   "Only corporate insurance - Risky",
			GapAmount: amount(required),
			Recommendations: []string{
				"Corporate insurance ends with job",
				"Get personal health insurance as backup",
				fmt.Sprintf("Recommended: ₹%.0f lakh personal cover", required/lakh),
			},
		}
	}

	ratio := 1.0
	if required > 0 {
		ratio = total / required
	}

	if ratio >= 0.8 {
		return RiskCategory{
			Category:        "Health Insurance",
			Status:          StatusCovered,
			Message:         "Adequately covered",
			GapAmount:       amount(0),
			Recommendations: []string{"Review super top-up options", "Check for critical illness rider"},
		}
	}

	gap := required - total
	return RiskCategory{
		Category:  "Health Insurance",
		Status:    StatusUnderinsured,
		Message:   fmt.Sprintf("Cover short by ₹%.0f lakh", gap/lakh),
		GapAmount: amount(gap),
		Recommendations: []string{
			fmt.Sprintf("Increase health cover by ₹%.0f lakh", gap/lakh),
			"Consider a super top-up plan",
			"Add critical illness cover if not present",
		},
	}
}

// evaluatePresence only checks whether any policy of the category exists;
// absence means "not reviewed", not a confirmed gap.
func evaluatePresence(policies []models.InsurancePolicy, category models.PolicyCategory) RiskCategory {
	found := false
	for _, p := range policies {
		if p.Category == category {
			found = true
			break
		}
	}

	if category == models.CategoryVehicle {
		if !found {
			return RiskCategory{
				Category:        "Vehicle Insurance",
				Status:          StatusUnknown,
				Message:         "No vehicle insurance added",
				Recommendations: []string{"Add your vehicle insurance details to evaluate"},
			}
		}
		return RiskCategory{
			Category: "Vehicle Insurance",
			Status:   StatusCovered,
			Message:  "Vehicle insurance active",
			Recommendations: []string{
				"Ensure zero depreciation add-on",
				"Check roadside assistance coverage",
				"Review before renewal for better rates",
			},
		}
	}

	if !found {
		return RiskCategory{
			Category: "Cards Insurance",
			Status:   StatusUnknown,
			Message:  "Card benefits not reviewed",
			Recommendations: []string{
				"Add your credit/debit cards",
				"Review complimentary insurance benefits",
				"Activate travel insurance if available",
			},
		}
	}
	return RiskCategory{
		Category: "Cards Insurance",
		Status:   StatusCovered,
		Message:  "Card benefits documented",
		Recommendations: []string{
			"Ensure card insurance is activated",
			"Check accidental death cover amount",
			"Review travel insurance terms",
		},
	}
}

func unprotectedAreas(r *Result) []string {
	out := make([]string, 0, 4)
	switch r.LifeInsurance.Status {
	case StatusNotInsured:
		out = append(out, "No life/term insurance")
	case StatusUnderinsured:
		var gap float64
		if r.LifeInsurance.GapAmount != nil {
			gap = *r.LifeInsurance.GapAmount
		}
		out = append(out, fmt.Sprintf("Life insurance gap: ₹%.0fL", gap/lakh))
	}
	switch r.HealthInsurance.Status {
	case StatusNotInsured:
		out = append(out, "No health insurance")
	case StatusUnderinsured:
		out = append(out, "Health insurance inadequate")
	}
	if r.VehicleInsurance.Status == StatusUnknown {
		out = append(out, "Vehicle insurance not reviewed")
	}
	if r.CardsInsurance.Status == StatusUnknown {
		out = append(out, "Card insurance benefits unknown")
	}
	return out
}

func actionItems(r *Result) []string {
	out := make([]string, 0, maxActionItems)
	for _, c := range r.Categories() {
		if c.Status == StatusCovered {
			continue
		}
		n := len(c.Recommendations)
		if n > actionsPerCategory {
			n = actionsPerCategory
		}
		out = append(out, c.Recommendations[:n]...)
	}
	if len(out) > maxActionItems {
		out = out[:maxActionItems]
	}
	return out
}

func amount(v float64) *float64 {
	return &v
}
