// internal/scoring/protection/cover.go
package protection

import "github.com/arthverse/arthverse/internal/models"

// RequiredLifeCover sizes the life cover as a multiple of annual income plus
// outstanding loans, net of existing investments, floored at zero.
func RequiredLifeCover(annualIncome, outstandingLoans, existingInvestments float64, dependents int) float64 {
	multiplier := 15.0
	switch {
	case dependents == 0:
		multiplier = 10
	case dependents <= 2:
		multiplier = 12
	}

	required := annualIncome*multiplier + outstandingLoans - existingInvestments
	if required < 0 {
		return 0
	}
	return required
}

// RequiredHealthCover sizes the family health cover from the city tier base.
// Larger families stack both uplifts.
func RequiredHealthCover(tier models.CityTier, familySize int) float64 {
	var base float64
	switch tier {
	case models.CityTier1:
		base = 1000000
	case models.CityTier2:
		base = 700000
	default:
		base = 500000
	}

	if familySize > 1 {
		base *= 1.5
	}
	if familySize > 3 {
		base *= 1.2
	}
	return base
}
