// internal/workers/protection/evaluate-protection-gap/models.go
package evaluateprotectiongap

import (
	"github.com/arthverse/arthverse/internal/models"
	"github.com/arthverse/arthverse/internal/scoring/protection"
)

// Input may carry the profile and policies inline. A nil Policies loads the
// stored policies; an empty list means the user holds none.
type Input struct {
	UserID   string                    `json:"userId"`
	Profile  *models.RiskProfile       `json:"profile,omitempty"`
	Policies *[]models.InsurancePolicy `json:"policies,omitempty"`
}

type Output struct {
	GapID            string             `json:"gapId"`
	ProtectionScore  int                `json:"protectionScore"`
	UnprotectedAreas []string           `json:"unprotectedAreas"`
	CalculatedAt     string             `json:"calculatedAt"`
	Result           *protection.Result `json:"result"`
}
