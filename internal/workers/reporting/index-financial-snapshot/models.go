// internal/workers/reporting/index-financial-snapshot/models.go
package indexfinancialsnapshot

import (
	"github.com/arthverse/arthverse/internal/scoring/healthscore"
	"github.com/arthverse/arthverse/internal/scoring/protection"
)

// Input carries the results of the preceding tasks. Absent results are read
// from the latest stored ones.
type Input struct {
	UserID        string                   `json:"userId"`
	ScoreID       string                   `json:"scoreId,omitempty"`
	GapID         string                   `json:"gapId,omitempty"`
	HealthScore   *healthscore.ScoreResult `json:"healthScore,omitempty"`
	ProtectionGap *protection.Result       `json:"protectionGap,omitempty"`
}

type Output struct {
	DocumentID string `json:"documentId"`
	Indexed    bool   `json:"indexed"`
	Result     string `json:"indexResult"`
}

// Snapshot is the document stored in the snapshot index.
type Snapshot struct {
	UserID           string   `json:"userId"`
	ScoreID          string   `json:"scoreId,omitempty"`
	GapID            string   `json:"gapId,omitempty"`
	Score            *int     `json:"score,omitempty"`
	Rating           string   `json:"rating,omitempty"`
	AgeCategory      string   `json:"ageCategory,omitempty"`
	ProtectionScore  *int     `json:"protectionScore,omitempty"`
	MonthlyIncome    float64  `json:"monthlyIncome"`
	MonthlyExpenses  float64  `json:"monthlyExpenses"`
	SavingsRate      float64  `json:"savingsRate"`
	NetWorth         float64  `json:"netWorth"`
	TotalAssets      float64  `json:"totalAssets"`
	TotalLiabilities float64  `json:"totalLiabilities"`
	UnprotectedAreas []string `json:"unprotectedAreas"`
	IndexedAt        string   `json:"indexedAt"`
}
