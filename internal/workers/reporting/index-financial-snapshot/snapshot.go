// internal/workers/reporting/index-financial-snapshot/snapshot.go
package indexfinancialsnapshot

import (
	"math"
	"time"

	"github.com/arthverse/arthverse/internal/scoring/healthscore"
	"github.com/arthverse/arthverse/internal/scoring/protection"
)

// buildSnapshot flattens the two results into one searchable document.
// Either result may be nil.
func buildSnapshot(userID, scoreID, gapID string, hs *healthscore.ScoreResult, gap *protection.Result, at time.Time) *Snapshot {
	s := &Snapshot{
		UserID:           userID,
		ScoreID:          scoreID,
		GapID:            gapID,
		UnprotectedAreas: []string{},
		IndexedAt:        at.UTC().Format(time.RFC3339),
	}

	if hs != nil {
		score := hs.Score
		s.Score = &score
		s.Rating = string(hs.Rating)
		s.AgeCategory = string(hs.AgeCategory)

		f := hs.Financials
		s.MonthlyIncome = f.MonthlyIncome
		s.MonthlyExpenses = f.MonthlyExpenses
		s.NetWorth = f.NetWorth
		s.TotalAssets = f.TotalAssets
		s.TotalLiabilities = f.TotalLiabilities
		if f.MonthlyIncome > 0 {
			s.SavingsRate = math.Round(f.MonthlySavings/f.MonthlyIncome*10000) / 10000
		}
	}

	if gap != nil {
		score := gap.ProtectionScore
		s.ProtectionScore = &score
		if gap.UnprotectedAreas != nil {
			s.UnprotectedAreas = gap.UnprotectedAreas
		}
	}
	return s
}
