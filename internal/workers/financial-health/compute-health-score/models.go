// internal/workers/financial-health/compute-health-score/models.go
package computehealthscore

import (
	"github.com/goccy/go-json"

	"github.com/arthverse/arthverse/internal/scoring/healthscore"
)

// Input carries an inline questionnaire, or only the user id when the stored
// questionnaire should be scored.
type Input struct {
	UserID        string          `json:"userId"`
	Questionnaire json.RawMessage `json:"questionnaire,omitempty"`
	Age           *int            `json:"age,omitempty"`
}

type Output struct {
	ScoreID      string                   `json:"scoreId"`
	Score        int                      `json:"score"`
	Rating       string                   `json:"rating"`
	CalculatedAt string                   `json:"calculatedAt"`
	Result       *healthscore.ScoreResult `json:"result"`
}
