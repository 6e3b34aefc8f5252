// internal/scoring/healthscore/types.go
package healthscore

// Rating is the band a score falls into.
type Rating string

const (
	RatingExcellent Rating = "Excellent"
	RatingVeryGood  Rating = "Very Good"
	RatingGood      Rating = "Good"
	RatingFair      Rating = "Fair"
	RatingPoor      Rating = "Poor"
)

// Priority orders insights, most urgent first.
type Priority string

const (
	PriorityHigh   Priority = "HIGH"
	PriorityMedium Priority = "MEDIUM"
	PriorityLow    Priority = "LOW"
)

func (p Priority) rank() int {
	switch p {
	case PriorityHigh:
		return 0
	case PriorityMedium:
		return 1
	default:
		return 2
	}
}

const (
	checkpointCount = 6
	maxInsights     = 10
)

// ScoreResult is the wire shape consumed by the report renderer and UI.
type ScoreResult struct {
	Score           int              `json:"score"`
	Rating          Rating           `json:"rating"`
	Message         string           `json:"message"`
	Age             int              `json:"age"`
	AgeCategory     AgeCategory      `json:"age_category"`
	Components      []ComponentScore `json:"components"`
	Insights        []Insight        `json:"insights"`
	Financials      Financials       `json:"financials"`
	AssetAllocation AssetAllocation  `json:"asset_allocation"`
	Checkpoints     Checkpoints      `json:"checkpoints"`
}

// RawScore sums the component points before rescaling.
func (r *ScoreResult) RawScore() int {
	total := 0
	for _, c := range r.Components {
		total += c.Score
	}
	return total
}

// ComponentScore is one weighted component with its display value and target.
type ComponentScore struct {
	Name   string `json:"name"`
	Score  int    `json:"score"`
	Max    int    `json:"max"`
	Value  string `json:"value"`
	Target string `json:"target"`
}

// Insight is a single recommendation raised by a weak component.
type Insight struct {
	Category string   `json:"category"`
	Issue    string   `json:"issue"`
	Current  string   `json:"current"`
	Target   string   `json:"target"`
	Action   string   `json:"action"`
	Priority Priority `json:"priority"`
}

// Financials are the monthly and balance-sheet figures behind the score.
type Financials struct {
	MonthlyIncome    float64 `json:"monthly_income"`
	MonthlyExpenses  float64 `json:"monthly_expenses"`
	MonthlySavings   float64 `json:"monthly_savings"`
	TotalAssets      float64 `json:"total_assets"`
	TotalLiabilities float64 `json:"total_liabilities"`
	NetWorth         float64 `json:"net_worth"`
}

// AssetAllocation compares the current split with the ideal for the age category.
type AssetAllocation struct {
	EquityPercent      float64 `json:"equity_percent"`
	DebtPercent        float64 `json:"debt_percent"`
	AlternativePercent float64 `json:"alternative_percent"`
	IdealEquity        float64 `json:"ideal_equity"`
	IdealDebt          float64 `json:"ideal_debt"`
	IdealAlternative   float64 `json:"ideal_alternative"`
	Deviation          float64 `json:"deviation"`
}

// Checkpoints are the six financial hygiene indicators.
type Checkpoints struct {
	HasHealthInsurance bool `json:"has_health_insurance"`
	HasTermInsurance   bool `json:"has_term_insurance"`
	HasEmergencyFund   bool `json:"has_emergency_fund"`
	FilesITR           bool `json:"files_itr"`
	InvestsRegularly   bool `json:"invests_regularly"`
	HasCreditCard      bool `json:"has_credit_card"`
}

func (c Checkpoints) values() [checkpointCount]bool {
	return [checkpointCount]bool{
		c.HasHealthInsurance,
		c.HasTermInsurance,
		c.HasEmergencyFund,
		c.FilesITR,
		c.InvestsRegularly,
		c.HasCreditCard,
	}
}

// Met counts the checkpoints that hold.
func (c Checkpoints) Met() int {
	n := 0
	for _, ok := range c.values() {
		if ok {
			n++
		}
	}
	return n
}

// Failed lists the keys of unmet checkpoints in their fixed order.
func (c Checkpoints) Failed() []string {
	keys := [checkpointCount]string{
		"has_health_insurance",
		"has_term_insurance",
		"has_emergency_fund",
		"files_itr",
		"invests_regularly",
		"has_credit_card",
	}
	var out []string
	for i, ok := range c.values() {
		if !ok {
			out = append(out, keys[i])
		}
	}
	return out
}
