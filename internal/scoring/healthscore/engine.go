// internal/scoring/healthscore/engine.go

// Package healthscore computes the age-benchmarked financial health score of a
// questionnaire. Compute is pure and safe for concurrent use.
package healthscore

import (
	"fmt"
	"math"

	"github.com/arthverse/arthverse/internal/models"
)

// assessment carries the intermediate values shared by components and insights.
type assessment struct {
	age       int
	category  AgeCategory
	benchmark Benchmark
	figures   figures

	savingsRate     float64
	debtToIncome    float64
	emergencyMonths float64
	investmentRatio float64
	netWorthRatio   float64

	actual          Allocation
	ideal           Allocation
	deviation       float64
	allocationScore int

	checkpoints Checkpoints

	lifeMultiple   int
	requiredLife   float64
	lifeRatio      float64
	perPerson      float64
	requiredHealth float64
	healthRatio    float64
}

// ResolveAge picks the explicit age, then the questionnaire age, then 30.
// Zero counts as unset at both levels.
func ResolveAge(q *models.Questionnaire, age int) int {
	if age > 0 {
		return age
	}
	if q != nil && q.Age > 0 {
		return q.Age.Int()
	}
	return defaultAge
}

// Compute scores a questionnaire for a user of the given age. A nil
// questionnaire scores as an empty one.
func Compute(q *models.Questionnaire, age int) *ScoreResult {
	if q == nil {
		q = &models.Questionnaire{}
	}
	a := assess(q, ResolveAge(q, age))

	components := []ComponentScore{
		{
			Name:   "Savings Rate",
			Score:  savingsScore(a.savingsRate, a.benchmark.SavingsTarget),
			Max:    maxSavings,
			Value:  percent1(a.savingsRate),
			Target: percent0(a.benchmark.SavingsTarget),
		},
		{
			Name:   "Debt Management",
			Score:  debtScore(a.debtToIncome, a.benchmark.DebtTolerance),
			Max:    maxDebt,
			Value:  percent1(a.debtToIncome),
			Target: "<" + percent0(a.benchmark.DebtTolerance),
		},
		{
			Name:   "Emergency Fund",
			Score:  emergencyScore(a.emergencyMonths, a.benchmark.EmergencyMonths),
			Max:    maxEmergency,
			Value:  months1(a.emergencyMonths),
			Target: fmt.Sprintf("%d months", a.benchmark.EmergencyMonths),
		},
		{
			Name:   "Investment Portfolio",
			Score:  investmentScore(a.investmentRatio, a.benchmark.InvestmentMultiple),
			Max:    maxInvestment,
			Value:  lakhs1(a.figures.totalInvestments),
			Target: multiple(a.benchmark.InvestmentMultiple),
		},
		{
			Name:   "Net Worth",
			Score:  netWorthScore(a.netWorthRatio, a.benchmark.NetWorthMultiple),
			Max:    maxNetWorth,
			Value:  lakhs1(a.figures.netWorth),
			Target: multiple(a.benchmark.NetWorthMultiple),
		},
		{
			Name:   "Asset Allocation",
			Score:  a.allocationScore,
			Max:    maxAllocation,
			Value:  fmt.Sprintf("%.0f%% deviation", a.deviation),
			Target: "Age-appropriate mix",
		},
		{
			Name:   "Financial Habits",
			Score:  habitsScore(a.checkpoints.Met()),
			Max:    maxHabits,
			Value:  fmt.Sprintf("%d/%d checkpoints", a.checkpoints.Met(), checkpointCount),
			Target: "6/6 checkpoints",
		},
		{
			Name:   "Life Insurance",
			Score:  coverScore(a.lifeRatio),
			Max:    maxLife,
			Value:  percent0(a.lifeRatio),
			Target: fmt.Sprintf("%dX income", a.lifeMultiple),
		},
		{
			Name:   "Health Insurance",
			Score:  coverScore(a.healthRatio),
			Max:    maxHealth,
			Value:  percent0(a.healthRatio),
			Target: fmt.Sprintf("₹%.1fL/person", a.perPerson/lakh),
		},
	}

	result := &ScoreResult{
		Age:         a.age,
		AgeCategory: a.category,
		Components:  components,
		Checkpoints: a.checkpoints,
	}
	result.Score = normalize(result.RawScore())
	result.Rating, result.Message = Rate(result.Score)
	result.Insights = buildInsights(a)

	f := a.figures
	result.Financials = Financials{
		MonthlyIncome:    round(f.monthlyIncome, 2),
		MonthlyExpenses:  round(f.monthlyExpenses, 2),
		MonthlySavings:   round(f.monthlyIncome-f.monthlyExpenses, 2),
		TotalAssets:      round(f.totalAssets, 2),
		TotalLiabilities: round(f.totalLiabilities, 2),
		NetWorth:         round(f.netWorth, 2),
	}
	result.AssetAllocation = AssetAllocation{
		EquityPercent:      round(a.actual.Equity, 1),
		DebtPercent:        round(a.actual.Debt, 1),
		AlternativePercent: round(a.actual.Alternative, 1),
		IdealEquity:        round(a.ideal.Equity, 1),
		IdealDebt:          round(a.ideal.Debt, 1),
		IdealAlternative:   round(a.ideal.Alternative, 1),
		Deviation:          round(a.deviation, 1),
	}

	return result
}

func assess(q *models.Questionnaire, age int) *assessment {
	f := tally(q)
	category := CategorizeAge(age)

	a := &assessment{
		age:       age,
		category:  category,
		benchmark: BenchmarkFor(category),
		figures:   f,

		savingsRate:     f.savingsRate(),
		debtToIncome:    f.debtToIncome(),
		emergencyMonths: f.emergencyMonths(),
		investmentRatio: f.investmentRatio(),
		netWorthRatio:   f.netWorthRatio(),

		actual: f.split(),
		ideal:  IdealAllocation(age),
	}

	// Deviation is reported even with nothing invested; only the score ignores it.
	a.deviation = math.Abs(a.actual.Equity-a.ideal.Equity) +
		math.Abs(a.actual.Debt-a.ideal.Debt) +
		math.Abs(a.actual.Alternative-a.ideal.Alternative)
	a.allocationScore = allocationScore(f.totalInvestments, a.deviation)

	a.checkpoints = Checkpoints{
		HasHealthInsurance: q.HasHealthInsurance.Bool(),
		HasTermInsurance:   q.HasTermInsurance.Bool(),
		HasEmergencyFund:   f.emergencyFund >= f.monthlyExpenses*3,
		FilesITR:           q.FilesITRYearly.Bool(),
		InvestsRegularly:   f.totalInvestments > 0,
		HasCreditCard:      len(q.CreditCards) > 0,
	}

	a.lifeMultiple = LifeCoverMultiple(age)
	a.requiredLife = f.annualIncome * float64(a.lifeMultiple)
	a.lifeRatio = coverRatio(f.lifeCover, a.requiredLife)

	a.perPerson = HealthCoverPerPerson(age)
	a.requiredHealth = float64(f.dependents+1) * a.perPerson
	a.healthRatio = coverRatio(f.healthCover, a.requiredHealth)

	return a
}

// Rate maps a 0-100 score to its rating and guidance message.
func Rate(score int) (Rating, string) {
	switch {
	case score >= 85:
		return RatingExcellent, "Outstanding financial health! You're on track for long-term wealth."
	case score >= 70:
		return RatingVeryGood, "Strong financial position. A few tweaks will make it excellent."
	case score >= 55:
		return RatingGood, "Decent financial health, but room for significant improvement."
	case score >= 40:
		return RatingFair, "You need to address several financial gaps urgently."
	default:
		return RatingPoor, "Critical financial situation. Immediate action required."
	}
}
