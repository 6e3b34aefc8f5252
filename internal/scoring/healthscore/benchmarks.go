// internal/scoring/healthscore/benchmarks.go
package healthscore

// AgeCategory selects the benchmark row for an age.
type AgeCategory string

const (
	EarlyCareer   AgeCategory = "early_career"
	Building      AgeCategory = "building"
	Accumulation  AgeCategory = "accumulation"
	PeakEarning   AgeCategory = "peak_earning"
	PreRetirement AgeCategory = "pre_retirement"
)

// Benchmark holds the age-specific targets every component is measured against.
type Benchmark struct {
	SavingsTarget      float64 // fraction of monthly income
	EmergencyMonths    int
	InvestmentMultiple float64 // of annual income
	NetWorthMultiple   float64 // of annual income
	DebtTolerance      float64 // EMI fraction of monthly income
}

// Allocation is an equity/debt/alternative split in percent.
type Allocation struct {
	Equity      float64
	Debt        float64
	Alternative float64
}

const defaultAge = 30

// CategorizeAge buckets an age into its benchmark category.
func CategorizeAge(age int) AgeCategory {
	switch {
	case age < 25:
		return EarlyCareer
	case age < 35:
		return Building
	case age < 45:
		return Accumulation
	case age < 55:
		return PeakEarning
	default:
		return PreRetirement
	}
}

// BenchmarkFor returns the fixed targets for a category. Unknown categories
// fall back to Building.
func BenchmarkFor(c AgeCategory) Benchmark {
	switch c {
	case EarlyCareer:
		return Benchmark{SavingsTarget: 0.15, EmergencyMonths: 3, InvestmentMultiple: 0.3, NetWorthMultiple: 0.5, DebtTolerance: 0.35}
	case Accumulation:
		return Benchmark{SavingsTarget: 0.25, EmergencyMonths: 8, InvestmentMultiple: 2.5, NetWorthMultiple: 3.0, DebtTolerance: 0.35}
	case PeakEarning:
		return Benchmark{SavingsTarget: 0.30, EmergencyMonths: 10, InvestmentMultiple: 5.0, NetWorthMultiple: 5.0, DebtTolerance: 0.25}
	case PreRetirement:
		return Benchmark{SavingsTarget: 0.35, EmergencyMonths: 12, InvestmentMultiple: 8.0, NetWorthMultiple: 8.0, DebtTolerance: 0.15}
	default:
		return Benchmark{SavingsTarget: 0.20, EmergencyMonths: 6, InvestmentMultiple: 1.0, NetWorthMultiple: 1.5, DebtTolerance: 0.40}
	}
}

// IdealAllocation applies the "100 minus age" rule with fixed bounds.
func IdealAllocation(age int) Allocation {
	equity := clamp(float64(100-age), 20, 80)
	debt := clamp(float64(age-20), 15, 60)
	alt := clamp(100-equity-debt, 5, 20)
	return Allocation{Equity: equity, Debt: debt, Alternative: alt}
}

// LifeCoverMultiple is the multiple of annual income a life cover should reach.
func LifeCoverMultiple(age int) int {
	switch {
	case age < 35:
		return 8
	case age < 45:
		return 10
	case age < 55:
		return 12
	default:
		return 15
	}
}

// HealthCoverPerPerson is the recommended health sum insured per family member.
func HealthCoverPerPerson(age int) float64 {
	switch {
	case age < 35:
		return 500000
	case age < 45:
		return 750000
	case age < 55:
		return 1000000
	default:
		return 1500000
	}
}

func clamp(v, lo, hi float64) float64 {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}
