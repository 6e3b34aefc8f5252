// internal/scoring/healthscore/components.go
package healthscore

import "math"

const (
	maxSavings    = 25
	maxDebt       = 20
	maxEmergency  = 15
	maxInvestment = 15
	maxNetWorth   = 15
	maxAllocation = 10
	maxHabits     = 10
	maxLife       = 5
	maxHealth     = 5

	maxRaw = maxSavings + maxDebt + maxEmergency + maxInvestment + maxNetWorth +
		maxAllocation + maxHabits + maxLife + maxHealth
)

// ladder is the multiple of the benchmark each step of a "higher is better"
// component must reach.
var ladder = [6]float64{1.5, 1.2, 1.0, 0.75, 0.50, 0.25}

func climb(value, target float64, points [6]int) int {
	for i, m := range ladder {
		if value >= target*m {
			return points[i]
		}
	}
	return 0
}

func savingsScore(rate, target float64) int {
	return climb(rate, target, [6]int{25, 22, 18, 14, 10, 5})
}

func debtScore(dti, tolerance float64) int {
	switch {
	case dti == 0:
		return 20
	case dti <= tolerance*0.25:
		return 18
	case dti <= tolerance*0.50:
		return 16
	case dti <= tolerance*0.75:
		return 12
	case dti <= tolerance:
		return 8
	case dti <= tolerance*1.25:
		return 4
	default:
		return 0
	}
}

func emergencyScore(months float64, target int) int {
	return climb(months, float64(target), [6]int{15, 14, 12, 9, 6, 3})
}

func investmentScore(ratio, target float64) int {
	return climb(ratio, target, [6]int{15, 13, 11, 9, 6, 3})
}

// netWorthScore keeps 2 points for any non-negative net worth.
func netWorthScore(ratio, target float64) int {
	switch {
	case ratio >= target*1.5:
		return 15
	case ratio >= target*1.2:
		return 13
	case ratio >= target:
		return 11
	case ratio >= target*0.75:
		return 8
	case ratio >= target*0.50:
		return 5
	case ratio >= 0:
		return 2
	default:
		return 0
	}
}

func allocationScore(totalInvestments, deviation float64) int {
	switch {
	case totalInvestments == 0:
		return 0
	case deviation <= 20:
		return 10
	case deviation <= 40:
		return 8
	case deviation <= 60:
		return 6
	case deviation <= 80:
		return 4
	default:
		return 2
	}
}

func habitsScore(met int) int {
	return int(math.RoundToEven(float64(met) / checkpointCount * 10))
}

func coverScore(ratio float64) int {
	switch {
	case ratio >= 1.0:
		return 5
	case ratio >= 0.75:
		return 4
	case ratio >= 0.50:
		return 3
	case ratio >= 0.25:
		return 2
	case ratio > 0:
		return 1
	default:
		return 0
	}
}

func coverRatio(cover, required float64) float64 {
	if required > 0 {
		return cover / required
	}
	return 0
}

// normalize rescales a raw total out of maxRaw to 0-100, halves to even.
func normalize(raw int) int {
	return int(math.RoundToEven(float64(raw) / maxRaw * 100))
}
