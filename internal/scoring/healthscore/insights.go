// internal/scoring/healthscore/insights.go
package healthscore

import (
	"fmt"
	"sort"
)

func buildInsights(a *assessment) []Insight {
	out := make([]Insight, 0, 7)
	f := a.figures
	b := a.benchmark

	if f.totalInvestments > 0 && a.allocationScore < 8 {
		out = append(out, Insight{
			Category: "Asset Allocation",
			Issue:    fmt.Sprintf("Poor asset allocation for age %d", a.age),
			Current:  fmt.Sprintf("Equity: %.0f%%, Debt: %.0f%%, Alt: %.0f%%", a.actual.Equity, a.actual.Debt, a.actual.Alternative),
			Target:   fmt.Sprintf("Equity: %.0f%%, Debt: %.0f%%, Alt: %.0f%%", a.ideal.Equity, a.ideal.Debt, a.ideal.Alternative),
			Action:   "Rebalance portfolio to age-appropriate allocation",
			Priority: PriorityMedium,
		})
	}

	if failed := a.checkpoints.Failed(); len(failed) > 0 {
		out = append(out, Insight{
			Category: "Financial Habits",
			Issue:    fmt.Sprintf("Missing %d financial stability checkpoints", len(failed)),
			Current:  fmt.Sprintf("%d/%d checkpoints met", a.checkpoints.Met(), checkpointCount),
			Target:   "6/6 checkpoints",
			Action:   "Fix critical gaps in financial planning",
			Priority: PriorityHigh,
		})
	}

	if a.savingsRate < b.SavingsTarget {
		shortfall := f.monthlyIncome*b.SavingsTarget - (f.monthlyIncome - f.monthlyExpenses)
		out = append(out, Insight{
			Category: "Savings",
			Issue:    "Low savings rate for your age",
			Current:  percent1(a.savingsRate),
			Target:   percent0(b.SavingsTarget) + "+",
			Action:   "Reduce expenses by " + rupees(shortfall),
			Priority: PriorityHigh,
		})
	}

	if a.debtToIncome > b.DebtTolerance {
		excess := f.emis - f.monthlyIncome*b.DebtTolerance
		out = append(out, Insight{
			Category: "Debt",
			Issue:    "High debt burden for your age",
			Current:  percent1(a.debtToIncome),
			Target:   "Below " + percent0(b.DebtTolerance),
			Action:   "Reduce EMIs by " + rupees(excess),
			Priority: PriorityHigh,
		})
	}

	if a.emergencyMonths < float64(b.EmergencyMonths) {
		gap := f.monthlyExpenses*float64(b.EmergencyMonths) - f.emergencyFund
		out = append(out, Insight{
			Category: "Emergency Fund",
			Issue:    fmt.Sprintf("Insufficient emergency fund (need %d months)", b.EmergencyMonths),
			Current:  months1(a.emergencyMonths),
			Target:   fmt.Sprintf("%d months", b.EmergencyMonths),
			Action:   "Build emergency fund by " + rupees(gap),
			Priority: PriorityHigh,
		})
	}

	if a.lifeRatio < 1.0 {
		gap := a.requiredLife - f.lifeCover
		out = append(out, Insight{
			Category: "Life Insurance",
			Issue:    fmt.Sprintf("Inadequate life insurance (need %dX at age %d)", a.lifeMultiple, a.age),
			Current:  lakhs1(f.lifeCover),
			Target:   lakhs0(a.requiredLife),
			Action:   "Increase life cover by " + lakhs0(gap),
			Priority: PriorityHigh,
		})
	}

	if a.healthRatio < 1.0 {
		gap := a.requiredHealth - f.healthCover
		out = append(out, Insight{
			Category: "Health Insurance",
			Issue:    "Inadequate health insurance",
			Current:  lakhs1(f.healthCover),
			Target:   lakhs0(a.requiredHealth),
			Action:   "Increase health cover by " + lakhs0(gap),
			Priority: PriorityHigh,
		})
	}

	sort.SliceStable(out, func(i, j int) bool {
		return out[i].Priority.rank() < out[j].Priority.rank()
	})
	if len(out) > maxInsights {
		out = out[:maxInsights]
	}
	return out
}
