// internal/scoring/healthscore/figures.go
package healthscore

import "github.com/arthverse/arthverse/internal/models"

// figures are the aggregates every component reads from.
type figures struct {
	monthlyIncome   float64
	annualIncome    float64
	monthlyExpenses float64
	emis            float64

	equityMF      float64
	debtMF        float64
	stocks        float64
	ppfNPS        float64
	fixedDeposits float64
	realEstate    float64
	gold          float64

	totalInvestments float64
	emergencyFund    float64
	totalAssets      float64
	totalLiabilities float64
	netWorth         float64

	lifeCover   float64
	healthCover float64
	dependents  int
}

func tally(q *models.Questionnaire) figures {
	var f figures

	f.monthlyIncome = (q.RentalProperty1.Float() +
		q.RentalProperty2.Float() +
		q.SalaryIncome.Float() +
		q.BusinessIncome.Float() +
		q.InterestIncome.Float() +
		q.DividendIncome.Float() +
		q.CapitalGains.Float() +
		q.FreelanceIncome.Float() +
		q.OtherIncome.Float()) / 12
	for _, e := range q.IncomeEntries {
		f.monthlyIncome += e.Amount.Float()
	}
	f.annualIncome = f.monthlyIncome * 12

	expenses := []models.Amount{
		q.RentExpense, q.EMIs, q.TermInsurance, q.HealthInsurance, q.HouseholdMaid,
		q.Groceries, q.FoodDining, q.Fuel, q.Travel, q.Shopping, q.OnlineShopping,
		q.Electronics, q.Entertainment, q.TelecomUtilities, q.Healthcare, q.Education,
		q.CashWithdrawals, q.ForeignTransactions,
	}
	for _, e := range expenses {
		f.monthlyExpenses += e.Float()
	}
	for _, e := range q.ExpenseEntries {
		f.monthlyExpenses += e.Amount.Float()
	}
	for _, p := range q.InsurancePolicies {
		f.monthlyExpenses += p.InsuranceAmount.Float() / 12
	}
	f.emis = q.EMIs.Float()

	var propertyValue float64
	for _, p := range q.Properties {
		switch p.PropertyType {
		case models.PropertyEquityMF:
			f.equityMF += p.Amount.Float()
		case models.PropertyDebtMF:
			f.debtMF += p.Amount.Float()
		case models.PropertyResidential, models.PropertyCommercial:
			f.realEstate += p.EstimatedValue.Float()
		}
		propertyValue += p.EstimatedValue.Float()
	}
	f.stocks = q.Stocks.Float()
	f.ppfNPS = q.PPF.Float() + q.NPS.Float()
	for _, inv := range q.InterestInvestments {
		f.fixedDeposits += inv.PrincipalAmount.Float()
	}
	f.gold = q.Gold.Float()

	f.totalInvestments = f.equityMF + f.debtMF + f.stocks + f.ppfNPS + f.fixedDeposits + f.realEstate + f.gold

	var vehicleValue float64
	for _, v := range q.Vehicles {
		vehicleValue += v.EstimatedValue.Float()
	}
	f.emergencyFund = q.EmergencyFund.Float()

	// Real estate and gold are counted both as holdings and as investments.
	f.totalAssets = f.emergencyFund + propertyValue + f.gold + vehicleValue + f.totalInvestments

	for _, l := range q.Loans {
		f.totalLiabilities += l.OutstandingAmount.Float()
	}
	f.netWorth = f.totalAssets - f.totalLiabilities

	for _, p := range q.InsurancePolicies {
		switch p.Type {
		case models.PremiumLife:
			f.lifeCover += p.InsuranceAmount.Float() * 12
		case models.PremiumHealth:
			f.healthCover += p.InsuranceAmount.Float() * 12
		}
	}
	f.dependents = q.NoOfDependents.Int()

	return f
}

func (f figures) savingsRate() float64 {
	if f.monthlyIncome > 0 {
		return (f.monthlyIncome - f.monthlyExpenses) / f.monthlyIncome
	}
	return 0
}

func (f figures) debtToIncome() float64 {
	if f.monthlyIncome > 0 {
		return f.emis / f.monthlyIncome
	}
	return 0
}

func (f figures) emergencyMonths() float64 {
	if f.monthlyExpenses > 0 {
		return f.emergencyFund / f.monthlyExpenses
	}
	return 0
}

func (f figures) investmentRatio() float64 {
	if f.annualIncome > 0 {
		return f.totalInvestments / f.annualIncome
	}
	return 0
}

func (f figures) netWorthRatio() float64 {
	if f.annualIncome > 0 {
		return f.netWorth / f.annualIncome
	}
	return 0
}

// split returns the actual allocation in percent; zero when nothing is invested.
func (f figures) split() Allocation {
	if f.totalInvestments <= 0 {
		return Allocation{}
	}
	return Allocation{
		Equity:      (f.equityMF + f.stocks) / f.totalInvestments * 100,
		Debt:        (f.debtMF + f.ppfNPS + f.fixedDeposits) / f.totalInvestments * 100,
		Alternative: (f.realEstate + f.gold) / f.totalInvestments * 100,
	}
}
