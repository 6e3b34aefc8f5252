// internal/models/questionnaire.go
package models

import (
	"fmt"

	"github.com/goccy/go-json"
)

const (
	PropertyResidential = "residential"
	PropertyCommercial  = "commercial"
	PropertyEquityMF    = "equity_mf"
	PropertyDebtMF      = "debt_mf"

	PremiumLife   = "life"
	PremiumHealth = "health"

	FrequencyMonthly = "monthly"
)

// Questionnaire is the self-reported financial snapshot of a user. Income
// fields are annual, expense fields are monthly.
type Questionnaire struct {
	SalaryIncome    Amount  `json:"salary_income"`
	RentalProperty1 Amount  `json:"rental_property1"`
	RentalProperty2 Amount  `json:"rental_property2"`
	BusinessIncome  Amount  `json:"business_income"`
	InterestIncome  Amount  `json:"interest_income"`
	DividendIncome  Amount  `json:"dividend_income"`
	CapitalGains    Amount  `json:"capital_gains"`
	FreelanceIncome Amount  `json:"freelance_income"`
	OtherIncome     Amount  `json:"other_income"`
	IncomeEntries   []Entry `json:"income_entries"`

	RentExpense         Amount          `json:"rent_expense"`
	EMIs                Amount          `json:"emis"`
	TermInsurance       Amount          `json:"term_insurance"`
	HealthInsurance     Amount          `json:"health_insurance"`
	HouseholdMaid       Amount          `json:"household_maid"`
	Groceries           Amount          `json:"groceries"`
	FoodDining          Amount          `json:"food_dining"`
	Fuel                Amount          `json:"fuel"`
	Travel              Amount          `json:"travel"`
	Shopping            Amount          `json:"shopping"`
	OnlineShopping      Amount          `json:"online_shopping"`
	Electronics         Amount          `json:"electronics"`
	Entertainment       Amount          `json:"entertainment"`
	TelecomUtilities    Amount          `json:"telecom_utilities"`
	Healthcare          Amount          `json:"healthcare"`
	Education           Amount          `json:"education"`
	CashWithdrawals     Amount          `json:"cash_withdrawals"`
	ForeignTransactions Amount          `json:"foreign_transactions"`
	ExpenseEntries      []Entry         `json:"expense_entries"`
	InsurancePolicies   []PremiumRecord `json:"insurance_policies"`

	Properties          []Property           `json:"properties"`
	Vehicles            []Vehicle            `json:"vehicles"`
	Loans               []Loan               `json:"loans"`
	InterestInvestments []InterestInvestment `json:"interest_investments"`
	Gold                Amount               `json:"gold"`
	Stocks              Amount               `json:"stocks"`
	PPF                 Amount               `json:"ppf"`
	NPS                 Amount               `json:"nps"`
	BankBalance         Amount               `json:"bank_balance"`
	CashInHand          Amount               `json:"cash_in_hand"`
	EmergencyFund       Amount               `json:"emergency_fund"`
	MonthlyInvestment   Amount               `json:"monthly_investment"`

	HasHealthInsurance   Flag     `json:"has_health_insurance"`
	HasTermInsurance     Flag     `json:"has_term_insurance"`
	InvestsInMutualFunds Flag     `json:"invests_in_mutual_funds"`
	TakesTDSRefund       Flag     `json:"takes_tds_refund"`
	HasEmergencyFund     Flag     `json:"has_emergency_fund"`
	FilesITRYearly       Flag     `json:"files_itr_yearly"`
	CreditCards          []string `json:"credit_cards"`

	NoOfDependents Count `json:"no_of_dependents"`
	Age            Count `json:"age"`
}

// Entry is a free-form income or expense line added at face value.
type Entry struct {
	Type      string `json:"type"`
	Amount    Amount `json:"amount"`
	Frequency string `json:"frequency"`
}

// PremiumRecord is an insurance line captured by the questionnaire.
type PremiumRecord struct {
	Type            string `json:"type"` // "life" or "health"
	Provider        string `json:"provider,omitempty"`
	InsuranceAmount Amount `json:"insurance_amount"`
}

type Property struct {
	Name           string `json:"name,omitempty"`
	PropertyType   string `json:"property_type"`
	EstimatedValue Amount `json:"estimated_value"`
	Amount         Amount `json:"amount"` // mutual fund holdings carry their value here
}

type Vehicle struct {
	Name           string `json:"name,omitempty"`
	EstimatedValue Amount `json:"estimated_value"`
}

type Loan struct {
	Type              string `json:"type,omitempty"`
	OutstandingAmount Amount `json:"outstanding_amount"`
}

type InterestInvestment struct {
	Type            string `json:"type,omitempty"`
	PrincipalAmount Amount `json:"principal_amount"`
}

// DecodeQuestionnaire parses a stored or submitted questionnaire document.
func DecodeQuestionnaire(data []byte) (*Questionnaire, error) {
	var q Questionnaire
	if err := json.Unmarshal(data, &q); err != nil {
		return nil, fmt.Errorf("decode questionnaire: %w", err)
	}
	q.normalize()
	return &q, nil
}

func (q *Questionnaire) normalize() {
	for i := range q.IncomeEntries {
		if q.IncomeEntries[i].Frequency == "" {
			q.IncomeEntries[i].Frequency = FrequencyMonthly
		}
	}
	for i := range q.ExpenseEntries {
		if q.ExpenseEntries[i].Frequency == "" {
			q.ExpenseEntries[i].Frequency = FrequencyMonthly
		}
	}
}

// NegativeFields names every amount below zero. Negative values are scored
// as given; callers decide whether to surface them.
func (q *Questionnaire) NegativeFields() []string {
	var out []string
	check := func(name string, a Amount) {
		if a < 0 {
			out = append(out, name)
		}
	}

	check("salary_income", q.SalaryIncome)
	check("rental_property1", q.RentalProperty1)
	check("rental_property2", q.RentalProperty2)
	check("business_income", q.BusinessIncome)
	check("interest_income", q.InterestIncome)
	check("dividend_income", q.DividendIncome)
	check("capital_gains", q.CapitalGains)
	check("freelance_income", q.FreelanceIncome)
	check("other_income", q.OtherIncome)
	for i, e := range q.IncomeEntries {
		check(fmt.Sprintf("income_entries[%d].amount", i), e.Amount)
	}

	check("rent_expense", q.RentExpense)
	check("emis", q.EMIs)
	check("term_insurance", q.TermInsurance)
	check("health_insurance", q.HealthInsurance)
	check("household_maid", q.HouseholdMaid)
	check("groceries", q.Groceries)
	check("food_dining", q.FoodDining)
	check("fuel", q.Fuel)
	check("travel", q.Travel)
	check("shopping", q.Shopping)
	check("online_shopping", q.OnlineShopping)
	check("electronics", q.Electronics)
	check("entertainment", q.Entertainment)
	check("telecom_utilities", q.TelecomUtilities)
	check("healthcare", q.Healthcare)
	check("education", q.Education)
	check("cash_withdrawals", q.CashWithdrawals)
	check("foreign_transactions", q.ForeignTransactions)
	for i, e := range q.ExpenseEntries {
		check(fmt.Sprintf("expense_entries[%d].amount", i), e.Amount)
	}
	for i, p := range q.InsurancePolicies {
		check(fmt.Sprintf("insurance_policies[%d].insurance_amount", i), p.InsuranceAmount)
	}

	for i, p := range q.Properties {
		check(fmt.Sprintf("properties[%d].estimated_value", i), p.EstimatedValue)
		check(fmt.Sprintf("properties[%d].amount", i), p.Amount)
	}
	for i, v := range q.Vehicles {
		check(fmt.Sprintf("vehicles[%d].estimated_value", i), v.EstimatedValue)
	}
	for i, l := range q.Loans {
		check(fmt.Sprintf("loans[%d].outstanding_amount", i), l.OutstandingAmount)
	}
	for i, inv := range q.InterestInvestments {
		check(fmt.Sprintf("interest_investments[%d].principal_amount", i), inv.PrincipalAmount)
	}
	check("gold", q.Gold)
	check("stocks", q.Stocks)
	check("ppf", q.PPF)
	check("nps", q.NPS)
	check("emergency_fund", q.EmergencyFund)

	return out
}
