// internal/models/models_test.go
package models

import (
	"errors"
	"testing"

	"github.com/goccy/go-json"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDecodeQuestionnaire(t *testing.T) {
	doc := []byte(`{
		"salary_income": 1200000,
		"rental_property1": "120,000",
		"business_income": "",
		"other_income": null,
		"income_entries": [{"type": "tutoring", "amount": "5000"}],
		"emis": 8000.5,
		"has_health_insurance": "yes",
		"has_term_insurance": "no",
		"files_itr_yearly": true,
		"credit_cards": ["HDFC Regalia"],
		"no_of_dependents": "2",
		"properties": [{"property_type": "equity_mf", "amount": 250000}],
		"some_future_field": {"ignored": true}
	}`)

	q, err := DecodeQuestionnaire(doc)

	require.NoError(t, err)
	assert.Equal(t, Amount(1200000), q.SalaryIncome)
	assert.Equal(t, Amount(120000), q.RentalProperty1)
	assert.Equal(t, Amount(0), q.BusinessIncome)
	assert.Equal(t, Amount(0), q.OtherIncome)
	assert.Equal(t, Amount(8000.5), q.EMIs)
	require.Len(t, q.IncomeEntries, 1)
	assert.Equal(t, Amount(5000), q.IncomeEntries[0].Amount)
	assert.Equal(t, FrequencyMonthly, q.IncomeEntries[0].Frequency)
	assert.True(t, q.HasHealthInsurance.Bool())
	assert.False(t, q.HasTermInsurance.Bool())
	assert.True(t, q.FilesITRYearly.Bool())
	assert.Equal(t, 2, q.NoOfDependents.Int())
	assert.Equal(t, PropertyEquityMF, q.Properties[0].PropertyType)
	assert.Empty(t, q.NegativeFields())
}

func TestDecodeQuestionnaire_MalformedAmount(t *testing.T) {
	_, err := DecodeQuestionnaire([]byte(`{"salary_income": "twelve lakh"}`))

	assert.Error(t, err)
	assert.Contains(t, err.Error(), "decode questionnaire")
}

func TestDecodeQuestionnaire_NonFiniteAmount(t *testing.T) {
	tests := []struct {
		name string
		doc  string
	}{
		{"nan string", `{"salary_income": "NaN"}`},
		{"inf string", `{"groceries": "Inf"}`},
		{"negative infinity", `{"emergency_fund": "-Infinity"}`},
		{"overflowing number", `{"stocks": 1e400}`},
		{"count", `{"no_of_dependents": "nan"}`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := DecodeQuestionnaire([]byte(tt.doc))

			require.Error(t, err)
			assert.Contains(t, err.Error(), "invalid amount")
		})
	}
}

func TestQuestionnaire_NegativeFields(t *testing.T) {
	q := &Questionnaire{
		SalaryIncome: -1,
		Groceries:    -200,
		Loans:        []Loan{{OutstandingAmount: 10}, {OutstandingAmount: -5}},
	}

	assert.Equal(t, []string{"salary_income", "groceries", "loans[1].outstanding_amount"}, q.NegativeFields())
}

func TestFlag_UnmarshalJSON(t *testing.T) {
	tests := []struct {
		raw      string
		expected bool
	}{
		{`true`, true},
		{`false`, false},
		{`null`, false},
		{`"yes"`, true},
		{`"YES"`, true},
		{`"no"`, false},
		{`""`, false},
	}

	for _, tt := range tests {
		var f Flag
		require.NoError(t, json.Unmarshal([]byte(tt.raw), &f), tt.raw)
		assert.Equal(t, tt.expected, f.Bool(), tt.raw)
	}

	var f Flag
	assert.Error(t, json.Unmarshal([]byte(`12`), &f))
}

func TestRiskProfile_Defaults(t *testing.T) {
	var profile RiskProfile
	require.NoError(t, json.Unmarshal([]byte(`{"user_id": "u1", "annual_income": 900000}`), &profile))

	assert.Equal(t, 1, profile.EarningMembers)
	assert.Equal(t, CityTier1, profile.CityTier)
	assert.Equal(t, 900000.0, profile.AnnualIncome)
	assert.Equal(t, 1, profile.FamilySize())

	require.NoError(t, json.Unmarshal([]byte(`{"city_tier": "tier3", "dependents": 3}`), &profile))
	assert.Equal(t, CityTier3, profile.CityTier)
	assert.Equal(t, 4, profile.FamilySize())
}

func TestNominee_DefaultPercentage(t *testing.T) {
	var policy InsurancePolicy
	doc := `{"category": "life", "policy_type": "term_insurance", "nominees": [{"name": "Asha"}, {"name": "Ravi", "percentage": 40}]}`
	require.NoError(t, json.Unmarshal([]byte(doc), &policy))

	require.Len(t, policy.Nominees, 2)
	assert.Equal(t, 100.0, policy.Nominees[0].Percentage)
	assert.Equal(t, 40.0, policy.Nominees[1].Percentage)
}

func TestInsurancePolicy_Validate(t *testing.T) {
	tests := []struct {
		name        string
		policy      InsurancePolicy
		expectedErr error
	}{
		{"valid", InsurancePolicy{Category: CategoryHealth, PolicyType: PolicyHealthCorporate}, nil},
		{"unknown category", InsurancePolicy{Category: "pets", PolicyType: PolicyHealthCorporate}, ErrUnknownCategory},
		{"unknown type", InsurancePolicy{Category: CategoryLife, PolicyType: "whole_life"}, ErrUnknownPolicyType},
		{"mismatch", InsurancePolicy{Category: CategoryLife, PolicyType: PolicyVehicleCar}, ErrCategoryMismatch},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.policy.Validate()
			if tt.expectedErr == nil {
				assert.NoError(t, err)
				return
			}
			assert.True(t, errors.Is(err, tt.expectedErr), err)
		})
	}
}

func TestInsurancePolicy_AnnualPremium(t *testing.T) {
	tests := []struct {
		frequency PremiumFrequency
		expected  float64
	}{
		{PremiumMonthly, 12000},
		{PremiumQuarterly, 4000},
		{PremiumHalfYearly, 2000},
		{PremiumYearly, 1000},
		{PremiumOneTime, 0},
	}

	for _, tt := range tests {
		p := InsurancePolicy{PremiumAmount: 1000, PremiumFrequency: tt.frequency}
		assert.Equal(t, tt.expected, p.AnnualPremium(), string(tt.frequency))
	}
}
