// internal/workers/protection/evaluate-protection-gap/handler_test.go
package evaluateprotectiongap

import (
	"context"
	"database/sql"
	stderrors "errors"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/arthverse/arthverse/internal/common/errors"
	"github.com/arthverse/arthverse/internal/common/logger"
	"github.com/arthverse/arthverse/internal/models"
	"github.com/arthverse/arthverse/internal/scoring/protection"
	"github.com/arthverse/arthverse/internal/store"
)

// ==========================
// Test Helper Functions
// ==========================

var fixedNow = time.Date(2026, 10, 19, 11, 0, 0, 0, time.UTC)

func createTestHandler(t *testing.T) (*Handler, sqlmock.Sqlmock) {
	t.Helper()

	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })

	h := NewHandler(&Config{Timeout: 10 * time.Second}, store.New(db, nil, 0, logger.NewNoOpLogger()), nil, nil, logger.NewTestLogger(t))
	h.now = func() time.Time { return fixedNow }
	return h, mock
}

func createProfile() *models.RiskProfile {
	p := models.NewRiskProfile("")
	p.Age = 34
	p.Dependents = 2
	p.AnnualIncome = 1500000
	p.OutstandingLoans = 2000000
	p.ExistingInvestments = 500000
	return p
}

func createPolicies() []models.InsurancePolicy {
	return []models.InsurancePolicy{
		{Category: models.CategoryLife, PolicyType: models.PolicyTermInsurance, SumAssured: 20000000},
		{Category: models.CategoryHealth, PolicyType: models.PolicyHealthFamilyFloater, SumAssured: 1500000},
		{Category: models.CategoryVehicle, PolicyType: models.PolicyVehicleCar, SumAssured: 800000},
	}
}

func expectInsert(mock sqlmock.Sqlmock, userID string, score int) {
	mock.ExpectExec(`INSERT INTO protection_gaps`).
		WithArgs(sqlmock.AnyArg(), userID, score, sqlmock.AnyArg(), fixedNow).
		WillReturnResult(sqlmock.NewResult(0, 1))
}

// ==========================
// Core Functionality Tests
// ==========================

func TestHandler_Execute_InlineInputs(t *testing.T) {
	h, mock := createTestHandler(t)
	profile := createProfile()
	policies := createPolicies()
	want := protection.Evaluate(profile, policies)
	expectInsert(mock, "user-1", want.ProtectionScore)

	output, err := h.Execute(context.Background(), &Input{UserID: "user-1", Profile: profile, Policies: &policies})

	require.NoError(t, err)
	assert.Equal(t, want.ProtectionScore, output.ProtectionScore)
	assert.Equal(t, want.UnprotectedAreas, output.UnprotectedAreas)
	assert.Equal(t, protection.StatusCovered, output.Result.LifeInsurance.Status)
	assert.Equal(t, protection.StatusUnknown, output.Result.CardsInsurance.Status)
	assert.Equal(t, "2026-10-19T11:00:00Z", output.CalculatedAt)
	assert.Empty(t, profile.UserID, "inline profile must not be mutated")
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestHandler_Execute_EmptyPolicyListSkipsLookup(t *testing.T) {
	h, mock := createTestHandler(t)
	none := []models.InsurancePolicy{}
	expectInsert(mock, "user-2", 6)

	output, err := h.Execute(context.Background(), &Input{UserID: "user-2", Profile: createProfile(), Policies: &none})

	require.NoError(t, err)
	assert.Equal(t, 6, output.ProtectionScore)
	assert.Equal(t, protection.StatusNotInsured, output.Result.LifeInsurance.Status)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestHandler_Execute_LoadsStoredInputs(t *testing.T) {
	h, mock := createTestHandler(t)

	mock.ExpectQuery(`SELECT data FROM risk_profiles`).
		WithArgs("user-3").
		WillReturnRows(sqlmock.NewRows([]string{"data"}).
			AddRow([]byte(`{"age": 29, "annual_income": 900000, "city_tier": "tier2"}`)))
	mock.ExpectQuery(`SELECT id, data FROM insurance_policies`).
		WithArgs("user-3").
		WillReturnRows(sqlmock.NewRows([]string{"id", "data"}).
			AddRow("p1", []byte(`{"category": "health", "policy_type": "health_corporate", "sum_assured": 500000}`)).
			AddRow("p2", []byte(`{"category": "cards", "policy_type": "credit_card"}`)))
	mock.ExpectExec(`INSERT INTO protection_gaps`).
		WithArgs(sqlmock.AnyArg(), "user-3", sqlmock.AnyArg(), sqlmock.AnyArg(), fixedNow).
		WillReturnResult(sqlmock.NewResult(0, 1))

	output, err := h.Execute(context.Background(), &Input{UserID: "user-3"})

	require.NoError(t, err)
	assert.Equal(t, protection.StatusUnderinsured, output.Result.HealthInsurance.Status)
	assert.Equal(t, protection.StatusCovered, output.Result.CardsInsurance.Status)
	assert.LessOrEqual(t, len(output.Result.ActionItems), 6)
	assert.NoError(t, mock.ExpectationsWereMet())
}

// ==========================
// Error Handling Tests
// ==========================

func TestHandler_Execute_Errors(t *testing.T) {
	bad := []models.InsurancePolicy{{Category: models.CategoryVehicle, PolicyType: models.PolicyTermInsurance}}
	unknown := []models.InsurancePolicy{{Category: "pets", PolicyType: models.PolicyCreditCard}}

	tests := []struct {
		name         string
		input        *Input
		setupMock    func(mock sqlmock.Sqlmock)
		expectedCode errors.ErrorCode
	}{
		{
			name:  "profile missing",
			input: &Input{UserID: "ghost"},
			setupMock: func(mock sqlmock.Sqlmock) {
				mock.ExpectQuery(`FROM risk_profiles`).WithArgs("ghost").WillReturnError(sql.ErrNoRows)
			},
			expectedCode: errors.ErrCodeRiskProfileNotFound,
		},
		{
			name:  "policy query fails",
			input: &Input{UserID: "user-4", Profile: createProfile()},
			setupMock: func(mock sqlmock.Sqlmock) {
				mock.ExpectQuery(`FROM insurance_policies`).WithArgs("user-4").WillReturnError(stderrors.New("too many connections"))
			},
			expectedCode: errors.ErrCodeQueryFailed,
		},
		{
			name:         "policy type outside its category",
			input:        &Input{UserID: "user-5", Profile: createProfile(), Policies: &bad},
			setupMock:    func(sqlmock.Sqlmock) {},
			expectedCode: errors.ErrCodeInvalidCategory,
		},
		{
			name:         "unknown category",
			input:        &Input{UserID: "user-6", Profile: createProfile(), Policies: &unknown},
			setupMock:    func(sqlmock.Sqlmock) {},
			expectedCode: errors.ErrCodeInvalidCategory,
		},
		{
			name:  "persist fails",
			input: &Input{UserID: "user-7", Profile: createProfile(), Policies: &[]models.InsurancePolicy{}},
			setupMock: func(mock sqlmock.Sqlmock) {
				mock.ExpectExec(`INSERT INTO protection_gaps`).WillReturnError(stderrors.New("disk full"))
			},
			expectedCode: errors.ErrCodeScorePersistFailed,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			h, mock := createTestHandler(t)
			tt.setupMock(mock)

			output, err := h.Execute(context.Background(), tt.input)

			assert.Nil(t, output)
			require.Error(t, err)
			stdErr, ok := errors.AsStandardError(err)
			require.True(t, ok)
			assert.Equal(t, tt.expectedCode, stdErr.Code)
			assert.NoError(t, mock.ExpectationsWereMet())
		})
	}
}

func TestHandler_Execute_InvalidCategoryMetadata(t *testing.T) {
	h, _ := createTestHandler(t)
	bad := []models.InsurancePolicy{{Category: models.CategoryCards, PolicyType: models.PolicyULIP}}

	_, err := h.Execute(context.Background(), &Input{UserID: "u", Profile: createProfile(), Policies: &bad})

	stdErr, ok := errors.AsStandardError(err)
	require.True(t, ok)
	assert.Equal(t, "ulip", stdErr.Metadata["policyType"])
	assert.Contains(t, stdErr.Metadata["reason"], "does not belong")
}
