// internal/workers/financial-health/compute-health-score/handler_test.go
package computehealthscore

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
	"github.com/arthverse/arthverse/internal/common/validation"
	"github.com/arthverse/arthverse/internal/models"
	"github.com/arthverse/arthverse/internal/scoring/healthscore"
	"github.com/arthverse/arthverse/internal/store"
)

// ==========================
// Test Helper Functions
// ==========================

var fixedNow = time.Date(2026, 10, 19, 9, 30, 0, 0, time.UTC)

func createTestConfig() *Config {
	return &Config{Timeout: 10 * time.Second}
}

func createTestHandler(t *testing.T) (*Handler, sqlmock.Sqlmock) {
	t.Helper()

	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })

	v, err := validation.New(nil)
	require.NoError(t, err)

	h := NewHandler(createTestConfig(), store.New(db, nil, time.Minute, logger.NewNoOpLogger()), v, nil, logger.NewTestLogger(t))
	h.now = func() time.Time { return fixedNow }
	return h, mock
}

const sampleQuestionnaire = `{
	"salary_income": "1800000",
	"rent_expense": 25000,
	"emis": 20000,
	"groceries": 12000,
	"insurance_policies": [
		{"type": "life", "insurance_amount": 1000000},
		{"type": "health", "insurance_amount": 50000}
	],
	"properties": [{"property_type": "equity_mf", "amount": 600000}],
	"stocks": 300000,
	"ppf": 200000,
	"bank_balance": 150000,
	"emergency_fund": 400000,
	"has_health_insurance": "yes",
	"has_term_insurance": true,
	"files_itr_yearly": "yes",
	"credit_cards": ["HDFC Regalia"],
	"age": 33
}`

func expectInsert(mock sqlmock.Sqlmock, userID string) {
	mock.ExpectExec(`INSERT INTO health_scores`).
		WithArgs(sqlmock.AnyArg(), userID, sqlmock.AnyArg(), sqlmock.AnyArg(), sqlmock.AnyArg(), fixedNow).
		WillReturnResult(sqlmock.NewResult(0, 1))
}

func expectedResult(t *testing.T, doc string, age int) *healthscore.ScoreResult {
	t.Helper()
	q, err := models.DecodeQuestionnaire([]byte(doc))
	require.NoError(t, err)
	return healthscore.Compute(q, age)
}

func requireCode(t *testing.T, err error, code errors.ErrorCode) *errors.StandardError {
	t.Helper()
	require.Error(t, err)
	stdErr, ok := errors.AsStandardError(err)
	require.True(t, ok, "expected StandardError, got %v", err)
	assert.Equal(t, code, stdErr.Code)
	return stdErr
}

// ==========================
// Core Functionality Tests
// ==========================

func TestHandler_Execute_InlineQuestionnaire(t *testing.T) {
	h, mock := createTestHandler(t)
	expectInsert(mock, "user-1")

	output, err := h.Execute(context.Background(), &Input{
		UserID:        "user-1",
		Questionnaire: []byte(sampleQuestionnaire),
	})

	require.NoError(t, err)
	want := expectedResult(t, sampleQuestionnaire, 0)
	assert.Equal(t, want.Score, output.Score)
	assert.Equal(t, string(want.Rating), output.Rating)
	assert.Equal(t, 33, output.Result.Age)
	assert.Len(t, output.ScoreID, 36)
	assert.Equal(t, "2026-10-19T09:30:00Z", output.CalculatedAt)
	assert.Len(t, output.Result.Components, 9)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestHandler_Execute_AgeResolution(t *testing.T) {
	tests := []struct {
		name        string
		inputAge    *int
		storedAge   interface{}
		expectedAge int
	}{
		{name: "explicit age wins", inputAge: intPtr(52), storedAge: 41, expectedAge: 52},
		{name: "stored age used", storedAge: 41, expectedAge: 41},
		{name: "questionnaire age when none on file", storedAge: nil, expectedAge: 33},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			h, mock := createTestHandler(t)
			mock.ExpectQuery(`SELECT q.data, u.age`).
				WithArgs("user-2").
				WillReturnRows(sqlmock.NewRows([]string{"data", "age"}).AddRow([]byte(sampleQuestionnaire), tt.storedAge))
			expectInsert(mock, "user-2")

			output, err := h.Execute(context.Background(), &Input{UserID: "user-2", Age: tt.inputAge})

			require.NoError(t, err)
			assert.Equal(t, tt.expectedAge, output.Result.Age)
			assert.NoError(t, mock.ExpectationsWereMet())
		})
	}
}

func TestHandler_Execute_NullQuestionnaireLoadsStored(t *testing.T) {
	h, mock := createTestHandler(t)
	mock.ExpectQuery(`SELECT q.data, u.age`).
		WithArgs("user-3").
		WillReturnRows(sqlmock.NewRows([]string{"data", "age"}).AddRow([]byte(`{}`), 24))
	expectInsert(mock, "user-3")

	output, err := h.Execute(context.Background(), &Input{UserID: "user-3", Questionnaire: []byte("null")})

	require.NoError(t, err)
	assert.Equal(t, "early_career", string(output.Result.AgeCategory))
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestHandler_Execute_NegativeAmountsAreScored(t *testing.T) {
	h, mock := createTestHandler(t)
	expectInsert(mock, "user-4")
	doc := `{"salary_income": 600000, "groceries": -5000}`

	output, err := h.Execute(context.Background(), &Input{UserID: "user-4", Questionnaire: []byte(doc)})

	require.NoError(t, err)
	assert.Equal(t, expectedResult(t, doc, 0).Score, output.Score)
}

// ==========================
// Error Handling Tests
// ==========================

func TestHandler_Execute_Errors(t *testing.T) {
	tests := []struct {
		name         string
		input        *Input
		setupMock    func(mock sqlmock.Sqlmock)
		expectedCode errors.ErrorCode
		retryable    bool
	}{
		{
			name:  "questionnaire not on record",
			input: &Input{UserID: "ghost"},
			setupMock: func(mock sqlmock.Sqlmock) {
				mock.ExpectQuery(`SELECT q.data, u.age`).WithArgs("ghost").WillReturnError(sql.ErrNoRows)
			},
			expectedCode: errors.ErrCodeQuestionnaireNotFound,
		},
		{
			name:  "questionnaire query fails",
			input: &Input{UserID: "user-5"},
			setupMock: func(mock sqlmock.Sqlmock) {
				mock.ExpectQuery(`SELECT q.data, u.age`).WithArgs("user-5").WillReturnError(stderrors.New("connection reset by peer"))
			},
			expectedCode: errors.ErrCodeQueryFailed,
			retryable:    true,
		},
		{
			name:         "malformed amount",
			input:        &Input{UserID: "user-6", Questionnaire: []byte(`{"salary_income": "twelve lakh"}`)},
			setupMock:    func(sqlmock.Sqlmock) {},
			expectedCode: errors.ErrCodeInvalidQuestionnaire,
		},
		{
			name:         "non-finite amount",
			input:        &Input{UserID: "user-6", Questionnaire: []byte(`{"salary_income": "NaN", "groceries": "Inf"}`)},
			setupMock:    func(sqlmock.Sqlmock) {},
			expectedCode: errors.ErrCodeInvalidQuestionnaire,
		},
		{
			name:         "schema violation",
			input:        &Input{UserID: "user-7", Questionnaire: []byte(`{"credit_cards": "HDFC"}`)},
			setupMock:    func(sqlmock.Sqlmock) {},
			expectedCode: errors.ErrCodeInvalidQuestionnaire,
		},
		{
			name:  "persist fails",
			input: &Input{UserID: "user-8", Questionnaire: []byte(`{"salary_income": 900000}`)},
			setupMock: func(mock sqlmock.Sqlmock) {
				mock.ExpectExec(`INSERT INTO health_scores`).WillReturnError(stderrors.New("deadlock detected"))
			},
			expectedCode: errors.ErrCodeScorePersistFailed,
			retryable:    true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			h, mock := createTestHandler(t)
			tt.setupMock(mock)

			output, err := h.Execute(context.Background(), tt.input)

			assert.Nil(t, output)
			stdErr := requireCode(t, err, tt.expectedCode)
			assert.Equal(t, tt.retryable, stdErr.Retryable)
			assert.NoError(t, mock.ExpectationsWereMet())
		})
	}
}

func TestHandler_Execute_SchemaDetailsCarried(t *testing.T) {
	h, _ := createTestHandler(t)

	_, err := h.Execute(context.Background(), &Input{UserID: "u", Questionnaire: []byte(`{"vehicles": {}}`)})

	stdErr := requireCode(t, err, errors.ErrCodeInvalidQuestionnaire)
	assert.Contains(t, stdErr.Details, "vehicles")
}

func intPtr(v int) *int { return &v }
