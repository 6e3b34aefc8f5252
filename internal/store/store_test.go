// internal/store/store_test.go
package store

import (
	"context"
	"database/sql"
	stderrors "errors"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/alicebob/miniredis/v2"
	"github.com/go-redis/redismock/v9"
	"github.com/goccy/go-json"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/arthverse/arthverse/internal/common/logger"
	"github.com/arthverse/arthverse/internal/models"
	"github.com/arthverse/arthverse/internal/scoring/healthscore"
	"github.com/arthverse/arthverse/internal/scoring/protection"
)

// ==========================
// Test Helper Functions
// ==========================

func setupStore(t *testing.T) (*Store, sqlmock.Sqlmock, *miniredis.Miniredis) {
	t.Helper()

	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })

	mr, err := miniredis.Run()
	require.NoError(t, err)
	t.Cleanup(mr.Close)

	rdb := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { rdb.Close() })

	return New(db, rdb, time.Minute, logger.NewTestLogger(t)), mock, mr
}

const questionnaireDoc = `{"salary_income": 1200000, "has_term_insurance": "yes"}`

// ==========================
// Questionnaire Tests
// ==========================

func TestLoadQuestionnaire_ReadThrough(t *testing.T) {
	s, mock, mr := setupStore(t)
	ctx := context.Background()

	mock.ExpectQuery(`SELECT q.data, u.age\s+FROM questionnaires q`).
		WithArgs("user-1").
		WillReturnRows(sqlmock.NewRows([]string{"data", "age"}).AddRow([]byte(questionnaireDoc), 34))

	first, err := s.LoadQuestionnaire(ctx, "user-1")
	require.NoError(t, err)
	require.NotNil(t, first.Age)
	assert.Equal(t, 34, *first.Age)
	assert.JSONEq(t, questionnaireDoc, string(first.Document))
	assert.True(t, mr.Exists("questionnaire:user-1"))
	assert.Equal(t, time.Minute, mr.TTL("questionnaire:user-1"))

	// second read is served from Redis; sqlmock would fail on an extra query
	second, err := s.LoadQuestionnaire(ctx, "user-1")
	require.NoError(t, err)
	assert.Equal(t, 34, *second.Age)
	assert.JSONEq(t, questionnaireDoc, string(second.Document))
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestLoadQuestionnaire_NullAge(t *testing.T) {
	s, mock, _ := setupStore(t)

	mock.ExpectQuery(`SELECT q.data, u.age`).
		WithArgs("user-2").
		WillReturnRows(sqlmock.NewRows([]string{"data", "age"}).AddRow([]byte(`{}`), nil))

	rec, err := s.LoadQuestionnaire(context.Background(), "user-2")

	require.NoError(t, err)
	assert.Nil(t, rec.Age)
}

func TestLoadQuestionnaire_NotFound(t *testing.T) {
	s, mock, mr := setupStore(t)

	mock.ExpectQuery(`SELECT q.data, u.age`).WithArgs("ghost").WillReturnError(sql.ErrNoRows)

	_, err := s.LoadQuestionnaire(context.Background(), "ghost")

	assert.ErrorIs(t, err, ErrNotFound)
	assert.False(t, mr.Exists("questionnaire:ghost"))
}

func TestLoadQuestionnaire_CorruptCacheFallsBack(t *testing.T) {
	s, mock, mr := setupStore(t)
	require.NoError(t, mr.Set("questionnaire:user-3", "{not json"))

	mock.ExpectQuery(`SELECT q.data, u.age`).
		WithArgs("user-3").
		WillReturnRows(sqlmock.NewRows([]string{"data", "age"}).AddRow([]byte(`{"gold": 5}`), 40))

	rec, err := s.LoadQuestionnaire(context.Background(), "user-3")

	require.NoError(t, err)
	assert.JSONEq(t, `{"gold": 5}`, string(rec.Document))
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestLoadQuestionnaire_RedisErrorFallsBack(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	redisClient, redisMock := redismock.NewClientMock()
	s := New(db, redisClient, 5*time.Minute, logger.NewTestLogger(t))

	age := 29
	doc := []byte(`{"emis": 1000}`)
	cached, _ := json.Marshal(QuestionnaireRecord{Document: doc, Age: &age})

	redisMock.ExpectGet("questionnaire:user-4").SetErr(stderrors.New("LOADING Redis is loading the dataset in memory"))
	mock.ExpectQuery(`SELECT q.data, u.age`).
		WithArgs("user-4").
		WillReturnRows(sqlmock.NewRows([]string{"data", "age"}).AddRow(doc, age))
	redisMock.ExpectSet("questionnaire:user-4", cached, 5*time.Minute).SetVal("OK")

	rec, err := s.LoadQuestionnaire(context.Background(), "user-4")

	require.NoError(t, err)
	assert.Equal(t, 29, *rec.Age)
	assert.NoError(t, mock.ExpectationsWereMet())
	assert.NoError(t, redisMock.ExpectationsWereMet())
}

func TestLoadQuestionnaire_WithoutRedis(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()
	s := New(db, nil, 0, logger.NewNoOpLogger())

	mock.ExpectQuery(`SELECT q.data, u.age`).
		WithArgs("user-5").
		WillReturnError(stderrors.New("connection refused"))

	_, err = s.LoadQuestionnaire(context.Background(), "user-5")

	assert.ErrorContains(t, err, "query questionnaire")
	assert.Equal(t, defaultTTL, s.ttl)
}

func TestLoadContact(t *testing.T) {
	s, mock, _ := setupStore(t)

	mock.ExpectQuery(`SELECT COALESCE\(email, ''\), COALESCE\(phone, ''\) FROM users WHERE id = \$1`).
		WithArgs("user-1").
		WillReturnRows(sqlmock.NewRows([]string{"email", "phone"}).AddRow("asha@example.in", ""))
	mock.ExpectQuery(`FROM users WHERE id = \$1`).WithArgs("ghost").WillReturnError(sql.ErrNoRows)

	c, err := s.LoadContact(context.Background(), "user-1")
	require.NoError(t, err)
	assert.Equal(t, "asha@example.in", c.Email)
	assert.Empty(t, c.Phone)

	_, err = s.LoadContact(context.Background(), "ghost")
	assert.ErrorIs(t, err, ErrNotFound)
}

// ==========================
// Insurance Tests
// ==========================

func TestLoadRiskProfile(t *testing.T) {
	s, mock, mr := setupStore(t)

	mock.ExpectQuery(`SELECT data FROM risk_profiles WHERE user_id = \$1`).
		WithArgs("user-1").
		WillReturnRows(sqlmock.NewRows([]string{"data"}).
			AddRow([]byte(`{"age": 30, "annual_income": 1200000, "dependents": 1}`)))

	profile, err := s.LoadRiskProfile(context.Background(), "user-1")

	require.NoError(t, err)
	assert.Equal(t, "user-1", profile.UserID)
	assert.Equal(t, models.CityTier1, profile.CityTier)
	assert.Equal(t, 1, profile.EarningMembers)
	assert.Equal(t, 1200000.0, profile.AnnualIncome)
	assert.True(t, mr.Exists("risk_profile:user-1"))

	cachedProfile, err := s.LoadRiskProfile(context.Background(), "user-1")
	require.NoError(t, err)
	assert.Equal(t, profile, cachedProfile)
}

func TestLoadRiskProfile_NotFound(t *testing.T) {
	s, mock, _ := setupStore(t)

	mock.ExpectQuery(`SELECT data FROM risk_profiles`).WithArgs("ghost").WillReturnError(sql.ErrNoRows)

	_, err := s.LoadRiskProfile(context.Background(), "ghost")

	assert.ErrorIs(t, err, ErrNotFound)
}

func TestListPolicies(t *testing.T) {
	s, mock, _ := setupStore(t)

	mock.ExpectQuery(`SELECT id, data FROM insurance_policies WHERE user_id = \$1 ORDER BY created_at`).
		WithArgs("user-1").
		WillReturnRows(sqlmock.NewRows([]string{"id", "data"}).
			AddRow("p1", []byte(`{"category": "life", "policy_type": "term_insurance", "sum_assured": 10000000}`)).
			AddRow("p2", []byte(`{"category": "health", "policy_type": "health_family_floater", "sum_assured": 1000000}`)))

	policies, err := s.ListPolicies(context.Background(), "user-1")

	require.NoError(t, err)
	require.Len(t, policies, 2)
	assert.Equal(t, "p1", policies[0].ID)
	assert.Equal(t, "user-1", policies[0].UserID)
	assert.Equal(t, models.PolicyTermInsurance, policies[0].PolicyType)
	assert.Equal(t, 1000000.0, policies[1].SumAssured)
}

func TestListPolicies_Empty(t *testing.T) {
	s, mock, _ := setupStore(t)

	mock.ExpectQuery(`FROM insurance_policies`).
		WithArgs("user-1").
		WillReturnRows(sqlmock.NewRows([]string{"id", "data"}))

	policies, err := s.ListPolicies(context.Background(), "user-1")
	require.NoError(t, err)
	assert.NotNil(t, policies)
	assert.Empty(t, policies)

	// the empty list is cached too
	again, err := s.ListPolicies(context.Background(), "user-1")
	require.NoError(t, err)
	assert.Empty(t, again)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestListPolicies_CorruptRow(t *testing.T) {
	s, mock, mr := setupStore(t)

	mock.ExpectQuery(`FROM insurance_policies`).
		WithArgs("user-1").
		WillReturnRows(sqlmock.NewRows([]string{"id", "data"}).AddRow("p9", []byte(`{"sum_assured": "lots"}`)))

	_, err := s.ListPolicies(context.Background(), "user-1")

	assert.ErrorContains(t, err, "decode policy p9")
	assert.False(t, mr.Exists("policies:user-1"))
}

func TestLoadCoverage(t *testing.T) {
	s, mock, _ := setupStore(t)

	mock.ExpectQuery(`SELECT inclusions, exclusions, custom_notes FROM policy_coverages WHERE policy_id = \$1`).
		WithArgs("p1").
		WillReturnRows(sqlmock.NewRows([]string{"inclusions", "exclusions", "custom_notes"}).
			AddRow([]byte(`{"opd": true}`), []byte(`{"dental": false}`), "room rent capped"))

	cov, err := s.LoadCoverage(context.Background(), "p1")

	require.NoError(t, err)
	assert.Equal(t, "p1", cov.PolicyID)
	assert.True(t, cov.Inclusions["opd"])
	assert.False(t, cov.Exclusions["dental"])
	assert.Equal(t, "room rent capped", cov.CustomNotes)
}

// ==========================
// Score Persistence Tests
// ==========================

func TestSaveHealthScore(t *testing.T) {
	s, mock, mr := setupStore(t)
	result := healthscore.Compute(&models.Questionnaire{SalaryIncome: 1200000}, 30)
	at := time.Date(2026, 10, 19, 10, 0, 0, 0, time.UTC)

	mock.ExpectExec(`INSERT INTO health_scores`).
		WithArgs(sqlmock.AnyArg(), "user-1", result.Score, string(result.Rating), sqlmock.AnyArg(), at).
		WillReturnResult(sqlmock.NewResult(0, 1))

	rec, err := s.SaveHealthScore(context.Background(), "user-1", result, at)

	require.NoError(t, err)
	assert.Len(t, rec.ID, 36)
	assert.True(t, mr.Exists("health_score:latest:user-1"))

	latest, err := s.LatestHealthScore(context.Background(), "user-1")
	require.NoError(t, err)
	assert.Equal(t, rec.ID, latest.ID)
	assert.Equal(t, result.Score, latest.Result.Score)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestSaveHealthScore_InsertFails(t *testing.T) {
	s, mock, mr := setupStore(t)
	result := healthscore.Compute(nil, 0)

	mock.ExpectExec(`INSERT INTO health_scores`).WillReturnError(stderrors.New("deadlock detected"))

	_, err := s.SaveHealthScore(context.Background(), "user-1", result, time.Now())

	assert.ErrorContains(t, err, "insert health score")
	assert.False(t, mr.Exists("health_score:latest:user-1"))
}

func TestLatestHealthScore_FromDatabase(t *testing.T) {
	s, mock, _ := setupStore(t)
	result := healthscore.Compute(&models.Questionnaire{BankBalance: 50000}, 40)
	doc, err := json.Marshal(result)
	require.NoError(t, err)
	at := time.Date(2026, 9, 1, 0, 0, 0, 0, time.UTC)

	mock.ExpectQuery(`SELECT id, result, calculated_at FROM health_scores`).
		WithArgs("user-1").
		WillReturnRows(sqlmock.NewRows([]string{"id", "result", "calculated_at"}).AddRow("hs-1", doc, at))
	mock.ExpectQuery(`FROM health_scores`).WithArgs("ghost").WillReturnError(sql.ErrNoRows)

	rec, err := s.LatestHealthScore(context.Background(), "user-1")
	require.NoError(t, err)
	assert.Equal(t, "hs-1", rec.ID)
	assert.Equal(t, at, rec.CalculatedAt)
	assert.Equal(t, result.Score, rec.Result.Score)
	assert.Equal(t, result.Rating, rec.Result.Rating)

	_, err = s.LatestHealthScore(context.Background(), "ghost")
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestSaveProtectionGap(t *testing.T) {
	s, mock, _ := setupStore(t)
	result := protection.Evaluate(models.NewRiskProfile("user-1"), nil)
	at := time.Date(2026, 10, 19, 10, 0, 0, 0, time.UTC)

	mock.ExpectExec(`INSERT INTO protection_gaps`).
		WithArgs(sqlmock.AnyArg(), "user-1", result.ProtectionScore, sqlmock.AnyArg(), at).
		WillReturnResult(sqlmock.NewResult(0, 1))

	rec, err := s.SaveProtectionGap(context.Background(), "user-1", result, at)
	require.NoError(t, err)

	latest, err := s.LatestProtectionGap(context.Background(), "user-1")
	require.NoError(t, err)
	assert.Equal(t, rec.ID, latest.ID)
	assert.Equal(t, result.ProtectionScore, latest.Result.ProtectionScore)
	assert.Equal(t, result.UnprotectedAreas, latest.Result.UnprotectedAreas)
}

func TestLatestProtectionGap_NotFound(t *testing.T) {
	s, mock, _ := setupStore(t)

	mock.ExpectQuery(`FROM protection_gaps`).WithArgs("ghost").WillReturnError(sql.ErrNoRows)

	_, err := s.LatestProtectionGap(context.Background(), "ghost")

	assert.ErrorIs(t, err, ErrNotFound)
}

func TestInvalidate(t *testing.T) {
	s, _, mr := setupStore(t)
	for _, key := range []string{"questionnaire:u", "risk_profile:u", "policies:u", "health_score:latest:u", "protection_gap:latest:u", "questionnaire:other"} {
		require.NoError(t, mr.Set(key, "{}"))
	}

	require.NoError(t, s.Invalidate(context.Background(), "u"))

	assert.Equal(t, []string{"questionnaire:other"}, mr.Keys())
}
