// test/e2e/e2e_test.go
package e2e

import (
	"context"
	"os"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/arthverse/arthverse/internal/common/config"
	"github.com/arthverse/arthverse/internal/common/database"
	"github.com/arthverse/arthverse/internal/common/logger"
	"github.com/arthverse/arthverse/internal/common/validation"
	"github.com/arthverse/arthverse/internal/store"
	"github.com/arthverse/arthverse/pkg/registry"

	chs "github.com/arthverse/arthverse/internal/workers/financial-health/compute-health-score"
	epg "github.com/arthverse/arthverse/internal/workers/protection/evaluate-protection-gap"
	gcc "github.com/arthverse/arthverse/internal/workers/protection/get-coverage-checklist"
	ifs "github.com/arthverse/arthverse/internal/workers/reporting/index-financial-snapshot"
)

const e2eUser = "e2e-user-001"

type services struct {
	cfg   *config.Config
	pg    *database.PostgresClient
	redis *database.RedisClient
	es    *database.ElasticsearchClient
}

func envOr(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

// connect returns live services or skips the test when any is unreachable.
func connect(t *testing.T) *services {
	t.Helper()
	if os.Getenv("E2E") == "" {
		t.Skip("set E2E=1 to run against local postgres, redis and elasticsearch")
	}

	cfg := &config.Config{}
	cfg.Database.Postgres = config.PostgresConfig{
		Host:     envOr("DB_HOST", "localhost"),
		Port:     5432,
		Database: envOr("DB_NAME", "arthverse"),
		User:     envOr("DB_USER", "arthverse"),
		Password: envOr("DB_PASSWORD", "arthverse"),
		SSLMode:  "disable",
	}
	cfg.Database.Redis = config.RedisConfig{Address: envOr("REDIS_ADDRESS", "localhost:6379")}
	cfg.Database.Elasticsearch = config.ElasticsearchConfig{Addresses: []string{envOr("ES_ADDRESS", "http://localhost:9200")}}
	cfg.Scoring = config.ScoringConfig{CacheTTL: 60, SnapshotIndex: "financial-snapshots-e2e", SMSScoreThreshold: 50}

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	pg, err := database.NewPostgres(cfg.Database.Postgres)
	if err != nil || pg.Ping(ctx) != nil {
		t.Skip("postgres unreachable")
	}
	t.Cleanup(func() { pg.Close() })

	rdb := database.NewRedis(cfg.Database.Redis)
	if rdb.Ping(ctx) != nil {
		t.Skip("redis unreachable")
	}
	t.Cleanup(func() { rdb.Close() })

	es, err := database.NewElasticsearch(cfg.Database.Elasticsearch, nil)
	if err != nil || es.Ping(ctx) != nil {
		t.Skip("elasticsearch unreachable")
	}

	require.NoError(t, pg.Migrate(ctx))
	require.NoError(t, es.EnsureSnapshotIndex(ctx, cfg.Scoring.SnapshotIndex))

	return &services{cfg: cfg, pg: pg, redis: rdb, es: es}
}

func seed(t *testing.T, svc *services) {
	t.Helper()
	ctx := context.Background()

	stmts := []string{
		`INSERT INTO users (id, email, phone, age) VALUES ($1, 'e2e@arthverse.example', '+919800000000', 38)
		 ON CONFLICT (id) DO UPDATE SET age = EXCLUDED.age`,
		`INSERT INTO questionnaires (user_id, data) VALUES ($1, '{"salary_income": 1800000, "groceries": 20000, "rent_expense": 30000, "emergency_fund": 400000, "stocks": 600000}')
		 ON CONFLICT (user_id) DO UPDATE SET data = EXCLUDED.data`,
		`INSERT INTO risk_profiles (user_id, data) VALUES ($1, '{"annual_income": 1800000, "dependents": 2, "city_tier": "tier1"}')
		 ON CONFLICT (user_id) DO UPDATE SET data = EXCLUDED.data`,
		`INSERT INTO insurance_policies (id, user_id, data) VALUES ('e2e-term', $1, '{"category": "life", "policy_type": "term_insurance", "sum_assured": 15000000}')
		 ON CONFLICT (id) DO NOTHING`,
		`INSERT INTO insurance_policies (id, user_id, data) VALUES ('e2e-health', $1, '{"category": "health", "policy_type": "health_family_floater", "sum_assured": 1000000}')
		 ON CONFLICT (id) DO NOTHING`,
	}
	for _, stmt := range stmts {
		_, err := svc.pg.DB.ExecContext(ctx, stmt, e2eUser)
		require.NoError(t, err)
	}
}

func TestScoringPipeline(t *testing.T) {
	svc := connect(t)
	seed(t, svc)

	log := logger.NewTestLogger(t)
	ctx := context.Background()

	reg, err := registry.LoadRegistry("../../configs/activity-registry.json")
	require.NoError(t, err)
	v, err := validation.New(reg)
	require.NoError(t, err)

	st := store.New(svc.pg.DB, svc.redis.Client, svc.cfg.Scoring.CacheDuration(), log)
	require.NoError(t, st.Invalidate(ctx, e2eUser))

	health, err := chs.NewHandler(&chs.Config{Timeout: 10 * time.Second}, st, v, nil, log).
		Execute(ctx, &chs.Input{UserID: e2eUser})
	require.NoError(t, err)
	assert.NotEmpty(t, health.ScoreID)
	assert.Equal(t, 38, health.Result.Age)

	gap, err := epg.NewHandler(&epg.Config{Timeout: 10 * time.Second}, st, v, nil, log).
		Execute(ctx, &epg.Input{UserID: e2eUser})
	require.NoError(t, err)
	assert.Contains(t, gap.UnprotectedAreas, "Vehicle insurance not reviewed")

	checklist, err := gcc.NewHandler(&gcc.Config{Timeout: 5 * time.Second}, st, v, log).
		Execute(ctx, &gcc.Input{Category: "health", PolicyID: "e2e-health"})
	require.NoError(t, err)
	assert.False(t, checklist.Customized)

	indexed, err := ifs.NewHandler(&ifs.Config{Timeout: 10 * time.Second, Index: svc.cfg.Scoring.SnapshotIndex}, svc.es.Client, st, v, log).
		Execute(ctx, &ifs.Input{UserID: e2eUser})
	require.NoError(t, err)
	assert.True(t, indexed.Indexed)
	assert.Equal(t, health.ScoreID, indexed.DocumentID)
}
