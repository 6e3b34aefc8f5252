// internal/common/database/schema.go
package database

type tableDDL struct {
	table string
	ddl   string
}

var schema = []tableDDL{
	{"users", `CREATE TABLE IF NOT EXISTS users (
	id TEXT PRIMARY KEY,
	email TEXT,
	phone TEXT,
	age INTEGER,
	created_at TIMESTAMPTZ NOT NULL DEFAULT now()
)`},
	{"questionnaires", `CREATE TABLE IF NOT EXISTS questionnaires (
	user_id TEXT PRIMARY KEY REFERENCES users(id),
	data JSONB NOT NULL,
	updated_at TIMESTAMPTZ NOT NULL DEFAULT now()
)`},
	{"risk_profiles", `CREATE TABLE IF NOT EXISTS risk_profiles (
	user_id TEXT PRIMARY KEY REFERENCES users(id),
	data JSONB NOT NULL,
	updated_at TIMESTAMPTZ NOT NULL DEFAULT now()
)`},
	{"insurance_policies", `CREATE TABLE IF NOT EXISTS insurance_policies (
	id TEXT PRIMARY KEY,
	user_id TEXT NOT NULL REFERENCES users(id),
	data JSONB NOT NULL,
	created_at TIMESTAMPTZ NOT NULL DEFAULT now()
)`},
	{"policy_coverages", `CREATE TABLE IF NOT EXISTS policy_coverages (
	policy_id TEXT PRIMARY KEY REFERENCES insurance_policies(id),
	inclusions JSONB NOT NULL DEFAULT '{}',
	exclusions JSONB NOT NULL DEFAULT '{}',
	custom_notes TEXT NOT NULL DEFAULT ''
)`},
	{"health_scores", `CREATE TABLE IF NOT EXISTS health_scores (
	id UUID PRIMARY KEY,
	user_id TEXT NOT NULL,
	score INTEGER NOT NULL,
	rating TEXT NOT NULL,
	result JSONB NOT NULL,
	calculated_at TIMESTAMPTZ NOT NULL
)`},
	{"protection_gaps", `CREATE TABLE IF NOT EXISTS protection_gaps (
	id UUID PRIMARY KEY,
	user_id TEXT NOT NULL,
	protection_score INTEGER NOT NULL,
	result JSONB NOT NULL,
	calculated_at TIMESTAMPTZ NOT NULL
)`},
}
