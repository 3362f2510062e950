package db

import (
	"context"
	"database/sql"
	"fmt"

	_ "github.com/lib/pq"
	"github.com/rs/zerolog"

	"hireling/internal/lock"
)

const (
	schema       = "hireling_schema"
	migrationKey = "schema-migration"
)

var migrations = []string{
	`CREATE TABLE IF NOT EXISTS hireling_schema.locks (
		key        TEXT PRIMARY KEY,
		locked_by  TEXT,
		is_locked  BOOLEAN NOT NULL DEFAULT FALSE,
		locked_at  TIMESTAMPTZ,
		updated_at TIMESTAMPTZ NOT NULL DEFAULT now()
	)`,
	`CREATE TABLE IF NOT EXISTS hireling_schema.schedules (
		id                    TEXT PRIMARY KEY,
		schedule_type         TEXT NOT NULL,
		cron_expression       TEXT,
		timezone              TEXT NOT NULL DEFAULT 'UTC',
		next_run_at           TIMESTAMPTZ,
		is_active             BOOLEAN NOT NULL DEFAULT TRUE,
		pause_reason          TEXT,
		end_on_utc            TIMESTAMPTZ,
		end_after_occurrences INT,
		agent_id              TEXT NOT NULL,
		input_schema          JSONB,
		input_data            JSONB,
		max_credit_cost       BIGINT NOT NULL DEFAULT 0,
		created_at            TIMESTAMPTZ NOT NULL DEFAULT now(),
		updated_at            TIMESTAMPTZ NOT NULL DEFAULT now()
	)`,
	`CREATE INDEX IF NOT EXISTS idx_schedules_due
		ON hireling_schema.schedules (next_run_at)
		WHERE is_active AND next_run_at IS NOT NULL`,
	`CREATE TABLE IF NOT EXISTS hireling_schema.jobs (
		id                        TEXT PRIMARY KEY,
		agent_id                  TEXT NOT NULL,
		schedule_id               TEXT REFERENCES hireling_schema.schedules (id),
		on_chain_status           TEXT,
		agent_job_status          TEXT NOT NULL,
		next_action               TEXT NOT NULL,
		next_action_error_type    TEXT,
		identifier_from_purchaser TEXT NOT NULL DEFAULT '',
		input_data                JSONB,
		input_hash                TEXT,
		result                    TEXT,
		result_hash               TEXT,
		created_at                TIMESTAMPTZ NOT NULL DEFAULT now(),
		updated_at                TIMESTAMPTZ NOT NULL DEFAULT now()
	)`,
	`CREATE INDEX IF NOT EXISTS idx_jobs_schedule_id
		ON hireling_schema.jobs (schedule_id)`,
}

// Init verifies the database connection and applies the schema. A distributed
// lock keeps concurrent instances from racing the migration; every statement
// is idempotent so a retried Init is harmless.
//
// The locks table has to exist before the lock can be taken, so schema and
// locks-table creation run unguarded first.
func Init(ctx context.Context, db *sql.DB, locks lock.DistributedLockManager, log zerolog.Logger) error {
	if err := db.PingContext(ctx); err != nil {
		return fmt.Errorf("ping database: %w", err)
	}

	if _, err := db.ExecContext(ctx, fmt.Sprintf("CREATE SCHEMA IF NOT EXISTS %s", schema)); err != nil {
		return fmt.Errorf("create schema: %w", err)
	}
	if _, err := db.ExecContext(ctx, migrations[0]); err != nil {
		return fmt.Errorf("create locks table: %w", err)
	}

	l, err := locks.Acquire(ctx, migrationKey)
	if err != nil {
		return fmt.Errorf("acquire migration lock: %w", err)
	}
	defer func() {
		if err := locks.Release(ctx, l); err != nil {
			log.Error().Err(err).Msg("failed to release migration lock")
		}
	}()

	for _, stmt := range migrations[1:] {
		if _, err := db.ExecContext(ctx, stmt); err != nil {
			return fmt.Errorf("apply migration: %w", err)
		}
	}
	return nil
}
