package repository

import (
	"context"

	"entgo.io/ent/dialect"

	"github.com/joseph-ayodele/papers-tracker/internal/common"
)

var postgresSchema = []string{
	`CREATE TABLE IF NOT EXISTS iqps (
		id integer PRIMARY KEY GENERATED ALWAYS AS IDENTITY,
		course_code TEXT NOT NULL DEFAULT '',
		course_name TEXT NOT NULL,
		year INTEGER NOT NULL,
		exam TEXT NOT NULL DEFAULT '',
		semester TEXT NOT NULL DEFAULT '',
		note TEXT NOT NULL DEFAULT '',
		filelink TEXT NOT NULL,
		content_hash TEXT NOT NULL DEFAULT '',
		from_library BOOLEAN NOT NULL DEFAULT FALSE,
		upload_timestamp TIMESTAMPTZ NOT NULL DEFAULT CURRENT_TIMESTAMP,
		status TEXT NOT NULL DEFAULT 'unapproved'
	)`,
	`CREATE INDEX IF NOT EXISTS iqps_course_code_idx ON iqps (course_code)`,
	`CREATE INDEX IF NOT EXISTS iqps_status_idx ON iqps (status)`,
	`CREATE INDEX IF NOT EXISTS iqps_content_hash_idx ON iqps (content_hash)`,
}

var sqliteSchema = []string{
	`CREATE TABLE IF NOT EXISTS iqps (
		id INTEGER PRIMARY KEY AUTOINCREMENT,
		course_code TEXT NOT NULL DEFAULT '',
		course_name TEXT NOT NULL,
		year INTEGER NOT NULL,
		exam TEXT NOT NULL DEFAULT '',
		semester TEXT NOT NULL DEFAULT '',
		note TEXT NOT NULL DEFAULT '',
		filelink TEXT NOT NULL,
		content_hash TEXT NOT NULL DEFAULT '',
		from_library BOOLEAN NOT NULL DEFAULT FALSE,
		upload_timestamp TIMESTAMP NOT NULL DEFAULT CURRENT_TIMESTAMP,
		status TEXT NOT NULL DEFAULT 'unapproved'
	)`,
	`CREATE INDEX IF NOT EXISTS iqps_course_code_idx ON iqps (course_code)`,
	`CREATE INDEX IF NOT EXISTS iqps_status_idx ON iqps (status)`,
	`CREATE INDEX IF NOT EXISTS iqps_content_hash_idx ON iqps (content_hash)`,
}

// Migrate creates the catalogue table and its indexes if missing.
func (d *DB) Migrate(ctx context.Context) error {
	stmts := sqliteSchema
	if d.Dialect() == dialect.Postgres {
		stmts = postgresSchema
	}
	for _, s := range stmts {
		if err := d.drv.Exec(ctx, s, []any{}, nil); err != nil {
			d.logger.Error("migration failed", "error", err)
			return common.WrapError(err, "migrate")
		}
	}
	d.logger.Info("schema up to date", "dialect", d.Dialect())
	return nil
}
