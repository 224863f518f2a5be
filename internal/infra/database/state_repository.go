// internal/infra/database/state_repository.go
package database

import (
	"context"
	"database/sql"
	"embed"
	"fmt"
	"time"

	"homework_status_bot/internal/domain/homework"
)

//go:embed migrations/*.sql
var migrationsFS embed.FS

// dialect holds the SQL that differs between drivers.
type dialect struct {
	name      string
	migration string
	upsert    string
}

var postgresDialect = dialect{
	name:      "postgres",
	migration: "migrations/postgres.sql",
	upsert: `INSERT INTO poller_state (id, from_date, report_kind, homework_name, message, updated_at)
               VALUES (1, $1, $2, $3, $4, $5)
               ON CONFLICT (id) DO UPDATE SET
                 from_date = EXCLUDED.from_date,
                 report_kind = EXCLUDED.report_kind,
                 homework_name = EXCLUDED.homework_name,
                 message = EXCLUDED.message,
                 updated_at = EXCLUDED.updated_at`,
}

var sqliteDialect = dialect{
	name:      "sqlite",
	migration: "migrations/sqlite.sql",
	upsert: `INSERT INTO poller_state (id, from_date, report_kind, homework_name, message, updated_at)
               VALUES (1, ?, ?, ?, ?, ?)
               ON CONFLICT(id) DO UPDATE SET
                 from_date = excluded.from_date,
                 report_kind = excluded.report_kind,
                 homework_name = excluded.homework_name,
                 message = excluded.message,
                 updated_at = excluded.updated_at`,
}

const selectStateQuery = `SELECT from_date, report_kind, homework_name, message, updated_at FROM poller_state WHERE id = 1`

// StateRepository stores the single poller state row.
type StateRepository struct {
	db      *sql.DB
	dialect dialect
}

var _ homework.StateRepository = (*StateRepository)(nil)

func NewPostgresStateRepository(db *sql.DB) *StateRepository {
	return &StateRepository{db: db, dialect: postgresDialect}
}

func NewSQLiteStateRepository(db *sql.DB) *StateRepository {
	return &StateRepository{db: db, dialect: sqliteDialect}
}

// Driver names the SQL dialect in use.
func (r *StateRepository) Driver() string { return r.dialect.name }

// Migrate creates the state table if it does not exist.
func (r *StateRepository) Migrate(ctx context.Context) error {
	schema, err := migrationsFS.ReadFile(r.dialect.migration)
	if err != nil {
		return fmt.Errorf("error reading %s migration: %w", r.dialect.name, err)
	}
	if _, err := r.db.ExecContext(ctx, string(schema)); err != nil {
		return fmt.Errorf("error applying %s migration: %w", r.dialect.name, err)
	}
	return nil
}

func (r *StateRepository) Load(ctx context.Context) (homework.State, error) {
	var (
		state     homework.State
		fromDate  int64
		kind      string
		updatedMS int64
	)
	err := r.db.QueryRowContext(ctx, selectStateQuery).Scan(&fromDate, &kind, &state.Report.HomeworkName, &state.Report.Message, &updatedMS)
	if err != nil {
		if err == sql.ErrNoRows {
			return homework.State{}, homework.ErrStateNotFound
		}
		return homework.State{}, fmt.Errorf("error loading poller state: %w", err)
	}
	state.Cursor = homework.Cursor(fromDate)
	state.Report.Kind = homework.ReportKind(kind)
	state.UpdatedAt = time.UnixMilli(updatedMS)
	return state, nil
}

func (r *StateRepository) Save(ctx context.Context, state homework.State) error {
	if state.UpdatedAt.IsZero() {
		state.UpdatedAt = time.Now()
	}
	_, err := r.db.ExecContext(ctx, r.dialect.upsert, upsertArgs(state)...)
	if err != nil {
		return fmt.Errorf("error saving poller state: %w", err)
	}
	return nil
}

// upsertArgs lists the values bound to a dialect's upsert, in placeholder order.
func upsertArgs(state homework.State) []any {
	return []any{
		int64(state.Cursor),
		string(state.Report.Kind),
		state.Report.HomeworkName,
		state.Report.Message,
		state.UpdatedAt.UnixMilli(),
	}
}
