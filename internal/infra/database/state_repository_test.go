package database

import (
	"context"
	"errors"
	"path/filepath"
	"testing"
	"time"

	"homework_status_bot/internal/domain/homework"
)

func newSQLiteRepo(t *testing.T) *StateRepository {
	t.Helper()
	db, err := NewSQLiteConnection(filepath.Join(t.TempDir(), "nested", "state.db"))
	if err != nil {
		t.Fatalf("NewSQLiteConnection error: %v", err)
	}
	t.Cleanup(func() { db.Close() })

	repo := NewSQLiteStateRepository(db)
	if err := repo.Migrate(context.Background()); err != nil {
		t.Fatalf("Migrate error: %v", err)
	}
	return repo
}

func TestSQLiteLoadEmpty(t *testing.T) {
	t.Parallel()
	repo := newSQLiteRepo(t)

	_, err := repo.Load(context.Background())
	if !errors.Is(err, homework.ErrStateNotFound) {
		t.Fatalf("Load error = %v, want ErrStateNotFound", err)
	}
}

func TestSQLiteSaveOverwritesSingleRow(t *testing.T) {
	t.Parallel()
	repo := newSQLiteRepo(t)
	ctx := context.Background()

	first := homework.State{
		Cursor:    1000,
		Report:    homework.NewStatusReport("X", "approved"),
		UpdatedAt: time.UnixMilli(1_700_000_000_000),
	}
	if err := repo.Save(ctx, first); err != nil {
		t.Fatalf("Save error: %v", err)
	}
	second := homework.State{
		Cursor:    1000,
		Report:    homework.NewErrorReport(errors.New("boom")),
		UpdatedAt: time.UnixMilli(1_700_000_600_000),
	}
	if err := repo.Save(ctx, second); err != nil {
		t.Fatalf("Save error: %v", err)
	}

	got, err := repo.Load(ctx)
	if err != nil {
		t.Fatalf("Load error: %v", err)
	}
	if got.Cursor != second.Cursor || got.Report != second.Report {
		t.Fatalf("Load = %+v, want %+v", got, second)
	}
	if !got.UpdatedAt.Equal(second.UpdatedAt) {
		t.Fatalf("UpdatedAt = %s, want %s", got.UpdatedAt, second.UpdatedAt)
	}

	var rows int
	if err := repo.db.QueryRow(`SELECT COUNT(*) FROM poller_state`).Scan(&rows); err != nil {
		t.Fatalf("count rows: %v", err)
	}
	if rows != 1 {
		t.Fatalf("rows = %d, want 1", rows)
	}
}

func TestMigrateIsRepeatable(t *testing.T) {
	t.Parallel()
	repo := newSQLiteRepo(t)
	if err := repo.Migrate(context.Background()); err != nil {
		t.Fatalf("second Migrate error: %v", err)
	}
	if repo.Driver() != "sqlite" {
		t.Fatalf("Driver = %s", repo.Driver())
	}
}

func TestNewSQLiteConnectionRequiresPath(t *testing.T) {
	t.Parallel()
	if _, err := NewSQLiteConnection(""); err == nil {
		t.Fatal("expected error for empty path")
	}
}
