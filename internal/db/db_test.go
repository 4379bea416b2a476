package db

import (
	"context"
	"path/filepath"
	"testing"

	dbgen "github.com/casaluxe/stay/internal/db/generated"
)

func TestSqliteDSN(t *testing.T) {
	tests := []struct {
		in   string
		want string
	}{
		{in: "data/stay.db", want: "data/stay.db?_fk=1&_busy_timeout=5000"},
		{in: "file:stay.db?cache=shared", want: "file:stay.db?cache=shared&_fk=1&_busy_timeout=5000"},
		{in: "stay.db?_fk=0&_busy_timeout=10", want: "stay.db?_fk=0&_busy_timeout=10"},
	}
	for _, tt := range tests {
		if got := sqliteDSN(tt.in); got != tt.want {
			t.Errorf("sqliteDSN(%q) = %q, want %q", tt.in, got, tt.want)
		}
	}
}

func TestNewAppliesMigrationsAndIsReopenable(t *testing.T) {
	path := filepath.Join(t.TempDir(), "stay.db")
	first, err := New(path)
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	if _, err := first.Queries.ListPricingRules(context.Background()); err != nil {
		t.Fatalf("ListPricingRules: %v", err)
	}
	first.Close()

	second, err := New(path)
	if err != nil {
		t.Fatalf("reopen: %v", err)
	}
	defer second.Close()
}

func TestRunInTxRollsBackOnError(t *testing.T) {
	database, err := New(filepath.Join(t.TempDir(), "stay.db"))
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	defer database.Close()
	ctx := context.Background()

	errBoom := context.Canceled
	err = database.RunInTx(ctx, func(tx *DB) error {
		if _, err := tx.Queries.UpsertSiteSettings(ctx, dbgen.UpsertSiteSettingsParams{
			ID:                "default",
			NightlyPriceCents: 100,
			CleaningFeeCents:  10,
			BlockedDates:      "[]",
		}); err != nil {
			return err
		}
		return errBoom
	})
	if err != errBoom {
		t.Fatalf("RunInTx err = %v, want %v", err, errBoom)
	}
	if _, err := database.Queries.GetSiteSettings(ctx, "default"); err == nil {
		t.Fatal("expected rolled back row to be absent")
	}
}

func TestNewMigratorReportsVersion(t *testing.T) {
	path := filepath.Join(t.TempDir(), "stay.db")
	database, err := New(path)
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	defer database.Close()

	m, err := NewMigrator(database.DB)
	if err != nil {
		t.Fatalf("NewMigrator: %v", err)
	}
	version, dirty, err := m.Version()
	if err != nil {
		t.Fatalf("Version: %v", err)
	}
	if version == 0 || dirty {
		t.Fatalf("version = %d, dirty = %v", version, dirty)
	}
}
