package shared

import (
	"testing"
)

func TestMigrations(t *testing.T) {
	t.Run("RunMigrations", func(t *testing.T) {
		db, err := NewDatabase(":memory:")
		if err != nil {
			t.Fatalf("failed to create database: %v", err)
		}
		defer db.Close()

		if err := RunMigrations(db); err != nil {
			t.Fatalf("failed to run migrations: %v", err)
		}

		for _, table := range []string{"tracks", "audio_features", "tracks_sequence", "audio_features_sequence", "schema_migrations"} {
			var name string
			err := db.QueryRow("SELECT name FROM sqlite_master WHERE type='table' AND name=?", table).Scan(&name)
			if err != nil {
				t.Errorf("expected table %s to exist: %v", table, err)
			}
		}
	})

	t.Run("RunMigrations is idempotent", func(t *testing.T) {
		db, err := NewDatabase(":memory:")
		if err != nil {
			t.Fatalf("failed to create database: %v", err)
		}
		defer db.Close()

		if err := RunMigrations(db); err != nil {
			t.Fatalf("first run failed: %v", err)
		}
		if err := RunMigrations(db); err != nil {
			t.Fatalf("second run failed: %v", err)
		}

		var count int
		if err := db.QueryRow("SELECT COUNT(*) FROM schema_migrations").Scan(&count); err != nil {
			t.Fatalf("failed to count migrations: %v", err)
		}
		if count != 1 {
			t.Errorf("expected 1 applied migration, got %d", count)
		}
	})

	t.Run("RollbackMigration", func(t *testing.T) {
		db, err := NewDatabase(":memory:")
		if err != nil {
			t.Fatalf("failed to create database: %v", err)
		}
		defer db.Close()

		if err := RunMigrations(db); err != nil {
			t.Fatalf("failed to run migrations: %v", err)
		}

		if err := RollbackMigration(db); err != nil {
			t.Fatalf("failed to rollback: %v", err)
		}

		var name string
		err = db.QueryRow("SELECT name FROM sqlite_master WHERE type='table' AND name='tracks'").Scan(&name)
		if err == nil {
			t.Error("expected tracks table to be dropped")
		}

		if err := RollbackMigration(db); err == nil {
			t.Error("expected error rolling back with no applied migrations")
		}
	})

	t.Run("loadMigrations", func(t *testing.T) {
		migrations, err := loadMigrations()
		if err != nil {
			t.Fatalf("failed to load migrations: %v", err)
		}

		if len(migrations) == 0 {
			t.Fatal("expected at least one migration")
		}

		for _, m := range migrations {
			if m.Up == "" {
				t.Errorf("migration %d missing up script", m.Version)
			}
			if m.Down == "" {
				t.Errorf("migration %d missing down script", m.Version)
			}
		}
	})
}
