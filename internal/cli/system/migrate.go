package system

import (
	"fmt"

	"github.com/jordanmae/carekeep/carekeep-cli/internal/cli"
	"github.com/jordanmae/carekeep/carekeep-cli/internal/storage"
)

// migrator is implemented by the SQL-backed stores; the JSON store has no
// schema to migrate.
type migrator interface {
	ApplyMigrations(logFn func(string)) (int, error)
}

type MigrateCmd struct{}

func (c *MigrateCmd) Run(ctx *cli.Context) error {
	m, ok := ctx.Store.(migrator)
	if !ok {
		return fmt.Errorf("migrate command only supports SQL storage (got %T)", ctx.Store)
	}

	count, err := m.ApplyMigrations(func(msg string) {
		fmt.Println(msg)
	})
	if err != nil {
		return fmt.Errorf("migration failed: %w", err)
	}

	if count == 0 {
		fmt.Println("No migrations to apply. Database is up to date.")
	} else {
		fmt.Printf("\nSuccessfully applied %d migration(s).\n", count)
	}

	return nil
}

// versioned lets doctor report schema state for SQL stores.
type versioned interface {
	SchemaVersions() (current, latest int, err error)
}

var (
	_ migrator  = (*storage.SQLiteStore)(nil)
	_ migrator  = (*storage.PostgresStore)(nil)
	_ versioned = (*storage.SQLiteStore)(nil)
	_ versioned = (*storage.PostgresStore)(nil)
)
