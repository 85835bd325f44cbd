package system

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/jordanmae/carekeep/carekeep-cli/internal/cli"
	"github.com/jordanmae/carekeep/carekeep-cli/internal/storage"
	"github.com/jordanmae/carekeep/carekeep-cli/internal/storage/postgres"
	"github.com/jordanmae/carekeep/carekeep-cli/internal/storage/sqlite"
)

type InitCmd struct {
	Force  bool   `help:"Force reset by deleting existing database before initialization."`
	Source string `help:"Source database path or connection string to migrate data from."`
}

func (c *InitCmd) Run(ctx *cli.Context) error {
	// If force flag is provided, delete existing database
	if c.Force {
		dbPath := ctx.Store.GetConfigPath()
		// Don't delete if it's the source (user error protection)
		if c.Source != "" {
			absDbPath, err := filepath.Abs(dbPath)
			if err == nil {
				dbPath = absDbPath
			}
			absSource, err := filepath.Abs(c.Source)
			if err == nil && absSource == dbPath {
				return fmt.Errorf("cannot use --force when source and destination are the same: %s", dbPath)
			}
		}
		if _, err := os.Stat(dbPath); err == nil {
			// Close first to prevent file locking issues
			if err := ctx.Store.Close(); err != nil {
				return fmt.Errorf("failed to close existing database: %w", err)
			}
			if err := os.Remove(dbPath); err != nil {
				return fmt.Errorf("failed to delete existing database: %w", err)
			}
			fmt.Printf("Deleted existing database at: %s\n", dbPath)
		} else if !os.IsNotExist(err) {
			return fmt.Errorf("failed to access existing database: %w", err)
		}
	}

	if err := ctx.Store.Init(); err != nil {
		return err
	}
	fmt.Printf("Initialized carekeep storage at: %s\n", ctx.Store.GetConfigPath())

	if c.Source != "" {
		fmt.Printf("Migrating data from: %s\n", c.Source)
		if err := c.migrateData(ctx, c.Source); err != nil {
			return fmt.Errorf("migration failed: %w", err)
		}
		fmt.Println("Migration completed successfully!")
	}

	return nil
}

func (c *InitCmd) migrateData(ctx *cli.Context, sourcePath string) error {
	// Determine source store type and instantiate it
	var sourceStore storage.Provider
	if strings.HasPrefix(sourcePath, "postgres://") || strings.HasPrefix(sourcePath, "postgresql://") {
		if valid, err := postgres.ValidateConnString(sourcePath); !valid {
			if errors.Is(err, postgres.ErrEmbeddedCredentials) {
				return fmt.Errorf("PostgreSQL source connection string contains embedded credentials. Use environment variables or .pgpass instead")
			}
			return err
		}
		sourceStore = postgres.New(sourcePath)
	} else if strings.HasSuffix(sourcePath, ".json") {
		sourceStore = storage.NewJSONStore(sourcePath)
	} else {
		sourceStore = sqlite.NewStore(sourcePath)
	}

	if err := sourceStore.Load(); err != nil {
		return fmt.Errorf("failed to load source database: %w", err)
	}
	defer sourceStore.Close()

	// Migrate Settings
	fmt.Println("  Migrating settings...")
	settings, err := sourceStore.GetSettings()
	if err != nil {
		return fmt.Errorf("failed to get settings from source: %w", err)
	}
	if err := ctx.Store.SaveSettings(settings); err != nil {
		return fmt.Errorf("failed to save settings to destination: %w", err)
	}

	patientIDs, err := sourceStore.GetPatientIDs()
	if err != nil {
		return fmt.Errorf("failed to list patients in source: %w", err)
	}

	for _, patientID := range patientIDs {
		fmt.Printf("  Migrating patient %s...\n", patientID)

		if cfg, err := sourceStore.GetCarePlanConfig(patientID); err == nil {
			if err := ctx.Store.SaveCarePlanConfig(cfg); err != nil {
				return fmt.Errorf("failed to save care config: %w", err)
			}
		} else if !errors.Is(err, storage.ErrNotFound) {
			return fmt.Errorf("failed to get care config: %w", err)
		}

		if plan, err := sourceStore.GetCarePlan(patientID); err == nil {
			if err := ctx.Store.SaveCarePlan(plan); err != nil {
				return fmt.Errorf("failed to save care plan: %w", err)
			}
		} else if !errors.Is(err, storage.ErrNotFound) {
			return fmt.Errorf("failed to get care plan: %w", err)
		}

		if snap, err := sourceStore.GetDailySnapshot(patientID); err == nil {
			if err := ctx.Store.SaveDailySnapshot(snap); err != nil {
				return fmt.Errorf("failed to save snapshot: %w", err)
			}
		} else if !errors.Is(err, storage.ErrNotFound) {
			return fmt.Errorf("failed to get snapshot: %w", err)
		}

		instances, err := sourceStore.GetAllDailyInstances(patientID)
		if err != nil {
			return fmt.Errorf("failed to get instances: %w", err)
		}
		for _, inst := range instances {
			if err := ctx.Store.SaveDailyInstance(inst); err != nil {
				return fmt.Errorf("failed to save instance %s: %w", inst.ID, err)
			}
		}
		fmt.Printf("    Migrated %d daily instances\n", len(instances))

		overrides, err := sourceStore.GetAllOverrides(patientID)
		if err != nil {
			return fmt.Errorf("failed to get overrides: %w", err)
		}
		for _, o := range overrides {
			if err := ctx.Store.SaveOverride(o, "0001-01-01"); err != nil {
				return fmt.Errorf("failed to save override: %w", err)
			}
		}

		for _, pair := range []struct {
			get func(string) ([]string, error)
			add func(string, string, string) error
		}{
			{sourceStore.GetInstanceIndex, ctx.Store.AddInstanceIndexDate},
			{sourceStore.GetLogIndex, ctx.Store.AddLogIndexDate},
		} {
			dates, err := pair.get(patientID)
			if err != nil {
				return fmt.Errorf("failed to get index: %w", err)
			}
			for _, date := range dates {
				// A cutoff predating everything keeps all carried-over dates.
				if err := pair.add(patientID, date, "0001-01-01"); err != nil {
					return fmt.Errorf("failed to add index date: %w", err)
				}
			}
		}
	}

	// Migrate Log Entries
	fmt.Println("  Migrating log entries...")
	entries, err := sourceStore.GetAllLogEntries()
	if err != nil {
		return fmt.Errorf("failed to get log entries from source: %w", err)
	}
	for _, entry := range entries {
		if err := ctx.Store.AddLogEntry(entry); err != nil {
			return fmt.Errorf("failed to add log entry %s: %w", entry.ID, err)
		}
	}
	fmt.Printf("    Migrated %d log entries\n", len(entries))

	return nil
}
