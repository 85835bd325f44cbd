package system

import (
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/jordanmae/carekeep/carekeep-cli/internal/cli"
	"github.com/jordanmae/carekeep/carekeep-cli/internal/constants"
	"github.com/jordanmae/carekeep/carekeep-cli/internal/storage"
	"github.com/jordanmae/carekeep/carekeep-cli/internal/utils"
	"github.com/jordanmae/carekeep/carekeep-cli/internal/validation"
)

type DoctorCmd struct{}

func (cmd *DoctorCmd) Run(ctx *cli.Context) error {
	fmt.Println("Running diagnostics...")
	fmt.Println()

	hasError := false
	dbReachable := false

	// Check 1: DB reachable
	if err := checkDBReachable(ctx); err != nil {
		fmt.Printf("❌ Database reachable: FAIL\n")
		fmt.Printf("   Error: %v\n", err)
		hasError = true
	} else {
		fmt.Printf("✓ Database reachable: OK\n")
		dbReachable = true
	}

	checks := []struct {
		name string
		fn   func(*cli.Context) error
	}{
		{"Schema version", checkSchemaVersion},
		{"Migrations complete", checkMigrationsComplete},
		{"Care config validation", checkCareConfigs},
		{"Instance key integrity", checkInstanceKeys},
		{"Log cap", checkLogCap},
		{"Index date formats", checkIndexDates},
	}

	for _, check := range checks {
		if !dbReachable {
			fmt.Printf("⊘ %s: SKIPPED (database not reachable)\n", check.name)
			continue
		}
		if err := check.fn(ctx); err != nil {
			fmt.Printf("❌ %s: FAIL\n", check.name)
			fmt.Printf("   Error: %v\n", err)
			hasError = true
		} else {
			fmt.Printf("✓ %s: OK\n", check.name)
		}
	}

	// Clock/timezone sanity needs no database
	if err := checkClockTimezone(ctx, dbReachable); err != nil {
		fmt.Printf("❌ Clock/timezone: FAIL\n")
		fmt.Printf("   Error: %v\n", err)
		hasError = true
	} else {
		fmt.Printf("✓ Clock/timezone: OK\n")
	}

	fmt.Println()
	if hasError {
		fmt.Println("Diagnostics completed with errors.")
		return fmt.Errorf("one or more health checks failed")
	}

	fmt.Println("All diagnostics passed!")
	return nil
}

// dbProvider is implemented by the SQL-backed stores.
type dbProvider interface {
	GetDB() *sql.DB
}

func storeDB(ctx *cli.Context) *sql.DB {
	if p, ok := ctx.Store.(dbProvider); ok {
		return p.GetDB()
	}
	return nil
}

func checkDBReachable(ctx *cli.Context) error {
	if err := ctx.Store.Load(); err != nil {
		return fmt.Errorf("failed to load database: %w", err)
	}

	if db := storeDB(ctx); db != nil {
		var result int
		if err := db.QueryRow("SELECT 1").Scan(&result); err != nil {
			return fmt.Errorf("failed to query database: %w", err)
		}
	}

	return nil
}

func checkSchemaVersion(ctx *cli.Context) error {
	v, ok := ctx.Store.(versioned)
	if !ok {
		// JSON store has no schema version
		return nil
	}

	current, latest, err := v.SchemaVersions()
	if err != nil {
		return fmt.Errorf("failed to get schema versions: %w", err)
	}
	if current > latest {
		return fmt.Errorf("database schema version (%d) is newer than supported version (%d)", current, latest)
	}

	return nil
}

func checkMigrationsComplete(ctx *cli.Context) error {
	v, ok := ctx.Store.(versioned)
	if !ok {
		return nil
	}

	current, latest, err := v.SchemaVersions()
	if err != nil {
		return fmt.Errorf("failed to get schema versions: %w", err)
	}
	if current < latest {
		return fmt.Errorf("migrations incomplete: current version %d, latest version %d", current, latest)
	}

	return nil
}

func checkCareConfigs(ctx *cli.Context) error {
	if _, err := ctx.Store.GetSettings(); err != nil {
		return fmt.Errorf("failed to get settings: %w", err)
	}

	patientIDs, err := ctx.Store.GetPatientIDs()
	if err != nil {
		return fmt.Errorf("failed to list patients: %w", err)
	}

	for _, patientID := range patientIDs {
		cfg, err := ctx.Store.GetCarePlanConfig(patientID)
		if err != nil {
			if errors.Is(err, storage.ErrNotFound) {
				continue
			}
			return fmt.Errorf("failed to get care config for %s: %w", patientID, err)
		}
		if err := validation.ValidateCarePlanConfig(cfg); err != nil {
			return fmt.Errorf("patient %s: %w", patientID, err)
		}
	}

	return nil
}

func checkInstanceKeys(ctx *cli.Context) error {
	patientIDs, err := ctx.Store.GetPatientIDs()
	if err != nil {
		return fmt.Errorf("failed to list patients: %w", err)
	}

	for _, patientID := range patientIDs {
		instances, err := ctx.Store.GetAllDailyInstances(patientID)
		if err != nil {
			return fmt.Errorf("failed to get instances for %s: %w", patientID, err)
		}
		seen := make(map[string]bool, len(instances))
		for _, inst := range instances {
			key := inst.Key()
			if seen[key] {
				return fmt.Errorf("patient %s: duplicate instance for key %s", patientID, key)
			}
			seen[key] = true
			if inst.Status == constants.InstanceCompleted && inst.CompletedAt == nil {
				return fmt.Errorf("patient %s: completed instance %s has no completion time", patientID, inst.ID)
			}
		}
	}

	return nil
}

func checkLogCap(ctx *cli.Context) error {
	count, err := ctx.Store.CountLogEntries()
	if err != nil {
		return fmt.Errorf("failed to count log entries: %w", err)
	}
	if count > constants.MaxLogEntries {
		return fmt.Errorf("log has %d entries, above the %d cap", count, constants.MaxLogEntries)
	}
	return nil
}

func checkIndexDates(ctx *cli.Context) error {
	patientIDs, err := ctx.Store.GetPatientIDs()
	if err != nil {
		return fmt.Errorf("failed to list patients: %w", err)
	}

	for _, patientID := range patientIDs {
		for _, get := range []func(string) ([]string, error){ctx.Store.GetInstanceIndex, ctx.Store.GetLogIndex} {
			dates, err := get(patientID)
			if err != nil {
				return fmt.Errorf("failed to get index for %s: %w", patientID, err)
			}
			for _, date := range dates {
				if !utils.ValidateDateFormat(date) {
					return fmt.Errorf("patient %s: index contains invalid date %q", patientID, date)
				}
			}
		}
	}

	return nil
}

func checkClockTimezone(ctx *cli.Context, dbReachable bool) error {
	now := time.Now()

	// Check if time is in a reasonable range (after 2020 and before 2100)
	if now.Year() < 2020 || now.Year() > 2100 {
		return fmt.Errorf("system time appears incorrect: %s", now.Format(time.RFC3339))
	}

	if dbReachable {
		settings, err := ctx.Store.GetSettings()
		if err == nil && !utils.ValidateTimezone(settings.Timezone) {
			return fmt.Errorf("configured timezone %q is not loadable", settings.Timezone)
		}
	}

	return nil
}
