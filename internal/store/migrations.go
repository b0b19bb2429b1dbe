package store

import (
	"database/sql"
	"fmt"

	"cosmic/internal/logging"
)

// Schema versions:
// v1: snapshots with card, planet, gate, phase, storm and Kp columns
// v2: added hd_type
// v3: added tightest_aspect
const CurrentSchemaVersion = 3

// Migration adds one column to an existing table.
type Migration struct {
	Version int
	Table   string
	Column  string
	Def     string
}

// pendingMigrations upgrade archives created before a column existed.
var pendingMigrations = []Migration{
	{2, "snapshots", "hd_type", "TEXT NOT NULL DEFAULT ''"},
	{3, "snapshots", "tightest_aspect", "TEXT NOT NULL DEFAULT ''"},
}

// RunMigrations applies column migrations to an existing database.
func RunMigrations(db *sql.DB) error {
	timer := logging.StartTimer(logging.CategoryStore, "RunMigrations")
	defer timer.Stop()

	applied := 0
	for _, m := range pendingMigrations {
		if !tableExists(db, m.Table) {
			logging.StoreDebug("Table missing, skipping migration: %s.%s", m.Table, m.Column)
			continue
		}
		if columnExists(db, m.Table, m.Column) {
			continue
		}
		query := fmt.Sprintf("ALTER TABLE %s ADD COLUMN %s %s", m.Table, m.Column, m.Def)
		if _, err := db.Exec(query); err != nil {
			return fmt.Errorf("migration v%d %s.%s: %w", m.Version, m.Table, m.Column, err)
		}
		logging.Store("Migration applied: added %s.%s", m.Table, m.Column)
		applied++
	}
	if applied > 0 {
		logging.Store("Schema migrations complete: applied=%d", applied)
	}
	return nil
}

// SchemaVersion infers the archive version from its columns. Zero means no
// snapshots table.
func SchemaVersion(db *sql.DB) int {
	if !tableExists(db, "snapshots") {
		return 0
	}
	version := 1
	for _, m := range pendingMigrations {
		if columnExists(db, m.Table, m.Column) && m.Version > version {
			version = m.Version
		}
	}
	return version
}

// columnExists checks if a column exists in a table using PRAGMA table_info.
func columnExists(db *sql.DB, table, column string) bool {
	rows, err := db.Query(fmt.Sprintf("PRAGMA table_info(%s)", table))
	if err != nil {
		logging.StoreDebug("PRAGMA table_info(%s) failed: %v", table, err)
		return false
	}
	defer rows.Close()

	for rows.Next() {
		var cid int
		var name, ctype string
		var notnull, pk int
		var dflt interface{}
		if err := rows.Scan(&cid, &name, &ctype, &notnull, &dflt, &pk); err != nil {
			continue
		}
		if name == column {
			return true
		}
	}
	return false
}

func tableExists(db *sql.DB, table string) bool {
	var count int
	query := "SELECT COUNT(*) FROM sqlite_master WHERE type='table' AND name=?"
	if err := db.QueryRow(query, table).Scan(&count); err != nil {
		logging.StoreDebug("Table existence check failed for %s: %v", table, err)
		return false
	}
	return count > 0
}
