package db

import (
	"fmt"

	"gorm.io/gorm"
)

// PlateLookupExpr is the plate expression the repository filters on. The
// plate index is built on exactly this expression so lookups can use it.
const PlateLookupExpr = `json_extract_path_text(doc::json, 'license_plate_text')`

var migrationStatements = []string{
	`CREATE TABLE IF NOT EXISTS sightings (
		id              UUID PRIMARY KEY,
		doc             JSONB NOT NULL,
		created_at      TIMESTAMPTZ NOT NULL DEFAULT now()
	);`,
	`DROP INDEX IF EXISTS idx_sightings_doc;`,
	`DROP INDEX IF EXISTS idx_sightings_plate;`,
	`CREATE INDEX IF NOT EXISTS idx_sightings_plate_lookup ON sightings ((` + PlateLookupExpr + `));`,
}

func runMigrations(db *gorm.DB) error {
	for i, stmt := range migrationStatements {
		if err := db.Exec(stmt).Error; err != nil {
			return fmt.Errorf("migration %d failed: %w", i+1, err)
		}
	}
	return nil
}
