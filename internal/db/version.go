package db

import (
	"github.com/pressly/goose/v3"

	"github.com/gmaohq/gmao/internal/db/migrations"
)

// SchemaVersion returns the highest version among the embedded migrations.
// A fully migrated database reports the same value in goose_db_version.
func SchemaVersion() int64 {
	entries, err := migrations.FS.ReadDir(".")
	if err != nil {
		return 0
	}

	var latest int64
	for _, e := range entries {
		if e.IsDir() {
			continue
		}
		v, err := goose.NumericComponent(e.Name())
		if err != nil {
			continue
		}
		latest = max(latest, v)
	}

	return latest
}
