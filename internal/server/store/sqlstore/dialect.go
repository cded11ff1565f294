package sqlstore

import (
	"fmt"
	"regexp"
)

// Dialect selects driver name, goose dialect and placeholder style.
type Dialect string

const (
	Postgres Dialect = "postgres"
	SQLite   Dialect = "sqlite"
)

func (d Dialect) driver() string {
	if d == SQLite {
		return "sqlite"
	}
	return "pgx"
}

func (d Dialect) gooseDialect() string {
	if d == SQLite {
		return "sqlite3"
	}
	return "pgx"
}

func (d Dialect) migrationsDir() string {
	return string(d)
}

func ParseDialect(s string) (Dialect, error) {
	switch Dialect(s) {
	case Postgres, SQLite:
		return Dialect(s), nil
	}
	return "", fmt.Errorf("unknown sql dialect %q", s)
}

var pgPlaceholder = regexp.MustCompile(`\$(\d+)`)

// rebind turns $N placeholders into SQLite's ?N numbered form.
func (d Dialect) rebind(q string) string {
	if d == SQLite {
		return pgPlaceholder.ReplaceAllString(q, "?$1")
	}
	return q
}

type queries struct {
	get, set, insertNew, update, del, list string
}

func (d Dialect) queries() queries {
	return queries{
		get: d.rebind(`SELECT value, version FROM records
		 WHERE collection = $1 AND record_key = $2`),

		set: d.rebind(`INSERT INTO records (collection, record_key, value, version)
		 VALUES ($1, $2, $3, 1)
		 ON CONFLICT (collection, record_key)
		 DO UPDATE SET value = excluded.value, version = records.version + 1, updated_at = CURRENT_TIMESTAMP
		 RETURNING version`),

		insertNew: d.rebind(`INSERT INTO records (collection, record_key, value, version)
		 VALUES ($1, $2, $3, 1)
		 ON CONFLICT (collection, record_key) DO NOTHING`),

		update: d.rebind(`UPDATE records SET value = $3, version = version + 1, updated_at = CURRENT_TIMESTAMP
		 WHERE collection = $1 AND record_key = $2 AND version = $4
		 RETURNING version`),

		del: d.rebind(`DELETE FROM records
		 WHERE collection = $1 AND record_key = $2`),

		list: d.rebind(`SELECT record_key, value, version FROM records
		 WHERE collection = $1
		 ORDER BY record_key`),
	}
}
