package storage

import (
	"fmt"
	"strconv"
	"strings"

	_ "github.com/jackc/pgx/v5/stdlib" // register pgx as a database/sql driver
	_ "modernc.org/sqlite"             // register the pure-Go sqlite driver
)

// Dialect captures the differences between the supported databases.
type Dialect struct {
	Name   string
	driver string
	serial string // auto-increment primary key column definition
	dollar bool   // positional $n placeholders instead of ?
	pragma []string
}

// Supported dialects.
var (
	SQLite = Dialect{ //nolint:gochecknoglobals // immutable dialect table
		Name:   "sqlite",
		driver: "sqlite",
		serial: "INTEGER PRIMARY KEY AUTOINCREMENT",
		pragma: []string{"PRAGMA journal_mode=WAL", "PRAGMA foreign_keys=ON", "PRAGMA busy_timeout=5000"},
	}
	Postgres = Dialect{ //nolint:gochecknoglobals // immutable dialect table
		Name:   "postgres",
		driver: "pgx",
		serial: "BIGSERIAL PRIMARY KEY",
		dollar: true,
	}
)

// DialectFor resolves a backend mode name.
func DialectFor(name string) (Dialect, error) {
	switch strings.ToLower(name) {
	case SQLite.Name:
		return SQLite, nil
	case Postgres.Name, "pgx":
		return Postgres, nil
	}
	return Dialect{}, fmt.Errorf("%w: %q", ErrUnknownDialect, name)
}

// rebind rewrites ? placeholders for dialects that use $n.
func (d Dialect) rebind(q string) string {
	if !d.dollar {
		return q
	}
	var b strings.Builder
	b.Grow(len(q) + 8)
	n := 0
	for _, r := range q {
		if r == '?' {
			n++
			b.WriteByte('$')
			b.WriteString(strconv.Itoa(n))
			continue
		}
		b.WriteRune(r)
	}
	return b.String()
}

func (d Dialect) schema() []string {
	return []string{
		`CREATE TABLE IF NOT EXISTS participants (
			id ` + d.serial + `,
			name TEXT NOT NULL,
			team TEXT NOT NULL CHECK (team IN ('blue', 'yellow'))
		)`,
		`CREATE TABLE IF NOT EXISTS scores (
			participant_id BIGINT NOT NULL REFERENCES participants(id) ON DELETE CASCADE,
			date TEXT NOT NULL,
			score TEXT NOT NULL,
			PRIMARY KEY (participant_id, date)
		)`,
		`CREATE INDEX IF NOT EXISTS scores_date_idx ON scores (date)`,
		`CREATE TABLE IF NOT EXISTS users (
			id ` + d.serial + `,
			first_name TEXT NOT NULL,
			last_name TEXT NOT NULL,
			age INTEGER NOT NULL DEFAULT 0
		)`,
		`CREATE TABLE IF NOT EXISTS activities (
			id ` + d.serial + `,
			description TEXT NOT NULL,
			user_id BIGINT NOT NULL
		)`,
	}
}
