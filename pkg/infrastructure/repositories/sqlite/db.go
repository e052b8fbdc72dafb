// Package sqlite contains SQLite implementations of the catalog and quote
// repositories.
package sqlite

import (
	"database/sql"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	_ "github.com/mattn/go-sqlite3"
)

// SchemaSQL is the complete schema. Tests open ":memory:" databases with it.
const SchemaSQL = `
CREATE TABLE IF NOT EXISTS chassis_types (
	id TEXT PRIMARY KEY,
	description TEXT NOT NULL DEFAULT '',
	total_slots INTEGER NOT NULL,
	reserved_slots TEXT NOT NULL DEFAULT '',
	price TEXT NOT NULL DEFAULT '0',
	cost TEXT NOT NULL DEFAULT '0'
);

CREATE TABLE IF NOT EXISTS chassis_pairs (
	chassis_id TEXT NOT NULL REFERENCES chassis_types(id) ON DELETE CASCADE,
	card_class TEXT NOT NULL,
	priority INTEGER NOT NULL,
	first_slot INTEGER NOT NULL,
	second_slot INTEGER NOT NULL,
	PRIMARY KEY (chassis_id, card_class, priority)
);

CREATE TABLE IF NOT EXISTS cards (
	id TEXT PRIMARY KEY,
	description TEXT NOT NULL DEFAULT '',
	card_class TEXT NOT NULL DEFAULT '',
	slot_span INTEGER NOT NULL DEFAULT 1,
	standard INTEGER NOT NULL DEFAULT 0,
	pinned_slot INTEGER NOT NULL DEFAULT 0,
	designated_only INTEGER NOT NULL DEFAULT 0,
	allowed_slots TEXT NOT NULL DEFAULT '',
	outside_chassis INTEGER NOT NULL DEFAULT 0,
	remote_enable INTEGER NOT NULL DEFAULT 0,
	template TEXT NOT NULL DEFAULT '',
	sort_order INTEGER NOT NULL DEFAULT 0,
	price TEXT NOT NULL DEFAULT '0',
	cost TEXT NOT NULL DEFAULT '0',
	created_at DATETIME DEFAULT CURRENT_TIMESTAMP
);

CREATE TABLE IF NOT EXISTS card_specs (
	card_id TEXT NOT NULL REFERENCES cards(id) ON DELETE CASCADE,
	spec_key TEXT NOT NULL,
	spec_value TEXT NOT NULL,
	PRIMARY KEY (card_id, spec_key)
);

CREATE TABLE IF NOT EXISTS part_number_configs (
	chassis_id TEXT PRIMARY KEY,
	prefix TEXT NOT NULL DEFAULT '',
	slot_placeholder TEXT NOT NULL,
	slot_count INTEGER NOT NULL DEFAULT 0,
	suffix_separator TEXT NOT NULL DEFAULT '',
	remote_off_code TEXT NOT NULL DEFAULT '',
	remote_on_code TEXT NOT NULL DEFAULT '',
	outside_order TEXT NOT NULL DEFAULT 'selection'
);

CREATE TABLE IF NOT EXISTS quotes (
	id TEXT PRIMARY KEY,
	customer TEXT NOT NULL,
	status TEXT NOT NULL DEFAULT 'draft',
	created_at DATETIME NOT NULL,
	updated_at DATETIME NOT NULL
);

CREATE TABLE IF NOT EXISTS quote_lines (
	quote_id TEXT NOT NULL REFERENCES quotes(id) ON DELETE CASCADE,
	line_number INTEGER NOT NULL,
	part_number TEXT NOT NULL,
	chassis_id TEXT NOT NULL,
	cards TEXT NOT NULL DEFAULT '',
	quantity INTEGER NOT NULL,
	unit_price TEXT NOT NULL,
	unit_cost TEXT NOT NULL,
	PRIMARY KEY (quote_id, line_number)
);
`

// Open opens (creating if needed) the SQLite database at path and applies
// the schema. ":memory:" is accepted for tests.
func Open(path string) (*sql.DB, error) {
	if path != ":memory:" {
		if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
			return nil, fmt.Errorf("failed to create database directory: %w", err)
		}
	}

	db, err := sql.Open("sqlite3", path)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}
	if path == ":memory:" {
		// every pooled connection would otherwise get its own empty database
		db.SetMaxOpenConns(1)
	}

	if _, err := db.Exec("PRAGMA foreign_keys = ON"); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to enable foreign keys: %w", err)
	}
	if _, err := db.Exec(SchemaSQL); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to initialize schema: %w", err)
	}

	return db, nil
}

func joinInts(values []int) string {
	parts := make([]string, len(values))
	for i, v := range values {
		parts[i] = strconv.Itoa(v)
	}
	return strings.Join(parts, ",")
}

func splitInts(s string) ([]int, error) {
	if strings.TrimSpace(s) == "" {
		return nil, nil
	}
	var values []int
	for _, part := range strings.Split(s, ",") {
		v, err := strconv.Atoi(strings.TrimSpace(part))
		if err != nil {
			return nil, fmt.Errorf("invalid slot list %q: %w", s, err)
		}
		values = append(values, v)
	}
	return values, nil
}

func boolToInt(b bool) int {
	if b {
		return 1
	}
	return 0
}
