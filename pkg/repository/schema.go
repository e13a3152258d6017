package repository

import (
	"context"
	"database/sql"
	"fmt"
)

// schemaStatements creates the base schema if it does not already exist.
// Idempotent additive migrations below layer on embedding, content_hash,
// embeddable, and the file-provenance columns.
var schemaStatements = []string{
	`CREATE TABLE IF NOT EXISTS bookmarks (
		id INTEGER PRIMARY KEY AUTOINCREMENT,
		URL TEXT NOT NULL UNIQUE,
		metadata TEXT NOT NULL DEFAULT '',
		tags TEXT NOT NULL DEFAULT ',',
		desc TEXT NOT NULL DEFAULT '',
		flags INTEGER NOT NULL DEFAULT 0,
		access_count INTEGER NOT NULL DEFAULT 0,
		created_ts TIMESTAMP,
		last_update_ts TIMESTAMP NOT NULL
	)`,
	`CREATE VIRTUAL TABLE IF NOT EXISTS bookmarks_fts USING fts5(
		metadata, desc, tags, URL, content='bookmarks', content_rowid='id'
	)`,
	`CREATE TRIGGER IF NOT EXISTS bookmarks_ai AFTER INSERT ON bookmarks BEGIN
		INSERT INTO bookmarks_fts(rowid, metadata, desc, tags, URL)
		VALUES (new.id, new.metadata, new.desc, new.tags, new.URL);
	END`,
	`CREATE TRIGGER IF NOT EXISTS bookmarks_ad AFTER DELETE ON bookmarks BEGIN
		INSERT INTO bookmarks_fts(bookmarks_fts, rowid, metadata, desc, tags, URL)
		VALUES ('delete', old.id, old.metadata, old.desc, old.tags, old.URL);
	END`,
	`CREATE TRIGGER IF NOT EXISTS bookmarks_au AFTER UPDATE ON bookmarks BEGIN
		INSERT INTO bookmarks_fts(bookmarks_fts, rowid, metadata, desc, tags, URL)
		VALUES ('delete', old.id, old.metadata, old.desc, old.tags, old.URL);
		INSERT INTO bookmarks_fts(rowid, metadata, desc, tags, URL)
		VALUES (new.id, new.metadata, new.desc, new.tags, new.URL);
	END`,
}

// additive migrations, applied after the base schema, each guarded so
// re-running them is a no-op (spec's supplemented create-db command, §S6).
var columnMigrations = []struct {
	column string
	ddl    string
}{
	{"embedding", "ALTER TABLE bookmarks ADD COLUMN embedding BLOB"},
	{"content_hash", "ALTER TABLE bookmarks ADD COLUMN content_hash BLOB"},
	{"embeddable", "ALTER TABLE bookmarks ADD COLUMN embeddable INTEGER NOT NULL DEFAULT 0"},
	{"file_path", "ALTER TABLE bookmarks ADD COLUMN file_path TEXT"},
	{"file_mtime", "ALTER TABLE bookmarks ADD COLUMN file_mtime INTEGER"},
	{"file_hash", "ALTER TABLE bookmarks ADD COLUMN file_hash TEXT"},
}

// Migrate creates the schema on first open and applies any pending
// additive column migrations. Running it against an already-initialized
// database is a no-op.
func Migrate(ctx context.Context, db *sql.DB) error {
	for _, stmt := range schemaStatements {
		if _, err := db.ExecContext(ctx, stmt); err != nil {
			return fmt.Errorf("schema migration: %w", err)
		}
	}

	existing, err := existingColumns(ctx, db)
	if err != nil {
		return fmt.Errorf("inspect schema: %w", err)
	}

	for _, m := range columnMigrations {
		if _, ok := existing[m.column]; ok {
			continue
		}
		if _, err := db.ExecContext(ctx, m.ddl); err != nil {
			return fmt.Errorf("migrate column %s: %w", m.column, err)
		}
	}
	return nil
}

func existingColumns(ctx context.Context, db *sql.DB) (map[string]struct{}, error) {
	rows, err := db.QueryContext(ctx, `PRAGMA table_info(bookmarks)`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	cols := map[string]struct{}{}
	for rows.Next() {
		var cid int
		var name, ctype string
		var notnull int
		var dflt sql.NullString
		var pk int
		if err := rows.Scan(&cid, &name, &ctype, &notnull, &dflt, &pk); err != nil {
			return nil, err
		}
		cols[name] = struct{}{}
	}
	return cols, rows.Err()
}
