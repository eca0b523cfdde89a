// Package store persists an exported index into a SQLite database so it can
// be queried with ordinary SQL tools.
package store

import (
	"context"
	"database/sql"
	"fmt"
	"os"
	"path/filepath"
	"sort"

	_ "modernc.org/sqlite"

	"nasaudit/internal/tree"
)

const schema = `
	PRAGMA synchronous = NORMAL;
	PRAGMA busy_timeout = 5000;

	CREATE TABLE IF NOT EXISTS nodes (
		id TEXT PRIMARY KEY,
		parent_id TEXT NOT NULL,
		name TEXT NOT NULL,
		type TEXT NOT NULL,
		size REAL NOT NULL,
		size_str TEXT NOT NULL,
		latest TEXT NOT NULL,
		count INTEGER NOT NULL,
		hash TEXT,
		is_duplicate INTEGER NOT NULL
	);
	CREATE INDEX IF NOT EXISTS idx_nodes_parent ON nodes(parent_id);
	CREATE INDEX IF NOT EXISTS idx_nodes_hash ON nodes(hash);

	CREATE TABLE IF NOT EXISTS duplicates (
		id TEXT NOT NULL,
		other_id TEXT NOT NULL,
		PRIMARY KEY (id, other_id)
	);

	CREATE TABLE IF NOT EXISTS meta (
		key TEXT PRIMARY KEY,
		value TEXT NOT NULL
	);
`

// Index is a SQLite copy of an exported index.
type Index struct {
	db *sql.DB
}

// Open opens (creating if needed) the database at path.
func Open(ctx context.Context, path string) (*Index, error) {
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return nil, fmt.Errorf("failed to create database directory: %w", err)
	}

	db, err := sql.Open("sqlite", path+"?_pragma=journal_mode(WAL)")
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}
	db.SetMaxOpenConns(1)

	if _, err := db.ExecContext(ctx, schema); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to create schema: %w", err)
	}
	return &Index{db: db}, nil
}

func (idx *Index) Close() error {
	return idx.db.Close()
}

// Replace swaps the stored content for exported in a single transaction.
func (idx *Index) Replace(ctx context.Context, exported *tree.Exported) (err error) {
	tx, err := idx.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer func() {
		if err != nil {
			tx.Rollback()
		}
	}()

	for _, stmt := range []string{`DELETE FROM nodes`, `DELETE FROM duplicates`, `DELETE FROM meta`} {
		if _, err = tx.ExecContext(ctx, stmt); err != nil {
			return fmt.Errorf("failed to clear index: %w", err)
		}
	}

	nodeStmt, err := tx.PrepareContext(ctx, `
		INSERT INTO nodes (id, parent_id, name, type, size, size_str, latest, count, hash, is_duplicate)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
	`)
	if err != nil {
		return fmt.Errorf("failed to prepare node insert: %w", err)
	}
	defer nodeStmt.Close()

	dupStmt, err := tx.PrepareContext(ctx, `INSERT INTO duplicates (id, other_id) VALUES (?, ?)`)
	if err != nil {
		return fmt.Errorf("failed to prepare duplicate insert: %w", err)
	}
	defer dupStmt.Close()

	parents := make(map[string]string, len(exported.Nodes))
	for parent, kids := range exported.Children {
		for _, kid := range kids {
			parents[kid] = parent
		}
	}

	ids := make([]string, 0, len(exported.Nodes))
	for id := range exported.Nodes {
		ids = append(ids, id)
	}
	sort.Strings(ids)

	for _, id := range ids {
		n := exported.Nodes[id]
		parent, ok := parents[id]
		if !ok {
			parent = tree.RootID
		}
		var hash sql.NullString
		if n.Hash != "" {
			hash = sql.NullString{String: n.Hash, Valid: true}
		}
		if _, err = nodeStmt.ExecContext(ctx, id, parent, n.Name, n.Type, n.Size, n.SizeStr, n.DateStr, n.Count, hash, n.IsDuplicate); err != nil {
			return fmt.Errorf("failed to insert node %s: %w", id, err)
		}
		for _, other := range n.DuplicateOthers {
			if _, err = dupStmt.ExecContext(ctx, id, other); err != nil {
				return fmt.Errorf("failed to insert duplicate %s: %w", id, err)
			}
		}
	}

	meta := map[string]string{
		"fingerprint": exported.Fingerprint,
		"records":     fmt.Sprint(exported.Records),
	}
	for key, value := range meta {
		if _, err = tx.ExecContext(ctx, `INSERT INTO meta (key, value) VALUES (?, ?)`, key, value); err != nil {
			return fmt.Errorf("failed to write meta %s: %w", key, err)
		}
	}

	if err = tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit index: %w", err)
	}
	return nil
}

// Fingerprint returns the fingerprint of the stored index.
func (idx *Index) Fingerprint(ctx context.Context) (string, error) {
	var fp string
	err := idx.db.QueryRowContext(ctx, `SELECT value FROM meta WHERE key = 'fingerprint'`).Scan(&fp)
	if err != nil {
		return "", fmt.Errorf("failed to read fingerprint: %w", err)
	}
	return fp, nil
}

// Children returns the ids of the direct children of id, sorted.
func (idx *Index) Children(ctx context.Context, id string) ([]string, error) {
	rows, err := idx.db.QueryContext(ctx, `SELECT id FROM nodes WHERE parent_id = ? AND id != ? ORDER BY id`, id, tree.RootID)
	if err != nil {
		return nil, fmt.Errorf("failed to query children: %w", err)
	}
	defer rows.Close()

	var kids []string
	for rows.Next() {
		var kid string
		if err := rows.Scan(&kid); err != nil {
			return nil, fmt.Errorf("failed to scan child: %w", err)
		}
		kids = append(kids, kid)
	}
	return kids, rows.Err()
}

// Duplicates returns the ids sharing content with id.
func (idx *Index) Duplicates(ctx context.Context, id string) ([]string, error) {
	rows, err := idx.db.QueryContext(ctx, `SELECT other_id FROM duplicates WHERE id = ? ORDER BY other_id`, id)
	if err != nil {
		return nil, fmt.Errorf("failed to query duplicates: %w", err)
	}
	defer rows.Close()

	var others []string
	for rows.Next() {
		var other string
		if err := rows.Scan(&other); err != nil {
			return nil, fmt.Errorf("failed to scan duplicate: %w", err)
		}
		others = append(others, other)
	}
	return others, rows.Err()
}

// SaveIndex writes exported to the database at path, replacing its content.
func SaveIndex(ctx context.Context, path string, exported *tree.Exported) error {
	idx, err := Open(ctx, path)
	if err != nil {
		return err
	}
	defer idx.Close()

	return idx.Replace(ctx, exported)
}
