package store

import (
	"context"
	"database/sql"
	_ "embed"
	"errors"
	"fmt"

	_ "github.com/mattn/go-sqlite3"

	"github.com/roach88/kinship/internal/rel"
)

//go:embed schema.sql
var schemaSQL string

// SQLite is an EntityStore backed by a single contacts table, for
// hosts that keep documents in a database rather than a directory.
//
// The database is configured with:
//   - WAL mode for concurrent reads during writes
//   - NORMAL synchronous mode (balance durability/performance)
//   - 5-second busy timeout for lock contention
type SQLite struct {
	db *sql.DB
}

// OpenSQLite creates or opens a contact database at the given path.
// Idempotent: pragmas and schema apply on every open.
func OpenSQLite(path string) (*SQLite, error) {
	db, err := sql.Open("sqlite3", path)
	if err != nil {
		return nil, fmt.Errorf("open database: %w", err)
	}
	if err := db.Ping(); err != nil {
		db.Close()
		return nil, fmt.Errorf("connect: %w", err)
	}

	// SQLite supports one writer at a time; a single connection avoids
	// SQLITE_BUSY from our own pool.
	db.SetMaxOpenConns(1)
	db.SetMaxIdleConns(1)

	for _, pragma := range []string{
		"PRAGMA journal_mode = WAL",
		"PRAGMA synchronous = NORMAL",
		"PRAGMA busy_timeout = 5000",
	} {
		if _, err := db.Exec(pragma); err != nil {
			db.Close()
			return nil, fmt.Errorf("apply %q: %w", pragma, err)
		}
	}

	if _, err := db.Exec(schemaSQL); err != nil {
		db.Close()
		return nil, fmt.Errorf("apply schema: %w", err)
	}
	return &SQLite{db: db}, nil
}

// Close closes the database connection.
func (s *SQLite) Close() error {
	if s.db == nil {
		return nil
	}
	return s.db.Close()
}

// Upsert creates or replaces a contact row. Used for seeding and
// import; the engine itself only goes through WriteText.
func (s *SQLite) Upsert(ctx context.Context, id, displayName, body string) error {
	_, err := s.db.ExecContext(ctx, `
		INSERT INTO contacts (id, display_name, display_name_norm, body)
		VALUES (?, ?, ?, ?)
		ON CONFLICT (id) DO UPDATE SET
			display_name = excluded.display_name,
			display_name_norm = excluded.display_name_norm,
			body = excluded.body`,
		id, displayName, rel.NormalizeName(displayName), body)
	if err != nil {
		return fmt.Errorf("upsert %s: %w", id, err)
	}
	return nil
}

func (s *SQLite) ListEntities(ctx context.Context) ([]EntityRef, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT id, display_name FROM contacts ORDER BY id`)
	if err != nil {
		return nil, fmt.Errorf("list contacts: %w", err)
	}
	defer rows.Close()

	var refs []EntityRef
	for rows.Next() {
		var ref EntityRef
		if err := rows.Scan(&ref.ID, &ref.DisplayName); err != nil {
			return nil, fmt.Errorf("scan contact: %w", err)
		}
		refs = append(refs, ref)
	}
	return refs, rows.Err()
}

func (s *SQLite) ReadText(ctx context.Context, ref EntityRef) (string, error) {
	var body string
	err := s.db.QueryRowContext(ctx,
		`SELECT body FROM contacts WHERE id = ?`, ref.ID).Scan(&body)
	if errors.Is(err, sql.ErrNoRows) {
		return "", ErrNotFound
	}
	if err != nil {
		return "", fmt.Errorf("read %s: %w", ref.ID, err)
	}
	return body, nil
}

func (s *SQLite) WriteText(ctx context.Context, ref EntityRef, text string) error {
	res, err := s.db.ExecContext(ctx,
		`UPDATE contacts SET body = ? WHERE id = ?`, text, ref.ID)
	if err != nil {
		return fmt.Errorf("write %s: %w", ref.ID, err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("write %s: %w", ref.ID, err)
	}
	if n == 0 {
		return ErrNotFound
	}
	return nil
}

func (s *SQLite) LookupByDisplayName(ctx context.Context, name string) (EntityRef, bool, error) {
	var ref EntityRef
	err := s.db.QueryRowContext(ctx, `
		SELECT id, display_name FROM contacts
		WHERE display_name_norm = ?
		ORDER BY id LIMIT 1`,
		rel.NormalizeName(name)).Scan(&ref.ID, &ref.DisplayName)
	if errors.Is(err, sql.ErrNoRows) {
		return EntityRef{}, false, nil
	}
	if err != nil {
		return EntityRef{}, false, fmt.Errorf("lookup name %q: %w", name, err)
	}
	return ref, true, nil
}

func (s *SQLite) LookupByID(ctx context.Context, id string) (EntityRef, bool, error) {
	var ref EntityRef
	err := s.db.QueryRowContext(ctx,
		`SELECT id, display_name FROM contacts WHERE id = ?`, id).
		Scan(&ref.ID, &ref.DisplayName)
	if errors.Is(err, sql.ErrNoRows) {
		return EntityRef{}, false, nil
	}
	if err != nil {
		return EntityRef{}, false, fmt.Errorf("lookup id %q: %w", id, err)
	}
	return ref, true, nil
}
