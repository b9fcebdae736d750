package store

import (
	"context"
	"database/sql"
	"errors"
	"os"
	"path/filepath"

	_ "modernc.org/sqlite"

	tserrors "github.com/Gaurav-Gosain/tessera/internal/errors"
	"github.com/Gaurav-Gosain/tessera/internal/geom"
)

const schema = `
CREATE TABLE IF NOT EXISTS floating_sizes (
    class TEXT PRIMARY KEY,
    width REAL NOT NULL,
    height REAL NOT NULL,
    updated_at INTEGER NOT NULL DEFAULT (unixepoch())
);
`

const upsertSize = `
INSERT INTO floating_sizes (class, width, height) VALUES (?, ?, ?)
ON CONFLICT(class) DO UPDATE SET
    width = excluded.width,
    height = excluded.height,
    updated_at = unixepoch()
`

// SQLite keeps floating sizes in a database file.
type SQLite struct {
	db *sql.DB
}

// OpenSQLite opens or creates the database at path. ":memory:" gives a
// private in-memory database.
func OpenSQLite(path string) (*SQLite, error) {
	dsn := path
	if path != ":memory:" {
		if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
			return nil, tserrors.Wrap(tserrors.ErrCodeStore, err, "create store directory")
		}
		dsn = path + "?_pragma=journal_mode(WAL)&_pragma=synchronous(NORMAL)&_pragma=busy_timeout(2000)"
	}

	db, err := sql.Open("sqlite", dsn)
	if err != nil {
		return nil, tserrors.Wrap(tserrors.ErrCodeStore, err, "open %s", path)
	}
	// One connection so ":memory:" is a single database.
	db.SetMaxOpenConns(1)

	if err := db.Ping(); err != nil {
		db.Close()
		return nil, tserrors.Wrap(tserrors.ErrCodeStore, err, "connect to %s", path)
	}
	if _, err := db.Exec(schema); err != nil {
		db.Close()
		return nil, tserrors.Wrap(tserrors.ErrCodeStore, err, "create schema")
	}
	return &SQLite{db: db}, nil
}

func (s *SQLite) LoadFloatingSize(ctx context.Context, class string) (geom.Vector2D, bool, error) {
	var size geom.Vector2D
	err := s.db.QueryRowContext(ctx,
		`SELECT width, height FROM floating_sizes WHERE class = ?`, class,
	).Scan(&size.X, &size.Y)
	switch {
	case errors.Is(err, sql.ErrNoRows):
		return geom.Vector2D{}, false, nil
	case err != nil:
		return geom.Vector2D{}, false, tserrors.Wrap(tserrors.ErrCodeStore, err, "load size of %q", class)
	}
	return size, true, nil
}

func (s *SQLite) SaveFloatingSize(ctx context.Context, class string, size geom.Vector2D) error {
	if class == "" {
		return nil
	}
	if _, err := s.db.ExecContext(ctx, upsertSize, class, size.X, size.Y); err != nil {
		return tserrors.Wrap(tserrors.ErrCodeStore, err, "save size of %q", class)
	}
	return nil
}

func (s *SQLite) Close() error {
	return s.db.Close()
}
