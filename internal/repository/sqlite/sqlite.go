// Package sqlite implements the repository interfaces on an embedded
// SQLite database.
//
// WHY SQLITE FOR A CLIENT?
// The state is tiny (one user record, a handful of cookies) but must
// survive restarts and concurrent reads from whatever the process is
// doing. SQLite gives us that in a single file under the user's data
// directory with no daemon to manage — the native equivalent of the
// browser's localStorage plus cookie store.
//
// WHY modernc.org/sqlite INSTEAD OF github.com/mattn/go-sqlite3?
// mattn/go-sqlite3 uses CGo, which needs a C compiler and makes
// cross-compiling the client binary painful. modernc.org/sqlite is a pure
// Go translation of SQLite — it builds everywhere Go builds, which matters
// for a tool users install on three operating systems.
package sqlite

import (
	"database/sql"
	"fmt"

	// Blank import: the driver registers itself with database/sql under
	// the name "sqlite" in its init().
	_ "modernc.org/sqlite"
)

// DB wraps the sql.DB pool and implements repository.SessionRepository and
// repository.CookieRepository.
type DB struct {
	conn *sql.DB
}

// New opens (or creates) the database at dbPath and runs migrations.
// Use ":memory:" in tests for a throwaway database.
func New(dbPath string) (*DB, error) {
	conn, err := sql.Open("sqlite", dbPath)
	if err != nil {
		return nil, fmt.Errorf("sqlite: opening database: %w", err)
	}

	// One connection is plenty for a CLI, and it keeps ":memory:" sane —
	// every pooled connection would otherwise get its own empty database.
	conn.SetMaxOpenConns(1)

	// Force an immediate connection so a bad path or permissions problem
	// surfaces here instead of on the first query.
	if err := conn.Ping(); err != nil {
		conn.Close()
		return nil, fmt.Errorf("sqlite: pinging database: %w", err)
	}

	// WAL lets a read happen while a write is in flight. Even a client can
	// hit this: the cookie jar writes on every response while the session
	// store reads.
	if _, err := conn.Exec("PRAGMA journal_mode=WAL"); err != nil {
		conn.Close()
		return nil, fmt.Errorf("sqlite: setting WAL mode: %w", err)
	}

	db := &DB{conn: conn}
	if err := db.migrate(); err != nil {
		conn.Close()
		return nil, fmt.Errorf("sqlite: running migrations: %w", err)
	}

	return db, nil
}

// Close closes the connection pool. Always defer this next to New.
func (db *DB) Close() error {
	return db.conn.Close()
}

// migrate creates the schema. CREATE TABLE IF NOT EXISTS keeps it safe to
// run on every start.
//
// The session table is constrained to a single row (id is CHECKed to 1):
// the client has exactly one durable user record, by design — deriving
// "authenticated" from the record's presence removes the "store says
// authenticated but record missing" inconsistency the web client had with
// its two localStorage keys.
func (db *DB) migrate() error {
	_, err := db.conn.Exec(`
		CREATE TABLE IF NOT EXISTS session (
			id         INTEGER PRIMARY KEY CHECK (id = 1),
			user_json  TEXT NOT NULL,
			updated_at DATETIME NOT NULL DEFAULT CURRENT_TIMESTAMP
		);
	`)
	if err != nil {
		return fmt.Errorf("creating session table: %w", err)
	}

	_, err = db.conn.Exec(`
		CREATE TABLE IF NOT EXISTS cookies (
			host      TEXT NOT NULL,
			name      TEXT NOT NULL,
			value     TEXT NOT NULL,
			path      TEXT NOT NULL DEFAULT '/',
			expires   DATETIME,
			secure    INTEGER NOT NULL DEFAULT 0,
			http_only INTEGER NOT NULL DEFAULT 0,
			PRIMARY KEY (host, name, path)
		);
	`)
	if err != nil {
		return fmt.Errorf("creating cookies table: %w", err)
	}

	return nil
}
