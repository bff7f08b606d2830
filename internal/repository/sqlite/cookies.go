package sqlite

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/gitify-app/gitify-cli/internal/repository"
)

// compile-time check that *DB implements repository.CookieRepository
var _ repository.CookieRepository = (*DB)(nil)

// SaveCookies replaces every stored cookie for host in one transaction.
//
// DELETE-then-INSERT instead of row-by-row upserts: the jar hands us the
// host's complete current cookie set (earlier responses merged in), so the
// stored set must match it exactly — including dropping cookies the server
// just deleted.
func (db *DB) SaveCookies(ctx context.Context, host string, cookies []repository.Cookie) error {
	tx, err := db.conn.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("sqlite: beginning cookie save: %w", err)
	}
	defer tx.Rollback()

	if _, err := tx.ExecContext(ctx, `DELETE FROM cookies WHERE host = ?`, host); err != nil {
		return fmt.Errorf("sqlite: clearing cookies for %s: %w", host, err)
	}

	for _, c := range cookies {
		var expires any
		if !c.Expires.IsZero() {
			expires = c.Expires
		}
		_, err := tx.ExecContext(ctx,
			`INSERT INTO cookies (host, name, value, path, expires, secure, http_only)
			 VALUES (?, ?, ?, ?, ?, ?, ?)`,
			host, c.Name, c.Value, c.Path, expires, c.Secure, c.HTTPOnly,
		)
		if err != nil {
			return fmt.Errorf("sqlite: saving cookie %s for %s: %w", c.Name, host, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("sqlite: committing cookie save: %w", err)
	}
	return nil
}

// LoadCookies returns all stored cookies grouped by host, dropping any
// that have expired since they were written.
func (db *DB) LoadCookies(ctx context.Context) (map[string][]repository.Cookie, error) {
	rows, err := db.conn.QueryContext(ctx,
		`SELECT host, name, value, path, expires, secure, http_only FROM cookies`,
	)
	if err != nil {
		return nil, fmt.Errorf("sqlite: loading cookies: %w", err)
	}
	defer rows.Close()

	now := time.Now()
	out := make(map[string][]repository.Cookie)
	for rows.Next() {
		var c repository.Cookie
		var expires sql.NullTime
		if err := rows.Scan(&c.Host, &c.Name, &c.Value, &c.Path, &expires, &c.Secure, &c.HTTPOnly); err != nil {
			return nil, fmt.Errorf("sqlite: scanning cookie: %w", err)
		}
		if expires.Valid {
			if expires.Time.Before(now) {
				continue
			}
			c.Expires = expires.Time
		}
		out[c.Host] = append(out[c.Host], c)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("sqlite: iterating cookies: %w", err)
	}

	return out, nil
}

// ClearCookies drops everything — called on logout so a stale server
// session cannot silently re-authenticate a future login.
func (db *DB) ClearCookies(ctx context.Context) error {
	if _, err := db.conn.ExecContext(ctx, `DELETE FROM cookies`); err != nil {
		return fmt.Errorf("sqlite: clearing cookies: %w", err)
	}
	return nil
}
