package sqlite

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"time"

	"github.com/gitify-app/gitify-cli/internal/model"
	"github.com/gitify-app/gitify-cli/internal/repository"
)

// compile-time check that *DB implements repository.SessionRepository
var _ repository.SessionRepository = (*DB)(nil)

// SaveUser overwrites the single session row.
//
// The record is stored as JSON rather than one column per field: the user
// shape is owned by the backend and gains fields over time, and the client
// never queries by anything inside it — it only reads the whole record
// back. A schema migration per backend release would buy nothing.
func (db *DB) SaveUser(ctx context.Context, user *model.User) error {
	if user == nil {
		return fmt.Errorf("sqlite: cannot save a nil user")
	}

	data, err := json.Marshal(user)
	if err != nil {
		return fmt.Errorf("sqlite: encoding user %s: %w", user.ID, err)
	}

	_, err = db.conn.ExecContext(ctx,
		`INSERT INTO session (id, user_json, updated_at) VALUES (1, ?, ?)
		 ON CONFLICT(id) DO UPDATE SET user_json = excluded.user_json,
		                               updated_at = excluded.updated_at`,
		string(data), time.Now(),
	)
	if err != nil {
		return fmt.Errorf("sqlite: saving session: %w", err)
	}
	return nil
}

// LoadUser reads the session row back. (nil, nil) means no session.
// An unparsable record is treated the same as a missing one — corrupt
// local storage must resolve to "logged out", never to an error the UI
// sees — but we clear the bad row so it doesn't get re-read forever.
func (db *DB) LoadUser(ctx context.Context) (*model.User, error) {
	var data string
	err := db.conn.QueryRowContext(ctx,
		`SELECT user_json FROM session WHERE id = 1`,
	).Scan(&data)

	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("sqlite: loading session: %w", err)
	}

	var user model.User
	if err := json.Unmarshal([]byte(data), &user); err != nil {
		_ = db.Clear(ctx)
		return nil, nil
	}

	return &user, nil
}

// Clear removes the session row. Idempotent.
func (db *DB) Clear(ctx context.Context) error {
	if _, err := db.conn.ExecContext(ctx, `DELETE FROM session WHERE id = 1`); err != nil {
		return fmt.Errorf("sqlite: clearing session: %w", err)
	}
	return nil
}
