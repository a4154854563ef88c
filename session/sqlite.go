package session

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"os"
	"path/filepath"

	_ "modernc.org/sqlite" // Pure Go SQLite driver
)

const sqliteSchema = `
CREATE TABLE IF NOT EXISTS prefs (
	profile TEXT NOT NULL,
	key     TEXT NOT NULL,
	value   TEXT NOT NULL,
	PRIMARY KEY (profile, key)
)`

const sqliteUpsert = `
INSERT INTO prefs (profile, key, value) VALUES (?, ?, ?)
ON CONFLICT (profile, key) DO UPDATE SET value = excluded.value`

// SQLiteStore keeps the session in a local SQLite database, one row per field.
type SQLiteStore struct {
	db      *sql.DB
	profile string
}

// OpenSQLiteStore opens (and creates if needed) the database at path.
func OpenSQLiteStore(ctx context.Context, path, profile string) (*SQLiteStore, error) {
	if path == "" {
		return nil, errors.New("sqlite path is empty")
	}
	if profile == "" {
		profile = "default"
	}
	if dir := filepath.Dir(path); dir != "." {
		if err := os.MkdirAll(dir, 0o700); err != nil {
			return nil, fmt.Errorf("failed to create database directory: %w", err)
		}
	}

	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}
	// SQLite only supports one writer at a time.
	db.SetMaxOpenConns(1)
	db.SetMaxIdleConns(1)

	for _, stmt := range []string{
		"PRAGMA journal_mode=WAL",
		"PRAGMA synchronous=FULL",
		sqliteSchema,
	} {
		if _, err := db.ExecContext(ctx, stmt); err != nil {
			_ = db.Close()
			return nil, fmt.Errorf("failed to initialize database: %w", err)
		}
	}

	return &SQLiteStore{db: db, profile: profile}, nil
}

// Close releases the database handle.
func (s *SQLiteStore) Close() error {
	return s.db.Close()
}

func (s *SQLiteStore) SaveLogin(ctx context.Context, userID, accountName, countryCode string) error {
	if userID == "" {
		return ErrEmptyUserID
	}
	return s.commit(ctx, func(tx *sql.Tx) error {
		for _, kv := range [][2]string{
			{fieldUserID, userID},
			{fieldAccountName, accountName},
			{fieldCountryCode, countryCode},
			{fieldLoggedIn, encodeBool(true)},
		} {
			if _, err := tx.ExecContext(ctx, sqliteUpsert, s.profile, kv[0], kv[1]); err != nil {
				return err
			}
		}
		return nil
	})
}

func (s *SQLiteStore) MarkLogout(ctx context.Context) error {
	return s.commit(ctx, func(tx *sql.Tx) error {
		_, err := tx.ExecContext(ctx, sqliteUpsert, s.profile, fieldLoggedIn, encodeBool(false))
		return err
	})
}

func (s *SQLiteStore) ClearAll(ctx context.Context) error {
	return s.commit(ctx, func(tx *sql.Tx) error {
		_, err := tx.ExecContext(ctx, "DELETE FROM prefs WHERE profile = ?", s.profile)
		return err
	})
}

func (s *SQLiteStore) Load(ctx context.Context) (*Session, error) {
	rows, err := s.db.QueryContext(ctx, "SELECT key, value FROM prefs WHERE profile = ?", s.profile)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrStoreUnavailable, err)
	}
	defer rows.Close()

	fields := make(map[string]string, 4)
	for rows.Next() {
		var key, value string
		if err := rows.Scan(&key, &value); err != nil {
			return nil, fmt.Errorf("%w: %v", ErrStoreUnavailable, err)
		}
		fields[key] = value
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrStoreUnavailable, err)
	}
	if len(fields) == 0 {
		return nil, ErrNoSession
	}
	return decodeFields(fields), nil
}

func (s *SQLiteStore) commit(ctx context.Context, fn func(*sql.Tx) error) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("%w: %v", ErrStoreUnavailable, err)
	}
	if err := fn(tx); err != nil {
		_ = tx.Rollback()
		return fmt.Errorf("%w: %v", ErrStoreUnavailable, err)
	}
	if err := tx.Commit(); err != nil {
		return fmt.Errorf("%w: %v", ErrStoreUnavailable, err)
	}
	return nil
}
