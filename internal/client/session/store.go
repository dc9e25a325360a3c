package session

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	_ "modernc.org/sqlite"

	"github.com/cascaessama/MobileConectaEdu/internal/client/vault"
	"github.com/cascaessama/MobileConectaEdu/internal/shared/models"
)

// Fixed storage keys.
const (
	TokenKey    = "@conectaedu/token"
	UserTypeKey = "@conectaedu/userType"
)

// ErrUnavailable wraps every storage failure. Callers treat it as "no session".
var ErrUnavailable = errors.New("session unavailable")

// Session is the client-held credential and the role decoded from it.
type Session struct {
	Token string
	Role  models.Role
}

// Authenticated reports whether a token is present.
func (s Session) Authenticated() bool { return s.Token != "" }

// Store persists the session in a sqlite key-value table. When key is set
// the token is sealed with it before it touches disk.
type Store struct {
	db  *sql.DB
	key []byte
}

func Open(dsn string, key []byte) (*Store, error) {
	db, err := sql.Open("sqlite", dsn)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrUnavailable, err)
	}
	if _, err := db.Exec(`
		CREATE TABLE IF NOT EXISTS kv (
			key TEXT PRIMARY KEY,
			value BLOB NOT NULL,
			updated_at TIMESTAMP NOT NULL
		);
	`); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("%w: %v", ErrUnavailable, err)
	}
	return &Store{db: db, key: key}, nil
}

func (s *Store) Close() error { return s.db.Close() }

// Save writes token and role in one transaction.
func (s *Store) Save(ctx context.Context, token string, role models.Role) error {
	value := []byte(token)
	if s.key != nil {
		sealed, err := vault.Seal(s.key, value, []byte(TokenKey))
		if err != nil {
			return fmt.Errorf("%w: %v", ErrUnavailable, err)
		}
		value = sealed
	}
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("%w: %v", ErrUnavailable, err)
	}
	defer func() { _ = tx.Rollback() }()
	now := time.Now().UTC()
	const upsert = `INSERT INTO kv(key, value, updated_at) VALUES(?,?,?)
		ON CONFLICT(key) DO UPDATE SET value=excluded.value, updated_at=excluded.updated_at`
	if _, err := tx.ExecContext(ctx, upsert, TokenKey, value, now); err != nil {
		return fmt.Errorf("%w: %v", ErrUnavailable, err)
	}
	if _, err := tx.ExecContext(ctx, upsert, UserTypeKey, []byte(role), now); err != nil {
		return fmt.Errorf("%w: %v", ErrUnavailable, err)
	}
	if err := tx.Commit(); err != nil {
		return fmt.Errorf("%w: %v", ErrUnavailable, err)
	}
	return nil
}

// Load returns whatever is persisted. Missing values are left empty.
func (s *Store) Load(ctx context.Context) (Session, error) {
	rows, err := s.db.QueryContext(ctx, `SELECT key, value FROM kv WHERE key IN (?, ?)`, TokenKey, UserTypeKey)
	if err != nil {
		return Session{}, fmt.Errorf("%w: %v", ErrUnavailable, err)
	}
	defer rows.Close()
	var out Session
	for rows.Next() {
		var k string
		var v []byte
		if err := rows.Scan(&k, &v); err != nil {
			return Session{}, fmt.Errorf("%w: %v", ErrUnavailable, err)
		}
		switch k {
		case TokenKey:
			if s.key != nil {
				v, err = vault.Open(s.key, v, []byte(TokenKey))
				if err != nil {
					return Session{}, fmt.Errorf("%w: %v", ErrUnavailable, err)
				}
			}
			out.Token = string(v)
		case UserTypeKey:
			out.Role = models.Role(v)
		}
	}
	if err := rows.Err(); err != nil {
		return Session{}, fmt.Errorf("%w: %v", ErrUnavailable, err)
	}
	return out, nil
}

// Clear removes both values. Clearing an empty store is not an error.
func (s *Store) Clear(ctx context.Context) error {
	if _, err := s.db.ExecContext(ctx, `DELETE FROM kv WHERE key IN (?, ?)`, TokenKey, UserTypeKey); err != nil {
		return fmt.Errorf("%w: %v", ErrUnavailable, err)
	}
	return nil
}
