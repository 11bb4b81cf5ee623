package contextstore

import (
	"context"
	"database/sql"
	"fmt"
	"strings"

	_ "github.com/mattn/go-sqlite3"
	"github.com/pkg/errors"
)

const defaultSlot = "default"

// SQLiteStore keeps the context id in a single-row slot table so it survives
// page reloads and process restarts.
type SQLiteStore struct {
	db   *sql.DB
	slot string
}

var _ Store = &SQLiteStore{}

// SQLiteDSNForFile derives a DSN with sane single-writer settings from a
// plain file path.
func SQLiteDSNForFile(path string) (string, error) {
	if strings.TrimSpace(path) == "" {
		return "", errors.New("sqlite context store: empty path")
	}
	return fmt.Sprintf("file:%s?_journal_mode=WAL&_busy_timeout=5000", path), nil
}

func NewSQLiteStore(dsn string) (*SQLiteStore, error) {
	if dsn == "" {
		return nil, errors.New("sqlite context store: empty dsn")
	}
	db, err := sql.Open("sqlite3", dsn)
	if err != nil {
		return nil, errors.Wrap(err, "sqlite context store: open")
	}
	s := &SQLiteStore{db: db, slot: defaultSlot}
	if err := s.migrate(); err != nil {
		_ = db.Close()
		return nil, err
	}
	return s, nil
}

func (s *SQLiteStore) migrate() error {
	_, err := s.db.Exec(`
		CREATE TABLE IF NOT EXISTS chatbot_context (
			slot TEXT PRIMARY KEY,
			context_id TEXT NOT NULL,
			updated_at_ms INTEGER NOT NULL DEFAULT 0
		)
	`)
	if err != nil {
		return errors.Wrap(err, "sqlite context store: migrate")
	}
	return nil
}

func (s *SQLiteStore) Close() error {
	if s == nil || s.db == nil {
		return nil
	}
	return s.db.Close()
}

func (s *SQLiteStore) Get(ctx context.Context) (string, error) {
	if s == nil || s.db == nil {
		return "", errors.New("sqlite context store: db is nil")
	}
	var id string
	err := s.db.QueryRowContext(ctx, `SELECT context_id FROM chatbot_context WHERE slot = ?`, s.slot).Scan(&id)
	if errors.Is(err, sql.ErrNoRows) {
		return "", nil
	}
	if err != nil {
		return "", errors.Wrap(err, "sqlite context store: get")
	}
	return id, nil
}

func (s *SQLiteStore) Save(ctx context.Context, id string) error {
	if s == nil || s.db == nil {
		return errors.New("sqlite context store: db is nil")
	}
	if id == "" {
		return nil
	}
	_, err := s.db.ExecContext(ctx, `
		INSERT INTO chatbot_context (slot, context_id, updated_at_ms)
		VALUES (?, ?, strftime('%s','now') * 1000)
		ON CONFLICT(slot) DO UPDATE SET
			context_id = excluded.context_id,
			updated_at_ms = excluded.updated_at_ms
	`, s.slot, id)
	if err != nil {
		return errors.Wrap(err, "sqlite context store: save")
	}
	return nil
}
