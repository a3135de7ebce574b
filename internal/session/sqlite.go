package session

import (
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"

	_ "github.com/mattn/go-sqlite3"
	"go.uber.org/zap"
)

const schema = `
CREATE TABLE IF NOT EXISTS sessions (
	identity   TEXT PRIMARY KEY,
	state      TEXT NOT NULL,
	updated_at TIMESTAMP NOT NULL DEFAULT CURRENT_TIMESTAMP
);`

// SQLiteStore keeps one row per identity with the session serialized as
// JSON. The upsert runs as a single statement, so a reader never observes
// a partially written state.
type SQLiteStore struct {
	db     *sql.DB
	logger *zap.Logger
}

// OpenSQLite opens (and creates if needed) the session database at path.
func OpenSQLite(path string, logger *zap.Logger) (*SQLiteStore, error) {
	db, err := sql.Open("sqlite3", path+"?_busy_timeout=5000&_journal_mode=WAL")
	if err != nil {
		return nil, fmt.Errorf("open session database: %w", err)
	}

	if _, err := db.Exec(schema); err != nil {
		db.Close()
		return nil, fmt.Errorf("create sessions table: %w", err)
	}

	return &SQLiteStore{db: db, logger: logger}, nil
}

func (s *SQLiteStore) Load(identity string) Session {
	var state string
	err := s.db.QueryRow(`SELECT state FROM sessions WHERE identity = ?`, identity).Scan(&state)
	if errors.Is(err, sql.ErrNoRows) {
		return New()
	}
	if err != nil {
		s.logger.Warn("reading session, starting fresh",
			zap.String("identity", identity),
			zap.Error(err),
		)
		return New()
	}

	var sess Session
	if err := json.Unmarshal([]byte(state), &sess); err != nil {
		s.logger.Warn("corrupt session state, starting fresh",
			zap.String("identity", identity),
			zap.Error(err),
		)
		return New()
	}
	if sess.Step == "" {
		sess.Step = StepInit
	}

	return sess
}

func (s *SQLiteStore) Save(identity string, sess Session) error {
	state, err := json.Marshal(sess)
	if err != nil {
		return fmt.Errorf("marshal session: %w", err)
	}

	_, err = s.db.Exec(`
		INSERT INTO sessions (identity, state, updated_at) VALUES (?, ?, CURRENT_TIMESTAMP)
		ON CONFLICT(identity) DO UPDATE SET state = excluded.state, updated_at = CURRENT_TIMESTAMP`,
		identity, string(state),
	)
	if err != nil {
		return fmt.Errorf("save session for %s: %w", identity, err)
	}

	return nil
}

func (s *SQLiteStore) Close() error {
	return s.db.Close()
}
