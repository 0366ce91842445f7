package session

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"time"

	"github.com/rs/zerolog"

	"lol-coach/internal/domain"
)

// SQLiteStore keeps sessions in the process-local SQLite database. Snapshot,
// analysis and chat history are stored as JSON columns.
type SQLiteStore struct {
	db     *sql.DB
	logger zerolog.Logger
}

func NewSQLiteStore(db *sql.DB, logger zerolog.Logger) *SQLiteStore {
	return &SQLiteStore{db: db, logger: logger}
}

func (s *SQLiteStore) Put(ctx context.Context, sess *domain.Session) error {
	snapshotJSON, err := json.Marshal(sess.Snapshot)
	if err != nil {
		return fmt.Errorf("encode snapshot: %w", err)
	}
	analysisJSON, err := json.Marshal(sess.Analysis)
	if err != nil {
		return fmt.Errorf("encode analysis: %w", err)
	}
	history := sess.ChatHistory
	if history == nil {
		history = []domain.ChatTurn{}
	}
	historyJSON, err := json.Marshal(history)
	if err != nil {
		return fmt.Errorf("encode chat history: %w", err)
	}

	_, err = s.db.ExecContext(ctx,
		`INSERT INTO sessions (id, snapshot, analysis, chat_history, created_at, expires_at)
		 VALUES (?, ?, ?, ?, ?, ?)
		 ON CONFLICT(id) DO UPDATE SET
		   snapshot = excluded.snapshot,
		   analysis = excluded.analysis,
		   chat_history = excluded.chat_history,
		   expires_at = excluded.expires_at`,
		sess.ID, string(snapshotJSON), string(analysisJSON), string(historyJSON),
		sess.CreatedAt.UTC(), sess.ExpiresAt.UTC(),
	)
	if err != nil {
		return fmt.Errorf("store session %s: %w", sess.ID, err)
	}

	s.logger.Debug().Str("session_id", sess.ID).Time("expires_at", sess.ExpiresAt).Msg("session stored")
	return nil
}

func (s *SQLiteStore) Get(ctx context.Context, id string) (*domain.Session, error) {
	row := s.db.QueryRowContext(ctx,
		`SELECT id, snapshot, analysis, chat_history, created_at, expires_at
		 FROM sessions WHERE id = ? AND expires_at > ?`,
		id, time.Now().UTC(),
	)

	var (
		sess         domain.Session
		snapshotJSON string
		analysisJSON string
		historyJSON  string
	)
	err := row.Scan(&sess.ID, &snapshotJSON, &analysisJSON, &historyJSON, &sess.CreatedAt, &sess.ExpiresAt)
	if err == sql.ErrNoRows {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("load session %s: %w", id, err)
	}

	if err := json.Unmarshal([]byte(snapshotJSON), &sess.Snapshot); err != nil {
		return nil, fmt.Errorf("decode snapshot for %s: %w", id, err)
	}
	if err := json.Unmarshal([]byte(analysisJSON), &sess.Analysis); err != nil {
		return nil, fmt.Errorf("decode analysis for %s: %w", id, err)
	}
	if err := json.Unmarshal([]byte(historyJSON), &sess.ChatHistory); err != nil {
		return nil, fmt.Errorf("decode chat history for %s: %w", id, err)
	}

	return &sess, nil
}

func (s *SQLiteStore) AppendChat(ctx context.Context, id string, turn domain.ChatTurn) error {
	sess, err := s.Get(ctx, id)
	if err != nil {
		return err
	}

	history := append(sess.ChatHistory, turn)
	historyJSON, err := json.Marshal(history)
	if err != nil {
		return fmt.Errorf("encode chat history: %w", err)
	}

	res, err := s.db.ExecContext(ctx,
		`UPDATE sessions SET chat_history = ? WHERE id = ?`,
		string(historyJSON), id,
	)
	if err != nil {
		return fmt.Errorf("append chat to %s: %w", id, err)
	}
	if n, err := res.RowsAffected(); err == nil && n == 0 {
		return ErrNotFound
	}
	return nil
}

func (s *SQLiteStore) PurgeExpired(ctx context.Context) (int, error) {
	res, err := s.db.ExecContext(ctx, `DELETE FROM sessions WHERE expires_at <= ?`, time.Now().UTC())
	if err != nil {
		return 0, fmt.Errorf("purge expired sessions: %w", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return 0, nil
	}
	return int(n), nil
}
