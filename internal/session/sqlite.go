package session

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	_ "github.com/mattn/go-sqlite3"

	"github.com/spigell/talentscout/internal/candidate"
	"github.com/spigell/talentscout/internal/screening"
)

const schemaSQL = `
CREATE TABLE IF NOT EXISTS sessions (
  id TEXT PRIMARY KEY,
  stage TEXT NOT NULL,
  candidate_name TEXT NOT NULL DEFAULT '',
  verdict TEXT NOT NULL DEFAULT '',
  score INTEGER,
  state TEXT NOT NULL,
  created_at TEXT NOT NULL,
  updated_at TEXT NOT NULL
);
CREATE INDEX IF NOT EXISTS idx_sessions_updated_at ON sessions(updated_at);
CREATE INDEX IF NOT EXISTS idx_sessions_stage ON sessions(stage);
`

// SQLiteStore keeps sessions in a SQLite database. The full state is stored as
// JSON; stage, name, verdict and score are copied into columns for listing.
type SQLiteStore struct {
	db *sql.DB
}

// OpenSQLite opens or creates the database at path and applies the schema.
func OpenSQLite(ctx context.Context, path string) (*SQLiteStore, error) {
	if dir := filepath.Dir(path); dir != "." && dir != "" {
		if err := os.MkdirAll(dir, 0o700); err != nil {
			return nil, fmt.Errorf("create database dir: %w", err)
		}
	}

	db, err := sql.Open("sqlite3", path+"?_busy_timeout=5000&_journal_mode=WAL")
	if err != nil {
		return nil, fmt.Errorf("open database: %w", err)
	}

	if err := db.PingContext(ctx); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("ping database: %w", err)
	}

	store := &SQLiteStore{db: db}
	if err := store.Migrate(ctx); err != nil {
		_ = db.Close()
		return nil, err
	}
	return store, nil
}

// Migrate creates the sessions table when missing.
func (s *SQLiteStore) Migrate(ctx context.Context) error {
	if _, err := s.db.ExecContext(ctx, schemaSQL); err != nil {
		return fmt.Errorf("migrate sessions schema: %w", err)
	}
	return nil
}

func (s *SQLiteStore) Save(ctx context.Context, state screening.State) error {
	if state.ID == "" {
		return fmt.Errorf("save session: empty id")
	}

	payload, err := json.Marshal(state)
	if err != nil {
		return fmt.Errorf("marshal session %s: %w", state.ID, err)
	}

	summary := summarize(state)
	var score sql.NullInt64
	if summary.Score != nil {
		score = sql.NullInt64{Int64: int64(*summary.Score), Valid: true}
	}

	_, err = s.db.ExecContext(ctx, `
INSERT INTO sessions (id, stage, candidate_name, verdict, score, state, created_at, updated_at)
VALUES (?, ?, ?, ?, ?, ?, ?, ?)
ON CONFLICT(id) DO UPDATE SET
  stage = excluded.stage,
  candidate_name = excluded.candidate_name,
  verdict = excluded.verdict,
  score = excluded.score,
  state = excluded.state,
  updated_at = excluded.updated_at`,
		state.ID,
		string(summary.Stage),
		summary.Candidate,
		string(summary.Verdict),
		score,
		string(payload),
		formatTime(state.CreatedAt),
		formatTime(state.UpdatedAt),
	)
	if err != nil {
		return fmt.Errorf("save session %s: %w", state.ID, err)
	}
	return nil
}

func (s *SQLiteStore) Load(ctx context.Context, id string) (screening.State, error) {
	var payload string
	err := s.db.QueryRowContext(ctx, `SELECT state FROM sessions WHERE id = ?`, id).Scan(&payload)
	if errors.Is(err, sql.ErrNoRows) {
		return screening.State{}, fmt.Errorf("%w: %s", ErrNotFound, id)
	}
	if err != nil {
		return screening.State{}, fmt.Errorf("load session %s: %w", id, err)
	}

	var state screening.State
	if err := json.Unmarshal([]byte(payload), &state); err != nil {
		return screening.State{}, fmt.Errorf("decode session %s: %w", id, err)
	}
	return state, nil
}

func (s *SQLiteStore) List(ctx context.Context) ([]Summary, error) {
	rows, err := s.db.QueryContext(ctx, `
SELECT id, stage, candidate_name, verdict, score, created_at, updated_at
FROM sessions
ORDER BY updated_at DESC, id ASC`)
	if err != nil {
		return nil, fmt.Errorf("query sessions: %w", err)
	}
	defer rows.Close()

	var summaries []Summary
	for rows.Next() {
		var (
			summary              Summary
			stage, verdict       string
			score                sql.NullInt64
			createdAt, updatedAt string
		)
		if err := rows.Scan(&summary.ID, &stage, &summary.Candidate, &verdict, &score, &createdAt, &updatedAt); err != nil {
			return nil, fmt.Errorf("scan session: %w", err)
		}
		summary.Stage = screening.Stage(stage)
		summary.Verdict = candidate.Verdict(verdict)
		if score.Valid {
			v := int(score.Int64)
			summary.Score = &v
		}
		summary.CreatedAt, _ = time.Parse(time.RFC3339Nano, createdAt)
		summary.UpdatedAt, _ = time.Parse(time.RFC3339Nano, updatedAt)
		summaries = append(summaries, summary)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate sessions: %w", err)
	}
	return summaries, nil
}

func (s *SQLiteStore) Close() error {
	if s.db != nil {
		return s.db.Close()
	}
	return nil
}

// formatTime uses a fixed width layout so that text ordering in SQLite matches
// time ordering.
func formatTime(t time.Time) string {
	return t.UTC().Format("2006-01-02T15:04:05.000000000Z07:00")
}
