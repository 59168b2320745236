package sqlite

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"path/filepath"
	"strings"
	"time"

	sqlitemigrate "github.com/louisbranch/sadari/internal/platform/storage/sqlitemigrate"
	"github.com/louisbranch/sadari/internal/storage"
	"github.com/louisbranch/sadari/internal/storage/cursor"
	"github.com/louisbranch/sadari/internal/storage/sqlite/migrations"
	msqlite "modernc.org/sqlite"
	sqlite3lib "modernc.org/sqlite/lib"
)

const maxListPageSize = 50

// Store persists game results in SQLite.
type Store struct {
	sqlDB *sql.DB
}

func toMillis(value time.Time) int64 {
	return value.UTC().UnixMilli()
}

func fromMillis(value int64) time.Time {
	return time.UnixMilli(value).UTC()
}

// Open opens a SQLite result store and applies embedded migrations.
func Open(path string) (*Store, error) {
	if strings.TrimSpace(path) == "" {
		return nil, fmt.Errorf("storage path is required")
	}
	cleanPath := filepath.Clean(path)
	dsn := cleanPath + "?_journal_mode=WAL&_foreign_keys=ON&_busy_timeout=5000&_synchronous=NORMAL"
	sqlDB, err := sql.Open("sqlite", dsn)
	if err != nil {
		return nil, fmt.Errorf("open sqlite db: %w", err)
	}
	if err := sqlDB.Ping(); err != nil {
		_ = sqlDB.Close()
		return nil, fmt.Errorf("ping sqlite db: %w", err)
	}
	if err := sqlitemigrate.ApplyMigrations(context.Background(), sqlDB, migrations.FS, ""); err != nil {
		_ = sqlDB.Close()
		return nil, fmt.Errorf("run migrations: %w", err)
	}
	return &Store{sqlDB: sqlDB}, nil
}

// Close closes the SQLite handle.
func (s *Store) Close() error {
	if s == nil || s.sqlDB == nil {
		return nil
	}
	return s.sqlDB.Close()
}

// RecordResult appends a finished game.
func (s *Store) RecordResult(ctx context.Context, result storage.GameResult) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	if s == nil || s.sqlDB == nil {
		return fmt.Errorf("storage is not configured")
	}
	result.ID = strings.TrimSpace(result.ID)
	result.SessionID = strings.TrimSpace(result.SessionID)
	if result.ID == "" {
		return fmt.Errorf("result id is required")
	}
	if result.SessionID == "" {
		return fmt.Errorf("session id is required")
	}
	if strings.TrimSpace(result.GameType) == "" {
		return fmt.Errorf("game type is required")
	}
	if len(result.Participants) == 0 {
		return fmt.Errorf("participants are required")
	}
	if result.FinishedAt.IsZero() {
		result.FinishedAt = time.Now().UTC()
	}

	participants, err := json.Marshal(result.Participants)
	if err != nil {
		return fmt.Errorf("marshal participants: %w", err)
	}

	_, err = s.sqlDB.ExecContext(
		ctx,
		`INSERT INTO game_results (id, session_id, game_type, participants_json, result, penalty, finished_at)
		 VALUES (?, ?, ?, ?, ?, ?, ?)`,
		result.ID,
		result.SessionID,
		result.GameType,
		string(participants),
		result.Result,
		result.Penalty,
		toMillis(result.FinishedAt),
	)
	if err != nil {
		if isResultUniqueViolation(err) {
			return storage.ErrAlreadyExists
		}
		return fmt.Errorf("record result: %w", err)
	}
	return nil
}

// GetResult returns one recorded result.
func (s *Store) GetResult(ctx context.Context, resultID string) (storage.GameResult, error) {
	if err := ctx.Err(); err != nil {
		return storage.GameResult{}, err
	}
	if s == nil || s.sqlDB == nil {
		return storage.GameResult{}, fmt.Errorf("storage is not configured")
	}
	resultID = strings.TrimSpace(resultID)
	if resultID == "" {
		return storage.GameResult{}, fmt.Errorf("result id is required")
	}

	row := s.sqlDB.QueryRowContext(
		ctx,
		`SELECT seq, id, session_id, game_type, participants_json, result, penalty, finished_at
		 FROM game_results
		 WHERE id = ?`,
		resultID,
	)
	result, _, err := scanResult(row)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return storage.GameResult{}, storage.ErrNotFound
		}
		return storage.GameResult{}, fmt.Errorf("get result: %w", err)
	}
	return result, nil
}

// ListResults returns one page of results, newest first.
func (s *Store) ListResults(ctx context.Context, sessionID string, pageSize int, pageToken string) (storage.GameResultPage, error) {
	if err := ctx.Err(); err != nil {
		return storage.GameResultPage{}, err
	}
	if s == nil || s.sqlDB == nil {
		return storage.GameResultPage{}, fmt.Errorf("storage is not configured")
	}
	if pageSize <= 0 {
		return storage.GameResultPage{}, fmt.Errorf("page size must be greater than zero")
	}
	pageSize = min(pageSize, maxListPageSize)
	sessionID = strings.TrimSpace(sessionID)

	var before uint64
	if pageToken = strings.TrimSpace(pageToken); pageToken != "" {
		c, err := cursor.Decode(pageToken)
		if err != nil {
			return storage.GameResultPage{}, fmt.Errorf("%w: %v", storage.ErrInvalidPageToken, err)
		}
		if err := cursor.ValidateFilterHash(c, sessionID); err != nil {
			return storage.GameResultPage{}, fmt.Errorf("%w: %v", storage.ErrInvalidPageToken, err)
		}
		before = c.Seq
	}

	query := `SELECT seq, id, session_id, game_type, participants_json, result, penalty, finished_at
		 FROM game_results`
	var (
		where []string
		args  []any
	)
	if sessionID != "" {
		where = append(where, "session_id = ?")
		args = append(args, sessionID)
	}
	if before > 0 {
		where = append(where, "seq < ?")
		args = append(args, before)
	}
	if len(where) > 0 {
		query += " WHERE " + strings.Join(where, " AND ")
	}
	query += " ORDER BY seq DESC LIMIT ?"
	args = append(args, pageSize+1)

	rows, err := s.sqlDB.QueryContext(ctx, query, args...)
	if err != nil {
		return storage.GameResultPage{}, fmt.Errorf("list results: %w", err)
	}
	defer rows.Close()

	page := storage.GameResultPage{
		Results: make([]storage.GameResult, 0, pageSize),
	}
	var seqs []uint64
	for rows.Next() {
		result, seq, err := scanResult(rows)
		if err != nil {
			return storage.GameResultPage{}, fmt.Errorf("list results: %w", err)
		}
		page.Results = append(page.Results, result)
		seqs = append(seqs, seq)
	}
	if err := rows.Err(); err != nil {
		return storage.GameResultPage{}, fmt.Errorf("list results: %w", err)
	}
	if len(page.Results) > pageSize {
		token, err := cursor.Encode(cursor.New(seqs[pageSize-1], sessionID))
		if err != nil {
			return storage.GameResultPage{}, fmt.Errorf("list results: %w", err)
		}
		page.NextPageToken = token
		page.Results = page.Results[:pageSize]
	}

	return page, nil
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanResult(row rowScanner) (storage.GameResult, uint64, error) {
	var (
		result       storage.GameResult
		seq          uint64
		participants string
		finishedAt   int64
	)
	if err := row.Scan(
		&seq,
		&result.ID,
		&result.SessionID,
		&result.GameType,
		&participants,
		&result.Result,
		&result.Penalty,
		&finishedAt,
	); err != nil {
		return storage.GameResult{}, 0, err
	}
	if err := json.Unmarshal([]byte(participants), &result.Participants); err != nil {
		return storage.GameResult{}, 0, fmt.Errorf("decode participants: %w", err)
	}
	result.FinishedAt = fromMillis(finishedAt)
	return result, seq, nil
}

func isResultUniqueViolation(err error) bool {
	if err == nil {
		return false
	}
	var sqliteErr *msqlite.Error
	if errors.As(err, &sqliteErr) {
		switch sqliteErr.Code() {
		case sqlite3lib.SQLITE_CONSTRAINT_PRIMARYKEY, sqlite3lib.SQLITE_CONSTRAINT_UNIQUE:
			return true
		}
	}
	message := strings.ToLower(err.Error())
	return strings.Contains(message, "unique constraint failed") &&
		strings.Contains(message, "game_results.id")
}

var _ storage.Store = (*Store)(nil)
