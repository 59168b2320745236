package storage

import (
	"context"
	"errors"
	"time"
)

// ErrNotFound indicates a requested result is missing.
var ErrNotFound = errors.New("record not found")

// ErrAlreadyExists indicates a result ID is already recorded.
var ErrAlreadyExists = errors.New("record already exists")

// ErrInvalidPageToken indicates a page token that cannot continue the listing.
var ErrInvalidPageToken = errors.New("invalid page token")

// GameResult is one finished game.
type GameResult struct {
	ID           string
	SessionID    string
	GameType     string
	Participants []string
	// Result names the participant who drew the penalty.
	Result     string
	Penalty    string
	FinishedAt time.Time
}

// GameResultPage is a page of results, newest first.
type GameResultPage struct {
	Results       []GameResult
	NextPageToken string
}

// ResultStore persists finished game results.
type ResultStore interface {
	RecordResult(ctx context.Context, result GameResult) error
	GetResult(ctx context.Context, resultID string) (GameResult, error)
	// ListResults lists results newest first. An empty sessionID lists every
	// session.
	ListResults(ctx context.Context, sessionID string, pageSize int, pageToken string) (GameResultPage, error)
}

// Store is a composite interface for ladder storage concerns.
type Store interface {
	ResultStore
	Close() error
}
