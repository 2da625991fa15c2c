// Package session persists screening conversations between turns and runs
// turns through the controller one at a time per session.
package session

import (
	"context"
	"errors"
	"time"

	"github.com/spigell/talentscout/internal/candidate"
	"github.com/spigell/talentscout/internal/screening"
)

var ErrNotFound = errors.New("session not found")

// Store keeps screening states by session id.
type Store interface {
	Save(ctx context.Context, state screening.State) error
	Load(ctx context.Context, id string) (screening.State, error)
	// List returns summaries ordered by the last update, newest first.
	List(ctx context.Context) ([]Summary, error)
	Close() error
}

// Summary is the listing view of a stored session.
type Summary struct {
	ID        string
	Stage     screening.Stage
	Candidate string
	Verdict   candidate.Verdict
	Score     *int
	CreatedAt time.Time
	UpdatedAt time.Time
}

func summarize(state screening.State) Summary {
	summary := Summary{
		ID:        state.ID,
		Stage:     state.Stage,
		Candidate: candidate.String(state.Profile.Name),
		Verdict:   state.Verdict(),
		CreatedAt: state.CreatedAt,
		UpdatedAt: state.UpdatedAt,
	}
	if state.Evaluation != nil {
		score := state.Evaluation.Score
		summary.Score = &score
	}
	return summary
}
