package ai

import (
	"context"
	"errors"

	"github.com/spigell/talentscout/internal/candidate"
)

// ErrMalformedResponse marks oracle output that does not match the expected shape.
var ErrMalformedResponse = errors.New("malformed oracle response")

// Generator sends one system instruction plus one user payload to a text
// generation backend and returns the raw textual answer.
type Generator interface {
	GenerateContent(ctx context.Context, system, user string) (string, error)
	Model() string
}

// Extractor recognises profile fields in free text. The returned profile is a
// sparse patch: only fields present in the text are set.
type Extractor interface {
	Extract(ctx context.Context, input string, known candidate.Profile) (candidate.Profile, error)
}

// QuestionGenerator produces the technical questions for a completed profile.
type QuestionGenerator interface {
	Generate(ctx context.Context, profile candidate.Profile) (candidate.QuestionSet, error)
}

// Evaluator scores the recorded answers.
type Evaluator interface {
	Evaluate(ctx context.Context, profile candidate.Profile, questions candidate.QuestionSet, answers candidate.AnswerLedger) (*candidate.Evaluation, error)
}

// Oracles bundles the three collaborators the screening flow depends on.
type Oracles struct {
	Extractor Extractor
	Questions QuestionGenerator
	Evaluator Evaluator
}
