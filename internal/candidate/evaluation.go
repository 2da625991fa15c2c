package candidate

import (
	"errors"
	"fmt"
	"slices"

	"github.com/go-playground/validator/v10"
)

// Verdict is the outcome band of a screening.
type Verdict string

const (
	VerdictPass       Verdict = "PASS"
	VerdictBorderline Verdict = "BORDERLINE"
	VerdictFail       Verdict = "FAIL"
)

var ErrInconsistentVerdict = errors.New("verdict does not match score")

// Evaluation is the scored result of a screening.
type Evaluation struct {
	Score      int      `json:"score" validate:"min=0,max=10"`
	Verdict    Verdict  `json:"verdict" validate:"required,oneof=PASS BORDERLINE FAIL"`
	Summary    string   `json:"summary"`
	Strengths  []string `json:"strengths"`
	Weaknesses []string `json:"weaknesses"`
}

var validate = validator.New()

// VerdictForScore returns the band the score belongs to: 7 and above pass,
// 4 to 6 borderline, the rest fail.
func VerdictForScore(score int) Verdict {
	switch {
	case score >= 7:
		return VerdictPass
	case score >= 4:
		return VerdictBorderline
	default:
		return VerdictFail
	}
}

// Validate checks ranges and that the verdict agrees with the score band.
func (e *Evaluation) Validate() error {
	if e == nil {
		return errors.New("evaluation is nil")
	}
	if err := validate.Struct(e); err != nil {
		return fmt.Errorf("validate evaluation: %w", err)
	}
	if want := VerdictForScore(e.Score); want != e.Verdict {
		return fmt.Errorf("%w: score %d expects %s, got %s", ErrInconsistentVerdict, e.Score, want, e.Verdict)
	}
	return nil
}

// Clone returns a deep copy of the evaluation.
func (e *Evaluation) Clone() *Evaluation {
	if e == nil {
		return nil
	}
	out := *e
	out.Strengths = slices.Clone(e.Strengths)
	out.Weaknesses = slices.Clone(e.Weaknesses)
	return &out
}
