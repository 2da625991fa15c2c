package oracle

import (
	"context"
	"encoding/json"
	"fmt"
	"strconv"

	"go.uber.org/zap"

	"github.com/spigell/talentscout/internal/ai"
	"github.com/spigell/talentscout/internal/ai/schema"
	"github.com/spigell/talentscout/internal/candidate"
)

const noAnswersSummary = "The candidate did not provide a substantive answer to any question."

// Evaluator implements ai.Evaluator on top of a text generator.
type Evaluator struct {
	base
}

// NewEvaluator creates the answer evaluator.
func NewEvaluator(generator ai.Generator, opts Options) *Evaluator {
	return &Evaluator{base: newBase("evaluator", generator, opts)}
}

// Evaluate scores the answers. When every answer is empty or a non-answer the
// result is a zero score without asking the oracle.
func (e *Evaluator) Evaluate(ctx context.Context, profile candidate.Profile, questions candidate.QuestionSet, answers candidate.AnswerLedger) (*candidate.Evaluation, error) {
	pairs := answers.Pairs(questions)

	if allNonAnswers(pairs) {
		e.logger.Debug("no substantive answers, skipping oracle call", zap.Int("questions", len(pairs)))
		return &candidate.Evaluation{
			Score:      0,
			Verdict:    candidate.VerdictFail,
			Summary:    noAnswersSummary,
			Strengths:  []string{},
			Weaknesses: []string{"No technical question was answered."},
		}, nil
	}

	payload, err := json.MarshalIndent(pairs, "", "  ")
	if err != nil {
		return nil, fmt.Errorf("marshal answers: %w", err)
	}

	raw, err := e.call(ctx, buildEvaluationPrompt(profile), "Here are the questions and answers:\n"+string(payload))
	if err != nil {
		return nil, err
	}

	evaluation, err := parseEvaluation(raw)
	if err != nil {
		return nil, err
	}

	e.logger.Debug("answers evaluated",
		zap.Int("score", evaluation.Score),
		zap.String("verdict", string(evaluation.Verdict)),
	)

	return evaluation, nil
}

func allNonAnswers(pairs []candidate.QAPair) bool {
	for _, pair := range pairs {
		if !candidate.IsNonAnswer(pair.Answer) {
			return false
		}
	}
	return true
}

func buildEvaluationPrompt(profile candidate.Profile) string {
	years := "unknown"
	if profile.YearsOfExperience != nil {
		years = strconv.Itoa(*profile.YearsOfExperience)
	}

	return render(evaluatePrompt, map[string]string{
		"POSITIONS":  joinOrUnknown(profile.DesiredPositions),
		"YEARS":      years,
		"TECH_STACK": joinOrUnknown(profile.TechStack),
	})
}

func parseEvaluation(raw string) (*candidate.Evaluation, error) {
	if err := schema.Validate(schema.Evaluation, []byte(raw)); err != nil {
		return nil, fmt.Errorf("%w: %w", ai.ErrMalformedResponse, err)
	}

	var evaluation candidate.Evaluation
	if err := json.Unmarshal([]byte(raw), &evaluation); err != nil {
		return nil, fmt.Errorf("%w: %w", ai.ErrMalformedResponse, err)
	}

	if err := evaluation.Validate(); err != nil {
		return nil, fmt.Errorf("%w: %w", ai.ErrMalformedResponse, err)
	}

	return &evaluation, nil
}
