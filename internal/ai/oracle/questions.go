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

const questionsUserMessage = "Generate the screening questions now."

type questionsResponse struct {
	Questions []string `json:"questions"`
}

// Questioner implements ai.QuestionGenerator on top of a text generator.
type Questioner struct {
	base
}

// NewQuestioner creates the technical question generator.
func NewQuestioner(generator ai.Generator, opts Options) *Questioner {
	return &Questioner{base: newBase("questions", generator, opts)}
}

func (q *Questioner) Generate(ctx context.Context, profile candidate.Profile) (candidate.QuestionSet, error) {
	raw, err := q.call(ctx, buildQuestionsPrompt(profile), questionsUserMessage)
	if err != nil {
		return nil, err
	}

	set, err := parseQuestions(raw)
	if err != nil {
		return nil, err
	}

	q.logger.Debug("questions generated",
		zap.Int("count", set.Len()),
		zap.String("tier", string(profile.ExperienceTier())),
	)

	return set, nil
}

func buildQuestionsPrompt(profile candidate.Profile) string {
	years := "unknown"
	if profile.YearsOfExperience != nil {
		years = strconv.Itoa(*profile.YearsOfExperience)
	}

	return render(questionsPrompt, map[string]string{
		"POSITIONS":  joinOrUnknown(profile.DesiredPositions),
		"YEARS":      years,
		"TECH_STACK": joinOrUnknown(profile.TechStack),
		"TIER":       string(profile.ExperienceTier()),
		"MIN":        strconv.Itoa(candidate.MinQuestions),
		"MAX":        strconv.Itoa(candidate.MaxQuestions),
	})
}

func parseQuestions(raw string) (candidate.QuestionSet, error) {
	if err := schema.Validate(schema.Questions, []byte(raw)); err != nil {
		return nil, fmt.Errorf("%w: %w", ai.ErrMalformedResponse, err)
	}

	var resp questionsResponse
	if err := json.Unmarshal([]byte(raw), &resp); err != nil {
		return nil, fmt.Errorf("%w: %w", ai.ErrMalformedResponse, err)
	}

	set, err := candidate.NewQuestionSet(resp.Questions)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ai.ErrMalformedResponse, err)
	}

	return set, nil
}
