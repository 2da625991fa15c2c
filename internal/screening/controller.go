// Package screening drives the screening conversation. The controller is a
// state machine over Stage: every call to Turn takes the current State and the
// latest candidate message and returns the next State together with the reply.
package screening

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"go.uber.org/zap"

	"github.com/spigell/talentscout/internal/ai"
	"github.com/spigell/talentscout/internal/candidate"
	"github.com/spigell/talentscout/internal/logger"
)

const (
	DefaultOracleTimeout          = 45 * time.Second
	DefaultExtractionRetries      = 1
	DefaultGenerationRetries      = 2
	DefaultEvaluationRetries      = 2
	DefaultMaxConsecutiveFailures = 3
)

// Config tunes how the controller treats oracle failures.
type Config struct {
	OracleTimeout          time.Duration
	ExtractionRetries      int
	GenerationRetries      int
	EvaluationRetries      int
	MaxConsecutiveFailures int
}

func DefaultConfig() Config {
	return Config{
		OracleTimeout:          DefaultOracleTimeout,
		ExtractionRetries:      DefaultExtractionRetries,
		GenerationRetries:      DefaultGenerationRetries,
		EvaluationRetries:      DefaultEvaluationRetries,
		MaxConsecutiveFailures: DefaultMaxConsecutiveFailures,
	}
}

// Reply is what the host shows to the candidate after a turn.
type Reply struct {
	Text  string
	Stage Stage
	// Err is the oracle failure absorbed during the turn, if any. The candidate
	// only ever sees Text.
	Err error
}

type outcome int

const (
	halt outcome = iota
	advance
)

// turn is the scratch space of a single Turn call.
type turn struct {
	state   *State
	input   string
	notices []string
	err     error
	logger  *zap.Logger
}

func (t *turn) say(message string) {
	t.notices = append(t.notices, message)
}

type stageHandler func(ctx context.Context, t *turn) outcome

// Controller runs the stage handlers against the configured oracles.
type Controller struct {
	oracles  ai.Oracles
	cfg      Config
	logger   *zap.Logger
	now      func() time.Time
	handlers map[Stage]stageHandler
}

// NewController validates the oracles and normalises the config.
func NewController(oracles ai.Oracles, cfg Config, log *zap.Logger) (*Controller, error) {
	if oracles.Extractor == nil || oracles.Questions == nil || oracles.Evaluator == nil {
		return nil, errors.New("extractor, question generator and evaluator are required")
	}

	if cfg.OracleTimeout <= 0 {
		cfg.OracleTimeout = DefaultOracleTimeout
	}
	if cfg.MaxConsecutiveFailures <= 0 {
		cfg.MaxConsecutiveFailures = DefaultMaxConsecutiveFailures
	}
	cfg.ExtractionRetries = max(cfg.ExtractionRetries, 0)
	cfg.GenerationRetries = max(cfg.GenerationRetries, 0)
	cfg.EvaluationRetries = max(cfg.EvaluationRetries, 0)

	c := &Controller{
		oracles: oracles,
		cfg:     cfg,
		logger:  logger.WithFields(log),
		now:     time.Now,
	}
	c.handlers = map[Stage]stageHandler{
		StageInfoCollection:     c.collectInfo,
		StageQuestionGeneration: c.generateQuestions,
		StageAskQuestions:       c.askQuestions,
		StageAssessment:         c.assess,
		StageConvoEnd:           c.closeConversation,
	}

	return c, nil
}

// Turn processes one candidate message. The passed state is not modified.
// Stages fall through into each other within the same call, but no stage is
// visited twice.
func (c *Controller) Turn(ctx context.Context, state State, input string) (State, Reply) {
	next := state.Clone()
	if !next.Stage.Valid() {
		c.logger.Warn("unknown stage in state, restarting info collection", zap.String(logger.FieldStage, string(next.Stage)))
		next.Stage = StageInfoCollection
	}
	next.appendMessage(RoleCandidate, input)

	t := &turn{
		state:  &next,
		input:  input,
		logger: logger.WithFields(c.logger, logger.SessionFields(next.ID, string(next.Stage))...),
	}

	if input == ExitCommand {
		t.logger.Info("candidate requested exit")
		next.Stage = StageConvoEnd
		t.say(msgFarewell)
		return c.finish(t)
	}

	visited := make(map[Stage]bool, len(Stages))
	for {
		stage := next.Stage
		if visited[stage] {
			t.logger.Error("stage visited twice in one turn", zap.String("stage", string(stage)))
			t.say(msgInternalError)
			break
		}
		visited[stage] = true

		handler, ok := c.handlers[stage]
		if !ok {
			t.logger.Error("no handler for stage", zap.String("stage", string(stage)))
			t.say(msgInternalError)
			break
		}

		if handler(ctx, t) == halt {
			break
		}

		if next.Stage.Rank() <= stage.Rank() {
			t.logger.Error("stage handler advanced without moving forward",
				zap.String("from", string(stage)),
				zap.String("to", string(next.Stage)),
			)
			t.say(msgInternalError)
			break
		}

		t.logger.Debug("stage advanced",
			zap.String("from", string(stage)),
			zap.String("to", string(next.Stage)),
		)
	}

	return c.finish(t)
}

// End terminates the conversation on behalf of the host, for example when the
// candidate closes the chat.
func (c *Controller) End(state State) (State, Reply) {
	next := state.Clone()
	next.Stage = StageConvoEnd
	t := &turn{state: &next, logger: logger.WithFields(c.logger, logger.SessionFields(next.ID, string(next.Stage))...)}
	t.logger.Info("screening ended by host")
	t.say(msgFarewell)
	return c.finish(t)
}

func (c *Controller) finish(t *turn) (State, Reply) {
	text := strings.Join(t.notices, "\n\n")
	t.state.appendMessage(RoleAssistant, text)
	t.state.UpdatedAt = c.now()

	return *t.state, Reply{Text: text, Stage: t.state.Stage, Err: t.err}
}

func (c *Controller) collectInfo(ctx context.Context, t *turn) outcome {
	profile := t.state.Profile

	// A blank message carries nothing to extract and is not an oracle failure.
	if strings.TrimSpace(t.input) == "" {
		t.logger.Debug("blank message during info collection, extractor skipped")
	} else {
		patch, err := withRetries(ctx, c, t.logger, "extractor", c.cfg.ExtractionRetries, func(ctx context.Context) (candidate.Profile, error) {
			return c.oracles.Extractor.Extract(ctx, t.input, profile)
		})
		if err != nil {
			return c.oracleFailed(t, fmt.Errorf("%w: %w", ErrExtraction, err), msgExtractionRetry)
		}
		t.state.Failures = 0

		t.state.Profile = candidate.Merge(profile, patch)
	}

	if missing := t.state.Profile.Missing(); len(missing) > 0 {
		t.logger.Debug("profile incomplete", zap.Int("missing", len(missing)))
		t.say(missingFieldsMessage(missing))
		return halt
	}

	t.logger.Info("profile complete")
	t.say(msgInfoCollected)
	t.state.Stage = StageQuestionGeneration
	return advance
}

func (c *Controller) generateQuestions(ctx context.Context, t *turn) outcome {
	if t.state.Questions.Len() == 0 {
		profile := t.state.Profile
		questions, err := withRetries(ctx, c, t.logger, "questions", c.cfg.GenerationRetries, func(ctx context.Context) (candidate.QuestionSet, error) {
			return c.oracles.Questions.Generate(ctx, profile)
		})
		if err != nil {
			return c.oracleFailed(t, fmt.Errorf("%w: %w", ErrGeneration, err), msgGenerationApology)
		}
		t.state.Failures = 0

		t.state.Questions = questions
		t.state.Answers = candidate.AnswerLedger{}
		t.state.Cursor = 0
		t.state.Presented = false
		t.logger.Info("questions generated", zap.Int("count", questions.Len()))
	}

	t.say(msgInstructions)
	t.state.Stage = StageAskQuestions
	return advance
}

func (c *Controller) askQuestions(_ context.Context, t *turn) outcome {
	s := t.state
	if s.Answers == nil {
		s.Answers = candidate.AnswerLedger{}
	}

	if s.Cursor < s.Questions.Len() {
		if !s.Presented {
			t.say(questionMessage(s.Questions, s.Cursor))
			s.Presented = true
			return halt
		}

		s.Answers.Record(s.Questions[s.Cursor], t.input)
		s.Cursor++
		s.Presented = false

		if s.Cursor < s.Questions.Len() {
			t.say(questionMessage(s.Questions, s.Cursor))
			s.Presented = true
			return halt
		}
	}

	t.say(msgAllAnswered)
	s.Stage = StageAssessment
	return advance
}

func (c *Controller) assess(ctx context.Context, t *turn) outcome {
	s := t.state
	if len(s.Answers) != s.Questions.Len() {
		t.logger.Warn("answer ledger does not cover every question",
			zap.Int("answers", len(s.Answers)),
			zap.Int("questions", s.Questions.Len()),
		)
	}

	profile, questions, answers := s.Profile, s.Questions, s.Answers
	evaluation, err := withRetries(ctx, c, t.logger, "evaluator", c.cfg.EvaluationRetries, func(ctx context.Context) (*candidate.Evaluation, error) {
		return c.oracles.Evaluator.Evaluate(ctx, profile, questions, answers)
	})
	if err != nil {
		err = fmt.Errorf("%w: %w", ErrEvaluation, err)
		t.logger.Error("evaluation unavailable", zap.Error(err))
		t.err = err
		s.Failures++
		s.EvaluationUnavailable = true
		t.say(msgEvaluationUnavailable)
		s.Stage = StageConvoEnd
		return advance
	}
	s.Failures = 0

	s.Evaluation = evaluation
	t.logger.Info("candidate evaluated",
		zap.Int("score", evaluation.Score),
		zap.String("verdict", string(evaluation.Verdict)),
	)
	s.Stage = StageConvoEnd
	return advance
}

func (c *Controller) closeConversation(_ context.Context, t *turn) outcome {
	t.say(msgClosing)
	return halt
}

// oracleFailed records a failure that exhausted its retries. Too many in a row
// end the conversation instead of leaving the candidate stuck.
func (c *Controller) oracleFailed(t *turn, err error, message string) outcome {
	t.err = err
	t.state.Failures++

	if t.state.Failures >= c.cfg.MaxConsecutiveFailures {
		t.logger.Error("too many consecutive oracle failures, ending screening",
			zap.Int("failures", t.state.Failures),
			zap.Error(err),
		)
		t.state.Stage = StageConvoEnd
		t.say(msgTooManyFailures)
		return halt
	}

	t.logger.Warn("oracle failed", zap.Int("failures", t.state.Failures), zap.Error(err))
	t.say(message)
	return halt
}

// withRetries runs call up to retries+1 times, each attempt bounded by the
// oracle timeout.
func withRetries[T any](ctx context.Context, c *Controller, log *zap.Logger, oracle string, retries int, call func(context.Context) (T, error)) (T, error) {
	var (
		zero    T
		lastErr error
	)
	for attempt := 0; attempt <= retries; attempt++ {
		if err := ctx.Err(); err != nil {
			return zero, err
		}

		callCtx, cancel := context.WithTimeout(ctx, c.cfg.OracleTimeout)
		result, err := call(callCtx)
		cancel()
		if err == nil {
			return result, nil
		}
		lastErr = err

		log.Warn("oracle call failed",
			zap.String(logger.FieldOracle, oracle),
			zap.Int("attempt", attempt+1),
			zap.Int("attempts", retries+1),
			zap.Error(err),
		)
	}
	return zero, lastErr
}
