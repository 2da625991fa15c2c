// Package oracle turns a text Generator into the three structured oracles the
// screening flow needs. Prompt building, response cleanup and validation live
// here so every provider behaves the same way.
package oracle

import (
	"context"
	"strings"
	"unicode/utf8"

	_ "embed"

	"go.uber.org/zap"

	"github.com/spigell/talentscout/internal/ai"
	"github.com/spigell/talentscout/internal/logger"
	"github.com/spigell/talentscout/internal/utils"
)

//go:embed prompts/extract.md
var extractPrompt string

//go:embed prompts/questions.md
var questionsPrompt string

//go:embed prompts/evaluate.md
var evaluatePrompt string

const defaultMaxLogLength = 200

// Options carries the settings shared by all oracles.
type Options struct {
	Logger       *zap.Logger
	MaxLogLength int
}

type base struct {
	name      string
	generator ai.Generator
	logger    *zap.Logger
	maxLogLen int
}

func newBase(name string, generator ai.Generator, opts Options) base {
	maxLogLen := opts.MaxLogLength
	if maxLogLen <= 0 {
		maxLogLen = defaultMaxLogLength
	}

	return base{
		name:      name,
		generator: generator,
		logger:    logger.WithFields(opts.Logger, zap.String(logger.FieldOracle, name)),
		maxLogLen: maxLogLen,
	}
}

// call sends the prompt and logs truncated previews of both directions.
func (b base) call(ctx context.Context, system, user string) (string, error) {
	b.logger.Debug("oracle request",
		zap.Int("system_length", utf8.RuneCountInString(system)),
		zap.Int("user_length", utf8.RuneCountInString(user)),
		zap.String("user_preview", utils.TruncateForLog(utils.OneLine(user), b.maxLogLen)),
	)

	raw, err := b.generator.GenerateContent(ctx, system, user)
	if err != nil {
		return "", err
	}

	b.logger.Debug("oracle response",
		zap.Int("response_length", utf8.RuneCountInString(raw)),
		zap.String("response_preview", utils.TruncateForLog(utils.OneLine(raw), b.maxLogLen)),
	)

	return extractJSON(raw), nil
}

func extractJSON(raw string) string {
	raw = strings.TrimSpace(raw)
	if strings.HasPrefix(raw, "```") {
		raw = strings.TrimPrefix(raw, "```json")
		raw = strings.TrimPrefix(raw, "```")
		raw = strings.TrimSpace(raw)
		if idx := strings.LastIndex(raw, "```"); idx != -1 {
			raw = raw[:idx]
		}
	}
	raw = strings.Trim(raw, "`")
	return strings.TrimSpace(raw)
}

func render(template string, values map[string]string) string {
	out := template
	for key, value := range values {
		out = strings.ReplaceAll(out, "{{"+key+"}}", value)
	}
	return out
}

func joinOrUnknown(items []string) string {
	if len(items) == 0 {
		return "unknown"
	}
	return strings.Join(items, ", ")
}
