package openai

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"strings"
	"time"

	goopenai "github.com/sashabaranov/go-openai"
	"go.uber.org/zap"

	"github.com/spigell/talentscout/internal/logger"
	"github.com/spigell/talentscout/internal/utils"
)

const (
	providerName = "openai"

	defaultModel      = goopenai.GPT4oMini
	defaultMaxRetries = 3

	initialBackoff = 2 * time.Second
	maxBackoff     = 30 * time.Second
)

var sleep = time.Sleep

type chatCompleter interface {
	CreateChatCompletion(ctx context.Context, request goopenai.ChatCompletionRequest) (goopenai.ChatCompletionResponse, error)
}

// Config describes how to reach an OpenAI compatible endpoint.
type Config struct {
	APIKey     string
	BaseURL    string
	Model      string
	MaxRetries int
}

// Generator answers a system instruction plus a user message through the chat
// completions API in JSON mode.
type Generator struct {
	client     chatCompleter
	model      string
	maxRetries int
	logger     *zap.Logger
}

// NewGenerator creates a Generator. An empty BaseURL talks to api.openai.com.
func NewGenerator(cfg Config, log *zap.Logger) (*Generator, error) {
	apiKey := strings.TrimSpace(cfg.APIKey)
	if apiKey == "" {
		return nil, errors.New("openai api key is required")
	}

	clientCfg := goopenai.DefaultConfig(apiKey)
	if baseURL := strings.TrimSpace(cfg.BaseURL); baseURL != "" {
		clientCfg.BaseURL = baseURL
	}

	model := strings.TrimSpace(cfg.Model)
	if model == "" {
		model = defaultModel
	}

	maxRetries := cfg.MaxRetries
	if maxRetries <= 0 {
		maxRetries = defaultMaxRetries
	}

	return &Generator{
		client:     goopenai.NewClientWithConfig(clientCfg),
		model:      model,
		maxRetries: maxRetries,
		logger:     logger.WithCommonFields(log, providerName, model),
	}, nil
}

func (g *Generator) GenerateContent(ctx context.Context, system, user string) (string, error) {
	if g == nil || g.client == nil {
		return "", errors.New("openai generator is not initialized")
	}

	user = strings.TrimSpace(user)
	if user == "" {
		return "", errors.New("message must not be empty")
	}

	messages := make([]goopenai.ChatCompletionMessage, 0, 2)
	if system = strings.TrimSpace(system); system != "" {
		messages = append(messages, goopenai.ChatCompletionMessage{Role: goopenai.ChatMessageRoleSystem, Content: system})
	}
	messages = append(messages, goopenai.ChatCompletionMessage{Role: goopenai.ChatMessageRoleUser, Content: user})

	request := goopenai.ChatCompletionRequest{
		Model:    g.model,
		Messages: messages,
		ResponseFormat: &goopenai.ChatCompletionResponseFormat{
			Type: goopenai.ChatCompletionResponseFormatTypeJSONObject,
		},
	}

	log := logger.WithFields(g.logger)

	attempts := max(g.maxRetries, 1)
	backoff := initialBackoff
	var lastErr error
	for attempt := 1; attempt <= attempts; attempt++ {
		resp, err := g.client.CreateChatCompletion(ctx, request)
		if err == nil {
			return responseText(resp)
		}
		lastErr = err

		if !temporary(err) || attempt == attempts {
			break
		}

		log.Warn("openai request failed, retrying",
			zap.Int("attempt", attempt),
			zap.Duration("delay", backoff),
			zap.Error(err),
		)

		if err := utils.WaitWith(ctx, backoff, sleep); err != nil {
			return "", fmt.Errorf("create chat completion: %w", err)
		}

		backoff = min(backoff*2, maxBackoff)
	}

	return "", fmt.Errorf("create chat completion: %w", lastErr)
}

func (g *Generator) Model() string {
	if g == nil {
		return ""
	}
	return g.model
}

func temporary(err error) bool {
	var apiErr *goopenai.APIError
	if errors.As(err, &apiErr) {
		return retryableStatus(apiErr.HTTPStatusCode)
	}
	var reqErr *goopenai.RequestError
	if errors.As(err, &reqErr) {
		return retryableStatus(reqErr.HTTPStatusCode)
	}
	return false
}

func retryableStatus(code int) bool {
	switch code {
	case http.StatusTooManyRequests, http.StatusInternalServerError, http.StatusBadGateway,
		http.StatusServiceUnavailable, http.StatusGatewayTimeout:
		return true
	default:
		return false
	}
}

func responseText(resp goopenai.ChatCompletionResponse) (string, error) {
	for _, choice := range resp.Choices {
		if text := strings.TrimSpace(choice.Message.Content); text != "" {
			return text, nil
		}
	}
	return "", errors.New("openai api returned empty response")
}
