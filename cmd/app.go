package cmd

import (
	"context"
	"encoding/json"
	"fmt"
	"log"
	"strings"

	"github.com/spf13/viper"
	"go.uber.org/zap"

	"github.com/spigell/talentscout/internal/ai"
	"github.com/spigell/talentscout/internal/ai/gemini"
	"github.com/spigell/talentscout/internal/ai/openai"
	"github.com/spigell/talentscout/internal/ai/oracle"
	"github.com/spigell/talentscout/internal/logger"
	"github.com/spigell/talentscout/internal/screening"
	"github.com/spigell/talentscout/internal/secrets"
	"github.com/spigell/talentscout/internal/session"
)

const (
	providerGemini = "gemini"
	providerOpenAI = "openai"

	storeSQLite = "sqlite"
	storeMemory = "memory"
)

// application holds everything a command needs to talk to sessions.
type application struct {
	config  *Config
	logger  *zap.Logger
	store   session.Store
	service *session.Service
}

func (a *application) Close() {
	if err := a.store.Close(); err != nil {
		a.logger.Warn("closing session store", zap.Error(err))
	}
	_ = a.logger.Sync()
}

// newApplication builds the logger and the store. The screening service is
// only wired when withOracles is set, so read-only commands work without API keys.
func newApplication(ctx context.Context, withOracles bool) (*application, error) {
	lg, err := logger.NewWithOutput(viper.GetBool("json"), viper.GetBool("debug"), viper.GetString("log-file"))
	if err != nil {
		log.Fatalf("creating a logger: %s", err)
	}

	config, err := getConfig()
	if err != nil {
		return nil, fmt.Errorf("getting a config: %w", err)
	}

	// do not bother error since there is a valid parseable config
	pretty, _ := json.MarshalIndent(config, "", "  ")
	lg.Debug(fmt.Sprintf("starting with config: \n %s", pretty))

	store, err := newStore(ctx, config.Store)
	if err != nil {
		return nil, err
	}

	a := &application{config: config, logger: lg, store: store}
	if !withOracles {
		return a, nil
	}

	generator, maxLogLength, err := newGenerator(ctx, config.AI, lg)
	if err != nil {
		store.Close()
		return nil, err
	}

	opts := oracle.Options{Logger: lg, MaxLogLength: maxLogLength}
	oracles := ai.Oracles{
		Extractor: oracle.NewExtractor(generator, opts),
		Questions: oracle.NewQuestioner(generator, opts),
		Evaluator: oracle.NewEvaluator(generator, opts),
	}

	controller, err := screening.NewController(oracles, screeningConfig(config.Screening), lg)
	if err != nil {
		store.Close()
		return nil, fmt.Errorf("creating screening controller: %w", err)
	}

	a.service = session.NewService(store, controller, lg)
	lg.Info("starting the talentscout",
		zap.String("version", version),
		zap.String(logger.FieldProvider, config.AI.Provider),
		zap.String(logger.FieldModel, generator.Model()),
	)

	return a, nil
}

func newGenerator(ctx context.Context, cfg *AIConfig, lg *zap.Logger) (ai.Generator, int, error) {
	if cfg == nil {
		return nil, 0, fmt.Errorf("ai config is empty")
	}

	switch strings.ToLower(strings.TrimSpace(cfg.Provider)) {
	case providerGemini:
		gc := cfg.Gemini
		if gc == nil {
			gc = &GeminiConfig{}
		}
		apiKey, err := secrets.Load(secrets.Source{Name: "gemini api key", File: gc.APIKeyFile, Value: gc.APIKey, Env: "GEMINI_API_KEY"})
		if err != nil {
			return nil, 0, err
		}
		generator, err := gemini.NewGenerator(ctx, apiKey, gc.Model, gc.MaxRetries, lg)
		if err != nil {
			return nil, 0, fmt.Errorf("creating gemini generator: %w", err)
		}
		return generator, gc.MaxLogLength, nil
	case providerOpenAI:
		oc := cfg.OpenAI
		if oc == nil {
			oc = &OpenAIConfig{}
		}
		apiKey, err := secrets.Load(secrets.Source{Name: "openai api key", File: oc.APIKeyFile, Value: oc.APIKey, Env: "OPENAI_API_KEY"})
		if err != nil {
			return nil, 0, err
		}
		generator, err := openai.NewGenerator(openai.Config{
			APIKey:     apiKey,
			BaseURL:    oc.BaseURL,
			Model:      oc.Model,
			MaxRetries: oc.MaxRetries,
		}, lg)
		if err != nil {
			return nil, 0, fmt.Errorf("creating openai generator: %w", err)
		}
		return generator, oc.MaxLogLength, nil
	default:
		return nil, 0, fmt.Errorf("unsupported ai provider %q", cfg.Provider)
	}
}

func newStore(ctx context.Context, cfg *StoreConfig) (session.Store, error) {
	if cfg == nil {
		return session.NewMemoryStore(), nil
	}

	switch strings.ToLower(strings.TrimSpace(cfg.Driver)) {
	case storeMemory:
		return session.NewMemoryStore(), nil
	case storeSQLite, "":
		path := strings.TrimSpace(cfg.Path)
		if path == "" {
			path = app + ".db"
		}
		store, err := session.OpenSQLite(ctx, path)
		if err != nil {
			return nil, fmt.Errorf("opening session store: %w", err)
		}
		return store, nil
	default:
		return nil, fmt.Errorf("unsupported store driver %q", cfg.Driver)
	}
}

func screeningConfig(cfg *ScreeningConfig) screening.Config {
	if cfg == nil {
		return screening.DefaultConfig()
	}
	return screening.Config{
		OracleTimeout:          cfg.OracleTimeout,
		ExtractionRetries:      cfg.ExtractionRetries,
		GenerationRetries:      cfg.GenerationRetries,
		EvaluationRetries:      cfg.EvaluationRetries,
		MaxConsecutiveFailures: cfg.MaxConsecutiveFailures,
	}
}
