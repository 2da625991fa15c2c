package cmd

import (
	"bytes"
	"context"
	"path/filepath"
	"testing"
	"time"

	"github.com/spf13/viper"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/spigell/talentscout/internal/screening"
	"github.com/spigell/talentscout/internal/session"
)

func TestDefaultConfig(t *testing.T) {
	v := viper.New()
	setDefaults(v)

	config, err := decodeConfig(v)
	require.NoError(t, err)

	assert.Equal(t, providerGemini, config.AI.Provider)
	assert.Equal(t, "gemini-2.5-flash", config.AI.Gemini.Model)
	assert.Equal(t, 3, config.AI.Gemini.MaxRetries)
	assert.Equal(t, "gpt-4o-mini", config.AI.OpenAI.Model)
	assert.Equal(t, storeSQLite, config.Store.Driver)
	assert.Equal(t, "talentscout.db", config.Store.Path)

	assert.Equal(t, screening.DefaultConfig(), screeningConfig(config.Screening))
}

func TestConfigFromEnvironment(t *testing.T) {
	t.Setenv("TALENTSCOUT_AI_PROVIDER", "openai")
	t.Setenv("TALENTSCOUT_AI_OPENAI_API_KEY", "sk-env")
	t.Setenv("TALENTSCOUT_SCREENING_ORACLE_TIMEOUT", "10s")
	t.Setenv("TALENTSCOUT_STORE_DRIVER", "memory")

	v := viper.New()
	setDefaults(v)

	config, err := decodeConfig(v)
	require.NoError(t, err)

	assert.Equal(t, providerOpenAI, config.AI.Provider)
	assert.Equal(t, "sk-env", config.AI.OpenAI.APIKey)
	assert.Equal(t, 10*time.Second, config.Screening.OracleTimeout)
	assert.Equal(t, storeMemory, config.Store.Driver)
}

func TestNewStore(t *testing.T) {
	ctx := context.Background()

	memory, err := newStore(ctx, &StoreConfig{Driver: "memory"})
	require.NoError(t, err)
	assert.IsType(t, &session.MemoryStore{}, memory)

	path := filepath.Join(t.TempDir(), "nested", "sessions.db")
	sqlite, err := newStore(ctx, &StoreConfig{Driver: "sqlite", Path: path})
	require.NoError(t, err)
	t.Cleanup(func() { sqlite.Close() })
	assert.IsType(t, &session.SQLiteStore{}, sqlite)

	_, err = newStore(ctx, &StoreConfig{Driver: "postgres"})
	assert.ErrorContains(t, err, "unsupported store driver")
}

func TestNewGenerator(t *testing.T) {
	ctx := context.Background()

	_, _, err := newGenerator(ctx, &AIConfig{Provider: "claude"}, zap.NewNop())
	assert.ErrorContains(t, err, "unsupported ai provider")

	t.Setenv("OPENAI_API_KEY", "")
	_, _, err = newGenerator(ctx, &AIConfig{Provider: providerOpenAI}, zap.NewNop())
	assert.Error(t, err)

	generator, _, err := newGenerator(ctx, &AIConfig{
		Provider: providerOpenAI,
		OpenAI:   &OpenAIConfig{APIKey: "sk-inline"},
	}, zap.NewNop())
	require.NoError(t, err, "inline api key from config")
	assert.Equal(t, "gpt-4o-mini", generator.Model())

	t.Setenv("OPENAI_API_KEY", "sk-test")
	generator, maxLogLength, err := newGenerator(ctx, &AIConfig{
		Provider: "OpenAI",
		OpenAI:   &OpenAIConfig{Model: "gpt-4o", MaxLogLength: 50},
	}, zap.NewNop())
	require.NoError(t, err)
	assert.Equal(t, "gpt-4o", generator.Model())
	assert.Equal(t, 50, maxLogLength)
}

func TestVersionCommand(t *testing.T) {
	var out bytes.Buffer
	versionCmd.SetOut(&out)
	t.Cleanup(func() { versionCmd.SetOut(nil) })

	versionCmd.Run(versionCmd, nil)

	assert.Equal(t, "talentscout "+version+"\n", out.String())
}
