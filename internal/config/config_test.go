package config

import (
	"fmt"
	"testing"
	"time"

	"github.com/spf13/viper"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/arenahq/arena/internal/models"
)

func testViper(t *testing.T) *viper.Viper {
	t.Helper()
	v := viper.New()
	SetDefaults(v)
	v.Set("models", []map[string]any{
		{"id": "claude", "provider": "anthropic-cli", "judge_cmd": "claude -p"},
		{"id": "gpt", "provider": "openai", "judge_cmd": "codex exec"},
	})
	return v
}

func TestLoad_Defaults(t *testing.T) {
	cfg, err := Load(testViper(t))
	require.NoError(t, err)

	assert.Equal(t, "results", cfg.ResultsDir)
	assert.Equal(t, "prs/manifest.yaml", cfg.ManifestPath)
	assert.Equal(t, 4, cfg.Concurrency)
	assert.Equal(t, 1, cfg.Review.Rounds)
	assert.Equal(t, 3, cfg.Debate.Rounds)
	assert.True(t, cfg.Debate.CheckConvergence)
	assert.Equal(t, 10*time.Minute, cfg.Timeouts.Orchestrator)
	assert.Equal(t, 5*time.Minute, cfg.Timeouts.Judge)
	assert.Equal(t, 30*time.Minute, cfg.Timeouts.Raw)
	require.Len(t, cfg.Judge.Dimensions, 4)
	assert.Equal(t, "accuracy", cfg.Judge.Dimensions[0].ID)
}

func TestLoad_NoModels(t *testing.T) {
	v := viper.New()
	SetDefaults(v)

	_, err := Load(v)
	assert.ErrorContains(t, err, "no models configured")
}

func TestValidate_ModelIdentifiers(t *testing.T) {
	base := func() *Config {
		cfg, err := Load(testViper(t))
		require.NoError(t, err)
		return cfg
	}

	t.Run("underscore rejected", func(t *testing.T) {
		cfg := base()
		cfg.Models[0].ID = "claude_sonnet"
		assert.ErrorContains(t, cfg.Validate(), "must match")
	})

	t.Run("uppercase rejected", func(t *testing.T) {
		cfg := base()
		cfg.Models[0].ID = "Claude"
		assert.ErrorContains(t, cfg.Validate(), "must match")
	})

	t.Run("dots and dashes accepted", func(t *testing.T) {
		cfg := base()
		cfg.Models[0].ID = "claude-sonnet-4.5"
		assert.NoError(t, cfg.Validate())
	})

	t.Run("duplicate rejected", func(t *testing.T) {
		cfg := base()
		cfg.Models[1].ID = cfg.Models[0].ID
		assert.ErrorContains(t, cfg.Validate(), "duplicate model id")
	})
}

func TestValidate_RosterCeiling(t *testing.T) {
	cfg, err := Load(testViper(t))
	require.NoError(t, err)

	for i := len(cfg.Models); i < 27; i++ {
		cfg.Models = append(cfg.Models, models.ModelRecord{
			ID:       fmt.Sprintf("model-%d", i),
			Provider: fmt.Sprintf("provider-%d", i),
			JudgeCmd: "cat",
		})
	}
	assert.ErrorContains(t, cfg.Validate(), "at most 26 models")

	cfg.Models = cfg.Models[:26]
	assert.NoError(t, cfg.Validate())
}

func TestValidate_JudgeBackendRequired(t *testing.T) {
	cfg, err := Load(testViper(t))
	require.NoError(t, err)

	cfg.Models[0].JudgeCmd = ""
	assert.ErrorContains(t, cfg.Validate(), "judge_cmd or api is required")

	cfg.Models[0].API = models.JudgeAPIAnthropic
	assert.ErrorContains(t, cfg.Validate(), "api_model is required")

	cfg.Models[0].APIModel = "claude-sonnet-4-5"
	assert.NoError(t, cfg.Validate())

	cfg.Models[0].API = "openai"
	assert.ErrorContains(t, cfg.Validate(), "unknown api")
}

func TestValidate_Dimensions(t *testing.T) {
	cfg, err := Load(testViper(t))
	require.NoError(t, err)

	cfg.Judge.Dimensions = nil
	assert.ErrorContains(t, cfg.Validate(), "no judge dimensions")

	cfg.Judge.Dimensions = []models.Dimension{
		{ID: "depth", Name: "Depth"},
		{ID: "depth", Name: "Depth again"},
	}
	assert.ErrorContains(t, cfg.Validate(), "duplicate dimension id")
}

func TestValidate_Bounds(t *testing.T) {
	cfg, err := Load(testViper(t))
	require.NoError(t, err)

	cfg.Concurrency = 0
	assert.ErrorContains(t, cfg.Validate(), "concurrency")

	cfg.Concurrency = 2
	cfg.Debate.Rounds = 0
	assert.ErrorContains(t, cfg.Validate(), "debate.rounds")
}

func TestModel_Lookup(t *testing.T) {
	cfg, err := Load(testViper(t))
	require.NoError(t, err)

	require.NotNil(t, cfg.Model("gpt"))
	assert.Equal(t, "openai", cfg.Model("gpt").Provider)
	assert.Nil(t, cfg.Model("missing"))
	assert.Equal(t, []string{"claude", "gpt"}, cfg.ModelIDs())
}
