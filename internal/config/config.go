package config

import (
	"fmt"
	"regexp"
	"time"

	"github.com/spf13/viper"

	"github.com/arenahq/arena/internal/models"
)

// identRe constrains every identifier used as a path component. Underscores
// are excluded because checkpoint filenames use them as field separators.
var identRe = regexp.MustCompile(`^[a-z0-9][a-z0-9.-]*$`)

// Timeouts holds per-invocation deadlines for external tools.
type Timeouts struct {
	Orchestrator time.Duration `mapstructure:"orchestrator"`
	Judge        time.Duration `mapstructure:"judge"`
	Raw          time.Duration `mapstructure:"raw"`
}

// ReviewSettings configures the single-round review phase.
type ReviewSettings struct {
	Rounds int `mapstructure:"rounds"`
}

// DebateSettings configures the multi-round debate phase.
type DebateSettings struct {
	Rounds           int  `mapstructure:"rounds"`
	CheckConvergence bool `mapstructure:"check_convergence"`
}

// JudgeSettings configures the judging phase.
type JudgeSettings struct {
	Dimensions []models.Dimension `mapstructure:"dimensions"`
}

// Config is the fully-typed arena configuration. All fields are validated at
// load time; nothing downstream reads viper directly.
type Config struct {
	ResultsDir   string               `mapstructure:"results_dir"`
	ConfigsDir   string               `mapstructure:"configs_dir"`
	PromptsDir   string               `mapstructure:"prompts_dir"`
	ManifestPath string               `mapstructure:"manifest_path"`
	LedgerPath   string               `mapstructure:"ledger_path"`
	Concurrency  int                  `mapstructure:"concurrency"`
	ReviewPrompt string               `mapstructure:"review_prompt"`
	Review       ReviewSettings       `mapstructure:"review"`
	Debate       DebateSettings       `mapstructure:"debate"`
	Judge        JudgeSettings        `mapstructure:"judge"`
	Timeouts     Timeouts             `mapstructure:"timeouts"`
	Models       []models.ModelRecord `mapstructure:"models"`

	AnthropicAPIKey string `mapstructure:"anthropic_api_key"`
}

// SetDefaults registers config defaults on the given viper instance.
func SetDefaults(v *viper.Viper) {
	v.SetDefault("results_dir", "results")
	v.SetDefault("configs_dir", "orchestrator_configs")
	v.SetDefault("prompts_dir", "")
	v.SetDefault("manifest_path", "prs/manifest.yaml")
	v.SetDefault("ledger_path", "arena.db")
	v.SetDefault("concurrency", 4)
	v.SetDefault("review_prompt", "You are a senior engineer reviewing this pull request.")
	v.SetDefault("review.rounds", 1)
	v.SetDefault("debate.rounds", 3)
	v.SetDefault("debate.check_convergence", true)
	v.SetDefault("timeouts.orchestrator", 10*time.Minute)
	v.SetDefault("timeouts.judge", 5*time.Minute)
	v.SetDefault("timeouts.raw", 30*time.Minute)
	v.SetDefault("judge.dimensions", []map[string]string{
		{"id": "accuracy", "name": "Accuracy", "description": "are the findings technically correct?"},
		{"id": "actionability", "name": "Actionability", "description": "can the author act on the feedback directly?"},
		{"id": "depth", "name": "Depth", "description": "does the review go beyond surface-level observations?"},
		{"id": "clarity", "name": "Clarity", "description": "is the review well organized and unambiguous?"},
	})
}

// Load unmarshals and validates the configuration from viper.
func Load(v *viper.Viper) (*Config, error) {
	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("unmarshal config: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// Validate checks the configuration for structural errors. Any error here is
// fatal before a single task runs.
func (c *Config) Validate() error {
	if c.Concurrency < 1 {
		return fmt.Errorf("concurrency must be >= 1, got %d", c.Concurrency)
	}
	if c.Review.Rounds < 1 {
		return fmt.Errorf("review.rounds must be >= 1, got %d", c.Review.Rounds)
	}
	if c.Debate.Rounds < 1 {
		return fmt.Errorf("debate.rounds must be >= 1, got %d", c.Debate.Rounds)
	}
	if len(c.Models) == 0 {
		return fmt.Errorf("no models configured")
	}
	// Pseudonym labels run Reviewer A through Reviewer Z.
	if len(c.Models) > 26 {
		return fmt.Errorf("at most 26 models supported, got %d", len(c.Models))
	}
	if len(c.Judge.Dimensions) == 0 {
		return fmt.Errorf("no judge dimensions configured")
	}

	seen := make(map[string]bool, len(c.Models))
	for _, m := range c.Models {
		if !identRe.MatchString(m.ID) {
			return fmt.Errorf("model id %q: must match %s", m.ID, identRe)
		}
		if seen[m.ID] {
			return fmt.Errorf("duplicate model id %q", m.ID)
		}
		seen[m.ID] = true
		if m.Provider == "" {
			return fmt.Errorf("model %s: provider is required", m.ID)
		}
		if m.JudgeCmd == "" && m.API == "" {
			return fmt.Errorf("model %s: judge_cmd or api is required", m.ID)
		}
		if m.API != "" && m.API != models.JudgeAPIAnthropic {
			return fmt.Errorf("model %s: unknown api %q", m.ID, m.API)
		}
		if m.API == models.JudgeAPIAnthropic && m.APIModel == "" {
			return fmt.Errorf("model %s: api_model is required with api: anthropic", m.ID)
		}
	}

	dims := make(map[string]bool, len(c.Judge.Dimensions))
	for _, d := range c.Judge.Dimensions {
		if !identRe.MatchString(d.ID) {
			return fmt.Errorf("dimension id %q: must match %s", d.ID, identRe)
		}
		if dims[d.ID] {
			return fmt.Errorf("duplicate dimension id %q", d.ID)
		}
		dims[d.ID] = true
	}
	return nil
}

// Model returns the model record with the given id, or nil.
func (c *Config) Model(id string) *models.ModelRecord {
	for i := range c.Models {
		if c.Models[i].ID == id {
			return &c.Models[i]
		}
	}
	return nil
}

// ModelIDs returns the roster ids in configured order.
func (c *Config) ModelIDs() []string {
	ids := make([]string, len(c.Models))
	for i, m := range c.Models {
		ids[i] = m.ID
	}
	return ids
}
