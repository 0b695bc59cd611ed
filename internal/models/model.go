package models

// JudgeAPI selects a direct-API judge backend for models without a CLI.
type JudgeAPI string

const (
	// JudgeAPIAnthropic judges via the Anthropic Messages API.
	JudgeAPIAnthropic JudgeAPI = "anthropic"
)

// ModelRecord is one participating AI model. Immutable once loaded from the
// roster in config.yaml.
//
// Provider is the reviewer/provider name the orchestration tool knows the
// model by. JudgeCmd is a shell command that reads a prompt on stdin and
// writes the model's response to stdout; when empty, API selects a direct
// backend instead.
type ModelRecord struct {
	ID       string   `mapstructure:"id" yaml:"id" json:"id"`
	Provider string   `mapstructure:"provider" yaml:"provider" json:"provider"`
	JudgeCmd string   `mapstructure:"judge_cmd" yaml:"judge_cmd" json:"judge_cmd,omitempty"`
	API      JudgeAPI `mapstructure:"api" yaml:"api" json:"api,omitempty"`
	APIModel string   `mapstructure:"api_model" yaml:"api_model" json:"api_model,omitempty"`
}

// Dimension is one soft-score quality axis (1-10). Description is the
// judge-facing explanation of the axis; Name labels report columns.
type Dimension struct {
	ID          string `mapstructure:"id" yaml:"id" json:"id"`
	Name        string `mapstructure:"name" yaml:"name" json:"name"`
	Description string `mapstructure:"description" yaml:"description" json:"description,omitempty"`
}
