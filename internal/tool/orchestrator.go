package tool

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"math/rand"
	"os"
	"os/exec"
	"path/filepath"
	"time"

	"github.com/oklog/ulid/v2"
	"gopkg.in/yaml.v3"

	"github.com/arenahq/arena/internal/models"
)

// OrchestratorBin is the multi-agent review tool on PATH.
const OrchestratorBin = "magpie"

// reviewerSpec is one reviewer entry in a generated orchestrator config.
type reviewerSpec struct {
	Model  string `yaml:"model"`
	Prompt string `yaml:"prompt"`
}

// orchestratorConfig is the per-task configuration handed to the tool. The
// core depends only on the tool's exit code, its JSON output contract, and
// the rounds/convergence knobs here.
type orchestratorConfig struct {
	Providers map[string]map[string]bool `yaml:"providers"`
	Defaults  struct {
		MaxRounds        int    `yaml:"max_rounds"`
		OutputFormat     string `yaml:"output_format"`
		CheckConvergence bool   `yaml:"check_convergence"`
	} `yaml:"defaults"`
	Reviewers  map[string]reviewerSpec `yaml:"reviewers"`
	Analyzer   reviewerSpec            `yaml:"analyzer"`
	Summarizer reviewerSpec            `yaml:"summarizer"`
}

const analyzerPrompt = "You are a senior engineer providing concise PR context analysis. " +
	"Summarize what this PR does, what files are affected, and any areas of concern."

const summarizerPrompt = "You are a neutral technical reviewer. Synthesize the debate into a " +
	"final conclusion. Highlight consensus points and unresolved disagreements. Be concise."

// Orchestrator invokes the external multi-agent review tool.
type Orchestrator struct {
	ConfigsDir string
	Timeout    time.Duration
}

// InvokeSpec describes one orchestrator run.
type InvokeSpec struct {
	URL              string
	Participants     []models.ModelRecord
	ReviewPrompt     string
	Rounds           int
	CheckConvergence bool
	SkipContext      bool
	OutputPath       string
}

// WriteConfig generates the per-task tool configuration and writes it to a
// uniquely named YAML file under ConfigsDir, returning its path.
func (o *Orchestrator) WriteConfig(spec InvokeSpec) (string, error) {
	var cfg orchestratorConfig
	cfg.Providers = make(map[string]map[string]bool, len(spec.Participants))
	cfg.Reviewers = make(map[string]reviewerSpec, len(spec.Participants))
	for _, m := range spec.Participants {
		cfg.Providers[m.Provider] = map[string]bool{"enabled": true}
		cfg.Reviewers[m.Provider] = reviewerSpec{Model: m.Provider, Prompt: spec.ReviewPrompt}
	}
	cfg.Defaults.MaxRounds = spec.Rounds
	cfg.Defaults.OutputFormat = "json"
	cfg.Defaults.CheckConvergence = spec.CheckConvergence

	first := spec.Participants[0].Provider
	cfg.Analyzer = reviewerSpec{Model: first, Prompt: analyzerPrompt}
	cfg.Summarizer = reviewerSpec{Model: first, Prompt: summarizerPrompt}

	data, err := yaml.Marshal(&cfg)
	if err != nil {
		return "", fmt.Errorf("marshal orchestrator config: %w", err)
	}

	if err := os.MkdirAll(o.ConfigsDir, 0o755); err != nil {
		return "", fmt.Errorf("create configs dir: %w", err)
	}
	name := fmt.Sprintf("%s_%s.yaml", OrchestratorBin, newConfigID())
	path := filepath.Join(o.ConfigsDir, name)
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return "", fmt.Errorf("write orchestrator config: %w", err)
	}
	return path, nil
}

// Run generates the config and executes one orchestrator invocation. The
// tool writes its JSON result to spec.OutputPath itself; callers verify the
// checkpoint afterwards.
func (o *Orchestrator) Run(ctx context.Context, spec InvokeSpec) error {
	if len(spec.Participants) == 0 {
		return fmt.Errorf("orchestrator run needs at least one participant")
	}
	cfgPath, err := o.WriteConfig(spec)
	if err != nil {
		return err
	}

	if err := os.MkdirAll(filepath.Dir(spec.OutputPath), 0o755); err != nil {
		return fmt.Errorf("create output dir: %w", err)
	}

	ctx, cancel := context.WithTimeout(ctx, o.Timeout)
	defer cancel()

	// -a selects all configured reviewers, skipping interactive selection.
	args := []string{"review", spec.URL,
		"-c", cfgPath,
		"-o", spec.OutputPath,
		"-f", "json",
		"-a",
	}
	if spec.SkipContext {
		args = append(args, "--skip-context")
	}
	cmd := exec.CommandContext(ctx, OrchestratorBin, args...)
	var stderr bytes.Buffer
	cmd.Stderr = &stderr

	err = cmd.Run()
	if errors.Is(ctx.Err(), context.DeadlineExceeded) {
		return &TimeoutError{Cmd: OrchestratorBin, Timeout: o.Timeout}
	}
	if err != nil {
		return &InvocationError{Cmd: OrchestratorBin, Err: err, Stderr: tail(stderr.String(), 5)}
	}
	return nil
}

func newConfigID() string {
	entropy := rand.New(rand.NewSource(time.Now().UnixNano()))
	return ulid.MustNew(ulid.Timestamp(time.Now()), entropy).String()
}
