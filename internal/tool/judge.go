package tool

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"os/exec"
	"strings"
	"time"

	"github.com/arenahq/arena/internal/models"
)

// APIClient is a direct-API judge backend for models without a CLI.
type APIClient interface {
	Complete(ctx context.Context, model, prompt string) (string, error)
}

// JudgeRunner invokes a model's judging backend with a rendered prompt and
// returns its raw response text.
//
// CLI judges receive the prompt on stdin: prompts carry arbitrary review
// text, so they are never interpolated into the command line.
type JudgeRunner struct {
	Timeout time.Duration
	API     APIClient
}

// Run dispatches to the model's CLI or direct-API backend.
func (j *JudgeRunner) Run(ctx context.Context, model models.ModelRecord, prompt string) (string, error) {
	if model.JudgeCmd != "" {
		return j.runCLI(ctx, model, prompt)
	}
	if model.API == models.JudgeAPIAnthropic {
		if j.API == nil {
			return "", fmt.Errorf("model %s: no API client configured", model.ID)
		}
		ctx, cancel := context.WithTimeout(ctx, j.Timeout)
		defer cancel()
		out, err := j.API.Complete(ctx, model.APIModel, prompt)
		if errors.Is(ctx.Err(), context.DeadlineExceeded) {
			return "", &TimeoutError{Cmd: model.ID, Timeout: j.Timeout}
		}
		if err != nil {
			return "", &InvocationError{Cmd: model.ID, Err: err}
		}
		return strings.TrimSpace(out), nil
	}
	return "", fmt.Errorf("model %s: no judge backend", model.ID)
}

func (j *JudgeRunner) runCLI(ctx context.Context, model models.ModelRecord, prompt string) (string, error) {
	ctx, cancel := context.WithTimeout(ctx, j.Timeout)
	defer cancel()

	cmd := exec.CommandContext(ctx, "sh", "-c", model.JudgeCmd)
	cmd.Stdin = strings.NewReader(prompt)

	var stdout, stderr bytes.Buffer
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr

	err := cmd.Run()
	if errors.Is(ctx.Err(), context.DeadlineExceeded) {
		return "", &TimeoutError{Cmd: model.ID, Timeout: j.Timeout}
	}
	if err != nil {
		return "", &InvocationError{Cmd: model.ID, Err: err, Stderr: tail(stderr.String(), 3)}
	}
	return strings.TrimSpace(stdout.String()), nil
}
