package phases

import (
	"context"
	"fmt"
	"net/url"
	"regexp"
	"strings"

	"github.com/arenahq/arena/internal/catalog"
	"github.com/arenahq/arena/internal/executor"
	"github.com/arenahq/arena/internal/prompts"
	"github.com/arenahq/arena/internal/tool"
)

// Error patterns from model CLIs that could not actually access the PR.
var rawErrorPatterns = []string{
	"unable to access",
	"permission to access",
	"approve one of the pending",
	"need permission",
	"cannot retrieve",
	"i can't access",
}

// Cheat-signal patterns: a raw review referencing post-merge knowledge has
// looked beyond the diff it was given.
var cheatPatterns = []*regexp.Regexp{
	regexp.MustCompile(`revert(?:ed|s)?\s+(?:in|by|via)\s+#\d+`),
	regexp.MustCompile(`fix(?:ed|es)?\s+(?:in|by|via)\s+#\d+`),
	regexp.MustCompile(`follow[- ]?up\s+(?:pr|pull request|commit)\s+#\d+`),
	regexp.MustCompile(`(?:current|merged|latest)\s+(?:master|main)\s+(?:branch|version|code)`),
	regexp.MustCompile(`(?:was later|subsequently|has since been|was eventually)\s+\w+`),
	regexp.MustCompile(`this (?:pr )?was reverted`),
}

// Raw runs the raw review phase: each model reviews each hard PR directly
// through its own CLI, without the orchestration framework. This measures
// bare review capability.
func (r *Runner) Raw(ctx context.Context) executor.Summary {
	tasks := catalog.Raw(r.Cfg, r.Manifest, r.Filter)

	template, err := r.Prompts.Load("raw_review.txt")
	if err != nil {
		r.UI.Error("load raw review prompt: %v", err)
		return executor.Summary{Failed: len(tasks)}
	}

	jobs := make([]executor.Job, 0, len(tasks))
	for _, t := range tasks {
		t := t
		pr := r.Manifest.PR(t.PR)
		model := r.Cfg.Model(t.Model)
		jobs = append(jobs, executor.Job{
			Key:  t.String(),
			Path: t.Path(),
			Run: func(ctx context.Context) error {
				prompt := prompts.Render(template, map[string]string{
					"review_prompt": r.Cfg.ReviewPrompt,
					"pr_url":        pr.URL,
				})

				response, err := r.RawJudge.Run(ctx, *model, prompt)
				if err != nil {
					return err
				}
				if reason := validateRawReview(response); reason != "" {
					return fmt.Errorf("review failed validation (%s): %.200s", reason, response)
				}

				signals := detectCheating(response)
				if len(signals) > 0 {
					r.UI.Warning("[Raw] %s: cheating signals detected: %s", t, strings.Join(signals, "; "))
				}

				result := tool.Result{
					PRNumber:     prNumber(pr.URL),
					Mode:         "raw",
					Messages:     []tool.Message{{ReviewerID: model.ID, Content: response}},
					CheatSignals: signals,
				}
				return r.Store.WriteJSON(t.Path(), &result)
			},
		})
	}
	return r.Pool.Run(ctx, "Raw", jobs)
}

// validateRawReview rejects responses that are error messages rather than
// reviews. Returns the rejection reason, or "" when the review is real.
func validateRawReview(content string) string {
	if len(content) < 100 {
		return "too short"
	}
	lower := strings.ToLower(content)
	for _, pattern := range rawErrorPatterns {
		if strings.Contains(lower, pattern) {
			return fmt.Sprintf("error message detected: %q", pattern)
		}
	}
	return ""
}

// detectCheating scans a review for references to post-merge information.
// The signals are stored with the result so reports can flag the review.
func detectCheating(content string) []string {
	lower := strings.ToLower(content)
	var signals []string
	for _, re := range cheatPatterns {
		if m := re.FindString(lower); m != "" {
			signals = append(signals, m)
		}
	}
	return signals
}

// prNumber extracts the trailing path segment of a PR URL.
func prNumber(raw string) string {
	u, err := url.Parse(raw)
	if err != nil {
		return ""
	}
	parts := strings.Split(strings.Trim(u.Path, "/"), "/")
	return parts[len(parts)-1]
}
