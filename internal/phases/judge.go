package phases

import (
	"context"
	"fmt"
	"sort"
	"strings"

	"github.com/arenahq/arena/internal/anonymize"
	"github.com/arenahq/arena/internal/catalog"
	"github.com/arenahq/arena/internal/executor"
	"github.com/arenahq/arena/internal/models"
	"github.com/arenahq/arena/internal/prompts"
	"github.com/arenahq/arena/internal/tool"
)

// JudgeHard runs hard judging: every judging model evaluates every reviewed
// model's review against every known bug. Reports later fold the verdicts
// into a majority decision per (PR, bug, reviewed model).
func (r *Runner) JudgeHard(ctx context.Context, source catalog.Source) executor.Summary {
	tasks := catalog.JudgeHard(r.Cfg, r.Manifest, r.Filter, source)

	template, err := r.Prompts.Load("hard_judge.txt")
	if err != nil {
		r.UI.Error("load hard judge prompt: %v", err)
		return executor.Summary{Failed: len(tasks)}
	}

	var missing int
	jobs := make([]executor.Job, 0, len(tasks))
	for _, t := range tasks {
		t := t

		// A review that was never produced cannot be judged; the task
		// reappears once the review phase fills the gap. It still counts as
		// skipped so the summary covers the whole catalog.
		reviewPath := catalog.Task{Phase: sourcePhase(source), PR: t.PR, Model: t.Reviewed}.Path()
		if !r.Store.Exists(reviewPath) {
			r.UI.Skipped("Judge-Hard", t.String(), fmt.Sprintf("no %s result", source))
			missing++
			continue
		}

		pr := r.Manifest.PR(t.PR)
		bug := knownBug(pr, t.Bug)
		judge := r.Cfg.Model(t.Model)

		jobs = append(jobs, executor.Job{
			Key:  t.String(),
			Path: t.Path(),
			Run: func(ctx context.Context) error {
				var review tool.Result
				if err := r.Store.ReadInto(reviewPath, &review); err != nil {
					return fmt.Errorf("load review: %w", err)
				}

				prompt := prompts.Render(template, map[string]string{
					"bug_description": bug.Description,
					"review_content":  review.Content(),
				})

				response, err := r.Judge.Run(ctx, *judge, prompt)
				if err != nil {
					return err
				}

				var verdict models.HardVerdict
				if err := tool.ExtractInto(response, &verdict); err != nil {
					return err
				}
				verdict.Verdict = strings.ToUpper(strings.TrimSpace(verdict.Verdict))
				verdict.Source = string(source)
				verdict.PRID = t.PR
				verdict.BugID = t.Bug
				verdict.ReviewedModel = t.Reviewed
				verdict.JudgeModel = t.Model
				return r.Store.WriteJSON(t.Path(), &verdict)
			},
		})
	}
	summary := r.Pool.Run(ctx, "Judge-Hard", jobs)
	summary.Skipped += missing
	return summary
}

// JudgeSoft runs soft judging: each judging model rates every anonymized
// first-round debate review of a PR on the configured dimensions, in one
// call per (PR, judge).
func (r *Runner) JudgeSoft(ctx context.Context) executor.Summary {
	tasks := catalog.JudgeSoft(r.Cfg, r.Manifest, r.Filter)

	template, err := r.Prompts.Load("soft_judge.txt")
	if err != nil {
		r.UI.Error("load soft judge prompt: %v", err)
		return executor.Summary{Failed: len(tasks)}
	}

	// All roster names get stripped from review text before anonymization.
	stripNames := make([]string, 0, len(r.Cfg.Models)*2)
	for _, m := range r.Cfg.Models {
		stripNames = append(stripNames, m.ID, m.Provider)
	}

	// One pseudonym mapping and anonymized-review block per PR, shared by
	// every judge of that PR within this pass.
	bundles := make(map[string]*prBundle)

	var missing int
	var prepErrs []executor.JobError
	jobs := make([]executor.Job, 0, len(tasks))
	for _, t := range tasks {
		t := t
		debatePath := catalog.Task{Phase: catalog.PhaseDebate, PR: t.PR}.Path()
		if !r.Store.Exists(debatePath) {
			r.UI.Skipped("Judge-Soft", t.String(), "no debate result")
			missing++
			continue
		}

		bundle, ok := bundles[t.PR]
		if !ok {
			var err error
			bundle, err = r.prepareSoftBundle(t.PR, debatePath, stripNames)
			if err != nil {
				r.UI.Error("[Judge-Soft] %s: %v", t.PR, err)
				prepErrs = append(prepErrs, executor.JobError{Key: t.String(), Err: err})
				continue
			}
			bundles[t.PR] = bundle
		}

		pr := r.Manifest.PR(t.PR)
		judge := r.Cfg.Model(t.Model)

		jobs = append(jobs, executor.Job{
			Key:  t.String(),
			Path: t.Path(),
			Run: func(ctx context.Context) error {
				prompt := prompts.Render(template, map[string]string{
					"pr_title":           pr.Title,
					"pr_url":             pr.URL,
					"anonymized_reviews": bundle.anonymized,
					"dimension_list":     dimensionList(r.Cfg.Judge.Dimensions),
					"score_template":     scoreTemplate(bundle.mapping.Labels(), r.Cfg.Judge.Dimensions),
				})

				response, err := r.Judge.Run(ctx, *judge, prompt)
				if err != nil {
					return err
				}

				var scores models.SoftScores
				if err := tool.ExtractInto(response, &scores); err != nil {
					return err
				}
				scores.PRID = t.PR
				scores.JudgeModel = t.Model
				return r.Store.WriteJSON(t.Path(), &scores)
			},
		})
	}
	summary := r.Pool.Run(ctx, "Judge-Soft", jobs)
	summary.Skipped += missing
	summary.Failed += len(prepErrs)
	summary.Errors = append(summary.Errors, prepErrs...)
	return summary
}

// prBundle is the per-PR anonymization state shared by all judges of that
// PR within one judging pass.
type prBundle struct {
	mapping    anonymize.Mapping
	anonymized string
}

// prepareSoftBundle builds (or, on a resumed pass, reloads) the pseudonym
// mapping for a PR and renders its anonymized review block. Reusing a
// persisted mapping keeps a partially-judged pass attributable; --force
// starts a fresh pass with a fresh shuffle.
func (r *Runner) prepareSoftBundle(prID, debatePath string, stripNames []string) (*prBundle, error) {
	var debate tool.Result
	if err := r.Store.ReadInto(debatePath, &debate); err != nil {
		return nil, fmt.Errorf("load debate: %w", err)
	}

	// First-round reviews only: later rounds quote other participants,
	// which would leak identities through the pseudonyms.
	reviews := debate.FirstRoundReviews()
	cleaned := make(map[string]string, len(reviews))
	ids := make([]string, 0, len(reviews))
	for id, text := range reviews {
		cleaned[id] = anonymize.StripNames(text, stripNames)
		ids = append(ids, id)
	}
	sort.Strings(ids)

	mappingPath := catalog.MappingPath(prID)
	var mapping anonymize.Mapping
	if !r.Pool.Force && r.Store.Exists(mappingPath) {
		if err := r.Store.ReadInto(mappingPath, &mapping); err != nil {
			return nil, fmt.Errorf("load mapping: %w", err)
		}
	} else {
		mapping = anonymize.New(ids, r.Rand)
		if err := r.Store.WriteJSON(mappingPath, &mapping); err != nil {
			return nil, fmt.Errorf("persist mapping: %w", err)
		}
	}

	return &prBundle{
		mapping:    mapping,
		anonymized: anonymize.Render(mapping, cleaned),
	}, nil
}

// dimensionList renders the dimension bullets for the soft-judge prompt from
// the configured set, so custom dimensions never contradict the score shape.
func dimensionList(dims []models.Dimension) string {
	lines := make([]string, len(dims))
	for i, d := range dims {
		desc := d.Description
		if desc == "" {
			desc = d.Name
		}
		lines[i] = fmt.Sprintf("- %s: %s", d.ID, desc)
	}
	return strings.Join(lines, "\n")
}

// scoreTemplate renders the JSON shape hint embedded in the soft-judge
// prompt: "Reviewer A": {"accuracy": N, ...}, ...
func scoreTemplate(labels []string, dims []models.Dimension) string {
	dimParts := make([]string, len(dims))
	for i, d := range dims {
		dimParts[i] = fmt.Sprintf("%q: N", d.ID)
	}
	inner := strings.Join(dimParts, ", ")

	entries := make([]string, len(labels))
	for i, label := range labels {
		entries[i] = fmt.Sprintf("%q: {%s}", label, inner)
	}
	return strings.Join(entries, ", ")
}

func sourcePhase(s catalog.Source) catalog.Phase {
	if s == catalog.SourceRaw {
		return catalog.PhaseRaw
	}
	return catalog.PhaseReview
}

func knownBug(pr *models.PRRecord, bugID string) models.KnownBug {
	for _, b := range pr.KnownBugs {
		if b.ID == bugID {
			return b
		}
	}
	return models.KnownBug{ID: bugID}
}
