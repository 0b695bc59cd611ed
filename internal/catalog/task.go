package catalog

import (
	"fmt"
	"path"
	"strings"
)

// Phase identifies one stage of the evaluation pipeline.
type Phase string

const (
	PhaseRaw       Phase = "raw"
	PhaseReview    Phase = "review"
	PhaseDebate    Phase = "debate"
	PhaseJudgeHard Phase = "judge-hard"
	PhaseJudgeSoft Phase = "judge-soft"
)

// Source names which individual-review tree hard judging reads from.
type Source string

const (
	SourceRaw    Source = "raw"
	SourceReview Source = "review"
)

// Task addresses exactly one unit of work. The zero-value fields vary by
// phase:
//
//	raw, review:  PR, Model (the reviewer)
//	debate:       PR (all models participate jointly); NoContext variant
//	judge-hard:   PR, Bug, Reviewed, Model (the judge), Source
//	judge-soft:   PR, Model (the judge)
//
// A Task maps to a single checkpoint path via Path; the mapping is a
// bijection, which holds because identifiers never contain underscores or
// path separators (enforced at config load).
type Task struct {
	Phase     Phase
	PR        string
	Model     string
	Bug       string
	Reviewed  string
	Source    Source
	NoContext bool
}

// Path returns the checkpoint path for the task, relative to the results
// directory.
func (t Task) Path() string {
	switch t.Phase {
	case PhaseRaw:
		return path.Join("raw", t.PR, t.Model+".json")
	case PhaseReview:
		return path.Join("review", t.PR, t.Model+".json")
	case PhaseDebate:
		dir := "debate"
		if t.NoContext {
			dir = "debate-nocontext"
		}
		return path.Join(dir, t.PR, "debate.json")
	case PhaseJudgeHard:
		name := fmt.Sprintf("%s_bug_%s_by_%s.json", t.Reviewed, t.Bug, t.Model)
		return path.Join("judge", "hard", string(t.Source), t.PR, name)
	case PhaseJudgeSoft:
		return path.Join("judge", "soft", t.PR, t.Model+".json")
	}
	panic(fmt.Sprintf("unknown phase %q", t.Phase))
}

// String renders the task identity for progress lines and error messages.
func (t Task) String() string {
	switch t.Phase {
	case PhaseDebate:
		if t.NoContext {
			return fmt.Sprintf("%s (no context)", t.PR)
		}
		return t.PR
	case PhaseJudgeHard:
		return fmt.Sprintf("%s/%s bug=%s reviewed=%s judge=%s", t.Source, t.PR, t.Bug, t.Reviewed, t.Model)
	case PhaseJudgeSoft:
		return fmt.Sprintf("%s judge=%s", t.PR, t.Model)
	default:
		return fmt.Sprintf("%s × %s", t.PR, t.Model)
	}
}

// MappingPath returns the pseudonym-mapping path persisted beside a PR's
// soft-judge outputs.
func MappingPath(prID string) string {
	return path.Join("judge", "soft", prID, "mapping.json")
}

// ParsePath reconstructs the task a checkpoint path was derived from. It is
// the inverse of Path and fails on anything it did not produce.
func ParsePath(p string) (Task, error) {
	parts := strings.Split(path.Clean(p), "/")
	fail := func() (Task, error) { return Task{}, fmt.Errorf("unrecognized checkpoint path %q", p) }

	strip := func(s string) (string, bool) {
		if strings.HasSuffix(s, ".json") {
			return strings.TrimSuffix(s, ".json"), true
		}
		return "", false
	}

	switch {
	case len(parts) == 3 && (parts[0] == "raw" || parts[0] == "review"):
		model, ok := strip(parts[2])
		if !ok {
			return fail()
		}
		phase := PhaseRaw
		if parts[0] == "review" {
			phase = PhaseReview
		}
		return Task{Phase: phase, PR: parts[1], Model: model}, nil

	case len(parts) == 3 && (parts[0] == "debate" || parts[0] == "debate-nocontext"):
		if parts[2] != "debate.json" {
			return fail()
		}
		return Task{Phase: PhaseDebate, PR: parts[1], NoContext: parts[0] == "debate-nocontext"}, nil

	case len(parts) == 5 && parts[0] == "judge" && parts[1] == "hard":
		name, ok := strip(parts[4])
		if !ok {
			return fail()
		}
		// <reviewed>_bug_<bug>_by_<judge>; ids cannot contain underscores.
		reviewed, rest, ok1 := strings.Cut(name, "_bug_")
		bug, judge, ok2 := strings.Cut(rest, "_by_")
		if !ok1 || !ok2 {
			return fail()
		}
		return Task{
			Phase: PhaseJudgeHard, Source: Source(parts[2]), PR: parts[3],
			Reviewed: reviewed, Bug: bug, Model: judge,
		}, nil

	case len(parts) == 4 && parts[0] == "judge" && parts[1] == "soft":
		judge, ok := strip(parts[3])
		if !ok || judge == "mapping" {
			return fail()
		}
		return Task{Phase: PhaseJudgeSoft, PR: parts[2], Model: judge}, nil
	}
	return fail()
}
