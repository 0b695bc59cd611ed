package models

// HardVerdict is the persisted result of one hard-judging call: did this
// judge find this bug in this review? Self-contained so reports need no
// cross-file context.
type HardVerdict struct {
	Verdict    string `json:"verdict"`
	Confidence string `json:"confidence,omitempty"`
	Reasoning  string `json:"reasoning,omitempty"`

	Source        string `json:"source"`
	PRID          string `json:"pr_id"`
	BugID         string `json:"bug_id"`
	ReviewedModel string `json:"reviewed_model"`
	JudgeModel    string `json:"judge_model"`
}

// Found reports whether the verdict is an affirmative detection.
func (v HardVerdict) Found() bool { return v.Verdict == "YES" }

// SoftScores is the persisted result of one soft-judging call: one judge's
// per-dimension ratings for every pseudonymous reviewer of a PR's debate.
type SoftScores struct {
	// Scores maps pseudonym label -> dimension id -> rating (1-10).
	Scores map[string]map[string]float64 `json:"scores"`

	PRID       string `json:"pr_id"`
	JudgeModel string `json:"judge_model"`
}
