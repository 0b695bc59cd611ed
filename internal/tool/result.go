package tool

import (
	"fmt"
	"sort"
	"strings"
)

// Message is one reviewer utterance in an orchestrator result.
type Message struct {
	ReviewerID string `json:"reviewerId"`
	Content    string `json:"content"`
	Round      int    `json:"round,omitempty"`
}

// Summary is one reviewer's closing summary.
type Summary struct {
	ReviewerID string `json:"reviewerId"`
	Summary    string `json:"summary"`
}

// Issue is one structured finding parsed by the orchestrator.
type Issue struct {
	Severity    string `json:"severity"`
	Title       string `json:"title"`
	Description string `json:"description"`
}

// Result is the JSON shape the orchestration tool writes for both
// single-round reviews and debates. Raw-phase results reuse it with a single
// message. Every result is independently parseable without cross-file
// context.
type Result struct {
	PRNumber        string    `json:"prNumber,omitempty"`
	Mode            string    `json:"mode,omitempty"`
	Messages        []Message `json:"messages"`
	Summaries       []Summary `json:"summaries,omitempty"`
	FinalConclusion string    `json:"finalConclusion,omitempty"`
	ParsedIssues    []Issue   `json:"parsedIssues,omitempty"`
	CheatSignals    []string  `json:"cheating_signals,omitempty"`
}

// Content flattens the whole result into one review document: all reviewer
// messages, the final conclusion, and parsed issues. Used when a debate is
// judged as a single unit.
func (r *Result) Content() string {
	var parts []string
	for _, msg := range r.Messages {
		parts = append(parts, fmt.Sprintf("## %s Review\n\n%s", orUnknown(msg.ReviewerID), msg.Content))
	}
	if r.FinalConclusion != "" {
		parts = append(parts, "## Final Conclusion\n\n"+r.FinalConclusion)
	}
	if len(r.ParsedIssues) > 0 {
		var b strings.Builder
		b.WriteString("## Identified Issues\n")
		for _, is := range r.ParsedIssues {
			sev := is.Severity
			if sev == "" {
				sev = "unknown"
			}
			fmt.Fprintf(&b, "\n- [%s] %s: %s", sev, is.Title, is.Description)
		}
		parts = append(parts, b.String())
	}
	return strings.Join(parts, "\n\n")
}

// ReviewsByModel groups message content and summaries per reviewer id,
// concatenating multi-round contributions.
func (r *Result) ReviewsByModel() map[string]string {
	reviews := make(map[string]string)
	for _, msg := range r.Messages {
		id := orUnknown(msg.ReviewerID)
		if prev, ok := reviews[id]; ok {
			reviews[id] = prev + "\n\n---\n\n" + msg.Content
		} else {
			reviews[id] = msg.Content
		}
	}
	for _, s := range r.Summaries {
		if s.Summary == "" {
			continue
		}
		id := orUnknown(s.ReviewerID)
		if prev, ok := reviews[id]; ok {
			reviews[id] = prev + "\n\n## Summary\n\n" + s.Summary
		} else {
			reviews[id] = s.Summary
		}
	}
	return reviews
}

// FirstRoundReviews returns each reviewer's earliest-round message only.
// Later debate rounds reference other participants, which would leak
// identities through the anonymization layer.
func (r *Result) FirstRoundReviews() map[string]string {
	minRound := make(map[string]int)
	for _, msg := range r.Messages {
		id := orUnknown(msg.ReviewerID)
		if cur, ok := minRound[id]; !ok || msg.Round < cur {
			minRound[id] = msg.Round
		}
	}

	reviews := make(map[string]string)
	for _, msg := range r.Messages {
		id := orUnknown(msg.ReviewerID)
		if msg.Round != minRound[id] {
			continue
		}
		if prev, ok := reviews[id]; ok {
			reviews[id] = prev + "\n\n" + msg.Content
		} else {
			reviews[id] = msg.Content
		}
	}
	return reviews
}

// ReviewerIDs returns the distinct reviewer ids in sorted order.
func (r *Result) ReviewerIDs() []string {
	set := make(map[string]bool)
	for _, msg := range r.Messages {
		set[orUnknown(msg.ReviewerID)] = true
	}
	ids := make([]string, 0, len(set))
	for id := range set {
		ids = append(ids, id)
	}
	sort.Strings(ids)
	return ids
}

func orUnknown(id string) string {
	if id == "" {
		return "unknown"
	}
	return id
}
