// Package anonymize builds the per-judging-pass pseudonym mappings that hide
// reviewer identities from judges, and reverses them for aggregation.
package anonymize

import (
	"fmt"
	"math/rand"
	"sort"
	"strings"
	"time"
)

// Mapping is a bijection between real model ids and pseudonym labels for one
// PR's judging pass. It is generated fresh per pass and persisted beside the
// judge outputs so verdicts can be attributed back afterwards.
type Mapping struct {
	// Forward maps model id -> label ("Reviewer A").
	Forward map[string]string `json:"mapping"`
	// Reverse maps label -> model id.
	Reverse map[string]string `json:"reverse"`
}

// New builds a random bijection over exactly the given model ids, drawing
// labels "Reviewer A", "Reviewer B", ... in order. The shuffle uses the
// given source; pass nil for time-seeded randomness.
func New(modelIDs []string, rng *rand.Rand) Mapping {
	if rng == nil {
		rng = rand.New(rand.NewSource(time.Now().UnixNano()))
	}

	shuffled := make([]string, len(modelIDs))
	copy(shuffled, modelIDs)
	rng.Shuffle(len(shuffled), func(i, j int) {
		shuffled[i], shuffled[j] = shuffled[j], shuffled[i]
	})

	m := Mapping{
		Forward: make(map[string]string, len(modelIDs)),
		Reverse: make(map[string]string, len(modelIDs)),
	}
	for i, id := range shuffled {
		label := Label(i)
		m.Forward[id] = label
		m.Reverse[label] = id
	}
	return m
}

// Label returns the i-th pseudonym from the fixed ordered label set, A
// through Z. The roster cap of 26 models is enforced at config load.
func Label(i int) string {
	return fmt.Sprintf("Reviewer %c", 'A'+i)
}

// Labels returns the mapping's labels in alphabetical order.
func (m Mapping) Labels() []string {
	labels := make([]string, 0, len(m.Reverse))
	for l := range m.Reverse {
		labels = append(labels, l)
	}
	sort.Strings(labels)
	return labels
}

// StripNames masks known model and provider names in review text so a
// reviewer's self-references do not leak through the pseudonyms. Names are
// applied longest-first to avoid partial-match leftovers.
func StripNames(text string, names []string) string {
	sorted := make([]string, 0, len(names))
	seen := make(map[string]bool, len(names))
	for _, n := range names {
		if n != "" && !seen[strings.ToLower(n)] {
			seen[strings.ToLower(n)] = true
			sorted = append(sorted, n)
		}
	}
	sort.Slice(sorted, func(i, j int) bool { return len(sorted[i]) > len(sorted[j]) })

	for _, n := range sorted {
		text = replaceFold(text, n, "[redacted]")
	}
	return text
}

// replaceFold replaces all case-insensitive occurrences of old in s.
func replaceFold(s, old, repl string) string {
	if old == "" {
		return s
	}
	var b strings.Builder
	lower := strings.ToLower(s)
	target := strings.ToLower(old)
	for {
		i := strings.Index(lower, target)
		if i < 0 {
			b.WriteString(s)
			return b.String()
		}
		b.WriteString(s[:i])
		b.WriteString(repl)
		s = s[i+len(old):]
		lower = lower[i+len(target):]
	}
}

// Render assembles the anonymized reviews block for a judge prompt: each
// review labeled only by pseudonym, in label order. The mapping itself never
// appears in the prompt.
func Render(m Mapping, reviews map[string]string) string {
	var parts []string
	for _, label := range m.Labels() {
		review, ok := reviews[m.Reverse[label]]
		if !ok || review == "" {
			review = "(no review found)"
		}
		parts = append(parts, fmt.Sprintf("### %s\n\n%s", label, review))
	}
	return strings.Join(parts, "\n\n---\n\n")
}
