package anonymize

import (
	"math/rand"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNew_Bijection(t *testing.T) {
	ids := []string{"claude", "gpt", "gemini", "qwen"}
	m := New(ids, rand.New(rand.NewSource(42)))

	require.Len(t, m.Forward, 4)
	require.Len(t, m.Reverse, 4)

	labels := make(map[string]bool)
	for id, label := range m.Forward {
		assert.Equal(t, id, m.Reverse[label], "reverse must invert forward")
		labels[label] = true
	}
	assert.Equal(t, map[string]bool{
		"Reviewer A": true, "Reviewer B": true, "Reviewer C": true, "Reviewer D": true,
	}, labels, "labels are drawn from the fixed ordered set")
}

func TestNew_Deterministic(t *testing.T) {
	ids := []string{"claude", "gpt", "gemini"}
	a := New(ids, rand.New(rand.NewSource(7)))
	b := New(ids, rand.New(rand.NewSource(7)))
	assert.Equal(t, a, b)
}

func TestNew_IndependentAcrossPasses(t *testing.T) {
	ids := []string{"claude", "gpt", "gemini", "qwen", "deepseek"}

	distinct := make(map[string]bool)
	for seed := int64(0); seed < 20; seed++ {
		m := New(ids, rand.New(rand.NewSource(seed)))
		distinct[m.Forward["claude"]+m.Forward["gpt"]+m.Forward["gemini"]] = true
	}
	assert.Greater(t, len(distinct), 1, "fresh passes must reshuffle")
}

func TestNew_DoesNotMutateInput(t *testing.T) {
	ids := []string{"claude", "gpt", "gemini"}
	New(ids, rand.New(rand.NewSource(3)))
	assert.Equal(t, []string{"claude", "gpt", "gemini"}, ids)
}

func TestLabel(t *testing.T) {
	assert.Equal(t, "Reviewer A", Label(0))
	assert.Equal(t, "Reviewer C", Label(2))
}

func TestLabels_Sorted(t *testing.T) {
	m := New([]string{"b", "a", "c"}, rand.New(rand.NewSource(1)))
	assert.Equal(t, []string{"Reviewer A", "Reviewer B", "Reviewer C"}, m.Labels())
}

func TestStripNames_CaseInsensitive(t *testing.T) {
	text := "Claude raised this first, and CLAUDE is right; gpt disagrees."
	got := StripNames(text, []string{"claude", "gpt"})
	assert.Equal(t, "[redacted] raised this first, and [redacted] is right; [redacted] disagrees.", got)
}

func TestStripNames_LongestFirst(t *testing.T) {
	text := "claude-sonnet and claude both appear"
	got := StripNames(text, []string{"claude", "claude-sonnet"})
	assert.Equal(t, "[redacted] and [redacted] both appear", got,
		"longer name must be masked before its prefix")
}

func TestStripNames_IgnoresEmptyAndDuplicates(t *testing.T) {
	got := StripNames("gpt said so", []string{"", "gpt", "GPT"})
	assert.Equal(t, "[redacted] said so", got)
}

func TestRender_LabelOrderWithPlaceholders(t *testing.T) {
	m := Mapping{
		Forward: map[string]string{"claude": "Reviewer B", "gpt": "Reviewer A"},
		Reverse: map[string]string{"Reviewer B": "claude", "Reviewer A": "gpt"},
	}
	reviews := map[string]string{"gpt": "fine by me"}

	out := Render(m, reviews)
	assert.Equal(t, "### Reviewer A\n\nfine by me\n\n---\n\n### Reviewer B\n\n(no review found)", out)
	assert.NotContains(t, out, "claude", "real ids never appear in the prompt block")
}
