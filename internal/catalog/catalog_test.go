package catalog

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/arenahq/arena/internal/config"
	"github.com/arenahq/arena/internal/models"
)

func testDataset(t *testing.T) (*config.Config, *config.Manifest) {
	t.Helper()
	cfg := &config.Config{
		Models: []models.ModelRecord{
			{ID: "claude", Provider: "anthropic-cli", JudgeCmd: "claude -p"},
			{ID: "gpt", Provider: "openai", JudgeCmd: "codex exec"},
			{ID: "gemini", Provider: "google", JudgeCmd: "gemini -p"},
		},
	}
	m := &config.Manifest{
		PRs: []models.PRRecord{
			{
				ID: "pr-100", URL: "https://github.com/o/r/pull/100",
				Category: models.CategoryHard, Difficulty: models.DifficultyL1,
				KnownBugs: []models.KnownBug{
					{ID: "race-1", Description: "data race"},
					{ID: "leak-2", Description: "goroutine leak"},
				},
			},
			{
				ID: "pr-200", URL: "https://github.com/o/r/pull/200",
				Category: models.CategoryHard, Difficulty: models.DifficultyL3,
				KnownBugs: []models.KnownBug{
					{ID: "off-by-one", Description: "boundary error"},
				},
			},
			{
				ID: "pr-300", URL: "https://github.com/o/r/pull/300",
				Category: models.CategorySoft,
			},
		},
	}
	return cfg, m
}

func TestReview_ExpandsHardPRsTimesModels(t *testing.T) {
	cfg, m := testDataset(t)

	tasks := Review(cfg, m, Filter{})
	assert.Len(t, tasks, 6, "2 hard PRs x 3 models")

	for _, task := range tasks {
		assert.Equal(t, PhaseReview, task.Phase)
		assert.NotEqual(t, "pr-300", task.PR, "soft PRs are not individually reviewed")
	}
}

func TestRaw_MatchesReviewExpansion(t *testing.T) {
	cfg, m := testDataset(t)
	assert.Len(t, Raw(cfg, m, Filter{}), 6)
}

func TestDebate_OnePerPRAllCategories(t *testing.T) {
	_, m := testDataset(t)

	tasks := Debate(m, Filter{}, false)
	require.Len(t, tasks, 3, "every PR gets exactly one debate")

	// The model filter narrows participants, never the task list.
	filtered := Debate(m, Filter{Model: "claude"}, false)
	assert.Len(t, filtered, 3)
}

func TestJudgeHard_FullCross(t *testing.T) {
	cfg, m := testDataset(t)

	tasks := JudgeHard(cfg, m, Filter{}, SourceReview)
	// (2+1) bugs x 3 reviewed x 3 judges
	assert.Len(t, tasks, 27)

	// Judging is a full cross including self-judging.
	self := 0
	for _, task := range tasks {
		if task.Model == task.Reviewed {
			self++
		}
	}
	assert.Equal(t, 9, self)
}

func TestJudgeSoft_PRsTimesJudges(t *testing.T) {
	cfg, m := testDataset(t)
	assert.Len(t, JudgeSoft(cfg, m, Filter{}), 9, "3 PRs x 3 judges")
}

func TestFilter_Intersection(t *testing.T) {
	cfg, m := testDataset(t)

	tasks := Review(cfg, m, Filter{PR: "pr-100", Model: "gpt"})
	require.Len(t, tasks, 1)
	assert.Equal(t, "pr-100", tasks[0].PR)
	assert.Equal(t, "gpt", tasks[0].Model)

	assert.Empty(t, Review(cfg, m, Filter{PR: "pr-300"}), "soft PR matches no review task")
}

func TestJudgeHard_ModelFilterNarrowsJudgeOnly(t *testing.T) {
	cfg, m := testDataset(t)

	tasks := JudgeHard(cfg, m, Filter{Model: "claude"}, SourceRaw)
	assert.Len(t, tasks, 9, "3 bugs x 3 reviewed x 1 judge")
	for _, task := range tasks {
		assert.Equal(t, "claude", task.Model)
	}
}

func TestParticipants_PreservesRosterOrder(t *testing.T) {
	cfg, _ := testDataset(t)

	all := Participants(cfg, Filter{})
	require.Len(t, all, 3)
	assert.Equal(t, "claude", all[0].ID)

	one := Participants(cfg, Filter{Model: "gemini"})
	require.Len(t, one, 1)
	assert.Equal(t, "gemini", one[0].ID)
}

func TestPath_AllPhases(t *testing.T) {
	tests := []struct {
		task Task
		want string
	}{
		{Task{Phase: PhaseRaw, PR: "pr-1", Model: "gpt"}, "raw/pr-1/gpt.json"},
		{Task{Phase: PhaseReview, PR: "pr-1", Model: "gpt"}, "review/pr-1/gpt.json"},
		{Task{Phase: PhaseDebate, PR: "pr-1"}, "debate/pr-1/debate.json"},
		{Task{Phase: PhaseDebate, PR: "pr-1", NoContext: true}, "debate-nocontext/pr-1/debate.json"},
		{
			Task{Phase: PhaseJudgeHard, Source: SourceReview, PR: "pr-1", Bug: "race-1", Reviewed: "gpt", Model: "claude"},
			"judge/hard/review/pr-1/gpt_bug_race-1_by_claude.json",
		},
		{Task{Phase: PhaseJudgeSoft, PR: "pr-1", Model: "claude"}, "judge/soft/pr-1/claude.json"},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, tt.task.Path())
	}
}

func TestPath_Injective(t *testing.T) {
	cfg, m := testDataset(t)

	var all []Task
	all = append(all, Raw(cfg, m, Filter{})...)
	all = append(all, Review(cfg, m, Filter{})...)
	all = append(all, Debate(m, Filter{}, false)...)
	all = append(all, Debate(m, Filter{}, true)...)
	all = append(all, JudgeHard(cfg, m, Filter{}, SourceRaw)...)
	all = append(all, JudgeHard(cfg, m, Filter{}, SourceReview)...)
	all = append(all, JudgeSoft(cfg, m, Filter{})...)

	seen := make(map[string]Task, len(all))
	for _, task := range all {
		p := task.Path()
		prev, dup := seen[p]
		require.False(t, dup, "path %s produced by both %+v and %+v", p, prev, task)
		seen[p] = task
	}
}

func TestParsePath_RoundTrip(t *testing.T) {
	cfg, m := testDataset(t)

	var all []Task
	all = append(all, Raw(cfg, m, Filter{})...)
	all = append(all, Review(cfg, m, Filter{})...)
	all = append(all, Debate(m, Filter{}, false)...)
	all = append(all, Debate(m, Filter{}, true)...)
	all = append(all, JudgeHard(cfg, m, Filter{}, SourceRaw)...)
	all = append(all, JudgeSoft(cfg, m, Filter{})...)

	for _, task := range all {
		got, err := ParsePath(task.Path())
		require.NoError(t, err, "path %s", task.Path())
		assert.Equal(t, task, got)
	}
}

func TestParsePath_Rejects(t *testing.T) {
	bad := []string{
		"",
		"raw/pr-1",
		"raw/pr-1/gpt.txt",
		"debate/pr-1/other.json",
		"judge/hard/review/pr-1/malformed.json",
		"judge/soft/pr-1/mapping.json",
		"reports/hard_scores.csv",
	}
	for _, p := range bad {
		_, err := ParsePath(p)
		assert.Error(t, err, "path %q should not parse", p)
	}
}

func TestMappingPath(t *testing.T) {
	assert.Equal(t, "judge/soft/pr-1/mapping.json", MappingPath("pr-1"))
}
