package models

// Category classifies a PR by how it is evaluated.
type Category string

const (
	// CategoryHard PRs carry known bugs and are scored on detection.
	CategoryHard Category = "hard"
	// CategorySoft PRs have no known bugs; reviews are scored on quality only.
	CategorySoft Category = "soft"
)

// Difficulty is the ordered difficulty tier of a hard PR. Empty means untiered.
type Difficulty string

const (
	DifficultyL1 Difficulty = "L1"
	DifficultyL2 Difficulty = "L2"
	DifficultyL3 Difficulty = "L3"
)

// KnownBug describes one planted bug in a hard PR. The description is only
// ever used as judge-prompt input.
type KnownBug struct {
	ID          string `yaml:"id" json:"id"`
	Description string `yaml:"description" json:"description"`
}

// PRRecord is one pull request under evaluation. Immutable once loaded from
// the manifest.
type PRRecord struct {
	ID         string     `yaml:"id" json:"id"`
	URL        string     `yaml:"url" json:"url"`
	Title      string     `yaml:"title" json:"title"`
	Category   Category   `yaml:"category" json:"category"`
	Difficulty Difficulty `yaml:"difficulty" json:"difficulty"`
	KnownBugs  []KnownBug `yaml:"known_bugs" json:"known_bugs"`
}
