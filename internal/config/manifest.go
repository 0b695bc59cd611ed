package config

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"

	"github.com/arenahq/arena/internal/models"
)

// Manifest is the declarative PR dataset. Read-only after load.
type Manifest struct {
	PRs []models.PRRecord `yaml:"prs"`
}

// LoadManifest reads and validates the PR manifest from the given path.
func LoadManifest(path string) (*Manifest, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read manifest: %w", err)
	}

	var m Manifest
	if err := yaml.Unmarshal(data, &m); err != nil {
		return nil, fmt.Errorf("parse manifest %s: %w", path, err)
	}
	if err := m.Validate(); err != nil {
		return nil, fmt.Errorf("manifest %s: %w", path, err)
	}
	return &m, nil
}

// Validate checks manifest invariants: unique ids, legal enums, well-formed
// bug descriptors.
func (m *Manifest) Validate() error {
	if len(m.PRs) == 0 {
		return fmt.Errorf("no PRs defined")
	}

	seen := make(map[string]bool, len(m.PRs))
	for _, pr := range m.PRs {
		if !identRe.MatchString(pr.ID) {
			return fmt.Errorf("pr id %q: must match %s", pr.ID, identRe)
		}
		if seen[pr.ID] {
			return fmt.Errorf("duplicate pr id %q", pr.ID)
		}
		seen[pr.ID] = true

		if pr.URL == "" {
			return fmt.Errorf("pr %s: url is required", pr.ID)
		}
		switch pr.Category {
		case models.CategoryHard, models.CategorySoft:
		default:
			return fmt.Errorf("pr %s: category must be hard or soft, got %q", pr.ID, pr.Category)
		}
		switch pr.Difficulty {
		case "", models.DifficultyL1, models.DifficultyL2, models.DifficultyL3:
		default:
			return fmt.Errorf("pr %s: unknown difficulty %q", pr.ID, pr.Difficulty)
		}
		if pr.Category == models.CategoryHard && len(pr.KnownBugs) == 0 {
			return fmt.Errorf("pr %s: hard PRs need at least one known bug", pr.ID)
		}

		bugs := make(map[string]bool, len(pr.KnownBugs))
		for _, b := range pr.KnownBugs {
			if !identRe.MatchString(b.ID) {
				return fmt.Errorf("pr %s: bug id %q must match %s", pr.ID, b.ID, identRe)
			}
			if bugs[b.ID] {
				return fmt.Errorf("pr %s: duplicate bug id %q", pr.ID, b.ID)
			}
			bugs[b.ID] = true
			if b.Description == "" {
				return fmt.Errorf("pr %s: bug %s has no description", pr.ID, b.ID)
			}
		}
	}
	return nil
}

// HardPRs returns PRs in the hard category, in manifest order.
func (m *Manifest) HardPRs() []models.PRRecord {
	var out []models.PRRecord
	for _, pr := range m.PRs {
		if pr.Category == models.CategoryHard {
			out = append(out, pr)
		}
	}
	return out
}

// PR returns the PR with the given id, or nil.
func (m *Manifest) PR(id string) *models.PRRecord {
	for i := range m.PRs {
		if m.PRs[i].ID == id {
			return &m.PRs[i]
		}
	}
	return nil
}
