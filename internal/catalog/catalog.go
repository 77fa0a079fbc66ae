// Package catalog loads the game, map, Easter egg and achievement definitions
// and syncs them into the database. A loaded Catalog is immutable and is
// passed explicitly to whatever needs it.
package catalog

import (
	_ "embed"
	"errors"
	"fmt"
	"os"

	"gopkg.in/yaml.v3"

	"roundtracker/backend/internal/models"
	"roundtracker/backend/internal/progression"
)

//go:embed default.yaml
var defaultCatalog []byte

// File is the on-disk catalog format.
type File struct {
	Games        []GameSpec        `yaml:"games"`
	Achievements []AchievementSpec `yaml:"achievements"`
}

type GameSpec struct {
	Slug string    `yaml:"slug"`
	Name string    `yaml:"name"`
	Maps []MapSpec `yaml:"maps"`
}

type MapSpec struct {
	Slug       string          `yaml:"slug"`
	Name       string          `yaml:"name"`
	RoundCap   int             `yaml:"round_cap"`
	EasterEggs []EasterEggSpec `yaml:"easter_eggs"`
}

type EasterEggSpec struct {
	Slug string               `yaml:"slug"`
	Name string               `yaml:"name"`
	Type models.EasterEggType `yaml:"type"`
}

type AchievementSpec struct {
	Slug        string                     `yaml:"slug"`
	Map         string                     `yaml:"map"`
	Name        string                     `yaml:"name"`
	Type        models.AchievementType     `yaml:"type"`
	Description string                     `yaml:"description"`
	XPReward    int                        `yaml:"xp_reward"`
	Inactive    bool                       `yaml:"inactive"`
	Criteria    models.AchievementCriteria `yaml:"criteria"`
}

// key is the identity that must be unique across achievement definitions.
func (a AchievementSpec) key() string {
	return a.Map + "\x00" + a.Name + "\x00" + string(a.Type)
}

// Load reads the catalog at path, or the embedded default when path is empty.
func Load(path string) (*File, error) {
	data := defaultCatalog
	if path != "" {
		b, err := os.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("read catalog %s: %w", path, err)
		}
		data = b
	}
	return Parse(data)
}

// Parse decodes and validates a catalog document.
func Parse(data []byte) (*File, error) {
	var f File
	if err := yaml.Unmarshal(data, &f); err != nil {
		return nil, fmt.Errorf("decode catalog: %w", err)
	}
	if err := f.Validate(); err != nil {
		return nil, err
	}
	return &f, nil
}

// Validate checks slugs are unique, references resolve and no two
// achievements share the same (map, name, type) key.
func (f *File) Validate() error {
	var errs []error

	games := map[string]bool{}
	maps := map[string]bool{}
	eggs := map[string]string{} // egg slug -> map slug
	for _, g := range f.Games {
		if g.Slug == "" || g.Name == "" {
			errs = append(errs, fmt.Errorf("game %q: slug and name are required", g.Slug))
		}
		if games[g.Slug] {
			errs = append(errs, fmt.Errorf("duplicate game slug %q", g.Slug))
		}
		games[g.Slug] = true

		for _, m := range g.Maps {
			if m.Slug == "" || m.Name == "" {
				errs = append(errs, fmt.Errorf("map %q: slug and name are required", m.Slug))
			}
			if maps[m.Slug] {
				errs = append(errs, fmt.Errorf("duplicate map slug %q", m.Slug))
			}
			if m.RoundCap < 0 {
				errs = append(errs, fmt.Errorf("map %q: negative round cap", m.Slug))
			}
			maps[m.Slug] = true

			for _, e := range m.EasterEggs {
				if _, dup := eggs[e.Slug]; dup {
					errs = append(errs, fmt.Errorf("duplicate easter egg slug %q", e.Slug))
				}
				if !e.Type.Valid() {
					errs = append(errs, fmt.Errorf("easter egg %q: unknown type %q", e.Slug, e.Type))
				}
				eggs[e.Slug] = m.Slug
			}
		}
	}

	slugs := map[string]bool{}
	keys := map[string]string{}
	for _, a := range f.Achievements {
		if a.Slug == "" || a.Name == "" {
			errs = append(errs, fmt.Errorf("achievement %q: slug and name are required", a.Slug))
		}
		if slugs[a.Slug] {
			errs = append(errs, fmt.Errorf("duplicate achievement slug %q", a.Slug))
		}
		slugs[a.Slug] = true

		if other, dup := keys[a.key()]; dup {
			errs = append(errs, fmt.Errorf("achievement %q duplicates %q (same map, name and type)", a.Slug, other))
		}
		keys[a.key()] = a.Slug

		if a.Map != "" && !maps[a.Map] {
			errs = append(errs, fmt.Errorf("achievement %q: unknown map %q", a.Slug, a.Map))
		}
		if a.XPReward < 0 {
			errs = append(errs, fmt.Errorf("achievement %q: negative xp reward", a.Slug))
		}
		if ct := a.Criteria.ChallengeType; ct != "" && !progression.ChallengeType(ct).Valid() {
			errs = append(errs, fmt.Errorf("achievement %q: unknown challenge type %q", a.Slug, ct))
		}

		switch a.Type {
		case models.AchievementRoundMilestone:
			if a.Criteria.Round <= 0 {
				errs = append(errs, fmt.Errorf("achievement %q: round milestone needs a round", a.Slug))
			}
		case models.AchievementChallengeComplete:
			if a.Criteria.ChallengeType == "" {
				errs = append(errs, fmt.Errorf("achievement %q: challenge achievement needs a challenge type", a.Slug))
			}
		case models.AchievementEasterEggComplete:
			mapSlug, ok := eggs[a.Criteria.EasterEggSlug]
			if !ok {
				errs = append(errs, fmt.Errorf("achievement %q: unknown easter egg %q", a.Slug, a.Criteria.EasterEggSlug))
			} else if a.Map != "" && a.Map != mapSlug {
				errs = append(errs, fmt.Errorf("achievement %q: easter egg %q is not on map %q", a.Slug, a.Criteria.EasterEggSlug, a.Map))
			}
		default:
			errs = append(errs, fmt.Errorf("achievement %q: unknown type %q", a.Slug, a.Type))
		}
	}

	return errors.Join(errs...)
}
